package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"FxSignals/internal/domain/models"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadStreamInPriceChain(t *testing.T) {
	path := writeConfig(t, `
environment: test
pairs: ["EUR/USD"]
providers:
  - name: exchangerate
    base_url: https://api.exchangerate.host
chains:
  price:
    providers: [stream, exchangerate]
stream:
  enabled: true
  websocket_url: wss://stream.example/ws
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	chain := cfg.Chains["price"]
	if len(chain.Providers) != 2 || chain.Providers[0] != "stream" {
		t.Fatalf("price chain = %v, want stream ranked first", chain.Providers)
	}
}

func TestLoadRejectsStreamWhenDisabled(t *testing.T) {
	path := writeConfig(t, `
environment: test
pairs: ["EUR/USD"]
providers:
  - name: exchangerate
    base_url: https://api.exchangerate.host
chains:
  price:
    providers: [stream, exchangerate]
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("load should fail when a chain names the stream but streaming is disabled")
	}
	if !errors.Is(err, models.ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
	if !strings.Contains(err.Error(), `unknown provider "stream"`) {
		t.Fatalf("err = %v, want unknown provider mention", err)
	}
}

func TestValidateFailuresWrapConfigurationSentinel(t *testing.T) {
	path := writeConfig(t, `
environment: test
pairs: ["EUR/USD"]
providers:
  - name: exchangerate
  - name: exchangerate
`)

	_, err := Load(path)
	if !errors.Is(err, models.ErrConfiguration) {
		t.Fatalf("duplicate provider err = %v, want ErrConfiguration", err)
	}

	path = writeConfig(t, `
environment: test
pairs: ["EUR/USD"]
providers:
  - name: exchangerate
analysis:
  weak_threshold: 0.6
  strong_threshold: 0.5
`)

	_, err = Load(path)
	if !errors.Is(err, models.ErrConfiguration) {
		t.Fatalf("threshold err = %v, want ErrConfiguration", err)
	}
}
