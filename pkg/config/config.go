package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"FxSignals/internal/domain/models"
	"FxSignals/pkg/util"
)

// ProviderConfig describes one external data source.
type ProviderConfig struct {
	Name         string        `yaml:"name" validate:"required"`
	BaseURL      string        `yaml:"base_url"`
	APIKey       string        `yaml:"api_key"`
	CallsPerDay  int           `yaml:"calls_per_day" default:"1000"`
	CallsPerMin  int           `yaml:"calls_per_minute" default:"30"`
	Timeout      time.Duration `yaml:"timeout" default:"10s"`
}

// ChainConfig is an ordered provider chain for one data category.
type ChainConfig struct {
	Providers []string      `yaml:"providers" validate:"min=1"`
	Deadline  time.Duration `yaml:"deadline" default:"15s"`
	CacheTTL  time.Duration `yaml:"cache_ttl" default:"5m"`
}

type Config struct {
	Environment string `yaml:"environment" validate:"required"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"15s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Pairs     []string                  `yaml:"pairs" validate:"min=1"`
	Providers []ProviderConfig          `yaml:"providers" validate:"min=1,dive"`
	Chains    map[string]ChainConfig    `yaml:"chains"`
	Stream    struct {
		Enabled        bool          `yaml:"enabled"`
		APIKey         string        `yaml:"api_key"`
		WebSocketURL   string        `yaml:"websocket_url"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay" default:"5s"`
		PingInterval   time.Duration `yaml:"ping_interval" default:"20s"`
	} `yaml:"stream"`
	Cache struct {
		Strategy  string `yaml:"strategy" default:"memory" validate:"oneof=memory redis layered"`
		KeyPrefix string `yaml:"key_prefix" default:"fxsignals"`
		Redis     struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
		MaxEntries int `yaml:"max_entries" default:"10000"`
	} `yaml:"cache"`
	Breaker struct {
		FailureThreshold int           `yaml:"failure_threshold" default:"5"`
		SuccessThreshold int           `yaml:"success_threshold" default:"3"`
		RecoveryTimeout  time.Duration `yaml:"recovery_timeout" default:"60s"`
		MaxCooldown      time.Duration `yaml:"max_cooldown" default:"30m"`
	} `yaml:"breaker"`
	Validation struct {
		MinSources  int           `yaml:"min_sources" default:"3"`
		MaxVariance float64       `yaml:"max_variance" default:"0.008"`
		CacheTTL    time.Duration `yaml:"cache_ttl" default:"5m"`
	} `yaml:"validation"`
	Analysis struct {
		Weights struct {
			Technical    float64 `yaml:"technical" default:"0.35"`
			Economic     float64 `yaml:"economic" default:"0.25"`
			Sentiment    float64 `yaml:"sentiment" default:"0.20"`
			Geopolitical float64 `yaml:"geopolitical" default:"0.10"`
			Pattern      float64 `yaml:"pattern" default:"0.10"`
		} `yaml:"weights"`
		WeakThreshold   float64       `yaml:"weak_threshold" default:"0.2"`
		StrongThreshold float64       `yaml:"strong_threshold" default:"0.5"`
		CoverageFloor   float64       `yaml:"coverage_floor" default:"0.5"`
		MinTargetPips   float64       `yaml:"min_target_pips" default:"50"`
		MaxTargetPips   float64       `yaml:"max_target_pips" default:"200"`
		MinRiskReward   float64       `yaml:"min_risk_reward" default:"2.0"`
		SignalTTL       time.Duration `yaml:"signal_ttl" default:"15m"`
		CandleCount     int           `yaml:"candle_count" default:"100"`
		NewsWindow      time.Duration `yaml:"news_window" default:"48h"`
		EventWindow     time.Duration `yaml:"event_window" default:"168h"`
	} `yaml:"analysis"`
	Batch struct {
		Workers    int           `yaml:"workers" default:"4"`
		QueueSize  int           `yaml:"queue_size" default:"64"`
		RetryLimit int           `yaml:"retry_limit" default:"1"`
		RetryDelay time.Duration `yaml:"retry_delay" default:"2s"`
		Timeout    time.Duration `yaml:"timeout" default:"2m"`
	} `yaml:"batch"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"fx.signals"`
		LogsTopic    string   `yaml:"logs_topic"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			BatchTimeout time.Duration `yaml:"batch_timeout" default:"1s"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			RequestTopic string        `yaml:"request_topic"`
			GroupID      string        `yaml:"group_id" default:"fxsignals"`
			Workers      int           `yaml:"workers" default:"2"`
			BufferSize   int           `yaml:"buffer_size" default:"32"`
			RetryMax     int           `yaml:"retry_max" default:"3"`
			BackoffMin   time.Duration `yaml:"backoff_min" default:"50ms"`
			BackoffMax   time.Duration `yaml:"backoff_max" default:"2s"`
			DLQTopic     string        `yaml:"dlq_topic"`
			MinBytes     int           `yaml:"min_bytes" default:"1024"`
			MaxBytes     int           `yaml:"max_bytes" default:"10485760"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.Server.Port = util.ParseIntDefault(os.Getenv("SERVER_PORT"), c.Server.Port)
	if v := os.Getenv("PAIRS"); v != "" {
		c.Pairs = strings.Split(v, ",")
	}
	if v := os.Getenv("STREAM_API_KEY"); v != "" {
		c.Stream.APIKey = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	for i := range c.Providers {
		env := strings.ToUpper(strings.ReplaceAll(c.Providers[i].Name, "-", "_")) + "_API_KEY"
		if v := os.Getenv(env); v != "" {
			c.Providers[i].APIKey = v
		}
	}

	return c, nil
}

var validate = validator.New()

// Validate checks if the configuration is valid. Failures wrap
// models.ErrConfiguration, which is fatal at startup.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", models.ErrConfiguration, err)
	}
	known := make(map[string]bool, len(c.Providers))
	for _, p := range c.Providers {
		if known[p.Name] {
			return fmt.Errorf("duplicate provider %q: %w", p.Name, models.ErrConfiguration)
		}
		known[p.Name] = true
	}
	if c.Stream.Enabled {
		// the streamed quote book registers under this name and may be
		// ranked in price chains
		known["stream"] = true
	}
	for cat, chain := range c.Chains {
		for _, name := range chain.Providers {
			if !known[name] {
				return fmt.Errorf("chain %q references unknown provider %q: %w", cat, name, models.ErrConfiguration)
			}
		}
	}
	if c.Cache.Strategy != "memory" && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required for strategy %q: %w", c.Cache.Strategy, models.ErrConfiguration)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled: %w", models.ErrConfiguration)
	}
	if c.Analysis.WeakThreshold >= c.Analysis.StrongThreshold {
		return fmt.Errorf("analysis.weak_threshold must be below strong_threshold: %w", models.ErrConfiguration)
	}
	return nil
}

// Provider returns the provider config by name.
func (c *Config) Provider(name string) (ProviderConfig, bool) {
	for _, p := range c.Providers {
		if p.Name == name {
			return p, true
		}
	}
	return ProviderConfig{}, false
}
