package pricing

import (
	"errors"
	"math"
	"testing"

	"FxSignals/internal/domain/models"
)

func quotes(pair models.Pair, prices ...float64) []models.Quote {
	out := make([]models.Quote, len(prices))
	for i, p := range prices {
		out[i] = models.Quote{Pair: pair, Price: p, Provider: string(rune('a' + i))}
	}
	return out
}

func TestValidateAgreeingSources(t *testing.T) {
	v := NewValidator(3, 0.005)

	vp, err := v.Validate("EUR/USD", quotes("EUR/USD", 1.1050, 1.1052, 1.1049))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := (1.1050 + 1.1052 + 1.1049) / 3
	if math.Abs(vp.Price-want) > 1e-9 {
		t.Fatalf("price = %.6f, want %.6f", vp.Price, want)
	}
	if vp.Sources != 3 || vp.Excluded != 0 {
		t.Fatalf("sources/excluded = %d/%d, want 3/0", vp.Sources, vp.Excluded)
	}
	if vp.Confidence < 0.7 {
		t.Fatalf("confidence = %.3f, want high for tight agreement", vp.Confidence)
	}
}

func TestValidateOutlierBreaksQuorum(t *testing.T) {
	v := NewValidator(3, 0.005)

	// 1.1200 deviates >0.5% from the median 1.1052; exclusion leaves 2 < 3
	_, err := v.Validate("EUR/USD", quotes("EUR/USD", 1.1050, 1.1052, 1.1200))
	if !errors.Is(err, models.ErrPriceVariance) {
		t.Fatalf("err = %v, want ErrPriceVariance", err)
	}
}

func TestValidateTooFewQuotes(t *testing.T) {
	v := NewValidator(3, 0.005)

	_, err := v.Validate("EUR/USD", quotes("EUR/USD", 1.1050, 1.1052))
	if !errors.Is(err, models.ErrInsufficientData) {
		t.Fatalf("err = %v, want ErrInsufficientData", err)
	}
}

func TestValidateOutlierExcludedWithQuorum(t *testing.T) {
	v := NewValidator(3, 0.005)

	vp, err := v.Validate("EUR/USD", quotes("EUR/USD", 1.1050, 1.1052, 1.1049, 1.1300))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vp.Excluded != 1 || vp.Sources != 3 {
		t.Fatalf("sources/excluded = %d/%d, want 3/1", vp.Sources, vp.Excluded)
	}
	want := (1.1050 + 1.1052 + 1.1049) / 3
	if math.Abs(vp.Price-want) > 1e-9 {
		t.Fatalf("price = %.6f, want %.6f without the outlier", vp.Price, want)
	}
}
