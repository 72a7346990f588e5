package analytics

import (
	"math"
	"time"
)

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// mean returns the arithmetic mean, 0 for an empty slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev returns the population standard deviation.
func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}

// recencyWeight decays linearly from 1 at age zero to floor at maxAge.
func recencyWeight(age, maxAge time.Duration, floor float64) float64 {
	if maxAge <= 0 || age <= 0 {
		return 1
	}
	if age >= maxAge {
		return floor
	}
	frac := float64(age) / float64(maxAge)
	return 1 - (1-floor)*frac
}

// renormalize scales weights so the present entries sum to 1.
// Returns nil when the total weight is zero.
func renormalize(weights map[string]float64) map[string]float64 {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		return nil
	}
	out := make(map[string]float64, len(weights))
	for k, w := range weights {
		out[k] = w / total
	}
	return out
}
