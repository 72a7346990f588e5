package usecase

import (
	"testing"
	"time"
)

func TestSessionMultiplier(t *testing.T) {
	cases := []struct {
		hour int
		want float64
	}{
		{3, 0.8},   // Asian
		{9, 1.2},   // London
		{14, 1.3},  // London/NY overlap
		{19, 1.1},  // New York
		{23, 1.0},  // off hours
		{0, 0.8},   // Asian open
		{13, 1.3},  // overlap start
		{17, 1.1},  // NY start
	}
	for _, tc := range cases {
		at := time.Date(2025, 3, 10, tc.hour, 30, 0, 0, time.UTC)
		if got := sessionMultiplier(at); got != tc.want {
			t.Fatalf("hour %d: multiplier = %v, want %v", tc.hour, got, tc.want)
		}
	}
}
