package analytics

import "testing"

func TestStepAchievementProbability(t *testing.T) {
	m := NewStepAchievementModel()

	cases := []struct {
		name       string
		target     float64
		weekly     float64
		confidence float64
		want       float64
	}{
		// ratio 0.4: base 0.8, time factor 1.1-0.08=1.02
		{"easy target", 40, 100, 1, 0.8 * 1.02},
		// ratio 0.6: base 0.65, time factor 0.98
		{"moderate target", 60, 100, 1, 0.65 * 0.98},
		// ratio 0.9: base 0.5, time factor 0.92
		{"stretch target", 90, 100, 1, 0.5 * 0.92},
		// ratio 1.5: base 0.3, time factor clamps to 0.8
		{"beyond weekly range", 150, 100, 1, 0.3 * 0.8},
		// confidence scales the result linearly
		{"half confidence", 40, 100, 0.5, 0.8 * 1.02 * 0.5},
	}
	for _, tc := range cases {
		got := m.Probability(tc.target, tc.weekly, tc.confidence)
		if !almostEqual(got, tc.want, 1e-9) {
			t.Fatalf("%s: probability = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestStepAchievementDegenerateInputs(t *testing.T) {
	m := NewStepAchievementModel()
	if got := m.Probability(0, 100, 1); got != 0 {
		t.Fatalf("zero target probability = %v, want 0", got)
	}
	if got := m.Probability(80, 0, 1); got != 0 {
		t.Fatalf("zero range probability = %v, want 0", got)
	}
	if got := m.Probability(40, 100, 2); got != 0.8*1.02 {
		t.Fatalf("overconfident probability = %v, want confidence clamped to 1", got)
	}
}
