package analytics

import (
	domsvc "FxSignals/internal/domain/service"
)

// StepAchievementModel estimates target-achievement probability from a
// step table on the target-to-weekly-range ratio, tempered by signal
// confidence. Targets inside half a typical week's range are very
// likely to print; targets beyond a full week's range rarely do.
type StepAchievementModel struct{}

func NewStepAchievementModel() *StepAchievementModel { return &StepAchievementModel{} }

func (StepAchievementModel) Probability(targetPips, weeklyRangePips, confidence float64) float64 {
	if targetPips <= 0 || weeklyRangePips <= 0 {
		return 0
	}

	ratio := targetPips / weeklyRangePips
	var base float64
	switch {
	case ratio <= 0.5:
		base = 0.8
	case ratio <= 0.7:
		base = 0.65
	case ratio <= 1.0:
		base = 0.5
	default:
		base = 0.3
	}

	// more breathing room for the same target raises the odds slightly
	timeFactor := clamp(1.1-ratio*0.2, 0.8, 1.1)

	return clamp(base*timeFactor*clamp(confidence, 0, 1), 0, 1)
}

var _ domsvc.AchievementModel = (*StepAchievementModel)(nil)
