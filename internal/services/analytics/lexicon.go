package analytics

import "strings"

// Keyword lexicons for scoring financial news. Hawkish/dovish terms
// proxy central-bank stance, which dominates forex sentiment.
var (
	bullishTerms = []string{
		"rally", "surge", "gain", "strengthen", "strengthens", "bullish",
		"rebound", "recover", "recovery", "upbeat", "optimism", "optimistic",
		"outperform", "beat expectations", "strong growth", "record high",
		"upgrade", "upgraded", "soar", "climbs", "climb", "advance",
	}
	bearishTerms = []string{
		"fall", "plunge", "drop", "weaken", "weakens", "bearish", "slump",
		"decline", "recession", "downturn", "pessimism", "pessimistic",
		"underperform", "miss expectations", "record low", "downgrade",
		"downgraded", "sell-off", "selloff", "tumble", "slide", "crisis",
	}
	hawkishTerms = []string{
		"hawkish", "rate hike", "raise rates", "tighten", "tightening",
		"higher for longer", "inflation fight", "restrictive",
	}
	dovishTerms = []string{
		"dovish", "rate cut", "cut rates", "easing", "stimulus",
		"quantitative easing", "accommodative", "pause hikes",
	}
	negationTerms = []string{
		"not", "no", "never", "unlikely", "fails to", "without",
	}
)

// scoreText counts lexicon hits in lowercased text and returns a raw
// score (positive bullish) plus the number of matched terms.
func scoreText(text string) (float64, int) {
	t := strings.ToLower(text)
	neg := containsAny(t, negationTerms)

	score, hits := 0.0, 0
	for _, term := range bullishTerms {
		if strings.Contains(t, term) {
			score++
			hits++
		}
	}
	for _, term := range bearishTerms {
		if strings.Contains(t, term) {
			score--
			hits++
		}
	}
	// central-bank stance weighs heavier than generic market wording
	for _, term := range hawkishTerms {
		if strings.Contains(t, term) {
			score += 1.5
			hits++
		}
	}
	for _, term := range dovishTerms {
		if strings.Contains(t, term) {
			score -= 1.5
			hits++
		}
	}

	// a negated headline flips weakly rather than fully
	if neg {
		score *= -0.5
	}
	return score, hits
}

func containsAny(t string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(t, term) {
			return true
		}
	}
	return false
}
