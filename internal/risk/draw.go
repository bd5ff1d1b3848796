package risk

import "time"

// Draw scoring penalties. The draw score is higher-is-safer on a 0-100
// scale, the opposite polarity of the 0-1 portfolio risk scores. Both
// conventions are load-bearing for their consumers.
const (
	drawStartScore          = 100
	largeAmountPenalty      = 20
	shortDescriptionPenalty = 10
	recentDrawPenalty       = 15

	largeAmountThreshold = 100000
	minDescriptionLength = 15
	recentDrawWindow     = 7 * 24 * time.Hour
)

// ScoreDraw computes the point-deduction score for a construction draw
// submission. Each penalty fires independently; the result is floored at 0.
func ScoreDraw(amount float64, description string, lastSubmittedAt *time.Time, now time.Time) int {
	score := drawStartScore

	if amount > largeAmountThreshold {
		score -= largeAmountPenalty
	}
	if len(description) < minDescriptionLength {
		score -= shortDescriptionPenalty
	}
	if lastSubmittedAt != nil && now.Sub(*lastSubmittedAt) <= recentDrawWindow {
		score -= recentDrawPenalty
	}

	if score < 0 {
		score = 0
	}
	return score
}
