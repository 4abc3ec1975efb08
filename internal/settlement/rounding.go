// internal/settlement/rounding.go
package settlement

import "github.com/janlog/janlog/internal/models"

// granularity is the reporting granularity all rounding modes snap to.
const granularity = 100

// ApplyRounding normalizes a raw final score to the room's reporting
// granularity. It is total for any integer input; unknown modes behave as
// "none" (config validation rejects them before settlement).
func ApplyRounding(score int, mode models.RoundingMode) int {
	switch mode {
	case models.RoundingFloor:
		return floorToGranularity(score)
	case models.RoundingCeil:
		// ceil(x) == -floor(-x)
		return -floorToGranularity(-score)
	case models.RoundingNearest:
		return nearestToGranularity(score)
	default:
		return score
	}
}

// floorToGranularity rounds toward negative infinity, also for negative scores.
func floorToGranularity(score int) int {
	r := score % granularity
	if r < 0 {
		r += granularity
	}
	return score - r
}

// nearestToGranularity rounds to the nearest multiple, ties away from zero.
func nearestToGranularity(score int) int {
	if score < 0 {
		return -nearestToGranularity(-score)
	}
	return (score + granularity/2) / granularity * granularity
}
