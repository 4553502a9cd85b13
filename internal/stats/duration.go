package stats

import (
	"math"

	"github.com/noah-isme/phdstats-api/internal/models"
)

const daysPerYear = 365.25

// ComputeDuration converts two estimates into a time-to-degree. The result is
// exact only when both estimates are exact; otherwise it is a lower bound.
func ComputeDuration(enrollment, completion models.DateEstimate) models.DurationEstimate {
	if !enrollment.Known() || !completion.Known() {
		return models.DurationEstimate{LowerBound: true}
	}
	years := completion.Date.Sub(enrollment.Date).Hours() / 24 / daysPerYear
	if enrollment.Concrete() && completion.Concrete() {
		return models.DurationEstimate{Years: round2(years)}
	}
	if years < 0 {
		years = 0
	}
	return models.DurationEstimate{Years: round2(years), LowerBound: true}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
