package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/phdstats-api/internal/models"
)

func TestComputeDurationConcrete(t *testing.T) {
	got := ComputeDuration(models.ExactDate(day(2018, time.January, 1)), models.ExactDate(day(2023, time.January, 1)))

	assert.Equal(t, models.DurationEstimate{Years: 5}, got)
	assert.Equal(t, "5.00", got.String())
}

func TestComputeDurationRoundsToTwoDecimals(t *testing.T) {
	got := ComputeDuration(models.ExactDate(day(2019, time.March, 17)), models.ExactDate(day(2024, time.October, 2)))

	assert.False(t, got.LowerBound)
	assert.InDelta(t, 5.55, got.Years, 1e-9)
}

func TestComputeDurationLowerBound(t *testing.T) {
	got := ComputeDuration(models.Before(day(2019, time.January, 1)), models.ExactDate(day(2021, time.January, 1)))

	assert.Equal(t, models.DurationEstimate{Years: 2, LowerBound: true}, got)
	assert.Equal(t, "> 2.00", got.String())
}

func TestComputeDurationUnknownAnchor(t *testing.T) {
	got := ComputeDuration(models.Before(time.Time{}), models.After(day(2021, time.June, 1)))

	assert.Equal(t, models.DurationEstimate{LowerBound: true}, got)
	assert.Equal(t, "> 0.00", got.String())
}

func TestComputeDurationClampsNegativeLowerBound(t *testing.T) {
	got := ComputeDuration(models.Before(day(2022, time.January, 1)), models.After(day(2021, time.January, 1)))

	assert.Equal(t, models.DurationEstimate{LowerBound: true}, got)
}

func TestComputeDurationConcreteIffBothConcrete(t *testing.T) {
	start := day(2017, time.September, 1)
	end := day(2022, time.May, 15)
	enrollments := []models.DateEstimate{models.ExactDate(start), models.Before(start), models.Before(time.Time{})}
	completions := []models.DateEstimate{models.ExactDate(end), models.After(end), models.After(time.Time{})}

	for _, enrollment := range enrollments {
		for _, completion := range completions {
			got := ComputeDuration(enrollment, completion)
			want := enrollment.Concrete() && completion.Concrete()
			assert.Equal(t, want, got.Concrete(), "enrollment %s completion %s", enrollment, completion)
		}
	}
}
