package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/phdstats-api/internal/models"
)

func programSnapshots() []time.Time {
	return []time.Time{
		day(2019, time.January, 1),
		day(2019, time.June, 1),
		day(2020, time.January, 1),
		day(2020, time.June, 1),
		day(2021, time.June, 1),
	}
}

func TestInferStudentDatesBracketedOnBothSides(t *testing.T) {
	record := models.StudentRecord{
		StartDate: day(2019, time.June, 1),
		EndDate:   day(2020, time.January, 1),
	}

	got := InferStudentDates(record, programSnapshots())

	assert.Equal(t, models.ExactDate(time.Date(2019, time.March, 17, 12, 0, 0, 0, time.UTC)), got.EnrollmentDate)
	assert.Equal(t, models.ExactDate(day(2020, time.March, 17)), got.CompletionDate)
	assert.True(t, got.EnrollmentDate.Concrete())
	assert.True(t, got.CompletionDate.Concrete())
}

func TestInferStudentDatesStartAtFirstSnapshot(t *testing.T) {
	record := models.StudentRecord{
		StartDate: day(2019, time.January, 1),
		EndDate:   day(2020, time.January, 1),
	}

	got := InferStudentDates(record, programSnapshots())

	assert.Equal(t, models.Before(day(2019, time.January, 1)), got.EnrollmentDate)
	assert.Equal(t, "< 01/01/2019", got.EnrollmentDate.String())
	assert.False(t, got.EnrollmentDate.Concrete())
}

func TestInferStudentDatesActiveStudentIsOpenEnded(t *testing.T) {
	record := models.StudentRecord{
		StartDate: day(2020, time.January, 1),
		Active:    true,
	}

	got := InferStudentDates(record, programSnapshots())

	assert.Equal(t, models.After(day(2021, time.June, 1)), got.CompletionDate)
	assert.Equal(t, "> 06/01/2021", got.CompletionDate.String())
}

func TestInferStudentDatesActiveUsesLaterRawEnd(t *testing.T) {
	record := models.StudentRecord{
		StartDate: day(2020, time.January, 1),
		EndDate:   day(2022, time.March, 3),
		Active:    true,
	}

	got := InferStudentDates(record, programSnapshots())

	assert.Equal(t, models.After(day(2022, time.March, 3)), got.CompletionDate)
}

func TestInferStudentDatesActiveWithoutSnapshots(t *testing.T) {
	record := models.StudentRecord{
		StartDate: day(2020, time.January, 1),
		EndDate:   day(2020, time.June, 1),
		Active:    true,
	}

	got := InferStudentDates(record, nil)

	assert.Equal(t, models.Before(day(2020, time.January, 1)), got.EnrollmentDate)
	assert.Equal(t, models.After(day(2020, time.June, 1)), got.CompletionDate)
}

func TestInferStudentDatesEndAtLastSnapshot(t *testing.T) {
	record := models.StudentRecord{
		StartDate: day(2020, time.January, 1),
		EndDate:   day(2021, time.June, 1),
	}

	got := InferStudentDates(record, programSnapshots())

	assert.True(t, got.EnrollmentDate.Concrete())
	assert.Equal(t, models.After(day(2021, time.June, 1)), got.CompletionDate)
}

// A student spanning the whole observation window cannot be bracketed on
// either side: the history is too short, not corrupt.
func TestInferStudentDatesSpanningWholeHistoryStaysOpen(t *testing.T) {
	snapshots := programSnapshots()
	record := models.StudentRecord{
		StartDate: snapshots[0],
		EndDate:   snapshots[len(snapshots)-1],
	}

	got := InferStudentDates(record, snapshots)

	assert.Equal(t, models.Before(snapshots[0]), got.EnrollmentDate)
	assert.Equal(t, models.After(snapshots[len(snapshots)-1]), got.CompletionDate)
	assert.True(t, ComputeDuration(got.EnrollmentDate, got.CompletionDate).LowerBound)
}

func TestInferStudentDatesUnparseableDatesFallToOpenBounds(t *testing.T) {
	got := InferStudentDates(models.StudentRecord{}, programSnapshots())

	assert.Equal(t, models.BoundBefore, got.EnrollmentDate.Bound)
	assert.False(t, got.EnrollmentDate.Known())
	assert.Equal(t, "N/A", got.EnrollmentDate.String())
	assert.Equal(t, models.BoundAfter, got.CompletionDate.Bound)
	assert.False(t, got.CompletionDate.Known())
}

func TestInferStudentDatesDoesNotRequireSortedSnapshots(t *testing.T) {
	sorted := programSnapshots()
	shuffled := []time.Time{sorted[3], sorted[0], sorted[4], sorted[2], sorted[1]}
	record := models.StudentRecord{
		StartDate: day(2019, time.June, 1),
		EndDate:   day(2020, time.January, 1),
	}

	assert.Equal(t, InferStudentDates(record, sorted), InferStudentDates(record, shuffled))
}

func TestInferStudentDatesLeavesInputUntouched(t *testing.T) {
	snapshots := programSnapshots()
	record := models.StudentRecord{
		StartDate: day(2019, time.June, 1),
		EndDate:   day(2020, time.January, 1),
	}

	_ = InferStudentDates(record, snapshots)

	assert.Equal(t, models.DateEstimate{}, record.EnrollmentDate)
	assert.Equal(t, programSnapshots(), snapshots)
}
