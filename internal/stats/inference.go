package stats

import (
	"time"

	"github.com/noah-isme/phdstats-api/internal/models"
)

// InferStudentDates estimates when the student actually enrolled and
// completed, given every observation day of the student's program. A date is
// exact only when it is bracketed by two observations; otherwise it stays an
// open bound. The record is returned as a copy.
func InferStudentDates(record models.StudentRecord, snapshots []time.Time) models.StudentRecord {
	record.EnrollmentDate = inferEnrollment(record, snapshots)
	record.CompletionDate = inferCompletion(record, snapshots)
	return record
}

// The student was absent at the latest observation before their first
// appearance, so enrollment falls between the two.
func inferEnrollment(record models.StudentRecord, snapshots []time.Time) models.DateEstimate {
	if !record.HasStartDate() {
		return models.Before(time.Time{})
	}
	preceding, ok := latestBefore(snapshots, record.StartDate)
	if !ok {
		return models.Before(record.StartDate)
	}
	return models.ExactDate(midpoint(preceding, record.StartDate))
}

func inferCompletion(record models.StudentRecord, snapshots []time.Time) models.DateEstimate {
	if record.Active {
		latest := record.EndDate
		if last, ok := latestOf(snapshots); ok && last.After(latest) {
			latest = last
		}
		return models.After(latest)
	}
	if !record.HasEndDate() {
		return models.After(time.Time{})
	}
	following, ok := earliestAfter(snapshots, record.EndDate)
	if !ok {
		return models.After(record.EndDate)
	}
	return models.ExactDate(midpoint(record.EndDate, following))
}

func latestBefore(snapshots []time.Time, limit time.Time) (time.Time, bool) {
	var (
		found time.Time
		ok    bool
	)
	for _, snapshot := range snapshots {
		if snapshot.IsZero() || !snapshot.Before(limit) {
			continue
		}
		if !ok || snapshot.After(found) {
			found, ok = snapshot, true
		}
	}
	return found, ok
}

func earliestAfter(snapshots []time.Time, limit time.Time) (time.Time, bool) {
	var (
		found time.Time
		ok    bool
	)
	for _, snapshot := range snapshots {
		if snapshot.IsZero() || !snapshot.After(limit) {
			continue
		}
		if !ok || snapshot.Before(found) {
			found, ok = snapshot, true
		}
	}
	return found, ok
}

func latestOf(snapshots []time.Time) (time.Time, bool) {
	var (
		found time.Time
		ok    bool
	)
	for _, snapshot := range snapshots {
		if snapshot.IsZero() {
			continue
		}
		if !ok || snapshot.After(found) {
			found, ok = snapshot, true
		}
	}
	return found, ok
}

func midpoint(a, b time.Time) time.Time {
	return a.Add(b.Sub(a) / 2).UTC()
}
