// Package stats derives enrollment, completion and time-to-degree estimates
// from archived program snapshots and folds them into per-program summaries.
// Every function is pure: inputs are never mutated and nothing is cached.
package stats

import (
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/noah-isme/phdstats-api/internal/models"
)

var snapshotTimestamp = regexp.MustCompile(`web/(\d{14})`)

// SnapshotDate is the capture day recovered from an archive URL.
type SnapshotDate struct {
	Date          time.Time
	FormattedDate string
}

// ExtractSnapshotDate recovers the capture day of an archive URL such as
// https://web.archive.org/web/20200315120000/https://example.edu/people.
// URLs without a decodable timestamp are treated as observed today.
func ExtractSnapshotDate(rawURL string) SnapshotDate {
	return ExtractSnapshotDateAt(rawURL, time.Now())
}

// ExtractSnapshotDateAt is ExtractSnapshotDate with an explicit clock.
func ExtractSnapshotDateAt(rawURL string, now time.Time) SnapshotDate {
	if match := snapshotTimestamp.FindStringSubmatch(rawURL); match != nil {
		// time of day is dropped
		return newSnapshotDate(stampDay(match[1]))
	}
	return newSnapshotDate(truncateDay(now))
}

// stampDay reads YYYYMMDD from a 14 digit archive stamp. Out of range months
// and days roll over into the neighbouring period, so 20200230 is March 1.
func stampDay(stamp string) time.Time {
	year, _ := strconv.Atoi(stamp[0:4])
	month, _ := strconv.Atoi(stamp[4:6])
	dayOfMonth, _ := strconv.Atoi(stamp[6:8])
	return time.Date(year, time.Month(month), dayOfMonth, 0, 0, 0, 0, time.UTC)
}

func newSnapshotDate(day time.Time) SnapshotDate {
	return SnapshotDate{Date: day, FormattedDate: day.Format(models.DisplayDateLayout)}
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ProgramSnapshotDates returns the distinct observation days referenced by the
// records, sorted ascending.
func ProgramSnapshotDates(records []models.StudentRecord) []time.Time {
	seen := make(map[time.Time]struct{})
	dates := make([]time.Time, 0)
	for _, record := range records {
		for _, snapshot := range record.Snapshots {
			if snapshot.Date.IsZero() {
				continue
			}
			day := truncateDay(snapshot.Date)
			if _, ok := seen[day]; ok {
				continue
			}
			seen[day] = struct{}{}
			dates = append(dates, day)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// DedupeSnapshots merges every snapshot referenced by the records by display
// date. Each student reference counts once towards the merged point and the
// first URL seen for a date is kept.
func DedupeSnapshots(records []models.StudentRecord) []models.SnapshotPoint {
	index := make(map[string]int)
	points := make([]models.SnapshotPoint, 0)
	for _, record := range records {
		for _, snapshot := range record.Snapshots {
			if i, ok := index[snapshot.FormattedDate]; ok {
				points[i].AssociatedStudentCount++
				continue
			}
			index[snapshot.FormattedDate] = len(points)
			points = append(points, models.SnapshotPoint{
				Date:                   snapshot.Date,
				FormattedDate:          snapshot.FormattedDate,
				SourceURL:              snapshot.URL,
				AssociatedStudentCount: 1,
			})
		}
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}
