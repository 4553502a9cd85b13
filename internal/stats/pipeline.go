package stats

import (
	"strings"
	"time"

	"github.com/noah-isme/phdstats-api/internal/models"
)

// BuildRecords turns scraped entries into fully derived student records:
// snapshot URLs are dated, every program gets its sorted observation days,
// and enrollment, completion and duration are inferred once per record.
// now dates snapshot URLs that carry no timestamp.
func BuildRecords(raws []models.RawStudent, now time.Time) []models.StudentRecord {
	records := make([]models.StudentRecord, 0, len(raws))
	for _, raw := range raws {
		records = append(records, newRecord(raw, now))
	}

	programSnapshots := make(map[string][]time.Time)
	for program, group := range GroupByProgram(records) {
		programSnapshots[program] = ProgramSnapshotDates(group)
	}

	for i := range records {
		snapshots := programSnapshots[records[i].University]
		records[i].SnapshotDates = snapshots
		records[i] = InferStudentDates(records[i], snapshots)
		records[i].DurationYears = ComputeDuration(records[i].EnrollmentDate, records[i].CompletionDate)
	}
	return records
}

func newRecord(raw models.RawStudent, now time.Time) models.StudentRecord {
	record := models.StudentRecord{
		Name:         strings.TrimSpace(raw.Name),
		University:   strings.TrimSpace(raw.University),
		Department:   strings.TrimSpace(raw.Department),
		ProgramURL:   raw.URL,
		PlacementURL: raw.PlacementURL,
		Active:       raw.Active,
		Placement:    raw.Placement,
		Snapshots:    make([]models.SnapshotRef, 0, len(raw.Snapshots)),
	}
	// observations are day-granular; compare on days only
	if start, ok := raw.StartDate.Time(); ok {
		record.StartDate = truncateDay(start)
	}
	if end, ok := raw.EndDate.Time(); ok {
		record.EndDate = truncateDay(end)
	}
	for _, url := range raw.Snapshots {
		date := ExtractSnapshotDateAt(url, now)
		record.Snapshots = append(record.Snapshots, models.SnapshotRef{
			URL:           url,
			Date:          date.Date,
			FormattedDate: date.FormattedDate,
		})
	}
	return record
}
