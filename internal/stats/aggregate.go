package stats

import (
	"sort"

	"github.com/noah-isme/phdstats-api/internal/models"
)

// AllPrograms labels a summary computed over more than one university.
const AllPrograms = "All Programs"

// AggregateProgram folds the records in scope into one summary. It is
// normally called with the records of a single program; a mixed collection is
// labelled AllPrograms.
func AggregateProgram(records []models.StudentRecord) models.ProgramSummary {
	summary := models.ProgramSummary{}
	if len(records) == 0 {
		return summary
	}
	summary.Program = records[0].University
	summary.ProgramLink = records[0].ProgramURL
	summary.PlacementLink = records[0].PlacementURL

	var (
		durationTotal float64
		durationCount int
	)
	for _, record := range records {
		if record.University != summary.Program {
			summary.Program = AllPrograms
		}
		summary.TotalEntries++
		if record.Active {
			summary.CurrentlyActive++
		}
		// a missing placement flag counts as not placed
		if record.Placed() {
			summary.PlacedCount++
		}
		if hasConcreteDuration(record) {
			durationTotal += record.DurationYears.Years
			durationCount++
		}
		// raw start date, not the inferred enrollment
		if record.HasStartDate() && (summary.EarliestSnapshotDate == nil || record.StartDate.Before(*summary.EarliestSnapshotDate)) {
			start := record.StartDate
			summary.EarliestSnapshotDate = &start
		}
	}

	summary.PercentageOfPlacements = percentage(summary.PlacedCount, summary.TotalEntries)
	if durationCount > 0 {
		average := round2(durationTotal / float64(durationCount))
		summary.AverageDurationYears = &average
	}
	summary.NumberOfSnapshots = len(DedupeSnapshots(records))
	return summary
}

// AggregatePrograms groups records by university and summarises each group,
// ordered by program name.
func AggregatePrograms(records []models.StudentRecord) []models.ProgramSummary {
	groups := GroupByProgram(records)
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	summaries := make([]models.ProgramSummary, 0, len(names))
	for _, name := range names {
		summaries = append(summaries, AggregateProgram(groups[name]))
	}
	return summaries
}

// GroupByProgram partitions records by university, keeping input order within
// each group.
func GroupByProgram(records []models.StudentRecord) map[string][]models.StudentRecord {
	groups := make(map[string][]models.StudentRecord)
	for _, record := range records {
		groups[record.University] = append(groups[record.University], record)
	}
	return groups
}

func hasConcreteDuration(record models.StudentRecord) bool {
	return record.EnrollmentDate.Concrete() && record.CompletionDate.Concrete() && record.DurationYears.Concrete()
}

func percentage(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return round2(float64(part) / float64(whole) * 100)
}
