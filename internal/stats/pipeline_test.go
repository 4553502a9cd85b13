package stats

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/phdstats-api/internal/models"
)

const pipelineFixture = `[
  {
    "Name": " Ada Lovelace ",
    "University": "Rutgers",
    "URL": "https://philosophy.rutgers.edu/people/graduate-students",
    "PlacementURL": "https://philosophy.rutgers.edu/placement",
    "Start_Date": "2019-06-01",
    "End_Date": "2020-01-01",
    "Active": false,
    "Placement": true,
    "Snapshots": [
      "https://web.archive.org/web/20190101000000/https://philosophy.rutgers.edu/people",
      "https://web.archive.org/web/20190601120000/https://philosophy.rutgers.edu/people",
      "https://web.archive.org/web/20200101080000/https://philosophy.rutgers.edu/people"
    ]
  },
  {
    "Name": "Ben Franklin",
    "University": "Rutgers",
    "URL": "https://philosophy.rutgers.edu/people/graduate-students",
    "PlacementURL": "https://philosophy.rutgers.edu/placement",
    "Start_Date": "2019-01-01",
    "End_Date": null,
    "Active": true,
    "Placement": null,
    "Snapshots": [
      "https://web.archive.org/web/20190101000000/https://philosophy.rutgers.edu/people",
      "https://web.archive.org/web/20210601000000/https://philosophy.rutgers.edu/people"
    ]
  },
  {
    "Name": "Cy Young",
    "University": "NYU",
    "URL": "https://as.nyu.edu/philosophy/people",
    "PlacementURL": "",
    "Start_Date": "N/A",
    "End_Date": "N/A",
    "Active": false,
    "Placement": false,
    "Snapshots": []
  }
]`

func buildFixture(t *testing.T) []models.StudentRecord {
	t.Helper()
	var raws []models.RawStudent
	require.NoError(t, json.Unmarshal([]byte(pipelineFixture), &raws))
	return BuildRecords(raws, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC))
}

func TestBuildRecordsInfersFromProgramSnapshots(t *testing.T) {
	records := buildFixture(t)
	require.Len(t, records, 3)

	ada := records[0]
	assert.Equal(t, "Ada Lovelace", ada.Name)
	assert.Equal(t, []time.Time{
		day(2019, time.January, 1),
		day(2019, time.June, 1),
		day(2020, time.January, 1),
		day(2021, time.June, 1),
	}, ada.SnapshotDates)
	assert.Equal(t, models.ExactDate(time.Date(2019, time.March, 17, 12, 0, 0, 0, time.UTC)), ada.EnrollmentDate)
	assert.Equal(t, models.ExactDate(time.Date(2020, time.September, 15, 12, 0, 0, 0, time.UTC)), ada.CompletionDate)
	assert.False(t, ada.DurationYears.LowerBound)
	assert.InDelta(t, 1.5, ada.DurationYears.Years, 1e-9)

	ben := records[1]
	assert.Equal(t, models.Before(day(2019, time.January, 1)), ben.EnrollmentDate)
	assert.Equal(t, models.After(day(2021, time.June, 1)), ben.CompletionDate)
	assert.Equal(t, models.DurationEstimate{Years: 2.41, LowerBound: true}, ben.DurationYears)
}

func TestBuildRecordsUnknownDates(t *testing.T) {
	cy := buildFixture(t)[2]

	assert.False(t, cy.HasStartDate())
	assert.False(t, cy.HasEndDate())
	assert.Empty(t, cy.SnapshotDates)
	assert.Equal(t, "N/A", cy.EnrollmentDate.String())
	assert.Equal(t, models.DurationEstimate{LowerBound: true}, cy.DurationYears)
}

func TestBuildRecordsDerivedInvariants(t *testing.T) {
	for _, record := range buildFixture(t) {
		concrete := record.EnrollmentDate.Concrete() && record.CompletionDate.Concrete()
		assert.Equal(t, concrete, record.DurationYears.Concrete(), record.Name)
		assert.GreaterOrEqual(t, record.DurationYears.Years, 0.0, record.Name)
		if record.Active {
			assert.Equal(t, models.BoundAfter, record.CompletionDate.Bound, record.Name)
		}
	}
}

func TestBuildRecordsFeedsAggregation(t *testing.T) {
	summaries := AggregatePrograms(buildFixture(t))
	require.Len(t, summaries, 2)

	nyu, rutgers := summaries[0], summaries[1]
	assert.Equal(t, "NYU", nyu.Program)
	assert.Equal(t, 0.0, nyu.PercentageOfPlacements)
	assert.Nil(t, nyu.AverageDurationYears)

	assert.Equal(t, "Rutgers", rutgers.Program)
	assert.Equal(t, 2, rutgers.TotalEntries)
	assert.Equal(t, 1, rutgers.CurrentlyActive)
	assert.Equal(t, 50.0, rutgers.PercentageOfPlacements)
	require.NotNil(t, rutgers.AverageDurationYears)
	assert.InDelta(t, 1.5, *rutgers.AverageDurationYears, 1e-9)
	require.NotNil(t, rutgers.EarliestSnapshotDate)
	assert.Equal(t, day(2019, time.January, 1), *rutgers.EarliestSnapshotDate)
	assert.Equal(t, 4, rutgers.NumberOfSnapshots)
}
