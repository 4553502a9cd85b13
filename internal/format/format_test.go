package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/phdstats-api/internal/models"
)

func TestFormatValue(t *testing.T) {
	yes := true
	var unknown *bool
	avg := 4.256
	var noAvg *float64
	captured := time.Date(2020, time.March, 15, 0, 0, 0, 0, time.UTC)
	var noDate *time.Time

	cases := []struct {
		name   string
		value  any
		column string
		want   string
	}{
		{name: "true", value: true, column: "Active", want: "Yes"},
		{name: "false", value: false, column: "Active", want: "No"},
		{name: "bool pointer", value: &yes, column: "Placement", want: "Yes"},
		{name: "nil bool pointer", value: unknown, column: "Placement", want: "N/A"},
		{name: "nil", value: nil, column: "anything", want: "N/A"},
		{name: "zero string", value: "0.00", column: "timeToDegree", want: "N/A"},
		{name: "bounded zero", value: "> 0.00", column: "timeToDegree", want: "N/A"},
		{name: "percentage float", value: 66.6666, column: "percentageOfPlacements", want: "67%"},
		{name: "percentage string", value: "50.00", column: "placement_rate", want: "50%"},
		{name: "percentage zero", value: 0.0, column: "percentage_of_placements", want: "0%"},
		{name: "percentage zero string", value: "0.00", column: "percentageOfPlacements", want: "N/A"},
		{name: "percentage bounded zero string", value: "> 0.00", column: "placement_rate", want: "N/A"},
		{name: "percentage zero float", value: 0.0, column: "percentageOfPlacements", want: "0%"},
		{name: "float", value: 5.126, column: "averageDuration", want: "5.13"},
		{name: "float pointer", value: &avg, column: "average_duration_years", want: "4.26"},
		{name: "nil float pointer", value: noAvg, column: "average_duration_years", want: "N/A"},
		{name: "zero float", value: 0.0, column: "averageDuration", want: "N/A"},
		{name: "int", value: 12, column: "totalEntries", want: "12"},
		{name: "date", value: time.Date(2020, time.March, 15, 0, 0, 0, 0, time.UTC), column: "start_date", want: "03/15/2020"},
		{name: "zero date", value: time.Time{}, column: "start_date", want: "N/A"},
		{name: "date pointer", value: &captured, column: "earliest_snapshot_date", want: "03/15/2020"},
		{name: "nil date pointer", value: noDate, column: "earliest_snapshot_date", want: "N/A"},
		{name: "bounded estimate", value: models.Before(time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC)), column: "enrollment_date", want: "< 01/01/2019"},
		{name: "duration", value: models.DurationEstimate{Years: 2.41, LowerBound: true}, column: "duration_years", want: "> 2.41"},
		{name: "unknown duration", value: models.DurationEstimate{LowerBound: true}, column: "duration_years", want: "N/A"},
		{name: "text", value: "Rutgers", column: "program", want: "Rutgers"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatValue(tc.value, tc.column))
		})
	}
}

func TestFormatColumnLabel(t *testing.T) {
	cases := map[string]string{
		"program":                "Host Institution",
		"totalEntries":           "Total Students",
		"currently_active":       "Currently Enrolled",
		"percentageOfPlacements": "Placement Rate",
		"averageDuration":        "Time-to-Degree",
		"originalStartDate":      "Earliest Record",
		"start_date":             "Start Date",
		"timeToDegree":           "Time To Degree",
		"PlacementURL":           "Placement Url",
		"name":                   "Name",
		"":                       "",
	}
	for column, want := range cases {
		assert.Equal(t, want, FormatColumnLabel(column), column)
	}
}
