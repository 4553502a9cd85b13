// Package format renders aggregated values and column identifiers for display.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/noah-isme/phdstats-api/internal/models"
)

// NotAvailable is shown for missing and placeholder values.
const NotAvailable = "N/A"

var columnLabels = map[string]string{
	"program":                  "Host Institution",
	"university":               "Host Institution",
	"totalEntries":             "Total Students",
	"total_entries":            "Total Students",
	"currentlyActive":          "Currently Enrolled",
	"currently_active":         "Currently Enrolled",
	"percentageOfPlacements":   "Placement Rate",
	"percentage_of_placements": "Placement Rate",
	"averageDuration":          "Time-to-Degree",
	"average_duration":         "Time-to-Degree",
	"average_duration_years":   "Time-to-Degree",
	"earliestSnapshot":         "Earliest Record",
	"earliest_snapshot":        "Earliest Record",
	"earliest_snapshot_date":   "Earliest Record",
	"originalStartDate":        "Earliest Record",
	"numberOfSnapshots":        "Number of Snapshots",
	"number_of_snapshots":      "Number of Snapshots",
	"duration_years":           "Time-to-Degree",
}

var percentageColumns = map[string]struct{}{
	"percentageOfPlacements":   {},
	"percentage_of_placements": {},
	"placementRate":            {},
	"placement_rate":           {},
}

// FormatColumnLabel maps a column identifier to its human label. Unknown
// identifiers are split on underscores and camel-case humps and title-cased.
func FormatColumnLabel(column string) string {
	if label, ok := columnLabels[column]; ok {
		return label
	}
	words := splitWords(column)
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func splitWords(column string) []string {
	words := make([]string, 0)
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = nil
		}
	}
	runes := []rune(column)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
			continue
		case unicode.IsUpper(r) && len(current) > 0:
			prevLower := unicode.IsLower(current[len(current)-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || nextLower {
				flush()
			}
		}
		current = append(current, r)
	}
	flush()
	return words
}

// FormatValue renders value for display in the named column:
//
//	booleans      Yes / No
//	nil, "0.00"   N/A
//	percentages   rounded, with a % suffix
//	floats        two decimals
//	dates         MM/DD/YYYY
func FormatValue(value any, column string) string {
	switch v := value.(type) {
	case nil:
		return NotAvailable
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case *bool:
		if v == nil {
			return NotAvailable
		}
		return FormatValue(*v, column)
	case *float64:
		if v == nil {
			return NotAvailable
		}
		return FormatValue(*v, column)
	case *time.Time:
		if v == nil {
			return NotAvailable
		}
		return FormatValue(*v, column)
	case time.Time:
		if v.IsZero() {
			return NotAvailable
		}
		return v.Format(models.DisplayDateLayout)
	case models.DateEstimate:
		return v.String()
	case models.DurationEstimate:
		return placeholder(v.String())
	case string:
		if placeholder(v) == NotAvailable {
			return NotAvailable
		}
	}

	if isPercentageColumn(column) {
		if f, ok := asFloat(value); ok {
			return fmt.Sprintf("%.0f%%", f)
		}
	}

	switch v := value.(type) {
	case float64:
		return placeholder(strconv.FormatFloat(v, 'f', 2, 64))
	case float32:
		return placeholder(strconv.FormatFloat(float64(v), 'f', 2, 32))
	case int, int32, int64, uint, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case string:
		return placeholder(v)
	case fmt.Stringer:
		return placeholder(v.String())
	default:
		return fmt.Sprint(v)
	}
}

func placeholder(s string) string {
	switch strings.TrimSpace(s) {
	case "0.00", "> 0.00":
		return NotAvailable
	}
	return s
}

func isPercentageColumn(column string) bool {
	_, ok := percentageColumns[column]
	return ok
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}
