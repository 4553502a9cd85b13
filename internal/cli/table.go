package cli

import (
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/noah-isme/phdstats-api/internal/dto"
	"github.com/noah-isme/phdstats-api/internal/format"
	"github.com/noah-isme/phdstats-api/pkg/export"
)

var (
	goodColor    = color.New(color.FgGreen, color.Bold)
	fairColor    = color.New(color.FgYellow)
	poorColor    = color.New(color.FgRed)
	unknownColor = color.New(color.FgHiBlack)
)

// cellColorizer rewrites one cell before rendering. row indexes table.Rows.
type cellColorizer func(header, value string, row int) string

// renderTable writes a labelled table in header order.
func renderTable(w io.Writer, table export.Table, colorize cellColorizer) error {
	writer := tablewriter.NewWriter(w)
	writer.Header(table.Headers)
	writer.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	data := make([][]string, 0, len(table.Rows))
	for i, row := range table.Rows {
		line := make([]string, 0, len(table.Headers))
		for _, header := range table.Headers {
			value := row[header]
			if colorize != nil {
				value = colorize(header, value, i)
			}
			line = append(line, value)
		}
		data = append(data, line)
	}
	if err := writer.Bulk(data); err != nil {
		return err
	}
	return writer.Render()
}

// placementRateColor grades a placement percentage.
func placementRateColor(rate float64, text string) string {
	switch {
	case rate >= 50:
		return goodColor.Sprint(text)
	case rate >= 25:
		return fairColor.Sprint(text)
	case rate > 0:
		return poorColor.Sprint(text)
	default:
		return unknownColor.Sprint(text)
	}
}

// yesNoColor highlights Yes/No flags and dims N/A.
func yesNoColor(text string) string {
	switch text {
	case "Yes":
		return goodColor.Sprint(text)
	case "No":
		return poorColor.Sprint(text)
	default:
		return unknownColor.Sprint(text)
	}
}

// newRankingTable lays out ranked chart points; column selects how values
// are formatted.
func newRankingTable(resp dto.StatisticsResponse, column string) export.Table {
	program := format.FormatColumnLabel(dto.ColumnProgram)
	table := export.Table{Headers: []string{"Rank", program, resp.Label}}
	for i, point := range resp.Points {
		table.Rows = append(table.Rows, map[string]string{
			"Rank":     strconv.Itoa(i + 1),
			program:    point.Program,
			resp.Label: format.FormatValue(point.Value, column),
		})
	}
	return table
}
