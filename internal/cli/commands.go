package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/phdstats-api/internal/dto"
	"github.com/noah-isme/phdstats-api/internal/format"
	"github.com/noah-isme/phdstats-api/internal/models"
	"github.com/noah-isme/phdstats-api/internal/service"
)

func newProgramsCommand(rt *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "programs",
		Short: "Show the all-programs overview table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := rt.open(cmd.Context())
			if err != nil {
				return err
			}
			summaries, err := s.programs.Index(cmd.Context())
			if err != nil {
				return err
			}
			rateLabel := format.FormatColumnLabel(dto.ColumnPlacementRate)
			colorize := func(header, value string, row int) string {
				if header != rateLabel {
					return value
				}
				return placementRateColor(summaries[row].PercentageOfPlacements, value)
			}
			out := cmd.OutOrStdout()
			if err := renderTable(out, dto.ProgramIndexTable(summaries), colorize); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "%d programs, %d students (dataset v%d from %s)\n",
				len(summaries), len(s.dataset.Records), s.dataset.Version, s.dataset.Source)
			return err
		},
	}
}

func newSearchCommand(rt *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "List program names containing the query",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rt.open(cmd.Context())
			if err != nil {
				return err
			}
			req := service.ProgramSearchRequest{}
			if len(args) == 1 {
				req.Query = args[0]
			}
			names, err := s.programs.Search(cmd.Context(), req)
			if err != nil {
				return err
			}
			for _, name := range names {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newSummaryCommand(rt *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "summary [program]",
		Short: "Show the summary card of one program, or of every program when omitted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rt.open(cmd.Context())
			if err != nil {
				return err
			}
			summary, err := s.programs.Summary(cmd.Context(), firstArg(args))
			if err != nil {
				return err
			}
			colorize := func(header, value string, row int) string {
				if header == "Value" && row == 2 {
					return placementRateColor(summary.PercentageOfPlacements, value)
				}
				return value
			}
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(out, summary.Program); err != nil {
				return err
			}
			return renderTable(out, dto.SummaryTable(summary), colorize)
		},
	}
}

func newStudentsCommand(rt *rootState) *cobra.Command {
	var sortBy, order string
	cmd := &cobra.Command{
		Use:   "students [program]",
		Short: "List the students of a program with estimated dates",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rt.open(cmd.Context())
			if err != nil {
				return err
			}
			list, err := s.programs.Students(cmd.Context(), service.StudentListRequest{
				Program: firstArg(args),
				Sort:    sortBy,
				Order:   order,
			})
			if err != nil {
				return err
			}
			activeLabel := format.FormatColumnLabel(dto.ColumnActive)
			placementLabel := format.FormatColumnLabel(dto.ColumnPlacement)
			colorize := func(header, value string, _ int) string {
				if header == activeLabel || header == placementLabel {
					return yesNoColor(value)
				}
				return value
			}
			out := cmd.OutOrStdout()
			if err := renderTable(out, dto.StudentTable(list.Records, list.Mixed), colorize); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "%d students at %s\n", len(list.Records), list.Program)
			return err
		},
	}
	cmd.Flags().StringVar(&sortBy, "sort", dto.ColumnName, "sort column: name, start_date, end_date, active, placement, enrollment_date, completion_date, duration_years")
	cmd.Flags().StringVar(&order, "order", string(models.SortAscending), "sort order: asc or desc")
	return cmd
}

func newSnapshotsCommand(rt *rootState) *cobra.Command {
	var sortBy, order string
	cmd := &cobra.Command{
		Use:   "snapshots [program]",
		Short: "List the archived snapshots a program's students were observed on",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rt.open(cmd.Context())
			if err != nil {
				return err
			}
			points, err := s.programs.Snapshots(cmd.Context(), service.SnapshotListRequest{
				Program: firstArg(args),
				Sort:    sortBy,
				Order:   order,
			})
			if err != nil {
				return err
			}
			return renderTable(cmd.OutOrStdout(), dto.SnapshotTable(points), nil)
		},
	}
	cmd.Flags().StringVar(&sortBy, "sort", "date", "sort column: date or count")
	cmd.Flags().StringVar(&order, "order", string(models.SortAscending), "sort order: asc or desc")
	return cmd
}

func newStatisticsCommand(rt *rootState) *cobra.Command {
	var metric string
	cmd := &cobra.Command{
		Use:   "statistics",
		Short: "Rank programs by placement rate or average time-to-degree and summarise the spread",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := rt.open(cmd.Context())
			if err != nil {
				return err
			}
			selected, points, err := s.programs.Statistics(cmd.Context(), service.StatisticsRequest{Metric: metric})
			if err != nil {
				return err
			}
			resp := dto.NewStatisticsResponse(selected, points)
			column := dto.ColumnPlacementRate
			if selected == models.MetricDuration {
				column = dto.ColumnAverageDuration
			}
			table := newRankingTable(resp, column)
			colorize := func(header, value string, row int) string {
				if header == resp.Label && selected == models.MetricPlacement {
					return placementRateColor(points[row].Value, value)
				}
				return value
			}
			out := cmd.OutOrStdout()
			if err := renderTable(out, table, colorize); err != nil {
				return err
			}
			return renderTable(out, dto.RankingSummaryTable(resp), nil)
		},
	}
	cmd.Flags().StringVar(&metric, "metric", string(models.MetricPlacement), "ranking metric: placement or duration")
	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
