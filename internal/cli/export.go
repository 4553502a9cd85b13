package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/phdstats-api/internal/service"
	"github.com/noah-isme/phdstats-api/pkg/storage"
)

func newExportCommand(rt *rootState) *cobra.Command {
	var program, fileFormat, outDir string
	cmd := &cobra.Command{
		Use:       "export <programs|students|snapshots>",
		Short:     "Write a program table as CSV, PDF or Parquet",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{service.ExportKindPrograms, service.ExportKindStudents, service.ExportKindSnapshots},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rt.open(cmd.Context())
			if err != nil {
				return err
			}
			result, err := s.exports.Export(cmd.Context(), service.ExportRequest{
				Kind:    args[0],
				Program: program,
				Format:  fileFormat,
			})
			if err != nil {
				return err
			}
			path, err := storage.NewLocalStorage(outDir).Save(result.Filename, result.Body)
			if err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", result.Rows, path)
			return err
		},
	}
	cmd.Flags().StringVarP(&program, "program", "p", "", "program to export (required for students and snapshots)")
	cmd.Flags().StringVarP(&fileFormat, "format", "f", service.ExportFormatCSV, "file format: csv, pdf or parquet")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	return cmd
}
