// Package cli implements the phdstats command line tool. Commands read the
// configured dataset source, derive student records and print tables.
package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/noah-isme/phdstats-api/internal/app"
	"github.com/noah-isme/phdstats-api/internal/models"
	"github.com/noah-isme/phdstats-api/internal/service"
	"github.com/noah-isme/phdstats-api/internal/store"
	"github.com/noah-isme/phdstats-api/pkg/config"
	"github.com/noah-isme/phdstats-api/pkg/logger"
)

// rootState carries state shared by every subcommand of one invocation.
type rootState struct {
	viper   *viper.Viper
	noColor bool
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
}

// session is a loaded dataset with the services answering queries over it.
type session struct {
	dataset  *models.Dataset
	programs *service.ProgramService
	exports  *service.ExportService
}

// NewRootCommand builds the phdstats command tree.
func NewRootCommand() *cobra.Command {
	rt := &rootState{viper: viper.New()}

	root := &cobra.Command{
		Use:           "phdstats",
		Short:         "Placement and time-to-degree statistics for graduate programs.",
		Long:          `phdstats reads the scraped student dataset, estimates enrollment and completion dates from archived snapshots and summarises each program.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if rt.logger != nil {
				_ = rt.logger.Sync()
			}
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.String("source", config.SourceFile, "dataset source: file, postgres or redis")
	flags.String("data-dir", "./data", "directory holding versions.json and student_data_v<N>.json")
	flags.BoolVar(&rt.noColor, "no-color", false, "disable colored output")
	flags.BoolVarP(&rt.verbose, "verbose", "v", false, "log dataset loading to stderr")
	_ = rt.viper.BindPFlag("DATASET_SOURCE", flags.Lookup("source"))
	_ = rt.viper.BindPFlag("DATASET_DIR", flags.Lookup("data-dir"))

	root.AddCommand(
		newProgramsCommand(rt),
		newSearchCommand(rt),
		newSummaryCommand(rt),
		newStudentsCommand(rt),
		newSnapshotsCommand(rt),
		newStatisticsCommand(rt),
		newExportCommand(rt),
		newPublishCommand(rt),
	)
	return root
}

func (rt *rootState) setup() error {
	rt.cfg = config.FromViper(rt.viper)
	if !rt.verbose {
		rt.cfg.Log.Level = "warn"
	}
	log, err := logger.NewCLI(rt.cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	rt.logger = log
	if rt.noColor {
		color.NoColor = true
	}
	return nil
}

// open loads the latest dataset from the configured source.
func (rt *rootState) open(ctx context.Context) (*session, error) {
	backend, closeBackend, err := app.OpenBackend(ctx, rt.cfg, rt.cfg.Dataset.Source, rt.logger)
	if err != nil {
		return nil, err
	}
	defer func() { _ = closeBackend() }()

	datasets := store.NewDatasetStore()
	loader := service.NewDatasetService(service.DatasetServiceParams{
		Source: backend,
		Store:  datasets,
		Logger: rt.logger,
	})
	dataset, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	programs := service.NewProgramService(service.ProgramServiceParams{Store: datasets, Logger: rt.logger})
	return &session{
		dataset:  dataset,
		programs: programs,
		exports: service.NewExportService(service.ExportServiceParams{
			Programs: programs,
			Logger:   rt.logger,
			Config:   service.ExportConfig{MaxRows: rt.cfg.Export.MaxRows},
		}),
	}, nil
}
