package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/phdstats-api/internal/app"
	"github.com/noah-isme/phdstats-api/pkg/config"
)

func newPublishCommand(rt *rootState) *cobra.Command {
	var target, targetDir string
	var version int
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Copy a dataset version from the configured source to another backend",
		Long:  `publish reads the raw student records of one dataset version from --source and writes them, unchanged, to the --to backend so API servers reading from it pick the version up on their next reload.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if target == rt.cfg.Dataset.Source && (target != config.SourceFile || targetDir == "" || targetDir == rt.cfg.Dataset.Dir) {
				return fmt.Errorf("publish target %q is the configured source", target)
			}

			source, closeSource, err := app.OpenBackend(ctx, rt.cfg, rt.cfg.Dataset.Source, rt.logger)
			if err != nil {
				return err
			}
			defer func() { _ = closeSource() }()

			if version <= 0 {
				if version, err = source.LatestVersion(ctx); err != nil {
					return err
				}
			}
			students, err := source.Load(ctx, version)
			if err != nil {
				return err
			}

			targetCfg := *rt.cfg
			if targetDir != "" {
				targetCfg.Dataset.Dir = targetDir
			}
			sink, closeSink, err := app.OpenBackend(ctx, &targetCfg, target, rt.logger)
			if err != nil {
				return err
			}
			defer func() { _ = closeSink() }()

			if err := sink.Publish(ctx, version, students); err != nil {
				return err
			}
			rt.logger.Info("dataset copied",
				zap.String("from", source.Name()),
				zap.String("to", sink.Name()),
				zap.Int("version", version),
				zap.Int("students", len(students)),
			)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Published %d students as version %d to %s\n", len(students), version, sink.Name())
			return err
		},
	}
	cmd.Flags().StringVar(&target, "to", config.SourceRedis, "target backend: redis, postgres or file")
	cmd.Flags().StringVar(&targetDir, "to-dir", "", "dataset directory when --to is file")
	cmd.Flags().IntVar(&version, "version", 0, "dataset version to copy (defaults to the latest)")
	return cmd
}
