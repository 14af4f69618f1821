package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"quaver/internal/staging"
)

func newStagingCommand(ctx *commandContext) *cobra.Command {
	stagingCmd := &cobra.Command{
		Use:   "staging",
		Short: "Staging workspace maintenance",
	}

	stagingCmd.AddCommand(newStagingCleanCommand(ctx))
	return stagingCmd
}

func newStagingCleanCommand(ctx *commandContext) *cobra.Command {
	var maxAgeHours int

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove stale import staging directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			maxAge := time.Duration(maxAgeHours) * time.Hour
			if maxAgeHours < 0 {
				maxAge = time.Duration(cfg.Import.StagingMaxAgeHours) * time.Hour
			}

			result := staging.CleanStale(cfg.Paths.StagingDir, maxAge, logger)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Removed %d stale staging directories\n", len(result.Removed))
			for _, failure := range result.Errors {
				fmt.Fprintf(out, "  failed: %s: %v\n", failure.Path, failure.Error)
			}
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d staging directories could not be removed", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxAgeHours, "max-age", -1, "Age threshold in hours (default: staging_max_age_hours from config)")
	return cmd
}
