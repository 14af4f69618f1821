package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"quaver/internal/catalog"
	"quaver/internal/importer"
	"quaver/internal/logging"
	"quaver/internal/watcher"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch registered directories and re-import on changes",
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

			return ctx.withStore(func(store *catalog.Store) error {
				dirs, err := store.ListDirectories(cmd.Context())
				if err != nil {
					return err
				}
				if len(dirs) == 0 {
					return fmt.Errorf("no directories registered; add one with `quaver dirs add`")
				}
				roots := make([]string, 0, len(dirs))
				for _, dir := range dirs {
					roots = append(roots, dir.Path)
				}

				imp := importer.New(cfg, store, logger)
				exts := cfg.AudioExtensionSet()
				allowed := func(path string) bool {
					_, ok := exts[lowerExt(path)]
					return ok
				}

				trigger := func(root string) {
					job := importer.NewJob()
					result, err := imp.ImportDirectory(context.Background(), job, root)
					if err != nil {
						logger.Error("watch re-import failed",
							logging.String(logging.FieldDirectory, root),
							logging.Error(err),
						)
						return
					}
					logger.Info("watch re-import finished",
						logging.String(logging.FieldDirectory, root),
						logging.Int("imported", result.Imported),
						logging.Int("duplicates", result.DuplicatesSkipped),
						logging.Int("failed", result.Failed),
					)
				}

				debounce := time.Duration(cfg.Watch.DebounceSeconds) * time.Second
				w, err := watcher.New(roots, debounce, allowed, trigger, logger)
				if err != nil {
					return err
				}

				runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				fmt.Fprintf(cmd.OutOrStdout(), "Watching %d directories (Ctrl-C to stop)\n", len(roots))
				if err := w.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			})
		},
	}
}
