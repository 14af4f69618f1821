package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"quaver/internal/archive"
	"quaver/internal/catalog"
	"quaver/internal/importer"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "import <path>...",
		Short: "Import audio files from directories, archives, or file paths",
		Args:  cobra.MinimumNArgs(1),
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
				imp := importer.New(cfg, store, logger)
				job := importer.NewJob()

				// First interrupt cancels cooperatively: in-flight
				// candidates finish and the partial result is kept.
				interrupts := make(chan os.Signal, 1)
				signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
				defer signal.Stop(interrupts)
				go func() {
					if _, ok := <-interrupts; ok {
						fmt.Fprintln(cmd.ErrOrStderr(), "Cancelling, finishing in-flight files...")
						job.Cancel()
					}
				}()

				type outcome struct {
					result importer.Result
					err    error
				}
				done := make(chan outcome, 1)
				go func() {
					result, err := runImport(cmd, imp, job, args)
					done <- outcome{result: result, err: err}
				}()

				showProgress := !jsonOut && stdoutIsTerminal()
				for event := range job.Events() {
					if showProgress {
						renderProgress(cmd.OutOrStdout(), event)
					}
				}
				if showProgress {
					fmt.Fprint(cmd.OutOrStdout(), "\r\x1b[K")
				}

				run := <-done
				if run.err != nil {
					return run.err
				}
				if jsonOut {
					return writeJSON(cmd, run.result)
				}
				printImportSummary(cmd.OutOrStdout(), job, run.result)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

// runImport picks the entry point matching what the user pointed at: a
// directory, a single archive, or an arbitrary mix of paths.
func runImport(cmd *cobra.Command, imp *importer.Importer, job *importer.Job, args []string) (importer.Result, error) {
	if len(args) == 1 {
		path := args[0]
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return imp.ImportDirectory(cmd.Context(), job, path)
		}
		if archive.IsArchivePath(path) {
			return imp.ImportArchive(cmd.Context(), job, path)
		}
	}
	return imp.ImportPaths(cmd.Context(), job, args)
}

func renderProgress(out io.Writer, event importer.ProgressEvent) {
	fmt.Fprintf(out, "\r\x1b[K%d/%d %s", event.Completed, event.TotalEstimate, event.CurrentPath)
}

func printImportSummary(out io.Writer, job *importer.Job, result importer.Result) {
	if job.Cancelled() {
		fmt.Fprintln(out, "Import cancelled; completed work was kept")
	}
	fmt.Fprintf(out, "Imported %d track(s), skipped %d duplicate(s), %d failure(s)\n",
		result.Imported, result.DuplicatesSkipped, result.Failed)
	for _, failure := range result.Errors {
		fmt.Fprintf(out, "  failed: %s: %s\n", failure.Path, failure.Reason)
	}
}
