package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"quaver/internal/catalog"
)

func newDirsCommand(ctx *commandContext) *cobra.Command {
	dirsCmd := &cobra.Command{
		Use:   "dirs",
		Short: "Manage registered import directories",
	}

	dirsCmd.AddCommand(newDirsAddCommand(ctx))
	dirsCmd.AddCommand(newDirsRemoveCommand(ctx))
	dirsCmd.AddCommand(newDirsListCommand(ctx))

	return dirsCmd
}

func newDirsAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <path>",
		Short: "Register a directory as an import root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *catalog.Store) error {
				dir, err := store.AddDirectory(cmd.Context(), args[0])
				if errors.Is(err, catalog.ErrDirectoryExists) {
					return fmt.Errorf("directory is already registered: %w", err)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registered %s\n", dir.Path)
				return nil
			})
		},
	}
}

func newDirsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <path>",
		Short: "Unregister a directory and delete its tracks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *catalog.Store) error {
				removed, err := store.RemoveDirectory(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed directory and %d track(s)\n", removed)
				return nil
			})
		},
	}
}

func newDirsListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered import directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *catalog.Store) error {
				dirs, err := store.ListDirectories(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, dirs)
				}
				out := cmd.OutOrStdout()
				if len(dirs) == 0 {
					fmt.Fprintln(out, "No directories registered")
					return nil
				}
				rows := make([][]string, 0, len(dirs))
				for _, dir := range dirs {
					rows = append(rows, []string{dir.Path, dir.AddedAt.Local().Format(time.DateTime)})
				}
				fmt.Fprintln(out, renderTable([]string{"Path", "Added"}, rows))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}
