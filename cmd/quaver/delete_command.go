package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"quaver/internal/catalog"
)

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <track-id>",
		Short: "Delete a track from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid track ID %q", args[0])
			}
			return ctx.withStore(func(store *catalog.Store) error {
				if err := store.Remove(cmd.Context(), id); err != nil {
					if errors.Is(err, catalog.ErrNotFound) {
						return fmt.Errorf("no track with ID %d", id)
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted track %d\n", id)
				return nil
			})
		},
	}
}
