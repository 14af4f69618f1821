package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"quaver/internal/catalog"
)

func newTracksCommand(ctx *commandContext) *cobra.Command {
	var dirFilter string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "tracks",
		Short: "List cataloged tracks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *catalog.Store) error {
				var tracks []catalog.Track
				var err error
				if dirFilter != "" {
					canonical, pathErr := catalog.CanonicalPath(dirFilter)
					if pathErr != nil {
						return pathErr
					}
					tracks, err = store.ListByDirectory(cmd.Context(), canonical)
				} else {
					tracks, err = store.ListTracks(cmd.Context())
				}
				if err != nil {
					return err
				}

				if jsonOut {
					return writeJSON(cmd, tracks)
				}

				out := cmd.OutOrStdout()
				if len(tracks) == 0 {
					fmt.Fprintln(out, "No tracks cataloged")
					return nil
				}
				rows := make([][]string, 0, len(tracks))
				for _, track := range tracks {
					rows = append(rows, []string{
						fmt.Sprintf("%d", track.ID),
						track.Title,
						track.Artist,
						track.Genre,
						track.OriginPath,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Title", "Artist", "Genre", "Origin"},
					rows,
					1,
				))
				fmt.Fprintf(out, "%d track(s)\n", len(tracks))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&dirFilter, "dir", "", "Only list tracks from this registered directory")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}
