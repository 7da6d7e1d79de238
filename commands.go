package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/llehouerou/duet/internal/catalog"
	"github.com/llehouerou/duet/internal/playlist"
	"github.com/llehouerou/duet/internal/state"
	"github.com/llehouerou/duet/internal/ui/render"
)

const (
	titleWidth  = 32
	artistWidth = 24
)

func newImportCmd() *cobra.Command {
	var tags bool
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the song catalog with a TOML library file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			lib, err := importLibrary(args[0], e.cfg, e.store, tags)
			if err != nil {
				return err
			}
			printTempoSummary(cmd.OutOrStdout(), lib)
			return nil
		},
	}
	cmd.Flags().BoolVar(&tags, "tags", false, "fill missing titles and artists from local intro files")
	return cmd
}

func newSongsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "songs",
		Short: "List the song catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			songs, err := e.store.Songs()
			if err != nil {
				return err
			}
			printSongs(cmd.OutOrStdout(), songs)
			return nil
		},
	}
}

func newPlaylistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "playlist",
		Short: "Inspect and store playlist tokens",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "decode TOKEN",
			Short: "Show the units of a token",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withLibrary(func(lib *catalog.Library, _ state.Interface) error {
					entries, err := playlist.Decode(args[0], lib)
					if err != nil {
						return err
					}
					printEntries(cmd.OutOrStdout(), entries, lib)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "save NAME TOKEN",
			Short: "Store a token under a name",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withLibrary(func(lib *catalog.Library, store state.Interface) error {
					entries, err := playlist.Decode(args[1], lib)
					if err != nil {
						return err
					}
					if err := store.SavePlaylist(args[0], playlist.Encode(entries)); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "saved %q (%d units)\n", args[0], len(entries))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List stored playlists",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				e, err := openEnv()
				if err != nil {
					return err
				}
				defer e.Close()

				saved, err := e.store.ListPlaylists()
				if err != nil {
					return err
				}
				printPlaylists(cmd.OutOrStdout(), saved)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete NAME",
			Short: "Remove a stored playlist",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				e, err := openEnv()
				if err != nil {
					return err
				}
				defer e.Close()
				return e.store.DeletePlaylist(args[0])
			},
		},
	)
	return cmd
}

// withLibrary opens the environment and the stored catalog for fn.
func withLibrary(fn func(*catalog.Library, state.Interface) error) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	songs, err := e.store.Songs()
	if err != nil {
		return err
	}
	lib, err := catalog.New(songs, e.cfg.GetLibraryConfig().Tempos)
	if err != nil {
		return err
	}
	return fn(lib, e.store)
}

func printTempoSummary(w io.Writer, lib *catalog.Library) {
	fmt.Fprintf(w, "imported %s songs\n", humanize.Comma(int64(lib.Len())))
	for _, tempo := range lib.Tempos() {
		fmt.Fprintf(w, "  %3d bpm  %s\n", tempo, humanize.Comma(int64(lib.CountAtTempo(tempo))))
	}
}

func printSongs(w io.Writer, songs []catalog.Song) {
	for _, s := range songs {
		fmt.Fprintf(w, "%6d  %s  %s  key %2d  %3d bpm\n",
			s.ID,
			render.TruncateAndPad(s.Title, titleWidth),
			render.TruncateAndPad(s.Artist, artistWidth),
			s.Key, s.Tempo)
	}
	fmt.Fprintf(w, "%s songs\n", humanize.Comma(int64(len(songs))))
}

func printEntries(w io.Writer, entries []playlist.Entry, lib *catalog.Library) {
	for i, e := range entries {
		names := lo.Map(e.IDs, func(id int, _ int) string {
			if s, ok := lib.ByID(id); ok {
				return s.String()
			}
			return fmt.Sprintf("#%d", id)
		})
		fmt.Fprintf(w, "%3d  key %2d  %3d bpm  %s\n", i+1, e.Key, e.Tempo, strings.Join(names, " + "))
	}
}

func printPlaylists(w io.Writer, saved []state.SavedPlaylist) {
	for _, p := range saved {
		units := len(playlist.Parse(p.Token))
		fmt.Fprintf(w, "%s  %3d units  %s\n",
			render.TruncateAndPad(p.Name, titleWidth), units, humanize.Time(p.UpdatedAt))
	}
}
