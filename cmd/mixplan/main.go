// Command mixplan prints the units duet would build from a library file without
// loading or playing any audio.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/llehouerou/duet/internal/catalog"
	"github.com/llehouerou/duet/internal/config"
	"github.com/llehouerou/duet/internal/mix"
	"github.com/llehouerou/duet/internal/playlist"
	"github.com/llehouerou/duet/internal/progression"
	"github.com/llehouerou/duet/internal/rng"
	"github.com/llehouerou/duet/internal/selector"
)

type options struct {
	units int
	seed  uint64
	key   int
	tempo int
}

func main() {
	var opts options
	cmd := &cobra.Command{
		Use:   "mixplan LIBRARY",
		Short: "Print the first units planned from a library file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			lib, err := catalog.LoadFile(args[0], cfg.GetLibraryConfig().Tempos)
			if err != nil {
				return err
			}
			return plan(cmd.OutOrStdout(), lib, cfg, opts)
		},
	}
	cmd.Flags().IntVarP(&opts.units, "units", "n", 16, "units to plan")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 1, "random seed")
	cmd.Flags().IntVar(&opts.key, "key", 1, "starting key")
	cmd.Flags().IntVar(&opts.tempo, "tempo", 0, "starting tempo (first library tempo when 0)")

	if err := cmd.Execute(); err != nil {
		log.Printf("mixplan: %v", err)
		os.Exit(1)
	}
}

// plan walks the progression and prints one line per assembled unit, then the token
// of the whole plan.
func plan(w io.Writer, lib *catalog.Library, cfg *config.Config, opts options) error {
	tempo := opts.tempo
	if tempo == 0 && len(lib.Tempos()) > 0 {
		tempo = lib.Tempos()[0]
	}

	sel := selector.New(lib, cfg.GetSelectorConfig(), rng.NewPCG(opts.seed), zerolog.Nop())
	asm := mix.NewAssembler(sel, mix.NewResolver(cfg.GetAssetsConfig()), cfg.GetMixConfig())
	prog := progression.New(lib, catalog.WrapKey(opts.key), tempo, cfg.GetProgressionConfig())

	entries := make([]playlist.Entry, 0, opts.units)
	for range opts.units {
		u, err := asm.Assemble(prog.Next())
		if err != nil {
			return fmt.Errorf("unit %d: %w", len(entries)+1, err)
		}
		names := make([]string, 0, len(u.Tracks))
		for _, t := range u.Tracks {
			names = append(names, t.Song.String())
		}
		fmt.Fprintf(w, "%3d  key %2d  %3d bpm  %5.1fs  %s\n",
			u.Seq, u.Key, u.Tempo, u.Duration(), strings.Join(names, " + "))
		entries = append(entries, playlist.Entry{Key: u.Key, Tempo: u.Tempo, IDs: u.IDs()})
	}
	fmt.Fprintf(w, "wave %d, %d songs played\n", sel.Wave(), sel.Played())
	fmt.Fprintln(w, playlist.Encode(entries))
	return nil
}
