package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/duet/internal/assets"
	"github.com/llehouerou/duet/internal/catalog"
	"github.com/llehouerou/duet/internal/config"
	"github.com/llehouerou/duet/internal/mix"
	"github.com/llehouerou/duet/internal/player"
	"github.com/llehouerou/duet/internal/playback"
	"github.com/llehouerou/duet/internal/rng"
	"github.com/llehouerou/duet/internal/selector"
	"github.com/llehouerou/duet/internal/state"
)

const (
	engineBuffer   = 100 * time.Millisecond
	prefetchWindow = 3 * time.Second
)

// loadLibrary reads the catalog from the database. An empty database is seeded from
// the configured library file.
func loadLibrary(cfg *config.Config, store state.Interface, logger zerolog.Logger) (*catalog.Library, error) {
	libCfg := cfg.GetLibraryConfig()
	songs, err := store.Songs()
	if err != nil {
		return nil, err
	}
	if len(songs) == 0 && libCfg.File != "" {
		lib, err := importLibrary(libCfg.File, cfg, store, false)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("file", libCfg.File).Int("songs", lib.Len()).Msg("library seeded")
		return lib, nil
	}
	return catalog.New(songs, libCfg.Tempos)
}

// importLibrary validates a TOML library file and replaces the stored catalog with it.
// With fillTags, missing titles and artists are read from local intro assets.
func importLibrary(path string, cfg *config.Config, store state.Interface, fillTags bool) (*catalog.Library, error) {
	records, err := catalog.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if fillTags {
		resolver := mix.NewResolver(cfg.GetAssetsConfig())
		for i, r := range records {
			intro, _ := resolver.Resolve(r.Song())
			if mix.IsRemote(intro) {
				continue
			}
			if filled, err := catalog.FillFromTags(r, intro); err == nil {
				records[i] = filled
			}
		}
	}

	songs := make([]catalog.Song, len(records))
	for i, r := range records {
		songs[i] = r.Song()
	}
	lib, err := catalog.New(songs, cfg.GetLibraryConfig().Tempos)
	if err != nil {
		return nil, err
	}
	if err := store.ReplaceSongs(lib.Songs()); err != nil {
		return nil, err
	}
	return lib, nil
}

// newSource builds the randomness source: PCG, or the remote service backed by PCG.
func newSource(cfg config.RandomConfig, logger zerolog.Logger) rng.Source {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano()) //nolint:gosec // seed only
	}
	pcg := rng.NewPCG(seed)
	if cfg.Source != "remote" {
		return pcg
	}

	remote := rng.NewRemote(cfg.URL, pcg, logger)
	ctx, cancel := context.WithTimeout(context.Background(), prefetchWindow)
	defer cancel()
	if err := remote.Prefetch(ctx); err != nil {
		logger.Warn().Err(err).Str("url", cfg.URL).Msg("randomness service unavailable, using local source")
	}
	return remote
}

// mixer bundles what the interface needs and what must be released on exit.
type mixer struct {
	service playback.Service
	engine  player.Engine
	tempos  []int
}

func (m *mixer) Close() error {
	err := m.service.Close()
	if cerr := m.engine.Close(); err == nil {
		err = cerr
	}
	return err
}

// newMixer wires selection, assembly, asset loading and the audio engine into a
// playback service.
func newMixer(cfg *config.Config, lib *catalog.Library, logger zerolog.Logger) (*mixer, error) {
	assetsCfg := cfg.GetAssetsConfig()
	mixCfg := cfg.GetMixConfig()

	src := newSource(cfg.GetRandomConfig(), logger.With().Str("component", "rng").Logger())
	sel := selector.New(lib, cfg.GetSelectorConfig(), src, logger.With().Str("component", "selector").Logger())
	asm := mix.NewAssembler(sel, mix.NewResolver(assetsCfg), mixCfg)

	engine, err := player.NewBeepEngine(player.DefaultSampleRate, engineBuffer)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}

	loader := assets.NewLoader(
		assets.NewFetcher(nil),
		engine,
		assets.NewCache(assets.CapacityForUnits(assetsCfg.CacheUnits)),
		assetsCfg,
		logger.With().Str("component", "assets").Logger(),
	)

	svc := playback.New(playback.Options{
		Engine:      engine,
		Loader:      loader,
		Selector:    sel,
		Assembler:   asm,
		Playback:    cfg.GetPlaybackConfig(),
		Progression: cfg.GetProgressionConfig(),
		Modes:       cfg.GetModesConfig(),
		Logger:      logger.With().Str("component", "playback").Logger(),
	})
	return &mixer{service: svc, engine: engine, tempos: lib.Tempos()}, nil
}
