package main

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"

	"github.com/llehouerou/duet/internal/config"
)

// openLog opens the log file named by cfg, or $XDG_STATE_HOME/duet/duet.log. The
// terminal belongs to the interface, so nothing is logged to it.
func openLog(cfg config.LogConfig) (zerolog.Logger, func() error, error) {
	path := cfg.File
	if path == "" {
		var err error
		path, err = xdg.StateFile(filepath.Join("duet", "duet.log"))
		if err != nil {
			return zerolog.Nop(), nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(f).Level(level).With().Timestamp().Logger()
	return logger, f.Close, nil
}
