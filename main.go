package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/llehouerou/duet/internal/app"
	"github.com/llehouerou/duet/internal/config"
	"github.com/llehouerou/duet/internal/errmsg"
	"github.com/llehouerou/duet/internal/icons"
	"github.com/llehouerou/duet/internal/mpris"
	"github.com/llehouerou/duet/internal/notify"
	"github.com/llehouerou/duet/internal/state"
	"github.com/llehouerou/duet/internal/stderr"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "duet",
		Short:         "Endless pair and quad mixes in the terminal",
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlayer()
		},
	}
	root.AddCommand(newImportCmd(), newSongsCmd(), newPlaylistCmd())
	return root
}

// env is what every command opens: configuration, log and database.
type env struct {
	cfg      *config.Config
	store    state.Interface
	closeLog func() error
}

func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	store, err := state.Open()
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &env{cfg: cfg, store: store}, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpSessionSave, err))
	}
	if e.closeLog != nil {
		_ = e.closeLog()
	}
}

func runPlayer() error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	logger, closeLog, err := openLog(e.cfg.GetLogConfig())
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	e.closeLog = closeLog
	icons.Init(e.cfg.GetUIConfig().Icons)

	lib, err := loadLibrary(e.cfg, e.store, logger)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpLibraryLoad, err))
	}
	if lib.Len() == 0 {
		return errors.New("library is empty: run duet import FILE or set library.file")
	}

	capture, err := stderr.Start()
	if err != nil {
		logger.Warn().Err(err).Msg("stderr capture unavailable")
	} else {
		defer capture.Stop()
	}

	m, err := newMixer(e.cfg, lib, logger)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer func() {
		if err := m.Close(); err != nil {
			logger.Error().Err(err).Msg("close mixer")
		}
	}()

	app.RestoreSession(m.service, e.store, logger)
	model := app.New(m.service, e.store, m.tempos, logger)
	if capture != nil {
		model.Stderr = capture.Lines()
	}
	if e.cfg.GetUIConfig().Notifications {
		if model.Notifier, err = notify.New(); err != nil {
			logger.Warn().Err(err).Msg("notifications unavailable")
		}
	}

	if adapter, err := mpris.New(m.service); err != nil {
		logger.Warn().Err(err).Msg("mpris unavailable")
	} else {
		defer adapter.Close()
	}

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run interface: %w", err)
	}
	return nil
}
