package app

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/duet/internal/keymap"
	"github.com/llehouerou/duet/internal/notify"
	"github.com/llehouerou/duet/internal/playback"
	"github.com/llehouerou/duet/internal/state"
)

// volumeStep is the hidden-track volume change per key press.
const volumeStep = 0.1

// Model is the root application model.
type Model struct {
	Playback playback.Service
	StateMgr state.Interface
	Keys     *keymap.Resolver
	Help     help.Model
	Logger   zerolog.Logger

	// Optional; nil disables them.
	Notifier notify.Notifier
	Stderr   <-chan string

	playbackSub *playback.Subscription
	snap        playback.Snapshot
	tempos      []int
	notifyID    uint32

	Status    string
	StatusErr bool
	ShowHelp  bool
	Width     int
	Height    int

	now func() time.Time
}

// New creates the model. tempos is the library tempo set, in ascending order.
func New(svc playback.Service, stateMgr state.Interface, tempos []int, logger zerolog.Logger) Model {
	h := help.New()
	h.ShortSeparator = "  "
	return Model{
		Playback:    svc,
		StateMgr:    stateMgr,
		Keys:        keymap.NewResolver(keymap.Bindings),
		Help:        h,
		Logger:      logger,
		playbackSub: svc.Subscribe(),
		snap:        svc.Snapshot(),
		tempos:      tempos,
		now:         time.Now,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(WatchServiceEvents(m.playbackSub), WatchStderr(m.Stderr), TickCmd())
}

// Snapshot returns the last scheduler state the model saw.
func (m Model) Snapshot() playback.Snapshot {
	return m.snap
}
