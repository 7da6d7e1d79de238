// Package notify sends desktop notifications over D-Bus when a unit starts.
package notify

import (
	"fmt"

	"github.com/llehouerou/duet/internal/mix"
)

// unitTimeout is how long a unit notification stays up, in ms.
const unitTimeout = 5000

// Urgency represents notification priority levels per freedesktop spec.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Notification contains data for a desktop notification.
type Notification struct {
	Title      string  // Summary text (required)
	Body       string  // Body text (optional, supports basic markup)
	Icon       string  // Path to image file or icon name (optional)
	Timeout    int32   // ms, -1 = server default, 0 = never expire
	ReplacesID uint32  // 0 = new notification, >0 = replace existing
	Urgency    Urgency // Low, Normal, Critical
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends a notification and returns its ID.
	// Returns 0 and nil error if notifications are disabled or unavailable.
	Notify(n Notification) (uint32, error)
	// Close closes a notification by ID.
	Close(id uint32) error
}

// ForUnit builds the notification shown when u becomes audible. replaces is the id of
// the previous unit notification, so only one stays on screen.
func ForUnit(u *mix.Unit, replaces uint32) Notification {
	a, b := u.Tracks[0].Song, u.Tracks[1].Song
	return Notification{
		Title:      fmt.Sprintf("Key %d · %d bpm", u.Key, u.Tempo),
		Body:       a.String() + "\n" + b.String(),
		Icon:       "audio-x-generic",
		Timeout:    unitTimeout,
		ReplacesID: replaces,
		Urgency:    UrgencyLow,
	}
}
