package mix

// History keeps the most recent units that became audible, newest last.
type History struct {
	units   []*Unit
	maxSize int
}

// NewHistory creates a history holding at most maxSize units.
func NewHistory(maxSize int) *History {
	return &History{
		units:   make([]*Unit, 0, maxSize),
		maxSize: max(maxSize, 2),
	}
}

// Push records u as the current unit. Pushing the current unit again is a no-op.
func (h *History) Push(u *Unit) {
	if n := len(h.units); n > 0 && h.units[n-1].Seq == u.Seq {
		return
	}
	h.units = append(h.units, u)
	if len(h.units) > h.maxSize {
		excess := len(h.units) - h.maxSize
		h.units = h.units[excess:]
	}
}

// Back drops the current unit and returns the one before it, which becomes current.
// Returns nil and false with fewer than two units.
func (h *History) Back() (*Unit, bool) {
	if !h.CanGoBack() {
		return nil, false
	}
	h.units = h.units[:len(h.units)-1]
	return h.units[len(h.units)-1], true
}

// CanGoBack returns true if there is a unit before the current one.
func (h *History) CanGoBack() bool {
	return len(h.units) >= 2
}

// Current returns the newest unit.
func (h *History) Current() (*Unit, bool) {
	if len(h.units) == 0 {
		return nil, false
	}
	return h.units[len(h.units)-1], true
}

// Len returns the number of units held.
func (h *History) Len() int { return len(h.units) }

// Units returns the units, oldest first.
func (h *History) Units() []*Unit {
	out := make([]*Unit, len(h.units))
	copy(out, h.units)
	return out
}

// Clear drops every unit.
func (h *History) Clear() {
	h.units = h.units[:0]
}
