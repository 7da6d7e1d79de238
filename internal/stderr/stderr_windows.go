//go:build windows

// Package stderr is a no-op on Windows, where the audio backend does not write to fd 2.
package stderr

import "os"

// Capture does nothing on Windows.
type Capture struct{}

// Start returns a capture that never receives lines.
func Start() (*Capture, error) {
	return &Capture{}, nil
}

// Lines returns nil; receiving from it blocks forever.
func (c *Capture) Lines() <-chan string { return nil }

// WriteOriginal writes to stderr.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

// Stop does nothing.
func (c *Capture) Stop() {}
