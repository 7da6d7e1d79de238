//go:build !windows

// Package stderr captures what native audio code (ALSA through oto) writes straight to
// file descriptor 2, so it cannot draw over the terminal interface.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"syscall"
)

const bufferedLines = 100

// Capture redirects fd 2 into a pipe until Stop.
type Capture struct {
	lines chan string
	orig  int
	r, w  *os.File
}

// Start redirects stderr. It must run before the audio device is opened. On error
// stderr is left untouched and the program can carry on without capture.
func Start() (*Capture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	orig, err := syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}
	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	c := &Capture{lines: make(chan string, bufferedLines), orig: orig, r: r, w: w}
	go c.read()
	return c, nil
}

func (c *Capture) read() {
	defer close(c.lines)
	scanner := bufio.NewScanner(c.r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		select {
		case c.lines <- line:
		default:
			// full, drop
		}
	}
}

// Lines receives captured lines. It is closed after Stop.
func (c *Capture) Lines() <-chan string {
	return c.lines
}

// WriteOriginal writes to the terminal's stderr, bypassing the capture.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = syscall.Write(c.orig, []byte(msg))
}

// Stop restores the original stderr.
func (c *Capture) Stop() {
	_ = syscall.Dup2(c.orig, int(os.Stderr.Fd()))
	_ = syscall.Close(c.orig)
	c.w.Close()
	c.r.Close()
}
