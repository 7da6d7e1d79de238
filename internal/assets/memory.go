package assets

import (
	"context"
	"fmt"
	"sync"
)

var _ Fetcher = (*MemoryFetcher)(nil)

// MemoryFetcher serves assets from memory. It counts fetches per location and can fail
// a location a given number of times before succeeding.
type MemoryFetcher struct {
	mu       sync.Mutex
	data     map[string][]byte
	failures map[string]int
	calls    map[string]int
	gate     chan struct{}
}

// NewMemoryFetcher creates an empty in-memory fetcher.
func NewMemoryFetcher() *MemoryFetcher {
	return &MemoryFetcher{
		data:     make(map[string][]byte),
		failures: make(map[string]int),
		calls:    make(map[string]int),
	}
}

// Set stores data for location.
func (f *MemoryFetcher) Set(location string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[location] = data
}

// FailNext makes the next n fetches of location fail.
func (f *MemoryFetcher) FailNext(location string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[location] = n
}

// Hold blocks every fetch until Release is called.
func (f *MemoryFetcher) Hold() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = make(chan struct{})
}

// Release unblocks fetches held by Hold.
func (f *MemoryFetcher) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gate != nil {
		close(f.gate)
		f.gate = nil
	}
}

// Calls returns how many times location was fetched.
func (f *MemoryFetcher) Calls(location string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[location]
}

// Fetch implements Fetcher. Unknown locations return data equal to the location.
func (f *MemoryFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[location]++
	if f.failures[location] > 0 {
		f.failures[location]--
		return nil, fmt.Errorf("fetch %s: simulated failure", location)
	}
	if d, ok := f.data[location]; ok {
		return d, nil
	}
	return []byte(location), nil
}
