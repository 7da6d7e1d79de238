package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const fetchTimeout = 30 * time.Second

// Fetcher retrieves raw asset bytes.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// StatusError is returned for non-200 HTTP responses.
type StatusError struct {
	Location string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: status %d", e.Location, e.Code)
}

// DefaultFetcher reads http(s) URLs over the network and everything else, including
// file:// URLs, from the filesystem.
type DefaultFetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher. A nil client uses one with a 30 second timeout.
func NewFetcher(client *http.Client) *DefaultFetcher {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	return &DefaultFetcher{client: client}
}

// Fetch implements Fetcher.
func (f *DefaultFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return f.fetchHTTP(ctx, location)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(strings.TrimPrefix(location, "file://"))
}

func (f *DefaultFetcher) fetchHTTP(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Location: location, Code: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}
