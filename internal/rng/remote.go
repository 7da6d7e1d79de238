package rng

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	remoteBatchSize = 256
	remoteLowWater  = 32
	remoteTimeout   = 5 * time.Second
)

// Remote draws values from an HTTP randomness service and falls back to a local source
// whenever its buffer is empty or the service fails. Float64 never blocks on the network.
//
// The service is queried as GET {url}?n=256 and must answer with {"data": [0.12, ...]},
// every value in [0, 1).
type Remote struct {
	url      string
	client   *http.Client
	fallback Source
	logger   zerolog.Logger

	mu       sync.Mutex
	buf      []float64
	fetching bool
}

// NewRemote creates a remote source. Call Prefetch to warm the buffer.
func NewRemote(serviceURL string, fallback Source, logger zerolog.Logger) *Remote {
	return &Remote{
		url:      serviceURL,
		client:   &http.Client{Timeout: remoteTimeout},
		fallback: fallback,
		logger:   logger,
	}
}

// Float64 implements Source.
func (r *Remote) Float64() float64 {
	r.mu.Lock()
	if len(r.buf) <= remoteLowWater && !r.fetching {
		r.fetching = true
		go r.refill(context.Background())
	}
	if len(r.buf) == 0 {
		r.mu.Unlock()
		return r.fallback.Float64()
	}
	v := r.buf[0]
	r.buf = r.buf[1:]
	r.mu.Unlock()
	return v
}

// Buffered returns how many remote values are waiting.
func (r *Remote) Buffered() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buf)
}

// Prefetch fills the buffer synchronously.
func (r *Remote) Prefetch(ctx context.Context) error {
	values, err := r.fetch(ctx)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.buf = append(r.buf, values...)
	r.mu.Unlock()
	return nil
}

func (r *Remote) refill(ctx context.Context) {
	values, err := r.fetch(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetching = false
	if err != nil {
		r.logger.Warn().Err(err).Msg("random service unavailable, using local source")
		return
	}
	r.buf = append(r.buf, values...)
}

func (r *Remote) fetch(ctx context.Context) ([]float64, error) {
	u, err := url.Parse(r.url)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("n", strconv.Itoa(remoteBatchSize))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("random service: status %d", resp.StatusCode)
	}

	var body struct {
		Data []float64 `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("random service: %w", err)
	}

	values := body.Data[:0]
	for _, v := range body.Data {
		if v >= 0 && v < 1 {
			values = append(values, v)
		}
	}
	return values, nil
}
