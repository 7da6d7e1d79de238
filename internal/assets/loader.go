package assets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/llehouerou/duet/internal/config"
	"github.com/llehouerou/duet/internal/player"
)

// ErrUnknownFormat is returned for assets that are neither MP3 nor FLAC. It is not
// retried.
var ErrUnknownFormat = player.ErrUnknownFormat

// Decoder turns raw bytes into a buffer. player.Engine satisfies it.
type Decoder interface {
	Decode(name string, data []byte) (*player.Buffer, error)
}

// Loader fetches and decodes assets through the cache. Concurrent loads of the same
// location share one in-flight attempt.
type Loader struct {
	fetcher Fetcher
	decoder Decoder
	cache   *Cache
	group   singleflight.Group
	retries int
	backoff time.Duration
	logger  zerolog.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewLoader creates a loader.
func NewLoader(f Fetcher, d Decoder, c *Cache, cfg config.AssetsConfig, logger zerolog.Logger) *Loader {
	return &Loader{
		fetcher: f,
		decoder: d,
		cache:   c,
		retries: max(cfg.Retries, 0),
		backoff: time.Duration(cfg.BackoffMS) * time.Millisecond,
		logger:  logger,
		sleep:   sleepCtx,
	}
}

// Cache returns the loader's cache.
func (l *Loader) Cache() *Cache { return l.cache }

// Load returns the decoded buffer for location.
func (l *Loader) Load(ctx context.Context, location string) (*player.Buffer, error) {
	if buf, ok := l.cache.Get(location); ok {
		return buf, nil
	}

	ch := l.group.DoChan(location, func() (any, error) {
		gen := l.cache.Generation()
		// Shared by every waiter, so one caller giving up must not cancel it.
		buf, err := l.loadWithRetry(context.WithoutCancel(ctx), location)
		if err != nil {
			return nil, err
		}
		l.cache.PutIfCurrent(gen, location, buf)
		return buf, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*player.Buffer), nil //nolint:errcheck // always a buffer
	}
}

// LoadAll loads every location concurrently. It fails as a whole if any load fails.
// Buffers are returned in the order of locations.
func (l *Loader) LoadAll(ctx context.Context, locations []string) ([]*player.Buffer, error) {
	bufs := make([]*player.Buffer, len(locations))
	g, gctx := errgroup.WithContext(ctx)
	for i, loc := range locations {
		g.Go(func() error {
			buf, err := l.Load(gctx, loc)
			if err != nil {
				return err
			}
			bufs[i] = buf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bufs, nil
}

func (l *Loader) loadWithRetry(ctx context.Context, location string) (*player.Buffer, error) {
	delay := l.backoff
	var lastErr error
	for attempt := 0; attempt <= l.retries; attempt++ {
		if attempt > 0 {
			l.logger.Debug().Err(lastErr).Str("asset", location).Int("attempt", attempt).
				Dur("delay", delay).Msg("retrying asset load")
			if err := l.sleep(ctx, delay); err != nil {
				return nil, err
			}
			delay *= 2
		}

		buf, err := l.loadOnce(ctx, location)
		if err == nil {
			return buf, nil
		}
		lastErr = err
		if errors.Is(err, ErrUnknownFormat) || errors.Is(err, context.Canceled) {
			break
		}
	}
	l.logger.Warn().Err(lastErr).Str("asset", location).Msg("asset load failed")
	return nil, lastErr
}

func (l *Loader) loadOnce(ctx context.Context, location string) (*player.Buffer, error) {
	data, err := l.fetcher.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	buf, err := l.decoder.Decode(location, data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", location, err)
	}
	return buf, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
