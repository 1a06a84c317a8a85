package holidays

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/warp/stir-engine/curve"
)

// Origin says where the current calendar came from.
type Origin string

const (
	OriginLive     Origin = "live"
	OriginCache    Origin = "cache"
	OriginFallback Origin = "fallback"
)

// Source fetches a single year. *Client implements it.
type Source interface {
	FetchYear(ctx context.Context, year int) ([]curve.Holiday, error)
}

// Cache persists the last live calendar. Both stores implement it.
type Cache interface {
	CachedHolidays(ctx context.Context) ([]curve.Holiday, error)
	CacheHolidays(ctx context.Context, holidays []curve.Holiday) error
}

// Resolver owns the calendar every curve is generated against.
type Resolver struct {
	source Source // nil means offline
	cache  Cache  // optional
	years  []int
	logger *zap.Logger

	mu      sync.RWMutex
	current []curve.Holiday
	origin  Origin
}

// NewResolver starts on the static fallback until Refresh succeeds.
// A nil source keeps the resolver offline; a nil cache skips caching.
func NewResolver(source Source, cache Cache, years []int, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		source:  source,
		cache:   cache,
		years:   append([]int(nil), years...),
		logger:  logger,
		current: curve.FallbackHolidays(),
		origin:  OriginFallback,
	}
}

// Current returns a copy of the calendar in use and where it came from.
func (r *Resolver) Current() ([]curve.Holiday, Origin) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]curve.Holiday(nil), r.current...), r.origin
}

// Refresh re-resolves the calendar: live, then cache, then fallback.
// It never fails; the chosen origin is returned and logged.
func (r *Resolver) Refresh(ctx context.Context) Origin {
	holidays, origin := r.resolve(ctx)

	r.mu.Lock()
	r.current = holidays
	r.origin = origin
	r.mu.Unlock()

	r.logger.Info("holiday calendar resolved",
		zap.String("origin", string(origin)),
		zap.Int("holidays", len(holidays)),
		zap.Ints("years", r.years),
	)
	return origin
}

func (r *Resolver) resolve(ctx context.Context) ([]curve.Holiday, Origin) {
	live, err := r.fetchAll(ctx)
	if err == nil {
		r.store(ctx, live)
		return live, OriginLive
	}
	r.logger.Warn("live holiday fetch failed, falling back", zap.Error(err))

	if r.cache != nil {
		cached, err := r.cache.CachedHolidays(ctx)
		switch {
		case err != nil:
			r.logger.Warn("holiday cache read failed", zap.Error(err))
		case len(cached) > 0:
			return cached, OriginCache
		}
	}
	return curve.FallbackHolidays(), OriginFallback
}

// fetchAll fetches every year concurrently. One failed year fails the
// whole set.
func (r *Resolver) fetchAll(ctx context.Context) ([]curve.Holiday, error) {
	if r.source == nil {
		return nil, fmt.Errorf("%w: offline", ErrUnavailable)
	}
	if len(r.years) == 0 {
		return nil, fmt.Errorf("%w: no years configured", ErrUnavailable)
	}

	perYear := make([][]curve.Holiday, len(r.years))
	g, gctx := errgroup.WithContext(ctx)
	for i, year := range r.years {
		i, year := i, year
		g.Go(func() error {
			hs, err := r.source.FetchYear(gctx, year)
			if err != nil {
				return fmt.Errorf("year %d: %w", year, err)
			}
			perYear[i] = hs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	var all []curve.Holiday
	for _, hs := range perYear {
		all = append(all, hs...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Date.Before(all[j].Date) })
	return all, nil
}

func (r *Resolver) store(ctx context.Context, holidays []curve.Holiday) {
	if r.cache == nil {
		return
	}
	if err := r.cache.CacheHolidays(ctx, holidays); err != nil {
		r.logger.Warn("holiday cache write failed", zap.Error(err))
	}
}
