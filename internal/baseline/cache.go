// Package baseline maintains the per-item robust average price that incoming
// listings are judged against. It is the only stateful component between the
// live feed and the notification sinks, and the only one allowed to talk to
// the market-data service on the hot path.
package baseline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/lbkulinski/ffxiv-economy-bot/internal/logger"
	"github.com/lbkulinski/ffxiv-economy-bot/internal/models"
	"github.com/lbkulinski/ffxiv-economy-bot/internal/stats"
)

// ErrUnavailable is returned when no baseline can be produced for an item:
// every fetch attempt failed (or returned no listings) and no previously
// computed value exists to fall back on.
var ErrUnavailable = errors.New("baseline unavailable")

// Fetcher performs one point-in-time market board query. It must not retry
// internally; transient-fault handling belongs to the cache.
type Fetcher interface {
	CurrentData(ctx context.Context, worldDcRegion string, itemID int) (models.MarketSnapshot, error)
}

// Config holds cache behavior configuration.
type Config struct {
	Region     string
	TTL        time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultConfig returns the production cache configuration.
func DefaultConfig() Config {
	return Config{
		Region:     "North-America",
		TTL:        2 * time.Minute,
		MaxRetries: 5,
		RetryDelay: time.Second,
	}
}

type entry struct {
	value      float64
	computedAt time.Time
}

// Cache maps item IDs to their last-computed adjusted average price.
// Expiry is lazy: an entry past its TTL is treated as a miss on the next
// Average call, and the miss path refetches. The cache exclusively owns its
// entries; callers only ever see the float value.
type Cache struct {
	fetcher Fetcher
	config  Config

	mu      sync.RWMutex
	entries map[int]entry

	group singleflight.Group
}

// New creates a cache backed by fetcher.
func New(fetcher Fetcher, config Config) *Cache {
	return &Cache{
		fetcher: fetcher,
		config:  config,
		entries: make(map[int]entry),
	}
}

// Average returns the adjusted average price for itemID.
//
// A non-expired entry is returned without network access. On a miss the
// cache fetches, retries on failure up to the configured bound, and either
// stores a freshly computed average or falls back to the previous value
// regardless of its age. Concurrent callers for the same item share one
// refresh; callers for different items proceed independently.
func (c *Cache) Average(ctx context.Context, itemID int) (float64, error) {
	if v, ok := c.fresh(itemID); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(strconv.Itoa(itemID), func() (any, error) {
		// A refresh that completed while this caller waited on the
		// singleflight key satisfies the miss.
		if v, ok := c.fresh(itemID); ok {
			return v, nil
		}
		return c.refresh(ctx, itemID)
	})
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}

func (c *Cache) fresh(itemID int) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[itemID]
	if !ok || time.Since(e.computedAt) >= c.config.TTL {
		return 0, false
	}
	return e.value, true
}

func (c *Cache) lastKnown(itemID int) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[itemID]
	return e.value, ok
}

func (c *Cache) refresh(ctx context.Context, itemID int) (float64, error) {
	logger.Info("Computing adjusted average for item %d", itemID)

	snapshot, err := c.fetchWithRetry(ctx, itemID)
	if err != nil {
		return c.fallback(itemID, err)
	}

	avg, err := stats.AdjustedAverage(snapshot.Prices())
	if err != nil {
		// A successful fetch with zero listings produces no value either.
		return c.fallback(itemID, err)
	}

	c.mu.Lock()
	c.entries[itemID] = entry{value: avg, computedAt: time.Now()}
	c.mu.Unlock()

	return avg, nil
}

// fallback serves the last-known value after a failed refresh, however old
// it is. Staleness is preferred over silence: a temporarily unreachable
// upstream must not stop alerting entirely.
func (c *Cache) fallback(itemID int, cause error) (float64, error) {
	if prev, ok := c.lastKnown(itemID); ok {
		logger.Warn("Serving stale baseline for item %d: %v", itemID, cause)
		return prev, nil
	}
	return 0, fmt.Errorf("item %d: %w", itemID, ErrUnavailable)
}

// fetchWithRetry performs up to MaxRetries fetch attempts with a fixed,
// context-cancellable delay between attempts. Individual attempt failures
// are not failure-worthy; only exhaustion is logged.
func (c *Cache) fetchWithRetry(ctx context.Context, itemID int) (models.MarketSnapshot, error) {
	var lastErr error
	for attempt := 0; attempt < c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return models.MarketSnapshot{}, ctx.Err()
			case <-time.After(c.config.RetryDelay):
			}
		}

		snapshot, err := c.fetcher.CurrentData(ctx, c.config.Region, itemID)
		if err == nil {
			return snapshot, nil
		}
		lastErr = err
		logger.Debug("Fetch attempt %d/%d for item %d failed: %v", attempt+1, c.config.MaxRetries, itemID, err)
	}

	logger.Error("Failed to fetch market data for item %d after %d attempts: %v", itemID, c.config.MaxRetries, lastErr)
	return models.MarketSnapshot{}, lastErr
}
