package baseline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lbkulinski/ffxiv-economy-bot/internal/models"
)

// fakeFetcher is a scriptable Fetcher that counts attempts.
type fakeFetcher struct {
	mu     sync.Mutex
	calls  int
	delay  time.Duration
	err    error
	prices []int
}

func (f *fakeFetcher) CurrentData(ctx context.Context, region string, itemID int) (models.MarketSnapshot, error) {
	f.mu.Lock()
	f.calls++
	delay, err, prices := f.delay, f.err, f.prices
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return models.MarketSnapshot{}, err
	}

	listings := make([]models.Listing, len(prices))
	for i, p := range prices {
		listings[i] = models.Listing{
			ItemID:       itemID,
			ListingID:    fmt.Sprintf("listing-%d", i),
			PricePerUnit: p,
			WorldName:    "Faerie",
		}
	}
	return models.MarketSnapshot{ItemID: itemID, Listings: listings}, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeFetcher) setError(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func testConfig(ttl time.Duration) Config {
	return Config{
		Region:     "North-America",
		TTL:        ttl,
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
	}
}

func TestAverage_CachesWithinTTL(t *testing.T) {
	fetcher := &fakeFetcher{prices: []int{100, 200, 300}}
	cache := New(fetcher, testConfig(time.Minute))

	for i := 0; i < 3; i++ {
		got, err := cache.Average(context.Background(), 41758)
		if err != nil {
			t.Fatalf("Average: %v", err)
		}
		if got != 200 {
			t.Errorf("got %f, want 200", got)
		}
	}
	if n := fetcher.callCount(); n != 1 {
		t.Errorf("expected 1 fetch within TTL, got %d", n)
	}
}

func TestAverage_RefetchesAfterTTL(t *testing.T) {
	fetcher := &fakeFetcher{prices: []int{500}}
	cache := New(fetcher, testConfig(20*time.Millisecond))

	if _, err := cache.Average(context.Background(), 41758); err != nil {
		t.Fatalf("Average: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, err := cache.Average(context.Background(), 41758); err != nil {
		t.Fatalf("Average after expiry: %v", err)
	}

	if n := fetcher.callCount(); n != 2 {
		t.Errorf("expected exactly 2 fetches across TTL expiry, got %d", n)
	}
}

func TestAverage_ExhaustedRetriesWithoutPriorValue(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	cache := New(fetcher, testConfig(time.Minute))

	_, err := cache.Average(context.Background(), 41758)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if n := fetcher.callCount(); n != 3 {
		t.Errorf("expected MaxRetries=3 attempts, got %d", n)
	}
}

func TestAverage_StaleFallback(t *testing.T) {
	fetcher := &fakeFetcher{prices: []int{1000}}
	cache := New(fetcher, testConfig(20*time.Millisecond))

	got, err := cache.Average(context.Background(), 41758)
	if err != nil {
		t.Fatalf("Average: %v", err)
	}
	if got != 1000 {
		t.Fatalf("got %f, want 1000", got)
	}

	// Expire the entry, then break the upstream. The expired value must be
	// served instead of an error.
	time.Sleep(30 * time.Millisecond)
	fetcher.setError(errors.New("upstream down"))

	got, err = cache.Average(context.Background(), 41758)
	if err != nil {
		t.Fatalf("expected stale value, got error: %v", err)
	}
	if got != 1000 {
		t.Errorf("got %f, want stale 1000", got)
	}
}

func TestAverage_EmptySnapshotUnavailable(t *testing.T) {
	fetcher := &fakeFetcher{prices: []int{}}
	cache := New(fetcher, testConfig(time.Minute))

	_, err := cache.Average(context.Background(), 41758)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for empty snapshot, got %v", err)
	}
}

func TestAverage_SingleFlightSharedRefresh(t *testing.T) {
	// Two concurrent callers for the same missing key must share one retry
	// sequence, not run two.
	fetcher := &fakeFetcher{err: errors.New("boom"), delay: 50 * time.Millisecond}
	cache := New(fetcher, testConfig(time.Minute))

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Average(context.Background(), 41758); !errors.Is(err, ErrUnavailable) {
				t.Errorf("expected ErrUnavailable, got %v", err)
			}
		}()
	}
	wg.Wait()

	if n := fetcher.callCount(); n != 3 {
		t.Errorf("expected one shared retry sequence of 3 attempts, got %d", n)
	}
}

func TestAverage_DistinctItemsFetchIndependently(t *testing.T) {
	fetcher := &fakeFetcher{prices: []int{100}}
	cache := New(fetcher, testConfig(time.Minute))

	var wg sync.WaitGroup
	for _, id := range []int{41758, 41759} {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if _, err := cache.Average(context.Background(), id); err != nil {
				t.Errorf("Average(%d): %v", id, err)
			}
		}(id)
	}
	wg.Wait()

	if n := fetcher.callCount(); n != 2 {
		t.Errorf("expected one fetch per item, got %d", n)
	}
}

func TestAverage_CancelledContextStopsRetryWait(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("boom")}
	cfg := testConfig(time.Minute)
	cfg.RetryDelay = time.Hour

	cache := New(fetcher, cfg)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := cache.Average(ctx, 41758)
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("expected ErrUnavailable after cancellation, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("retry wait did not honor context cancellation")
	}
}
