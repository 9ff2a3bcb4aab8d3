package monitor

import (
	"context"
	"sync"

	"github.com/lbkulinski/ffxiv-economy-bot/internal/models"
)

// Dispatcher filters the live listing stream down to watched items and hands
// matches to the Evaluator. It keeps no state and buffers nothing: an event
// that arrives while the process is down is simply gone.
type Dispatcher struct {
	watchlist *models.Watchlist
	evaluator *Evaluator

	wg sync.WaitGroup
}

// NewDispatcher creates a Dispatcher forwarding to evaluator.
func NewDispatcher(watchlist *models.Watchlist, evaluator *Evaluator) *Dispatcher {
	return &Dispatcher{
		watchlist: watchlist,
		evaluator: evaluator,
	}
}

// HandleListings is the feed sink. Non-watched items are discarded on the
// caller's goroutine; watched items are evaluated on their own goroutine so
// a baseline refresh (up to several seconds of retries) never stalls the
// feed's read loop or events for unrelated items.
func (d *Dispatcher) HandleListings(ctx context.Context, itemID int, listings []models.Listing) {
	if !d.watchlist.Contains(itemID) {
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.evaluator.Evaluate(ctx, itemID, listings)
	}()
}

// Wait blocks until all in-flight evaluations have finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
