// Package monitor contains the alerting pipeline fed by the live listing
// stream: the Dispatcher filters events down to watched items and the
// Evaluator judges each listing against its baseline average.
package monitor

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/lbkulinski/ffxiv-economy-bot/internal/logger"
	"github.com/lbkulinski/ffxiv-economy-bot/internal/models"
)

// Baseline supplies the robust average price for an item.
type Baseline interface {
	Average(ctx context.Context, itemID int) (float64, error)
}

// Catalog resolves item display names.
type Catalog interface {
	Item(ctx context.Context, id int) (models.Item, error)
}

// Notifier delivers a composed alert message.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Evaluator turns listing events into price alerts. Every listing in a batch
// is judged independently; listings at or below the threshold percentage of
// the baseline average produce an alert, the rest produce nothing.
type Evaluator struct {
	baseline  Baseline
	catalog   Catalog
	notifier  Notifier
	threshold float64
}

// NewEvaluator creates an Evaluator. threshold is the alerting ratio in
// percent: a listing alerts when 100*price/average <= threshold.
func NewEvaluator(baseline Baseline, catalog Catalog, notifier Notifier, threshold float64) *Evaluator {
	return &Evaluator{
		baseline:  baseline,
		catalog:   catalog,
		notifier:  notifier,
		threshold: threshold,
	}
}

// Evaluate judges every listing in the batch against the item's baseline.
// An unavailable baseline drops the batch: the next event for the item will
// retry naturally. Notification failures are logged and swallowed; missed
// alerts are tolerable, crashed processing is not.
func (e *Evaluator) Evaluate(ctx context.Context, itemID int, listings []models.Listing) {
	average, err := e.baseline.Average(ctx, itemID)
	if err != nil {
		logger.Debug("Dropping %d listing(s) for item %d: %v", len(listings), itemID, err)
		return
	}

	name := e.itemName(ctx, itemID)

	for _, listing := range listings {
		ratio := float64(listing.PricePerUnit) / average * 100
		if !(ratio <= e.threshold) {
			continue
		}

		alert := models.NewAlert(itemID, name, listing, average)
		logger.Info("Price alert %s: item %d listed at %d gil against average %.2f (%.1f%%)",
			alert.ID, itemID, listing.PricePerUnit, average, ratio)

		if err := e.notifier.Send(ctx, FormatAlert(alert)); err != nil {
			logger.Error("Failed to deliver alert %s: %v", alert.ID, err)
		}
	}
}

// itemName resolves the item's display name, falling back to the numeric ID
// so a catalog outage never suppresses an alert.
func (e *Evaluator) itemName(ctx context.Context, itemID int) string {
	item, err := e.catalog.Item(ctx, itemID)
	if err != nil {
		logger.Warn("Failed to resolve name for item %d: %v", itemID, err)
		return fmt.Sprintf("Item %d", itemID)
	}
	if item.Name == "" {
		logger.Warn("Catalog returned an empty name for item %d", itemID)
		return fmt.Sprintf("Item %d", itemID)
	}
	return item.Name
}

// FormatAlert renders the notification message for an alert.
func FormatAlert(a models.Alert) string {
	return fmt.Sprintf(`Materia price alert!
- %s (%d)
  - Listing ID: %s
  - Location: %s (%s)
  - Average: %s gil
  - Price: %s gil
`,
		a.ItemName,
		a.ItemID,
		a.Listing.ListingID,
		a.Listing.WorldName,
		a.Listing.DataCenterName,
		humanize.FormatFloat("#,###.##", a.Average),
		humanize.Comma(int64(a.Listing.PricePerUnit)),
	)
}
