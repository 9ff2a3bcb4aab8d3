package models

import (
	"time"

	"github.com/google/uuid"
)

// Alert records one listing priced anomalously low against its baseline.
// Alerts are handed to the notification sinks and then forgotten; the same
// underlying market listing may alert again after a feed reconnect replay.
type Alert struct {
	ID         string
	ItemID     int
	ItemName   string
	Listing    Listing
	Average    float64
	Ratio      float64
	DetectedAt time.Time
}

// NewAlert builds an alert for a listing evaluated against average.
// Ratio is the listing price as a percentage of the baseline average.
func NewAlert(itemID int, itemName string, listing Listing, average float64) Alert {
	return Alert{
		ID:         uuid.New().String(),
		ItemID:     itemID,
		ItemName:   itemName,
		Listing:    listing,
		Average:    average,
		Ratio:      float64(listing.PricePerUnit) / average * 100,
		DetectedAt: time.Now(),
	}
}
