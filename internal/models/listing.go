// Package models defines the core domain entities: market listings, catalog
// items, the materia watchlist, and price alerts.
package models

import (
	"errors"
	"time"
)

// Listing is a single market board offer for one item. Listings are value
// objects: once decoded from the feed or a snapshot they are never mutated.
type Listing struct {
	ItemID         int       `json:"itemID"`
	ListingID      string    `json:"listingID"`
	PricePerUnit   int       `json:"pricePerUnit"`
	Quantity       int       `json:"quantity"`
	WorldName      string    `json:"worldName"`
	DataCenterName string    `json:"dataCenterName"`
	HQ             bool      `json:"hq"`
	Total          int       `json:"total"`
	Tax            int       `json:"tax"`
	RetainerName   string    `json:"retainerName"`
	LastReviewTime time.Time `json:"lastReviewTime"`
}

// Validate checks listing field constraints.
func (l *Listing) Validate() error {
	if l.ItemID <= 0 {
		return errors.New("item ID must be positive")
	}
	if l.ListingID == "" {
		return errors.New("listing ID must not be empty")
	}
	if l.PricePerUnit < 0 {
		return errors.New("price per unit must not be negative")
	}
	if l.Quantity < 0 {
		return errors.New("quantity must not be negative")
	}
	if l.WorldName == "" {
		return errors.New("world name must not be empty")
	}
	return nil
}

// MarketSnapshot is the set of listings currently shown for one item, as
// returned by a single market board query. The listing order carries no
// meaning and the set may be empty.
type MarketSnapshot struct {
	ItemID         int       `json:"itemID"`
	LastUploadTime time.Time `json:"lastUploadTime"`
	ListingsCount  int       `json:"listingsCount"`
	UnitsForSale   int       `json:"unitsForSale"`
	Listings       []Listing `json:"listings"`
}

// Prices returns the per-unit prices of all listings in the snapshot.
func (s *MarketSnapshot) Prices() []float64 {
	prices := make([]float64, len(s.Listings))
	for i, l := range s.Listings {
		prices[i] = float64(l.PricePerUnit)
	}
	return prices
}
