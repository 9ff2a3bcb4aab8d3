// Package universalis provides access to the Universalis market-data service:
// a REST client for point-in-time market board snapshots and a websocket feed
// for live listing events.
package universalis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/lbkulinski/ffxiv-economy-bot/internal/models"
)

// Client provides access to the Universalis REST API.
type Client struct {
	apiURL     string
	httpClient *http.Client
}

// currentlyShownView mirrors the wire shape of a market board query response.
type currentlyShownView struct {
	ItemID         int           `json:"itemID"`
	LastUploadTime int64         `json:"lastUploadTime"` // unix milliseconds
	ListingsCount  int           `json:"listingsCount"`
	UnitsForSale   int           `json:"unitsForSale"`
	Listings       []listingView `json:"listings"`
}

type listingView struct {
	ListingID      string `json:"listingID"`
	PricePerUnit   int    `json:"pricePerUnit"`
	Quantity       int    `json:"quantity"`
	WorldID        int    `json:"worldID"`
	WorldName      string `json:"worldName"`
	HQ             bool   `json:"hq"`
	Total          int    `json:"total"`
	Tax            int    `json:"tax"`
	RetainerName   string `json:"retainerName"`
	LastReviewTime int64  `json:"lastReviewTime"` // unix seconds
}

// NewClient creates a new Universalis REST client.
func NewClient(apiURL string, timeout time.Duration) *Client {
	return &Client{
		apiURL: apiURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CurrentData performs one market board query for itemID scoped to
// worldDcRegion (a world, data-center, or region name). It makes a single
// round-trip: transient-fault handling belongs to the caller.
func (c *Client) CurrentData(ctx context.Context, worldDcRegion string, itemID int) (models.MarketSnapshot, error) {
	u := fmt.Sprintf("%s/%s/%d", c.apiURL, url.PathEscape(worldDcRegion), itemID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return models.MarketSnapshot{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.MarketSnapshot{}, fmt.Errorf("failed to query market board: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.MarketSnapshot{}, fmt.Errorf("market board query for item %d: unexpected status %d", itemID, resp.StatusCode)
	}

	var view currentlyShownView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		return models.MarketSnapshot{}, fmt.Errorf("failed to decode market board response: %w", err)
	}

	snapshot := models.MarketSnapshot{
		ItemID:         view.ItemID,
		LastUploadTime: time.UnixMilli(view.LastUploadTime),
		ListingsCount:  view.ListingsCount,
		UnitsForSale:   view.UnitsForSale,
		Listings:       make([]models.Listing, 0, len(view.Listings)),
	}
	for _, l := range view.Listings {
		snapshot.Listings = append(snapshot.Listings, l.toModel(view.ItemID))
	}
	return snapshot, nil
}

func (l listingView) toModel(itemID int) models.Listing {
	worldName := l.WorldName
	var dataCenter string
	if w, ok := WorldByID(l.WorldID); ok {
		dataCenter = w.DataCenter
		if worldName == "" {
			worldName = w.Name
		}
	}
	return models.Listing{
		ItemID:         itemID,
		ListingID:      l.ListingID,
		PricePerUnit:   l.PricePerUnit,
		Quantity:       l.Quantity,
		WorldName:      worldName,
		DataCenterName: dataCenter,
		HQ:             l.HQ,
		Total:          l.Total,
		Tax:            l.Tax,
		RetainerName:   l.RetainerName,
		LastReviewTime: time.Unix(l.LastReviewTime, 0),
	}
}
