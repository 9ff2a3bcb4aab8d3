package universalis

import (
	"context"
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/lbkulinski/ffxiv-economy-bot/internal/models"
)

type capturedEvent struct {
	itemID   int
	listings []models.Listing
}

func newCaptureFeed() (*Feed, *[]capturedEvent, *sync.Mutex) {
	var mu sync.Mutex
	events := &[]capturedEvent{}
	f := NewFeed("wss://example.invalid/ws", nil, func(ctx context.Context, itemID int, listings []models.Listing) {
		mu.Lock()
		*events = append(*events, capturedEvent{itemID: itemID, listings: listings})
		mu.Unlock()
	})
	return f, events, &mu
}

func marshalFrame(t *testing.T, doc any) []byte {
	t.Helper()
	data, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("failed to marshal frame: %v", err)
	}
	return data
}

func TestDispatch_ListingAddEvent(t *testing.T) {
	f, events, mu := newCaptureFeed()

	frame := marshalFrame(t, bson.M{
		"event": "listings/add",
		"item":  41758,
		"world": 54,
		"listings": bson.A{
			bson.M{
				"listingID":      "abc123",
				"pricePerUnit":   90,
				"quantity":       1,
				"hq":             false,
				"total":          90,
				"tax":            4,
				"retainerName":   "Sellsworth",
				"lastReviewTime": int64(1700000000),
			},
		},
	})

	f.dispatch(context.Background(), frame)

	mu.Lock()
	defer mu.Unlock()
	if len(*events) != 1 {
		t.Fatalf("expected 1 dispatched event, got %d", len(*events))
	}
	ev := (*events)[0]
	if ev.itemID != 41758 {
		t.Errorf("got item ID %d", ev.itemID)
	}
	if len(ev.listings) != 1 {
		t.Fatalf("got %d listings", len(ev.listings))
	}
	l := ev.listings[0]
	if l.PricePerUnit != 90 || l.ListingID != "abc123" {
		t.Errorf("listing decoded wrong: %+v", l)
	}
	// World comes from the event envelope when listings omit it.
	if l.WorldName != "Faerie" || l.DataCenterName != "Aether" {
		t.Errorf("world resolution: got %s (%s)", l.WorldName, l.DataCenterName)
	}
}

func TestDispatch_IgnoresOtherEvents(t *testing.T) {
	f, events, mu := newCaptureFeed()

	f.dispatch(context.Background(), marshalFrame(t, bson.M{
		"event": "sales/add",
		"item":  41758,
		"world": 54,
	}))
	f.dispatch(context.Background(), marshalFrame(t, bson.M{
		"event":    "listings/add",
		"item":     41758,
		"world":    54,
		"listings": bson.A{},
	}))

	mu.Lock()
	defer mu.Unlock()
	if len(*events) != 0 {
		t.Errorf("expected no dispatched events, got %d", len(*events))
	}
}

func TestDispatch_DropsUndecodableFrame(t *testing.T) {
	f, events, mu := newCaptureFeed()

	f.dispatch(context.Background(), []byte{0x01, 0x02, 0x03})

	mu.Lock()
	defer mu.Unlock()
	if len(*events) != 0 {
		t.Errorf("expected garbage frame to be dropped, got %d events", len(*events))
	}
}
