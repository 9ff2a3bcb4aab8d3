package universalis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/lbkulinski/ffxiv-economy-bot/internal/logger"
	"github.com/lbkulinski/ffxiv-economy-bot/internal/models"
)

const (
	handshakeTimeout = 15 * time.Second
	reconnectDelay   = 2 * time.Second

	listingAddEvent = "listings/add"
)

// ListingHandler is called for each listings-added event delivered by the
// feed. Handlers run on the feed's read goroutine and should hand work off
// quickly.
type ListingHandler func(ctx context.Context, itemID int, listings []models.Listing)

// Feed subscribes to the Universalis websocket and delivers listings-added
// events to a handler. The feed reconnects with a fixed delay when the
// connection drops; events arriving while disconnected are lost, and a
// reconnect may replay listings the handler has already seen.
type Feed struct {
	wsURL      string
	worlds     []int
	onListings ListingHandler

	closeOnce sync.Once
	done      chan struct{}
}

// wsEvent mirrors the BSON frame of a listings/add message.
type wsEvent struct {
	Event    string      `bson:"event"`
	Item     int         `bson:"item"`
	World    int         `bson:"world"`
	Listings []wsListing `bson:"listings"`
}

type wsListing struct {
	ListingID      string `bson:"listingID"`
	PricePerUnit   int    `bson:"pricePerUnit"`
	Quantity       int    `bson:"quantity"`
	WorldID        int    `bson:"worldID"`
	WorldName      string `bson:"worldName"`
	HQ             bool   `bson:"hq"`
	Total          int    `bson:"total"`
	Tax            int    `bson:"tax"`
	RetainerName   string `bson:"retainerName"`
	LastReviewTime int64  `bson:"lastReviewTime"`
}

// NewFeed creates a feed that subscribes to listing-added events for the
// given world IDs. An empty worlds slice subscribes to every world.
func NewFeed(wsURL string, worlds []int, onListings ListingHandler) *Feed {
	return &Feed{
		wsURL:      wsURL,
		worlds:     worlds,
		onListings: onListings,
		done:       make(chan struct{}),
	}
}

// Run connects, subscribes, and dispatches events until ctx is cancelled or
// Close is called. Disconnects trigger a reconnect after a fixed delay.
func (f *Feed) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-f.done:
			return nil
		default:
		}

		err := f.runConnection(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			logger.Warn("Universalis feed disconnected, reconnecting: %v", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-f.done:
			return nil
		case <-time.After(reconnectDelay):
		}
	}
}

func (f *Feed) runConnection(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, f.wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()

	// Unblock the read loop when the context is cancelled.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-f.done:
			conn.Close()
		case <-stop:
		}
	}()

	if err := f.subscribe(conn); err != nil {
		return err
	}
	logger.Info("Universalis feed subscribed (%d world filter(s))", len(f.worlds))

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read failed: %w", err)
		}
		f.dispatch(ctx, data)
	}
}

// subscribe sends one BSON subscribe command per configured world, or a
// single region-wide command when no worlds are configured.
func (f *Feed) subscribe(conn *websocket.Conn) error {
	channels := []string{listingAddEvent}
	if len(f.worlds) > 0 {
		channels = channels[:0]
		for _, world := range f.worlds {
			channels = append(channels, fmt.Sprintf("%s{world=%d}", listingAddEvent, world))
		}
	}

	for _, channel := range channels {
		cmd, err := bson.Marshal(bson.M{"event": "subscribe", "channel": channel})
		if err != nil {
			return fmt.Errorf("failed to marshal subscribe command: %w", err)
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, cmd); err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", channel, err)
		}
	}
	return nil
}

func (f *Feed) dispatch(ctx context.Context, data []byte) {
	var event wsEvent
	if err := bson.Unmarshal(data, &event); err != nil {
		logger.Debug("Dropping undecodable feed frame (%d bytes): %v", len(data), err)
		return
	}
	if event.Event != listingAddEvent || len(event.Listings) == 0 {
		return
	}

	listings := make([]models.Listing, 0, len(event.Listings))
	for _, l := range event.Listings {
		listings = append(listings, l.toModel(event.Item, event.World))
	}
	f.onListings(ctx, event.Item, listings)
}

func (l wsListing) toModel(itemID, eventWorld int) models.Listing {
	worldID := l.WorldID
	if worldID == 0 {
		worldID = eventWorld
	}
	worldName := l.WorldName
	var dataCenter string
	if w, ok := WorldByID(worldID); ok {
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

// Close stops the feed.
func (f *Feed) Close() {
	f.closeOnce.Do(func() { close(f.done) })
}
