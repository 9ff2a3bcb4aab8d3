// Package notify delivers alert messages to chat channels. Each channel is a
// Sender; the Notifier fans a message out to all of them, fire-and-forget.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/lbkulinski/ffxiv-economy-bot/internal/logger"
)

// Sender is one notification channel.
type Sender interface {
	// Send delivers a plain-text message.
	Send(ctx context.Context, text string) error
	// Name returns a human-readable identifier for the sender (e.g. "discord").
	Name() string
}

// Notifier dispatches messages to all registered senders. A failing sender
// does not prevent delivery to the remaining ones.
type Notifier struct {
	senders []Sender
}

// NewNotifier creates a Notifier delivering to the given senders.
func NewNotifier(senders ...Sender) *Notifier {
	return &Notifier{senders: senders}
}

// Send delivers text to every sender, collecting failures into one error.
func (n *Notifier) Send(ctx context.Context, text string) error {
	var errs []string
	for _, s := range n.senders {
		if err := s.Send(ctx, text); err != nil {
			logger.Error("Sender %s failed: %v", s.Name(), err)
			errs = append(errs, fmt.Sprintf("%s: %v", s.Name(), err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d sender(s) failed: %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}
