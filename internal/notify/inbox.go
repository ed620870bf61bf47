package notify

import (
	"context"
	"fmt"

	"github.com/mmynk/beercounter/internal/models"
)

// InboxStore is the slice of storage.Store the inbox needs.
type InboxStore interface {
	AddNotification(ctx context.Context, n *models.Notification) error
}

// Inbox writes one notification row per recipient.
type Inbox struct {
	store InboxStore
}

// NewInbox creates an Inbox over the given store.
func NewInbox(store InboxStore) *Inbox {
	return &Inbox{store: store}
}

// Notify implements Notifier.
func (i *Inbox) Notify(ctx context.Context, msg Message) error {
	for _, uid := range msg.Recipients {
		n := &models.Notification{
			UID:       uid,
			GroupID:   msg.GroupID,
			Message:   msg.Text,
			CreatedAt: msg.CreatedAt,
		}
		if err := i.store.AddNotification(ctx, n); err != nil {
			return fmt.Errorf("failed to store notification for %s: %w", uid, err)
		}
	}
	return nil
}
