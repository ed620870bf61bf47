// Package notify delivers ledger events to members. Delivery is fire-and-forget:
// the workflow logs failures and never rolls back a committed change because of them.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Kind classifies a notification.
type Kind string

const (
	KindShame           Kind = "shame"
	KindRequestPending  Kind = "request_pending"
	KindRequestApproved Kind = "request_approved"
	KindRequestRejected Kind = "request_rejected"
)

// Message is one event addressed to a set of members.
type Message struct {
	Kind       Kind      `json:"kind"`
	GroupID    string    `json:"group_id"`
	Recipients []string  `json:"recipients"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToJSON encodes the message for broker backends.
func (m Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// Notifier is a notification sink.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, msg Message) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// Nop drops every message.
var Nop Notifier = NotifierFunc(func(context.Context, Message) error { return nil })

// Fanout delivers to every sink and joins their errors. One failing sink does not
// stop the others.
type Fanout []Notifier

// Notify implements Notifier.
func (f Fanout) Notify(ctx context.Context, msg Message) error {
	var errs []error
	for _, n := range f {
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
