// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/beercounter/internal/models"
)

// ErrNoChange may be returned by an UpdateFunc to abandon the write without error.
// UpdateGroup then returns the current group unchanged.
var ErrNoChange = errors.New("no change")

// Effects are side records committed atomically with a group update.
type Effects struct {
	// History lines appended to the group's log.
	History []models.HistoryEntry

	// ConsumeRequest, when set, names a pending request that must still exist and
	// is deleted with the update. A missing request aborts with models.ErrNotFound,
	// so a request can be approved at most once.
	ConsumeRequest string

	// PutMemberships are upserted.
	PutMemberships []models.Membership

	// DeleteMemberships are (uid, groupID) keys to remove; missing rows are ignored.
	DeleteMemberships []models.Membership
}

// UpdateFunc mutates a private copy of the group and declares the side records
// that must be committed with it. It may run several times if the write races.
type UpdateFunc func(g *models.Group) (*Effects, error)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, in-memory)
// without changing the workflow layer.
//
// The group aggregate is never exposed as a bare get/put pair: every mutation goes
// through UpdateGroup, which performs a versioned compare-and-swap.
type Store interface {
	// CreateGroup persists a new group with Version 1 and the creator's admin membership.
	// The group.ID field will be populated by the store when empty.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by its ID.
	// Returns an error wrapping models.ErrNotFound if the group does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupIDs returns the ids of all groups.
	ListGroupIDs(ctx context.Context) ([]string, error)

	// UpdateGroup loads the group, applies fn and commits only if the version is
	// unchanged, incrementing it. A lost race returns models.ErrConcurrentModification;
	// use Retrier to retry.
	UpdateGroup(ctx context.Context, groupID string, fn UpdateFunc) (*models.Group, error)

	// DeleteGroup removes the group with its pending requests, history and memberships.
	DeleteGroup(ctx context.Context, groupID string) error

	// CreatePendingRequest stores a request. A join request also writes the requester's
	// pending membership in the same transaction. A duplicate id returns
	// models.ErrInvalidOperation.
	CreatePendingRequest(ctx context.Context, req *models.PendingRequest) error

	// GetPendingRequest returns a request by group and id.
	GetPendingRequest(ctx context.Context, groupID, requestID string) (*models.PendingRequest, error)

	// ListPendingRequests returns a group's requests, oldest first.
	ListPendingRequests(ctx context.Context, groupID string) ([]*models.PendingRequest, error)

	// DiscardPendingRequest deletes a request without ledger effect. For a join request
	// the requester's pending membership is removed too. Missing returns models.ErrNotFound.
	DiscardPendingRequest(ctx context.Context, groupID, requestID string) (*models.PendingRequest, error)

	// ListHistory returns a group's history newest first, at most limit entries.
	ListHistory(ctx context.Context, groupID string, limit int) ([]models.HistoryEntry, error)

	// GetMembership returns a user's membership record for a group.
	GetMembership(ctx context.Context, uid, groupID string) (*models.Membership, error)

	// ListMemberships returns every group record of a user.
	ListMemberships(ctx context.Context, uid string) ([]models.Membership, error)

	// AddNotification stores an inbox message; ID and CreatedAt are filled when empty.
	AddNotification(ctx context.Context, n *models.Notification) error

	// ListNotifications returns a user's inbox newest first, at most limit entries.
	ListNotifications(ctx context.Context, uid string, limit int) ([]models.Notification, error)

	// MarkNotificationRead flags one message as read.
	MarkNotificationRead(ctx context.Context, uid, notificationID string) error

	// MarkAllNotificationsRead flags every unread message and returns how many changed.
	MarkAllNotificationsRead(ctx context.Context, uid string) (int, error)

	// DeleteNotification removes one message.
	DeleteNotification(ctx context.Context, uid, notificationID string) error

	// Close releases any resources held by the store.
	Close() error
}
