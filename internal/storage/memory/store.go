// Package memory provides an in-memory implementation of the storage.Store interface.
// It is used by tests and by ephemeral deployments (STORE_BACKEND=memory).
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/beercounter/internal/models"
	"github.com/mmynk/beercounter/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store keeps every record in maps guarded by one mutex. Reads return copies so
// callers can never reach internal state.
type Store struct {
	mu            sync.Mutex
	groups        map[string]*models.Group
	requests      map[string]map[string]*models.PendingRequest // group id -> request id
	history       map[string][]models.HistoryEntry
	memberships   map[string]map[string]models.Membership // uid -> group id
	notifications map[string][]models.Notification        // uid -> inbox
	now           func() time.Time

	// beforeCommit runs between the snapshot and the version check of UpdateGroup.
	// Tests use it to inject a competing writer.
	beforeCommit func()
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		groups:        make(map[string]*models.Group),
		requests:      make(map[string]map[string]*models.PendingRequest),
		history:       make(map[string][]models.HistoryEntry),
		memberships:   make(map[string]map[string]models.Membership),
		notifications: make(map[string][]models.Notification),
		now:           time.Now,
	}
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// CreateGroup stores a new group at Version 1 with the creator's admin membership.
func (s *Store) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = s.now()
	}
	group.Version = 1

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.groups[group.ID]; exists {
		return fmt.Errorf("%w: group %s already exists", models.ErrInvalidOperation, group.ID)
	}
	s.groups[group.ID] = group.Clone()
	for _, m := range group.Members {
		status := models.MembershipMember
		if m.IsAdmin() {
			status = models.MembershipAdmin
		}
		s.putMembership(models.Membership{UID: m.UID, GroupID: group.ID, GroupName: group.Name, Status: status})
	}
	return nil
}

// GetGroup returns a copy of the group.
func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[groupID]
	if !ok {
		return nil, fmt.Errorf("%w: group %s", models.ErrNotFound, groupID)
	}
	return g.Clone(), nil
}

// ListGroupIDs returns all group ids sorted.
func (s *Store) ListGroupIDs(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.groups))
	for id := range s.groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// UpdateGroup snapshots the group, runs fn without holding the lock, then commits
// only if no other writer bumped the version in between.
func (s *Store) UpdateGroup(ctx context.Context, groupID string, fn storage.UpdateFunc) (*models.Group, error) {
	current, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	baseVersion := current.Version

	effects, err := fn(current)
	if errors.Is(err, storage.ErrNoChange) {
		return s.GetGroup(ctx, groupID)
	}
	if err != nil {
		return nil, err
	}
	if effects == nil {
		effects = &storage.Effects{}
	}

	if s.beforeCommit != nil {
		s.beforeCommit()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.groups[groupID]
	if !ok {
		return nil, fmt.Errorf("%w: group %s", models.ErrNotFound, groupID)
	}
	if stored.Version != baseVersion {
		return nil, fmt.Errorf("%w: group %s at version %d, expected %d",
			models.ErrConcurrentModification, groupID, stored.Version, baseVersion)
	}

	if effects.ConsumeRequest != "" {
		if _, ok := s.requests[groupID][effects.ConsumeRequest]; !ok {
			return nil, fmt.Errorf("%w: request %s", models.ErrNotFound, effects.ConsumeRequest)
		}
		delete(s.requests[groupID], effects.ConsumeRequest)
	}

	current.ID = groupID
	current.Version = baseVersion + 1
	s.groups[groupID] = current.Clone()

	for _, h := range effects.History {
		s.appendHistory(groupID, h)
	}
	for _, m := range effects.PutMemberships {
		s.putMembership(m)
	}
	for _, m := range effects.DeleteMemberships {
		delete(s.memberships[m.UID], m.GroupID)
	}

	return current, nil
}

// DeleteGroup removes the group and everything that hangs off it.
func (s *Store) DeleteGroup(ctx context.Context, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[groupID]; !ok {
		return fmt.Errorf("%w: group %s", models.ErrNotFound, groupID)
	}
	delete(s.groups, groupID)
	delete(s.requests, groupID)
	delete(s.history, groupID)
	for _, byGroup := range s.memberships {
		delete(byGroup, groupID)
	}
	return nil
}

// CreatePendingRequest stores a request; a join also records the pending membership.
func (s *Store) CreatePendingRequest(ctx context.Context, req *models.PendingRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.Timestamp.IsZero() {
		req.Timestamp = s.now()
	}
	req.Status = models.StatusPending

	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[req.GroupID]
	if !ok {
		return fmt.Errorf("%w: group %s", models.ErrNotFound, req.GroupID)
	}
	if s.requests[req.GroupID] == nil {
		s.requests[req.GroupID] = make(map[string]*models.PendingRequest)
	}
	if _, exists := s.requests[req.GroupID][req.ID]; exists {
		return fmt.Errorf("%w: request %s already pending", models.ErrInvalidOperation, req.ID)
	}
	s.requests[req.GroupID][req.ID] = cloneRequest(req)

	if req.Kind == models.KindJoin {
		s.putMembership(models.Membership{
			UID:       req.Join.RequesterUID,
			GroupID:   req.GroupID,
			GroupName: g.Name,
			Status:    models.MembershipPending,
		})
	}
	return nil
}

// GetPendingRequest returns a copy of one request.
func (s *Store) GetPendingRequest(ctx context.Context, groupID, requestID string) (*models.PendingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[groupID][requestID]
	if !ok {
		return nil, fmt.Errorf("%w: request %s", models.ErrNotFound, requestID)
	}
	return cloneRequest(req), nil
}

// ListPendingRequests returns the group's requests oldest first.
func (s *Store) ListPendingRequests(ctx context.Context, groupID string) ([]*models.PendingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.PendingRequest, 0, len(s.requests[groupID]))
	for _, req := range s.requests[groupID] {
		out = append(out, cloneRequest(req))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DiscardPendingRequest deletes a request and, for joins, the pending membership.
func (s *Store) DiscardPendingRequest(ctx context.Context, groupID, requestID string) (*models.PendingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[groupID][requestID]
	if !ok {
		return nil, fmt.Errorf("%w: request %s", models.ErrNotFound, requestID)
	}
	delete(s.requests[groupID], requestID)

	if req.Kind == models.KindJoin {
		if m, ok := s.memberships[req.Join.RequesterUID][groupID]; ok && m.Status == models.MembershipPending {
			delete(s.memberships[req.Join.RequesterUID], groupID)
		}
	}
	return req, nil
}

// ListHistory returns up to limit entries newest first.
func (s *Store) ListHistory(ctx context.Context, groupID string, limit int) ([]models.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.history[groupID]
	out := make([]models.HistoryEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, entries[i])
	}
	return out, nil
}

// GetMembership returns one membership record.
func (s *Store) GetMembership(ctx context.Context, uid, groupID string) (*models.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.memberships[uid][groupID]
	if !ok {
		return nil, fmt.Errorf("%w: membership of %s in %s", models.ErrNotFound, uid, groupID)
	}
	return &m, nil
}

// ListMemberships returns a user's records sorted by group name.
func (s *Store) ListMemberships(ctx context.Context, uid string) ([]models.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Membership, 0, len(s.memberships[uid]))
	for _, m := range s.memberships[uid] {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GroupName != out[j].GroupName {
			return out[i].GroupName < out[j].GroupName
		}
		return out[i].GroupID < out[j].GroupID
	})
	return out, nil
}

// AddNotification appends to a user's inbox.
func (s *Store) AddNotification(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications[n.UID] = append(s.notifications[n.UID], *n)
	return nil
}

// ListNotifications returns up to limit messages newest first.
func (s *Store) ListNotifications(ctx context.Context, uid string, limit int) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inbox := s.notifications[uid]
	out := make([]models.Notification, 0, len(inbox))
	for i := len(inbox) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, inbox[i])
	}
	return out, nil
}

// MarkNotificationRead flags one message.
func (s *Store) MarkNotificationRead(ctx context.Context, uid, notificationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications[uid] {
		if s.notifications[uid][i].ID == notificationID {
			s.notifications[uid][i].Read = true
			return nil
		}
	}
	return fmt.Errorf("%w: notification %s", models.ErrNotFound, notificationID)
}

// MarkAllNotificationsRead flags every unread message.
func (s *Store) MarkAllNotificationsRead(ctx context.Context, uid string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for i := range s.notifications[uid] {
		if !s.notifications[uid][i].Read {
			s.notifications[uid][i].Read = true
			changed++
		}
	}
	return changed, nil
}

// DeleteNotification removes one message.
func (s *Store) DeleteNotification(ctx context.Context, uid, notificationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inbox := s.notifications[uid]
	for i := range inbox {
		if inbox[i].ID == notificationID {
			s.notifications[uid] = append(inbox[:i], inbox[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: notification %s", models.ErrNotFound, notificationID)
}

// putMembership upserts a record. Callers hold s.mu.
func (s *Store) putMembership(m models.Membership) {
	if s.memberships[m.UID] == nil {
		s.memberships[m.UID] = make(map[string]models.Membership)
	}
	s.memberships[m.UID][m.GroupID] = m
}

// appendHistory fills defaults and appends. Callers hold s.mu.
func (s *Store) appendHistory(groupID string, h models.HistoryEntry) {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	if h.Timestamp.IsZero() {
		h.Timestamp = s.now()
	}
	h.GroupID = groupID
	s.history[groupID] = append(s.history[groupID], h)
}

func cloneRequest(r *models.PendingRequest) *models.PendingRequest {
	c := *r
	if r.Join != nil {
		j := *r.Join
		c.Join = &j
	}
	if r.Transaction != nil {
		tx := *r.Transaction
		tx.Recipients = append([]string(nil), r.Transaction.Recipients...)
		tx.RecipientsNames = append([]string(nil), r.Transaction.RecipientsNames...)
		c.Transaction = &tx
	}
	return &c
}
