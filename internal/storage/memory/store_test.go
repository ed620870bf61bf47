package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/beercounter/internal/models"
	"github.com/mmynk/beercounter/internal/storage"
)

func seedGroup(t *testing.T, s *Store) *models.Group {
	t.Helper()
	g := &models.Group{
		Name:      "Pub",
		CreatedBy: "A",
		Members: []models.Member{
			{UID: "A", Name: "alice", Role: models.RoleAdmin},
			{UID: "B", Name: "bob", Role: models.RoleMember},
		},
	}
	require.NoError(t, s.CreateGroup(context.Background(), g))
	return g
}

func TestUpdateGroup_DetectsLostRace(t *testing.T) {
	ctx := context.Background()
	s := New()
	g := seedGroup(t, s)

	raced := false
	s.beforeCommit = func() {
		if raced {
			return
		}
		raced = true
		// a competing writer commits between snapshot and version check
		s.beforeCommit = nil
		_, err := s.UpdateGroup(ctx, g.ID, func(g *models.Group) (*storage.Effects, error) {
			g.Rules = "competitor"
			return nil, nil
		})
		require.NoError(t, err)
	}

	_, err := s.UpdateGroup(ctx, g.ID, func(g *models.Group) (*storage.Effects, error) {
		g.Rules = "loser"
		return nil, nil
	})
	require.ErrorIs(t, err, models.ErrConcurrentModification)

	got, err := s.GetGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "competitor", got.Rules)
	assert.Equal(t, int64(2), got.Version)
}

func TestUpdateGroup_ConcurrentWritersWithRetry(t *testing.T) {
	ctx := context.Background()
	s := New()
	g := seedGroup(t, s)
	retrier := storage.Retrier{MaxAttempts: 1000}

	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := retrier.Update(ctx, s, g.ID, func(g *models.Group) (*storage.Effects, error) {
				g.Members[0].SaldoBirre++
				return &storage.Effects{History: []models.HistoryEntry{{Message: "+1"}}}, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.GetGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, writers, got.Members[0].SaldoBirre)
	assert.Equal(t, int64(writers+1), got.Version)

	history, err := s.ListHistory(ctx, g.ID, 0)
	require.NoError(t, err)
	assert.Len(t, history, writers)
}

func TestUpdateGroup_ConsumeRequestOnce(t *testing.T) {
	ctx := context.Background()
	s := New()
	g := seedGroup(t, s)

	req := &models.PendingRequest{
		GroupID: g.ID,
		Kind:    models.KindTransaction,
		Transaction: &models.TransactionRequest{
			ActingUID:  "B",
			TransType:  models.TransOwes,
			Recipients: []string{"A"},
			Count:      1,
		},
	}
	require.NoError(t, s.CreatePendingRequest(ctx, req))

	consume := func(g *models.Group) (*storage.Effects, error) {
		return &storage.Effects{ConsumeRequest: req.ID}, nil
	}
	_, err := s.UpdateGroup(ctx, g.ID, consume)
	require.NoError(t, err)

	_, err = s.UpdateGroup(ctx, g.ID, consume)
	require.ErrorIs(t, err, models.ErrNotFound)

	got, err := s.GetGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version, "failed consume must not bump the version")
}

func TestUpdateGroup_NoChange(t *testing.T) {
	ctx := context.Background()
	s := New()
	g := seedGroup(t, s)

	got, err := s.UpdateGroup(ctx, g.ID, func(g *models.Group) (*storage.Effects, error) {
		g.Rules = "ignored"
		return nil, storage.ErrNoChange
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)
	assert.Empty(t, got.Rules)
}

func TestJoinRequestLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()
	g := seedGroup(t, s)

	req := &models.PendingRequest{
		ID:      "C",
		GroupID: g.ID,
		Kind:    models.KindJoin,
		Join:    &models.JoinRequest{RequesterUID: "C", RequesterName: "carla"},
	}
	require.NoError(t, s.CreatePendingRequest(ctx, req))

	m, err := s.GetMembership(ctx, "C", g.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipPending, m.Status)
	assert.Equal(t, "Pub", m.GroupName)

	dup := *req
	require.ErrorIs(t, s.CreatePendingRequest(ctx, &dup), models.ErrInvalidOperation)

	_, err = s.DiscardPendingRequest(ctx, g.ID, "C")
	require.NoError(t, err)
	_, err = s.GetMembership(ctx, "C", g.ID)
	require.ErrorIs(t, err, models.ErrNotFound)

	_, err = s.DiscardPendingRequest(ctx, g.ID, "C")
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteGroupCascades(t *testing.T) {
	ctx := context.Background()
	s := New()
	g := seedGroup(t, s)

	require.NoError(t, s.CreatePendingRequest(ctx, &models.PendingRequest{
		ID: "C", GroupID: g.ID, Kind: models.KindJoin,
		Join: &models.JoinRequest{RequesterUID: "C"},
	}))
	require.NoError(t, s.DeleteGroup(ctx, g.ID))

	_, err := s.GetGroup(ctx, g.ID)
	require.ErrorIs(t, err, models.ErrNotFound)
	reqs, err := s.ListPendingRequests(ctx, g.ID)
	require.NoError(t, err)
	assert.Empty(t, reqs)
	mine, err := s.ListMemberships(ctx, "A")
	require.NoError(t, err)
	assert.Empty(t, mine)

	require.ErrorIs(t, s.DeleteGroup(ctx, g.ID), models.ErrNotFound)
}

func TestNotifications(t *testing.T) {
	ctx := context.Background()
	s := New()

	for _, msg := range []string{"one", "two", "three"} {
		require.NoError(t, s.AddNotification(ctx, &models.Notification{UID: "A", Message: msg}))
	}

	inbox, err := s.ListNotifications(ctx, "A", 2)
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	assert.Equal(t, "three", inbox[0].Message)

	require.NoError(t, s.MarkNotificationRead(ctx, "A", inbox[0].ID))
	n, err := s.MarkAllNotificationsRead(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, s.DeleteNotification(ctx, "A", inbox[1].ID))
	require.ErrorIs(t, s.DeleteNotification(ctx, "A", inbox[1].ID), models.ErrNotFound)

	inbox, err = s.ListNotifications(ctx, "A", 0)
	require.NoError(t, err)
	assert.Len(t, inbox, 2)
}
