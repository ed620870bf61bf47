package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mmynk/beercounter/internal/models"
	"github.com/mmynk/beercounter/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "beercounter-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createPub(t *testing.T, store *SQLiteStore) *models.Group {
	t.Helper()
	group := &models.Group{
		Name:      "Pub",
		CreatedBy: "A",
		Members: []models.Member{
			{UID: "A", Name: "alice", Role: models.RoleAdmin},
			{UID: "B", Name: "bob", Role: models.RoleMember},
			{UID: "C", Name: "carla", Role: models.RoleMember},
		},
	}
	if err := store.CreateGroup(context.Background(), group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return group
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateGroup generates ID and admin membership", func(t *testing.T) {
		group := createPub(t, store)

		if group.ID == "" {
			t.Error("Expected group ID to be generated")
		}
		if group.Version != 1 {
			t.Errorf("Version = %d, want 1", group.Version)
		}

		m, err := store.GetMembership(ctx, "A", group.ID)
		if err != nil {
			t.Fatalf("GetMembership failed: %v", err)
		}
		if m.Status != models.MembershipAdmin {
			t.Errorf("status = %s, want admin", m.Status)
		}
	})

	t.Run("UpdateGroup round-trips members and debts", func(t *testing.T) {
		group := createPub(t, store)
		created := time.Date(2025, 1, 2, 3, 4, 5, 6, time.UTC)
		shamed := created.Add(31 * 24 * time.Hour)

		updated, err := store.UpdateGroup(ctx, group.ID, func(g *models.Group) (*storage.Effects, error) {
			g.Rules = "una birra a testa"
			g.Members[0].SaldoBirre = 2
			g.Members[1].SaldoBirre = -1
			g.Members[2].SaldoBirre = -1
			g.Debts = []models.DebtEdge{
				{DebtorUID: "A", CreditorUID: "B", Count: 1, CreatedAt: created, LastShamedAt: &shamed},
				{DebtorUID: "A", CreditorUID: "C", Count: 1, CreatedAt: created},
			}
			return &storage.Effects{History: []models.HistoryEntry{{Message: "giro"}}}, nil
		})
		if err != nil {
			t.Fatalf("UpdateGroup failed: %v", err)
		}
		if updated.Version != 2 {
			t.Errorf("Version = %d, want 2", updated.Version)
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Rules != "una birra a testa" {
			t.Errorf("Rules = %q", got.Rules)
		}
		if len(got.Debts) != 2 {
			t.Fatalf("debts = %d, want 2", len(got.Debts))
		}
		if !got.Debts[0].CreatedAt.Equal(created) {
			t.Errorf("CreatedAt = %v, want %v", got.Debts[0].CreatedAt, created)
		}
		if got.Debts[0].LastShamedAt == nil || !got.Debts[0].LastShamedAt.Equal(shamed) {
			t.Errorf("LastShamedAt = %v, want %v", got.Debts[0].LastShamedAt, shamed)
		}
		if got.Debts[1].LastShamedAt != nil {
			t.Error("expected nil LastShamedAt on second edge")
		}
		if got.Members[0].SaldoBirre != 2 || got.Members[0].Role != models.RoleAdmin {
			t.Errorf("member[0] = %+v", got.Members[0])
		}

		history, err := store.ListHistory(ctx, group.ID, 10)
		if err != nil {
			t.Fatalf("ListHistory failed: %v", err)
		}
		if len(history) != 1 || history[0].Message != "giro" {
			t.Errorf("history = %+v", history)
		}
	})

	t.Run("schema rejects invalid edges", func(t *testing.T) {
		group := createPub(t, store)

		_, err := store.UpdateGroup(ctx, group.ID, func(g *models.Group) (*storage.Effects, error) {
			g.Debts = []models.DebtEdge{{DebtorUID: "A", CreditorUID: "A", Count: 1, CreatedAt: time.Now()}}
			return nil, nil
		})
		if err == nil {
			t.Error("expected self edge to be rejected")
		}

		_, err = store.UpdateGroup(ctx, group.ID, func(g *models.Group) (*storage.Effects, error) {
			g.Debts = []models.DebtEdge{{DebtorUID: "A", CreditorUID: "B", Count: 0, CreatedAt: time.Now()}}
			return nil, nil
		})
		if err == nil {
			t.Error("expected zero count to be rejected")
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Version != 1 {
			t.Errorf("failed writes must roll back, version = %d", got.Version)
		}
	})

	t.Run("ConsumeRequest deletes the request exactly once", func(t *testing.T) {
		group := createPub(t, store)
		req := &models.PendingRequest{
			GroupID: group.ID,
			Kind:    models.KindTransaction,
			Transaction: &models.TransactionRequest{
				ActingUID: "B", ActingName: "bob", TransType: models.TransOwes,
				Recipients: []string{"A"}, RecipientsNames: []string{"alice"}, Count: 1,
			},
		}
		if err := store.CreatePendingRequest(ctx, req); err != nil {
			t.Fatalf("CreatePendingRequest failed: %v", err)
		}

		fetched, err := store.GetPendingRequest(ctx, group.ID, req.ID)
		if err != nil {
			t.Fatalf("GetPendingRequest failed: %v", err)
		}
		if fetched.Transaction == nil || fetched.Transaction.Recipients[0] != "A" || fetched.Join != nil {
			t.Errorf("payload did not round-trip: %+v", fetched)
		}

		consume := func(g *models.Group) (*storage.Effects, error) {
			return &storage.Effects{ConsumeRequest: req.ID}, nil
		}
		if _, err := store.UpdateGroup(ctx, group.ID, consume); err != nil {
			t.Fatalf("first consume failed: %v", err)
		}
		if _, err := store.UpdateGroup(ctx, group.ID, consume); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("second consume err = %v, want ErrNotFound", err)
		}
	})

	t.Run("join request writes and discards pending membership", func(t *testing.T) {
		group := createPub(t, store)
		req := &models.PendingRequest{
			ID:      "D",
			GroupID: group.ID,
			Kind:    models.KindJoin,
			Join:    &models.JoinRequest{RequesterUID: "D", RequesterName: "dario"},
		}
		if err := store.CreatePendingRequest(ctx, req); err != nil {
			t.Fatalf("CreatePendingRequest failed: %v", err)
		}
		dup := *req
		if err := store.CreatePendingRequest(ctx, &dup); !errors.Is(err, models.ErrInvalidOperation) {
			t.Errorf("duplicate err = %v, want ErrInvalidOperation", err)
		}

		m, err := store.GetMembership(ctx, "D", group.ID)
		if err != nil || m.Status != models.MembershipPending {
			t.Fatalf("membership = %+v, err = %v", m, err)
		}

		if _, err := store.DiscardPendingRequest(ctx, group.ID, "D"); err != nil {
			t.Fatalf("DiscardPendingRequest failed: %v", err)
		}
		if _, err := store.GetMembership(ctx, "D", group.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("membership err = %v, want ErrNotFound", err)
		}
		if _, err := store.DiscardPendingRequest(ctx, group.ID, "D"); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("second discard err = %v, want ErrNotFound", err)
		}
	})

	t.Run("DeleteGroup cascades", func(t *testing.T) {
		group := createPub(t, store)
		if err := store.CreatePendingRequest(ctx, &models.PendingRequest{
			ID: "E", GroupID: group.ID, Kind: models.KindJoin,
			Join: &models.JoinRequest{RequesterUID: "E"},
		}); err != nil {
			t.Fatalf("CreatePendingRequest failed: %v", err)
		}

		if err := store.DeleteGroup(ctx, group.ID); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}
		if _, err := store.GetGroup(ctx, group.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("GetGroup err = %v, want ErrNotFound", err)
		}
		reqs, err := store.ListPendingRequests(ctx, group.ID)
		if err != nil || len(reqs) != 0 {
			t.Errorf("requests = %v, err = %v", reqs, err)
		}
		if _, err := store.GetMembership(ctx, "E", group.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("membership err = %v, want ErrNotFound", err)
		}
		if err := store.DeleteGroup(ctx, group.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("second delete err = %v, want ErrNotFound", err)
		}
	})

	t.Run("notifications inbox", func(t *testing.T) {
		base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
		for i, msg := range []string{"uno", "due", "tre"} {
			n := &models.Notification{UID: "Z", Message: msg, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
			if err := store.AddNotification(ctx, n); err != nil {
				t.Fatalf("AddNotification failed: %v", err)
			}
		}

		inbox, err := store.ListNotifications(ctx, "Z", 0)
		if err != nil {
			t.Fatalf("ListNotifications failed: %v", err)
		}
		if len(inbox) != 3 || inbox[0].Message != "tre" {
			t.Fatalf("inbox = %+v", inbox)
		}

		if err := store.MarkNotificationRead(ctx, "Z", inbox[0].ID); err != nil {
			t.Fatalf("MarkNotificationRead failed: %v", err)
		}
		changed, err := store.MarkAllNotificationsRead(ctx, "Z")
		if err != nil || changed != 2 {
			t.Errorf("changed = %d, err = %v; want 2", changed, err)
		}
		if err := store.DeleteNotification(ctx, "Z", inbox[2].ID); err != nil {
			t.Fatalf("DeleteNotification failed: %v", err)
		}
		if err := store.MarkNotificationRead(ctx, "Z", inbox[2].ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestSQLiteStore_ConcurrentUpdates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group := createPub(t, store)

	retrier := storage.Retrier{MaxAttempts: 100}
	var conflicts int
	var mu sync.Mutex
	retrier.OnConflict = func(int) {
		mu.Lock()
		conflicts++
		mu.Unlock()
	}

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := retrier.Update(ctx, store, group.ID, func(g *models.Group) (*storage.Effects, error) {
				g.Members[0].SaldoBirre++
				return nil, nil
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("update failed: %v", err)
		}
	}

	got, err := store.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if got.Members[0].SaldoBirre != writers {
		t.Errorf("saldo = %d, want %d (lost update)", got.Members[0].SaldoBirre, writers)
	}
	if got.Version != writers+1 {
		t.Errorf("Version = %d, want %d", got.Version, writers+1)
	}
	t.Logf("conflicts retried: %d", conflicts)
}

func TestSchemaVersion(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "schema.db")

	if err := Migrate(dbPath); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	// applying twice is a no-op
	if err := Migrate(dbPath); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}

	version, dirty, err := SchemaVersion(dbPath)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if version != 1 || dirty {
		t.Errorf("version = %d dirty = %v, want 1 clean", version, dirty)
	}
}
