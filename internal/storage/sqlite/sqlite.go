// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/beercounter/internal/models"
	"github.com/mmynk/beercounter/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	if err := Migrate(dbPath); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; versioned updates detect interleaving between read and commit.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateGroup persists a new group with its members and their memberships.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = s.now()
	}
	group.Version = 1

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO groups (id, name, rules, photo_ref, created_by, created_at, version)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		group.ID, group.Name, group.Rules, group.PhotoRef, group.CreatedBy, toUnix(group.CreatedAt), group.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	if err := writeAggregate(ctx, tx, group); err != nil {
		return err
	}

	for _, m := range group.Members {
		status := models.MembershipMember
		if m.IsAdmin() {
			status = models.MembershipAdmin
		}
		if err := putMembership(ctx, tx, models.Membership{
			UID: m.UID, GroupID: group.ID, GroupName: group.Name, Status: status,
		}); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by ID, including members and debts.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return loadGroup(ctx, s.db, groupID)
}

// ListGroupIDs returns every group id.
func (s *SQLiteStore) ListGroupIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM groups ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan group id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return ids, nil
}

// UpdateGroup runs fn on a fresh copy of the group and commits with a version check.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, groupID string, fn storage.UpdateFunc) (*models.Group, error) {
	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	baseVersion := group.Version

	effects, err := fn(group)
	if errors.Is(err, storage.ErrNoChange) {
		return s.GetGroup(ctx, groupID)
	}
	if err != nil {
		return nil, err
	}
	if effects == nil {
		effects = &storage.Effects{}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE groups SET name = ?, rules = ?, photo_ref = ?, version = version + 1
		 WHERE id = ? AND version = ?`,
		group.Name, group.Rules, group.PhotoRef, groupID, baseVersion,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update: %w", err)
	}
	if affected == 0 {
		var exists int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM groups WHERE id = ?", groupID).Scan(&exists)
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: group %s", models.ErrNotFound, groupID)
		}
		return nil, fmt.Errorf("%w: group %s changed since version %d",
			models.ErrConcurrentModification, groupID, baseVersion)
	}

	if effects.ConsumeRequest != "" {
		res, err := tx.ExecContext(ctx,
			"DELETE FROM pending_requests WHERE group_id = ? AND id = ?",
			groupID, effects.ConsumeRequest,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to consume request: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, fmt.Errorf("%w: request %s", models.ErrNotFound, effects.ConsumeRequest)
		}
	}

	group.ID = groupID
	if err := writeAggregate(ctx, tx, group); err != nil {
		return nil, err
	}

	for _, h := range effects.History {
		if err := s.appendHistory(ctx, tx, groupID, h); err != nil {
			return nil, err
		}
	}
	for _, m := range effects.PutMemberships {
		if err := putMembership(ctx, tx, m); err != nil {
			return nil, err
		}
	}
	for _, m := range effects.DeleteMemberships {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM memberships WHERE uid = ? AND group_id = ?", m.UID, m.GroupID,
		); err != nil {
			return nil, fmt.Errorf("failed to delete membership: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	group.Version = baseVersion + 1
	return group, nil
}

// DeleteGroup removes a group; foreign keys cascade to every dependent table.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deletion: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: group %s", models.ErrNotFound, groupID)
	}

	return nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func loadGroup(ctx context.Context, q queryer, groupID string) (*models.Group, error) {
	group := &models.Group{}
	var createdAt int64
	err := q.QueryRowContext(ctx,
		`SELECT id, name, rules, photo_ref, created_by, created_at, version FROM groups WHERE id = ?`,
		groupID,
	).Scan(&group.ID, &group.Name, &group.Rules, &group.PhotoRef, &group.CreatedBy, &createdAt, &group.Version)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: group %s", models.ErrNotFound, groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	group.CreatedAt = fromUnix(createdAt)

	// Get members
	rows, err := q.QueryContext(ctx,
		`SELECT uid, name, role, saldo_birre, photo_url FROM group_members
		 WHERE group_id = ? ORDER BY position`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.UID, &m.Name, &m.Role, &m.SaldoBirre, &m.PhotoURL); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		group.Members = append(group.Members, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	// Get debts
	debtRows, err := q.QueryContext(ctx,
		`SELECT debtor_uid, creditor_uid, count, created_at, last_shamed_at FROM debts
		 WHERE group_id = ? ORDER BY position`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get debts: %w", err)
	}
	defer debtRows.Close()

	for debtRows.Next() {
		var d models.DebtEdge
		var edgeCreated int64
		var shamed sql.NullInt64
		if err := debtRows.Scan(&d.DebtorUID, &d.CreditorUID, &d.Count, &edgeCreated, &shamed); err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		d.CreatedAt = fromUnix(edgeCreated)
		if shamed.Valid {
			t := fromUnix(shamed.Int64)
			d.LastShamedAt = &t
		}
		group.Debts = append(group.Debts, d)
	}
	if err := debtRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debts: %w", err)
	}

	return group, nil
}

// writeAggregate replaces the member and debt rows of a group.
func writeAggregate(ctx context.Context, tx *sql.Tx, group *models.Group) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM group_members WHERE group_id = ?", group.ID); err != nil {
		return fmt.Errorf("failed to clear members: %w", err)
	}
	for i, m := range group.Members {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO group_members (group_id, uid, name, role, saldo_birre, photo_url, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			group.ID, m.UID, m.Name, string(m.Role), m.SaldoBirre, m.PhotoURL, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM debts WHERE group_id = ?", group.ID); err != nil {
		return fmt.Errorf("failed to clear debts: %w", err)
	}
	for i, d := range group.Debts {
		var shamed any
		if d.LastShamedAt != nil {
			shamed = toUnix(*d.LastShamedAt)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO debts (group_id, debtor_uid, creditor_uid, count, created_at, last_shamed_at, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			group.ID, d.DebtorUID, d.CreditorUID, d.Count, toUnix(d.CreatedAt), shamed, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert debt %s->%s: %w", d.DebtorUID, d.CreditorUID, err)
		}
	}
	return nil
}

// toUnix stores timestamps as Unix nanoseconds so aging comparisons survive a round trip.
func toUnix(t time.Time) int64 {
	return t.UnixNano()
}

func fromUnix(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
