package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mmynk/beercounter/internal/models"
)

// requestPayload is the JSON column of pending_requests. Only the field matching
// the row's kind is set.
type requestPayload struct {
	Join        *models.JoinRequest        `json:"join,omitempty"`
	Transaction *models.TransactionRequest `json:"transaction,omitempty"`
}

// CreatePendingRequest persists a request; a join also writes the pending membership.
func (s *SQLiteStore) CreatePendingRequest(ctx context.Context, req *models.PendingRequest) error {
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

	payload, err := json.Marshal(requestPayload{Join: req.Join, Transaction: req.Transaction})
	if err != nil {
		return fmt.Errorf("failed to encode request payload: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var groupName string
	err = tx.QueryRowContext(ctx, "SELECT name FROM groups WHERE id = ?", req.GroupID).Scan(&groupName)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: group %s", models.ErrNotFound, req.GroupID)
	}
	if err != nil {
		return fmt.Errorf("failed to get group: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO pending_requests (group_id, id, kind, status, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		req.GroupID, req.ID, string(req.Kind), string(req.Status), string(payload), toUnix(req.Timestamp),
	)
	if err != nil {
		if isConstraintError(err) {
			return fmt.Errorf("%w: request %s already pending", models.ErrInvalidOperation, req.ID)
		}
		return fmt.Errorf("failed to insert request: %w", err)
	}

	if req.Kind == models.KindJoin {
		if err := putMembership(ctx, tx, models.Membership{
			UID:       req.Join.RequesterUID,
			GroupID:   req.GroupID,
			GroupName: groupName,
			Status:    models.MembershipPending,
		}); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetPendingRequest retrieves one request.
func (s *SQLiteStore) GetPendingRequest(ctx context.Context, groupID, requestID string) (*models.PendingRequest, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT group_id, id, kind, status, payload, created_at FROM pending_requests
		 WHERE group_id = ? AND id = ?`,
		groupID, requestID,
	)
	req, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: request %s", models.ErrNotFound, requestID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return req, nil
}

// ListPendingRequests retrieves a group's requests, oldest first.
func (s *SQLiteStore) ListPendingRequests(ctx context.Context, groupID string) ([]*models.PendingRequest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT group_id, id, kind, status, payload, created_at FROM pending_requests
		 WHERE group_id = ? ORDER BY created_at, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var reqs []*models.PendingRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate requests: %w", err)
	}
	return reqs, nil
}

// DiscardPendingRequest deletes a request and, for joins, the pending membership.
func (s *SQLiteStore) DiscardPendingRequest(ctx context.Context, groupID, requestID string) (*models.PendingRequest, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT group_id, id, kind, status, payload, created_at FROM pending_requests
		 WHERE group_id = ? AND id = ?`,
		groupID, requestID,
	)
	req, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: request %s", models.ErrNotFound, requestID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM pending_requests WHERE group_id = ? AND id = ?", groupID, requestID,
	); err != nil {
		return nil, fmt.Errorf("failed to delete request: %w", err)
	}

	if req.Kind == models.KindJoin {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM memberships WHERE uid = ? AND group_id = ? AND status = ?",
			req.Join.RequesterUID, groupID, string(models.MembershipPending),
		); err != nil {
			return nil, fmt.Errorf("failed to delete pending membership: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return req, nil
}

// ListHistory returns a group's history newest first.
func (s *SQLiteStore) ListHistory(ctx context.Context, groupID string, limit int) ([]models.HistoryEntry, error) {
	query := `SELECT id, group_id, message, created_at FROM history
		WHERE group_id = ? ORDER BY created_at DESC, seq DESC`
	args := []any{groupID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var h models.HistoryEntry
		var ts int64
		if err := rows.Scan(&h.ID, &h.GroupID, &h.Message, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		h.Timestamp = fromUnix(ts)
		entries = append(entries, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return entries, nil
}

func (s *SQLiteStore) appendHistory(ctx context.Context, tx *sql.Tx, groupID string, h models.HistoryEntry) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	if h.Timestamp.IsZero() {
		h.Timestamp = s.now()
	}
	_, err := tx.ExecContext(ctx,
		"INSERT INTO history (id, group_id, message, created_at) VALUES (?, ?, ?, ?)",
		h.ID, groupID, h.Message, toUnix(h.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*models.PendingRequest, error) {
	req := &models.PendingRequest{}
	var payload string
	var createdAt int64
	if err := row.Scan(&req.GroupID, &req.ID, &req.Kind, &req.Status, &payload, &createdAt); err != nil {
		return nil, err
	}
	req.Timestamp = fromUnix(createdAt)

	var p requestPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, fmt.Errorf("failed to decode request payload: %w", err)
	}
	req.Join = p.Join
	req.Transaction = p.Transaction
	return req, nil
}

func isConstraintError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "PRIMARY KEY")
}
