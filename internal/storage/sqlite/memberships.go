package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/beercounter/internal/models"
)

// GetMembership retrieves a user's membership record for one group.
func (s *SQLiteStore) GetMembership(ctx context.Context, uid, groupID string) (*models.Membership, error) {
	m := &models.Membership{}
	err := s.db.QueryRowContext(ctx,
		"SELECT uid, group_id, group_name, status FROM memberships WHERE uid = ? AND group_id = ?",
		uid, groupID,
	).Scan(&m.UID, &m.GroupID, &m.GroupName, &m.Status)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: membership of %s in %s", models.ErrNotFound, uid, groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return m, nil
}

// ListMemberships retrieves every group record of a user, sorted by group name.
func (s *SQLiteStore) ListMemberships(ctx context.Context, uid string) ([]models.Membership, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT uid, group_id, group_name, status FROM memberships
		 WHERE uid = ? ORDER BY group_name, group_id`,
		uid,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var out []models.Membership
	for rows.Next() {
		var m models.Membership
		if err := rows.Scan(&m.UID, &m.GroupID, &m.GroupName, &m.Status); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memberships: %w", err)
	}
	return out, nil
}

func putMembership(ctx context.Context, tx *sql.Tx, m models.Membership) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO memberships (uid, group_id, group_name, status) VALUES (?, ?, ?, ?)
		 ON CONFLICT (uid, group_id) DO UPDATE SET group_name = excluded.group_name, status = excluded.status`,
		m.UID, m.GroupID, m.GroupName, string(m.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert membership: %w", err)
	}
	return nil
}
