package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/beercounter/internal/models"
)

// AddNotification stores an inbox message.
func (s *SQLiteStore) AddNotification(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (id, uid, group_id, message, read, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, n.UID, n.GroupID, n.Message, n.Read, toUnix(n.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// ListNotifications returns a user's inbox newest first.
func (s *SQLiteStore) ListNotifications(ctx context.Context, uid string, limit int) ([]models.Notification, error) {
	query := `SELECT id, uid, group_id, message, read, created_at FROM notifications
		WHERE uid = ? ORDER BY created_at DESC, seq DESC`
	args := []any{uid}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		var ts int64
		if err := rows.Scan(&n.ID, &n.UID, &n.GroupID, &n.Message, &n.Read, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.CreatedAt = fromUnix(ts)
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notifications: %w", err)
	}
	return out, nil
}

// MarkNotificationRead flags one message as read.
func (s *SQLiteStore) MarkNotificationRead(ctx context.Context, uid, notificationID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = 1 WHERE uid = ? AND id = ?", uid, notificationID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: notification %s", models.ErrNotFound, notificationID)
	}
	return nil
}

// MarkAllNotificationsRead flags every unread message of a user.
func (s *SQLiteStore) MarkAllNotificationsRead(ctx context.Context, uid string) (int, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = 1 WHERE uid = ? AND read = 0", uid,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check update: %w", err)
	}
	return int(n), nil
}

// DeleteNotification removes one message.
func (s *SQLiteStore) DeleteNotification(ctx context.Context, uid, notificationID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM notifications WHERE uid = ? AND id = ?", uid, notificationID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: notification %s", models.ErrNotFound, notificationID)
	}
	return nil
}
