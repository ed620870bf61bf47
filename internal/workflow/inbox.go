package workflow

import (
	"context"

	"github.com/mmynk/beercounter/internal/auth"
	"github.com/mmynk/beercounter/internal/models"
)

// ListNotifications returns the caller's inbox newest first.
func (s *Service) ListNotifications(ctx context.Context, caller auth.Identity, limit int) ([]models.Notification, error) {
	if err := requireIdentity(caller); err != nil {
		return nil, err
	}
	return s.store.ListNotifications(ctx, caller.UID, limit)
}

func (s *Service) MarkNotificationRead(ctx context.Context, caller auth.Identity, notificationID string) error {
	if err := requireIdentity(caller); err != nil {
		return err
	}
	return s.store.MarkNotificationRead(ctx, caller.UID, notificationID)
}

func (s *Service) MarkAllNotificationsRead(ctx context.Context, caller auth.Identity) (int, error) {
	if err := requireIdentity(caller); err != nil {
		return 0, err
	}
	return s.store.MarkAllNotificationsRead(ctx, caller.UID)
}

func (s *Service) DeleteNotification(ctx context.Context, caller auth.Identity, notificationID string) error {
	if err := requireIdentity(caller); err != nil {
		return err
	}
	return s.store.DeleteNotification(ctx, caller.UID, notificationID)
}
