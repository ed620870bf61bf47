package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/beercounter/internal/middleware"
	"github.com/mmynk/beercounter/internal/workflow"
	"github.com/mmynk/beercounter/pkg/api"
	"github.com/mmynk/beercounter/pkg/api/apiconnect"
)

var _ apiconnect.NotificationServiceHandler = (*NotificationService)(nil)

// NotificationService implements the Connect NotificationService over the caller's inbox.
type NotificationService struct {
	wf *workflow.Service
}

func NewNotificationService(wf *workflow.Service) *NotificationService {
	return &NotificationService{wf: wf}
}

func (s *NotificationService) ListNotifications(ctx context.Context, req *connect.Request[api.ListNotificationsRequest]) (*connect.Response[api.ListNotificationsResponse], error) {
	ns, err := s.wf.ListNotifications(ctx, middleware.GetIdentity(ctx), req.Msg.Limit)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ListNotificationsResponse{Notifications: toAPINotifications(ns)}), nil
}

func (s *NotificationService) MarkNotificationRead(ctx context.Context, req *connect.Request[api.MarkNotificationReadRequest]) (*connect.Response[api.MarkNotificationReadResponse], error) {
	if err := s.wf.MarkNotificationRead(ctx, middleware.GetIdentity(ctx), req.Msg.NotificationID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.MarkNotificationReadResponse{}), nil
}

func (s *NotificationService) MarkAllNotificationsRead(ctx context.Context, req *connect.Request[api.MarkAllNotificationsReadRequest]) (*connect.Response[api.MarkAllNotificationsReadResponse], error) {
	n, err := s.wf.MarkAllNotificationsRead(ctx, middleware.GetIdentity(ctx))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.MarkAllNotificationsReadResponse{Updated: n}), nil
}

func (s *NotificationService) DeleteNotification(ctx context.Context, req *connect.Request[api.DeleteNotificationRequest]) (*connect.Response[api.DeleteNotificationResponse], error) {
	if err := s.wf.DeleteNotification(ctx, middleware.GetIdentity(ctx), req.Msg.NotificationID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DeleteNotificationResponse{}), nil
}
