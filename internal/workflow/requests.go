package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmynk/beercounter/internal/auth"
	"github.com/mmynk/beercounter/internal/ledger"
	"github.com/mmynk/beercounter/internal/models"
	"github.com/mmynk/beercounter/internal/notify"
	"github.com/mmynk/beercounter/internal/storage"
)

// SubmitJoinRequest queues the caller's request to join a group. The request id is
// the caller's uid, so a second request while one is pending is rejected.
func (s *Service) SubmitJoinRequest(ctx context.Context, caller auth.Identity, groupID string) (*models.PendingRequest, error) {
	if err := requireIdentity(caller); err != nil {
		return nil, err
	}
	g, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if _, ok := g.Member(caller.UID); ok {
		return nil, fmt.Errorf("%w: %s is already a member of %s", models.ErrInvalidOperation, caller.UID, groupID)
	}

	req := &models.PendingRequest{
		ID:        caller.UID,
		GroupID:   groupID,
		Kind:      models.KindJoin,
		Timestamp: s.now(),
		Join: &models.JoinRequest{
			RequesterUID:      caller.UID,
			RequesterName:     caller.DisplayName(),
			RequesterPhotoURL: caller.PhotoURL,
		},
	}
	if err := s.store.CreatePendingRequest(ctx, req); err != nil {
		return nil, err
	}

	s.metrics.RequestTransition(string(models.KindJoin), "submitted")
	s.logger.InfoContext(ctx, "join request submitted", "group_id", groupID, "requester", caller.UID)
	s.notify(ctx, notify.Message{
		Kind:       notify.KindRequestPending,
		GroupID:    groupID,
		Recipients: g.Admins(),
		Text:       fmt.Sprintf("🙋 %s vuole entrare in %s", ledger.FormatName(req.Join.RequesterName), g.Name),
	})
	return req, nil
}

// ApproveJoin adds the requester as a member, marks their membership as member and
// deletes the request, all in one write.
func (s *Service) ApproveJoin(ctx context.Context, caller auth.Identity, groupID, requestID string) (*models.Group, error) {
	if _, err := s.loadAsAdmin(ctx, caller, groupID); err != nil {
		return nil, err
	}
	req, err := s.store.GetPendingRequest(ctx, groupID, requestID)
	if err != nil {
		return nil, err
	}
	if req.Kind != models.KindJoin {
		return nil, fmt.Errorf("%w: request %s is a %s request", models.ErrInvalidOperation, requestID, req.Kind)
	}
	join := req.Join

	g, err := s.update(ctx, groupID, func(g *models.Group) (*storage.Effects, error) {
		if err := requireAdmin(g, caller.UID); err != nil {
			return nil, err
		}
		if _, ok := g.Member(join.RequesterUID); ok {
			return nil, fmt.Errorf("%w: %s is already a member", models.ErrInvalidOperation, join.RequesterUID)
		}
		member := models.Member{
			UID:      join.RequesterUID,
			Name:     join.RequesterName,
			Role:     models.RoleMember,
			PhotoURL: join.RequesterPhotoURL,
		}
		g.Members = append(g.Members, member)
		return &storage.Effects{
			History:        []models.HistoryEntry{s.history(ledger.JoinMessage(join.RequesterName))},
			ConsumeRequest: requestID,
			PutMemberships: []models.Membership{{
				UID: join.RequesterUID, GroupID: groupID, GroupName: g.Name, Status: models.MembershipMember,
			}},
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RequestTransition(string(models.KindJoin), "approved")
	s.logger.InfoContext(ctx, "join approved", "group_id", groupID, "member", join.RequesterUID, "approved_by", caller.UID)
	s.notify(ctx, notify.Message{
		Kind:       notify.KindRequestApproved,
		GroupID:    groupID,
		Recipients: []string{join.RequesterUID},
		Text:       fmt.Sprintf("🎉 Sei entrato in %s!", g.Name),
	})
	return g, nil
}

// RejectRequest deletes a pending request without ledger effect. Rejecting a join
// also drops the pending membership so the user can ask again. A request that is
// already gone returns models.ErrNotFound.
func (s *Service) RejectRequest(ctx context.Context, caller auth.Identity, groupID, requestID string) (*models.PendingRequest, error) {
	g, err := s.loadAsAdmin(ctx, caller, groupID)
	if err != nil {
		return nil, err
	}
	req, err := s.store.DiscardPendingRequest(ctx, groupID, requestID)
	if err != nil {
		return nil, err
	}
	req.Status = models.StatusRejected

	s.metrics.RequestTransition(string(req.Kind), "rejected")
	s.logger.InfoContext(ctx, "request rejected",
		"group_id", groupID,
		"request_id", requestID,
		"kind", req.Kind,
		"rejected_by", caller.UID,
	)

	text := fmt.Sprintf("❌ La tua richiesta di entrare in %s è stata rifiutata.", g.Name)
	if req.Kind == models.KindTransaction {
		text = fmt.Sprintf("❌ Richiesta rifiutata: %s", req.Transaction.Message)
	}
	s.notify(ctx, notify.Message{
		Kind:       notify.KindRequestRejected,
		GroupID:    groupID,
		Recipients: []string{req.RequesterUID()},
		Text:       text,
	})
	return req, nil
}

// ListPendingRequests returns the group's queue. Admin only.
func (s *Service) ListPendingRequests(ctx context.Context, caller auth.Identity, groupID string) ([]*models.PendingRequest, error) {
	if _, err := s.loadAsAdmin(ctx, caller, groupID); err != nil {
		return nil, err
	}
	return s.store.ListPendingRequests(ctx, groupID)
}

// discardJoinIfPending drops a join request made obsolete by a direct add.
func (s *Service) discardJoinIfPending(ctx context.Context, groupID, uid string) {
	_, err := s.store.DiscardPendingRequest(ctx, groupID, uid)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		s.logger.WarnContext(ctx, "failed to discard obsolete join request", "group_id", groupID, "uid", uid, "error", err)
	}
}
