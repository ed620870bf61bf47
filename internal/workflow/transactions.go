package workflow

import (
	"context"
	"fmt"

	"github.com/mmynk/beercounter/internal/auth"
	"github.com/mmynk/beercounter/internal/ledger"
	"github.com/mmynk/beercounter/internal/models"
	"github.com/mmynk/beercounter/internal/notify"
	"github.com/mmynk/beercounter/internal/storage"
)

// SubmitResult reports what happened to a submitted transaction.
// Applied is true on the admin fast path; otherwise Request holds the queued request.
type SubmitResult struct {
	Applied bool
	Group   *models.Group
	Request *models.PendingRequest
	Message string
}

// SubmitTransaction applies an owes/paid transaction from actingUID to recipients.
// Admin callers apply it immediately; other members queue it for approval.
func (s *Service) SubmitTransaction(ctx context.Context, caller auth.Identity, groupID, actingUID string, recipients []string, t models.TransType) (*SubmitResult, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", models.ErrInvalidOperation, t)
	}
	g, err := s.loadAsMember(ctx, caller, groupID)
	if err != nil {
		return nil, err
	}

	if g.IsAdmin(caller.UID) {
		return s.applyAsAdmin(ctx, caller, groupID, actingUID, recipients, t)
	}

	uids, names, err := ledger.ResolveRecipients(g, actingUID, recipients)
	if err != nil {
		return nil, err
	}
	actor, _ := g.Member(actingUID)

	req := &models.PendingRequest{
		GroupID:   groupID,
		Kind:      models.KindTransaction,
		Timestamp: s.now(),
		Transaction: &models.TransactionRequest{
			ActingUID:       actingUID,
			ActingName:      actor.Name,
			TransType:       t,
			Recipients:      uids,
			RecipientsNames: names,
			Count:           len(uids),
			Message:         ledger.TransactionMessage(actor.Name, t, names),
			SubmittedBy:     caller.UID,
		},
	}
	if err := s.store.CreatePendingRequest(ctx, req); err != nil {
		return nil, err
	}

	s.metrics.RequestTransition(string(models.KindTransaction), "submitted")
	s.logger.InfoContext(ctx, "transaction queued for approval",
		"group_id", groupID,
		"request_id", req.ID,
		"acting_uid", actingUID,
		"type", t,
		"recipients", len(uids),
	)
	s.notify(ctx, notify.Message{
		Kind:       notify.KindRequestPending,
		GroupID:    groupID,
		Recipients: g.Admins(),
		Text:       fmt.Sprintf("📢 Richiesta da approvare: %s", req.Transaction.Message),
	})

	return &SubmitResult{Group: g, Request: req, Message: req.Transaction.Message}, nil
}

func (s *Service) applyAsAdmin(ctx context.Context, caller auth.Identity, groupID, actingUID string, recipients []string, t models.TransType) (*SubmitResult, error) {
	var result *ledger.TransactionResult
	g, err := s.update(ctx, groupID, func(g *models.Group) (*storage.Effects, error) {
		if err := requireAdmin(g, caller.UID); err != nil {
			return nil, err
		}
		res, err := ledger.ApplyTransaction(g, actingUID, recipients, t, s.now())
		if err != nil {
			return nil, err
		}
		result = res
		return &storage.Effects{History: []models.HistoryEntry{s.history(res.Message)}}, nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.TransactionApplied(string(t))
	s.logger.InfoContext(ctx, "transaction applied",
		"group_id", groupID,
		"acting_uid", actingUID,
		"type", t,
		"units", result.Units,
		"version", g.Version,
	)
	return &SubmitResult{Applied: true, Group: g, Message: result.Message}, nil
}

// ApproveTransaction applies a queued transaction against the group's current
// membership and deletes the request in the same write.
func (s *Service) ApproveTransaction(ctx context.Context, caller auth.Identity, groupID, requestID string) (*SubmitResult, error) {
	if _, err := s.loadAsAdmin(ctx, caller, groupID); err != nil {
		return nil, err
	}
	req, err := s.store.GetPendingRequest(ctx, groupID, requestID)
	if err != nil {
		return nil, err
	}
	if req.Kind != models.KindTransaction {
		return nil, fmt.Errorf("%w: request %s is a %s request", models.ErrInvalidOperation, requestID, req.Kind)
	}
	tx := req.Transaction

	var result *ledger.TransactionResult
	g, err := s.update(ctx, groupID, func(g *models.Group) (*storage.Effects, error) {
		if err := requireAdmin(g, caller.UID); err != nil {
			return nil, err
		}
		res, err := ledger.ApplyTransaction(g, tx.ActingUID, tx.Recipients, tx.TransType, s.now())
		if err != nil {
			return nil, err
		}
		result = res
		return &storage.Effects{
			History:        []models.HistoryEntry{s.history(res.Message)},
			ConsumeRequest: requestID,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	req.Status = models.StatusApproved
	s.metrics.TransactionApplied(string(tx.TransType))
	s.metrics.RequestTransition(string(models.KindTransaction), "approved")
	s.logger.InfoContext(ctx, "transaction approved",
		"group_id", groupID,
		"request_id", requestID,
		"approved_by", caller.UID,
		"version", g.Version,
	)
	s.notify(ctx, notify.Message{
		Kind:       notify.KindRequestApproved,
		GroupID:    groupID,
		Recipients: []string{req.RequesterUID()},
		Text:       fmt.Sprintf("✅ Richiesta approvata: %s", result.Message),
	})

	return &SubmitResult{Applied: true, Group: g, Request: req, Message: result.Message}, nil
}
