package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/beercounter/internal/middleware"
	"github.com/mmynk/beercounter/internal/models"
	"github.com/mmynk/beercounter/internal/workflow"
	"github.com/mmynk/beercounter/pkg/api"
	"github.com/mmynk/beercounter/pkg/api/apiconnect"
)

var _ apiconnect.LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService implements the Connect LedgerService: transactions, the approval
// queue and the admin repair tools.
type LedgerService struct {
	wf *workflow.Service
}

// NewLedgerService creates a new LedgerService on top of the workflow.
func NewLedgerService(wf *workflow.Service) *LedgerService {
	return &LedgerService{wf: wf}
}

// SubmitTransaction applies (admin) or queues (member) an owes/paid transaction.
func (s *LedgerService) SubmitTransaction(ctx context.Context, req *connect.Request[api.SubmitTransactionRequest]) (*connect.Response[api.SubmitTransactionResponse], error) {
	caller := middleware.GetIdentity(ctx)
	slog.InfoContext(ctx, "SubmitTransaction request received",
		"group_id", req.Msg.GroupID,
		"acting_uid", req.Msg.ActingUID,
		"type", req.Msg.TransType,
		"recipients_count", len(req.Msg.Recipients),
		"user_id", caller.UID,
	)

	acting := req.Msg.ActingUID
	if acting == "" {
		acting = caller.UID
	}
	res, err := s.wf.SubmitTransaction(ctx, caller, req.Msg.GroupID, acting, req.Msg.Recipients, models.TransType(req.Msg.TransType))
	if err != nil {
		return nil, toConnectError(err)
	}

	out := &api.SubmitTransactionResponse{
		Applied: res.Applied,
		Message: res.Message,
		Request: toAPIRequest(res.Request),
	}
	if res.Applied {
		out.Group = toAPIGroup(res.Group)
	}
	return connect.NewResponse(out), nil
}

// ApproveTransaction applies a queued transaction. Admin only.
func (s *LedgerService) ApproveTransaction(ctx context.Context, req *connect.Request[api.ApproveTransactionRequest]) (*connect.Response[api.ApproveTransactionResponse], error) {
	slog.InfoContext(ctx, "ApproveTransaction request received", "group_id", req.Msg.GroupID, "request_id", req.Msg.RequestID)

	res, err := s.wf.ApproveTransaction(ctx, middleware.GetIdentity(ctx), req.Msg.GroupID, req.Msg.RequestID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ApproveTransactionResponse{Message: res.Message, Group: toAPIGroup(res.Group)}), nil
}

// SubmitJoinRequest asks to join a group.
func (s *LedgerService) SubmitJoinRequest(ctx context.Context, req *connect.Request[api.SubmitJoinRequestRequest]) (*connect.Response[api.SubmitJoinRequestResponse], error) {
	slog.InfoContext(ctx, "SubmitJoinRequest request received", "group_id", req.Msg.GroupID)

	pending, err := s.wf.SubmitJoinRequest(ctx, middleware.GetIdentity(ctx), req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.SubmitJoinRequestResponse{Request: toAPIRequest(pending)}), nil
}

// ApproveJoin admits a requester. Admin only.
func (s *LedgerService) ApproveJoin(ctx context.Context, req *connect.Request[api.ApproveJoinRequest]) (*connect.Response[api.ApproveJoinResponse], error) {
	slog.InfoContext(ctx, "ApproveJoin request received", "group_id", req.Msg.GroupID, "request_id", req.Msg.RequestID)

	group, err := s.wf.ApproveJoin(ctx, middleware.GetIdentity(ctx), req.Msg.GroupID, req.Msg.RequestID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ApproveJoinResponse{Group: toAPIGroup(group)}), nil
}

// RejectRequest drops a pending request. Admin only.
func (s *LedgerService) RejectRequest(ctx context.Context, req *connect.Request[api.RejectRequestRequest]) (*connect.Response[api.RejectRequestResponse], error) {
	slog.InfoContext(ctx, "RejectRequest request received", "group_id", req.Msg.GroupID, "request_id", req.Msg.RequestID)

	rejected, err := s.wf.RejectRequest(ctx, middleware.GetIdentity(ctx), req.Msg.GroupID, req.Msg.RequestID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.RejectRequestResponse{Request: toAPIRequest(rejected)}), nil
}

// ListPendingRequests returns the approval queue. Admin only.
func (s *LedgerService) ListPendingRequests(ctx context.Context, req *connect.Request[api.ListPendingRequestsRequest]) (*connect.Response[api.ListPendingRequestsResponse], error) {
	reqs, err := s.wf.ListPendingRequests(ctx, middleware.GetIdentity(ctx), req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	out := make([]api.PendingRequest, len(reqs))
	for i, r := range reqs {
		out[i] = *toAPIRequest(r)
	}
	return connect.NewResponse(&api.ListPendingRequestsResponse{Requests: out}), nil
}

// RecalculateBalances rebuilds cached balances from the edges. Admin only.
func (s *LedgerService) RecalculateBalances(ctx context.Context, req *connect.Request[api.RecalculateBalancesRequest]) (*connect.Response[api.RecalculateBalancesResponse], error) {
	slog.InfoContext(ctx, "RecalculateBalances request received", "group_id", req.Msg.GroupID)

	group, drift, err := s.wf.RecalculateBalances(ctx, middleware.GetIdentity(ctx), req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.RecalculateBalancesResponse{Group: toAPIGroup(group), Corrected: drift}), nil
}

// DeleteDebtUnit removes one beer from an edge. Admin only.
func (s *LedgerService) DeleteDebtUnit(ctx context.Context, req *connect.Request[api.DeleteDebtUnitRequest]) (*connect.Response[api.DeleteDebtUnitResponse], error) {
	slog.InfoContext(ctx, "DeleteDebtUnit request received",
		"group_id", req.Msg.GroupID,
		"debtor", req.Msg.DebtorUID,
		"creditor", req.Msg.CreditorUID,
	)

	group, err := s.wf.DeleteDebtUnit(ctx, middleware.GetIdentity(ctx), req.Msg.GroupID, req.Msg.DebtorUID, req.Msg.CreditorUID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.DeleteDebtUnitResponse{Group: toAPIGroup(group)}), nil
}

// ScanForAging runs the shame scan for one group now. Admin only.
func (s *LedgerService) ScanForAging(ctx context.Context, req *connect.Request[api.ScanForAgingRequest]) (*connect.Response[api.ScanForAgingResponse], error) {
	slog.InfoContext(ctx, "ScanForAging request received", "group_id", req.Msg.GroupID)

	events, err := s.wf.ScanGroupForAging(ctx, middleware.GetIdentity(ctx), req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ScanForAgingResponse{Events: toAPIShameEvents(events)}), nil
}
