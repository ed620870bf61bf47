package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/beercounter/internal/auth"
	"github.com/mmynk/beercounter/internal/middleware"
	"github.com/mmynk/beercounter/internal/workflow"
	"github.com/mmynk/beercounter/pkg/api"
	"github.com/mmynk/beercounter/pkg/api/apiconnect"
)

var _ apiconnect.GroupServiceHandler = (*GroupService)(nil)

// GroupService implements the Connect GroupService
type GroupService struct {
	wf *workflow.Service
}

// NewGroupService creates a new GroupService on top of the workflow.
func NewGroupService(wf *workflow.Service) *GroupService {
	return &GroupService{wf: wf}
}

// CreateGroup creates a new group with the caller as admin.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	caller := middleware.GetIdentity(ctx)
	slog.InfoContext(ctx, "CreateGroup request received", "name", req.Msg.Name, "user_id", caller.UID)

	group, err := s.wf.CreateGroup(ctx, caller, req.Msg.Name, req.Msg.Rules, req.Msg.PhotoRef)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup retrieves a group by ID with its debts consolidated by debtor.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.DebugContext(ctx, "GetGroup request received", "group_id", req.Msg.GroupID)

	view, err := s.wf.GetGroup(ctx, middleware.GetIdentity(ctx), req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetGroupResponse{
		Group:        toAPIGroup(view.Group),
		Consolidated: toAPIConsolidated(view.Consolidated),
	}), nil
}

// UpdateGroup edits name, rules or photo.
func (s *GroupService) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	slog.InfoContext(ctx, "UpdateGroup request received", "group_id", req.Msg.GroupID)

	group, err := s.wf.UpdateGroup(ctx, middleware.GetIdentity(ctx), req.Msg.GroupID, workflow.GroupPatch{
		Name:     req.Msg.Name,
		Rules:    req.Msg.Rules,
		PhotoRef: req.Msg.PhotoRef,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.UpdateGroupResponse{Group: toAPIGroup(group)}), nil
}

// DeleteGroup removes a group by ID.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	slog.InfoContext(ctx, "DeleteGroup request received", "group_id", req.Msg.GroupID)

	if err := s.wf.DeleteGroup(ctx, middleware.GetIdentity(ctx), req.Msg.GroupID); err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.DeleteGroupResponse{Success: true}), nil
}

// ListMyGroups lists the caller's groups, pending joins included.
func (s *GroupService) ListMyGroups(ctx context.Context, req *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListMyGroupsResponse], error) {
	memberships, err := s.wf.ListMyGroups(ctx, middleware.GetIdentity(ctx))
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ListMyGroupsResponse{Groups: toAPIMemberships(memberships)}), nil
}

// AddMember adds a user directly. Admin only.
func (s *GroupService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	slog.InfoContext(ctx, "AddMember request received", "group_id", req.Msg.GroupID, "member", req.Msg.UID)

	member := auth.Identity{UID: req.Msg.UID, Name: req.Msg.Name, PhotoURL: req.Msg.PhotoURL}
	group, err := s.wf.AddMember(ctx, middleware.GetIdentity(ctx), req.Msg.GroupID, member)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.AddMemberResponse{Group: toAPIGroup(group)}), nil
}

// RemoveMember drops a member. Admin only.
func (s *GroupService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	slog.InfoContext(ctx, "RemoveMember request received", "group_id", req.Msg.GroupID, "member", req.Msg.UID)

	group, err := s.wf.RemoveMember(ctx, middleware.GetIdentity(ctx), req.Msg.GroupID, req.Msg.UID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.RemoveMemberResponse{Group: toAPIGroup(group)}), nil
}

// ListHistory returns the latest history lines.
func (s *GroupService) ListHistory(ctx context.Context, req *connect.Request[api.ListHistoryRequest]) (*connect.Response[api.ListHistoryResponse], error) {
	entries, err := s.wf.ListHistory(ctx, middleware.GetIdentity(ctx), req.Msg.GroupID, req.Msg.Limit)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ListHistoryResponse{Entries: toAPIHistory(entries)}), nil
}
