// Package apiconnect wires the api messages to connect handlers and clients.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/beercounter/pkg/api"
)

const (
	// GroupServiceName is the fully-qualified name of the GroupService.
	GroupServiceName = "beercounter.v1.GroupService"
	// LedgerServiceName is the fully-qualified name of the LedgerService.
	LedgerServiceName = "beercounter.v1.LedgerService"
	// NotificationServiceName is the fully-qualified name of the NotificationService.
	NotificationServiceName = "beercounter.v1.NotificationService"
)

// Procedure paths, used for routing and in interceptors.
const (
	GroupServiceCreateGroupProcedure                     = "/beercounter.v1.GroupService/CreateGroup"
	GroupServiceGetGroupProcedure                        = "/beercounter.v1.GroupService/GetGroup"
	GroupServiceUpdateGroupProcedure                     = "/beercounter.v1.GroupService/UpdateGroup"
	GroupServiceDeleteGroupProcedure                     = "/beercounter.v1.GroupService/DeleteGroup"
	GroupServiceListMyGroupsProcedure                    = "/beercounter.v1.GroupService/ListMyGroups"
	GroupServiceAddMemberProcedure                       = "/beercounter.v1.GroupService/AddMember"
	GroupServiceRemoveMemberProcedure                    = "/beercounter.v1.GroupService/RemoveMember"
	GroupServiceListHistoryProcedure                     = "/beercounter.v1.GroupService/ListHistory"
	LedgerServiceSubmitTransactionProcedure              = "/beercounter.v1.LedgerService/SubmitTransaction"
	LedgerServiceApproveTransactionProcedure             = "/beercounter.v1.LedgerService/ApproveTransaction"
	LedgerServiceSubmitJoinRequestProcedure              = "/beercounter.v1.LedgerService/SubmitJoinRequest"
	LedgerServiceApproveJoinProcedure                    = "/beercounter.v1.LedgerService/ApproveJoin"
	LedgerServiceRejectRequestProcedure                  = "/beercounter.v1.LedgerService/RejectRequest"
	LedgerServiceListPendingRequestsProcedure            = "/beercounter.v1.LedgerService/ListPendingRequests"
	LedgerServiceRecalculateBalancesProcedure            = "/beercounter.v1.LedgerService/RecalculateBalances"
	LedgerServiceDeleteDebtUnitProcedure                 = "/beercounter.v1.LedgerService/DeleteDebtUnit"
	LedgerServiceScanForAgingProcedure                   = "/beercounter.v1.LedgerService/ScanForAging"
	NotificationServiceListNotificationsProcedure        = "/beercounter.v1.NotificationService/ListNotifications"
	NotificationServiceMarkNotificationReadProcedure     = "/beercounter.v1.NotificationService/MarkNotificationRead"
	NotificationServiceMarkAllNotificationsReadProcedure = "/beercounter.v1.NotificationService/MarkAllNotificationsRead"
	NotificationServiceDeleteNotificationProcedure       = "/beercounter.v1.NotificationService/DeleteNotification"
)

// withCodec prepends the JSON codec so callers may still override it.
func withCodec[T any](opts []T, codec T) []T {
	return append([]T{codec}, opts...)
}

// route serves the handler registered for the request path.
func route(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// baseURL trims a trailing slash so procedure paths can be appended.
func baseURL(u string) string {
	return strings.TrimRight(u, "/")
}

// GroupServiceHandler is implemented by the server side of the GroupService.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	UpdateGroup(context.Context, *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error)
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error)
	ListMyGroups(context.Context, *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListMyGroupsResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
	ListHistory(context.Context, *connect.Request[api.ListHistoryRequest]) (*connect.Response[api.ListHistoryResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler for every GroupService procedure.
// It returns the path prefix to mount the handler on.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts, connect.HandlerOption(connect.WithCodec(api.Codec{})))
	return "/" + GroupServiceName + "/", route(map[string]http.Handler{
		GroupServiceCreateGroupProcedure:  connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...),
		GroupServiceGetGroupProcedure:     connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...),
		GroupServiceUpdateGroupProcedure:  connect.NewUnaryHandler(GroupServiceUpdateGroupProcedure, svc.UpdateGroup, opts...),
		GroupServiceDeleteGroupProcedure:  connect.NewUnaryHandler(GroupServiceDeleteGroupProcedure, svc.DeleteGroup, opts...),
		GroupServiceListMyGroupsProcedure: connect.NewUnaryHandler(GroupServiceListMyGroupsProcedure, svc.ListMyGroups, opts...),
		GroupServiceAddMemberProcedure:    connect.NewUnaryHandler(GroupServiceAddMemberProcedure, svc.AddMember, opts...),
		GroupServiceRemoveMemberProcedure: connect.NewUnaryHandler(GroupServiceRemoveMemberProcedure, svc.RemoveMember, opts...),
		GroupServiceListHistoryProcedure:  connect.NewUnaryHandler(GroupServiceListHistoryProcedure, svc.ListHistory, opts...),
	})
}

// GroupServiceClient is a client for the GroupService.
type GroupServiceClient interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	UpdateGroup(context.Context, *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error)
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error)
	ListMyGroups(context.Context, *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListMyGroupsResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
	ListHistory(context.Context, *connect.Request[api.ListHistoryRequest]) (*connect.Response[api.ListHistoryResponse], error)
}

type groupServiceClient struct {
	createGroup  *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
	getGroup     *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	updateGroup  *connect.Client[api.UpdateGroupRequest, api.UpdateGroupResponse]
	deleteGroup  *connect.Client[api.DeleteGroupRequest, api.DeleteGroupResponse]
	listMyGroups *connect.Client[api.ListMyGroupsRequest, api.ListMyGroupsResponse]
	addMember    *connect.Client[api.AddMemberRequest, api.AddMemberResponse]
	removeMember *connect.Client[api.RemoveMemberRequest, api.RemoveMemberResponse]
	listHistory  *connect.Client[api.ListHistoryRequest, api.ListHistoryResponse]
}

// NewGroupServiceClient creates a client that talks JSON to the server at url.
func NewGroupServiceClient(httpClient connect.HTTPClient, url string, opts ...connect.ClientOption) GroupServiceClient {
	url = baseURL(url)
	opts = withCodec(opts, connect.ClientOption(connect.WithCodec(api.Codec{})))
	return &groupServiceClient{
		createGroup:  connect.NewClient[api.CreateGroupRequest, api.CreateGroupResponse](httpClient, url+GroupServiceCreateGroupProcedure, opts...),
		getGroup:     connect.NewClient[api.GetGroupRequest, api.GetGroupResponse](httpClient, url+GroupServiceGetGroupProcedure, opts...),
		updateGroup:  connect.NewClient[api.UpdateGroupRequest, api.UpdateGroupResponse](httpClient, url+GroupServiceUpdateGroupProcedure, opts...),
		deleteGroup:  connect.NewClient[api.DeleteGroupRequest, api.DeleteGroupResponse](httpClient, url+GroupServiceDeleteGroupProcedure, opts...),
		listMyGroups: connect.NewClient[api.ListMyGroupsRequest, api.ListMyGroupsResponse](httpClient, url+GroupServiceListMyGroupsProcedure, opts...),
		addMember:    connect.NewClient[api.AddMemberRequest, api.AddMemberResponse](httpClient, url+GroupServiceAddMemberProcedure, opts...),
		removeMember: connect.NewClient[api.RemoveMemberRequest, api.RemoveMemberResponse](httpClient, url+GroupServiceRemoveMemberProcedure, opts...),
		listHistory:  connect.NewClient[api.ListHistoryRequest, api.ListHistoryResponse](httpClient, url+GroupServiceListHistoryProcedure, opts...),
	}
}

func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	return c.updateGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListMyGroups(ctx context.Context, req *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListMyGroupsResponse], error) {
	return c.listMyGroups.CallUnary(ctx, req)
}

func (c *groupServiceClient) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

func (c *groupServiceClient) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return c.removeMember.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListHistory(ctx context.Context, req *connect.Request[api.ListHistoryRequest]) (*connect.Response[api.ListHistoryResponse], error) {
	return c.listHistory.CallUnary(ctx, req)
}

// LedgerServiceHandler is implemented by the server side of the LedgerService.
type LedgerServiceHandler interface {
	SubmitTransaction(context.Context, *connect.Request[api.SubmitTransactionRequest]) (*connect.Response[api.SubmitTransactionResponse], error)
	ApproveTransaction(context.Context, *connect.Request[api.ApproveTransactionRequest]) (*connect.Response[api.ApproveTransactionResponse], error)
	SubmitJoinRequest(context.Context, *connect.Request[api.SubmitJoinRequestRequest]) (*connect.Response[api.SubmitJoinRequestResponse], error)
	ApproveJoin(context.Context, *connect.Request[api.ApproveJoinRequest]) (*connect.Response[api.ApproveJoinResponse], error)
	RejectRequest(context.Context, *connect.Request[api.RejectRequestRequest]) (*connect.Response[api.RejectRequestResponse], error)
	ListPendingRequests(context.Context, *connect.Request[api.ListPendingRequestsRequest]) (*connect.Response[api.ListPendingRequestsResponse], error)
	RecalculateBalances(context.Context, *connect.Request[api.RecalculateBalancesRequest]) (*connect.Response[api.RecalculateBalancesResponse], error)
	DeleteDebtUnit(context.Context, *connect.Request[api.DeleteDebtUnitRequest]) (*connect.Response[api.DeleteDebtUnitResponse], error)
	ScanForAging(context.Context, *connect.Request[api.ScanForAgingRequest]) (*connect.Response[api.ScanForAgingResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler for every LedgerService procedure.
// It returns the path prefix to mount the handler on.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts, connect.HandlerOption(connect.WithCodec(api.Codec{})))
	return "/" + LedgerServiceName + "/", route(map[string]http.Handler{
		LedgerServiceSubmitTransactionProcedure:   connect.NewUnaryHandler(LedgerServiceSubmitTransactionProcedure, svc.SubmitTransaction, opts...),
		LedgerServiceApproveTransactionProcedure:  connect.NewUnaryHandler(LedgerServiceApproveTransactionProcedure, svc.ApproveTransaction, opts...),
		LedgerServiceSubmitJoinRequestProcedure:   connect.NewUnaryHandler(LedgerServiceSubmitJoinRequestProcedure, svc.SubmitJoinRequest, opts...),
		LedgerServiceApproveJoinProcedure:         connect.NewUnaryHandler(LedgerServiceApproveJoinProcedure, svc.ApproveJoin, opts...),
		LedgerServiceRejectRequestProcedure:       connect.NewUnaryHandler(LedgerServiceRejectRequestProcedure, svc.RejectRequest, opts...),
		LedgerServiceListPendingRequestsProcedure: connect.NewUnaryHandler(LedgerServiceListPendingRequestsProcedure, svc.ListPendingRequests, opts...),
		LedgerServiceRecalculateBalancesProcedure: connect.NewUnaryHandler(LedgerServiceRecalculateBalancesProcedure, svc.RecalculateBalances, opts...),
		LedgerServiceDeleteDebtUnitProcedure:      connect.NewUnaryHandler(LedgerServiceDeleteDebtUnitProcedure, svc.DeleteDebtUnit, opts...),
		LedgerServiceScanForAgingProcedure:        connect.NewUnaryHandler(LedgerServiceScanForAgingProcedure, svc.ScanForAging, opts...),
	})
}

// LedgerServiceClient is a client for the LedgerService.
type LedgerServiceClient interface {
	SubmitTransaction(context.Context, *connect.Request[api.SubmitTransactionRequest]) (*connect.Response[api.SubmitTransactionResponse], error)
	ApproveTransaction(context.Context, *connect.Request[api.ApproveTransactionRequest]) (*connect.Response[api.ApproveTransactionResponse], error)
	SubmitJoinRequest(context.Context, *connect.Request[api.SubmitJoinRequestRequest]) (*connect.Response[api.SubmitJoinRequestResponse], error)
	ApproveJoin(context.Context, *connect.Request[api.ApproveJoinRequest]) (*connect.Response[api.ApproveJoinResponse], error)
	RejectRequest(context.Context, *connect.Request[api.RejectRequestRequest]) (*connect.Response[api.RejectRequestResponse], error)
	ListPendingRequests(context.Context, *connect.Request[api.ListPendingRequestsRequest]) (*connect.Response[api.ListPendingRequestsResponse], error)
	RecalculateBalances(context.Context, *connect.Request[api.RecalculateBalancesRequest]) (*connect.Response[api.RecalculateBalancesResponse], error)
	DeleteDebtUnit(context.Context, *connect.Request[api.DeleteDebtUnitRequest]) (*connect.Response[api.DeleteDebtUnitResponse], error)
	ScanForAging(context.Context, *connect.Request[api.ScanForAgingRequest]) (*connect.Response[api.ScanForAgingResponse], error)
}

type ledgerServiceClient struct {
	submitTransaction   *connect.Client[api.SubmitTransactionRequest, api.SubmitTransactionResponse]
	approveTransaction  *connect.Client[api.ApproveTransactionRequest, api.ApproveTransactionResponse]
	submitJoinRequest   *connect.Client[api.SubmitJoinRequestRequest, api.SubmitJoinRequestResponse]
	approveJoin         *connect.Client[api.ApproveJoinRequest, api.ApproveJoinResponse]
	rejectRequest       *connect.Client[api.RejectRequestRequest, api.RejectRequestResponse]
	listPendingRequests *connect.Client[api.ListPendingRequestsRequest, api.ListPendingRequestsResponse]
	recalculateBalances *connect.Client[api.RecalculateBalancesRequest, api.RecalculateBalancesResponse]
	deleteDebtUnit      *connect.Client[api.DeleteDebtUnitRequest, api.DeleteDebtUnitResponse]
	scanForAging        *connect.Client[api.ScanForAgingRequest, api.ScanForAgingResponse]
}

// NewLedgerServiceClient creates a client that talks JSON to the server at url.
func NewLedgerServiceClient(httpClient connect.HTTPClient, url string, opts ...connect.ClientOption) LedgerServiceClient {
	url = baseURL(url)
	opts = withCodec(opts, connect.ClientOption(connect.WithCodec(api.Codec{})))
	return &ledgerServiceClient{
		submitTransaction:   connect.NewClient[api.SubmitTransactionRequest, api.SubmitTransactionResponse](httpClient, url+LedgerServiceSubmitTransactionProcedure, opts...),
		approveTransaction:  connect.NewClient[api.ApproveTransactionRequest, api.ApproveTransactionResponse](httpClient, url+LedgerServiceApproveTransactionProcedure, opts...),
		submitJoinRequest:   connect.NewClient[api.SubmitJoinRequestRequest, api.SubmitJoinRequestResponse](httpClient, url+LedgerServiceSubmitJoinRequestProcedure, opts...),
		approveJoin:         connect.NewClient[api.ApproveJoinRequest, api.ApproveJoinResponse](httpClient, url+LedgerServiceApproveJoinProcedure, opts...),
		rejectRequest:       connect.NewClient[api.RejectRequestRequest, api.RejectRequestResponse](httpClient, url+LedgerServiceRejectRequestProcedure, opts...),
		listPendingRequests: connect.NewClient[api.ListPendingRequestsRequest, api.ListPendingRequestsResponse](httpClient, url+LedgerServiceListPendingRequestsProcedure, opts...),
		recalculateBalances: connect.NewClient[api.RecalculateBalancesRequest, api.RecalculateBalancesResponse](httpClient, url+LedgerServiceRecalculateBalancesProcedure, opts...),
		deleteDebtUnit:      connect.NewClient[api.DeleteDebtUnitRequest, api.DeleteDebtUnitResponse](httpClient, url+LedgerServiceDeleteDebtUnitProcedure, opts...),
		scanForAging:        connect.NewClient[api.ScanForAgingRequest, api.ScanForAgingResponse](httpClient, url+LedgerServiceScanForAgingProcedure, opts...),
	}
}

func (c *ledgerServiceClient) SubmitTransaction(ctx context.Context, req *connect.Request[api.SubmitTransactionRequest]) (*connect.Response[api.SubmitTransactionResponse], error) {
	return c.submitTransaction.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ApproveTransaction(ctx context.Context, req *connect.Request[api.ApproveTransactionRequest]) (*connect.Response[api.ApproveTransactionResponse], error) {
	return c.approveTransaction.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) SubmitJoinRequest(ctx context.Context, req *connect.Request[api.SubmitJoinRequestRequest]) (*connect.Response[api.SubmitJoinRequestResponse], error) {
	return c.submitJoinRequest.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ApproveJoin(ctx context.Context, req *connect.Request[api.ApproveJoinRequest]) (*connect.Response[api.ApproveJoinResponse], error) {
	return c.approveJoin.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RejectRequest(ctx context.Context, req *connect.Request[api.RejectRequestRequest]) (*connect.Response[api.RejectRequestResponse], error) {
	return c.rejectRequest.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListPendingRequests(ctx context.Context, req *connect.Request[api.ListPendingRequestsRequest]) (*connect.Response[api.ListPendingRequestsResponse], error) {
	return c.listPendingRequests.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RecalculateBalances(ctx context.Context, req *connect.Request[api.RecalculateBalancesRequest]) (*connect.Response[api.RecalculateBalancesResponse], error) {
	return c.recalculateBalances.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeleteDebtUnit(ctx context.Context, req *connect.Request[api.DeleteDebtUnitRequest]) (*connect.Response[api.DeleteDebtUnitResponse], error) {
	return c.deleteDebtUnit.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ScanForAging(ctx context.Context, req *connect.Request[api.ScanForAgingRequest]) (*connect.Response[api.ScanForAgingResponse], error) {
	return c.scanForAging.CallUnary(ctx, req)
}

// NotificationServiceHandler is implemented by the server side of the NotificationService.
type NotificationServiceHandler interface {
	ListNotifications(context.Context, *connect.Request[api.ListNotificationsRequest]) (*connect.Response[api.ListNotificationsResponse], error)
	MarkNotificationRead(context.Context, *connect.Request[api.MarkNotificationReadRequest]) (*connect.Response[api.MarkNotificationReadResponse], error)
	MarkAllNotificationsRead(context.Context, *connect.Request[api.MarkAllNotificationsReadRequest]) (*connect.Response[api.MarkAllNotificationsReadResponse], error)
	DeleteNotification(context.Context, *connect.Request[api.DeleteNotificationRequest]) (*connect.Response[api.DeleteNotificationResponse], error)
}

// NewNotificationServiceHandler builds an HTTP handler for every NotificationService procedure.
// It returns the path prefix to mount the handler on.
func NewNotificationServiceHandler(svc NotificationServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts, connect.HandlerOption(connect.WithCodec(api.Codec{})))
	return "/" + NotificationServiceName + "/", route(map[string]http.Handler{
		NotificationServiceListNotificationsProcedure:        connect.NewUnaryHandler(NotificationServiceListNotificationsProcedure, svc.ListNotifications, opts...),
		NotificationServiceMarkNotificationReadProcedure:     connect.NewUnaryHandler(NotificationServiceMarkNotificationReadProcedure, svc.MarkNotificationRead, opts...),
		NotificationServiceMarkAllNotificationsReadProcedure: connect.NewUnaryHandler(NotificationServiceMarkAllNotificationsReadProcedure, svc.MarkAllNotificationsRead, opts...),
		NotificationServiceDeleteNotificationProcedure:       connect.NewUnaryHandler(NotificationServiceDeleteNotificationProcedure, svc.DeleteNotification, opts...),
	})
}

// NotificationServiceClient is a client for the NotificationService.
type NotificationServiceClient interface {
	ListNotifications(context.Context, *connect.Request[api.ListNotificationsRequest]) (*connect.Response[api.ListNotificationsResponse], error)
	MarkNotificationRead(context.Context, *connect.Request[api.MarkNotificationReadRequest]) (*connect.Response[api.MarkNotificationReadResponse], error)
	MarkAllNotificationsRead(context.Context, *connect.Request[api.MarkAllNotificationsReadRequest]) (*connect.Response[api.MarkAllNotificationsReadResponse], error)
	DeleteNotification(context.Context, *connect.Request[api.DeleteNotificationRequest]) (*connect.Response[api.DeleteNotificationResponse], error)
}

type notificationServiceClient struct {
	listNotifications        *connect.Client[api.ListNotificationsRequest, api.ListNotificationsResponse]
	markNotificationRead     *connect.Client[api.MarkNotificationReadRequest, api.MarkNotificationReadResponse]
	markAllNotificationsRead *connect.Client[api.MarkAllNotificationsReadRequest, api.MarkAllNotificationsReadResponse]
	deleteNotification       *connect.Client[api.DeleteNotificationRequest, api.DeleteNotificationResponse]
}

// NewNotificationServiceClient creates a client that talks JSON to the server at url.
func NewNotificationServiceClient(httpClient connect.HTTPClient, url string, opts ...connect.ClientOption) NotificationServiceClient {
	url = baseURL(url)
	opts = withCodec(opts, connect.ClientOption(connect.WithCodec(api.Codec{})))
	return &notificationServiceClient{
		listNotifications:        connect.NewClient[api.ListNotificationsRequest, api.ListNotificationsResponse](httpClient, url+NotificationServiceListNotificationsProcedure, opts...),
		markNotificationRead:     connect.NewClient[api.MarkNotificationReadRequest, api.MarkNotificationReadResponse](httpClient, url+NotificationServiceMarkNotificationReadProcedure, opts...),
		markAllNotificationsRead: connect.NewClient[api.MarkAllNotificationsReadRequest, api.MarkAllNotificationsReadResponse](httpClient, url+NotificationServiceMarkAllNotificationsReadProcedure, opts...),
		deleteNotification:       connect.NewClient[api.DeleteNotificationRequest, api.DeleteNotificationResponse](httpClient, url+NotificationServiceDeleteNotificationProcedure, opts...),
	}
}

func (c *notificationServiceClient) ListNotifications(ctx context.Context, req *connect.Request[api.ListNotificationsRequest]) (*connect.Response[api.ListNotificationsResponse], error) {
	return c.listNotifications.CallUnary(ctx, req)
}

func (c *notificationServiceClient) MarkNotificationRead(ctx context.Context, req *connect.Request[api.MarkNotificationReadRequest]) (*connect.Response[api.MarkNotificationReadResponse], error) {
	return c.markNotificationRead.CallUnary(ctx, req)
}

func (c *notificationServiceClient) MarkAllNotificationsRead(ctx context.Context, req *connect.Request[api.MarkAllNotificationsReadRequest]) (*connect.Response[api.MarkAllNotificationsReadResponse], error) {
	return c.markAllNotificationsRead.CallUnary(ctx, req)
}

func (c *notificationServiceClient) DeleteNotification(ctx context.Context, req *connect.Request[api.DeleteNotificationRequest]) (*connect.Response[api.DeleteNotificationResponse], error) {
	return c.deleteNotification.CallUnary(ctx, req)
}
