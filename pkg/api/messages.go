package api

import "time"

type Member struct {
	UID        string `json:"uid"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	SaldoBirre int    `json:"saldoBirre"`
	PhotoURL   string `json:"photoUrl,omitempty"`
}

type DebtEdge struct {
	DebtorUID    string     `json:"debtorUid"`
	CreditorUID  string     `json:"creditorUid"`
	Count        int        `json:"count"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastShamedAt *time.Time `json:"lastShamedAt,omitempty"`
}

type Group struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Rules     string     `json:"rules,omitempty"`
	PhotoRef  string     `json:"photoRef,omitempty"`
	CreatedBy string     `json:"createdBy"`
	CreatedAt time.Time  `json:"createdAt"`
	Version   int64      `json:"version"`
	Members   []Member   `json:"members"`
	Debts     []DebtEdge `json:"debts"`
}

type DebtDetail struct {
	CreditorUID  string `json:"creditorUid"`
	CreditorName string `json:"creditorName"`
	Count        int    `json:"count"`
}

// ConsolidatedDebt is every edge of one debtor, as shown on the group page.
type ConsolidatedDebt struct {
	DebtorUID  string       `json:"debtorUid"`
	DebtorName string       `json:"debtorName"`
	Total      int          `json:"total"`
	Details    []DebtDetail `json:"details"`
}

type JoinRequest struct {
	RequesterUID      string `json:"requesterUid"`
	RequesterName     string `json:"requesterName"`
	RequesterPhotoURL string `json:"requesterPhotoUrl,omitempty"`
}

type TransactionRequest struct {
	ActingUID       string   `json:"actingUid"`
	ActingName      string   `json:"actingName"`
	TransType       string   `json:"transType"`
	Recipients      []string `json:"recipients"`
	RecipientsNames []string `json:"recipientsNames"`
	Count           int      `json:"count"`
	Message         string   `json:"message"`
	SubmittedBy     string   `json:"submittedBy,omitempty"`
}

// PendingRequest is a join or transaction request; exactly one payload is set.
type PendingRequest struct {
	ID          string              `json:"id"`
	GroupID     string              `json:"groupId"`
	Kind        string              `json:"kind"`
	Status      string              `json:"status"`
	Timestamp   time.Time           `json:"timestamp"`
	Join        *JoinRequest        `json:"join,omitempty"`
	Transaction *TransactionRequest `json:"transaction,omitempty"`
}

type HistoryEntry struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type Membership struct {
	GroupID   string `json:"groupId"`
	GroupName string `json:"groupName"`
	Status    string `json:"status"`
}

type Notification struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"groupId,omitempty"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

type ShameEvent struct {
	DebtorUID    string `json:"debtorUid"`
	DebtorName   string `json:"debtorName"`
	CreditorUID  string `json:"creditorUid"`
	CreditorName string `json:"creditorName"`
	Count        int    `json:"count"`
}

// Group service

type CreateGroupRequest struct {
	Name     string `json:"name"`
	Rules    string `json:"rules,omitempty"`
	PhotoRef string `json:"photoRef,omitempty"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupResponse struct {
	Group        *Group             `json:"group"`
	Consolidated []ConsolidatedDebt `json:"consolidated"`
}

// UpdateGroupRequest leaves nil fields unchanged.
type UpdateGroupRequest struct {
	GroupID  string  `json:"groupId"`
	Name     *string `json:"name,omitempty"`
	Rules    *string `json:"rules,omitempty"`
	PhotoRef *string `json:"photoRef,omitempty"`
}

type UpdateGroupResponse struct {
	Group *Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"groupId"`
}

type DeleteGroupResponse struct {
	Success bool `json:"success"`
}

type ListMyGroupsRequest struct{}

type ListMyGroupsResponse struct {
	Groups []Membership `json:"groups"`
}

type AddMemberRequest struct {
	GroupID  string `json:"groupId"`
	UID      string `json:"uid"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

type AddMemberResponse struct {
	Group *Group `json:"group"`
}

type RemoveMemberRequest struct {
	GroupID string `json:"groupId"`
	UID     string `json:"uid"`
}

type RemoveMemberResponse struct {
	Group *Group `json:"group"`
}

type ListHistoryRequest struct {
	GroupID string `json:"groupId"`
	Limit   int    `json:"limit,omitempty"`
}

type ListHistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
}

// Ledger service

type SubmitTransactionRequest struct {
	GroupID    string   `json:"groupId"`
	ActingUID  string   `json:"actingUid"`
	Recipients []string `json:"recipients"`
	TransType  string   `json:"transType"`
}

// SubmitTransactionResponse carries the updated group when applied, or the
// queued request when an admin must approve it first.
type SubmitTransactionResponse struct {
	Applied bool            `json:"applied"`
	Message string          `json:"message"`
	Group   *Group          `json:"group,omitempty"`
	Request *PendingRequest `json:"request,omitempty"`
}

type ApproveTransactionRequest struct {
	GroupID   string `json:"groupId"`
	RequestID string `json:"requestId"`
}

type ApproveTransactionResponse struct {
	Message string `json:"message"`
	Group   *Group `json:"group"`
}

type SubmitJoinRequestRequest struct {
	GroupID string `json:"groupId"`
}

type SubmitJoinRequestResponse struct {
	Request *PendingRequest `json:"request"`
}

type ApproveJoinRequest struct {
	GroupID   string `json:"groupId"`
	RequestID string `json:"requestId"`
}

type ApproveJoinResponse struct {
	Group *Group `json:"group"`
}

type RejectRequestRequest struct {
	GroupID   string `json:"groupId"`
	RequestID string `json:"requestId"`
}

type RejectRequestResponse struct {
	Request *PendingRequest `json:"request"`
}

type ListPendingRequestsRequest struct {
	GroupID string `json:"groupId"`
}

type ListPendingRequestsResponse struct {
	Requests []PendingRequest `json:"requests"`
}

type RecalculateBalancesRequest struct {
	GroupID string `json:"groupId"`
}

type RecalculateBalancesResponse struct {
	Group *Group `json:"group"`
	// Corrected maps uid to the rebuilt balance for every member that drifted.
	Corrected map[string]int `json:"corrected"`
}

type DeleteDebtUnitRequest struct {
	GroupID     string `json:"groupId"`
	DebtorUID   string `json:"debtorUid"`
	CreditorUID string `json:"creditorUid"`
}

type DeleteDebtUnitResponse struct {
	Group *Group `json:"group"`
}

type ScanForAgingRequest struct {
	GroupID string `json:"groupId"`
}

type ScanForAgingResponse struct {
	Events []ShameEvent `json:"events"`
}

// Notification service

type ListNotificationsRequest struct {
	Limit int `json:"limit,omitempty"`
}

type ListNotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
}

type MarkNotificationReadRequest struct {
	NotificationID string `json:"notificationId"`
}

type MarkNotificationReadResponse struct{}

type MarkAllNotificationsReadRequest struct{}

type MarkAllNotificationsReadResponse struct {
	Updated int `json:"updated"`
}

type DeleteNotificationRequest struct {
	NotificationID string `json:"notificationId"`
}

type DeleteNotificationResponse struct{}
