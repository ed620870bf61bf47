package models

import (
	"fmt"
	"time"
)

// TransType is the direction of a beer transaction.
type TransType string

const (
	// TransOwes adds one beer of debt from the actor to each recipient.
	TransOwes TransType = "owes"
	// TransPaid settles one beer of the actor's debt to each recipient.
	TransPaid TransType = "paid"
)

// Valid reports whether t is a known transaction type.
func (t TransType) Valid() bool {
	return t == TransOwes || t == TransPaid
}

// RequestKind discriminates the PendingRequest payload.
type RequestKind string

const (
	KindJoin        RequestKind = "join"
	KindTransaction RequestKind = "transaction"
)

// RequestStatus is the approval state. Stored requests are always pending;
// approved and rejected are terminal and reported back to callers only.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// JoinRequest carries the identity of a user asking to join a group.
type JoinRequest struct {
	RequesterUID      string
	RequesterName     string
	RequesterPhotoURL string
}

// TransactionRequest carries a queued transaction with enough denormalized data
// to render and approve it without re-reading the group.
type TransactionRequest struct {
	// ActingUID is the member the transaction is applied to.
	ActingUID  string
	ActingName string

	// TransType is owes or paid.
	TransType TransType

	// Recipients are the counterparties, one beer each.
	Recipients      []string
	RecipientsNames []string

	// Count is the number of beers, equal to len(Recipients).
	Count int

	// Message is the history line that will be appended on approval.
	Message string

	// SubmittedBy is the uid of the caller that queued the request.
	SubmittedBy string
}

// PendingRequest is a queued change awaiting admin approval.
// Exactly one of Join or Transaction is set, matching Kind.
type PendingRequest struct {
	// ID is the request key. Join requests use the requester uid so a user
	// can hold at most one pending join per group.
	ID string

	// GroupID is the group the request targets.
	GroupID string

	Kind      RequestKind
	Status    RequestStatus
	Timestamp time.Time

	Join        *JoinRequest
	Transaction *TransactionRequest
}

// RequesterUID returns the uid that should hear about the request's outcome.
func (r *PendingRequest) RequesterUID() string {
	switch r.Kind {
	case KindJoin:
		return r.Join.RequesterUID
	case KindTransaction:
		if r.Transaction.SubmittedBy != "" {
			return r.Transaction.SubmittedBy
		}
		return r.Transaction.ActingUID
	}
	return ""
}

// Validate checks that the payload matches the kind.
func (r *PendingRequest) Validate() error {
	switch r.Kind {
	case KindJoin:
		if r.Join == nil || r.Transaction != nil {
			return fmt.Errorf("%w: join request must carry only a join payload", ErrInvalidOperation)
		}
		if r.Join.RequesterUID == "" {
			return fmt.Errorf("%w: join request without requester", ErrInvalidOperation)
		}
	case KindTransaction:
		if r.Transaction == nil || r.Join != nil {
			return fmt.Errorf("%w: transaction request must carry only a transaction payload", ErrInvalidOperation)
		}
		if !r.Transaction.TransType.Valid() {
			return fmt.Errorf("%w: unknown transaction type %q", ErrInvalidOperation, r.Transaction.TransType)
		}
		if len(r.Transaction.Recipients) == 0 {
			return fmt.Errorf("%w: transaction request without recipients", ErrInvalidOperation)
		}
	default:
		return fmt.Errorf("%w: unknown request kind %q", ErrInvalidOperation, r.Kind)
	}
	return nil
}
