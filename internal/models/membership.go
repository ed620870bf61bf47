package models

import "time"

// MembershipStatus mirrors a user's standing in one group.
type MembershipStatus string

const (
	MembershipAdmin   MembershipStatus = "admin"
	MembershipMember  MembershipStatus = "member"
	MembershipPending MembershipStatus = "pending"
)

// Membership is the per-user index entry for a group, used to list "my groups"
// without scanning every aggregate. It is written in the same transaction as
// the group change that causes it.
type Membership struct {
	UID       string
	GroupID   string
	GroupName string
	Status    MembershipStatus
}

// HistoryEntry is an append-only log line for an applied ledger mutation.
type HistoryEntry struct {
	ID        string
	GroupID   string
	Message   string
	Timestamp time.Time
}

// Notification is a message in a member's inbox.
type Notification struct {
	ID        string
	UID       string
	GroupID   string
	Message   string
	Read      bool
	CreatedAt time.Time
}
