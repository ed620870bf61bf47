package models

import "time"

// DebtEdge records that Debtor owes Creditor Count beers.
//
// Edges are directional: A→B and B→A may coexist and are never netted,
// because separate rounds are tracked separately.
type DebtEdge struct {
	// DebtorUID is the member who owes.
	DebtorUID string

	// CreditorUID is the member who is owed. Never equal to DebtorUID.
	CreditorUID string

	// Count is always at least 1; an edge that reaches 0 is deleted.
	Count int

	// CreatedAt is when the edge first appeared. It does not move when Count grows.
	CreatedAt time.Time

	// LastShamedAt is when the aging monitor last fired for this edge, nil if never.
	LastShamedAt *time.Time
}

// Clone returns a copy that does not share LastShamedAt.
func (d DebtEdge) Clone() DebtEdge {
	if d.LastShamedAt != nil {
		t := *d.LastShamedAt
		d.LastShamedAt = &t
	}
	return d
}
