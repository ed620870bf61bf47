package models

import "time"

// Role is a member's privilege level inside a group.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Member is a participant of a group.
type Member struct {
	// UID is the identity provider's user id.
	UID string

	// Name is the display name captured when the member joined.
	Name string

	// Role decides whether the member's actions apply immediately or are queued.
	Role Role

	// SaldoBirre is the cached net balance in beers.
	// Positive = owes, negative = is owed. Rebuildable from the debt edges.
	SaldoBirre int

	// PhotoURL is the member's avatar, passed through from the identity provider.
	PhotoURL string
}

// IsAdmin reports whether the member holds the admin role.
func (m Member) IsAdmin() bool {
	return m.Role == RoleAdmin
}

// Group is the ledger aggregate: members and debts are always read and written together.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Calcetto del giovedì").
	Name string

	// Members is the ordered member list. The creator is seeded as the first admin.
	Members []Member

	// Debts holds at most one edge per ordered (debtor, creditor) pair.
	Debts []DebtEdge

	// Rules is free text shown to members.
	Rules string

	// PhotoRef is an opaque reference to the group picture in object storage.
	PhotoRef string

	// CreatedBy is the uid of the member who created the group.
	CreatedBy string

	// CreatedAt is when the group was created.
	CreatedAt time.Time

	// Version increases by one on every committed write and guards compare-and-swap updates.
	Version int64
}

// Member returns a pointer to the member with the given uid so callers can mutate it in place.
func (g *Group) Member(uid string) (*Member, bool) {
	for i := range g.Members {
		if g.Members[i].UID == uid {
			return &g.Members[i], true
		}
	}
	return nil, false
}

// IsAdmin reports whether uid is an admin member of the group.
func (g *Group) IsAdmin(uid string) bool {
	m, ok := g.Member(uid)
	return ok && m.IsAdmin()
}

// Admins returns the uids of all admin members.
func (g *Group) Admins() []string {
	var uids []string
	for _, m := range g.Members {
		if m.IsAdmin() {
			uids = append(uids, m.UID)
		}
	}
	return uids
}

// MemberUIDs returns the uids of all members in order.
func (g *Group) MemberUIDs() []string {
	uids := make([]string, len(g.Members))
	for i, m := range g.Members {
		uids[i] = m.UID
	}
	return uids
}

// NameOf returns the member's display name, falling back to the uid for former members.
func (g *Group) NameOf(uid string) string {
	if m, ok := g.Member(uid); ok && m.Name != "" {
		return m.Name
	}
	return uid
}

// EdgeIndex returns the index of the (debtor, creditor) edge, or -1.
func (g *Group) EdgeIndex(debtorUID, creditorUID string) int {
	for i := range g.Debts {
		if g.Debts[i].DebtorUID == debtorUID && g.Debts[i].CreditorUID == creditorUID {
			return i
		}
	}
	return -1
}

// RemoveMember drops the member from the list. Debt edges are left untouched.
func (g *Group) RemoveMember(uid string) bool {
	for i := range g.Members {
		if g.Members[i].UID == uid {
			g.Members = append(g.Members[:i], g.Members[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy so a mutation can be discarded when a write loses a race.
func (g *Group) Clone() *Group {
	c := *g
	c.Members = append([]Member(nil), g.Members...)
	c.Debts = make([]DebtEdge, len(g.Debts))
	for i, d := range g.Debts {
		c.Debts[i] = d.Clone()
	}
	return &c
}
