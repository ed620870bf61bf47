// Package ledger holds the pure beer-ledger algorithms: applying transactions,
// reconciling balances, deleting debt units, consolidating edges and aging scans.
//
// Every function mutates the *models.Group it is given and performs no I/O,
// so callers run them inside a storage compare-and-swap update.
package ledger

import (
	"fmt"
	"time"

	"github.com/mmynk/beercounter/internal/models"
)

// TransactionResult describes an applied transaction.
type TransactionResult struct {
	// Recipients are the de-duplicated recipient uids in submission order.
	Recipients []string

	// RecipientNames are the display names of Recipients, same order.
	RecipientNames []string

	// Message is the history line for the transaction.
	Message string

	// Units is how many edges actually changed. A paid against a missing edge does not count.
	Units int
}

// ResolveRecipients validates a recipient list against the group and the actor.
//
// Duplicates are collapsed. The list must be non-empty, must not contain the actor,
// and every uid (actor included) must be a current member.
func ResolveRecipients(g *models.Group, actingUID string, recipients []string) ([]string, []string, error) {
	seen := make(map[string]bool, len(recipients))
	var uids []string
	for _, uid := range recipients {
		if uid == "" || seen[uid] {
			continue
		}
		seen[uid] = true
		uids = append(uids, uid)
	}

	if len(uids) == 0 {
		return nil, nil, fmt.Errorf("%w: at least one recipient is required", models.ErrInvalidOperation)
	}
	if seen[actingUID] {
		return nil, nil, fmt.Errorf("%w: a member cannot owe or pay themself", models.ErrInvalidOperation)
	}
	if _, ok := g.Member(actingUID); !ok {
		return nil, nil, fmt.Errorf("%w: member %s", models.ErrNotFound, actingUID)
	}

	names := make([]string, len(uids))
	for i, uid := range uids {
		m, ok := g.Member(uid)
		if !ok {
			return nil, nil, fmt.Errorf("%w: member %s", models.ErrNotFound, uid)
		}
		names[i] = m.Name
	}
	return uids, names, nil
}

// ApplyTransaction applies one owes/paid operation from actingUID to every recipient.
//
// owes: each (actor, recipient) edge grows by one, or is created with Count 1 at now.
// paid: each existing edge shrinks by one and is deleted at zero; a missing edge is skipped.
//
// Balances move per changed edge on both ends (actor ±1, recipient ∓1), which keeps
// SaldoBirre equal to Recalculate after every call.
func ApplyTransaction(g *models.Group, actingUID string, recipients []string, t models.TransType, now time.Time) (*TransactionResult, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", models.ErrInvalidOperation, t)
	}

	uids, names, err := ResolveRecipients(g, actingUID, recipients)
	if err != nil {
		return nil, err
	}
	actor, _ := g.Member(actingUID)

	res := &TransactionResult{
		Recipients:     uids,
		RecipientNames: names,
		Message:        TransactionMessage(actor.Name, t, names),
	}

	for _, uid := range uids {
		idx := g.EdgeIndex(actingUID, uid)

		switch t {
		case models.TransOwes:
			if idx >= 0 {
				g.Debts[idx].Count++
			} else {
				g.Debts = append(g.Debts, models.DebtEdge{
					DebtorUID:   actingUID,
					CreditorUID: uid,
					Count:       1,
					CreatedAt:   now,
				})
			}
			adjust(g, actingUID, uid, 1)

		case models.TransPaid:
			if idx < 0 {
				continue
			}
			decrementEdge(g, idx)
			adjust(g, actingUID, uid, -1)
		}
		res.Units++
	}

	return res, nil
}

// adjust moves delta beers of balance from creditor to debtor.
func adjust(g *models.Group, debtorUID, creditorUID string, delta int) {
	if m, ok := g.Member(debtorUID); ok {
		m.SaldoBirre += delta
	}
	if m, ok := g.Member(creditorUID); ok {
		m.SaldoBirre -= delta
	}
}

// decrementEdge lowers an edge by one and removes it at zero.
func decrementEdge(g *models.Group, idx int) {
	g.Debts[idx].Count--
	if g.Debts[idx].Count <= 0 {
		g.Debts = append(g.Debts[:idx], g.Debts[idx+1:]...)
	}
}
