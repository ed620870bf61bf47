package ledger

import (
	"fmt"
	"sort"

	"github.com/mmynk/beercounter/internal/models"
)

// Recalculate rebuilds every member's SaldoBirre from the debt edges.
//
// Algorithm:
// - For each edge: debtor += count, creditor -= count
// - Members with no edges end at zero
// - Edges pointing at former members are counted for the member that remains
//
// It returns a new slice; the input is left untouched.
func Recalculate(members []models.Member, debts []models.DebtEdge) []models.Member {
	net := make(map[string]int, len(members))
	for _, d := range debts {
		net[d.DebtorUID] += d.Count
		net[d.CreditorUID] -= d.Count
	}

	out := make([]models.Member, len(members))
	for i, m := range members {
		m.SaldoBirre = net[m.UID]
		out[i] = m
	}
	return out
}

// Drift lists the members whose cached balance differs from Recalculate, keyed by uid,
// with the authoritative value.
func Drift(members []models.Member, debts []models.DebtEdge) map[string]int {
	fixed := Recalculate(members, debts)
	drift := make(map[string]int)
	for i, m := range members {
		if m.SaldoBirre != fixed[i].SaldoBirre {
			drift[m.UID] = fixed[i].SaldoBirre
		}
	}
	return drift
}

// DeleteOneUnit removes one beer from the (debtor, creditor) edge, deleting it at zero.
//
// Only the debtor's SaldoBirre is decremented; the creditor's cached balance is left
// as is. RecalculateBalances repairs the resulting drift.
func DeleteOneUnit(g *models.Group, debtorUID, creditorUID string) error {
	idx := g.EdgeIndex(debtorUID, creditorUID)
	if idx < 0 {
		return fmt.Errorf("%w: no debt from %s to %s", models.ErrNotFound, debtorUID, creditorUID)
	}
	decrementEdge(g, idx)
	if m, ok := g.Member(debtorUID); ok {
		m.SaldoBirre--
	}
	return nil
}

// DebtDetail is one creditor line of a consolidated debtor.
type DebtDetail struct {
	CreditorUID  string
	CreditorName string
	Count        int
}

// ConsolidatedDebt groups all edges of one debtor.
type ConsolidatedDebt struct {
	DebtorUID  string
	DebtorName string
	Total      int
	Details    []DebtDetail
}

// Consolidate groups edges by debtor, largest total first (ties by name).
// Details keep edge order. Names are formatted for display.
func Consolidate(g *models.Group) []ConsolidatedDebt {
	byDebtor := make(map[string]*ConsolidatedDebt)
	var order []string

	for _, d := range g.Debts {
		c, ok := byDebtor[d.DebtorUID]
		if !ok {
			c = &ConsolidatedDebt{
				DebtorUID:  d.DebtorUID,
				DebtorName: FormatName(g.NameOf(d.DebtorUID)),
			}
			byDebtor[d.DebtorUID] = c
			order = append(order, d.DebtorUID)
		}
		c.Total += d.Count
		c.Details = append(c.Details, DebtDetail{
			CreditorUID:  d.CreditorUID,
			CreditorName: FormatName(g.NameOf(d.CreditorUID)),
			Count:        d.Count,
		})
	}

	out := make([]ConsolidatedDebt, 0, len(order))
	for _, uid := range order {
		out = append(out, *byDebtor[uid])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].DebtorName < out[j].DebtorName
	})
	return out
}
