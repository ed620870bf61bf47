package service

import (
	"github.com/mmynk/beercounter/internal/ledger"
	"github.com/mmynk/beercounter/internal/models"
	"github.com/mmynk/beercounter/pkg/api"
)

func toAPIGroup(g *models.Group) *api.Group {
	if g == nil {
		return nil
	}
	out := &api.Group{
		ID:        g.ID,
		Name:      g.Name,
		Rules:     g.Rules,
		PhotoRef:  g.PhotoRef,
		CreatedBy: g.CreatedBy,
		CreatedAt: g.CreatedAt,
		Version:   g.Version,
		Members:   make([]api.Member, len(g.Members)),
		Debts:     make([]api.DebtEdge, len(g.Debts)),
	}
	for i, m := range g.Members {
		out.Members[i] = api.Member{
			UID:        m.UID,
			Name:       m.Name,
			Role:       string(m.Role),
			SaldoBirre: m.SaldoBirre,
			PhotoURL:   m.PhotoURL,
		}
	}
	for i, d := range g.Debts {
		out.Debts[i] = api.DebtEdge{
			DebtorUID:    d.DebtorUID,
			CreditorUID:  d.CreditorUID,
			Count:        d.Count,
			CreatedAt:    d.CreatedAt,
			LastShamedAt: d.LastShamedAt,
		}
	}
	return out
}

func toAPIConsolidated(debts []ledger.ConsolidatedDebt) []api.ConsolidatedDebt {
	out := make([]api.ConsolidatedDebt, len(debts))
	for i, c := range debts {
		details := make([]api.DebtDetail, len(c.Details))
		for j, d := range c.Details {
			details[j] = api.DebtDetail{CreditorUID: d.CreditorUID, CreditorName: d.CreditorName, Count: d.Count}
		}
		out[i] = api.ConsolidatedDebt{
			DebtorUID:  c.DebtorUID,
			DebtorName: c.DebtorName,
			Total:      c.Total,
			Details:    details,
		}
	}
	return out
}

func toAPIRequest(r *models.PendingRequest) *api.PendingRequest {
	if r == nil {
		return nil
	}
	out := &api.PendingRequest{
		ID:        r.ID,
		GroupID:   r.GroupID,
		Kind:      string(r.Kind),
		Status:    string(r.Status),
		Timestamp: r.Timestamp,
	}
	if r.Join != nil {
		out.Join = &api.JoinRequest{
			RequesterUID:      r.Join.RequesterUID,
			RequesterName:     r.Join.RequesterName,
			RequesterPhotoURL: r.Join.RequesterPhotoURL,
		}
	}
	if tx := r.Transaction; tx != nil {
		out.Transaction = &api.TransactionRequest{
			ActingUID:       tx.ActingUID,
			ActingName:      tx.ActingName,
			TransType:       string(tx.TransType),
			Recipients:      tx.Recipients,
			RecipientsNames: tx.RecipientsNames,
			Count:           tx.Count,
			Message:         tx.Message,
			SubmittedBy:     tx.SubmittedBy,
		}
	}
	return out
}

func toAPIHistory(entries []models.HistoryEntry) []api.HistoryEntry {
	out := make([]api.HistoryEntry, len(entries))
	for i, h := range entries {
		out[i] = api.HistoryEntry{ID: h.ID, Message: h.Message, Timestamp: h.Timestamp}
	}
	return out
}

func toAPIMemberships(ms []models.Membership) []api.Membership {
	out := make([]api.Membership, len(ms))
	for i, m := range ms {
		out[i] = api.Membership{GroupID: m.GroupID, GroupName: m.GroupName, Status: string(m.Status)}
	}
	return out
}

func toAPINotifications(ns []models.Notification) []api.Notification {
	out := make([]api.Notification, len(ns))
	for i, n := range ns {
		out[i] = api.Notification{
			ID:        n.ID,
			GroupID:   n.GroupID,
			Message:   n.Message,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		}
	}
	return out
}

func toAPIShameEvents(events []ledger.ShameEvent) []api.ShameEvent {
	out := make([]api.ShameEvent, len(events))
	for i, ev := range events {
		out[i] = api.ShameEvent{
			DebtorUID:    ev.DebtorUID,
			DebtorName:   ledger.FormatName(ev.DebtorName),
			CreditorUID:  ev.CreditorUID,
			CreditorName: ledger.FormatName(ev.CreditorName),
			Count:        ev.Count,
		}
	}
	return out
}
