package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmynk/beercounter/internal/auth"
	"github.com/mmynk/beercounter/internal/ledger"
	"github.com/mmynk/beercounter/internal/models"
	"github.com/mmynk/beercounter/internal/storage"
)

// RecalculateBalances rebuilds every cached balance from the debt edges and returns
// the uids whose balance was corrected. When nothing drifted the group is not written.
func (s *Service) RecalculateBalances(ctx context.Context, caller auth.Identity, groupID string) (*models.Group, map[string]int, error) {
	var drift map[string]int
	g, err := s.update(ctx, groupID, func(g *models.Group) (*storage.Effects, error) {
		if err := requireAdmin(g, caller.UID); err != nil {
			return nil, err
		}
		drift = ledger.Drift(g.Members, g.Debts)
		if len(drift) == 0 {
			return nil, storage.ErrNoChange
		}
		g.Members = ledger.Recalculate(g.Members, g.Debts)
		return &storage.Effects{}, nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.InfoContext(ctx, "balances recalculated",
		"group_id", groupID,
		"corrected", len(drift),
		"version", g.Version,
	)
	return g, drift, nil
}

// DeleteDebtUnit removes one beer from the debtor->creditor edge. Only the debtor's
// balance is lowered; RecalculateBalances fixes the creditor's side.
func (s *Service) DeleteDebtUnit(ctx context.Context, caller auth.Identity, groupID, debtorUID, creditorUID string) (*models.Group, error) {
	g, err := s.update(ctx, groupID, func(g *models.Group) (*storage.Effects, error) {
		if err := requireAdmin(g, caller.UID); err != nil {
			return nil, err
		}
		if err := ledger.DeleteOneUnit(g, debtorUID, creditorUID); err != nil {
			return nil, err
		}
		msg := fmt.Sprintf("🧹 %s ha cancellato una birra di %s verso %s.",
			ledger.FormatName(g.NameOf(caller.UID)),
			ledger.FormatName(g.NameOf(debtorUID)),
			ledger.FormatName(g.NameOf(creditorUID)))
		return &storage.Effects{History: []models.HistoryEntry{s.history(msg)}}, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "debt unit deleted",
		"group_id", groupID,
		"debtor", debtorUID,
		"creditor", creditorUID,
		"deleted_by", caller.UID,
	)
	return g, nil
}

// AddMember adds a user directly, bypassing the join queue. A pending join request
// from the same user becomes obsolete and is discarded.
func (s *Service) AddMember(ctx context.Context, caller auth.Identity, groupID string, member auth.Identity) (*models.Group, error) {
	if !member.Valid() {
		return nil, fmt.Errorf("%w: member uid is required", models.ErrInvalidOperation)
	}
	g, err := s.update(ctx, groupID, func(g *models.Group) (*storage.Effects, error) {
		if err := requireAdmin(g, caller.UID); err != nil {
			return nil, err
		}
		if _, ok := g.Member(member.UID); ok {
			return nil, fmt.Errorf("%w: %s is already a member", models.ErrInvalidOperation, member.UID)
		}
		g.Members = append(g.Members, models.Member{
			UID:      member.UID,
			Name:     member.DisplayName(),
			Role:     models.RoleMember,
			PhotoURL: member.PhotoURL,
		})
		return &storage.Effects{
			History: []models.HistoryEntry{s.history(ledger.JoinMessage(member.DisplayName()))},
			PutMemberships: []models.Membership{{
				UID: member.UID, GroupID: groupID, GroupName: g.Name, Status: models.MembershipMember,
			}},
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.discardJoinIfPending(ctx, groupID, member.UID)
	s.logger.InfoContext(ctx, "member added", "group_id", groupID, "member", member.UID, "added_by", caller.UID)
	return g, nil
}

// RemoveMember drops a member from the group. Their debt edges stay in place so the
// history of who owes whom is not rewritten.
func (s *Service) RemoveMember(ctx context.Context, caller auth.Identity, groupID, uid string) (*models.Group, error) {
	if caller.UID == uid {
		return nil, fmt.Errorf("%w: admins cannot remove themselves", models.ErrInvalidOperation)
	}
	g, err := s.update(ctx, groupID, func(g *models.Group) (*storage.Effects, error) {
		if err := requireAdmin(g, caller.UID); err != nil {
			return nil, err
		}
		name := g.NameOf(uid)
		if !g.RemoveMember(uid) {
			return nil, fmt.Errorf("%w: %s is not a member of %s", models.ErrNotFound, uid, groupID)
		}
		msg := fmt.Sprintf("🚪 %s non fa più parte del gruppo.", ledger.FormatName(name))
		return &storage.Effects{
			History:           []models.HistoryEntry{s.history(msg)},
			DeleteMemberships: []models.Membership{{UID: uid, GroupID: groupID}},
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "member removed", "group_id", groupID, "member", uid, "removed_by", caller.UID)
	return g, nil
}

// UpdateGroup edits name, rules and photo. A rename is propagated to every member's
// membership record and to pending joins.
func (s *Service) UpdateGroup(ctx context.Context, caller auth.Identity, groupID string, patch GroupPatch) (*models.Group, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, fmt.Errorf("%w: group name is required", models.ErrInvalidOperation)
	}

	var pendingJoins []string
	if patch.Name != nil {
		reqs, err := s.ListPendingRequests(ctx, caller, groupID)
		if err != nil {
			return nil, err
		}
		for _, r := range reqs {
			if r.Kind == models.KindJoin {
				pendingJoins = append(pendingJoins, r.Join.RequesterUID)
			}
		}
	}

	g, err := s.update(ctx, groupID, func(g *models.Group) (*storage.Effects, error) {
		if err := requireAdmin(g, caller.UID); err != nil {
			return nil, err
		}
		renamed := false
		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			renamed = name != g.Name
			g.Name = name
		}
		if patch.Rules != nil {
			g.Rules = *patch.Rules
		}
		if patch.PhotoRef != nil {
			g.PhotoRef = *patch.PhotoRef
		}

		effects := &storage.Effects{}
		if renamed {
			for _, m := range g.Members {
				effects.PutMemberships = append(effects.PutMemberships, models.Membership{
					UID: m.UID, GroupID: groupID, GroupName: g.Name, Status: membershipStatus(m),
				})
			}
			for _, uid := range pendingJoins {
				effects.PutMemberships = append(effects.PutMemberships, models.Membership{
					UID: uid, GroupID: groupID, GroupName: g.Name, Status: models.MembershipPending,
				})
			}
		}
		return effects, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "group updated", "group_id", groupID, "updated_by", caller.UID, "version", g.Version)
	return g, nil
}

// DeleteGroup removes the group with its debts, requests, history and memberships.
func (s *Service) DeleteGroup(ctx context.Context, caller auth.Identity, groupID string) error {
	if _, err := s.loadAsAdmin(ctx, caller, groupID); err != nil {
		return err
	}
	if err := s.store.DeleteGroup(ctx, groupID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "group deleted", "group_id", groupID, "deleted_by", caller.UID)
	return nil
}
