// Package models defines the core domain models for Beercounter.
//
// # Ledger Models
//
// The group aggregate is the unit of atomicity:
//   - Group: members, debt edges, rules text and photo reference, plus a Version
//     used for optimistic compare-and-swap writes
//   - Member: a participant with a role and a cached beer balance (SaldoBirre)
//   - DebtEdge: "debtor owes creditor Count beers", directional and never netted
//
// # Workflow Models
//
//   - PendingRequest: a queued Join or Transaction awaiting admin approval
//   - HistoryEntry: append-only log line for applied ledger mutations
//   - Membership: per-user index of the groups a user belongs to or asked to join
//   - Notification: a message delivered to a member's inbox
//
// # Design Principles
//
// 1. **Members and debts move together**: every mutation rewrites both under one version
// 2. **Balances are derived**: SaldoBirre can always be rebuilt from the debt edges
// 3. **Avoid circular references**: relationships use uid strings, not pointers
package models
