// Package workflow is the ledger's approval state machine. It decides whether a
// member action applies immediately (admin) or is queued as a pending request,
// runs every group mutation through a versioned update with bounded retries, and
// emits notifications after commit.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmynk/beercounter/internal/auth"
	"github.com/mmynk/beercounter/internal/ledger"
	"github.com/mmynk/beercounter/internal/metrics"
	"github.com/mmynk/beercounter/internal/models"
	"github.com/mmynk/beercounter/internal/notify"
	"github.com/mmynk/beercounter/internal/storage"
)

// DefaultHistoryLimit is how many history lines ListHistory returns by default.
const DefaultHistoryLimit = 10

// Service orchestrates ledger operations over a Store.
type Service struct {
	store        storage.Store
	notifier     notify.Notifier
	metrics      *metrics.Recorder
	retrier      storage.Retrier
	aging        ledger.AgingPolicy
	historyLimit int
	now          func() time.Time
	logger       *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier sets the notification sink. Defaults to notify.Nop.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMaxAttempts bounds conflict retries per mutation.
func WithMaxAttempts(n int) Option {
	return func(s *Service) { s.retrier.MaxAttempts = n }
}

// WithAgingPolicy overrides the 30/7 day shame policy.
func WithAgingPolicy(p ledger.AgingPolicy) Option {
	return func(s *Service) { s.aging = p }
}

// WithHistoryLimit sets the default history page size.
func WithHistoryLimit(n int) Option {
	return func(s *Service) { s.historyLimit = n }
}

// New creates a Service.
func New(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store:        store,
		notifier:     notify.Nop,
		aging:        ledger.DefaultAgingPolicy(),
		historyLimit: DefaultHistoryLimit,
		now:          time.Now,
		logger:       slog.Default(),
		retrier: storage.Retrier{
			MaxAttempts: storage.DefaultMaxAttempts,
			Backoff:     time.Millisecond,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.retrier.OnConflict = func(attempt int) {
		s.metrics.UpdateConflict()
		s.logger.Debug("group update conflict, retrying", "attempt", attempt)
	}
	return s
}

// GroupView is a group with its debts consolidated by debtor.
type GroupView struct {
	Group        *models.Group
	Consolidated []ledger.ConsolidatedDebt
}

// GroupPatch holds optional edits; nil fields are left unchanged.
type GroupPatch struct {
	Name     *string
	Rules    *string
	PhotoRef *string
}

// CreateGroup creates a group with the caller as its only admin.
func (s *Service) CreateGroup(ctx context.Context, caller auth.Identity, name, rules, photoRef string) (*models.Group, error) {
	if err := requireIdentity(caller); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", models.ErrInvalidOperation)
	}

	g := &models.Group{
		Name:      name,
		Rules:     rules,
		PhotoRef:  photoRef,
		CreatedBy: caller.UID,
		CreatedAt: s.now(),
		Members: []models.Member{{
			UID:      caller.UID,
			Name:     caller.DisplayName(),
			Role:     models.RoleAdmin,
			PhotoURL: caller.PhotoURL,
		}},
	}
	if err := s.store.CreateGroup(ctx, g); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "group created", "group_id", g.ID, "admin", caller.UID)
	return g, nil
}

// GetGroup returns the group with consolidated debts. Only members may read it.
func (s *Service) GetGroup(ctx context.Context, caller auth.Identity, groupID string) (*GroupView, error) {
	g, err := s.loadAsMember(ctx, caller, groupID)
	if err != nil {
		return nil, err
	}
	return &GroupView{Group: g, Consolidated: ledger.Consolidate(g)}, nil
}

// ListHistory returns the group's history newest first. limit <= 0 uses the default.
func (s *Service) ListHistory(ctx context.Context, caller auth.Identity, groupID string, limit int) ([]models.HistoryEntry, error) {
	if _, err := s.loadAsMember(ctx, caller, groupID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.historyLimit
	}
	return s.store.ListHistory(ctx, groupID, limit)
}

// ListMyGroups returns the caller's membership records, pending ones included.
func (s *Service) ListMyGroups(ctx context.Context, caller auth.Identity) ([]models.Membership, error) {
	if err := requireIdentity(caller); err != nil {
		return nil, err
	}
	return s.store.ListMemberships(ctx, caller.UID)
}

// update runs fn through the conflict retrier.
func (s *Service) update(ctx context.Context, groupID string, fn storage.UpdateFunc) (*models.Group, error) {
	return s.retrier.Update(ctx, s.store, groupID, fn)
}

// loadAsMember loads the group and checks the caller belongs to it.
func (s *Service) loadAsMember(ctx context.Context, caller auth.Identity, groupID string) (*models.Group, error) {
	if err := requireIdentity(caller); err != nil {
		return nil, err
	}
	g, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := requireMember(g, caller.UID); err != nil {
		return nil, err
	}
	return g, nil
}

// loadAsAdmin loads the group and checks the caller is one of its admins.
func (s *Service) loadAsAdmin(ctx context.Context, caller auth.Identity, groupID string) (*models.Group, error) {
	if err := requireIdentity(caller); err != nil {
		return nil, err
	}
	g, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(g, caller.UID); err != nil {
		return nil, err
	}
	return g, nil
}

// notify delivers msg and logs failures; it never returns an error.
func (s *Service) notify(ctx context.Context, msg notify.Message) {
	if len(msg.Recipients) == 0 {
		return
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = s.now()
	}
	if err := s.notifier.Notify(ctx, msg); err != nil {
		s.metrics.NotificationFailed(string(msg.Kind))
		s.logger.WarnContext(ctx, "notification failed",
			"kind", msg.Kind,
			"group_id", msg.GroupID,
			"recipients", len(msg.Recipients),
			"error", err,
		)
	}
}

func (s *Service) history(message string) models.HistoryEntry {
	return models.HistoryEntry{Message: message, Timestamp: s.now()}
}

func requireIdentity(caller auth.Identity) error {
	if !caller.Valid() {
		return fmt.Errorf("%w: missing caller identity", models.ErrUnauthorized)
	}
	return nil
}

func requireMember(g *models.Group, uid string) error {
	if _, ok := g.Member(uid); !ok {
		return fmt.Errorf("%w: %s is not a member of %s", models.ErrUnauthorized, uid, g.ID)
	}
	return nil
}

func requireAdmin(g *models.Group, uid string) error {
	if !g.IsAdmin(uid) {
		return fmt.Errorf("%w: %s is not an admin of %s", models.ErrUnauthorized, uid, g.ID)
	}
	return nil
}

func membershipStatus(m models.Member) models.MembershipStatus {
	if m.IsAdmin() {
		return models.MembershipAdmin
	}
	return models.MembershipMember
}
