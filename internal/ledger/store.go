// Package ledger implements the state store: the single owned instance
// of the application state plus its mutation operations. Every
// successful mutation is mirrored to the snapshot repository before
// the call returns.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"myfinance/internal/core"
	applog "myfinance/internal/log"
)

// logFrom scopes the context logger to the ledger component.
func logFrom(ctx context.Context) *applog.Logger {
	return applog.FromContext(ctx).WithComponent(applog.ComponentLedger)
}

// Store owns the in-memory state. All operations are single atomic
// transitions guarded by one mutex.
type Store struct {
	mu      sync.Mutex
	repo    Repository
	confirm Confirmer
	newID   func() string
	state   core.State
}

// Option configures a Store.
type Option func(*Store)

// WithConfirmer injects the confirmation capability used by the
// remove operations.
func WithConfirmer(c Confirmer) Option {
	return func(s *Store) { s.confirm = c }
}

// WithIDFunc overrides id generation, mainly for tests.
func WithIDFunc(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// Open loads the persisted snapshot into a new Store. It is called
// once at startup.
func Open(ctx context.Context, repo Repository, opts ...Option) (*Store, error) {
	s := &Store{
		repo:    repo,
		confirm: AlwaysConfirm,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	st, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	s.state = st
	return s, nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() core.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Totals recomputes the derived totals from the current state.
func (s *Store) Totals() core.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.ComputeTotals(s.state)
}

// AddEntry validates and prepends a new ledger item to the income or
// expense collection. A zero date defaults to today.
func (s *Store) AddEntry(ctx context.Context, kind core.Kind, value core.Money, description, category string, date core.Date) (core.LedgerItem, error) {
	if err := kind.Validate(); err != nil {
		return core.LedgerItem{}, err
	}
	if date.IsZero() {
		date = core.Today()
	}
	it := core.LedgerItem{
		ID:          s.newID(),
		Value:       value,
		Description: strings.TrimSpace(description),
		Category:    strings.TrimSpace(category),
		Date:        date,
	}
	if err := it.Validate(); err != nil {
		return core.LedgerItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case core.Income:
		s.state.Entries = append([]core.LedgerItem{it}, s.state.Entries...)
	case core.Expense:
		s.state.Expenses = append([]core.LedgerItem{it}, s.state.Expenses...)
	}
	if err := s.persist(ctx); err != nil {
		return it, err
	}
	logFrom(ctx).InfoContext(ctx, "Ledger entry added",
		applog.FieldOperation, applog.OpAdd, applog.FieldKind, kind,
		applog.FieldEntryID, it.ID, applog.FieldAmountCents, it.Value.Cents,
		applog.FieldCategory, it.Category)
	return it, nil
}

// RemoveEntry removes the matching item after confirmation. A declined
// confirmation or an absent id is a no-op, not an error.
func (s *Store) RemoveEntry(ctx context.Context, kind core.Kind, id string) (bool, error) {
	if err := kind.Validate(); err != nil {
		return false, err
	}
	if !s.confirm.Confirm(ctx, "remove "+string(kind)+" entry") {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	list := &s.state.Entries
	if kind == core.Expense {
		list = &s.state.Expenses
	}
	idx := -1
	for i, it := range *list {
		if it.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}
	*list = append((*list)[:idx], (*list)[idx+1:]...)
	if err := s.persist(ctx); err != nil {
		return true, err
	}
	logFrom(ctx).InfoContext(ctx, "Ledger entry removed",
		applog.FieldOperation, applog.OpRemove, applog.FieldKind, kind, applog.FieldEntryID, id)
	return true, nil
}

// AddGoal prepends a new wishlist goal with bought unset.
func (s *Store) AddGoal(ctx context.Context, name string, price core.Money, priority core.Priority) (core.Goal, error) {
	g := core.Goal{
		ID:       s.newID(),
		Name:     strings.TrimSpace(name),
		Price:    price,
		Priority: priority,
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Goals = append([]core.Goal{g}, s.state.Goals...)
	if err := s.persist(ctx); err != nil {
		return g, err
	}
	logFrom(ctx).InfoContext(ctx, "Goal added",
		applog.FieldOperation, applog.OpAdd, applog.FieldGoalID, g.ID,
		applog.FieldAmountCents, g.Price.Cents, "priority", g.Priority)
	return g, nil
}

// ToggleGoal flips the bought flag on the matching goal. Absent id is
// a no-op.
func (s *Store) ToggleGoal(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Goals {
		if s.state.Goals[i].ID != id {
			continue
		}
		s.state.Goals[i].Bought = !s.state.Goals[i].Bought
		if err := s.persist(ctx); err != nil {
			return true, err
		}
		logFrom(ctx).InfoContext(ctx, "Goal toggled",
			applog.FieldOperation, applog.OpToggle, applog.FieldGoalID, id,
			"bought", s.state.Goals[i].Bought)
		return true, nil
	}
	return false, nil
}

// RemoveGoal removes the matching goal after confirmation.
func (s *Store) RemoveGoal(ctx context.Context, id string) (bool, error) {
	if !s.confirm.Confirm(ctx, "remove goal") {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, g := range s.state.Goals {
		if g.ID != id {
			continue
		}
		s.state.Goals = append(s.state.Goals[:i], s.state.Goals[i+1:]...)
		if err := s.persist(ctx); err != nil {
			return true, err
		}
		logFrom(ctx).InfoContext(ctx, "Goal removed",
			applog.FieldOperation, applog.OpRemove, applog.FieldGoalID, id)
		return true, nil
	}
	return false, nil
}

// AddFixedCost prepends a new recurring monthly cost.
func (s *Store) AddFixedCost(ctx context.Context, name string, value core.Money) (core.FixedCost, error) {
	fc := core.FixedCost{
		ID:    s.newID(),
		Name:  strings.TrimSpace(name),
		Value: value,
	}
	if err := fc.Validate(); err != nil {
		return core.FixedCost{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.FixedCosts = append([]core.FixedCost{fc}, s.state.FixedCosts...)
	if err := s.persist(ctx); err != nil {
		return fc, err
	}
	logFrom(ctx).InfoContext(ctx, "Fixed cost added",
		applog.FieldOperation, applog.OpAdd, applog.FieldFixedCostID, fc.ID,
		applog.FieldAmountCents, fc.Value.Cents)
	return fc, nil
}

// RemoveFixedCost removes the matching fixed cost after confirmation.
func (s *Store) RemoveFixedCost(ctx context.Context, id string) (bool, error) {
	if !s.confirm.Confirm(ctx, "remove fixed cost") {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, fc := range s.state.FixedCosts {
		if fc.ID != id {
			continue
		}
		s.state.FixedCosts = append(s.state.FixedCosts[:i], s.state.FixedCosts[i+1:]...)
		if err := s.persist(ctx); err != nil {
			return true, err
		}
		logFrom(ctx).InfoContext(ctx, "Fixed cost removed",
			applog.FieldOperation, applog.OpRemove, applog.FieldFixedCostID, id)
		return true, nil
	}
	return false, nil
}

// AddCategory prepends a category name. Categories form a set:
// case-insensitive duplicates are rejected.
func (s *Store) AddCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.ErrEmptyCategory
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.state.Categories {
		if strings.EqualFold(c, name) {
			return core.ErrDuplicateCategory
		}
	}
	s.state.Categories = append([]string{name}, s.state.Categories...)
	if err := s.persist(ctx); err != nil {
		return err
	}
	logFrom(ctx).InfoContext(ctx, "Category added",
		applog.FieldOperation, applog.OpAdd, applog.FieldCategory, name)
	return nil
}

// SetProfileName replaces the profile name.
func (s *Store) SetProfileName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.User.Name = name
	return s.persist(ctx)
}

// SetProfile replaces the whole profile. Name stays required; email
// and bio may be empty.
func (s *Store) SetProfile(ctx context.Context, p core.Profile) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return core.ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.User = p
	return s.persist(ctx)
}

// persist mirrors the full state to the repository. Callers hold the
// mutex.
func (s *Store) persist(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.state.Clone()); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
