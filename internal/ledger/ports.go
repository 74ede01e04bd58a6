package ledger

import (
	"context"

	"myfinance/internal/core"
)

// Ports for outbound adapters.
type (
	// Repository persists the whole state as one snapshot document.
	Repository interface {
		// Load returns the last saved state, or the default state when
		// nothing usable is stored.
		Load(ctx context.Context) (core.State, error)
		// Save overwrites the stored snapshot with the given state.
		Save(ctx context.Context, s core.State) error
	}

	// Confirmer asks for user confirmation before destructive
	// operations, keeping the store testable without a UI.
	Confirmer interface {
		Confirm(ctx context.Context, prompt string) bool
	}

	// ConfirmerFunc adapts a function to the Confirmer interface.
	ConfirmerFunc func(ctx context.Context, prompt string) bool
)

func (f ConfirmerFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// AlwaysConfirm treats the triggering request itself as consent. The
// HTTP surface uses it: an explicit DELETE is the confirmation.
var AlwaysConfirm Confirmer = ConfirmerFunc(func(context.Context, string) bool { return true })
