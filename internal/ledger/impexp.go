package ledger

import (
	"context"
	"fmt"
	"io"

	"myfinance/internal/core"
	applog "myfinance/internal/log"
)

// Export writes the current state as a pretty-printed JSON document,
// the same shape the snapshot repository stores.
func (s *Store) Export(w io.Writer) error {
	s.mu.Lock()
	data, err := core.EncodeDocumentIndent(s.state)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// Import parses a user-supplied document and, on success, replaces the
// entire state atomically and persists it. On parse failure the
// current state is left untouched and the error is returned for the
// caller to surface.
func (s *Store) Import(ctx context.Context, data []byte) error {
	st, err := core.DecodeDocument(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.state
	s.state = st
	if err := s.persist(ctx); err != nil {
		s.state = old
		return err
	}
	logFrom(ctx).InfoContext(ctx, "State imported",
		applog.FieldOperation, applog.OpImport,
		"entries", len(st.Entries), "expenses", len(st.Expenses),
		"goals", len(st.Goals), "fixed_costs", len(st.FixedCosts))
	return nil
}
