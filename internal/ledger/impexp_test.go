package ledger

import (
	"bytes"
	"context"
	"reflect"
	"testing"

	"myfinance/internal/core"
)

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src, _ := newTestStore(t)

	if _, err := src.AddEntry(ctx, core.Income, core.Money{Cents: 300000}, "salário", "Outros", core.NewDate(2026, 8, 1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := src.AddEntry(ctx, core.Expense, core.Money{Cents: 4599}, "mercado", "Alimentação", core.NewDate(2026, 8, 3)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := src.AddGoal(ctx, "Bike", core.Money{Cents: 150000}, core.High); err != nil {
		t.Fatalf("add goal: %v", err)
	}
	if _, err := src.AddFixedCost(ctx, "Aluguel", core.Money{Cents: 120000}); err != nil {
		t.Fatalf("add fixed cost: %v", err)
	}
	if err := src.SetProfileName(ctx, "Ana"); err != nil {
		t.Fatalf("set name: %v", err)
	}

	var buf bytes.Buffer
	if err := src.Export(&buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	dst, _ := newTestStore(t)
	if err := dst.Import(ctx, buf.Bytes()); err != nil {
		t.Fatalf("import: %v", err)
	}
	if !reflect.DeepEqual(src.Snapshot(), dst.Snapshot()) {
		t.Fatalf("import must reproduce the exported state exactly")
	}
}

func TestImportInvalidJSONLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	s, repo := newTestStore(t)
	if _, err := s.AddEntry(ctx, core.Expense, core.Money{Cents: 500}, "café", "Alimentação", core.Date{}); err != nil {
		t.Fatalf("add: %v", err)
	}
	before := s.Snapshot()
	savesBefore := repo.saves

	if err := s.Import(ctx, []byte(`{"entries": [`)); err == nil {
		t.Fatalf("expected error for invalid JSON")
	}
	if !reflect.DeepEqual(before, s.Snapshot()) {
		t.Fatalf("failed import must leave state unchanged")
	}
	if repo.saves != savesBefore {
		t.Fatalf("failed import must not persist")
	}
}

func TestImportReplacesWholeState(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	if _, err := s.AddEntry(ctx, core.Expense, core.Money{Cents: 500}, "café", "Alimentação", core.Date{}); err != nil {
		t.Fatalf("add: %v", err)
	}

	doc := []byte(`{"user":{"name":"Bia","email":"","bio":""},"goals":[{"id":"g1","name":"Bike","price":1500,"priority":"high","bought":true}]}`)
	if err := s.Import(ctx, doc); err != nil {
		t.Fatalf("import: %v", err)
	}

	st := s.Snapshot()
	if len(st.Expenses) != 0 {
		t.Fatalf("import must replace, not merge; expenses left: %d", len(st.Expenses))
	}
	if st.User.Name != "Bia" || len(st.Goals) != 1 || !st.Goals[0].Bought {
		t.Fatalf("imported fields not applied: %+v", st)
	}
	// Missing keys fall back field by field.
	if len(st.Categories) != len(core.DefaultCategories()) {
		t.Fatalf("missing categories must default, got %v", st.Categories)
	}
	if st.FixedCosts == nil || len(st.FixedCosts) != 0 {
		t.Fatalf("missing fixedCosts must default to empty")
	}
}
