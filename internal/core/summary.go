package core

// Totals is the derived view over the current state. It is recomputed
// on every read; nothing is cached.
type Totals struct {
	TotalIncome      Money `json:"totalIncome"`
	TotalExpenses    Money `json:"totalExpenses"`
	TotalFixedCosts  Money `json:"totalFixedCosts"`
	ProjectedBalance Money `json:"projectedBalance"`
}

// ComputeTotals sums the ledger collections and derives the projected
// balance: income minus expenses minus fixed costs.
func ComputeTotals(s State) Totals {
	var t Totals
	for _, it := range s.Entries {
		t.TotalIncome.Cents += it.Value.Cents
	}
	for _, it := range s.Expenses {
		t.TotalExpenses.Cents += it.Value.Cents
	}
	for _, fc := range s.FixedCosts {
		t.TotalFixedCosts.Cents += fc.Value.Cents
	}
	t.ProjectedBalance.Cents = t.TotalIncome.Cents - t.TotalExpenses.Cents - t.TotalFixedCosts.Cents
	return t
}
