package core

import (
	"fmt"
	"sort"
)

// CategoryExpense is one entry of the per-category expense breakdown.
type CategoryExpense struct {
	CategoryID string `json:"categoryId"`
	Amount     int64  `json:"amount"`
}

// MonthlyTotals is the reduced view of a window's transactions. Income and
// expense are summed separately and never netted against each other.
// CategoryExpenses lists expense categories in order of first occurrence in
// the input; categories with no expense transactions are absent entirely.
type MonthlyTotals struct {
	TotalIncome      int64             `json:"totalIncome"`
	TotalExpense     int64             `json:"totalExpense"`
	CategoryExpenses []CategoryExpense `json:"categoryExpenses"`
}

// ExpenseFor returns the summed expense for a category, reporting absence
// explicitly so callers can distinguish "no spending" from zero.
func (t MonthlyTotals) ExpenseFor(categoryID string) (int64, bool) {
	for _, ce := range t.CategoryExpenses {
		if ce.CategoryID == categoryID {
			return ce.Amount, true
		}
	}
	return 0, false
}

// BudgetStatus describes consumption of a single budget within a window.
// Percentage is clamped to [0, 100] for progress bars; Utilization keeps the
// raw ratio so the over-budget decision never depends on the clamp.
type BudgetStatus struct {
	Budget      Budget  `json:"budget"`
	Spent       int64   `json:"spent"`
	Remaining   int64   `json:"remaining"`
	Percentage  float64 `json:"percentage"`
	Utilization float64 `json:"-"`
	OverBudget  bool    `json:"overBudget"`
}

// FilterByWindow keeps transactions whose calendar date falls inside w,
// inclusive on both ends. A transaction whose date cannot be parsed aborts
// the whole filter: dropping records silently would corrupt every total
// computed downstream.
func FilterByWindow(txns []Transaction, w Window) ([]Transaction, error) {
	var out []Transaction
	for _, t := range txns {
		day, err := ParseDay(t.Date)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", t.ID, err)
		}
		if w.Contains(day) {
			out = append(out, t)
		}
	}
	return out, nil
}

// Summarize reduces an already-filtered transaction list to monthly totals.
func Summarize(txns []Transaction) MonthlyTotals {
	var totals MonthlyTotals
	index := make(map[string]int)
	for _, t := range txns {
		switch t.Type {
		case Income:
			totals.TotalIncome += t.Amount
		case Expense:
			totals.TotalExpense += t.Amount
			if i, ok := index[t.CategoryID]; ok {
				totals.CategoryExpenses[i].Amount += t.Amount
			} else {
				index[t.CategoryID] = len(totals.CategoryExpenses)
				totals.CategoryExpenses = append(totals.CategoryExpenses, CategoryExpense{
					CategoryID: t.CategoryID,
					Amount:     t.Amount,
				})
			}
		}
	}
	return totals
}

// StatusFor computes budget consumption from the window's transactions.
// Only expense transactions for the budget's category count as spend. Weekly
// budgets are measured against the same monthly window as everything else;
// no weekly window exists in this system.
//
// A zero-amount budget is a defined edge case, not a division fault: its
// percentage is 0 and any spending at all puts it over budget.
func StatusFor(b Budget, txns []Transaction) BudgetStatus {
	var spent int64
	for _, t := range txns {
		if t.Type == Expense && t.CategoryID == b.CategoryID {
			spent += t.Amount
		}
	}

	status := BudgetStatus{
		Budget:    b,
		Spent:     spent,
		Remaining: b.Amount - spent,
	}
	if b.Amount == 0 {
		status.OverBudget = spent > 0
		return status
	}

	status.Utilization = 100 * float64(spent) / float64(b.Amount)
	status.Percentage = status.Utilization
	if status.Percentage > 100 {
		status.Percentage = 100
	}
	if status.Percentage < 0 {
		status.Percentage = 0
	}
	status.OverBudget = spent > b.Amount
	return status
}

// MostRecent returns up to n transactions ordered by date descending. The
// sort is explicit and stable: relative order of same-day transactions is
// preserved, and the result never depends on the order the store happened to
// return.
func MostRecent(txns []Transaction, n int) []Transaction {
	sorted := make([]Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, erri := ParseDay(sorted[i].Date)
		dj, errj := ParseDay(sorted[j].Date)
		if erri != nil || errj != nil {
			// Unparseable dates sort last; FilterByWindow upstream already
			// rejects them when totals are involved.
			return errj != nil && erri == nil
		}
		return di.After(dj)
	})
	if n < 0 {
		n = 0
	}
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
