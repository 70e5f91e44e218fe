package core

import (
	"errors"
	"testing"
	"time"
)

func marchData() []Transaction {
	return []Transaction{
		{ID: "t1", Type: Expense, Amount: 100, CategoryID: "food", Date: "2024-03-05"},
		{ID: "t2", Type: Income, Amount: 500, CategoryID: "salary", Date: "2024-03-10"},
		{ID: "t3", Type: Expense, Amount: 50, CategoryID: "food", Date: "2024-04-01"},
	}
}

func TestFilterByWindow(t *testing.T) {
	w := MonthWindow(date(2024, time.March, 15))
	got, err := FilterByWindow(marchData(), w)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 transactions in March, got %d", len(got))
	}
	for _, tx := range got {
		if tx.ID == "t3" {
			t.Fatalf("April transaction leaked into March window")
		}
	}
}

func TestFilterByWindowInclusiveBoundaries(t *testing.T) {
	w := MonthWindow(date(2024, time.March, 15))
	txns := []Transaction{
		{ID: "a", Type: Expense, Amount: 1, CategoryID: "c", Date: "2024-03-01T00:00:00Z"},
		{ID: "b", Type: Expense, Amount: 1, CategoryID: "c", Date: "2024-03-31T23:59:00Z"},
		// Last day of the month in a non-UTC offset still counts as March.
		{ID: "c", Type: Expense, Amount: 1, CategoryID: "c", Date: "2024-03-31T23:59:00-05:00"},
	}
	got, err := FilterByWindow(txns, w)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("boundary transactions excluded: got %d of 3", len(got))
	}
}

func TestFilterByWindowMalformedDate(t *testing.T) {
	txns := []Transaction{
		{ID: "ok", Type: Expense, Amount: 1, CategoryID: "c", Date: "2024-03-05"},
		{ID: "bad", Type: Expense, Amount: 1, CategoryID: "c", Date: "not-a-date"},
	}
	_, err := FilterByWindow(txns, MonthWindow(date(2024, time.March, 1)))
	if !errors.Is(err, ErrMalformedDate) {
		t.Fatalf("expected ErrMalformedDate, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	w := MonthWindow(date(2024, time.March, 15))
	filtered, err := FilterByWindow(marchData(), w)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	totals := Summarize(filtered)
	if totals.TotalIncome != 500 {
		t.Fatalf("TotalIncome = %d, want 500", totals.TotalIncome)
	}
	if totals.TotalExpense != 100 {
		t.Fatalf("TotalExpense = %d, want 100", totals.TotalExpense)
	}
	if amt, ok := totals.ExpenseFor("food"); !ok || amt != 100 {
		t.Fatalf("ExpenseFor(food) = %d,%v, want 100,true", amt, ok)
	}
	// Income categories never appear in the expense breakdown.
	if _, ok := totals.ExpenseFor("salary"); ok {
		t.Fatalf("income category present in expense breakdown")
	}
	if len(totals.CategoryExpenses) != 1 {
		t.Fatalf("breakdown length = %d, want 1", len(totals.CategoryExpenses))
	}
}

func TestSummarizeInsertionOrder(t *testing.T) {
	txns := []Transaction{
		{Type: Expense, Amount: 10, CategoryID: "zeta", Date: "2024-03-01"},
		{Type: Expense, Amount: 20, CategoryID: "alpha", Date: "2024-03-02"},
		{Type: Expense, Amount: 5, CategoryID: "zeta", Date: "2024-03-03"},
	}
	totals := Summarize(txns)
	if len(totals.CategoryExpenses) != 2 {
		t.Fatalf("breakdown length = %d, want 2", len(totals.CategoryExpenses))
	}
	if totals.CategoryExpenses[0].CategoryID != "zeta" || totals.CategoryExpenses[0].Amount != 15 {
		t.Fatalf("first entry = %+v, want zeta/15", totals.CategoryExpenses[0])
	}
	if totals.CategoryExpenses[1].CategoryID != "alpha" || totals.CategoryExpenses[1].Amount != 20 {
		t.Fatalf("second entry = %+v, want alpha/20", totals.CategoryExpenses[1])
	}
}

func TestStatusFor(t *testing.T) {
	w := MonthWindow(date(2024, time.March, 15))
	filtered, err := FilterByWindow(marchData(), w)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}

	b := Budget{ID: "b1", CategoryID: "food", Amount: 80, Period: PeriodMonthly}
	st := StatusFor(b, filtered)
	if st.Spent != 100 {
		t.Fatalf("Spent = %d, want 100", st.Spent)
	}
	if !st.OverBudget {
		t.Fatalf("expected over budget")
	}
	if st.Percentage != 100 {
		t.Fatalf("Percentage = %v, want 100 (clamped)", st.Percentage)
	}
	if st.Utilization != 125 {
		t.Fatalf("Utilization = %v, want 125 (unclamped)", st.Utilization)
	}
	if st.Remaining != -20 {
		t.Fatalf("Remaining = %d, want -20", st.Remaining)
	}
}

func TestStatusForUnderBudget(t *testing.T) {
	b := Budget{CategoryID: "food", Amount: 400, Period: PeriodMonthly}
	txns := []Transaction{
		{Type: Expense, Amount: 100, CategoryID: "food", Date: "2024-03-05"},
		{Type: Expense, Amount: 50, CategoryID: "transport", Date: "2024-03-06"},
		{Type: Income, Amount: 900, CategoryID: "food", Date: "2024-03-07"}, // income never counts as spend
	}
	st := StatusFor(b, txns)
	if st.Spent != 100 || st.OverBudget {
		t.Fatalf("status = %+v, want spent 100 under budget", st)
	}
	if st.Percentage != 25 {
		t.Fatalf("Percentage = %v, want 25", st.Percentage)
	}
	if st.Remaining != 300 {
		t.Fatalf("Remaining = %d, want 300", st.Remaining)
	}
}

func TestStatusForZeroBudget(t *testing.T) {
	b := Budget{CategoryID: "food", Amount: 0, Period: PeriodMonthly}

	st := StatusFor(b, []Transaction{{Type: Expense, Amount: 10, CategoryID: "food", Date: "2024-03-05"}})
	if st.Percentage != 0 {
		t.Fatalf("zero budget Percentage = %v, want 0", st.Percentage)
	}
	if !st.OverBudget {
		t.Fatalf("any spend against a zero budget is over budget")
	}

	st = StatusFor(b, nil)
	if st.OverBudget {
		t.Fatalf("zero budget with zero spend is not over budget")
	}
}

func TestMostRecent(t *testing.T) {
	txns := []Transaction{
		{ID: "old", Type: Expense, Amount: 1, CategoryID: "c", Date: "2024-03-01"},
		{ID: "newest", Type: Expense, Amount: 1, CategoryID: "c", Date: "2024-03-20"},
		{ID: "mid-a", Type: Expense, Amount: 1, CategoryID: "c", Date: "2024-03-10"},
		{ID: "mid-b", Type: Expense, Amount: 1, CategoryID: "c", Date: "2024-03-10"},
	}
	got := MostRecent(txns, 3)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].ID != "newest" {
		t.Fatalf("first = %s, want newest", got[0].ID)
	}
	// Stable: same-day transactions keep their relative order.
	if got[1].ID != "mid-a" || got[2].ID != "mid-b" {
		t.Fatalf("same-day order not preserved: %s, %s", got[1].ID, got[2].ID)
	}

	if got := MostRecent(txns, 10); len(got) != 4 {
		t.Fatalf("n beyond length: len = %d, want 4", len(got))
	}
	if got := MostRecent(nil, 5); len(got) != 0 {
		t.Fatalf("empty input: len = %d, want 0", len(got))
	}
}
