package services

import (
	"context"
	"testing"
	"time"

	"plenio/internal/core"
	"plenio/internal/store/memory"
)

func newTestProcessor(t *testing.T) (*RecurringProcessor, *memory.Store) {
	t.Helper()
	st := memory.New()
	svc := NewTransactionService(st, nil)
	return NewRecurringProcessor(st, svc), st
}

func seedTemplate(t *testing.T, st *memory.Store, id string, freq core.Frequency, startDate string) {
	t.Helper()
	err := st.CreateTransaction(context.Background(), core.Transaction{
		ID:              id,
		UserID:          "alice",
		Type:            core.Expense,
		Amount:          1500,
		CategoryID:      "cat-rent",
		PaymentMethodID: "pm-1",
		Description:     "Rent",
		Date:            startDate,
		IsRecurring:     true,
		Frequency:       freq,
		CreatedAt:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("seed template: %v", err)
	}
}

func TestProcessDue_MaterializesDailyTemplate(t *testing.T) {
	proc, st := newTestProcessor(t)
	ctx := context.Background()
	seedMethod(t, st, "alice", "pm-1", 10000)
	seedTemplate(t, st, "tpl-1", core.FrequencyDaily, "2024-01-01")

	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	processed, err := proc.ProcessDue(ctx, now)
	if err != nil {
		t.Fatalf("ProcessDue() error = %v", err)
	}
	if processed != 1 {
		t.Fatalf("ProcessDue() = %d, want 1", processed)
	}

	txns, err := st.ListTransactions(ctx, "alice", 0)
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	// The template plus the materialized copy.
	if len(txns) != 2 {
		t.Fatalf("ListTransactions() returned %d transactions, want 2", len(txns))
	}

	var copyTxn core.Transaction
	for _, txn := range txns {
		if txn.ID != "tpl-1" {
			copyTxn = txn
		}
	}
	if copyTxn.ID == "" {
		t.Fatal("materialized transaction not found")
	}
	if copyTxn.IsRecurring {
		t.Error("materialized transaction must not itself be recurring")
	}
	if copyTxn.Date != "2024-03-10" {
		t.Errorf("materialized date = %q, want %q", copyTxn.Date, "2024-03-10")
	}
	if copyTxn.Amount != 1500 || copyTxn.CategoryID != "cat-rent" {
		t.Errorf("materialized transaction did not copy template fields: %+v", copyTxn)
	}

	method, err := st.GetPaymentMethod(ctx, "alice", "pm-1")
	if err != nil {
		t.Fatalf("GetPaymentMethod() error = %v", err)
	}
	if method.Balance != 8500 {
		t.Errorf("balance = %d, want 8500", method.Balance)
	}

	lastRun, err := st.GetRecurringLastRun(ctx, "tpl-1")
	if err != nil {
		t.Fatalf("GetRecurringLastRun() error = %v", err)
	}
	if lastRun != "2024-03-10" {
		t.Errorf("last run = %q, want %q", lastRun, "2024-03-10")
	}
}

func TestProcessDue_SkipsSameDayRerun(t *testing.T) {
	proc, st := newTestProcessor(t)
	ctx := context.Background()
	seedMethod(t, st, "alice", "pm-1", 10000)
	seedTemplate(t, st, "tpl-1", core.FrequencyDaily, "2024-01-01")

	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	if _, err := proc.ProcessDue(ctx, now); err != nil {
		t.Fatalf("first ProcessDue() error = %v", err)
	}

	later := time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)
	processed, err := proc.ProcessDue(ctx, later)
	if err != nil {
		t.Fatalf("second ProcessDue() error = %v", err)
	}
	if processed != 0 {
		t.Errorf("second ProcessDue() = %d, want 0", processed)
	}

	nextDay := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	processed, err = proc.ProcessDue(ctx, nextDay)
	if err != nil {
		t.Fatalf("next-day ProcessDue() error = %v", err)
	}
	if processed != 1 {
		t.Errorf("next-day ProcessDue() = %d, want 1", processed)
	}
}

func TestProcessDue_MonthlyWaitsForTargetDay(t *testing.T) {
	proc, st := newTestProcessor(t)
	ctx := context.Background()
	seedMethod(t, st, "alice", "pm-1", 10000)
	seedTemplate(t, st, "tpl-1", core.FrequencyMonthly, "2024-01-15")

	// First run materializes regardless of day.
	if _, err := proc.ProcessDue(ctx, time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("ProcessDue() error = %v", err)
	}

	// New month, before the target day.
	processed, err := proc.ProcessDue(ctx, time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ProcessDue() error = %v", err)
	}
	if processed != 0 {
		t.Errorf("ProcessDue() before target day = %d, want 0", processed)
	}

	// New month, on the target day.
	processed, err = proc.ProcessDue(ctx, time.Date(2024, 2, 15, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ProcessDue() error = %v", err)
	}
	if processed != 1 {
		t.Errorf("ProcessDue() on target day = %d, want 1", processed)
	}
}

func TestProcessDue_SkipsBrokenTemplate(t *testing.T) {
	proc, st := newTestProcessor(t)
	ctx := context.Background()
	seedMethod(t, st, "alice", "pm-1", 10000)
	// A template whose payment method no longer exists.
	seedTemplate(t, st, "tpl-broken", core.FrequencyDaily, "2024-01-01")
	if err := st.DeletePaymentMethod(ctx, "alice", "pm-1"); err != nil {
		t.Fatalf("DeletePaymentMethod() error = %v", err)
	}
	seedMethod(t, st, "alice", "pm-2", 5000)

	err := st.CreateTransaction(ctx, core.Transaction{
		ID:              "tpl-ok",
		UserID:          "alice",
		Type:            core.Income,
		Amount:          2000,
		CategoryID:      "cat-salary",
		PaymentMethodID: "pm-2",
		Date:            "2024-01-01",
		IsRecurring:     true,
		Frequency:       core.FrequencyDaily,
	})
	if err != nil {
		t.Fatalf("seed second template: %v", err)
	}

	processed, err := proc.ProcessDue(ctx, time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ProcessDue() error = %v", err)
	}
	if processed != 1 {
		t.Errorf("ProcessDue() = %d, want 1 (broken template skipped)", processed)
	}
}
