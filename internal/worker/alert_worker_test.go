package worker

import (
	"context"
	"testing"
	"time"

	"plenio/internal/amqp"
	"plenio/internal/core"
	"plenio/internal/store/memory"
)

func seedBudgetData(t *testing.T, st *memory.Store) {
	t.Helper()
	ctx := context.Background()

	err := st.CreateBudget(ctx, core.Budget{
		ID:         "b-food",
		UserID:     "alice",
		CategoryID: "cat-food",
		Amount:     500,
		Period:     core.PeriodMonthly,
	})
	if err != nil {
		t.Fatalf("seed budget: %v", err)
	}

	txns := []core.Transaction{
		{ID: "t1", UserID: "alice", Type: core.Expense, Amount: 300, CategoryID: "cat-food", PaymentMethodID: "pm-1", Date: "2024-03-05"},
		{ID: "t2", UserID: "alice", Type: core.Expense, Amount: 250, CategoryID: "cat-food", PaymentMethodID: "pm-1", Date: "2024-03-12"},
		// Outside the March window, must not count.
		{ID: "t3", UserID: "alice", Type: core.Expense, Amount: 900, CategoryID: "cat-food", PaymentMethodID: "pm-1", Date: "2024-02-20"},
		// Income never counts against a budget.
		{ID: "t4", UserID: "alice", Type: core.Income, Amount: 2000, CategoryID: "cat-food", PaymentMethodID: "pm-1", Date: "2024-03-10"},
	}
	for _, txn := range txns {
		if err := st.CreateTransaction(ctx, txn); err != nil {
			t.Fatalf("seed transaction %s: %v", txn.ID, err)
		}
	}
}

func TestCheckUserBudgets(t *testing.T) {
	st := memory.New()
	seedBudgetData(t, st)
	w := NewAlertWorker(st)

	statuses, err := w.CheckUserBudgets(context.Background(), "alice", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("CheckUserBudgets() error = %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("CheckUserBudgets() returned %d statuses, want 1", len(statuses))
	}

	got := statuses[0]
	if got.Spent != 550 {
		t.Errorf("Spent = %d, want 550", got.Spent)
	}
	if !got.OverBudget {
		t.Error("OverBudget = false, want true")
	}
	if got.Percentage != 100 {
		t.Errorf("Percentage = %v, want 100 (clamped)", got.Percentage)
	}
}

func TestCheckUserBudgets_NoBudgets(t *testing.T) {
	st := memory.New()
	w := NewAlertWorker(st)

	statuses, err := w.CheckUserBudgets(context.Background(), "nobody", time.Now())
	if err != nil {
		t.Fatalf("CheckUserBudgets() error = %v", err)
	}
	if len(statuses) != 0 {
		t.Errorf("CheckUserBudgets() returned %d statuses, want 0", len(statuses))
	}
}

func TestHandleTransactionEvent(t *testing.T) {
	st := memory.New()
	seedBudgetData(t, st)
	w := NewAlertWorker(st)

	event := &amqp.TransactionEvent{
		Event:         amqp.EventTransactionCreated,
		TransactionID: "t2",
		UserID:        "alice",
		CategoryID:    "cat-food",
		Timestamp:     time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
	}

	if err := w.HandleTransactionEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleTransactionEvent() error = %v", err)
	}
}

func TestHandleTransactionEvent_ZeroTimestamp(t *testing.T) {
	st := memory.New()
	w := NewAlertWorker(st)

	event := &amqp.TransactionEvent{
		Event:  amqp.EventTransactionDeleted,
		UserID: "alice",
	}

	if err := w.HandleTransactionEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleTransactionEvent() error = %v", err)
	}
}
