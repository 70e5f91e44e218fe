package services

import (
	"context"
	"errors"
	"testing"

	"plenio/internal/core"
	"plenio/internal/store"
	"plenio/internal/store/memory"
)

func newTestService(t *testing.T) (*TransactionService, *memory.Store) {
	t.Helper()
	st := memory.New()
	return NewTransactionService(st, nil), st
}

func seedMethod(t *testing.T, st *memory.Store, userID, id string, balance int64) {
	t.Helper()
	err := st.CreatePaymentMethod(context.Background(), core.PaymentMethod{
		ID:      id,
		UserID:  userID,
		Name:    "Checking",
		Type:    core.Bank,
		Balance: balance,
	})
	if err != nil {
		t.Fatalf("seed payment method: %v", err)
	}
}

func TestTransactionService_Create_BalanceDelta(t *testing.T) {
	tests := []struct {
		name        string
		txnType     core.TransactionType
		amount      int64
		wantBalance int64
	}{
		{"expense subtracts", core.Expense, 300, 700},
		{"income adds", core.Income, 250, 1250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, st := newTestService(t)
			ctx := context.Background()
			seedMethod(t, st, "alice", "pm-1", 1000)

			created, err := svc.Create(ctx, core.Transaction{
				UserID:          "alice",
				Type:            tt.txnType,
				Amount:          tt.amount,
				CategoryID:      "cat-1",
				PaymentMethodID: "pm-1",
				Date:            "2024-03-10",
			})
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if created.ID == "" {
				t.Error("Create() did not mint an ID")
			}
			if created.CreatedAt.IsZero() {
				t.Error("Create() did not set CreatedAt")
			}

			method, err := st.GetPaymentMethod(ctx, "alice", "pm-1")
			if err != nil {
				t.Fatalf("GetPaymentMethod() error = %v", err)
			}
			if method.Balance != tt.wantBalance {
				t.Errorf("balance = %d, want %d", method.Balance, tt.wantBalance)
			}
		})
	}
}

func TestTransactionService_Create_UnknownPaymentMethod(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), core.Transaction{
		UserID:          "alice",
		Type:            core.Expense,
		Amount:          100,
		CategoryID:      "cat-1",
		PaymentMethodID: "missing",
		Date:            "2024-03-10",
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Create() error = %v, want ErrNotFound", err)
	}
}

func TestTransactionService_Create_Invalid(t *testing.T) {
	svc, st := newTestService(t)
	seedMethod(t, st, "alice", "pm-1", 1000)

	_, err := svc.Create(context.Background(), core.Transaction{
		UserID:          "alice",
		Type:            core.TransactionType("transfer"),
		Amount:          100,
		CategoryID:      "cat-1",
		PaymentMethodID: "pm-1",
		Date:            "2024-03-10",
	})
	if !errors.Is(err, core.ErrInvalidType) {
		t.Errorf("Create() error = %v, want ErrInvalidType", err)
	}

	// Nothing was recorded and the balance is untouched.
	txns, err := st.ListTransactions(context.Background(), "alice", 0)
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if len(txns) != 0 {
		t.Errorf("ListTransactions() returned %d transactions, want 0", len(txns))
	}
}

func TestTransactionService_Delete_RevertsBalance(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	seedMethod(t, st, "alice", "pm-1", 1000)

	created, err := svc.Create(ctx, core.Transaction{
		UserID:          "alice",
		Type:            core.Expense,
		Amount:          400,
		CategoryID:      "cat-1",
		PaymentMethodID: "pm-1",
		Date:            "2024-03-10",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(ctx, "alice", created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	method, err := st.GetPaymentMethod(ctx, "alice", "pm-1")
	if err != nil {
		t.Fatalf("GetPaymentMethod() error = %v", err)
	}
	if method.Balance != 1000 {
		t.Errorf("balance = %d, want 1000", method.Balance)
	}

	if _, err := st.GetTransaction(ctx, "alice", created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetTransaction() after delete error = %v, want ErrNotFound", err)
	}
}

func TestTransactionService_Delete_Unknown(t *testing.T) {
	svc, _ := newTestService(t)

	if err := svc.Delete(context.Background(), "alice", "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}
