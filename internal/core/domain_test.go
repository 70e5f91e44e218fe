package core

import (
	"errors"
	"testing"
)

func validTransaction() Transaction {
	return Transaction{
		Type:            Expense,
		Amount:          120,
		CategoryID:      "food",
		PaymentMethodID: "cash-1",
		Description:     "lunch",
		Date:            "2024-03-05",
	}
}

func TestTransactionValidate(t *testing.T) {
	if err := validTransaction().Validate(); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Transaction)
		want   error
	}{
		{"unknown type", func(tx *Transaction) { tx.Type = "transfer" }, ErrInvalidType},
		{"negative amount", func(tx *Transaction) { tx.Amount = -1 }, ErrInvalidAmount},
		{"missing category", func(tx *Transaction) { tx.CategoryID = " " }, ErrEmptyCategory},
		{"missing method", func(tx *Transaction) { tx.PaymentMethodID = "" }, ErrEmptyMethod},
		{"bad date", func(tx *Transaction) { tx.Date = "03/05/2024" }, ErrMalformedDate},
		{"recurring without frequency", func(tx *Transaction) { tx.IsRecurring = true }, ErrInvalidFrequency},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := validTransaction()
			tc.mutate(&tx)
			if err := tx.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestParseDay(t *testing.T) {
	for _, ok := range []string{"2024-03-05", "2024-03-05T10:30:00Z", "2024-03-05T10:30:00"} {
		if _, err := ParseDay(ok); err != nil {
			t.Fatalf("ParseDay(%q) unexpected error: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "  ", "yesterday", "2024-13-40", "05/03/2024"} {
		if _, err := ParseDay(bad); !errors.Is(err, ErrMalformedDate) {
			t.Fatalf("ParseDay(%q) = %v, want ErrMalformedDate", bad, err)
		}
	}
}

func TestCategoryValidate(t *testing.T) {
	c := Category{Name: "Food", Icon: "🍽️", Type: Expense}
	if err := c.Validate(); err != nil {
		t.Fatalf("valid category rejected: %v", err)
	}
	c.Name = ""
	if err := c.Validate(); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("got %v, want ErrEmptyName", err)
	}
	c = Category{Name: "Food", Type: "other"}
	if err := c.Validate(); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("got %v, want ErrInvalidType", err)
	}
}

func TestPaymentMethodValidate(t *testing.T) {
	m := PaymentMethod{Name: "Wallet", Type: Cash}
	if err := m.Validate(); err != nil {
		t.Fatalf("valid method rejected: %v", err)
	}
	m.Type = "crypto"
	if err := m.Validate(); !errors.Is(err, ErrInvalidMethod) {
		t.Fatalf("got %v, want ErrInvalidMethod", err)
	}
}

func TestBudgetValidate(t *testing.T) {
	b := Budget{CategoryID: "food", Amount: 100, Period: PeriodMonthly}
	if err := b.Validate(); err != nil {
		t.Fatalf("valid budget rejected: %v", err)
	}
	b.Amount = 0
	if err := b.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("got %v, want ErrInvalidAmount", err)
	}
	b = Budget{CategoryID: "food", Amount: 100, Period: "yearly"}
	if err := b.Validate(); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("got %v, want ErrInvalidPeriod", err)
	}
}
