package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	Cash MethodType = "cash"
	Bank MethodType = "bank"
	Card MethodType = "card"
)

const (
	PeriodMonthly BudgetPeriod = "monthly"
	PeriodWeekly  BudgetPeriod = "weekly"
)

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

type (
	// TransactionType is the closed income/expense variant. Every aggregation
	// branches on it, so unknown values are rejected at validation time.
	TransactionType string

	// MethodType classifies a payment method.
	MethodType string

	// BudgetPeriod is the budget accounting period.
	BudgetPeriod string

	// Frequency is how often a recurring transaction template repeats.
	Frequency string

	// Transaction is a single recorded movement of money. Amount is a whole
	// currency unit (no fractional part) and always non-negative; Type decides
	// whether it counts as income or expense. Date is the wire form
	// (YYYY-MM-DD or RFC3339) and is parsed lazily during aggregation.
	Transaction struct {
		ID              string          `json:"id" firestore:"id"`
		UserID          string          `json:"userId" firestore:"userId"`
		Type            TransactionType `json:"type" firestore:"type"`
		Amount          int64           `json:"amount" firestore:"amount"`
		CategoryID      string          `json:"categoryId" firestore:"categoryId"`
		PaymentMethodID string          `json:"paymentMethodId" firestore:"paymentMethodId"`
		Description     string          `json:"description,omitempty" firestore:"description"`
		Date            string          `json:"date" firestore:"date"`
		IsRecurring     bool            `json:"isRecurring" firestore:"isRecurring"`
		Frequency       Frequency       `json:"recurringFrequency,omitempty" firestore:"recurringFrequency"`
		CreatedAt       time.Time       `json:"createdAt" firestore:"createdAt"`
	}

	Category struct {
		ID        string          `json:"id" firestore:"id"`
		UserID    string          `json:"userId" firestore:"userId"`
		Name      string          `json:"name" firestore:"name"`
		Icon      string          `json:"icon" firestore:"icon"`
		Type      TransactionType `json:"type" firestore:"type"`
		CreatedAt time.Time       `json:"createdAt" firestore:"createdAt"`
	}

	// PaymentMethod carries the authoritative Balance. The balance is adjusted
	// when transactions are created or deleted, never recomputed from history.
	PaymentMethod struct {
		ID        string     `json:"id" firestore:"id"`
		UserID    string     `json:"userId" firestore:"userId"`
		Name      string     `json:"name" firestore:"name"`
		Icon      string     `json:"icon" firestore:"icon"`
		Type      MethodType `json:"type" firestore:"type"`
		Balance   int64      `json:"balance" firestore:"balance"`
		CreatedAt time.Time  `json:"createdAt" firestore:"createdAt"`
	}

	Budget struct {
		ID         string       `json:"id" firestore:"id"`
		UserID     string       `json:"userId" firestore:"userId"`
		CategoryID string       `json:"categoryId" firestore:"categoryId"`
		Amount     int64        `json:"amount" firestore:"amount"`
		Period     BudgetPeriod `json:"period" firestore:"period"`
		CreatedAt  time.Time    `json:"createdAt" firestore:"createdAt"`
	}

	UserProfile struct {
		UID       string    `json:"uid" firestore:"uid"`
		Email     string    `json:"email" firestore:"email"`
		Name      string    `json:"name" firestore:"name"`
		Phone     string    `json:"phone,omitempty" firestore:"phone"`
		PhotoURL  string    `json:"photoURL,omitempty" firestore:"photoURL"`
		CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	}
)

var (
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidMethod    = errors.New("invalid payment method type")
	ErrInvalidPeriod    = errors.New("invalid budget period")
	ErrInvalidFrequency = errors.New("invalid recurring frequency")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyCategory    = errors.New("empty category id")
	ErrEmptyMethod      = errors.New("empty payment method id")
	ErrMalformedDate    = errors.New("malformed transaction date")
)

// IsValid reports whether t is one of the two known transaction types.
func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

func (m MethodType) IsValid() bool {
	return m == Cash || m == Bank || m == Card
}

func (p BudgetPeriod) IsValid() bool {
	return p == PeriodMonthly || p == PeriodWeekly
}

func (f Frequency) IsValid() bool {
	return f == FrequencyDaily || f == FrequencyWeekly || f == FrequencyMonthly
}

func (t Transaction) Validate() error {
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if t.Amount < 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.CategoryID) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(t.PaymentMethodID) == "" {
		return ErrEmptyMethod
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if _, err := ParseDay(t.Date); err != nil {
		return err
	}
	if t.IsRecurring && !t.Frequency.IsValid() {
		return ErrInvalidFrequency
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Type.IsValid() {
		return ErrInvalidType
	}
	return nil
}

func (m PaymentMethod) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if !m.Type.IsValid() {
		return ErrInvalidMethod
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.CategoryID) == "" {
		return ErrEmptyCategory
	}
	if b.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !b.Period.IsValid() {
		return ErrInvalidPeriod
	}
	return nil
}

// ParseDay parses a transaction date in its wire form, accepting a bare
// calendar date or a full RFC 3339 timestamp. Only the calendar date matters
// downstream; any time-of-day component is preserved but comparisons in
// FilterByWindow are done on the date alone.
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrMalformedDate
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrMalformedDate
}
