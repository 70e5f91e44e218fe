// Package store defines the persistence ports the rest of the application
// programs against. Every operation is scoped to a user; identifiers are
// opaque strings minted by the caller.
package store

import (
	"context"
	"errors"

	"plenio/internal/core"
)

var (
	// ErrNotFound is returned when an entity does not exist or belongs to a
	// different user; backends never distinguish the two.
	ErrNotFound = errors.New("not found")
)

type (
	ProfileStore interface {
		UpsertProfile(ctx context.Context, p core.UserProfile) error
		GetProfile(ctx context.Context, uid string) (core.UserProfile, error)
	}

	PaymentMethodStore interface {
		CreatePaymentMethod(ctx context.Context, m core.PaymentMethod) error
		ListPaymentMethods(ctx context.Context, userID string) ([]core.PaymentMethod, error)
		GetPaymentMethod(ctx context.Context, userID, id string) (core.PaymentMethod, error)
		UpdatePaymentMethod(ctx context.Context, m core.PaymentMethod) error
		DeletePaymentMethod(ctx context.Context, userID, id string) error
	}

	CategoryStore interface {
		CreateCategory(ctx context.Context, c core.Category) error
		ListCategories(ctx context.Context, userID string) ([]core.Category, error)
		GetCategory(ctx context.Context, userID, id string) (core.Category, error)
		UpdateCategory(ctx context.Context, c core.Category) error
		DeleteCategory(ctx context.Context, userID, id string) error
	}

	TransactionStore interface {
		CreateTransaction(ctx context.Context, t core.Transaction) error
		// ListTransactions returns up to limit transactions for the user
		// ordered by date descending; limit <= 0 means no limit.
		ListTransactions(ctx context.Context, userID string, limit int) ([]core.Transaction, error)
		GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, userID, id string) error

		// Recurring-template support for the materializer worker.
		ListRecurringTemplates(ctx context.Context) ([]core.Transaction, error)
		GetRecurringLastRun(ctx context.Context, templateID string) (string, error)
		SetRecurringLastRun(ctx context.Context, templateID, day string) error
	}

	BudgetStore interface {
		CreateBudget(ctx context.Context, b core.Budget) error
		ListBudgets(ctx context.Context, userID string) ([]core.Budget, error)
		GetBudget(ctx context.Context, userID, id string) (core.Budget, error)
		UpdateBudget(ctx context.Context, b core.Budget) error
		DeleteBudget(ctx context.Context, userID, id string) error
	}

	// Store is the full persistence surface a backend provides.
	Store interface {
		ProfileStore
		PaymentMethodStore
		CategoryStore
		TransactionStore
		BudgetStore
	}
)
