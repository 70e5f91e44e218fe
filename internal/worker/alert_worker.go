// Package worker contains the background consumers that react to
// transaction events published by the API.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"plenio/internal/amqp"
	"plenio/internal/core"
	"plenio/internal/log"
	"plenio/internal/store"
)

// warnThreshold is the consumption percentage at which a budget is flagged as
// approaching its limit.
const warnThreshold = 80.0

// AlertWorker recomputes budget consumption for a user whenever one of their
// transactions changes, and logs alerts for budgets that are over or close to
// their limit. Alerts are derived state: the worker never writes anything
// back to the store.
type AlertWorker struct {
	store store.Store
}

func NewAlertWorker(st store.Store) *AlertWorker {
	return &AlertWorker{store: st}
}

// HandleTransactionEvent processes a single transaction event from AMQP.
// Both created and deleted events trigger the same recheck: either direction
// can move a budget across its limit.
func (w *AlertWorker) HandleTransactionEvent(ctx context.Context, event *amqp.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"event", event.Event,
		log.FieldTransactionID, event.TransactionID,
		log.FieldUserID, event.UserID,
		log.FieldComponent, log.ComponentWorker)

	when := event.Timestamp
	if when.IsZero() {
		when = time.Now()
	}

	statuses, err := w.CheckUserBudgets(ctx, event.UserID, when)
	if err != nil {
		return fmt.Errorf("check budgets for user %s: %w", event.UserID, err)
	}

	for _, status := range statuses {
		switch {
		case status.OverBudget:
			slog.WarnContext(ctx, "Budget exceeded",
				log.FieldUserID, event.UserID,
				log.FieldBudgetID, status.Budget.ID,
				log.FieldCategoryID, status.Budget.CategoryID,
				"spent", status.Spent,
				"limit", status.Budget.Amount)
		case status.Percentage >= warnThreshold:
			slog.WarnContext(ctx, "Budget nearly exhausted",
				log.FieldUserID, event.UserID,
				log.FieldBudgetID, status.Budget.ID,
				log.FieldCategoryID, status.Budget.CategoryID,
				"spent", status.Spent,
				"limit", status.Budget.Amount,
				"percentage", status.Percentage)
		}
	}

	return nil
}

// CheckUserBudgets computes the status of every budget the user has against
// the calendar month containing ref.
func (w *AlertWorker) CheckUserBudgets(ctx context.Context, userID string, ref time.Time) ([]core.BudgetStatus, error) {
	budgets, err := w.store.ListBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	if len(budgets) == 0 {
		return nil, nil
	}

	txns, err := w.store.ListTransactions(ctx, userID, 0)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	window := core.MonthWindow(ref)
	inWindow, err := core.FilterByWindow(txns, window)
	if err != nil {
		return nil, fmt.Errorf("filter transactions: %w", err)
	}

	statuses := make([]core.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		statuses = append(statuses, core.StatusFor(b, inWindow))
	}
	return statuses, nil
}
