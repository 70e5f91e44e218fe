package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"plenio/internal/core"
	"plenio/internal/log"
	"plenio/internal/store"
)

// RecurringProcessor materializes concrete transactions from recurring
// transaction templates. A template is a transaction with IsRecurring set;
// when its frequency says it is due, the processor writes a fresh
// non-recurring copy dated today and records the run.
type RecurringProcessor struct {
	store store.Store
	txns  *TransactionService
}

// NewRecurringProcessor creates a new recurring transaction processor.
func NewRecurringProcessor(st store.Store, txns *TransactionService) *RecurringProcessor {
	return &RecurringProcessor{
		store: st,
		txns:  txns,
	}
}

// ProcessDue processes all recurring templates that are due for execution and
// returns how many transactions were created. Per-template failures are
// logged and skipped so one broken template never stalls the rest.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	if p.store == nil || p.txns == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	templates, err := p.store.ListRecurringTemplates(ctx)
	if err != nil {
		return 0, fmt.Errorf("list recurring templates: %w", err)
	}

	slog.InfoContext(ctx, "Processing recurring transactions",
		"total_active", len(templates),
		"processing_date", now.Format("2006-01-02"))

	processed := 0

	for _, tpl := range templates {
		due, err := p.isDue(ctx, tpl, now)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to check if template is due",
				"template_id", tpl.ID,
				"error", err)
			continue
		}
		if !due {
			continue
		}

		txn := core.Transaction{
			UserID:          tpl.UserID,
			Type:            tpl.Type,
			Amount:          tpl.Amount,
			CategoryID:      tpl.CategoryID,
			PaymentMethodID: tpl.PaymentMethodID,
			Description:     tpl.Description,
			Date:            now.Format("2006-01-02"),
		}

		created, err := p.txns.Create(ctx, txn)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to create transaction from template",
				"template_id", tpl.ID,
				"description", tpl.Description,
				"error", err)
			continue
		}

		if err := p.store.SetRecurringLastRun(ctx, tpl.ID, now.Format("2006-01-02")); err != nil {
			slog.ErrorContext(ctx, "Failed to record template run",
				"template_id", tpl.ID,
				"error", err)
			// Continue anyway - the transaction was created successfully
		}

		processed++
		slog.InfoContext(ctx, "Created transaction from recurring template",
			"template_id", tpl.ID,
			log.FieldTransactionID, created.ID,
			log.FieldAmount, tpl.Amount,
			log.FieldComponent, log.ComponentRecurring,
			"frequency", tpl.Frequency)
	}

	slog.InfoContext(ctx, "Recurring transaction processing complete",
		"processed", processed,
		"total_checked", len(templates))

	return processed, nil
}

// isDue resolves the template's last run and dispatches to the frequency's
// dueness strategy.
func (p *RecurringProcessor) isDue(ctx context.Context, tpl core.Transaction, now time.Time) (bool, error) {
	lastRunDay, err := p.store.GetRecurringLastRun(ctx, tpl.ID)
	if err != nil {
		return false, fmt.Errorf("get last run: %w", err)
	}

	var lastRun time.Time
	if lastRunDay != "" {
		lastRun, err = core.ParseDay(lastRunDay)
		if err != nil {
			return false, fmt.Errorf("parse last run %q: %w", lastRunDay, err)
		}
	}

	start, err := core.ParseDay(tpl.Date)
	if err != nil {
		return false, fmt.Errorf("parse template start date %q: %w", tpl.Date, err)
	}

	checker, err := GetDuenessChecker(tpl.Frequency)
	if err != nil {
		return false, err
	}

	return checker.IsDue(lastRun, now, start), nil
}
