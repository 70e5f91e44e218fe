package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"plenio/internal/amqp"
	"plenio/internal/core"
	"plenio/internal/log"
	"plenio/internal/store"
)

// TransactionService orchestrates transaction writes across the store and
// AMQP. Creating a transaction adjusts the balance of the payment method it
// was made with; deleting it reverts the adjustment. Balances are never
// recomputed from history.
type TransactionService struct {
	store      store.Store
	amqpClient *amqp.Client
}

func NewTransactionService(st store.Store, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{
		store:      st,
		amqpClient: amqpClient,
	}
}

// Create validates and persists a transaction, applies its balance delta to
// the payment method, and publishes a created event. The event publish is
// best-effort: a broker outage never fails the request.
func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	// The payment method must exist before we record anything against it.
	method, err := s.store.GetPaymentMethod(ctx, t.UserID, t.PaymentMethodID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get payment method: %w", err)
	}

	if err := s.store.CreateTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	method.Balance += balanceDelta(t)
	if err := s.store.UpdatePaymentMethod(ctx, method); err != nil {
		slog.ErrorContext(ctx, "Failed to apply balance delta",
			log.FieldTransactionID, t.ID,
			log.FieldMethodID, method.ID,
			log.FieldComponent, log.ComponentTransaction,
			"error", err)
		// Don't fail the request - the transaction is saved
	}

	if err := s.publishEvent(ctx, amqp.EventTransactionCreated, t); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			log.FieldTransactionID, t.ID,
			log.FieldComponent, log.ComponentAMQP,
			"error", err)
	}

	return t, nil
}

// Delete removes a transaction and reverts its balance delta on the payment
// method.
func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	t, err := s.store.GetTransaction(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteTransaction(ctx, userID, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	method, err := s.store.GetPaymentMethod(ctx, userID, t.PaymentMethodID)
	switch {
	case err == nil:
		method.Balance -= balanceDelta(t)
		if err := s.store.UpdatePaymentMethod(ctx, method); err != nil {
			slog.ErrorContext(ctx, "Failed to revert balance delta",
				log.FieldTransactionID, id,
				log.FieldMethodID, method.ID,
				log.FieldComponent, log.ComponentTransaction,
				"error", err)
		}
	default:
		// The method may have been deleted since; nothing to revert.
		slog.WarnContext(ctx, "Payment method missing on delete, skipping balance revert",
			log.FieldTransactionID, id,
			log.FieldMethodID, t.PaymentMethodID)
	}

	if err := s.publishEvent(ctx, amqp.EventTransactionDeleted, t); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			log.FieldTransactionID, id,
			log.FieldComponent, log.ComponentAMQP,
			"error", err)
	}

	return nil
}

// balanceDelta is the signed effect of a transaction on its payment method:
// income adds, expense subtracts.
func balanceDelta(t core.Transaction) int64 {
	if t.Type == core.Income {
		return t.Amount
	}
	return -t.Amount
}

func (s *TransactionService) publishEvent(ctx context.Context, event string, t core.Transaction) error {
	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping event publish")
		return nil
	}
	return s.amqpClient.PublishTransactionEvent(ctx, amqp.NewTransactionEvent(event, t.ID, t.UserID, t.CategoryID))
}
