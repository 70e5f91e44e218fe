package amqp

import (
	"encoding/json"
	"time"
)

const (
	EventTransactionCreated = "transaction.created"
	EventTransactionDeleted = "transaction.deleted"
)

// TransactionEvent is a lightweight message emitted after a transaction write.
// It carries only identifiers; consumers fetch the full state from the store
// so stale payloads can never overwrite newer data.
type TransactionEvent struct {
	Event         string    `json:"event"`
	TransactionID string    `json:"transactionId"`
	UserID        string    `json:"userId"`
	CategoryID    string    `json:"categoryId"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewTransactionEvent creates an event with the current timestamp
func NewTransactionEvent(event, transactionID, userID, categoryID string) *TransactionEvent {
	return &TransactionEvent{
		Event:         event,
		TransactionID: transactionID,
		UserID:        userID,
		CategoryID:    categoryID,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (m *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionEventFromJSON creates an event from JSON bytes
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var msg TransactionEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
