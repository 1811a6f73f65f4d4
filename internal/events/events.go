package events

import (
	"context"
	"time"
)

// TransactionCompleted is emitted after a ledger operation commits. EventID
// is unique per publish so consumers can dedupe redelivered messages.
type TransactionCompleted struct {
	EventID                  string    `json:"eventId"`
	TransactionID            int64     `json:"transactionId"`
	Type                     string    `json:"type"`
	OriginAccountNumber      string    `json:"originAccountNumber,omitempty"`
	DestinationAccountNumber string    `json:"destinationAccountNumber,omitempty"`
	Amount                   string    `json:"amount"`
	Fee                      string    `json:"fee"`
	OccurredAt               time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, event TransactionCompleted) error
}
