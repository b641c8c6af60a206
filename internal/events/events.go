package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	TransactionCompleted = "transaction.completed"
	TransferCompensated  = "transfer.compensated"
	TransferEscalated    = "transfer.escalated"
)

// Stream names
const (
	TransactionEventsStream = "transaction.events"
)

// Event is the envelope written to the stream.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// TransactionCompletedEvent is emitted after a record is journaled.
type TransactionCompletedEvent struct {
	TransactionID string          `json:"transactionId"`
	AccountID     string          `json:"accountId"`
	CustomerID    string          `json:"customerId"`
	Type          string          `json:"transactionType"`
	Amount        decimal.Decimal `json:"amount"`
	Fee           decimal.Decimal `json:"fee"`
}

// TransferCompensatedEvent is emitted when a failed transfer was successfully
// reversed: funds are back on the source account.
type TransferCompensatedEvent struct {
	SourceAccountNumber string          `json:"sourceAccountNumber"`
	TargetAccountNumber string          `json:"targetAccountNumber"`
	Amount              decimal.Decimal `json:"amount"`
}

// TransferEscalatedEvent is emitted when the reversal itself failed. The
// source account is debited with no matching credit anywhere; a human must
// reconcile it.
type TransferEscalatedEvent struct {
	SourceAccountID     string          `json:"sourceAccountId"`
	SourceAccountNumber string          `json:"sourceAccountNumber"`
	TargetAccountNumber string          `json:"targetAccountNumber"`
	Amount              decimal.Decimal `json:"amount"`
	Reason              string          `json:"reason"`
}
