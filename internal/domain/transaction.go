package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypeDeposit     TransactionType = "DEPOSIT"
	TypeWithdrawal  TransactionType = "WITHDRAWAL"
	TypePayment     TransactionType = "PAYMENT"
	TypeConsumption TransactionType = "CONSUMPTION"
	TypeTransfer    TransactionType = "TRANSFER"
)

// Transaction is a completed journal record. Rows are written once at the end
// of a successful flow and never mutated afterwards.
type Transaction struct {
	ID                string          `json:"id"`
	AccountID         string          `json:"accountId"`
	CustomerID        string          `json:"customerId"`
	Type              TransactionType `json:"transactionType"`
	Amount            decimal.Decimal `json:"amount"`
	Fee               decimal.Decimal `json:"fee"`
	ProductType       ProductType     `json:"productType"`
	ProductName       string          `json:"productName"`
	TransactionDate   time.Time       `json:"transactionDate"`
	Description       string          `json:"description"`
	ExternalReference string          `json:"externalReference"`
}

// TransactionView is the read-optimised projection of a journal record. It is
// what the query side serves and what gets cached in Redis.
type TransactionView struct {
	ID                string          `json:"id"`
	AccountID         string          `json:"accountId"`
	CustomerID        string          `json:"customerId"`
	Type              TransactionType `json:"transactionType"`
	Amount            decimal.Decimal `json:"amount"`
	Fee               decimal.Decimal `json:"fee"`
	ProductType       ProductType     `json:"productType"`
	ProductName       string          `json:"productName"`
	TransactionDate   time.Time       `json:"transactionDate"`
	Description       string          `json:"description"`
	ExternalReference string          `json:"externalReference"`
}

// View converts the write model to its read projection.
func (t *Transaction) View() *TransactionView {
	return &TransactionView{
		ID:                t.ID,
		AccountID:         t.AccountID,
		CustomerID:        t.CustomerID,
		Type:              t.Type,
		Amount:            t.Amount,
		Fee:               t.Fee,
		ProductType:       t.ProductType,
		ProductName:       t.ProductName,
		TransactionDate:   t.TransactionDate,
		Description:       t.Description,
		ExternalReference: t.ExternalReference,
	}
}

// TransactionRequest is a single-account money-movement request. Transient,
// one per call.
type TransactionRequest struct {
	AccountID   string
	CustomerID  string
	Amount      decimal.Decimal
	Description string
}

// TransferRequest moves funds between two accounts addressed by number.
type TransferRequest struct {
	SourceAccountNumber string
	TargetAccountNumber string
	Amount              decimal.Decimal
	Description         string
}

// CoreTransactionResult is the return contract of the commit step: the
// account-of-record accepted the snapshot replace.
type CoreTransactionResult struct {
	CorrelationID string
	Success       bool
	NewBalance    decimal.Decimal
}
