package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductType classifies an account as deposit-type or credit-type.
type ProductType string

const (
	// ProductPassive is a deposit product: Balance holds available funds.
	ProductPassive ProductType = "PASSIVE"
	// ProductActive is a credit product: Balance holds the credit limit and
	// AmountUsed the drawn amount.
	ProductActive ProductType = "ACTIVE"
)

type AccountStatus string

const (
	StatusActive   AccountStatus = "ACTIVE"
	StatusInactive AccountStatus = "INACTIVE"
	StatusBlocked  AccountStatus = "BLOCKED"
	StatusClosed   AccountStatus = "CLOSED"
)

type CreditType string

const (
	CreditPersonal CreditType = "PERSONAL"
	CreditBusiness CreditType = "BUSINESS"
	CreditCard     CreditType = "CREDIT_CARD"
)

// Account is the point-in-time snapshot of account state owned by the account
// service. It is read and written as a whole: the update-balance endpoint is a
// full-object replace, so every field must survive a round trip. Treat values
// as immutable; derive mutated copies with WithBalance/WithAmountUsed so the
// pre-mutation snapshot stays available for compensation and audit.
type Account struct {
	ID            string        `json:"id"`
	CustomerID    string        `json:"customerId"`
	AccountNumber string        `json:"accountNumber"`
	ProductType   ProductType   `json:"productType"`
	AccountType   string        `json:"accountType"`
	CreditType    CreditType    `json:"creditType,omitempty"`
	Status        AccountStatus `json:"status"`
	OpeningDate   time.Time     `json:"openingDate"`

	// Balance is available funds for PASSIVE products, the credit limit for
	// ACTIVE products. AmountUsed is the drawn amount, ACTIVE only.
	Balance    decimal.Decimal `json:"balance"`
	AmountUsed decimal.Decimal `json:"amountUsed"`

	// Pricing configuration. Nil means the account service has no pricing
	// config for this account; fee calculation degrades to zero.
	MaintenanceFeeAmount       *decimal.Decimal `json:"maintenanceFeeAmount,omitempty"`
	RequiredDailyAverage       *decimal.Decimal `json:"requiredDailyAverage,omitempty"`
	FreeTransactionLimit       *int             `json:"freeTransactionLimit,omitempty"`
	TransactionFeeAmount       *decimal.Decimal `json:"transactionFeeAmount,omitempty"`
	CurrentMonthlyTransactions *int             `json:"currentMonthlyTransactions,omitempty"`
	MonthlyMovements           *int             `json:"monthlyMovements,omitempty"`
	SpecificDepositDate        *time.Time       `json:"specificDepositDate,omitempty"`

	Holders     []string `json:"holders,omitempty"`
	Signatories []string `json:"signatories,omitempty"`
}

// WithBalance returns a copy of the snapshot with only the balance changed.
func (a Account) WithBalance(balance decimal.Decimal) Account {
	a.Balance = balance
	return a
}

// WithAmountUsed returns a copy of the snapshot with only the drawn amount changed.
func (a Account) WithAmountUsed(amountUsed decimal.Decimal) Account {
	a.AmountUsed = amountUsed
	return a
}

// AvailableCredit is the remaining limit on an ACTIVE product.
func (a Account) AvailableCredit() decimal.Decimal {
	return a.Balance.Sub(a.AmountUsed)
}

// PricingStatus projects the pricing fields out of a full snapshot. Fee
// calculation over this projection must match fee calculation over the
// lightweight view served by the transaction-status endpoint.
func (a Account) PricingStatus() PricingStatus {
	return PricingStatus{
		FreeTransactionLimit:       a.FreeTransactionLimit,
		CurrentMonthlyTransactions: a.CurrentMonthlyTransactions,
		TransactionFeeAmount:       a.TransactionFeeAmount,
	}
}

// ProductName is the reporting classification of the product behind an
// account: the credit sub-type for ACTIVE products, the account type otherwise.
func (a Account) ProductName() string {
	if a.ProductType == ProductActive && a.CreditType != "" {
		return string(a.CreditType)
	}
	return a.AccountType
}

// PricingStatus is the lightweight pricing view returned by
// GET /accounts/{id}/transaction-status. Any nil field disables the fee.
type PricingStatus struct {
	FreeTransactionLimit       *int             `json:"freeTransactionLimit"`
	CurrentMonthlyTransactions *int             `json:"currentMonthlyTransactions"`
	TransactionFeeAmount       *decimal.Decimal `json:"transactionFeeAmount"`
}
