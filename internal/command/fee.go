package command

import (
	"github.com/bancario/transaction-service/internal/domain"
	"github.com/shopspring/decimal"
)

// Fee prices a transaction against the account's monthly usage: once the
// account has used up its free transactions, every further one costs the
// configured fee. A missing pricing config never blocks a transaction; it
// just makes it free.
func Fee(status domain.PricingStatus) decimal.Decimal {
	if status.CurrentMonthlyTransactions == nil ||
		status.FreeTransactionLimit == nil ||
		status.TransactionFeeAmount == nil {
		return decimal.Zero
	}
	if *status.CurrentMonthlyTransactions >= *status.FreeTransactionLimit {
		return *status.TransactionFeeAmount
	}
	return decimal.Zero
}
