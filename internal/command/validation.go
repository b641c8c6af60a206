package command

import (
	"github.com/bancario/transaction-service/internal/domain"
	"github.com/shopspring/decimal"
)

// Stateless precondition checks run before any mutation. Each failure carries
// a reason and produces zero side effects.

func validatePassiveAccount(account domain.Account) error {
	if account.ProductType != domain.ProductPassive {
		return domain.E(domain.KindValidation, "operation is only allowed for passive accounts")
	}
	if account.Status != domain.StatusActive {
		return domain.E(domain.KindValidation, "account %s is not active", account.ID)
	}
	return nil
}

func validateActiveAccount(account domain.Account) error {
	if account.ProductType != domain.ProductActive {
		return domain.E(domain.KindValidation, "operation is only allowed for credit products")
	}
	if account.Status != domain.StatusActive {
		return domain.E(domain.KindValidation, "account %s is not active", account.ID)
	}
	return nil
}

// validateWithdrawal checks the total debit (amount plus fee) against the
// available balance.
func validateWithdrawal(account domain.Account, totalDebit decimal.Decimal) error {
	if err := validatePassiveAccount(account); err != nil {
		return err
	}
	if account.Balance.LessThan(totalDebit) {
		return domain.E(domain.KindInsufficientFunds,
			"insufficient funds: cannot withdraw %s, available %s", totalDebit, account.Balance)
	}
	return nil
}

// validatePayment requires outstanding debt at least as large as the payment.
func validatePayment(account domain.Account, amount decimal.Decimal) error {
	if err := validateActiveAccount(account); err != nil {
		return err
	}
	if account.AmountUsed.IsZero() {
		return domain.E(domain.KindValidation, "account %s has no outstanding debt", account.ID)
	}
	if account.AmountUsed.LessThan(amount) {
		return domain.E(domain.KindValidation, "payment exceeds outstanding debt of %s", account.AmountUsed)
	}
	return nil
}

// validateConsumption checks the total draw (amount plus fee) against a
// credit card's remaining limit.
func validateConsumption(account domain.Account, totalDraw decimal.Decimal) error {
	if err := validateActiveAccount(account); err != nil {
		return err
	}
	if account.CreditType != domain.CreditCard {
		return domain.E(domain.KindValidation, "consumption is only allowed for credit card products")
	}
	if totalDraw.GreaterThan(account.AvailableCredit()) {
		return domain.E(domain.KindInsufficientFunds,
			"consumption exceeds available credit limit of %s", account.AvailableCredit())
	}
	return nil
}
