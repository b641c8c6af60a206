package command

import (
	"context"
	"log"
	"time"

	"github.com/bancario/transaction-service/internal/domain"
	"github.com/bancario/transaction-service/internal/events"
	"github.com/bancario/transaction-service/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Orchestrator drives single-account operations through a fixed sequence:
// fetch -> validate -> price -> derive snapshot -> commit -> counter -> journal.
// Failure before the commit leaves no trace. Failure strictly between commit
// and journal leaves the account mutated with no local audit row; that narrow
// window is accepted and not auto-repaired here.
type Orchestrator struct {
	gateway   AccountGateway
	journal   Journal
	cache     ViewCacher
	notifier  CounterNotifier
	publisher EventPublisher
}

func NewOrchestrator(
	gateway AccountGateway,
	journal Journal,
	cache ViewCacher,
	notifier CounterNotifier,
	publisher EventPublisher,
) *Orchestrator {
	return &Orchestrator{
		gateway:   gateway,
		journal:   journal,
		cache:     cache,
		notifier:  notifier,
		publisher: publisher,
	}
}

// ProcessDeposit credits a passive account with the requested amount net of
// fee. Pricing reads the lightweight transaction-status view; validation and
// the balance derivation use the one snapshot fetched up front.
func (o *Orchestrator) ProcessDeposit(ctx context.Context, req domain.TransactionRequest) (*domain.Transaction, error) {
	log.Printf("processing deposit for account %s", req.AccountID)

	account, err := o.fetchAccount(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if err := validatePassiveAccount(account); err != nil {
		return nil, err
	}

	status, err := o.gateway.GetTransactionStatus(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	fee := Fee(status)
	net := req.Amount.Sub(fee)

	_, core, err := o.commit(ctx, account.WithBalance(account.Balance.Add(net)))
	if err != nil {
		return nil, err
	}

	o.notifier.IncrementCounter(account.ID)
	return o.journalRecord(ctx, req, account, core, net, fee, domain.TypeDeposit)
}

// ProcessWithdrawal debits a passive account by the requested amount plus fee.
func (o *Orchestrator) ProcessWithdrawal(ctx context.Context, req domain.TransactionRequest) (*domain.Transaction, error) {
	log.Printf("processing withdrawal for account %s", req.AccountID)

	account, err := o.fetchAccount(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	record, _, err := o.withdrawalLeg(ctx, req, account)
	return record, err
}

// ProcessPayment reduces the drawn amount of a credit product. The fee is
// collected by drawing it back against the line: the debt shrinks by the
// payment net of fee.
func (o *Orchestrator) ProcessPayment(ctx context.Context, req domain.TransactionRequest) (*domain.Transaction, error) {
	log.Printf("processing payment for credit product %s", req.AccountID)

	account, err := o.fetchAccount(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if err := validatePayment(account, req.Amount); err != nil {
		return nil, err
	}
	fee := Fee(account.PricingStatus())

	_, core, err := o.commit(ctx, account.WithAmountUsed(account.AmountUsed.Sub(req.Amount).Add(fee)))
	if err != nil {
		return nil, err
	}

	o.notifier.IncrementCounter(account.ID)
	return o.journalRecord(ctx, req, account, core, req.Amount.Neg(), fee, domain.TypePayment)
}

// ProcessConsumption draws against a credit card's available limit. The fee
// counts toward the draw, so consumption plus fee must fit in the remaining
// limit.
func (o *Orchestrator) ProcessConsumption(ctx context.Context, req domain.TransactionRequest) (*domain.Transaction, error) {
	log.Printf("processing consumption for credit card %s", req.AccountID)

	account, err := o.fetchAccount(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	fee := Fee(account.PricingStatus())
	totalDraw := req.Amount.Add(fee)

	if err := validateConsumption(account, totalDraw); err != nil {
		return nil, err
	}

	_, core, err := o.commit(ctx, account.WithAmountUsed(account.AmountUsed.Add(totalDraw)))
	if err != nil {
		return nil, err
	}

	o.notifier.IncrementCounter(account.ID)
	return o.journalRecord(ctx, req, account, core, req.Amount, fee, domain.TypeConsumption)
}

// depositLeg runs the deposit sequence against an already-resolved snapshot.
// It returns the journaled record and the post-commit snapshot so a caller
// can chain further mutations without re-fetching.
func (o *Orchestrator) depositLeg(ctx context.Context, req domain.TransactionRequest, account domain.Account) (*domain.Transaction, domain.Account, error) {
	fee := Fee(account.PricingStatus())
	net := req.Amount.Sub(fee)

	updated, core, err := o.commit(ctx, account.WithBalance(account.Balance.Add(net)))
	if err != nil {
		return nil, domain.Account{}, err
	}

	o.notifier.IncrementCounter(account.ID)
	record, err := o.journalRecord(ctx, req, account, core, net, fee, domain.TypeDeposit)
	if err != nil {
		return nil, domain.Account{}, err
	}
	return record, updated, nil
}

// withdrawalLeg runs the withdrawal sequence against an already-resolved
// snapshot. Insufficient funds fails before any commit occurs.
func (o *Orchestrator) withdrawalLeg(ctx context.Context, req domain.TransactionRequest, account domain.Account) (*domain.Transaction, domain.Account, error) {
	fee := Fee(account.PricingStatus())
	totalDebit := req.Amount.Add(fee)

	if err := validateWithdrawal(account, totalDebit); err != nil {
		return nil, domain.Account{}, err
	}

	updated, core, err := o.commit(ctx, account.WithBalance(account.Balance.Sub(totalDebit)))
	if err != nil {
		return nil, domain.Account{}, err
	}

	o.notifier.IncrementCounter(account.ID)
	record, err := o.journalRecord(ctx, req, account, core, req.Amount.Neg(), fee, domain.TypeWithdrawal)
	if err != nil {
		return nil, domain.Account{}, err
	}
	return record, updated, nil
}

// fetchAccount resolves a snapshot by id, translating gateway 404s into the
// client-facing validation class.
func (o *Orchestrator) fetchAccount(ctx context.Context, accountID string) (domain.Account, error) {
	account, err := o.gateway.GetByID(ctx, accountID)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return domain.Account{}, domain.E(domain.KindValidation, "account not found with ID %s", accountID)
		}
		return domain.Account{}, err
	}
	return account, nil
}

// commit submits the full derived snapshot to the account service. This is
// the durability point; everything before it is pure.
func (o *Orchestrator) commit(ctx context.Context, snapshot domain.Account) (domain.Account, domain.CoreTransactionResult, error) {
	updated, err := o.gateway.UpdateBalance(ctx, snapshot.ID, snapshot)
	if err != nil {
		return domain.Account{}, domain.CoreTransactionResult{}, err
	}
	core := domain.CoreTransactionResult{
		CorrelationID: uuid.NewString(),
		Success:       true,
		NewBalance:    updated.Balance,
	}
	return updated, core, nil
}

// journalRecord appends the completed record and warms the read model. The
// description is annotated when a fee was charged.
func (o *Orchestrator) journalRecord(
	ctx context.Context,
	req domain.TransactionRequest,
	account domain.Account,
	core domain.CoreTransactionResult,
	signedAmount, fee decimal.Decimal,
	txType domain.TransactionType,
) (*domain.Transaction, error) {
	description := req.Description
	if fee.IsPositive() {
		description += " (Fee: " + fee.String() + ")"
	}

	record := &domain.Transaction{
		ID:                utils.GenerateID("tan"),
		AccountID:         account.ID,
		CustomerID:        req.CustomerID,
		Type:              txType,
		Amount:            signedAmount,
		Fee:               fee,
		ProductType:       account.ProductType,
		ProductName:       account.ProductName(),
		TransactionDate:   time.Now().UTC(),
		Description:       description,
		ExternalReference: core.CorrelationID,
	}
	if err := o.journal.Create(ctx, record); err != nil {
		return nil, err
	}
	o.cache.CacheTransactionView(ctx, record.View())

	if err := o.publisher.Publish(ctx, events.TransactionEventsStream, events.TransactionCompleted, events.TransactionCompletedEvent{
		TransactionID: record.ID,
		AccountID:     record.AccountID,
		CustomerID:    record.CustomerID,
		Type:          string(record.Type),
		Amount:        record.Amount,
		Fee:           record.Fee,
	}); err != nil {
		log.Printf("failed to publish %s event for transaction %s: %v", events.TransactionCompleted, record.ID, err)
	}
	return record, nil
}
