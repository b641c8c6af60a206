package command

import (
	"context"
	"log"

	"github.com/bancario/transaction-service/internal/domain"
	"github.com/bancario/transaction-service/internal/events"
	"github.com/bancario/transaction-service/internal/utils"
	"github.com/shopspring/decimal"
)

// TransferState names the phases of a two-leg transfer.
//
//	RESOLVING -> VALIDATING -> DEBITING -> CREDITING -> COMPLETED
//	CREDITING -> COMPENSATING -> {COMPENSATED | ESCALATED}
type TransferState string

const (
	StateResolving    TransferState = "RESOLVING"
	StateValidating   TransferState = "VALIDATING"
	StateDebiting     TransferState = "DEBITING"
	StateCrediting    TransferState = "CREDITING"
	StateCompleted    TransferState = "COMPLETED"
	StateCompensating TransferState = "COMPENSATING"
	StateCompensated  TransferState = "COMPENSATED"
	StateEscalated    TransferState = "ESCALATED"
)

// TransferOutcome is the tagged result of a saga run: the terminal state plus,
// when completed, the synthesized TRANSFER record.
type TransferOutcome struct {
	State  TransferState
	Record *domain.Transaction
}

// TransferSaga coordinates a debit and a credit across two accounts without a
// distributed transaction. The legs are strictly sequential: the debit commit
// and journal write fully complete before the credit begins. On credit failure
// exactly one compensating deposit is attempted, never retried.
type TransferSaga struct {
	orchestrator *Orchestrator
}

func NewTransferSaga(orchestrator *Orchestrator) *TransferSaga {
	return &TransferSaga{orchestrator: orchestrator}
}

// Execute runs the transfer and returns the synthesized TRANSFER record on
// success. Compensated and escalated runs surface as tagged errors.
func (s *TransferSaga) Execute(ctx context.Context, req domain.TransferRequest) (*domain.Transaction, error) {
	outcome, err := s.run(ctx, req)
	return outcome.Record, err
}

func (s *TransferSaga) run(ctx context.Context, req domain.TransferRequest) (TransferOutcome, error) {
	log.Printf("transfer started: %s -> %s amount %s",
		req.SourceAccountNumber, req.TargetAccountNumber, req.Amount)

	// RESOLVING: both lookups are pure reads, safe to parallelize.
	source, target, err := s.resolve(ctx, req)
	if err != nil {
		return TransferOutcome{State: StateResolving}, err
	}

	// VALIDATING: both accounts must be active. No side effects yet.
	if source.Status != domain.StatusActive || target.Status != domain.StatusActive {
		return TransferOutcome{State: StateValidating}, domain.E(domain.KindValidation,
			"one or both accounts are not active for transfer (source %s, target %s)",
			source.Status, target.Status)
	}

	// DEBITING: withdrawal leg against the already-resolved source snapshot.
	debitReq := domain.TransactionRequest{
		AccountID:   source.ID,
		CustomerID:  source.CustomerID,
		Amount:      req.Amount,
		Description: "Transfer sent to " + target.AccountNumber + ": " + req.Description,
	}
	debitRecord, debitedSource, err := s.orchestrator.withdrawalLeg(ctx, debitReq, source)
	if err != nil {
		return TransferOutcome{State: StateDebiting}, err
	}

	// CREDITING: deposit leg against the target.
	creditReq := domain.TransactionRequest{
		AccountID:   target.ID,
		CustomerID:  target.CustomerID,
		Amount:      req.Amount,
		Description: "Transfer received from " + source.AccountNumber + ": " + req.Description,
	}
	creditRecord, _, err := s.orchestrator.depositLeg(ctx, creditReq, target)
	if err != nil {
		log.Printf("credit leg failed for target account %s, starting reversal: %v", target.ID, err)
		return s.compensate(ctx, req, debitedSource, target, err)
	}

	log.Printf("transfer completed: %s -> %s amount %s",
		req.SourceAccountNumber, req.TargetAccountNumber, req.Amount)

	// COMPLETED: single TRANSFER view synthesized from the two legs, carrying
	// the credit leg's correlation id.
	record := &domain.Transaction{
		ID:                utils.GenerateID("tan"),
		AccountID:         source.ID,
		CustomerID:        source.CustomerID,
		Type:              domain.TypeTransfer,
		Amount:            req.Amount,
		Fee:               debitRecord.Fee.Add(creditRecord.Fee),
		ProductType:       source.ProductType,
		ProductName:       source.ProductName(),
		TransactionDate:   creditRecord.TransactionDate,
		Description:       "Transfer completed to " + target.AccountNumber,
		ExternalReference: creditRecord.ExternalReference,
	}
	return TransferOutcome{State: StateCompleted, Record: record}, nil
}

// resolve fetches source and target concurrently by account number.
func (s *TransferSaga) resolve(ctx context.Context, req domain.TransferRequest) (domain.Account, domain.Account, error) {
	type lookup struct {
		account domain.Account
		err     error
	}
	sourceCh := make(chan lookup, 1)
	targetCh := make(chan lookup, 1)

	go func() {
		account, err := s.orchestrator.gateway.GetByNumber(ctx, req.SourceAccountNumber)
		sourceCh <- lookup{account, err}
	}()
	go func() {
		account, err := s.orchestrator.gateway.GetByNumber(ctx, req.TargetAccountNumber)
		targetCh <- lookup{account, err}
	}()

	source, target := <-sourceCh, <-targetCh
	for _, l := range []lookup{source, target} {
		if l.err == nil {
			continue
		}
		if domain.KindOf(l.err) == domain.KindNotFound {
			return domain.Account{}, domain.Account{}, domain.E(domain.KindValidation,
				"source or target account not found, check account numbers")
		}
		return domain.Account{}, domain.Account{}, l.err
	}
	return source.account, target.account, nil
}

// compensate issues the single reversal attempt: a fee-free deposit of the
// original amount back to the source, derived from the post-debit snapshot.
func (s *TransferSaga) compensate(
	ctx context.Context,
	req domain.TransferRequest,
	debitedSource domain.Account,
	target domain.Account,
	cause error,
) (TransferOutcome, error) {
	restored := debitedSource.WithBalance(debitedSource.Balance.Add(req.Amount))
	_, core, err := s.orchestrator.commit(ctx, restored)
	if err != nil {
		// ESCALATED: source debited, target never credited, reversal failed.
		// Manual reconciliation required; no automatic retry.
		log.Printf("ALERT: reversal to source account %s failed after credit failure, manual reconciliation required: %v",
			debitedSource.ID, err)
		s.publishSagaEvent(ctx, events.TransferEscalated, events.TransferEscalatedEvent{
			SourceAccountID:     debitedSource.ID,
			SourceAccountNumber: req.SourceAccountNumber,
			TargetAccountNumber: req.TargetAccountNumber,
			Amount:              req.Amount,
			Reason:              err.Error(),
		})
		return TransferOutcome{State: StateEscalated}, domain.Wrap(domain.KindTransferEscalated, err,
			"transfer escalated: debit from account %s could not be reversed after credit to %s failed",
			req.SourceAccountNumber, req.TargetAccountNumber)
	}

	log.Printf("reversal succeeded: balance restored on source account %s", debitedSource.ID)

	// Funds are restored; the reversal is journaled as a deposit. A journal
	// failure here no longer changes the outcome and is only logged.
	reversalReq := domain.TransactionRequest{
		AccountID:   debitedSource.ID,
		CustomerID:  debitedSource.CustomerID,
		Amount:      req.Amount,
		Description: "REVERSAL: failed transfer to " + target.AccountNumber,
	}
	if _, err := s.orchestrator.journalRecord(ctx, reversalReq, debitedSource, core, req.Amount, decimal.Zero, domain.TypeDeposit); err != nil {
		log.Printf("failed to journal reversal for account %s: %v", debitedSource.ID, err)
	}

	s.publishSagaEvent(ctx, events.TransferCompensated, events.TransferCompensatedEvent{
		SourceAccountNumber: req.SourceAccountNumber,
		TargetAccountNumber: req.TargetAccountNumber,
		Amount:              req.Amount,
	})
	return TransferOutcome{State: StateCompensated}, domain.Wrap(domain.KindTransferIncomplete, cause,
		"transfer failed: credit to account %s failed, debit was successfully reverted",
		target.AccountNumber)
}

func (s *TransferSaga) publishSagaEvent(ctx context.Context, eventType string, data any) {
	if err := s.orchestrator.publisher.Publish(ctx, events.TransactionEventsStream, eventType, data); err != nil {
		log.Printf("failed to publish %s event: %v", eventType, err)
	}
}
