package command

import (
	"context"
	"strings"
	"testing"

	"github.com/bancario/transaction-service/internal/domain"
	"github.com/bancario/transaction-service/internal/events"
)

func sourceAccount(balance float64) domain.Account {
	a := passiveAccount(balance)
	a.ID = "acc-source"
	a.CustomerID = "cus-source"
	a.AccountNumber = "0100000001"
	return a
}

func targetAccount(balance float64) domain.Account {
	a := passiveAccount(balance)
	a.ID = "acc-target"
	a.CustomerID = "cus-target"
	a.AccountNumber = "0100000002"
	return a
}

func transferRequest(amount float64) domain.TransferRequest {
	return domain.TransferRequest{
		SourceAccountNumber: "0100000001",
		TargetAccountNumber: "0100000002",
		Amount:              dec(amount),
		Description:         "rent",
	}
}

func newTestSaga(accounts ...domain.Account) (*TransferSaga, *testEnv) {
	env := newTestEnv(accounts...)
	return NewTransferSaga(env.orchestrator), env
}

func TestTransferCompleted(t *testing.T) {
	saga, env := newTestSaga(sourceAccount(500), targetAccount(100))

	outcome, err := saga.run(context.Background(), transferRequest(200))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.State != StateCompleted {
		t.Fatalf("state = %s, want COMPLETED", outcome.State)
	}

	record := outcome.Record
	if record.Type != domain.TypeTransfer {
		t.Errorf("record type = %s, want TRANSFER", record.Type)
	}
	if !record.Amount.Equal(dec(200)) {
		t.Errorf("record amount = %s, want positive 200", record.Amount)
	}
	if record.ExternalReference == "" {
		t.Error("transfer record misses the credit leg correlation id")
	}

	if got := env.gateway.balanceOf("acc-source"); !got.Equal(dec(300)) {
		t.Errorf("source balance = %s, want 300", got)
	}
	if got := env.gateway.balanceOf("acc-target"); !got.Equal(dec(300)) {
		t.Errorf("target balance = %s, want 300", got)
	}

	// Both legs are journaled; the TRANSFER view itself is synthesized.
	if len(env.journal.records) != 2 {
		t.Fatalf("journal has %d records, want 2 legs", len(env.journal.records))
	}
	debit, credit := env.journal.records[0], env.journal.records[1]
	if debit.Type != domain.TypeWithdrawal || !debit.Amount.Equal(dec(-200)) {
		t.Errorf("debit leg = %s %s, want WITHDRAWAL -200", debit.Type, debit.Amount)
	}
	if credit.Type != domain.TypeDeposit || !credit.Amount.Equal(dec(200)) {
		t.Errorf("credit leg = %s %s, want DEPOSIT 200", credit.Type, credit.Amount)
	}
	if credit.ExternalReference != record.ExternalReference {
		t.Error("transfer record does not carry the credit leg correlation id")
	}
	if !strings.Contains(debit.Description, "Transfer sent to 0100000002") {
		t.Errorf("debit description = %q", debit.Description)
	}
	if !strings.Contains(credit.Description, "Transfer received from 0100000001") {
		t.Errorf("credit description = %q", credit.Description)
	}
}

func TestTransferAccountNotFound(t *testing.T) {
	saga, env := newTestSaga(sourceAccount(500)) // target missing

	outcome, err := saga.run(context.Background(), transferRequest(200))
	checkKind(t, err, domain.KindValidation)
	if outcome.State != StateResolving {
		t.Errorf("state = %s, want RESOLVING", outcome.State)
	}
	assertNoSideEffects(t, env)
}

func TestTransferInactiveAccount(t *testing.T) {
	target := targetAccount(100)
	target.Status = domain.StatusBlocked
	saga, env := newTestSaga(sourceAccount(500), target)

	outcome, err := saga.run(context.Background(), transferRequest(200))
	checkKind(t, err, domain.KindValidation)
	if outcome.State != StateValidating {
		t.Errorf("state = %s, want VALIDATING", outcome.State)
	}
	assertNoSideEffects(t, env)
}

func TestTransferInsufficientFunds(t *testing.T) {
	saga, env := newTestSaga(sourceAccount(150), targetAccount(100))

	outcome, err := saga.run(context.Background(), transferRequest(200))
	checkKind(t, err, domain.KindInsufficientFunds)
	if outcome.State != StateDebiting {
		t.Errorf("state = %s, want DEBITING", outcome.State)
	}
	assertNoSideEffects(t, env)
	if got := env.gateway.balanceOf("acc-source"); !got.Equal(dec(150)) {
		t.Errorf("source balance changed to %s on a rejected transfer", got)
	}
}

func TestTransferCompensated(t *testing.T) {
	saga, env := newTestSaga(sourceAccount(500), targetAccount(100))
	// Credit commit fails; the reversal against the source succeeds.
	env.gateway.updateErrs["acc-target"] = []error{
		domain.E(domain.KindServiceUnavailable, "account service returned 503"),
	}

	outcome, err := saga.run(context.Background(), transferRequest(200))
	checkKind(t, err, domain.KindTransferIncomplete)
	if outcome.State != StateCompensated {
		t.Fatalf("state = %s, want COMPENSATED", outcome.State)
	}
	if outcome.Record != nil {
		t.Error("compensated transfer must not return a TRANSFER record")
	}

	if got := env.gateway.balanceOf("acc-source"); !got.Equal(dec(500)) {
		t.Errorf("source balance = %s, want restored 500", got)
	}
	if got := env.gateway.balanceOf("acc-target"); !got.Equal(dec(100)) {
		t.Errorf("target balance = %s, want untouched 100", got)
	}

	// Journal: the debit leg plus the reversal deposit, no TRANSFER row.
	if len(env.journal.records) != 2 {
		t.Fatalf("journal has %d records, want debit + reversal", len(env.journal.records))
	}
	reversal := env.journal.records[1]
	if reversal.Type != domain.TypeDeposit || !strings.HasPrefix(reversal.Description, "REVERSAL:") {
		t.Errorf("reversal record = %s %q", reversal.Type, reversal.Description)
	}
	if !reversal.Fee.IsZero() {
		t.Errorf("reversal fee = %s, want 0 (compensation is fee-free)", reversal.Fee)
	}

	if !published(env.publisher, events.TransferCompensated) {
		t.Error("expected a transfer.compensated event")
	}
}

func TestTransferEscalated(t *testing.T) {
	saga, env := newTestSaga(sourceAccount(500), targetAccount(100))
	// Credit commit fails, and so does the reversal: debit succeeded first
	// (no queued error), then the second source update is refused.
	env.gateway.updateErrs["acc-target"] = []error{
		domain.E(domain.KindServiceUnavailable, "account service returned 503"),
	}
	env.gateway.updateErrs["acc-source"] = []error{
		nil, // debit commit
		domain.E(domain.KindServiceUnavailable, "account service returned 503"), // reversal
	}

	outcome, err := saga.run(context.Background(), transferRequest(200))
	checkKind(t, err, domain.KindTransferEscalated)
	if outcome.State != StateEscalated {
		t.Fatalf("state = %s, want ESCALATED", outcome.State)
	}

	// The one unrecoverable state: debited and never restored.
	if got := env.gateway.balanceOf("acc-source"); !got.Equal(dec(300)) {
		t.Errorf("source balance = %s, want 300 (debited, not restored)", got)
	}
	if got := env.gateway.balanceOf("acc-target"); !got.Equal(dec(100)) {
		t.Errorf("target balance = %s, want untouched 100", got)
	}

	if !published(env.publisher, events.TransferEscalated) {
		t.Error("expected a transfer.escalated event")
	}
}

// Escalation and compensation must be observably different failure classes.
func TestTransferOutcomesAreDistinct(t *testing.T) {
	if domain.KindTransferIncomplete == domain.KindTransferEscalated {
		t.Fatal("incomplete and escalated transfers share an error kind")
	}
}

func TestTransferDebitFeeApplies(t *testing.T) {
	source := sourceAccount(500)
	source.FreeTransactionLimit = intPtr(0)
	source.CurrentMonthlyTransactions = intPtr(4)
	source.TransactionFeeAmount = decPtr(dec(5))
	saga, env := newTestSaga(source, targetAccount(100))

	outcome, err := saga.run(context.Background(), transferRequest(200))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Source pays amount plus fee; target still receives the full amount.
	if got := env.gateway.balanceOf("acc-source"); !got.Equal(dec(295)) {
		t.Errorf("source balance = %s, want 295", got)
	}
	if got := env.gateway.balanceOf("acc-target"); !got.Equal(dec(300)) {
		t.Errorf("target balance = %s, want 300", got)
	}
	if !outcome.Record.Fee.Equal(dec(5)) {
		t.Errorf("transfer record fee = %s, want 5", outcome.Record.Fee)
	}
}

func published(p *mockPublisher, eventType string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, published := range p.published {
		if published == eventType {
			return true
		}
	}
	return false
}
