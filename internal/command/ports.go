package command

import (
	"context"

	"github.com/bancario/transaction-service/internal/domain"
)

// AccountGateway is the account-of-record collaborator. Timeouts, retries and
// circuit-breaking live behind this interface; the orchestration only reacts
// to the failure kinds it reports.
type AccountGateway interface {
	GetByID(ctx context.Context, accountID string) (domain.Account, error)
	GetByNumber(ctx context.Context, accountNumber string) (domain.Account, error)
	// UpdateBalance is a whole-object replace of the account snapshot. It is
	// the commit point: success means the money has moved in the system of
	// record.
	UpdateBalance(ctx context.Context, accountID string, snapshot domain.Account) (domain.Account, error)
	GetTransactionStatus(ctx context.Context, accountID string) (domain.PricingStatus, error)
	// IncrementTransactionCounter atomically bumps the monthly transaction
	// counter. Callers treat it as fire-and-forget.
	IncrementTransactionCounter(ctx context.Context, accountID string) error
}

// Journal is the append-only store of completed transaction records.
type Journal interface {
	Create(ctx context.Context, record *domain.Transaction) error
}

// ViewCacher warms the read model after a successful journal write.
// Implementations must never fail the operation.
type ViewCacher interface {
	CacheTransactionView(ctx context.Context, view *domain.TransactionView)
}

// CounterNotifier is the best-effort side-effect port for the monthly
// transaction counter. Implementations run detached and sink their own
// errors; the orchestration never awaits or observes the outcome.
type CounterNotifier interface {
	IncrementCounter(accountID string)
}

// EventPublisher emits completed-transaction and saga-outcome events.
// Publishing is best-effort; failures are logged by the caller and discarded.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}
