package query

import (
	"context"
	"log"

	"github.com/bancario/transaction-service/internal/domain"
	"github.com/bancario/transaction-service/internal/repository"
)

// TransactionQueryService serves journal reads. It never touches the account
// service: movements are answered entirely from the local journal, so the
// same query repeated with no intervening writes returns the same sequence.
type TransactionQueryService struct {
	readRepo *repository.JournalReadRepository
}

func NewTransactionQueryService(readRepo *repository.JournalReadRepository) *TransactionQueryService {
	return &TransactionQueryService{readRepo: readRepo}
}

// FindByAccountID lists all movements for an account, newest first. No
// movements is an empty list, not an error.
func (s *TransactionQueryService) FindByAccountID(ctx context.Context, accountID string) ([]domain.TransactionView, error) {
	log.Printf("searching movements for account %s", accountID)
	return s.readRepo.ListByAccountID(ctx, accountID)
}

// GetTransaction fetches a single movement, cache first.
func (s *TransactionQueryService) GetTransaction(ctx context.Context, transactionID, accountID string) (*domain.TransactionView, error) {
	return s.readRepo.GetByID(ctx, transactionID, accountID)
}
