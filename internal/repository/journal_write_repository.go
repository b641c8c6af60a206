package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bancario/transaction-service/internal/domain"
)

// JournalWriteRepository appends completed transaction records to the
// PostgreSQL journal. Rows are inserted once and never updated: the journal
// has ledger semantics.
type JournalWriteRepository struct {
	db *sql.DB
}

func NewJournalWriteRepository(db *sql.DB) *JournalWriteRepository {
	return &JournalWriteRepository{db: db}
}

func (r *JournalWriteRepository) Create(ctx context.Context, record *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, account_id, customer_id, type, amount, fee,
			product_type, product_name, transaction_date, description, external_reference)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.AccountID, record.CustomerID,
		string(record.Type), record.Amount, record.Fee,
		string(record.ProductType), record.ProductName,
		record.TransactionDate, nullString(record.Description), record.ExternalReference,
	)
	if err != nil {
		return fmt.Errorf("failed to journal transaction %s: %w", record.ID, err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
