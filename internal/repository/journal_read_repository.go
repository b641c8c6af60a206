package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bancario/transaction-service/internal/domain"
	sharedredis "github.com/bancario/transaction-service/internal/redis"
	goredis "github.com/redis/go-redis/v9"
)

const transactionViewKeyPrefix = "transaction:view:"

// JournalReadRepository serves journal reads. Single-record lookups try the
// Redis read model first and fall back to PostgreSQL; listings always hit
// PostgreSQL so repeated calls with no intervening writes are idempotent.
type JournalReadRepository struct {
	db    *sql.DB
	cache *sharedredis.ViewCache[domain.TransactionView]
}

func NewJournalReadRepository(db *sql.DB, redisClient *goredis.Client) *JournalReadRepository {
	return &JournalReadRepository{
		db:    db,
		cache: sharedredis.NewViewCache[domain.TransactionView](redisClient, 0),
	}
}

// GetByID returns a single journal record view, Redis first.
func (r *JournalReadRepository) GetByID(ctx context.Context, id, accountID string) (*domain.TransactionView, error) {
	cacheKey := viewKey(accountID, id)
	if view, ok := r.cache.Get(ctx, cacheKey); ok {
		return view, nil
	}

	query := selectColumns + ` WHERE id = $1 AND account_id = $2`
	view, err := scanView(r.db.QueryRowContext(ctx, query, id, accountID))
	if err == sql.ErrNoRows {
		return nil, domain.E(domain.KindNotFound, "transaction %s not found for account %s", id, accountID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction %s: %w", id, err)
	}

	r.CacheTransactionView(ctx, view)
	return view, nil
}

// ListByAccountID returns every journal record for an account, newest first.
// An account with no transactions yields an empty slice, not an error.
func (r *JournalReadRepository) ListByAccountID(ctx context.Context, accountID string) ([]domain.TransactionView, error) {
	query := selectColumns + ` WHERE account_id = $1 ORDER BY transaction_date DESC`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for account %s: %w", accountID, err)
	}
	defer rows.Close()

	views := []domain.TransactionView{}
	for rows.Next() {
		view, err := scanView(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		views = append(views, *view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list transactions for account %s: %w", accountID, err)
	}
	return views, nil
}

// CacheTransactionView warms the read model. Called by the write side right
// after a successful journal append; failures are swallowed by the cache.
func (r *JournalReadRepository) CacheTransactionView(ctx context.Context, view *domain.TransactionView) {
	r.cache.Set(ctx, viewKey(view.AccountID, view.ID), view)
}

const selectColumns = `
	SELECT id, account_id, customer_id, type, amount, fee,
		product_type, product_name, transaction_date, description, external_reference
	FROM transactions`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanView(row rowScanner) (*domain.TransactionView, error) {
	var view domain.TransactionView
	var txType, productType string
	var description sql.NullString

	err := row.Scan(
		&view.ID, &view.AccountID, &view.CustomerID,
		&txType, &view.Amount, &view.Fee,
		&productType, &view.ProductName,
		&view.TransactionDate, &description, &view.ExternalReference,
	)
	if err != nil {
		return nil, err
	}
	view.Type = domain.TransactionType(txType)
	view.ProductType = domain.ProductType(productType)
	if description.Valid {
		view.Description = description.String
	}
	return &view, nil
}

func viewKey(accountID, id string) string {
	return fmt.Sprintf("%s%s:%s", transactionViewKeyPrefix, accountID, id)
}
