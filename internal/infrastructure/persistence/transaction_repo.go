package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"share_market/internal/domain"
	"share_market/internal/domain/entity"
	"share_market/pkg/errcodes"
)

type TransactionRepository struct {
	db *sqlx.DB
}

// NewTransactionRepository создаёт новый экземпляр репозитория.
func NewTransactionRepository(db *sqlx.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// ListByTenant возвращает журнал закрытых сделок тенанта, свежие сверху.
func (r *TransactionRepository) ListByTenant(ctx context.Context, tenantID int64) ([]entity.Transaction, error) {
	query := `
		SELECT id, closed_by, tenant_id, seller_id, buyer_id, share_name, quantity, price, created_at
		FROM transactions
		WHERE tenant_id = $1
		ORDER BY created_at DESC`

	var schemas []transactionSchema
	if err := r.db.SelectContext(ctx, &schemas, query, tenantID); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list transactions")
	}

	transactions := make([]entity.Transaction, 0, len(schemas))
	for i := range schemas {
		transactions = append(transactions, schemas[i].toDomain())
	}

	return transactions, nil
}
