package persistence

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"share_market/internal/domain"
	"share_market/internal/domain/entity"
	"share_market/pkg/errcodes"
)

type BuyQueryRepository struct {
	db *sqlx.DB
}

// NewBuyQueryRepository создаёт новый экземпляр репозитория.
func NewBuyQueryRepository(db *sqlx.DB) *BuyQueryRepository {
	return &BuyQueryRepository{db: db}
}

// Create сохраняет новый запрос на покупку.
func (r *BuyQueryRepository) Create(ctx context.Context, query *entity.BuyQuery) error {
	q := `
		INSERT INTO buy_queries (buyer_id, tenant_id, share_name, quantity, price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	query.CreatedAt = time.Now()
	if err := r.db.GetContext(ctx, &query.ID, q,
		query.BuyerID, query.TenantID, query.ShareName, query.Quantity, query.Price, query.CreatedAt,
	); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to insert buy query")
	}

	return nil
}

// Delete удаляет запрос на покупку.
func (r *BuyQueryRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM buy_queries WHERE id = $1`, id)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to delete buy query")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		return domain.NewError(errcodes.BuyQueryNotFound, "buy query not found")
	}

	return nil
}

// ListByTenant возвращает открытые запросы тенанта.
func (r *BuyQueryRepository) ListByTenant(ctx context.Context, tenantID int64) ([]entity.BuyQuery, error) {
	query := `
		SELECT id, buyer_id, tenant_id, share_name, quantity, price, created_at
		FROM buy_queries
		WHERE tenant_id = $1
		ORDER BY created_at DESC`

	var schemas []buyQuerySchema
	if err := r.db.SelectContext(ctx, &schemas, query, tenantID); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list buy queries")
	}

	queries := make([]entity.BuyQuery, 0, len(schemas))
	for i := range schemas {
		queries = append(queries, schemas[i].toDomain())
	}

	return queries, nil
}
