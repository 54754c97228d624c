package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"share_market/internal/domain"
	"share_market/internal/domain/entity"
	"share_market/pkg/errcodes"
)

type ShareRepository struct {
	db *sqlx.DB
}

// NewShareRepository создаёт новый экземпляр репозитория.
func NewShareRepository(db *sqlx.DB) *ShareRepository {
	return &ShareRepository{db: db}
}

// GetOrCreate находит акцию по имени внутри тенанта или создаёт её с
// начальной floor-ценой. Для существующей строки floor-цена понижается до
// минимума в том же запросе: она двигается только вниз.
func (r *ShareRepository) GetOrCreate(ctx context.Context, tenantID int64, name string, seedPrice float64) (*entity.Share, error) {
	query := `
		INSERT INTO shares (tenant_id, name, floor_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (tenant_id, name) DO UPDATE
		SET floor_price = LEAST(shares.floor_price, EXCLUDED.floor_price),
		    updated_at  = EXCLUDED.updated_at
		RETURNING id, tenant_id, name, symbol, floor_price, created_at, updated_at`

	var schema shareSchema
	if err := r.db.GetContext(ctx, &schema, query, tenantID, name, seedPrice, time.Now()); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get or create share")
	}

	return schema.toDomain(), nil
}

// LowerFloorPrice понижает floor-цену до минимума из текущей и новой.
func (r *ShareRepository) LowerFloorPrice(ctx context.Context, shareID int64, price float64) error {
	query := `
		UPDATE shares
		SET floor_price = LEAST(floor_price, $1), updated_at = $2
		WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, price, time.Now(), shareID)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to lower floor price")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		return domain.NewError(errcodes.ShareNotFound, "share not found")
	}

	return nil
}

// GetByID возвращает акцию по идентификатору.
func (r *ShareRepository) GetByID(ctx context.Context, id int64) (*entity.Share, error) {
	query := `
		SELECT id, tenant_id, name, symbol, floor_price, created_at, updated_at
		FROM shares
		WHERE id = $1`

	var schema shareSchema
	if err := r.db.GetContext(ctx, &schema, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.ShareNotFound, "share not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get share")
	}

	return schema.toDomain(), nil
}

// List возвращает каталог акций тенанта.
func (r *ShareRepository) List(ctx context.Context, tenantID int64) ([]entity.Share, error) {
	query := `
		SELECT id, tenant_id, name, symbol, floor_price, created_at, updated_at
		FROM shares
		WHERE tenant_id = $1
		ORDER BY name ASC`

	var schemas []shareSchema
	if err := r.db.SelectContext(ctx, &schemas, query, tenantID); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list shares")
	}

	shares := make([]entity.Share, 0, len(schemas))
	for _, s := range schemas {
		shares = append(shares, *s.toDomain())
	}

	return shares, nil
}

// ListAll возвращает каталог по всем тенантам.
func (r *ShareRepository) ListAll(ctx context.Context) ([]entity.Share, error) {
	query := `
		SELECT id, tenant_id, name, symbol, floor_price, created_at, updated_at
		FROM shares
		ORDER BY tenant_id ASC, name ASC`

	var schemas []shareSchema
	if err := r.db.SelectContext(ctx, &schemas, query); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list shares")
	}

	shares := make([]entity.Share, 0, len(schemas))
	for _, s := range schemas {
		shares = append(shares, *s.toDomain())
	}

	return shares, nil
}

// CreateBatch сохраняет массив акций атомарно. Конфликт по имени внутри
// тенанта пропускается без ошибки.
func (r *ShareRepository) CreateBatch(ctx context.Context, shares []entity.Share) error {
	if len(shares) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	query := `
		INSERT INTO shares (tenant_id, name, symbol, floor_price, created_at, updated_at)
		VALUES (:tenant_id, :name, :symbol, :floor_price, :created_at, :updated_at)
		ON CONFLICT (tenant_id, name) DO NOTHING`

	now := time.Now()
	for i := range shares {
		params := map[string]any{
			"tenant_id":   shares[i].TenantID,
			"name":        shares[i].Name,
			"symbol":      shares[i].Symbol,
			"floor_price": shares[i].FloorPrice,
			"created_at":  now,
			"updated_at":  now,
		}

		if _, err := tx.NamedExecContext(ctx, query, params); err != nil {
			_ = tx.Rollback()
			return domain.WrapError(err, errcodes.InternalServerError,
				fmt.Sprintf("failed at index %d", i))
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}
