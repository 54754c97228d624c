package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"share_market/internal/domain"
	"share_market/internal/domain/entity"
	"share_market/internal/domain/service/listing"
	"share_market/pkg/errcodes"
)

const sellColumns = `
	s.id, s.share_id, s.seller_id, s.tenant_id, s.actual_price, s.selling_price,
	s.quantity_available, s.min_order_quantity, s.fixed_price, s.share_in_stock,
	s.pre_share_transfer, s.confirm_delivery, s.delivery_timeline, s.best_deal,
	s.approved, s.end_seller_name, s.end_seller_profile, s.end_seller_location,
	s.created_at, s.updated_at`

type SellRepository struct {
	db *sqlx.DB
}

// NewSellRepository создаёт новый экземпляр репозитория.
func NewSellRepository(db *sqlx.DB) *SellRepository {
	return &SellRepository{db: db}
}

// Create сохраняет новый sell и проставляет сгенерированный id.
func (r *SellRepository) Create(ctx context.Context, sell *entity.Sell) error {
	query := `
		INSERT INTO sells (
			share_id, seller_id, tenant_id, actual_price, selling_price,
			quantity_available, min_order_quantity, fixed_price, share_in_stock,
			pre_share_transfer, confirm_delivery, delivery_timeline, best_deal,
			approved, end_seller_name, end_seller_profile, end_seller_location,
			created_at, updated_at
		) VALUES (
			:share_id, :seller_id, :tenant_id, :actual_price, :selling_price,
			:quantity_available, :min_order_quantity, :fixed_price, :share_in_stock,
			:pre_share_transfer, :confirm_delivery, :delivery_timeline, :best_deal,
			:approved, :end_seller_name, :end_seller_profile, :end_seller_location,
			:created_at, :updated_at
		)
		RETURNING id`

	schema := fromSell(sell)
	if schema.CreatedAt.IsZero() {
		schema.CreatedAt = time.Now()
	}
	schema.UpdatedAt = schema.CreatedAt

	rows, err := sqlx.NamedQueryContext(ctx, r.db, query, schema)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to insert sell")
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&sell.ID); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to scan sell id")
		}
	}

	sell.CreatedAt = schema.CreatedAt
	sell.UpdatedAt = schema.UpdatedAt

	return nil
}

// GetByID возвращает sell по идентификатору.
func (r *SellRepository) GetByID(ctx context.Context, id int64) (*entity.Sell, error) {
	query := `
		SELECT` + sellColumns + `
		FROM sells s
		WHERE s.id = $1`

	var schema sellSchema
	if err := r.db.GetContext(ctx, &schema, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.SellNotFound, "sell not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get sell")
	}

	return schema.toDomain(), nil
}

// GetListingByID возвращает sell вместе с данными акции.
func (r *SellRepository) GetListingByID(ctx context.Context, id int64) (*entity.SellListing, error) {
	query := `
		SELECT` + sellColumns + `, sh.name AS share_name, sh.floor_price
		FROM sells s
		JOIN shares sh ON sh.id = s.share_id
		WHERE s.id = $1`

	var schema sellListingSchema
	if err := r.db.GetContext(ctx, &schema, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.SellNotFound, "sell not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get sell listing")
	}

	return schema.toDomain(), nil
}

// Update перезаписывает изменяемые поля sell.
func (r *SellRepository) Update(ctx context.Context, sell *entity.Sell) error {
	query := `
		UPDATE sells SET
			actual_price = :actual_price,
			selling_price = :selling_price,
			quantity_available = :quantity_available,
			min_order_quantity = :min_order_quantity,
			fixed_price = :fixed_price,
			share_in_stock = :share_in_stock,
			pre_share_transfer = :pre_share_transfer,
			confirm_delivery = :confirm_delivery,
			delivery_timeline = :delivery_timeline,
			best_deal = :best_deal,
			approved = :approved,
			end_seller_name = :end_seller_name,
			end_seller_profile = :end_seller_profile,
			end_seller_location = :end_seller_location,
			updated_at = :updated_at
		WHERE id = :id`

	schema := fromSell(sell)
	schema.UpdatedAt = time.Now()

	res, err := r.db.NamedExecContext(ctx, query, schema)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to update sell")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		return domain.NewError(errcodes.SellNotFound, "sell not found")
	}

	sell.UpdatedAt = schema.UpdatedAt

	return nil
}

// Delete удаляет sell.
func (r *SellRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sells WHERE id = $1`, id)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to delete sell")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		return domain.NewError(errcodes.SellNotFound, "sell not found")
	}

	return nil
}

// List возвращает ленту sells по фильтру, свежие сверху.
func (r *SellRepository) List(ctx context.Context, filter listing.SellFilter) ([]entity.SellListing, error) {
	var (
		conds []string
		args  []any
	)

	addCond := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.TenantID != nil {
		addCond("s.tenant_id = $%d", *filter.TenantID)
	}
	if filter.ShareID != nil {
		addCond("s.share_id = $%d", *filter.ShareID)
	}
	if filter.SellerID != nil {
		addCond("s.seller_id = $%d", *filter.SellerID)
	}
	if filter.ExcludeSellerID != nil {
		addCond("s.seller_id <> $%d", *filter.ExcludeSellerID)
	}
	if filter.BestDeal != nil {
		addCond("s.best_deal = $%d", *filter.BestDeal)
	}
	if filter.Approved != nil {
		addCond("s.approved = $%d", *filter.Approved)
	}

	query := `
		SELECT` + sellColumns + `, sh.name AS share_name, sh.floor_price
		FROM sells s
		JOIN shares sh ON sh.id = s.share_id`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY s.created_at DESC"

	var schemas []sellListingSchema
	if err := r.db.SelectContext(ctx, &schemas, query, args...); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list sells")
	}

	sells := make([]entity.SellListing, 0, len(schemas))
	for i := range schemas {
		sells = append(sells, *schemas[i].toDomain())
	}

	return sells, nil
}
