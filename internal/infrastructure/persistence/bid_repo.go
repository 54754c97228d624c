package persistence

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"share_market/internal/domain"
	"share_market/internal/domain/entity"
	"share_market/pkg/errcodes"
)

const bidListingQuery = `
	SELECT b.id, b.sell_id, b.buyer_id, b.tenant_id, b.quantity, b.bid_price,
	       b.created_at, s.seller_id, s.selling_price, sh.name AS share_name
	FROM bids b
	JOIN sells s ON s.id = b.sell_id
	JOIN shares sh ON sh.id = s.share_id`

type BidRepository struct {
	db *sqlx.DB
}

// NewBidRepository создаёт новый экземпляр репозитория.
func NewBidRepository(db *sqlx.DB) *BidRepository {
	return &BidRepository{db: db}
}

// Create сохраняет новую заявку и проставляет сгенерированный id.
func (r *BidRepository) Create(ctx context.Context, bid *entity.Bid) error {
	query := `
		INSERT INTO bids (sell_id, buyer_id, tenant_id, quantity, bid_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	bid.CreatedAt = time.Now()
	if err := r.db.GetContext(ctx, &bid.ID, query,
		bid.SellID, bid.BuyerID, bid.TenantID, bid.Quantity, bid.BidPrice, bid.CreatedAt,
	); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to insert bid")
	}

	return nil
}

// Delete удаляет заявку по идентификатору.
func (r *BidRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bids WHERE id = $1`, id)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to delete bid")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		return domain.NewError(errcodes.BidNotFound, "bid not found")
	}

	return nil
}

// DeleteByBuyer удаляет заявку, только если она принадлежит покупателю.
func (r *BidRepository) DeleteByBuyer(ctx context.Context, id, buyerID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bids WHERE id = $1 AND buyer_id = $2`, id, buyerID)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to delete bid")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		return domain.NewError(errcodes.BidNotFound, "bid not found")
	}

	return nil
}

// ListByTenant возвращает заявки тенанта для операторской ленты.
func (r *BidRepository) ListByTenant(ctx context.Context, tenantID int64) ([]entity.BidListing, error) {
	query := bidListingQuery + `
	WHERE b.tenant_id = $1 AND b.buyer_id <> s.seller_id
	ORDER BY b.created_at DESC`

	var schemas []bidListingSchema
	if err := r.db.SelectContext(ctx, &schemas, query, tenantID); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list bids")
	}

	bids := make([]entity.BidListing, 0, len(schemas))
	for i := range schemas {
		bids = append(bids, schemas[i].toDomain())
	}

	return bids, nil
}

// ListByBuyer возвращает заявки одного покупателя.
func (r *BidRepository) ListByBuyer(ctx context.Context, buyerID int64) ([]entity.BidListing, error) {
	query := bidListingQuery + `
	WHERE b.buyer_id = $1
	ORDER BY b.created_at DESC`

	var schemas []bidListingSchema
	if err := r.db.SelectContext(ctx, &schemas, query, buyerID); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list bids")
	}

	bids := make([]entity.BidListing, 0, len(schemas))
	for i := range schemas {
		bids = append(bids, schemas[i].toDomain())
	}

	return bids, nil
}
