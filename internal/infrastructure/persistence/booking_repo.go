package persistence

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"share_market/internal/domain"
	"share_market/internal/domain/entity"
	"share_market/pkg/errcodes"
)

const bookingListingQuery = `
	SELECT b.id, b.sell_id, b.buyer_id, b.tenant_id, b.quantity,
	       b.created_at, s.seller_id, s.selling_price, sh.name AS share_name
	FROM bookings b
	JOIN sells s ON s.id = b.sell_id
	JOIN shares sh ON sh.id = s.share_id`

type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository создаёт новый экземпляр репозитория.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create сохраняет новую бронь и проставляет сгенерированный id.
func (r *BookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (sell_id, buyer_id, tenant_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	booking.CreatedAt = time.Now()
	if err := r.db.GetContext(ctx, &booking.ID, query,
		booking.SellID, booking.BuyerID, booking.TenantID, booking.Quantity, booking.CreatedAt,
	); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to insert booking")
	}

	return nil
}

// Delete удаляет бронь по идентификатору.
func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to delete booking")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		return domain.NewError(errcodes.BookingNotFound, "booking not found")
	}

	return nil
}

// DeleteByBuyer удаляет бронь, только если она принадлежит покупателю.
func (r *BookingRepository) DeleteByBuyer(ctx context.Context, id, buyerID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1 AND buyer_id = $2`, id, buyerID)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to delete booking")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		return domain.NewError(errcodes.BookingNotFound, "booking not found")
	}

	return nil
}

// ListByTenant возвращает брони тенанта для операторской ленты.
func (r *BookingRepository) ListByTenant(ctx context.Context, tenantID int64) ([]entity.BookingListing, error) {
	query := bookingListingQuery + `
	WHERE b.tenant_id = $1 AND b.buyer_id <> s.seller_id
	ORDER BY b.created_at DESC`

	var schemas []bookingListingSchema
	if err := r.db.SelectContext(ctx, &schemas, query, tenantID); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list bookings")
	}

	bookings := make([]entity.BookingListing, 0, len(schemas))
	for i := range schemas {
		bookings = append(bookings, schemas[i].toDomain())
	}

	return bookings, nil
}

// ListByBuyer возвращает брони одного покупателя.
func (r *BookingRepository) ListByBuyer(ctx context.Context, buyerID int64) ([]entity.BookingListing, error) {
	query := bookingListingQuery + `
	WHERE b.buyer_id = $1
	ORDER BY b.created_at DESC`

	var schemas []bookingListingSchema
	if err := r.db.SelectContext(ctx, &schemas, query, buyerID); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list bookings")
	}

	bookings := make([]entity.BookingListing, 0, len(schemas))
	for i := range schemas {
		bookings = append(bookings, schemas[i].toDomain())
	}

	return bookings, nil
}
