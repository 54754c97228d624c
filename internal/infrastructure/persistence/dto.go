package persistence

import (
	"database/sql"
	"time"

	"share_market/internal/domain/entity"
)

// shareSchema — представление таблицы shares в БД.
type shareSchema struct {
	ID         int64     `db:"id"`
	TenantID   int64     `db:"tenant_id"`
	Name       string    `db:"name"`
	Symbol     string    `db:"symbol"`
	FloorPrice float64   `db:"floor_price"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (s *shareSchema) toDomain() *entity.Share {
	return &entity.Share{
		ID:         s.ID,
		TenantID:   s.TenantID,
		Name:       s.Name,
		Symbol:     s.Symbol,
		FloorPrice: s.FloorPrice,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// sellSchema — внутренняя структура для маппинга строки sells.
// Поля конечного продавца опциональны и живут в трёх nullable-колонках.
type sellSchema struct {
	ID                int64          `db:"id"`
	ShareID           int64          `db:"share_id"`
	SellerID          int64          `db:"seller_id"`
	TenantID          int64          `db:"tenant_id"`
	ActualPrice       float64        `db:"actual_price"`
	SellingPrice      float64        `db:"selling_price"`
	QuantityAvailable int            `db:"quantity_available"`
	MinOrderQuantity  int            `db:"min_order_quantity"`
	FixedPrice        bool           `db:"fixed_price"`
	ShareInStock      bool           `db:"share_in_stock"`
	PreShareTransfer  bool           `db:"pre_share_transfer"`
	ConfirmDelivery   bool           `db:"confirm_delivery"`
	DeliveryTimeline  sql.NullString `db:"delivery_timeline"`
	BestDeal          bool           `db:"best_deal"`
	Approved          bool           `db:"approved"`
	EndSellerName     sql.NullString `db:"end_seller_name"`
	EndSellerProfile  sql.NullString `db:"end_seller_profile"`
	EndSellerLocation sql.NullString `db:"end_seller_location"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
}

func fromSell(e *entity.Sell) *sellSchema {
	s := &sellSchema{
		ID:                e.ID,
		ShareID:           e.ShareID,
		SellerID:          e.SellerID,
		TenantID:          e.TenantID,
		ActualPrice:       e.ActualPrice,
		SellingPrice:      e.SellingPrice,
		QuantityAvailable: e.QuantityAvailable,
		MinOrderQuantity:  e.MinOrderQuantity,
		FixedPrice:        e.FixedPrice,
		ShareInStock:      e.ShareInStock,
		PreShareTransfer:  e.PreShareTransfer,
		ConfirmDelivery:   e.ConfirmDelivery,
		DeliveryTimeline:  toNullString(e.DeliveryTimeline),
		BestDeal:          e.BestDeal,
		Approved:          e.Approved,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}

	if e.EndSeller != nil {
		s.EndSellerName = toNullString(e.EndSeller.Name)
		s.EndSellerProfile = toNullString(e.EndSeller.Profile)
		s.EndSellerLocation = toNullString(e.EndSeller.Location)
	}

	return s
}

func (s *sellSchema) toDomain() *entity.Sell {
	sell := &entity.Sell{
		ID:                s.ID,
		ShareID:           s.ShareID,
		SellerID:          s.SellerID,
		TenantID:          s.TenantID,
		ActualPrice:       s.ActualPrice,
		SellingPrice:      s.SellingPrice,
		QuantityAvailable: s.QuantityAvailable,
		MinOrderQuantity:  s.MinOrderQuantity,
		FixedPrice:        s.FixedPrice,
		ShareInStock:      s.ShareInStock,
		PreShareTransfer:  s.PreShareTransfer,
		ConfirmDelivery:   s.ConfirmDelivery,
		DeliveryTimeline:  s.DeliveryTimeline.String,
		BestDeal:          s.BestDeal,
		Approved:          s.Approved,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}

	if s.EndSellerName.Valid {
		sell.EndSeller = &entity.EndSeller{
			Name:     s.EndSellerName.String,
			Profile:  s.EndSellerProfile.String,
			Location: s.EndSellerLocation.String,
		}
	}

	return sell
}

// sellListingSchema — sell, сджойненный с shares.
type sellListingSchema struct {
	sellSchema
	ShareName  string  `db:"share_name"`
	FloorPrice float64 `db:"floor_price"`
}

func (s *sellListingSchema) toDomain() *entity.SellListing {
	return &entity.SellListing{
		Sell:       *s.sellSchema.toDomain(),
		ShareName:  s.ShareName,
		FloorPrice: s.FloorPrice,
	}
}

type bidSchema struct {
	ID        int64     `db:"id"`
	SellID    int64     `db:"sell_id"`
	BuyerID   int64     `db:"buyer_id"`
	TenantID  int64     `db:"tenant_id"`
	Quantity  int       `db:"quantity"`
	BidPrice  float64   `db:"bid_price"`
	CreatedAt time.Time `db:"created_at"`
}

// bidListingSchema — bid, сджойненный с sells и shares.
type bidListingSchema struct {
	bidSchema
	SellerID  int64   `db:"seller_id"`
	ShareName string  `db:"share_name"`
	SellPrice float64 `db:"selling_price"`
}

func (s *bidListingSchema) toDomain() entity.BidListing {
	return entity.BidListing{
		Bid: entity.Bid{
			ID:        s.ID,
			SellID:    s.SellID,
			BuyerID:   s.BuyerID,
			TenantID:  s.TenantID,
			Quantity:  s.Quantity,
			BidPrice:  s.BidPrice,
			CreatedAt: s.CreatedAt,
		},
		SellerID:  s.SellerID,
		ShareName: s.ShareName,
		SellPrice: s.SellPrice,
	}
}

type bookingSchema struct {
	ID        int64     `db:"id"`
	SellID    int64     `db:"sell_id"`
	BuyerID   int64     `db:"buyer_id"`
	TenantID  int64     `db:"tenant_id"`
	Quantity  int       `db:"quantity"`
	CreatedAt time.Time `db:"created_at"`
}

type bookingListingSchema struct {
	bookingSchema
	SellerID  int64   `db:"seller_id"`
	ShareName string  `db:"share_name"`
	SellPrice float64 `db:"selling_price"`
}

func (s *bookingListingSchema) toDomain() entity.BookingListing {
	return entity.BookingListing{
		Booking: entity.Booking{
			ID:        s.ID,
			SellID:    s.SellID,
			BuyerID:   s.BuyerID,
			TenantID:  s.TenantID,
			Quantity:  s.Quantity,
			CreatedAt: s.CreatedAt,
		},
		SellerID:  s.SellerID,
		ShareName: s.ShareName,
		SellPrice: s.SellPrice,
	}
}

type buyQuerySchema struct {
	ID        int64     `db:"id"`
	BuyerID   int64     `db:"buyer_id"`
	TenantID  int64     `db:"tenant_id"`
	ShareName string    `db:"share_name"`
	Quantity  int       `db:"quantity"`
	Price     float64   `db:"price"`
	CreatedAt time.Time `db:"created_at"`
}

func (s *buyQuerySchema) toDomain() entity.BuyQuery {
	return entity.BuyQuery{
		ID:        s.ID,
		BuyerID:   s.BuyerID,
		TenantID:  s.TenantID,
		ShareName: s.ShareName,
		Quantity:  s.Quantity,
		Price:     s.Price,
		CreatedAt: s.CreatedAt,
	}
}

type transactionSchema struct {
	ID        int64     `db:"id"`
	ClosedBy  int64     `db:"closed_by"`
	TenantID  int64     `db:"tenant_id"`
	SellerID  int64     `db:"seller_id"`
	BuyerID   int64     `db:"buyer_id"`
	ShareName string    `db:"share_name"`
	Quantity  int       `db:"quantity"`
	Price     float64   `db:"price"`
	CreatedAt time.Time `db:"created_at"`
}

func (s *transactionSchema) toDomain() entity.Transaction {
	return entity.Transaction{
		ID:        s.ID,
		ClosedBy:  s.ClosedBy,
		TenantID:  s.TenantID,
		SellerID:  s.SellerID,
		BuyerID:   s.BuyerID,
		ShareName: s.ShareName,
		Quantity:  s.Quantity,
		Price:     s.Price,
		CreatedAt: s.CreatedAt,
	}
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
