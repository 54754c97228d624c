// Package interest фиксирует покупательский интерес: конкурентные bid и
// прямые booking против sell, а также свободные buy query. Pending-заявка —
// это существующая строка; разрешение или отмена её удаляет.
package interest

import (
	"context"

	"share_market/internal/domain"
	"share_market/internal/domain/entity"
	"share_market/internal/domain/value"
	"share_market/pkg/errcodes"
	"share_market/pkg/logx"
)

type SellReader interface {
	GetByID(ctx context.Context, id int64) (*entity.Sell, error)
}

type BidRepository interface {
	Create(ctx context.Context, bid *entity.Bid) error
	Delete(ctx context.Context, id int64) error
	DeleteByBuyer(ctx context.Context, id, buyerID int64) error
	ListByTenant(ctx context.Context, tenantID int64) ([]entity.BidListing, error)
	ListByBuyer(ctx context.Context, buyerID int64) ([]entity.BidListing, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	Delete(ctx context.Context, id int64) error
	DeleteByBuyer(ctx context.Context, id, buyerID int64) error
	ListByTenant(ctx context.Context, tenantID int64) ([]entity.BookingListing, error)
	ListByBuyer(ctx context.Context, buyerID int64) ([]entity.BookingListing, error)
}

type BuyQueryRepository interface {
	Create(ctx context.Context, query *entity.BuyQuery) error
	Delete(ctx context.Context, id int64) error
	ListByTenant(ctx context.Context, tenantID int64) ([]entity.BuyQuery, error)
}

type Notifier interface {
	BidRaised(ctx context.Context, tenantID int64, firstName, lastName string) error
	BookingRaised(ctx context.Context, tenantID int64, firstName, lastName string) error
}

type Service struct {
	sells    SellReader
	bids     BidRepository
	bookings BookingRepository
	queries  BuyQueryRepository
	notifier Notifier
}

func NewService(
	sells SellReader,
	bids BidRepository,
	bookings BookingRepository,
	queries BuyQueryRepository,
	notifier Notifier,
) *Service {
	return &Service{
		sells:    sells,
		bids:     bids,
		bookings: bookings,
		queries:  queries,
		notifier: notifier,
	}
}

// RaiseBid записывает конкурентное предложение против sell. Продавец не может
// делать ставку на собственное предложение.
func (s *Service) RaiseBid(ctx context.Context, buyer value.Actor, sellID int64, quantity int, bidPrice float64) (*entity.Bid, error) {
	if sellID <= 0 {
		return nil, domain.NewError(errcodes.InvalidSellID, "sell id is required")
	}
	if quantity <= 0 {
		return nil, domain.NewError(errcodes.InvalidQuantity, "quantity must be positive")
	}
	if bidPrice <= 0 {
		return nil, domain.NewError(errcodes.InvalidPrice, "bid price must be positive")
	}

	if err := s.ensureNotSelf(ctx, buyer, sellID); err != nil {
		return nil, err
	}

	bid := &entity.Bid{
		SellID:   sellID,
		BuyerID:  buyer.ID,
		TenantID: buyer.TenantID,
		Quantity: quantity,
		BidPrice: bidPrice,
	}

	if err := s.bids.Create(ctx, bid); err != nil {
		return nil, err
	}

	if err := s.notifier.BidRaised(ctx, buyer.TenantID, buyer.FirstName, buyer.LastName); err != nil {
		logger(ctx).Error("notifier.BidRaised", logx.Error(err))
	}

	return bid, nil
}

// RaiseBooking записывает запрос прямой покупки против sell.
func (s *Service) RaiseBooking(ctx context.Context, buyer value.Actor, sellID int64, quantity int) (*entity.Booking, error) {
	if sellID <= 0 {
		return nil, domain.NewError(errcodes.InvalidSellID, "sell id is required")
	}
	if quantity <= 0 {
		return nil, domain.NewError(errcodes.InvalidQuantity, "quantity must be positive")
	}

	if err := s.ensureNotSelf(ctx, buyer, sellID); err != nil {
		return nil, err
	}

	booking := &entity.Booking{
		SellID:   sellID,
		BuyerID:  buyer.ID,
		TenantID: buyer.TenantID,
		Quantity: quantity,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	if err := s.notifier.BookingRaised(ctx, buyer.TenantID, buyer.FirstName, buyer.LastName); err != nil {
		logger(ctx).Error("notifier.BookingRaised", logx.Error(err))
	}

	return booking, nil
}

// RaiseBuyQuery записывает запрос на покупку, не привязанный к предложению.
func (s *Service) RaiseBuyQuery(ctx context.Context, buyer value.Actor, shareName string, quantity int, price float64) (*entity.BuyQuery, error) {
	if shareName == "" {
		return nil, domain.NewError(errcodes.InvalidShareName, "share name is required")
	}
	if quantity <= 0 {
		return nil, domain.NewError(errcodes.InvalidQuantity, "quantity must be positive")
	}
	if price <= 0 {
		return nil, domain.NewError(errcodes.InvalidPrice, "price must be positive")
	}

	query := &entity.BuyQuery{
		BuyerID:   buyer.ID,
		TenantID:  buyer.TenantID,
		ShareName: shareName,
		Quantity:  quantity,
		Price:     price,
	}

	if err := s.queries.Create(ctx, query); err != nil {
		return nil, err
	}

	return query, nil
}

// Discard* — административное удаление pending-заявки независимо от
// владельца. DeleteMy* доступны только самому покупателю заявки.

func (s *Service) DiscardBid(ctx context.Context, id int64) error {
	return s.bids.Delete(ctx, id)
}

func (s *Service) DiscardBooking(ctx context.Context, id int64) error {
	return s.bookings.Delete(ctx, id)
}

func (s *Service) DiscardBuyQuery(ctx context.Context, id int64) error {
	return s.queries.Delete(ctx, id)
}

func (s *Service) DeleteMyBid(ctx context.Context, buyer value.Actor, id int64) error {
	return s.bids.DeleteByBuyer(ctx, id, buyer.ID)
}

func (s *Service) DeleteMyBooking(ctx context.Context, buyer value.Actor, id int64) error {
	return s.bookings.DeleteByBuyer(ctx, id, buyer.ID)
}

func (s *Service) ListBids(ctx context.Context, tenantID int64) ([]entity.BidListing, error) {
	return s.bids.ListByTenant(ctx, tenantID)
}

func (s *Service) ListBookings(ctx context.Context, tenantID int64) ([]entity.BookingListing, error) {
	return s.bookings.ListByTenant(ctx, tenantID)
}

func (s *Service) ListBuyQueries(ctx context.Context, tenantID int64) ([]entity.BuyQuery, error) {
	return s.queries.ListByTenant(ctx, tenantID)
}

func (s *Service) ListMyBids(ctx context.Context, buyer value.Actor) ([]entity.BidListing, error) {
	return s.bids.ListByBuyer(ctx, buyer.ID)
}

func (s *Service) ListMyBookings(ctx context.Context, buyer value.Actor) ([]entity.BookingListing, error) {
	return s.bookings.ListByBuyer(ctx, buyer.ID)
}

func (s *Service) ensureNotSelf(ctx context.Context, buyer value.Actor, sellID int64) error {
	sell, err := s.sells.GetByID(ctx, sellID)
	if err != nil {
		return err
	}

	if sell.SellerID == buyer.ID {
		return domain.NewError(errcodes.SelfInterest, "cannot raise interest on your own sell")
	}

	return nil
}
