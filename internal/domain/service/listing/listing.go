package listing

import (
	"context"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"

	"share_market/internal/domain"
	"share_market/internal/domain/entity"
	"share_market/internal/domain/service/pricing"
	"share_market/internal/domain/value"
	"share_market/pkg/errcodes"
	"share_market/pkg/logx"
)

const bestDealCacheTTL = 30 * time.Second

type ShareRepository interface {
	// GetOrCreate находит акцию по точному имени внутри тенанта или создаёт
	// её с ценой seedPrice. Для существующей акции floor price опускается до
	// min(текущая, seedPrice) тем же запросом.
	GetOrCreate(ctx context.Context, tenantID int64, name string, seedPrice float64) (*entity.Share, error)
	LowerFloorPrice(ctx context.Context, shareID int64, price float64) error
	GetByID(ctx context.Context, id int64) (*entity.Share, error)
	List(ctx context.Context, tenantID int64) ([]entity.Share, error)
	ListAll(ctx context.Context) ([]entity.Share, error)
	CreateBatch(ctx context.Context, shares []entity.Share) error
}

type SellRepository interface {
	Create(ctx context.Context, sell *entity.Sell) error
	GetByID(ctx context.Context, id int64) (*entity.Sell, error)
	GetListingByID(ctx context.Context, id int64) (*entity.SellListing, error)
	Update(ctx context.Context, sell *entity.Sell) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter SellFilter) ([]entity.SellListing, error)
}

type Notifier interface {
	BestDealApproved(ctx context.Context, userID, tenantID int64, shareName string) error
}

// SellFilter сужает ленту предложений. Nil-поля не применяются.
type SellFilter struct {
	TenantID        *int64
	ShareID         *int64
	SellerID        *int64
	ExcludeSellerID *int64
	BestDeal        *bool
	Approved        *bool
}

// NewSell несёт заполняемые продавцом поля нового предложения.
type NewSell struct {
	ShareName        string
	ActualPrice      float64
	Quantity         int
	MinOrderQuantity int
	FixedPrice       bool
	ShareInStock     bool
	PreShareTransfer bool
	ConfirmDelivery  bool
	DeliveryTimeline string
	BestDeal         bool
	EndSeller        *entity.EndSeller
}

// SellPatch изменяет неидентифицирующие поля предложения. Ссылка на акцию и
// продавец после создания неизменны.
type SellPatch struct {
	ActualPrice      *float64
	Quantity         *int
	MinOrderQuantity *int
	FixedPrice       *bool
	ShareInStock     *bool
	PreShareTransfer *bool
	ConfirmDelivery  *bool
	DeliveryTimeline *string
	BestDeal         *bool
	EndSeller        *entity.EndSeller
}

type Service struct {
	shareRepo    ShareRepository
	sellRepo     SellRepository
	notifier     Notifier
	bestDealFeed *cache.Cache
}

func NewService(shareRepo ShareRepository, sellRepo SellRepository, notifier Notifier) *Service {
	return &Service{
		shareRepo:    shareRepo,
		sellRepo:     sellRepo,
		notifier:     notifier,
		bestDealFeed: cache.New(bestDealCacheTTL, time.Minute),
	}
}

// CreateSell вычисляет цену продажи, находит или создаёт акцию, опускает её
// floor price и записывает предложение. Флаг best deal от продавца
// административного уровня утверждается сразу.
func (s *Service) CreateSell(ctx context.Context, seller value.Actor, in NewSell) (*entity.Sell, error) {
	if err := validateNewSell(in); err != nil {
		return nil, err
	}

	sellingPrice := pricing.SellingPrice(in.ActualPrice, in.Quantity, seller.Tier)

	share, err := s.shareRepo.GetOrCreate(ctx, seller.TenantID, in.ShareName, sellingPrice)
	if err != nil {
		return nil, err
	}

	approved := in.BestDeal && seller.Tier.CanAutoApprove()

	sell := &entity.Sell{
		ShareID:           share.ID,
		SellerID:          seller.ID,
		TenantID:          seller.TenantID,
		ActualPrice:       in.ActualPrice,
		SellingPrice:      sellingPrice,
		QuantityAvailable: in.Quantity,
		MinOrderQuantity:  in.MinOrderQuantity,
		FixedPrice:        in.FixedPrice,
		ShareInStock:      in.ShareInStock,
		PreShareTransfer:  in.PreShareTransfer,
		ConfirmDelivery:   in.ConfirmDelivery,
		DeliveryTimeline:  in.DeliveryTimeline,
		BestDeal:          in.BestDeal,
		Approved:          approved,
		EndSeller:         in.EndSeller,
	}

	if err := s.sellRepo.Create(ctx, sell); err != nil {
		return nil, err
	}

	if approved {
		s.notifyBestDeal(ctx, sell.SellerID, sell.TenantID, in.ShareName)
		s.bestDealFeed.Flush()
	}

	return sell, nil
}

// UpdateSell патчит предложение. Изменение закупочной цены или количества
// пересчитывает цену продажи тем же калькулятором, что и при создании, и
// floor price акции снова опускается, если новая цена его пробивает.
func (s *Service) UpdateSell(ctx context.Context, actor value.Actor, sellID int64, patch SellPatch) (*entity.Sell, error) {
	sell, err := s.sellRepo.GetByID(ctx, sellID)
	if err != nil {
		return nil, err
	}

	if patch.ActualPrice != nil && *patch.ActualPrice <= 0 {
		return nil, domain.NewError(errcodes.InvalidPrice, "price must be positive")
	}
	if patch.Quantity != nil && *patch.Quantity <= 0 {
		return nil, domain.NewError(errcodes.InvalidQuantity, "quantity must be positive")
	}

	if patch.ActualPrice != nil {
		sell.ActualPrice = *patch.ActualPrice
	}
	if patch.Quantity != nil {
		sell.QuantityAvailable = *patch.Quantity
	}
	if patch.ActualPrice != nil || patch.Quantity != nil {
		sell.SellingPrice = pricing.SellingPrice(sell.ActualPrice, sell.QuantityAvailable, actor.Tier)
	}

	if patch.MinOrderQuantity != nil {
		sell.MinOrderQuantity = *patch.MinOrderQuantity
	}
	if patch.FixedPrice != nil {
		sell.FixedPrice = *patch.FixedPrice
	}
	if patch.ShareInStock != nil {
		sell.ShareInStock = *patch.ShareInStock
	}
	if patch.PreShareTransfer != nil {
		sell.PreShareTransfer = *patch.PreShareTransfer
	}
	if patch.ConfirmDelivery != nil {
		sell.ConfirmDelivery = *patch.ConfirmDelivery
	}
	if patch.DeliveryTimeline != nil {
		sell.DeliveryTimeline = *patch.DeliveryTimeline
	}
	if patch.EndSeller != nil {
		sell.EndSeller = patch.EndSeller
	}

	bestDealApproved := false
	if patch.BestDeal != nil {
		sell.BestDeal = *patch.BestDeal
		if sell.BestDeal && actor.Tier.CanAutoApprove() {
			sell.Approved = true
			bestDealApproved = true
		}
	}

	if err := s.sellRepo.Update(ctx, sell); err != nil {
		return nil, err
	}

	if err := s.shareRepo.LowerFloorPrice(ctx, sell.ShareID, sell.SellingPrice); err != nil {
		return nil, err
	}

	if bestDealApproved {
		if share, err := s.shareRepo.GetByID(ctx, sell.ShareID); err == nil {
			s.notifyBestDeal(ctx, sell.SellerID, sell.TenantID, share.Name)
		}
	}
	if patch.BestDeal != nil {
		s.bestDealFeed.Flush()
	}

	return sell, nil
}

func (s *Service) DeleteSell(ctx context.Context, sellID int64) error {
	if err := s.sellRepo.Delete(ctx, sellID); err != nil {
		return err
	}

	s.bestDealFeed.Flush()

	return nil
}

// ListShares возвращает каталог акций: в рамках тенанта для обычных
// вызывающих, глобально для кросс-тенантных уровней.
func (s *Service) ListShares(ctx context.Context, viewer value.Actor) ([]entity.Share, error) {
	if viewer.Tier.CrossTenant() {
		return s.shareRepo.ListAll(ctx)
	}

	return s.shareRepo.List(ctx, viewer.TenantID)
}

func (s *Service) GetShare(ctx context.Context, shareID int64) (*entity.Share, error) {
	return s.shareRepo.GetByID(ctx, shareID)
}

// AddShares массово заполняет каталог акций тенанта.
func (s *Service) AddShares(ctx context.Context, operator value.Actor, shares []entity.Share) error {
	for i := range shares {
		if shares[i].Name == "" {
			return domain.NewError(errcodes.InvalidShareName, "share name is required")
		}
		shares[i].TenantID = operator.TenantID
	}

	return s.shareRepo.CreateBatch(ctx, shares)
}

// ListSells — покупательская лента: никогда не включает собственные
// предложения зрителя.
func (s *Service) ListSells(ctx context.Context, viewer value.Actor) ([]entity.SellListing, error) {
	filter := SellFilter{ExcludeSellerID: &viewer.ID}
	if !viewer.Tier.CrossTenant() {
		filter.TenantID = &viewer.TenantID
	}

	return s.sellRepo.List(ctx, filter)
}

func (s *Service) ListSellsForShare(ctx context.Context, viewer value.Actor, shareID int64) ([]entity.SellListing, error) {
	return s.sellRepo.List(ctx, SellFilter{
		ShareID:         &shareID,
		ExcludeSellerID: &viewer.ID,
	})
}

func (s *Service) ListMySells(ctx context.Context, seller value.Actor) ([]entity.SellListing, error) {
	return s.sellRepo.List(ctx, SellFilter{
		TenantID: &seller.TenantID,
		SellerID: &seller.ID,
	})
}

// GetMySell возвращает одно из собственных предложений вызывающего.
func (s *Service) GetMySell(ctx context.Context, seller value.Actor, sellID int64) (*entity.SellListing, error) {
	sell, err := s.sellRepo.GetListingByID(ctx, sellID)
	if err != nil {
		return nil, err
	}

	if sell.SellerID != seller.ID {
		return nil, domain.NewError(errcodes.SellNotFound, "sell not found")
	}

	return sell, nil
}

func validateNewSell(in NewSell) error {
	switch {
	case in.ShareName == "":
		return domain.NewError(errcodes.InvalidShareName, "share name is required")
	case in.ActualPrice <= 0:
		return domain.NewError(errcodes.InvalidPrice, "price must be positive")
	case in.Quantity <= 0:
		return domain.NewError(errcodes.InvalidQuantity, "quantity must be positive")
	}

	return nil
}

func (s *Service) notifyBestDeal(ctx context.Context, userID, tenantID int64, shareName string) {
	if err := s.notifier.BestDealApproved(ctx, userID, tenantID, shareName); err != nil {
		logger(ctx).Error("notifier.BestDealApproved",
			logx.Error(err),
			slog.Int64(logx.FieldUserID, userID),
			slog.String(logx.FieldShareName, shareName),
		)
	}
}
