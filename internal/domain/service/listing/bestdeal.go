package listing

import (
	"context"
	"fmt"

	"github.com/patrickmn/go-cache"

	"share_market/internal/domain"
	"share_market/internal/domain/entity"
	"share_market/internal/domain/value"
	"share_market/pkg/errcodes"
)

// Продвижение best deal: без флага → с флагом (pending) → с флагом
// (approved), в любой момент сбрасывается обратно. В публичную ленту попадают
// только строки с флагом и утверждением.

// ApproveBestDeal утверждает ожидающий флаг best deal и оповещает покупателей.
func (s *Service) ApproveBestDeal(ctx context.Context, sellID int64) (*entity.SellListing, error) {
	sell, err := s.sellRepo.GetListingByID(ctx, sellID)
	if err != nil {
		return nil, err
	}

	if !sell.BestDeal {
		return nil, domain.NewError(errcodes.BestDealNotFlagged, "sell is not flagged as best deal")
	}

	sell.Approved = true
	if err := s.sellRepo.Update(ctx, &sell.Sell); err != nil {
		return nil, err
	}

	s.notifyBestDeal(ctx, sell.SellerID, sell.TenantID, sell.ShareName)
	s.bestDealFeed.Flush()

	return sell, nil
}

// DiscardBestDeal снимает флаг; бит approved не трогаем, без bestDeal он
// ничего не значит.
func (s *Service) DiscardBestDeal(ctx context.Context, sellID int64) (*entity.SellListing, error) {
	sell, err := s.sellRepo.GetListingByID(ctx, sellID)
	if err != nil {
		return nil, err
	}

	if !sell.BestDeal {
		return nil, domain.NewError(errcodes.BestDealNotFlagged, "sell is not flagged as best deal")
	}

	sell.BestDeal = false
	if err := s.sellRepo.Update(ctx, &sell.Sell); err != nil {
		return nil, err
	}

	s.bestDealFeed.Flush()

	return sell, nil
}

// ListBestDeals возвращает ленту утверждённых best deal: в рамках тенанта
// (кросс-тенантно для административных уровней), без собственных предложений
// зрителя. Лента ненадолго кэшируется; мутации сбрасывают кэш.
func (s *Service) ListBestDeals(ctx context.Context, viewer value.Actor) ([]entity.SellListing, error) {
	cacheKey := fmt.Sprintf("best-deals:%d:%d", viewer.TenantID, viewer.ID)
	if cached, found := s.bestDealFeed.Get(cacheKey); found {
		return cached.([]entity.SellListing), nil
	}

	flagged, approved := true, true
	filter := SellFilter{
		BestDeal:        &flagged,
		Approved:        &approved,
		ExcludeSellerID: &viewer.ID,
	}
	if !viewer.Tier.CrossTenant() {
		filter.TenantID = &viewer.TenantID
	}

	deals, err := s.sellRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	s.bestDealFeed.Set(cacheKey, deals, cache.DefaultExpiration)

	return deals, nil
}

// ListPendingBestDeals — очередь модерации оператора: с флагом, но ещё не
// утверждённые, внутри тенанта оператора.
func (s *Service) ListPendingBestDeals(ctx context.Context, operator value.Actor) ([]entity.SellListing, error) {
	flagged, approved := true, false

	return s.sellRepo.List(ctx, SellFilter{
		TenantID: &operator.TenantID,
		BestDeal: &flagged,
		Approved: &approved,
	})
}

// GetBestDeal возвращает один утверждённый best deal по id предложения.
func (s *Service) GetBestDeal(ctx context.Context, sellID int64) (*entity.SellListing, error) {
	sell, err := s.sellRepo.GetListingByID(ctx, sellID)
	if err != nil {
		return nil, err
	}

	if !sell.BestDeal || !sell.Approved {
		return nil, domain.NewError(errcodes.SellNotFound, "no best deal found")
	}

	return sell, nil
}
