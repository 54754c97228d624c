package listing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"share_market/internal/domain"
	"share_market/internal/domain/entity"
	"share_market/internal/domain/service/listing"
	"share_market/internal/domain/value"
	"share_market/pkg/errcodes"
)

type fakeShareRepo struct {
	shares      map[int64]*entity.Share
	nextID      int64
	lowerCalls  []float64
	getOrCreate []float64
}

func newFakeShareRepo() *fakeShareRepo {
	return &fakeShareRepo{shares: map[int64]*entity.Share{}, nextID: 1}
}

func (r *fakeShareRepo) GetOrCreate(_ context.Context, tenantID int64, name string, seedPrice float64) (*entity.Share, error) {
	r.getOrCreate = append(r.getOrCreate, seedPrice)

	for _, s := range r.shares {
		if s.TenantID == tenantID && s.Name == name {
			if seedPrice < s.FloorPrice {
				s.FloorPrice = seedPrice
			}
			return s, nil
		}
	}

	share := &entity.Share{ID: r.nextID, TenantID: tenantID, Name: name, FloorPrice: seedPrice}
	r.shares[share.ID] = share
	r.nextID++

	return share, nil
}

func (r *fakeShareRepo) LowerFloorPrice(_ context.Context, shareID int64, price float64) error {
	r.lowerCalls = append(r.lowerCalls, price)

	share, ok := r.shares[shareID]
	if !ok {
		return domain.NewError(errcodes.ShareNotFound, "share not found")
	}
	if price < share.FloorPrice {
		share.FloorPrice = price
	}

	return nil
}

func (r *fakeShareRepo) GetByID(_ context.Context, id int64) (*entity.Share, error) {
	share, ok := r.shares[id]
	if !ok {
		return nil, domain.NewError(errcodes.ShareNotFound, "share not found")
	}

	return share, nil
}

func (r *fakeShareRepo) List(_ context.Context, tenantID int64) ([]entity.Share, error) {
	var out []entity.Share
	for _, s := range r.shares {
		if s.TenantID == tenantID {
			out = append(out, *s)
		}
	}

	return out, nil
}

func (r *fakeShareRepo) ListAll(context.Context) ([]entity.Share, error) {
	var out []entity.Share
	for _, s := range r.shares {
		out = append(out, *s)
	}

	return out, nil
}

func (r *fakeShareRepo) CreateBatch(_ context.Context, shares []entity.Share) error {
	for i := range shares {
		shares[i].ID = r.nextID
		r.shares[r.nextID] = &shares[i]
		r.nextID++
	}

	return nil
}

type fakeSellRepo struct {
	sells  map[int64]*entity.Sell
	shares *fakeShareRepo
	nextID int64
}

func newFakeSellRepo(shares *fakeShareRepo) *fakeSellRepo {
	return &fakeSellRepo{sells: map[int64]*entity.Sell{}, shares: shares, nextID: 1}
}

func (r *fakeSellRepo) Create(_ context.Context, sell *entity.Sell) error {
	sell.ID = r.nextID
	copied := *sell
	r.sells[sell.ID] = &copied
	r.nextID++

	return nil
}

func (r *fakeSellRepo) GetByID(_ context.Context, id int64) (*entity.Sell, error) {
	sell, ok := r.sells[id]
	if !ok {
		return nil, domain.NewError(errcodes.SellNotFound, "sell not found")
	}
	copied := *sell

	return &copied, nil
}

func (r *fakeSellRepo) GetListingByID(ctx context.Context, id int64) (*entity.SellListing, error) {
	sell, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	share := r.shares.shares[sell.ShareID]
	l := &entity.SellListing{Sell: *sell}
	if share != nil {
		l.ShareName = share.Name
		l.FloorPrice = share.FloorPrice
	}

	return l, nil
}

func (r *fakeSellRepo) Update(_ context.Context, sell *entity.Sell) error {
	if _, ok := r.sells[sell.ID]; !ok {
		return domain.NewError(errcodes.SellNotFound, "sell not found")
	}
	copied := *sell
	r.sells[sell.ID] = &copied

	return nil
}

func (r *fakeSellRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.sells[id]; !ok {
		return domain.NewError(errcodes.SellNotFound, "sell not found")
	}
	delete(r.sells, id)

	return nil
}

func (r *fakeSellRepo) List(ctx context.Context, filter listing.SellFilter) ([]entity.SellListing, error) {
	out := []entity.SellListing{}
	for id, s := range r.sells {
		if filter.TenantID != nil && s.TenantID != *filter.TenantID {
			continue
		}
		if filter.ShareID != nil && s.ShareID != *filter.ShareID {
			continue
		}
		if filter.SellerID != nil && s.SellerID != *filter.SellerID {
			continue
		}
		if filter.ExcludeSellerID != nil && s.SellerID == *filter.ExcludeSellerID {
			continue
		}
		if filter.BestDeal != nil && s.BestDeal != *filter.BestDeal {
			continue
		}
		if filter.Approved != nil && s.Approved != *filter.Approved {
			continue
		}

		l, err := r.GetListingByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}

	return out, nil
}

type fakeNotifier struct {
	bestDeals []string
	err       error
}

func (n *fakeNotifier) BestDealApproved(_ context.Context, _, _ int64, shareName string) error {
	if n.err != nil {
		return n.err
	}
	n.bestDeals = append(n.bestDeals, shareName)

	return nil
}

func newListingService() (*listing.Service, *fakeShareRepo, *fakeSellRepo, *fakeNotifier) {
	shares := newFakeShareRepo()
	sells := newFakeSellRepo(shares)
	notifier := &fakeNotifier{}

	return listing.NewService(shares, sells, notifier), shares, sells, notifier
}

func customer(id, tenant int64) value.Actor {
	return value.Actor{ID: id, TenantID: tenant, Tier: value.TierCustomer}
}

func operator(id, tenant int64) value.Actor {
	return value.Actor{ID: id, TenantID: tenant, Tier: value.TierOperator}
}

func TestCreateSellAppliesMarkup(t *testing.T) {
	rq := require.New(t)

	svc, shares, _, _ := newListingService()

	sell, err := svc.CreateSell(context.Background(), customer(1, 10), listing.NewSell{
		ShareName:   "Acme",
		ActualPrice: 200,
		Quantity:    500,
	})
	rq.NoError(err)
	rq.InDelta(210, sell.SellingPrice, 1e-9)
	rq.InDelta(200, sell.ActualPrice, 1e-9)

	// Floor задаётся ценой продажи, не закупочной
	rq.Len(shares.getOrCreate, 1)
	rq.InDelta(210, shares.getOrCreate[0], 1e-9)
}

func TestCreateSellOperatorBypassesMarkup(t *testing.T) {
	rq := require.New(t)

	svc, _, _, _ := newListingService()

	sell, err := svc.CreateSell(context.Background(), operator(1, 10), listing.NewSell{
		ShareName:   "Acme",
		ActualPrice: 200,
		Quantity:    500,
	})
	rq.NoError(err)
	rq.InDelta(200, sell.SellingPrice, 1e-9)
}

func TestCreateSellValidation(t *testing.T) {
	rq := require.New(t)

	svc, _, _, _ := newListingService()
	ctx := context.Background()

	_, err := svc.CreateSell(ctx, customer(1, 10), listing.NewSell{ActualPrice: 100, Quantity: 10})
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.InvalidShareName, code)

	_, err = svc.CreateSell(ctx, customer(1, 10), listing.NewSell{ShareName: "Acme", Quantity: 10})
	code, _ = domain.GetCode(err)
	rq.Equal(errcodes.InvalidPrice, code)

	_, err = svc.CreateSell(ctx, customer(1, 10), listing.NewSell{ShareName: "Acme", ActualPrice: 100})
	code, _ = domain.GetCode(err)
	rq.Equal(errcodes.InvalidQuantity, code)
}

func TestCreateSellBestDealAutoApproval(t *testing.T) {
	rq := require.New(t)

	svc, _, _, notifier := newListingService()
	ctx := context.Background()

	// Флаг от покупателя остаётся pending, без уведомления
	sell, err := svc.CreateSell(ctx, customer(1, 10), listing.NewSell{
		ShareName: "Acme", ActualPrice: 100, Quantity: 10, BestDeal: true,
	})
	rq.NoError(err)
	rq.True(sell.BestDeal)
	rq.False(sell.Approved)
	rq.Empty(notifier.bestDeals)

	// Флаг от оператора утверждается сразу и анонсируется
	sell, err = svc.CreateSell(ctx, operator(2, 10), listing.NewSell{
		ShareName: "Acme", ActualPrice: 100, Quantity: 10, BestDeal: true,
	})
	rq.NoError(err)
	rq.True(sell.Approved)
	rq.Equal([]string{"Acme"}, notifier.bestDeals)
}

func TestCreateSellNotifierFailureIsSwallowed(t *testing.T) {
	rq := require.New(t)

	svc, _, _, notifier := newListingService()
	notifier.err = errors.New("queue down")

	sell, err := svc.CreateSell(context.Background(), operator(1, 10), listing.NewSell{
		ShareName: "Acme", ActualPrice: 100, Quantity: 10, BestDeal: true,
	})
	rq.NoError(err)
	rq.True(sell.Approved)
}

func TestFloorPriceOnlyMovesDown(t *testing.T) {
	rq := require.New(t)

	svc, shares, _, _ := newListingService()
	ctx := context.Background()

	_, err := svc.CreateSell(ctx, customer(1, 10), listing.NewSell{
		ShareName: "Acme", ActualPrice: 200, Quantity: 500,
	})
	rq.NoError(err)

	// Второе предложение дороже floor не трогает
	_, err = svc.CreateSell(ctx, customer(2, 10), listing.NewSell{
		ShareName: "Acme", ActualPrice: 300, Quantity: 500,
	})
	rq.NoError(err)
	rq.InDelta(210, shares.shares[1].FloorPrice, 1e-9)

	// Третье предложение дешевле его опускает
	_, err = svc.CreateSell(ctx, customer(3, 10), listing.NewSell{
		ShareName: "Acme", ActualPrice: 100, Quantity: 500,
	})
	rq.NoError(err)
	rq.InDelta(110, shares.shares[1].FloorPrice, 1e-9)
}

func TestUpdateSellRecomputesSellingPrice(t *testing.T) {
	rq := require.New(t)

	svc, shares, _, _ := newListingService()
	ctx := context.Background()

	seller := customer(1, 10)
	created, err := svc.CreateSell(ctx, seller, listing.NewSell{
		ShareName: "Acme", ActualPrice: 200, Quantity: 500,
	})
	rq.NoError(err)

	newPrice := 150.0
	updated, err := svc.UpdateSell(ctx, seller, created.ID, listing.SellPatch{ActualPrice: &newPrice})
	rq.NoError(err)
	rq.InDelta(160, updated.SellingPrice, 1e-9)

	// Обновление ниже floor утягивает его за собой
	rq.InDelta(160, shares.shares[created.ShareID].FloorPrice, 1e-9)
}

func TestUpdateSellQuantityCrossesTier(t *testing.T) {
	rq := require.New(t)

	svc, _, _, _ := newListingService()
	ctx := context.Background()

	seller := customer(1, 10)
	created, err := svc.CreateSell(ctx, seller, listing.NewSell{
		ShareName: "Acme", ActualPrice: 200, Quantity: 500,
	})
	rq.NoError(err)
	rq.InDelta(210, created.SellingPrice, 1e-9)

	bulk := 25000
	updated, err := svc.UpdateSell(ctx, seller, created.ID, listing.SellPatch{Quantity: &bulk})
	rq.NoError(err)
	rq.InDelta(202, updated.SellingPrice, 1e-9)
}

func TestUpdateSellUntouchedFieldsSurvive(t *testing.T) {
	rq := require.New(t)

	svc, _, _, _ := newListingService()
	ctx := context.Background()

	seller := customer(1, 10)
	created, err := svc.CreateSell(ctx, seller, listing.NewSell{
		ShareName: "Acme", ActualPrice: 200, Quantity: 500,
		FixedPrice: true, DeliveryTimeline: "T+2",
	})
	rq.NoError(err)

	inStock := true
	updated, err := svc.UpdateSell(ctx, seller, created.ID, listing.SellPatch{ShareInStock: &inStock})
	rq.NoError(err)
	rq.True(updated.FixedPrice)
	rq.Equal("T+2", updated.DeliveryTimeline)
	rq.InDelta(210, updated.SellingPrice, 1e-9)
}

func TestListSellsExcludesOwn(t *testing.T) {
	rq := require.New(t)

	svc, _, _, _ := newListingService()
	ctx := context.Background()

	_, err := svc.CreateSell(ctx, customer(1, 10), listing.NewSell{ShareName: "Acme", ActualPrice: 100, Quantity: 10})
	rq.NoError(err)
	_, err = svc.CreateSell(ctx, customer(2, 10), listing.NewSell{ShareName: "Acme", ActualPrice: 100, Quantity: 10})
	rq.NoError(err)

	sells, err := svc.ListSells(ctx, customer(1, 10))
	rq.NoError(err)
	rq.Len(sells, 1)
	rq.EqualValues(2, sells[0].SellerID)
}

func TestListSellsTenantScoping(t *testing.T) {
	rq := require.New(t)

	svc, _, _, _ := newListingService()
	ctx := context.Background()

	_, err := svc.CreateSell(ctx, customer(1, 10), listing.NewSell{ShareName: "Acme", ActualPrice: 100, Quantity: 10})
	rq.NoError(err)
	_, err = svc.CreateSell(ctx, customer(2, 20), listing.NewSell{ShareName: "Beta", ActualPrice: 100, Quantity: 10})
	rq.NoError(err)

	// Покупатель видит только свой тенант
	sells, err := svc.ListSells(ctx, customer(3, 10))
	rq.NoError(err)
	rq.Len(sells, 1)

	// Админ франшизы видит поверх тенантов
	admin := value.Actor{ID: 3, TenantID: 10, Tier: value.TierFranchiseAdmin}
	sells, err = svc.ListSells(ctx, admin)
	rq.NoError(err)
	rq.Len(sells, 2)
}

func TestGetMySellOwnershipCheck(t *testing.T) {
	rq := require.New(t)

	svc, _, _, _ := newListingService()
	ctx := context.Background()

	created, err := svc.CreateSell(ctx, customer(1, 10), listing.NewSell{ShareName: "Acme", ActualPrice: 100, Quantity: 10})
	rq.NoError(err)

	_, err = svc.GetMySell(ctx, customer(1, 10), created.ID)
	rq.NoError(err)

	// Чужое предложение читается как not found, не forbidden
	_, err = svc.GetMySell(ctx, customer(2, 10), created.ID)
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.SellNotFound, code)
}

func TestApproveBestDealRequiresFlag(t *testing.T) {
	rq := require.New(t)

	svc, _, _, notifier := newListingService()
	ctx := context.Background()

	created, err := svc.CreateSell(ctx, customer(1, 10), listing.NewSell{ShareName: "Acme", ActualPrice: 100, Quantity: 10})
	rq.NoError(err)

	_, err = svc.ApproveBestDeal(ctx, created.ID)
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.BestDealNotFlagged, code)

	flagged, err := svc.CreateSell(ctx, customer(1, 10), listing.NewSell{
		ShareName: "Acme", ActualPrice: 100, Quantity: 10, BestDeal: true,
	})
	rq.NoError(err)

	approved, err := svc.ApproveBestDeal(ctx, flagged.ID)
	rq.NoError(err)
	rq.True(approved.Approved)
	rq.Equal([]string{"Acme"}, notifier.bestDeals)
}

func TestBestDealLifecycle(t *testing.T) {
	rq := require.New(t)

	svc, _, _, _ := newListingService()
	ctx := context.Background()

	flagged, err := svc.CreateSell(ctx, customer(1, 10), listing.NewSell{
		ShareName: "Acme", ActualPrice: 100, Quantity: 10, BestDeal: true,
	})
	rq.NoError(err)

	// До утверждения висит в очереди модерации
	pending, err := svc.ListPendingBestDeals(ctx, operator(9, 10))
	rq.NoError(err)
	rq.Len(pending, 1)

	feed, err := svc.ListBestDeals(ctx, customer(2, 10))
	rq.NoError(err)
	rq.Empty(feed)

	_, err = svc.ApproveBestDeal(ctx, flagged.ID)
	rq.NoError(err)

	feed, err = svc.ListBestDeals(ctx, customer(2, 10))
	rq.NoError(err)
	rq.Len(feed, 1)

	// Продавец не видит собственную сделку в ленте
	feed, err = svc.ListBestDeals(ctx, customer(1, 10))
	rq.NoError(err)
	rq.Empty(feed)

	discarded, err := svc.DiscardBestDeal(ctx, flagged.ID)
	rq.NoError(err)
	rq.False(discarded.BestDeal)

	feed, err = svc.ListBestDeals(ctx, customer(3, 10))
	rq.NoError(err)
	rq.Empty(feed)
}

func TestAddShares(t *testing.T) {
	rq := require.New(t)

	svc, _, _, _ := newListingService()
	ctx := context.Background()

	err := svc.AddShares(ctx, operator(1, 10), []entity.Share{
		{Name: "Acme", FloorPrice: 100},
		{Name: "Beta", FloorPrice: 50},
	})
	rq.NoError(err)

	shares, err := svc.ListShares(ctx, customer(2, 10))
	rq.NoError(err)
	rq.Len(shares, 2)

	err = svc.AddShares(ctx, operator(1, 10), []entity.Share{{FloorPrice: 1}})
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.InvalidShareName, code)
}
