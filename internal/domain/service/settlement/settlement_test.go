package settlement_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"share_market/internal/domain"
	"share_market/internal/domain/entity"
	"share_market/internal/domain/service/settlement"
	"share_market/internal/domain/value"
	"share_market/pkg/errcodes"
)

type fakeDealRepo struct {
	closeSellCalls []settlement.InterestKind
	resolved       map[int64]bool
	sellID         int64
	quantity       int
	queryRow       *entity.BuyQuery
}

func (r *fakeDealRepo) CloseSell(_ context.Context, tx *entity.Transaction, sellID, interestID int64, kind settlement.InterestKind) (*settlement.CloseResult, error) {
	if r.resolved[interestID] || sellID != r.sellID {
		return nil, domain.NewError(errcodes.InterestAlreadyResolved, "interest is not pending against this sell")
	}
	r.resolved[interestID] = true
	r.closeSellCalls = append(r.closeSellCalls, kind)

	remaining := r.quantity - tx.Quantity
	if remaining <= 0 {
		return &settlement.CloseResult{Transaction: tx, FullyConsumed: true}, nil
	}

	return &settlement.CloseResult{Transaction: tx, Remaining: remaining}, nil
}

func (r *fakeDealRepo) CloseBuyQuery(_ context.Context, queryID int64, tx *entity.Transaction) (*entity.Transaction, error) {
	if r.resolved[queryID] {
		return nil, domain.NewError(errcodes.InterestAlreadyResolved, "buy query already resolved or not found")
	}
	r.resolved[queryID] = true

	tx.BuyerID = r.queryRow.BuyerID
	tx.TenantID = r.queryRow.TenantID
	tx.ShareName = r.queryRow.ShareName
	if tx.Quantity == 0 {
		tx.Quantity = r.queryRow.Quantity
	}
	if tx.Price == 0 {
		tx.Price = r.queryRow.Price
	}

	return tx, nil
}

type fakeTransactionRepo struct {
	transactions []entity.Transaction
}

func (r *fakeTransactionRepo) ListByTenant(_ context.Context, tenantID int64) ([]entity.Transaction, error) {
	out := []entity.Transaction{}
	for _, tx := range r.transactions {
		if tx.TenantID == tenantID {
			out = append(out, tx)
		}
	}

	return out, nil
}

type fakeSellReader struct {
	listings map[int64]*entity.SellListing
}

func (r *fakeSellReader) GetListingByID(_ context.Context, id int64) (*entity.SellListing, error) {
	l, ok := r.listings[id]
	if !ok {
		return nil, domain.NewError(errcodes.SellNotFound, "sell not found")
	}

	return l, nil
}

func operator() value.Actor {
	return value.Actor{ID: 3, TenantID: 10, Tier: value.TierOperator}
}

func newSettlementService(available int) (*settlement.Service, *fakeDealRepo, *fakeTransactionRepo) {
	deals := &fakeDealRepo{
		resolved: map[int64]bool{},
		sellID:   1,
		quantity: available,
		queryRow: &entity.BuyQuery{ID: 5, BuyerID: 7, TenantID: 10, ShareName: "Acme", Quantity: 100, Price: 95},
	}
	transactions := &fakeTransactionRepo{}
	sells := &fakeSellReader{listings: map[int64]*entity.SellListing{
		1: {
			Sell: entity.Sell{
				ID:                1,
				SellerID:          42,
				TenantID:          10,
				SellingPrice:      210,
				QuantityAvailable: available,
			},
			ShareName: "Acme",
		},
		2: {
			Sell: entity.Sell{
				ID:                2,
				SellerID:          43,
				TenantID:          10,
				SellingPrice:      150,
				QuantityAvailable: 1000,
			},
			ShareName: "Beta",
		},
	}}

	return settlement.NewService(deals, transactions, sells), deals, transactions
}

func closeParams(kind settlement.InterestKind, quantity int, price float64) settlement.CloseDealParams {
	return settlement.CloseDealParams{
		SellID:     1,
		InterestID: 5,
		Kind:       kind,
		SellerID:   42,
		BuyerID:    7,
		Quantity:   quantity,
		Price:      price,
	}
}

func TestCloseDealPartial(t *testing.T) {
	rq := require.New(t)

	svc, _, _ := newSettlementService(500)

	result, err := svc.CloseDeal(context.Background(), operator(), closeParams(settlement.KindBid, 200, 215))
	rq.NoError(err)
	rq.False(result.FullyConsumed)
	rq.Equal(300, result.Remaining)
	rq.InDelta(215, result.Transaction.Price, 1e-9)
	rq.Equal("Acme", result.Transaction.ShareName)
	rq.EqualValues(3, result.Transaction.ClosedBy)
}

func TestCloseDealFullConsumption(t *testing.T) {
	rq := require.New(t)

	svc, _, _ := newSettlementService(200)

	result, err := svc.CloseDeal(context.Background(), operator(), closeParams(settlement.KindBooking, 200, 0))
	rq.NoError(err)
	rq.True(result.FullyConsumed)
	rq.Zero(result.Remaining)
}

func TestCloseDealExceedingQuantityConsumesSell(t *testing.T) {
	rq := require.New(t)

	svc, _, _ := newSettlementService(200)

	// 300 из 200 доступных: sell потребляется целиком, не ошибка
	result, err := svc.CloseDeal(context.Background(), operator(), closeParams(settlement.KindBid, 300, 215))
	rq.NoError(err)
	rq.True(result.FullyConsumed)
	rq.Zero(result.Remaining)
}

func TestCloseDealWrongSellConflicts(t *testing.T) {
	rq := require.New(t)

	svc, deals, _ := newSettlementService(500)

	// Заявка 5 относится к sell 1; закрытие против sell 2 — конфликт,
	// заявка остаётся нетронутой
	params := closeParams(settlement.KindBid, 100, 215)
	params.SellID = 2
	_, err := svc.CloseDeal(context.Background(), operator(), params)
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.InterestAlreadyResolved, code)
	rq.False(deals.resolved[5])
}

func TestCloseDealBookingDefaultsToListingPrice(t *testing.T) {
	rq := require.New(t)

	svc, _, _ := newSettlementService(500)

	result, err := svc.CloseDeal(context.Background(), operator(), closeParams(settlement.KindBooking, 100, 0))
	rq.NoError(err)
	rq.InDelta(210, result.Transaction.Price, 1e-9)
}

func TestCloseDealBidRequiresPrice(t *testing.T) {
	rq := require.New(t)

	svc, deals, _ := newSettlementService(500)

	_, err := svc.CloseDeal(context.Background(), operator(), closeParams(settlement.KindBid, 100, 0))
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.InvalidPrice, code)
	rq.Empty(deals.closeSellCalls)
}

func TestCloseDealDoubleSettlementConflicts(t *testing.T) {
	rq := require.New(t)

	svc, _, _ := newSettlementService(500)
	ctx := context.Background()

	_, err := svc.CloseDeal(ctx, operator(), closeParams(settlement.KindBid, 100, 215))
	rq.NoError(err)

	// Повторное закрытие той же заявки проигрывает гонку
	_, err = svc.CloseDeal(ctx, operator(), closeParams(settlement.KindBid, 100, 215))
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.InterestAlreadyResolved, code)
}

func TestCloseDealValidation(t *testing.T) {
	rq := require.New(t)

	svc, _, _ := newSettlementService(500)
	ctx := context.Background()

	params := closeParams(settlement.KindBid, 100, 215)
	params.SellID = 0
	_, err := svc.CloseDeal(ctx, operator(), params)
	code, _ := domain.GetCode(err)
	rq.Equal(errcodes.InvalidSellID, code)

	params = closeParams("auction", 100, 215)
	_, err = svc.CloseDeal(ctx, operator(), params)
	code, _ = domain.GetCode(err)
	rq.Equal(errcodes.ValidationError, code)

	params = closeParams(settlement.KindBid, 0, 215)
	_, err = svc.CloseDeal(ctx, operator(), params)
	code, _ = domain.GetCode(err)
	rq.Equal(errcodes.InvalidQuantity, code)
}

func TestCloseDealUnknownSell(t *testing.T) {
	rq := require.New(t)

	svc, _, _ := newSettlementService(500)

	params := closeParams(settlement.KindBid, 100, 215)
	params.SellID = 99
	_, err := svc.CloseDeal(context.Background(), operator(), params)
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.SellNotFound, code)
}

func TestCloseBuyQueryDefaultsFromQueryRow(t *testing.T) {
	rq := require.New(t)

	svc, _, _ := newSettlementService(500)

	tx, err := svc.CloseBuyQuery(context.Background(), operator(), 5, 42, 0, 0)
	rq.NoError(err)
	rq.Equal("Acme", tx.ShareName)
	rq.EqualValues(7, tx.BuyerID)
	rq.Equal(100, tx.Quantity)
	rq.InDelta(95, tx.Price, 1e-9)
}

func TestCloseBuyQueryOverrides(t *testing.T) {
	rq := require.New(t)

	svc, _, _ := newSettlementService(500)

	tx, err := svc.CloseBuyQuery(context.Background(), operator(), 5, 42, 60, 97.5)
	rq.NoError(err)
	rq.Equal(60, tx.Quantity)
	rq.InDelta(97.5, tx.Price, 1e-9)
}

func TestCloseBuyQueryDoubleSettlementConflicts(t *testing.T) {
	rq := require.New(t)

	svc, _, _ := newSettlementService(500)
	ctx := context.Background()

	_, err := svc.CloseBuyQuery(ctx, operator(), 5, 42, 0, 0)
	rq.NoError(err)

	_, err = svc.CloseBuyQuery(ctx, operator(), 5, 42, 0, 0)
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.InterestAlreadyResolved, code)
}

func TestListTransactions(t *testing.T) {
	rq := require.New(t)

	svc, _, transactions := newSettlementService(500)
	transactions.transactions = []entity.Transaction{
		{ID: 1, TenantID: 10, ShareName: "Acme"},
		{ID: 2, TenantID: 20, ShareName: "Beta"},
	}

	ledger, err := svc.ListTransactions(context.Background(), 10)
	rq.NoError(err)
	rq.Len(ledger, 1)
	rq.Equal("Acme", ledger[0].ShareName)
}
