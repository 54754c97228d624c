package interest_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"share_market/internal/domain"
	"share_market/internal/domain/entity"
	"share_market/internal/domain/service/interest"
	"share_market/internal/domain/value"
	"share_market/pkg/errcodes"
)

type fakeSellReader struct {
	sells map[int64]*entity.Sell
}

func (r *fakeSellReader) GetByID(_ context.Context, id int64) (*entity.Sell, error) {
	sell, ok := r.sells[id]
	if !ok {
		return nil, domain.NewError(errcodes.SellNotFound, "sell not found")
	}

	return sell, nil
}

type fakeBidRepo struct {
	bids   map[int64]*entity.Bid
	nextID int64
}

func (r *fakeBidRepo) Create(_ context.Context, bid *entity.Bid) error {
	r.nextID++
	bid.ID = r.nextID
	r.bids[bid.ID] = bid

	return nil
}

func (r *fakeBidRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.bids[id]; !ok {
		return domain.NewError(errcodes.BidNotFound, "bid not found")
	}
	delete(r.bids, id)

	return nil
}

func (r *fakeBidRepo) DeleteByBuyer(_ context.Context, id, buyerID int64) error {
	bid, ok := r.bids[id]
	if !ok || bid.BuyerID != buyerID {
		return domain.NewError(errcodes.BidNotFound, "bid not found")
	}
	delete(r.bids, id)

	return nil
}

func (r *fakeBidRepo) ListByTenant(_ context.Context, tenantID int64) ([]entity.BidListing, error) {
	out := []entity.BidListing{}
	for _, b := range r.bids {
		if b.TenantID == tenantID {
			out = append(out, entity.BidListing{Bid: *b})
		}
	}

	return out, nil
}

func (r *fakeBidRepo) ListByBuyer(_ context.Context, buyerID int64) ([]entity.BidListing, error) {
	out := []entity.BidListing{}
	for _, b := range r.bids {
		if b.BuyerID == buyerID {
			out = append(out, entity.BidListing{Bid: *b})
		}
	}

	return out, nil
}

type fakeBookingRepo struct {
	bookings map[int64]*entity.Booking
	nextID   int64
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	r.nextID++
	booking.ID = r.nextID
	r.bookings[booking.ID] = booking

	return nil
}

func (r *fakeBookingRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.bookings[id]; !ok {
		return domain.NewError(errcodes.BookingNotFound, "booking not found")
	}
	delete(r.bookings, id)

	return nil
}

func (r *fakeBookingRepo) DeleteByBuyer(_ context.Context, id, buyerID int64) error {
	booking, ok := r.bookings[id]
	if !ok || booking.BuyerID != buyerID {
		return domain.NewError(errcodes.BookingNotFound, "booking not found")
	}
	delete(r.bookings, id)

	return nil
}

func (r *fakeBookingRepo) ListByTenant(_ context.Context, tenantID int64) ([]entity.BookingListing, error) {
	out := []entity.BookingListing{}
	for _, b := range r.bookings {
		if b.TenantID == tenantID {
			out = append(out, entity.BookingListing{Booking: *b})
		}
	}

	return out, nil
}

func (r *fakeBookingRepo) ListByBuyer(_ context.Context, buyerID int64) ([]entity.BookingListing, error) {
	out := []entity.BookingListing{}
	for _, b := range r.bookings {
		if b.BuyerID == buyerID {
			out = append(out, entity.BookingListing{Booking: *b})
		}
	}

	return out, nil
}

type fakeBuyQueryRepo struct {
	queries map[int64]*entity.BuyQuery
	nextID  int64
}

func (r *fakeBuyQueryRepo) Create(_ context.Context, query *entity.BuyQuery) error {
	r.nextID++
	query.ID = r.nextID
	r.queries[query.ID] = query

	return nil
}

func (r *fakeBuyQueryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.queries[id]; !ok {
		return domain.NewError(errcodes.BuyQueryNotFound, "buy query not found")
	}
	delete(r.queries, id)

	return nil
}

func (r *fakeBuyQueryRepo) ListByTenant(_ context.Context, tenantID int64) ([]entity.BuyQuery, error) {
	out := []entity.BuyQuery{}
	for _, q := range r.queries {
		if q.TenantID == tenantID {
			out = append(out, *q)
		}
	}

	return out, nil
}

type recordingNotifier struct {
	bids     int
	bookings int
	err      error
}

func (n *recordingNotifier) BidRaised(context.Context, int64, string, string) error {
	if n.err != nil {
		return n.err
	}
	n.bids++

	return nil
}

func (n *recordingNotifier) BookingRaised(context.Context, int64, string, string) error {
	if n.err != nil {
		return n.err
	}
	n.bookings++

	return nil
}

func newInterestService() (*interest.Service, *fakeSellReader, *fakeBidRepo, *fakeBookingRepo, *fakeBuyQueryRepo, *recordingNotifier) {
	sells := &fakeSellReader{sells: map[int64]*entity.Sell{
		1: {ID: 1, SellerID: 42, TenantID: 10},
	}}
	bids := &fakeBidRepo{bids: map[int64]*entity.Bid{}}
	bookings := &fakeBookingRepo{bookings: map[int64]*entity.Booking{}}
	queries := &fakeBuyQueryRepo{queries: map[int64]*entity.BuyQuery{}}
	notifier := &recordingNotifier{}

	return interest.NewService(sells, bids, bookings, queries, notifier), sells, bids, bookings, queries, notifier
}

func buyer(id int64) value.Actor {
	return value.Actor{ID: id, TenantID: 10, Tier: value.TierCustomer, FirstName: "Jane", LastName: "Roe"}
}

func TestRaiseBid(t *testing.T) {
	rq := require.New(t)

	svc, _, bids, _, _, notifier := newInterestService()

	bid, err := svc.RaiseBid(context.Background(), buyer(7), 1, 100, 215)
	rq.NoError(err)
	rq.NotZero(bid.ID)
	rq.Len(bids.bids, 1)
	rq.Equal(1, notifier.bids)
}

func TestRaiseBidSelfInterestForbidden(t *testing.T) {
	rq := require.New(t)

	svc, _, bids, _, _, _ := newInterestService()

	// Seller 42 owns sell 1
	_, err := svc.RaiseBid(context.Background(), buyer(42), 1, 100, 215)
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.SelfInterest, code)
	rq.Empty(bids.bids)
}

func TestRaiseBidUnknownSell(t *testing.T) {
	rq := require.New(t)

	svc, _, _, _, _, _ := newInterestService()

	_, err := svc.RaiseBid(context.Background(), buyer(7), 99, 100, 215)
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.SellNotFound, code)
}

func TestRaiseBidValidation(t *testing.T) {
	rq := require.New(t)

	svc, _, _, _, _, _ := newInterestService()
	ctx := context.Background()

	_, err := svc.RaiseBid(ctx, buyer(7), 0, 100, 215)
	code, _ := domain.GetCode(err)
	rq.Equal(errcodes.InvalidSellID, code)

	_, err = svc.RaiseBid(ctx, buyer(7), 1, 0, 215)
	code, _ = domain.GetCode(err)
	rq.Equal(errcodes.InvalidQuantity, code)

	_, err = svc.RaiseBid(ctx, buyer(7), 1, 100, 0)
	code, _ = domain.GetCode(err)
	rq.Equal(errcodes.InvalidPrice, code)
}

func TestRaiseBidNotifierFailureIsSwallowed(t *testing.T) {
	rq := require.New(t)

	svc, _, bids, _, _, notifier := newInterestService()
	notifier.err = errors.New("queue down")

	bid, err := svc.RaiseBid(context.Background(), buyer(7), 1, 100, 215)
	rq.NoError(err)
	rq.NotNil(bid)
	rq.Len(bids.bids, 1)
}

func TestRaiseBooking(t *testing.T) {
	rq := require.New(t)

	svc, _, _, bookings, _, notifier := newInterestService()

	booking, err := svc.RaiseBooking(context.Background(), buyer(7), 1, 50)
	rq.NoError(err)
	rq.NotZero(booking.ID)
	rq.Len(bookings.bookings, 1)
	rq.Equal(1, notifier.bookings)
}

func TestRaiseBookingSelfInterestForbidden(t *testing.T) {
	rq := require.New(t)

	svc, _, _, bookings, _, _ := newInterestService()

	_, err := svc.RaiseBooking(context.Background(), buyer(42), 1, 50)
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.SelfInterest, code)
	rq.Empty(bookings.bookings)
}

func TestRaiseBuyQuery(t *testing.T) {
	rq := require.New(t)

	svc, _, _, _, queries, _ := newInterestService()
	ctx := context.Background()

	query, err := svc.RaiseBuyQuery(ctx, buyer(7), "Acme", 1000, 95)
	rq.NoError(err)
	rq.NotZero(query.ID)
	rq.Len(queries.queries, 1)

	_, err = svc.RaiseBuyQuery(ctx, buyer(7), "", 1000, 95)
	code, _ := domain.GetCode(err)
	rq.Equal(errcodes.InvalidShareName, code)
}

func TestDeleteMyBidOwnershipCheck(t *testing.T) {
	rq := require.New(t)

	svc, _, _, _, _, _ := newInterestService()
	ctx := context.Background()

	bid, err := svc.RaiseBid(ctx, buyer(7), 1, 100, 215)
	rq.NoError(err)

	err = svc.DeleteMyBid(ctx, buyer(8), bid.ID)
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.BidNotFound, code)

	rq.NoError(svc.DeleteMyBid(ctx, buyer(7), bid.ID))
}

func TestDiscardBookingByOperator(t *testing.T) {
	rq := require.New(t)

	svc, _, _, bookings, _, _ := newInterestService()
	ctx := context.Background()

	booking, err := svc.RaiseBooking(ctx, buyer(7), 1, 50)
	rq.NoError(err)

	rq.NoError(svc.DiscardBooking(ctx, booking.ID))
	rq.Empty(bookings.bookings)

	err = svc.DiscardBooking(ctx, booking.ID)
	code, _ := domain.GetCode(err)
	rq.Equal(errcodes.BookingNotFound, code)
}

func TestListInterestFeeds(t *testing.T) {
	rq := require.New(t)

	svc, _, _, _, _, _ := newInterestService()
	ctx := context.Background()

	_, err := svc.RaiseBid(ctx, buyer(7), 1, 100, 215)
	rq.NoError(err)
	_, err = svc.RaiseBooking(ctx, buyer(8), 1, 50)
	rq.NoError(err)
	_, err = svc.RaiseBuyQuery(ctx, buyer(9), "Acme", 10, 100)
	rq.NoError(err)

	bids, err := svc.ListBids(ctx, 10)
	rq.NoError(err)
	rq.Len(bids, 1)

	bookings, err := svc.ListBookings(ctx, 10)
	rq.NoError(err)
	rq.Len(bookings, 1)

	queries, err := svc.ListBuyQueries(ctx, 10)
	rq.NoError(err)
	rq.Len(queries, 1)

	myBids, err := svc.ListMyBids(ctx, buyer(7))
	rq.NoError(err)
	rq.Len(myBids, 1)

	myBids, err = svc.ListMyBids(ctx, buyer(8))
	rq.NoError(err)
	rq.Empty(myBids)

	myBookings, err := svc.ListMyBookings(ctx, buyer(8))
	rq.NoError(err)
	rq.Len(myBookings, 1)
}
