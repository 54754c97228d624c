package server

import (
	"context"
	"fmt"
	"net/http"

	"share_market/internal/domain/entity"
	"share_market/internal/domain/value"
	"share_market/pkg/httpx/reply"
	"share_market/pkg/httpx/req"
	"share_market/pkg/rest"
)

type interestService interface {
	RaiseBid(ctx context.Context, buyer value.Actor, sellID int64, quantity int, bidPrice float64) (*entity.Bid, error)
	RaiseBooking(ctx context.Context, buyer value.Actor, sellID int64, quantity int) (*entity.Booking, error)
	RaiseBuyQuery(ctx context.Context, buyer value.Actor, shareName string, quantity int, price float64) (*entity.BuyQuery, error)
	DiscardBid(ctx context.Context, id int64) error
	DiscardBooking(ctx context.Context, id int64) error
	DiscardBuyQuery(ctx context.Context, id int64) error
	DeleteMyBid(ctx context.Context, buyer value.Actor, id int64) error
	DeleteMyBooking(ctx context.Context, buyer value.Actor, id int64) error
	ListBids(ctx context.Context, tenantID int64) ([]entity.BidListing, error)
	ListBookings(ctx context.Context, tenantID int64) ([]entity.BookingListing, error)
	ListBuyQueries(ctx context.Context, tenantID int64) ([]entity.BuyQuery, error)
	ListMyBids(ctx context.Context, buyer value.Actor) ([]entity.BidListing, error)
	ListMyBookings(ctx context.Context, buyer value.Actor) ([]entity.BookingListing, error)
}

type InterestServer struct {
	interestService interestService
}

func NewInterestServer(interestService interestService) InterestServer {
	return InterestServer{
		interestService: interestService,
	}
}

func (s InterestServer) getV1Bids(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actor, err := actorFromRequest(r)
	if err != nil {
		return err
	}

	bids, err := s.interestService.ListBids(ctx, actor.TenantID)
	if err != nil {
		return fmt.Errorf("interestService.ListBids: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTBids(bids))

	return nil
}

func (s InterestServer) postV1Bids(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actor, err := actorFromRequest(r)
	if err != nil {
		return err
	}

	var request rest.RaiseBidRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	if _, err := s.interestService.RaiseBid(ctx, actor, request.SellID, request.Quantity, request.BidPrice); err != nil {
		return fmt.Errorf("interestService.RaiseBid: %w", err)
	}

	reply.Created(w)

	return nil
}

func (s InterestServer) getV1MyBids(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actor, err := actorFromRequest(r)
	if err != nil {
		return err
	}

	bids, err := s.interestService.ListMyBids(ctx, actor)
	if err != nil {
		return fmt.Errorf("interestService.ListMyBids: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTBids(bids))

	return nil
}

func (s InterestServer) deleteV1MyBid(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actor, err := actorFromRequest(r)
	if err != nil {
		return err
	}

	id, err := pathID(r)
	if err != nil {
		return err
	}

	if err := s.interestService.DeleteMyBid(ctx, actor, id); err != nil {
		return fmt.Errorf("interestService.DeleteMyBid: %w", err)
	}

	reply.OK(w)

	return nil
}

func (s InterestServer) deleteV1Bid(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actor, err := actorFromRequest(r)
	if err != nil {
		return err
	}

	if err := requireOperator(actor); err != nil {
		return err
	}

	id, err := pathID(r)
	if err != nil {
		return err
	}

	if err := s.interestService.DiscardBid(ctx, id); err != nil {
		return fmt.Errorf("interestService.DiscardBid: %w", err)
	}

	reply.OK(w)

	return nil
}

func (s InterestServer) getV1Bookings(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actor, err := actorFromRequest(r)
	if err != nil {
		return err
	}

	bookings, err := s.interestService.ListBookings(ctx, actor.TenantID)
	if err != nil {
		return fmt.Errorf("interestService.ListBookings: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTBookings(bookings))

	return nil
}

func (s InterestServer) postV1Bookings(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actor, err := actorFromRequest(r)
	if err != nil {
		return err
	}

	var request rest.RaiseBookingRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	if _, err := s.interestService.RaiseBooking(ctx, actor, request.SellID, request.Quantity); err != nil {
		return fmt.Errorf("interestService.RaiseBooking: %w", err)
	}

	reply.Created(w)

	return nil
}

func (s InterestServer) getV1MyBookings(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actor, err := actorFromRequest(r)
	if err != nil {
		return err
	}

	bookings, err := s.interestService.ListMyBookings(ctx, actor)
	if err != nil {
		return fmt.Errorf("interestService.ListMyBookings: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTBookings(bookings))

	return nil
}

func (s InterestServer) deleteV1MyBooking(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actor, err := actorFromRequest(r)
	if err != nil {
		return err
	}

	id, err := pathID(r)
	if err != nil {
		return err
	}

	if err := s.interestService.DeleteMyBooking(ctx, actor, id); err != nil {
		return fmt.Errorf("interestService.DeleteMyBooking: %w", err)
	}

	reply.OK(w)

	return nil
}

func (s InterestServer) deleteV1Booking(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actor, err := actorFromRequest(r)
	if err != nil {
		return err
	}

	if err := requireOperator(actor); err != nil {
		return err
	}

	id, err := pathID(r)
	if err != nil {
		return err
	}

	if err := s.interestService.DiscardBooking(ctx, id); err != nil {
		return fmt.Errorf("interestService.DiscardBooking: %w", err)
	}

	reply.OK(w)

	return nil
}

func (s InterestServer) getV1BuyQueries(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actor, err := actorFromRequest(r)
	if err != nil {
		return err
	}

	queries, err := s.interestService.ListBuyQueries(ctx, actor.TenantID)
	if err != nil {
		return fmt.Errorf("interestService.ListBuyQueries: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTBuyQueries(queries))

	return nil
}

func (s InterestServer) postV1BuyQueries(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actor, err := actorFromRequest(r)
	if err != nil {
		return err
	}

	var request rest.RaiseBuyQueryRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	if _, err := s.interestService.RaiseBuyQuery(ctx, actor, request.ShareName, request.Quantity, request.Price); err != nil {
		return fmt.Errorf("interestService.RaiseBuyQuery: %w", err)
	}

	reply.Created(w)

	return nil
}

func (s InterestServer) deleteV1BuyQuery(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actor, err := actorFromRequest(r)
	if err != nil {
		return err
	}

	if err := requireOperator(actor); err != nil {
		return err
	}

	id, err := pathID(r)
	if err != nil {
		return err
	}

	if err := s.interestService.DiscardBuyQuery(ctx, id); err != nil {
		return fmt.Errorf("interestService.DiscardBuyQuery: %w", err)
	}

	reply.OK(w)

	return nil
}
