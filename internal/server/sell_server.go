package server

import (
	"context"
	"fmt"
	"net/http"

	"share_market/internal/domain/entity"
	"share_market/internal/domain/service/listing"
	"share_market/internal/domain/value"
	"share_market/pkg/httpx/reply"
	"share_market/pkg/httpx/req"
	"share_market/pkg/rest"
)

type listingService interface {
	CreateSell(ctx context.Context, seller value.Actor, in listing.NewSell) (*entity.Sell, error)
	UpdateSell(ctx context.Context, actor value.Actor, sellID int64, patch listing.SellPatch) (*entity.Sell, error)
	DeleteSell(ctx context.Context, sellID int64) error
	ListShares(ctx context.Context, viewer value.Actor) ([]entity.Share, error)
	GetShare(ctx context.Context, shareID int64) (*entity.Share, error)
	AddShares(ctx context.Context, operator value.Actor, shares []entity.Share) error
	ListSells(ctx context.Context, viewer value.Actor) ([]entity.SellListing, error)
	ListSellsForShare(ctx context.Context, viewer value.Actor, shareID int64) ([]entity.SellListing, error)
	ListMySells(ctx context.Context, seller value.Actor) ([]entity.SellListing, error)
	GetMySell(ctx context.Context, seller value.Actor, sellID int64) (*entity.SellListing, error)
	ApproveBestDeal(ctx context.Context, sellID int64) (*entity.SellListing, error)
	DiscardBestDeal(ctx context.Context, sellID int64) (*entity.SellListing, error)
	ListBestDeals(ctx context.Context, viewer value.Actor) ([]entity.SellListing, error)
	ListPendingBestDeals(ctx context.Context, operator value.Actor) ([]entity.SellListing, error)
	GetBestDeal(ctx context.Context, sellID int64) (*entity.SellListing, error)
}

type SellServer struct {
	listingService listingService
}

func NewSellServer(listingService listingService) SellServer {
	return SellServer{
		listingService: listingService,
	}
}

func (s SellServer) getV1Shares(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actor, err := actorFromRequest(r)
	if err != nil {
		return err
	}

	shares, err := s.listingService.ListShares(ctx, actor)
	if err != nil {
		return fmt.Errorf("listingService.ListShares: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTShares(shares))

	return nil
}

func (s SellServer) postV1Shares(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actor, err := actorFromRequest(r)
	if err != nil {
		return err
	}

	if err := requireOperator(actor); err != nil {
		return err
	}

	var request rest.AddSharesRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	if err := s.listingService.AddShares(ctx, actor, newDomainShares(request.Shares)); err != nil {
		return fmt.Errorf("listingService.AddShares: %w", err)
	}

	reply.Created(w)

	return nil
}

func (s SellServer) getV1Share(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if _, err := actorFromRequest(r); err != nil {
		return err
	}

	id, err := pathID(r)
	if err != nil {
		return err
	}

	share, err := s.listingService.GetShare(ctx, id)
	if err != nil {
		return fmt.Errorf("listingService.GetShare: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTShare(*share))

	return nil
}

func (s SellServer) getV1ShareSells(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actor, err := actorFromRequest(r)
	if err != nil {
		return err
	}

	id, err := pathID(r)
	if err != nil {
		return err
	}

	sells, err := s.listingService.ListSellsForShare(ctx, actor, id)
	if err != nil {
		return fmt.Errorf("listingService.ListSellsForShare: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSells(listing.ProjectAll(sells, actor.Tier)))

	return nil
}

func (s SellServer) getV1Sells(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actor, err := actorFromRequest(r)
	if err != nil {
		return err
	}

	sells, err := s.listingService.ListSells(ctx, actor)
	if err != nil {
		return fmt.Errorf("listingService.ListSells: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSells(listing.ProjectAll(sells, actor.Tier)))

	return nil
}

func (s SellServer) postV1Sells(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actor, err := actorFromRequest(r)
	if err != nil {
		return err
	}

	var request rest.CreateSellRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	if _, err := s.listingService.CreateSell(ctx, actor, newDomainNewSell(request)); err != nil {
		return fmt.Errorf("listingService.CreateSell: %w", err)
	}

	reply.Created(w)

	return nil
}

func (s SellServer) patchV1Sell(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actor, err := actorFromRequest(r)
	if err != nil {
		return err
	}

	id, err := pathID(r)
	if err != nil {
		return err
	}

	// То же правило владения, что и при удалении
	if requireOperator(actor) != nil {
		if _, err := s.listingService.GetMySell(ctx, actor, id); err != nil {
			return fmt.Errorf("listingService.GetMySell: %w", err)
		}
	}

	var request rest.UpdateSellRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	if _, err := s.listingService.UpdateSell(ctx, actor, id, newDomainSellPatch(request)); err != nil {
		return fmt.Errorf("listingService.UpdateSell: %w", err)
	}

	reply.OK(w)

	return nil
}

func (s SellServer) deleteV1Sell(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actor, err := actorFromRequest(r)
	if err != nil {
		return err
	}

	id, err := pathID(r)
	if err != nil {
		return err
	}

	// Продавец удаляет только свои предложения; оператор — любые.
	if requireOperator(actor) != nil {
		if _, err := s.listingService.GetMySell(ctx, actor, id); err != nil {
			return fmt.Errorf("listingService.GetMySell: %w", err)
		}
	}

	if err := s.listingService.DeleteSell(ctx, id); err != nil {
		return fmt.Errorf("listingService.DeleteSell: %w", err)
	}

	reply.OK(w)

	return nil
}

func (s SellServer) getV1MySells(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actor, err := actorFromRequest(r)
	if err != nil {
		return err
	}

	sells, err := s.listingService.ListMySells(ctx, actor)
	if err != nil {
		return fmt.Errorf("listingService.ListMySells: %w", err)
	}

	views := make([]listing.SellView, 0, len(sells))
	for _, sell := range sells {
		views = append(views, listing.ProjectOwn(sell))
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSells(views))

	return nil
}

func (s SellServer) getV1MySell(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actor, err := actorFromRequest(r)
	if err != nil {
		return err
	}

	id, err := pathID(r)
	if err != nil {
		return err
	}

	sell, err := s.listingService.GetMySell(ctx, actor, id)
	if err != nil {
		return fmt.Errorf("listingService.GetMySell: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSell(listing.ProjectOwn(*sell)))

	return nil
}

func (s SellServer) getV1BestDeals(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actor, err := actorFromRequest(r)
	if err != nil {
		return err
	}

	deals, err := s.listingService.ListBestDeals(ctx, actor)
	if err != nil {
		return fmt.Errorf("listingService.ListBestDeals: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSells(listing.ProjectAll(deals, actor.Tier)))

	return nil
}

func (s SellServer) getV1PendingBestDeals(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actor, err := actorFromRequest(r)
	if err != nil {
		return err
	}

	if err := requireOperator(actor); err != nil {
		return err
	}

	deals, err := s.listingService.ListPendingBestDeals(ctx, actor)
	if err != nil {
		return fmt.Errorf("listingService.ListPendingBestDeals: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSells(listing.ProjectAll(deals, actor.Tier)))

	return nil
}

func (s SellServer) getV1BestDeal(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actor, err := actorFromRequest(r)
	if err != nil {
		return err
	}

	id, err := pathID(r)
	if err != nil {
		return err
	}

	deal, err := s.listingService.GetBestDeal(ctx, id)
	if err != nil {
		return fmt.Errorf("listingService.GetBestDeal: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSell(listing.Project(*deal, actor.Tier)))

	return nil
}

func (s SellServer) postV1ApproveBestDeal(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actor, err := actorFromRequest(r)
	if err != nil {
		return err
	}

	id, err := pathID(r)
	if err != nil {
		return err
	}

	if err := requireOperator(actor); err != nil {
		return err
	}

	deal, err := s.listingService.ApproveBestDeal(ctx, id)
	if err != nil {
		return fmt.Errorf("listingService.ApproveBestDeal: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSell(listing.Project(*deal, actor.Tier)))

	return nil
}

func (s SellServer) postV1DiscardBestDeal(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actor, err := actorFromRequest(r)
	if err != nil {
		return err
	}

	id, err := pathID(r)
	if err != nil {
		return err
	}

	if err := requireOperator(actor); err != nil {
		return err
	}

	deal, err := s.listingService.DiscardBestDeal(ctx, id)
	if err != nil {
		return fmt.Errorf("listingService.DiscardBestDeal: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSell(listing.Project(*deal, actor.Tier)))

	return nil
}
