package server

import (
	"context"
	"fmt"
	"net/http"

	"share_market/internal/domain/entity"
	"share_market/internal/domain/service/settlement"
	"share_market/internal/domain/value"
	"share_market/pkg/httpx/reply"
	"share_market/pkg/httpx/req"
	"share_market/pkg/rest"
)

type settlementService interface {
	CloseDeal(ctx context.Context, operator value.Actor, params settlement.CloseDealParams) (*settlement.CloseResult, error)
	CloseBuyQuery(ctx context.Context, operator value.Actor, queryID, sellerID int64, quantity int, price float64) (*entity.Transaction, error)
	ListTransactions(ctx context.Context, tenantID int64) ([]entity.Transaction, error)
}

type SettlementServer struct {
	settlementService settlementService
}

func NewSettlementServer(settlementService settlementService) SettlementServer {
	return SettlementServer{
		settlementService: settlementService,
	}
}

func (s SettlementServer) postV1CloseDeal(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actor, err := actorFromRequest(r)
	if err != nil {
		return err
	}

	if err := requireOperator(actor); err != nil {
		return err
	}

	var request rest.CloseDealRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	result, err := s.settlementService.CloseDeal(ctx, actor, settlement.CloseDealParams{
		SellID:     request.SellID,
		InterestID: request.InterestID,
		Kind:       settlement.InterestKind(request.InterestKind),
		SellerID:   request.SellerID,
		BuyerID:    request.BuyerID,
		Quantity:   request.DealQuantity,
		Price:      request.Price,
	})
	if err != nil {
		return fmt.Errorf("settlementService.CloseDeal: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.CloseDealResponse{
		FullyCompleted:    result.FullyConsumed,
		RemainingQuantity: result.Remaining,
		Price:             result.Transaction.Price,
	})

	return nil
}

func (s SettlementServer) postV1CloseBuyQuery(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actor, err := actorFromRequest(r)
	if err != nil {
		return err
	}

	if err := requireOperator(actor); err != nil {
		return err
	}

	var request rest.CloseBuyQueryRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	tx, err := s.settlementService.CloseBuyQuery(ctx, actor,
		request.QueryID, request.SellerID, request.DealQuantity, request.Price)
	if err != nil {
		return fmt.Errorf("settlementService.CloseBuyQuery: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTTransaction(*tx))

	return nil
}

func (s SettlementServer) getV1Transactions(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	actor, err := actorFromRequest(r)
	if err != nil {
		return err
	}

	if err := requireOperator(actor); err != nil {
		return err
	}

	transactions, err := s.settlementService.ListTransactions(ctx, actor.TenantID)
	if err != nil {
		return fmt.Errorf("settlementService.ListTransactions: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTTransactions(transactions))

	return nil
}
