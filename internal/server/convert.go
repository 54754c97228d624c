package server

import (
	"time"

	"share_market/internal/domain/entity"
	"share_market/internal/domain/service/listing"
	"share_market/pkg/lox"
	"share_market/pkg/rest"
)

func newRESTShare(share entity.Share) rest.Share {
	return rest.Share{
		ID:         share.ID,
		Name:       share.Name,
		Symbol:     share.Symbol,
		FloorPrice: share.FloorPrice,
	}
}

func newRESTShares(shares []entity.Share) []rest.Share {
	return lox.Map(shares, newRESTShare)
}

func newRESTSell(view listing.SellView) rest.Sell {
	sell := rest.Sell{
		ID:                view.ID,
		ShareID:           view.ShareID,
		ShareName:         view.ShareName,
		SellerID:          view.SellerID,
		Price:             view.Price,
		ActualPrice:       view.ActualPrice,
		QuantityAvailable: view.QuantityAvailable,
		MinOrderQuantity:  view.MinOrderQuantity,
		FixedPrice:        view.FixedPrice,
		ShareInStock:      view.ShareInStock,
		PreShareTransfer:  view.PreShareTransfer,
		ConfirmDelivery:   view.ConfirmDelivery,
		DeliveryTimeline:  view.DeliveryTimeline,
		BestDeal:          view.BestDeal,
		Approved:          view.Approved,
	}

	if view.EndSeller != nil {
		sell.EndSeller = &rest.EndSeller{
			Name:     view.EndSeller.Name,
			Profile:  view.EndSeller.Profile,
			Location: view.EndSeller.Location,
		}
	}

	return sell
}

func newRESTSells(views []listing.SellView) []rest.Sell {
	return lox.Map(views, newRESTSell)
}

func newRESTBid(bid entity.BidListing) rest.Bid {
	return rest.Bid{
		ID:        bid.ID,
		SellID:    bid.SellID,
		SellerID:  bid.SellerID,
		BuyerID:   bid.BuyerID,
		ShareName: bid.ShareName,
		SellPrice: bid.SellPrice,
		BidPrice:  bid.BidPrice,
		Quantity:  bid.Quantity,
		BidDate:   bid.CreatedAt.Format(time.RFC3339),
	}
}

func newRESTBids(bids []entity.BidListing) []rest.Bid {
	return lox.Map(bids, newRESTBid)
}

func newRESTBooking(booking entity.BookingListing) rest.Booking {
	return rest.Booking{
		ID:          booking.ID,
		SellID:      booking.SellID,
		SellerID:    booking.SellerID,
		BuyerID:     booking.BuyerID,
		ShareName:   booking.ShareName,
		SellPrice:   booking.SellPrice,
		Quantity:    booking.Quantity,
		BookingDate: booking.CreatedAt.Format(time.RFC3339),
	}
}

func newRESTBookings(bookings []entity.BookingListing) []rest.Booking {
	return lox.Map(bookings, newRESTBooking)
}

func newRESTBuyQuery(query entity.BuyQuery) rest.BuyQuery {
	return rest.BuyQuery{
		ID:        query.ID,
		BuyerID:   query.BuyerID,
		ShareName: query.ShareName,
		Quantity:  query.Quantity,
		Price:     query.Price,
	}
}

func newRESTBuyQueries(queries []entity.BuyQuery) []rest.BuyQuery {
	return lox.Map(queries, newRESTBuyQuery)
}

func newRESTTransaction(tx entity.Transaction) rest.Transaction {
	return rest.Transaction{
		ID:        tx.ID,
		ClosedBy:  tx.ClosedBy,
		SellerID:  tx.SellerID,
		BuyerID:   tx.BuyerID,
		ShareName: tx.ShareName,
		Quantity:  tx.Quantity,
		Price:     tx.Price,
		ClosedAt:  tx.CreatedAt.Format(time.RFC3339),
	}
}

func newRESTTransactions(txs []entity.Transaction) []rest.Transaction {
	return lox.Map(txs, newRESTTransaction)
}

func newDomainNewSell(req rest.CreateSellRequest) listing.NewSell {
	in := listing.NewSell{
		ShareName:        req.ShareName,
		ActualPrice:      req.Price,
		Quantity:         req.QuantityAvailable,
		MinOrderQuantity: req.MinOrderQuantity,
		FixedPrice:       req.FixedPrice,
		ShareInStock:     req.ShareInStock,
		PreShareTransfer: req.PreShareTransfer,
		ConfirmDelivery:  req.ConfirmDelivery,
		DeliveryTimeline: req.DeliveryTimeline,
		BestDeal:         req.BestDeal,
	}

	if req.EndSellerName != "" {
		in.EndSeller = &entity.EndSeller{
			Name:     req.EndSellerName,
			Profile:  req.EndSellerProfile,
			Location: req.EndSellerLocation,
		}
	}

	return in
}

func newDomainSellPatch(req rest.UpdateSellRequest) listing.SellPatch {
	patch := listing.SellPatch{
		ActualPrice:      req.Price,
		Quantity:         req.QuantityAvailable,
		MinOrderQuantity: req.MinOrderQuantity,
		FixedPrice:       req.FixedPrice,
		ShareInStock:     req.ShareInStock,
		PreShareTransfer: req.PreShareTransfer,
		ConfirmDelivery:  req.ConfirmDelivery,
		DeliveryTimeline: req.DeliveryTimeline,
		BestDeal:         req.BestDeal,
	}

	if req.EndSellerName != nil {
		patch.EndSeller = &entity.EndSeller{
			Name: *req.EndSellerName,
		}
		if req.EndSellerProfile != nil {
			patch.EndSeller.Profile = *req.EndSellerProfile
		}
		if req.EndSellerLocation != nil {
			patch.EndSeller.Location = *req.EndSellerLocation
		}
	}

	return patch
}

func newDomainShares(reqs []rest.NewShare) []entity.Share {
	shares := make([]entity.Share, 0, len(reqs))
	for _, r := range reqs {
		shares = append(shares, entity.Share{
			Name:       r.Name,
			Symbol:     r.Symbol,
			FloorPrice: r.FloorPrice,
		})
	}

	return shares
}
