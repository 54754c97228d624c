package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"share_market/internal/domain"
	"share_market/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) { //nolint:funlen
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Route("/shares", func(r chi.Router) {
				r.Get("/", handler(s.getV1Shares))
				r.Post("/", handler(s.postV1Shares))
				r.Get("/{id}", handler(s.getV1Share))
				r.Get("/{id}/sells", handler(s.getV1ShareSells))
			})

			r.Route("/sells", func(r chi.Router) {
				r.Get("/", handler(s.getV1Sells))
				r.Post("/", handler(s.postV1Sells))
				r.Patch("/{id}", handler(s.patchV1Sell))
				r.Delete("/{id}", handler(s.deleteV1Sell))
				r.Route("/my", func(r chi.Router) {
					r.Get("/", handler(s.getV1MySells))
					r.Get("/{id}", handler(s.getV1MySell))
				})
			})

			r.Route("/best-deals", func(r chi.Router) {
				r.Get("/", handler(s.getV1BestDeals))
				r.Get("/pending", handler(s.getV1PendingBestDeals))
				r.Get("/{id}", handler(s.getV1BestDeal))
				r.Post("/{id}/approve", handler(s.postV1ApproveBestDeal))
				r.Post("/{id}/discard", handler(s.postV1DiscardBestDeal))
			})

			r.Route("/bids", func(r chi.Router) {
				r.Get("/", handler(s.getV1Bids))
				r.Post("/", handler(s.postV1Bids))
				r.Get("/my", handler(s.getV1MyBids))
				r.Delete("/my/{id}", handler(s.deleteV1MyBid))
				r.Delete("/{id}", handler(s.deleteV1Bid))
			})

			r.Route("/bookings", func(r chi.Router) {
				r.Get("/", handler(s.getV1Bookings))
				r.Post("/", handler(s.postV1Bookings))
				r.Get("/my", handler(s.getV1MyBookings))
				r.Delete("/my/{id}", handler(s.deleteV1MyBooking))
				r.Delete("/{id}", handler(s.deleteV1Booking))
			})

			r.Route("/buy-queries", func(r chi.Router) {
				r.Get("/", handler(s.getV1BuyQueries))
				r.Post("/", handler(s.postV1BuyQueries))
				r.Delete("/{id}", handler(s.deleteV1BuyQuery))
			})

			r.Route("/deals", func(r chi.Router) {
				r.Post("/close", handler(s.postV1CloseDeal))
				r.Post("/close-query", handler(s.postV1CloseBuyQuery))
				r.Get("/transactions", handler(s.getV1Transactions))
			})
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, domain.ToFailure(err))
		}
	}
}
