package listing

import (
	"share_market/internal/domain/entity"
	"share_market/internal/domain/value"
)

// SellView — проекция предложения, отфильтрованная по уровню привилегий.
// ActualPrice и EndSeller для обычных покупателей nil: поля вырезаются, а не
// обнуляются, чтобы сериализаторы их вовсе опускали.
type SellView struct {
	ID                int64
	ShareID           int64
	ShareName         string
	SellerID          int64
	Price             float64
	ActualPrice       *float64
	QuantityAvailable int
	MinOrderQuantity  int
	FixedPrice        bool
	ShareInStock      bool
	PreShareTransfer  bool
	ConfirmDelivery   bool
	DeliveryTimeline  string
	BestDeal          bool
	Approved          bool
	EndSeller         *entity.EndSeller
}

// Project применяет правила видимости уровня зрителя к одному предложению.
func Project(l entity.SellListing, viewer value.Tier) SellView {
	view := SellView{
		ID:                l.ID,
		ShareID:           l.ShareID,
		ShareName:         l.ShareName,
		SellerID:          l.SellerID,
		Price:             l.SellingPrice,
		QuantityAvailable: l.QuantityAvailable,
		MinOrderQuantity:  l.MinOrderQuantity,
		FixedPrice:        l.FixedPrice,
		ShareInStock:      l.ShareInStock,
		PreShareTransfer:  l.PreShareTransfer,
		ConfirmDelivery:   l.ConfirmDelivery,
		DeliveryTimeline:  l.DeliveryTimeline,
		BestDeal:          l.BestDeal,
		Approved:          l.Approved,
	}

	if viewer.CanSeeRawPrice() {
		actual := l.ActualPrice
		view.ActualPrice = &actual
		view.EndSeller = l.EndSeller
	}

	return view
}

// ProjectOwn — взгляд продавца на собственное предложение: показывается
// закупочная цена, та, что продавец ввёл сам.
func ProjectOwn(l entity.SellListing) SellView {
	view := Project(l, value.TierCustomer)
	view.Price = l.ActualPrice
	view.EndSeller = l.EndSeller

	return view
}

func ProjectAll(listings []entity.SellListing, viewer value.Tier) []SellView {
	views := make([]SellView, 0, len(listings))
	for _, l := range listings {
		views = append(views, Project(l, viewer))
	}

	return views
}
