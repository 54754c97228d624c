package entity

import "time"

// Sell — предложение одного продавца на количество акций Share. Строка
// существует только пока QuantityAvailable > 0; полное закрытие её удаляет.
type Sell struct {
	ID                int64      `json:"id"`
	ShareID           int64      `json:"shareId"`
	SellerID          int64      `json:"sellerId"`
	TenantID          int64      `json:"tenantId"`
	ActualPrice       float64    `json:"actualPrice"`
	SellingPrice      float64    `json:"sellingPrice"`
	QuantityAvailable int        `json:"quantityAvailable"`
	MinOrderQuantity  int        `json:"moq,omitempty"`
	FixedPrice        bool       `json:"fixedPrice"`
	ShareInStock      bool       `json:"shareInStock"`
	PreShareTransfer  bool       `json:"preShareTransfer"`
	ConfirmDelivery   bool       `json:"confirmDelivery"`
	DeliveryTimeline  string     `json:"deliveryTimeline,omitempty"`
	BestDeal          bool       `json:"bestDeal"`
	Approved          bool       `json:"approved"`
	EndSeller         *EndSeller `json:"endSeller,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// EndSeller — конечный держатель, когда продавец перепродаёт от чужого
// имени. Видим только административным уровням.
type EndSeller struct {
	Name     string `json:"name"`
	Profile  string `json:"profile"`
	Location string `json:"location"`
}

// SellListing — sell вместе с данными акции для отображения.
type SellListing struct {
	Sell
	ShareName  string  `json:"shareName"`
	FloorPrice float64 `json:"floorPrice"`
}
