// Response and request models for the marketplace HTTP surface. Kept in one
// place so the mobile/web clients have a single contract to generate against.
package rest

type Share struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Symbol     string  `json:"symbol,omitempty"`
	FloorPrice float64 `json:"price"`
}

// Sell is the buyer-facing projection of a listing. ActualPrice and the
// endSeller block are only populated for administrative tiers; for everyone
// else the fields are absent from the payload, not zeroed.
type Sell struct {
	ID                int64      `json:"id"`
	ShareID           int64      `json:"shareId"`
	ShareName         string     `json:"shareName"`
	SellerID          int64      `json:"sellerId"`
	Price             float64    `json:"price"`
	ActualPrice       *float64   `json:"actualPrice,omitempty"`
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
}

type EndSeller struct {
	Name     string `json:"endSellerName"`
	Profile  string `json:"endSellerProfile"`
	Location string `json:"endSellerLocation"`
}

type Bid struct {
	ID        int64   `json:"id"`
	SellID    int64   `json:"sellId"`
	SellerID  int64   `json:"sellerId"`
	BuyerID   int64   `json:"buyerId"`
	ShareName string  `json:"shareName"`
	SellPrice float64 `json:"price"`
	BidPrice  float64 `json:"bidPrice"`
	Quantity  int     `json:"quantity"`
	BidDate   string  `json:"bidingDate"`
}

type Booking struct {
	ID          int64   `json:"id"`
	SellID      int64   `json:"sellId"`
	SellerID    int64   `json:"sellerId"`
	BuyerID     int64   `json:"buyerId"`
	ShareName   string  `json:"shareName"`
	SellPrice   float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	BookingDate string  `json:"bookingDate"`
}

type BuyQuery struct {
	ID        int64   `json:"id"`
	BuyerID   int64   `json:"buyerId"`
	ShareName string  `json:"shareName"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type Transaction struct {
	ID        int64   `json:"id"`
	ClosedBy  int64   `json:"closedBy"`
	SellerID  int64   `json:"sellerId"`
	BuyerID   int64   `json:"buyerId"`
	ShareName string  `json:"shareName"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	ClosedAt  string  `json:"closedAt"`
}

type CreateSellRequest struct {
	ShareName         string   `json:"shareName" validate:"required"`
	Price             float64  `json:"price" validate:"required,gt=0"`
	QuantityAvailable int      `json:"quantityAvailable" validate:"required,gt=0"`
	MinOrderQuantity  int      `json:"moq" validate:"omitempty,gt=0"`
	FixedPrice        bool     `json:"fixedPrice"`
	ShareInStock      bool     `json:"shareInStock"`
	PreShareTransfer  bool     `json:"preShareTransfer"`
	ConfirmDelivery   bool     `json:"confirmDelivery"`
	DeliveryTimeline  string   `json:"deliveryTimeline"`
	BestDeal          bool     `json:"bestDeal"`
	EndSellerName     string   `json:"endSellerName"`
	EndSellerProfile  string   `json:"endSellerProfile"`
	EndSellerLocation string   `json:"endSellerLocation"`
}

// UpdateSellRequest patches a listing. Absent fields stay untouched; the
// share reference and the seller cannot be changed here at all.
type UpdateSellRequest struct {
	Price             *float64 `json:"price" validate:"omitempty,gt=0"`
	QuantityAvailable *int     `json:"quantityAvailable" validate:"omitempty,gt=0"`
	MinOrderQuantity  *int     `json:"moq" validate:"omitempty,gt=0"`
	FixedPrice        *bool    `json:"fixedPrice"`
	ShareInStock      *bool    `json:"shareInStock"`
	PreShareTransfer  *bool    `json:"preShareTransfer"`
	ConfirmDelivery   *bool    `json:"confirmDelivery"`
	DeliveryTimeline  *string  `json:"deliveryTimeline"`
	BestDeal          *bool    `json:"bestDeal"`
	EndSellerName     *string  `json:"endSellerName"`
	EndSellerProfile  *string  `json:"endSellerProfile"`
	EndSellerLocation *string  `json:"endSellerLocation"`
}

type AddSharesRequest struct {
	Shares []NewShare `json:"shareDetails" validate:"required,min=1,dive"`
}

type NewShare struct {
	Name       string  `json:"name" validate:"required"`
	Symbol     string  `json:"symbol"`
	FloorPrice float64 `json:"price" validate:"gte=0"`
}

type RaiseBidRequest struct {
	SellID   int64   `json:"sellId" validate:"required,gt=0"`
	Quantity int     `json:"quantity" validate:"required,gt=0"`
	BidPrice float64 `json:"bidPrice" validate:"required,gt=0"`
}

type RaiseBookingRequest struct {
	SellID   int64 `json:"sellId" validate:"required,gt=0"`
	Quantity int   `json:"quantity" validate:"required,gt=0"`
}

type RaiseBuyQueryRequest struct {
	ShareName string  `json:"shareName" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	Price     float64 `json:"price" validate:"required,gt=0"`
}

// CloseDealRequest settles a bid or booking against a sell. Price is the
// agreed closing price: mandatory for bid closures, optional for bookings
// (zero means "use the listing price").
type CloseDealRequest struct {
	SellID       int64   `json:"sellId" validate:"required,gt=0"`
	InterestID   int64   `json:"id" validate:"required,gt=0"`
	InterestKind string  `json:"kind" validate:"required,oneof=bid booking"`
	SellerID     int64   `json:"sellerId" validate:"required,gt=0"`
	BuyerID      int64   `json:"buyerId" validate:"required,gt=0"`
	DealQuantity int     `json:"dealQuantity" validate:"required,gt=0"`
	Price        float64 `json:"price" validate:"gte=0"`
}

// CloseBuyQueryRequest settles a buy query. Buyer, share and defaults for
// quantity and price come from the query row itself; the operator supplies
// the seller they matched off-platform and any negotiated overrides.
type CloseBuyQueryRequest struct {
	QueryID      int64   `json:"id" validate:"required,gt=0"`
	SellerID     int64   `json:"sellerId" validate:"omitempty,gt=0"`
	DealQuantity int     `json:"dealQuantity" validate:"omitempty,gt=0"`
	Price        float64 `json:"price" validate:"gte=0"`
}

type CloseDealResponse struct {
	FullyCompleted    bool    `json:"fullyCompleted"`
	RemainingQuantity int     `json:"remainingQuantity"`
	Price             float64 `json:"price"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`
}

// ErrorCode Код ошибки
type ErrorCode string
