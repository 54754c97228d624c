package entity

import "time"

// Покупательские заявки. Колонки статуса нигде нет: pending-заявка
// существует, разрешённая удалена (закрытием сделки или отменой).
// CREATE → DELETE, без промежуточных обновлений.

// Bid — конкурентное встречное предложение против sell.
type Bid struct {
	ID        int64     `json:"id"`
	SellID    int64     `json:"sellId"`
	BuyerID   int64     `json:"buyerId"`
	TenantID  int64     `json:"tenantId"`
	Quantity  int       `json:"quantity"`
	BidPrice  float64   `json:"bidPrice"`
	CreatedAt time.Time `json:"bidingDate"`
}

// Booking — прямая покупка против sell, без торга.
type Booking struct {
	ID        int64     `json:"id"`
	SellID    int64     `json:"sellId"`
	BuyerID   int64     `json:"buyerId"`
	TenantID  int64     `json:"tenantId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"bookingDate"`
}

// BuyQuery — запрос на покупку, не привязанный ни к какому sell;
// оператор подбирает контрагента вручную.
type BuyQuery struct {
	ID        int64     `json:"id"`
	BuyerID   int64     `json:"buyerId"`
	TenantID  int64     `json:"tenantId"`
	ShareName string    `json:"shareName"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
}

// BidListing — bid вместе с данными sell и акции для операторской и
// покупательской лент.
type BidListing struct {
	Bid
	SellerID  int64   `json:"sellerId"`
	ShareName string  `json:"shareName"`
	SellPrice float64 `json:"price"`
}

type BookingListing struct {
	Booking
	SellerID  int64   `json:"sellerId"`
	ShareName string  `json:"shareName"`
	SellPrice float64 `json:"price"`
}
