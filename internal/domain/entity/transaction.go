package entity

import "time"

// Transaction — неизменяемая запись журнала, создаётся при закрытии сделки.
// ShareName — снимок имени на момент закрытия, намеренно не внешний ключ:
// переименование Share не должно переписывать историю.
type Transaction struct {
	ID        int64     `json:"id"`
	ClosedBy  int64     `json:"closedBy"`
	TenantID  int64     `json:"tenantId"`
	SellerID  int64     `json:"sellerId"`
	BuyerID   int64     `json:"buyerId"`
	ShareName string    `json:"shareName"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"closedAt"`
}
