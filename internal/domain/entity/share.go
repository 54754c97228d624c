package entity

import "time"

// Share — каноническая запись торгуемого инструмента внутри тенанта.
// FloorPrice держит минимальную цену продажи среди всех его sells и
// двигается только вниз.
type Share struct {
	ID         int64     `json:"id"`
	TenantID   int64     `json:"tenantId"`
	Name       string    `json:"name"`
	Symbol     string    `json:"symbol,omitempty"`
	FloorPrice float64   `json:"price"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
