// Package pricing выводит видимую покупателю цену из закупочной цены
// продавца. Функция чистая: обновление предложения пересчитывает ровно ту же
// цену, что и создание.
package pricing

import "share_market/internal/domain/value"

// Ступени наценки по количеству. Чем крупнее лот, тем меньше абсолютная
// наценка.
const (
	markupSmall  = 10 // quantity <= 999
	markupMedium = 5  // 1000..4999
	markupLarge  = 3  // 5000..19999
	markupBulk   = 2  // >= 20000

	// Инструменты дешевле 100 торгуются дробями; к ним применяется плоская
	// наценка 0.5 независимо от количества.
	fractionalThreshold = 100
	fractionalMarkup    = 0.5
)

// SellingPrice возвращает цену, которую видят покупатели, для лота quantity
// по закупочной цене actual. Административные уровни выставляют по закупочной
// напрямую.
func SellingPrice(actual float64, quantity int, tier value.Tier) float64 {
	if tier.BypassesMarkup() {
		return actual
	}

	if actual < fractionalThreshold {
		return actual + fractionalMarkup
	}

	switch {
	case quantity <= 999:
		return actual + markupSmall
	case quantity <= 4999:
		return actual + markupMedium
	case quantity <= 19999:
		return actual + markupLarge
	default:
		return actual + markupBulk
	}
}
