package value

import (
	"share_market/internal/domain"
	"share_market/pkg/errcodes"
)

// Tier — уровень привилегий вызывающего. Чем меньше число, тем больше прав;
// числовые значения совпадают с теми, что выдаёт слой аутентификации.
type Tier int

const (
	TierSuperAdmin     Tier = 1
	TierFranchiseAdmin Tier = 2
	TierOperator       Tier = 3
	TierPartner        Tier = 4
	TierCustomer       Tier = 5
)

func ParseTier(v int) (Tier, error) {
	t := Tier(v)
	if t < TierSuperAdmin || t > TierCustomer {
		return 0, domain.NewError(errcodes.InvalidTier, "unknown privilege tier")
	}

	return t, nil
}

func (t Tier) Int() int {
	return int(t)
}

// CanSeeRawPrice открывает закупочную цену продавца и данные конечного
// держателя.
func (t Tier) CanSeeRawPrice() bool {
	return t <= TierOperator
}

// BypassesMarkup позволяет операторам тенанта и выше выставлять по закупочной
// цене без наценки.
func (t Tier) BypassesMarkup() bool {
	return t <= TierOperator
}

// CanAutoApprove пропускает очередь модерации best deal.
func (t Tier) CanAutoApprove() bool {
	return t <= TierOperator
}

// CrossTenant разрешает чтение поверх границ франшиз.
func (t Tier) CrossTenant() bool {
	return t <= TierFranchiseAdmin
}
