package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"share_market/internal/domain/service/pricing"
	"share_market/internal/domain/value"
	"share_market/pkg/tests"
)

func TestSellingPriceTiers(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name     string
		actual   float64
		quantity int
		want     float64
	}{
		{name: "Small lot", actual: 200, quantity: 1, want: 210},
		{name: "Small lot upper bound", actual: 200, quantity: 999, want: 210},
		{name: "Medium lot lower bound", actual: 200, quantity: 1000, want: 205},
		{name: "Medium lot upper bound", actual: 200, quantity: 4999, want: 205},
		{name: "Large lot lower bound", actual: 200, quantity: 5000, want: 203},
		{name: "Large lot", actual: 200, quantity: 6000, want: 203},
		{name: "Large lot upper bound", actual: 200, quantity: 19999, want: 203},
		{name: "Bulk lot", actual: 200, quantity: 20000, want: 202},
		{name: "Exactly 100 uses tiers", actual: 100, quantity: 50, want: 110},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			got := pricing.SellingPrice(tc.actual, tc.quantity, value.TierCustomer)
			rq.InDelta(tc.want, got, 1e-9)
		})
	}
}

func TestSellingPriceFractionalOverride(t *testing.T) {
	rq := require.New(t)

	random := tests.NewRandomizer()

	for i := 0; i < 100; i++ {
		actual := random.Float64() * 99.99
		quantity := 1 + random.Intn(50000)

		got := pricing.SellingPrice(actual, quantity, value.TierPartner)
		rq.InDelta(actual+0.5, got, 1e-9)
	}
}

// Наценка не растёт с ростом ступени количества.
func TestSellingPriceMonotonicity(t *testing.T) {
	rq := require.New(t)

	random := tests.NewRandomizer()

	quantities := []int{1, 999, 1000, 4999, 5000, 19999, 20000, 100000}

	for i := 0; i < 100; i++ {
		actual := 100 + random.Float64()*10000

		prev := pricing.SellingPrice(actual, quantities[0], value.TierCustomer)
		for _, q := range quantities[1:] {
			next := pricing.SellingPrice(actual, q, value.TierCustomer)
			rq.LessOrEqual(next, prev, "quantity %d", q)
			prev = next
		}
	}
}

func TestSellingPriceAdminBypass(t *testing.T) {
	rq := require.New(t)

	for _, tier := range []value.Tier{value.TierSuperAdmin, value.TierFranchiseAdmin, value.TierOperator} {
		rq.InDelta(200.0, pricing.SellingPrice(200, 500, tier), 1e-9)
		rq.InDelta(42.5, pricing.SellingPrice(42.5, 500, tier), 1e-9)
	}
}
