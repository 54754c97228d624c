package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"share_market/internal/domain/value"
)

func TestParseTier(t *testing.T) {
	rq := require.New(t)

	for v := 1; v <= 5; v++ {
		tier, err := value.ParseTier(v)
		rq.NoError(err)
		rq.Equal(v, tier.Int())
	}

	for _, v := range []int{0, -1, 6, 100} {
		_, err := value.ParseTier(v)
		rq.Error(err)
	}
}

func TestTierCapabilities(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name        string
		tier        value.Tier
		rawPrice    bool
		autoApprove bool
		crossTenant bool
	}{
		{name: "SuperAdmin", tier: value.TierSuperAdmin, rawPrice: true, autoApprove: true, crossTenant: true},
		{name: "FranchiseAdmin", tier: value.TierFranchiseAdmin, rawPrice: true, autoApprove: true, crossTenant: true},
		{name: "Operator", tier: value.TierOperator, rawPrice: true, autoApprove: true, crossTenant: false},
		{name: "Partner", tier: value.TierPartner, rawPrice: false, autoApprove: false, crossTenant: false},
		{name: "Customer", tier: value.TierCustomer, rawPrice: false, autoApprove: false, crossTenant: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			rq.Equal(tc.rawPrice, tc.tier.CanSeeRawPrice())
			rq.Equal(tc.rawPrice, tc.tier.BypassesMarkup())
			rq.Equal(tc.autoApprove, tc.tier.CanAutoApprove())
			rq.Equal(tc.crossTenant, tc.tier.CrossTenant())
		})
	}
}
