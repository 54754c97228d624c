package logx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"share_market/pkg/logx"
)

func TestSensitiveDataMaskerMask(t *testing.T) {
	rq := require.New(t)

	masker := logx.NewSensitiveDataMasker()

	testCases := []struct {
		name   string
		input  []byte
		output []byte
	}{
		{
			name:   "Actual price",
			input:  []byte(`{"sellingPrice":203,"actualPrice":200.50}`),
			output: []byte(`{"sellingPrice":203,"actualPrice":[MASKED]}`),
		},
		{
			name:   "End seller provenance",
			input:  []byte(`{"endSellerName":"Holder Ltd","endSellerProfile":"fund","endSellerLocation":"Mumbai"}`),
			output: []byte(`{"endSellerName":"[MASKED]","endSellerProfile":"[MASKED]","endSellerLocation":"[MASKED]"}`),
		},
		{
			name:   "Actor names and email",
			input:  []byte(`{"firstName": "John", "lastName": "Doe", "email": "john@doe.com", "quantity": 1000}`),
			output: []byte(`{"firstName": "[MASKED]", "lastName": "[MASKED]", "email": "[MASKED]", "quantity": 1000}`),
		},
		{
			name:   "Untouched listing",
			input:  []byte(`{"shareName":"Acme","price":203,"quantityAvailable":6000}`),
			output: []byte(`{"shareName":"Acme","price":203,"quantityAvailable":6000}`),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			output := masker.Mask(tc.input)

			rq.Equal(tc.output, output, "%s vs %s", tc.output, output)
		})
	}
}
