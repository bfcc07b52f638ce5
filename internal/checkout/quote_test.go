package checkout

import (
	"testing"

	"github.com/RuiQin/stride_store/internal/domain"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		name         string
		state        domain.CartState
		wantShipping int64
		wantTax      int64
		wantTotal    int64
		wantFree     bool
	}{
		{
			name:         "empty cart has no charges",
			state:        domain.CartState{},
			wantShipping: 0, wantTax: 0, wantTotal: 0, wantFree: false,
		},
		{
			name: "below free shipping threshold",
			state: domain.CartState{
				SubtotalCents: 5000,
			},
			// tax: 8% of 5000 = 400
			wantShipping: 500, wantTax: 400, wantTotal: 5900, wantFree: false,
		},
		{
			name: "at free shipping threshold",
			state: domain.CartState{
				SubtotalCents: 7500,
			},
			wantShipping: 0, wantTax: 600, wantTotal: 8100, wantFree: true,
		},
		{
			name: "tax applies to discounted subtotal",
			state: domain.CartState{
				SubtotalCents:       10000,
				BundleDiscountCents: 1500,
			},
			// tax: 8% of 8500 = 680
			wantShipping: 0, wantTax: 680, wantTotal: 9180, wantFree: true,
		},
		{
			name: "tax rounds half up",
			state: domain.CartState{
				SubtotalCents: 4010,
			},
			// 8% of 4010 = 320.8, rounds to 321
			wantShipping: 500, wantTax: 321, wantTotal: 4831, wantFree: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Quote(tt.state)
			if got.ShippingCents != tt.wantShipping {
				t.Errorf("ShippingCents = %d, want %d", got.ShippingCents, tt.wantShipping)
			}
			if got.TaxCents != tt.wantTax {
				t.Errorf("TaxCents = %d, want %d", got.TaxCents, tt.wantTax)
			}
			if got.TotalCents != tt.wantTotal {
				t.Errorf("TotalCents = %d, want %d", got.TotalCents, tt.wantTotal)
			}
			if got.FreeShipping != tt.wantFree {
				t.Errorf("FreeShipping = %v, want %v", got.FreeShipping, tt.wantFree)
			}
		})
	}
}
