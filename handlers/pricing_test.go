package handlers

import (
	"testing"
	"time"

	"github.com/Shahinaks/FOODORDERAPP/models"
)

func lines(prices []float64, quantities []int64) []pricedLine {
	out := make([]pricedLine, len(prices))
	for i := range prices {
		out[i] = pricedLine{
			Item:     models.MenuItem{Name: "item", Price: prices[i], IsAvailable: true},
			Quantity: quantities[i],
		}
	}
	return out
}

func TestOrderSubtotal(t *testing.T) {
	tests := []struct {
		name       string
		prices     []float64
		quantities []int64
		want       float64
		wantErr    error
	}{
		{
			name:       "single line",
			prices:     []float64{9.5},
			quantities: []int64{2},
			want:       19,
		},
		{
			name:       "multiple lines",
			prices:     []float64{100, 50},
			quantities: []int64{2, 1},
			want:       250,
		},
		{
			name:    "empty order",
			wantErr: ErrEmptyOrder,
		},
		{
			name:       "zero quantity",
			prices:     []float64{10},
			quantities: []int64{0},
			wantErr:    ErrInvalidQuantity,
		},
		{
			name:       "negative quantity",
			prices:     []float64{10},
			quantities: []int64{-3},
			wantErr:    ErrInvalidQuantity,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := orderSubtotal(lines(tt.prices, tt.quantities))
			if err != tt.wantErr {
				t.Fatalf("orderSubtotal() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("orderSubtotal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyDiscount(t *testing.T) {
	// items=[{price:100,qty:2},{price:50,qty:1}], coupon 10% -> subtotal=250, total=225
	subtotal, err := orderSubtotal(lines([]float64{100, 50}, []int64{2, 1}))
	if err != nil {
		t.Fatalf("orderSubtotal() error = %v", err)
	}
	if subtotal != 250 {
		t.Fatalf("subtotal = %v, want 250", subtotal)
	}

	total, discountAmount := applyDiscount(subtotal, 10)
	if total != 225 {
		t.Errorf("total = %v, want 225", total)
	}
	if discountAmount != 25 {
		t.Errorf("discountAmount = %v, want 25", discountAmount)
	}
}

func TestApplyDiscountNoCoupon(t *testing.T) {
	total, discountAmount := applyDiscount(250, 0)
	if total != 250 {
		t.Errorf("total = %v, want 250", total)
	}
	if discountAmount != 0 {
		t.Errorf("discountAmount = %v, want 0", discountAmount)
	}
}

func TestCouponUsable(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		coupon models.Coupon
		want   bool
	}{
		{
			name:   "active and unexpired",
			coupon: models.Coupon{IsActive: true, ExpirationDate: now.AddDate(0, 1, 0)},
			want:   true,
		},
		{
			name:   "expires today",
			coupon: models.Coupon{IsActive: true, ExpirationDate: now},
			want:   true,
		},
		{
			name:   "expired",
			coupon: models.Coupon{IsActive: true, ExpirationDate: now.AddDate(0, 0, -1)},
			want:   false,
		},
		{
			name:   "inactive",
			coupon: models.Coupon{IsActive: false, ExpirationDate: now.AddDate(0, 1, 0)},
			want:   false,
		},
		{
			name:   "inactive and expired",
			coupon: models.Coupon{IsActive: false, ExpirationDate: now.AddDate(0, -1, 0)},
			want:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := couponUsable(tt.coupon, now); got != tt.want {
				t.Errorf("couponUsable() = %v, want %v", got, tt.want)
			}
		})
	}
}
