package models

import "testing"

func TestOrderStatusValid(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"placed", true},
		{"confirmed", true},
		{"preparing", true},
		{"out-for-delivery", true},
		{"delivered", true},
		{"cancelled", true},
		{"shipped", false},
		{"", false},
		{"Placed", false},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := OrderStatus(tt.status).Valid(); got != tt.want {
				t.Errorf("OrderStatus(%q).Valid() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestOrderStatusCanCancel(t *testing.T) {
	tests := []struct {
		status OrderStatus
		want   bool
	}{
		{OrderPlaced, true},
		{OrderConfirmed, true},
		{OrderPreparing, true},
		{OrderOutForDelivery, true},
		{OrderDelivered, false},
		{OrderCancelled, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.CanCancel(); got != tt.want {
				t.Errorf("%s.CanCancel() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestPaymentStatusValid(t *testing.T) {
	for _, s := range []PaymentStatus{PaymentPending, PaymentPaid, PaymentFailed} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if PaymentStatus("completed").Valid() {
		t.Error("completed is not a payment status")
	}
}
