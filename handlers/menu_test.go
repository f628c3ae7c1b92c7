package handlers

import (
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDecodeMenuItemAvailabilityDefault(t *testing.T) {
	restaurantID := primitive.NewObjectID().Hex()

	tests := []struct {
		name      string
		body      string
		available bool
	}{
		{
			name:      "field absent defaults to available",
			body:      `{"name":"Paneer Tikka","price":220,"restaurant":"` + restaurantID + `"}`,
			available: true,
		},
		{
			name:      "explicit false respected",
			body:      `{"name":"Paneer Tikka","price":220,"is_available":false,"restaurant":"` + restaurantID + `"}`,
			available: false,
		},
		{
			name:      "explicit true respected",
			body:      `{"name":"Paneer Tikka","price":220,"is_available":true,"restaurant":"` + restaurantID + `"}`,
			available: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := decodeMenuItem(strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("decodeMenuItem: %v", err)
			}
			if item.IsAvailable != tt.available {
				t.Fatalf("IsAvailable = %v, want %v", item.IsAvailable, tt.available)
			}
		})
	}
}

func TestDecodeMenuItemRejectsMalformedPayload(t *testing.T) {
	if _, err := decodeMenuItem(strings.NewReader(`{"name":`)); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
