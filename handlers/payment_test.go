package handlers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreatePaymentIntentHandlerRejectsSmallAmount(t *testing.T) {
	db := &DB{}
	req := authedRequest(t, http.MethodPost, "/api/payments/intent", `{"amount":49,"currency":"inr"}`)
	rec := httptest.NewRecorder()

	db.CreatePaymentIntentHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if got := responseMessage(t, rec); got != "Amount must be at least 50 minor units" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestStorePaymentHandlerValidation(t *testing.T) {
	orderID := primitive.NewObjectID().Hex()

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{
			name:    "bad order reference",
			body:    `{"order":"nope","amount":250,"method":"card"}`,
			message: "Invalid order reference",
		},
		{
			name:    "unsupported method",
			body:    `{"order":"` + orderID + `","amount":250,"method":"cheque"}`,
			message: "Payment method must be card or cash",
		},
	}

	db := &DB{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := authedRequest(t, http.MethodPost, "/api/payments", tt.body)
			rec := httptest.NewRecorder()

			db.StorePaymentHandler(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
			}
			if got := responseMessage(t, rec); got != tt.message {
				t.Fatalf("expected message %q, got %q", tt.message, got)
			}
		})
	}
}

func TestCreateReviewHandlerRejectsOutOfRangeRating(t *testing.T) {
	itemID := primitive.NewObjectID().Hex()

	db := &DB{}
	for _, rating := range []int{0, 6, -1} {
		req := authedRequest(t, http.MethodPost, "/api/reviews",
			`{"menu_item":"`+itemID+`","rating":`+strconv.Itoa(rating)+`}`)
		rec := httptest.NewRecorder()

		db.CreateReviewHandler(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("rating %d: expected status %d, got %d", rating, http.StatusBadRequest, rec.Code)
		}
	}
}
