package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Shahinaks/FOODORDERAPP/middleware"
	"github.com/Shahinaks/FOODORDERAPP/models"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func authedRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	user := models.User{
		ID:    primitive.NewObjectID(),
		UID:   "test-uid",
		Email: "test@example.com",
		Role:  "user",
	}
	return req.WithContext(middleware.ContextWithUser(req.Context(), user))
}

func responseMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
	return body["message"]
}

func TestPlaceOrderHandlerRequiresUser(t *testing.T) {
	db := &DB{}
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	db.PlaceOrderHandler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestPlaceOrderHandlerValidation(t *testing.T) {
	itemID := primitive.NewObjectID().Hex()

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{
			name:    "malformed JSON",
			body:    `{"items":`,
			status:  http.StatusBadRequest,
			message: "Invalid request payload",
		},
		{
			name:    "no items",
			body:    `{"items":[],"delivery_address":"12 Main St","restaurant":"` + itemID + `"}`,
			status:  http.StatusBadRequest,
			message: "Order must have at least one item",
		},
		{
			name:    "missing delivery address",
			body:    `{"items":[{"menu_item":"` + itemID + `","quantity":1}],"delivery_address":"  "}`,
			status:  http.StatusBadRequest,
			message: "Delivery address is required",
		},
		{
			name:    "bad restaurant reference",
			body:    `{"items":[{"menu_item":"` + itemID + `","quantity":1}],"delivery_address":"12 Main St","restaurant":"nope"}`,
			status:  http.StatusBadRequest,
			message: "Invalid restaurant reference",
		},
	}

	db := &DB{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := authedRequest(t, http.MethodPost, "/api/orders", tt.body)
			rec := httptest.NewRecorder()

			db.PlaceOrderHandler(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, rec.Code)
			}
			if got := responseMessage(t, rec); got != tt.message {
				t.Fatalf("expected message %q, got %q", tt.message, got)
			}
		})
	}
}

func TestUpdateOrderStatusHandlerRejectsUnknownStatus(t *testing.T) {
	db := &DB{}
	req := authedRequest(t, http.MethodPut, "/api/orders/x/status", `{"status":"shipped"}`)
	req = mux.SetURLVars(req, map[string]string{"orderId": primitive.NewObjectID().Hex()})
	rec := httptest.NewRecorder()

	db.UpdateOrderStatusHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if got := responseMessage(t, rec); got != "Invalid status value" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestUpdateOrderStatusHandlerRejectsBadOrderID(t *testing.T) {
	db := &DB{}
	req := authedRequest(t, http.MethodPut, "/api/orders/x/status", `{"status":"confirmed"}`)
	req = mux.SetURLVars(req, map[string]string{"orderId": "not-an-id"})
	rec := httptest.NewRecorder()

	db.UpdateOrderStatusHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestCancelOrderHandlerRejectsBadOrderID(t *testing.T) {
	db := &DB{}
	req := authedRequest(t, http.MethodPut, "/api/orders/not-an-id/cancel", "")
	req = mux.SetURLVars(req, map[string]string{"orderId": "not-an-id"})
	rec := httptest.NewRecorder()

	db.CancelOrderHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if got := responseMessage(t, rec); got != "Invalid order ID" {
		t.Fatalf("unexpected message %q", got)
	}
}
