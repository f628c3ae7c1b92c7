package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/Shahinaks/FOODORDERAPP/middleware"
	"github.com/Shahinaks/FOODORDERAPP/models"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/paymentintent"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment processing is delegated to Stripe's client-confirmation +
// server-intent-creation handshake. This API creates the PaymentIntent and
// later stores the resulting transaction id and status; the card flow itself
// happens entirely on the client.

type paymentIntentRequest struct {
	Amount  int64  `json:"amount"`
	OrderID string `json:"order_id"`
}

// CreatePaymentIntentHandler creates a Stripe PaymentIntent and returns its
// client secret. Amount is in the currency's minor unit and must cover
// Stripe's minimum charge.
func (db *DB) CreatePaymentIntentHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No authenticated user")
		return
	}

	var req paymentIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Amount < 50 {
		writeMessage(w, http.StatusBadRequest, "Amount must be at least 50 minor units")
		return
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(string(stripe.CurrencyINR)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("user_id", user.ID.Hex())
	params.AddMetadata("email", user.Email)
	if req.OrderID != "" {
		params.AddMetadata("order_id", req.OrderID)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "PaymentIntent creation failed")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"client_secret": pi.ClientSecret})
}

type storePaymentRequest struct {
	Order         string  `json:"order"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
	TransactionID string  `json:"transaction_id"`
	Status        string  `json:"status"`
}

// StorePaymentHandler records the outcome of a client-confirmed payment.
// A completed payment also marks the order paid.
func (db *DB) StorePaymentHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No authenticated user")
		return
	}

	var req storePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	orderID, err := primitive.ObjectIDFromHex(req.Order)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid order reference")
		return
	}
	if req.Method != "card" && req.Method != "cash" {
		writeMessage(w, http.StatusBadRequest, "Payment method must be card or cash")
		return
	}

	status := req.Status
	if status == "" {
		status = "completed"
	}

	payment := models.Payment{
		ID:            primitive.NewObjectID(),
		User:          user.ID,
		Order:         orderID,
		Amount:        req.Amount,
		Method:        req.Method,
		Status:        status,
		TransactionID: req.TransactionID,
		CreatedAt:     time.Now(),
	}
	if status == "completed" {
		now := time.Now()
		payment.PaidAt = &now
	}

	ctx, cancel := opContext()
	defer cancel()

	if _, err := db.PaymentCollection.InsertOne(ctx, payment); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Payment record saving failed")
		paymentsProcessedTotal.WithLabelValues("error").Inc()
		return
	}

	if status == "completed" {
		update := bson.M{"$set": bson.M{
			"payment_status": models.PaymentPaid,
			"payment_method": req.Method,
			"updated_at":     time.Now(),
		}}
		if _, err := db.OrdersCollection.UpdateOne(ctx, bson.M{"_id": orderID}, update); err != nil {
			writeMessage(w, http.StatusInternalServerError, "Failed to update order payment status")
			paymentsProcessedTotal.WithLabelValues("error").Inc()
			return
		}
	}

	paymentsProcessedTotal.WithLabelValues(status).Inc()
	writeJSON(w, http.StatusCreated, payment)
}

// GetAllPaymentsHandler lists every payment record. Admin only.
func (db *DB) GetAllPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := opContext()
	defer cancel()

	cursor, err := db.PaymentCollection.Find(ctx, bson.M{})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch payments")
		return
	}

	payments := make([]models.Payment, 0)
	if err := decodeAll(ctx, cursor, &payments); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to decode payments")
		return
	}

	writeJSON(w, http.StatusOK, payments)
}
