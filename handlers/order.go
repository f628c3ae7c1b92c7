package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Shahinaks/FOODORDERAPP/middleware"
	"github.com/Shahinaks/FOODORDERAPP/models"
	"github.com/Shahinaks/FOODORDERAPP/notify"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
)

type placeOrderRequest struct {
	Items              []models.OrderLine `json:"items"`
	DeliveryAddress    string             `json:"delivery_address"`
	Restaurant         string             `json:"restaurant"`
	CouponCode         string             `json:"coupon_code"`
	PaymentMethod      string             `json:"payment_method"`
	PaymentMethodLabel string             `json:"payment_method_label"`
}

func (db *DB) placeOrderFailed(w http.ResponseWriter, start time.Time, status int, message string) {
	writeMessage(w, status, message)
	ordersPlacedTotal.WithLabelValues("error").Inc()
	orderPlacementDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
}

// PlaceOrderHandler computes the order total, persists the order, and then
// fires the confirmation email and the real-time notification. Both side
// channels are best-effort; the response never waits on their delivery.
func (db *DB) PlaceOrderHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, span := otel.Tracer("order-service").Start(r.Context(), "PlaceOrderHandler")
	defer span.End()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No authenticated user")
		return
	}

	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		db.placeOrderFailed(w, start, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if len(req.Items) == 0 {
		db.placeOrderFailed(w, start, http.StatusBadRequest, "Order must have at least one item")
		return
	}
	if strings.TrimSpace(req.DeliveryAddress) == "" {
		db.placeOrderFailed(w, start, http.StatusBadRequest, "Delivery address is required")
		return
	}
	restaurantID, err := primitive.ObjectIDFromHex(req.Restaurant)
	if err != nil {
		db.placeOrderFailed(w, start, http.StatusBadRequest, "Invalid restaurant reference")
		return
	}

	opctx, cancel := opContext()
	defer cancel()

	total, discount, err := db.priceOrder(opctx, req.Items, req.CouponCode)
	if err != nil {
		span.RecordError(err)
		var notFound errMenuItemNotFound
		switch {
		case errors.As(err, &notFound):
			db.placeOrderFailed(w, start, http.StatusNotFound, "Menu item not found: "+notFound.id)
		case errors.Is(err, ErrInvalidCoupon):
			db.placeOrderFailed(w, start, http.StatusBadRequest, "Invalid or expired coupon")
		case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrEmptyOrder), errors.Is(err, ErrItemUnavailable):
			db.placeOrderFailed(w, start, http.StatusBadRequest, err.Error())
		default:
			db.placeOrderFailed(w, start, http.StatusInternalServerError, "Order creation failed")
		}
		return
	}

	now := time.Now()
	orderID := primitive.NewObjectID()
	shortID := strings.ToUpper(orderID.Hex()[len(orderID.Hex())-6:])
	order := models.Order{
		ID:                 orderID,
		User:               user.ID,
		Items:              req.Items,
		TotalAmount:        total,
		Discount:           discount,
		Coupon:             req.CouponCode,
		PaymentStatus:      models.PaymentPending,
		OrderStatus:        models.OrderPlaced,
		DeliveryAddress:    req.DeliveryAddress,
		Restaurant:         restaurantID,
		PaymentMethod:      req.PaymentMethod,
		PaymentMethodLabel: req.PaymentMethodLabel,
		Message:            fmt.Sprintf("Order %s has been placed successfully!", shortID),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if _, err := db.OrdersCollection.InsertOne(opctx, order); err != nil {
		span.RecordError(err)
		db.placeOrderFailed(w, start, http.StatusInternalServerError, "Failed to create new order")
		return
	}

	// Fire-and-forget side channels.
	go func(email, id string) {
		if err := db.Mailer.SendOrderConfirmation(email, id, string(models.OrderPlaced)); err != nil {
			log.Printf("Failed to send order confirmation to %s: %v", email, err)
		}
	}(user.Email, orderID.Hex())

	notify.Emit(ctx, user.UID, notify.Event{
		Title:   "Order Placed",
		Message: order.Message,
	})

	writeJSON(w, http.StatusCreated, order)
	ordersPlacedTotal.WithLabelValues("success").Inc()
	orderPlacementDuration.WithLabelValues("success").Observe(time.Since(start).Seconds())
}

// GetUserOrdersHandler lists the requesting user's orders.
func (db *DB) GetUserOrdersHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No authenticated user")
		return
	}

	ctx, cancel := opContext()
	defer cancel()

	cursor, err := db.OrdersCollection.Find(ctx, bson.M{"user": user.ID})
	if err != nil {
		log.Printf("Error querying orders: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to get orders")
		return
	}

	orders := make([]models.Order, 0)
	if err := decodeAll(ctx, cursor, &orders); err != nil {
		log.Printf("Failed to decode orders: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to get orders")
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// GetAllOrdersHandler lists every order, newest first. Admin only.
func (db *DB) GetAllOrdersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := opContext()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := db.OrdersCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to get all orders")
		return
	}

	orders := make([]models.Order, 0)
	if err := decodeAll(ctx, cursor, &orders); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to get all orders")
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// FilterOrdersByStatusHandler lists orders matching the status query
// parameter, or all orders when it is absent. Admin only.
func (db *DB) FilterOrdersByStatusHandler(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	filter := bson.M{}
	if status != "" {
		filter["order_status"] = status
	}

	ctx, cancel := opContext()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := db.OrdersCollection.Find(ctx, filter, opts)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to filter orders")
		return
	}

	orders := make([]models.Order, 0)
	if err := decodeAll(ctx, cursor, &orders); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to filter orders")
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// GetOrderByIDHandler returns a single order to its owner or an admin.
func (db *DB) GetOrderByIDHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No authenticated user")
		return
	}

	orderID, ok := objectIDFromVar(mux.Vars(r), "orderId")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	ctx, cancel := opContext()
	defer cancel()

	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		writeMessage(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch order")
		return
	}

	if user.Role != "admin" && order.User != user.ID {
		writeMessage(w, http.StatusForbidden, "Unauthorized access to order")
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// GetOrderPaymentStatusHandler reports the payment status of an order to its
// owner or an admin.
func (db *DB) GetOrderPaymentStatusHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No authenticated user")
		return
	}

	orderID, ok := objectIDFromVar(mux.Vars(r), "orderId")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	ctx, cancel := opContext()
	defer cancel()

	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		writeMessage(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error retrieving payment status")
		return
	}

	if user.Role != "admin" && order.User != user.ID {
		writeMessage(w, http.StatusForbidden, "Not authorized to access this order")
		return
	}

	writeJSON(w, http.StatusOK, map[string]models.PaymentStatus{"payment_status": order.PaymentStatus})
}

// CancelOrderHandler cancels the user's own order. Delivered and
// already-cancelled orders return a conflict; repeated cancels stay a
// conflict rather than becoming a second transition. No inventory or refund
// compensation happens here.
func (db *DB) CancelOrderHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No authenticated user")
		return
	}

	orderID, ok := objectIDFromVar(mux.Vars(r), "orderId")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	ctx, cancel := opContext()
	defer cancel()

	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{"_id": orderID, "user": user.ID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		writeMessage(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to cancel order")
		return
	}

	if !order.OrderStatus.CanCancel() {
		writeMessage(w, http.StatusConflict, "Cannot cancel this order")
		return
	}

	update := bson.M{"$set": bson.M{"order_status": models.OrderCancelled, "updated_at": time.Now()}}
	if _, err := db.OrdersCollection.UpdateOne(ctx, bson.M{"_id": order.ID}, update); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to cancel order")
		return
	}
	order.OrderStatus = models.OrderCancelled

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Order cancelled successfully",
		"order":   order,
	})
}

// UpdateOrderStatusHandler sets an order's fulfillment stage. Admin only; the
// target stage must be one of the enumerated values.
func (db *DB) UpdateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	admin, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No authenticated user")
		return
	}

	orderID, ok := objectIDFromVar(mux.Vars(r), "orderId")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	status := models.OrderStatus(req.Status)
	if !status.Valid() {
		writeMessage(w, http.StatusBadRequest, "Invalid status value")
		return
	}

	ctx, cancel := opContext()
	defer cancel()

	var updated models.Order
	err := db.OrdersCollection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": orderID},
		bson.M{"$set": bson.M{"order_status": status, "updated_at": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		writeMessage(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to update order status")
		return
	}

	db.logAdminActivity(admin.ID, "order_status_update",
		fmt.Sprintf("Order %s set to %s", orderID.Hex(), status))

	writeJSON(w, http.StatusOK, updated)
}
