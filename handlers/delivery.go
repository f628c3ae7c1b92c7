package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Shahinaks/FOODORDERAPP/middleware"
	"github.com/Shahinaks/FOODORDERAPP/models"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateDeliveryHandler assigns a courier to an order. Admin only.
func (db *DB) CreateDeliveryHandler(w http.ResponseWriter, r *http.Request) {
	admin, _ := middleware.UserFromContext(r.Context())

	var req struct {
		Order   string `json:"order"`
		Courier string `json:"courier"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	orderID, err := primitive.ObjectIDFromHex(req.Order)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid order ID")
		return
	}
	if req.Courier == "" {
		writeMessage(w, http.StatusBadRequest, "Courier name is required")
		return
	}

	ctx, cancel := opContext()
	defer cancel()

	var order models.Order
	if err := db.OrdersCollection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		if err == mongo.ErrNoDocuments {
			writeMessage(w, http.StatusNotFound, "Order not found")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "Failed to look up order")
		return
	}

	delivery := models.Delivery{
		ID:        primitive.NewObjectID(),
		Order:     orderID,
		Courier:   req.Courier,
		Status:    "assigned",
		CreatedAt: time.Now(),
	}
	if _, err := db.DeliveryCollection.InsertOne(ctx, delivery); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to create delivery")
		return
	}

	db.logAdminActivity(admin.ID, "delivery_assign", "Assigned "+req.Courier+" to order "+orderID.Hex())
	writeJSON(w, http.StatusCreated, delivery)
}

// GetAllDeliveriesHandler lists deliveries, newest first. Admin only.
func (db *DB) GetAllDeliveriesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := opContext()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := db.DeliveryCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch deliveries")
		return
	}

	deliveries := make([]models.Delivery, 0)
	if err := decodeAll(ctx, cursor, &deliveries); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to decode deliveries")
		return
	}

	writeJSON(w, http.StatusOK, deliveries)
}

// GetDeliveryByIDHandler fetches a single delivery. Admin only.
func (db *DB) GetDeliveryByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDFromVar(mux.Vars(r), "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid delivery ID")
		return
	}

	ctx, cancel := opContext()
	defer cancel()

	var delivery models.Delivery
	if err := db.DeliveryCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&delivery); err != nil {
		if err == mongo.ErrNoDocuments {
			writeMessage(w, http.StatusNotFound, "Delivery not found")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch delivery")
		return
	}

	writeJSON(w, http.StatusOK, delivery)
}

// UpdateDeliveryStatusHandler advances a delivery. Marking it delivered
// stamps delivered_at. Admin only.
func (db *DB) UpdateDeliveryStatusHandler(w http.ResponseWriter, r *http.Request) {
	admin, _ := middleware.UserFromContext(r.Context())

	id, ok := objectIDFromVar(mux.Vars(r), "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid delivery ID")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		writeMessage(w, http.StatusBadRequest, "Status is required")
		return
	}

	update := bson.M{"status": req.Status}
	if req.Status == "delivered" {
		now := time.Now()
		update["delivered_at"] = now
	}

	ctx, cancel := opContext()
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var delivery models.Delivery
	err := db.DeliveryCollection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": update}, opts).Decode(&delivery)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			writeMessage(w, http.StatusNotFound, "Delivery not found")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "Failed to update delivery")
		return
	}

	db.logAdminActivity(admin.ID, "delivery_status_update", "Delivery "+id.Hex()+" set to "+req.Status)
	writeJSON(w, http.StatusOK, delivery)
}

// DeleteDeliveryHandler removes a delivery record. Admin only.
func (db *DB) DeleteDeliveryHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDFromVar(mux.Vars(r), "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid delivery ID")
		return
	}

	ctx, cancel := opContext()
	defer cancel()

	result, err := db.DeliveryCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to delete delivery")
		return
	}
	if result.DeletedCount == 0 {
		writeMessage(w, http.StatusNotFound, "Delivery not found")
		return
	}

	writeMessage(w, http.StatusOK, "Delivery deleted")
}
