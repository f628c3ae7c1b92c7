package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Shahinaks/FOODORDERAPP/middleware"
	"github.com/Shahinaks/FOODORDERAPP/models"
	"github.com/Shahinaks/FOODORDERAPP/notify"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateNotificationHandler persists an announcement and pushes it onto the
// notification topic. Admin only.
func (db *DB) CreateNotificationHandler(w http.ResponseWriter, r *http.Request) {
	admin, _ := middleware.UserFromContext(r.Context())

	var req struct {
		Title   string `json:"title"`
		Message string `json:"message"`
		Type    string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Title == "" || req.Message == "" {
		writeMessage(w, http.StatusBadRequest, "Title and message are required")
		return
	}
	if req.Type == "" {
		req.Type = "info"
	}

	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		Title:     req.Title,
		Message:   req.Message,
		Type:      req.Type,
		CreatedBy: admin.ID,
		CreatedAt: time.Now(),
	}

	ctx, cancel := opContext()
	defer cancel()

	if _, err := db.NotificationCollection.InsertOne(ctx, notification); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to create notification")
		return
	}

	notify.Emit(r.Context(), "broadcast", notify.Event{Title: req.Title, Message: req.Message})
	db.logAdminActivity(admin.ID, "notification_create", "Published notification: "+req.Title)

	writeJSON(w, http.StatusCreated, notification)
}

// GetNotificationsHandler lists notifications, newest first. An optional
// ?type= query narrows by category.
func (db *DB) GetNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if t := r.URL.Query().Get("type"); t != "" {
		filter["type"] = t
	}

	ctx, cancel := opContext()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := db.NotificationCollection.Find(ctx, filter, opts)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}

	notifications := make([]models.Notification, 0)
	if err := decodeAll(ctx, cursor, &notifications); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to decode notifications")
		return
	}

	writeJSON(w, http.StatusOK, notifications)
}

// DeleteNotificationHandler removes a notification. Admin only.
func (db *DB) DeleteNotificationHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDFromVar(mux.Vars(r), "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	ctx, cancel := opContext()
	defer cancel()

	result, err := db.NotificationCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to delete notification")
		return
	}
	if result.DeletedCount == 0 {
		writeMessage(w, http.StatusNotFound, "Notification not found")
		return
	}

	writeMessage(w, http.StatusOK, "Notification deleted")
}
