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

// CreateReviewHandler records a rating for a menu item. One review per user
// per item.
func (db *DB) CreateReviewHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No authenticated user")
		return
	}

	var req struct {
		MenuItem string `json:"menu_item"`
		Rating   int    `json:"rating"`
		Comment  string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	menuItemID, err := primitive.ObjectIDFromHex(req.MenuItem)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid menu item ID")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		writeMessage(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	ctx, cancel := opContext()
	defer cancel()

	var existing models.Review
	err = db.ReviewCollection.FindOne(ctx, bson.M{"user": user.ID, "menu_item": menuItemID}).Decode(&existing)
	if err == nil {
		writeMessage(w, http.StatusBadRequest, "Review already submitted for this item")
		return
	}
	if err != mongo.ErrNoDocuments {
		writeMessage(w, http.StatusInternalServerError, "Failed to create review")
		return
	}

	review := models.Review{
		ID:        primitive.NewObjectID(),
		User:      user.ID,
		MenuItem:  menuItemID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}
	if _, err := db.ReviewCollection.InsertOne(ctx, review); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to create review")
		return
	}

	writeJSON(w, http.StatusCreated, review)
}

// GetReviewsByMenuItemHandler lists a menu item's reviews, newest first.
func (db *DB) GetReviewsByMenuItemHandler(w http.ResponseWriter, r *http.Request) {
	menuItemID, ok := objectIDFromVar(mux.Vars(r), "menuItemId")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid menu item ID")
		return
	}

	ctx, cancel := opContext()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := db.ReviewCollection.Find(ctx, bson.M{"menu_item": menuItemID}, opts)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}

	reviews := make([]models.Review, 0)
	if err := decodeAll(ctx, cursor, &reviews); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to decode reviews")
		return
	}

	writeJSON(w, http.StatusOK, reviews)
}

// GetAllReviewsHandler lists every review for moderation. Admin only.
func (db *DB) GetAllReviewsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := opContext()
	defer cancel()

	cursor, err := db.ReviewCollection.Find(ctx, bson.M{})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}

	reviews := make([]models.Review, 0)
	if err := decodeAll(ctx, cursor, &reviews); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to decode reviews")
		return
	}

	writeJSON(w, http.StatusOK, reviews)
}

// DeleteReviewHandler removes a review. Admin only.
func (db *DB) DeleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	admin, _ := middleware.UserFromContext(r.Context())

	id, ok := objectIDFromVar(mux.Vars(r), "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid review ID")
		return
	}

	ctx, cancel := opContext()
	defer cancel()

	result, err := db.ReviewCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to delete review")
		return
	}
	if result.DeletedCount == 0 {
		writeMessage(w, http.StatusNotFound, "Review not found")
		return
	}

	db.logAdminActivity(admin.ID, "review_delete", "Deleted review "+id.Hex())
	writeMessage(w, http.StatusOK, "Review deleted")
}
