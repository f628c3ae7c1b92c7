package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Shahinaks/FOODORDERAPP/middleware"
	"github.com/Shahinaks/FOODORDERAPP/models"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) CreateRestaurantHandler(w http.ResponseWriter, r *http.Request) {
	admin, _ := middleware.UserFromContext(r.Context())

	var restaurant models.Restaurant
	if err := json.NewDecoder(r.Body).Decode(&restaurant); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if strings.TrimSpace(restaurant.Name) == "" {
		writeMessage(w, http.StatusBadRequest, "Restaurant name is required")
		return
	}

	restaurant.ID = primitive.NewObjectID()
	restaurant.CreatedAt = time.Now()

	ctx, cancel := opContext()
	defer cancel()

	if _, err := db.RestaurantCollection.InsertOne(ctx, restaurant); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to create restaurant")
		return
	}

	db.logAdminActivity(admin.ID, "restaurant_create", "Created restaurant "+restaurant.Name)
	writeJSON(w, http.StatusCreated, restaurant)
}

func (db *DB) GetAllRestaurantsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := opContext()
	defer cancel()

	cursor, err := db.RestaurantCollection.Find(ctx, bson.M{})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch restaurants")
		return
	}

	restaurants := make([]models.Restaurant, 0)
	if err := decodeAll(ctx, cursor, &restaurants); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to decode restaurants")
		return
	}

	writeJSON(w, http.StatusOK, restaurants)
}

func (db *DB) GetRestaurantByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDFromVar(mux.Vars(r), "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid restaurant ID")
		return
	}

	ctx, cancel := opContext()
	defer cancel()

	var restaurant models.Restaurant
	err := db.RestaurantCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&restaurant)
	if err == mongo.ErrNoDocuments {
		writeMessage(w, http.StatusNotFound, "Restaurant not found")
		return
	}
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch restaurant")
		return
	}

	writeJSON(w, http.StatusOK, restaurant)
}

func (db *DB) UpdateRestaurantHandler(w http.ResponseWriter, r *http.Request) {
	admin, _ := middleware.UserFromContext(r.Context())

	id, ok := objectIDFromVar(mux.Vars(r), "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid restaurant ID")
		return
	}

	var updateData bson.M
	if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
		writeMessage(w, http.StatusBadRequest, "Failed to decode request body")
		return
	}
	delete(updateData, "_id")
	delete(updateData, "id")

	ctx, cancel := opContext()
	defer cancel()

	var updated models.Restaurant
	err := db.RestaurantCollection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updateData},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		writeMessage(w, http.StatusNotFound, "Restaurant not found")
		return
	}
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to update restaurant")
		return
	}

	db.logAdminActivity(admin.ID, "restaurant_update", "Updated restaurant "+id.Hex())
	writeJSON(w, http.StatusOK, updated)
}

func (db *DB) DeleteRestaurantHandler(w http.ResponseWriter, r *http.Request) {
	admin, _ := middleware.UserFromContext(r.Context())

	id, ok := objectIDFromVar(mux.Vars(r), "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid restaurant ID")
		return
	}

	ctx, cancel := opContext()
	defer cancel()

	result, err := db.RestaurantCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to delete restaurant")
		return
	}
	if result.DeletedCount == 0 {
		writeMessage(w, http.StatusNotFound, "Restaurant not found")
		return
	}

	db.logAdminActivity(admin.ID, "restaurant_delete", "Deleted restaurant "+id.Hex())
	writeMessage(w, http.StatusOK, "Deleted successfully")
}
