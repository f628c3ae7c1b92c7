package handlers

import (
	"encoding/json"
	"io"
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

// decodeMenuItem reads a menu-item payload. Items are sellable unless the
// payload says otherwise, so availability defaults to true when the field is
// absent.
func decodeMenuItem(r io.Reader) (models.MenuItem, error) {
	item := models.MenuItem{IsAvailable: true}
	err := json.NewDecoder(r).Decode(&item)
	return item, err
}

// CreateMenuItemHandler adds a menu item. Admin only.
func (db *DB) CreateMenuItemHandler(w http.ResponseWriter, r *http.Request) {
	admin, _ := middleware.UserFromContext(r.Context())

	item, err := decodeMenuItem(r.Body)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if strings.TrimSpace(item.Name) == "" || item.Price <= 0 {
		writeMessage(w, http.StatusBadRequest, "Name and a positive price are required")
		return
	}
	if item.Restaurant.IsZero() {
		writeMessage(w, http.StatusBadRequest, "Restaurant reference is required")
		return
	}

	now := time.Now()
	item.ID = primitive.NewObjectID()
	item.CreatedAt = now
	item.UpdatedAt = now

	ctx, cancel := opContext()
	defer cancel()

	if _, err := db.MenuItemCollection.InsertOne(ctx, item); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to create menu item")
		return
	}

	db.logAdminActivity(admin.ID, "menu_item_create", "Created menu item "+item.Name)
	writeJSON(w, http.StatusCreated, item)
}

// GetMenuItemsHandler lists menu items, optionally filtered by veg type.
func (db *DB) GetMenuItemsHandler(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	switch r.URL.Query().Get("vegType") {
	case "Veg":
		filter["is_veg"] = true
	case "Non-Veg":
		filter["is_veg"] = false
	}

	ctx, cancel := opContext()
	defer cancel()

	cursor, err := db.MenuItemCollection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to retrieve menu items")
		return
	}

	items := make([]models.MenuItem, 0)
	if err := decodeAll(ctx, cursor, &items); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to decode menu items")
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func (db *DB) GetMenuItemByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDFromVar(mux.Vars(r), "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid menu item ID")
		return
	}

	ctx, cancel := opContext()
	defer cancel()

	var item models.MenuItem
	err := db.MenuItemCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		writeMessage(w, http.StatusNotFound, "Item not found")
		return
	}
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error fetching item")
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// GetMenuItemsByRestaurantHandler lists a restaurant's menu.
func (db *DB) GetMenuItemsByRestaurantHandler(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := objectIDFromVar(mux.Vars(r), "restaurantId")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid restaurant ID")
		return
	}

	ctx, cancel := opContext()
	defer cancel()

	cursor, err := db.MenuItemCollection.Find(ctx, bson.M{"restaurant": restaurantID})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to retrieve menu items")
		return
	}

	items := make([]models.MenuItem, 0)
	if err := decodeAll(ctx, cursor, &items); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to decode menu items")
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// UpdateMenuItemHandler partially updates a menu item. Admin only.
func (db *DB) UpdateMenuItemHandler(w http.ResponseWriter, r *http.Request) {
	admin, _ := middleware.UserFromContext(r.Context())

	id, ok := objectIDFromVar(mux.Vars(r), "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid menu item ID")
		return
	}

	var updateData bson.M
	if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
		writeMessage(w, http.StatusBadRequest, "Failed to decode request body")
		return
	}
	delete(updateData, "_id")
	delete(updateData, "id")
	updateData["updated_at"] = time.Now()

	ctx, cancel := opContext()
	defer cancel()

	var updated models.MenuItem
	err := db.MenuItemCollection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updateData},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		writeMessage(w, http.StatusNotFound, "MenuItem not found")
		return
	}
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to update menu item")
		return
	}

	db.logAdminActivity(admin.ID, "menu_item_update", "Updated menu item "+id.Hex())
	writeJSON(w, http.StatusOK, updated)
}

// DeleteMenuItemHandler removes a menu item. Admin only. Existing orders keep
// their line-item references; pricing of new orders fails on the dangling
// reference instead of skipping it.
func (db *DB) DeleteMenuItemHandler(w http.ResponseWriter, r *http.Request) {
	admin, _ := middleware.UserFromContext(r.Context())

	id, ok := objectIDFromVar(mux.Vars(r), "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid menu item ID")
		return
	}

	ctx, cancel := opContext()
	defer cancel()

	result, err := db.MenuItemCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Cannot delete menu item")
		return
	}
	if result.DeletedCount == 0 {
		writeMessage(w, http.StatusNotFound, "MenuItem not found")
		return
	}

	db.logAdminActivity(admin.ID, "menu_item_delete", "Deleted menu item "+id.Hex())
	writeMessage(w, http.StatusOK, "Menu item deleted")
}
