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

func (db *DB) loadWishlist(userID primitive.ObjectID) (models.Wishlist, error) {
	ctx, cancel := opContext()
	defer cancel()

	var wishlist models.Wishlist
	err := db.WishlistCollection.FindOne(ctx, bson.M{"user": userID}).Decode(&wishlist)
	if err == mongo.ErrNoDocuments {
		return models.Wishlist{User: userID, Items: []primitive.ObjectID{}}, nil
	}
	return wishlist, err
}

func (db *DB) saveWishlist(wishlist models.Wishlist) error {
	ctx, cancel := opContext()
	defer cancel()

	wishlist.UpdatedAt = time.Now()
	_, err := db.WishlistCollection.ReplaceOne(
		ctx,
		bson.M{"user": wishlist.User},
		wishlist,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (db *DB) GetWishlistHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No authenticated user")
		return
	}

	wishlist, err := db.loadWishlist(user.ID)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Server error while fetching wishlist")
		return
	}

	writeJSON(w, http.StatusOK, wishlist)
}

// AddToWishlistHandler adds a menu item to the user's wishlist; items already
// present are not duplicated.
func (db *DB) AddToWishlistHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No authenticated user")
		return
	}

	var req struct {
		MenuItemID string `json:"menu_item_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	menuItemID, err := primitive.ObjectIDFromHex(req.MenuItemID)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid menu item ID")
		return
	}

	wishlist, err := db.loadWishlist(user.ID)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to update wishlist")
		return
	}

	present := false
	for _, item := range wishlist.Items {
		if item == menuItemID {
			present = true
			break
		}
	}
	if !present {
		wishlist.Items = append(wishlist.Items, menuItemID)
	}

	if err := db.saveWishlist(wishlist); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to update wishlist")
		return
	}

	writeJSON(w, http.StatusOK, wishlist)
}

func (db *DB) RemoveFromWishlistHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No authenticated user")
		return
	}

	menuItemID, ok := objectIDFromVar(mux.Vars(r), "menuItemId")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid menu item ID")
		return
	}

	wishlist, err := db.loadWishlist(user.ID)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to remove item")
		return
	}

	filtered := wishlist.Items[:0]
	for _, item := range wishlist.Items {
		if item != menuItemID {
			filtered = append(filtered, item)
		}
	}
	wishlist.Items = filtered

	if err := db.saveWishlist(wishlist); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to remove item")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Item removed",
		"wishlist": wishlist,
	})
}

func (db *DB) ClearWishlistHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No authenticated user")
		return
	}

	wishlist, err := db.loadWishlist(user.ID)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to clear wishlist")
		return
	}
	wishlist.Items = []primitive.ObjectID{}

	if err := db.saveWishlist(wishlist); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to clear wishlist")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Wishlist cleared",
		"wishlist": wishlist,
	})
}
