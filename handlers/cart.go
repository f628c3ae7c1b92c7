package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Shahinaks/FOODORDERAPP/middleware"
	"github.com/Shahinaks/FOODORDERAPP/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// The cart is a single per-user document, fully replaced on each mutation.
// Concurrent updates from the same user are last-write-wins.

type cartMutationRequest struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int64  `json:"quantity"`
}

func (db *DB) loadCart(userID primitive.ObjectID) (models.Cart, error) {
	ctx, cancel := opContext()
	defer cancel()

	var cart models.Cart
	err := db.CartCollection.FindOne(ctx, bson.M{"user": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return models.Cart{User: userID, Items: []models.CartItem{}}, nil
	}
	return cart, err
}

func (db *DB) saveCart(cart models.Cart) error {
	ctx, cancel := opContext()
	defer cancel()

	cart.UpdatedAt = time.Now()
	_, err := db.CartCollection.ReplaceOne(
		ctx,
		bson.M{"user": cart.User},
		cart,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (db *DB) GetCartHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No authenticated user")
		return
	}

	cart, err := db.loadCart(user.ID)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to load cart")
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// AddToCartHandler adds the item to the user's cart, merging quantities when
// the item is already present.
func (db *DB) AddToCartHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No authenticated user")
		return
	}

	var req cartMutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	menuItemID, err := primitive.ObjectIDFromHex(req.MenuItemID)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid menu item ID")
		return
	}
	if req.Quantity < 1 {
		writeMessage(w, http.StatusBadRequest, "Quantity must be at least 1")
		return
	}

	cart, err := db.loadCart(user.ID)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to add item to cart")
		return
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].MenuItem == menuItemID {
			cart.Items[i].Quantity += req.Quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, models.CartItem{MenuItem: menuItemID, Quantity: req.Quantity})
	}

	if err := db.saveCart(cart); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to add item to cart")
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// UpdateCartItemHandler sets an item's quantity; zero or negative removes it.
func (db *DB) UpdateCartItemHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No authenticated user")
		return
	}

	var req cartMutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	menuItemID, err := primitive.ObjectIDFromHex(req.MenuItemID)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid menu item ID")
		return
	}

	cart, err := db.loadCart(user.ID)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to update cart item")
		return
	}

	index := -1
	for i := range cart.Items {
		if cart.Items[i].MenuItem == menuItemID {
			index = i
			break
		}
	}
	if index == -1 {
		writeMessage(w, http.StatusNotFound, "Item not in cart")
		return
	}

	if req.Quantity <= 0 {
		cart.Items = append(cart.Items[:index], cart.Items[index+1:]...)
	} else {
		cart.Items[index].Quantity = req.Quantity
	}

	if err := db.saveCart(cart); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to update cart item")
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

func (db *DB) RemoveFromCartHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No authenticated user")
		return
	}

	var req cartMutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	menuItemID, err := primitive.ObjectIDFromHex(req.MenuItemID)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid menu item ID")
		return
	}

	cart, err := db.loadCart(user.ID)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to remove item")
		return
	}

	filtered := cart.Items[:0]
	for _, item := range cart.Items {
		if item.MenuItem != menuItemID {
			filtered = append(filtered, item)
		}
	}
	cart.Items = filtered

	if err := db.saveCart(cart); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to remove item")
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

func (db *DB) ClearCartHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No authenticated user")
		return
	}

	cart, err := db.loadCart(user.ID)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}
	cart.Items = []models.CartItem{}

	if err := db.saveCart(cart); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	writeMessage(w, http.StatusOK, "Cart cleared")
}

// GetAllCartsHandler lists every user's cart. Admin only.
func (db *DB) GetAllCartsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := opContext()
	defer cancel()

	cursor, err := db.CartCollection.Find(ctx, bson.M{})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch carts")
		return
	}

	carts := make([]models.Cart, 0)
	if err := decodeAll(ctx, cursor, &carts); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to decode carts")
		return
	}

	writeJSON(w, http.StatusOK, carts)
}
