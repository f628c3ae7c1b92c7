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

// CreateCouponHandler creates a coupon. Admin only; duplicate codes are a
// conflict. Coupons are reusable until they expire or are deactivated.
func (db *DB) CreateCouponHandler(w http.ResponseWriter, r *http.Request) {
	admin, _ := middleware.UserFromContext(r.Context())

	var coupon models.Coupon
	if err := json.NewDecoder(r.Body).Decode(&coupon); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	coupon.Code = strings.TrimSpace(coupon.Code)
	if coupon.Code == "" {
		writeMessage(w, http.StatusBadRequest, "Coupon code is required")
		return
	}
	if coupon.DiscountPercentage < 0 || coupon.DiscountPercentage > 100 {
		writeMessage(w, http.StatusBadRequest, "Discount percentage must be between 0 and 100")
		return
	}
	if coupon.ExpirationDate.IsZero() {
		writeMessage(w, http.StatusBadRequest, "Expiration date is required")
		return
	}

	ctx, cancel := opContext()
	defer cancel()

	var existing models.Coupon
	err := db.CouponCollection.FindOne(ctx, bson.M{"code": coupon.Code}).Decode(&existing)
	if err == nil {
		writeMessage(w, http.StatusConflict, "Coupon already exists")
		return
	}
	if err != mongo.ErrNoDocuments {
		writeMessage(w, http.StatusInternalServerError, "Failed to create coupon")
		return
	}

	coupon.ID = primitive.NewObjectID()
	coupon.IsActive = true
	coupon.CreatedAt = time.Now()

	if _, err := db.CouponCollection.InsertOne(ctx, coupon); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to create coupon")
		return
	}

	db.logAdminActivity(admin.ID, "coupon_create", "Created coupon "+coupon.Code)
	writeJSON(w, http.StatusCreated, coupon)
}

// GetAllCouponsHandler lists every coupon, soonest expiry first. Admin only.
func (db *DB) GetAllCouponsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := opContext()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "expiration_date", Value: 1}})
	cursor, err := db.CouponCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch coupons")
		return
	}

	coupons := make([]models.Coupon, 0)
	if err := decodeAll(ctx, cursor, &coupons); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to decode coupons")
		return
	}

	writeJSON(w, http.StatusOK, coupons)
}

// GetAvailableCouponsHandler lists coupons that are active and unexpired.
func (db *DB) GetAvailableCouponsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := opContext()
	defer cancel()

	filter := bson.M{
		"is_active":       true,
		"expiration_date": bson.M{"$gte": time.Now()},
	}
	cursor, err := db.CouponCollection.Find(ctx, filter)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch available coupons")
		return
	}

	coupons := make([]models.Coupon, 0)
	if err := decodeAll(ctx, cursor, &coupons); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to decode coupons")
		return
	}

	writeJSON(w, http.StatusOK, coupons)
}

// ApplyCouponHandler validates a coupon code and returns its discount percent.
// This is a UX preview; the order placement re-validates server-side.
func (db *DB) ApplyCouponHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	ctx, cancel := opContext()
	defer cancel()

	var coupon models.Coupon
	err := db.CouponCollection.FindOne(ctx, bson.M{"code": req.Code, "is_active": true}).Decode(&coupon)
	if err == mongo.ErrNoDocuments || (err == nil && !couponUsable(coupon, time.Now())) {
		writeMessage(w, http.StatusBadRequest, "Invalid or expired coupon")
		return
	}
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to apply coupon")
		return
	}

	writeJSON(w, http.StatusOK, map[string]float64{"discount": coupon.DiscountPercentage})
}

// DeleteCouponHandler removes a coupon. Admin only.
func (db *DB) DeleteCouponHandler(w http.ResponseWriter, r *http.Request) {
	admin, _ := middleware.UserFromContext(r.Context())

	id, ok := objectIDFromVar(mux.Vars(r), "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid coupon ID")
		return
	}

	ctx, cancel := opContext()
	defer cancel()

	result, err := db.CouponCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to delete coupon")
		return
	}
	if result.DeletedCount == 0 {
		writeMessage(w, http.StatusNotFound, "Coupon not found")
		return
	}

	db.logAdminActivity(admin.ID, "coupon_delete", "Deleted coupon "+id.Hex())
	writeMessage(w, http.StatusOK, "Coupon deleted successfully")
}
