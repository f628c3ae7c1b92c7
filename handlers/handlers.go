// Package handlers provides the HTTP handlers for the food-ordering API:
// menu and restaurant management, per-user carts and wishlists, coupons,
// order lifecycle, Stripe payments, reviews, deliveries, admin notifications
// and admin reporting. Handlers read and write MongoDB collections directly
// and surface errors as an HTTP status plus a human-readable message.
package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/Shahinaks/FOODORDERAPP/models"
	"github.com/Shahinaks/FOODORDERAPP/utils"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type DB struct {
	UserCollection          *mongo.Collection
	RestaurantCollection    *mongo.Collection
	MenuItemCollection      *mongo.Collection
	CouponCollection        *mongo.Collection
	CartCollection          *mongo.Collection
	WishlistCollection      *mongo.Collection
	OrdersCollection        *mongo.Collection
	PaymentCollection       *mongo.Collection
	ReviewCollection        *mongo.Collection
	NotificationCollection  *mongo.Collection
	DeliveryCollection      *mongo.Collection
	AdminActivityCollection *mongo.Collection
	RefreshTokenCollection  *mongo.Collection

	Mailer *utils.Mailer
}

const requestTimeout = 5 * time.Second

func opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// Define Prometheus metrics
var (
	ordersPlacedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_placed_total",
			Help: "Total number of order placement attempts",
		},
		[]string{"status"},
	)

	orderPlacementDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "order_placement_duration_seconds",
			Help:    "Histogram of request durations for placing orders",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	paymentsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_processed_total",
			Help: "Total number of payment records stored by status",
		},
		[]string{"status"},
	)

	loginRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "login_requests_total",
		Help: "Total number of login requests",
	})

	loginRequestsByStatus = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "login_requests_by_status_total",
		Help: "Total number of login requests by status",
	},
		[]string{"status"})
)

func Init() {
	// Register metrics with Prometheus
	prometheus.MustRegister(ordersPlacedTotal)
	prometheus.MustRegister(orderPlacementDuration)
	prometheus.MustRegister(paymentsProcessedTotal)
	prometheus.MustRegister(loginRequests)
	prometheus.MustRegister(loginRequestsByStatus)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// objectIDFromVar parses the named mux path variable as an ObjectID.
func objectIDFromVar(vars map[string]string, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(vars[name])
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// logAdminActivity records an admin mutation for the audit trail. Best-effort;
// the triggering request never fails because of it.
func (db *DB) logAdminActivity(admin primitive.ObjectID, action, description string) {
	ctx, cancel := opContext()
	defer cancel()

	_, err := db.AdminActivityCollection.InsertOne(ctx, models.AdminActivity{
		Admin:       admin,
		Action:      action,
		Description: description,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		log.Printf("Error logging admin activity: %v", err)
	}
}

// decodeAll drains a cursor into out, which must be a pointer to a slice.
func decodeAll(ctx context.Context, cursor *mongo.Cursor, out interface{}) error {
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}
