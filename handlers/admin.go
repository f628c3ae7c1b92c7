package handlers

import (
	"net/http"

	"github.com/Shahinaks/FOODORDERAPP/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type statusCount struct {
	Status models.OrderStatus `json:"status" bson:"_id"`
	Count  int64              `json:"count" bson:"count"`
}

type categoryRevenue struct {
	Category string  `json:"category" bson:"_id"`
	Revenue  float64 `json:"revenue" bson:"revenue"`
}

type adminStats struct {
	TotalOrders       int64             `json:"total_orders"`
	TotalUsers        int64             `json:"total_users"`
	TotalRevenue      float64           `json:"total_revenue"`
	OrdersByStatus    []statusCount     `json:"orders_by_status"`
	RevenueByCategory []categoryRevenue `json:"revenue_by_category"`
}

// GetAdminStatsHandler aggregates the dashboard figures: order and user
// counts, paid revenue, orders grouped by status and revenue grouped by
// menu category.
func (db *DB) GetAdminStatsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := opContext()
	defer cancel()

	stats := adminStats{
		OrdersByStatus:    make([]statusCount, 0),
		RevenueByCategory: make([]categoryRevenue, 0),
	}

	totalOrders, err := db.OrdersCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	stats.TotalOrders = totalOrders

	totalUsers, err := db.UserCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	stats.TotalUsers = totalUsers

	revenuePipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"payment_status": models.PaymentPaid}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"revenue": bson.M{"$sum": "$total_amount"},
		}}},
	}
	cursor, err := db.OrdersCollection.Aggregate(ctx, revenuePipeline)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	var revenueRows []struct {
		Revenue float64 `bson:"revenue"`
	}
	if err := decodeAll(ctx, cursor, &revenueRows); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	if len(revenueRows) > 0 {
		stats.TotalRevenue = revenueRows[0].Revenue
	}

	statusPipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$order_status",
			"count": bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"count": -1}}},
	}
	cursor, err = db.OrdersCollection.Aggregate(ctx, statusPipeline)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	if err := decodeAll(ctx, cursor, &stats.OrdersByStatus); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}

	// Revenue by category joins paid order lines back to the menu so each
	// line is valued at the item's price times the ordered quantity.
	categoryPipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"payment_status": models.PaymentPaid}}},
		bson.D{{Key: "$unwind", Value: "$items"}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "menuitems",
			"localField":   "items.menu_item",
			"foreignField": "_id",
			"as":           "menu_item",
		}}},
		bson.D{{Key: "$unwind", Value: "$menu_item"}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id": "$menu_item.category",
			"revenue": bson.M{"$sum": bson.M{
				"$multiply": bson.A{"$menu_item.price", "$items.quantity"},
			}},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"revenue": -1}}},
	}
	cursor, err = db.OrdersCollection.Aggregate(ctx, categoryPipeline)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	if err := decodeAll(ctx, cursor, &stats.RevenueByCategory); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// GetAdminActivitiesHandler lists the admin audit trail, newest first.
func (db *DB) GetAdminActivitiesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := opContext()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := db.AdminActivityCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch activities")
		return
	}

	activities := make([]models.AdminActivity, 0)
	if err := decodeAll(ctx, cursor, &activities); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to decode activities")
		return
	}

	writeJSON(w, http.StatusOK, activities)
}
