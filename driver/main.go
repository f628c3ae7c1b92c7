package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Shahinaks/FOODORDERAPP/handlers"
	"github.com/Shahinaks/FOODORDERAPP/middleware"
	"github.com/Shahinaks/FOODORDERAPP/middleware/logkafka"
	"github.com/Shahinaks/FOODORDERAPP/notify"
	"github.com/Shahinaks/FOODORDERAPP/telem"
	"github.com/Shahinaks/FOODORDERAPP/utils"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

const dbName = "foodorderapp"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	client, err := utils.InitMongoClient()
	if err != nil {
		log.Fatalf("mongo: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.Printf("mongo disconnect: %v", err)
		}
	}()

	db := &handlers.DB{
		UserCollection:          utils.GetCollection(client, dbName, "users"),
		RestaurantCollection:    utils.GetCollection(client, dbName, "restaurants"),
		MenuItemCollection:      utils.GetCollection(client, dbName, "menuitems"),
		CouponCollection:        utils.GetCollection(client, dbName, "coupons"),
		CartCollection:          utils.GetCollection(client, dbName, "carts"),
		WishlistCollection:      utils.GetCollection(client, dbName, "wishlists"),
		OrdersCollection:        utils.GetCollection(client, dbName, "orders"),
		PaymentCollection:       utils.GetCollection(client, dbName, "payments"),
		ReviewCollection:        utils.GetCollection(client, dbName, "reviews"),
		NotificationCollection:  utils.GetCollection(client, dbName, "notifications"),
		DeliveryCollection:      utils.GetCollection(client, dbName, "deliveries"),
		AdminActivityCollection: utils.GetCollection(client, dbName, "adminactivities"),
		RefreshTokenCollection:  utils.GetCollection(client, dbName, "refreshtokens"),
		Mailer:                  utils.MailerFromEnv(),
	}
	auth := &middleware.Auth{Users: db.UserCollection}

	brokers := strings.Split(envOr("KAFKA_BROKERS", "localhost:9092"), ",")
	logkafka.InitKafkaWriter(brokers, envOr("KAFKA_LOG_TOPIC", "order-api-logs"))
	defer logkafka.CloseKafkaWriter()
	notify.InitWriter(brokers, envOr("KAFKA_NOTIFY_TOPIC", "order-api-notifications"))
	defer notify.CloseWriter()

	shutdownMetrics, err := telem.InitMetrics("order-api")
	if err != nil {
		log.Fatalf("metrics: %v", err)
	}
	shutdownTracing, err := telem.InitTracing("order-api")
	if err != nil {
		log.Fatalf("tracing: %v", err)
	}
	handlers.Init()

	pusherCtx, stopPusher := context.WithCancel(context.Background())
	go utils.RunLogPusher(pusherCtx)

	router := mux.NewRouter()
	router.Use(logkafka.LoggingMiddleware)
	router.Use(middleware.ValidateJSONBody)

	// Public routes: auth entry points plus read-only browsing of the menu.
	public := router.PathPrefix("/api").Subrouter()
	public.HandleFunc("/auth/register", db.RegisterUserHandler).Methods("POST")
	public.HandleFunc("/auth/login", db.LoginHandler).Methods("POST")
	public.HandleFunc("/auth/refresh", db.RefreshTokenHandler).Methods("POST")
	public.HandleFunc("/menu", db.GetMenuItemsHandler).Methods("GET")
	public.HandleFunc("/menu/{id}", db.GetMenuItemByIDHandler).Methods("GET")
	public.HandleFunc("/restaurants", db.GetAllRestaurantsHandler).Methods("GET")
	public.HandleFunc("/restaurants/{id}", db.GetRestaurantByIDHandler).Methods("GET")
	public.HandleFunc("/restaurants/{restaurantId}/menu", db.GetMenuItemsByRestaurantHandler).Methods("GET")
	public.HandleFunc("/reviews/menu-item/{menuItemId}", db.GetReviewsByMenuItemHandler).Methods("GET")

	// Authenticated routes.
	user := router.PathPrefix("/api").Subrouter()
	user.Use(auth.Authenticate)
	user.HandleFunc("/auth/logout", db.LogoutHandler).Methods("POST")
	user.HandleFunc("/users/me", db.GetCurrentUserHandler).Methods("GET")

	user.HandleFunc("/cart", db.GetCartHandler).Methods("GET")
	user.HandleFunc("/cart/add", db.AddToCartHandler).Methods("POST")
	user.HandleFunc("/cart/update", db.UpdateCartItemHandler).Methods("PUT")
	user.HandleFunc("/cart/remove", db.RemoveFromCartHandler).Methods("DELETE")
	user.HandleFunc("/cart/clear", db.ClearCartHandler).Methods("DELETE")

	user.HandleFunc("/wishlist", db.AddToWishlistHandler).Methods("POST")
	user.HandleFunc("/wishlist", db.GetWishlistHandler).Methods("GET")
	user.HandleFunc("/wishlist/clear", db.ClearWishlistHandler).Methods("DELETE")
	user.HandleFunc("/wishlist/{menuItemId}", db.RemoveFromWishlistHandler).Methods("DELETE")

	user.HandleFunc("/coupons/available", db.GetAvailableCouponsHandler).Methods("GET")
	user.HandleFunc("/coupons/apply", db.ApplyCouponHandler).Methods("POST")

	user.HandleFunc("/orders", db.PlaceOrderHandler).Methods("POST")
	user.HandleFunc("/orders/my-orders", db.GetUserOrdersHandler).Methods("GET")
	user.HandleFunc("/orders/{orderId}", db.GetOrderByIDHandler).Methods("GET")
	user.HandleFunc("/orders/{orderId}/cancel", db.CancelOrderHandler).Methods("PUT")
	user.HandleFunc("/orders/{orderId}/payment-status", db.GetOrderPaymentStatusHandler).Methods("GET")

	user.HandleFunc("/payments/intent", db.CreatePaymentIntentHandler).Methods("POST")
	user.HandleFunc("/payments", db.StorePaymentHandler).Methods("POST")

	user.HandleFunc("/reviews", db.CreateReviewHandler).Methods("POST")
	user.HandleFunc("/notifications", db.GetNotificationsHandler).Methods("GET")

	// Admin console.
	admin := router.PathPrefix("/api").Subrouter()
	admin.Use(auth.Authenticate, middleware.RequireAdmin)
	admin.HandleFunc("/orders", db.GetAllOrdersHandler).Methods("GET")
	admin.HandleFunc("/orders/filter/status", db.FilterOrdersByStatusHandler).Methods("GET")
	admin.HandleFunc("/orders/{orderId}/status", db.UpdateOrderStatusHandler).Methods("PUT")

	admin.HandleFunc("/coupons", db.CreateCouponHandler).Methods("POST")
	admin.HandleFunc("/coupons", db.GetAllCouponsHandler).Methods("GET")
	admin.HandleFunc("/coupons/{id}", db.DeleteCouponHandler).Methods("DELETE")

	admin.HandleFunc("/menu", db.CreateMenuItemHandler).Methods("POST")
	admin.HandleFunc("/menu/{id}", db.UpdateMenuItemHandler).Methods("PUT")
	admin.HandleFunc("/menu/{id}", db.DeleteMenuItemHandler).Methods("DELETE")

	admin.HandleFunc("/restaurants", db.CreateRestaurantHandler).Methods("POST")
	admin.HandleFunc("/restaurants/{id}", db.UpdateRestaurantHandler).Methods("PUT")
	admin.HandleFunc("/restaurants/{id}", db.DeleteRestaurantHandler).Methods("DELETE")

	admin.HandleFunc("/cart/all", db.GetAllCartsHandler).Methods("GET")
	admin.HandleFunc("/payments/all", db.GetAllPaymentsHandler).Methods("GET")

	admin.HandleFunc("/reviews", db.GetAllReviewsHandler).Methods("GET")
	admin.HandleFunc("/reviews/{id}", db.DeleteReviewHandler).Methods("DELETE")

	admin.HandleFunc("/notifications", db.CreateNotificationHandler).Methods("POST")
	admin.HandleFunc("/notifications/{id}", db.DeleteNotificationHandler).Methods("DELETE")

	admin.HandleFunc("/deliveries", db.CreateDeliveryHandler).Methods("POST")
	admin.HandleFunc("/deliveries", db.GetAllDeliveriesHandler).Methods("GET")
	admin.HandleFunc("/deliveries/{id}", db.GetDeliveryByIDHandler).Methods("GET")
	admin.HandleFunc("/deliveries/{id}/status", db.UpdateDeliveryStatusHandler).Methods("PUT")
	admin.HandleFunc("/deliveries/{id}", db.DeleteDeliveryHandler).Methods("DELETE")

	admin.HandleFunc("/admin/stats", db.GetAdminStatsHandler).Methods("GET")
	admin.HandleFunc("/admin-activity", db.GetAdminActivitiesHandler).Methods("GET")

	srv := &http.Server{
		Addr:         envOr("LISTEN_ADDR", ":8080"),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("order API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	stopPusher()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if err := shutdownMetrics(ctx); err != nil {
		log.Printf("metrics shutdown: %v", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		log.Printf("tracing shutdown: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
