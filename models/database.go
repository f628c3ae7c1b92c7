package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

//User represents a registered user in the marketplace

type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UID          string             `json:"uid" bson:"uid"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"password_hash,omitempty"`
	PhoneNumber  string             `json:"phone_number,omitempty" bson:"phone_number,omitempty"`
	Address      string             `json:"address,omitempty" bson:"address,omitempty"`
	Role         string             `json:"role" bson:"role"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}

type Restaurant struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Address     string             `json:"address,omitempty" bson:"address,omitempty"`
	Phone       string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Email       string             `json:"email,omitempty" bson:"email,omitempty"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

type MenuItem struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Price       float64            `json:"price" bson:"price"`
	Category    string             `json:"category,omitempty" bson:"category,omitempty"`
	IsVeg       bool               `json:"is_veg" bson:"is_veg"`
	IsAvailable bool               `json:"is_available" bson:"is_available"`
	Restaurant  primitive.ObjectID `json:"restaurant" bson:"restaurant"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// Coupon is usable only while IsActive and ExpirationDate >= now.
type Coupon struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Code               string             `json:"code" bson:"code"`
	DiscountPercentage float64            `json:"discount_percentage" bson:"discount_percentage"`
	ExpirationDate     time.Time          `json:"expiration_date" bson:"expiration_date"`
	IsActive           bool               `json:"is_active" bson:"is_active"`
	CreatedAt          time.Time          `json:"created_at" bson:"created_at"`
}

type CartItem struct {
	MenuItem primitive.ObjectID `json:"menu_item" bson:"menu_item"`
	Quantity int64              `json:"quantity" bson:"quantity"`
}

type Cart struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Items     []CartItem         `json:"items" bson:"items"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

type Wishlist struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	User      primitive.ObjectID   `json:"user" bson:"user"`
	Items     []primitive.ObjectID `json:"items" bson:"items"`
	UpdatedAt time.Time            `json:"updated_at" bson:"updated_at"`
}

type OrderLine struct {
	MenuItem primitive.ObjectID `json:"menu_item" bson:"menu_item"`
	Quantity int64              `json:"quantity" bson:"quantity"`
}

// Order line items and TotalAmount are fixed at checkout; later menu price
// changes never trigger a recompute. Only the status fields mutate afterwards.
type Order struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	User               primitive.ObjectID `json:"user" bson:"user"`
	Items              []OrderLine        `json:"items" bson:"items"`
	TotalAmount        float64            `json:"total_amount" bson:"total_amount"`
	Discount           float64            `json:"discount" bson:"discount"`
	Coupon             string             `json:"coupon,omitempty" bson:"coupon,omitempty"`
	PaymentStatus      PaymentStatus      `json:"payment_status" bson:"payment_status"`
	OrderStatus        OrderStatus        `json:"order_status" bson:"order_status"`
	DeliveryAddress    string             `json:"delivery_address" bson:"delivery_address"`
	Restaurant         primitive.ObjectID `json:"restaurant" bson:"restaurant"`
	PaymentMethod      string             `json:"payment_method" bson:"payment_method"`
	PaymentMethodLabel string             `json:"payment_method_label,omitempty" bson:"payment_method_label,omitempty"`
	Message            string             `json:"message,omitempty" bson:"message,omitempty"`
	CreatedAt          time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at" bson:"updated_at"`
}

type Payment struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	User          primitive.ObjectID `json:"user" bson:"user"`
	Order         primitive.ObjectID `json:"order" bson:"order"`
	Amount        float64            `json:"amount" bson:"amount"`
	Method        string             `json:"method" bson:"method"`
	Status        string             `json:"status" bson:"status"`
	TransactionID string             `json:"transaction_id,omitempty" bson:"transaction_id,omitempty"`
	PaidAt        *time.Time         `json:"paid_at,omitempty" bson:"paid_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
}

type Review struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	MenuItem  primitive.ObjectID `json:"menu_item" bson:"menu_item"`
	Rating    int                `json:"rating" bson:"rating"`
	Comment   string             `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

type Notification struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title     string             `json:"title" bson:"title"`
	Message   string             `json:"message" bson:"message"`
	Type      string             `json:"type" bson:"type"`
	CreatedBy primitive.ObjectID `json:"created_by" bson:"created_by"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

type Delivery struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Order       primitive.ObjectID `json:"order" bson:"order"`
	Courier     string             `json:"courier" bson:"courier"`
	Status      string             `json:"status" bson:"status"`
	DeliveredAt *time.Time         `json:"delivered_at,omitempty" bson:"delivered_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

type AdminActivity struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Admin       primitive.ObjectID `json:"admin" bson:"admin"`
	Action      string             `json:"action" bson:"action"`
	Description string             `json:"description" bson:"description"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}
