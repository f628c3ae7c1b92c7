package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Shahinaks/FOODORDERAPP/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrEmptyOrder      = errors.New("order must have at least one item")
	ErrInvalidQuantity = errors.New("item quantity must be at least 1")
	ErrItemUnavailable = errors.New("menu item is not available")
	ErrInvalidCoupon   = errors.New("invalid or expired coupon")
)

// errMenuItemNotFound carries the offending reference so the whole order can
// be failed with a 404 naming the item, never silently skipping it.
type errMenuItemNotFound struct {
	id string
}

func (e errMenuItemNotFound) Error() string {
	return fmt.Sprintf("menu item not found: %s", e.id)
}

type pricedLine struct {
	Item     models.MenuItem
	Quantity int64
}

// orderSubtotal sums price×quantity across the lines.
func orderSubtotal(lines []pricedLine) (float64, error) {
	if len(lines) == 0 {
		return 0, ErrEmptyOrder
	}
	var subtotal float64
	for _, line := range lines {
		if line.Quantity < 1 {
			return 0, ErrInvalidQuantity
		}
		subtotal += line.Item.Price * float64(line.Quantity)
	}
	return subtotal, nil
}

// couponUsable reports whether c may discount an order right now.
func couponUsable(c models.Coupon, now time.Time) bool {
	return c.IsActive && !c.ExpirationDate.Before(now)
}

// applyDiscount reduces subtotal by percent and returns the final total along
// with the amount taken off.
func applyDiscount(subtotal, percent float64) (total, discountAmount float64) {
	discountAmount = subtotal * percent / 100
	return subtotal - discountAmount, discountAmount
}

// priceOrder resolves each line item against the menu, validates quantities
// and the optional coupon, and computes the order total. Any missing menu
// item or unusable coupon fails the entire order.
func (db *DB) priceOrder(ctx context.Context, items []models.OrderLine, couponCode string) (total, discountPercent float64, err error) {
	lines := make([]pricedLine, 0, len(items))
	for _, item := range items {
		var menuItem models.MenuItem
		findErr := db.MenuItemCollection.FindOne(ctx, bson.M{"_id": item.MenuItem}).Decode(&menuItem)
		if findErr == mongo.ErrNoDocuments {
			return 0, 0, errMenuItemNotFound{id: item.MenuItem.Hex()}
		}
		if findErr != nil {
			return 0, 0, findErr
		}
		if !menuItem.IsAvailable {
			return 0, 0, ErrItemUnavailable
		}
		lines = append(lines, pricedLine{Item: menuItem, Quantity: item.Quantity})
	}

	subtotal, err := orderSubtotal(lines)
	if err != nil {
		return 0, 0, err
	}

	if couponCode != "" {
		var coupon models.Coupon
		findErr := db.CouponCollection.FindOne(ctx, bson.M{"code": couponCode, "is_active": true}).Decode(&coupon)
		if findErr == mongo.ErrNoDocuments {
			return 0, 0, ErrInvalidCoupon
		}
		if findErr != nil {
			return 0, 0, findErr
		}
		if !couponUsable(coupon, time.Now()) {
			return 0, 0, ErrInvalidCoupon
		}
		discountPercent = coupon.DiscountPercentage
	}

	total, _ = applyDiscount(subtotal, discountPercent)
	return total, discountPercent, nil
}
