package utils

import (
	"fmt"

	"github.com/Govind-619/Threadly/models"
	"gorm.io/gorm"
)

var orderTransitions = map[string][]string{
	models.OrderStatusPendingPayment: {models.OrderStatusPlaced, models.OrderStatusCancelled},
	models.OrderStatusPlaced:         {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing:     {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:        {models.OrderStatusDelivered},
}

// IsOrderStatus reports whether s is a known order status
func IsOrderStatus(s string) bool {
	switch s {
	case models.OrderStatusPendingPayment, models.OrderStatusPlaced, models.OrderStatusProcessing,
		models.OrderStatusShipped, models.OrderStatusDelivered, models.OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionOrder reports whether an order may move from one status to another
func CanTransitionOrder(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextOrderStatuses lists the statuses reachable from the given one
func NextOrderStatuses(from string) []string {
	next := orderTransitions[from]
	out := make([]string, len(next))
	copy(out, next)
	return out
}

// holdsStock reports whether the order's items are still taken out of stock
func holdsStock(status string) bool {
	switch status {
	case models.OrderStatusPendingPayment, models.OrderStatusPlaced, models.OrderStatusProcessing:
		return true
	}
	return false
}

// RestockOrder puts the order's quantities back into product stock
func RestockOrder(tx *gorm.DB, order *models.Order) error {
	for _, item := range order.OrderItems {
		if err := tx.Unscoped().Model(&models.Product{}).Where("id = ?", item.ProductID).
			Update("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
			return fmt.Errorf("failed to restock product %d: %w", item.ProductID, err)
		}
	}
	return nil
}

// ChangeOrderStatus validates and applies a status change; cancelling restocks the items.
// The order must be loaded with its OrderItems.
func ChangeOrderStatus(db *gorm.DB, order *models.Order, to string) error {
	if !IsOrderStatus(to) {
		return BadRequestError(fmt.Sprintf("Unknown status %q", to), nil)
	}
	if order.Status == to {
		return BadRequestError(fmt.Sprintf("Order is already %s", to), nil)
	}
	if !CanTransitionOrder(order.Status, to) {
		return BadRequestError(fmt.Sprintf("Cannot change order from %s to %s", order.Status, to), nil).
			WithDetails(map[string]interface{}{"allowed": NextOrderStatuses(order.Status)})
	}

	from := order.Status
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).Where("id = ? AND status = ?", order.ID, from).Update("status", to)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ConflictError("Order status changed concurrently, please retry", nil)
		}
		if to == models.OrderStatusCancelled {
			if err := RestockOrder(tx, order); err != nil {
				return err
			}
		}
		order.Status = to
		return nil
	})
}

// DeleteOrder removes an order and its items, releasing stock it still holds
func DeleteOrder(db *gorm.DB, order *models.Order) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if holdsStock(order.Status) {
			if err := RestockOrder(tx, order); err != nil {
				return err
			}
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, order.ID).Error
	})
}
