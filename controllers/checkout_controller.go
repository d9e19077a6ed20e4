package controllers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Govind-619/Threadly/config"
	"github.com/Govind-619/Threadly/models"
	"github.com/Govind-619/Threadly/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// IdempotencyHeader lets a client retry order placement without creating a second order
const IdempotencyHeader = "Idempotency-Key"

// resolveCheckoutAddress picks the explicit address id or falls back to the selected one
func resolveCheckoutAddress(db *gorm.DB, user models.User, addressID uint) (*models.Address, error) {
	if addressID != 0 {
		return findUserAddress(db, user.ID, addressID)
	}
	address, err := selectedAddress(db, user)
	if utils.IsNotFoundError(err) {
		return nil, utils.BadRequestError("Please select a delivery address", err)
	}
	return address, err
}

// checkoutCart returns the user's cart view, rejecting empty or unavailable carts
func checkoutCart(db *gorm.DB, userID uint) (*models.Cart, utils.CartView, error) {
	cart, err := utils.LoadCart(db, utils.CartOwnerForUser(userID))
	if err != nil {
		return nil, utils.CartView{}, err
	}
	view := utils.BuildCartView(cart)
	if view.IsEmpty {
		return nil, view, utils.BadRequestError("Cart is empty", nil)
	}
	if !view.CanCheckout {
		return nil, view, utils.BadRequestError("Some items in your cart are unavailable", nil).
			WithDetails(map[string]interface{}{"cart": view})
	}
	return cart, view, nil
}

// GetOrderSummary returns the selected address and the order data carried into the payment step
func GetOrderSummary(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var addressID uint
	if raw := c.Query("address_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.BadRequest(c, "Invalid address_id", nil)
			return
		}
		addressID = uint(id)
	}

	address, err := resolveCheckoutAddress(config.DB, user, addressID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	_, view, err := checkoutCart(config.DB, user.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, "Order summary", gin.H{
		"selected_address": address,
		"order_data": gin.H{
			"items":      view.Items,
			"item_count": view.ItemCount,
			"subtotal":   view.Subtotal,
			"shipping":   view.Shipping,
			"total":      view.Total,
		},
	})
}

// PlaceOrderRequest represents the order placement body
type PlaceOrderRequest struct {
	AddressID uint `json:"address_id"`
}

func newOrderReference() string {
	return fmt.Sprintf("TH%s%s", time.Now().Format("060102"), strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8]))
}

// decrementStock takes quantity units only if that many are left
func decrementStock(tx *gorm.DB, productID uint, quantity int) (bool, error) {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND is_active = ? AND stock >= ?", productID, true, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	return res.RowsAffected == 1, res.Error
}

// replayOrder answers with the order already placed under key, if any.
// It reports whether a response was written.
func replayOrder(c *gin.Context, userID uint, key string) bool {
	var existing models.Order
	err := config.DB.Preload("OrderItems").Where("user_id = ? AND idempotency_key = ?", userID, key).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	if err != nil {
		utils.LogError("Idempotency lookup failed for user %d: %v", userID, err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return true
	}
	utils.LogInfo("Replaying order %s for idempotency key %s", existing.Reference, key)
	utils.Success(c, "Order already placed", gin.H{"order": orderResponse(existing)})
	return true
}

// createOrderFromCart turns the cart into an order inside one transaction
func createOrderFromCart(user models.User, address *models.Address, idempotencyKey string) (*models.Order, error) {
	var key *string
	if idempotencyKey != "" {
		key = &idempotencyKey
	}
	var order models.Order
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		cart, view, err := checkoutCart(tx, user.ID)
		if err != nil {
			return err
		}

		order = models.Order{
			Reference:        newOrderReference(),
			UserID:           user.ID,
			IdempotencyKey:   key,
			Subtotal:         view.Summary.Subtotal,
			Shipping:         view.Summary.Shipping,
			Total:            view.Summary.Total,
			PaymentMethod:    "UPI",
			PaymentStatus:    models.PaymentStatusPending,
			Status:           models.OrderStatusPendingPayment,
			ShipName:         address.Name,
			ShipPhone:        address.Phone,
			ShipAddressLine1: address.AddressLine1,
			ShipAddressLine2: address.AddressLine2,
			ShipCity:         address.City,
			ShipState:        address.State,
			ShipPincode:      address.Pincode,
			ShipType:         address.Type,
		}

		for _, item := range cart.Items {
			ok, err := decrementStock(tx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return utils.ConflictError(fmt.Sprintf("Not enough stock for %s", item.Product.Name), nil)
			}
			order.OrderItems = append(order.OrderItems, models.OrderItem{
				ProductID: item.ProductID,
				Name:      item.Product.Name,
				Size:      item.Size,
				Quantity:  item.Quantity,
				Price:     item.Product.Price,
				Total:     item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
			})
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		return tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// PlaceOrder creates a pending-payment order from the user's cart
func PlaceOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req PlaceOrderRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequest(c, "Invalid request", err.Error())
			return
		}
	}

	key := strings.TrimSpace(c.GetHeader(IdempotencyHeader))
	if len(key) > 100 {
		utils.BadRequest(c, "Idempotency key too long", nil)
		return
	}
	if key != "" && replayOrder(c, user.ID, key) {
		return
	}

	address, err := resolveCheckoutAddress(config.DB, user, req.AddressID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	order, err := createOrderFromCart(user, address, key)
	if errors.Is(err, gorm.ErrDuplicatedKey) && key != "" && replayOrder(c, user.ID, key) {
		return
	}
	if err != nil {
		utils.LogError("Failed to place order for user %d: %v", user.ID, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Order %s placed by user %d for %s", order.Reference, user.ID, utils.FormatMoney(order.Total))
	utils.Created(c, "Order placed successfully", gin.H{
		"order":       orderResponse(*order),
		"payment_url": fmt.Sprintf("/api/payment/upi/%d", order.ID),
	})
}
