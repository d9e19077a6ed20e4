package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Govind-619/Threadly/config"
	"github.com/Govind-619/Threadly/models"
	"github.com/Govind-619/Threadly/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func orderItemsResponse(items []models.OrderItem) []gin.H {
	out := make([]gin.H, 0, len(items))
	for _, item := range items {
		out = append(out, gin.H{
			"product_id": item.ProductID,
			"name":       item.Name,
			"size":       item.Size,
			"quantity":   item.Quantity,
			"price":      utils.FormatMoney(item.Price),
			"item_total": utils.FormatMoney(item.Total),
		})
	}
	return out
}

// orderResponse renders an order with two-decimal money strings
func orderResponse(order models.Order) gin.H {
	return gin.H{
		"id":             order.ID,
		"reference":      order.Reference,
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
		"payment_method": order.PaymentMethod,
		"subtotal":       utils.FormatMoney(order.Subtotal),
		"shipping":       utils.FormatMoney(order.Shipping),
		"total":          utils.FormatMoney(order.Total),
		"shipping_address": gin.H{
			"name":           order.ShipName,
			"phone":          order.ShipPhone,
			"address_line_1": order.ShipAddressLine1,
			"address_line_2": order.ShipAddressLine2,
			"city":           order.ShipCity,
			"state":          order.ShipState,
			"pincode":        order.ShipPincode,
			"type":           order.ShipType,
		},
		"items":      orderItemsResponse(order.OrderItems),
		"created_at": order.CreatedAt,
		"updated_at": order.UpdatedAt,
	}
}

// findUserOrder loads an order owned by the user with its items
func findUserOrder(db *gorm.DB, userID, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := db.Preload("OrderItems").Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError("Order not found", err)
		}
		return nil, err
	}
	return &order, nil
}

// GetOrders lists the user's orders, newest first
func GetOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	p := utils.NewPagination(c)
	query := config.DB.Model(&models.Order{}).Where("user_id = ?", user.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count orders for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}
	p.SetTotal(total)

	var orders []models.Order
	if err := query.Preload("OrderItems").Order("created_at DESC, id DESC").Offset(p.Offset).Limit(p.Limit).Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch orders for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}

	list := make([]gin.H, 0, len(orders))
	for _, order := range orders {
		list = append(list, orderResponse(order))
	}
	utils.SuccessWithPagination(c, "Orders retrieved successfully", gin.H{"orders": list}, p)
}

// GetOrderDetails returns one of the user's orders
func GetOrderDetails(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := findUserOrder(config.DB, user.ID, id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Order retrieved successfully", gin.H{"order": orderResponse(*order)})
}

// DownloadInvoice streams the order invoice as a PDF
func DownloadInvoice(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := findUserOrder(config.DB, user.ID, id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	pdf, err := utils.GenerateInvoicePDF(order)
	if err != nil {
		utils.LogError("Failed to generate invoice for order %d: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to generate invoice", nil)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice_%s.pdf", order.Reference))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
