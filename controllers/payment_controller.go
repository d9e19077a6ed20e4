package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Govind-619/Threadly/config"
	"github.com/Govind-619/Threadly/models"
	"github.com/Govind-619/Threadly/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// upiPaymentFor builds the deep link of an order
func upiPaymentFor(order *models.Order) utils.UPIPayment {
	return utils.UPIPayment{
		PayeeVPA:  config.Cfg.UPIID,
		PayeeName: config.Cfg.UPIMerchantName,
		Amount:    order.Total,
		Note:      "Order " + order.Reference,
		Reference: order.Reference,
	}
}

// payableOrder loads an order of the user that still awaits payment
func payableOrder(c *gin.Context, userID uint) (*models.Order, bool) {
	id, ok := paramID(c, "orderId")
	if !ok {
		return nil, false
	}
	order, err := findUserOrder(config.DB, userID, id)
	if err != nil {
		utils.RespondError(c, err)
		return nil, false
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		utils.Conflict(c, "Order is already paid", nil)
		return nil, false
	}
	if order.Status == models.OrderStatusCancelled {
		utils.BadRequest(c, "Order has been cancelled", nil)
		return nil, false
	}
	return order, true
}

// GetUPIPayment returns the UPI deep link for an order and how the client should show it
func GetUPIPayment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	order, ok := payableOrder(c, user.ID)
	if !ok {
		return
	}

	uri, err := upiPaymentFor(order).URI()
	if err != nil {
		utils.LogError("Failed to build UPI link for order %d: %v", order.ID, err)
		utils.InternalServerError(c, "UPI payments are not configured", nil)
		return
	}

	mode := "qr"
	if utils.IsMobileUserAgent(c.GetHeader("User-Agent")) {
		mode = "deep_link"
	}

	utils.Success(c, "UPI payment link generated", gin.H{
		"order_id":     order.ID,
		"reference":    order.Reference,
		"upi_uri":      uri,
		"amount":       utils.FormatMoney(order.Total),
		"payee_vpa":    config.Cfg.UPIID,
		"payee_name":   config.Cfg.UPIMerchantName,
		"display_mode": mode,
		"qr_url":       fmt.Sprintf("/api/payment/upi/%d/qr", order.ID),
	})
}

// GetUPIQRCode renders the order's UPI link as a PNG
func GetUPIQRCode(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	order, ok := payableOrder(c, user.ID)
	if !ok {
		return
	}

	uri, err := upiPaymentFor(order).URI()
	if err != nil {
		utils.LogError("Failed to build UPI link for order %d: %v", order.ID, err)
		utils.InternalServerError(c, "UPI payments are not configured", nil)
		return
	}
	png, err := utils.UPIQRCode(uri, 256)
	if err != nil {
		utils.LogError("Failed to render QR for order %d: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to generate QR code", nil)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// VerifyPaymentRequest represents the payment verification body
type VerifyPaymentRequest struct {
	OrderID       uint   `json:"order_id" binding:"required"`
	TransactionID string `json:"transaction_id" binding:"required"`
}

// VerifyPayment records the submitted transaction id and marks the order paid
func VerifyPayment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid payment verification request: %v", err)
		utils.BadRequest(c, "Order ID and transaction ID are required", err.Error())
		return
	}
	txnID, err := utils.NormalizeTransactionID(req.TransactionID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	order, err := findUserOrder(config.DB, user.ID, req.OrderID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		utils.Conflict(c, "Order is already paid", nil)
		return
	}
	if order.Status != models.OrderStatusPendingPayment {
		utils.BadRequest(c, fmt.Sprintf("Order is %s and cannot be paid", strings.ToLower(order.Status)), nil)
		return
	}

	var used int64
	if err := config.DB.Model(&models.Payment{}).Where("transaction_id = ?", txnID).Count(&used).Error; err != nil {
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}
	if used > 0 {
		utils.LogError("Transaction id %s reused on order %d", txnID, order.ID)
		utils.Conflict(c, "This transaction ID has already been used", nil)
		return
	}

	verifiedBy, err := utils.Payments.Verify(c.Request.Context(), order, txnID)
	if err != nil {
		utils.LogError("Payment verification failed for order %d: %v", order.ID, err)
		utils.RespondError(c, err)
		return
	}

	payment := models.Payment{
		OrderID:       order.ID,
		UserID:        user.ID,
		TransactionID: txnID,
		Amount:        order.Total,
		Method:        "UPI",
		VerifiedBy:    verifiedBy,
		Status:        models.PaymentStatusPaid,
	}
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND payment_status = ? AND status = ?", order.ID, models.PaymentStatusPending, models.OrderStatusPendingPayment).
			Updates(map[string]interface{}{
				"payment_status": models.PaymentStatusPaid,
				"status":         models.OrderStatusPlaced,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// the order moved on while the transaction was being verified
			var current models.Order
			if err := tx.Select("status", "payment_status").First(&current, order.ID).Error; err != nil {
				return err
			}
			if current.PaymentStatus == models.PaymentStatusPaid {
				return utils.ConflictError("Order is already paid", nil)
			}
			return utils.ConflictError(fmt.Sprintf("Order is %s and cannot be paid", strings.ToLower(current.Status)), nil)
		}
		if err := tx.Create(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return utils.ConflictError("This transaction ID has already been used", err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		utils.LogError("Failed to record payment for order %d: %v", order.ID, err)
		utils.RespondError(c, err)
		return
	}

	utils.RecordAudit(c.Request.Context(), utils.AuditEntry{
		Actor:     fmt.Sprintf("user:%d", user.ID),
		Action:    "verify_payment",
		Entity:    "order",
		EntityIDs: []uint{order.ID},
		Data:      map[string]interface{}{"transaction_id": txnID, "verified_by": verifiedBy, "amount": utils.FormatMoney(order.Total)},
		RequestID: requestID(c),
	})

	utils.LogInfo("Payment %s verified (%s) for order %s", txnID, verifiedBy, order.Reference)
	utils.Success(c, "Payment verified successfully", gin.H{
		"order_id":       order.ID,
		"reference":      order.Reference,
		"transaction_id": txnID,
		"verified_by":    verifiedBy,
		"status":         models.OrderStatusPlaced,
		"payment_status": models.PaymentStatusPaid,
	})
}
