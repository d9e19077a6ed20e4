package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Govind-619/Threadly/config"
	"github.com/Govind-619/Threadly/models"
	"github.com/Govind-619/Threadly/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func adminOrderResponse(order models.Order) gin.H {
	resp := orderResponse(order)
	resp["customer"] = gin.H{"id": order.User.ID, "name": order.User.Name, "email": order.User.Email}
	resp["next_statuses"] = utils.NextOrderStatuses(order.Status)
	return resp
}

// adminOrderQuery applies the status and search filters of the admin order list
func adminOrderQuery(c *gin.Context) (*gorm.DB, error) {
	query := config.DB.Model(&models.Order{})
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		if !utils.IsOrderStatus(status) {
			return nil, utils.BadRequestError("Invalid status filter", nil)
		}
		query = query.Where("status = ?", status)
	}
	if ref := strings.TrimSpace(c.Query("q")); ref != "" {
		query = query.Where("reference LIKE ?", "%"+strings.ToUpper(ref)+"%")
	}
	return query, nil
}

// AdminListOrders lists orders for the back office
func AdminListOrders(c *gin.Context) {
	query, err := adminOrderQuery(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	p := utils.NewPagination(c)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count orders: %v", err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}
	p.SetTotal(total)

	var orders []models.Order
	if err := query.Preload("User").Preload("OrderItems").Order("created_at DESC, id DESC").
		Offset(p.Offset).Limit(p.Limit).Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch orders: %v", err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}

	list := make([]gin.H, 0, len(orders))
	for _, order := range orders {
		list = append(list, adminOrderResponse(order))
	}
	utils.SuccessWithPagination(c, "Orders retrieved successfully", gin.H{"orders": list}, p)
}

func loadAdminOrder(db *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	if err := db.Preload("User").Preload("OrderItems").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError("Order not found", err)
		}
		return nil, err
	}
	return &order, nil
}

// AdminGetOrder returns one order with its payments
func AdminGetOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := loadAdminOrder(config.DB, id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	var payments []models.Payment
	if err := config.DB.Where("order_id = ?", order.ID).Order("id ASC").Find(&payments).Error; err != nil {
		utils.LogError("Failed to load payments of order %d: %v", order.ID, err)
	}

	resp := adminOrderResponse(*order)
	resp["payments"] = payments
	utils.Success(c, "Order retrieved successfully", gin.H{"order": resp})
}

// OrderStatusRequest represents a status change body
type OrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AdminUpdateOrderStatus moves one order along its lifecycle
func AdminUpdateOrderStatus(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Status is required", err.Error())
		return
	}

	order, err := loadAdminOrder(config.DB, id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	from := order.Status
	if err := utils.ChangeOrderStatus(config.DB, order, req.Status); err != nil {
		utils.LogError("Status change of order %d to %s failed: %v", id, req.Status, err)
		utils.RespondError(c, err)
		return
	}

	utils.RecordAudit(c.Request.Context(), utils.AuditEntry{
		Actor:     adminActor(admin),
		Action:    "update_status",
		Entity:    "order",
		EntityIDs: []uint{order.ID},
		Data:      map[string]interface{}{"from": from, "to": order.Status},
		RequestID: requestID(c),
	})
	utils.LogInfo("Order %s moved from %s to %s by %s", order.Reference, from, order.Status, admin.Email)
	utils.Success(c, "Order status updated", gin.H{"order": adminOrderResponse(*order)})
}

// BulkOrderStatusRequest sets one status on several orders
type BulkOrderStatusRequest struct {
	IDs    []uint `json:"ids" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// AdminBulkUpdateOrderStatus applies a status to several orders, each checked on its own
func AdminBulkUpdateOrderStatus(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}
	var req BulkOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}
	if !utils.IsOrderStatus(req.Status) {
		utils.BadRequest(c, fmt.Sprintf("Unknown status %q", req.Status), nil)
		return
	}
	if !bindBulkIDs(c, &req.IDs) {
		return
	}

	results := make([]BulkResult, 0, len(req.IDs))
	for _, id := range req.IDs {
		order, err := loadAdminOrder(config.DB, id)
		if err == nil {
			err = utils.ChangeOrderStatus(config.DB, order, req.Status)
		}
		if err != nil {
			message := "Failed to update order"
			if appErr := utils.GetAppError(err); appErr != nil {
				message = appErr.Message
			} else {
				utils.LogError("Bulk status change failed for order %d: %v", id, err)
			}
			results = append(results, BulkResult{ID: id, Message: message})
			continue
		}
		results = append(results, BulkResult{ID: id, Success: true})
	}

	utils.RecordAudit(c.Request.Context(), utils.AuditEntry{
		Actor:     adminActor(admin),
		Action:    "bulk_update_status",
		Entity:    "order",
		EntityIDs: succeededIDs(results),
		Data:      map[string]interface{}{"to": req.Status},
		RequestID: requestID(c),
	})
	utils.LogInfo("Bulk order status %s by %s: %d requested", req.Status, admin.Email, len(req.IDs))
	utils.Success(c, "Bulk status update completed", bulkSummary(results))
}

// AdminBulkDeleteOrders deletes several orders, restocking the ones still holding stock
func AdminBulkDeleteOrders(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}
	var req BulkIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}
	if !bindBulkIDs(c, &req.IDs) {
		return
	}

	results := make([]BulkResult, 0, len(req.IDs))
	for _, id := range req.IDs {
		order, err := loadAdminOrder(config.DB, id)
		if err == nil {
			err = utils.DeleteOrder(config.DB, order)
		}
		if err != nil {
			message := "Failed to delete order"
			if utils.IsNotFoundError(err) {
				message = "Order not found"
			} else {
				utils.LogError("Bulk delete failed for order %d: %v", id, err)
			}
			results = append(results, BulkResult{ID: id, Message: message})
			continue
		}
		results = append(results, BulkResult{ID: id, Success: true})
	}

	utils.RecordAudit(c.Request.Context(), utils.AuditEntry{
		Actor:     adminActor(admin),
		Action:    "bulk_delete",
		Entity:    "order",
		EntityIDs: succeededIDs(results),
		RequestID: requestID(c),
	})
	utils.LogInfo("Bulk order delete by %s: %d requested", admin.Email, len(req.IDs))
	utils.Success(c, "Bulk delete completed", bulkSummary(results))
}

// AdminExportOrders downloads the filtered orders as an Excel workbook
func AdminExportOrders(c *gin.Context) {
	query, err := adminOrderQuery(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	var orders []models.Order
	if err := query.Preload("User").Preload("OrderItems").Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		utils.LogError("Failed to load orders for export: %v", err)
		utils.InternalServerError(c, "Failed to export orders", nil)
		return
	}

	var buf bytes.Buffer
	if err := utils.WriteOrdersXLSX(&buf, orders); err != nil {
		utils.LogError("Failed to write orders workbook: %v", err)
		utils.InternalServerError(c, "Failed to export orders", nil)
		return
	}

	filename := fmt.Sprintf("orders_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
