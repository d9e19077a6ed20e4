package controllers

import (
	"github.com/Govind-619/Threadly/config"
	"github.com/Govind-619/Threadly/models"
	"github.com/Govind-619/Threadly/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// lowStockThreshold marks products that need restocking on the dashboard
const lowStockThreshold = 5

// DashboardOverview is the admin landing page data
type DashboardOverview struct {
	TotalOrders    int64            `json:"total_orders"`
	OrdersByStatus map[string]int64 `json:"orders_by_status"`
	PaidRevenue    string           `json:"paid_revenue"`
	TotalCustomers int64            `json:"total_customers"`
	ActiveProducts int64            `json:"active_products"`
	LowStock       []ProductItem    `json:"low_stock"`
	RecentOrders   []gin.H          `json:"recent_orders"`
}

// GetDashboardOverview returns order, revenue and stock figures for the back office
func GetDashboardOverview(c *gin.Context) {
	overview := DashboardOverview{OrdersByStatus: map[string]int64{}}
	db := config.DB

	var rows []struct {
		Status string
		Count  int64
	}
	if err := db.Model(&models.Order{}).Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		utils.LogError("Failed to count orders by status: %v", err)
		utils.InternalServerError(c, "Failed to load dashboard", nil)
		return
	}
	for _, row := range rows {
		overview.OrdersByStatus[row.Status] = row.Count
		overview.TotalOrders += row.Count
	}

	revenue := decimal.Zero
	if err := db.Model(&models.Order{}).Where("payment_status = ?", models.PaymentStatusPaid).
		Select("COALESCE(SUM(total), 0)").Row().Scan(&revenue); err != nil {
		utils.LogError("Failed to sum revenue: %v", err)
	}
	overview.PaidRevenue = utils.FormatMoney(revenue)

	db.Model(&models.User{}).Count(&overview.TotalCustomers)
	db.Model(&models.Product{}).Where("is_active = ?", true).Count(&overview.ActiveProducts)

	var lowStock []models.Product
	if err := db.Where("is_active = ? AND stock <= ?", true, lowStockThreshold).Order("stock ASC, id ASC").Limit(10).Find(&lowStock).Error; err != nil {
		utils.LogError("Failed to load low stock products: %v", err)
	}
	overview.LowStock = make([]ProductItem, 0, len(lowStock))
	for _, p := range lowStock {
		overview.LowStock = append(overview.LowStock, productItem(p))
	}

	var recent []models.Order
	if err := db.Preload("User").Preload("OrderItems").Order("created_at DESC, id DESC").Limit(5).Find(&recent).Error; err != nil {
		utils.LogError("Failed to load recent orders: %v", err)
	}
	overview.RecentOrders = make([]gin.H, 0, len(recent))
	for _, order := range recent {
		overview.RecentOrders = append(overview.RecentOrders, adminOrderResponse(order))
	}

	utils.Success(c, "Dashboard overview retrieved successfully", overview)
}
