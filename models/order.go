package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order status constants
const (
	OrderStatusPendingPayment = "Pending Payment"
	OrderStatusPlaced         = "Placed"
	OrderStatusProcessing     = "Processing"
	OrderStatusShipped        = "Shipped"
	OrderStatusDelivered      = "Delivered"
	OrderStatusCancelled      = "Cancelled"
)

// Payment status constants
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

type Order struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Reference      string          `json:"reference" gorm:"uniqueIndex;size:40"`
	UserID         uint            `json:"user_id" gorm:"index;uniqueIndex:idx_order_user_idem"`
	User           User            `json:"-" gorm:"foreignKey:UserID"`
	IdempotencyKey *string         `json:"-" gorm:"uniqueIndex:idx_order_user_idem;size:100"`
	Subtotal       decimal.Decimal `json:"subtotal" gorm:"type:numeric(12,2)"`
	Shipping       decimal.Decimal `json:"shipping" gorm:"type:numeric(12,2)"`
	Total          decimal.Decimal `json:"total" gorm:"type:numeric(12,2)"`
	PaymentMethod  string          `json:"payment_method"`
	PaymentStatus  string          `json:"payment_status"`
	Status         string          `json:"status" gorm:"index"`

	// Shipping address snapshot, kept even if the saved address is deleted
	ShipName         string `json:"ship_name"`
	ShipPhone        string `json:"ship_phone"`
	ShipAddressLine1 string `json:"ship_address_line_1"`
	ShipAddressLine2 string `json:"ship_address_line_2"`
	ShipCity         string `json:"ship_city"`
	ShipState        string `json:"ship_state"`
	ShipPincode      string `json:"ship_pincode"`
	ShipType         string `json:"ship_type"`

	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	OrderItems []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `json:"order_id" gorm:"index"`
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric(12,2)"`
	Total     decimal.Decimal `json:"total" gorm:"type:numeric(12,2)"`
}
