package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment records a submitted transaction id against an order.
type Payment struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	OrderID       uint            `json:"order_id" gorm:"index"`
	UserID        uint            `json:"user_id" gorm:"index"`
	TransactionID string          `json:"transaction_id" gorm:"uniqueIndex;size:64"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:numeric(12,2)"`
	Method        string          `json:"method"`
	VerifiedBy    string          `json:"verified_by"` // self_declared, razorpay
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
