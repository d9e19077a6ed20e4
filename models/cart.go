package models

import (
	"time"
)

// Cart is keyed by owner: "user:<id>" for signed-in users, "guest:<session>" for guests.
type Cart struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	OwnerKey  string     `json:"-" gorm:"uniqueIndex;size:80;not null"`
	Items     []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CartID    uint      `json:"cart_id" gorm:"index"`
	ProductID uint      `json:"product_id" gorm:"index"`
	Product   Product   `json:"-" gorm:"foreignKey:ProductID"`
	Size      string    `json:"size"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}
