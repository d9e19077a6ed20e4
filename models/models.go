package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a storefront customer
type User struct {
	gorm.Model
	Name              string    `json:"name"`
	Email             string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone             string    `json:"phone"`
	Password          string    `json:"-"`
	IsVerified        bool      `json:"is_verified" gorm:"default:false"`
	IsBlocked         bool      `json:"is_blocked" gorm:"default:false"`
	SelectedAddressID *uint     `json:"selected_address_id"`
	LastLoginAt       time.Time `json:"last_login_at"`

	Addresses []Address `json:"addresses,omitempty" gorm:"foreignKey:UserID"`
}

// Admin represents a back-office operator
type Admin struct {
	gorm.Model
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	LastLogin time.Time `json:"last_login"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
}
