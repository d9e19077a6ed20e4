package models

import (
	"time"

	"gorm.io/gorm"
)

// BlacklistedToken holds logged-out tokens until they would have expired anyway.
type BlacklistedToken struct {
	gorm.Model
	Token     string    `gorm:"uniqueIndex;size:512;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
}
