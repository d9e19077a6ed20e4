package models

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a sellable clothing item
type Product struct {
	gorm.Model
	Name        string          `json:"name" gorm:"index;not null"`
	Description string          `json:"description"`
	Category    string          `json:"category" gorm:"index"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	MRP         decimal.Decimal `json:"mrp" gorm:"type:numeric(12,2)"`
	Sizes       string          `json:"-"`
	Colors      string          `json:"-"`
	Stock       int             `json:"stock" gorm:"default:0"`
	ImageURL    string          `json:"image_url"`
	IsActive    bool            `json:"is_active" gorm:"default:true"`
}

// SizeList returns the sizes stored as a comma separated column.
func (p Product) SizeList() []string {
	return splitList(p.Sizes)
}

// ColorList returns the colours stored as a comma separated column.
func (p Product) ColorList() []string {
	return splitList(p.Colors)
}

// JoinList normalises values into the comma separated storage form.
func JoinList(values []string) string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool)
	for _, v := range values {
		v = strings.ToUpper(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return strings.Join(out, ",")
}

func splitList(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
