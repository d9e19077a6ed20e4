package utils

import (
	"fmt"
	"strings"

	"github.com/Govind-619/Threadly/config"
	"github.com/shopspring/decimal"
)

// ParseMoney parses a rupee amount, rejecting negatives and more than two decimals
func ParseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount must not be negative")
	}
	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return decimal.Zero, fmt.Errorf("amount must have at most two decimal places")
	}
	return d.Round(2), nil
}

// FormatMoney renders an amount with exactly two decimals
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// ShippingFee is the flat shipping charge; zero unless SHIPPING_FEE says otherwise
func ShippingFee() decimal.Decimal {
	fee, err := ParseMoney(config.Cfg.ShippingFee)
	if err != nil {
		return decimal.Zero
	}
	return fee
}

// OrderSummary is the derived subtotal/shipping/total triple shown before payment
type OrderSummary struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// NewOrderSummary enforces total = subtotal + shipping, both rounded to paise
func NewOrderSummary(subtotal, shipping decimal.Decimal) OrderSummary {
	subtotal = subtotal.Round(2)
	shipping = shipping.Round(2)
	return OrderSummary{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal.Add(shipping),
	}
}

// JSON renders the summary with fixed two-decimal strings
func (s OrderSummary) JSON() map[string]string {
	return map[string]string{
		"subtotal": FormatMoney(s.Subtotal),
		"shipping": FormatMoney(s.Shipping),
		"total":    FormatMoney(s.Total),
	}
}
