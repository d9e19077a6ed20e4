package utils

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
)

// UPIPayment holds the fields of a upi://pay deep link
type UPIPayment struct {
	PayeeVPA  string
	PayeeName string
	Amount    decimal.Decimal
	Note      string
	Reference string
}

// URI builds the deep link. Parameter order is fixed so the same order always yields the same link.
func (p UPIPayment) URI() (string, error) {
	if !strings.Contains(p.PayeeVPA, "@") {
		return "", fmt.Errorf("invalid UPI id %q", p.PayeeVPA)
	}
	if !p.Amount.IsPositive() {
		return "", fmt.Errorf("amount must be positive")
	}

	params := [][2]string{
		{"pa", p.PayeeVPA},
		{"pn", p.PayeeName},
		{"am", FormatMoney(p.Amount)},
		{"cu", "INR"},
	}
	if p.Note != "" {
		params = append(params, [2]string{"tn", p.Note})
	}
	if p.Reference != "" {
		params = append(params, [2]string{"tr", p.Reference})
	}

	parts := make([]string, 0, len(params))
	for _, kv := range params {
		parts = append(parts, kv[0]+"="+upiEscape(kv[1]))
	}
	return "upi://pay?" + strings.Join(parts, "&"), nil
}

// UPI apps expect %20 rather than '+' for spaces and a literal '@' in the VPA
func upiEscape(s string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
	return strings.ReplaceAll(escaped, "%40", "@")
}

// UPIQRCode renders the deep link as a PNG
func UPIQRCode(uri string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(uri, qrcode.Medium, size)
}

var mobileMarkers = []string{"android", "iphone", "ipad", "ipod", "mobile", "windows phone"}

// IsMobileUserAgent decides between opening the deep link and showing a QR code
func IsMobileUserAgent(ua string) bool {
	ua = strings.ToLower(ua)
	for _, marker := range mobileMarkers {
		if strings.Contains(ua, marker) {
			return true
		}
	}
	return false
}
