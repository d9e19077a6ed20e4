package utils

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Govind-619/Threadly/models"
	razorpay "github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"
)

// Verification sources
const (
	VerifiedBySelf     = "self_declared"
	VerifiedByRazorpay = "razorpay"
)

var transactionIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{6,64}$`)

// NormalizeTransactionID trims the id and checks its shape
func NormalizeTransactionID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if !transactionIDRegex.MatchString(id) {
		return "", BadRequestError("Transaction ID must be 6-64 letters, digits, '-' or '_'", nil)
	}
	return id, nil
}

// PaymentVerifier confirms a user-submitted transaction id against an order
type PaymentVerifier interface {
	Verify(ctx context.Context, order *models.Order, transactionID string) (string, error)
}

// Payments is the verifier used by the payment handler
var Payments PaymentVerifier = ManualVerifier{}

// ManualVerifier accepts the user's word; nothing is checked with a processor
type ManualVerifier struct{}

func (ManualVerifier) Verify(_ context.Context, _ *models.Order, _ string) (string, error) {
	return VerifiedBySelf, nil
}

// RazorpayVerifier fetches the payment from Razorpay and requires a captured payment of the exact amount
type RazorpayVerifier struct {
	client *razorpay.Client
}

func NewRazorpayVerifier(key, secret string) *RazorpayVerifier {
	return &RazorpayVerifier{client: razorpay.NewClient(key, secret)}
}

// Verify ignores ctx: razorpay-go has no context-aware API, so the fetch is bounded by the client timeout.
func (v *RazorpayVerifier) Verify(_ context.Context, order *models.Order, transactionID string) (string, error) {
	payment, err := v.client.Payment.Fetch(transactionID, nil, nil)
	if err != nil {
		return "", BadRequestError("Payment could not be verified", err)
	}

	status, _ := payment["status"].(string)
	if status != "captured" {
		return "", BadRequestError(fmt.Sprintf("Payment is %s, not captured", status), nil)
	}

	amount, ok := payment["amount"].(float64)
	if !ok {
		return "", BadRequestError("Payment amount missing", nil)
	}
	expected := order.Total.Mul(decimal.NewFromInt(100)).IntPart()
	if int64(amount) != expected {
		return "", BadRequestError("Payment amount does not match order total", nil)
	}
	return VerifiedByRazorpay, nil
}
