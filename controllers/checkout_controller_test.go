package controllers_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/Govind-619/Threadly/models"
	"github.com/Govind-619/Threadly/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type checkoutFixture struct {
	env     *testEnv
	user    models.User
	token   string
	address models.Address
	product models.Product
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	env := newTestEnv(t)
	user, token := env.createUser("buyer@example.com", "secret123")
	address := env.createAddress(user.ID)
	product := env.createProduct("Denim Jacket", "1499.99", 5, "M", "L")

	w := env.request(http.MethodPost, "/api/cart/add", map[string]interface{}{"product_id": product.ID, "size": "L", "quantity": 2}, bearer(token))
	requireStatus(t, w, http.StatusOK)

	return &checkoutFixture{env: env, user: user, token: token, address: address, product: product}
}

func (f *checkoutFixture) placeOrder(headers map[string]string) envelope {
	f.env.t.Helper()
	h := bearer(f.token)
	for k, v := range headers {
		h[k] = v
	}
	w := f.env.request(http.MethodPost, "/api/orders", map[string]interface{}{"address_id": f.address.ID}, h)
	return requireStatus(f.env.t, w, http.StatusCreated)
}

func orderID(body envelope) uint {
	return uint(body.Data["order"].(map[string]interface{})["id"].(float64))
}

func TestOrderSummary(t *testing.T) {
	f := newCheckoutFixture(t)

	w := f.env.request(http.MethodGet, "/api/orders/summary", nil, bearer(f.token))
	body := requireStatus(t, w, http.StatusOK)
	assert.Equal(t, float64(f.address.ID), body.Data["selected_address"].(map[string]interface{})["id"])
	data := body.Data["order_data"].(map[string]interface{})
	assert.Equal(t, "2999.98", data["subtotal"])
	assert.Equal(t, "0.00", data["shipping"])
	assert.Equal(t, "2999.98", data["total"])
	assert.Equal(t, float64(2), data["item_count"])

	w = f.env.request(http.MethodGet, "/api/orders/summary?address_id=abc", nil, bearer(f.token))
	requireStatus(t, w, http.StatusBadRequest)

	w = f.env.request(http.MethodGet, "/api/orders/summary?address_id=999", nil, bearer(f.token))
	requireStatus(t, w, http.StatusNotFound)
}

func TestOrderSummaryNeedsAddressAndItems(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser("empty@example.com", "secret123")

	w := env.request(http.MethodGet, "/api/orders/summary", nil, bearer(token))
	body := requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "Please select a delivery address", body.Message)

	env.createAddress(user.ID)
	w = env.request(http.MethodGet, "/api/orders/summary", nil, bearer(token))
	body = requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "Cart is empty", body.Message)
}

func TestPlaceOrderDecrementsStockAndClearsCart(t *testing.T) {
	f := newCheckoutFixture(t)

	body := f.placeOrder(nil)
	order := body.Data["order"].(map[string]interface{})
	assert.Equal(t, models.OrderStatusPendingPayment, order["status"])
	assert.Equal(t, models.PaymentStatusPending, order["payment_status"])
	assert.Equal(t, "2999.98", order["total"])
	assert.True(t, strings.HasPrefix(order["reference"].(string), "TH"))
	assert.Equal(t, fmt.Sprintf("/api/payment/upi/%d", orderID(body)), body.Data["payment_url"])
	shipTo := order["shipping_address"].(map[string]interface{})
	assert.Equal(t, "560001", shipTo["pincode"])

	assert.Equal(t, 3, f.env.stockOf(f.product.ID))

	w := f.env.request(http.MethodGet, "/api/cart", nil, bearer(f.token))
	cart := cartOf(t, requireStatus(t, w, http.StatusOK))
	assert.Equal(t, true, cart["is_empty"])

	// the address snapshot survives deleting the saved address
	w = f.env.request(http.MethodDelete, fmt.Sprintf("/api/user/addresses/%d", f.address.ID), nil, bearer(f.token))
	requireStatus(t, w, http.StatusOK)
	w = f.env.request(http.MethodGet, fmt.Sprintf("/api/orders/%d", orderID(body)), nil, bearer(f.token))
	details := requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "Bengaluru", details.Data["order"].(map[string]interface{})["shipping_address"].(map[string]interface{})["city"])

	w = f.env.request(http.MethodPost, "/api/orders", map[string]interface{}{}, bearer(f.token))
	requireStatus(t, w, http.StatusBadRequest)
}

func TestPlaceOrderIsIdempotent(t *testing.T) {
	f := newCheckoutFixture(t)
	key := map[string]string{"Idempotency-Key": "checkout-7f3a"}

	first := f.placeOrder(key)

	w := f.env.request(http.MethodPost, "/api/orders", map[string]interface{}{"address_id": f.address.ID}, map[string]string{
		"Authorization":   "Bearer " + f.token,
		"Idempotency-Key": "checkout-7f3a",
	})
	replay := requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "Order already placed", replay.Message)
	assert.Equal(t, orderID(first), orderID(replay))

	var count int64
	require.NoError(t, f.env.db.Model(&models.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, 3, f.env.stockOf(f.product.ID))
}

func TestIdempotencyKeyUniquePerUser(t *testing.T) {
	f := newCheckoutFixture(t)
	other, _ := f.env.createUser("other@example.com", "secret123")
	key := "retry-42"

	seq := 0
	newOrder := func(userID uint, key *string) error {
		seq++
		return f.env.db.Create(&models.Order{
			Reference:      fmt.Sprintf("TH-TEST-%d", seq),
			UserID:         userID,
			IdempotencyKey: key,
			Status:         models.OrderStatusPendingPayment,
			PaymentStatus:  models.PaymentStatusPending,
		}).Error
	}

	require.NoError(t, newOrder(f.user.ID, &key))
	assert.ErrorIs(t, newOrder(f.user.ID, &key), gorm.ErrDuplicatedKey)
	assert.NoError(t, newOrder(other.ID, &key))

	// orders placed without a key never collide
	assert.NoError(t, newOrder(f.user.ID, nil))
	assert.NoError(t, newOrder(f.user.ID, nil))
}

func TestPlaceOrderRejectsOversell(t *testing.T) {
	f := newCheckoutFixture(t)
	require.NoError(t, f.env.db.Model(&f.product).Update("stock", 1).Error)

	w := f.env.request(http.MethodPost, "/api/orders", map[string]interface{}{"address_id": f.address.ID}, bearer(f.token))
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, 1, f.env.stockOf(f.product.ID))

	var count int64
	require.NoError(t, f.env.db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListOrders(t *testing.T) {
	f := newCheckoutFixture(t)
	f.placeOrder(nil)

	w := f.env.request(http.MethodGet, "/api/orders", nil, bearer(f.token))
	body := requireStatus(t, w, http.StatusOK)
	assert.Len(t, body.Data["orders"], 1)
	assert.Equal(t, float64(1), body.Pagination["total"])

	w = f.env.request(http.MethodGet, "/api/orders?status=Delivered", nil, bearer(f.token))
	body = requireStatus(t, w, http.StatusOK)
	assert.Empty(t, body.Data["orders"])

	_, other := f.env.createUser("snoop@example.com", "secret123")
	w = f.env.request(http.MethodGet, "/api/orders/1", nil, bearer(other))
	requireStatus(t, w, http.StatusNotFound)
}

func TestUPIPaymentLink(t *testing.T) {
	f := newCheckoutFixture(t)
	id := orderID(f.placeOrder(nil))
	path := fmt.Sprintf("/api/payment/upi/%d", id)

	w := f.env.request(http.MethodGet, path, nil, map[string]string{
		"Authorization": "Bearer " + f.token,
		"User-Agent":    "Mozilla/5.0 (X11; Linux x86_64) Chrome/120.0",
	})
	body := requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "qr", body.Data["display_mode"])
	assert.Equal(t, "2999.98", body.Data["amount"])
	assert.Equal(t, "threadly@okaxis", body.Data["payee_vpa"])
	uri := body.Data["upi_uri"].(string)
	assert.True(t, strings.HasPrefix(uri, "upi://pay?"))
	assert.Contains(t, uri, "pa=threadly@okaxis")
	assert.Contains(t, uri, "am=2999.98")
	assert.Contains(t, uri, "cu=INR")

	w = f.env.request(http.MethodGet, path, nil, map[string]string{
		"Authorization": "Bearer " + f.token,
		"User-Agent":    "Mozilla/5.0 (Linux; Android 14; Pixel 8) Mobile Safari/537.36",
	})
	body = requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "deep_link", body.Data["display_mode"])

	w = f.env.request(http.MethodGet, path+"/qr", nil, bearer(f.token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))
}

func TestVerifyPayment(t *testing.T) {
	f := newCheckoutFixture(t)
	id := orderID(f.placeOrder(nil))

	w := f.env.request(http.MethodPost, "/api/payment/verify", map[string]interface{}{"order_id": id, "transaction_id": "abc"}, bearer(f.token))
	requireStatus(t, w, http.StatusBadRequest)

	w = f.env.request(http.MethodPost, "/api/payment/verify", map[string]interface{}{"order_id": id, "transaction_id": "  UPI123456789  "}, bearer(f.token))
	body := requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "UPI123456789", body.Data["transaction_id"])
	assert.Equal(t, utils.VerifiedBySelf, body.Data["verified_by"])
	assert.Equal(t, models.OrderStatusPlaced, body.Data["status"])

	var order models.Order
	require.NoError(t, f.env.db.First(&order, id).Error)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, models.OrderStatusPlaced, order.Status)

	w = f.env.request(http.MethodPost, "/api/payment/verify", map[string]interface{}{"order_id": id, "transaction_id": "UPI999999999"}, bearer(f.token))
	requireStatus(t, w, http.StatusConflict)

	w = f.env.request(http.MethodGet, fmt.Sprintf("/api/payment/upi/%d", id), nil, bearer(f.token))
	requireStatus(t, w, http.StatusConflict)

	entries := f.env.audit.Entries()
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1]
	assert.Equal(t, "verify_payment", last.Action)
	assert.Equal(t, []uint{id}, last.EntityIDs)
}

// cancellingVerifier cancels the order mid-verification, as an admin racing the payment would
type cancellingVerifier struct{ db *gorm.DB }

func (v cancellingVerifier) Verify(_ context.Context, order *models.Order, _ string) (string, error) {
	var current models.Order
	if err := v.db.Preload("OrderItems").First(&current, order.ID).Error; err != nil {
		return "", err
	}
	if err := utils.ChangeOrderStatus(v.db, &current, models.OrderStatusCancelled); err != nil {
		return "", err
	}
	return utils.VerifiedBySelf, nil
}

func TestVerifyPaymentLosesToCancellation(t *testing.T) {
	f := newCheckoutFixture(t)
	id := orderID(f.placeOrder(nil))
	require.Equal(t, 3, f.env.stockOf(f.product.ID))

	utils.Payments = cancellingVerifier{db: f.env.db}
	w := f.env.request(http.MethodPost, "/api/payment/verify", map[string]interface{}{"order_id": id, "transaction_id": "UPI555555555"}, bearer(f.token))
	body := requireStatus(t, w, http.StatusConflict)
	assert.Equal(t, "Order is cancelled and cannot be paid", body.Message)

	var order models.Order
	require.NoError(t, f.env.db.First(&order, id).Error)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, 5, f.env.stockOf(f.product.ID))

	var payments int64
	require.NoError(t, f.env.db.Model(&models.Payment{}).Where("order_id = ?", id).Count(&payments).Error)
	assert.Zero(t, payments)
}

func TestVerifyPaymentRejectsReusedTransaction(t *testing.T) {
	f := newCheckoutFixture(t)
	first := orderID(f.placeOrder(nil))

	w := f.env.request(http.MethodPost, "/api/cart/add", map[string]interface{}{"product_id": f.product.ID, "size": "M", "quantity": 1}, bearer(f.token))
	requireStatus(t, w, http.StatusOK)
	second := orderID(f.placeOrder(nil))

	w = f.env.request(http.MethodPost, "/api/payment/verify", map[string]interface{}{"order_id": first, "transaction_id": "TXN-0001"}, bearer(f.token))
	requireStatus(t, w, http.StatusOK)

	w = f.env.request(http.MethodPost, "/api/payment/verify", map[string]interface{}{"order_id": second, "transaction_id": "TXN-0001"}, bearer(f.token))
	body := requireStatus(t, w, http.StatusConflict)
	assert.Equal(t, "This transaction ID has already been used", body.Message)
}

func TestDownloadInvoice(t *testing.T) {
	f := newCheckoutFixture(t)
	id := orderID(f.placeOrder(nil))

	w := f.env.request(http.MethodGet, fmt.Sprintf("/api/orders/%d/invoice", id), nil, bearer(f.token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "invoice_TH")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}
