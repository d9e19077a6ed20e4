package controllers_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/Govind-619/Threadly/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartOf(t *testing.T, body envelope) map[string]interface{} {
	t.Helper()
	cart, ok := body.Data["cart"].(map[string]interface{})
	require.True(t, ok, "response carries a cart")
	return cart
}

func (e *testEnv) guestSession() string {
	e.t.Helper()
	w := e.request(http.MethodPost, "/api/guest-cart/session", nil, nil)
	body := requireStatus(e.t, w, http.StatusCreated)
	id, _ := body.Data["guest_session_id"].(string)
	require.NotEmpty(e.t, id)
	return id
}

func TestUserCartRecomputesTotals(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser("cart@example.com", "secret123")
	shirt := env.createProduct("Linen Shirt", "799.50", 5, "M", "L")
	hat := env.createProduct("Cotton Cap", "249", 20)

	w := env.request(http.MethodGet, "/api/cart", nil, bearer(token))
	body := requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "Cart is empty", body.Message)
	assert.Equal(t, true, cartOf(t, body)["is_empty"])

	w = env.request(http.MethodPost, "/api/cart/add", map[string]interface{}{"product_id": shirt.ID, "size": "m", "quantity": 2}, bearer(token))
	body = requireStatus(t, w, http.StatusOK)
	cart := cartOf(t, body)
	assert.Equal(t, "1599.00", cart["subtotal"])
	assert.Equal(t, "1599.00", cart["total"])

	w = env.request(http.MethodPost, "/api/cart/add", map[string]interface{}{"product_id": hat.ID}, bearer(token))
	body = requireStatus(t, w, http.StatusOK)
	cart = cartOf(t, body)
	assert.Equal(t, float64(3), cart["item_count"])
	assert.Equal(t, "1848.00", cart["total"])

	items := cart["items"].([]interface{})
	require.Len(t, items, 2)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "M", first["size"])
	assert.Equal(t, "1599.00", first["item_total"])

	w = env.request(http.MethodPut, "/api/cart/update", map[string]interface{}{"product_id": shirt.ID, "size": "M", "quantity": 1}, bearer(token))
	body = requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "1048.50", cartOf(t, body)["total"])

	w = env.request(http.MethodDelete, fmt.Sprintf("/api/cart/remove/%d", hat.ID), nil, bearer(token))
	body = requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "799.50", cartOf(t, body)["total"])

	w = env.request(http.MethodPut, "/api/cart/update", map[string]interface{}{"product_id": shirt.ID, "size": "M", "quantity": 0}, bearer(token))
	body = requireStatus(t, w, http.StatusOK)
	cart = cartOf(t, body)
	assert.Equal(t, true, cart["is_empty"])
	assert.Empty(t, cart["items"])
	assert.Equal(t, "0.00", cart["total"])
}

func TestCartRejectsInvalidLines(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser("rules@example.com", "secret123")
	shirt := env.createProduct("Oxford Shirt", "999", 3, "S", "M")

	w := env.request(http.MethodPost, "/api/cart/add", map[string]interface{}{"product_id": shirt.ID, "quantity": 1}, bearer(token))
	body := requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "Please select a size", body.Message)

	w = env.request(http.MethodPost, "/api/cart/add", map[string]interface{}{"product_id": shirt.ID, "size": "XXL", "quantity": 1}, bearer(token))
	requireStatus(t, w, http.StatusBadRequest)

	w = env.request(http.MethodPost, "/api/cart/add", map[string]interface{}{"product_id": shirt.ID, "size": "S", "quantity": 4}, bearer(token))
	body = requireStatus(t, w, http.StatusBadRequest)
	assert.True(t, strings.HasPrefix(body.Message, "Not enough stock"))

	w = env.request(http.MethodPost, "/api/cart/add", map[string]interface{}{"product_id": 9999, "quantity": 1}, bearer(token))
	requireStatus(t, w, http.StatusNotFound)

	w = env.request(http.MethodPut, "/api/cart/update", map[string]interface{}{"product_id": shirt.ID, "size": "S", "quantity": 2}, bearer(token))
	requireStatus(t, w, http.StatusNotFound)

	w = env.request(http.MethodDelete, "/api/cart/remove/abc", nil, bearer(token))
	requireStatus(t, w, http.StatusBadRequest)
}

func TestGuestCartRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(http.MethodGet, "/api/guest-cart", nil, nil)
	body := requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, utils.ErrGuestSession, body.Message)

	w = env.request(http.MethodGet, "/api/guest-cart", nil, map[string]string{utils.GuestSessionHeader: "bad id!"})
	requireStatus(t, w, http.StatusBadRequest)
}

func TestGuestCartWithCookieSession(t *testing.T) {
	env := newTestEnv(t)
	tee := env.createProduct("Graphic Tee", "499", 10, "M")

	w := env.request(http.MethodPost, "/api/guest-cart/session", nil, nil)
	requireStatus(t, w, http.StatusCreated)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	var parts []string
	for _, c := range cookies {
		parts = append(parts, c.Name+"="+c.Value)
	}
	cookie := map[string]string{"Cookie": strings.Join(parts, "; ")}

	w = env.request(http.MethodPost, "/api/guest-cart/add", map[string]interface{}{"product_id": tee.ID, "size": "M", "quantity": 2}, cookie)
	body := requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "998.00", cartOf(t, body)["total"])

	// the same session is reported back instead of a new one
	w = env.request(http.MethodPost, "/api/guest-cart/session", nil, cookie)
	requireStatus(t, w, http.StatusOK)
}

func TestGuestCartMergesOnLogin(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("merge@example.com", "secret123")
	tee := env.createProduct("Graphic Tee", "499", 10, "M")
	guestID := env.guestSession()
	guest := map[string]string{utils.GuestSessionHeader: guestID}

	w := env.request(http.MethodPost, "/api/guest-cart/add", map[string]interface{}{"product_id": tee.ID, "size": "M", "quantity": 3}, guest)
	requireStatus(t, w, http.StatusOK)

	w = env.request(http.MethodPost, "/api/user/login", map[string]string{"email": "merge@example.com", "password": "secret123"}, guest)
	body := requireStatus(t, w, http.StatusOK)
	assert.Equal(t, float64(1), body.Data["merged_items"])
	token := body.Data["token"].(string)

	w = env.request(http.MethodGet, "/api/cart", nil, bearer(token))
	body = requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "1497.00", cartOf(t, body)["total"])

	w = env.request(http.MethodGet, "/api/guest-cart", nil, guest)
	body = requireStatus(t, w, http.StatusOK)
	assert.Equal(t, true, cartOf(t, body)["is_empty"])
}

func TestMergeGuestCartEndpoint(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser("merge2@example.com", "secret123")
	tee := env.createProduct("Graphic Tee", "499", 4, "M")
	guestID := env.guestSession()

	w := env.request(http.MethodPost, "/api/guest-cart/add", map[string]interface{}{"product_id": tee.ID, "size": "M", "quantity": 3}, map[string]string{utils.GuestSessionHeader: guestID})
	requireStatus(t, w, http.StatusOK)
	w = env.request(http.MethodPost, "/api/cart/add", map[string]interface{}{"product_id": tee.ID, "size": "M", "quantity": 2}, bearer(token))
	requireStatus(t, w, http.StatusOK)

	w = env.request(http.MethodPost, "/api/cart/merge", map[string]string{"guest_session_id": guestID}, bearer(token))
	body := requireStatus(t, w, http.StatusOK)
	items := cartOf(t, body)["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, float64(4), items[0].(map[string]interface{})["quantity"], "merged quantity is capped at stock")

	w = env.request(http.MethodPost, "/api/cart/merge", nil, bearer(token))
	requireStatus(t, w, http.StatusBadRequest)
}

func TestClearCart(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser("clear@example.com", "secret123")
	tee := env.createProduct("Graphic Tee", "499", 4)

	w := env.request(http.MethodPost, "/api/cart/add", map[string]interface{}{"product_id": tee.ID, "quantity": 1}, bearer(token))
	requireStatus(t, w, http.StatusOK)

	w = env.request(http.MethodDelete, "/api/cart/clear", nil, bearer(token))
	body := requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "Cart cleared", body.Message)
	assert.Equal(t, true, cartOf(t, body)["is_empty"])
}
