package controllers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/Govind-619/Threadly/models"
	"github.com/Govind-619/Threadly/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterVerifyOTPAndLogin(t *testing.T) {
	env := newTestEnv(t)
	email := "asha@example.com"

	w := env.request(http.MethodPost, "/api/user/register", map[string]string{
		"name":     "Asha Rao",
		"email":    "Asha@Example.com",
		"phone":    "+91 98765 43210",
		"password": "secret123",
	}, nil)
	requireStatus(t, w, http.StatusOK)

	var count int64
	env.db.Model(&models.User{}).Count(&count)
	assert.Zero(t, count, "user is only created after the email is verified")

	otp := env.peekOTP(utils.OTPPurposeRegister, email)
	wrong := "000000"
	if otp == wrong {
		wrong = "111111"
	}
	w = env.request(http.MethodPost, "/api/user/verify-otp", map[string]string{"email": email, "otp": wrong}, nil)
	body := requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, utils.ErrInvalidOTP, body.Message)

	w = env.request(http.MethodPost, "/api/user/verify-otp", map[string]string{"email": email, "otp": otp}, nil)
	body = requireStatus(t, w, http.StatusOK)
	assert.NotEmpty(t, body.Data["token"])
	assert.NotZero(t, body.Data["expires_at"])
	user := body.Data["user"].(map[string]interface{})
	assert.Equal(t, email, user["email"])
	assert.Equal(t, "9876543210", user["phone"])

	token := body.Data["token"].(string)
	w = env.request(http.MethodGet, "/api/user/me", nil, bearer(token))
	requireStatus(t, w, http.StatusOK)

	w = env.request(http.MethodPost, "/api/user/login", map[string]string{"email": email, "password": "secret123"}, nil)
	body = requireStatus(t, w, http.StatusOK)
	assert.Equal(t, utils.MsgLoginSuccess, body.Message)

	w = env.request(http.MethodPost, "/api/user/login", map[string]string{"email": email, "password": "wrong-pass1"}, nil)
	body = requireStatus(t, w, http.StatusUnauthorized)
	assert.Equal(t, utils.ErrInvalidCredentials, body.Message)
}

func TestRegisterRejectsDuplicateAndInvalidInput(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("taken@example.com", "secret123")

	w := env.request(http.MethodPost, "/api/user/register", map[string]string{
		"name": "Someone", "email": "taken@example.com", "password": "secret123",
	}, nil)
	requireStatus(t, w, http.StatusConflict)

	w = env.request(http.MethodPost, "/api/user/register", map[string]string{
		"name": "Someone", "email": "new@example.com", "password": "short",
	}, nil)
	body := requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "Validation failed", body.Message)
}

func TestVerifyOTPLocksAfterTooManyAttempts(t *testing.T) {
	env := newTestEnv(t)
	email := "lock@example.com"
	w := env.request(http.MethodPost, "/api/user/register", map[string]string{
		"name": "Lock Test", "email": email, "password": "secret123",
	}, nil)
	requireStatus(t, w, http.StatusOK)

	otp := env.peekOTP(utils.OTPPurposeRegister, email)
	wrong := "111111"
	if otp == wrong {
		wrong = "222222"
	}
	for i := 1; i < utils.MaxOTPAttempts; i++ {
		w = env.request(http.MethodPost, "/api/user/verify-otp", map[string]string{"email": email, "otp": wrong}, nil)
		requireStatus(t, w, http.StatusBadRequest)
	}
	w = env.request(http.MethodPost, "/api/user/verify-otp", map[string]string{"email": email, "otp": wrong}, nil)
	requireStatus(t, w, http.StatusTooManyRequests)

	w = env.request(http.MethodPost, "/api/user/verify-otp", map[string]string{"email": email, "otp": otp}, nil)
	body := requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, utils.ErrOTPExpired, body.Message)
}

func TestResendOTPCooldown(t *testing.T) {
	env := newTestEnv(t)
	email := "resend@example.com"
	w := env.request(http.MethodPost, "/api/user/register", map[string]string{
		"name": "Resend Test", "email": email, "password": "secret123",
	}, nil)
	requireStatus(t, w, http.StatusOK)

	w = env.request(http.MethodPost, "/api/user/resend-otp", map[string]string{"email": email}, nil)
	requireStatus(t, w, http.StatusTooManyRequests)

	env.ageOTP(utils.OTPPurposeRegister, email)
	w = env.request(http.MethodPost, "/api/user/resend-otp", map[string]string{"email": email, "purpose": "register"}, nil)
	requireStatus(t, w, http.StatusOK)

	// the pending registration survives the resend
	otp := env.peekOTP(utils.OTPPurposeRegister, email)
	w = env.request(http.MethodPost, "/api/user/verify-otp", map[string]string{"email": email, "otp": otp}, nil)
	requireStatus(t, w, http.StatusOK)

	w = env.request(http.MethodPost, "/api/user/resend-otp", map[string]string{"email": "nobody@example.com"}, nil)
	requireStatus(t, w, http.StatusBadRequest)
}

func TestLoginWithOTP(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("otp@example.com", "secret123")

	w := env.request(http.MethodPost, "/api/user/login/otp", map[string]string{"email": "unknown@example.com"}, nil)
	unknown := requireStatus(t, w, http.StatusOK)
	_, err := utils.OTPs.Peek(context.Background(), utils.OTPPurposeLogin, "unknown@example.com")
	assert.ErrorIs(t, err, utils.ErrOTPNotFound)

	w = env.request(http.MethodPost, "/api/user/login/otp", map[string]string{"email": "otp@example.com"}, nil)
	known := requireStatus(t, w, http.StatusOK)
	assert.Equal(t, unknown.Message, known.Message)

	otp := env.peekOTP(utils.OTPPurposeLogin, "otp@example.com")
	w = env.request(http.MethodPost, "/api/user/login/otp/verify", map[string]string{"email": "otp@example.com", "otp": otp}, nil)
	body := requireStatus(t, w, http.StatusOK)
	assert.NotEmpty(t, body.Data["token"])
}

func TestLoginWithOTPVerifiesAccount(t *testing.T) {
	env := newTestEnv(t)
	user, _ := env.createUser("unverified@example.com", "secret123")
	require.NoError(t, env.db.Model(&user).Update("is_verified", false).Error)

	w := env.request(http.MethodPost, "/api/user/login/otp", map[string]string{"email": "unverified@example.com"}, nil)
	requireStatus(t, w, http.StatusOK)
	otp := env.peekOTP(utils.OTPPurposeLogin, "unverified@example.com")
	w = env.request(http.MethodPost, "/api/user/login/otp/verify", map[string]string{"email": "unverified@example.com", "otp": otp}, nil)
	body := requireStatus(t, w, http.StatusOK)
	assert.Equal(t, true, body.Data["user"].(map[string]interface{})["is_verified"])

	var stored models.User
	require.NoError(t, env.db.First(&stored, user.ID).Error)
	assert.True(t, stored.IsVerified)
}

func TestOTPRequestsShareCooldown(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("cool@example.com", "secret123")

	w := env.request(http.MethodPost, "/api/user/login/otp", map[string]string{"email": "cool@example.com"}, nil)
	requireStatus(t, w, http.StatusOK)
	first := env.peekOTP(utils.OTPPurposeLogin, "cool@example.com")

	w = env.request(http.MethodPost, "/api/user/login/otp", map[string]string{"email": "cool@example.com"}, nil)
	body := requireStatus(t, w, http.StatusTooManyRequests)
	assert.Equal(t, utils.ErrOTPCooldown, body.Message)
	assert.Equal(t, first, env.peekOTP(utils.OTPPurposeLogin, "cool@example.com"))

	// a miss against the old code still counts after a fresh one is issued
	w = env.request(http.MethodPost, "/api/user/login/otp/verify", map[string]string{"email": "cool@example.com", "otp": wrongOTP(first)}, nil)
	requireStatus(t, w, http.StatusBadRequest)
	env.ageOTP(utils.OTPPurposeLogin, "cool@example.com")
	w = env.request(http.MethodPost, "/api/user/login/otp", map[string]string{"email": "cool@example.com"}, nil)
	requireStatus(t, w, http.StatusOK)
	record, err := utils.OTPs.Peek(context.Background(), utils.OTPPurposeLogin, "cool@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, record.Attempts)

	w = env.request(http.MethodPost, "/api/user/register", map[string]string{
		"name": "Cool Down", "email": "fresh@example.com", "password": "secret123",
	}, nil)
	requireStatus(t, w, http.StatusOK)
	w = env.request(http.MethodPost, "/api/user/register", map[string]string{
		"name": "Cool Down", "email": "fresh@example.com", "password": "secret123",
	}, nil)
	requireStatus(t, w, http.StatusTooManyRequests)

	// reset answers the same way while cooling down and keeps the first code
	w = env.request(http.MethodPost, "/api/user/forgot-password", map[string]string{"email": "cool@example.com"}, nil)
	requireStatus(t, w, http.StatusOK)
	resetCode := env.peekOTP(utils.OTPPurposeReset, "cool@example.com")
	w = env.request(http.MethodPost, "/api/user/forgot-password", map[string]string{"email": "cool@example.com"}, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, resetCode, env.peekOTP(utils.OTPPurposeReset, "cool@example.com"))
}

func TestBlockedUserCannotLogin(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser("blocked@example.com", "secret123")
	require.NoError(t, env.db.Model(&user).Update("is_blocked", true).Error)

	w := env.request(http.MethodPost, "/api/user/login", map[string]string{"email": "blocked@example.com", "password": "secret123"}, nil)
	requireStatus(t, w, http.StatusForbidden)

	w = env.request(http.MethodGet, "/api/user/me", nil, bearer(token))
	requireStatus(t, w, http.StatusForbidden)
}

func TestLogoutBlacklistsToken(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser("logout@example.com", "secret123")

	w := env.request(http.MethodPost, "/api/user/logout", nil, bearer(token))
	requireStatus(t, w, http.StatusOK)

	w = env.request(http.MethodGet, "/api/user/me", nil, bearer(token))
	body := requireStatus(t, w, http.StatusUnauthorized)
	assert.Equal(t, utils.ErrInvalidToken, body.Message)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(http.MethodGet, "/api/cart", nil, nil)
	requireStatus(t, w, http.StatusUnauthorized)

	w = env.request(http.MethodGet, "/api/cart", nil, bearer("not-a-token"))
	requireStatus(t, w, http.StatusUnauthorized)

	admin := env.adminToken()
	w = env.request(http.MethodGet, "/api/cart", nil, bearer(admin))
	requireStatus(t, w, http.StatusForbidden)
}

func TestForgotAndResetPassword(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("reset@example.com", "secret123")

	w := env.request(http.MethodPost, "/api/user/forgot-password", map[string]string{"email": "ghost@example.com"}, nil)
	requireStatus(t, w, http.StatusOK)

	w = env.request(http.MethodPost, "/api/user/forgot-password", map[string]string{"email": "reset@example.com"}, nil)
	requireStatus(t, w, http.StatusOK)

	otp := env.peekOTP(utils.OTPPurposeReset, "reset@example.com")
	w = env.request(http.MethodPost, "/api/user/reset-password", map[string]string{
		"email": "reset@example.com", "otp": otp, "new_password": "newsecret9",
	}, nil)
	body := requireStatus(t, w, http.StatusOK)
	assert.Equal(t, utils.MsgPasswordReset, body.Message)

	w = env.request(http.MethodPost, "/api/user/login", map[string]string{"email": "reset@example.com", "password": "secret123"}, nil)
	requireStatus(t, w, http.StatusUnauthorized)
	w = env.request(http.MethodPost, "/api/user/login", map[string]string{"email": "reset@example.com", "password": "newsecret9"}, nil)
	requireStatus(t, w, http.StatusOK)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser("profile@example.com", "secret123")

	w := env.request(http.MethodPut, "/api/user/me", map[string]string{"phone": "12345"}, bearer(token))
	requireStatus(t, w, http.StatusBadRequest)

	w = env.request(http.MethodPut, "/api/user/me", map[string]string{"name": "Asha R", "phone": "07012345678"}, bearer(token))
	body := requireStatus(t, w, http.StatusOK)
	user := body.Data["user"].(map[string]interface{})
	assert.Equal(t, "Asha R", user["name"])
	assert.Equal(t, "7012345678", user["phone"])
}
