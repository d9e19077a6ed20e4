package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Govind-619/Threadly/config"
	"github.com/Govind-619/Threadly/controllers"
	"github.com/Govind-619/Threadly/models"
	"github.com/Govind-619/Threadly/routes"
	"github.com/Govind-619/Threadly/utils"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testAdminEmail    = "admin@threadly.in"
	testAdminPassword = "admin12345"
)

type testEnv struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
	audit  *utils.MemoryAuditLogger
}

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestEnv wires the real router to a fresh in-memory database and in-process backends
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, config.UseDB(db))

	cfg := config.Defaults()
	cfg.JWTSecret = "test-secret"
	cfg.SessionSecret = "test-session-secret"
	cfg.AdminEmail = testAdminEmail
	cfg.AdminPassword = testAdminPassword
	cfg.UPIID = "threadly@okaxis"
	cfg.UPIMerchantName = "Threadly"
	config.Cfg = cfg

	audit := &utils.MemoryAuditLogger{}
	utils.OTPs = utils.NewMemoryOTPStore()
	utils.Audit = audit
	utils.Mail = utils.LogMailer{}
	utils.Payments = utils.ManualVerifier{}

	require.NoError(t, controllers.CreateSampleAdmin(cfg))

	return &testEnv{t: t, router: routes.SetupRouter(cfg), db: db, audit: audit}
}

// request performs a JSON request against the router
func (e *testEnv) request(method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

type envelope struct {
	Status     string                 `json:"status"`
	Message    string                 `json:"message"`
	Data       map[string]interface{} `json:"data"`
	Pagination map[string]interface{} `json:"pagination"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, code int) envelope {
	t.Helper()
	require.Equal(t, code, w.Code, w.Body.String())
	return decode(t, w)
}

// createUser stores a verified user and returns it with a token
func (e *testEnv) createUser(email, password string) (models.User, string) {
	e.t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(e.t, err)
	user := models.User{Name: "Asha Rao", Email: email, Phone: "9876543210", Password: hash, IsVerified: true}
	require.NoError(e.t, e.db.Create(&user).Error)
	token, _, err := utils.GenerateToken(&user)
	require.NoError(e.t, err)
	return user, token
}

func (e *testEnv) adminToken() string {
	e.t.Helper()
	w := e.request(http.MethodPost, "/api/admin/login", map[string]string{"email": testAdminEmail, "password": testAdminPassword}, nil)
	env := requireStatus(e.t, w, http.StatusOK)
	return env.Data["token"].(string)
}

func (e *testEnv) createProduct(name, price string, stock int, sizes ...string) models.Product {
	e.t.Helper()
	p := models.Product{
		Name:     name,
		Category: "Shirts",
		Price:    decimal.RequireFromString(price),
		Sizes:    models.JoinList(sizes),
		Colors:   "BLUE",
		Stock:    stock,
		IsActive: true,
	}
	require.NoError(e.t, e.db.Create(&p).Error)
	return p
}

func (e *testEnv) createAddress(userID uint) models.Address {
	e.t.Helper()
	a := models.Address{
		UserID:       userID,
		Name:         "Asha Rao",
		Phone:        "9876543210",
		AddressLine1: "12, MG Road",
		City:         "Bengaluru",
		State:        "Karnataka",
		Pincode:      "560001",
		Type:         models.AddressTypeHome,
		IsDefault:    true,
	}
	require.NoError(e.t, e.db.Create(&a).Error)
	return a
}

func (e *testEnv) peekOTP(purpose, email string) string {
	e.t.Helper()
	record, err := utils.OTPs.Peek(context.Background(), purpose, email)
	require.NoError(e.t, err)
	return record.Code
}

// ageOTP moves the issue time of a pending OTP back so the resend cooldown has passed
// wrongOTP returns a well-formed code that differs from otp
func wrongOTP(otp string) string {
	if otp == "000000" {
		return "111111"
	}
	return "000000"
}

func (e *testEnv) ageOTP(purpose, email string) {
	e.t.Helper()
	ctx := context.Background()
	record, err := utils.OTPs.Peek(ctx, purpose, email)
	require.NoError(e.t, err)
	record.IssuedAt = record.IssuedAt.Add(-time.Minute)
	require.NoError(e.t, utils.OTPs.Save(ctx, purpose, email, *record, time.Minute))
}

func (e *testEnv) stockOf(id uint) int {
	e.t.Helper()
	var p models.Product
	require.NoError(e.t, e.db.Unscoped().First(&p, id).Error)
	return p.Stock
}
