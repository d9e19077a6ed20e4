package utils

import (
	"testing"

	"github.com/Govind-619/Threadly/config"
	"github.com/Govind-619/Threadly/models"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with the schema migrated
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, config.Migrate(db))
	return db
}

func createProduct(t *testing.T, db *gorm.DB, name, price string, stock int, sizes ...string) models.Product {
	t.Helper()
	p := models.Product{
		Name:     name,
		Category: "Shirts",
		Price:    decimal.RequireFromString(price),
		Sizes:    models.JoinList(sizes),
		Stock:    stock,
		IsActive: true,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func withConfig(t *testing.T, mutate func(c *config.Config)) {
	t.Helper()
	previous := config.Cfg
	cfg := config.Defaults()
	cfg.JWTSecret = "test-secret"
	if mutate != nil {
		mutate(cfg)
	}
	config.Cfg = cfg
	t.Cleanup(func() { config.Cfg = previous })
}
