package config

import (
	"fmt"

	"github.com/Govind-619/Threadly/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Dialector picks the GORM driver configured by DB_DRIVER
func (c *Config) Dialector() (gorm.Dialector, error) {
	switch c.DBDriver {
	case "", "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
}

// InitDB opens the configured database and migrates the schema
func InitDB(c *Config) error {
	dialector, err := c.Dialector()
	if err != nil {
		return err
	}

	gormConfig := &gorm.Config{TranslateError: true}
	if c.IsProduction() {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	return UseDB(db)
}

// UseDB installs db as the shared handle and migrates the schema on it
func UseDB(db *gorm.DB) error {
	if err := Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	DB = db
	return nil
}

// Migrate creates or updates every table the service owns
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.BlacklistedToken{},
		&models.Address{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
	)
}
