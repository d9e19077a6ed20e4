package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Cfg is the configuration loaded at startup
var Cfg = Defaults()

// Config holds all configuration for the application
type Config struct {
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	DBDriver   string `mapstructure:"DB_DRIVER"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`

	JWTSecret     string        `mapstructure:"JWT_SECRET"`
	JWTTTL        time.Duration `mapstructure:"JWT_TTL"`
	AdminJWTTTL   time.Duration `mapstructure:"ADMIN_JWT_TTL"`
	OTPTTL        time.Duration `mapstructure:"OTP_TTL"`
	SessionSecret string        `mapstructure:"SESSION_SECRET"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	MongoURI string `mapstructure:"MONGO_URI"`
	MongoDB  string `mapstructure:"MONGO_DB"`

	MailProvider   string `mapstructure:"MAIL_PROVIDER"`
	SMTPHost       string `mapstructure:"SMTP_HOST"`
	SMTPPort       int    `mapstructure:"SMTP_PORT"`
	SMTPUsername   string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword   string `mapstructure:"SMTP_PASSWORD"`
	MailFrom       string `mapstructure:"MAIL_FROM"`
	SendGridAPIKey string `mapstructure:"SENDGRID_API_KEY"`

	UPIID           string `mapstructure:"UPI_ID"`
	UPIMerchantName string `mapstructure:"UPI_MERCHANT_NAME"`
	ShippingFee     string `mapstructure:"SHIPPING_FEE"`
	PaymentVerifier string `mapstructure:"PAYMENT_VERIFIER"`
	RazorpayKey     string `mapstructure:"RAZORPAY_KEY"`
	RazorpaySecret  string `mapstructure:"RAZORPAY_SECRET"`

	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`

	CORSOrigin string `mapstructure:"CORS_ORIGIN"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`
	LogDir     string `mapstructure:"LOG_DIR"`
}

var defaults = map[string]interface{}{
	"PORT":              "8080",
	"ENV":               "development",
	"DB_DRIVER":         "postgres",
	"DB_HOST":           "localhost",
	"DB_PORT":           "5432",
	"DB_USER":           "postgres",
	"DB_PASSWORD":       "postgres",
	"DB_NAME":           "threadly",
	"JWT_SECRET":        "",
	"JWT_TTL":           "24h",
	"ADMIN_JWT_TTL":     "8h",
	"OTP_TTL":           "10m",
	"SESSION_SECRET":    "threadly-session",
	"REDIS_ADDR":        "",
	"REDIS_PASSWORD":    "",
	"REDIS_DB":          0,
	"MONGO_URI":         "",
	"MONGO_DB":          "threadly",
	"MAIL_PROVIDER":     "log",
	"SMTP_HOST":         "",
	"SMTP_PORT":         587,
	"SMTP_USERNAME":     "",
	"SMTP_PASSWORD":     "",
	"MAIL_FROM":         "no-reply@threadly.in",
	"SENDGRID_API_KEY":  "",
	"UPI_ID":            "threadly@upi",
	"UPI_MERCHANT_NAME": "Threadly",
	"SHIPPING_FEE":      "0",
	"PAYMENT_VERIFIER":  "manual",
	"RAZORPAY_KEY":      "",
	"RAZORPAY_SECRET":   "",
	"ADMIN_EMAIL":       "admin@threadly.in",
	"ADMIN_PASSWORD":    "",
	"CORS_ORIGIN":       "*",
	"LOG_LEVEL":         "info",
	"LOG_DIR":           "logs",
}

// LoadConfig loads configuration from .env (if present) and the environment
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, err
	}

	Cfg = config
	return config, nil
}

// Defaults returns the configuration used when nothing is set in the environment
func Defaults() *Config {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	config := &Config{}
	_ = v.Unmarshal(config)
	return config
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
