package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/Govind-619/Threadly/config"
	"github.com/Govind-619/Threadly/models"
	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
)

// Token roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// TokenClaims is the parsed subset of a bearer token
type TokenClaims struct {
	Role      string
	SubjectID uint
	Email     string
	ExpiresAt time.Time
}

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a password against a hash
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateToken creates a JWT for a customer
func GenerateToken(user *models.User) (string, time.Time, error) {
	return signToken(jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    RoleUser,
	}, config.Cfg.JWTTTL)
}

// GenerateAdminToken creates a JWT for a back-office admin
func GenerateAdminToken(admin *models.Admin) (string, time.Time, error) {
	return signToken(jwt.MapClaims{
		"admin_id": admin.ID,
		"email":    admin.Email,
		"role":     RoleAdmin,
	}, config.Cfg.AdminJWTTTL)
}

func signToken(claims jwt.MapClaims, ttl time.Duration) (string, time.Time, error) {
	secret := config.Cfg.JWTSecret
	if secret == "" {
		return "", time.Time{}, errors.New("JWT secret not configured")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	expiresAt := time.Now().Add(ttl)
	claims["exp"] = expiresAt.Unix()
	claims["iat"] = time.Now().Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, time.Unix(expiresAt.Unix(), 0), nil
}

// ParseToken verifies the signature and expiry of a token and returns its claims
func ParseToken(tokenString string) (*TokenClaims, error) {
	secret := config.Cfg.JWTSecret
	if secret == "" {
		return nil, errors.New("JWT secret not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	parsed := &TokenClaims{}
	parsed.Role, _ = claims["role"].(string)
	parsed.Email, _ = claims["email"].(string)
	if exp, ok := claims["exp"].(float64); ok {
		parsed.ExpiresAt = time.Unix(int64(exp), 0)
	}

	idKey := "user_id"
	if parsed.Role == RoleAdmin {
		idKey = "admin_id"
	}
	id, ok := claims[idKey].(float64)
	if !ok || id <= 0 {
		return nil, fmt.Errorf("missing %s claim", idKey)
	}
	parsed.SubjectID = uint(id)
	return parsed, nil
}

// GenerateOTP creates a 6-digit OTP from crypto/rand
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
