package middleware

import (
	"strings"

	"github.com/Govind-619/Threadly/config"
	"github.com/Govind-619/Threadly/models"
	"github.com/Govind-619/Threadly/utils"
	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware
const (
	ContextUser        = "user"
	ContextAdmin       = "admin"
	ContextToken       = "token"
	ContextTokenClaims = "token_claims"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// authenticate verifies signature, expiry, role and the logout blacklist
func authenticate(c *gin.Context, role string) (*utils.TokenClaims, bool) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		utils.LogDebug("Missing bearer token for %s", c.Request.URL.Path)
		utils.Unauthorized(c, utils.ErrLoginRequired)
		c.Abort()
		return nil, false
	}

	claims, err := utils.ParseToken(tokenString)
	if err != nil {
		utils.LogDebug("Invalid token: %v", err)
		utils.Unauthorized(c, utils.ErrInvalidToken)
		c.Abort()
		return nil, false
	}

	if claims.Role != role {
		utils.LogError("Token with role %q used on %s route", claims.Role, role)
		utils.Forbidden(c, "Access denied")
		c.Abort()
		return nil, false
	}

	var count int64
	if err := config.DB.Model(&models.BlacklistedToken{}).Where("token = ?", tokenString).Count(&count).Error; err != nil {
		utils.LogError("Failed to check token blacklist: %v", err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		c.Abort()
		return nil, false
	}
	if count > 0 {
		utils.Unauthorized(c, utils.ErrInvalidToken)
		c.Abort()
		return nil, false
	}

	c.Set(ContextToken, tokenString)
	c.Set(ContextTokenClaims, claims)
	return claims, true
}

// AuthMiddleware requires a valid customer token and loads the user
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c, utils.RoleUser)
		if !ok {
			return
		}

		var user models.User
		if err := config.DB.First(&user, claims.SubjectID).Error; err != nil {
			utils.LogError("User not found: %d", claims.SubjectID)
			utils.Unauthorized(c, "User not found")
			c.Abort()
			return
		}

		if user.IsBlocked {
			utils.LogError("Blocked user attempted access: %d", user.ID)
			utils.Forbidden(c, utils.ErrUserBlocked)
			c.Abort()
			return
		}

		c.Set(ContextUser, user)
		c.Next()
	}
}

// AdminAuthMiddleware requires a valid admin token and an active admin
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c, utils.RoleAdmin)
		if !ok {
			return
		}

		var admin models.Admin
		if err := config.DB.First(&admin, claims.SubjectID).Error; err != nil {
			utils.LogError("Admin not found: %d", claims.SubjectID)
			utils.Unauthorized(c, "Admin not found")
			c.Abort()
			return
		}

		if !admin.IsActive {
			utils.LogError("Inactive admin attempted access: %d", admin.ID)
			utils.Forbidden(c, "Admin account is inactive")
			c.Abort()
			return
		}

		c.Set(ContextAdmin, admin)
		c.Next()
	}
}

// GuestSessionMiddleware requires a guest cart id from the header or cookie session
func GuestSessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := utils.GuestSessionID(c)
		if id == "" {
			utils.BadRequest(c, utils.ErrGuestSession, nil)
			c.Abort()
			return
		}
		c.Set(utils.GuestSessionKey, id)
		c.Next()
	}
}
