package controllers

import (
	"time"

	"github.com/Govind-619/Threadly/config"
	"github.com/Govind-619/Threadly/middleware"
	"github.com/Govind-619/Threadly/models"
	"github.com/Govind-619/Threadly/utils"
	"github.com/gin-gonic/gin"
)

// AdminLoginRequest represents the admin login request
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin handles admin authentication
func AdminLogin(c *gin.Context) {
	utils.LogInfo("AdminLogin called")
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid login request: %v", err)
		utils.BadRequest(c, "Invalid input", err.Error())
		return
	}
	req.Email = utils.NormalizeEmail(req.Email)
	utils.LogDebug("Processing login request for email: %s", req.Email)

	var admin models.Admin
	if err := config.DB.Where("email = ?", req.Email).First(&admin).Error; err != nil {
		utils.LogError("Admin not found for email: %s: %v", req.Email, err)
		utils.Unauthorized(c, "Invalid credentials")
		return
	}

	if !admin.IsActive {
		utils.LogError("Inactive admin account attempted login: %s", admin.Email)
		utils.Forbidden(c, "Admin account is inactive")
		return
	}

	if !utils.CheckPassword(req.Password, admin.Password) {
		utils.LogError("Invalid password for admin: %s", admin.Email)
		utils.Unauthorized(c, "Invalid credentials")
		return
	}

	admin.LastLogin = time.Now()
	if err := config.DB.Model(&admin).Update("last_login", admin.LastLogin).Error; err != nil {
		utils.LogError("Failed to update last login for admin: %s: %v", admin.Email, err)
	}

	token, expiresAt, err := utils.GenerateAdminToken(&admin)
	if err != nil {
		utils.LogError("Failed to sign JWT token for admin: %s: %v", admin.Email, err)
		utils.InternalServerError(c, "Failed to generate token", nil)
		return
	}

	utils.LogInfo("Admin login successful: %s", admin.Email)
	utils.Success(c, utils.MsgLoginSuccess, gin.H{
		"token":      token,
		"expires_at": expiresAt.Unix(),
		"admin": gin.H{
			"id":    admin.ID,
			"email": admin.Email,
			"name":  admin.Name,
		},
	})
}

// AdminSession reports the admin and the expiry of the presented token
func AdminSession(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}
	value, _ := c.Get(middleware.ContextTokenClaims)
	claims, ok := value.(*utils.TokenClaims)
	if !ok {
		utils.Unauthorized(c, utils.ErrInvalidToken)
		return
	}
	utils.Success(c, "Session active", gin.H{
		"admin":      gin.H{"id": admin.ID, "email": admin.Email, "name": admin.Name},
		"expires_at": claims.ExpiresAt.Unix(),
		"expires_in": int(time.Until(claims.ExpiresAt).Seconds()),
	})
}

// CreateSampleAdmin makes sure the configured admin account exists
func CreateSampleAdmin(cfg *config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		utils.LogInfo("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}
	email := utils.NormalizeEmail(cfg.AdminEmail)

	var count int64
	if err := config.DB.Model(&models.Admin{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		utils.LogDebug("Admin %s already exists", email)
		return nil
	}

	hashedPassword, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		utils.LogError("Failed to hash admin password: %v", err)
		return err
	}
	admin := models.Admin{
		Email:    email,
		Password: hashedPassword,
		Name:     "Administrator",
		IsActive: true,
	}
	if err := config.DB.Create(&admin).Error; err != nil {
		utils.LogError("Failed to create sample admin: %v", err)
		return err
	}
	utils.LogInfo("Created admin account: %s", admin.Email)
	return nil
}
