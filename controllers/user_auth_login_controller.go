package controllers

import (
	"errors"

	"github.com/Govind-619/Threadly/config"
	"github.com/Govind-619/Threadly/middleware"
	"github.com/Govind-619/Threadly/models"
	"github.com/Govind-619/Threadly/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginUser handles email and password login
func LoginUser(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Login attempt failed - Invalid request format: %v", err)
		utils.BadRequest(c, utils.ErrInvalidCredentials, err.Error())
		return
	}
	req.Email = utils.NormalizeEmail(req.Email)

	if valid, msg := utils.ValidateEmail(req.Email); !valid {
		utils.LogError("Login attempt failed - Invalid email format: %s", req.Email)
		utils.BadRequest(c, "Invalid email", msg)
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		utils.LogError("Login attempt failed - User not found: %s", req.Email)
		utils.Unauthorized(c, utils.ErrInvalidCredentials)
		return
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		utils.LogError("Login attempt failed - Invalid password for user: %s", req.Email)
		utils.Unauthorized(c, utils.ErrInvalidCredentials)
		return
	}

	if user.IsBlocked {
		utils.LogError("Login attempt failed - Blocked account: %s", req.Email)
		utils.Forbidden(c, utils.ErrUserBlocked)
		return
	}

	completeLogin(c, &user, utils.MsgLoginSuccess)
}

// EmailRequest carries a single email address
type EmailRequest struct {
	Email string `json:"email" binding:"required"`
}

// RequestLoginOTP emails a one-time login code to a registered user
func RequestLoginOTP(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", "Please provide your email")
		return
	}
	req.Email = utils.NormalizeEmail(req.Email)
	if valid, msg := utils.ValidateEmail(req.Email); !valid {
		utils.BadRequest(c, "Invalid email", msg)
		return
	}

	var user models.User
	err := config.DB.Where("email = ?", req.Email).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.LogError("Login OTP lookup failed for %s: %v", req.Email, err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}
	if err != nil || user.IsBlocked {
		utils.LogDebug("Login OTP requested for unknown or blocked email: %s", req.Email)
		utils.Success(c, utils.MsgOTPSentIfAccount, gin.H{"expires_in": int(config.Cfg.OTPTTL.Seconds())})
		return
	}

	if err := issueOTP(c.Request.Context(), utils.OTPPurposeLogin, req.Email, nil); err != nil {
		utils.LogError("Failed to send login OTP to %s: %v", req.Email, err)
		respondIssueError(c, err, "Failed to send OTP")
		return
	}
	utils.Success(c, utils.MsgOTPSentIfAccount, gin.H{"expires_in": int(config.Cfg.OTPTTL.Seconds())})
}

// VerifyLoginOTP signs a user in with an emailed code
func VerifyLoginOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", "Please provide email and OTP")
		return
	}
	req.Email = utils.NormalizeEmail(req.Email)
	if !utils.ValidateOTPFormat(req.OTP) {
		utils.BadRequest(c, utils.ErrInvalidOTP, "OTP must be 6 digits")
		return
	}

	if _, err := utils.OTPs.Verify(c.Request.Context(), utils.OTPPurposeLogin, req.Email, req.OTP); err != nil {
		utils.LogError("Login OTP verification failed for %s: %v", req.Email, err)
		respondOTPError(c, err)
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		utils.Unauthorized(c, utils.ErrInvalidCredentials)
		return
	}
	if user.IsBlocked {
		utils.Forbidden(c, utils.ErrUserBlocked)
		return
	}
	if !user.IsVerified {
		if err := config.DB.Model(&user).Update("is_verified", true).Error; err != nil {
			utils.LogError("Failed to mark %s verified after OTP login: %v", user.Email, err)
		} else {
			user.IsVerified = true
		}
	}

	completeLogin(c, &user, utils.MsgLoginSuccess)
}

// LogoutUser blacklists the presented token until it would have expired
func LogoutUser(c *gin.Context) {
	token := c.GetString(middleware.ContextToken)
	value, _ := c.Get(middleware.ContextTokenClaims)
	claims, ok := value.(*utils.TokenClaims)
	if token == "" || !ok {
		utils.Unauthorized(c, utils.ErrLoginRequired)
		return
	}

	if err := config.DB.Create(&models.BlacklistedToken{Token: token, ExpiresAt: claims.ExpiresAt}).Error; err != nil {
		utils.LogError("Failed to blacklist token for subject %d: %v", claims.SubjectID, err)
		utils.InternalServerError(c, "Failed to logout", nil)
		return
	}

	utils.LogInfo("Subject %d (%s) logged out", claims.SubjectID, claims.Role)
	utils.Success(c, utils.MsgLogoutSuccess, nil)
}
