package controllers

import (
	"errors"

	"github.com/Govind-619/Threadly/config"
	"github.com/Govind-619/Threadly/models"
	"github.com/Govind-619/Threadly/utils"
	"github.com/gin-gonic/gin"
)

// ForgotPassword emails a reset code. The response is the same whether or not the account exists.
func ForgotPassword(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Password reset attempt failed - Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request format", "Please provide a valid email address")
		return
	}
	req.Email = utils.NormalizeEmail(req.Email)
	if valid, msg := utils.ValidateEmail(req.Email); !valid {
		utils.BadRequest(c, "Invalid email", msg)
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err == nil && !user.IsBlocked {
		err := issueOTP(c.Request.Context(), utils.OTPPurposeReset, req.Email, nil)
		switch {
		case errors.Is(err, errOTPCooldown):
			utils.LogDebug("Password reset OTP for %s still cooling down", req.Email)
		case err != nil:
			utils.LogError("Failed to send reset OTP to %s: %v", req.Email, err)
			utils.InternalServerError(c, "Failed to send OTP", nil)
			return
		default:
			utils.LogInfo("Password reset OTP sent to %s", req.Email)
		}
	} else {
		utils.LogDebug("Password reset requested for unknown or blocked email: %s", req.Email)
	}

	utils.Success(c, utils.MsgOTPSentIfAccount, nil)
}

// ResetPasswordRequest represents the reset password request body
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ResetPassword sets a new password after verifying the reset code
func ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", "Please provide email, OTP and new password")
		return
	}
	req.Email = utils.NormalizeEmail(req.Email)
	if valid, msg := utils.ValidatePassword(req.NewPassword); !valid {
		utils.BadRequest(c, "Invalid password", msg)
		return
	}
	if !utils.ValidateOTPFormat(req.OTP) {
		utils.BadRequest(c, utils.ErrInvalidOTP, "OTP must be 6 digits")
		return
	}

	if _, err := utils.OTPs.Verify(c.Request.Context(), utils.OTPPurposeReset, req.Email, req.OTP); err != nil {
		utils.LogError("Password reset OTP verification failed for %s: %v", req.Email, err)
		respondOTPError(c, err)
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		utils.InternalServerError(c, "Failed to process password", nil)
		return
	}
	if err := config.DB.Model(&user).Update("password", hash).Error; err != nil {
		utils.LogError("Failed to update password for %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to update password", nil)
		return
	}

	utils.LogInfo("Password reset for %s", req.Email)
	utils.Success(c, utils.MsgPasswordReset, nil)
}
