package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/Govind-619/Threadly/config"
	"github.com/Govind-619/Threadly/models"
	"github.com/Govind-619/Threadly/utils"
	"github.com/gin-gonic/gin"
)

// resendCooldown is the minimum gap between two codes for the same email and purpose
const resendCooldown = 30 * time.Second

func otpMinutes() int {
	minutes := int(config.Cfg.OTPTTL.Minutes())
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// errOTPCooldown is returned by issueOTP when the previous code is younger than resendCooldown
var errOTPCooldown = errors.New("otp requested too soon")

// issueOTP generates a code, stores it with the payload and mails it.
// Misses against a still-live code carry over to the new one.
func issueOTP(ctx context.Context, purpose, email string, payload []byte) error {
	var attempts int
	previous, err := utils.OTPs.Peek(ctx, purpose, email)
	switch {
	case err == nil:
		if time.Since(previous.IssuedAt) < resendCooldown {
			return errOTPCooldown
		}
		attempts = previous.Attempts
	case !errors.Is(err, utils.ErrOTPNotFound):
		return err
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		return err
	}
	record := utils.OTPRecord{Code: otp, Payload: payload, Attempts: attempts, IssuedAt: time.Now()}
	if err := utils.OTPs.Save(ctx, purpose, email, record, config.Cfg.OTPTTL); err != nil {
		return err
	}
	utils.LogDebug("Issued %s OTP for %s", purpose, email)
	return utils.SendOTP(ctx, email, purpose, otp, otpMinutes())
}

// respondIssueError answers a failed issueOTP call
func respondIssueError(c *gin.Context, err error, message string) {
	if errors.Is(err, errOTPCooldown) {
		utils.TooManyRequests(c, utils.ErrOTPCooldown)
		return
	}
	utils.InternalServerError(c, message, nil)
}

// respondOTPError maps store errors to the messages the client shows
func respondOTPError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrOTPNotFound):
		utils.BadRequest(c, utils.ErrOTPExpired, nil)
	case errors.Is(err, utils.ErrOTPTooManyAttempts):
		utils.TooManyRequests(c, utils.ErrTooManyAttempts)
	case errors.Is(err, utils.ErrOTPMismatch):
		utils.BadRequest(c, utils.ErrInvalidOTP, nil)
	default:
		utils.LogError("OTP verification failed: %v", err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
	}
}

func userResponse(user models.User) gin.H {
	return gin.H{
		"id":                  user.ID,
		"name":                user.Name,
		"email":               user.Email,
		"phone":               user.Phone,
		"is_verified":         user.IsVerified,
		"selected_address_id": user.SelectedAddressID,
	}
}

// completeLogin issues a token, stamps the login time and folds in any guest cart
func completeLogin(c *gin.Context, user *models.User, message string) {
	token, expiresAt, err := utils.GenerateToken(user)
	if err != nil {
		utils.LogError("Failed to generate token for %s: %v", user.Email, err)
		utils.InternalServerError(c, "Failed to generate token", nil)
		return
	}

	user.LastLoginAt = time.Now()
	if err := config.DB.Model(user).Update("last_login_at", user.LastLoginAt).Error; err != nil {
		utils.LogError("Failed to update last login time for user: %s", user.Email)
	}

	response := gin.H{
		"token":      token,
		"expires_at": expiresAt.Unix(),
		"user":       userResponse(*user),
	}

	if guestID := utils.GuestSessionID(c); guestID != "" {
		merged, err := utils.MergeCarts(config.DB, utils.CartOwnerForGuest(guestID), utils.CartOwnerForUser(user.ID))
		if err != nil {
			utils.LogError("Failed to merge guest cart %s into user %d: %v", guestID, user.ID, err)
		} else {
			utils.LogInfo("Merged %d guest cart lines into user %d", merged, user.ID)
			utils.ForgetGuestSession(c)
			response["merged_items"] = merged
		}
	}

	utils.LogInfo("User logged in: %s", user.Email)
	utils.Success(c, message, response)
}
