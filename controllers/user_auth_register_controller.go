package controllers

import (
	"encoding/json"
	"time"

	"github.com/Govind-619/Threadly/config"
	"github.com/Govind-619/Threadly/models"
	"github.com/Govind-619/Threadly/utils"
	"github.com/gin-gonic/gin"
)

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`
}

// pendingRegistration is kept with the OTP until the email is verified
type pendingRegistration struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"password_hash"`
}

// RegisterUser validates the signup form and emails a verification OTP
func RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Registration failed - Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	req.Name = utils.SanitizeString(req.Name)
	req.Email = utils.NormalizeEmail(req.Email)

	var errs utils.FieldValidationErrors
	if valid, msg := utils.ValidateName(req.Name); !valid {
		errs = append(errs, utils.FieldValidationError{Field: "name", Message: msg})
	}
	if valid, msg := utils.ValidateEmail(req.Email); !valid {
		errs = append(errs, utils.FieldValidationError{Field: "email", Message: msg})
	}
	if req.Phone != "" {
		if valid, msg := utils.ValidatePhone(req.Phone); !valid {
			errs = append(errs, utils.FieldValidationError{Field: "phone", Message: msg})
		} else {
			req.Phone = msg
		}
	}
	if valid, msg := utils.ValidatePassword(req.Password); !valid {
		errs = append(errs, utils.FieldValidationError{Field: "password", Message: msg})
	}
	if len(errs) > 0 {
		utils.LogError("Registration failed - Validation errors for %s: %v", req.Email, errs)
		utils.BadRequest(c, "Validation failed", errs)
		return
	}

	var count int64
	if err := config.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		utils.LogError("Registration failed - Database error for %s: %v", req.Email, err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}
	if count > 0 {
		utils.LogError("Registration failed - Email already registered: %s", req.Email)
		utils.Conflict(c, "Email already registered", nil)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.LogError("Registration failed - Password hashing error for %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to process password", nil)
		return
	}

	payload, _ := json.Marshal(pendingRegistration{Name: req.Name, Phone: req.Phone, PasswordHash: hash})
	if err := issueOTP(c.Request.Context(), utils.OTPPurposeRegister, req.Email, payload); err != nil {
		utils.LogError("Registration failed - Could not send OTP to %s: %v", req.Email, err)
		respondIssueError(c, err, "Failed to send verification email")
		return
	}

	utils.LogInfo("Registration OTP sent to %s", req.Email)
	utils.Success(c, utils.MsgOTPSent, gin.H{
		"email":      req.Email,
		"expires_in": int(config.Cfg.OTPTTL.Seconds()),
	})
}

// VerifyOTPRequest represents the OTP verification request body
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

// VerifyOTP completes registration and signs the new user in
func VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("OTP verification failed - Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request format", "Please provide email and OTP")
		return
	}
	req.Email = utils.NormalizeEmail(req.Email)
	if !utils.ValidateOTPFormat(req.OTP) {
		utils.BadRequest(c, utils.ErrInvalidOTP, "OTP must be 6 digits")
		return
	}

	record, err := utils.OTPs.Verify(c.Request.Context(), utils.OTPPurposeRegister, req.Email, req.OTP)
	if err != nil {
		utils.LogError("OTP verification failed for %s: %v", req.Email, err)
		respondOTPError(c, err)
		return
	}

	var pending pendingRegistration
	if err := json.Unmarshal(record.Payload, &pending); err != nil {
		utils.LogError("OTP verification failed - Corrupt registration payload for %s: %v", req.Email, err)
		utils.BadRequest(c, "Registration expired. Please register again", nil)
		return
	}

	user := models.User{
		Name:        pending.Name,
		Email:       req.Email,
		Phone:       pending.Phone,
		Password:    pending.PasswordHash,
		IsVerified:  true,
		LastLoginAt: time.Now(),
	}
	if err := config.DB.Create(&user).Error; err != nil {
		utils.LogError("OTP verification failed - Could not create user %s: %v", req.Email, err)
		utils.Conflict(c, "Email already registered", nil)
		return
	}

	utils.LogInfo("User registered and verified: %s", user.Email)
	completeLogin(c, &user, "Email verified successfully")
}

// ResendOTPRequest represents the resend request body
type ResendOTPRequest struct {
	Email   string `json:"email" binding:"required"`
	Purpose string `json:"purpose"`
}

// ResendOTP re-issues a code for a pending registration, login or reset
func ResendOTP(c *gin.Context) {
	var req ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", "Please provide your email")
		return
	}
	req.Email = utils.NormalizeEmail(req.Email)
	if req.Purpose == "" {
		req.Purpose = utils.OTPPurposeRegister
	}
	switch req.Purpose {
	case utils.OTPPurposeRegister, utils.OTPPurposeLogin, utils.OTPPurposeReset:
	default:
		utils.BadRequest(c, "Invalid OTP purpose", nil)
		return
	}

	ctx := c.Request.Context()
	previous, err := utils.OTPs.Peek(ctx, req.Purpose, req.Email)
	if err != nil {
		utils.LogError("Resend OTP failed - No pending %s OTP for %s: %v", req.Purpose, req.Email, err)
		utils.BadRequest(c, utils.ErrOTPExpired, nil)
		return
	}

	if err := issueOTP(ctx, req.Purpose, req.Email, previous.Payload); err != nil {
		utils.LogError("Resend OTP failed for %s: %v", req.Email, err)
		respondIssueError(c, err, "Failed to send OTP")
		return
	}
	utils.LogInfo("Resent %s OTP to %s", req.Purpose, req.Email)
	utils.Success(c, utils.MsgOTPSent, gin.H{"expires_in": int(config.Cfg.OTPTTL.Seconds())})
}
