package controllers

import (
	"github.com/Govind-619/Threadly/config"
	"github.com/Govind-619/Threadly/utils"
	"github.com/gin-gonic/gin"
)

// GetProfile returns the signed-in user
func GetProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	utils.Success(c, "Profile retrieved successfully", gin.H{"user": userResponse(user)})
}

// UpdateProfileRequest represents the editable profile fields
type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

// UpdateProfile changes the user's name and phone
func UpdateProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	updates := map[string]interface{}{}
	var errs utils.FieldValidationErrors
	if req.Name != nil {
		name := utils.SanitizeString(*req.Name)
		if valid, msg := utils.ValidateName(name); !valid {
			errs = append(errs, utils.FieldValidationError{Field: "name", Message: msg})
		} else {
			updates["name"] = name
		}
	}
	if req.Phone != nil {
		if valid, msg := utils.ValidatePhone(*req.Phone); !valid {
			errs = append(errs, utils.FieldValidationError{Field: "phone", Message: msg})
		} else {
			updates["phone"] = msg
		}
	}
	if len(errs) > 0 {
		utils.BadRequest(c, "Validation failed", errs)
		return
	}
	if len(updates) == 0 {
		utils.BadRequest(c, "Nothing to update", nil)
		return
	}

	if err := config.DB.Model(&user).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update profile for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to update profile", nil)
		return
	}
	if err := config.DB.First(&user, user.ID).Error; err != nil {
		utils.InternalServerError(c, "Failed to reload profile", nil)
		return
	}

	utils.LogInfo("Profile updated for user %d", user.ID)
	utils.Success(c, "Profile updated successfully", gin.H{"user": userResponse(user)})
}
