package controllers

import (
	"strconv"

	"github.com/Govind-619/Threadly/middleware"
	"github.com/Govind-619/Threadly/models"
	"github.com/Govind-619/Threadly/utils"
	"github.com/gin-gonic/gin"
)

// currentUser returns the user loaded by AuthMiddleware
func currentUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get(middleware.ContextUser)
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, utils.ErrLoginRequired)
		return models.User{}, false
	}
	user, ok := value.(models.User)
	if !ok {
		utils.LogError("Invalid user type in context")
		utils.InternalServerError(c, "Invalid user type", nil)
		return models.User{}, false
	}
	return user, true
}

// currentAdmin returns the admin loaded by AdminAuthMiddleware
func currentAdmin(c *gin.Context) (models.Admin, bool) {
	value, exists := c.Get(middleware.ContextAdmin)
	if !exists {
		utils.Unauthorized(c, "Admin not found in context")
		return models.Admin{}, false
	}
	admin, ok := value.(models.Admin)
	if !ok {
		utils.InternalServerError(c, "Invalid admin type", nil)
		return models.Admin{}, false
	}
	return admin, true
}

// paramID parses a positive numeric path parameter
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.LogError("Invalid %s parameter: %s", name, c.Param(name))
		utils.BadRequest(c, "Invalid "+name, nil)
		return 0, false
	}
	return uint(id), true
}

func requestID(c *gin.Context) string {
	return c.GetString("RequestID")
}

func adminActor(admin models.Admin) string {
	return "admin:" + admin.Email
}
