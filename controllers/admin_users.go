package controllers

import (
	"errors"
	"strings"

	"github.com/Govind-619/Threadly/config"
	"github.com/Govind-619/Threadly/models"
	"github.com/Govind-619/Threadly/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminListUsers lists customers with search and pagination
func AdminListUsers(c *gin.Context) {
	query := config.DB.Model(&models.User{})
	if search := strings.TrimSpace(c.Query("q")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ?", like, like)
	}
	switch c.Query("blocked") {
	case "true":
		query = query.Where("is_blocked = ?", true)
	case "false":
		query = query.Where("is_blocked = ?", false)
	}

	p := utils.NewPagination(c)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count users: %v", err)
		utils.InternalServerError(c, "Failed to fetch users", nil)
		return
	}
	p.SetTotal(total)

	var users []models.User
	if err := query.Order("created_at DESC, id DESC").Offset(p.Offset).Limit(p.Limit).Find(&users).Error; err != nil {
		utils.LogError("Failed to fetch users: %v", err)
		utils.InternalServerError(c, "Failed to fetch users", nil)
		return
	}

	list := make([]gin.H, 0, len(users))
	for _, user := range users {
		entry := userResponse(user)
		entry["is_blocked"] = user.IsBlocked
		entry["created_at"] = user.CreatedAt
		entry["last_login_at"] = user.LastLoginAt
		list = append(list, entry)
	}
	utils.SuccessWithPagination(c, "Users retrieved successfully", gin.H{"users": list}, p)
}

// UserBlockRequest represents the block toggle body
type UserBlockRequest struct {
	Blocked *bool `json:"blocked" binding:"required"`
}

// AdminSetUserBlocked blocks or unblocks a customer
func AdminSetUserBlocked(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req UserBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "blocked is required", err.Error())
		return
	}

	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "User not found")
			return
		}
		utils.InternalServerError(c, "Failed to fetch user", nil)
		return
	}

	if err := config.DB.Model(&user).Update("is_blocked", *req.Blocked).Error; err != nil {
		utils.LogError("Failed to update block status for user %d: %v", id, err)
		utils.InternalServerError(c, "Failed to update user", nil)
		return
	}

	action := "unblock"
	if *req.Blocked {
		action = "block"
	}
	utils.RecordAudit(c.Request.Context(), utils.AuditEntry{
		Actor:     adminActor(admin),
		Action:    action,
		Entity:    "user",
		EntityIDs: []uint{user.ID},
		RequestID: requestID(c),
	})
	utils.LogInfo("User %s %sed by %s", user.Email, action, admin.Email)
	utils.Success(c, "User "+action+"ed successfully", gin.H{"id": user.ID, "is_blocked": *req.Blocked})
}
