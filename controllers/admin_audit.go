package controllers

import (
	"strings"

	"github.com/Govind-619/Threadly/utils"
	"github.com/gin-gonic/gin"
)

var auditEntities = map[string]bool{"product": true, "order": true, "user": true}

// AdminListAuditLogs returns the latest audit entries, optionally for one entity type
func AdminListAuditLogs(c *gin.Context) {
	entity := strings.ToLower(strings.TrimSpace(c.Query("entity")))
	if entity != "" && !auditEntities[entity] {
		utils.BadRequest(c, "Invalid entity filter", "Use product, order or user")
		return
	}
	limit := utils.NewPagination(c).Limit

	entries, err := utils.Audit.Recent(c.Request.Context(), entity, limit)
	if err != nil {
		utils.LogError("Failed to read audit log: %v", err)
		utils.InternalServerError(c, "Failed to fetch audit log", nil)
		return
	}
	if entries == nil {
		entries = []utils.AuditEntry{}
	}
	utils.Success(c, "Audit log retrieved successfully", gin.H{"entries": entries})
}
