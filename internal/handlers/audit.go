package handlers

import (
	"devzora-control-center/internal/database"
	"devzora-control-center/internal/models"

	"github.com/gin-gonic/gin"
)

// ListAuditLogs returns the most recent audit-trail entries. Routing
// restricts this to admins.
func ListAuditLogs(c *gin.Context) {
	var logs []models.AuditLog
	err := database.DB.
		Preload("User").
		Order("created_at desc").
		Limit(200).
		Find(&logs).Error
	if err != nil {
		internalError(c, err)
		return
	}

	respondOK(c, gin.H{"logs": logs})
}
