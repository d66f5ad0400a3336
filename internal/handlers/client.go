package handlers

import (
	"strconv"
	"strings"

	"devzora-control-center/internal/database"
	"devzora-control-center/internal/middleware"
	"devzora-control-center/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		badRequest(c, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}

func ListClients(c *gin.Context) {
	q := database.DB.Model(&models.Client{}).Order("created_at desc")

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(phone) LIKE ?",
			pattern, pattern, pattern)
	}
	if isActive := c.Query("isActive"); isActive != "" {
		q = q.Where("is_active = ?", isActive == "true")
	}

	var clients []models.Client
	if err := q.Find(&clients).Error; err != nil {
		internalError(c, err)
		return
	}

	respondOK(c, gin.H{"clients": clients})
}

func GetClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var client models.Client
	err := database.DB.
		Preload("Projects", func(db *gorm.DB) *gorm.DB { return db.Order("created_at desc") }).
		Preload("Projects.Owner").
		Preload("Projects.Milestones").
		Preload("Subscriptions", "is_active = ?", true).
		Preload("Invoices", func(db *gorm.DB) *gorm.DB { return db.Order("created_at desc") }).
		Preload("Invoices.Subscription").
		Preload("Invoices.CreatedBy").
		Preload("Appointments", func(db *gorm.DB) *gorm.DB { return db.Order("date asc") }).
		Preload("Appointments.Project").
		Preload("Appointments.Owner").
		First(&client, id).Error
	if err != nil {
		notFound(c, "Client")
		return
	}

	respondOK(c, gin.H{"client": client})
}

type clientRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Industry *string `json:"industry"`
	Address  *string `json:"address"`
	City     *string `json:"city"`
	Country  *string `json:"country"`
	Notes    *string `json:"notes"`
	IsActive *bool   `json:"isActive"`
}

func CreateClient(c *gin.Context) {
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		badRequest(c, "Client name is required")
		return
	}

	client := models.Client{
		Name:     strings.TrimSpace(*req.Name),
		IsActive: true,
	}
	applyClientFields(&client, req)

	if err := database.DB.Create(&client).Error; err != nil {
		internalError(c, err)
		return
	}

	auditAs(c, "client", client.ID, "create", "Created client: "+client.Name)
	invalidateDashboard(c)

	respondCreated(c, "Client created successfully", gin.H{"client": client})
}

func UpdateClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var client models.Client
	if err := database.DB.First(&client, id).Error; err != nil {
		notFound(c, "Client")
		return
	}

	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			badRequest(c, "Client name is required")
			return
		}
		client.Name = strings.TrimSpace(*req.Name)
	}
	applyClientFields(&client, req)

	if err := database.DB.Save(&client).Error; err != nil {
		internalError(c, err)
		return
	}

	auditAs(c, "client", client.ID, "update", "Updated client: "+client.Name)
	invalidateDashboard(c)

	respondUpdated(c, "Client updated successfully", gin.H{"client": client})
}

func applyClientFields(client *models.Client, req clientRequest) {
	if req.Email != nil {
		client.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		client.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Industry != nil {
		client.Industry = strings.TrimSpace(*req.Industry)
	}
	if req.Address != nil {
		client.Address = strings.TrimSpace(*req.Address)
	}
	if req.City != nil {
		client.City = strings.TrimSpace(*req.City)
	}
	if req.Country != nil {
		client.Country = strings.TrimSpace(*req.Country)
	}
	if req.Notes != nil {
		client.Notes = *req.Notes
	}
	if req.IsActive != nil {
		client.IsActive = *req.IsActive
	}
}

func DeleteClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var client models.Client
	if err := database.DB.First(&client, id).Error; err != nil {
		notFound(c, "Client")
		return
	}

	if err := database.DB.Delete(&client).Error; err != nil {
		internalError(c, err)
		return
	}

	auditAs(c, "client", client.ID, "delete", "Deleted client: "+client.Name)
	invalidateDashboard(c)

	respondDeleted(c, "Client deleted successfully")
}

// auditAs records an audit entry attributed to the current user.
func auditAs(c *gin.Context, entity string, entityID uint, action, details string) {
	if user, ok := middleware.CurrentUser(c); ok {
		database.Audit(user.ID, entity, entityID, action, details)
	}
}
