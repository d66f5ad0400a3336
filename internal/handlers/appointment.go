package handlers

import (
	"strings"
	"time"

	"devzora-control-center/internal/database"
	"devzora-control-center/internal/middleware"
	"devzora-control-center/internal/models"

	"github.com/gin-gonic/gin"
)

func ListAppointments(c *gin.Context) {
	q := database.DB.
		Preload("Client").
		Preload("Project").
		Preload("Owner").
		Order("date asc")

	if clientID := c.Query("clientId"); clientID != "" {
		q = q.Where("client_id = ?", clientID)
	}
	if projectID := c.Query("projectId"); projectID != "" {
		q = q.Where("project_id = ?", projectID)
	}
	if ownerID := c.Query("ownerId"); ownerID != "" {
		q = q.Where("owner_id = ?", ownerID)
	}
	if startDate := c.Query("startDate"); startDate != "" {
		t, err := parseDate(startDate)
		if err != nil {
			badRequest(c, "Invalid start date")
			return
		}
		q = q.Where("date >= ?", startOfDay(t))
	}
	if endDate := c.Query("endDate"); endDate != "" {
		t, err := parseDate(endDate)
		if err != nil {
			badRequest(c, "Invalid end date")
			return
		}
		q = q.Where("date <= ?", endOfDay(t))
	}

	var appointments []models.Appointment
	if err := q.Find(&appointments).Error; err != nil {
		internalError(c, err)
		return
	}

	respondOK(c, gin.H{"appointments": appointments})
}

// GetMyWeek lists the caller's appointments for the current Monday-Sunday
// week.
func GetMyWeek(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	now := time.Now()

	var appointments []models.Appointment
	err := database.DB.
		Preload("Client").
		Preload("Project").
		Where("owner_id = ?", user.ID).
		Where("date >= ? AND date <= ?", startOfWeek(now), endOfWeek(now)).
		Order("date asc").
		Find(&appointments).Error
	if err != nil {
		internalError(c, err)
		return
	}

	respondOK(c, gin.H{"appointments": appointments})
}

func GetAppointment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var appointment models.Appointment
	err := database.DB.
		Preload("Client").
		Preload("Project").
		Preload("Owner").
		First(&appointment, id).Error
	if err != nil {
		notFound(c, "Appointment")
		return
	}

	respondOK(c, gin.H{"appointment": appointment})
}

type appointmentRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	Location    *string `json:"location"`
	ClientID    *uint   `json:"clientId"`
	ProjectID   *uint   `json:"projectId"`
	OwnerID     *uint   `json:"ownerId"`
}

func CreateAppointment(c *gin.Context) {
	var req appointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	if req.Title == nil || strings.TrimSpace(*req.Title) == "" || req.Date == nil || *req.Date == "" {
		badRequest(c, "Title and date are required")
		return
	}

	date, err := parseDate(*req.Date)
	if err != nil {
		badRequest(c, "Invalid date")
		return
	}

	user, _ := middleware.CurrentUser(c)
	ownerID := user.ID
	if req.OwnerID != nil && *req.OwnerID != 0 {
		ownerID = *req.OwnerID
	}

	appointment := models.Appointment{
		Title:     strings.TrimSpace(*req.Title),
		Date:      date,
		OwnerID:   ownerID,
		ClientID:  req.ClientID,
		ProjectID: req.ProjectID,
	}
	if req.Description != nil {
		appointment.Description = *req.Description
	}
	if req.Location != nil {
		appointment.Location = strings.TrimSpace(*req.Location)
	}

	if err := database.DB.Create(&appointment).Error; err != nil {
		internalError(c, err)
		return
	}

	auditAs(c, "appointment", appointment.ID, "create", "Created appointment: "+appointment.Title)
	invalidateDashboard(c)

	respondCreated(c, "Appointment created successfully", gin.H{"appointment": appointment})
}

func UpdateAppointment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var appointment models.Appointment
	if err := database.DB.First(&appointment, id).Error; err != nil {
		notFound(c, "Appointment")
		return
	}

	var req appointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			badRequest(c, "Title and date are required")
			return
		}
		appointment.Title = strings.TrimSpace(*req.Title)
	}
	if req.Date != nil && *req.Date != "" {
		t, err := parseDate(*req.Date)
		if err != nil {
			badRequest(c, "Invalid date")
			return
		}
		appointment.Date = t
	}
	if req.Description != nil {
		appointment.Description = *req.Description
	}
	if req.Location != nil {
		appointment.Location = strings.TrimSpace(*req.Location)
	}
	if req.ClientID != nil {
		appointment.ClientID = req.ClientID
	}
	if req.ProjectID != nil {
		appointment.ProjectID = req.ProjectID
	}
	if req.OwnerID != nil && *req.OwnerID != 0 {
		appointment.OwnerID = *req.OwnerID
	}

	if err := database.DB.Save(&appointment).Error; err != nil {
		internalError(c, err)
		return
	}

	auditAs(c, "appointment", appointment.ID, "update", "Updated appointment: "+appointment.Title)
	invalidateDashboard(c)

	respondUpdated(c, "Appointment updated successfully", gin.H{"appointment": appointment})
}

func DeleteAppointment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var appointment models.Appointment
	if err := database.DB.First(&appointment, id).Error; err != nil {
		notFound(c, "Appointment")
		return
	}

	if err := database.DB.Delete(&appointment).Error; err != nil {
		internalError(c, err)
		return
	}

	auditAs(c, "appointment", appointment.ID, "delete", "Deleted appointment: "+appointment.Title)
	invalidateDashboard(c)

	respondDeleted(c, "Appointment deleted successfully")
}
