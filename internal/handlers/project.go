package handlers

import (
	"math"
	"strings"
	"time"

	"devzora-control-center/internal/database"
	"devzora-control-center/internal/middleware"
	"devzora-control-center/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ListProjects(c *gin.Context) {
	q := database.DB.Preload("Client").Preload("Owner").Order("created_at desc")

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if ownerID := c.Query("ownerId"); ownerID != "" {
		q = q.Where("owner_id = ?", ownerID)
	}
	if clientID := c.Query("clientId"); clientID != "" {
		q = q.Where("client_id = ?", clientID)
	}

	var projects []models.Project
	if err := q.Find(&projects).Error; err != nil {
		internalError(c, err)
		return
	}

	respondOK(c, gin.H{"projects": projects})
}

func GetProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var project models.Project
	err := database.DB.
		Preload("Client").
		Preload("Owner").
		Preload("Milestones", func(db *gorm.DB) *gorm.DB { return db.Order("due_date asc") }).
		Preload("Appointments", func(db *gorm.DB) *gorm.DB { return db.Order("date asc") }).
		First(&project, id).Error
	if err != nil {
		notFound(c, "Project")
		return
	}

	respondOK(c, gin.H{"project": project})
}

type milestoneInput struct {
	Name    string `json:"name"`
	DueDate string `json:"dueDate"`
}

type createProjectRequest struct {
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	ClientID      uint             `json:"clientId"`
	OwnerID       uint             `json:"ownerId"`
	StartDate     string           `json:"startDate"`
	TargetEndDate string           `json:"targetEndDate"`
	Milestones    []milestoneInput `json:"milestones"`
}

func CreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	// owner defaults to the caller
	if req.OwnerID == 0 {
		if user, ok := middleware.CurrentUser(c); ok {
			req.OwnerID = user.ID
		}
	}

	if strings.TrimSpace(req.Name) == "" || req.ClientID == 0 || req.OwnerID == 0 || req.StartDate == "" {
		badRequest(c, "Name, client, owner, and start date are required")
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		badRequest(c, "Invalid start date")
		return
	}

	var targetEnd *time.Time
	if req.TargetEndDate != "" {
		t, err := parseDate(req.TargetEndDate)
		if err != nil {
			badRequest(c, "Invalid target end date")
			return
		}
		targetEnd = &t
	}

	var client models.Client
	if err := database.DB.First(&client, req.ClientID).Error; err != nil {
		notFound(c, "Client")
		return
	}

	project := models.Project{
		ClientID:      client.ID,
		OwnerID:       req.OwnerID,
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		StartDate:     startDate,
		TargetEndDate: targetEnd,
		Status:        models.StatusGreen,
	}
	for _, m := range req.Milestones {
		due, err := parseDate(m.DueDate)
		if err != nil {
			badRequest(c, "Invalid milestone due date")
			return
		}
		project.Milestones = append(project.Milestones, models.Milestone{
			Name:    strings.TrimSpace(m.Name),
			DueDate: due,
		})
	}

	if err := database.DB.Create(&project).Error; err != nil {
		internalError(c, err)
		return
	}

	auditAs(c, "project", project.ID, "create", "Created project: "+project.Name)
	invalidateDashboard(c)

	respondCreated(c, "Project created successfully", gin.H{"project": project})
}

type updateProjectRequest struct {
	Name          *string               `json:"name"`
	Description   *string               `json:"description"`
	Status        *models.ProjectStatus `json:"status"`
	TargetEndDate *string               `json:"targetEndDate"`
	ActualEndDate *string               `json:"actualEndDate"`
}

func UpdateProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var project models.Project
	if err := database.DB.First(&project, id).Error; err != nil {
		notFound(c, "Project")
		return
	}

	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			badRequest(c, "Project name is required")
			return
		}
		project.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		// the only path that can set ON_HOLD
		if !models.ValidProjectStatus(*req.Status) {
			badRequest(c, "Invalid project status")
			return
		}
		project.Status = *req.Status
	}
	if req.TargetEndDate != nil && *req.TargetEndDate != "" {
		t, err := parseDate(*req.TargetEndDate)
		if err != nil {
			badRequest(c, "Invalid target end date")
			return
		}
		project.TargetEndDate = &t
	}
	if req.ActualEndDate != nil && *req.ActualEndDate != "" {
		t, err := parseDate(*req.ActualEndDate)
		if err != nil {
			badRequest(c, "Invalid actual end date")
			return
		}
		project.ActualEndDate = &t
	}

	if err := database.DB.Save(&project).Error; err != nil {
		internalError(c, err)
		return
	}

	auditAs(c, "project", project.ID, "update", "Updated project: "+project.Name)
	invalidateDashboard(c)

	respondUpdated(c, "Project updated successfully", gin.H{"project": project})
}

type progressRequest struct {
	MilestoneIDs []uint `json:"milestoneIds"`
	LatestUpdate string `json:"latestUpdate"`
}

// UpdateProjectProgress marks milestones completed, recomputes the stored
// percent-complete, and re-derives the traffic-light status, all in one
// transaction so milestones never end up completed against a stale status.
func UpdateProjectProgress(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	now := time.Now()
	var project models.Project

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&project, id).Error; err != nil {
			return err
		}

		if len(req.MilestoneIDs) > 0 {
			if err := tx.Model(&models.Milestone{}).
				Where("project_id = ? AND id IN ?", project.ID, req.MilestoneIDs).
				Updates(map[string]any{
					"is_completed": true,
					"completed_at": now,
				}).Error; err != nil {
				return err
			}
		}

		var milestones []models.Milestone
		if err := tx.Where("project_id = ?", project.ID).Find(&milestones).Error; err != nil {
			return err
		}

		completed := 0
		for _, m := range milestones {
			if m.IsCompleted {
				completed++
			}
		}

		percent := percentComplete(completed, len(milestones))
		status := deriveProjectStatus(percent, project.TargetEndDate, now)

		return tx.Model(&project).Updates(map[string]any{
			"percent_complete": percent,
			"status":           status,
			"latest_update":    req.LatestUpdate,
		}).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			notFound(c, "Project")
			return
		}
		internalError(c, err)
		return
	}

	if err := database.DB.
		Preload("Milestones", func(db *gorm.DB) *gorm.DB { return db.Order("due_date asc") }).
		First(&project, id).Error; err != nil {
		internalError(c, err)
		return
	}

	auditAs(c, "project", project.ID, "progress", "Progress recorded: "+req.LatestUpdate)
	invalidateDashboard(c)

	respondUpdated(c, "Project progress updated successfully", gin.H{"project": project})
}

func percentComplete(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// deriveProjectStatus maps progress and the target end date to a
// traffic-light status. Past the target date only AMBER (nearly done) or
// RED are possible; ON_HOLD is never derived, it is set manually.
func deriveProjectStatus(percent int, targetEnd *time.Time, now time.Time) models.ProjectStatus {
	if targetEnd != nil && now.After(*targetEnd) {
		if percent >= 90 {
			return models.StatusAmber
		}
		return models.StatusRed
	}

	switch {
	case percent == 100:
		return models.StatusCompleted
	case percent >= 75:
		return models.StatusGreen
	case percent >= 50:
		return models.StatusAmber
	default:
		return models.StatusRed
	}
}

func DeleteProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var project models.Project
	if err := database.DB.First(&project, id).Error; err != nil {
		notFound(c, "Project")
		return
	}

	if err := database.DB.Delete(&project).Error; err != nil {
		internalError(c, err)
		return
	}

	auditAs(c, "project", project.ID, "delete", "Deleted project: "+project.Name)
	invalidateDashboard(c)

	respondDeleted(c, "Project deleted successfully")
}
