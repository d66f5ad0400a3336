package handlers

import (
	"strings"

	"devzora-control-center/internal/database"
	"devzora-control-center/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func ListBudgets(c *gin.Context) {
	q := database.DB.Preload("Project").Order("created_at desc")

	if projectID := c.Query("projectId"); projectID != "" {
		q = q.Where("project_id = ?", projectID)
	}
	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}

	var budgets []models.Budget
	if err := q.Find(&budgets).Error; err != nil {
		internalError(c, err)
		return
	}

	respondOK(c, gin.H{"budgets": budgets})
}

func GetBudget(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var budget models.Budget
	err := database.DB.
		Preload("Project").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("date asc") }).
		First(&budget, id).Error
	if err != nil {
		notFound(c, "Budget")
		return
	}

	respondOK(c, gin.H{"budget": budget})
}

type budgetRequest struct {
	Name      *string          `json:"name"`
	Amount    *decimal.Decimal `json:"amount"`
	Category  *string          `json:"category"`
	StartDate *string          `json:"startDate"`
	EndDate   *string          `json:"endDate"`
	Status    *string          `json:"status"`
	ProjectID *uint            `json:"projectId"`
}

func CreateBudget(c *gin.Context) {
	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	if req.Name == nil || strings.TrimSpace(*req.Name) == "" ||
		req.Amount == nil || req.Category == nil ||
		req.StartDate == nil || req.EndDate == nil {
		badRequest(c, "Missing required fields")
		return
	}

	startDate, err := parseDate(*req.StartDate)
	if err != nil {
		badRequest(c, "Invalid start date")
		return
	}
	endDate, err := parseDate(*req.EndDate)
	if err != nil {
		badRequest(c, "Invalid end date")
		return
	}

	budget := models.Budget{
		Name:      strings.TrimSpace(*req.Name),
		Amount:    *req.Amount,
		Spent:     decimal.Zero,
		Category:  strings.TrimSpace(*req.Category),
		StartDate: startDate,
		EndDate:   endDate,
		Status:    "ACTIVE",
	}
	if req.ProjectID != nil && *req.ProjectID != 0 {
		budget.ProjectID = req.ProjectID
	}

	if err := database.DB.Create(&budget).Error; err != nil {
		internalError(c, err)
		return
	}

	auditAs(c, "budget", budget.ID, "create", "Created budget: "+budget.Name)

	respondCreated(c, "Budget created successfully", gin.H{"budget": budget})
}

func UpdateBudget(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var budget models.Budget
	if err := database.DB.First(&budget, id).Error; err != nil {
		notFound(c, "Budget")
		return
	}

	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	if req.Name != nil {
		budget.Name = strings.TrimSpace(*req.Name)
	}
	if req.Amount != nil {
		budget.Amount = *req.Amount
	}
	if req.Category != nil {
		budget.Category = strings.TrimSpace(*req.Category)
	}
	if req.Status != nil {
		budget.Status = *req.Status
	}
	if req.StartDate != nil && *req.StartDate != "" {
		t, err := parseDate(*req.StartDate)
		if err != nil {
			badRequest(c, "Invalid start date")
			return
		}
		budget.StartDate = t
	}
	if req.EndDate != nil && *req.EndDate != "" {
		t, err := parseDate(*req.EndDate)
		if err != nil {
			badRequest(c, "Invalid end date")
			return
		}
		budget.EndDate = t
	}
	if req.ProjectID != nil {
		if *req.ProjectID == 0 {
			budget.ProjectID = nil
		} else {
			budget.ProjectID = req.ProjectID
		}
	}

	if err := database.DB.Save(&budget).Error; err != nil {
		internalError(c, err)
		return
	}

	auditAs(c, "budget", budget.ID, "update", "Updated budget: "+budget.Name)

	respondUpdated(c, "Budget updated successfully", gin.H{"budget": budget})
}

func DeleteBudget(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var budget models.Budget
	if err := database.DB.First(&budget, id).Error; err != nil {
		notFound(c, "Budget")
		return
	}

	if err := database.DB.Select("Items").Delete(&budget).Error; err != nil {
		internalError(c, err)
		return
	}

	auditAs(c, "budget", budget.ID, "delete", "Deleted budget: "+budget.Name)

	respondDeleted(c, "Budget deleted successfully")
}

type budgetItemRequest struct {
	Name   *string          `json:"name"`
	Amount *decimal.Decimal `json:"amount"`
	Date   *string          `json:"date"`
}

func CreateBudgetItem(c *gin.Context) {
	budgetID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var budget models.Budget
	if err := database.DB.First(&budget, budgetID).Error; err != nil {
		notFound(c, "Budget")
		return
	}

	var req budgetItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	if req.Name == nil || strings.TrimSpace(*req.Name) == "" || req.Amount == nil || req.Date == nil {
		badRequest(c, "Name, amount, and date are required")
		return
	}

	date, err := parseDate(*req.Date)
	if err != nil {
		badRequest(c, "Invalid date")
		return
	}

	item := models.BudgetItem{
		BudgetID: budget.ID,
		Name:     strings.TrimSpace(*req.Name),
		Amount:   *req.Amount,
		Date:     date,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		return recomputeBudgetSpent(tx, budget.ID)
	})
	if err != nil {
		internalError(c, err)
		return
	}

	auditAs(c, "budget", budget.ID, "item_create", "Added budget item: "+item.Name)

	respondCreated(c, "Budget item created successfully", gin.H{"item": item})
}

func UpdateBudgetItem(c *gin.Context) {
	budgetID, ok := parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemId")
	if !ok {
		return
	}

	var item models.BudgetItem
	if err := database.DB.
		Where("budget_id = ?", budgetID).
		First(&item, itemID).Error; err != nil {
		notFound(c, "Budget item")
		return
	}

	var req budgetItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	if req.Name != nil {
		item.Name = strings.TrimSpace(*req.Name)
	}
	if req.Amount != nil {
		item.Amount = *req.Amount
	}
	if req.Date != nil && *req.Date != "" {
		t, err := parseDate(*req.Date)
		if err != nil {
			badRequest(c, "Invalid date")
			return
		}
		item.Date = t
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		return recomputeBudgetSpent(tx, budgetID)
	})
	if err != nil {
		internalError(c, err)
		return
	}

	auditAs(c, "budget", budgetID, "item_update", "Updated budget item: "+item.Name)

	respondUpdated(c, "Budget item updated successfully", gin.H{"item": item})
}

func DeleteBudgetItem(c *gin.Context) {
	budgetID, ok := parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemId")
	if !ok {
		return
	}

	var item models.BudgetItem
	if err := database.DB.
		Where("budget_id = ?", budgetID).
		First(&item, itemID).Error; err != nil {
		notFound(c, "Budget item")
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		return recomputeBudgetSpent(tx, budgetID)
	})
	if err != nil {
		internalError(c, err)
		return
	}

	auditAs(c, "budget", budgetID, "item_delete", "Deleted budget item: "+item.Name)

	respondDeleted(c, "Budget item deleted successfully")
}

// recomputeBudgetSpent reloads the full item set and rewrites the stored
// spent figure. Runs inside the same transaction as the item change, so
// spent can never drift from the items.
func recomputeBudgetSpent(tx *gorm.DB, budgetID uint) error {
	var items []models.BudgetItem
	if err := tx.Where("budget_id = ?", budgetID).Find(&items).Error; err != nil {
		return err
	}

	spent := decimal.Zero
	for _, item := range items {
		spent = spent.Add(item.Amount)
	}

	return tx.Model(&models.Budget{}).
		Where("id = ?", budgetID).
		Update("spent", spent).Error
}
