package handlers

import (
	"strings"
	"time"

	"devzora-control-center/internal/database"
	"devzora-control-center/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func ListSubscriptions(c *gin.Context) {
	q := database.DB.Preload("Client").Order("next_invoice_date asc")

	if clientID := c.Query("clientId"); clientID != "" {
		q = q.Where("client_id = ?", clientID)
	}
	if isActive := c.Query("isActive"); isActive != "" {
		q = q.Where("is_active = ?", isActive == "true")
	}

	var subscriptions []models.Subscription
	if err := q.Find(&subscriptions).Error; err != nil {
		internalError(c, err)
		return
	}

	respondOK(c, gin.H{"subscriptions": subscriptions})
}

// renewalView annotates a subscription with the status of its most recent
// invoice so the renewals screen can tell invoiced from not-yet-invoiced.
type renewalView struct {
	models.Subscription
	InvoiceStatus string `json:"invoiceStatus"`
}

func GetRenewals(c *gin.Context) {
	now := time.Now()

	var end time.Time
	switch c.Query("period") {
	case "week":
		end = now.AddDate(0, 0, 7)
	case "3months":
		end = addCalendarMonths(now, 3)
	default: // month
		end = addCalendarMonths(now, 1)
	}

	var subscriptions []models.Subscription
	err := database.DB.
		Preload("Client").
		Preload("Invoices", func(db *gorm.DB) *gorm.DB {
			return db.Where("status IN ?", []models.InvoiceStatus{
				models.InvoiceDraft, models.InvoiceSent, models.InvoicePaid,
			}).Order("created_at desc")
		}).
		Where("is_active = ?", true).
		Where("next_invoice_date >= ? AND next_invoice_date <= ?", startOfDay(now), endOfDay(end)).
		Order("next_invoice_date asc").
		Find(&subscriptions).Error
	if err != nil {
		internalError(c, err)
		return
	}

	renewals := make([]renewalView, 0, len(subscriptions))
	for _, sub := range subscriptions {
		status := "NOT_INVOICED"
		if len(sub.Invoices) > 0 {
			status = string(sub.Invoices[0].Status)
		}
		sub.Invoices = nil
		renewals = append(renewals, renewalView{Subscription: sub, InvoiceStatus: status})
	}

	respondOK(c, gin.H{"renewals": renewals})
}

func GetSubscription(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var subscription models.Subscription
	err := database.DB.
		Preload("Client").
		Preload("Invoices", func(db *gorm.DB) *gorm.DB { return db.Order("created_at desc") }).
		First(&subscription, id).Error
	if err != nil {
		notFound(c, "Subscription")
		return
	}

	respondOK(c, gin.H{"subscription": subscription})
}

type createSubscriptionRequest struct {
	ProductName  string              `json:"productName"`
	Plan         string              `json:"plan"`
	Amount       decimal.Decimal     `json:"amount"`
	BillingCycle models.BillingCycle `json:"billingCycle"`
	StartDate    string              `json:"startDate"`
	ClientID     uint                `json:"clientId"`
}

func CreateSubscription(c *gin.Context) {
	var req createSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.ProductName) == "" || req.Amount.IsZero() ||
		req.BillingCycle == "" || req.StartDate == "" || req.ClientID == 0 {
		badRequest(c, "Product name, amount, billing cycle, start date, and client are required")
		return
	}
	if !models.ValidBillingCycle(req.BillingCycle) {
		badRequest(c, "Invalid billing cycle")
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		badRequest(c, "Invalid start date")
		return
	}

	var client models.Client
	if err := database.DB.First(&client, req.ClientID).Error; err != nil {
		notFound(c, "Client")
		return
	}

	next, err := nextInvoiceDate(startDate, req.BillingCycle)
	if err != nil {
		badRequest(c, "Invalid billing cycle")
		return
	}

	subscription := models.Subscription{
		ClientID:        client.ID,
		ProductName:     strings.TrimSpace(req.ProductName),
		Plan:            strings.TrimSpace(req.Plan),
		Amount:          req.Amount,
		BillingCycle:    req.BillingCycle,
		StartDate:       startDate,
		NextInvoiceDate: next,
		IsActive:        true,
	}

	if err := database.DB.Create(&subscription).Error; err != nil {
		internalError(c, err)
		return
	}
	subscription.Client = &client

	auditAs(c, "subscription", subscription.ID, "create", "Created subscription: "+subscription.ProductName)
	invalidateDashboard(c)

	respondCreated(c, "Subscription created successfully", gin.H{"subscription": subscription})
}

type updateSubscriptionRequest struct {
	ProductName  *string              `json:"productName"`
	Plan         *string              `json:"plan"`
	Amount       *decimal.Decimal     `json:"amount"`
	BillingCycle *models.BillingCycle `json:"billingCycle"`
	IsActive     *bool                `json:"isActive"`
}

func UpdateSubscription(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var subscription models.Subscription
	if err := database.DB.First(&subscription, id).Error; err != nil {
		notFound(c, "Subscription")
		return
	}

	var req updateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	if req.ProductName != nil {
		subscription.ProductName = strings.TrimSpace(*req.ProductName)
	}
	if req.Plan != nil {
		subscription.Plan = strings.TrimSpace(*req.Plan)
	}
	if req.Amount != nil {
		subscription.Amount = *req.Amount
	}
	if req.BillingCycle != nil {
		if !models.ValidBillingCycle(*req.BillingCycle) {
			badRequest(c, "Invalid billing cycle")
			return
		}
		// nextInvoiceDate is left alone: it only advances when an invoice
		// is generated
		subscription.BillingCycle = *req.BillingCycle
	}
	if req.IsActive != nil {
		subscription.IsActive = *req.IsActive
	}

	if err := database.DB.Save(&subscription).Error; err != nil {
		internalError(c, err)
		return
	}

	auditAs(c, "subscription", subscription.ID, "update", "Updated subscription: "+subscription.ProductName)
	invalidateDashboard(c)

	respondUpdated(c, "Subscription updated successfully", gin.H{"subscription": subscription})
}

func DeleteSubscription(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var subscription models.Subscription
	if err := database.DB.First(&subscription, id).Error; err != nil {
		notFound(c, "Subscription")
		return
	}

	if err := database.DB.Delete(&subscription).Error; err != nil {
		internalError(c, err)
		return
	}

	auditAs(c, "subscription", subscription.ID, "delete", "Deleted subscription: "+subscription.ProductName)
	invalidateDashboard(c)

	respondDeleted(c, "Subscription deleted successfully")
}
