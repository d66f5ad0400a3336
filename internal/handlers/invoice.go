package handlers

import (
	"errors"
	"io"
	"time"

	"devzora-control-center/internal/database"
	"devzora-control-center/internal/middleware"
	"devzora-control-center/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func ListInvoices(c *gin.Context) {
	q := database.DB.
		Preload("Client").
		Preload("Subscription").
		Preload("CreatedBy").
		Preload("Items").
		Order("created_at desc")

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if clientID := c.Query("clientId"); clientID != "" {
		q = q.Where("client_id = ?", clientID)
	}
	if c.Query("overdue") == "true" {
		q = q.Where("status = ? AND due_date < ?", models.InvoiceOverdue, time.Now())
	}

	var invoices []models.Invoice
	if err := q.Find(&invoices).Error; err != nil {
		internalError(c, err)
		return
	}

	respondOK(c, gin.H{"invoices": invoices})
}

func GetInvoice(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var invoice models.Invoice
	err := database.DB.
		Preload("Client").
		Preload("Subscription").
		Preload("CreatedBy").
		Preload("Items").
		First(&invoice, id).Error
	if err != nil {
		notFound(c, "Invoice")
		return
	}

	respondOK(c, gin.H{"invoice": invoice})
}

type invoiceItemInput struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

type createInvoiceRequest struct {
	ClientID       uint               `json:"clientId"`
	SubscriptionID *uint              `json:"subscriptionId"`
	IssueDate      string             `json:"issueDate"`
	DueDate        string             `json:"dueDate"`
	Items          []invoiceItemInput `json:"items"`
	Tax            decimal.Decimal    `json:"tax"`
	Notes          string             `json:"notes"`
}

func CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	if req.ClientID == 0 || len(req.Items) == 0 {
		badRequest(c, "Client and at least one item are required")
		return
	}

	var client models.Client
	if err := database.DB.First(&client, req.ClientID).Error; err != nil {
		notFound(c, "Client")
		return
	}

	now := time.Now()
	issueDate, dueDate := now, now
	if req.IssueDate != "" {
		t, err := parseDate(req.IssueDate)
		if err != nil {
			badRequest(c, "Invalid issue date")
			return
		}
		issueDate = t
	}
	if req.DueDate != "" {
		t, err := parseDate(req.DueDate)
		if err != nil {
			badRequest(c, "Invalid due date")
			return
		}
		dueDate = t
	}

	// item amounts are caller-supplied; subtotal is their plain sum
	subtotal := decimal.Zero
	items := make([]models.InvoiceItem, 0, len(req.Items))
	for _, item := range req.Items {
		qty := item.Quantity
		if qty.IsZero() {
			qty = decimal.NewFromInt(1)
		}
		subtotal = subtotal.Add(item.Amount)
		items = append(items, models.InvoiceItem{
			Description: item.Description,
			Quantity:    qty,
			Rate:        item.Rate,
			Amount:      item.Amount,
		})
	}

	user, _ := middleware.CurrentUser(c)

	year := now.Year()
	if err := ensureInvoiceSequence(database.DB, year); err != nil {
		internalError(c, err)
		return
	}

	var invoice models.Invoice
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		number, err := issueInvoiceNumber(tx, year)
		if err != nil {
			return err
		}

		invoice = models.Invoice{
			ClientID:       client.ID,
			SubscriptionID: req.SubscriptionID,
			CreatedByID:    user.ID,
			InvoiceNumber:  number,
			IssueDate:      issueDate,
			DueDate:        dueDate,
			Status:         models.InvoiceDraft,
			Subtotal:       subtotal,
			Tax:            req.Tax,
			Total:          subtotal.Add(req.Tax),
			Notes:          req.Notes,
			Items:          items,
		}
		return tx.Create(&invoice).Error
	})
	if err != nil {
		internalError(c, err)
		return
	}
	invoice.Client = &client

	auditAs(c, "invoice", invoice.ID, "create", "Created invoice "+invoice.InvoiceNumber)
	invalidateDashboard(c)

	respondCreated(c, "Invoice created successfully", gin.H{"invoice": invoice})
}

type generateInvoiceRequest struct {
	IssueDate string          `json:"issueDate"`
	DueDate   string          `json:"dueDate"`
	Discount  decimal.Decimal `json:"discount"`
	Tax       decimal.Decimal `json:"tax"`
	Notes     string          `json:"notes"`
}

// GenerateInvoiceFromSubscription creates a renewal invoice with a single
// synthesized line item and advances the subscription's next invoice date
// by one billing cycle. Both writes and the number issue share one
// transaction: there is never an invoice without the advanced date, or the
// other way round.
func GenerateInvoiceFromSubscription(c *gin.Context) {
	id, ok := parseID(c, "subscriptionId")
	if !ok {
		return
	}

	// the body is optional: a bare POST bills the subscription as-is
	var req generateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "Invalid request body")
		return
	}

	var subscription models.Subscription
	if err := database.DB.Preload("Client").First(&subscription, id).Error; err != nil {
		notFound(c, "Subscription")
		return
	}

	now := time.Now()
	issueDate := now
	if req.IssueDate != "" {
		t, err := parseDate(req.IssueDate)
		if err != nil {
			badRequest(c, "Invalid issue date")
			return
		}
		issueDate = t
	}
	dueDate := subscription.NextInvoiceDate
	if req.DueDate != "" {
		t, err := parseDate(req.DueDate)
		if err != nil {
			badRequest(c, "Invalid due date")
			return
		}
		dueDate = t
	}

	next, err := nextInvoiceDate(subscription.NextInvoiceDate, subscription.BillingCycle)
	if err != nil {
		badRequest(c, "Invalid billing cycle")
		return
	}

	description := subscription.ProductName + " - " + subscription.Plan
	notes := req.Notes
	if notes == "" {
		notes = "Invoice for " + description
	}

	subtotal := subscription.Amount.Sub(req.Discount)
	user, _ := middleware.CurrentUser(c)

	year := now.Year()
	if err := ensureInvoiceSequence(database.DB, year); err != nil {
		internalError(c, err)
		return
	}

	var invoice models.Invoice
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		number, err := issueInvoiceNumber(tx, year)
		if err != nil {
			return err
		}

		invoice = models.Invoice{
			ClientID:       subscription.ClientID,
			SubscriptionID: &subscription.ID,
			CreatedByID:    user.ID,
			InvoiceNumber:  number,
			IssueDate:      issueDate,
			DueDate:        dueDate,
			Status:         models.InvoiceDraft,
			Subtotal:       subtotal,
			Tax:            req.Tax,
			Total:          subtotal.Add(req.Tax),
			Notes:          notes,
			Items: []models.InvoiceItem{{
				Description: description,
				Quantity:    decimal.NewFromInt(1),
				Rate:        subscription.Amount,
				Amount:      subtotal,
			}},
		}
		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}

		return tx.Model(&models.Subscription{}).
			Where("id = ?", subscription.ID).
			Update("next_invoice_date", next).Error
	})
	if err != nil {
		internalError(c, err)
		return
	}
	invoice.Client = subscription.Client

	auditAs(c, "invoice", invoice.ID, "generate",
		"Generated invoice "+invoice.InvoiceNumber+" from subscription "+subscription.ProductName)
	invalidateDashboard(c)

	respondCreated(c, "Invoice generated from subscription successfully", gin.H{"invoice": invoice})
}

type updateInvoiceRequest struct {
	Status    *models.InvoiceStatus `json:"status"`
	IssueDate *string               `json:"issueDate"`
	DueDate   *string               `json:"dueDate"`
	Items     []invoiceItemInput    `json:"items"`
	Tax       *decimal.Decimal      `json:"tax"`
	Notes     *string               `json:"notes"`
}

func UpdateInvoice(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var invoice models.Invoice
	if err := database.DB.First(&invoice, id).Error; err != nil {
		notFound(c, "Invoice")
		return
	}

	var req updateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	if req.Status != nil {
		if !models.ValidInvoiceStatus(*req.Status) {
			badRequest(c, "Invalid invoice status")
			return
		}
		invoice.Status = *req.Status
	}
	if req.IssueDate != nil && *req.IssueDate != "" {
		t, err := parseDate(*req.IssueDate)
		if err != nil {
			badRequest(c, "Invalid issue date")
			return
		}
		invoice.IssueDate = t
	}
	if req.DueDate != nil && *req.DueDate != "" {
		t, err := parseDate(*req.DueDate)
		if err != nil {
			badRequest(c, "Invalid due date")
			return
		}
		invoice.DueDate = t
	}
	if req.Tax != nil {
		invoice.Tax = *req.Tax
	}
	if req.Notes != nil {
		invoice.Notes = *req.Notes
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// items replace the old set wholesale and force a recompute
		if req.Items != nil {
			if err := tx.Where("invoice_id = ?", invoice.ID).
				Delete(&models.InvoiceItem{}).Error; err != nil {
				return err
			}

			subtotal := decimal.Zero
			items := make([]models.InvoiceItem, 0, len(req.Items))
			for _, item := range req.Items {
				qty := item.Quantity
				if qty.IsZero() {
					qty = decimal.NewFromInt(1)
				}
				subtotal = subtotal.Add(item.Amount)
				items = append(items, models.InvoiceItem{
					InvoiceID:   invoice.ID,
					Description: item.Description,
					Quantity:    qty,
					Rate:        item.Rate,
					Amount:      item.Amount,
				})
			}
			if len(items) > 0 {
				if err := tx.Create(&items).Error; err != nil {
					return err
				}
			}

			invoice.Subtotal = subtotal
			invoice.Total = subtotal.Add(invoice.Tax)
		} else if req.Tax != nil {
			invoice.Total = invoice.Subtotal.Add(invoice.Tax)
		}

		return tx.Save(&invoice).Error
	})
	if err != nil {
		internalError(c, err)
		return
	}

	if err := database.DB.Preload("Items").First(&invoice, id).Error; err != nil {
		internalError(c, err)
		return
	}

	auditAs(c, "invoice", invoice.ID, "update", "Updated invoice "+invoice.InvoiceNumber)
	invalidateDashboard(c)

	respondUpdated(c, "Invoice updated successfully", gin.H{"invoice": invoice})
}

func MarkInvoicePaid(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var invoice models.Invoice
	if err := database.DB.First(&invoice, id).Error; err != nil {
		notFound(c, "Invoice")
		return
	}

	invoice.Status = models.InvoicePaid
	if err := database.DB.Save(&invoice).Error; err != nil {
		internalError(c, err)
		return
	}

	auditAs(c, "invoice", invoice.ID, "mark_paid", "Marked invoice "+invoice.InvoiceNumber+" paid")
	invalidateDashboard(c)

	respondUpdated(c, "Invoice marked as paid", gin.H{"invoice": invoice})
}

func DeleteInvoice(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var invoice models.Invoice
	if err := database.DB.First(&invoice, id).Error; err != nil {
		notFound(c, "Invoice")
		return
	}

	if err := database.DB.Select("Items").Delete(&invoice).Error; err != nil {
		internalError(c, err)
		return
	}

	auditAs(c, "invoice", invoice.ID, "delete", "Deleted invoice "+invoice.InvoiceNumber)
	invalidateDashboard(c)

	respondDeleted(c, "Invoice deleted successfully")
}
