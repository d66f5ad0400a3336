package handlers

import (
	"net/http"
	"testing"
	"time"

	"devzora-control-center/internal/database"
	"devzora-control-center/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSubscriptionSetsNextInvoiceDate(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t)
	client := seedClient(t)
	r := newTestRouter(user)

	w := doJSON(t, r, http.MethodPost, "/subscriptions", map[string]any{
		"productName":  "Website Care",
		"plan":         "Basic",
		"amount":       300,
		"billingCycle": "MONTHLY",
		"startDate":    "2024-01-31",
		"clientId":     client.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		Subscription models.Subscription `json:"subscription"`
	}
	decodeData(t, w, &data)

	assert.True(t, data.Subscription.IsActive)
	// start plus one cycle, with the day clamped into February
	assert.True(t, date(2024, time.February, 29).Equal(data.Subscription.NextInvoiceDate.UTC()),
		"nextInvoiceDate = %v", data.Subscription.NextInvoiceDate)
}

func TestCreateSubscriptionValidation(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t)
	client := seedClient(t)
	r := newTestRouter(user)

	w := doJSON(t, r, http.MethodPost, "/subscriptions", map[string]any{
		"productName": "Website Care",
		"clientId":    client.ID,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "Product name, amount, billing cycle, start date, and client are required", env.Message)

	w = doJSON(t, r, http.MethodPost, "/subscriptions", map[string]any{
		"productName":  "Website Care",
		"amount":       300,
		"billingCycle": "WEEKLY",
		"startDate":    "2024-01-01",
		"clientId":     client.ID,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	env = decodeEnvelope(t, w)
	assert.Equal(t, "Invalid billing cycle", env.Message)
}

func TestGetRenewalsAnnotatesInvoiceStatus(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t)
	client := seedClient(t)
	r := newTestRouter(user)

	now := time.Now()

	invoiced := models.Subscription{
		ClientID: client.ID, ProductName: "Hosting", Plan: "Gold",
		Amount: decimal.NewFromInt(100), BillingCycle: models.CycleMonthly,
		StartDate: now.AddDate(0, -1, 0), NextInvoiceDate: now.AddDate(0, 0, 3),
		IsActive: true,
	}
	bare := models.Subscription{
		ClientID: client.ID, ProductName: "Backups", Plan: "Basic",
		Amount: decimal.NewFromInt(50), BillingCycle: models.CycleMonthly,
		StartDate: now.AddDate(0, -1, 0), NextInvoiceDate: now.AddDate(0, 0, 10),
		IsActive: true,
	}
	farOut := models.Subscription{
		ClientID: client.ID, ProductName: "Audit", Plan: "Annual",
		Amount: decimal.NewFromInt(900), BillingCycle: models.CycleAnnual,
		StartDate: now.AddDate(0, -1, 0), NextInvoiceDate: now.AddDate(0, 6, 0),
		IsActive: true,
	}
	require.NoError(t, db.Create(&invoiced).Error)
	require.NoError(t, db.Create(&bare).Error)
	require.NoError(t, db.Create(&farOut).Error)

	require.NoError(t, database.DB.Create(&models.Invoice{
		ClientID:       client.ID,
		SubscriptionID: &invoiced.ID,
		CreatedByID:    user.ID,
		InvoiceNumber:  "INV-2024-0099",
		IssueDate:      now,
		DueDate:        invoiced.NextInvoiceDate,
		Status:         models.InvoiceSent,
	}).Error)

	type renewal struct {
		models.Subscription
		InvoiceStatus string `json:"invoiceStatus"`
	}
	var data struct {
		Renewals []renewal `json:"renewals"`
	}

	w := doJSON(t, r, http.MethodGet, "/subscriptions/renewals?period=week", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeData(t, w, &data)
	require.Len(t, data.Renewals, 1)
	assert.Equal(t, invoiced.ID, data.Renewals[0].ID)
	assert.Equal(t, "SENT", data.Renewals[0].InvoiceStatus)

	w = doJSON(t, r, http.MethodGet, "/subscriptions/renewals?period=month", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &data)
	require.Len(t, data.Renewals, 2)
	// sorted by next invoice date
	assert.Equal(t, invoiced.ID, data.Renewals[0].ID)
	assert.Equal(t, bare.ID, data.Renewals[1].ID)
	assert.Equal(t, "NOT_INVOICED", data.Renewals[1].InvoiceStatus)
}

func TestGetRenewalsSkipsInactive(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t)
	client := seedClient(t)
	r := newTestRouter(user)

	sub := models.Subscription{
		ClientID: client.ID, ProductName: "Cancelled thing", Plan: "Basic",
		Amount: decimal.NewFromInt(10), BillingCycle: models.CycleMonthly,
		StartDate: time.Now().AddDate(0, -1, 0), NextInvoiceDate: time.Now().AddDate(0, 0, 2),
		IsActive: false,
	}
	require.NoError(t, db.Create(&sub).Error)

	w := doJSON(t, r, http.MethodGet, "/subscriptions/renewals?period=week", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Renewals []models.Subscription `json:"renewals"`
	}
	decodeData(t, w, &data)
	assert.Empty(t, data.Renewals)
}
