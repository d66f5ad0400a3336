package handlers

import (
	"net/http"
	"testing"
	"time"

	"devzora-control-center/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t)
	client := seedClient(t)
	r := newTestRouter(user)

	inactive := models.Client{Name: "Gone Inc", IsActive: false}
	require.NoError(t, db.Create(&inactive).Error)

	require.NoError(t, db.Create(&models.Project{
		ClientID: client.ID, OwnerID: user.ID, Name: "Live",
		StartDate: time.Now(), Status: models.StatusGreen,
	}).Error)
	require.NoError(t, db.Create(&models.Project{
		ClientID: client.ID, OwnerID: user.ID, Name: "Done",
		StartDate: time.Now(), Status: models.StatusCompleted,
	}).Error)

	subs := []models.Subscription{
		{ClientID: client.ID, ProductName: "A", Amount: decimal.NewFromInt(1200),
			BillingCycle: models.CycleMonthly, StartDate: time.Now(),
			NextInvoiceDate: time.Now().AddDate(0, 1, 0), IsActive: true},
		{ClientID: client.ID, ProductName: "B", Amount: decimal.NewFromInt(3600),
			BillingCycle: models.CycleQuarterly, StartDate: time.Now(),
			NextInvoiceDate: time.Now().AddDate(0, 1, 0), IsActive: true},
		{ClientID: client.ID, ProductName: "C", Amount: decimal.NewFromInt(999),
			BillingCycle: models.CycleMonthly, StartDate: time.Now(),
			NextInvoiceDate: time.Now().AddDate(0, 1, 0), IsActive: false},
	}
	require.NoError(t, db.Create(&subs).Error)

	require.NoError(t, db.Create(&models.Invoice{
		ClientID: client.ID, CreatedByID: user.ID, InvoiceNumber: "INV-2024-0001",
		IssueDate: time.Now().AddDate(0, -2, 0), DueDate: time.Now().AddDate(0, -1, 0),
		Status: models.InvoiceOverdue, Total: decimal.NewFromInt(500),
	}).Error)

	w := doJSON(t, r, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Stats struct {
			ActiveClients   int             `json:"activeClients"`
			ActiveProjects  int             `json:"activeProjects"`
			MRR             decimal.Decimal `json:"mrr"`
			OverdueInvoices int             `json:"overdueInvoices"`
			OverdueAmount   decimal.Decimal `json:"overdueAmount"`
		} `json:"stats"`
		Projects []models.Project `json:"projects"`
		Money    struct {
			MRRData []mrrPoint `json:"mrrData"`
		} `json:"money"`
	}
	decodeData(t, w, &data)

	assert.Equal(t, 1, data.Stats.ActiveClients)
	assert.Equal(t, 1, data.Stats.ActiveProjects)
	// inactive subscriptions don't count toward MRR
	assert.True(t, decimal.NewFromInt(2400).Equal(data.Stats.MRR), "mrr = %s", data.Stats.MRR)
	assert.Equal(t, 1, data.Stats.OverdueInvoices)
	assert.True(t, decimal.NewFromInt(500).Equal(data.Stats.OverdueAmount))

	require.Len(t, data.Projects, 1)
	assert.Equal(t, "Live", data.Projects[0].Name)
	assert.Len(t, data.Money.MRRData, 6)
}

func TestOverdueReport(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t)
	client := seedClient(t)
	r := newTestRouter(user)

	now := time.Now()

	require.NoError(t, db.Create(&models.Invoice{
		ClientID: client.ID, CreatedByID: user.ID, InvoiceNumber: "INV-2024-0001",
		IssueDate: now.AddDate(0, -2, 0), DueDate: now.AddDate(0, 0, -10),
		Status: models.InvoiceSent, Total: decimal.NewFromInt(300),
	}).Error)
	require.NoError(t, db.Create(&models.Invoice{
		ClientID: client.ID, CreatedByID: user.ID, InvoiceNumber: "INV-2024-0002",
		IssueDate: now.AddDate(0, -2, 0), DueDate: now.AddDate(0, 0, -3),
		Status: models.InvoiceOverdue, Total: decimal.NewFromInt(200),
	}).Error)
	// paid and not-yet-due invoices stay out of the report
	require.NoError(t, db.Create(&models.Invoice{
		ClientID: client.ID, CreatedByID: user.ID, InvoiceNumber: "INV-2024-0003",
		IssueDate: now.AddDate(0, -2, 0), DueDate: now.AddDate(0, 0, -5),
		Status: models.InvoicePaid, Total: decimal.NewFromInt(999),
	}).Error)
	require.NoError(t, db.Create(&models.Invoice{
		ClientID: client.ID, CreatedByID: user.ID, InvoiceNumber: "INV-2024-0004",
		IssueDate: now, DueDate: now.AddDate(0, 0, 14),
		Status: models.InvoiceSent, Total: decimal.NewFromInt(100),
	}).Error)

	project := models.Project{
		ClientID: client.ID, OwnerID: user.ID, Name: "Slipping",
		StartDate: now.AddDate(0, -3, 0),
		Milestones: []models.Milestone{
			{Name: "Late one", DueDate: now.AddDate(0, 0, -4)},
			{Name: "Future one", DueDate: now.AddDate(0, 0, 4)},
		},
	}
	require.NoError(t, db.Create(&project).Error)

	w := doJSON(t, r, http.MethodGet, "/reports/overdue", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		OverdueInvoices []struct {
			models.Invoice
			DaysOverdue int `json:"daysOverdue"`
		} `json:"overdueInvoices"`
		OverdueMilestones []struct {
			models.Milestone
			DaysOverdue int `json:"daysOverdue"`
		} `json:"overdueMilestones"`
		Summary struct {
			TotalOverdueInvoices   int             `json:"totalOverdueInvoices"`
			TotalOverdueAmount     decimal.Decimal `json:"totalOverdueAmount"`
			TotalOverdueMilestones int             `json:"totalOverdueMilestones"`
		} `json:"summary"`
	}
	decodeData(t, w, &data)

	require.Len(t, data.OverdueInvoices, 2)
	// ordered oldest due date first
	assert.Equal(t, "INV-2024-0001", data.OverdueInvoices[0].InvoiceNumber)
	assert.Equal(t, 10, data.OverdueInvoices[0].DaysOverdue)
	assert.Equal(t, 3, data.OverdueInvoices[1].DaysOverdue)

	require.Len(t, data.OverdueMilestones, 1)
	assert.Equal(t, "Late one", data.OverdueMilestones[0].Name)
	assert.Equal(t, 4, data.OverdueMilestones[0].DaysOverdue)
	require.NotNil(t, data.OverdueMilestones[0].Project)
	assert.Equal(t, "Slipping", data.OverdueMilestones[0].Project.Name)

	assert.Equal(t, 2, data.Summary.TotalOverdueInvoices)
	assert.True(t, decimal.NewFromInt(500).Equal(data.Summary.TotalOverdueAmount))
	assert.Equal(t, 1, data.Summary.TotalOverdueMilestones)
}

func TestProjectsStatusReportSeedsAllBuckets(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t)
	client := seedClient(t)
	r := newTestRouter(user)

	require.NoError(t, db.Create(&models.Project{
		ClientID: client.ID, OwnerID: user.ID, Name: "Only one",
		StartDate: time.Now(), Status: models.StatusAmber,
	}).Error)

	w := doJSON(t, r, http.MethodGet, "/reports/projects-status", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		StatusCounts     map[string]int              `json:"statusCounts"`
		ProjectsByStatus map[string][]models.Project `json:"projectsByStatus"`
		Total            int                         `json:"total"`
	}
	decodeData(t, w, &data)

	// every bucket is present even when empty
	for _, s := range []string{"GREEN", "AMBER", "RED", "ON_HOLD", "COMPLETED"} {
		_, ok := data.StatusCounts[s]
		assert.True(t, ok, "missing bucket %s", s)
	}
	assert.Equal(t, 1, data.StatusCounts["AMBER"])
	assert.Len(t, data.ProjectsByStatus["AMBER"], 1)
	assert.Equal(t, 1, data.Total)
}
