package handlers

import (
	"time"

	"devzora-control-center/internal/database"
	"devzora-control-center/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type renewalMonth struct {
	Month       string          `json:"month"`
	MonthShort  string          `json:"monthShort"`
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// GetRevenueReport returns current MRR/ARR, the forward renewal schedule
// for the next twelve calendar months, and the trailing MRR series.
func GetRevenueReport(c *gin.Context) {
	var activeSubs []models.Subscription
	if err := database.DB.Where("is_active = ?", true).Find(&activeSubs).Error; err != nil {
		internalError(c, err)
		return
	}
	mrr := computeMRR(activeSubs)

	now := time.Now()
	renewalsByMonth := make([]renewalMonth, 0, 12)
	for i := 0; i < 12; i++ {
		monthStart := startOfMonth(addCalendarMonths(now, i))
		monthEnd := endOfMonth(monthStart)

		// gross amounts due in the month, not normalized
		count := 0
		total := decimal.Zero
		for _, sub := range activeSubs {
			d := sub.NextInvoiceDate
			if !d.Before(monthStart) && !d.After(monthEnd) {
				count++
				total = total.Add(sub.Amount)
			}
		}

		renewalsByMonth = append(renewalsByMonth, renewalMonth{
			Month:       monthStart.Format("January 2006"),
			MonthShort:  monthStart.Format("Jan 2006"),
			Count:       count,
			TotalAmount: total,
		})
	}

	respondOK(c, gin.H{
		"currentMRR":      mrr,
		"arr":             mrr.Mul(decimal.NewFromInt(12)),
		"renewalsByMonth": renewalsByMonth,
		"mrrOverTime":     mrrSeries(now, mrr),
	})
}

// GetProjectsStatusReport groups every project by traffic-light status.
func GetProjectsStatusReport(c *gin.Context) {
	var projects []models.Project
	if err := database.DB.Preload("Client").Preload("Owner").Find(&projects).Error; err != nil {
		internalError(c, err)
		return
	}

	statuses := []models.ProjectStatus{
		models.StatusGreen, models.StatusAmber, models.StatusRed,
		models.StatusOnHold, models.StatusCompleted,
	}

	statusCounts := make(map[models.ProjectStatus]int, len(statuses))
	projectsByStatus := make(map[models.ProjectStatus][]models.Project, len(statuses))
	for _, s := range statuses {
		statusCounts[s] = 0
		projectsByStatus[s] = []models.Project{}
	}
	for _, p := range projects {
		statusCounts[p.Status]++
		projectsByStatus[p.Status] = append(projectsByStatus[p.Status], p)
	}

	respondOK(c, gin.H{
		"statusCounts":     statusCounts,
		"projectsByStatus": projectsByStatus,
		"total":            len(projects),
	})
}

type overdueInvoiceView struct {
	models.Invoice
	DaysOverdue int `json:"daysOverdue"`
}

type overdueMilestoneView struct {
	models.Milestone
	DaysOverdue int `json:"daysOverdue"`
}

// GetOverdueReport lists invoices and milestones past their due dates with
// whole-day overdue counts. Overdue-ness is derived here from the dates;
// the stored invoice status is not touched.
func GetOverdueReport(c *gin.Context) {
	now := time.Now()

	var invoices []models.Invoice
	err := database.DB.
		Preload("Client").
		Preload("Subscription").
		Where("status IN ?", []models.InvoiceStatus{models.InvoiceSent, models.InvoiceOverdue}).
		Where("due_date < ?", now).
		Order("due_date asc").
		Find(&invoices).Error
	if err != nil {
		internalError(c, err)
		return
	}

	overdueInvoices := make([]overdueInvoiceView, 0, len(invoices))
	totalOverdueAmount := decimal.Zero
	for _, inv := range invoices {
		overdueInvoices = append(overdueInvoices, overdueInvoiceView{
			Invoice:     inv,
			DaysOverdue: daysOverdue(inv.DueDate, now),
		})
		totalOverdueAmount = totalOverdueAmount.Add(inv.Total)
	}

	var milestones []models.Milestone
	err = database.DB.
		Preload("Project.Client").
		Preload("Project.Owner").
		Where("is_completed = ? AND due_date < ?", false, now).
		Order("due_date asc").
		Find(&milestones).Error
	if err != nil {
		internalError(c, err)
		return
	}

	overdueMilestones := make([]overdueMilestoneView, 0, len(milestones))
	for _, m := range milestones {
		overdueMilestones = append(overdueMilestones, overdueMilestoneView{
			Milestone:   m,
			DaysOverdue: daysOverdue(m.DueDate, now),
		})
	}

	respondOK(c, gin.H{
		"overdueInvoices":   overdueInvoices,
		"overdueMilestones": overdueMilestones,
		"summary": gin.H{
			"totalOverdueInvoices":   len(invoices),
			"totalOverdueAmount":     totalOverdueAmount,
			"totalOverdueMilestones": len(milestones),
		},
	})
}
