package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"devzora-control-center/internal/database"
	"devzora-control-center/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const (
	dashboardCacheKey = "dashboard:stats"
	dashboardCacheTTL = 60 * time.Second
)

// invalidateDashboard drops the cached dashboard after any write that
// feeds it.
func invalidateDashboard(c *gin.Context) {
	database.CacheDelete(c.Request.Context(), dashboardCacheKey)
}

// GetDashboardStats composes the landing-page aggregate. The full response
// is cached briefly in redis; every mutating handler invalidates it.
func GetDashboardStats(c *gin.Context) {
	ctx := c.Request.Context()
	if raw, ok := database.CacheGet(ctx, dashboardCacheKey); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
		return
	}

	now := time.Now()

	var activeClients int64
	if err := database.DB.Model(&models.Client{}).
		Where("is_active = ?", true).
		Count(&activeClients).Error; err != nil {
		internalError(c, err)
		return
	}

	var activeProjects int64
	if err := database.DB.Model(&models.Project{}).
		Where("status <> ?", models.StatusCompleted).
		Count(&activeProjects).Error; err != nil {
		internalError(c, err)
		return
	}

	var activeSubs []models.Subscription
	if err := database.DB.Where("is_active = ?", true).Find(&activeSubs).Error; err != nil {
		internalError(c, err)
		return
	}
	mrr := computeMRR(activeSubs)

	var overdueInvoices []models.Invoice
	if err := database.DB.Preload("Client").
		Where("status = ? AND due_date < ?", models.InvoiceOverdue, now).
		Find(&overdueInvoices).Error; err != nil {
		internalError(c, err)
		return
	}
	overdueAmount := decimal.Zero
	for _, inv := range overdueInvoices {
		overdueAmount = overdueAmount.Add(inv.Total)
	}

	var todayAppointments []models.Appointment
	if err := database.DB.
		Preload("Client").Preload("Project").Preload("Owner").
		Where("date >= ? AND date <= ?", startOfDay(now), endOfDay(now)).
		Order("date asc").
		Find(&todayAppointments).Error; err != nil {
		internalError(c, err)
		return
	}

	renewalsToday, err := renewalsBetween(startOfDay(now), endOfDay(now))
	if err != nil {
		internalError(c, err)
		return
	}
	renewalsThisWeek, err := renewalsBetween(startOfWeek(now), endOfWeek(now))
	if err != nil {
		internalError(c, err)
		return
	}

	var recentProjects []models.Project
	if err := database.DB.
		Preload("Client").Preload("Owner").
		Where("updated_at >= ?", now.AddDate(0, 0, -7)).
		Order("updated_at desc").
		Limit(10).
		Find(&recentProjects).Error; err != nil {
		internalError(c, err)
		return
	}

	var unpaidInvoices []models.Invoice
	if err := database.DB.Preload("Client").
		Where("status IN ?", []models.InvoiceStatus{
			models.InvoiceDraft, models.InvoiceSent, models.InvoiceOverdue,
		}).
		Order("due_date asc").
		Find(&unpaidInvoices).Error; err != nil {
		internalError(c, err)
		return
	}

	var openProjects []models.Project
	if err := database.DB.
		Preload("Client").Preload("Owner").
		Where("status <> ?", models.StatusCompleted).
		Order("status asc").Order("target_end_date asc").
		Find(&openProjects).Error; err != nil {
		internalError(c, err)
		return
	}

	data := gin.H{
		"stats": gin.H{
			"activeClients":   activeClients,
			"activeProjects":  activeProjects,
			"mrr":             mrr,
			"overdueInvoices": len(overdueInvoices),
			"overdueAmount":   overdueAmount,
		},
		"today": gin.H{
			"appointments": todayAppointments,
			"renewals":     renewalsToday,
		},
		"thisWeek": gin.H{
			"renewals": renewalsThisWeek,
		},
		"recentProjects": recentProjects,
		"money": gin.H{
			"mrrData":        mrrSeries(now, mrr),
			"unpaidInvoices": unpaidInvoices,
		},
		"projects": openProjects,
	}

	body := gin.H{"success": true, "data": data}
	if raw, err := json.Marshal(body); err == nil {
		database.CacheSet(ctx, dashboardCacheKey, raw, dashboardCacheTTL)
	}

	c.JSON(http.StatusOK, body)
}

func renewalsBetween(from, to time.Time) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := database.DB.Preload("Client").
		Where("is_active = ?", true).
		Where("next_invoice_date >= ? AND next_invoice_date <= ?", from, to).
		Order("next_invoice_date asc").
		Find(&subs).Error
	return subs, err
}

type mrrPoint struct {
	Month string          `json:"month"`
	MRR   decimal.Decimal `json:"mrr"`
}

// mrrSeries returns the trailing six-month MRR series. Historical MRR is
// not tracked, so every point repeats the current figure.
func mrrSeries(now time.Time, mrr decimal.Decimal) []mrrPoint {
	points := make([]mrrPoint, 0, 6)
	for i := 5; i >= 0; i-- {
		month := startOfMonth(addCalendarMonths(now, -i))
		points = append(points, mrrPoint{
			Month: month.Format("Jan 2006"),
			MRR:   mrr,
		})
	}
	return points
}
