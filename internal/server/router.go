package server

import (
	"net/http"
	"time"

	"devzora-control-center/internal/config"
	"devzora-control-center/internal/handlers"
	"devzora-control-center/internal/middleware"
	"devzora-control-center/internal/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("dcc_session", store))

	api := r.Group("/api")

	// AUTH
	api.POST("/auth/register", handlers.Register)
	api.POST("/auth/login", handlers.Login)

	auth := api.Group("/")
	auth.Use(middleware.RequireAuth())

	auth.GET("/auth/me", handlers.Me)
	auth.POST("/auth/logout", handlers.Logout)

	// CLIENTS
	auth.GET("/clients", handlers.ListClients)
	auth.GET("/clients/:id", handlers.GetClient)
	auth.POST("/clients", handlers.CreateClient)
	auth.PUT("/clients/:id", handlers.UpdateClient)
	auth.DELETE("/clients/:id", handlers.DeleteClient)

	// PROJECTS
	auth.GET("/projects", handlers.ListProjects)
	auth.GET("/projects/:id", handlers.GetProject)
	auth.POST("/projects", handlers.CreateProject)
	auth.PUT("/projects/:id", handlers.UpdateProject)
	auth.PATCH("/projects/:id/progress", handlers.UpdateProjectProgress)
	auth.DELETE("/projects/:id", handlers.DeleteProject)

	// SUBSCRIPTIONS
	auth.GET("/subscriptions", handlers.ListSubscriptions)
	auth.GET("/subscriptions/renewals", handlers.GetRenewals)
	auth.GET("/subscriptions/:id", handlers.GetSubscription)
	auth.POST("/subscriptions", handlers.CreateSubscription)
	auth.PUT("/subscriptions/:id", handlers.UpdateSubscription)
	auth.DELETE("/subscriptions/:id", handlers.DeleteSubscription)

	// INVOICES
	auth.GET("/invoices", handlers.ListInvoices)
	auth.GET("/invoices/:id", handlers.GetInvoice)
	auth.POST("/invoices", handlers.CreateInvoice)
	auth.POST("/invoices/from-subscription/:subscriptionId", handlers.GenerateInvoiceFromSubscription)
	auth.PUT("/invoices/:id", handlers.UpdateInvoice)
	auth.PATCH("/invoices/:id/paid", handlers.MarkInvoicePaid)
	auth.DELETE("/invoices/:id", handlers.DeleteInvoice)

	// APPOINTMENTS
	auth.GET("/appointments", handlers.ListAppointments)
	auth.GET("/appointments/my-week", handlers.GetMyWeek)
	auth.GET("/appointments/:id", handlers.GetAppointment)
	auth.POST("/appointments", handlers.CreateAppointment)
	auth.PUT("/appointments/:id", handlers.UpdateAppointment)
	auth.DELETE("/appointments/:id", handlers.DeleteAppointment)

	// BUDGETS
	auth.GET("/budgets", handlers.ListBudgets)
	auth.GET("/budgets/:id", handlers.GetBudget)
	auth.POST("/budgets", handlers.CreateBudget)
	auth.PUT("/budgets/:id", handlers.UpdateBudget)
	auth.DELETE("/budgets/:id", handlers.DeleteBudget)
	auth.POST("/budgets/:id/items", handlers.CreateBudgetItem)
	auth.PUT("/budgets/:id/items/:itemId", handlers.UpdateBudgetItem)
	auth.DELETE("/budgets/:id/items/:itemId", handlers.DeleteBudgetItem)

	// DASHBOARD / REPORTS
	auth.GET("/dashboard", handlers.GetDashboardStats)
	auth.GET("/reports/revenue", handlers.GetRevenueReport)
	auth.GET("/reports/projects-status", handlers.GetProjectsStatusReport)
	auth.GET("/reports/overdue", handlers.GetOverdueReport)

	// AUDIT
	auth.GET("/audit",
		middleware.RequireRole(models.RoleAdmin),
		handlers.ListAuditLogs,
	)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
