package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"devzora-control-center/internal/database"
	"devzora-control-center/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTestDB swaps the global connection for an in-memory sqlite database
// scoped to the test. Named shared-cache DSNs keep every pooled connection
// on the same database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })

	return db
}

// newTestRouter registers the handlers under their real paths with a stub
// auth middleware that injects user directly.
func newTestRouter(user models.User) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("CurrentUser", user) })

	r.GET("/clients", ListClients)
	r.GET("/clients/:id", GetClient)
	r.POST("/clients", CreateClient)
	r.PUT("/clients/:id", UpdateClient)
	r.DELETE("/clients/:id", DeleteClient)

	r.POST("/projects", CreateProject)
	r.PATCH("/projects/:id/progress", UpdateProjectProgress)

	r.GET("/subscriptions/renewals", GetRenewals)
	r.POST("/subscriptions", CreateSubscription)

	r.POST("/invoices", CreateInvoice)
	r.POST("/invoices/from-subscription/:subscriptionId", GenerateInvoiceFromSubscription)
	r.PATCH("/invoices/:id/paid", MarkInvoicePaid)

	r.GET("/appointments", ListAppointments)
	r.GET("/appointments/my-week", GetMyWeek)
	r.POST("/appointments", CreateAppointment)

	r.POST("/budgets", CreateBudget)
	r.POST("/budgets/:id/items", CreateBudgetItem)
	r.DELETE("/budgets/:id/items/:itemId", DeleteBudgetItem)

	r.GET("/dashboard", GetDashboardStats)
	r.GET("/reports/overdue", GetOverdueReport)
	r.GET("/reports/projects-status", GetProjectsStatusReport)

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()

	env := decodeEnvelope(t, w)
	require.True(t, env.Success, "response not successful: %s", env.Message)
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func seedUser(t *testing.T) models.User {
	t.Helper()

	user := models.User{
		Email:        "ops@devzora.test",
		PasswordHash: "unused",
		FirstName:    "Ops",
		LastName:     "Team",
		Role:         models.RoleMember,
	}
	require.NoError(t, database.DB.Create(&user).Error)
	return user
}

func seedClient(t *testing.T) models.Client {
	t.Helper()

	client := models.Client{
		Name:     "Acme Interiors",
		Email:    "billing@acme.test",
		IsActive: true,
	}
	require.NoError(t, database.DB.Create(&client).Error)
	return client
}
