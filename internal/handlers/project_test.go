package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"devzora-control-center/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentComplete(t *testing.T) {
	assert.Equal(t, 0, percentComplete(0, 0))
	assert.Equal(t, 0, percentComplete(0, 4))
	assert.Equal(t, 75, percentComplete(3, 4))
	assert.Equal(t, 100, percentComplete(4, 4))
	assert.Equal(t, 33, percentComplete(1, 3))
	assert.Equal(t, 67, percentComplete(2, 3))
}

func TestDeriveProjectStatus(t *testing.T) {
	now := time.Now()
	future := now.AddDate(0, 1, 0)
	past := now.AddDate(0, -1, 0)

	tests := []struct {
		name      string
		percent   int
		targetEnd *time.Time
		want      models.ProjectStatus
	}{
		{"done before target", 100, &future, models.StatusCompleted},
		{"on track", 80, &future, models.StatusGreen},
		{"halfway", 60, &future, models.StatusAmber},
		{"barely started", 30, &future, models.StatusRed},
		{"nearly done but late", 95, &past, models.StatusAmber},
		{"late and behind", 50, &past, models.StatusRed},
		{"even 100 counts as amber when late", 100, &past, models.StatusAmber},
		{"no target date", 80, nil, models.StatusGreen},
		{"no target date behind", 10, nil, models.StatusRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := deriveProjectStatus(tt.percent, tt.targetEnd, now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUpdateProjectProgress(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t)
	client := seedClient(t)
	r := newTestRouter(user)

	target := time.Now().AddDate(0, 2, 0)
	project := models.Project{
		ClientID:      client.ID,
		OwnerID:       user.ID,
		Name:          "Office refit",
		StartDate:     time.Now().AddDate(0, -1, 0),
		TargetEndDate: &target,
		Status:        models.StatusGreen,
	}
	for i := 1; i <= 4; i++ {
		project.Milestones = append(project.Milestones, models.Milestone{
			Name:    fmt.Sprintf("Phase %d", i),
			DueDate: time.Now().AddDate(0, 0, i*7),
		})
	}
	require.NoError(t, db.Create(&project).Error)

	ids := []uint{
		project.Milestones[0].ID,
		project.Milestones[1].ID,
		project.Milestones[2].ID,
	}
	w := doJSON(t, r, http.MethodPatch,
		fmt.Sprintf("/projects/%d/progress", project.ID),
		map[string]any{"milestoneIds": ids, "latestUpdate": "Three phases signed off"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Project models.Project `json:"project"`
	}
	decodeData(t, w, &data)

	assert.Equal(t, 75, data.Project.PercentComplete)
	assert.Equal(t, models.StatusGreen, data.Project.Status)
	assert.Equal(t, "Three phases signed off", data.Project.LatestUpdate)

	completed := 0
	for _, m := range data.Project.Milestones {
		if m.IsCompleted {
			completed++
			assert.NotNil(t, m.CompletedAt)
		}
	}
	assert.Equal(t, 3, completed)

	// finishing the last milestone flips the project to COMPLETED
	w = doJSON(t, r, http.MethodPatch,
		fmt.Sprintf("/projects/%d/progress", project.ID),
		map[string]any{"milestoneIds": []uint{project.Milestones[3].ID}, "latestUpdate": "Done"})
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &data)

	assert.Equal(t, 100, data.Project.PercentComplete)
	assert.Equal(t, models.StatusCompleted, data.Project.Status)
}

func TestUpdateProjectProgressIgnoresOtherProjectsMilestones(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t)
	client := seedClient(t)
	r := newTestRouter(user)

	mine := models.Project{
		ClientID: client.ID, OwnerID: user.ID, Name: "Mine",
		StartDate:  time.Now(),
		Milestones: []models.Milestone{{Name: "M1", DueDate: time.Now()}},
	}
	other := models.Project{
		ClientID: client.ID, OwnerID: user.ID, Name: "Other",
		StartDate:  time.Now(),
		Milestones: []models.Milestone{{Name: "O1", DueDate: time.Now()}},
	}
	require.NoError(t, db.Create(&mine).Error)
	require.NoError(t, db.Create(&other).Error)

	w := doJSON(t, r, http.MethodPatch,
		fmt.Sprintf("/projects/%d/progress", mine.ID),
		map[string]any{"milestoneIds": []uint{other.Milestones[0].ID}})
	require.Equal(t, http.StatusOK, w.Code)

	var foreign models.Milestone
	require.NoError(t, db.First(&foreign, other.Milestones[0].ID).Error)
	assert.False(t, foreign.IsCompleted)
}

func TestCreateProjectDefaultsOwnerToCaller(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t)
	client := seedClient(t)
	r := newTestRouter(user)

	w := doJSON(t, r, http.MethodPost, "/projects", map[string]any{
		"name":      "Warehouse move",
		"clientId":  client.ID,
		"startDate": "2024-05-01",
		"milestones": []map[string]any{
			{"name": "Pack", "dueDate": "2024-05-10"},
			{"name": "Move", "dueDate": "2024-05-20"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		Project models.Project `json:"project"`
	}
	decodeData(t, w, &data)

	assert.Equal(t, user.ID, data.Project.OwnerID)
	assert.Equal(t, models.StatusGreen, data.Project.Status)
	assert.Len(t, data.Project.Milestones, 2)
}
