package carbon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	carbonsvc "krishi-backend/internal/application/carbon"
	"krishi-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixedAdoption struct{ initial, rate float64 }

func (f *fixedAdoption) InitialScore(ctx context.Context, methodology, district string) (float64, error) {
	return f.initial, nil
}

func (f *fixedAdoption) RegionalAdoptionRate(ctx context.Context, methodology, district string) (float64, error) {
	return f.rate, nil
}

type fixedAudit struct{ pass bool }

func (f *fixedAudit) Passes(ctx context.Context, projectID string) (bool, error) {
	return f.pass, nil
}

func setupCarbonHandlersTest(t *testing.T) (*fiber.App, *gorm.DB, uuid.UUID, uuid.UUID) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Plot{},
		&domain.CarbonProject{}, &domain.CarbonEvidence{},
	))

	user := domain.User{Phone: "+911234567890"}
	require.NoError(t, db.Create(&user).Error)
	plot := domain.Plot{UserID: user.UserID, Name: "North Field", Area: 2.0}
	require.NoError(t, db.Create(&plot).Error)

	svc := &carbonsvc.Service{
		DB:       db,
		Adoption: &fixedAdoption{initial: 0.3, rate: 0.3},
		Audit:    &fixedAudit{pass: true},
	}
	h := &Handlers{Service: svc}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id": user.UserID.String(),
			"phone":   user.Phone,
		})
		return c.Next()
	})
	app.Get("/api/v1/carbon/projects", h.ListProjects)
	app.Post("/api/v1/carbon/enroll", h.Enroll)
	app.Post("/api/v1/carbon/:project_id/evidence", h.SubmitEvidence)
	app.Post("/api/v1/carbon/:project_id/verify", h.Verify)

	return app, db, user.UserID, plot.PlotID
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return resp.StatusCode, result
}

func TestEnroll_Created(t *testing.T) {
	app, _, _, plotID := setupCarbonHandlersTest(t)

	code, result := postJSON(t, app, "/api/v1/carbon/enroll", map[string]string{
		"plot_id":     plotID.String(),
		"methodology": "Agroforestry",
	})
	require.Equal(t, 201, code)
	assert.Equal(t, "success", result["status"])

	project := result["data"].(map[string]interface{})["project"].(map[string]interface{})
	assert.Equal(t, "Enrolled", project["status"])
	assert.Equal(t, "Agroforestry", project["methodology"])
	assert.InDelta(t, 5.0, project["projected_credits"], 1e-9)
}

func TestEnroll_MissingFields(t *testing.T) {
	app, _, _, plotID := setupCarbonHandlersTest(t)

	code, result := postJSON(t, app, "/api/v1/carbon/enroll", map[string]string{
		"plot_id": plotID.String(),
	})
	require.Equal(t, 400, code)
	errObj := result["error"].(map[string]interface{})
	assert.Equal(t, "plot_id and methodology are required", errObj["message"])
}

func TestEnroll_DuplicateConflict(t *testing.T) {
	app, _, _, plotID := setupCarbonHandlersTest(t)

	payload := map[string]string{"plot_id": plotID.String(), "methodology": "No-Till"}
	code, _ := postJSON(t, app, "/api/v1/carbon/enroll", payload)
	require.Equal(t, 201, code)

	code, result := postJSON(t, app, "/api/v1/carbon/enroll", payload)
	require.Equal(t, 400, code)
	errObj := result["error"].(map[string]interface{})
	assert.Equal(t, "Plot already enrolled in a carbon project", errObj["message"])
}

func TestEnroll_UnknownPlot(t *testing.T) {
	app, _, _, _ := setupCarbonHandlersTest(t)

	code, result := postJSON(t, app, "/api/v1/carbon/enroll", map[string]string{
		"plot_id":     uuid.NewString(),
		"methodology": "No-Till",
	})
	require.Equal(t, 404, code)
	errObj := result["error"].(map[string]interface{})
	assert.Equal(t, "Plot not found", errObj["message"])
}

func TestSubmitEvidence_InvalidGeotag(t *testing.T) {
	app, _, _, plotID := setupCarbonHandlersTest(t)

	_, result := postJSON(t, app, "/api/v1/carbon/enroll", map[string]string{
		"plot_id": plotID.String(), "methodology": "No-Till",
	})
	projectID := result["data"].(map[string]interface{})["project"].(map[string]interface{})["project_id"].(string)

	code, result := postJSON(t, app, fmt.Sprintf("/api/v1/carbon/%s/evidence", projectID), map[string]interface{}{
		"description": "soil sample",
		"geo_lat":     123.0,
		"geo_lng":     73.78,
	})
	require.Equal(t, 400, code)
	errObj := result["error"].(map[string]interface{})
	assert.Equal(t, "Invalid geotag", errObj["message"])
}

func TestVerify_FullFlowThroughHTTP(t *testing.T) {
	app, db, _, plotID := setupCarbonHandlersTest(t)

	_, result := postJSON(t, app, "/api/v1/carbon/enroll", map[string]string{
		"plot_id": plotID.String(), "methodology": "No-Till",
	})
	projectID := result["data"].(map[string]interface{})["project"].(map[string]interface{})["project_id"].(string)

	evidencePath := fmt.Sprintf("/api/v1/carbon/%s/evidence", projectID)
	for i := 0; i < 2; i++ {
		code, res := postJSON(t, app, evidencePath, map[string]interface{}{
			"description": "soil sample report",
			"geo_lat":     19.99,
			"geo_lng":     73.78,
		})
		require.Equal(t, 200, code)
		assert.Equal(t, "Evidence_Pending", res["data"].(map[string]interface{})["status"])
	}

	code, res := postJSON(t, app, fmt.Sprintf("/api/v1/carbon/%s/verify", projectID), nil)
	require.Equal(t, 200, code)
	verification := res["data"].(map[string]interface{})["result"].(map[string]interface{})
	assert.Equal(t, "Verified", verification["status"])
	assert.InDelta(t, 2.4, verification["total_credits_issued"], 1e-9)
	assert.InDelta(t, 0.36, verification["buffer_pool_locked"], 1e-9)
	assert.InDelta(t, 2.04, verification["available_for_sale"], 1e-9)

	// Plot mirror fields are updated alongside.
	var plot domain.Plot
	require.NoError(t, db.First(&plot, "plot_id = ?", plotID).Error)
	assert.InDelta(t, 2.04, plot.CarbonCredits, 1e-9)
	assert.InDelta(t, 100.0, plot.OrganicScore, 1e-9)
}

func TestVerify_BeforeEvidence(t *testing.T) {
	app, _, _, plotID := setupCarbonHandlersTest(t)

	_, result := postJSON(t, app, "/api/v1/carbon/enroll", map[string]string{
		"plot_id": plotID.String(), "methodology": "No-Till",
	})
	projectID := result["data"].(map[string]interface{})["project"].(map[string]interface{})["project_id"].(string)

	code, res := postJSON(t, app, fmt.Sprintf("/api/v1/carbon/%s/verify", projectID), nil)
	require.Equal(t, 400, code)
	errObj := res["error"].(map[string]interface{})
	assert.Equal(t, "Project not ready for verification (Upload evidence first)", errObj["message"])
}

func TestListProjects_IncludesDerivedFields(t *testing.T) {
	app, _, _, plotID := setupCarbonHandlersTest(t)

	_, result := postJSON(t, app, "/api/v1/carbon/enroll", map[string]string{
		"plot_id": plotID.String(), "methodology": "Cover-Crop",
	})
	projectID := result["data"].(map[string]interface{})["project"].(map[string]interface{})["project_id"].(string)
	postJSON(t, app, fmt.Sprintf("/api/v1/carbon/%s/evidence", projectID), map[string]interface{}{
		"description": "cover crop photo", "geo_lat": 19.99, "geo_lng": 73.78,
	})

	req := httptest.NewRequest("GET", "/api/v1/carbon/projects", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var res map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	projects := res["data"].(map[string]interface{})["projects"].([]interface{})
	require.Len(t, projects, 1)
	view := projects[0].(map[string]interface{})
	assert.Equal(t, "North Field", view["plot_name"])
	assert.EqualValues(t, 1, view["evidence_count"])
}

func TestCarbonRoutes_Unauthorized(t *testing.T) {
	// No session stub in the chain.
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	h := &Handlers{Service: &carbonsvc.Service{DB: db}}
	app := fiber.New()
	app.Get("/api/v1/carbon/projects", h.ListProjects)

	req := httptest.NewRequest("GET", "/api/v1/carbon/projects", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}
