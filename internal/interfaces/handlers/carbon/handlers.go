package carbon

import (
	carbonsvc "krishi-backend/internal/application/carbon"
	"krishi-backend/internal/middleware"
	"krishi-backend/internal/pkg/response"
	"krishi-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers holds the carbon service.
type Handlers struct {
	Service *carbonsvc.Service
}

// statusMap maps carbon service errors to HTTP codes. Absent entries are 500.
var statusMap = map[error]int{
	carbonsvc.ErrPlotNotFound:         404,
	carbonsvc.ErrProjectNotFound:      404,
	carbonsvc.ErrAlreadyEnrolled:      400,
	carbonsvc.ErrNotReady:             400,
	carbonsvc.ErrInsufficientEvidence: 400,
}

func mapError(c *fiber.Ctx, err error) error {
	if code, ok := statusMap[err]; ok {
		return response.Error(c, err.Error(), code, nil)
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

// ListProjects GET /api/v1/carbon/projects — the caller's projects with
// plot names and evidence counts.
func (h *Handlers) ListProjects(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	views, err := h.Service.ListMyProjects(c.Context(), userID)
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Projects retrieved", fiber.Map{"projects": views})
}

// EnrollRequest body for POST /enroll.
type EnrollRequest struct {
	PlotID      string `json:"plot_id"`
	Methodology string `json:"methodology"`
}

// Enroll POST /api/v1/carbon/enroll — enroll a plot into a carbon project.
func (h *Handlers) Enroll(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req EnrollRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "plot_id and methodology are required", 400, nil)
	}
	if req.PlotID == "" || req.Methodology == "" {
		return response.Error(c, "plot_id and methodology are required", 400, nil)
	}
	plotID, err := uuid.Parse(req.PlotID)
	if err != nil {
		return response.Error(c, "Invalid plot_id", 400, nil)
	}

	view, err := h.Service.EnrollPlot(c.Context(), userID, plotID, req.Methodology)
	if err != nil {
		return mapError(c, err)
	}
	return response.SuccessCreated(c, "Plot enrolled in carbon project", fiber.Map{"project": view})
}

// EvidenceRequest body for POST /:project_id/evidence.
type EvidenceRequest struct {
	Description string  `json:"description"`
	GeoLat      float64 `json:"geo_lat"`
	GeoLng      float64 `json:"geo_lng"`
}

// SubmitEvidence POST /api/v1/carbon/:project_id/evidence.
func (h *Handlers) SubmitEvidence(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	projectID, err := uuid.Parse(c.Params("project_id"))
	if err != nil {
		return response.Error(c, "Invalid project_id", 400, nil)
	}

	var req EvidenceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "description and geotag are required", 400, nil)
	}
	if req.Description == "" {
		return response.Error(c, "description and geotag are required", 400, nil)
	}
	if !validation.IsValidLatLng(req.GeoLat, req.GeoLng) {
		return response.Error(c, "Invalid geotag", 400, nil)
	}

	status, err := h.Service.SubmitEvidence(c.Context(), userID, projectID, req.Description, req.GeoLat, req.GeoLng)
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Evidence uploaded successfully", fiber.Map{"status": status})
}

// Verify POST /api/v1/carbon/:project_id/verify — run the verification
// pipeline. Rejections are 200 responses with status Audit_Failed.
func (h *Handlers) Verify(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	projectID, err := uuid.Parse(c.Params("project_id"))
	if err != nil {
		return response.Error(c, "Invalid project_id", 400, nil)
	}

	result, err := h.Service.TriggerVerification(c.Context(), userID, projectID)
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Verification complete", fiber.Map{"result": result})
}
