package schemes

import (
	schemesvc "krishi-backend/internal/application/schemes"
	"krishi-backend/internal/middleware"
	"krishi-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers holds the schemes service.
type Handlers struct {
	Service *schemesvc.Service
}

// List GET /api/v1/schemes — all published schemes.
func (h *Handlers) List(c *fiber.Ctx) error {
	schemes, err := h.Service.ListSchemes(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Schemes retrieved", fiber.Map{"schemes": schemes})
}

// Create POST /api/v1/schemes — publish a scheme.
func (h *Handlers) Create(c *fiber.Ctx) error {
	var req schemesvc.CreateSchemeInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "title, description and tag are required", 400, nil)
	}
	scheme, err := h.Service.CreateScheme(c.Context(), req)
	if err != nil {
		if err == schemesvc.ErrMissingSchemeFields {
			return response.Error(c, err.Error(), 400, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Scheme created", fiber.Map{"scheme": scheme})
}

// ApplyRequest body for POST /apply.
type ApplyRequest struct {
	SchemeID string `json:"scheme_id"`
}

// Apply POST /api/v1/schemes/apply — record an application for the caller.
func (h *Handlers) Apply(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req ApplyRequest
	if err := c.BodyParser(&req); err != nil || req.SchemeID == "" {
		return response.Error(c, "scheme_id is required", 400, nil)
	}
	schemeID, err := uuid.Parse(req.SchemeID)
	if err != nil {
		return response.Error(c, "Invalid scheme_id", 400, nil)
	}

	app, err := h.Service.Apply(c.Context(), userID, schemeID)
	if err != nil {
		switch err {
		case schemesvc.ErrSchemeNotFound:
			return response.Error(c, err.Error(), 404, nil)
		case schemesvc.ErrAlreadyApplied:
			return response.Error(c, err.Error(), 400, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Application submitted", fiber.Map{"application": app})
}
