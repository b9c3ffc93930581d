package plots

import (
	plotsvc "krishi-backend/internal/application/plots"
	"krishi-backend/internal/middleware"
	"krishi-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers holds the plots service.
type Handlers struct {
	Service *plotsvc.Service
}

// Create POST /api/v1/plots — register a plot.
func (h *Handlers) Create(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req plotsvc.CreatePlotInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Name and a positive area are required", 400, nil)
	}

	plot, err := h.Service.CreatePlot(c.Context(), userID, req)
	if err != nil {
		if err == plotsvc.ErrNameAreaRequired {
			return response.Error(c, err.Error(), 400, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Plot created", fiber.Map{"plot": plot})
}

// List GET /api/v1/plots — the caller's plots.
func (h *Handlers) List(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	plots, err := h.Service.ListMyPlots(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Plots retrieved", fiber.Map{"plots": plots})
}

// Get GET /api/v1/plots/:plot_id — one plot the caller owns.
func (h *Handlers) Get(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	plotID, err := uuid.Parse(c.Params("plot_id"))
	if err != nil {
		return response.Error(c, "Invalid plot_id", 400, nil)
	}
	plot, err := h.Service.GetPlot(c.Context(), userID, plotID)
	if err != nil {
		if err == plotsvc.ErrPlotNotFound {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Plot retrieved", fiber.Map{"plot": plot})
}
