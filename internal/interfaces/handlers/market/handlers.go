package market

import (
	mktsvc "krishi-backend/internal/application/market"
	"krishi-backend/internal/middleware"
	"krishi-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers holds the marketplace service.
type Handlers struct {
	Service *mktsvc.Service
}

// Create POST /api/v1/market/listings — publish a produce listing.
func (h *Handlers) Create(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req mktsvc.CreateListingInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "crop_name, quantity and price are required", 400, nil)
	}

	listing, err := h.Service.CreateListing(c.Context(), userID, req)
	if err != nil {
		if err == mktsvc.ErrMissingListingFields {
			return response.Error(c, err.Error(), 400, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Listing created", fiber.Map{"listing": listing})
}

// List GET /api/v1/market/listings — all listings, optionally ?crop=.
func (h *Handlers) List(c *fiber.Ctx) error {
	listings, err := h.Service.GetAllListings(c.Context(), c.Query("crop"))
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Listings retrieved", fiber.Map{"listings": listings})
}

// Mine GET /api/v1/market/my-listings — the caller's listings.
func (h *Handlers) Mine(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	listings, err := h.Service.GetMyListings(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Listings retrieved", fiber.Map{"listings": listings})
}
