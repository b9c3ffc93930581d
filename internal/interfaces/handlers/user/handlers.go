package user

import (
	usersvc "krishi-backend/internal/application/user"
	"krishi-backend/internal/middleware"
	"krishi-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers holds the user profile service.
type Handlers struct {
	Service *usersvc.Service
}

// ViewUser GET /api/v1/users/view-user — the caller's profile.
func (h *Handlers) ViewUser(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	u, err := h.Service.ViewUser(c.Context(), userID)
	if err != nil {
		if err == usersvc.ErrUserNotFound {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "User retrieved", fiber.Map{"user": u})
}

// UpdateUser PUT /api/v1/users/update-user — update profile fields.
func (h *Handlers) UpdateUser(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil || len(body) == 0 {
		return response.Error(c, "Missing update fields", 400, nil)
	}

	u, err := h.Service.UpdateUser(c.Context(), userID, body)
	if err != nil {
		if err == usersvc.ErrUserNotFound {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.Success(c, "User updated", fiber.Map{"user": u})
}
