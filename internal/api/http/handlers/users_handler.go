package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-service/internal/api/dto"
	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/service"
	apperrors "github.com/spec-kit/account-service/pkg/util"
)

// UsersHandler exposes token-gated account endpoints.
type UsersHandler struct {
	accounts *service.AccountService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(accounts *service.AccountService) *UsersHandler {
	return &UsersHandler{accounts: accounts}
}

// CurrentUser handles GET /api/user.
func (h *UsersHandler) CurrentUser(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("missing or invalid token")
	}

	user, err := h.accounts.CurrentUser(c.UserContext(), claims)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("User successfully retrieved", dto.NewUserResponse(user)))
}

// List handles GET /api/user/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.accounts.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("Retrieved all users successfully", dto.NewUserListResponse(users)))
}

// GetByID handles GET /api/user/:id.
func (h *UsersHandler) GetByID(c *fiber.Ctx) error {
	user, err := h.accounts.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("User retrieved successfully", dto.NewUserResponse(user)))
}

// Update handles PATCH /api/user/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.accounts.UpdateUser(c.UserContext(), c.Params("id"), service.UpdatePatch{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("User updated successfully", dto.NewUserResponse(user)))
}

// Delete handles DELETE /api/user/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	if err := h.accounts.DeleteUser(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.OK("Deleted successfully", nil))
}
