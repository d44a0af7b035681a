package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-service/internal/api/dto"
	"github.com/spec-kit/account-service/internal/service"
	apperrors "github.com/spec-kit/account-service/pkg/util"
)

// AuthHandler exposes signup and login endpoints.
type AuthHandler struct {
	accounts *service.AccountService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(accounts *service.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.accounts.Signup(c.UserContext(), req.Name, req.Email, req.Role, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(
		dto.OK("User created successfully.", dto.NewUserResponse(user)),
	)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, token, expiresAt, err := h.accounts.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.OK("Login successful.", dto.AuthenticatedResponse{
		User:        dto.NewUserResponse(user),
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}))
}
