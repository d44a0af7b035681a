package dto

import (
	"time"

	"github.com/spec-kit/account-service/internal/domain"
)

// Response is the transport envelope shared by all endpoints.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// OK builds a success envelope.
func OK(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Fail builds a failure envelope.
func Fail(message string) Response {
	return Response{Success: false, Message: message, Data: nil}
}

// SignupRequest payload for new accounts.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// LoginRequest payload for login. Username carries the account email.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateUserRequest payload for partial updates; blank fields are ignored.
type UpdateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserResponse is the API view of an account. The password hash is never
// part of this shape.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthenticatedResponse pairs the account with its issued access token.
type AuthenticatedResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// NewUserResponse maps a domain user to its API shape.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Role:      user.Role,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// NewUserListResponse maps a slice of domain users.
func NewUserListResponse(users []*domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, NewUserResponse(user))
	}
	return out
}
