package domain

import "time"

// DefaultRole is assigned when signup omits a role. Roles are free-form
// labels carried in the token; the service applies no role policy.
const DefaultRole = "user"

// User is the domain model for registered accounts. Email is the login
// handle and is unique case-insensitively. PasswordHash is never serialized
// into API responses.
type User struct {
	ID           string
	Name         string
	Role         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
