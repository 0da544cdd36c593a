package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// LoginRequest payload for email sign-in.
type LoginRequest struct {
	Email string `json:"email" validate:"required,max=254"`
}

// SessionResponse is returned after a successful login.
type SessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// CreateUserRequest payload for provisioning a user.
type CreateUserRequest struct {
	Name      string      `json:"name" validate:"required,max=150"`
	Email     string      `json:"email" validate:"required,email,max=254"`
	Role      domain.Role `json:"role" validate:"required,oneof=MANAGER TEAM_LEAD AGENT USER"`
	CompanyID string      `json:"companyId" validate:"omitempty,max=64"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CompanyID string      `json:"companyId"`
	Avatar    string      `json:"avatar"`
	IsActive  bool        `json:"isActive"`
}

// DirectoryGroupResponse is a directory head with its personnel.
type DirectoryGroupResponse struct {
	Head      UserResponse   `json:"head"`
	Personnel []UserResponse `json:"personnel"`
}

// MeResponse describes the signed-in principal.
type MeResponse struct {
	User     UserResponse     `json:"user"`
	Company  *CompanyResponse `json:"company"`
	Features FeaturesResponse `json:"features"`
}
