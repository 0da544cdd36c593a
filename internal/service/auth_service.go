package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// IdentityNotFoundMessage is reported when no user matches a login email.
const IdentityNotFoundMessage = "Identity not found."

// AuthService signs users in by email and issues session tokens.
type AuthService struct {
	users    repository.UserRepository
	tokenMgr *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{users: users, tokenMgr: tokens}
}

// Login finds the user by case-insensitive email and issues a session. There is no password;
// inactive accounts are refused.
func (s *AuthService) Login(ctx context.Context, email string) (*domain.User, domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domain.Session{}, apperrors.NewValidationError("email is required", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.Session{}, apperrors.NewUnauthorized(IdentityNotFoundMessage)
		}
		return nil, domain.Session{}, err
	}
	if !user.Active {
		return nil, domain.Session{}, apperrors.NewUnauthorized("account is inactive")
	}

	session, err := s.tokenMgr.GenerateToken(*user)
	if err != nil {
		return nil, domain.Session{}, apperrors.NewInternalError(err)
	}
	return user, session, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
