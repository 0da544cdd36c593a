package service

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/policy"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// UserService manages the team directory and user provisioning.
type UserService struct {
	users     repository.UserRepository
	companies repository.CompanyRepository
	logger    *zap.Logger
}

// UserCreateInput describes a user to provision.
type UserCreateInput struct {
	Name  string
	Email string
	Role  domain.Role
	// CompanyID is honoured for administrators only; everyone else provisions into their own company.
	CompanyID string
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, companies repository.CompanyRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, companies: companies, logger: loggerOrNop(logger)}
}

// Directory groups personnel under their heads as seen by viewer.
func (s *UserService) Directory(ctx context.Context, viewer domain.User) ([]policy.DirectoryGroup, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return policy.Directory(users, viewer), nil
}

// CreateUser provisions an active user. Administrators create into the requested company or the
// first company on record; others create into their own company. Exceeding the plan's seat
// limits is logged but not refused.
func (s *UserService) CreateUser(ctx context.Context, actor domain.User, input UserCreateInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" || email == "" {
		return nil, apperrors.NewValidationError("name and email are required", nil)
	}
	if !canProvision(actor.Role, input.Role) {
		return nil, apperrors.NewValidationError("role cannot be provisioned by caller", map[string]any{"role": input.Role})
	}

	companyID, err := s.targetCompany(ctx, actor, input.CompanyID)
	if err != nil {
		return nil, err
	}

	user := domain.User{
		ID:        "user-" + strings.ToLower(shortID()),
		Name:      name,
		Email:     email,
		Role:      input.Role,
		CompanyID: companyID,
		Avatar:    "https://picsum.photos/seed/" + url.PathEscape(email) + "/100",
		Active:    true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, mapRepoError(err, "user", email)
	}

	s.warnOnSeatLimit(ctx, companyID)
	return &user, nil
}

// ToggleActive flips a user's active flag. Nobody toggles their own account. Non-admins may only
// manage users of their own company who rank below them.
func (s *UserService) ToggleActive(ctx context.Context, actor domain.User, userID string) (*domain.User, error) {
	if userID == actor.ID {
		return nil, apperrors.NewForbidden("cannot change the active state of your own account")
	}
	updated, err := s.users.Update(ctx, userID, func(user domain.User) (domain.User, error) {
		if actor.Role == domain.RoleAdmin {
			return user.WithActive(!user.Active), nil
		}
		if user.CompanyID != actor.CompanyID || user.Role == domain.RoleAdmin {
			return user, repository.ErrNotFound
		}
		if user.Role.Rank() >= actor.Role.Rank() {
			return user, apperrors.NewForbidden("cannot manage a user of equal or higher role")
		}
		return user.WithActive(!user.Active), nil
	})
	if err != nil {
		return nil, mapRepoError(err, "user", userID)
	}
	return updated, nil
}

func (s *UserService) targetCompany(ctx context.Context, actor domain.User, requested string) (string, error) {
	if actor.Role != domain.RoleAdmin {
		return actor.CompanyID, nil
	}
	if requested != "" {
		if _, err := s.companies.GetByID(ctx, requested); err != nil {
			return "", mapRepoError(err, "company", requested)
		}
		return requested, nil
	}
	companies, err := s.companies.List(ctx)
	if err != nil {
		return "", err
	}
	if len(companies) == 0 {
		return actor.CompanyID, nil
	}
	return companies[0].ID, nil
}

func (s *UserService) warnOnSeatLimit(ctx context.Context, companyID string) {
	users, err := s.users.List(ctx)
	if err != nil {
		return
	}
	var company *domain.Company
	if c, err := s.companies.GetByID(ctx, companyID); err == nil {
		company = c
	}
	limits := policy.LimitsForCompany(company)
	usage := policy.Usage(users, companyID)
	if !limits.Within(usage) {
		s.logger.Warn("plan seat limit exceeded",
			zap.String("company_id", companyID),
			zap.Int("agents", usage.Agents),
			zap.Stringer("agent_limit", limits.Agents),
			zap.Int("leads", usage.Leads),
			zap.Stringer("lead_limit", limits.Leads))
	}
}

// canProvision lists the roles each caller may create. Administrators additionally create managers.
func canProvision(actor, target domain.Role) bool {
	switch target {
	case domain.RoleUser, domain.RoleAgent, domain.RoleTeamLead:
		return true
	case domain.RoleManager:
		return actor == domain.RoleAdmin
	}
	return false
}
