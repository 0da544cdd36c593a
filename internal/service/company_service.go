package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/policy"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// CompanyService covers tenants, subscription billing and the category taxonomy.
type CompanyService struct {
	companies  repository.CompanyRepository
	users      repository.UserRepository
	categories repository.CategoryRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        Clock
}

// CompanyDependencies bundles collaborators for the company service.
type CompanyDependencies struct {
	CompanyRepo  repository.CompanyRepository
	UserRepo     repository.UserRepository
	CategoryRepo repository.CategoryRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	Clock        Clock
}

// BillingOverview is the plan view of one company.
type BillingOverview struct {
	Company      *domain.Company
	Tier         domain.SubscriptionTier
	Features     domain.AppFeatures
	Limits       policy.PlanLimits
	Usage        policy.SeatUsage
	WithinLimits bool
}

// NewCompanyService constructs the service.
func NewCompanyService(deps CompanyDependencies) *CompanyService {
	return &CompanyService{
		companies:  deps.CompanyRepo,
		users:      deps.UserRepo,
		categories: deps.CategoryRepo,
		dispatcher: deps.Dispatcher,
		logger:     loggerOrNop(deps.Logger),
		now:        clockOrDefault(deps.Clock),
	}
}

// CompanyOf returns the viewer's company, or nil when it no longer exists.
func (s *CompanyService) CompanyOf(ctx context.Context, viewer domain.User) (*domain.Company, error) {
	company, err := s.companies.GetByID(ctx, viewer.CompanyID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return company, nil
}

// Features returns the viewer's capability flags. A missing company yields the defaults.
func (s *CompanyService) Features(ctx context.Context, viewer domain.User) (domain.AppFeatures, error) {
	company, err := s.CompanyOf(ctx, viewer)
	if err != nil {
		return domain.AppFeatures{}, err
	}
	return policy.FeaturesForCompany(company), nil
}

// Billing summarises the viewer's plan, limits and seat usage.
func (s *CompanyService) Billing(ctx context.Context, viewer domain.User) (*BillingOverview, error) {
	company, err := s.CompanyOf(ctx, viewer)
	if err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	overview := &BillingOverview{
		Company:  company,
		Tier:     domain.TierFree,
		Features: policy.FeaturesForCompany(company),
		Limits:   policy.LimitsForCompany(company),
		Usage:    policy.Usage(users, viewer.CompanyID),
	}
	if company != nil {
		overview.Tier = company.SubscriptionTier
	}
	overview.WithinLimits = overview.Limits.Within(overview.Usage)
	return overview, nil
}

// Upgrade moves a company to tier and re-provisions its features. Administrators may name any
// company; everyone else changes their own.
func (s *CompanyService) Upgrade(ctx context.Context, actor domain.User, companyID string, tier domain.SubscriptionTier) (*domain.Company, error) {
	if !tier.Valid() {
		return nil, apperrors.NewValidationError("unknown subscription tier", map[string]any{"tier": tier})
	}
	if companyID == "" || actor.Role != domain.RoleAdmin {
		companyID = actor.CompanyID
	}

	var oldTier domain.SubscriptionTier
	updated, err := s.companies.Update(ctx, companyID, func(company domain.Company) (domain.Company, error) {
		oldTier = company.SubscriptionTier
		return policy.Reprovision(company, tier), nil
	})
	if err != nil {
		return nil, mapRepoError(err, "company", companyID)
	}

	s.logger.Info("company re-provisioned",
		zap.String("company_id", companyID),
		zap.String("old_tier", string(oldTier)),
		zap.String("new_tier", string(tier)))
	publish(ctx, s.dispatcher, s.logger, s.now, events.Event{
		Type:      events.EventCompanyTierChanged,
		CompanyID: companyID,
		Actor:     actorOf(actor),
		Payload:   events.CompanyTierChangedPayload{OldTier: oldTier, NewTier: tier},
	})
	return updated, nil
}

// List returns every company.
func (s *CompanyService) List(ctx context.Context) ([]domain.Company, error) {
	return s.companies.List(ctx)
}

// Categories returns the category taxonomy.
func (s *CompanyService) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}
