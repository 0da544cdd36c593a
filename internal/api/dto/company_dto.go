package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/policy"
)

// UpgradeRequest payload for changing a subscription tier.
type UpgradeRequest struct {
	Tier      domain.SubscriptionTier `json:"tier" validate:"required,oneof=Free Pro Enterprise Custom"`
	CompanyID string                  `json:"companyId" validate:"omitempty,max=64"`
}

// FeaturesResponse lists capability flags.
type FeaturesResponse struct {
	NeuralTriage  bool `json:"neuralTriage"`
	NeuralSummary bool `json:"neuralSummary"`
	AutoRouting   bool `json:"autoRouting"`
	KnowledgeBase bool `json:"knowledgeBase"`
}

// CompanyResponse is the tenant view.
type CompanyResponse struct {
	ID               string                    `json:"id"`
	Name             string                    `json:"name"`
	Domain           string                    `json:"domain"`
	CreatedAt        time.Time                 `json:"createdAt"`
	Status           domain.RegistrationStatus `json:"status"`
	Features         FeaturesResponse          `json:"features"`
	SubscriptionTier domain.SubscriptionTier   `json:"subscriptionTier"`
	BillingEmail     string                    `json:"billingEmail,omitempty"`
	NextBillingDate  *time.Time                `json:"nextBillingDate,omitempty"`
}

// LimitsResponse renders seat allowances; unlimited values render as "Unlimited".
type LimitsResponse struct {
	Agents policy.Limit `json:"agents"`
	Leads  policy.Limit `json:"leads"`
	Users  policy.Limit `json:"users"`
}

// UsageResponse counts occupied seats.
type UsageResponse struct {
	Agents int `json:"agents"`
	Leads  int `json:"leads"`
}

// BillingResponse is the plan overview.
type BillingResponse struct {
	Company      *CompanyResponse        `json:"company"`
	Tier         domain.SubscriptionTier `json:"tier"`
	Features     FeaturesResponse        `json:"features"`
	Limits       LimitsResponse          `json:"limits"`
	Usage        UsageResponse           `json:"usage"`
	WithinLimits bool                    `json:"withinLimits"`
}

// CategoryResponse is a taxonomy entry.
type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
