package domain

import "time"

// SubscriptionTier is the billing plan of a company.
type SubscriptionTier string

const (
	TierFree       SubscriptionTier = "Free"
	TierPro        SubscriptionTier = "Pro"
	TierEnterprise SubscriptionTier = "Enterprise"
	TierCustom     SubscriptionTier = "Custom"
)

// Valid reports whether t is a known tier.
func (t SubscriptionTier) Valid() bool {
	switch t {
	case TierFree, TierPro, TierEnterprise, TierCustom:
		return true
	}
	return false
}

// RegistrationStatus tracks onboarding approval of a company.
type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "Pending"
	RegistrationApproved RegistrationStatus = "Approved"
	RegistrationRejected RegistrationStatus = "Rejected"
)

// AppFeatures are the capability flags a company is entitled to.
type AppFeatures struct {
	NeuralTriage  bool
	NeuralSummary bool
	AutoRouting   bool
	KnowledgeBase bool
}

// Company is a tenant of the helpdesk.
type Company struct {
	ID               string
	Name             string
	Domain           string
	CreatedAt        time.Time
	Status           RegistrationStatus
	Features         AppFeatures
	SubscriptionTier SubscriptionTier
	BillingEmail     string
	NextBillingDate  *time.Time
}
