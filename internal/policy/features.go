// Package policy holds the static lookups that scope what a viewer may see and use:
// tier feature flags, ticket and directory visibility, and seat limits.
package policy

import "github.com/spec-kit/helpdesk-service/internal/domain"

// DefaultFeatures applies when a viewer's company record is missing.
var DefaultFeatures = domain.AppFeatures{
	NeuralTriage:  true,
	NeuralSummary: true,
	AutoRouting:   true,
	KnowledgeBase: true,
}

var tierFeatures = map[domain.SubscriptionTier]domain.AppFeatures{
	domain.TierFree: {
		KnowledgeBase: true,
	},
	domain.TierPro: {
		NeuralTriage:  true,
		AutoRouting:   true,
		KnowledgeBase: true,
	},
	domain.TierEnterprise: {
		NeuralTriage:  true,
		NeuralSummary: true,
		AutoRouting:   true,
		KnowledgeBase: true,
	},
	domain.TierCustom: {
		KnowledgeBase: true,
	},
}

// FeaturesFor returns the capability flags granted by tier. Unknown tiers get the Free set.
func FeaturesFor(tier domain.SubscriptionTier) domain.AppFeatures {
	if features, ok := tierFeatures[tier]; ok {
		return features
	}
	return tierFeatures[domain.TierFree]
}

// Reprovision returns a copy of company moved to tier with its features replaced to match.
func Reprovision(company domain.Company, tier domain.SubscriptionTier) domain.Company {
	company.SubscriptionTier = tier
	company.Features = FeaturesFor(tier)
	return company
}

// FeaturesForCompany resolves the flags a viewer of company gets.
func FeaturesForCompany(company *domain.Company) domain.AppFeatures {
	if company == nil {
		return DefaultFeatures
	}
	return company.Features
}
