package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/policy"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// Feature names a capability flag for route gating.
type Feature string

const (
	FeatureNeuralTriage  Feature = "neuralTriage"
	FeatureNeuralSummary Feature = "neuralSummary"
	FeatureAutoRouting   Feature = "autoRouting"
	FeatureKnowledgeBase Feature = "knowledgeBase"
)

// Enabled reports whether the flag is set in features.
func (f Feature) Enabled(features domain.AppFeatures) bool {
	switch f {
	case FeatureNeuralTriage:
		return features.NeuralTriage
	case FeatureNeuralSummary:
		return features.NeuralSummary
	case FeatureAutoRouting:
		return features.AutoRouting
	case FeatureKnowledgeBase:
		return features.KnowledgeBase
	}
	return false
}

// RequireRole ensures the caller has one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		if _, exists := allowedSet[principal.User.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireFeature ensures the caller's company tier grants the feature.
// A caller whose company cannot be found gets the default feature set.
func RequireFeature(feature Feature) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		if !feature.Enabled(policy.FeaturesForCompany(principal.Company)) {
			return apperrors.NewFeatureDisabled(string(feature))
		}
		return c.Next()
	}
}
