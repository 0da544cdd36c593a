package policy

import (
	"encoding/json"
	"strconv"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Limit is a seat allowance that is either a finite count or unlimited.
type Limit struct {
	Value     int
	Unlimited bool
}

// Finite builds a bounded limit.
func Finite(n int) Limit { return Limit{Value: n} }

// Unlimited is the sentinel for plans without a cap.
var Unlimited = Limit{Unlimited: true}

// Allows reports whether count seats fit within the limit.
func (l Limit) Allows(count int) bool {
	return l.Unlimited || count <= l.Value
}

func (l Limit) String() string {
	if l.Unlimited {
		return "Unlimited"
	}
	return strconv.Itoa(l.Value)
}

// MarshalJSON renders unlimited as the string "Unlimited" and finite limits as numbers.
func (l Limit) MarshalJSON() ([]byte, error) {
	if l.Unlimited {
		return json.Marshal("Unlimited")
	}
	return json.Marshal(l.Value)
}

// PlanLimits are the seat allowances of a tier.
type PlanLimits struct {
	Agents Limit
	Leads  Limit
	Users  Limit
}

// SeatUsage counts the seats a company currently occupies.
type SeatUsage struct {
	Agents int
	Leads  int
}

// LimitsFor returns the allowances of tier. Custom and unknown tiers fall back to the Free allowances.
func LimitsFor(tier domain.SubscriptionTier) PlanLimits {
	switch tier {
	case domain.TierPro:
		return PlanLimits{Agents: Finite(5), Leads: Finite(1), Users: Unlimited}
	case domain.TierEnterprise:
		return PlanLimits{Agents: Unlimited, Leads: Unlimited, Users: Unlimited}
	default:
		return PlanLimits{Agents: Finite(1), Leads: Finite(0), Users: Unlimited}
	}
}

// LimitsForCompany resolves allowances for a possibly missing company.
func LimitsForCompany(company *domain.Company) PlanLimits {
	if company == nil {
		return LimitsFor(domain.TierFree)
	}
	return LimitsFor(company.SubscriptionTier)
}

// Usage counts agents and team leads belonging to companyID.
func Usage(users []domain.User, companyID string) SeatUsage {
	var usage SeatUsage
	for _, user := range users {
		if user.CompanyID != companyID {
			continue
		}
		switch user.Role {
		case domain.RoleAgent:
			usage.Agents++
		case domain.RoleTeamLead:
			usage.Leads++
		}
	}
	return usage
}

// Within reports whether usage fits the limits. Informational only; nothing blocks on it.
func (p PlanLimits) Within(usage SeatUsage) bool {
	return p.Agents.Allows(usage.Agents) && p.Leads.Allows(usage.Leads)
}
