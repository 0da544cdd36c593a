package repository

import (
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/policy"
)

// MigrateTickets normalizes tickets written by older versions of the store.
// A missing escalation level decodes as None; a missing comment log becomes empty.
// Levels outside the known range are clamped.
func MigrateTickets(tickets []domain.Ticket) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		if ticket.Comments == nil {
			ticket.Comments = []domain.TicketComment{}
		}
		switch {
		case ticket.EscalationLevel < domain.EscalationNone:
			ticket.EscalationLevel = domain.EscalationNone
		case ticket.EscalationLevel > domain.EscalationManager:
			ticket.EscalationLevel = domain.EscalationManager
		}
		if ticket.Priority == "" {
			ticket.Priority = domain.TicketPriorityMedium
		}
		if ticket.Status == "" {
			ticket.Status = domain.TicketStatusOpen
		}
		out = append(out, ticket)
	}
	return out
}

// MigrateCompanies re-derives every company's features from its tier.
// An unknown tier is treated as Free.
func MigrateCompanies(companies []domain.Company) []domain.Company {
	out := make([]domain.Company, 0, len(companies))
	for _, company := range companies {
		tier := company.SubscriptionTier
		if !tier.Valid() {
			tier = domain.TierFree
		}
		out = append(out, policy.Reprovision(company, tier))
	}
	return out
}
