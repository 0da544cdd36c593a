package repository

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/policy"
)

// Seed is the data a slot falls back to when nothing has been persisted under its key.
type Seed struct {
	Tickets    []domain.Ticket
	Users      []domain.User
	Companies  []domain.Company
	Categories []domain.Category
}

// DefaultSeed returns the demo tenants, staff and tickets with timestamps relative to now.
func DefaultSeed(now time.Time) Seed {
	company := func(id, name, dom string, age time.Duration, tier domain.SubscriptionTier) domain.Company {
		return domain.Company{
			ID:               id,
			Name:             name,
			Domain:           dom,
			CreatedAt:        now.Add(-age),
			Status:           domain.RegistrationApproved,
			Features:         policy.FeaturesFor(tier),
			SubscriptionTier: tier,
		}
	}
	user := func(id, name, email string, role domain.Role, companyID, avatarSeed string) domain.User {
		return domain.User{
			ID:        id,
			Name:      name,
			Email:     email,
			Role:      role,
			CompanyID: companyID,
			Avatar:    "https://picsum.photos/seed/" + avatarSeed + "/100",
			Active:    true,
		}
	}

	return Seed{
		Companies: []domain.Company{
			company("comp-1", "Acme Corp", "acme.com", 365*24*time.Hour, domain.TierEnterprise),
			company("comp-2", "Global Tech", "globaltech.io", 4380*time.Hour, domain.TierPro),
			company("comp-3", "Cyberdyne Systems", "cyberdyne.jp", 10*24*time.Hour, domain.TierFree),
		},
		Categories: []domain.Category{
			{ID: "cat-1", Name: "Hardware", Description: "Monitors, Laptops, Keyboards, etc."},
			{ID: "cat-2", Name: "Software", Description: "OS issues, App crashes, Licenses."},
			{ID: "cat-3", Name: "Networking", Description: "VPN, WiFi, Internet access."},
			{ID: "cat-4", Name: "Access Control", Description: "Passwords, Permissions, Onboarding."},
		},
		Users: []domain.User{
			user("user-0", "Zen Admin", "admin@zen.com", domain.RoleAdmin, "comp-1", "zenadmin"),
			user("user-1", "Super Admin", "admin@helpnexa.com", domain.RoleAdmin, "comp-1", "helpnexaadmin"),
			user("user-2", "Sarah Acme Manager", "manager@acme.com", domain.RoleManager, "comp-1", "acme_m"),
			user("user-3", "Alice Acme Agent", "alice@acme.com", domain.RoleAgent, "comp-1", "acme_a"),
			user("user-7", "Mark Acme User", "user@acme.com", domain.RoleUser, "comp-1", "acme_u"),
			user("user-4", "Bob Global Manager", "manager@globaltech.io", domain.RoleManager, "comp-2", "global_m"),
			user("user-5", "John Global Agent", "john@globaltech.io", domain.RoleAgent, "comp-2", "global_a"),
			user("user-6", "David Cyber Manager", "manager@cyberdyne.jp", domain.RoleManager, "comp-3", "cyber_m"),
		},
		Tickets: []domain.Ticket{
			{
				ID:          "T-8821",
				Title:       "Acme Server Outage",
				Description: "The production server in the west wing is unresponsive after the power surge. We need an on-site technician to inspect the motherboard.",
				Status:      domain.TicketStatusInProgress,
				Priority:    domain.TicketPriorityUrgent,
				Category:    "Hardware",
				RequesterID: "user-7",
				CompanyID:   "comp-1",
				CreatedAt:   now.Add(-time.Hour),
				UpdatedAt:   now,
				Comments: []domain.TicketComment{
					{ID: "c1", AuthorID: "user-7", Text: "Still no response from the console. Please hurry.", CreatedAt: now.Add(-50 * time.Minute)},
					{ID: "c2", AuthorID: "user-3", Text: "I am heading to the server room now with replacement parts.", CreatedAt: now.Add(-2000 * time.Second)},
				},
				EscalationLevel: domain.EscalationNone,
			},
			{
				ID:              "T-9902",
				Title:           "Skynet Neural Drift",
				Description:     "Neural net weights are drifting. Need manual recalibration of the Skynet core to prevent logical inconsistencies.",
				Status:          domain.TicketStatusOpen,
				Priority:        domain.TicketPriorityHigh,
				Category:        "Software",
				RequesterID:     "user-6",
				CompanyID:       "comp-3",
				CreatedAt:       now.Add(-2 * time.Hour),
				UpdatedAt:       now,
				Comments:        []domain.TicketComment{},
				EscalationLevel: domain.EscalationNone,
			},
		},
	}
}
