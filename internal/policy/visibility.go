package policy

import (
	"sort"
	"strings"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// VisibleTickets returns the tickets viewer may see, most recently created first.
// Tickets sharing a creation time keep their relative order from all.
func VisibleTickets(all []domain.Ticket, viewer domain.User) []domain.Ticket {
	visible := make([]domain.Ticket, 0, len(all))
	for _, ticket := range all {
		if CanViewTicket(viewer, ticket) {
			visible = append(visible, ticket)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].CreatedAt.After(visible[j].CreatedAt)
	})
	return visible
}

// CanViewTicket applies the role scoping rule to a single ticket.
func CanViewTicket(viewer domain.User, ticket domain.Ticket) bool {
	switch {
	case viewer.Role == domain.RoleAdmin:
		return true
	case viewer.Role.IsStaff():
		return ticket.CompanyID == viewer.CompanyID
	default:
		return ticket.RequesterID == viewer.ID
	}
}

// SearchTickets keeps tickets whose id, title, description or category contains term, ignoring case.
func SearchTickets(tickets []domain.Ticket, term string) []domain.Ticket {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return tickets
	}
	matched := make([]domain.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		for _, field := range []string{ticket.ID, ticket.Title, ticket.Description, ticket.Category} {
			if strings.Contains(strings.ToLower(field), term) {
				matched = append(matched, ticket)
				break
			}
		}
	}
	return matched
}

// DirectoryGroup is a directory head with the personnel listed under it.
type DirectoryGroup struct {
	Head      domain.User
	Personnel []domain.User
}

// Directory groups personnel under heads for viewer. Admins see every manager and team lead
// as a head; managers and team leads see only themselves; everyone else sees nothing.
func Directory(all []domain.User, viewer domain.User) []DirectoryGroup {
	var heads []domain.User
	switch viewer.Role {
	case domain.RoleAdmin:
		for _, user := range all {
			if user.Role == domain.RoleManager || user.Role == domain.RoleTeamLead {
				heads = append(heads, user)
			}
		}
	case domain.RoleManager, domain.RoleTeamLead:
		heads = []domain.User{viewer}
	default:
		return []DirectoryGroup{}
	}

	groups := make([]DirectoryGroup, 0, len(heads))
	for _, head := range heads {
		groups = append(groups, DirectoryGroup{Head: head, Personnel: personnelOf(all, head, viewer)})
	}
	return groups
}

func personnelOf(all []domain.User, head, viewer domain.User) []domain.User {
	personnel := []domain.User{}
	for _, user := range all {
		if user.CompanyID != head.CompanyID || user.ID == head.ID {
			continue
		}
		if user.Role == domain.RoleAdmin && viewer.Role != domain.RoleAdmin {
			continue
		}
		personnel = append(personnel, user)
	}
	return personnel
}
