package dto

import (
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/policy"
)

// Ticket maps a domain ticket.
func Ticket(ticket *domain.Ticket) TicketResponse {
	comments := make([]CommentResponse, 0, len(ticket.Comments))
	for _, comment := range ticket.Comments {
		comments = append(comments, CommentResponse{
			ID:        comment.ID,
			AuthorID:  comment.AuthorID,
			Text:      comment.Text,
			CreatedAt: comment.CreatedAt,
		})
	}
	return TicketResponse{
		ID:               ticket.ID,
		Title:            ticket.Title,
		Description:      ticket.Description,
		Status:           ticket.Status,
		Priority:         ticket.Priority,
		Category:         ticket.Category,
		RequesterID:      ticket.RequesterID,
		AssigneeID:       ticket.AssigneeID,
		CompanyID:        ticket.CompanyID,
		CreatedAt:        ticket.CreatedAt,
		UpdatedAt:        ticket.UpdatedAt,
		Comments:         comments,
		EscalationLevel:  ticket.EscalationLevel,
		LastEscalationAt: ticket.LastEscalationAt,
	}
}

// Tickets maps a slice of tickets.
func Tickets(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, Ticket(&tickets[i]))
	}
	return out
}

// User maps a domain user.
func User(user domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CompanyID: user.CompanyID,
		Avatar:    user.Avatar,
		IsActive:  user.Active,
	}
}

// Users maps a slice of users.
func Users(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, User(user))
	}
	return out
}

// Directory maps directory groups.
func Directory(groups []policy.DirectoryGroup) []DirectoryGroupResponse {
	out := make([]DirectoryGroupResponse, 0, len(groups))
	for _, group := range groups {
		out = append(out, DirectoryGroupResponse{Head: User(group.Head), Personnel: Users(group.Personnel)})
	}
	return out
}

// Features maps capability flags.
func Features(features domain.AppFeatures) FeaturesResponse {
	return FeaturesResponse{
		NeuralTriage:  features.NeuralTriage,
		NeuralSummary: features.NeuralSummary,
		AutoRouting:   features.AutoRouting,
		KnowledgeBase: features.KnowledgeBase,
	}
}

// Company maps a possibly missing company.
func Company(company *domain.Company) *CompanyResponse {
	if company == nil {
		return nil
	}
	return &CompanyResponse{
		ID:               company.ID,
		Name:             company.Name,
		Domain:           company.Domain,
		CreatedAt:        company.CreatedAt,
		Status:           company.Status,
		Features:         Features(company.Features),
		SubscriptionTier: company.SubscriptionTier,
		BillingEmail:     company.BillingEmail,
		NextBillingDate:  company.NextBillingDate,
	}
}

// Companies maps a slice of companies.
func Companies(companies []domain.Company) []CompanyResponse {
	out := make([]CompanyResponse, 0, len(companies))
	for i := range companies {
		out = append(out, *Company(&companies[i]))
	}
	return out
}

// Limits maps plan allowances.
func Limits(limits policy.PlanLimits) LimitsResponse {
	return LimitsResponse{Agents: limits.Agents, Leads: limits.Leads, Users: limits.Users}
}

// Categories maps the taxonomy.
func Categories(categories []domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, category := range categories {
		out = append(out, CategoryResponse{ID: category.ID, Name: category.Name, Description: category.Description})
	}
	return out
}

// Notifications maps outbox entries.
func Notifications(notifications []domain.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, NotificationResponse{
			ID:             n.ID,
			RecipientEmail: n.RecipientEmail,
			Subject:        n.Subject,
			Content:        n.Content,
			Timestamp:      n.Timestamp,
			Type:           n.Type,
			TicketID:       n.TicketID,
		})
	}
	return out
}
