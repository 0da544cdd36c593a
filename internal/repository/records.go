package repository

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Slot records mirror the persisted JSON layout. Optional fields are pointers so the
// load migration can tell a missing value from a zero value.

type commentRecord struct {
	ID        string    `json:"id" yaml:"id"`
	AuthorID  string    `json:"authorId" yaml:"authorId"`
	Text      string    `json:"text" yaml:"text"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

type ticketRecord struct {
	ID               string          `json:"id" yaml:"id"`
	Title            string          `json:"title" yaml:"title"`
	Description      string          `json:"description" yaml:"description"`
	Status           string          `json:"status" yaml:"status"`
	Priority         string          `json:"priority" yaml:"priority"`
	Category         string          `json:"category" yaml:"category"`
	RequesterID      string          `json:"requesterId" yaml:"requesterId"`
	AssigneeID       *string         `json:"assigneeId,omitempty" yaml:"assigneeId,omitempty"`
	CompanyID        string          `json:"companyId" yaml:"companyId"`
	CreatedAt        time.Time       `json:"createdAt" yaml:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt" yaml:"updatedAt"`
	Comments         []commentRecord `json:"comments" yaml:"comments"`
	EscalationLevel  *int            `json:"escalationLevel,omitempty" yaml:"escalationLevel,omitempty"`
	LastEscalationAt *time.Time      `json:"lastEscalationAt,omitempty" yaml:"lastEscalationAt,omitempty"`
}

type userRecord struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Email     string `json:"email" yaml:"email"`
	Role      string `json:"role" yaml:"role"`
	CompanyID string `json:"companyId" yaml:"companyId"`
	Avatar    string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	IsActive  *bool  `json:"isActive,omitempty" yaml:"isActive,omitempty"`
}

type featuresRecord struct {
	NeuralTriage  bool `json:"neuralTriage" yaml:"neuralTriage"`
	NeuralSummary bool `json:"neuralSummary" yaml:"neuralSummary"`
	AutoRouting   bool `json:"autoRouting" yaml:"autoRouting"`
	KnowledgeBase bool `json:"knowledgeBase" yaml:"knowledgeBase"`
}

type companyRecord struct {
	ID               string          `json:"id" yaml:"id"`
	Name             string          `json:"name" yaml:"name"`
	Domain           string          `json:"domain" yaml:"domain"`
	CreatedAt        time.Time       `json:"createdAt" yaml:"createdAt"`
	Status           string          `json:"status" yaml:"status"`
	Features         *featuresRecord `json:"features,omitempty" yaml:"features,omitempty"`
	SubscriptionTier string          `json:"subscriptionTier" yaml:"subscriptionTier"`
	BillingEmail     string          `json:"billingEmail,omitempty" yaml:"billingEmail,omitempty"`
	NextBillingDate  *time.Time      `json:"nextBillingDate,omitempty" yaml:"nextBillingDate,omitempty"`
}

type categoryRecord struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

func ticketToRecord(t domain.Ticket) ticketRecord {
	level := int(t.EscalationLevel)
	comments := make([]commentRecord, 0, len(t.Comments))
	for _, c := range t.Comments {
		comments = append(comments, commentRecord{ID: c.ID, AuthorID: c.AuthorID, Text: c.Text, CreatedAt: c.CreatedAt})
	}
	return ticketRecord{
		ID:               t.ID,
		Title:            t.Title,
		Description:      t.Description,
		Status:           string(t.Status),
		Priority:         string(t.Priority),
		Category:         t.Category,
		RequesterID:      t.RequesterID,
		AssigneeID:       t.AssigneeID,
		CompanyID:        t.CompanyID,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
		Comments:         comments,
		EscalationLevel:  &level,
		LastEscalationAt: t.LastEscalationAt,
	}
}

func (r ticketRecord) toDomain() domain.Ticket {
	comments := make([]domain.TicketComment, 0, len(r.Comments))
	for _, c := range r.Comments {
		comments = append(comments, domain.TicketComment{ID: c.ID, AuthorID: c.AuthorID, Text: c.Text, CreatedAt: c.CreatedAt})
	}
	var level domain.EscalationLevel
	if r.EscalationLevel != nil {
		level = domain.EscalationLevel(*r.EscalationLevel)
	}
	return domain.Ticket{
		ID:               r.ID,
		Title:            r.Title,
		Description:      r.Description,
		Status:           domain.TicketStatus(r.Status),
		Priority:         domain.TicketPriority(r.Priority),
		Category:         r.Category,
		RequesterID:      r.RequesterID,
		AssigneeID:       r.AssigneeID,
		CompanyID:        r.CompanyID,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
		Comments:         comments,
		EscalationLevel:  level,
		LastEscalationAt: r.LastEscalationAt,
	}
}

func userToRecord(u domain.User) userRecord {
	active := u.Active
	return userRecord{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CompanyID: u.CompanyID,
		Avatar:    u.Avatar,
		IsActive:  &active,
	}
}

func (r userRecord) toDomain() domain.User {
	return domain.User{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Role:      domain.Role(r.Role),
		CompanyID: r.CompanyID,
		Avatar:    r.Avatar,
		Active:    r.IsActive == nil || *r.IsActive,
	}
}

func companyToRecord(c domain.Company) companyRecord {
	return companyRecord{
		ID:        c.ID,
		Name:      c.Name,
		Domain:    c.Domain,
		CreatedAt: c.CreatedAt,
		Status:    string(c.Status),
		Features: &featuresRecord{
			NeuralTriage:  c.Features.NeuralTriage,
			NeuralSummary: c.Features.NeuralSummary,
			AutoRouting:   c.Features.AutoRouting,
			KnowledgeBase: c.Features.KnowledgeBase,
		},
		SubscriptionTier: string(c.SubscriptionTier),
		BillingEmail:     c.BillingEmail,
		NextBillingDate:  c.NextBillingDate,
	}
}

func (r companyRecord) toDomain() domain.Company {
	company := domain.Company{
		ID:               r.ID,
		Name:             r.Name,
		Domain:           r.Domain,
		CreatedAt:        r.CreatedAt,
		Status:           domain.RegistrationStatus(r.Status),
		SubscriptionTier: domain.SubscriptionTier(r.SubscriptionTier),
		BillingEmail:     r.BillingEmail,
		NextBillingDate:  r.NextBillingDate,
	}
	if r.Features != nil {
		company.Features = domain.AppFeatures{
			NeuralTriage:  r.Features.NeuralTriage,
			NeuralSummary: r.Features.NeuralSummary,
			AutoRouting:   r.Features.AutoRouting,
			KnowledgeBase: r.Features.KnowledgeBase,
		}
	}
	return company
}

func categoryToRecord(c domain.Category) categoryRecord {
	return categoryRecord{ID: c.ID, Name: c.Name, Description: c.Description}
}

func (r categoryRecord) toDomain() domain.Category {
	return domain.Category{ID: r.ID, Name: r.Name, Description: r.Description}
}
