package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload for opening a ticket.
type CreateTicketRequest struct {
	Title       string                `json:"title" validate:"required,max=200"`
	Description string                `json:"description" validate:"required,max=10000"`
	Category    string                `json:"category" validate:"omitempty,max=100"`
	Priority    domain.TicketPriority `json:"priority" validate:"omitempty,oneof=Low Medium High Urgent"`
}

// UpdateStatusRequest payload for moving a ticket between statuses.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status" validate:"required"`
}

// CreateCommentRequest payload for replying on a ticket.
type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,max=5000"`
}

// AssignTicketRequest payload for manual assignment.
type AssignTicketRequest struct {
	AssigneeID string `json:"assigneeId" validate:"required"`
}

// EscalateTicketRequest payload. Level 1 escalates to team leads, 2 to managers.
type EscalateTicketRequest struct {
	Level int `json:"level" validate:"required,oneof=1 2"`
}

// TriageRequest asks for a classification of a draft ticket.
type TriageRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=10000"`
}

// TriageResponse is the suggested classification.
type TriageResponse struct {
	Priority        domain.TicketPriority `json:"priority"`
	Category        string                `json:"category"`
	SuggestedAction string                `json:"suggestedAction"`
}

// SummaryResponse carries a one-sentence thread summary.
type SummaryResponse struct {
	TicketID string `json:"ticketId"`
	Summary  string `json:"summary"`
}

// CommentResponse is one entry of a ticket thread.
type CommentResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// TicketResponse is the full ticket view.
type TicketResponse struct {
	ID               string                 `json:"id"`
	Title            string                 `json:"title"`
	Description      string                 `json:"description"`
	Status           domain.TicketStatus    `json:"status"`
	Priority         domain.TicketPriority  `json:"priority"`
	Category         string                 `json:"category"`
	RequesterID      string                 `json:"requesterId"`
	AssigneeID       *string                `json:"assigneeId,omitempty"`
	CompanyID        string                 `json:"companyId"`
	CreatedAt        time.Time              `json:"createdAt"`
	UpdatedAt        time.Time              `json:"updatedAt"`
	Comments         []CommentResponse      `json:"comments"`
	EscalationLevel  domain.EscalationLevel `json:"escalationLevel"`
	LastEscalationAt *time.Time             `json:"lastEscalationAt,omitempty"`
}

// DashboardResponse holds the headline counters.
type DashboardResponse struct {
	Total         int `json:"total"`
	Escalations   int `json:"escalations"`
	Open          int `json:"open"`
	SolvedPercent int `json:"solvedPercent"`
}

// AgentPerformanceResponse is one row of the performance table.
type AgentPerformanceResponse struct {
	Agent      UserResponse `json:"agent"`
	Total      int          `json:"total"`
	Open       int          `json:"open"`
	InProgress int          `json:"inProgress"`
	OnHold     int          `json:"onHold"`
	Completed  int          `json:"completed"`
	Escalated  int          `json:"escalated"`
}

// NotificationResponse is one outbox entry.
type NotificationResponse struct {
	ID             string                  `json:"id"`
	RecipientEmail string                  `json:"recipientEmail"`
	Subject        string                  `json:"subject"`
	Content        string                  `json:"content"`
	Timestamp      time.Time               `json:"timestamp"`
	Type           domain.NotificationType `json:"type"`
	TicketID       string                  `json:"ticketId"`
}
