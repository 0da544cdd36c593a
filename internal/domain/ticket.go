package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. Any status may follow any other.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusHold       TicketStatus = "Hold"
	TicketStatusCompleted  TicketStatus = "Completed"
	TicketStatusClosed     TicketStatus = "Closed"
)

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusHold, TicketStatusCompleted, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "Low"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityHigh   TicketPriority = "High"
	TicketPriorityUrgent TicketPriority = "Urgent"
)

// Valid reports whether p is a known priority.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// EscalationLevel marks who a ticket has been escalated to.
type EscalationLevel int

const (
	EscalationNone     EscalationLevel = 0
	EscalationTeamLead EscalationLevel = 1
	EscalationManager  EscalationLevel = 2
)

// Valid reports whether l is a known level.
func (l EscalationLevel) Valid() bool {
	return l >= EscalationNone && l <= EscalationManager
}

// SystemAuthorID authors comments generated by the service itself.
const SystemAuthorID = "system"

// TicketComment is an immutable entry in a ticket thread.
type TicketComment struct {
	ID        string
	AuthorID  string
	Text      string
	CreatedAt time.Time
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID               string
	Title            string
	Description      string
	Status           TicketStatus
	Priority         TicketPriority
	Category         string
	RequesterID      string
	AssigneeID       *string
	CompanyID        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Comments         []TicketComment
	EscalationLevel  EscalationLevel
	LastEscalationAt *time.Time
}

// WithStatus returns a copy with the status replaced and the update time refreshed.
func (t Ticket) WithStatus(status TicketStatus, at time.Time) Ticket {
	t.Status = status
	t.UpdatedAt = at
	return t
}

// WithComment returns a copy with comment appended to the thread.
func (t Ticket) WithComment(comment TicketComment, at time.Time) Ticket {
	comments := make([]TicketComment, 0, len(t.Comments)+1)
	comments = append(comments, t.Comments...)
	t.Comments = append(comments, comment)
	t.UpdatedAt = at
	return t
}

// WithAssignee returns a copy assigned to assigneeID.
func (t Ticket) WithAssignee(assigneeID string, at time.Time) Ticket {
	t.AssigneeID = &assigneeID
	t.UpdatedAt = at
	return t
}

// WithEscalation returns a copy raised to level.
func (t Ticket) WithEscalation(level EscalationLevel, at time.Time) Ticket {
	t.EscalationLevel = level
	t.LastEscalationAt = &at
	t.UpdatedAt = at
	return t
}

// IsAssignedTo reports whether the ticket's assignee is userID.
func (t Ticket) IsAssignedTo(userID string) bool {
	return t.AssigneeID != nil && *t.AssigneeID == userID
}
