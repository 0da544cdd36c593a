package domain

import "time"

// NotificationType classifies outbound notifications.
type NotificationType string

const (
	NotificationAssignment NotificationType = "ASSIGNMENT"
	NotificationComment    NotificationType = "COMMENT"
	NotificationEscalation NotificationType = "ESCALATION"
)

// Notification is a message addressed to a user about a ticket.
type Notification struct {
	ID             string
	RecipientEmail string
	Subject        string
	Content        string
	Timestamp      time.Time
	Type           NotificationType
	TicketID       string
}
