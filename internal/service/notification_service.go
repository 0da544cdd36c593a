package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

const (
	defaultOutboxLimit = 200
	webhookQueueSize   = 256
)

// NotificationService turns ticket events into notifications and keeps the most recent ones in an
// outbox. Webhook forwarding is queued and runs off the publishing request in RunWebhookDelivery.
type NotificationService struct {
	dispatcher events.Dispatcher
	tickets    repository.TicketRepository
	users      repository.UserRepository
	logger     *zap.Logger
	cfg        config.NotificationConfig
	webhook    *resty.Client
	queue      chan domain.Notification
	now        Clock

	mu     sync.Mutex
	outbox []domain.Notification
}

// NotificationDependencies bundles collaborators for the notification service.
type NotificationDependencies struct {
	Dispatcher events.Dispatcher
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Logger     *zap.Logger
	Config     config.NotificationConfig
	Clock      Clock
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	cfg := deps.Config
	if cfg.OutboxLimit <= 0 {
		cfg.OutboxLimit = defaultOutboxLimit
	}
	n := &NotificationService{
		dispatcher: deps.Dispatcher,
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		logger:     loggerOrNop(deps.Logger),
		cfg:        cfg,
		now:        clockOrDefault(deps.Clock),
	}
	if strings.TrimSpace(cfg.WebhookURL) != "" {
		n.webhook = resty.New().
			SetTimeout(cfg.WebhookTimeout()).
			SetHeader("Content-Type", "application/json")
		n.queue = make(chan domain.Notification, webhookQueueSize)
	}
	return n
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleTicketAssigned)
	n.dispatcher.Subscribe(events.EventTicketCommentAdded, n.handleTicketCommentAdded)
	n.dispatcher.Subscribe(events.EventTicketEscalated, n.handleTicketEscalated)
}

// RunWebhookDelivery posts queued notifications to the webhook until ctx is done. It returns
// immediately when no webhook is configured.
func (n *NotificationService) RunWebhookDelivery(ctx context.Context) {
	if n.queue == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			if pending := len(n.queue); pending > 0 {
				n.logger.Warn("webhook delivery stopped with pending notifications", zap.Int("pending", pending))
			}
			return
		case notification := <-n.queue:
			_ = n.sendWebhook(ctx, notification)
		}
	}
}

// Notifications returns the outbox, newest first.
func (n *NotificationService) Notifications() []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.Notification, 0, len(n.outbox))
	for i := len(n.outbox) - 1; i >= 0; i-- {
		out = append(out, n.outbox[i])
	}
	return out
}

func (n *NotificationService) handleTicketAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok {
		return nil
	}
	assignee, err := n.users.GetByID(ctx, payload.AssigneeID)
	if err != nil {
		n.logger.Warn("assignment notification skipped", zap.String("ticket_id", event.TicketID), zap.Error(err))
		return nil
	}
	ticket := n.ticketOrStub(ctx, event.TicketID)
	n.deliver(event, domain.Notification{
		RecipientEmail: assignee.Email,
		Type:           domain.NotificationAssignment,
		Subject:        fmt.Sprintf("Ticket %s assigned to you", event.TicketID),
		Content:        fmt.Sprintf("%q (%s priority) is now in your queue.", ticket.Title, ticket.Priority),
	})
	return nil
}

func (n *NotificationService) handleTicketCommentAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCommentAddedPayload)
	if !ok {
		return nil
	}
	ticket := n.ticketOrStub(ctx, event.TicketID)

	// The requester hears about staff replies; the assignee hears about requester replies.
	recipientID := ticket.RequesterID
	if payload.AuthorID == ticket.RequesterID {
		if ticket.AssigneeID == nil {
			return nil
		}
		recipientID = *ticket.AssigneeID
	}
	recipient, err := n.users.GetByID(ctx, recipientID)
	if err != nil {
		return nil
	}
	n.deliver(event, domain.Notification{
		RecipientEmail: recipient.Email,
		Type:           domain.NotificationComment,
		Subject:        fmt.Sprintf("New comment on %s", event.TicketID),
		Content:        payload.TextPreview,
	})
	return nil
}

func (n *NotificationService) handleTicketEscalated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketEscalatedPayload)
	if !ok {
		return nil
	}
	target := domain.RoleTeamLead
	if payload.NewLevel >= domain.EscalationManager {
		target = domain.RoleManager
	}
	users, err := n.users.List(ctx)
	if err != nil {
		return err
	}
	ticket := n.ticketOrStub(ctx, event.TicketID)

	for _, user := range users {
		if user.Role != target || user.CompanyID != event.CompanyID || !user.Active {
			continue
		}
		n.deliver(event, domain.Notification{
			RecipientEmail: user.Email,
			Type:           domain.NotificationEscalation,
			Subject:        fmt.Sprintf("Ticket %s escalated", event.TicketID),
			Content:        fmt.Sprintf("%q was escalated to level %d.", ticket.Title, payload.NewLevel),
		})
	}
	return nil
}

func (n *NotificationService) ticketOrStub(ctx context.Context, ticketID string) domain.Ticket {
	ticket, err := n.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return domain.Ticket{ID: ticketID}
	}
	return *ticket
}

func (n *NotificationService) deliver(event events.Event, notification domain.Notification) {
	notification.ID = "n-" + uuid.NewString()
	notification.TicketID = event.TicketID
	notification.Timestamp = n.now()

	n.mu.Lock()
	n.outbox = append(n.outbox, notification)
	if overflow := len(n.outbox) - n.cfg.OutboxLimit; overflow > 0 {
		n.outbox = append([]domain.Notification(nil), n.outbox[overflow:]...)
	}
	n.mu.Unlock()

	n.logger.Info("notification queued",
		zap.String("type", string(notification.Type)),
		zap.String("ticket_id", notification.TicketID),
		zap.String("recipient", notification.RecipientEmail),
		zap.String("from", n.cfg.EmailFrom))

	if n.queue == nil {
		return
	}
	select {
	case n.queue <- notification:
	default:
		n.logger.Warn("webhook queue full; notification not forwarded", zap.String("notification_id", notification.ID))
	}
}

type webhookPayload struct {
	ID             string                  `json:"id"`
	RecipientEmail string                  `json:"recipientEmail"`
	Subject        string                  `json:"subject"`
	Content        string                  `json:"content"`
	Timestamp      string                  `json:"timestamp"`
	Type           domain.NotificationType `json:"type"`
	TicketID       string                  `json:"ticketId"`
	From           string                  `json:"from,omitempty"`
}

func (n *NotificationService) sendWebhook(ctx context.Context, notification domain.Notification) error {
	if n.webhook == nil {
		return nil
	}
	resp, err := n.webhook.R().
		SetContext(ctx).
		SetBody(webhookPayload{
			ID:             notification.ID,
			RecipientEmail: notification.RecipientEmail,
			Subject:        notification.Subject,
			Content:        notification.Content,
			Timestamp:      notification.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"),
			Type:           notification.Type,
			TicketID:       notification.TicketID,
			From:           n.cfg.EmailFrom,
		}).
		Post(n.cfg.WebhookURL)
	if err != nil {
		n.logger.Warn("webhook delivery failed", zap.String("notification_id", notification.ID), zap.Error(err))
		return fmt.Errorf("webhook delivery: %w", err)
	}
	if resp.IsError() {
		n.logger.Warn("webhook rejected notification",
			zap.String("notification_id", notification.ID),
			zap.Int("status", resp.StatusCode()))
		return fmt.Errorf("webhook delivery: status %d", resp.StatusCode())
	}
	return nil
}
