package service

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/ai"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/policy"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// Fallbacks used when the AI collaborator is unavailable.
const (
	FallbackTriageCategory = domain.DefaultCategory
	FallbackTriageAction   = "Wait for agent review."
	SummaryNoComments      = "No comments yet."
	SummaryUnavailable     = "Summary unavailable."
	SummaryEmpty           = "Could not summarize."
)

const slaEngagedText = "Ticket received. 12h response SLA engaged."

// FallbackTriage is returned whenever triage cannot be obtained from the collaborator.
var FallbackTriage = ai.TriageResult{
	Priority:        domain.TicketPriorityMedium,
	Category:        FallbackTriageCategory,
	SuggestedAction: FallbackTriageAction,
}

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	companies  repository.CompanyRepository
	categories repository.CategoryRepository
	ai         ai.Collaborator
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        Clock

	triageInFlight  atomic.Int64
	summaryInFlight atomic.Int64
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	UserRepo     repository.UserRepository
	CompanyRepo  repository.CompanyRepository
	CategoryRepo repository.CategoryRepository
	AI           ai.Collaborator
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	Clock        Clock
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Category    string
	Priority    domain.TicketPriority
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		companies:  deps.CompanyRepo,
		categories: deps.CategoryRepo,
		ai:         deps.AI,
		dispatcher: deps.Dispatcher,
		logger:     loggerOrNop(deps.Logger),
		now:        clockOrDefault(deps.Clock),
	}
}

// Create opens a ticket for requester. The ticket belongs to the requester's company and starts
// with a system comment; companies with auto-routing get it assigned to their least busy agent.
func (s *TicketService) Create(ctx context.Context, requester domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description are required", map[string]any{
			"title":       title != "",
			"description": description != "",
		})
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": priority})
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = s.defaultCategory(ctx)
	}

	now := s.now()
	ticket := domain.Ticket{
		ID:              "T-" + shortID(),
		Title:           title,
		Description:     description,
		Status:          domain.TicketStatusOpen,
		Priority:        priority,
		Category:        category,
		RequesterID:     requester.ID,
		CompanyID:       requester.CompanyID,
		CreatedAt:       now,
		UpdatedAt:       now,
		EscalationLevel: domain.EscalationNone,
		Comments: []domain.TicketComment{{
			ID:        "sys-" + uuid.NewString(),
			AuthorID:  domain.SystemAuthorID,
			Text:      slaEngagedText,
			CreatedAt: now,
		}},
	}

	var routedTo *domain.User
	if s.companyFeatures(ctx, requester.CompanyID).AutoRouting {
		routedTo = s.leastBusyAgent(ctx, requester.CompanyID)
		if routedTo != nil {
			ticket = ticket.WithAssignee(routedTo.ID, now)
		}
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, mapRepoError(err, "ticket", ticket.ID)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventTicketCreated,
		TicketID:  ticket.ID,
		CompanyID: ticket.CompanyID,
		Actor:     actorOf(requester),
		Payload: events.TicketCreatedPayload{
			Title:       ticket.Title,
			Priority:    ticket.Priority,
			Category:    ticket.Category,
			RequesterID: ticket.RequesterID,
		},
	})
	if routedTo != nil {
		s.publish(ctx, events.Event{
			Type:      events.EventTicketAssigned,
			TicketID:  ticket.ID,
			CompanyID: ticket.CompanyID,
			Actor:     systemActor,
			Payload:   events.TicketAssignedPayload{AssigneeID: routedTo.ID, Automatic: true},
		})
	}
	return &ticket, nil
}

// Get returns a ticket visible to viewer. Invisible tickets are reported as not found.
func (s *TicketService) Get(ctx context.Context, viewer domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapRepoError(err, "ticket", ticketID)
	}
	if !policy.CanViewTicket(viewer, *ticket) {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
	}
	return ticket, nil
}

// ListVisible returns the viewer's tickets newest first, optionally narrowed by a search term.
func (s *TicketService) ListVisible(ctx context.Context, viewer domain.User, search string) ([]domain.Ticket, error) {
	all, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	return policy.SearchTickets(policy.VisibleTickets(all, viewer), search), nil
}

// UpdateStatus moves a ticket to any status.
func (s *TicketService) UpdateStatus(ctx context.Context, actor domain.User, ticketID string, status domain.TicketStatus) (*domain.Ticket, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": status})
	}

	var oldStatus domain.TicketStatus
	updated, err := s.tickets.Update(ctx, ticketID, func(ticket domain.Ticket) (domain.Ticket, error) {
		if !policy.CanViewTicket(actor, ticket) {
			return ticket, repository.ErrNotFound
		}
		oldStatus = ticket.Status
		return ticket.WithStatus(status, s.now()), nil
	})
	if err != nil {
		return nil, mapRepoError(err, "ticket", ticketID)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventTicketStatusChanged,
		TicketID:  updated.ID,
		CompanyID: updated.CompanyID,
		Actor:     actorOf(actor),
		Payload:   events.TicketStatusChangedPayload{OldStatus: oldStatus, NewStatus: status},
	})
	return updated, nil
}

// AddComment appends trimmed text to the ticket thread.
func (s *TicketService) AddComment(ctx context.Context, author domain.User, ticketID, text string) (*domain.Ticket, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("comment text is required", nil)
	}

	now := s.now()
	comment := domain.TicketComment{
		ID:        "c-" + uuid.NewString(),
		AuthorID:  author.ID,
		Text:      text,
		CreatedAt: now,
	}
	updated, err := s.tickets.Update(ctx, ticketID, func(ticket domain.Ticket) (domain.Ticket, error) {
		if !policy.CanViewTicket(author, ticket) {
			return ticket, repository.ErrNotFound
		}
		return ticket.WithComment(comment, now), nil
	})
	if err != nil {
		return nil, mapRepoError(err, "ticket", ticketID)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventTicketCommentAdded,
		TicketID:  updated.ID,
		CompanyID: updated.CompanyID,
		Actor:     actorOf(author),
		Payload: events.TicketCommentAddedPayload{
			CommentID:   comment.ID,
			AuthorID:    author.ID,
			TextPreview: stringPreview(text, 120),
		},
	})
	return updated, nil
}

// Assign hands the ticket to an active staff member of the ticket's company.
func (s *TicketService) Assign(ctx context.Context, actor domain.User, ticketID, assigneeID string) (*domain.Ticket, error) {
	assignee, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		return nil, mapRepoError(err, "user", assigneeID)
	}

	updated, err := s.tickets.Update(ctx, ticketID, func(ticket domain.Ticket) (domain.Ticket, error) {
		if !policy.CanViewTicket(actor, ticket) {
			return ticket, repository.ErrNotFound
		}
		if !assignee.Active || !assignee.Role.IsStaff() || assignee.CompanyID != ticket.CompanyID {
			return ticket, apperrors.NewValidationError("assignee must be active staff of the ticket's company",
				map[string]any{"assigneeId": assigneeID})
		}
		return ticket.WithAssignee(assignee.ID, s.now()), nil
	})
	if err != nil {
		return nil, mapRepoError(err, "ticket", ticketID)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventTicketAssigned,
		TicketID:  updated.ID,
		CompanyID: updated.CompanyID,
		Actor:     actorOf(actor),
		Payload:   events.TicketAssignedPayload{AssigneeID: assignee.ID},
	})
	return updated, nil
}

// Escalate raises the ticket's escalation level. Levels only go up.
func (s *TicketService) Escalate(ctx context.Context, actor domain.User, ticketID string, level domain.EscalationLevel) (*domain.Ticket, error) {
	if !level.Valid() || level == domain.EscalationNone {
		return nil, apperrors.NewValidationError("escalation level must be 1 (team lead) or 2 (manager)",
			map[string]any{"level": level})
	}

	var oldLevel domain.EscalationLevel
	updated, err := s.tickets.Update(ctx, ticketID, func(ticket domain.Ticket) (domain.Ticket, error) {
		if !policy.CanViewTicket(actor, ticket) {
			return ticket, repository.ErrNotFound
		}
		if level <= ticket.EscalationLevel {
			return ticket, apperrors.NewConflict("escalation level can only increase", map[string]any{
				"current":   ticket.EscalationLevel,
				"requested": level,
			})
		}
		oldLevel = ticket.EscalationLevel
		return ticket.WithEscalation(level, s.now()), nil
	})
	if err != nil {
		return nil, mapRepoError(err, "ticket", ticketID)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventTicketEscalated,
		TicketID:  updated.ID,
		CompanyID: updated.CompanyID,
		Actor:     actorOf(actor),
		Payload:   events.TicketEscalatedPayload{OldLevel: oldLevel, NewLevel: level},
	})
	return updated, nil
}

// Triage asks the collaborator to classify a draft ticket. It never fails: any collaborator
// error yields FallbackTriage.
func (s *TicketService) Triage(ctx context.Context, title, description string) ai.TriageResult {
	s.triageInFlight.Add(1)
	defer s.triageInFlight.Add(-1)

	if s.ai == nil {
		return FallbackTriage
	}
	result, err := s.ai.Triage(ctx, title, description)
	if err != nil {
		s.logger.Warn("triage failed; using fallback", zap.Error(err))
		return FallbackTriage
	}
	return result
}

// SummarizeThread condenses comment texts into one sentence. It never fails.
func (s *TicketService) SummarizeThread(ctx context.Context, comments []string) string {
	if len(comments) == 0 {
		return SummaryNoComments
	}

	s.summaryInFlight.Add(1)
	defer s.summaryInFlight.Add(-1)

	if s.ai == nil {
		return SummaryUnavailable
	}
	summary, err := s.ai.Summarize(ctx, comments)
	if err != nil {
		s.logger.Warn("summary failed; using fallback", zap.Error(err))
		return SummaryUnavailable
	}
	if strings.TrimSpace(summary) == "" {
		return SummaryEmpty
	}
	return summary
}

// SummarizeTicket summarizes the thread of a ticket visible to viewer.
func (s *TicketService) SummarizeTicket(ctx context.Context, viewer domain.User, ticketID string) (string, error) {
	ticket, err := s.Get(ctx, viewer, ticketID)
	if err != nil {
		return "", err
	}
	texts := make([]string, 0, len(ticket.Comments))
	for _, comment := range ticket.Comments {
		texts = append(texts, comment.Text)
	}
	return s.SummarizeThread(ctx, texts), nil
}

// TriageInFlight reports whether a triage call is outstanding.
func (s *TicketService) TriageInFlight() bool {
	return s.triageInFlight.Load() > 0
}

// SummaryInFlight reports whether a summary call is outstanding.
func (s *TicketService) SummaryInFlight() bool {
	return s.summaryInFlight.Load() > 0
}

func (s *TicketService) defaultCategory(ctx context.Context) string {
	if s.categories == nil {
		return domain.DefaultCategory
	}
	categories, err := s.categories.List(ctx)
	if err != nil || len(categories) == 0 {
		return domain.DefaultCategory
	}
	return categories[0].Name
}

func (s *TicketService) companyFeatures(ctx context.Context, companyID string) domain.AppFeatures {
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("company lookup failed", zap.String("company_id", companyID), zap.Error(err))
		}
		return policy.FeaturesForCompany(nil)
	}
	return policy.FeaturesForCompany(company)
}

// leastBusyAgent picks the active agent of the company with the fewest In Progress tickets.
// Ties go to the agent listed first in the directory.
func (s *TicketService) leastBusyAgent(ctx context.Context, companyID string) *domain.User {
	users, err := s.users.List(ctx)
	if err != nil {
		s.logger.Warn("auto-routing skipped", zap.Error(err))
		return nil
	}
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		s.logger.Warn("auto-routing skipped", zap.Error(err))
		return nil
	}

	load := make(map[string]int)
	for _, ticket := range tickets {
		if ticket.Status == domain.TicketStatusInProgress && ticket.AssigneeID != nil {
			load[*ticket.AssigneeID]++
		}
	}

	var best *domain.User
	for i := range users {
		user := users[i]
		if user.Role != domain.RoleAgent || !user.Active || user.CompanyID != companyID {
			continue
		}
		if best == nil || load[user.ID] < load[best.ID] {
			best = &user
		}
	}
	return best
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	publish(ctx, s.dispatcher, s.logger, s.now, event)
}
