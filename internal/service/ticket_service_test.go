package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/ai"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

func TestCreateRejectsBlankTitleOrDescription(t *testing.T) {
	f := newFixture(t)
	requester := f.user(t, "user-7")

	_, err := f.ticketSvc.Create(context.Background(), requester, TicketCreateInput{Title: "  ", Description: "x"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	_, err = f.ticketSvc.Create(context.Background(), requester, TicketCreateInput{Title: "x", Description: ""})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	all, _ := f.tickets.List(context.Background())
	assert.Len(t, all, 2)
}

func TestCreateRejectsUnknownPriority(t *testing.T) {
	f := newFixture(t)
	_, err := f.ticketSvc.Create(context.Background(), f.user(t, "user-7"), TicketCreateInput{
		Title: "Printer", Description: "Jammed", Priority: "Critical",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestCreateAutoRoutesWhenEnabled(t *testing.T) {
	f := newFixture(t)
	requester := f.user(t, "user-7")

	ticket, err := f.ticketSvc.Create(context.Background(), requester, TicketCreateInput{
		Title:       "  VPN drops  ",
		Description: "Every ten minutes",
		Category:    "Networking",
		Priority:    domain.TicketPriorityHigh,
	})
	require.NoError(t, err)

	assert.Regexp(t, `^T-[0-9A-F]{8}$`, ticket.ID)
	assert.Equal(t, "VPN drops", ticket.Title)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, "comp-1", ticket.CompanyID)
	assert.Equal(t, fixedNow, ticket.CreatedAt)
	require.Len(t, ticket.Comments, 1)
	assert.Equal(t, domain.SystemAuthorID, ticket.Comments[0].AuthorID)
	assert.True(t, ticket.IsAssignedTo("user-3"))

	all, err := f.tickets.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ticket.ID, all[0].ID)

	require.Len(t, f.eventsOf(events.EventTicketCreated), 1)
	assigned := f.eventsOf(events.EventTicketAssigned)
	require.Len(t, assigned, 1)
	assert.Equal(t, events.TicketAssignedPayload{AssigneeID: "user-3", Automatic: true}, assigned[0].Payload)
}

func TestCreateWithoutAutoRoutingLeavesUnassigned(t *testing.T) {
	f := newFixture(t)
	ticket, err := f.ticketSvc.Create(context.Background(), f.user(t, "user-6"), TicketCreateInput{
		Title: "Badge reader", Description: "Door 4 rejects all badges",
	})
	require.NoError(t, err)

	assert.Nil(t, ticket.AssigneeID)
	assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)
	assert.Equal(t, "Hardware", ticket.Category)
	assert.Empty(t, f.eventsOf(events.EventTicketAssigned))
}

func TestAutoRoutingPicksLeastBusyAgent(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, "user-0")
	_, err := NewUserService(f.users, f.companies, nil).CreateUser(context.Background(), admin, UserCreateInput{
		Name: "Second Agent", Email: "second@acme.com", Role: domain.RoleAgent, CompanyID: "comp-1",
	})
	require.NoError(t, err)

	// T-8821 is In Progress; give it to Alice so the new agent is less busy.
	_, err = f.ticketSvc.Assign(context.Background(), admin, "T-8821", "user-3")
	require.NoError(t, err)

	ticket, err := f.ticketSvc.Create(context.Background(), f.user(t, "user-7"), TicketCreateInput{
		Title: "Monitor", Description: "Flickers",
	})
	require.NoError(t, err)
	require.NotNil(t, ticket.AssigneeID)
	assert.NotEqual(t, "user-3", *ticket.AssigneeID)
}

func TestListVisibleScopesAndSearches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin, err := f.ticketSvc.ListVisible(ctx, f.user(t, "user-0"), "")
	require.NoError(t, err)
	assert.Len(t, admin, 2)

	endUser, err := f.ticketSvc.ListVisible(ctx, f.user(t, "user-7"), "")
	require.NoError(t, err)
	require.Len(t, endUser, 1)
	assert.Equal(t, "T-8821", endUser[0].ID)

	other, err := f.ticketSvc.ListVisible(ctx, f.user(t, "user-5"), "")
	require.NoError(t, err)
	assert.Empty(t, other)

	searched, err := f.ticketSvc.ListVisible(ctx, f.user(t, "user-0"), "skynet")
	require.NoError(t, err)
	require.Len(t, searched, 1)
	assert.Equal(t, "T-9902", searched[0].ID)
}

func TestGetHidesOtherCompaniesTickets(t *testing.T) {
	f := newFixture(t)
	_, err := f.ticketSvc.Get(context.Background(), f.user(t, "user-5"), "T-8821")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	_, err = f.ticketSvc.Get(context.Background(), f.user(t, "user-0"), "T-0000")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	agent := f.user(t, "user-3")

	updated, err := f.ticketSvc.UpdateStatus(ctx, agent, "T-8821", domain.TicketStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusCompleted, updated.Status)
	assert.Equal(t, fixedNow, updated.UpdatedAt)

	changed := f.eventsOf(events.EventTicketStatusChanged)
	require.Len(t, changed, 1)
	assert.Equal(t, events.TicketStatusChangedPayload{
		OldStatus: domain.TicketStatusInProgress,
		NewStatus: domain.TicketStatusCompleted,
	}, changed[0].Payload)

	_, err = f.ticketSvc.UpdateStatus(ctx, agent, "T-8821", "Archived")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	_, err = f.ticketSvc.UpdateStatus(ctx, agent, "T-9902", domain.TicketStatusClosed)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	stored, _ := f.tickets.GetByID(ctx, "T-9902")
	assert.Equal(t, domain.TicketStatusOpen, stored.Status)
}

func TestAddComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	agent := f.user(t, "user-3")

	_, err := f.ticketSvc.AddComment(ctx, agent, "T-8821", "   ")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	seeded, err := f.tickets.GetByID(ctx, "T-8821")
	require.NoError(t, err)
	later := fixedNow.Add(15 * time.Minute)
	f.ticketSvc.now = func() time.Time { return later }

	updated, err := f.ticketSvc.AddComment(ctx, agent, "T-8821", " Parts replaced. ")
	require.NoError(t, err)
	require.Len(t, updated.Comments, 3)
	last := updated.Comments[2]
	assert.Equal(t, "Parts replaced.", last.Text)
	assert.Equal(t, "user-3", last.AuthorID)
	assert.Equal(t, later, last.CreatedAt)
	assert.Equal(t, later, updated.UpdatedAt)
	assert.True(t, updated.UpdatedAt.After(seeded.UpdatedAt))
	assert.Equal(t, seeded.CreatedAt, updated.CreatedAt)

	stored, err := f.tickets.GetByID(ctx, "T-8821")
	require.NoError(t, err)
	assert.Equal(t, later, stored.UpdatedAt)

	_, err = f.ticketSvc.AddComment(ctx, agent, "T-missing", "hello")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestAssignRequiresStaffOfTicketCompany(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	manager := f.user(t, "user-2")

	_, err := f.ticketSvc.Assign(ctx, manager, "T-8821", "user-5")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	_, err = f.ticketSvc.Assign(ctx, manager, "T-8821", "user-7")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	_, err = f.ticketSvc.Assign(ctx, manager, "T-8821", "user-404")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	updated, err := f.ticketSvc.Assign(ctx, manager, "T-8821", "user-3")
	require.NoError(t, err)
	assert.True(t, updated.IsAssignedTo("user-3"))
}

func TestEscalateOnlyRaisesLevel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	agent := f.user(t, "user-3")

	_, err := f.ticketSvc.Escalate(ctx, agent, "T-8821", domain.EscalationLevel(3))
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
	_, err = f.ticketSvc.Escalate(ctx, agent, "T-8821", domain.EscalationNone)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	updated, err := f.ticketSvc.Escalate(ctx, agent, "T-8821", domain.EscalationTeamLead)
	require.NoError(t, err)
	assert.Equal(t, domain.EscalationTeamLead, updated.EscalationLevel)
	require.NotNil(t, updated.LastEscalationAt)
	assert.Equal(t, fixedNow, *updated.LastEscalationAt)

	_, err = f.ticketSvc.Escalate(ctx, agent, "T-8821", domain.EscalationTeamLead)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))

	updated, err = f.ticketSvc.Escalate(ctx, agent, "T-8821", domain.EscalationManager)
	require.NoError(t, err)
	assert.Equal(t, domain.EscalationManager, updated.EscalationLevel)
	assert.Len(t, f.eventsOf(events.EventTicketEscalated), 2)
}

func TestTriageFallsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	f.ai.triageErr = errors.New("quota exceeded")
	assert.Equal(t, FallbackTriage, f.ticketSvc.Triage(context.Background(), "t", "d"))

	want := ai.TriageResult{Priority: domain.TicketPriorityUrgent, Category: "Networking", SuggestedAction: "Reboot the router."}
	f.ai.triageErr = nil
	f.ai.triage = want
	assert.Equal(t, want, f.ticketSvc.Triage(context.Background(), "t", "d"))

	noAI := NewTicketService(TicketDependencies{TicketRepo: f.tickets, UserRepo: f.users, CompanyRepo: f.companies})
	assert.Equal(t, FallbackTriage, noAI.Triage(context.Background(), "t", "d"))
}

func TestSummarizeThread(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Equal(t, SummaryNoComments, f.ticketSvc.SummarizeThread(ctx, nil))

	f.ai.summaryErr = errors.New("boom")
	assert.Equal(t, SummaryUnavailable, f.ticketSvc.SummarizeThread(ctx, []string{"a"}))

	f.ai.summaryErr = nil
	f.ai.summary = "  "
	assert.Equal(t, SummaryEmpty, f.ticketSvc.SummarizeThread(ctx, []string{"a"}))

	f.ai.summary = "The server is being repaired on site."
	summary, err := f.ticketSvc.SummarizeTicket(ctx, f.user(t, "user-2"), "T-8821")
	require.NoError(t, err)
	assert.Equal(t, "The server is being repaired on site.", summary)
	assert.Equal(t, []string{
		"Still no response from the console. Please hurry.",
		"I am heading to the server room now with replacement parts.",
	}, f.ai.comments)

	_, err = f.ticketSvc.SummarizeTicket(ctx, f.user(t, "user-5"), "T-8821")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestInFlightFlagsTrackOutstandingCalls(t *testing.T) {
	f := newFixture(t)
	f.ai.gate = make(chan struct{})
	f.ai.triage = FallbackTriage

	assert.False(t, f.ticketSvc.TriageInFlight())
	done := make(chan struct{})
	go func() {
		defer close(done)
		f.ticketSvc.Triage(context.Background(), "t", "d")
	}()

	assert.Eventually(t, f.ticketSvc.TriageInFlight, time.Second, 5*time.Millisecond)
	assert.False(t, f.ticketSvc.SummaryInFlight())
	close(f.ai.gate)
	<-done
	assert.False(t, f.ticketSvc.TriageInFlight())
}
