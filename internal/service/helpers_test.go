package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/ai"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

var fixedNow = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type fakeCollaborator struct {
	triage     ai.TriageResult
	triageErr  error
	summary    string
	summaryErr error
	// gate, when set, blocks every call until it is closed.
	gate chan struct{}

	mu       sync.Mutex
	comments []string
}

func (f *fakeCollaborator) Triage(ctx context.Context, _, _ string) (ai.TriageResult, error) {
	if f.gate != nil {
		<-f.gate
	}
	return f.triage, f.triageErr
}

func (f *fakeCollaborator) Summarize(ctx context.Context, comments []string) (string, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	f.comments = append([]string(nil), comments...)
	f.mu.Unlock()
	return f.summary, f.summaryErr
}

type fixture struct {
	store         *repository.EntityStore
	tickets       repository.TicketRepository
	users         repository.UserRepository
	companies     repository.CompanyRepository
	categories    repository.CategoryRepository
	dispatcher    events.Dispatcher
	ai            *fakeCollaborator
	ticketSvc     *TicketService
	notifications *NotificationService

	mu       sync.Mutex
	received []events.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithNotifications(t, config.NotificationConfig{})
}

func newFixtureWithNotifications(t *testing.T, notifyCfg config.NotificationConfig) *fixture {
	t.Helper()
	store := repository.NewEntityStore(persistence.NewMemorySlots(), "zen_", zap.NewNop())
	require.NoError(t, store.Load(context.Background(), repository.DefaultSeed(fixedNow)))

	f := &fixture{
		store:      store,
		tickets:    repository.NewTicketRepository(store),
		users:      repository.NewUserRepository(store),
		companies:  repository.NewCompanyRepository(store),
		categories: repository.NewCategoryRepository(store),
		dispatcher: events.NewInMemoryDispatcher(),
		ai:         &fakeCollaborator{},
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketStatusChanged,
		events.EventTicketAssigned,
		events.EventTicketCommentAdded,
		events.EventTicketEscalated,
		events.EventCompanyTierChanged,
	} {
		f.dispatcher.Subscribe(eventType, f.record)
	}

	f.ticketSvc = NewTicketService(TicketDependencies{
		TicketRepo:   f.tickets,
		UserRepo:     f.users,
		CompanyRepo:  f.companies,
		CategoryRepo: f.categories,
		AI:           f.ai,
		Dispatcher:   f.dispatcher,
		Clock:        fixedClock,
	})
	f.notifications = NewNotificationService(NotificationDependencies{
		Dispatcher: f.dispatcher,
		TicketRepo: f.tickets,
		UserRepo:   f.users,
		Config:     notifyCfg,
		Clock:      fixedClock,
	})
	f.notifications.RegisterHandlers()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go f.notifications.RunWebhookDelivery(ctx)
	return f
}

func (f *fixture) record(_ context.Context, event events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.received = append(f.received, event)
	return nil
}

func (f *fixture) eventsOf(eventType events.EventType) []events.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []events.Event
	for _, event := range f.received {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}

func (f *fixture) user(t *testing.T, id string) domain.User {
	t.Helper()
	user, err := f.users.GetByID(context.Background(), id)
	require.NoError(t, err)
	return *user
}
