package repository

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/policy"
)

var now = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

type failingSlots struct {
	*persistence.MemorySlots
	loadErr error
	saveErr error
}

func (f failingSlots) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if f.loadErr != nil {
		return nil, false, f.loadErr
	}
	return f.MemorySlots.Load(ctx, key)
}

func (f failingSlots) Save(ctx context.Context, key string, value []byte) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.MemorySlots.Save(ctx, key, value)
}

func newLoadedStore(t *testing.T, slots persistence.SlotStore) *EntityStore {
	t.Helper()
	store := NewEntityStore(slots, "zen_", zap.NewNop())
	require.NoError(t, store.Load(context.Background(), DefaultSeed(now)))
	return store
}

func TestLoadFallsBackToSeed(t *testing.T) {
	store := newLoadedStore(t, persistence.NewMemorySlots())

	assert.Len(t, store.Companies(), 3)
	assert.Len(t, store.Users(), 8)
	assert.Len(t, store.Categories(), 4)
	tickets := store.Tickets()
	require.Len(t, tickets, 2)
	assert.Equal(t, "T-8821", tickets[0].ID)
	assert.Len(t, tickets[0].Comments, 2)
}

func TestLoadReturnsBackendErrors(t *testing.T) {
	slots := failingSlots{MemorySlots: persistence.NewMemorySlots(), loadErr: errors.New("connection refused")}
	store := NewEntityStore(slots, "zen_", zap.NewNop())

	err := store.Load(context.Background(), DefaultSeed(now))
	assert.ErrorContains(t, err, "zen_tickets")
}

func TestLoadIgnoresUnreadableSlot(t *testing.T) {
	slots := persistence.NewMemorySlots()
	require.NoError(t, slots.Save(context.Background(), "zen_users", []byte("{not json")))

	store := newLoadedStore(t, slots)
	assert.Len(t, store.Users(), 8)
}

func TestLoadMigratesLegacyRecords(t *testing.T) {
	ctx := context.Background()
	slots := persistence.NewMemorySlots()
	require.NoError(t, slots.Save(ctx, "zen_tickets", []byte(`[
		{"id":"T-1","title":"Old","description":"d","status":"Open","priority":"Low","category":"Hardware",
		 "requesterId":"user-7","companyId":"comp-1","createdAt":"2026-05-01T10:00:00Z","updatedAt":"2026-05-01T10:00:00Z"}
	]`)))
	require.NoError(t, slots.Save(ctx, "zen_companies", []byte(`[
		{"id":"comp-9","name":"Legacy","domain":"legacy.io","createdAt":"2025-01-01T00:00:00Z","status":"Approved",
		 "subscriptionTier":"Pro","features":{"neuralTriage":false,"neuralSummary":true,"autoRouting":false,"knowledgeBase":false}},
		{"id":"comp-10","name":"Odd","domain":"odd.io","createdAt":"2025-01-01T00:00:00Z","status":"Approved","subscriptionTier":"Platinum"}
	]`)))
	require.NoError(t, slots.Save(ctx, "zen_users", []byte(`[
		{"id":"user-9","name":"Legacy","email":"legacy@legacy.io","role":"AGENT","companyId":"comp-9"}
	]`)))

	store := newLoadedStore(t, slots)

	tickets := store.Tickets()
	require.Len(t, tickets, 1)
	assert.Equal(t, domain.EscalationNone, tickets[0].EscalationLevel)
	assert.NotNil(t, tickets[0].Comments)

	companies := store.Companies()
	require.Len(t, companies, 2)
	assert.Equal(t, policy.FeaturesFor(domain.TierPro), companies[0].Features)
	assert.Equal(t, domain.TierFree, companies[1].SubscriptionTier)
	assert.Equal(t, policy.FeaturesFor(domain.TierFree), companies[1].Features)

	users := store.Users()
	require.Len(t, users, 1)
	assert.True(t, users[0].Active)
}

func TestMutationsPersistAndReload(t *testing.T) {
	ctx := context.Background()
	slots := persistence.NewMemorySlots()
	store := newLoadedStore(t, slots)
	tickets := NewTicketRepository(store)

	ticket := domain.Ticket{
		ID:          "T-ABCD1234",
		Title:       "Monitor flicker",
		Description: "Second screen flickers",
		Status:      domain.TicketStatusOpen,
		Priority:    domain.TicketPriorityLow,
		Category:    "Hardware",
		RequesterID: "user-7",
		CompanyID:   "comp-1",
		CreatedAt:   now,
		UpdatedAt:   now,
		Comments:    []domain.TicketComment{},
	}
	require.NoError(t, tickets.Create(ctx, ticket))

	raw, ok, err := slots.Load(ctx, "zen_tickets")
	require.NoError(t, err)
	require.True(t, ok)
	var records []map[string]any
	require.NoError(t, json.Unmarshal(raw, &records))
	require.Len(t, records, 3)
	assert.Equal(t, "T-ABCD1234", records[0]["id"])
	assert.Contains(t, records[0], "requesterId")
	assert.EqualValues(t, 0, records[0]["escalationLevel"])

	_, ok, err = slots.Load(ctx, "zen_categories")
	require.NoError(t, err)
	assert.False(t, ok, "categories are never written")

	users := NewUserRepository(store)
	require.NoError(t, users.Create(ctx, domain.User{
		ID:        "user-new1",
		Name:      "Nina Patel",
		Email:     "nina@acme.com",
		Role:      domain.RoleAgent,
		CompanyID: "comp-1",
		Active:    true,
	}))
	_, err = users.Update(ctx, "user-3", func(u domain.User) (domain.User, error) {
		return u.WithActive(false), nil
	})
	require.NoError(t, err)

	companies := NewCompanyRepository(store)
	_, err = companies.Update(ctx, "comp-3", func(c domain.Company) (domain.Company, error) {
		return policy.Reprovision(c, domain.TierEnterprise), nil
	})
	require.NoError(t, err)

	reloaded := newLoadedStore(t, slots)
	assert.Equal(t, store.Tickets(), reloaded.Tickets())
	assert.Equal(t, store.Users(), reloaded.Users())
	assert.Equal(t, store.Companies(), reloaded.Companies())

	restoredUser, err := NewUserRepository(reloaded).GetByID(ctx, "user-3")
	require.NoError(t, err)
	assert.False(t, restoredUser.Active)
	restoredCompany, err := NewCompanyRepository(reloaded).GetByID(ctx, "comp-3")
	require.NoError(t, err)
	assert.Equal(t, domain.TierEnterprise, restoredCompany.SubscriptionTier)
	assert.Equal(t, policy.FeaturesFor(domain.TierEnterprise), restoredCompany.Features)
}

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	slots := failingSlots{MemorySlots: persistence.NewMemorySlots(), saveErr: errors.New("disk full")}
	store := newLoadedStore(t, slots)
	users := NewUserRepository(store)

	updated, err := users.Update(ctx, "user-3", func(u domain.User) (domain.User, error) {
		return u.WithActive(false), nil
	})
	require.NoError(t, err)
	assert.False(t, updated.Active)

	got, err := users.GetByID(ctx, "user-3")
	require.NoError(t, err)
	assert.False(t, got.Active)
}

func TestTicketRepositoryUpdate(t *testing.T) {
	ctx := context.Background()
	store := newLoadedStore(t, persistence.NewMemorySlots())
	tickets := NewTicketRepository(store)
	before := store.Tickets()

	_, err := tickets.Update(ctx, "T-0000", func(ticket domain.Ticket) (domain.Ticket, error) {
		return ticket.WithStatus(domain.TicketStatusClosed, now), nil
	})
	assert.ErrorIs(t, err, ErrNotFound)

	boom := errors.New("rejected")
	_, err = tickets.Update(ctx, "T-8821", func(ticket domain.Ticket) (domain.Ticket, error) {
		return domain.Ticket{}, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, before, store.Tickets())

	updated, err := tickets.Update(ctx, "T-9902", func(ticket domain.Ticket) (domain.Ticket, error) {
		return ticket.WithStatus(domain.TicketStatusHold, now.Add(time.Minute)), nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusHold, updated.Status)

	got, err := tickets.GetByID(ctx, "T-9902")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusHold, got.Status)
	assert.Equal(t, "T-8821", store.Tickets()[0].ID)
}

func TestUserRepositoryEmailLookup(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository(newLoadedStore(t, persistence.NewMemorySlots()))

	user, err := users.GetByEmail(ctx, "  Manager@ACME.com ")
	require.NoError(t, err)
	assert.Equal(t, "user-2", user.ID)

	_, err = users.GetByEmail(ctx, "ghost@acme.com")
	assert.ErrorIs(t, err, ErrNotFound)

	err = users.Create(ctx, domain.User{ID: "user-99", Email: "ALICE@acme.com", Role: domain.RoleAgent, CompanyID: "comp-1"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestCompanyAndCategoryRepositories(t *testing.T) {
	ctx := context.Background()
	store := newLoadedStore(t, persistence.NewMemorySlots())
	companies := NewCompanyRepository(store)

	updated, err := companies.Update(ctx, "comp-3", func(c domain.Company) (domain.Company, error) {
		return policy.Reprovision(c, domain.TierPro), nil
	})
	require.NoError(t, err)
	assert.True(t, updated.Features.NeuralTriage)

	_, err = companies.GetByID(ctx, "comp-404")
	assert.ErrorIs(t, err, ErrNotFound)

	categories, err := NewCategoryRepository(store).List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hardware", categories[0].Name)
}

func TestCategorySlotOverridesSeed(t *testing.T) {
	ctx := context.Background()
	slots := persistence.NewMemorySlots()
	raw, err := json.Marshal(encodeCategories([]domain.Category{{ID: "cat-9", Name: "Printers"}}))
	require.NoError(t, err)
	require.NoError(t, slots.Save(ctx, "zen_categories", raw))

	store := newLoadedStore(t, slots)
	assert.Equal(t, []domain.Category{{ID: "cat-9", Name: "Printers"}}, store.Categories())
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
categories:
  - id: cat-1
    name: Facilities
    description: Desks and badges
users:
  - id: user-1
    name: Ops Admin
    email: ops@example.com
    role: ADMIN
    companyId: comp-1
`), 0o600))

	seed, err := LoadSeedFile(path, DefaultSeed(now))
	require.NoError(t, err)
	assert.Equal(t, []domain.Category{{ID: "cat-1", Name: "Facilities", Description: "Desks and badges"}}, seed.Categories)
	require.Len(t, seed.Users, 1)
	assert.True(t, seed.Users[0].Active)
	assert.Len(t, seed.Companies, 3)
	assert.Len(t, seed.Tickets, 2)

	_, err = LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"), Seed{})
	assert.Error(t, err)
}
