package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
)

// Slot names, joined to the store's key prefix when reading and writing the backend.
const (
	SlotTickets    = "tickets"
	SlotUsers      = "users"
	SlotCompanies  = "companies"
	SlotCategories = "categories"
)

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a create collides with an existing record.
	ErrDuplicate = errors.New("record already exists")
)

// EntityStore is the in-process source of truth for every collection.
// Mutations run under a write lock and rewrite the touched slot afterwards.
type EntityStore struct {
	mu     sync.RWMutex
	slots  persistence.SlotStore
	prefix string
	logger *zap.Logger

	tickets    []domain.Ticket
	users      []domain.User
	companies  []domain.Company
	categories []domain.Category
}

// NewEntityStore creates an empty store backed by slots. Call Load before use.
func NewEntityStore(slots persistence.SlotStore, prefix string, logger *zap.Logger) *EntityStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntityStore{slots: slots, prefix: prefix, logger: logger}
}

// Key returns the backend key of a slot.
func (s *EntityStore) Key(slot string) string {
	return s.prefix + slot
}

// Load reads every slot once, falling back to seed for slots never written or unreadable as JSON,
// then runs the load migrations. Backend errors abort the load.
func (s *EntityStore) Load(ctx context.Context, seed Seed) error {
	tickets, err := loadSlot(ctx, s, SlotTickets, decodeTickets, seed.Tickets)
	if err != nil {
		return err
	}
	users, err := loadSlot(ctx, s, SlotUsers, decodeUsers, seed.Users)
	if err != nil {
		return err
	}
	companies, err := loadSlot(ctx, s, SlotCompanies, decodeCompanies, seed.Companies)
	if err != nil {
		return err
	}
	categories, err := loadSlot(ctx, s, SlotCategories, decodeCategories, seed.Categories)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets = MigrateTickets(tickets)
	s.users = users
	s.companies = MigrateCompanies(companies)
	s.categories = categories

	s.logger.Info("entity store loaded",
		zap.Int("tickets", len(s.tickets)),
		zap.Int("users", len(s.users)),
		zap.Int("companies", len(s.companies)),
		zap.Int("categories", len(s.categories)))
	return nil
}

func loadSlot[R any, T any](ctx context.Context, s *EntityStore, slot string, decode func([]R) []T, fallback []T) ([]T, error) {
	key := s.Key(slot)
	raw, ok, err := s.slots.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load slot %s: %w", key, err)
	}
	if !ok {
		return append([]T(nil), fallback...), nil
	}
	var records []R
	if err := json.Unmarshal(raw, &records); err != nil {
		s.logger.Warn("slot unreadable; using seed data", zap.String("key", key), zap.Error(err))
		return append([]T(nil), fallback...), nil
	}
	return decode(records), nil
}

// Tickets returns the ticket collection in store order.
func (s *EntityStore) Tickets() []domain.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Ticket(nil), s.tickets...)
}

// Users returns the user collection in store order.
func (s *EntityStore) Users() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.User(nil), s.users...)
}

// Companies returns the company collection in store order.
func (s *EntityStore) Companies() []domain.Company {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Company(nil), s.companies...)
}

// Categories returns the static category taxonomy.
func (s *EntityStore) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Category(nil), s.categories...)
}

// MutateTickets replaces the ticket collection with the result of fn and persists it.
// Nothing changes when fn returns an error.
func (s *EntityStore) MutateTickets(ctx context.Context, fn func([]domain.Ticket) ([]domain.Ticket, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(append([]domain.Ticket(nil), s.tickets...))
	if err != nil {
		return err
	}
	s.tickets = next
	s.persist(ctx, SlotTickets, encodeTickets(next))
	return nil
}

// MutateUsers replaces the user collection with the result of fn and persists it.
func (s *EntityStore) MutateUsers(ctx context.Context, fn func([]domain.User) ([]domain.User, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(append([]domain.User(nil), s.users...))
	if err != nil {
		return err
	}
	s.users = next
	s.persist(ctx, SlotUsers, encodeUsers(next))
	return nil
}

// MutateCompanies replaces the company collection with the result of fn and persists it.
func (s *EntityStore) MutateCompanies(ctx context.Context, fn func([]domain.Company) ([]domain.Company, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(append([]domain.Company(nil), s.companies...))
	if err != nil {
		return err
	}
	s.companies = next
	s.persist(ctx, SlotCompanies, encodeCompanies(next))
	return nil
}

// persist writes one slot. Empty collections are not written, and failures only log
// so the in-memory state stays authoritative. Caller holds the write lock.
func (s *EntityStore) persist(ctx context.Context, slot string, records any) {
	if isEmpty(records) {
		return
	}
	key := s.Key(slot)
	raw, err := json.Marshal(records)
	if err != nil {
		s.logger.Error("encode slot", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.slots.Save(context.WithoutCancel(ctx), key, raw); err != nil {
		s.logger.Error("persist slot", zap.String("key", key), zap.Error(err))
	}
}

func isEmpty(records any) bool {
	switch r := records.(type) {
	case []ticketRecord:
		return len(r) == 0
	case []userRecord:
		return len(r) == 0
	case []companyRecord:
		return len(r) == 0
	}
	return false
}

func decodeTickets(records []ticketRecord) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(records))
	for _, r := range records {
		out = append(out, r.toDomain())
	}
	return out
}

func decodeUsers(records []userRecord) []domain.User {
	out := make([]domain.User, 0, len(records))
	for _, r := range records {
		out = append(out, r.toDomain())
	}
	return out
}

func decodeCompanies(records []companyRecord) []domain.Company {
	out := make([]domain.Company, 0, len(records))
	for _, r := range records {
		out = append(out, r.toDomain())
	}
	return out
}

func decodeCategories(records []categoryRecord) []domain.Category {
	out := make([]domain.Category, 0, len(records))
	for _, r := range records {
		out = append(out, r.toDomain())
	}
	return out
}

func encodeTickets(tickets []domain.Ticket) []ticketRecord {
	out := make([]ticketRecord, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, ticketToRecord(t))
	}
	return out
}

func encodeUsers(users []domain.User) []userRecord {
	out := make([]userRecord, 0, len(users))
	for _, u := range users {
		out = append(out, userToRecord(u))
	}
	return out
}

func encodeCompanies(companies []domain.Company) []companyRecord {
	out := make([]companyRecord, 0, len(companies))
	for _, c := range companies {
		out = append(out, companyToRecord(c))
	}
	return out
}

func encodeCategories(categories []domain.Category) []categoryRecord {
	out := make([]categoryRecord, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryToRecord(c))
	}
	return out
}
