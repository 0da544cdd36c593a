package repository

import (
	"context"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	List(ctx context.Context) ([]domain.Ticket, error)
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	// Create prepends the ticket so the collection stays newest-first.
	Create(ctx context.Context, ticket domain.Ticket) error
	// Update replaces the ticket with fn's result. An error from fn aborts without changes.
	Update(ctx context.Context, id string, fn func(domain.Ticket) (domain.Ticket, error)) (*domain.Ticket, error)
}

type ticketRepository struct {
	store *EntityStore
}

// NewTicketRepository returns a store-backed implementation.
func NewTicketRepository(store *EntityStore) TicketRepository {
	return &ticketRepository{store: store}
}

func (r *ticketRepository) List(_ context.Context) ([]domain.Ticket, error) {
	return r.store.Tickets(), nil
}

func (r *ticketRepository) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	for _, ticket := range r.store.Tickets() {
		if ticket.ID == id {
			return &ticket, nil
		}
	}
	return nil, ErrNotFound
}

func (r *ticketRepository) Create(ctx context.Context, ticket domain.Ticket) error {
	return r.store.MutateTickets(ctx, func(tickets []domain.Ticket) ([]domain.Ticket, error) {
		for _, existing := range tickets {
			if existing.ID == ticket.ID {
				return nil, ErrDuplicate
			}
		}
		return append([]domain.Ticket{ticket}, tickets...), nil
	})
}

func (r *ticketRepository) Update(ctx context.Context, id string, fn func(domain.Ticket) (domain.Ticket, error)) (*domain.Ticket, error) {
	var updated domain.Ticket
	err := r.store.MutateTickets(ctx, func(tickets []domain.Ticket) ([]domain.Ticket, error) {
		for i, ticket := range tickets {
			if ticket.ID != id {
				continue
			}
			next, err := fn(ticket)
			if err != nil {
				return nil, err
			}
			tickets[i] = next
			updated = next
			return tickets, nil
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
