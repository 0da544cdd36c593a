// Package ai talks to the generative model used for ticket triage and thread summaries.
package ai

import (
	"context"
	"errors"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// ErrEmptyResponse is returned when the model produced no candidate text.
var ErrEmptyResponse = errors.New("ai: empty response")

// TriageResult is the model's suggestion for a new ticket.
type TriageResult struct {
	Priority        domain.TicketPriority `json:"priority"`
	Category        string                `json:"category"`
	SuggestedAction string                `json:"suggestedAction"`
}

// Collaborator is the generative backend. Implementations return errors; callers own the fallbacks.
type Collaborator interface {
	Triage(ctx context.Context, title, description string) (TriageResult, error)
	// Summarize condenses ordered comment texts into one sentence. Empty text is not an error.
	Summarize(ctx context.Context, comments []string) (string, error)
}
