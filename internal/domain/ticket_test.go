package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketWithCommentDoesNotAlias(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	original := Ticket{
		ID:        "T-1",
		UpdatedAt: created,
		Comments:  make([]TicketComment, 1, 4),
	}
	original.Comments[0] = TicketComment{ID: "c-0", AuthorID: SystemAuthorID, Text: "opened", CreatedAt: created}

	later := created.Add(time.Hour)
	first := original.WithComment(TicketComment{ID: "c-1", Text: "first"}, later)
	second := original.WithComment(TicketComment{ID: "c-2", Text: "second"}, later)

	require.Len(t, original.Comments, 1)
	require.Len(t, first.Comments, 2)
	require.Len(t, second.Comments, 2)
	assert.Equal(t, "c-1", first.Comments[1].ID)
	assert.Equal(t, "c-2", second.Comments[1].ID)
	assert.Equal(t, later, first.UpdatedAt)
	assert.Equal(t, created, original.UpdatedAt)
}

func TestTicketWithStatusPreservesOtherFields(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	ticket := Ticket{ID: "T-1", Title: "VPN down", Status: TicketStatusOpen, Priority: TicketPriorityHigh, CreatedAt: created}

	updated := ticket.WithStatus(TicketStatusHold, created.Add(time.Minute))

	assert.Equal(t, TicketStatusHold, updated.Status)
	assert.Equal(t, TicketStatusOpen, ticket.Status)
	assert.Equal(t, "VPN down", updated.Title)
	assert.Equal(t, TicketPriorityHigh, updated.Priority)
	assert.Equal(t, created, updated.CreatedAt)
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, TicketStatusInProgress.Valid())
	assert.False(t, TicketStatus("Resolved").Valid())
	assert.True(t, TicketPriorityUrgent.Valid())
	assert.False(t, TicketPriority("urgent").Valid())
	assert.True(t, EscalationManager.Valid())
	assert.False(t, EscalationLevel(3).Valid())
	assert.True(t, RoleTeamLead.Valid())
	assert.False(t, Role("OWNER").Valid())
	assert.True(t, TierCustom.Valid())
	assert.False(t, SubscriptionTier("Gold").Valid())
}
