package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func TestComputeDashboard(t *testing.T) {
	assert.Equal(t, DashboardMetrics{}, ComputeDashboard(nil))

	metrics := ComputeDashboard([]domain.Ticket{
		{Status: domain.TicketStatusOpen, EscalationLevel: domain.EscalationTeamLead},
		{Status: domain.TicketStatusCompleted},
		{Status: domain.TicketStatusHold},
	})
	assert.Equal(t, DashboardMetrics{Total: 3, Escalations: 1, Open: 1, SolvedPercent: 33}, metrics)

	metrics = ComputeDashboard([]domain.Ticket{
		{Status: domain.TicketStatusCompleted},
		{Status: domain.TicketStatusCompleted},
		{Status: domain.TicketStatusClosed},
	})
	assert.Equal(t, 67, metrics.SolvedPercent)
}

func TestDashboardUsesVisibleTickets(t *testing.T) {
	f := newFixture(t)
	svc := NewReportService(f.tickets, f.users)

	metrics, err := svc.Dashboard(context.Background(), f.user(t, "user-0"))
	require.NoError(t, err)
	assert.Equal(t, 2, metrics.Total)
	assert.Equal(t, 1, metrics.Open)

	metrics, err = svc.Dashboard(context.Background(), f.user(t, "user-5"))
	require.NoError(t, err)
	assert.Equal(t, DashboardMetrics{}, metrics)
}

func TestAgentPerformanceScope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.ticketSvc.Assign(ctx, f.user(t, "user-2"), "T-8821", "user-3")
	require.NoError(t, err)
	_, err = f.ticketSvc.Escalate(ctx, f.user(t, "user-3"), "T-8821", domain.EscalationTeamLead)
	require.NoError(t, err)

	svc := NewReportService(f.tickets, f.users)

	rows, err := svc.AgentPerformance(ctx, f.user(t, "user-0"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "user-3", rows[0].Agent.ID)
	assert.Equal(t, 1, rows[0].Total)
	assert.Equal(t, 1, rows[0].InProgress)
	assert.Equal(t, 1, rows[0].Escalated)
	assert.Equal(t, "user-5", rows[1].Agent.ID)
	assert.Zero(t, rows[1].Total)

	rows, err = svc.AgentPerformance(ctx, f.user(t, "user-4"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "user-5", rows[0].Agent.ID)

	rows, err = svc.AgentPerformance(ctx, f.user(t, "user-3"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestWritePerformanceCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WritePerformanceCSV(&buf, []AgentPerformance{
		{Agent: domain.User{Name: "Alice Acme Agent"}, Total: 4, Completed: 2, Escalated: 1},
		{Agent: domain.User{Name: "Doe, John"}, Total: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, "Agent,Total,Completed,Escalated\nAlice Acme Agent,4,2,1\n\"Doe, John\",0,0,0\n", buf.String())
}
