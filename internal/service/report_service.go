package service

import (
	"context"
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/policy"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// DashboardMetrics are the headline counters over the viewer's visible tickets.
type DashboardMetrics struct {
	Total         int
	Escalations   int
	Open          int
	SolvedPercent int
}

// AgentPerformance counts an agent's assigned tickets by state.
type AgentPerformance struct {
	Agent      domain.User
	Total      int
	Open       int
	InProgress int
	OnHold     int
	Completed  int
	Escalated  int
}

// ReportService computes dashboard metrics and agent performance.
type ReportService struct {
	tickets repository.TicketRepository
	users   repository.UserRepository
}

// NewReportService constructs the service.
func NewReportService(tickets repository.TicketRepository, users repository.UserRepository) *ReportService {
	return &ReportService{tickets: tickets, users: users}
}

// Dashboard computes metrics over the tickets visible to viewer.
func (s *ReportService) Dashboard(ctx context.Context, viewer domain.User) (DashboardMetrics, error) {
	all, err := s.tickets.List(ctx)
	if err != nil {
		return DashboardMetrics{}, err
	}
	return ComputeDashboard(policy.VisibleTickets(all, viewer)), nil
}

// ComputeDashboard derives metrics from tickets. Solved is the rounded share of Completed tickets.
func ComputeDashboard(tickets []domain.Ticket) DashboardMetrics {
	var m DashboardMetrics
	completed := 0
	for _, ticket := range tickets {
		m.Total++
		if ticket.EscalationLevel > domain.EscalationNone {
			m.Escalations++
		}
		switch ticket.Status {
		case domain.TicketStatusOpen:
			m.Open++
		case domain.TicketStatusCompleted:
			completed++
		}
	}
	m.SolvedPercent = int(math.Round(float64(completed) / float64(max(m.Total, 1)) * 100))
	return m
}

// AgentPerformance reports on agents: every agent for administrators, own-company agents for
// managers, nobody for other roles.
func (s *ReportService) AgentPerformance(ctx context.Context, viewer domain.User) ([]AgentPerformance, error) {
	if viewer.Role != domain.RoleAdmin && viewer.Role != domain.RoleManager {
		return []AgentPerformance{}, nil
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}

	rows := []AgentPerformance{}
	for _, agent := range users {
		if agent.Role != domain.RoleAgent {
			continue
		}
		if viewer.Role != domain.RoleAdmin && agent.CompanyID != viewer.CompanyID {
			continue
		}
		row := AgentPerformance{Agent: agent}
		for _, ticket := range tickets {
			if !ticket.IsAssignedTo(agent.ID) {
				continue
			}
			row.Total++
			switch ticket.Status {
			case domain.TicketStatusOpen:
				row.Open++
			case domain.TicketStatusInProgress:
				row.InProgress++
			case domain.TicketStatusHold:
				row.OnHold++
			case domain.TicketStatusCompleted:
				row.Completed++
			}
			if ticket.EscalationLevel > domain.EscalationNone {
				row.Escalated++
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WritePerformanceCSV writes the Agent,Total,Completed,Escalated report.
func WritePerformanceCSV(w io.Writer, rows []AgentPerformance) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Agent", "Total", "Completed", "Escalated"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.Agent.Name,
			strconv.Itoa(row.Total),
			strconv.Itoa(row.Completed),
			strconv.Itoa(row.Escalated),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
