package handlers

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// ReportsHandler serves the dashboard and agent performance.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// Dashboard GET /api/dashboard.
func (h *ReportsHandler) Dashboard(c *fiber.Ctx) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	metrics, err := h.reports.Dashboard(c.UserContext(), principal.User)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DashboardResponse{
		Total:         metrics.Total,
		Escalations:   metrics.Escalations,
		Open:          metrics.Open,
		SolvedPercent: metrics.SolvedPercent,
	}})
}

// Performance GET /api/performance.
func (h *ReportsHandler) Performance(c *fiber.Ctx) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	rows, err := h.reports.AgentPerformance(c.UserContext(), principal.User)
	if err != nil {
		return err
	}
	out := make([]dto.AgentPerformanceResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.AgentPerformanceResponse{
			Agent:      dto.User(row.Agent),
			Total:      row.Total,
			Open:       row.Open,
			InProgress: row.InProgress,
			OnHold:     row.OnHold,
			Completed:  row.Completed,
			Escalated:  row.Escalated,
		})
	}
	return c.JSON(fiber.Map{"data": out})
}

// PerformanceCSV GET /api/performance/report.csv.
func (h *ReportsHandler) PerformanceCSV(c *fiber.Ctx) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	rows, err := h.reports.AgentPerformance(c.UserContext(), principal.User)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := service.WritePerformanceCSV(&buf, rows); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="agent-performance.csv"`)
	return c.Send(buf.Bytes())
}
