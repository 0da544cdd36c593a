package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// BillingHandler covers plans, tenants, categories and the notification outbox.
type BillingHandler struct {
	companies     *service.CompanyService
	notifications *service.NotificationService
}

// NewBillingHandler constructs handler.
func NewBillingHandler(companies *service.CompanyService, notifications *service.NotificationService) *BillingHandler {
	return &BillingHandler{companies: companies, notifications: notifications}
}

// Billing GET /api/billing.
func (h *BillingHandler) Billing(c *fiber.Ctx) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	overview, err := h.companies.Billing(c.UserContext(), principal.User)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.BillingResponse{
		Company:      dto.Company(overview.Company),
		Tier:         overview.Tier,
		Features:     dto.Features(overview.Features),
		Limits:       dto.Limits(overview.Limits),
		Usage:        dto.UsageResponse{Agents: overview.Usage.Agents, Leads: overview.Usage.Leads},
		WithinLimits: overview.WithinLimits,
	}})
}

// Upgrade POST /api/billing/upgrade.
func (h *BillingHandler) Upgrade(c *fiber.Ctx) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	var req dto.UpgradeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	company, err := h.companies.Upgrade(c.UserContext(), principal.User, req.CompanyID, req.Tier)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.Company(company)})
}

// Companies GET /api/companies.
func (h *BillingHandler) Companies(c *fiber.Ctx) error {
	companies, err := h.companies.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.Companies(companies)})
}

// Categories GET /api/categories.
func (h *BillingHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.companies.Categories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.Categories(categories)})
}

// Notifications GET /api/notifications.
func (h *BillingHandler) Notifications(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.Notifications(h.notifications.Notifications())})
}
