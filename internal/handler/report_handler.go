package handler

import (
	"go-inventory-orders/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	reports service.ReportService
}

func NewReportHandler(reports service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// GetSummary returns overview statistics
func (h *ReportHandler) GetSummary(c *fiber.Ctx) error {
	stats, err := h.reports.Summary(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch summary stats"})
	}
	return c.JSON(stats)
}

// GetRevenue returns total plus per-month revenue for growth charts
func (h *ReportHandler) GetRevenue(c *fiber.Ctx) error {
	total, err := h.reports.TotalRevenue(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch revenue"})
	}
	monthly, err := h.reports.MonthlyRevenue(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch revenue"})
	}
	return c.JSON(fiber.Map{
		"total":   total,
		"monthly": monthly,
	})
}

// GetDemand returns accepted quantities per product
func (h *ReportHandler) GetDemand(c *fiber.Ctx) error {
	demand, err := h.reports.DemandByProduct(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch demand"})
	}
	return c.JSON(demand)
}
