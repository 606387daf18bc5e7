package handler

import (
	"go-inventory-orders/internal/model"
	"go-inventory-orders/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type HistoryHandler struct {
	catalog service.CatalogService
}

func NewHistoryHandler(catalog service.CatalogService) *HistoryHandler {
	return &HistoryHandler{catalog: catalog}
}

type historyRequest struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Category    string          `json:"category"`
	Stock       decimal.Decimal `json:"stock"`
	Unit        string          `json:"unit"`
	AddedBy     string          `json:"added_by"`
}

func (h *HistoryHandler) GetHistory(c *fiber.Ctx) error {
	entries, err := h.catalog.ListHistory(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(entries)
}

func (h *HistoryHandler) AddHistory(c *fiber.Ctx) error {
	var req historyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	// actor defaults to the caller's own role
	if req.AddedBy == "" {
		req.AddedBy = getRole(c)
	}

	entry := &model.ProductHistory{
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		Category:    req.Category,
		Stock:       req.Stock,
		Unit:        req.Unit,
		AddedBy:     req.AddedBy,
	}
	if err := h.catalog.AddHistory(c.Context(), entry); err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "History entry stored", "data": entry})
}
