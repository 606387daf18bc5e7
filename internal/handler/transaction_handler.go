package handler

import (
	"go-inventory-orders/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	transactions service.TransactionService
}

func NewTransactionHandler(transactions service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	entries, err := h.transactions.GetAllEntries(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(entries)
}

func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	entry, err := h.transactions.GetEntryByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entry)
}

// DeleteTransaction is administrative cleanup, not part of the lifecycle.
func (h *TransactionHandler) DeleteTransaction(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	if err := h.transactions.DeleteEntry(c.Context(), getRole(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Transaction entry removed"})
}
