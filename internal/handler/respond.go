package handler

import (
	"errors"

	"go-inventory-orders/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// getRole returns the role set by the middleware. Falls back to empty, which
// every service rejects.
func getRole(c *fiber.Ctx) string {
	role, _ := c.Locals("role").(string)
	return role
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// respondError maps the service error taxonomy onto HTTP statuses: 403 for
// role violations, 404 for missing entities, 409 for finalized orders, 422
// for validation and stock invariant failures.
func respondError(c *fiber.Ctx, err error) error {
	var (
		insufficient *service.InsufficientStockError
		badQty       *service.InvalidQuantityError
		dup          *service.DuplicateLineItemError
	)

	switch {
	case errors.Is(err, service.ErrForbidden):
		return c.Status(403).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrEntryNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrOrderFinalized):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &insufficient):
		return c.Status(422).JSON(fiber.Map{
			"error":     err.Error(),
			"product":   insufficient.Product,
			"available": insufficient.Available,
			"short":     insufficient.Short,
		})
	case errors.As(err, &badQty), errors.As(err, &dup),
		errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrProductExists),
		errors.Is(err, service.ErrInvalidStatus):
		return c.Status(422).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}
