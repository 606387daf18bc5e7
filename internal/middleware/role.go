package middleware

import (
	"go-inventory-orders/internal/model"

	"github.com/gofiber/fiber/v2"
)

// RoleHeader carries the caller-supplied role tag. Token mechanics live in
// the gateway in front of this service; the core only ever sees the role
// string.
const RoleHeader = "X-Role"

// RequireRole validates the role header and sets it in the request context
// for downstream handlers.
func RequireRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := c.Get(RoleHeader)
		if role == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing " + RoleHeader + " header"})
		}
		if !model.ValidRole(role) {
			return c.Status(403).JSON(fiber.Map{"error": "Unknown role '" + role + "'"})
		}
		c.Locals("role", role)
		return c.Next()
	}
}

// RequireAnyRole checks that the caller's role is one of the given tags.
func RequireAnyRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No role found"})
		}
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return c.Status(403).JSON(fiber.Map{"error": "Forbidden for role '" + role + "'"})
	}
}
