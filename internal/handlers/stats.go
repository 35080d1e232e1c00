package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/healthycity/compliance/internal/service"
)

// StatsHandler is the program dashboard rollup: standards per derived status,
// standards with no submissions at all, and the citywide submission counts.
func StatsHandler(submissions *service.Submissions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		stats, err := submissions.StatsOverall(ctx)
		if err != nil {
			return respondErr(c, err)
		}

		return c.JSON(stats)
	}
}

func HealthHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
