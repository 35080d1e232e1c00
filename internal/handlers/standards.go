package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/healthycity/compliance/internal/service"
)

// StandardsHandler lists the catalog, optionally filtered by free-text
// search, assigned agency and derived status.
func StandardsHandler(catalog *service.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		query := c.Query("search")
		agency := c.Query("agency")
		status := c.Query("status")

		standards, err := catalog.Search(ctx, query, agency, status)
		if err != nil {
			return respondErr(c, err)
		}

		return c.JSON(fiber.Map{
			"count":     len(standards),
			"standards": standards,
		})
	}
}

func StandardDetailHandler(catalog *service.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		id, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid standard id"})
		}

		standard, err := catalog.GetByID(ctx, id)
		if err != nil {
			return respondErr(c, err)
		}

		return c.JSON(standard)
	}
}

// StandardStatsHandler reports the submission breakdown for one standard.
func StandardStatsHandler(submissions *service.Submissions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		id, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid standard id"})
		}

		stats, err := submissions.StatsFor(ctx, id)
		if err != nil {
			return respondErr(c, err)
		}

		return c.JSON(stats)
	}
}
