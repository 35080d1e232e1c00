package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/healthycity/compliance/internal/service"
)

func AgenciesHandler(assignments *service.Assignments) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		agencies, err := assignments.Agencies(ctx)
		if err != nil {
			return respondErr(c, err)
		}

		return c.JSON(fiber.Map{
			"count":    len(agencies),
			"agencies": agencies,
		})
	}
}

// AgencyDetailHandler is the per-agency dashboard: the agency record plus its
// assigned standards and the rest of the catalog it could still be assigned.
func AgencyDetailHandler(assignments *service.Assignments) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		slug := c.Params("slug")

		agency, err := assignments.AgencyBySlug(ctx, slug)
		if err != nil {
			return respondErr(c, err)
		}

		assigned, err := assignments.StandardsFor(ctx, slug)
		if err != nil {
			return respondErr(c, err)
		}

		unassigned, err := assignments.UnassignedFor(ctx, slug)
		if err != nil {
			return respondErr(c, err)
		}

		return c.JSON(fiber.Map{
			"agency":     agency,
			"assigned":   assigned,
			"unassigned": unassigned,
		})
	}
}
