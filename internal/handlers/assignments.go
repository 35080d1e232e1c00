package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/healthycity/compliance/internal/service"
)

type assignRequest struct {
	Agency string `json:"agency"`
}

// AssignHandler assigns a standard to an agency. Repeating an assignment is
// not an error; the response reports whether the link already existed.
func AssignHandler(assignments *service.Assignments) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		id, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid standard id"})
		}

		var req assignRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		alreadyAssigned, err := assignments.Assign(ctx, id, req.Agency)
		if err != nil {
			return respondErr(c, err)
		}

		status := fiber.StatusCreated
		if alreadyAssigned {
			status = fiber.StatusOK
		}
		return c.Status(status).JSON(fiber.Map{
			"standardId":      id,
			"agency":          req.Agency,
			"alreadyAssigned": alreadyAssigned,
		})
	}
}

// UnassignHandler removes an agency from a standard. Removing an absent link
// succeeds with removed=false.
func UnassignHandler(assignments *service.Assignments) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		id, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid standard id"})
		}

		removed, err := assignments.Unassign(ctx, id, c.Params("agency"))
		if err != nil {
			return respondErr(c, err)
		}

		return c.JSON(fiber.Map{
			"standardId": id,
			"agency":     c.Params("agency"),
			"removed":    removed,
		})
	}
}
