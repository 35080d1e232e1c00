package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/healthycity/compliance/internal/service"
)

// SubmissionsHandler lists the submissions filed against a standard in
// chronological order, optionally filtered to one agency.
func SubmissionsHandler(submissions *service.Submissions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		id, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid standard id"})
		}

		subs, err := submissions.ListForStandard(ctx, id, c.Query("agency"))
		if err != nil {
			return respondErr(c, err)
		}

		return c.JSON(fiber.Map{
			"count":       len(subs),
			"submissions": subs,
		})
	}
}

func CreateSubmissionHandler(submissions *service.Submissions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		id, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid standard id"})
		}

		var req service.NewSubmission
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		sub, err := submissions.Submit(ctx, id, req)
		if err != nil {
			return respondErr(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(sub)
	}
}

func SubmissionDetailHandler(submissions *service.Submissions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		sub, err := submissions.Get(ctx, c.Params("id"))
		if err != nil {
			return respondErr(c, err)
		}

		return c.JSON(sub)
	}
}

type reviewRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// ReviewSubmissionHandler moves a submission through its review lifecycle.
// Invalid transitions (re-reviewing a terminal submission, filing an already
// filed one) come back as 409.
func ReviewSubmissionHandler(submissions *service.Submissions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		var req reviewRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		sub, err := submissions.Review(ctx, c.Params("id"), req.Status, req.Notes)
		if err != nil {
			return respondErr(c, err)
		}

		return c.JSON(sub)
	}
}
