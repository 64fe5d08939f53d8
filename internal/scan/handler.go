package scan

import (
	"context"
	"log/slog"

	"inventory-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Extractor turns a product label photo into the model's raw text answer.
type Extractor interface {
	ExtractLabel(ctx context.Context, imageBase64 string) (string, error)
}

type ScanRequest struct {
	ImageBase64 string `json:"image_base64" validate:"required"`
}

// POST /api/scan
// Runs the AI extraction and parses its answer into product fields. A parse
// failure is non-fatal for the workflow: nothing is persisted and the caller
// can retry or fill the fields manually.
func Handler(extractor Extractor, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ScanRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, validation.Describe(err))
		}

		text, err := extractor.ExtractLabel(c.UserContext(), body.ImageBase64)
		if err != nil {
			log.Error("label extraction failed", "error", err)
			return fiber.NewError(fiber.StatusBadGateway, "scan failed")
		}

		res, err := Parse(text)
		if err != nil {
			log.Warn("scan text not parseable", "error", err)
			return fiber.NewError(fiber.StatusUnprocessableEntity, "extraction failed, fill the fields manually")
		}

		return c.JSON(res)
	}
}
