package inventory

import (
	"errors"
	"strings"

	"inventory-backend/internal/auth"
	"inventory-backend/internal/config"
	"inventory-backend/internal/models"
	"inventory-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type SaveProductRequest struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Brand    string `json:"brand"`
	Qty      int    `json:"qty" validate:"required,min=1"`
	Type     string `json:"type" validate:"required,oneof=IN OUT"`
}

// POST /api/products
// Upserts by SKU: adjusts the existing product's stock or creates the product
// with its initial stock from the scanned fields.
func SaveProductHandler(svc *Service, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SaveProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, validation.Describe(err))
		}

		userID, email, err := auth.UserFromContext(c)
		if err != nil {
			return err
		}

		res, err := svc.Upsert(c.UserContext(), userID, alertRecipient(email, cfg), Adjustment{
			SKU:      strings.TrimSpace(body.SKU),
			Name:     strings.TrimSpace(body.Name),
			Category: strings.TrimSpace(body.Category),
			Brand:    strings.TrimSpace(body.Brand),
			Qty:      body.Qty,
			Type:     models.StockLogType(body.Type),
			Source:   models.StockLogSourceScan,
		})
		if err != nil {
			return mapServiceError(err)
		}

		status := fiber.StatusOK
		if res.Outcome == OutcomeCreated {
			status = fiber.StatusCreated
		}
		return c.Status(status).JSON(fiber.Map{
			"success":    true,
			"quantity":   res.Quantity,
			"product_id": res.Product.ID,
			"outcome":    res.Outcome,
		})
	}
}

func alertRecipient(userEmail string, cfg *config.Config) string {
	if userEmail != "" {
		return userEmail
	}
	return cfg.AlertEmail
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrProductNotFound), errors.Is(err, ErrStockNotFound):
		return fiber.NewError(fiber.StatusNotFound, "product not found")
	case errors.Is(err, ErrConflict):
		return fiber.NewError(fiber.StatusConflict, "stock changed concurrently, retry")
	case errors.Is(err, ErrUpstream):
		return fiber.NewError(fiber.StatusInternalServerError, "storage failure")
	default:
		return err
	}
}
