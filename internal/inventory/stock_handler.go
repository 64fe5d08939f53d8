package inventory

import (
	"inventory-backend/internal/auth"
	"inventory-backend/internal/config"
	"inventory-backend/internal/models"
	"inventory-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AdjustStockRequest struct {
	ProductID string `json:"product_id" validate:"omitempty,uuid"`
	SKU       string `json:"sku"`
	Qty       int    `json:"qty" validate:"required,min=1"`
	Type      string `json:"type" validate:"required,oneof=IN OUT"`
}

// POST /api/stocks
// Adjusts an existing product's stock, addressed by product_id or SKU.
// 404 when the product is unknown to the caller.
func AdjustStockHandler(svc *Service, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body AdjustStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, validation.Describe(err))
		}
		if body.ProductID == "" && body.SKU == "" {
			return fiber.NewError(fiber.StatusBadRequest, "product_id or sku is required")
		}

		productID := uuid.Nil
		if body.ProductID != "" {
			var err error
			productID, err = uuid.Parse(body.ProductID)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "product_id must be a valid uuid")
			}
		}

		userID, email, err := auth.UserFromContext(c)
		if err != nil {
			return err
		}

		res, err := svc.Adjust(c.UserContext(), userID, alertRecipient(email, cfg), Adjustment{
			ProductID: productID,
			SKU:       body.SKU,
			Qty:       body.Qty,
			Type:      models.StockLogType(body.Type),
			Source:    models.StockLogSourceScan,
		})
		if err != nil {
			return mapServiceError(err)
		}

		return c.JSON(fiber.Map{
			"success":  true,
			"quantity": res.Quantity,
		})
	}
}
