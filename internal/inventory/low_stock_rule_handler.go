package inventory

import (
	"errors"

	"inventory-backend/internal/auth"
	"inventory-backend/internal/models"
	"inventory-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SetLowStockRuleRequest struct {
	MinQty int `json:"min_qty" validate:"min=0"`
}

// PUT /api/products/:id/low-stock-rule
func SetLowStockRuleHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		product, err := ownedProduct(c, db)
		if err != nil {
			return err
		}

		var body SetLowStockRuleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, validation.Describe(err))
		}

		var rule models.LowStockRule
		err = db.Where("product_id = ?", product.ID).First(&rule).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			rule = models.LowStockRule{ProductID: product.ID, MinQty: body.MinQty}
			if err := db.Create(&rule).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "could not create low stock rule")
			}
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, "could not load low stock rule")
		default:
			rule.MinQty = body.MinQty
			if err := db.Save(&rule).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "could not update low stock rule")
			}
		}

		return c.JSON(fiber.Map{
			"product_id": rule.ProductID,
			"min_qty":    rule.MinQty,
		})
	}
}

// DELETE /api/products/:id/low-stock-rule
func DeleteLowStockRuleHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		product, err := ownedProduct(c, db)
		if err != nil {
			return err
		}

		if err := db.Delete(&models.LowStockRule{}, "product_id = ?", product.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete low stock rule")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func ownedProduct(c *fiber.Ctx, db *gorm.DB) (*models.Product, error) {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "id must be a valid uuid")
	}

	userID, _, err := auth.UserFromContext(c)
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := db.Where("id = ? AND user_id = ?", productID, userID).First(&product).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "product not found")
	}
	return &product, nil
}
