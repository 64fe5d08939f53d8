package inventory

import (
	"time"

	"inventory-backend/internal/auth"
	"inventory-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockLogItem struct {
	ID        uint   `json:"id"`
	Type      string `json:"type"`
	Qty       int    `json:"qty"`
	Source    string `json:"source"`
	CreatedAt string `json:"created_at"`
}

// GET /api/products/:id/logs
func ListStockLogsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		productID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "id must be a valid uuid")
		}

		userID, _, err := auth.UserFromContext(c)
		if err != nil {
			return err
		}

		var product models.Product
		if err := db.Where("id = ? AND user_id = ?", productID, userID).First(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}

		var logs []models.StockLog
		if err := db.Where("product_id = ?", productID).
			Order("created_at desc, id desc").
			Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list stock logs")
		}

		res := make([]StockLogItem, 0, len(logs))
		for _, l := range logs {
			res = append(res, StockLogItem{
				ID:        l.ID,
				Type:      string(l.Type),
				Qty:       l.Qty,
				Source:    l.Source,
				CreatedAt: l.CreatedAt.Format(time.RFC3339),
			})
		}
		return c.JSON(res)
	}
}
