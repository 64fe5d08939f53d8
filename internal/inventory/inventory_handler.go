package inventory

import (
	"time"

	"inventory-backend/internal/auth"
	"inventory-backend/internal/config"
	"inventory-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InventoryItem struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku,omitempty"`
	Category  string    `json:"category"`
	Brand     string    `json:"brand,omitempty"`
	Quantity  int       `json:"quantity"`
	LowStock  bool      `json:"low_stock"`
	CreatedAt string    `json:"created_at"`
}

// GET /api/inventory
// Projects the caller's products with their current quantities. Products
// without a stock row report zero. Read-committed staleness under concurrent
// adjustments is acceptable here.
func ListInventoryHandler(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.UserFromContext(c)
		if err != nil {
			return err
		}

		var products []models.Product
		if err := db.Where("user_id = ?", userID).Order("created_at desc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list products")
		}

		ids := make([]uuid.UUID, 0, len(products))
		for _, p := range products {
			ids = append(ids, p.ID)
		}

		quantities := make(map[uuid.UUID]int, len(ids))
		thresholds := make(map[uuid.UUID]int, len(ids))
		if len(ids) > 0 {
			var stocks []models.Stock
			if err := db.Where("product_id IN ?", ids).Find(&stocks).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "could not load stock quantities")
			}
			for _, s := range stocks {
				quantities[s.ProductID] = s.Quantity
			}

			var rules []models.LowStockRule
			if err := db.Where("product_id IN ?", ids).Find(&rules).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "could not load low stock rules")
			}
			for _, r := range rules {
				thresholds[r.ProductID] = r.MinQty
			}
		}

		res := make([]InventoryItem, 0, len(products))
		for _, p := range products {
			qty := quantities[p.ID]
			threshold := cfg.LowStockThreshold
			if t, ok := thresholds[p.ID]; ok {
				threshold = t
			}
			res = append(res, InventoryItem{
				ID:        p.ID,
				Name:      p.Name,
				SKU:       p.SKUValue(),
				Category:  p.Category,
				Brand:     p.Brand,
				Quantity:  qty,
				LowStock:  qty <= threshold,
				CreatedAt: p.CreatedAt.Format(time.RFC3339),
			})
		}
		return c.JSON(res)
	}
}
