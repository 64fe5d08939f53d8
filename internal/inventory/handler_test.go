package inventory_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"inventory-backend/internal/auth"
	"inventory-backend/internal/config"
	"inventory-backend/internal/inventory"
	"inventory-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	app      *fiber.App
	db       *gorm.DB
	notifier *fakeNotifier
	user     models.User
	token    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	notifier := &fakeNotifier{}
	cfg := &config.Config{
		JWTSecret:         "0123456789abcdef0123456789abcdef",
		LowStockThreshold: 5,
		AlertEmail:        "ops@example.com",
	}
	logg := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := inventory.NewService(db, notifier, cfg.LowStockThreshold, logg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "unexpected server error"})
		},
	})

	api := app.Group("/api")
	protected := api.Group("", auth.JWTMiddleware(cfg))
	protected.Post("/products", inventory.SaveProductHandler(svc, cfg))
	protected.Post("/stocks", inventory.AdjustStockHandler(svc, cfg))
	protected.Get("/inventory", inventory.ListInventoryHandler(db, cfg))
	protected.Get("/products/:id/logs", inventory.ListStockLogsHandler(db))
	protected.Put("/products/:id/low-stock-rule", inventory.SetLowStockRuleHandler(db))
	protected.Delete("/products/:id/low-stock-rule", inventory.DeleteLowStockRuleHandler(db))

	user := newTestUser(t, db, "owner@example.com")
	token, err := auth.GenerateToken(cfg.JWTSecret, &user)
	require.NoError(t, err)

	return &testEnv{app: app, db: db, notifier: notifier, user: user, token: token}
}

func (e *testEnv) doJSON(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func (e *testEnv) createMilk(t *testing.T, qty int) string {
	t.Helper()
	resp := e.doJSON(t, fiber.MethodPost, "/api/products", fiber.Map{
		"sku": "MLK-1", "name": "Milk", "category": "Dairy", "qty": qty, "type": "IN",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var out struct {
		ProductID string `json:"product_id"`
	}
	decodeBody(t, resp, &out)
	return out.ProductID
}

func TestSaveProductHandler(t *testing.T) {
	t.Run("CreatesAndThenUpdatesBySKU", func(t *testing.T) {
		env := newTestEnv(t)

		resp := env.doJSON(t, fiber.MethodPost, "/api/products", fiber.Map{
			"sku": "MLK-1", "name": "Milk", "category": "Dairy", "brand": "Acme",
			"qty": 20, "type": "IN",
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)

		var created struct {
			Success   bool   `json:"success"`
			Quantity  int    `json:"quantity"`
			ProductID string `json:"product_id"`
			Outcome   string `json:"outcome"`
		}
		decodeBody(t, resp, &created)
		require.True(t, created.Success)
		require.Equal(t, 20, created.Quantity)
		require.Equal(t, "created", created.Outcome)
		require.NotEmpty(t, created.ProductID)

		resp = env.doJSON(t, fiber.MethodPost, "/api/products", fiber.Map{
			"sku": "MLK-1", "name": "Milk", "category": "Dairy",
			"qty": 17, "type": "OUT",
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var updated struct {
			Quantity int    `json:"quantity"`
			Outcome  string `json:"outcome"`
		}
		decodeBody(t, resp, &updated)
		require.Equal(t, 3, updated.Quantity)
		require.Equal(t, "updated", updated.Outcome)

		require.Len(t, env.notifier.attempts, 1)
		require.Equal(t, "owner@example.com", env.notifier.attempts[0].To)
	})

	t.Run("RejectsMissingQty", func(t *testing.T) {
		env := newTestEnv(t)

		resp := env.doJSON(t, fiber.MethodPost, "/api/products", fiber.Map{
			"sku": "MLK-1", "name": "Milk", "category": "Dairy", "type": "IN",
		})
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		var out struct {
			Error string `json:"error"`
		}
		decodeBody(t, resp, &out)
		require.Contains(t, out.Error, "qty")
	})

	t.Run("RejectsInvalidDirection", func(t *testing.T) {
		env := newTestEnv(t)

		resp := env.doJSON(t, fiber.MethodPost, "/api/products", fiber.Map{
			"sku": "MLK-1", "name": "Milk", "category": "Dairy", "qty": 5, "type": "SIDEWAYS",
		})
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("RejectsCreationWithoutName", func(t *testing.T) {
		env := newTestEnv(t)

		resp := env.doJSON(t, fiber.MethodPost, "/api/products", fiber.Map{
			"sku": "MLK-1", "category": "Dairy", "qty": 5, "type": "IN",
		})
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("RequiresAuth", func(t *testing.T) {
		env := newTestEnv(t)
		env.token = ""

		resp := env.doJSON(t, fiber.MethodPost, "/api/products", fiber.Map{
			"sku": "MLK-1", "name": "Milk", "category": "Dairy", "qty": 5, "type": "IN",
		})
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestAdjustStockHandler(t *testing.T) {
	t.Run("AdjustsExistingProduct", func(t *testing.T) {
		env := newTestEnv(t)
		productID := env.createMilk(t, 20)

		resp := env.doJSON(t, fiber.MethodPost, "/api/stocks", fiber.Map{
			"product_id": productID, "qty": 8, "type": "OUT",
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var out struct {
			Success  bool `json:"success"`
			Quantity int  `json:"quantity"`
		}
		decodeBody(t, resp, &out)
		require.True(t, out.Success)
		require.Equal(t, 12, out.Quantity)
	})

	t.Run("AdjustsBySKU", func(t *testing.T) {
		env := newTestEnv(t)
		env.createMilk(t, 20)

		resp := env.doJSON(t, fiber.MethodPost, "/api/stocks", fiber.Map{
			"sku": "MLK-1", "qty": 5, "type": "IN",
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var out struct {
			Quantity int `json:"quantity"`
		}
		decodeBody(t, resp, &out)
		require.Equal(t, 25, out.Quantity)
	})

	t.Run("MissingProductReferenceIs400", func(t *testing.T) {
		env := newTestEnv(t)

		resp := env.doJSON(t, fiber.MethodPost, "/api/stocks", fiber.Map{
			"qty": 1, "type": "OUT",
		})
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("UnknownProductIs404", func(t *testing.T) {
		env := newTestEnv(t)

		resp := env.doJSON(t, fiber.MethodPost, "/api/stocks", fiber.Map{
			"product_id": "550e8400-e29b-41d4-a716-446655440000", "qty": 1, "type": "OUT",
		})
		require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("MalformedUUIDIs400", func(t *testing.T) {
		env := newTestEnv(t)

		resp := env.doJSON(t, fiber.MethodPost, "/api/stocks", fiber.Map{
			"product_id": "not-a-uuid", "qty": 1, "type": "OUT",
		})
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestListInventoryHandler(t *testing.T) {
	env := newTestEnv(t)
	env.createMilk(t, 3)

	resp := env.doJSON(t, fiber.MethodGet, "/api/inventory", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var items []inventory.InventoryItem
	decodeBody(t, resp, &items)
	require.Len(t, items, 1)
	require.Equal(t, "Milk", items[0].Name)
	require.Equal(t, "MLK-1", items[0].SKU)
	require.Equal(t, 3, items[0].Quantity)
	require.True(t, items[0].LowStock)
}

func TestListStockLogsHandler(t *testing.T) {
	env := newTestEnv(t)
	productID := env.createMilk(t, 20)

	resp := env.doJSON(t, fiber.MethodPost, "/api/stocks", fiber.Map{
		"product_id": productID, "qty": 17, "type": "OUT",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.doJSON(t, fiber.MethodGet, "/api/products/"+productID+"/logs", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var logs []inventory.StockLogItem
	decodeBody(t, resp, &logs)
	require.Len(t, logs, 2)
	// newest first
	require.Equal(t, "OUT", logs[0].Type)
	require.Equal(t, 17, logs[0].Qty)
	require.Equal(t, "IN", logs[1].Type)
	require.Equal(t, 20, logs[1].Qty)
	require.Equal(t, "scan", logs[0].Source)
}

func TestLowStockRuleHandlers(t *testing.T) {
	env := newTestEnv(t)
	productID := env.createMilk(t, 100)

	resp := env.doJSON(t, fiber.MethodPut, "/api/products/"+productID+"/low-stock-rule", fiber.Map{
		"min_qty": 50,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var rule struct {
		MinQty int `json:"min_qty"`
	}
	decodeBody(t, resp, &rule)
	require.Equal(t, 50, rule.MinQty)

	// an OUT that lands below the rule now alerts
	resp = env.doJSON(t, fiber.MethodPost, "/api/stocks", fiber.Map{
		"product_id": productID, "qty": 60, "type": "OUT",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, env.notifier.attempts, 1)
	require.Equal(t, 50, env.notifier.attempts[0].Threshold)

	resp = env.doJSON(t, fiber.MethodDelete, "/api/products/"+productID+"/low-stock-rule", nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	var count int64
	require.NoError(t, env.db.Model(&models.LowStockRule{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}
