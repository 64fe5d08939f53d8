package main

import (
	"log"
	"strings"

	"inventory-backend/internal/auth"
	"inventory-backend/internal/config"
	"inventory-backend/internal/database"
	"inventory-backend/internal/gemini"
	"inventory-backend/internal/inventory"
	"inventory-backend/internal/logger"
	"inventory-backend/internal/mail"
	"inventory-backend/internal/scan"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	logg := logger.New(cfg.LogLevel)

	db, err := database.Init(cfg)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	notifier := mail.NewClient(cfg.ResendAPIKey, cfg.AlertFrom)
	extractor := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	svc := inventory.NewService(db, notifier, cfg.LowStockThreshold, logg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			logg.Error("unexpected error", "path", c.Path(), "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	app.Use(logger.Middleware(logg))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(db))
	api.Post("/auth/login", auth.LoginHandler(db, cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler(db))

	// Label scanning
	protected.Post("/scan", scan.Handler(extractor, logg))

	// Stock workflow
	protected.Post("/products", inventory.SaveProductHandler(svc, cfg))
	protected.Post("/stocks", inventory.AdjustStockHandler(svc, cfg))

	// Read paths
	protected.Get("/inventory", inventory.ListInventoryHandler(db, cfg))
	protected.Get("/products/:id/logs", inventory.ListStockLogsHandler(db))

	// Per-product alert thresholds
	protected.Put("/products/:id/low-stock-rule", inventory.SetLowStockRuleHandler(db))
	protected.Delete("/products/:id/low-stock-rule", inventory.DeleteLowStockRuleHandler(db))

	logg.Info("server listening", "port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
