package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-inventory-orders/internal/handler"
	"go-inventory-orders/internal/middleware"
	"go-inventory-orders/internal/model"
	"go-inventory-orders/internal/repository"
	"go-inventory-orders/internal/service"
	"go-inventory-orders/internal/ws"
	"go-inventory-orders/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.TransactionLog{},
		&model.TransactionItem{},
		&model.ProductHistory{},
	)

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	txLogRepo := repository.NewTransactionRepo(db)
	historyRepo := repository.NewHistoryRepo(db)
	txManager := repository.NewGormTxManager(db)

	catalogService := service.NewCatalogService(productRepo, historyRepo, txManager, wsHub)
	orderService := service.NewOrderService(productRepo, orderRepo, txLogRepo, txManager, wsHub)
	txLogService := service.NewTransactionService(txLogRepo)
	reportService := service.NewReportService(productRepo, txLogRepo)

	productHandler := handler.NewProductHandler(catalogService)
	orderHandler := handler.NewOrderHandler(orderService)
	txLogHandler := handler.NewTransactionHandler(txLogService)
	historyHandler := handler.NewHistoryHandler(catalogService)
	reportHandler := handler.NewReportHandler(reportService)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Inventory Orders v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 6. Routes
	api := app.Group("/api/v1", middleware.RequireRole())

	// Product Routes (mutation rights checked per field inside the catalog)
	api.Get("/products", productHandler.GetProducts)
	api.Post("/products", productHandler.CreateProduct)
	api.Put("/products/:id", productHandler.UpdateProduct)
	api.Delete("/products/:id", productHandler.DeleteProduct)

	// Order Routes
	api.Get("/orders", orderHandler.GetOrders)
	api.Get("/orders/:id", orderHandler.GetOrder)
	api.Post("/orders", orderHandler.CreateOrder)
	api.Patch("/orders/:id/status", orderHandler.SetOrderStatus)
	api.Put("/orders/:id", orderHandler.EditOrder)
	api.Delete("/orders/:id", orderHandler.DeleteOrder)
	api.Post("/orders/bulk-delete", orderHandler.BulkDeleteOrders)

	// Transaction Log Routes (append-only; delete is admin cleanup)
	api.Get("/transactions", txLogHandler.GetTransactions)
	api.Get("/transactions/:id", txLogHandler.GetTransaction)
	api.Delete("/transactions/:id", middleware.RequireAnyRole(model.RoleDeveloper), txLogHandler.DeleteTransaction)

	// Product History Routes
	api.Get("/product-history", historyHandler.GetHistory)
	api.Post("/product-history", historyHandler.AddHistory)

	// Report Routes
	api.Get("/reports/summary", reportHandler.GetSummary)
	api.Get("/reports/revenue", reportHandler.GetRevenue)
	api.Get("/reports/demand", reportHandler.GetDemand)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
