package main

import (
	"log"

	"go-inventory-orders/internal/model"
	"go-inventory-orders/pkg/database"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Seeds a handful of catalog rows for local bring-up. Safe to re-run: rows
// that already exist are skipped.
func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(&model.Product{}, &model.ProductHistory{})

	demo := []model.Product{
		{Name: "Bolt", Category: "Hardware", Stock: decimal.NewFromInt(50), Unit: "pcs", Price: decimal.NewFromInt(100), Cost: decimal.NewFromInt(60)},
		{Name: "Washer", Category: "Hardware", Stock: decimal.NewFromInt(200), Unit: "pcs", Price: decimal.NewFromInt(25), Cost: decimal.NewFromInt(10)},
		{Name: "Steel Wire", Category: "Material", Stock: decimal.RequireFromString("120.5"), Unit: "kg", Price: decimal.NewFromInt(800), Cost: decimal.NewFromInt(550)},
	}

	for i := range demo {
		var count int64
		db.Model(&model.Product{}).Where("name = ?", demo[i].Name).Count(&count)
		if count > 0 {
			log.Printf("Skipping %q, already present", demo[i].Name)
			continue
		}
		if err := db.Create(&demo[i]).Error; err != nil {
			log.Fatalf("Failed to seed %q: %v", demo[i].Name, err)
		}
		history := model.ProductHistory{
			ProductID:   demo[i].ID,
			ProductName: demo[i].Name,
			Category:    demo[i].Category,
			Stock:       demo[i].Stock,
			Unit:        demo[i].Unit,
			AddedBy:     model.RoleDeveloper,
		}
		if err := db.Create(&history).Error; err != nil {
			log.Fatalf("Failed to record history for %q: %v", demo[i].Name, err)
		}
		log.Printf("Seeded %q (stock %s %s)", demo[i].Name, demo[i].Stock.String(), demo[i].Unit)
	}

	log.Println("Demo catalog ready")
}
