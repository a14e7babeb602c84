package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/clontarfparadise/proshop-backend/internal/models"
)

func NewDatabase(databaseURL string) (*gorm.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.VoucherPurchase{},
		&models.Product{},
		&models.Service{},
	)
}

// SeedCatalog inserts sample catalog rows on an empty database so a fresh
// install has something to show.
func SeedCatalog(db *gorm.DB) error {
	var productCount int64
	if err := db.Model(&models.Product{}).Count(&productCount).Error; err != nil {
		return err
	}
	if productCount == 0 {
		clubs := models.CategoryClubs
		balls := models.CategoryBalls
		accessories := models.CategoryAccessories
		products := []models.Product{
			{
				ID:          "8f2c1f50-6d8c-4c3e-9a41-0f4bce2a1101",
				Name:        "Titleist Pro V1 (Dozen)",
				Description: strPtr("Premium tour golf balls with exceptional distance and control."),
				Price:       59.99,
				Category:    &balls,
				Brand:       strPtr("Titleist"),
				IsFeatured:  true,
				InStock:     true,
			},
			{
				ID:          "8f2c1f50-6d8c-4c3e-9a41-0f4bce2a1102",
				Name:        "TaylorMade Stealth 2 Driver",
				Description: strPtr("High forgiveness driver with explosive ball speed."),
				Price:       549.00,
				Category:    &clubs,
				Brand:       strPtr("TaylorMade"),
				IsFeatured:  true,
				InStock:     true,
			},
			{
				ID:          "8f2c1f50-6d8c-4c3e-9a41-0f4bce2a1103",
				Name:        "FootJoy StaSof Glove",
				Description: strPtr("Soft premium leather glove for superior feel."),
				Price:       29.99,
				Category:    &accessories,
				Brand:       strPtr("FootJoy"),
				InStock:     true,
			},
		}
		if err := db.Create(&products).Error; err != nil {
			return fmt.Errorf("failed to seed products: %w", err)
		}
	}

	var serviceCount int64
	if err := db.Model(&models.Service{}).Count(&serviceCount).Error; err != nil {
		return err
	}
	if serviceCount == 0 {
		services := []models.Service{
			{
				ID:          "8f2c1f50-6d8c-4c3e-9a41-0f4bce2a1201",
				Name:        "Private Lesson (1 Hour)",
				Description: strPtr("One-to-one coaching with our PGA professional."),
				Price:       75.00,
			},
			{
				ID:          "8f2c1f50-6d8c-4c3e-9a41-0f4bce2a1202",
				Name:        "Full Bag Club Fitting",
				Description: strPtr("Launch-monitor fitting session across the whole bag."),
				Price:       120.00,
			},
		}
		if err := db.Create(&services).Error; err != nil {
			return fmt.Errorf("failed to seed services: %w", err)
		}
	}

	return nil
}

func strPtr(s string) *string { return &s }
