// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-api/internal/domain/cart"
	"github.com/your-org/storefront-api/internal/domain/checkout"
	"github.com/your-org/storefront-api/internal/domain/favorite"
	"github.com/your-org/storefront-api/internal/domain/newsletter"
	"github.com/your-org/storefront-api/internal/domain/order"
	"github.com/your-org/storefront-api/internal/domain/product"
	"github.com/your-org/storefront-api/internal/domain/shipping"
	"github.com/your-org/storefront-api/internal/domain/user"
	"gorm.io/gorm"
)

// Migrate runs schema migrations for all domain entities
func Migrate(db *gorm.DB, logger *logrus.Logger) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&user.User{},
		&product.Product{},
		&cart.CartItem{},
		&favorite.Favorite{},
		&checkout.PraCheckout{},
		&checkout.Voucher{},
		&order.Order{},
		&order.OrderItem{},
		&shipping.StaticRate{},
		&newsletter.Subscription{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info("Database migrations completed")
	return nil
}

// Seed inserts development fixtures. It is idempotent and only fills
// empty tables.
func Seed(db *gorm.DB, logger *logrus.Logger) error {
	if err := seedShippingRates(db, logger); err != nil {
		return err
	}
	if err := seedProducts(db, logger); err != nil {
		return err
	}
	return seedVouchers(db, logger)
}

func seedShippingRates(db *gorm.DB, logger *logrus.Logger) error {
	var count int64
	if err := db.Model(&shipping.StaticRate{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	rates := []shipping.StaticRate{
		{Carrier: "jne", Label: "JNE", Price: 15000},
		{Carrier: "sicepat", Label: "SiCepat", Price: 14000},
		{Carrier: "anteraja", Label: "AnterAja", Price: 13000},
		{Carrier: "j&t", Label: "J&T", Price: 14000},
	}
	if err := db.Create(&rates).Error; err != nil {
		return fmt.Errorf("failed to seed shipping rates: %w", err)
	}

	logger.WithField("count", len(rates)).Info("Seeded static shipping rates")
	return nil
}

func seedProducts(db *gorm.DB, logger *logrus.Logger) error {
	var count int64
	if err := db.Model(&product.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := []product.Product{
		{
			Name: "Classic Oversized Tee", Slug: "classic-oversized-tee",
			Description: "Heavyweight cotton tee with a relaxed fit.",
			Price:       100000, Category: "t-shirts", Sizes: "S,M,L,XL",
			Weight: 250, IsActive: true, TrackQuantity: true, Quantity: 120,
		},
		{
			Name: "Everyday Tote Bag", Slug: "everyday-tote-bag",
			Description: "Canvas tote with internal pocket.",
			Price:       50000, Category: "accessories", Sizes: "",
			Weight: 300, IsActive: true, TrackQuantity: true, Quantity: 80,
		},
		{
			Name: "Relaxed Chino Pants", Slug: "relaxed-chino-pants",
			Description: "Garment-dyed chino with a tapered leg.",
			Price:       225000, Category: "pants", Sizes: "28,30,32,34",
			Weight: 450, IsActive: true, TrackQuantity: true, Quantity: 60,
		},
	}
	if err := db.Create(&products).Error; err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	logger.WithField("count", len(products)).Info("Seeded products")
	return nil
}

func seedVouchers(db *gorm.DB, logger *logrus.Logger) error {
	var count int64
	if err := db.Model(&checkout.Voucher{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	vouchers := []checkout.Voucher{
		{Code: "HEMAT20", Type: checkout.VoucherTypeFixed, Value: 20000, MinOrderValue: 150000, IsActive: true},
		{Code: "DISKON10", Type: checkout.VoucherTypePercentage, Value: 10, MaxDiscount: 50000, IsActive: true},
	}
	if err := db.Create(&vouchers).Error; err != nil {
		return fmt.Errorf("failed to seed vouchers: %w", err)
	}

	logger.WithField("count", len(vouchers)).Info("Seeded vouchers")
	return nil
}
