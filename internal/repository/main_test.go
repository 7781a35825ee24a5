package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"jewelry-store/internal/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection so every session sees the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(model.AllModels()...))
	return db
}

func createVariant(t *testing.T, db *gorm.DB, stock int) *model.ProductVariant {
	t.Helper()

	product := &model.Product{
		Name:      "Silver Necklace",
		BasePrice: decimal.RequireFromString("750000"),
	}
	require.NoError(t, db.Create(product).Error)

	variant := &model.ProductVariant{
		ProductID:     product.ID,
		SKU:           "NECK-" + uuid.NewString(),
		StockQuantity: stock,
	}
	require.NoError(t, db.Create(variant).Error)
	return variant
}
