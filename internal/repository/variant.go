package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"jewelry-store/internal/apperr"
	"jewelry-store/internal/model"
)

// VariantRepository is the stock ledger. StockQuantity only ever changes
// through Reserve and Release, so the quantity can never go negative no
// matter how checkouts interleave.
type VariantRepository interface {
	FindByID(ctx context.Context, variantID uint) (*model.ProductVariant, error)
	FindMany(ctx context.Context, variantIDs []uint) ([]*model.ProductVariant, error)
	// Reserve decrements stock for variantID by quantity, but only if the
	// persisted quantity at this moment still covers it. The decision is made
	// by the database in a single conditional UPDATE, never against a value
	// read earlier in the request.
	Reserve(ctx context.Context, tx *gorm.DB, variantID uint, quantity int) error
	// Release returns quantity units to the pool. No upper bound: a released
	// unit always goes back where it came from.
	Release(ctx context.Context, tx *gorm.DB, variantID uint, quantity int) error
}

type variantRepoImpl struct {
	db *gorm.DB
}

func NewVariantRepository(db *gorm.DB) VariantRepository {
	return &variantRepoImpl{db: db}
}

func (r *variantRepoImpl) FindByID(ctx context.Context, variantID uint) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("id = ?", variantID).
		First(&variant).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("product variant %d not found", variantID)
	}
	if err != nil {
		return nil, err
	}

	return &variant, nil
}

func (r *variantRepoImpl) FindMany(ctx context.Context, variantIDs []uint) ([]*model.ProductVariant, error) {
	var variants []*model.ProductVariant
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("id IN ?", variantIDs).
		Find(&variants).Error

	if err != nil {
		return nil, err
	}

	return variants, nil
}

func (r *variantRepoImpl) Reserve(ctx context.Context, tx *gorm.DB, variantID uint, quantity int) error {
	if quantity <= 0 {
		return apperr.Validation("reserve quantity must be positive")
	}

	result := tx.WithContext(ctx).Model(&model.ProductVariant{}).
		Where("id = ? AND stock_quantity >= ?", variantID, quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.New(apperr.KindInsufficientStock, "insufficient stock for variant %d", variantID)
	}

	return nil
}

func (r *variantRepoImpl) Release(ctx context.Context, tx *gorm.DB, variantID uint, quantity int) error {
	if quantity <= 0 {
		return apperr.Validation("release quantity must be positive")
	}

	return tx.WithContext(ctx).Model(&model.ProductVariant{}).
		Where("id = ?", variantID).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", quantity)).Error
}
