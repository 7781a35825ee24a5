package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"jewelry-store/internal/apperr"
	"jewelry-store/internal/model"
)

// NormalizeCouponCode applies the canonical form used for storage and lookup:
// trimmed, upper-cased.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type CouponRepository interface {
	Create(ctx context.Context, coupon *model.Coupon) error
	FindByID(ctx context.Context, couponID uint) (*model.Coupon, error)
	// FindActiveByCode resolves a code case-insensitively; inactive coupons
	// are not eligible and report NotFound.
	FindActiveByCode(ctx context.Context, code string) (*model.Coupon, error)
	CodeExists(ctx context.Context, code string, excludeID uint) (bool, error)
	List(ctx context.Context) ([]model.Coupon, error)
	Update(ctx context.Context, coupon *model.Coupon) error
	Delete(ctx context.Context, couponID uint) error
}

type couponRepoImpl struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepoImpl{db: db}
}

func (r *couponRepoImpl) Create(ctx context.Context, coupon *model.Coupon) error {
	return r.db.WithContext(ctx).Create(coupon).Error
}

func (r *couponRepoImpl) FindByID(ctx context.Context, couponID uint) (*model.Coupon, error) {
	var coupon model.Coupon
	err := r.db.WithContext(ctx).
		Where("id = ?", couponID).
		First(&coupon).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("coupon %d not found", couponID)
	}
	if err != nil {
		return nil, err
	}

	return &coupon, nil
}

func (r *couponRepoImpl) FindActiveByCode(ctx context.Context, code string) (*model.Coupon, error) {
	var coupon model.Coupon
	err := r.db.WithContext(ctx).
		Where("code = ? AND is_active = ?", NormalizeCouponCode(code), true).
		First(&coupon).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("coupon code %s is invalid or inactive", code)
	}
	if err != nil {
		return nil, err
	}

	return &coupon, nil
}

func (r *couponRepoImpl) CodeExists(ctx context.Context, code string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.Coupon{}).
		Where("code = ?", NormalizeCouponCode(code))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	err := query.Count(&count).Error
	return count > 0, err
}

func (r *couponRepoImpl) List(ctx context.Context) ([]model.Coupon, error) {
	var coupons []model.Coupon
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&coupons).Error

	if err != nil {
		return nil, err
	}

	return coupons, nil
}

func (r *couponRepoImpl) Update(ctx context.Context, coupon *model.Coupon) error {
	return r.db.WithContext(ctx).Save(coupon).Error
}

func (r *couponRepoImpl) Delete(ctx context.Context, couponID uint) error {
	return r.db.WithContext(ctx).Delete(&model.Coupon{}, couponID).Error
}
