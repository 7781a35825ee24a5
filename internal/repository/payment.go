package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"jewelry-store/internal/apperr"
	"jewelry-store/internal/dto"
	"jewelry-store/internal/model"
)

type PaymentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, payment *model.Payment) error
	FindByID(ctx context.Context, tx *gorm.DB, paymentID uint) (*model.Payment, error)
	FindByOrderID(ctx context.Context, tx *gorm.DB, orderID uint) (*model.Payment, error)
	Update(ctx context.Context, tx *gorm.DB, payment *model.Payment) error
	List(ctx context.Context, filter dto.PaymentListFilter) ([]model.Payment, int64, error)
}

type paymentRepoImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepoImpl{db: db}
}

func (r *paymentRepoImpl) Create(ctx context.Context, tx *gorm.DB, payment *model.Payment) error {
	return tx.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, paymentID uint) (*model.Payment, error) {
	if tx == nil {
		tx = r.db
	}

	var payment model.Payment
	err := tx.WithContext(ctx).
		Where("id = ?", paymentID).
		First(&payment).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("payment %d not found", paymentID)
	}
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepoImpl) FindByOrderID(ctx context.Context, tx *gorm.DB, orderID uint) (*model.Payment, error) {
	if tx == nil {
		tx = r.db
	}

	var payment model.Payment
	err := tx.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&payment).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("payment for order %d not found", orderID)
	}
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepoImpl) Update(ctx context.Context, tx *gorm.DB, payment *model.Payment) error {
	return tx.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ?", payment.ID).
		Updates(map[string]interface{}{
			"status":          payment.Status,
			"transaction_ref": payment.TransactionRef,
			"captured_at":     payment.CapturedAt,
			"updated_at":      time.Now(),
		}).Error
}

func (r *paymentRepoImpl) List(ctx context.Context, filter dto.PaymentListFilter) ([]model.Payment, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Payment{})

	if filter.Status != "" && filter.Status != "All" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Method != "" && filter.Method != "All" {
		query = query.Where("method = ?", filter.Method)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var payments []model.Payment
	err := query.
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&payments).Error

	if err != nil {
		return nil, 0, err
	}

	return payments, count, nil
}
