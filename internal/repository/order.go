package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"jewelry-store/internal/apperr"
	"jewelry-store/internal/dto"
	"jewelry-store/internal/model"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
	FindByID(ctx context.Context, tx *gorm.DB, orderID uint) (*model.Order, error)
	FindOwned(ctx context.Context, orderID, userID uint) (*model.Order, error)
	FindByUser(ctx context.Context, userID uint, status string) ([]model.Order, error)
	List(ctx context.Context, filter dto.OrderListFilter) ([]model.Order, int64, error)
	// Update persists the mutable slice of an order: status plus its
	// transition side-effect fields. Everything else is immutable after
	// checkout.
	Update(ctx context.Context, tx *gorm.DB, order *model.Order) error
	StatusCountsByUser(ctx context.Context, userID uint) (map[model.OrderStatus]int64, error)
	Stats(ctx context.Context) (*dto.OrderStats, error)
	CouponInUse(ctx context.Context, couponID uint) (bool, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{db: db}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, orderID uint) (*model.Order, error) {
	if tx == nil {
		tx = r.db
	}

	var order model.Order
	err := tx.WithContext(ctx).
		Preload("OrderItems").
		Preload("ShippingAddress").
		Where("id = ?", orderID).
		First(&order).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("order %d not found", orderID)
	}
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// FindOwned scopes the lookup to the requesting user. A cross-tenant id
// produces the same NotFound as a missing one.
func (r *orderRepoImpl) FindOwned(ctx context.Context, orderID, userID uint) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Preload("ShippingAddress").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("order %d not found", orderID)
	}
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByUser(ctx context.Context, userID uint, status string) ([]model.Order, error) {
	query := r.db.WithContext(ctx).
		Preload("OrderItems").
		Where("user_id = ?", userID)

	if status != "" && status != "All" {
		query = query.Where("status = ?", status)
	}

	var orders []model.Order
	if err := query.Order("order_date DESC").Find(&orders).Error; err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) List(ctx context.Context, filter dto.OrderListFilter) ([]model.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Order{})

	if filter.Status != "" && filter.Status != "All" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" && filter.PaymentStatus != "All" {
		query = query.Where("id IN (?)", r.db.Model(&model.Payment{}).
			Select("order_id").
			Where("status = ?", filter.PaymentStatus))
	}
	if filter.PaymentMethod != "" && filter.PaymentMethod != "All" {
		query = query.Where("id IN (?)", r.db.Model(&model.Payment{}).
			Select("order_id").
			Where("method = ?", filter.PaymentMethod))
	}
	if filter.DateFrom != nil {
		query = query.Where("order_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		// include the whole dateTo day
		query = query.Where("order_date < ?", filter.DateTo.AddDate(0, 0, 1))
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
		pageSize = 10
	}

	var orders []model.Order
	err := query.
		Preload("OrderItems").
		Order("order_date DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&orders).Error

	if err != nil {
		return nil, 0, err
	}

	return orders, count, nil
}

func (r *orderRepoImpl) Update(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"status":              order.Status,
			"tracking_number":     order.TrackingNumber,
			"delivered_at":        order.DeliveredAt,
			"cancellation_reason": order.CancellationReason,
			"updated_at":          time.Now(),
		}).Error
}

func (r *orderRepoImpl) StatusCountsByUser(ctx context.Context, userID uint) (map[model.OrderStatus]int64, error) {
	type row struct {
		Status model.OrderStatus
		Count  int64
	}

	var rows []row
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("status, count(*) as count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	counts := make(map[model.OrderStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}

	return counts, nil
}

func (r *orderRepoImpl) Stats(ctx context.Context) (*dto.OrderStats, error) {
	today := time.Now().Truncate(24 * time.Hour)
	tomorrow := today.AddDate(0, 0, 1)

	stats := &dto.OrderStats{TodayRevenue: decimal.Zero}
	db := r.db.WithContext(ctx).Model(&model.Order{})

	if err := db.Session(&gorm.Session{}).
		Where("order_date >= ? AND order_date < ?", today, tomorrow).
		Count(&stats.TodayOrders).Error; err != nil {
		return nil, err
	}

	if err := db.Session(&gorm.Session{}).
		Where("status = ?", model.OrderPending).
		Count(&stats.PendingOrders).Error; err != nil {
		return nil, err
	}

	if err := db.Session(&gorm.Session{}).
		Where("status IN ?", []model.OrderStatus{model.OrderPending, model.OrderProcessing}).
		Count(&stats.NeedsProcessing).Error; err != nil {
		return nil, err
	}

	var revenue *string
	err := db.Session(&gorm.Session{}).
		Select("sum(grand_total)").
		Where("order_date >= ? AND order_date < ? AND status <> ?", today, tomorrow, model.OrderCancelled).
		Scan(&revenue).Error
	if err != nil {
		return nil, err
	}
	if revenue != nil {
		total, err := decimal.NewFromString(*revenue)
		if err != nil {
			return nil, err
		}
		stats.TodayRevenue = total
	}

	return stats, nil
}

func (r *orderRepoImpl) CouponInUse(ctx context.Context, couponID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("coupon_id = ?", couponID).
		Count(&count).Error

	return count > 0, err
}
