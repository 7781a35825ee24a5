package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"jewelry-store/internal/apperr"
	"jewelry-store/internal/dto"
	"jewelry-store/internal/model"
	"jewelry-store/internal/repository"
)

// now is swapped out in tests that pin the clock.
var now = time.Now

// TransitionParams carries the per-transition inputs: a tracking number for
// Shipped, an optional delivery date for Delivered, a reason for Cancelled.
type TransitionParams struct {
	TrackingNumber     string
	DeliveryDate       *time.Time
	CancellationReason string
}

type OrderService interface {
	// Transition moves an order to newStatus, applying the documented side
	// effects atomically. Same-status moves are no-ops.
	Transition(ctx context.Context, orderID uint, newStatus model.OrderStatus, params TransitionParams) (*model.Order, error)
	// CancelOwn is the customer-facing cancel: owner-scoped, then the same
	// Cancelled transition the back office uses.
	CancelOwn(ctx context.Context, userID, orderID uint, reason string) (*model.Order, error)
	GetOwned(ctx context.Context, userID, orderID uint) (*model.Order, error)
	ListOwn(ctx context.Context, userID uint, status string) ([]model.Order, map[model.OrderStatus]int64, error)
	Get(ctx context.Context, orderID uint) (*model.Order, error)
	List(ctx context.Context, filter dto.OrderListFilter) (*dto.OrderListResponse, error)
	Stats(ctx context.Context) (*dto.OrderStats, error)
}

type orderServiceImpl struct {
	db          *gorm.DB
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
	variantRepo repository.VariantRepository
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	variantRepo repository.VariantRepository,
) OrderService {
	return &orderServiceImpl{
		db:          db,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		variantRepo: variantRepo,
	}
}

func (s *orderServiceImpl) Transition(ctx context.Context, orderID uint, newStatus model.OrderStatus, params TransitionParams) (*model.Order, error) {
	if !newStatus.Valid() {
		return nil, apperr.Validation("unknown order status %q", string(newStatus))
	}

	var updated *model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByID(ctx, tx, orderID)
		if err != nil {
			return err
		}

		if order.Status == newStatus {
			updated = order
			return nil
		}

		if !order.Status.CanTransitionTo(newStatus) {
			return apperr.InvalidTransition(string(order.Status), string(newStatus))
		}

		switch newStatus {
		case model.OrderShipped:
			if strings.TrimSpace(params.TrackingNumber) == "" {
				return apperr.Validation("tracking number is required when shipping an order")
			}
			order.TrackingNumber = params.TrackingNumber

		case model.OrderDelivered:
			deliveredAt := now()
			if params.DeliveryDate != nil {
				deliveredAt = *params.DeliveryDate
			}
			order.DeliveredAt = &deliveredAt

			if err := s.captureOnDelivery(ctx, tx, order); err != nil {
				return err
			}

		case model.OrderCancelled:
			if strings.TrimSpace(params.CancellationReason) == "" {
				return apperr.Validation("cancellation reason is required when cancelling an order")
			}
			order.CancellationReason = params.CancellationReason

			if err := cancelSideEffects(ctx, tx, s.variantRepo, s.paymentRepo, order); err != nil {
				return err
			}
		}

		order.Status = newStatus
		if err := s.orderRepo.Update(ctx, tx, order); err != nil {
			return err
		}

		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Uint("order_id", updated.ID).
		Str("status", string(updated.Status)).
		Msg("order status updated")

	return updated, nil
}

// captureOnDelivery advances the order's payment to Captured if it is not
// already there (captures COD payments on delivery). An order without a
// payment record is tolerated.
func (s *orderServiceImpl) captureOnDelivery(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	payment, err := s.paymentRepo.FindByOrderID(ctx, tx, order.ID)
	if apperr.IsKind(err, apperr.KindNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if payment.Status == model.PaymentCaptured {
		return nil
	}

	capturedAt := now()
	payment.Status = model.PaymentCaptured
	payment.CapturedAt = &capturedAt
	if payment.TransactionRef == "" {
		payment.TransactionRef = newTransactionRef("TXN")
	}

	return s.paymentRepo.Update(ctx, tx, payment)
}

// cancelSideEffects releases every item's stock back to its variant and moves
// the payment to Refunded (if it was Captured) or Failed (otherwise). Shared
// by the Cancelled transition and the refund path.
func cancelSideEffects(
	ctx context.Context,
	tx *gorm.DB,
	variantRepo repository.VariantRepository,
	paymentRepo repository.PaymentRepository,
	order *model.Order,
) error {
	for _, item := range order.OrderItems {
		if err := variantRepo.Release(ctx, tx, item.VariantID, item.Quantity); err != nil {
			return err
		}
	}

	payment, err := paymentRepo.FindByOrderID(ctx, tx, order.ID)
	if apperr.IsKind(err, apperr.KindNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	switch payment.Status {
	case model.PaymentCaptured:
		payment.Status = model.PaymentRefunded
	case model.PaymentRefunded:
		// already reversed, nothing to do
		return nil
	default:
		payment.Status = model.PaymentFailed
	}

	return paymentRepo.Update(ctx, tx, payment)
}

func (s *orderServiceImpl) CancelOwn(ctx context.Context, userID, orderID uint, reason string) (*model.Order, error) {
	if _, err := s.orderRepo.FindOwned(ctx, orderID, userID); err != nil {
		return nil, err
	}

	return s.Transition(ctx, orderID, model.OrderCancelled, TransitionParams{CancellationReason: reason})
}

func (s *orderServiceImpl) GetOwned(ctx context.Context, userID, orderID uint) (*model.Order, error) {
	return s.orderRepo.FindOwned(ctx, orderID, userID)
}

func (s *orderServiceImpl) ListOwn(ctx context.Context, userID uint, status string) ([]model.Order, map[model.OrderStatus]int64, error) {
	orders, err := s.orderRepo.FindByUser(ctx, userID, status)
	if err != nil {
		return nil, nil, err
	}

	counts, err := s.orderRepo.StatusCountsByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	return orders, counts, nil
}

func (s *orderServiceImpl) Get(ctx context.Context, orderID uint) (*model.Order, error) {
	return s.orderRepo.FindByID(ctx, nil, orderID)
}

func (s *orderServiceImpl) List(ctx context.Context, filter dto.OrderListFilter) (*dto.OrderListResponse, error) {
	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.OrderListResponse{
		Orders:   orders,
		Metadata: pageMetadata(total, filter.Page, filter.PageSize, 10),
	}, nil
}

func (s *orderServiceImpl) Stats(ctx context.Context) (*dto.OrderStats, error) {
	return s.orderRepo.Stats(ctx)
}

func pageMetadata(total int64, page, pageSize, defaultPageSize int) dto.PageMetadata {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return dto.PageMetadata{
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		HasPrevPage: page > 1,
		HasNextPage: page < totalPages,
	}
}
