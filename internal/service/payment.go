package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"jewelry-store/internal/apperr"
	"jewelry-store/internal/dto"
	"jewelry-store/internal/model"
	"jewelry-store/internal/repository"
)

// captureTolerance is the maximum allowed gap between a payment's recorded
// amount and the order grand total at capture time.
var captureTolerance = decimal.NewFromFloat(0.01)

func newTransactionRef(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}

type PaymentService interface {
	Authorize(ctx context.Context, paymentID uint) (*model.Payment, error)
	Capture(ctx context.Context, paymentID uint) (*model.Payment, error)
	// Refund reverses a captured payment. If the order is not already
	// Cancelled it is cancelled with a derived reason, which also returns
	// the items' stock to their variants.
	Refund(ctx context.Context, paymentID uint, reason string) (*model.Payment, error)
	MarkFailed(ctx context.Context, paymentID uint, reason string) (*model.Payment, error)
	Get(ctx context.Context, paymentID uint) (*model.Payment, error)
	List(ctx context.Context, filter dto.PaymentListFilter) (*dto.PaymentListResponse, error)
}

type paymentServiceImpl struct {
	db          *gorm.DB
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
	variantRepo repository.VariantRepository
}

func NewPaymentService(
	db *gorm.DB,
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	variantRepo repository.VariantRepository,
) PaymentService {
	return &paymentServiceImpl{
		db:          db,
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		variantRepo: variantRepo,
	}
}

func (s *paymentServiceImpl) Authorize(ctx context.Context, paymentID uint) (*model.Payment, error) {
	var updated *model.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment, err := s.paymentRepo.FindByID(ctx, tx, paymentID)
		if err != nil {
			return err
		}

		if payment.Status != model.PaymentPending {
			return apperr.InvalidTransition(string(payment.Status), string(model.PaymentAuthorized))
		}

		payment.Status = model.PaymentAuthorized
		if payment.TransactionRef == "" {
			payment.TransactionRef = newTransactionRef("AUTH")
		}

		if err := s.paymentRepo.Update(ctx, tx, payment); err != nil {
			return err
		}

		updated = payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *paymentServiceImpl) Capture(ctx context.Context, paymentID uint) (*model.Payment, error) {
	var updated *model.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment, err := s.paymentRepo.FindByID(ctx, tx, paymentID)
		if err != nil {
			return err
		}

		if payment.Status != model.PaymentPending && payment.Status != model.PaymentAuthorized {
			return apperr.InvalidTransition(string(payment.Status), string(model.PaymentCaptured))
		}

		order, err := s.orderRepo.FindByID(ctx, tx, payment.OrderID)
		if err != nil {
			return err
		}

		if payment.Amount.Sub(order.GrandTotal).Abs().GreaterThan(captureTolerance) {
			return apperr.AmountMismatch(
				"payment amount %s does not match order grand total %s",
				payment.Amount, order.GrandTotal)
		}

		capturedAt := now()
		payment.Status = model.PaymentCaptured
		payment.CapturedAt = &capturedAt
		if payment.TransactionRef == "" {
			payment.TransactionRef = newTransactionRef("TXN")
		}

		if err := s.paymentRepo.Update(ctx, tx, payment); err != nil {
			return err
		}

		updated = payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Uint("payment_id", updated.ID).
		Str("amount", updated.Amount.String()).
		Msg("payment captured")

	return updated, nil
}

func (s *paymentServiceImpl) Refund(ctx context.Context, paymentID uint, reason string) (*model.Payment, error) {
	var updated *model.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment, err := s.paymentRepo.FindByID(ctx, tx, paymentID)
		if err != nil {
			return err
		}

		if payment.Status != model.PaymentCaptured {
			return apperr.InvalidTransition(string(payment.Status), string(model.PaymentRefunded))
		}

		payment.Status = model.PaymentRefunded
		if err := s.paymentRepo.Update(ctx, tx, payment); err != nil {
			return err
		}

		order, err := s.orderRepo.FindByID(ctx, tx, payment.OrderID)
		if err != nil {
			return err
		}

		if order.Status != model.OrderCancelled {
			order.CancellationReason = "Payment refunded"
			if reason != "" {
				order.CancellationReason = "Payment refunded: " + reason
			}

			// Restores stock; the payment is already Refunded so the shared
			// side effects leave it alone.
			if err := cancelSideEffects(ctx, tx, s.variantRepo, s.paymentRepo, order); err != nil {
				return err
			}

			order.Status = model.OrderCancelled
			if err := s.orderRepo.Update(ctx, tx, order); err != nil {
				return err
			}
		}

		updated = payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint("payment_id", updated.ID).Msg("payment refunded")

	return updated, nil
}

func (s *paymentServiceImpl) MarkFailed(ctx context.Context, paymentID uint, reason string) (*model.Payment, error) {
	var updated *model.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment, err := s.paymentRepo.FindByID(ctx, tx, paymentID)
		if err != nil {
			return err
		}

		// Money already moved: a captured or refunded payment cannot simply
		// fail, it has to be refunded.
		if payment.Status == model.PaymentCaptured || payment.Status == model.PaymentRefunded {
			return apperr.InvalidTransition(string(payment.Status), string(model.PaymentFailed))
		}

		payment.Status = model.PaymentFailed
		if reason != "" {
			if payment.TransactionRef == "" {
				payment.TransactionRef = "FAILED: " + reason
			} else {
				payment.TransactionRef = payment.TransactionRef + " | FAILED: " + reason
			}
		}

		if err := s.paymentRepo.Update(ctx, tx, payment); err != nil {
			return err
		}

		updated = payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *paymentServiceImpl) Get(ctx context.Context, paymentID uint) (*model.Payment, error) {
	return s.paymentRepo.FindByID(ctx, nil, paymentID)
}

func (s *paymentServiceImpl) List(ctx context.Context, filter dto.PaymentListFilter) (*dto.PaymentListResponse, error) {
	payments, total, err := s.paymentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.PaymentListResponse{
		Payments: payments,
		Metadata: pageMetadata(total, filter.Page, filter.PageSize, 20),
	}, nil
}
