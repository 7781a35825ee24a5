package service

import (
	"context"

	"github.com/shopspring/decimal"

	"jewelry-store/internal/apperr"
	"jewelry-store/internal/dto"
	"jewelry-store/internal/model"
	"jewelry-store/internal/repository"
)

type CouponService interface {
	Create(ctx context.Context, req dto.CreateCouponRequest) (*model.Coupon, error)
	List(ctx context.Context) ([]model.Coupon, error)
	Update(ctx context.Context, couponID uint, req dto.UpdateCouponRequest) (*model.Coupon, error)
	ToggleActive(ctx context.Context, couponID uint) (*model.Coupon, error)
	// Delete refuses to remove a coupon any order references; used coupons
	// are deactivated instead.
	Delete(ctx context.Context, couponID uint) error
	// Preview computes the discount a code would give on a subtotal, plus the
	// resulting grand total, without touching any state.
	Preview(ctx context.Context, code string, subtotal decimal.Decimal) (*dto.ApplyCouponResponse, error)
}

type couponServiceImpl struct {
	cfg        CheckoutConfig
	couponRepo repository.CouponRepository
	orderRepo  repository.OrderRepository
}

func NewCouponService(cfg CheckoutConfig, couponRepo repository.CouponRepository, orderRepo repository.OrderRepository) CouponService {
	return &couponServiceImpl{
		cfg:        cfg,
		couponRepo: couponRepo,
		orderRepo:  orderRepo,
	}
}

func (s *couponServiceImpl) Create(ctx context.Context, req dto.CreateCouponRequest) (*model.Coupon, error) {
	code := repository.NormalizeCouponCode(req.Code)
	if code == "" {
		return nil, apperr.Validation("coupon code is required")
	}
	if req.PercentOff.LessThanOrEqual(decimal.Zero) || req.PercentOff.GreaterThan(oneHundred) {
		return nil, apperr.Validation("percent off must be greater than 0 and at most 100")
	}

	exists, err := s.couponRepo.CodeExists(ctx, code, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("coupon code %s already exists", code)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	coupon := &model.Coupon{
		Code:       code,
		PercentOff: req.PercentOff,
		IsActive:   isActive,
	}
	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		return nil, err
	}

	return coupon, nil
}

func (s *couponServiceImpl) List(ctx context.Context) ([]model.Coupon, error) {
	return s.couponRepo.List(ctx)
}

func (s *couponServiceImpl) Update(ctx context.Context, couponID uint, req dto.UpdateCouponRequest) (*model.Coupon, error) {
	code := repository.NormalizeCouponCode(req.Code)
	if code == "" {
		return nil, apperr.Validation("coupon code is required")
	}
	if req.PercentOff.LessThanOrEqual(decimal.Zero) || req.PercentOff.GreaterThan(oneHundred) {
		return nil, apperr.Validation("percent off must be greater than 0 and at most 100")
	}

	coupon, err := s.couponRepo.FindByID(ctx, couponID)
	if err != nil {
		return nil, err
	}

	exists, err := s.couponRepo.CodeExists(ctx, code, coupon.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("coupon code %s already exists", code)
	}

	coupon.Code = code
	coupon.PercentOff = req.PercentOff
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}
	if err := s.couponRepo.Update(ctx, coupon); err != nil {
		return nil, err
	}

	return coupon, nil
}

func (s *couponServiceImpl) ToggleActive(ctx context.Context, couponID uint) (*model.Coupon, error) {
	coupon, err := s.couponRepo.FindByID(ctx, couponID)
	if err != nil {
		return nil, err
	}

	coupon.IsActive = !coupon.IsActive
	if err := s.couponRepo.Update(ctx, coupon); err != nil {
		return nil, err
	}

	return coupon, nil
}

func (s *couponServiceImpl) Delete(ctx context.Context, couponID uint) error {
	coupon, err := s.couponRepo.FindByID(ctx, couponID)
	if err != nil {
		return err
	}

	inUse, err := s.orderRepo.CouponInUse(ctx, coupon.ID)
	if err != nil {
		return err
	}
	if inUse {
		return apperr.Conflict("coupon %s has been used by orders and cannot be deleted; deactivate it instead", coupon.Code)
	}

	return s.couponRepo.Delete(ctx, coupon.ID)
}

func (s *couponServiceImpl) Preview(ctx context.Context, code string, subtotal decimal.Decimal) (*dto.ApplyCouponResponse, error) {
	if subtotal.IsNegative() {
		return nil, apperr.Validation("subtotal must not be negative")
	}

	coupon, err := s.couponRepo.FindActiveByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	discount := Discount(subtotal, coupon.PercentOff)
	tax := Tax(subtotal, s.cfg.TaxRate)

	return &dto.ApplyCouponResponse{
		Code:       coupon.Code,
		PercentOff: coupon.PercentOff,
		Discount:   discount,
		GrandTotal: GrandTotal(subtotal, discount, tax, s.cfg.ShippingFee),
	}, nil
}
