package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"jewelry-store/internal/apperr"
	"jewelry-store/internal/dto"
	"jewelry-store/internal/model"
	"jewelry-store/internal/repository"
)

// CheckoutConfig carries the deployment-fixed pricing rules.
type CheckoutConfig struct {
	ShippingFee decimal.Decimal
	TaxRate     decimal.Decimal
	Currency    string
}

type CheckoutService interface {
	// PlaceOrder converts the user's cart into an Order, its OrderItems and a
	// Payment in one transaction, decrementing stock along the way. On any
	// failure nothing is persisted and the cart is untouched.
	PlaceOrder(ctx context.Context, userID uint, req dto.PlaceOrderRequest) (*model.Order, error)
}

type checkoutServiceImpl struct {
	db          *gorm.DB
	cfg         CheckoutConfig
	cartRepo    repository.CartRepository
	addressRepo repository.AddressRepository
	couponRepo  repository.CouponRepository
	variantRepo repository.VariantRepository
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
}

func NewCheckoutService(
	db *gorm.DB,
	cfg CheckoutConfig,
	cartRepo repository.CartRepository,
	addressRepo repository.AddressRepository,
	couponRepo repository.CouponRepository,
	variantRepo repository.VariantRepository,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
) CheckoutService {
	return &checkoutServiceImpl{
		db:          db,
		cfg:         cfg,
		cartRepo:    cartRepo,
		addressRepo: addressRepo,
		couponRepo:  couponRepo,
		variantRepo: variantRepo,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
	}
}

func (s *checkoutServiceImpl) PlaceOrder(ctx context.Context, userID uint, req dto.PlaceOrderRequest) (*model.Order, error) {
	// Preconditions, in order. Each aborts before any mutation.
	cart, err := s.cartRepo.GetWithItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.CartItems) == 0 {
		return nil, apperr.Validation("cart is empty")
	}

	address, err := s.addressRepo.FindOwned(ctx, req.ShippingAddressID, userID)
	if err != nil {
		return nil, err
	}

	method := model.PaymentMethod(req.PaymentMethod)
	if !method.Valid() {
		return nil, apperr.Validation("unsupported payment method %q", req.PaymentMethod)
	}

	// Friendly precheck against the loaded quantities. The authoritative
	// check is the conditional decrement inside the transaction; this one is
	// only here to name the offending product.
	for _, line := range cart.CartItems {
		if line.ProductVariant.StockQuantity < line.Quantity {
			return nil, apperr.InsufficientStock(line.ProductVariant.Product.Name)
		}
	}

	subtotal := decimal.Zero
	for _, line := range cart.CartItems {
		lineTotal := line.ProductVariant.UnitPrice().Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
	}

	discountTotal := decimal.Zero
	var couponID *uint
	if req.CouponCode != "" {
		coupon, err := s.couponRepo.FindActiveByCode(ctx, req.CouponCode)
		switch {
		case err == nil:
			discountTotal = Discount(subtotal, coupon.PercentOff)
			couponID = &coupon.ID
		case apperr.IsKind(err, apperr.KindNotFound):
			// Unknown or inactive codes are ignored, matching the storefront:
			// the order goes through without a discount.
		default:
			return nil, err
		}
	}

	taxTotal := Tax(subtotal, s.cfg.TaxRate)
	grandTotal := GrandTotal(subtotal, discountTotal, taxTotal, s.cfg.ShippingFee)

	var order *model.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order = &model.Order{
			UserID:            userID,
			OrderDate:         now(),
			Status:            model.OrderPending,
			ShippingAddressID: address.ID,
			CouponID:          couponID,
			GiftMessage:       req.GiftMessage,
			Subtotal:          subtotal,
			TaxTotal:          taxTotal,
			ShippingFee:       s.cfg.ShippingFee,
			DiscountTotal:     discountTotal,
			GrandTotal:        grandTotal,
		}
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return err
		}

		items := make([]*model.OrderItem, len(cart.CartItems))
		for i, line := range cart.CartItems {
			items[i] = &model.OrderItem{
				OrderID:   order.ID,
				VariantID: line.VariantID,
				Quantity:  line.Quantity,
				UnitPrice: line.ProductVariant.UnitPrice(),
			}
		}
		if err := s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
			return err
		}

		// Commit-time stock check. A racing checkout that got here first
		// makes this fail and rolls back everything above.
		for _, line := range cart.CartItems {
			if err := s.variantRepo.Reserve(ctx, tx, line.VariantID, line.Quantity); err != nil {
				if apperr.IsKind(err, apperr.KindInsufficientStock) {
					return apperr.InsufficientStock(line.ProductVariant.Product.Name)
				}
				return err
			}
		}

		if err := s.cartRepo.ClearItems(ctx, tx, cart.ID); err != nil {
			return err
		}

		payment := &model.Payment{
			OrderID:  order.ID,
			Amount:   grandTotal,
			Currency: s.cfg.Currency,
			Method:   method,
			Provider: method.Provider(),
			Status:   method.InitialPaymentStatus(),
		}
		if err := s.paymentRepo.Create(ctx, tx, payment); err != nil {
			return err
		}

		for _, item := range items {
			order.OrderItems = append(order.OrderItems, *item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Uint("order_id", order.ID).
		Uint("user_id", userID).
		Str("grand_total", grandTotal.String()).
		Msg("order placed")

	return order, nil
}
