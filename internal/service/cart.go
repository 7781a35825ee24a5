package service

import (
	"context"

	"github.com/shopspring/decimal"

	"jewelry-store/internal/apperr"
	"jewelry-store/internal/dto"
	"jewelry-store/internal/model"
	"jewelry-store/internal/repository"
)

type CartService interface {
	Get(ctx context.Context, userID uint) (*dto.CartResponse, error)
	// AddItem adds a variant to the cart, or tops up the existing line. The
	// combined quantity must not exceed available stock.
	AddItem(ctx context.Context, userID uint, req dto.AddCartItemRequest) error
	UpdateItem(ctx context.Context, userID, cartItemID uint, quantity int) error
	RemoveItem(ctx context.Context, userID, cartItemID uint) error
}

type cartServiceImpl struct {
	cartRepo    repository.CartRepository
	variantRepo repository.VariantRepository
}

func NewCartService(cartRepo repository.CartRepository, variantRepo repository.VariantRepository) CartService {
	return &cartServiceImpl{
		cartRepo:    cartRepo,
		variantRepo: variantRepo,
	}
}

func (s *cartServiceImpl) Get(ctx context.Context, userID uint) (*dto.CartResponse, error) {
	cart, err := s.cartRepo.GetWithItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.CartResponse{
		Lines:    make([]dto.CartLine, 0, len(cart.CartItems)),
		Subtotal: decimal.Zero,
	}
	for _, line := range cart.CartItems {
		unitPrice := line.ProductVariant.UnitPrice()
		lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		resp.Lines = append(resp.Lines, dto.CartLine{
			CartItemID:  line.ID,
			VariantID:   line.VariantID,
			ProductName: line.ProductVariant.Product.Name,
			SKU:         line.ProductVariant.SKU,
			Quantity:    line.Quantity,
			UnitPrice:   unitPrice,
			LineTotal:   lineTotal,
			InStock:     line.ProductVariant.StockQuantity,
		})
		resp.Subtotal = resp.Subtotal.Add(lineTotal)
	}

	return resp, nil
}

func (s *cartServiceImpl) AddItem(ctx context.Context, userID uint, req dto.AddCartItemRequest) error {
	if req.Quantity <= 0 {
		return apperr.Validation("quantity must be positive")
	}

	variant, err := s.variantRepo.FindByID(ctx, req.VariantID)
	if err != nil {
		return err
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	existing, err := s.cartRepo.FindItem(ctx, cart.ID, req.VariantID)
	if err != nil {
		return err
	}

	requested := req.Quantity
	if existing != nil {
		requested += existing.Quantity
	}
	if variant.StockQuantity < requested {
		return apperr.InsufficientStock(variant.Product.Name)
	}

	if existing != nil {
		return s.cartRepo.UpdateItemQuantity(ctx, existing.ID, requested)
	}

	return s.cartRepo.AddItem(ctx, &model.CartItem{
		CartID:    cart.ID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	})
}

func (s *cartServiceImpl) UpdateItem(ctx context.Context, userID, cartItemID uint, quantity int) error {
	if quantity <= 0 {
		return apperr.Validation("quantity must be positive")
	}

	cart, err := s.cartRepo.GetWithItems(ctx, userID)
	if err != nil {
		return err
	}

	for _, line := range cart.CartItems {
		if line.ID != cartItemID {
			continue
		}
		if line.ProductVariant.StockQuantity < quantity {
			return apperr.InsufficientStock(line.ProductVariant.Product.Name)
		}
		return s.cartRepo.UpdateItemQuantity(ctx, cartItemID, quantity)
	}

	return apperr.NotFound("cart item %d not found", cartItemID)
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, cartItemID uint) error {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	return s.cartRepo.RemoveItem(ctx, cart.ID, cartItemID)
}
