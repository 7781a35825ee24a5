package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"jewelry-store/internal/apperr"
	"jewelry-store/internal/dto"
	"jewelry-store/internal/model"
)

func TestPlaceOrderComputesTotals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := createUser(t, env.db)
	address := createAddress(t, env.db, user.ID)
	variant := createVariant(t, env.db, "Gold Ring", "500000", "0", 10)
	addToCart(t, env.db, user.ID, variant.ID, 2)
	createCoupon(t, env.db, "SAVE10", "10", true)

	order, err := env.checkout.PlaceOrder(ctx, user.ID, dto.PlaceOrderRequest{
		ShippingAddressID: address.ID,
		PaymentMethod:     "COD",
		CouponCode:        "save10",
	})
	require.NoError(t, err)

	requireDecimal(t, "1000000", order.Subtotal)
	requireDecimal(t, "100000", order.DiscountTotal)
	requireDecimal(t, "100000", order.TaxTotal)
	requireDecimal(t, "30000", order.ShippingFee)
	requireDecimal(t, "1030000", order.GrandTotal)

	// grandTotal = subtotal - discount + tax + shipping, to the cent
	identity := order.Subtotal.Sub(order.DiscountTotal).Add(order.TaxTotal).Add(order.ShippingFee)
	require.True(t, identity.Equal(order.GrandTotal))

	require.Equal(t, model.OrderPending, order.Status)
	require.NotNil(t, order.CouponID)
	require.Len(t, order.OrderItems, 1)
	requireDecimal(t, "500000", order.OrderItems[0].UnitPrice)
	require.Equal(t, 2, order.OrderItems[0].Quantity)

	// stock decremented, cart consumed
	require.Equal(t, 8, stockOf(t, env.db, variant.ID))
	require.EqualValues(t, 0, countRows(t, env.db, &model.CartItem{}))

	// COD payment stays Pending until delivery
	payment, err := env.paymentRepo.FindByOrderID(ctx, nil, order.ID)
	require.NoError(t, err)
	require.Equal(t, model.PaymentPending, payment.Status)
	require.Equal(t, "VND", payment.Currency)
	require.True(t, payment.Amount.Equal(order.GrandTotal))
}

func TestPlaceOrderElectronicMethodAuthorized(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := createUser(t, env.db)
	address := createAddress(t, env.db, user.ID)
	variant := createVariant(t, env.db, "Silver Chain", "250000", "50000", 5)
	addToCart(t, env.db, user.ID, variant.ID, 1)

	order, err := env.checkout.PlaceOrder(ctx, user.ID, dto.PlaceOrderRequest{
		ShippingAddressID: address.ID,
		PaymentMethod:     "MoMo",
	})
	require.NoError(t, err)

	// unit price is base plus surcharge
	requireDecimal(t, "300000", order.Subtotal)

	payment, err := env.paymentRepo.FindByOrderID(ctx, nil, order.ID)
	require.NoError(t, err)
	require.Equal(t, model.PaymentAuthorized, payment.Status)
	require.Equal(t, "MoMo", payment.Provider)
}

func TestPlaceOrderUnknownCouponIgnored(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := createUser(t, env.db)
	address := createAddress(t, env.db, user.ID)
	variant := createVariant(t, env.db, "Pearl Earring", "100000", "0", 3)
	addToCart(t, env.db, user.ID, variant.ID, 1)

	order, err := env.checkout.PlaceOrder(ctx, user.ID, dto.PlaceOrderRequest{
		ShippingAddressID: address.ID,
		PaymentMethod:     "Card",
		CouponCode:        "NOPE",
	})
	require.NoError(t, err)
	requireDecimal(t, "0", order.DiscountTotal)
	require.Nil(t, order.CouponID)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := createUser(t, env.db)
	address := createAddress(t, env.db, user.ID)

	_, err := env.checkout.PlaceOrder(ctx, user.ID, dto.PlaceOrderRequest{
		ShippingAddressID: address.ID,
		PaymentMethod:     "COD",
	})
	require.Error(t, err)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestPlaceOrderForeignAddress(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := createUser(t, env.db)
	other := createUser(t, env.db)
	otherAddress := createAddress(t, env.db, other.ID)
	variant := createVariant(t, env.db, "Gold Ring", "500000", "0", 10)
	addToCart(t, env.db, user.ID, variant.ID, 1)

	// someone else's address answers NotFound, not a permission detail
	_, err := env.checkout.PlaceOrder(ctx, user.ID, dto.PlaceOrderRequest{
		ShippingAddressID: otherAddress.ID,
		PaymentMethod:     "COD",
	})
	require.Error(t, err)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	require.EqualValues(t, 0, countRows(t, env.db, &model.Order{}))
}

func TestPlaceOrderInvalidPaymentMethod(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := createUser(t, env.db)
	address := createAddress(t, env.db, user.ID)
	variant := createVariant(t, env.db, "Gold Ring", "500000", "0", 10)
	addToCart(t, env.db, user.ID, variant.ID, 1)

	_, err := env.checkout.PlaceOrder(ctx, user.ID, dto.PlaceOrderRequest{
		ShippingAddressID: address.ID,
		PaymentMethod:     "Barter",
	})
	require.Error(t, err)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := createUser(t, env.db)
	address := createAddress(t, env.db, user.ID)
	variant := createVariant(t, env.db, "Gold Ring", "500000", "0", 1)
	addToCart(t, env.db, user.ID, variant.ID, 2)

	_, err := env.checkout.PlaceOrder(ctx, user.ID, dto.PlaceOrderRequest{
		ShippingAddressID: address.ID,
		PaymentMethod:     "COD",
	})
	require.Error(t, err)
	require.Equal(t, apperr.KindInsufficientStock, apperr.KindOf(err))
	require.Contains(t, err.Error(), "Gold Ring")

	// nothing persisted, cart untouched, stock unchanged
	require.EqualValues(t, 0, countRows(t, env.db, &model.Order{}))
	require.EqualValues(t, 0, countRows(t, env.db, &model.OrderItem{}))
	require.EqualValues(t, 0, countRows(t, env.db, &model.Payment{}))
	require.EqualValues(t, 1, countRows(t, env.db, &model.CartItem{}))
	require.Equal(t, 1, stockOf(t, env.db, variant.ID))
}

// Two checkouts against the last unit: exactly one succeeds, the other fails
// with InsufficientStock and leaves no trace. The conditional decrement under
// true interleaving is exercised in the variant repository tests.
func TestPlaceOrderRaceOnLastUnit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	variant := createVariant(t, env.db, "One Of A Kind", "900000", "0", 1)

	alice := createUser(t, env.db)
	aliceAddr := createAddress(t, env.db, alice.ID)
	addToCart(t, env.db, alice.ID, variant.ID, 1)

	bob := createUser(t, env.db)
	bobAddr := createAddress(t, env.db, bob.ID)
	addToCart(t, env.db, bob.ID, variant.ID, 1)

	// Bob loads his cart before Alice commits, so his view of the stock is
	// stale by the time his transaction runs.
	bobCart, err := env.cartRepo.GetWithItems(ctx, bob.ID)
	require.NoError(t, err)
	require.Equal(t, 1, bobCart.CartItems[0].ProductVariant.StockQuantity)

	_, err = env.checkout.PlaceOrder(ctx, alice.ID, dto.PlaceOrderRequest{
		ShippingAddressID: aliceAddr.ID,
		PaymentMethod:     "COD",
	})
	require.NoError(t, err)

	_, err = env.checkout.PlaceOrder(ctx, bob.ID, dto.PlaceOrderRequest{
		ShippingAddressID: bobAddr.ID,
		PaymentMethod:     "COD",
	})
	require.Error(t, err)
	require.Equal(t, apperr.KindInsufficientStock, apperr.KindOf(err))

	// exactly one order exists, stock never went negative, Bob's cart intact
	require.EqualValues(t, 1, countRows(t, env.db, &model.Order{}))
	require.Equal(t, 0, stockOf(t, env.db, variant.ID))

	bobCart, err = env.cartRepo.GetWithItems(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, bobCart.CartItems, 1)
}
