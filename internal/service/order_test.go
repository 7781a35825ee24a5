package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"jewelry-store/internal/apperr"
	"jewelry-store/internal/dto"
	"jewelry-store/internal/model"
)

// placeTestOrder runs a real checkout so transition tests start from the same
// state production orders do.
func placeTestOrder(t *testing.T, env *testEnv, method string, lines ...struct {
	Variant *model.ProductVariant
	Qty     int
}) *model.Order {
	t.Helper()
	ctx := context.Background()

	user := createUser(t, env.db)
	address := createAddress(t, env.db, user.ID)
	for _, line := range lines {
		addToCart(t, env.db, user.ID, line.Variant.ID, line.Qty)
	}

	order, err := env.checkout.PlaceOrder(ctx, user.ID, dto.PlaceOrderRequest{
		ShippingAddressID: address.ID,
		PaymentMethod:     method,
	})
	require.NoError(t, err)
	return order
}

func orderLine(variant *model.ProductVariant, qty int) struct {
	Variant *model.ProductVariant
	Qty     int
} {
	return struct {
		Variant *model.ProductVariant
		Qty     int
	}{variant, qty}
}

func TestTransitionPendingToProcessing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	variant := createVariant(t, env.db, "Gold Ring", "500000", "0", 10)
	order := placeTestOrder(t, env, "COD", orderLine(variant, 1))

	updated, err := env.orders.Transition(ctx, order.ID, model.OrderProcessing, TransitionParams{})
	require.NoError(t, err)
	require.Equal(t, model.OrderProcessing, updated.Status)
}

func TestTransitionSameStatusIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	variant := createVariant(t, env.db, "Gold Ring", "500000", "0", 10)
	order := placeTestOrder(t, env, "COD", orderLine(variant, 1))

	updated, err := env.orders.Transition(ctx, order.ID, model.OrderPending, TransitionParams{})
	require.NoError(t, err)
	require.Equal(t, model.OrderPending, updated.Status)
}

func TestTransitionShippedRequiresTracking(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	variant := createVariant(t, env.db, "Gold Ring", "500000", "0", 10)
	order := placeTestOrder(t, env, "COD", orderLine(variant, 1))

	_, err := env.orders.Transition(ctx, order.ID, model.OrderProcessing, TransitionParams{})
	require.NoError(t, err)

	_, err = env.orders.Transition(ctx, order.ID, model.OrderShipped, TransitionParams{})
	require.Error(t, err)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	updated, err := env.orders.Transition(ctx, order.ID, model.OrderShipped, TransitionParams{
		TrackingNumber: "VN123456789",
	})
	require.NoError(t, err)
	require.Equal(t, model.OrderShipped, updated.Status)
	require.Equal(t, "VN123456789", updated.TrackingNumber)
}

func TestTransitionDeliveredCapturesCODPayment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	variant := createVariant(t, env.db, "Gold Ring", "500000", "0", 10)
	order := placeTestOrder(t, env, "COD", orderLine(variant, 1))

	_, err := env.orders.Transition(ctx, order.ID, model.OrderProcessing, TransitionParams{})
	require.NoError(t, err)
	_, err = env.orders.Transition(ctx, order.ID, model.OrderShipped, TransitionParams{TrackingNumber: "VN1"})
	require.NoError(t, err)

	deliveredAt := time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)
	updated, err := env.orders.Transition(ctx, order.ID, model.OrderDelivered, TransitionParams{
		DeliveryDate: &deliveredAt,
	})
	require.NoError(t, err)
	require.Equal(t, model.OrderDelivered, updated.Status)
	require.NotNil(t, updated.DeliveredAt)
	require.True(t, updated.DeliveredAt.Equal(deliveredAt))

	payment, err := env.paymentRepo.FindByOrderID(ctx, nil, order.ID)
	require.NoError(t, err)
	require.Equal(t, model.PaymentCaptured, payment.Status)
	require.NotNil(t, payment.CapturedAt)
	require.NotEmpty(t, payment.TransactionRef)
}

func TestTransitionCancelledRestoresStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	v1 := createVariant(t, env.db, "Gold Ring", "500000", "0", 10)
	v2 := createVariant(t, env.db, "Silver Chain", "200000", "0", 5)
	order := placeTestOrder(t, env, "Card", orderLine(v1, 2), orderLine(v2, 1))

	require.Equal(t, 8, stockOf(t, env.db, v1.ID))
	require.Equal(t, 4, stockOf(t, env.db, v2.ID))

	_, err := env.orders.Transition(ctx, order.ID, model.OrderCancelled, TransitionParams{})
	require.Error(t, err, "cancellation reason is required")
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	updated, err := env.orders.Transition(ctx, order.ID, model.OrderCancelled, TransitionParams{
		CancellationReason: "customer changed mind",
	})
	require.NoError(t, err)
	require.Equal(t, model.OrderCancelled, updated.Status)
	require.Equal(t, "customer changed mind", updated.CancellationReason)

	require.Equal(t, 10, stockOf(t, env.db, v1.ID))
	require.Equal(t, 5, stockOf(t, env.db, v2.ID))

	// payment was only Authorized, so cancellation fails it
	payment, err := env.paymentRepo.FindByOrderID(ctx, nil, order.ID)
	require.NoError(t, err)
	require.Equal(t, model.PaymentFailed, payment.Status)
}

func TestTransitionCancelledRefundsCapturedPayment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	variant := createVariant(t, env.db, "Gold Ring", "500000", "0", 10)
	order := placeTestOrder(t, env, "Card", orderLine(variant, 1))

	payment, err := env.paymentRepo.FindByOrderID(ctx, nil, order.ID)
	require.NoError(t, err)
	_, err = env.payments.Capture(ctx, payment.ID)
	require.NoError(t, err)

	_, err = env.orders.Transition(ctx, order.ID, model.OrderCancelled, TransitionParams{
		CancellationReason: "out of stock at warehouse",
	})
	require.NoError(t, err)

	payment, err = env.paymentRepo.FindByOrderID(ctx, nil, order.ID)
	require.NoError(t, err)
	require.Equal(t, model.PaymentRefunded, payment.Status)
}

func TestTransitionShippedCannotCancel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	variant := createVariant(t, env.db, "Gold Ring", "500000", "0", 10)
	order := placeTestOrder(t, env, "COD", orderLine(variant, 1))

	_, err := env.orders.Transition(ctx, order.ID, model.OrderProcessing, TransitionParams{})
	require.NoError(t, err)
	_, err = env.orders.Transition(ctx, order.ID, model.OrderShipped, TransitionParams{TrackingNumber: "VN1"})
	require.NoError(t, err)

	// goods are in transit
	_, err = env.orders.Transition(ctx, order.ID, model.OrderCancelled, TransitionParams{
		CancellationReason: "too late",
	})
	require.Error(t, err)
	require.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))
	require.Contains(t, err.Error(), "Shipped")
	require.Contains(t, err.Error(), "Cancelled")

	// no stock movement happened
	require.Equal(t, 9, stockOf(t, env.db, variant.ID))
}

func TestTransitionUnknownStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	variant := createVariant(t, env.db, "Gold Ring", "500000", "0", 10)
	order := placeTestOrder(t, env, "COD", orderLine(variant, 1))

	_, err := env.orders.Transition(ctx, order.ID, model.OrderStatus("Lost"), TransitionParams{})
	require.Error(t, err)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCancelOwnScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	variant := createVariant(t, env.db, "Gold Ring", "500000", "0", 10)
	order := placeTestOrder(t, env, "COD", orderLine(variant, 1))

	stranger := createUser(t, env.db)
	_, err := env.orders.CancelOwn(ctx, stranger.ID, order.ID, "not mine")
	require.Error(t, err)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	updated, err := env.orders.CancelOwn(ctx, order.UserID, order.ID, "changed my mind")
	require.NoError(t, err)
	require.Equal(t, model.OrderCancelled, updated.Status)
}
