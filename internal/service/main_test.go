package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"jewelry-store/internal/model"
	"jewelry-store/internal/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// single connection so the in-memory database survives the whole test
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(model.AllModels()...))
	return db
}

func testCheckoutConfig() CheckoutConfig {
	return CheckoutConfig{
		ShippingFee: decimal.NewFromInt(30000),
		TaxRate:     decimal.RequireFromString("0.10"),
		Currency:    "VND",
	}
}

type testEnv struct {
	db          *gorm.DB
	variantRepo repository.VariantRepository
	cartRepo    repository.CartRepository
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
	couponRepo  repository.CouponRepository
	addressRepo repository.AddressRepository

	checkout CheckoutService
	orders   OrderService
	payments PaymentService
	coupons  CouponService
	carts    CartService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	cfg := testCheckoutConfig()

	env := &testEnv{
		db:          db,
		variantRepo: repository.NewVariantRepository(db),
		cartRepo:    repository.NewCartRepository(db),
		orderRepo:   repository.NewOrderRepository(db),
		paymentRepo: repository.NewPaymentRepository(db),
		couponRepo:  repository.NewCouponRepository(db),
		addressRepo: repository.NewAddressRepository(db),
	}

	env.checkout = NewCheckoutService(db, cfg,
		env.cartRepo, env.addressRepo, env.couponRepo, env.variantRepo, env.orderRepo, env.paymentRepo)
	env.orders = NewOrderService(db, env.orderRepo, env.paymentRepo, env.variantRepo)
	env.payments = NewPaymentService(db, env.paymentRepo, env.orderRepo, env.variantRepo)
	env.coupons = NewCouponService(cfg, env.couponRepo, env.orderRepo)
	env.carts = NewCartService(env.cartRepo, env.variantRepo)

	return env
}

func createUser(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()

	user := &model.User{
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createAddress(t *testing.T, db *gorm.DB, userID uint) *model.Address {
	t.Helper()

	address := &model.Address{
		UserID:        userID,
		StreetAddress: "12 Hang Bac",
		City:          "Hanoi",
		Country:       "Vietnam",
		IsDefault:     true,
	}
	require.NoError(t, db.Create(address).Error)
	return address
}

func createVariant(t *testing.T, db *gorm.DB, name, basePrice, additionalPrice string, stock int) *model.ProductVariant {
	t.Helper()

	product := &model.Product{
		Name:      name,
		BasePrice: decimal.RequireFromString(basePrice),
	}
	require.NoError(t, db.Create(product).Error)

	variant := &model.ProductVariant{
		ProductID:       product.ID,
		Product:         *product,
		SKU:             uuid.NewString(),
		MetalType:       "Gold",
		AdditionalPrice: decimal.RequireFromString(additionalPrice),
		StockQuantity:   stock,
	}
	require.NoError(t, db.Create(variant).Error)
	return variant
}

func addToCart(t *testing.T, db *gorm.DB, userID, variantID uint, quantity int) {
	t.Helper()

	var cart model.Cart
	err := db.Where("user_id = ?", userID).First(&cart).Error
	if err == gorm.ErrRecordNotFound {
		cart = model.Cart{UserID: userID}
		require.NoError(t, db.Create(&cart).Error)
	} else {
		require.NoError(t, err)
	}

	require.NoError(t, db.Create(&model.CartItem{
		CartID:    cart.ID,
		VariantID: variantID,
		Quantity:  quantity,
	}).Error)
}

func createCoupon(t *testing.T, db *gorm.DB, code, percentOff string, active bool) *model.Coupon {
	t.Helper()

	coupon := &model.Coupon{
		Code:       repository.NormalizeCouponCode(code),
		PercentOff: decimal.RequireFromString(percentOff),
		IsActive:   active,
	}
	require.NoError(t, db.Create(coupon).Error)
	return coupon
}

func stockOf(t *testing.T, db *gorm.DB, variantID uint) int {
	t.Helper()

	var variant model.ProductVariant
	require.NoError(t, db.First(&variant, variantID).Error)
	return variant.StockQuantity
}

func countRows(t *testing.T, db *gorm.DB, value any) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(value).Count(&count).Error)
	return count
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}
