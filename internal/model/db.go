package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"size:128;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:128;not null"`
	FirstName    string `gorm:"size:64"`
	LastName     string `gorm:"size:64"`
	IsAdmin      bool   `gorm:"not null;default:false"`
	CreatedAt    time.Time
}

type Address struct {
	ID            uint   `gorm:"primaryKey"`
	UserID        uint   `gorm:"index;not null"`
	StreetAddress string `gorm:"size:255;not null"`
	City          string `gorm:"size:64;not null"`
	State         string `gorm:"size:64"`
	PostalCode    string `gorm:"size:16"`
	Country       string `gorm:"size:64;not null"`
	Phone         string `gorm:"size:20"`
	IsDefault     bool   `gorm:"not null;default:false"`
	CreatedAt     time.Time
}

type Product struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"size:255;not null"`
	Description string          `gorm:"size:1024"`
	BasePrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductVariant is the stock-bearing unit. StockQuantity is mutated only
// through VariantRepository.Reserve / Release so the non-negative invariant
// holds under concurrent checkouts.
type ProductVariant struct {
	ID              uint    `gorm:"primaryKey"`
	ProductID       uint    `gorm:"index;not null"`
	Product         Product
	SKU             string          `gorm:"size:64;uniqueIndex;not null"`
	MetalType       string          `gorm:"size:32"`
	RingSize        string          `gorm:"size:16"`
	ChainLength     string          `gorm:"size:16"`
	AdditionalPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	StockQuantity   int             `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// UnitPrice is the sellable price of the variant: product base price plus
// the variant surcharge.
func (v *ProductVariant) UnitPrice() decimal.Decimal {
	return v.Product.BasePrice.Add(v.AdditionalPrice)
}

type Cart struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"uniqueIndex;not null"`
	CartItems []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartItem struct {
	ID             uint           `gorm:"primaryKey"`
	CartID         uint           `gorm:"index;not null"`
	VariantID      uint           `gorm:"index;not null"`
	ProductVariant ProductVariant `gorm:"foreignKey:VariantID"`
	Quantity       int            `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Coupon codes are stored upper-cased and trimmed; lookups normalise the same
// way so matching is case-insensitive. A coupon referenced by an order is
// deactivated, never deleted.
type Coupon struct {
	ID         uint            `gorm:"primaryKey"`
	Code       string          `gorm:"size:32;uniqueIndex;not null"`
	PercentOff decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	IsActive   bool            `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Order struct {
	ID                 uint        `gorm:"primaryKey"`
	UserID             uint        `gorm:"index;not null"`
	OrderDate          time.Time   `gorm:"not null"`
	Status             OrderStatus `gorm:"size:32;index;not null"`
	ShippingAddressID  uint        `gorm:"not null"`
	ShippingAddress    Address     `gorm:"foreignKey:ShippingAddressID"`
	CouponID           *uint
	GiftMessage        string          `gorm:"size:512"`
	Subtotal           decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TaxTotal           decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ShippingFee        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DiscountTotal      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	GrandTotal         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TrackingNumber     string          `gorm:"size:64"`
	DeliveredAt        *time.Time
	CancellationReason string `gorm:"size:512"`
	OrderItems         []OrderItem
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// OrderItem snapshots the variant price at purchase time; later catalog
// price changes do not touch it.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey"`
	OrderID   uint            `gorm:"index;not null"`
	VariantID uint            `gorm:"index;not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt time.Time
}

type Payment struct {
	ID             uint            `gorm:"primaryKey"`
	OrderID        uint            `gorm:"index;not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Currency       string          `gorm:"size:8;not null"`
	Method         PaymentMethod   `gorm:"size:16;not null"`
	Provider       string          `gorm:"size:32"`
	Status         PaymentStatus   `gorm:"size:32;index;not null"`
	TransactionRef string          `gorm:"size:128"`
	CapturedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AllModels is the AutoMigrate set.
func AllModels() []any {
	return []any{
		&User{},
		&Address{},
		&Product{},
		&ProductVariant{},
		&Cart{},
		&CartItem{},
		&Coupon{},
		&Order{},
		&OrderItem{},
		&Payment{},
	}
}
