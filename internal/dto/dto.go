package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"jewelry-store/internal/model"
)

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type AddCartItemRequest struct {
	VariantID uint `json:"variant_id"`
	Quantity  int  `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type CartLine struct {
	CartItemID  uint            `json:"cart_item_id"`
	VariantID   uint            `json:"variant_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
	InStock     int             `json:"in_stock"`
}

type CartResponse struct {
	Lines    []CartLine      `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type ApplyCouponRequest struct {
	Code     string          `json:"code"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// ApplyCouponResponse previews the discount for a subtotal without touching
// any state.
type ApplyCouponResponse struct {
	Code       string          `json:"code"`
	PercentOff decimal.Decimal `json:"percent_off"`
	Discount   decimal.Decimal `json:"discount"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

type PlaceOrderRequest struct {
	ShippingAddressID uint   `json:"shipping_address_id"`
	PaymentMethod     string `json:"payment_method"`
	CouponCode        string `json:"coupon_code"`
	GiftMessage       string `json:"gift_message"`
}

type UpdateOrderStatusRequest struct {
	Status             string     `json:"status"`
	TrackingNumber     string     `json:"tracking_number"`
	DeliveryDate       *time.Time `json:"delivery_date"`
	CancellationReason string     `json:"cancellation_reason"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

type PaymentActionRequest struct {
	Reason string `json:"reason"`
}

type CreateCouponRequest struct {
	Code       string          `json:"code"`
	PercentOff decimal.Decimal `json:"percent_off"`
	IsActive   *bool           `json:"is_active"`
}

type UpdateCouponRequest struct {
	Code       string          `json:"code"`
	PercentOff decimal.Decimal `json:"percent_off"`
	IsActive   *bool           `json:"is_active"`
}

type OrderListFilter struct {
	Status        string     `query:"status"`
	PaymentStatus string     `query:"payment_status"`
	PaymentMethod string     `query:"payment_method"`
	DateFrom      *time.Time `query:"date_from"`
	DateTo        *time.Time `query:"date_to"`
	Page          int        `query:"page"`
	PageSize      int        `query:"page_size"`
}

type PaymentListFilter struct {
	Status   string `query:"status"`
	Method   string `query:"method"`
	Page     int    `query:"page"`
	PageSize int    `query:"page_size"`
}

type PageMetadata struct {
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	PageSize    int   `json:"page_size"`
	TotalPages  int   `json:"total_pages"`
	HasPrevPage bool  `json:"has_prev_page"`
	HasNextPage bool  `json:"has_next_page"`
}

type OrderListResponse struct {
	Orders   []model.Order `json:"orders"`
	Metadata PageMetadata  `json:"metadata"`
}

type PaymentListResponse struct {
	Payments []model.Payment `json:"payments"`
	Metadata PageMetadata    `json:"metadata"`
}

type OrderStats struct {
	TodayOrders     int64           `json:"today_orders"`
	PendingOrders   int64           `json:"pending_orders"`
	TodayRevenue    decimal.Decimal `json:"today_revenue"`
	NeedsProcessing int64           `json:"needs_processing"`
}
