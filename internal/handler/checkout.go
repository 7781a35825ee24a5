package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"jewelry-store/internal/dto"
	"jewelry-store/internal/middleware"
	"jewelry-store/internal/service"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	couponService   service.CouponService
}

func NewCheckoutHandler(checkoutService service.CheckoutService, couponService service.CouponService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		couponService:   couponService,
	}
}

func (h *CheckoutHandler) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	order, err := h.checkoutService.PlaceOrder(ctx, middleware.UserID(c), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, order)
}

func (h *CheckoutHandler) ApplyCoupon(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ApplyCouponRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	preview, err := h.couponService.Preview(ctx, req.Code, req.Subtotal)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, preview)
}
