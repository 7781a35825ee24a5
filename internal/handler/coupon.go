package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"jewelry-store/internal/dto"
	"jewelry-store/internal/service"
)

type CouponHandler struct {
	couponService service.CouponService
}

func NewCouponHandler(couponService service.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

func (h *CouponHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	coupons, err := h.couponService.List(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, coupons)
}

func (h *CouponHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateCouponRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	coupon, err := h.couponService.Create(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, coupon)
}

func (h *CouponHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	couponID, err := parseIDParam(c, "couponID")
	if err != nil {
		return err
	}

	var req dto.UpdateCouponRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	coupon, err := h.couponService.Update(ctx, couponID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, coupon)
}

func (h *CouponHandler) ToggleActive(c echo.Context) error {
	ctx := c.Request().Context()

	couponID, err := parseIDParam(c, "couponID")
	if err != nil {
		return err
	}

	coupon, err := h.couponService.ToggleActive(ctx, couponID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, coupon)
}

func (h *CouponHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	couponID, err := parseIDParam(c, "couponID")
	if err != nil {
		return err
	}

	if err := h.couponService.Delete(ctx, couponID); err != nil {
		return err
	}

	return c.NoContent(http.StatusOK)
}
