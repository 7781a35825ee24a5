package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"jewelry-store/internal/dto"
	"jewelry-store/internal/service"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	var filter dto.PaymentListFilter
	if err := c.Bind(&filter); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid filter parameters")
	}

	resp, err := h.paymentService.List(ctx, filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	paymentID, err := parseIDParam(c, "paymentID")
	if err != nil {
		return err
	}

	payment, err := h.paymentService.Get(ctx, paymentID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) Authorize(c echo.Context) error {
	ctx := c.Request().Context()

	paymentID, err := parseIDParam(c, "paymentID")
	if err != nil {
		return err
	}

	payment, err := h.paymentService.Authorize(ctx, paymentID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) Capture(c echo.Context) error {
	ctx := c.Request().Context()

	paymentID, err := parseIDParam(c, "paymentID")
	if err != nil {
		return err
	}

	payment, err := h.paymentService.Capture(ctx, paymentID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) Refund(c echo.Context) error {
	ctx := c.Request().Context()

	paymentID, err := parseIDParam(c, "paymentID")
	if err != nil {
		return err
	}

	var req dto.PaymentActionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	payment, err := h.paymentService.Refund(ctx, paymentID, req.Reason)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) MarkFailed(c echo.Context) error {
	ctx := c.Request().Context()

	paymentID, err := parseIDParam(c, "paymentID")
	if err != nil {
		return err
	}

	var req dto.PaymentActionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	payment, err := h.paymentService.MarkFailed(ctx, paymentID, req.Reason)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, payment)
}
