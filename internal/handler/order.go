package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"jewelry-store/internal/dto"
	"jewelry-store/internal/middleware"
	"jewelry-store/internal/model"
	"jewelry-store/internal/service"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// ---- customer-facing ----

func (h *OrderHandler) ListMine(c echo.Context) error {
	ctx := c.Request().Context()

	orders, counts, err := h.orderService.ListOwn(ctx, middleware.UserID(c), c.QueryParam("status"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"orders":        orders,
		"status_counts": counts,
	})
}

func (h *OrderHandler) GetMine(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := parseIDParam(c, "orderID")
	if err != nil {
		return err
	}

	order, err := h.orderService.GetOwned(ctx, middleware.UserID(c), orderID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) CancelMine(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := parseIDParam(c, "orderID")
	if err != nil {
		return err
	}

	var req dto.CancelOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	order, err := h.orderService.CancelOwn(ctx, middleware.UserID(c), orderID, req.Reason)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, order)
}

// ---- back office ----

func (h *OrderHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	var filter dto.OrderListFilter
	if err := c.Bind(&filter); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid filter parameters")
	}

	resp, err := h.orderService.List(ctx, filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := parseIDParam(c, "orderID")
	if err != nil {
		return err
	}

	order, err := h.orderService.Get(ctx, orderID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := parseIDParam(c, "orderID")
	if err != nil {
		return err
	}

	var req dto.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	order, err := h.orderService.Transition(ctx, orderID, model.OrderStatus(req.Status), service.TransitionParams{
		TrackingNumber:     req.TrackingNumber,
		DeliveryDate:       req.DeliveryDate,
		CancellationReason: req.CancellationReason,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) Stats(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.orderService.Stats(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stats)
}
