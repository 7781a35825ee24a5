package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"jewelry-store/internal/dto"
	"jewelry-store/internal/middleware"
	"jewelry-store/internal/service"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func parseIDParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

func (h *CartHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	cart, err := h.cartService.Get(ctx, middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.cartService.AddItem(ctx, middleware.UserID(c), req); err != nil {
		return err
	}

	return c.NoContent(http.StatusCreated)
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := parseIDParam(c, "itemID")
	if err != nil {
		return err
	}

	var req dto.UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.cartService.UpdateItem(ctx, middleware.UserID(c), itemID, req.Quantity); err != nil {
		return err
	}

	return c.NoContent(http.StatusOK)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := parseIDParam(c, "itemID")
	if err != nil {
		return err
	}

	if err := h.cartService.RemoveItem(ctx, middleware.UserID(c), itemID); err != nil {
		return err
	}

	return c.NoContent(http.StatusOK)
}
