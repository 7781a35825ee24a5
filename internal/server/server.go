package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"jewelry-store/internal/apperr"
	"jewelry-store/internal/handler"
	"jewelry-store/internal/middleware"
	"jewelry-store/internal/service"
)

type Server struct {
	echo            *echo.Echo
	jwtSecret       string
	authHandler     *handler.AuthHandler
	cartHandler     *handler.CartHandler
	checkoutHandler *handler.CheckoutHandler
	orderHandler    *handler.OrderHandler
	paymentHandler  *handler.PaymentHandler
	couponHandler   *handler.CouponHandler
}

func NewServer(
	jwtSecret string,
	authService service.AuthService,
	cartService service.CartService,
	checkoutService service.CheckoutService,
	couponService service.CouponService,
	orderService service.OrderService,
	paymentService service.PaymentService,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpErrorHandler

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	s := &Server{
		echo:            e,
		jwtSecret:       jwtSecret,
		authHandler:     handler.NewAuthHandler(authService),
		cartHandler:     handler.NewCartHandler(cartService),
		checkoutHandler: handler.NewCheckoutHandler(checkoutService, couponService),
		orderHandler:    handler.NewOrderHandler(orderService),
		paymentHandler:  handler.NewPaymentHandler(paymentService),
		couponHandler:   handler.NewCouponHandler(couponService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api.POST("/auth/register", s.authHandler.Register)
	api.POST("/auth/login", s.authHandler.Login)

	authed := api.Group("", middleware.Auth(s.jwtSecret))

	// -------- cart --------
	authed.GET("/cart", s.cartHandler.Get)
	authed.POST("/cart/items", s.cartHandler.AddItem)
	authed.PUT("/cart/items/:itemID", s.cartHandler.UpdateItem)
	authed.DELETE("/cart/items/:itemID", s.cartHandler.RemoveItem)

	// -------- checkout --------
	authed.POST("/checkout/apply-coupon", s.checkoutHandler.ApplyCoupon)
	authed.POST("/checkout/place-order", s.checkoutHandler.PlaceOrder)

	// -------- my orders --------
	authed.GET("/orders", s.orderHandler.ListMine)
	authed.GET("/orders/:orderID", s.orderHandler.GetMine)
	authed.POST("/orders/:orderID/cancel", s.orderHandler.CancelMine)

	// -------- back office --------
	admin := api.Group("/admin", middleware.Auth(s.jwtSecret), middleware.RequireAdmin())

	admin.GET("/orders", s.orderHandler.List)
	admin.GET("/orders/stats", s.orderHandler.Stats)
	admin.GET("/orders/:orderID", s.orderHandler.Get)
	admin.PUT("/orders/:orderID/status", s.orderHandler.UpdateStatus)

	admin.GET("/payments", s.paymentHandler.List)
	admin.GET("/payments/:paymentID", s.paymentHandler.Get)
	admin.POST("/payments/:paymentID/authorize", s.paymentHandler.Authorize)
	admin.POST("/payments/:paymentID/capture", s.paymentHandler.Capture)
	admin.POST("/payments/:paymentID/refund", s.paymentHandler.Refund)
	admin.POST("/payments/:paymentID/fail", s.paymentHandler.MarkFailed)

	admin.GET("/coupons", s.couponHandler.List)
	admin.POST("/coupons", s.couponHandler.Create)
	admin.PUT("/coupons/:couponID", s.couponHandler.Update)
	admin.POST("/coupons/:couponID/toggle", s.couponHandler.ToggleActive)
	admin.DELETE("/coupons/:couponID", s.couponHandler.Delete)
}

// httpErrorHandler maps the error kinds of the order core onto HTTP statuses.
// Anything unrecognised is a 500 with a generic message; the cause is logged,
// never leaked.
func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		_ = c.JSON(httpErr.Code, map[string]any{"error": httpErr.Message})
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
		switch appErr.Kind {
		case apperr.KindValidation:
			status = http.StatusBadRequest
		case apperr.KindUnauthorized:
			status = http.StatusUnauthorized
		case apperr.KindNotFound:
			status = http.StatusNotFound
		case apperr.KindConflict, apperr.KindInsufficientStock,
			apperr.KindInvalidTransition, apperr.KindAmountMismatch:
			status = http.StatusConflict
		default:
			status = http.StatusInternalServerError
			message = "internal server error"
		}
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("request failed")
	}

	_ = c.JSON(status, map[string]any{"error": message})
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
