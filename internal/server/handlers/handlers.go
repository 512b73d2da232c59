package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jwhande57/zimutilityxpress/internal/application/checkout"
	"github.com/jwhande57/zimutilityxpress/internal/server/middleware"
	"github.com/jwhande57/zimutilityxpress/internal/server/websocket"
	"github.com/jwhande57/zimutilityxpress/pkg/config"
)

type Handlers struct {
	CheckoutSvc checkout.ICheckoutService
	Logger      zerolog.Logger
	Config      *config.Config
	WsHub       *websocket.WsHub
}

func New(checkoutSvc checkout.ICheckoutService, logger zerolog.Logger, config *config.Config, wsHub *websocket.WsHub) *Handlers {
	return &Handlers{
		CheckoutSvc: checkoutSvc,
		Logger:      logger,
		Config:      config,
		WsHub:       wsHub,
	}
}

func (h *Handlers) SetupHandlers(router *gin.Engine) {
	mw := middleware.NewMiddleware(h.Config, h.Logger)
	mw.SetupMiddleware(router)

	checkoutHandler := NewCheckoutHandler(h.CheckoutSvc, h.WsHub, h.Logger)
	paymentsHandler := NewPaymentsHandler(h.CheckoutSvc, h.WsHub, h.Logger)
	wsHandler := NewWebSocketHandler(h.WsHub, h.Config.WebSocket, h.Logger)
	healthHandler := NewHealthHandler()

	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// WebSocket session status feed
	router.GET("/ws/status", wsHandler.HandleConnection)

	api := router.Group("/api")
	{
		services := api.Group("/services")
		{
			services.GET("/", checkoutHandler.ListServices)
			services.GET("/:service_id/options", checkoutHandler.GetOptions)
		}

		api.POST("/checkout", checkoutHandler.SubmitCheckout)

		payments := api.Group("/payments")
		{
			payments.GET("/", paymentsHandler.ListPayments)
			payments.GET("/:reference", paymentsHandler.GetPayment)
			payments.DELETE("/", mw.APIKeyMiddleware(), paymentsHandler.ClearPayments)
			payments.POST("/cleanup", mw.APIKeyMiddleware(), paymentsHandler.CleanupPayments)
		}
	}

	// Gateway return route: the external processor hands control back here.
	router.GET("/payment/return", paymentsHandler.PaymentReturn)

	if h.Config.Gateway.SimulatorEnabled {
		gatewayHandler := NewGatewayHandler(h.CheckoutSvc, h.Config.Gateway, h.Logger)
		gateway := router.Group("/gateway")
		{
			gateway.GET("/:reference", gatewayHandler.ShowSession)
			gateway.POST("/:reference/approve", gatewayHandler.Approve)
			gateway.POST("/:reference/decline", gatewayHandler.Decline)
		}
	}
}
