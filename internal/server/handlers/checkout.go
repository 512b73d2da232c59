package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jwhande57/zimutilityxpress/internal/application/checkout"
	"github.com/jwhande57/zimutilityxpress/internal/domain"
	"github.com/jwhande57/zimutilityxpress/internal/infrastructure/http/clients"
	"github.com/jwhande57/zimutilityxpress/internal/server/websocket"
)

type CheckoutHandler struct {
	checkoutSvc checkout.ICheckoutService
	wsHub       *websocket.WsHub
	logger      zerolog.Logger
}

func NewCheckoutHandler(checkoutSvc checkout.ICheckoutService, wsHub *websocket.WsHub, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutSvc: checkoutSvc,
		wsHub:       wsHub,
		logger:      logger,
	}
}

type serviceListing struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TargetField string `json:"target_field"`
	TargetLabel string `json:"target_label"`
}

// ListServices returns the purchasable services.
func (h *CheckoutHandler) ListServices(c *gin.Context) {
	services := h.checkoutSvc.Services()

	listings := make([]serviceListing, 0, len(services))
	for _, svc := range services {
		listings = append(listings, serviceListing{
			ID:          svc.ID,
			Name:        svc.Name,
			TargetField: svc.TargetField,
			TargetLabel: svc.TargetLabel,
		})
	}

	c.JSON(http.StatusOK, domain.ApiResponse{
		Message: "Services retrieved",
		Success: true,
		Status:  http.StatusOK,
		Data:    listings,
	})
}

// GetOptions resolves the selectable amounts or bundles for a service.
// A failed stock lookup leaves the selection empty rather than crashing
// the view; the client shows a dismissible banner.
func (h *CheckoutHandler) GetOptions(c *gin.Context) {
	serviceID := c.Param("service_id")

	options, err := h.checkoutSvc.Options(c.Request.Context(), serviceID)
	if err != nil {
		if errors.Is(err, checkout.ErrUnknownService) {
			c.JSON(http.StatusNotFound, domain.ApiResponse{
				Message: "Unknown service: " + serviceID,
				Success: false,
				Status:  http.StatusNotFound,
			})
			return
		}
		h.logger.Error().Err(err).Str("service", serviceID).Msg("Failed to fetch service options")
		c.JSON(http.StatusBadGateway, domain.ApiResponse{
			Message: "Failed to load available amounts, please try again",
			Success: false,
			Status:  http.StatusBadGateway,
		})
		return
	}

	message := "Options retrieved"
	if !options.Available {
		message = "No amounts available"
	}
	c.JSON(http.StatusOK, domain.ApiResponse{
		Message: message,
		Success: true,
		Status:  http.StatusOK,
		Data:    options,
	})
}

// SubmitCheckout runs the checkout flow: pending session plus redirect
// target for the external gateway.
func (h *CheckoutHandler) SubmitCheckout(c *gin.Context) {
	var req domain.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.ApiResponse{
			Message: "Invalid checkout request: " + err.Error(),
			Success: false,
			Status:  http.StatusBadRequest,
		})
		return
	}

	result, session, err := h.checkoutSvc.Submit(c.Request.Context(), req)
	if err != nil {
		status, message := checkoutErrorResponse(err)
		c.JSON(status, domain.ApiResponse{
			Message: message,
			Success: false,
			Status:  status,
		})
		return
	}

	h.wsHub.BroadcastSession(*session)

	c.JSON(http.StatusCreated, domain.ApiResponse{
		Message: "Payment session created",
		Success: true,
		Status:  http.StatusCreated,
		Data:    result,
	})
}

func checkoutErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, checkout.ErrUnknownService):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, checkout.ErrInvalidTarget),
		errors.Is(err, checkout.ErrInvalidAmount),
		errors.Is(err, checkout.ErrBundleNotFound):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, checkout.ErrNoStock):
		return http.StatusConflict, err.Error()
	case errors.Is(err, checkout.ErrStorage):
		return http.StatusInternalServerError, err.Error()
	case errors.Is(err, clients.ErrOrderRejected):
		return http.StatusBadGateway, err.Error()
	default:
		return http.StatusBadGateway, "failed to initialize payment, please try again"
	}
}
