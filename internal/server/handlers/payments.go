package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jwhande57/zimutilityxpress/internal/application/checkout"
	"github.com/jwhande57/zimutilityxpress/internal/domain"
	"github.com/jwhande57/zimutilityxpress/internal/server/websocket"
)

type PaymentsHandler struct {
	checkoutSvc checkout.ICheckoutService
	wsHub       *websocket.WsHub
	logger      zerolog.Logger
}

func NewPaymentsHandler(checkoutSvc checkout.ICheckoutService, wsHub *websocket.WsHub, logger zerolog.Logger) *PaymentsHandler {
	return &PaymentsHandler{
		checkoutSvc: checkoutSvc,
		wsHub:       wsHub,
		logger:      logger,
	}
}

// PaymentReturn handles the return navigation from the external gateway.
// The query parameters carry the reference and, on success, the
// transaction id. Failures route to the error view keyed by an explicit
// code.
func (h *PaymentsHandler) PaymentReturn(c *gin.Context) {
	var params domain.ReturnParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, domain.ApiResponse{
			Message: "Invalid return parameters",
			Success: false,
			Status:  http.StatusBadRequest,
			Data:    gin.H{"code": domain.ErrCodeMissingReference},
		})
		return
	}

	result, code := h.checkoutSvc.Resolve(c.Request.Context(), params)
	if code != "" {
		status := http.StatusBadRequest
		if code == domain.ErrCodeInvalidReference {
			status = http.StatusNotFound
		}
		c.JSON(status, domain.ApiResponse{
			Message: "Payment could not be resolved",
			Success: false,
			Status:  status,
			Data:    gin.H{"code": code},
		})
		return
	}

	h.wsHub.BroadcastSession(result.Session)

	c.JSON(http.StatusOK, domain.ApiResponse{
		Message: "Payment " + string(result.Session.Status),
		Success: true,
		Status:  http.StatusOK,
		Data:    result,
	})
}

// GetPayment reads one session for result rendering.
func (h *PaymentsHandler) GetPayment(c *gin.Context) {
	reference := c.Param("reference")

	session := h.checkoutSvc.Lookup(c.Request.Context(), reference)
	if session == nil {
		c.JSON(http.StatusNotFound, domain.ApiResponse{
			Message: "Payment session not found",
			Success: false,
			Status:  http.StatusNotFound,
			Data:    gin.H{"code": domain.ErrCodeInvalidReference},
		})
		return
	}

	c.JSON(http.StatusOK, domain.ApiResponse{
		Message: "Payment session retrieved",
		Success: true,
		Status:  http.StatusOK,
		Data:    session,
	})
}

// ListPayments returns the session history, newest first.
func (h *PaymentsHandler) ListPayments(c *gin.Context) {
	sessions := h.checkoutSvc.History(c.Request.Context())

	c.JSON(http.StatusOK, domain.ApiResponse{
		Message: "Payment history retrieved",
		Success: true,
		Status:  http.StatusOK,
		Data:    sessions,
	})
}

// ClearPayments wipes the local session history. Explicit user action.
func (h *PaymentsHandler) ClearPayments(c *gin.Context) {
	if !h.checkoutSvc.Reset(c.Request.Context()) {
		c.JSON(http.StatusInternalServerError, domain.ApiResponse{
			Message: "Failed to clear payment history",
			Success: false,
			Status:  http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, domain.ApiResponse{
		Message: "Payment history cleared",
		Success: true,
		Status:  http.StatusOK,
	})
}

// CleanupPayments evicts sessions past the retention window.
func (h *PaymentsHandler) CleanupPayments(c *gin.Context) {
	removed := h.checkoutSvc.Cleanup(c.Request.Context())

	c.JSON(http.StatusOK, domain.ApiResponse{
		Message: "Cleanup completed",
		Success: true,
		Status:  http.StatusOK,
		Data:    gin.H{"removed": removed},
	})
}
