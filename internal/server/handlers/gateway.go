package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jwhande57/zimutilityxpress/internal/application/checkout"
	"github.com/jwhande57/zimutilityxpress/internal/domain"
	"github.com/jwhande57/zimutilityxpress/pkg/config"
	"github.com/jwhande57/zimutilityxpress/pkg/currency"
)

// GatewayHandler simulates the external payment processor for local
// development. It exposes the session a gateway operator would see and
// redirects back to the return route with the same query parameters the
// real gateway sends.
type GatewayHandler struct {
	checkoutSvc checkout.ICheckoutService
	cfg         config.GatewayConfig
	currency    *currency.CurrencyUtils
	logger      zerolog.Logger
}

func NewGatewayHandler(checkoutSvc checkout.ICheckoutService, cfg config.GatewayConfig, logger zerolog.Logger) *GatewayHandler {
	return &GatewayHandler{
		checkoutSvc: checkoutSvc,
		cfg:         cfg,
		currency:    currency.NewCurrencyUtils(),
		logger:      logger,
	}
}

// ShowSession renders the pending payment as the gateway would present it.
func (h *GatewayHandler) ShowSession(c *gin.Context) {
	ref := c.Param("reference")

	session := h.checkoutSvc.Lookup(c.Request.Context(), ref)
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
		Message: "Awaiting payment decision",
		Success: true,
		Status:  http.StatusOK,
		Data: gin.H{
			"reference":   session.Reference,
			"service":     session.Service,
			"amount":      h.currency.FormatAmount(session.Amount),
			"status":      session.Status,
			"approve_url": "/gateway/" + ref + "/approve",
			"decline_url": "/gateway/" + ref + "/decline",
		},
	})
}

// Approve settles the simulated payment and redirects to the return
// route with a generated transaction id.
func (h *GatewayHandler) Approve(c *gin.Context) {
	ref := c.Param("reference")

	session := h.checkoutSvc.Lookup(c.Request.Context(), ref)
	if session == nil {
		c.JSON(http.StatusNotFound, domain.ApiResponse{
			Message: "Payment session not found",
			Success: false,
			Status:  http.StatusNotFound,
			Data:    gin.H{"code": domain.ErrCodeInvalidReference},
		})
		return
	}

	txn := "TXN" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	h.logger.Info().
		Str("reference", ref).
		Str("transaction_id", txn).
		Msg("Simulated gateway approved payment")

	c.Redirect(http.StatusFound, h.returnURL(url.Values{
		"status": {"success"},
		"ref":    {ref},
		"txn":    {txn},
		"amount": {h.currency.FormatAmount(session.Amount)},
	}))
}

// Decline rejects the simulated payment.
func (h *GatewayHandler) Decline(c *gin.Context) {
	ref := c.Param("reference")

	session := h.checkoutSvc.Lookup(c.Request.Context(), ref)
	if session == nil {
		c.JSON(http.StatusNotFound, domain.ApiResponse{
			Message: "Payment session not found",
			Success: false,
			Status:  http.StatusNotFound,
			Data:    gin.H{"code": domain.ErrCodeInvalidReference},
		})
		return
	}

	h.logger.Info().
		Str("reference", ref).
		Msg("Simulated gateway declined payment")

	c.Redirect(http.StatusFound, h.returnURL(url.Values{
		"status": {"failed"},
		"ref":    {ref},
	}))
}

func (h *GatewayHandler) returnURL(params url.Values) string {
	return h.cfg.ReturnBaseURL + "/payment/return?" + params.Encode()
}
