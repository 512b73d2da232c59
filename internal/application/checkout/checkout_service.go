package checkout

import (
	"context"
	"errors"

	"github.com/jwhande57/zimutilityxpress/internal/catalog"
	"github.com/jwhande57/zimutilityxpress/internal/domain"
)

// Sentinel errors the handler layer maps onto user-facing responses.
var (
	ErrUnknownService = errors.New("unknown service")
	ErrInvalidTarget  = errors.New("invalid customer identifier")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrNoStock        = errors.New("no amounts available")
	ErrBundleNotFound = errors.New("selected bundle not found")
	ErrStorage        = errors.New("failed to process payment, please try again")
)

// ICheckoutService drives the payment session lifecycle: catalog
// listing, checkout submission (pending record plus gateway redirect),
// gateway-return resolution and session housekeeping.
type ICheckoutService interface {
	// Services lists the purchasable services.
	Services() []*catalog.Service

	// Options resolves selectable amounts or bundles for one service.
	// Stock lookup failures propagate; the caller owns the messaging.
	Options(ctx context.Context, serviceID string) (*domain.ServiceOptions, error)

	// Submit validates the request, persists a pending session and
	// returns the redirect target. A persistence failure aborts the flow
	// before any redirect exists.
	Submit(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutResult, *domain.PaymentSession, error)

	// Resolve handles the return navigation from the gateway. On success
	// it returns the result view model; otherwise the second return
	// value is the explicit error code the error view is keyed by.
	Resolve(ctx context.Context, params domain.ReturnParams) (*domain.PaymentResult, string)

	// Lookup reads a single session for result rendering.
	Lookup(ctx context.Context, reference string) *domain.PaymentSession

	// History returns all sessions newest first, evicting expired ones
	// opportunistically beforehand.
	History(ctx context.Context) []domain.PaymentSession

	// Cleanup evicts sessions past the retention window.
	Cleanup(ctx context.Context) int

	// Reset clears every locally tracked session. Explicit user action.
	Reset(ctx context.Context) bool
}
