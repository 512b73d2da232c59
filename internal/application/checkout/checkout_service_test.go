package checkout_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jwhande57/zimutilityxpress/internal/application/checkout"
	"github.com/jwhande57/zimutilityxpress/internal/catalog"
	"github.com/jwhande57/zimutilityxpress/internal/domain"
	"github.com/jwhande57/zimutilityxpress/internal/domain/models"
	"github.com/jwhande57/zimutilityxpress/internal/store"
	"github.com/jwhande57/zimutilityxpress/internal/store/memstore"
	"github.com/jwhande57/zimutilityxpress/pkg/config"
	"github.com/jwhande57/zimutilityxpress/pkg/reference"
)

type fakeStockClient struct {
	items []models.StockItem
	err   error
}

func (f *fakeStockClient) FetchAvailable(ctx context.Context, productID int) ([]models.StockItem, error) {
	return f.items, f.err
}

type fakeOrderClient struct {
	resp   *models.OrderResponse
	err    error
	gotKey string
	gotReq models.OrderRequest
}

func (f *fakeOrderClient) SubmitOrder(ctx context.Context, idempotencyKey string, req models.OrderRequest) (*models.OrderResponse, error) {
	f.gotKey = idempotencyKey
	f.gotReq = req
	return f.resp, f.err
}

type fakeRechargeClient struct {
	requests chan models.RechargeRequest
}

func (f *fakeRechargeClient) ProcessRecharge(ctx context.Context, req models.RechargeRequest) (*models.RechargeResponse, error) {
	f.requests <- req
	return &models.RechargeResponse{Success: true, RechargeID: "RCH1"}, nil
}

// brokenStore simulates the underlying storage being unavailable.
type brokenStore struct {
	store.SessionStore
}

func (brokenStore) Save(domain.PaymentSession) bool { return false }

type fixture struct {
	svc      checkout.ICheckoutService
	sessions store.SessionStore
	stock    *fakeStockClient
	order    *fakeOrderClient
	recharge *fakeRechargeClient
}

type fixtureOption func(*config.Config, *fixture)

func withOrderUpstream() fixtureOption {
	return func(cfg *config.Config, f *fixture) {
		cfg.Upstream.OrderEnabled = true
	}
}

func withRecharge() fixtureOption {
	return func(cfg *config.Config, f *fixture) {
		cfg.Upstream.RechargeEnabled = true
	}
}

func withBrokenStore() fixtureOption {
	return func(cfg *config.Config, f *fixture) {
		f.sessions = brokenStore{f.sessions}
	}
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	cat, err := catalog.New(catalog.DefaultDescriptors())
	require.NoError(t, err)

	f := &fixture{
		sessions: memstore.New(30, zerolog.Nop()),
		stock:    &fakeStockClient{},
		order:    &fakeOrderClient{},
		recharge: &fakeRechargeClient{requests: make(chan models.RechargeRequest, 1)},
	}

	cfg := &config.Config{
		Gateway: config.GatewayConfig{
			SimulatorEnabled: true,
			ReturnBaseURL:    "http://localhost:8080",
		},
	}
	for _, opt := range opts {
		opt(cfg, f)
	}

	f.svc = checkout.New(cat, f.sessions, f.stock, f.order, f.recharge, cfg, zerolog.Nop())
	return f
}

func TestSubmitCreatesPendingSession(t *testing.T) {
	f := newFixture(t)

	result, session, err := f.svc.Submit(context.Background(), domain.CheckoutRequest{
		ServiceID: "econet-airtime",
		Target:    "0771234567",
		Amount:    1.00,
	})
	require.NoError(t, err)
	require.True(t, reference.IsValid(result.Reference))
	require.Equal(t, "http://localhost:8080/gateway/"+result.Reference, result.RedirectURL)

	require.Equal(t, domain.SessionStatusPending, session.Status)
	require.Equal(t, "Econet Airtime", session.Service)
	require.Equal(t, 1.0, session.Amount)
	require.Equal(t, "0771234567", session.CustomerData["phoneNumber"])

	stored := f.sessions.Get(result.Reference)
	require.NotNil(t, stored)
	require.Equal(t, domain.SessionStatusPending, stored.Status)
}

func TestSubmitRejectsUnknownService(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.svc.Submit(context.Background(), domain.CheckoutRequest{
		ServiceID: "starlink",
		Target:    "0771234567",
		Amount:    1,
	})
	require.ErrorIs(t, err, checkout.ErrUnknownService)
}

func TestSubmitRejectsInvalidTarget(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.svc.Submit(context.Background(), domain.CheckoutRequest{
		ServiceID: "econet-airtime",
		Target:    "0711234567", // NetOne prefix on an Econet service
		Amount:    1,
	})
	require.ErrorIs(t, err, checkout.ErrInvalidTarget)
}

func TestSubmitRejectsNonSelectableAmount(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.svc.Submit(context.Background(), domain.CheckoutRequest{
		ServiceID: "econet-airtime",
		Target:    "0771234567",
		Amount:    3.33,
	})
	require.ErrorIs(t, err, checkout.ErrInvalidAmount)
}

func TestSubmitBundleResolvesPriceFromStock(t *testing.T) {
	f := newFixture(t, withOrderUpstream())
	f.stock.items = []models.StockItem{
		{ProductID: 47, ProductCode: "SB1", Name: "SmartBiz 10GB", Amount: 10},
	}
	f.order.resp = &models.OrderResponse{
		Txref:       "TX-0001",
		PaymentLink: "https://gateway.example/pay/TX-0001",
	}

	result, session, err := f.svc.Submit(context.Background(), domain.CheckoutRequest{
		ServiceID:   "econet-smartbiz",
		Target:      "0771234567",
		ProductCode: "SB1",
	})
	require.NoError(t, err)
	require.Equal(t, "https://gateway.example/pay/TX-0001", result.RedirectURL)
	require.Equal(t, "TX-0001", result.Txref)
	require.Equal(t, 10.0, session.Amount)
	require.Equal(t, "SmartBiz 10GB", session.CustomerData["bundle"])

	require.Equal(t, result.Reference, f.order.gotKey, "order carries the reference as idempotency key")
	require.Equal(t, 10.0, f.order.gotReq.USDAmount)
	require.Contains(t, f.order.gotReq.Notification, "SmartBiz 10GB")
}

func TestSubmitEmptyStockRefused(t *testing.T) {
	f := newFixture(t)
	f.stock.items = []models.StockItem{}

	_, _, err := f.svc.Submit(context.Background(), domain.CheckoutRequest{
		ServiceID:   "econet-data",
		Target:      "0771234567",
		ProductCode: "D1",
	})
	require.ErrorIs(t, err, checkout.ErrNoStock)
}

func TestSubmitUnknownBundle(t *testing.T) {
	f := newFixture(t)
	f.stock.items = []models.StockItem{
		{ProductID: 44, ProductCode: "D1", Name: "Daily 250MB", Amount: 1},
	}

	_, _, err := f.svc.Submit(context.Background(), domain.CheckoutRequest{
		ServiceID:   "econet-data",
		Target:      "0771234567",
		ProductCode: "D9",
	})
	require.ErrorIs(t, err, checkout.ErrBundleNotFound)
}

func TestSubmitAbortsWhenPersistFails(t *testing.T) {
	f := newFixture(t, withBrokenStore())

	result, _, err := f.svc.Submit(context.Background(), domain.CheckoutRequest{
		ServiceID: "econet-airtime",
		Target:    "0771234567",
		Amount:    1,
	})
	require.ErrorIs(t, err, checkout.ErrStorage)
	require.Nil(t, result, "no redirect when the pending record cannot be persisted")
}

func TestSubmitPropagatesOrderError(t *testing.T) {
	f := newFixture(t, withOrderUpstream())
	f.stock.items = []models.StockItem{
		{ProductID: 47, ProductCode: "SB1", Name: "SmartBiz 10GB", Amount: 10},
	}
	f.order.err = errors.New("order rejected: product out of stock")

	_, _, err := f.svc.Submit(context.Background(), domain.CheckoutRequest{
		ServiceID:   "econet-smartbiz",
		Target:      "0771234567",
		ProductCode: "SB1",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "product out of stock")
	require.Empty(t, f.svc.History(context.Background()), "no session persisted when ordering fails")
}

func submitPending(t *testing.T, f *fixture) string {
	t.Helper()
	result, _, err := f.svc.Submit(context.Background(), domain.CheckoutRequest{
		ServiceID: "econet-airtime",
		Target:    "0771234567",
		Amount:    1.00,
	})
	require.NoError(t, err)
	return result.Reference
}

func TestResolveSuccess(t *testing.T) {
	f := newFixture(t)
	ref := submitPending(t, f)

	result, code := f.svc.Resolve(context.Background(), domain.ReturnParams{
		Ref:    ref,
		Txn:    "TXN123",
		Status: "success",
	})
	require.Empty(t, code)
	require.Equal(t, domain.SessionStatusSuccess, result.Session.Status)
	require.Equal(t, "TXN123", result.Session.TransactionID)
	require.NotEmpty(t, result.Session.CompletedAt)
	require.Equal(t, "$1.00", result.AmountDisplay)

	stored := f.sessions.Get(ref)
	require.Equal(t, domain.SessionStatusSuccess, stored.Status)
	require.Equal(t, "TXN123", stored.TransactionID)
}

func TestResolveFailed(t *testing.T) {
	f := newFixture(t)
	ref := submitPending(t, f)

	result, code := f.svc.Resolve(context.Background(), domain.ReturnParams{
		Ref:    ref,
		Status: "failed",
	})
	require.Empty(t, code)
	require.Equal(t, domain.SessionStatusFailed, result.Session.Status)
	require.Empty(t, result.Session.TransactionID)
}

func TestResolveUnknownReference(t *testing.T) {
	f := newFixture(t)

	result, code := f.svc.Resolve(context.Background(), domain.ReturnParams{
		Ref:    "ZMP00000000XXXXXX",
		Txn:    "TXN123",
		Status: "success",
	})
	require.Nil(t, result)
	require.Equal(t, domain.ErrCodeInvalidReference, code)
	require.Empty(t, f.svc.History(context.Background()), "no record is created for unknown references")
}

func TestResolveMissingReference(t *testing.T) {
	f := newFixture(t)
	result, code := f.svc.Resolve(context.Background(), domain.ReturnParams{Status: "success"})
	require.Nil(t, result)
	require.Equal(t, domain.ErrCodeMissingReference, code)
}

func TestResolveExplicitErrorCodePassesThrough(t *testing.T) {
	f := newFixture(t)
	ref := submitPending(t, f)

	result, code := f.svc.Resolve(context.Background(), domain.ReturnParams{
		Ref:   ref,
		Error: domain.ErrCodeSessionExpired,
	})
	require.Nil(t, result)
	require.Equal(t, domain.ErrCodeSessionExpired, code)

	stored := f.sessions.Get(ref)
	require.Equal(t, domain.SessionStatusPending, stored.Status, "explicit error codes do not mutate the session")
}

func TestResolveRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	ref := submitPending(t, f)

	result, code := f.svc.Resolve(context.Background(), domain.ReturnParams{
		Ref:    ref,
		Status: "pending",
	})
	require.Nil(t, result)
	require.Equal(t, domain.ErrCodeInvalidStatus, code)
}

func TestResolveDispatchesRechargeForAirtime(t *testing.T) {
	f := newFixture(t, withRecharge())
	ref := submitPending(t, f)

	_, code := f.svc.Resolve(context.Background(), domain.ReturnParams{
		Ref:    ref,
		Txn:    "TXN123",
		Status: "success",
	})
	require.Empty(t, code)

	select {
	case req := <-f.recharge.requests:
		require.Equal(t, "0771234567", req.PhoneNumber)
		require.Equal(t, 1.0, req.Amount)
		require.Equal(t, "Econet Airtime", req.ServiceType)
		require.Equal(t, ref, req.Reference)
	case <-time.After(2 * time.Second):
		t.Fatal("recharge was not dispatched")
	}
}

func TestResolveNoRechargeOnFailure(t *testing.T) {
	f := newFixture(t, withRecharge())
	ref := submitPending(t, f)

	_, code := f.svc.Resolve(context.Background(), domain.ReturnParams{
		Ref:    ref,
		Status: "failed",
	})
	require.Empty(t, code)

	select {
	case <-f.recharge.requests:
		t.Fatal("recharge must not run for failed payments")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHistoryEvictsExpiredSessionsFirst(t *testing.T) {
	f := newFixture(t)

	expired := domain.PaymentSession{
		Reference: "ZMP11111111AAAAAA",
		Service:   "Econet Airtime",
		Amount:    1,
		Timestamp: time.Now().AddDate(0, 0, -31).UTC().Format(time.RFC3339),
		Status:    domain.SessionStatusPending,
	}
	require.True(t, f.sessions.Save(expired))
	fresh := submitPending(t, f)

	history := f.svc.History(context.Background())
	require.Len(t, history, 1)
	require.Equal(t, fresh, history[0].Reference)
}

func TestOptionsFixedAmounts(t *testing.T) {
	f := newFixture(t)

	options, err := f.svc.Options(context.Background(), "econet-airtime")
	require.NoError(t, err)
	require.True(t, options.Available)
	require.Equal(t, []float64{0.50, 1, 2, 5, 10, 20, 50}, options.Amounts)
	require.Empty(t, options.Bundles)
}

func TestOptionsEmptyStockUnavailable(t *testing.T) {
	f := newFixture(t)
	f.stock.items = []models.StockItem{}

	options, err := f.svc.Options(context.Background(), "econet-data")
	require.NoError(t, err)
	require.False(t, options.Available, "empty stock disables submission")
	require.Empty(t, options.Bundles)
}

func TestOptionsStockErrorPropagates(t *testing.T) {
	f := newFixture(t)
	f.stock.err = errors.New("connection refused")

	_, err := f.svc.Options(context.Background(), "econet-data")
	require.Error(t, err)
}

func TestResetClearsEverything(t *testing.T) {
	f := newFixture(t)
	submitPending(t, f)
	submitPending(t, f)

	require.True(t, f.svc.Reset(context.Background()))
	require.Empty(t, f.svc.History(context.Background()))
}
