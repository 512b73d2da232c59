package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwhande57/zimutilityxpress/internal/catalog"
	"github.com/jwhande57/zimutilityxpress/internal/domain"
	"github.com/jwhande57/zimutilityxpress/internal/domain/interfaces"
	"github.com/jwhande57/zimutilityxpress/internal/domain/models"
	"github.com/jwhande57/zimutilityxpress/internal/store"
	"github.com/jwhande57/zimutilityxpress/pkg/config"
	"github.com/jwhande57/zimutilityxpress/pkg/currency"
	"github.com/jwhande57/zimutilityxpress/pkg/reference"
)

const rechargeTimeout = 30 * time.Second

type checkoutService struct {
	catalog        *catalog.Catalog
	sessions       store.SessionStore
	stockClient    interfaces.StockClient
	orderClient    interfaces.OrderClient
	rechargeClient interfaces.RechargeClient
	upstream       config.UpstreamConfig
	gateway        config.GatewayConfig
	currency       *currency.CurrencyUtils
	logger         zerolog.Logger
}

func New(
	cat *catalog.Catalog,
	sessions store.SessionStore,
	stockClient interfaces.StockClient,
	orderClient interfaces.OrderClient,
	rechargeClient interfaces.RechargeClient,
	cfg *config.Config,
	logger zerolog.Logger,
) ICheckoutService {
	return &checkoutService{
		catalog:        cat,
		sessions:       sessions,
		stockClient:    stockClient,
		orderClient:    orderClient,
		rechargeClient: rechargeClient,
		upstream:       cfg.Upstream,
		gateway:        cfg.Gateway,
		currency:       currency.NewCurrencyUtils(),
		logger:         logger,
	}
}

func (s *checkoutService) Services() []*catalog.Service {
	return s.catalog.List()
}

func (s *checkoutService) Options(ctx context.Context, serviceID string) (*domain.ServiceOptions, error) {
	svc := s.catalog.Get(serviceID)
	if svc == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownService, serviceID)
	}

	options := &domain.ServiceOptions{
		ServiceID:   svc.ID,
		ServiceName: svc.Name,
		TargetField: svc.TargetField,
		TargetLabel: svc.TargetLabel,
	}

	if svc.AmountSource == catalog.AmountsFixed {
		options.Amounts = svc.Amounts
		options.Available = len(svc.Amounts) > 0
		return options, nil
	}

	items, err := s.stockClient.FetchAvailable(ctx, svc.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch options for %s: %w", serviceID, err)
	}

	for _, item := range items {
		options.Bundles = append(options.Bundles, domain.BundleOption{
			ProductID:   item.ProductID,
			ProductCode: item.ProductCode,
			Name:        item.Name,
			Amount:      item.Amount,
		})
	}
	options.Available = len(options.Bundles) > 0
	return options, nil
}

func (s *checkoutService) Submit(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutResult, *domain.PaymentSession, error) {
	svc := s.catalog.Get(req.ServiceID)
	if svc == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownService, req.ServiceID)
	}

	if !svc.ValidTarget(req.Target) {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidTarget, svc.TargetLabel)
	}

	amount := req.Amount
	productID := svc.ProductID
	productCode := req.ProductCode
	bundleName := ""

	if svc.AmountSource == catalog.AmountsStock {
		items, err := s.stockClient.FetchAvailable(ctx, svc.ProductID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check stock for %s: %w", req.ServiceID, err)
		}
		if len(items) == 0 {
			return nil, nil, fmt.Errorf("%w: %s", ErrNoStock, svc.Name)
		}

		found := false
		for _, item := range items {
			if item.ProductCode == req.ProductCode {
				amount = item.Amount
				productID = item.ProductID
				bundleName = item.Name
				found = true
				break
			}
		}
		if !found {
			return nil, nil, fmt.Errorf("%w: %s", ErrBundleNotFound, req.ProductCode)
		}
	} else {
		if amount <= 0 {
			return nil, nil, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidAmount)
		}
		if len(svc.Amounts) > 0 && !containsAmount(svc.Amounts, amount) {
			return nil, nil, fmt.Errorf("%w: %s is not a selectable amount", ErrInvalidAmount, s.currency.FormatAmount(amount))
		}
	}

	ref := reference.Generate()

	customerData := map[string]any{
		svc.TargetField: req.Target,
	}
	if svc.Airtime {
		customerData["serviceType"] = "airtime"
	}
	if bundleName != "" {
		customerData["bundle"] = bundleName
	}

	result := &domain.CheckoutResult{Reference: ref}

	if s.upstream.OrderEnabled {
		order := models.OrderRequest{
			USDAmount:         amount,
			ProductID:         productID,
			ProductCode:       productCode,
			Target:            req.Target,
			NotificationPhone: req.NotificationPhone,
			Notification:      renderNotification(svc.Notification, bundleName),
		}

		resp, err := s.orderClient.SubmitOrder(ctx, ref, order)
		if err != nil {
			s.logger.Error().Err(err).
				Str("service", req.ServiceID).
				Str("reference", ref).
				Msg("Order submission failed")
			return nil, nil, err
		}
		result.RedirectURL = resp.PaymentLink
		result.Txref = resp.Txref
	} else {
		// Local gateway simulator stands in for the external processor.
		result.RedirectURL = s.gateway.ReturnBaseURL + "/gateway/" + ref
	}

	session := domain.NewPaymentSession(ref, svc.Name, amount, customerData)
	if !s.sessions.Save(session) {
		// No redirect is handed out when the pending record cannot be
		// persisted; the caller gets the generic failure.
		return nil, nil, ErrStorage
	}

	s.logger.Info().
		Str("reference", ref).
		Str("service", svc.Name).
		Float64("amount", amount).
		Msg("Payment session created")

	return result, &session, nil
}

func (s *checkoutService) Resolve(ctx context.Context, params domain.ReturnParams) (*domain.PaymentResult, string) {
	if params.Ref == "" {
		return nil, domain.ErrCodeMissingReference
	}
	if params.Error != "" {
		// The gateway names the failure explicitly; never second-guess it.
		return nil, params.Error
	}

	session := s.sessions.Get(params.Ref)
	if session == nil {
		s.logger.Warn().
			Str("reference", params.Ref).
			Msg("Gateway return for unknown payment session")
		return nil, domain.ErrCodeInvalidReference
	}

	status, ok := domain.ParseSessionStatus(params.Status)
	if !ok {
		return nil, domain.ErrCodeInvalidStatus
	}

	if !s.sessions.UpdateStatus(params.Ref, status, params.Txn) {
		return nil, domain.ErrCodeInvalidReference
	}

	updated := s.sessions.Get(params.Ref)
	if updated == nil {
		return nil, domain.ErrCodeInvalidReference
	}

	if status == domain.SessionStatusSuccess {
		s.dispatchRecharge(*updated)
	}

	return &domain.PaymentResult{
		Session:       *updated,
		AmountDisplay: s.currency.FormatAmount(updated.Amount),
	}, ""
}

func (s *checkoutService) Lookup(ctx context.Context, ref string) *domain.PaymentSession {
	return s.sessions.Get(ref)
}

func (s *checkoutService) History(ctx context.Context) []domain.PaymentSession {
	s.sessions.CleanupOld()
	return s.sessions.GetAll()
}

func (s *checkoutService) Cleanup(ctx context.Context) int {
	return s.sessions.CleanupOld()
}

func (s *checkoutService) Reset(ctx context.Context) bool {
	return s.sessions.ClearAll()
}

// dispatchRecharge credits airtime-class purchases after a successful
// payment. Best effort: failures are logged, never surfaced to the
// result view.
func (s *checkoutService) dispatchRecharge(session domain.PaymentSession) {
	if s.rechargeClient == nil || !s.upstream.RechargeEnabled {
		return
	}
	if session.CustomerData["serviceType"] != "airtime" {
		return
	}

	phone := phoneFromCustomerData(session.CustomerData)
	if phone == "" {
		s.logger.Warn().
			Str("reference", session.Reference).
			Msg("No phone number on session, skipping recharge")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), rechargeTimeout)
		defer cancel()

		resp, err := s.rechargeClient.ProcessRecharge(ctx, models.RechargeRequest{
			PhoneNumber: phone,
			Amount:      session.Amount,
			ServiceType: session.Service,
			Reference:   session.Reference,
			Timestamp:   session.Timestamp,
		})
		if err != nil {
			s.logger.Error().Err(err).
				Str("reference", session.Reference).
				Msg("Post-payment recharge failed")
			return
		}
		if !resp.Success {
			s.logger.Error().
				Str("reference", session.Reference).
				Str("error", resp.Error).
				Msg("Post-payment recharge rejected")
			return
		}
		s.logger.Info().
			Str("reference", session.Reference).
			Str("recharge_id", resp.RechargeID).
			Msg("Post-payment recharge completed")
	}()
}

func phoneFromCustomerData(data map[string]any) string {
	for _, key := range []string{"phoneNumber", "mobileNumber"} {
		if v, ok := data[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func containsAmount(amounts []float64, amount float64) bool {
	for _, a := range amounts {
		if a == amount {
			return true
		}
	}
	return false
}

func renderNotification(template, bundleName string) string {
	if template == "" {
		return ""
	}
	return strings.ReplaceAll(template, "%BUNDLE%", bundleName)
}
