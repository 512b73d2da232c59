package domain

// Error codes carried to the dedicated error view on the gateway return
// route. The view is keyed by an explicit code, never by inference.
const (
	ErrCodeMissingReference = "missing_reference"
	ErrCodeInvalidReference = "invalid_reference"
	ErrCodeInvalidStatus    = "invalid_status"
	ErrCodeSessionExpired   = "session_expired"
	ErrCodeCancelled        = "cancelled"
)

// CheckoutRequest is one submission of the generic checkout flow. Target
// carries the service-specific identifier (phone, meter, account or
// policy number). For bundle services ProductCode selects the bundle and
// the amount is resolved from stock; for fixed-amount services Amount is
// taken from the request.
type CheckoutRequest struct {
	ServiceID         string  `json:"service_id" binding:"required"`
	Target            string  `json:"target" binding:"required"`
	Amount            float64 `json:"amount"`
	ProductCode       string  `json:"product_code"`
	NotificationPhone string  `json:"notification_phone"`
}

// CheckoutResult is returned on a successful submission: the caller
// persists nothing client-side beyond the reference and follows the
// redirect to the payment gateway.
type CheckoutResult struct {
	Reference   string `json:"reference"`
	RedirectURL string `json:"redirect_url"`
	Txref       string `json:"txref,omitempty"`
}

// ReturnParams are the query parameters the external gateway hands back
// on the designated result route.
type ReturnParams struct {
	Ref     string `form:"ref"`
	Txn     string `form:"txn"`
	Error   string `form:"error"`
	Status  string `form:"status"`
	Amount  string `form:"amount"`
	Service string `form:"service"`
}

// PaymentResult is the view model for the success/failed result pages,
// rendered from the locally persisted session record.
type PaymentResult struct {
	Session       PaymentSession `json:"session"`
	AmountDisplay string         `json:"amount_display"`
}

// BundleOption is one selectable bundle with its price, mapped from the
// upstream stock response.
type BundleOption struct {
	ProductID   int     `json:"productId"`
	ProductCode string  `json:"productCode"`
	Name        string  `json:"name"`
	Amount      float64 `json:"amount"`
}

// ServiceOptions describes what a user can buy for one service. When the
// stock lookup comes back empty Available is false and submission is
// refused.
type ServiceOptions struct {
	ServiceID   string         `json:"service_id"`
	ServiceName string         `json:"service_name"`
	TargetField string         `json:"target_field"`
	TargetLabel string         `json:"target_label"`
	Available   bool           `json:"available"`
	Amounts     []float64      `json:"amounts,omitempty"`
	Bundles     []BundleOption `json:"bundles,omitempty"`
}
