package models

// OrderRequest is the body of the upstream order endpoint. Field names
// are emitted exactly as the backend consumes them.
type OrderRequest struct {
	USDAmount         float64 `json:"usd_amount"`
	ProductID         int     `json:"productId"`
	ProductCode       string  `json:"productCode"`
	Target            string  `json:"target"`
	NotificationPhone string  `json:"notification_phone,omitempty"`
	Notification      string  `json:"notification,omitempty"`
}

// OrderResponse carries the backend transaction reference and the
// external payment link the user is redirected to.
type OrderResponse struct {
	USDAmount   float64 `json:"usd_amount"`
	Target      string  `json:"target"`
	Txref       string  `json:"txref"`
	PaymentLink string  `json:"payment_link"`
}

// OrderErrorResponse is the error envelope some backend failures carry.
type OrderErrorResponse struct {
	Message string `json:"message"`
}
