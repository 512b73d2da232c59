package models

// RechargeRequest triggers the airtime/bundle credit after a successful
// payment.
type RechargeRequest struct {
	PhoneNumber string  `json:"phoneNumber"`
	Amount      float64 `json:"amount"`
	ServiceType string  `json:"serviceType"`
	Reference   string  `json:"reference"`
	Timestamp   string  `json:"timestamp"`
}

type RechargeResponse struct {
	Success    bool    `json:"success"`
	RechargeID string  `json:"rechargeId,omitempty"`
	Balance    float64 `json:"balance,omitempty"`
	Error      string  `json:"error,omitempty"`
	Message    string  `json:"message,omitempty"`
}
