package domain

import (
	"time"
)

type SessionStatus string

const (
	SessionStatusPending SessionStatus = "pending"
	SessionStatusSuccess SessionStatus = "success"
	SessionStatusFailed  SessionStatus = "failed"
)

// ParseSessionStatus maps a gateway-supplied status string onto the
// session state machine. Only the two terminal states are accepted.
func ParseSessionStatus(s string) (SessionStatus, bool) {
	switch SessionStatus(s) {
	case SessionStatusSuccess, SessionStatusFailed:
		return SessionStatus(s), true
	default:
		return "", false
	}
}

// PaymentSession is the locally tracked record of one checkout attempt
// from submission to terminal outcome. The reference is the sole lookup
// key; service and amount never change after creation, only status,
// transaction id and completion time do.
type PaymentSession struct {
	Reference     string         `json:"reference" db:"reference"`
	Service       string         `json:"service" db:"service"`
	Amount        float64        `json:"amount" db:"amount"`
	CustomerData  map[string]any `json:"customerData" db:"customer_data"`
	Timestamp     string         `json:"timestamp" db:"timestamp"`
	Status        SessionStatus  `json:"status" db:"status"`
	TransactionID string         `json:"transactionId,omitempty" db:"transaction_id"`
	CompletedAt   string         `json:"completedAt,omitempty" db:"completed_at"`
}

// NewPaymentSession builds a pending session stamped with the current time.
func NewPaymentSession(reference, service string, amount float64, customerData map[string]any) PaymentSession {
	return PaymentSession{
		Reference:    reference,
		Service:      service,
		Amount:       amount,
		CustomerData: customerData,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Status:       SessionStatusPending,
	}
}

// Terminal reports whether the session has reached success or failed.
func (s PaymentSession) Terminal() bool {
	return s.Status == SessionStatusSuccess || s.Status == SessionStatusFailed
}

// CreatedAt parses the session timestamp. Corrupt timestamps yield the
// zero time, which sorts last and is always eligible for cleanup.
func (s PaymentSession) CreatedAt() time.Time {
	t, err := time.Parse(time.RFC3339, s.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}
