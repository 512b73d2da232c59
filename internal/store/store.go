// Package store defines the payment session store contract. Operations
// never panic or surface errors to callers: storage faults degrade to
// false/nil/empty results with a logged diagnostic, per the storefront's
// failure policy.
package store

import (
	"github.com/jwhande57/zimutilityxpress/internal/domain"
)

// SessionStore persists payment sessions keyed by reference.
type SessionStore interface {
	// Save upserts the record under its reference. It serves both the
	// initial pending write and the status rewrite.
	Save(session domain.PaymentSession) bool

	// Get returns the session or nil. A missing key and a corrupt record
	// are indistinguishable to the caller.
	Get(reference string) *domain.PaymentSession

	// UpdateStatus reads, merges status/transaction id, stamps
	// completedAt and writes back. Returns false when the reference does
	// not exist. Concurrent writers are last-write-wins; there is no
	// cross-process locking.
	UpdateStatus(reference string, status domain.SessionStatus, transactionID string) bool

	// GetAll returns every readable session, newest first. Records that
	// fail to deserialize are skipped silently.
	GetAll() []domain.PaymentSession

	// CleanupOld evicts sessions older than the retention window,
	// returning the number actually removed.
	CleanupOld() int

	// ClearAll removes every session unconditionally.
	ClearAll() bool
}
