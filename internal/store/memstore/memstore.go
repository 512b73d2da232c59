// Package memstore keeps payment sessions in process memory. It is the
// default backend and the direct analog of the browser-local key-value
// store the storefront originally relied on.
package memstore

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwhande57/zimutilityxpress/internal/domain"
	"github.com/jwhande57/zimutilityxpress/internal/store"
)

type memStore struct {
	mu        sync.RWMutex
	sessions  map[string]domain.PaymentSession
	retention time.Duration
	logger    zerolog.Logger
}

func New(retentionDays int, logger zerolog.Logger) store.SessionStore {
	return &memStore{
		sessions:  make(map[string]domain.PaymentSession),
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		logger:    logger,
	}
}

func cloneSession(s domain.PaymentSession) domain.PaymentSession {
	if s.CustomerData != nil {
		data := make(map[string]any, len(s.CustomerData))
		for k, v := range s.CustomerData {
			data[k] = v
		}
		s.CustomerData = data
	}
	return s
}

func (m *memStore) Save(session domain.PaymentSession) bool {
	if session.Reference == "" {
		m.logger.Error().Msg("Refusing to save session without reference")
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.Reference] = cloneSession(session)

	m.logger.Debug().
		Str("reference", session.Reference).
		Str("status", string(session.Status)).
		Msg("Payment session saved")
	return true
}

func (m *memStore) Get(reference string) *domain.PaymentSession {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[reference]
	if !ok {
		return nil
	}
	out := cloneSession(session)
	return &out
}

func (m *memStore) UpdateStatus(reference string, status domain.SessionStatus, transactionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[reference]
	if !ok {
		m.logger.Warn().
			Str("reference", reference).
			Msg("Status update for unknown payment session")
		return false
	}

	session.Status = status
	session.TransactionID = transactionID
	session.CompletedAt = time.Now().UTC().Format(time.RFC3339)
	m.sessions[reference] = session

	m.logger.Info().
		Str("reference", reference).
		Str("status", string(status)).
		Msg("Payment session status updated")
	return true
}

func (m *memStore) GetAll() []domain.PaymentSession {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.PaymentSession, 0, len(m.sessions))
	for _, session := range m.sessions {
		out = append(out, cloneSession(session))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	return out
}

func (m *memStore) CleanupOld() int {
	cutoff := time.Now().Add(-m.retention)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for reference, session := range m.sessions {
		if session.CreatedAt().Before(cutoff) {
			delete(m.sessions, reference)
			removed++
		}
	}

	if removed > 0 {
		m.logger.Info().Int("removed", removed).Msg("Evicted old payment sessions")
	}
	return removed
}

func (m *memStore) ClearAll() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	cleared := len(m.sessions)
	m.sessions = make(map[string]domain.PaymentSession)
	m.logger.Info().Int("cleared", cleared).Msg("Cleared all payment sessions")
	return true
}
