// Package sqlstore persists payment sessions in a key-value table
// through database/sql. The record is stored as the JSON-serialized
// session under its reference, matching the one-key-per-session layout
// of the original local store. The SQL is kept portable so production
// runs on Postgres and tests on an in-memory SQLite database.
package sqlstore

import (
	"database/sql"
	"encoding/json"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwhande57/zimutilityxpress/internal/domain"
	"github.com/jwhande57/zimutilityxpress/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS payment_sessions (
	reference TEXT PRIMARY KEY,
	record    TEXT NOT NULL
);`

type sqlStore struct {
	db        *sql.DB
	retention time.Duration
	logger    zerolog.Logger
}

// New ensures the schema exists and returns the store. Schema creation
// failure is the only constructor error; runtime faults degrade to
// sentinel results like every other SessionStore.
func New(db *sql.DB, retentionDays int, logger zerolog.Logger) (store.SessionStore, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}
	return &sqlStore{
		db:        db,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		logger:    logger,
	}, nil
}

func (s *sqlStore) Save(session domain.PaymentSession) bool {
	if session.Reference == "" {
		s.logger.Error().Msg("Refusing to save session without reference")
		return false
	}

	record, err := json.Marshal(session)
	if err != nil {
		s.logger.Error().Err(err).
			Str("reference", session.Reference).
			Msg("Failed to serialize payment session")
		return false
	}

	_, err = s.db.Exec(
		`INSERT INTO payment_sessions (reference, record) VALUES ($1, $2)
		 ON CONFLICT (reference) DO UPDATE SET record = excluded.record`,
		session.Reference, string(record),
	)
	if err != nil {
		s.logger.Error().Err(err).
			Str("reference", session.Reference).
			Msg("Failed to save payment session")
		return false
	}

	s.logger.Debug().
		Str("reference", session.Reference).
		Str("status", string(session.Status)).
		Msg("Payment session saved")
	return true
}

func (s *sqlStore) Get(reference string) *domain.PaymentSession {
	var record string
	err := s.db.QueryRow(
		`SELECT record FROM payment_sessions WHERE reference = $1`,
		reference,
	).Scan(&record)
	if err != nil {
		if err != sql.ErrNoRows {
			s.logger.Error().Err(err).
				Str("reference", reference).
				Msg("Failed to read payment session")
		}
		return nil
	}

	var session domain.PaymentSession
	if err := json.Unmarshal([]byte(record), &session); err != nil {
		// Corrupt record reads the same as a missing one.
		s.logger.Error().Err(err).
			Str("reference", reference).
			Msg("Failed to deserialize payment session")
		return nil
	}
	return &session
}

func (s *sqlStore) UpdateStatus(reference string, status domain.SessionStatus, transactionID string) bool {
	session := s.Get(reference)
	if session == nil {
		s.logger.Warn().
			Str("reference", reference).
			Msg("Status update for unknown payment session")
		return false
	}

	session.Status = status
	session.TransactionID = transactionID
	session.CompletedAt = time.Now().UTC().Format(time.RFC3339)

	if !s.Save(*session) {
		return false
	}

	s.logger.Info().
		Str("reference", reference).
		Str("status", string(status)).
		Msg("Payment session status updated")
	return true
}

func (s *sqlStore) GetAll() []domain.PaymentSession {
	sessions := s.scanAll()

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt().After(sessions[j].CreatedAt())
	})
	return sessions
}

func (s *sqlStore) CleanupOld() int {
	cutoff := time.Now().Add(-s.retention)

	removed := 0
	for _, session := range s.scanAll() {
		if !session.CreatedAt().Before(cutoff) {
			continue
		}
		res, err := s.db.Exec(
			`DELETE FROM payment_sessions WHERE reference = $1`,
			session.Reference,
		)
		if err != nil {
			s.logger.Error().Err(err).
				Str("reference", session.Reference).
				Msg("Failed to evict old payment session")
			continue
		}
		if n, err := res.RowsAffected(); err == nil {
			removed += int(n)
		}
	}

	if removed > 0 {
		s.logger.Info().Int("removed", removed).Msg("Evicted old payment sessions")
	}
	return removed
}

func (s *sqlStore) ClearAll() bool {
	if _, err := s.db.Exec(`DELETE FROM payment_sessions`); err != nil {
		s.logger.Error().Err(err).Msg("Failed to clear payment sessions")
		return false
	}
	s.logger.Info().Msg("Cleared all payment sessions")
	return true
}

// scanAll loads every readable session, silently skipping rows that fail
// to deserialize.
func (s *sqlStore) scanAll() []domain.PaymentSession {
	rows, err := s.db.Query(`SELECT record FROM payment_sessions`)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to scan payment sessions")
		return []domain.PaymentSession{}
	}
	defer rows.Close()

	sessions := []domain.PaymentSession{}
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			s.logger.Error().Err(err).Msg("Failed to scan payment session row")
			continue
		}
		var session domain.PaymentSession
		if err := json.Unmarshal([]byte(record), &session); err != nil {
			s.logger.Warn().Err(err).Msg("Skipping corrupt payment session record")
			continue
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		s.logger.Error().Err(err).Msg("Payment session scan aborted")
	}
	return sessions
}
