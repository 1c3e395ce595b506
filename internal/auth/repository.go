package auth

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	ErrSessionNotFound   = errors.New("refresh session not found")
	ErrUser2FANotEnabled = errors.New("two-factor authentication is not enabled")
)

// SessionRepository persists refresh sessions so they survive restarts and
// can be revoked or purged once expired.
type SessionRepository interface {
	SaveSession(userID, tokenHash string, expiresAt time.Time) error
	FindSessionUser(tokenHash string) (string, time.Time, error)
	DeleteSession(tokenHash string) error
	DeleteSessionsByUser(userID string) error
	DeleteExpiredSessions() (int64, error)
	SaveTwoFactorSecret(userID, secret string) error
	GetTwoFactorSecret(userID string) (string, error)
	EnableTwoFactor(userID string) error
	DisableTwoFactor(userID string) error
}

type sessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) SaveSession(userID, tokenHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO refresh_sessions (user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, NOW())
	`
	_, err := r.db.Exec(query, userID, tokenHash, expiresAt)
	if err != nil {
		return fmt.Errorf("could not save refresh session: %v", err)
	}
	return nil
}

func (r *sessionRepository) FindSessionUser(tokenHash string) (string, time.Time, error) {
	query := `
		SELECT user_id, expires_at
		FROM refresh_sessions
		WHERE token_hash = $1
	`
	var userID string
	var expiresAt time.Time
	err := r.db.QueryRow(query, tokenHash).Scan(&userID, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", time.Time{}, ErrSessionNotFound
		}
		return "", time.Time{}, fmt.Errorf("could not find refresh session: %v", err)
	}
	return userID, expiresAt, nil
}

func (r *sessionRepository) DeleteSession(tokenHash string) error {
	_, err := r.db.Exec(`DELETE FROM refresh_sessions WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return fmt.Errorf("could not delete refresh session: %v", err)
	}
	return nil
}

func (r *sessionRepository) DeleteSessionsByUser(userID string) error {
	_, err := r.db.Exec(`DELETE FROM refresh_sessions WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("could not delete refresh sessions: %v", err)
	}
	return nil
}

// DeleteExpiredSessions drops every session past its expiry and reports how
// many were removed. Scheduled hourly from main.
func (r *sessionRepository) DeleteExpiredSessions() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM refresh_sessions WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("could not delete expired sessions: %v", err)
	}
	return result.RowsAffected()
}

func (r *sessionRepository) SaveTwoFactorSecret(userID, secret string) error {
	query := `
		INSERT INTO user_two_factor_secrets (user_id, secret, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET secret = EXCLUDED.secret,
		    created_at = NOW()
	`
	_, err := r.db.Exec(query, userID, secret)
	if err != nil {
		return ErrInternalError
	}
	return nil
}

func (r *sessionRepository) GetTwoFactorSecret(userID string) (string, error) {
	var secret string
	query := `
		SELECT secret
		FROM user_two_factor_secrets
		WHERE user_id = $1
	`
	err := r.db.QueryRow(query, userID).Scan(&secret)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrUser2FANotEnabled
		}
		return "", ErrInternalError
	}
	return secret, nil
}

func (r *sessionRepository) EnableTwoFactor(userID string) error {
	query := `
		UPDATE users
		SET two_factor_enabled = TRUE, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(query, userID)
	if err != nil {
		return ErrInternalError
	}
	return nil
}

func (r *sessionRepository) DisableTwoFactor(userID string) error {
	query := `
		UPDATE users
		SET two_factor_enabled = FALSE, updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.db.Exec(query, userID); err != nil {
		return fmt.Errorf("could not disable two-factor authentication: %v", err)
	}
	if _, err := r.db.Exec(`DELETE FROM user_two_factor_secrets WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("could not delete TOTP secret: %v", err)
	}
	return nil
}
