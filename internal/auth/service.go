package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/sebuszqo/PocketLedger/internal/user"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrTwoFactorRequired    = errors.New("two-factor code required")
	ErrInvalidTwoFactorCode = errors.New("invalid two-factor code")
	ErrInternalError        = errors.New("internal Server Error")
)

type UserService interface {
	GetUserByEmail(email string) (*user.User, error)
	GetUserByID(userID string) (*user.User, error)
}

type LoginResult struct {
	User        *user.User `json:"user"`
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresAt   time.Time  `json:"expires_at"`
}

type Service interface {
	Login(email, password, twoFactorCode string) (*LoginResult, string, error)
	RefreshAccessToken(refreshToken string) (string, time.Time, error)
	Logout(refreshToken string) error
	RegisterTwoFactor(userID string) (string, string, error)
	VerifyTwoFactorRegistration(userID, code string) error
	DisableTwoFactor(userID string) error
	PurgeExpiredSessions() (int64, error)
	JWTAccessTokenMiddleware() func(http.Handler) http.Handler
	JWTRefreshTokenMiddleware() func(http.Handler) http.Handler
}

type service struct {
	repo          SessionRepository
	userService   UserService
	jwtManager    JWTManagerInterface
	authenticator Authenticator
}

func NewAuthService(repo SessionRepository, userService UserService, jwtManager JWTManagerInterface, authenticator Authenticator) Service {
	return &service{
		repo:          repo,
		userService:   userService,
		jwtManager:    jwtManager,
		authenticator: authenticator,
	}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Login verifies credentials (and the TOTP code when 2FA is enabled),
// revokes previous refresh sessions and opens a new one. Returns the login
// payload plus the raw refresh token for the http-only cookie.
func (s *service) Login(email, password, twoFactorCode string) (*LoginResult, string, error) {
	existingUser, err := s.userService.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", ErrInternalError
	}

	if err := bcrypt.CompareHashAndPassword([]byte(existingUser.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if existingUser.TwoFactorEnabled {
		if twoFactorCode == "" {
			return nil, "", ErrTwoFactorRequired
		}
		secret, err := s.repo.GetTwoFactorSecret(existingUser.ID)
		if err != nil {
			return nil, "", ErrInternalError
		}
		if !s.authenticator.VerifyCode(secret, twoFactorCode) {
			return nil, "", ErrInvalidTwoFactorCode
		}
	}

	// One active refresh session per user, matching the original's
	// revoke-all-tokens-on-login behavior.
	if err := s.repo.DeleteSessionsByUser(existingUser.ID); err != nil {
		return nil, "", ErrInternalError
	}

	accessToken, expiresAt, err := s.jwtManager.GenerateAccessJWT(existingUser.ID, defaultJWTDuration)
	if err != nil {
		return nil, "", ErrInternalError
	}
	refreshToken, refreshExpiresAt, err := s.jwtManager.GenerateRefreshJWT(existingUser.ID, defaultJWTRefreshDuration)
	if err != nil {
		return nil, "", ErrInternalError
	}
	if err := s.repo.SaveSession(existingUser.ID, hashToken(refreshToken), refreshExpiresAt); err != nil {
		return nil, "", ErrInternalError
	}

	return &LoginResult{
		User:        existingUser,
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, refreshToken, nil
}

func (s *service) RefreshAccessToken(refreshToken string) (string, time.Time, error) {
	userID, err := s.jwtManager.ExtractUserIDFromRefreshToken(refreshToken)
	if err != nil {
		return "", time.Time{}, err
	}

	sessionUserID, expiresAt, err := s.repo.FindSessionUser(hashToken(refreshToken))
	if err != nil {
		return "", time.Time{}, ErrInvalidJWTToken
	}
	if sessionUserID != userID || time.Now().After(expiresAt) {
		return "", time.Time{}, ErrExpiredJWTToken
	}

	return s.jwtManager.GenerateAccessJWT(userID, defaultJWTDuration)
}

func (s *service) Logout(refreshToken string) error {
	return s.repo.DeleteSession(hashToken(refreshToken))
}

func (s *service) RegisterTwoFactor(userID string) (string, string, error) {
	existingUser, err := s.userService.GetUserByID(userID)
	if err != nil {
		return "", "", ErrInternalError
	}

	otpURI, secret, err := s.authenticator.GenerateSecret(existingUser.Email)
	if err != nil {
		return "", "", err
	}
	if err := s.repo.SaveTwoFactorSecret(userID, secret); err != nil {
		return "", "", err
	}
	return otpURI, secret, nil
}

func (s *service) VerifyTwoFactorRegistration(userID, code string) error {
	secret, err := s.repo.GetTwoFactorSecret(userID)
	if err != nil {
		return err
	}
	if !s.authenticator.VerifyCode(secret, code) {
		return ErrInvalidTwoFactorCode
	}
	return s.repo.EnableTwoFactor(userID)
}

func (s *service) DisableTwoFactor(userID string) error {
	return s.repo.DisableTwoFactor(userID)
}

// PurgeExpiredSessions removes refresh sessions past their expiry. It backs
// the hourly cleanup scheduler.
func (s *service) PurgeExpiredSessions() (int64, error) {
	count, err := s.repo.DeleteExpiredSessions()
	if err != nil {
		return 0, err
	}
	if count > 0 {
		log.Printf("Removed %d expired refresh sessions", count)
	}
	return count, nil
}
