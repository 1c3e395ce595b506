package user

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxEmailLength = 254
	minEmailLength = 3
	maxNameLength  = 255
	bcryptCost     = 12
)

var (
	ErrInvalidEmail       = errors.New("email address is not valid")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrNameRequired       = errors.New("name is required")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrInvalidOldPassword = errors.New("invalid old password")
	ErrInternalError      = errors.New("internal Server Error")
)

type User struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// DefaultAccountCreator opens the user's first ledger account during
// registration, named after the lowercased user name.
type DefaultAccountCreator interface {
	CreateDefaultAccount(userID, name string) error
}

type Service interface {
	Register(name, email, password string) (*User, error)
	GetUserByID(userID string) (*User, error)
	GetUserByEmail(email string) (*User, error)
	ChangePasswordWithOldPassword(userID, oldPassword, newPassword string) error
}

type service struct {
	repo           Repository
	accountCreator DefaultAccountCreator
}

func NewUserService(repo Repository, accountCreator DefaultAccountCreator) Service {
	return &service{
		repo:           repo,
		accountCreator: accountCreator,
	}
}

func hashPassword(password string) (string, error) {
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(hashedPasswordBytes), err
}

func validateEmailAddress(email string) error {
	if err := checkmail.ValidateFormat(email); err != nil {
		return ErrInvalidEmail
	}
	if len(email) > maxEmailLength || len(email) <= minEmailLength {
		return ErrInvalidEmail
	}
	return nil
}

func (s *service) Register(name, email, password string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxNameLength {
		return nil, ErrNameRequired
	}
	if err := validateEmailAddress(email); err != nil {
		return nil, err
	}
	if len(password) < 6 {
		return nil, ErrPasswordTooShort
	}

	_, err := s.repo.getUserByEmail(email)
	if err == nil {
		return nil, ErrEmailAlreadyExists
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("could not hash password: %v", err)
	}

	user := &User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := s.repo.createUser(user); err != nil {
		return nil, err
	}

	if err := s.accountCreator.CreateDefaultAccount(user.ID, name); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) GetUserByID(userID string) (*User, error) {
	return s.repo.getUserByID(userID)
}

func (s *service) GetUserByEmail(email string) (*User, error) {
	return s.repo.getUserByEmail(email)
}

func (s *service) ChangePasswordWithOldPassword(userID, oldPassword, newPassword string) error {
	user, err := s.repo.getUserByID(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidOldPassword
	}
	if len(newPassword) < 6 {
		return ErrPasswordTooShort
	}
	newHash, err := hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("could not hash password: %v", err)
	}
	return s.repo.updateUserPassword(userID, newHash)
}
