// Package auth implements email/password sign in and registration for the mobile client.
// A successful flow yields the session record the device keeps under its session key.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"adhi/internal/accounts"
	"adhi/internal/navigation"
	"adhi/internal/session"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrMissingCredentials is returned when email or password is empty
	ErrMissingCredentials = errors.New("email and password are required")
	// ErrInvalidCredentials is returned when email and password do not match an account
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrRoleRequired is returned when registration has no account type
	ErrRoleRequired = errors.New("account type is required")
	// ErrInvalidRole is returned when the account type is unknown
	ErrInvalidRole = errors.New("account type must be lawyer or client")
	// ErrMissingFields is returned when a registration field is empty
	ErrMissingFields = errors.New("all fields are required")
	// ErrInvalidEmail is returned when the email address does not parse
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrPasswordMismatch is returned when password and confirmation differ
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrPasswordTooLong is returned when the password exceeds what bcrypt can hash
	ErrPasswordTooLong = errors.New("password is too long")
	// ErrEmailExists is returned when email is already registered
	ErrEmailExists = accounts.ErrEmailExists
)

// MaxPasswordBytes is the longest password bcrypt accepts
const MaxPasswordBytes = 72

// Service defines the authentication service interface
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*session.Session, error)
	Register(ctx context.Context, req RegisterRequest) (*session.Session, error)
}

// service implements the Service interface
type service struct {
	accounts accounts.Repository
	hashCost int
}

// NewService creates a new authentication service
func NewService(repo accounts.Repository) Service {
	return &service{
		accounts: repo,
		hashCost: bcrypt.DefaultCost,
	}
}

// Login checks the credentials and returns the session to store
func (s *service) Login(ctx context.Context, req LoginRequest) (*session.Session, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if errors.Is(err, accounts.ErrAccountNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return sessionFor(account), nil
}

// Register validates the form, creates the account and returns the session to store
func (s *service) Register(ctx context.Context, req RegisterRequest) (*session.Session, error) {
	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &accounts.Account{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(hash),
		Role:         req.Role,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	return sessionFor(account), nil
}

func validateRegistration(req RegisterRequest) error {
	if req.Role == "" {
		return ErrRoleRequired
	}
	if navigation.Role(req.Role) != navigation.RoleLawyer && navigation.Role(req.Role) != navigation.RoleClient {
		return ErrInvalidRole
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" ||
		req.Password == "" || req.ConfirmPassword == "" {
		return ErrMissingFields
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(req.Email)); err != nil {
		return ErrInvalidEmail
	}
	if req.Password != req.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if len(req.Password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

func sessionFor(account *accounts.Account) *session.Session {
	return &session.Session{
		Role:  account.Role,
		Name:  account.Name,
		Email: account.Email,
	}
}
