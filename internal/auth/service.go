// ABOUTME: Registration and login built on bcrypt hashes and the user table
// ABOUTME: Enforces the single-admin bootstrap policy and provisions defaults

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/focusflow/focusflow/internal/store"
)

// bcryptCost is the work factor for password hashes. 12 rounds keeps
// offline brute force expensive at interactive-login latency.
const bcryptCost = 12

// Service errors
var (
	// ErrValidation is returned when email or password is missing.
	ErrValidation = errors.New("email and password required")

	// ErrRegistrationClosed is returned once any user exists. Only the
	// very first caller may ever self-register.
	ErrRegistrationClosed = errors.New("registration disabled")

	// ErrInvalidCredentials is returned on login failure. Unknown email
	// and wrong password produce it identically so callers cannot
	// enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// dummyHash is compared against when the email is unknown, keeping the
// unknown-email and wrong-password paths at the same bcrypt cost.
const dummyHash = "$2a$12$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Provisioner seeds starting data for a newly registered user.
type Provisioner interface {
	Provision(ctx context.Context, userID string) error
}

// Service registers and authenticates users.
type Service struct {
	store       store.Store
	provisioner Provisioner
	logger      *slog.Logger
}

// NewService creates an auth service backed by the given store.
func NewService(s store.Store, p Provisioner) *Service {
	return &Service{
		store:       s,
		provisioner: p,
		logger:      slog.Default().With("component", "auth"),
	}
}

// HasUsers reports whether any user has registered yet.
func (s *Service) HasUsers(ctx context.Context) (bool, error) {
	count, err := s.store.CountUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("counting users: %w", err)
	}
	return count > 0, nil
}

// Register creates the first (and only) user account, provisions its
// default records and returns the new user ID. After one user exists every
// further call fails with ErrRegistrationClosed regardless of email.
func (s *Service) Register(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrValidation
	}

	count, err := s.store.CountUsers(ctx)
	if err != nil {
		return "", fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		return "", ErrRegistrationClosed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	user := &store.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return "", store.ErrDuplicateEmail
		}
		return "", fmt.Errorf("creating user: %w", err)
	}

	// Provisioning runs synchronously so the first authenticated read
	// already sees the stored defaults.
	if err := s.provisioner.Provision(ctx, user.ID); err != nil {
		return "", fmt.Errorf("provisioning defaults: %w", err)
	}

	s.logger.Info("registered user", "user_id", user.ID)
	return user.ID, nil
}

// Login checks the credentials and returns the user ID on success.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrValidation
	}

	user, err := s.store.GetUserByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Dummy comparison keeps timing consistent with the
			// wrong-password path.
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	s.logger.Info("login successful", "user_id", user.ID)
	return user.ID, nil
}
