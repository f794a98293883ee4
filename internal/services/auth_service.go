package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Mcdemzy/plenty-events-backend/internal/model"
)

const MinPasswordLen = 6

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AuthService implements registration, login and credential management for
// one role namespace. Vendor and waiter instances share this code and differ
// only in their RoleDescriptor and sit on the same store.
type AuthService struct {
	role     RoleDescriptor
	store    AccountStore
	hasher   *PasswordHasher
	tokens   *TokenService
	verifier *VerificationService
	emails   EmailValidator
	logger   zerolog.Logger
}

func NewAuthService(role RoleDescriptor, store AccountStore, hasher *PasswordHasher, tokens *TokenService, verifier *VerificationService, emails EmailValidator, logger zerolog.Logger) *AuthService {
	return &AuthService{
		role:     role,
		store:    store,
		hasher:   hasher,
		tokens:   tokens,
		verifier: verifier,
		emails:   emails,
		logger:   logger,
	}
}

func (s *AuthService) Role() RoleDescriptor { return s.role }

func (s *AuthService) validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	return nil
}

func (s *AuthService) validatePassword(pw string) error {
	if len(pw) < MinPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLen)
	}
	return nil
}

func (s *AuthService) validateRequiredProfile(profile model.Profile) error {
	var missing []string
	for _, field := range s.role.RequiredProfileFields {
		v, ok := profile[field].(string)
		if !ok || strings.TrimSpace(v) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// Register creates an account with a hashed credential and grants a session
// token immediately; verification gates only the email-confirmed flag, not
// login. The verification email is best-effort here: a delivery failure is
// logged and registration still succeeds.
func (s *AuthService) Register(ctx context.Context, email, password string, profile model.Profile) (string, *model.Account, error) {
	email = normalizeEmail(email)
	if err := s.validateEmail(email); err != nil {
		return "", nil, err
	}
	if err := s.validatePassword(password); err != nil {
		return "", nil, err
	}
	if profile == nil {
		profile = model.Profile{}
	}
	if err := s.validateRequiredProfile(profile); err != nil {
		return "", nil, err
	}
	if s.emails != nil {
		if err := s.emails.Validate(ctx, email); err != nil {
			return "", nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
		}
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", nil, err
	}

	stored := model.Profile{}
	for _, field := range s.role.ProfileFields() {
		if v, ok := profile[field]; ok {
			stored[field] = v
		}
	}

	now := time.Now()
	account := &model.Account{
		ID:           uuid.New(),
		Role:         s.role.Name,
		Email:        email,
		PasswordHash: hash,
		Profile:      stored,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Concurrent registrations with the same email are serialized by the
	// store's uniqueness constraint, not by application locking.
	if err := s.store.Create(ctx, account); err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(account.ID, account.Role)
	if err != nil {
		return "", nil, err
	}

	if err := s.verifier.Issue(ctx, account); err != nil {
		s.logger.Error().Err(err).
			Str("role", account.Role).
			Str("email", account.Email).
			Msg("failed to send verification email")
	}

	return token, account.Sanitized(), nil
}

// Login returns the same ErrInvalidCredentials for an unknown email and a
// wrong password, so callers cannot probe which emails are registered.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.Account, error) {
	account, err := s.store.GetByEmail(ctx, s.role.Name, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !s.hasher.Verify(password, account.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}
	if !account.IsActive {
		return "", nil, ErrAccountDeactivated
	}

	token, err := s.tokens.Issue(account.ID, account.Role)
	if err != nil {
		return "", nil, err
	}
	return token, account.Sanitized(), nil
}

func (s *AuthService) GetCurrentAccount(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	account, err := s.store.GetByID(ctx, s.role.Name, id)
	if err != nil {
		return nil, err
	}
	return account.Sanitized(), nil
}

// UpdateProfile applies a partial update restricted to the role's updatable
// fields; anything else in the request body is dropped.
func (s *AuthService) UpdateProfile(ctx context.Context, id uuid.UUID, fields model.Profile) (*model.Account, error) {
	updates := model.Profile{}
	for _, field := range s.role.UpdatableProfileFields {
		if v, ok := fields[field]; ok {
			updates[field] = v
		}
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no updatable fields provided", ErrValidation)
	}

	account, err := s.store.UpdateProfile(ctx, s.role.Name, id, updates)
	if err != nil {
		return nil, err
	}
	return account.Sanitized(), nil
}

// UpdatePassword re-hashes and persists the new credential and issues a fresh
// token. Previously issued tokens stay valid until their own expiry.
func (s *AuthService) UpdatePassword(ctx context.Context, id uuid.UUID, currentPassword, newPassword string) (string, error) {
	if err := s.validatePassword(newPassword); err != nil {
		return "", err
	}

	account, err := s.store.GetByID(ctx, s.role.Name, id)
	if err != nil {
		return "", err
	}
	if !s.hasher.Verify(currentPassword, account.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return "", err
	}
	if err := s.store.UpdatePassword(ctx, s.role.Name, id, hash); err != nil {
		return "", err
	}

	return s.tokens.Issue(account.ID, account.Role)
}
