package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/Mcdemzy/plenty-events-backend/internal/model"
)

const verificationTokenBytes = 32

// welcomeEmailTimeout bounds the detached welcome-email send so it can never
// hold a goroutine indefinitely.
const welcomeEmailTimeout = 10 * time.Second

// VerificationService manages single-use, expiring email-verification tokens.
type VerificationService struct {
	store       AccountStore
	mailer      EmailSender
	logger      zerolog.Logger
	frontendURL string
	ttl         time.Duration
}

func NewVerificationService(store AccountStore, mailer EmailSender, logger zerolog.Logger, frontendURL string, ttl time.Duration) *VerificationService {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &VerificationService{
		store:       store,
		mailer:      mailer,
		logger:      logger,
		frontendURL: frontendURL,
		ttl:         ttl,
	}
}

func generateVerificationToken() (string, error) {
	b := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate verification token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Issue generates a fresh opaque token with a 24h expiry, persists it on the
// account (replacing any outstanding token, which becomes permanently
// invalid) and mails the verification link. A delivery failure is returned
// to the caller.
func (s *VerificationService) Issue(ctx context.Context, account *model.Account) error {
	token, err := generateVerificationToken()
	if err != nil {
		return err
	}
	expires := time.Now().Add(s.ttl)

	if err := s.store.SetVerificationToken(ctx, account.Role, account.ID, token, expires); err != nil {
		return fmt.Errorf("persist verification token: %w", err)
	}

	link := fmt.Sprintf("%s/verify-email?token=%s&type=%s",
		s.frontendURL, url.QueryEscape(token), url.QueryEscape(account.Role))
	if err := s.mailer.SendVerificationEmail(ctx, account.Email, account.FullName(), link); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

// Consume redeems a verification token exactly once: the store marks the
// account verified and clears the token atomically, so a second attempt with
// the same token fails with ErrInvalidOrExpiredToken. The welcome email is
// fired on a detached context and never fails the verification.
func (s *VerificationService) Consume(ctx context.Context, role, token string) (*model.Account, error) {
	if token == "" {
		return nil, ErrInvalidOrExpiredToken
	}

	account, err := s.store.ConsumeVerificationToken(ctx, role, token)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, err
	}

	go func() {
		wctx, cancel := context.WithTimeout(context.Background(), welcomeEmailTimeout)
		defer cancel()
		if err := s.mailer.SendWelcomeEmail(wctx, account.Email, account.FullName()); err != nil {
			s.logger.Error().Err(err).
				Str("role", account.Role).
				Str("email", account.Email).
				Msg("failed to send welcome email")
		}
	}()

	return account.Sanitized(), nil
}

// Resend re-issues a verification token for an unverified account. The prior
// token is overwritten and can no longer be consumed, even if unexpired.
func (s *VerificationService) Resend(ctx context.Context, role, email string) error {
	account, err := s.store.GetByEmail(ctx, role, normalizeEmail(email))
	if err != nil {
		return err
	}
	if account.Verification.IsEmailVerified {
		return ErrAlreadyVerified
	}
	return s.Issue(ctx, account)
}
