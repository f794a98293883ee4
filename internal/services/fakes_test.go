package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Mcdemzy/plenty-events-backend/internal/model"
)

// fakeStore is an in-memory AccountStore honoring the same contract as the
// pgx repository: duplicate detection on (role, email) and atomic token
// consumption.
type fakeStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*model.Account
}

func newFakeStore() *fakeStore {
	return &fakeStore{accounts: map[uuid.UUID]*model.Account{}}
}

func copyAccount(a *model.Account) *model.Account {
	out := *a
	out.Profile = model.Profile{}
	for k, v := range a.Profile {
		out.Profile[k] = v
	}
	return &out
}

func (s *fakeStore) Create(ctx context.Context, a *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.accounts {
		if existing.Role == a.Role && existing.Email == a.Email {
			return model.ErrDuplicateAccount
		}
	}
	s.accounts[a.ID] = copyAccount(a)
	return nil
}

func (s *fakeStore) GetByEmail(ctx context.Context, role, email string) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Role == role && a.Email == email {
			return copyAccount(a), nil
		}
	}
	return nil, model.ErrAccountNotFound
}

func (s *fakeStore) GetByID(ctx context.Context, role string, id uuid.UUID) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok || a.Role != role {
		return nil, model.ErrAccountNotFound
	}
	return copyAccount(a), nil
}

func (s *fakeStore) UpdateProfile(ctx context.Context, role string, id uuid.UUID, fields model.Profile) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok || a.Role != role {
		return nil, model.ErrAccountNotFound
	}
	for k, v := range fields {
		a.Profile[k] = v
	}
	a.UpdatedAt = time.Now()
	return copyAccount(a), nil
}

func (s *fakeStore) UpdatePassword(ctx context.Context, role string, id uuid.UUID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok || a.Role != role {
		return model.ErrAccountNotFound
	}
	a.PasswordHash = passwordHash
	a.UpdatedAt = time.Now()
	return nil
}

func (s *fakeStore) SetVerificationToken(ctx context.Context, role string, id uuid.UUID, token string, expires time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok || a.Role != role {
		return model.ErrAccountNotFound
	}
	a.Verification.EmailVerificationToken = &token
	a.Verification.EmailVerificationExpires = &expires
	a.UpdatedAt = time.Now()
	return nil
}

func (s *fakeStore) ConsumeVerificationToken(ctx context.Context, role, token string) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for _, a := range s.accounts {
		if a.Role != role || a.Verification.EmailVerificationToken == nil {
			continue
		}
		if *a.Verification.EmailVerificationToken != token {
			continue
		}
		if a.Verification.EmailVerificationExpires == nil || !now.Before(*a.Verification.EmailVerificationExpires) {
			continue
		}
		a.Verification.IsEmailVerified = true
		a.Verification.EmailVerificationToken = nil
		a.Verification.EmailVerificationExpires = nil
		a.UpdatedAt = now
		return copyAccount(a), nil
	}
	return nil, model.ErrAccountNotFound
}

// expireToken backdates an outstanding token for expiry tests.
func (s *fakeStore) expireToken(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	past := time.Now().Add(-time.Minute)
	s.accounts[id].Verification.EmailVerificationExpires = &past
}

func (s *fakeStore) outstandingToken(id uuid.UUID) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accounts[id]
	if a == nil || a.Verification.EmailVerificationToken == nil {
		return ""
	}
	return *a.Verification.EmailVerificationToken
}

func (s *fakeStore) passwordHash(id uuid.UUID) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[id].PasswordHash
}

func (s *fakeStore) deactivate(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[id].IsActive = false
}

func (s *fakeStore) remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, id)
}

type sentEmail struct {
	To   string
	Name string
	URL  string
}

// fakeMailer records sends and can be told to fail either email kind.
type fakeMailer struct {
	mu               sync.Mutex
	verifications    []sentEmail
	welcomes         []sentEmail
	failVerification bool
	failWelcome      bool
	welcomeSent      chan struct{}
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{welcomeSent: make(chan struct{}, 8)}
}

func (m *fakeMailer) SendVerificationEmail(ctx context.Context, toEmail, name, verifyURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failVerification {
		return errors.New("smtp unavailable")
	}
	m.verifications = append(m.verifications, sentEmail{To: toEmail, Name: name, URL: verifyURL})
	return nil
}

func (m *fakeMailer) SendWelcomeEmail(ctx context.Context, toEmail, name string) error {
	m.mu.Lock()
	fail := m.failWelcome
	if !fail {
		m.welcomes = append(m.welcomes, sentEmail{To: toEmail, Name: name})
	}
	m.mu.Unlock()
	m.welcomeSent <- struct{}{}
	if fail {
		return errors.New("smtp unavailable")
	}
	return nil
}

func (m *fakeMailer) verificationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.verifications)
}

func (m *fakeMailer) lastVerification() sentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.verifications[len(m.verifications)-1]
}
