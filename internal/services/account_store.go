package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Mcdemzy/plenty-events-backend/internal/model"
)

// AccountStore is the persistence contract the auth core depends on. All
// methods are scoped by role namespace. Implementations must guarantee:
//   - Create returns model.ErrDuplicateAccount on an email-uniqueness
//     violation, including under concurrent registration.
//   - ConsumeVerificationToken is atomic: it matches an unexpired token,
//     marks the account verified and clears the token in one operation, so
//     two concurrent consumers cannot both succeed.
type AccountStore interface {
	Create(ctx context.Context, account *model.Account) error
	GetByEmail(ctx context.Context, role, email string) (*model.Account, error)
	GetByID(ctx context.Context, role string, id uuid.UUID) (*model.Account, error)
	UpdateProfile(ctx context.Context, role string, id uuid.UUID, fields model.Profile) (*model.Account, error)
	UpdatePassword(ctx context.Context, role string, id uuid.UUID, passwordHash string) error
	SetVerificationToken(ctx context.Context, role string, id uuid.UUID, token string, expires time.Time) error
	ConsumeVerificationToken(ctx context.Context, role, token string) (*model.Account, error)
}
