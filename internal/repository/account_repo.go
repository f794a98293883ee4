package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Mcdemzy/plenty-events-backend/internal/model"
)

const uniqueViolation = "23505"

const accountColumns = `id, role, email, password_hash, profile, is_active,
	is_email_verified, email_verification_token, email_verification_expires,
	created_at, updated_at`

// AccountRepository persists accounts for all role namespaces in one table
// with a (role, email) uniqueness constraint.
type AccountRepository struct {
	DB *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{DB: db}
}

func scanAccount(row pgx.Row) (*model.Account, error) {
	var a model.Account
	err := row.Scan(
		&a.ID, &a.Role, &a.Email, &a.PasswordHash, &a.Profile, &a.IsActive,
		&a.Verification.IsEmailVerified,
		&a.Verification.EmailVerificationToken,
		&a.Verification.EmailVerificationExpires,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Create inserts a new account. A uniqueness violation, including one raised
// by a concurrent insert of the same email, surfaces as ErrDuplicateAccount.
func (r *AccountRepository) Create(ctx context.Context, a *model.Account) error {
	query := `INSERT INTO accounts (id, role, email, password_hash, profile, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.Exec(ctx, query,
		a.ID, a.Role, a.Email, a.PasswordHash, a.Profile, a.IsActive, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.ErrDuplicateAccount
		}
		return err
	}
	return nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, role, email string) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE role = $1 AND email = $2`
	return scanAccount(r.DB.QueryRow(ctx, query, role, email))
}

func (r *AccountRepository) GetByID(ctx context.Context, role string, id uuid.UUID) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE role = $1 AND id = $2`
	return scanAccount(r.DB.QueryRow(ctx, query, role, id))
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, role string, id uuid.UUID, fields model.Profile) (*model.Account, error) {
	query := `UPDATE accounts
		SET profile = profile || $3, updated_at = now()
		WHERE role = $1 AND id = $2
		RETURNING ` + accountColumns
	return scanAccount(r.DB.QueryRow(ctx, query, role, id, fields))
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, role string, id uuid.UUID, passwordHash string) error {
	query := `UPDATE accounts SET password_hash = $3, updated_at = now() WHERE role = $1 AND id = $2`
	tag, err := r.DB.Exec(ctx, query, role, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAccountNotFound
	}
	return nil
}

// SetVerificationToken overwrites any outstanding token, which invalidates it
// permanently even if unexpired.
func (r *AccountRepository) SetVerificationToken(ctx context.Context, role string, id uuid.UUID, token string, expires time.Time) error {
	query := `UPDATE accounts
		SET email_verification_token = $3, email_verification_expires = $4, updated_at = now()
		WHERE role = $1 AND id = $2`
	tag, err := r.DB.Exec(ctx, query, role, id, token, expires)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAccountNotFound
	}
	return nil
}

// ConsumeVerificationToken checks expiry and clears the token in a single
// UPDATE, so concurrent consumers cannot both redeem the same token.
func (r *AccountRepository) ConsumeVerificationToken(ctx context.Context, role, token string) (*model.Account, error) {
	query := `UPDATE accounts
		SET is_email_verified = true,
			email_verification_token = NULL,
			email_verification_expires = NULL,
			updated_at = now()
		WHERE role = $1
			AND email_verification_token = $2
			AND email_verification_expires > now()
		RETURNING ` + accountColumns
	return scanAccount(r.DB.QueryRow(ctx, query, role, token))
}
