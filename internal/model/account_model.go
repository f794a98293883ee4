package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role namespaces. Email uniqueness and credential lookup are scoped per role.
const (
	RoleVendor = "vendor"
	RoleWaiter = "waiter"
)

func ValidRole(role string) bool {
	return role == RoleVendor || role == RoleWaiter
}

// Profile holds role-specific fields the auth core carries opaquely.
type Profile map[string]any

// Verification tracks the email-confirmation state of an account.
// Token and expiry are nil unless a verification is outstanding; they are
// always set and cleared together.
type Verification struct {
	IsEmailVerified          bool       `json:"isEmailVerified"`
	EmailVerificationToken   *string    `json:"-"`
	EmailVerificationExpires *time.Time `json:"-"`
}

// Outstanding reports whether an unexpired verification token is set.
// An expired token is treated the same as an absent one.
func (v Verification) Outstanding(now time.Time) bool {
	return v.EmailVerificationToken != nil &&
		v.EmailVerificationExpires != nil &&
		now.Before(*v.EmailVerificationExpires)
}

type Account struct {
	ID           uuid.UUID    `json:"id"`
	Role         string       `json:"role"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // never JSON-encode
	Profile      Profile      `json:"profile"`
	IsActive     bool         `json:"isActive"`
	Verification Verification `json:"verification"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Sanitized returns a copy safe to hand outward: credential and verification
// secrets zeroed on top of their json:"-" tags.
func (a *Account) Sanitized() *Account {
	out := *a
	out.PasswordHash = ""
	out.Verification.EmailVerificationToken = nil
	out.Verification.EmailVerificationExpires = nil
	return &out
}

// FullName builds a display name from the profile for outbound email,
// falling back to the address itself.
func (a *Account) FullName() string {
	first, _ := a.Profile["firstName"].(string)
	last, _ := a.Profile["lastName"].(string)
	name := strings.TrimSpace(first + " " + last)
	if name == "" {
		return a.Email
	}
	return name
}
