package services

import "context"

// EmailSender is the notification sink. Verification delivery failure is
// surfaced to the caller; welcome delivery is best-effort only.
type EmailSender interface {
	SendVerificationEmail(ctx context.Context, toEmail, name, verifyURL string) error
	SendWelcomeEmail(ctx context.Context, toEmail, name string) error
}
