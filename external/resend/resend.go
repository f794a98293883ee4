package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ResendMailer delivers transactional email through the Resend HTTP API.
type ResendMailer struct {
	apiKey  string
	from    string
	client  *http.Client
	baseURL string
}

func NewResendMailer(apiKey, from string) (*ResendMailer, error) {
	if apiKey == "" {
		return nil, errors.New("resend api key not set")
	}
	return &ResendMailer{
		apiKey: apiKey,
		from:   from,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: "https://api.resend.com",
	}, nil
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (m *ResendMailer) send(ctx context.Context, req sendRequest) error {
	b, err := json.Marshal(req)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		m.baseURL+"/emails",
		bytes.NewBuffer(b),
	)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Authorization", "Bearer "+m.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		return errors.New("failed to send email: " + buf.String())
	}
	return nil
}

func (m *ResendMailer) SendVerificationEmail(ctx context.Context, toEmail, name, verifyURL string) error {
	return m.send(ctx, sendRequest{
		From:    m.from,
		To:      []string{toEmail},
		Subject: "Verify Your Email - Plenty Events",
		HTML: fmt.Sprintf(`
			<h2>Verify Your Email Address</h2>
			<p>Hello %s,</p>
			<p>Thank you for signing up with Plenty Events! Please verify your email address to complete your registration.</p>
			<p><a href="%s">Verify Email</a></p>
			<p>If the link doesn't work, copy and paste this URL into your browser:</p>
			<p>%s</p>
			<p>This link will expire in 24 hours.</p>
			<p>If you didn't create an account with Plenty Events, please ignore this email.</p>
		`, name, verifyURL, verifyURL),
	})
}

func (m *ResendMailer) SendWelcomeEmail(ctx context.Context, toEmail, name string) error {
	return m.send(ctx, sendRequest{
		From:    m.from,
		To:      []string{toEmail},
		Subject: "Welcome to Plenty Events!",
		HTML: fmt.Sprintf(`
			<h2>Hello %s!</h2>
			<p>Your email has been successfully verified. Welcome to the Plenty Events community!</p>
			<p>You can now access all features of our platform.</p>
			<p>If you have any questions, feel free to contact our support team.</p>
		`, name),
	})
}
