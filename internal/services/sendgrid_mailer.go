package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Mailer sends the transactional emails the platform needs: invites from the
// admin console and password-reset links.
type Mailer interface {
	SendInvite(ctx context.Context, toEmail, toName, resetToken string) error
	SendPasswordReset(ctx context.Context, toEmail, resetToken string) error
}

type SendGridMailer struct {
	APIKey     string
	FromEmail  string
	SiteURL    string
	HTTPClient *http.Client
	Endpoint   string
}

func NewSendGridMailer(apiKey, fromEmail, siteURL string) *SendGridMailer {
	return &SendGridMailer{
		APIKey:    strings.TrimSpace(apiKey),
		FromEmail: strings.TrimSpace(fromEmail),
		SiteURL:   strings.TrimRight(strings.TrimSpace(siteURL), "/"),
		Endpoint:  "https://api.sendgrid.com/v3/mail/send",
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type sendGridEmailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridPersonalization struct {
	To      []sendGridEmailAddress `json:"to"`
	Subject string                 `json:"subject"`
}

type sendGridMailSendRequest struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridEmailAddress      `json:"from"`
	Content          []sendGridContent         `json:"content"`
}

// SendInvite mails a new user their set-password link. The link carries the
// one-shot reset token, so accepting the invite and finishing a password
// reset share a flow.
func (m *SendGridMailer) SendInvite(ctx context.Context, toEmail, toName, resetToken string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.SiteURL, url.QueryEscape(resetToken))
	name := strings.TrimSpace(toName)
	if name == "" {
		name = "there"
	}

	plain := fmt.Sprintf(
		"Hi %s,\n\nAn account has been created for you on Negari. "+
			"Set your password to get started:\n\n%s\n\n"+
			"If you were not expecting this invitation you can ignore this email.\n",
		name,
		link,
	)

	return m.send(ctx, toEmail, toName, "You have been invited to Negari", plain)
}

// SendPasswordReset mails a reset link. Callers must not reveal to the HTTP
// client whether the address had an account.
func (m *SendGridMailer) SendPasswordReset(ctx context.Context, toEmail, resetToken string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.SiteURL, url.QueryEscape(resetToken))

	plain := fmt.Sprintf(
		"We received a request to reset the password for your Negari account.\n\n"+
			"Reset it here:\n\n%s\n\n"+
			"If you did not request this, you can safely ignore this email.\n",
		link,
	)

	return m.send(ctx, toEmail, "", "Reset your Negari password", plain)
}

func (m *SendGridMailer) send(ctx context.Context, toEmail, toName, subject, plain string) error {
	if m == nil {
		return fmt.Errorf("sendgrid mailer not configured")
	}
	if m.APIKey == "" {
		return fmt.Errorf("missing SENDGRID_API_KEY")
	}
	if m.FromEmail == "" {
		return fmt.Errorf("missing MAIL_FROM_EMAIL")
	}

	reqBody := sendGridMailSendRequest{
		Personalizations: []sendGridPersonalization{
			{
				To:      []sendGridEmailAddress{{Email: toEmail, Name: strings.TrimSpace(toName)}},
				Subject: subject,
			},
		},
		From: sendGridEmailAddress{
			Email: m.FromEmail,
			Name:  "Negari",
		},
		Content: []sendGridContent{
			{Type: "text/plain", Value: plain},
		},
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.Endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.APIKey)
	req.Header.Set("Content-Type", "application/json")

	client := m.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// SendGrid returns 202 Accepted on success.
	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("sendgrid mail send http %d", resp.StatusCode)
	}
	return nil
}
