package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	coreport "github.com/ditlabs/tokensale-crm/internal/domain/port/core"
	"github.com/ditlabs/tokensale-crm/internal/domain/port/notifier"
)

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// Config holds the transactional email settings
type Config struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	AdminEmail  string
}

// BrevoMailer sends transactional emails through the Brevo HTTP API.
// Delivery is best effort; callers log failures and continue.
type BrevoMailer struct {
	config Config
	client *http.Client
	logger coreport.Logger
}

// NewBrevoMailer creates a mailer. When the config carries no API key the
// mailer is disabled and every send is a logged no-op.
func NewBrevoMailer(config Config, logger coreport.Logger) notifier.Mailer {
	return &BrevoMailer{
		config: config,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func (m *BrevoMailer) enabled() bool {
	return m.config.APIKey != "" && m.config.SenderEmail != ""
}

func (m *BrevoMailer) send(ctx context.Context, toEmail, toName, subject, htmlContent string) error {
	if !m.enabled() {
		m.logger.Debug("Mailer not configured, skipping email", map[string]any{
			"to":      toEmail,
			"subject": subject,
		})
		return nil
	}

	if toEmail == "" || !strings.Contains(toEmail, "@") {
		return fmt.Errorf("invalid recipient email: %s", toEmail)
	}
	if toName == "" {
		toName = toEmail[:strings.Index(toEmail, "@")]
	}

	payload := brevoPayload{
		Sender:      map[string]string{"name": m.config.SenderName, "email": m.config.SenderEmail},
		To:          []map[string]string{{"email": toEmail, "name": toName}},
		Subject:     subject,
		HTMLContent: htmlContent,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoEndpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", m.config.APIKey)
	req.Header.Set("content-type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		m.logger.Warn("Email API rejected message", map[string]any{
			"status": resp.StatusCode,
			"to":     toEmail,
			"body":   string(respBody),
		})
		return fmt.Errorf("email API returned status %d", resp.StatusCode)
	}

	m.logger.Debug("Email sent", map[string]any{
		"to":      toEmail,
		"subject": subject,
	})
	return nil
}

// SendPurchaseConfirmation notifies a buyer that their purchase completed
func (m *BrevoMailer) SendPurchaseConfirmation(ctx context.Context, toEmail, toName, amount, tokenAmount string) error {
	subject := "Your token purchase is confirmed"
	content := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your purchase of %s USDT has been confirmed and %s DIT tokens were credited to your account.</p>",
		toName, amount, tokenAmount,
	)
	return m.send(ctx, toEmail, toName, subject, content)
}

// SendDepositRecorded notifies a user that an admin recorded a manual deposit
func (m *BrevoMailer) SendDepositRecorded(ctx context.Context, toEmail, toName, amount, txHash string) error {
	subject := "Your USDT deposit was recorded"
	content := fmt.Sprintf(
		"<p>Hi %s,</p><p>A deposit of %s USDT (tx %s) was recorded and your tokens have been credited.</p>",
		toName, amount, txHash,
	)
	return m.send(ctx, toEmail, toName, subject, content)
}

// SendWithdrawalApproved notifies a user that their withdrawal was approved
func (m *BrevoMailer) SendWithdrawalApproved(ctx context.Context, toEmail, toName, tokenAmount, walletAddress string) error {
	subject := "Your withdrawal was approved"
	content := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your withdrawal of %s DIT to %s has been approved.</p>",
		toName, tokenAmount, walletAddress,
	)
	return m.send(ctx, toEmail, toName, subject, content)
}

// SendAdminAlert notifies the configured platform admin address
func (m *BrevoMailer) SendAdminAlert(ctx context.Context, subject, message string) error {
	if m.config.AdminEmail == "" {
		m.logger.Debug("No admin email configured, skipping alert", map[string]any{
			"subject": subject,
		})
		return nil
	}
	content := fmt.Sprintf("<p>%s</p>", message)
	return m.send(ctx, m.config.AdminEmail, "Admin", subject, content)
}
