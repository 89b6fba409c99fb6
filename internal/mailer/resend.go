// Package mailer delivers contact form messages.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/httpclient"
)

// ResendEndpoint is the Resend send-email API.
const ResendEndpoint = "https://api.resend.com/emails"

// ResendConfig configures ResendSender.
type ResendConfig struct {
	APIKey   string
	From     string
	To       []string
	Endpoint string
}

// ResendSender sends contact messages as email through Resend.
type ResendSender struct {
	cfg  ResendConfig
	http httpclient.Doer
}

// NewResendSender returns a sender for cfg. The API key is required.
func NewResendSender(cfg ResendConfig, doer httpclient.Doer) (*ResendSender, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("resend: api key is required")
	}
	if cfg.From == "" || len(cfg.To) == 0 {
		return nil, errors.New("resend: from and to addresses are required")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = ResendEndpoint
	}
	return &ResendSender{cfg: cfg, http: doer}, nil
}

type resendEmail struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

type resendResponse struct {
	ID string `json:"id"`
}

// Send emails msg and returns the Resend message id. Sends are never retried.
func (s *ResendSender) Send(ctx context.Context, msg domain.ContactMessage) (string, error) {
	content, err := render(msg)
	if err != nil {
		return "", fmt.Errorf("render contact email: %w", err)
	}

	body, err := json.Marshal(resendEmail{
		From:    s.cfg.From,
		To:      s.cfg.To,
		ReplyTo: msg.Email,
		Subject: content.Subject,
		HTML:    content.HTML,
		Text:    content.Text,
	})
	if err != nil {
		return "", fmt.Errorf("encode resend request: %w", err)
	}

	ctx = httpclient.WithoutRetry(ctx)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create resend request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.http.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("resend: %w", err)
	}
	if err := httpclient.CheckResponse(resp, "resend"); err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	var out resendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode resend response: %w", err)
	}
	if out.ID == "" {
		return "", errors.New("resend: response has no id")
	}
	return out.ID, nil
}
