package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ResendSender posts mail to the Resend HTTP API.
type ResendSender struct {
	apiKey     string
	from       string
	baseURL    string
	httpClient *http.Client
}

type resendRequest struct {
	From        string       `json:"from"`
	To          []string     `json:"to"`
	Subject     string       `json:"subject"`
	HTML        string       `json:"html"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

type resendResponse struct {
	ID string `json:"id"`
}

func NewResendSender(apiKey, from, baseURL string) (*ResendSender, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY not set")
	}
	if from == "" {
		return nil, fmt.Errorf("FROM_EMAIL not set")
	}
	if baseURL == "" {
		baseURL = "https://api.resend.com"
	}
	return &ResendSender{
		apiKey:     apiKey,
		from:       from,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (s *ResendSender) SendEmail(ctx context.Context, msg Email) (SendResult, error) {
	if msg.To == "" {
		return SendResult{}, errors.New("recipient is required")
	}

	payload, err := json.Marshal(resendRequest{
		From:        s.from,
		To:          []string{msg.To},
		Subject:     msg.Subject,
		HTML:        msg.HTML,
		Attachments: msg.Attachments,
	})
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return SendResult{}, fmt.Errorf("resend request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return SendResult{}, fmt.Errorf("resend error %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var out resendResponse
	_ = json.Unmarshal(body, &out)
	return SendResult{MessageID: out.ID, SentAt: time.Now()}, nil
}
