package sender

import (
	"context"
	"fmt"
	"time"
)

type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Attachment content is base64 encoded.
type Attachment struct {
	Filename    string `json:"filename"`
	Content     string `json:"content"`
	ContentType string `json:"content_type,omitempty"`
}

type Email struct {
	To          string
	Subject     string
	HTML        string
	Attachments []Attachment
}

type EmailSender interface {
	SendEmail(ctx context.Context, msg Email) (SendResult, error)
}

// Unconfigured fails every send. It stands in when no email provider is set up.
type Unconfigured struct {
	Reason error
}

func (u Unconfigured) SendEmail(_ context.Context, _ Email) (SendResult, error) {
	return SendResult{}, fmt.Errorf("email sender not configured: %w", u.Reason)
}
