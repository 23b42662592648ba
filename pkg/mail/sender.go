// Package mail delivers transactional email through Resend, or through SMTP
// when no Resend key is configured.
package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/prostore/prostore-backend/config"
)

var ErrNoRecipient = errors.New("email has no recipient")

// Message is one outgoing HTML email.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// FromAddress renders the "App <sender@example.com>" header value.
func FromAddress(cfg *config.EmailConfig) string {
	if cfg.AppName == "" {
		return cfg.SenderEmail
	}
	return fmt.Sprintf("%s <%s>", cfg.AppName, cfg.SenderEmail)
}

// NewSender picks Resend when an API key is present and SMTP otherwise.
func NewSender(cfg *config.EmailConfig) Sender {
	if cfg.ResendKey != "" {
		return NewResendSender(cfg.ResendKey)
	}
	return NewSMTPSender(cfg.SMTP)
}
