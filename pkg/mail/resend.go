package mail

import (
	"context"
	"fmt"

	"github.com/prostore/prostore-backend/pkg/logger"
	"github.com/resend/resend-go/v2"
)

type ResendSender struct {
	client *resend.Client
}

func NewResendSender(apiKey string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey)}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}

	resp, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		logger.Error("Failed to send email via Resend", err, map[string]interface{}{
			"to":      msg.To,
			"subject": msg.Subject,
		})
		return fmt.Errorf("resend: %w", err)
	}

	logger.Info("Email sent via Resend", map[string]interface{}{
		"to":       msg.To,
		"subject":  msg.Subject,
		"email_id": resp.Id,
	})
	return nil
}
