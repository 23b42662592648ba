package mail

import (
	"context"
	"fmt"
	netmail "net/mail"
	"net/smtp"

	"github.com/prostore/prostore-backend/config"
	"github.com/prostore/prostore-backend/pkg/logger"
)

type SMTPSender struct {
	cfg  config.SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg, send: smtp.SendMail}
}

// Send delivers through the configured relay. Without a host the message is
// only logged, which is what development setups rely on.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.cfg.Host == "" {
		logger.Info("[DEV MODE] Email not sent, SMTP is not configured", map[string]interface{}{
			"to":      msg.To,
			"subject": msg.Subject,
		})
		return nil
	}

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	body := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		msg.From, msg.To, msg.Subject, msg.HTML,
	))

	envelope := msg.From
	if parsed, err := netmail.ParseAddress(msg.From); err == nil {
		envelope = parsed.Address
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	if err := s.send(addr, auth, envelope, []string{msg.To}, body); err != nil {
		logger.Error("Failed to send email via SMTP", err, map[string]interface{}{
			"to":   msg.To,
			"host": s.cfg.Host,
		})
		return fmt.Errorf("smtp: %w", err)
	}

	logger.Info("Email sent via SMTP", map[string]interface{}{
		"to":      msg.To,
		"subject": msg.Subject,
	})
	return nil
}
