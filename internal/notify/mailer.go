package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"bookman/internal/config"
	"bookman/internal/models"

	"github.com/rs/zerolog"
)

// SMTPMailer sends the plain-text admin notification over SMTP.
type SMTPMailer struct {
	cfg        config.SMTPConfig
	adminEmail string
	log        zerolog.Logger
	send       func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(cfg config.SMTPConfig, adminEmail string, logger *zerolog.Logger) *SMTPMailer {
	var log zerolog.Logger
	if logger != nil {
		log = logger.With().Str("component", "mailer").Logger()
	}
	return &SMTPMailer{
		cfg:        cfg,
		adminEmail: adminEmail,
		log:        log,
		send:       smtp.SendMail,
	}
}

func (m *SMTPMailer) Name() string { return "smtp" }

func (m *SMTPMailer) NotifyBookingCreated(ctx context.Context, booking *models.Booking, editURL string) error {
	msg := buildMessage(m.cfg.From, m.adminEmail, Subject(booking), Body(booking, editURL))

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	if err := m.send(addr, auth, m.cfg.From, []string{m.adminEmail}, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	m.log.Info().Int64("booking_id", booking.ID).Str("to", m.adminEmail).Msg("notification mail sent")
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var sb strings.Builder
	sb.WriteString("From: " + from + "\r\n")
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)
	return []byte(sb.String())
}
