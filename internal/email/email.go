// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

// Package email sends the platform's transactional mail over SMTP:
// reader verification links and publisher initial-code invitations.
package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/pressgate/pressgate/internal/config"
	"github.com/pressgate/pressgate/internal/logging"
	"github.com/pressgate/pressgate/internal/metrics"
)

const dialTimeout = 30 * time.Second

// Sender delivers transactional email. Implemented by the SMTP sender;
// tests substitute a recorder.
type Sender interface {
	SendVerification(ctx context.Context, to, code string) error
	SendInitialCode(ctx context.Context, to, code string) error
}

// SMTPSender sends mail through a configured SMTP relay.
type SMTPSender struct {
	cfg *config.EmailConfig
}

// NewSMTPSender creates a sender from the email configuration.
func NewSMTPSender(cfg *config.EmailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// SendVerification mails a reader their email verification link.
func (s *SMTPSender) SendVerification(ctx context.Context, to, code string) error {
	link := strings.TrimRight(s.cfg.DeepLinkBase, "/") + "/verifyEmail/" + code
	body := fmt.Sprintf(
		"Welcome!\r\n\r\nConfirm your email address to activate your account:\r\n\r\n%s\r\n\r\nIf you did not register, ignore this message.\r\n",
		link,
	)
	return s.send(ctx, to, "Confirm your email address", body)
}

// SendInitialCode mails a freshly created publisher their one-time
// login code.
func (s *SMTPSender) SendInitialCode(ctx context.Context, to, code string) error {
	body := fmt.Sprintf(
		"Your publisher account has been created.\r\n\r\nSign in with this one-time code and set your password:\r\n\r\n%s\r\n",
		code,
	)
	return s.send(ctx, to, "Your publisher account", body)
}

// send builds an RFC 5322 message and pushes it through the relay.
func (s *SMTPSender) send(ctx context.Context, to, subject, body string) error {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", s.cfg.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	if err := s.sendSMTP(ctx, to, msg.String()); err != nil {
		metrics.RecordEmailDelivery("failure")
		logging.Ctx(ctx).Error().Err(err).Str("to", to).Msg("SMTP delivery failed")
		return err
	}

	metrics.RecordEmailDelivery("success")
	logging.Ctx(ctx).Info().Str("to", to).Str("subject", subject).Msg("Email delivered")
	return nil
}

func (s *SMTPSender) sendSMTP(ctx context.Context, to, msg string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func() { _ = conn.Close() }()

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer func() { _ = client.Close() }()

	if s.cfg.StartTLS {
		tlsConfig := &tls.Config{
			ServerName: s.cfg.Host,
			MinVersion: tls.VersionTLS12,
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if s.cfg.Username != "" && s.cfg.Password != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to start message: %w", err)
	}
	if _, err := writer.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close message: %w", err)
	}

	// Quit failures after a completed DATA are harmless.
	_ = client.Quit()
	return nil
}
