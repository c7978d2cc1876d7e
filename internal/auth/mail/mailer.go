// Package mail delivers account-verification codes to client users.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Sender delivers a verification code to an email address.
type Sender interface {
	SendVerificationCode(ctx context.Context, to, nickName, code string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender sends mail through a plain SMTP relay. smtp.SendMail upgrades
// to STARTTLS when the server advertises it.
type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) SendVerificationCode(ctx context.Context, to, nickName, code string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	msg := buildVerificationMessage(s.cfg.From, to, nickName, code)
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("send verification mail: %w", err)
	}
	return nil
}

func buildVerificationMessage(from, to, nickName, code string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	b.WriteString("Subject: Kids Time verification code\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Hi %s,\r\n\r\n", nickName)
	fmt.Fprintf(&b, "Your verification code is %s.\r\n", code)
	b.WriteString("\r\nIf you did not sign up, you can ignore this mail.\r\n")
	return []byte(b.String())
}

// LogSender logs codes instead of sending mail. Used in development when no
// SMTP relay is configured.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendVerificationCode(ctx context.Context, to, nickName, code string) error {
	s.log.InfoContext(ctx, "verification code issued (mail disabled)",
		"to", to,
		"code", code,
	)
	return nil
}
