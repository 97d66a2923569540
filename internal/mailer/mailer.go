// Package mailer sends the admin handover alert over SMTP. Delivery is
// best-effort: a failed alert is logged and never blocks the pipeline.
package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/config"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/logger"
)

// Mailer sends handover alerts through an SMTP relay (Gmail by default).
type Mailer struct {
	host     string
	port     int
	sender   string
	password string
	receiver string
	log      *logger.Logger

	// sendMail is swappable for tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New creates a mailer from configuration.
func New(cfg *config.Config, log *logger.Logger) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		sender:   cfg.SenderEmail,
		password: cfg.SenderPassword,
		receiver: cfg.ReceiverEmail,
		log:      log.WithModule("mailer"),
		sendMail: smtp.SendMail,
	}
}

// Notify emails the admin that a customer asked for a human. The context
// bounds the SMTP exchange.
func (m *Mailer) Notify(ctx context.Context, senderID, messageText, firstName, lastName string) error {
	if m.sender == "" || m.password == "" {
		return fmt.Errorf("email configuration missing")
	}

	subject := fmt.Sprintf("Admin Handover Requested: %s", firstName)
	body := fmt.Sprintf(`Isang customer ang nangangailangan ng tulong (Handover Triggered).

DETAILS:
- Name: %s %s
- Facebook PSID: %s
- Message: %q
- Time: %s

Instruction: Pumunta sa Facebook Page Inbox para maka-reply sa kanila.
`, firstName, lastName, senderID, messageText, time.Now().Format("2006-01-02 15:04:05"))

	msg := buildMessage(m.sender, m.receiver, subject, body)
	addr := net.JoinHostPort(m.host, fmt.Sprintf("%d", m.port))
	auth := smtp.PlainAuth("", m.sender, m.password, m.host)

	// smtp.SendMail has no context support; run it in a goroutine and
	// bound the wait.
	done := make(chan error, 1)
	go func() {
		done <- m.sendMail(addr, auth, m.sender, []string{m.receiver}, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("sending handover alert: %w", err)
		}
		m.log.WithField("sender_id", senderID).Info("Admin notified via email")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("sending handover alert: %w", ctx.Err())
	}
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
