package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// SMTPNotifier sends mail over SMTP with STARTTLS and plain auth. Every send
// dials a fresh connection with the caller's deadline applied to the whole
// exchange, so a stuck mail server cannot hold a transition response hostage.
type SMTPNotifier struct {
	host         string
	port         string
	username     string
	password     string
	mailFrom     string
	mailFromName string
}

func NewSMTPNotifier(host, port, username, password, mailFrom, mailFromName string) *SMTPNotifier {
	return &SMTPNotifier{
		host:         host,
		port:         port,
		username:     username,
		password:     password,
		mailFrom:     mailFrom,
		mailFromName: mailFromName,
	}
}

func (s *SMTPNotifier) Send(ctx context.Context, to, subject, body string) error {
	fromHeader := fmt.Sprintf("%s <%s>", s.mailFromName, s.mailFrom)

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
		body,
	}, "\r\n")

	log.Printf("[MAIL] smtp sending to=%s via=%s:%s", to, s.host, s.port)

	if err := s.sendSMTP(ctx, to, []byte(msg)); err != nil {
		return err
	}

	log.Printf("[MAIL] sent to=%s", to)
	return nil
}

func (s *SMTPNotifier) sendSMTP(ctx context.Context, to string, msg []byte) error {
	addr := net.JoinHostPort(s.host, s.port)

	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(15 * time.Second)
	}
	_ = conn.SetDeadline(deadline)

	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
			return err
		}
	}

	if s.username != "" {
		auth := smtp.PlainAuth("", s.username, s.password, s.host)
		if err := c.Auth(auth); err != nil {
			return err
		}
	}

	if err := c.Mail(s.mailFrom); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
