package transport

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/mr1hm/alert-relay/internal/config"
	"github.com/mr1hm/alert-relay/internal/models"
	"github.com/mr1hm/alert-relay/internal/render"
)

// SMTP sends alert email through a single SMTP account.
type SMTP struct {
	cfg config.SMTPConfig

	// send delivers one assembled message; replaced in tests.
	send func(m *gomail.Message) error
}

func NewSMTP(cfg config.SMTPConfig) *SMTP {
	d := gomail.NewPlainDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &SMTP{
		cfg: cfg,
		send: func(m *gomail.Message) error {
			return d.DialAndSend(m)
		},
	}
}

func (s *SMTP) Channel() models.Channel {
	return models.ChannelEmail
}

func (s *SMTP) Configured() error {
	if missing := s.cfg.Missing(); len(missing) > 0 {
		return fmt.Errorf("Email disabled: missing secrets: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (s *SMTP) Send(ctx context.Context, destination string, content render.Content) error {
	if err := s.Configured(); err != nil {
		return err
	}
	if !strings.ContainsRune(destination, '@') {
		return fmt.Errorf("Email failed: invalid address: %q", destination)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", destination)
	m.SetHeader("Subject", content.Subject)
	m.SetBody("text/html", content.Body)

	// gomail has no context support; run the dial in a goroutine so a hung
	// server cannot outlive the attempt deadline.
	errc := make(chan error, 1)
	go func() {
		errc <- s.send(m)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("Email failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("Email failed: %w", ctx.Err())
	}
}
