package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/SiddhuQuant/dietec-api/internal/config"
)

type Service interface {
	SendWelcome(ctx context.Context, to, name string) error
	SendCustom(ctx context.Context, to, subject, body string) error
}

type smtpService struct {
	cfg config.SMTPConfig
}

func NewService(cfg config.SMTPConfig) Service {
	return &smtpService{cfg: cfg}
}

func (s *smtpService) SendWelcome(ctx context.Context, to, name string) error {
	body := fmt.Sprintf(`
		<h2>Welcome to DIETEC, %s!</h2>
		<p>Your account is ready. Sign in to book appointments, view your
		medical history and manage your health in one place.</p>
	`, name)
	return s.SendCustom(ctx, to, "Welcome to DIETEC Health Platform", body)
}

func (s *smtpService) SendCustom(ctx context.Context, to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.User, s.cfg.Password)
	return d.DialAndSend(m)
}
