package mail

import (
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/spec-kit/helpdesk-service/internal/config"
)

// Sender delivers plain-text notification emails. Implementations are
// best-effort: callers never fail on a send error.
type Sender interface {
	Send(to, subject, body string)
	SendReport(subject, body string)
}

// SMTPSender sends through a gomail dialer.
type SMTPSender struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
	logger *zap.Logger
}

// NewSMTPSender builds the sender.
func NewSMTPSender(cfg config.SMTPConfig, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger: logger,
	}
}

// Send delivers a message to a single recipient. Missing credentials
// or delivery failures are logged and swallowed.
func (s *SMTPSender) Send(to, subject, body string) {
	if s.cfg.Username == "" || s.cfg.Password == "" {
		s.logger.Info("email sender credentials not configured; skipping email",
			zap.String("to", to), zap.String("subject", subject))
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(msg); err != nil {
		s.logger.Error("failed to send email",
			zap.String("to", to), zap.String("subject", subject), zap.Error(err))
		return
	}
	s.logger.Info("email notification sent", zap.String("to", to), zap.String("subject", subject))
}

// SendReport delivers a message to the configured feedback address.
func (s *SMTPSender) SendReport(subject, body string) {
	if s.cfg.FeedbackEmail == "" {
		s.logger.Info("feedback email not configured; skipping report email",
			zap.String("subject", subject))
		return
	}
	s.Send(s.cfg.FeedbackEmail, subject, body)
}
