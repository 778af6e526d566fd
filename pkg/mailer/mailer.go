package mailer

import (
	"context"
	"fmt"

	"account-service/pkg/utils"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer sends the account-lifecycle notifications. Implementations must be
// safe for concurrent use; the pruning fan-out sends from multiple goroutines.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, firstName, token string) error
	SendInactivityNotice(ctx context.Context, to, firstName string) error
}

type smtpMailer struct {
	cfg     utils.EmailConfig
	baseURL string
	log     *zap.Logger
}

func NewSMTPMailer(cfg utils.EmailConfig, baseURL string, log *zap.Logger) Mailer {
	return &smtpMailer{
		cfg:     cfg,
		baseURL: baseURL,
		log:     log.With(zap.String("component", "mailer")),
	}
}

func (m *smtpMailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)

	if err := d.DialAndSend(msg); err != nil {
		m.log.Error("Failed to send email",
			zap.Error(err),
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return fmt.Errorf("send email to %s: %w", to, err)
	}

	return nil
}

func (m *smtpMailer) SendPasswordReset(ctx context.Context, to, firstName, token string) error {
	resetURL := fmt.Sprintf("%s/password-reset/confirm?token=%s", m.baseURL, token)

	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>We received a request to reset your password. Use the code below,
		or follow the link. The code expires in one hour.</p>
		<p><strong>%s</strong></p>
		<p><a href="%s">Reset your password</a></p>
		<p>If you did not request this, you can ignore this email.</p>`,
		firstName, token, resetURL)

	return m.send(to, "Password reset", body)
}

func (m *smtpMailer) SendInactivityNotice(ctx context.Context, to, firstName string) error {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your account has been inactive and was removed together with its
		data. You are welcome to register again at any time.</p>`,
		firstName)

	return m.send(to, "Account removed due to inactivity", body)
}
