package services

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/example/careerhub/internal/config"
)

// Sender delivers transactional email on behalf of the verification flow.
type Sender interface {
	SendVerificationCode(ctx context.Context, email, fullname, code string) error
	SendWelcome(ctx context.Context, email, fullname string) error
}

// EmailService sends transactional email over SMTP.
type EmailService struct {
	cfg *config.Config
}

// NewEmailService constructs an EmailService from SMTP configuration.
func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendVerificationCode mails the 6-digit verification code. The body tells
// the recipient the code is valid for 10 minutes.
func (s *EmailService) SendVerificationCode(ctx context.Context, email, fullname, code string) error {
	body := fmt.Sprintf(`<html><body>
<h2>Hi %s,</h2>
<p>Thank you for registering with CareerHub! Please verify your email address
using the code below:</p>
<p style="font-size:32px;font-weight:bold;letter-spacing:8px;">%s</p>
<p>This code is valid for 10 minutes.</p>
<p>Never share this code with anyone. If you didn't create a CareerHub
account, you can ignore this email.</p>
</body></html>`, fullname, code)

	return s.send(ctx, email, "Verify Your Email - CareerHub", body)
}

// SendWelcome mails the post-verification greeting.
func (s *EmailService) SendWelcome(ctx context.Context, email, fullname string) error {
	body := fmt.Sprintf(`<html><body>
<h2>Hi %s,</h2>
<p>Your email has been verified successfully! You're all set to start your
journey with CareerHub.</p>
<p><a href="%s">Start exploring jobs</a></p>
<p>Best regards,<br/>The CareerHub Team</p>
</body></html>`, fullname, s.cfg.FrontendURL)

	return s.send(ctx, email, "Welcome to CareerHub!", body)
}

func (s *EmailService) send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()

	if err := msg.FromFormat(s.cfg.MailFromName, s.cfg.MailFrom); err != nil {
		return fmt.Errorf("setting from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	opts := []mail.Option{
		mail.WithPort(s.cfg.SMTPPort),
	}

	if s.cfg.SMTPTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		// Port 465 speaks implicit TLS, everything else STARTTLS.
		if s.cfg.SMTPPort == 465 {
			opts = append(opts, mail.WithSSL())
		}
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if s.cfg.SMTPUsername != "" && s.cfg.SMTPPassword != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.SMTPUsername),
			mail.WithPassword(s.cfg.SMTPPassword),
		)
	}

	client, err := mail.NewClient(s.cfg.SMTPHost, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}
