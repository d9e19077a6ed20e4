package utils

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"gopkg.in/gomail.v2"
)

// Mailer delivers transactional email
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Mail is the mailer used by the handlers
var Mail Mailer = LogMailer{}

// SMTPMailer sends through an SMTP relay
type SMTPMailer struct {
	From   string
	dialer *gomail.Dialer
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		From:   from,
		dialer: gomail.NewDialer(host, port, username, password),
	}
}

func (m *SMTPMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// SendGridMailer sends through the SendGrid v3 API
type SendGridMailer struct {
	From   string
	client *sendgrid.Client
}

func NewSendGridMailer(apiKey, from string) *SendGridMailer {
	return &SendGridMailer{
		From:   from,
		client: sendgrid.NewSendClient(apiKey),
	}
}

func (m *SendGridMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	message := mail.NewSingleEmail(
		mail.NewEmail(AppName, m.From),
		subject,
		mail.NewEmail("", to),
		"",
		htmlBody,
	)
	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid rejected email: status %d", resp.StatusCode)
	}
	return nil
}

// LogMailer only logs; used in development where no relay is configured
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, to, subject, _ string) error {
	LogInfo("Mail to %s: %s", to, subject)
	return nil
}

var otpSubjects = map[string]string{
	OTPPurposeRegister: "Verify your " + AppName + " account",
	OTPPurposeLogin:    "Your " + AppName + " login code",
	OTPPurposeReset:    "Reset your " + AppName + " password",
}

// SendOTP emails a one-time code for the given purpose
func SendOTP(ctx context.Context, to, purpose, otp string, minutes int) error {
	subject, ok := otpSubjects[purpose]
	if !ok {
		subject = "Your " + AppName + " verification code"
	}
	body := fmt.Sprintf(`
		<h2>%s</h2>
		<p>Use the following code to continue:</p>
		<h1 style="color: #111; font-size: 32px; letter-spacing: 6px;">%s</h1>
		<p>This code expires in %d minutes.</p>
		<p>If you didn't request this code, please ignore this email.</p>
	`, subject, otp, minutes)
	return Mail.Send(ctx, to, subject, body)
}
