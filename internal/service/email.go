package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"motorent-backend/internal/logger"
)

// sendGridNotifier delivers notifications through the SendGrid API.
type sendGridNotifier struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewSendGridNotifier(apiKey, fromEmail, fromName string) Notifier {
	return &sendGridNotifier{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendGridNotifier) Notify(ctx context.Context, email, name, subject, body string) error {
	message := mail.NewSingleEmail(
		mail.NewEmail(s.fromName, s.fromEmail),
		subject,
		mail.NewEmail(name, email),
		body,
		"",
	)
	return s.send(message)
}

func (s *sendGridNotifier) NotifyAttachment(ctx context.Context, email, name, subject, body, filename string, attachment []byte) error {
	message := mail.NewSingleEmail(
		mail.NewEmail(s.fromName, s.fromEmail),
		subject,
		mail.NewEmail(name, email),
		body,
		"",
	)

	att := mail.NewAttachment()
	att.SetContent(base64.StdEncoding.EncodeToString(attachment))
	att.SetType("application/pdf")
	att.SetFilename(filename)
	att.SetDisposition("attachment")
	message.AddAttachment(att)

	return s.send(message)
}

func (s *sendGridNotifier) send(message *mail.SGMailV3) error {
	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

// logNotifier is the delivery stand-in when email is disabled: every
// notification lands in the log instead of a mailbox.
type logNotifier struct{}

func NewLogNotifier() Notifier {
	return logNotifier{}
}

func (logNotifier) Notify(ctx context.Context, email, name, subject, body string) error {
	logger.Info("Notification (email disabled)", "to", email, "subject", subject, "body", body)
	return nil
}

func (logNotifier) NotifyAttachment(ctx context.Context, email, name, subject, body, filename string, attachment []byte) error {
	logger.Info("Notification with attachment (email disabled)",
		"to", email, "subject", subject, "attachment", filename, "bytes", len(attachment))
	return nil
}
