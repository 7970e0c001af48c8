package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

type Message struct {
	To      string
	Subject string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender stands in when no provider is configured. It records that a
// message was skipped and reports success.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return LogSender{logger: logger}
}

func (s LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("email provider not configured, skipping send",
		zap.String("subject", msg.Subject),
	)
	return nil
}

type resendEmails interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type ResendSender struct {
	emails resendEmails
	from   string
}

func NewResendSender(apiKey, from string) (*ResendSender, error) {
	if apiKey == "" || from == "" {
		return nil, errors.New("resend api key and from address are required")
	}
	client := resend.NewClient(apiKey)
	return &ResendSender{emails: client.Emails, from: from}, nil
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	_, err := s.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("resend send: %w", err)
	}
	return nil
}

// NewSender picks Resend when both the key and from address are set and
// falls back to LogSender otherwise.
func NewSender(apiKey, from string, logger *zap.Logger) Sender {
	sender, err := NewResendSender(apiKey, from)
	if err != nil {
		if logger != nil {
			logger.Warn("RESEND_API_KEY or FROM_EMAIL not configured, emails will not be sent")
		}
		return NewLogSender(logger)
	}
	return sender
}
