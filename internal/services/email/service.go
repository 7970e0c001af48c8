package email

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ArnavSingha/ApniSec/internal/domain/model"
)

const sendTimeout = 10 * time.Second

// Service renders and sends account notifications. Delivery failures are
// logged and never returned; a lost email must not fail the request.
type Service struct {
	sender Sender
	logger *zap.Logger
}

func NewService(sender Sender, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{sender: sender, logger: logger}
}

func (s *Service) SendWelcome(ctx context.Context, to, name string) {
	s.send(ctx, to, "Welcome to ApniSec!", "welcome", struct{ Name string }{name})
}

func (s *Service) SendPasswordReset(ctx context.Context, to, resetURL string) {
	s.send(ctx, to, "Your Password Reset Request", "reset", struct{ URL string }{resetURL})
}

func (s *Service) SendIssueCreated(ctx context.Context, to string, issue model.Issue) {
	subject := `Confirmation: Your Issue "` + issue.Title + `" has been created`
	s.send(ctx, to, subject, "issue", issue)
}

func (s *Service) SendProfileUpdated(ctx context.Context, to string) {
	s.send(ctx, to, "Your Profile Has Been Updated", "profile", nil)
}

func (s *Service) send(ctx context.Context, to, subject, tmpl string, data any) {
	if s.sender == nil || to == "" {
		return
	}

	html, err := render(tmpl, data)
	if err != nil {
		s.logger.Error("render email", zap.String("template", tmpl), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	defer cancel()

	if err := s.sender.Send(ctx, Message{To: to, Subject: subject, HTML: html}); err != nil {
		s.logger.Warn("send email failed",
			zap.String("template", tmpl),
			zap.Error(err),
		)
	}
}
