package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/recoverypro/portal/internal/mailer"
	"github.com/recoverypro/portal/internal/models"
)

// EmailService sends transactional mail and records every attempt in
// email_logs. Callers invoke it after their transaction commits: a failed
// send must never roll back the state change it announces.
type EmailService struct {
	store  QueryStore
	mailer mailer.Mailer
}

func NewEmailService(store QueryStore, m mailer.Mailer) *EmailService {
	return &EmailService{store: store, mailer: m}
}

// Send delivers one email best effort and logs the outcome.
func (s *EmailService) Send(ctx context.Context, userID uuid.UUID, emailType, recipient, subject, body string) {
	entry := &models.EmailLog{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      emailType,
		Recipient: recipient,
		Subject:   subject,
		Sent:      true,
	}

	if err := s.mailer.Send(ctx, recipient, subject, body); err != nil {
		entry.Sent = false
		entry.Error = err.Error()
		zap.L().Warn("email delivery failed",
			zap.String("type", emailType),
			zap.String("recipient", recipient),
			zap.Error(err))
	}

	if err := s.store.Queries().CreateEmailLog(ctx, entry); err != nil {
		zap.L().Error("failed to record email log", zap.String("type", emailType), zap.Error(err))
	}
}

func (s *EmailService) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.EmailLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.store.Queries().ListEmailLogs(ctx, userID, limit, offset)
}
