package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/recoverypro/portal/internal/models"
	"github.com/recoverypro/portal/internal/repository"
)

// NotificationService writes and reads in-app notifications. Writes happen
// inside the transaction that caused them, so a committed state change always
// has its notification row.
type NotificationService struct {
	store QueryStore
}

func NewNotificationService(store QueryStore) *NotificationService {
	return &NotificationService{store: store}
}

// Write stores a notification using the caller's transaction.
func (s *NotificationService) Write(ctx context.Context, qtx *repository.Queries, userID uuid.UUID, notifType, title, message string) error {
	return s.WriteForCase(ctx, qtx, userID, nil, notifType, title, message)
}

// WriteForCase stores a notification linked to a case, using the caller's
// transaction. A nil caseID writes an unlinked notification.
func (s *NotificationService) WriteForCase(ctx context.Context, qtx *repository.Queries, userID uuid.UUID, caseID *uuid.UUID, notifType, title, message string) error {
	n := &models.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		CaseID:  caseID,
		Type:    notifType,
		Title:   title,
		Message: message,
	}
	if err := qtx.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("write notification: %w", err)
	}
	return nil
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.store.Queries().ListNotifications(ctx, userID, unreadOnly, limit, offset)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.store.Queries().CountUnreadNotifications(ctx, userID)
}

// MarkRead marks a single notification read. Unknown or foreign IDs report
// not found.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	rows, err := s.store.Queries().MarkNotificationRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.store.Queries().MarkAllNotificationsRead(ctx, userID)
}
