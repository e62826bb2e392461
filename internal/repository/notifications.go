package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/recoverypro/portal/internal/models"
)

func (q *Queries) CreateNotification(ctx context.Context, n *models.Notification) error {
	query := `INSERT INTO notifications (id, user_id, case_id, type, title, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, NOW()) RETURNING created_at`
	err := q.db.QueryRow(ctx, query, n.ID, n.UserID, n.CaseID, n.Type, n.Title, n.Message).Scan(&n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (q *Queries) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]models.Notification, error) {
	query := `SELECT id, user_id, case_id, type, title, message, read, created_at
		FROM notifications WHERE user_id = $1 AND (NOT $2 OR NOT read)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := q.db.Query(ctx, query, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.CaseID, &n.Type, &n.Title, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (q *Queries) CountUnreadNotifications(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT read`
	if err := q.db.QueryRow(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return n, nil
}

// MarkNotificationRead marks one notification read, scoped to its owner.
func (q *Queries) MarkNotificationRead(ctx context.Context, id, userID uuid.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notification read: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (q *Queries) MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND NOT read`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (q *Queries) CreateEmailLog(ctx context.Context, e *models.EmailLog) error {
	query := `INSERT INTO email_logs (id, user_id, type, recipient, subject, sent, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW()) RETURNING created_at`
	err := q.db.QueryRow(ctx, query, e.ID, e.UserID, e.Type, e.Recipient, e.Subject, e.Sent, e.Error).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create email log: %w", err)
	}
	return nil
}

func (q *Queries) ListEmailLogs(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.EmailLog, error) {
	query := `SELECT id, user_id, type, recipient, subject, sent, error, created_at
		FROM email_logs WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := q.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list email logs: %w", err)
	}
	defer rows.Close()

	var logs []models.EmailLog
	for rows.Next() {
		var e models.EmailLog
		if err := rows.Scan(&e.ID, &e.UserID, &e.Type, &e.Recipient, &e.Subject, &e.Sent, &e.Error, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan email log: %w", err)
		}
		logs = append(logs, e)
	}
	return logs, rows.Err()
}
