package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/recoverypro/portal/internal/models"
)

const withdrawalColumns = `id, reference, user_id, amount, currency, method, destination, status, admin_notes, resolved_at, created_at`

func scanWithdrawal(row interface{ Scan(dest ...any) error }) (*models.WithdrawalRequest, error) {
	w := &models.WithdrawalRequest{}
	err := row.Scan(&w.ID, &w.Reference, &w.UserID, &w.Amount, &w.Currency, &w.Method,
		&w.Destination, &w.Status, &w.AdminNotes, &w.ResolvedAt, &w.CreatedAt)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (q *Queries) CreateWithdrawal(ctx context.Context, w *models.WithdrawalRequest) error {
	query := `INSERT INTO withdrawal_requests (id, reference, user_id, amount, currency, method, destination, status, admin_notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW()) RETURNING created_at`
	err := q.db.QueryRow(ctx, query, w.ID, w.Reference, w.UserID, w.Amount, w.Currency,
		w.Method, w.Destination, w.Status, w.AdminNotes).Scan(&w.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create withdrawal: %w", err)
	}
	return nil
}

func (q *Queries) GetWithdrawal(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error) {
	w, err := scanWithdrawal(q.db.QueryRow(ctx, `SELECT `+withdrawalColumns+` FROM withdrawal_requests WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal: %w", err)
	}
	return w, nil
}

// GetWithdrawalForUpdate locks the withdrawal row for the duration of the transaction.
func (q *Queries) GetWithdrawalForUpdate(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error) {
	w, err := scanWithdrawal(q.db.QueryRow(ctx, `SELECT `+withdrawalColumns+` FROM withdrawal_requests WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to lock withdrawal: %w", err)
	}
	return w, nil
}

func (q *Queries) ListWithdrawalsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.WithdrawalRequest, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := q.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawals: %w", err)
	}
	defer rows.Close()

	var withdrawals []models.WithdrawalRequest
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan withdrawal: %w", err)
		}
		withdrawals = append(withdrawals, *w)
	}
	return withdrawals, rows.Err()
}

func (q *Queries) ListWithdrawalsByStatus(ctx context.Context, status string, limit, offset int) ([]models.WithdrawalRequest, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE status = $1 ORDER BY created_at ASC LIMIT $2 OFFSET $3`
	rows, err := q.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawals by status: %w", err)
	}
	defer rows.Close()

	var withdrawals []models.WithdrawalRequest
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan withdrawal: %w", err)
		}
		withdrawals = append(withdrawals, *w)
	}
	return withdrawals, rows.Err()
}

func (q *Queries) UpdateWithdrawalStatus(ctx context.Context, id uuid.UUID, status, adminNotes string, resolved bool) (int64, error) {
	query := `UPDATE withdrawal_requests SET status = $2, admin_notes = $3,
		resolved_at = CASE WHEN $4 THEN NOW() ELSE resolved_at END
		WHERE id = $1`
	tag, err := q.db.Exec(ctx, query, id, status, adminNotes, resolved)
	if err != nil {
		return 0, fmt.Errorf("failed to update withdrawal status: %w", err)
	}
	return tag.RowsAffected(), nil
}
