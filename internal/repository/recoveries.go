package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/recoverypro/portal/internal/models"
)

const recoveryColumns = `id, reference, case_id, user_id, amount, currency, description, created_at`

func (q *Queries) CreateRecovery(ctx context.Context, r *models.RecoveryTransaction) error {
	query := `INSERT INTO recovery_transactions (id, reference, case_id, user_id, amount, currency, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW()) RETURNING created_at`
	err := q.db.QueryRow(ctx, query, r.ID, r.Reference, r.CaseID, r.UserID, r.Amount, r.Currency, r.Description).Scan(&r.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create recovery: %w", err)
	}
	return nil
}

func (q *Queries) ListRecoveriesByCase(ctx context.Context, caseID uuid.UUID) ([]models.RecoveryTransaction, error) {
	query := `SELECT ` + recoveryColumns + ` FROM recovery_transactions WHERE case_id = $1 ORDER BY created_at ASC`
	rows, err := q.db.Query(ctx, query, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recoveries: %w", err)
	}
	defer rows.Close()

	var recoveries []models.RecoveryTransaction
	for rows.Next() {
		var r models.RecoveryTransaction
		if err := rows.Scan(&r.ID, &r.Reference, &r.CaseID, &r.UserID, &r.Amount, &r.Currency, &r.Description, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recovery: %w", err)
		}
		recoveries = append(recoveries, r)
	}
	return recoveries, rows.Err()
}

func (q *Queries) ListRecoveriesByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.RecoveryTransaction, error) {
	query := `SELECT ` + recoveryColumns + ` FROM recovery_transactions WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := q.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list recoveries by user: %w", err)
	}
	defer rows.Close()

	var recoveries []models.RecoveryTransaction
	for rows.Next() {
		var r models.RecoveryTransaction
		if err := rows.Scan(&r.ID, &r.Reference, &r.CaseID, &r.UserID, &r.Amount, &r.Currency, &r.Description, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recovery: %w", err)
		}
		recoveries = append(recoveries, r)
	}
	return recoveries, rows.Err()
}

// SumRecoveriesByCase totals recovered funds for a single case.
func (q *Queries) SumRecoveriesByCase(ctx context.Context, caseID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM recovery_transactions WHERE case_id = $1`
	if err := q.db.QueryRow(ctx, query, caseID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum case recoveries: %w", err)
	}
	return total, nil
}
