package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type StatusCountRow struct {
	Status string
	Count  int64
}

func (q *Queries) CountCasesByStatus(ctx context.Context, userID *uuid.UUID) ([]StatusCountRow, error) {
	query := `SELECT status, COUNT(*) FROM cases WHERE ($1::uuid IS NULL OR user_id = $1) GROUP BY status`
	rows, err := q.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count cases by status: %w", err)
	}
	defer rows.Close()

	var counts []StatusCountRow
	for rows.Next() {
		var r StatusCountRow
		if err := rows.Scan(&r.Status, &r.Count); err != nil {
			return nil, fmt.Errorf("failed to scan case count: %w", err)
		}
		counts = append(counts, r)
	}
	return counts, rows.Err()
}

func (q *Queries) SumAmountLost(ctx context.Context, userID *uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(amount_lost), 0) FROM cases WHERE ($1::uuid IS NULL OR user_id = $1) AND status <> 'rejected'`
	if err := q.db.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum amount lost: %w", err)
	}
	return total, nil
}

func (q *Queries) SumRecoveredAll(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := q.db.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM recovery_transactions`).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum recovered funds: %w", err)
	}
	return total, nil
}

func (q *Queries) CountPendingByKind(ctx context.Context) (deposits, withdrawals, kyc int64, err error) {
	query := `SELECT
		(SELECT COUNT(*) FROM user_deposits WHERE status IN ('pending', 'under_review')),
		(SELECT COUNT(*) FROM withdrawal_requests WHERE status = 'pending'),
		(SELECT COUNT(*) FROM kyc_verifications WHERE status = 'pending')`
	if err = q.db.QueryRow(ctx, query).Scan(&deposits, &withdrawals, &kyc); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count pending reviews: %w", err)
	}
	return deposits, withdrawals, kyc, nil
}

func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := q.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}
