package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/recoverypro/portal/internal/models"
)

const planColumns = `id, name, description, min_amount, max_amount, percentage, fixed_deposit, active, created_at`

func (q *Queries) CreatePlan(ctx context.Context, p *models.PaymentPlan) error {
	query := `INSERT INTO payment_plans (id, name, description, min_amount, max_amount, percentage, fixed_deposit, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW()) RETURNING created_at`
	err := q.db.QueryRow(ctx, query, p.ID, p.Name, p.Description, p.MinAmount, p.MaxAmount, p.Percentage, p.FixedDeposit, p.Active).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}
	return nil
}

func (q *Queries) GetPlan(ctx context.Context, id uuid.UUID) (*models.PaymentPlan, error) {
	p := &models.PaymentPlan{}
	query := `SELECT ` + planColumns + ` FROM payment_plans WHERE id = $1`
	err := q.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Description, &p.MinAmount, &p.MaxAmount, &p.Percentage, &p.FixedDeposit, &p.Active, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return p, nil
}

func (q *Queries) ListActivePlans(ctx context.Context) ([]models.PaymentPlan, error) {
	query := `SELECT ` + planColumns + ` FROM payment_plans WHERE active ORDER BY min_amount ASC`
	rows, err := q.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []models.PaymentPlan
	for rows.Next() {
		var p models.PaymentPlan
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.MinAmount, &p.MaxAmount, &p.Percentage, &p.FixedDeposit, &p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// CountPlans reports how many plans exist, active or not.
func (q *Queries) CountPlans(ctx context.Context) (int64, error) {
	var n int64
	if err := q.db.QueryRow(ctx, `SELECT COUNT(*) FROM payment_plans`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count plans: %w", err)
	}
	return n, nil
}

func (q *Queries) SetPlanActive(ctx context.Context, id uuid.UUID, active bool) (int64, error) {
	tag, err := q.db.Exec(ctx, `UPDATE payment_plans SET active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return 0, fmt.Errorf("failed to set plan active: %w", err)
	}
	return tag.RowsAffected(), nil
}
