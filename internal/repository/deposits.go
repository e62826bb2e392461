package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/recoverypro/portal/internal/models"
)

const depositColumns = `id, reference, user_id, case_id, amount, currency, crypto_currency, wallet_address, tx_hash, status, confirmed_at, created_at`

func scanDeposit(row interface{ Scan(dest ...any) error }) (*models.UserDeposit, error) {
	d := &models.UserDeposit{}
	err := row.Scan(&d.ID, &d.Reference, &d.UserID, &d.CaseID, &d.Amount, &d.Currency,
		&d.Crypto, &d.WalletAddr, &d.TxHash, &d.Status, &d.ConfirmedAt, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (q *Queries) CreateDeposit(ctx context.Context, d *models.UserDeposit) error {
	query := `INSERT INTO user_deposits (id, reference, user_id, case_id, amount, currency, crypto_currency, wallet_address, tx_hash, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW()) RETURNING created_at`
	err := q.db.QueryRow(ctx, query, d.ID, d.Reference, d.UserID, d.CaseID, d.Amount, d.Currency,
		d.Crypto, d.WalletAddr, d.TxHash, d.Status).Scan(&d.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create deposit: %w", err)
	}
	return nil
}

func (q *Queries) GetDeposit(ctx context.Context, id uuid.UUID) (*models.UserDeposit, error) {
	d, err := scanDeposit(q.db.QueryRow(ctx, `SELECT `+depositColumns+` FROM user_deposits WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get deposit: %w", err)
	}
	return d, nil
}

// GetDepositForUpdate locks the deposit row for the duration of the transaction.
func (q *Queries) GetDepositForUpdate(ctx context.Context, id uuid.UUID) (*models.UserDeposit, error) {
	d, err := scanDeposit(q.db.QueryRow(ctx, `SELECT `+depositColumns+` FROM user_deposits WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to lock deposit: %w", err)
	}
	return d, nil
}

// CountActiveDeposits counts deposits for a case that are still pending,
// under review, or completed.
func (q *Queries) CountActiveDeposits(ctx context.Context, caseID uuid.UUID) (int64, error) {
	var n int64
	query := `SELECT COUNT(*) FROM user_deposits WHERE case_id = $1 AND status IN ('pending', 'under_review', 'completed')`
	if err := q.db.QueryRow(ctx, query, caseID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count active deposits: %w", err)
	}
	return n, nil
}

func (q *Queries) ListDepositsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.UserDeposit, error) {
	query := `SELECT ` + depositColumns + ` FROM user_deposits WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := q.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list deposits: %w", err)
	}
	defer rows.Close()

	var deposits []models.UserDeposit
	for rows.Next() {
		d, err := scanDeposit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deposit: %w", err)
		}
		deposits = append(deposits, *d)
	}
	return deposits, rows.Err()
}

func (q *Queries) ListDepositsByStatus(ctx context.Context, status string, limit, offset int) ([]models.UserDeposit, error) {
	query := `SELECT ` + depositColumns + ` FROM user_deposits WHERE status = $1 ORDER BY created_at ASC LIMIT $2 OFFSET $3`
	rows, err := q.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list deposits by status: %w", err)
	}
	defer rows.Close()

	var deposits []models.UserDeposit
	for rows.Next() {
		d, err := scanDeposit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deposit: %w", err)
		}
		deposits = append(deposits, *d)
	}
	return deposits, rows.Err()
}

func (q *Queries) UpdateDepositStatus(ctx context.Context, id uuid.UUID, status string) (int64, error) {
	tag, err := q.db.Exec(ctx, `UPDATE user_deposits SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return 0, fmt.Errorf("failed to update deposit status: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (q *Queries) SetDepositTxHash(ctx context.Context, id uuid.UUID, txHash string) (int64, error) {
	tag, err := q.db.Exec(ctx, `UPDATE user_deposits SET tx_hash = $2 WHERE id = $1`, id, txHash)
	if err != nil {
		return 0, fmt.Errorf("failed to set deposit tx hash: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (q *Queries) MarkDepositConfirmed(ctx context.Context, id uuid.UUID, txHash string) (int64, error) {
	query := `UPDATE user_deposits SET status = 'completed', tx_hash = $2, confirmed_at = NOW() WHERE id = $1`
	tag, err := q.db.Exec(ctx, query, id, txHash)
	if err != nil {
		return 0, fmt.Errorf("failed to confirm deposit: %w", err)
	}
	return tag.RowsAffected(), nil
}
