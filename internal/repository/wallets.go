package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/recoverypro/portal/internal/models"
)

const walletColumns = `user_id, balance, pending_balance, total_recovered, total_withdrawn, currency, updated_at`

func (q *Queries) CreateWallet(ctx context.Context, w *models.UserWallet) error {
	query := `INSERT INTO user_wallets (user_id, balance, pending_balance, total_recovered, total_withdrawn, currency, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW()) RETURNING updated_at`
	err := q.db.QueryRow(ctx, query, w.UserID, w.Balance, w.PendingBalance, w.TotalRecovered, w.TotalWithdrawn, w.Currency).Scan(&w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

func (q *Queries) GetWallet(ctx context.Context, userID uuid.UUID) (*models.UserWallet, error) {
	w := &models.UserWallet{}
	query := `SELECT ` + walletColumns + ` FROM user_wallets WHERE user_id = $1`
	err := q.db.QueryRow(ctx, query, userID).Scan(&w.UserID, &w.Balance, &w.PendingBalance, &w.TotalRecovered, &w.TotalWithdrawn, &w.Currency, &w.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return w, nil
}

// GetWalletForUpdate locks the wallet row for the duration of the transaction.
// Every balance mutation goes through this lock.
func (q *Queries) GetWalletForUpdate(ctx context.Context, userID uuid.UUID) (*models.UserWallet, error) {
	w := &models.UserWallet{}
	query := `SELECT ` + walletColumns + ` FROM user_wallets WHERE user_id = $1 FOR UPDATE`
	err := q.db.QueryRow(ctx, query, userID).Scan(&w.UserID, &w.Balance, &w.PendingBalance, &w.TotalRecovered, &w.TotalWithdrawn, &w.Currency, &w.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}
	return w, nil
}

func (q *Queries) UpdateWalletBalances(ctx context.Context, w *models.UserWallet) (int64, error) {
	query := `UPDATE user_wallets SET balance = $2, pending_balance = $3, total_recovered = $4, total_withdrawn = $5, updated_at = NOW()
		WHERE user_id = $1`
	tag, err := q.db.Exec(ctx, query, w.UserID, w.Balance, w.PendingBalance, w.TotalRecovered, w.TotalWithdrawn)
	if err != nil {
		return 0, fmt.Errorf("failed to update wallet balances: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SumRecoveries totals the recovery transactions ledger for a user.
func (q *Queries) SumRecoveries(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM recovery_transactions WHERE user_id = $1`
	if err := q.db.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum recoveries: %w", err)
	}
	return total, nil
}

// ListWalletUserIDs returns every user with a wallet row, for reconciliation.
func (q *Queries) ListWalletUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := q.db.Query(ctx, `SELECT user_id FROM user_wallets ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet users: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan wallet user: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
