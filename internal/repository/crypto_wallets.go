package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/recoverypro/portal/internal/models"
)

func (q *Queries) CreateCryptoWallet(ctx context.Context, w *models.CryptoWallet) error {
	query := `INSERT INTO crypto_wallets (id, currency, network, address, active, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING created_at`
	err := q.db.QueryRow(ctx, query, w.ID, w.Currency, w.Network, w.Address, w.Active).Scan(&w.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create crypto wallet: %w", err)
	}
	return nil
}

// GetActiveCryptoWallet returns the active receiving address for a currency.
func (q *Queries) GetActiveCryptoWallet(ctx context.Context, currency string) (*models.CryptoWallet, error) {
	w := &models.CryptoWallet{}
	query := `SELECT id, currency, network, address, active, created_at
		FROM crypto_wallets WHERE currency = $1 AND active ORDER BY created_at DESC LIMIT 1`
	err := q.db.QueryRow(ctx, query, currency).Scan(&w.ID, &w.Currency, &w.Network, &w.Address, &w.Active, &w.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get crypto wallet: %w", err)
	}
	return w, nil
}

func (q *Queries) ListCryptoWallets(ctx context.Context, activeOnly bool) ([]models.CryptoWallet, error) {
	query := `SELECT id, currency, network, address, active, created_at
		FROM crypto_wallets WHERE NOT $1 OR active ORDER BY currency, created_at DESC`
	rows, err := q.db.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list crypto wallets: %w", err)
	}
	defer rows.Close()

	var wallets []models.CryptoWallet
	for rows.Next() {
		var w models.CryptoWallet
		if err := rows.Scan(&w.ID, &w.Currency, &w.Network, &w.Address, &w.Active, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan crypto wallet: %w", err)
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

func (q *Queries) SetCryptoWalletActive(ctx context.Context, id uuid.UUID, active bool) (int64, error) {
	tag, err := q.db.Exec(ctx, `UPDATE crypto_wallets SET active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return 0, fmt.Errorf("failed to set crypto wallet active: %w", err)
	}
	return tag.RowsAffected(), nil
}
