package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/recoverypro/portal/internal/models"
)

const kycColumns = `id, user_id, document_type, document_number, document_path, status, rejection_reason, reviewed_by, reviewed_at, created_at`

func scanKYC(row interface{ Scan(dest ...any) error }) (*models.KYCVerification, error) {
	k := &models.KYCVerification{}
	err := row.Scan(&k.ID, &k.UserID, &k.DocumentType, &k.DocumentNumber, &k.DocumentPath,
		&k.Status, &k.RejectionReason, &k.ReviewedBy, &k.ReviewedAt, &k.CreatedAt)
	if err != nil {
		return nil, err
	}
	return k, nil
}

func (q *Queries) CreateKYC(ctx context.Context, k *models.KYCVerification) error {
	query := `INSERT INTO kyc_verifications (id, user_id, document_type, document_number, document_path, status, rejection_reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW()) RETURNING created_at`
	err := q.db.QueryRow(ctx, query, k.ID, k.UserID, k.DocumentType, k.DocumentNumber,
		k.DocumentPath, k.Status, k.RejectionReason).Scan(&k.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create kyc submission: %w", err)
	}
	return nil
}

func (q *Queries) GetKYC(ctx context.Context, id uuid.UUID) (*models.KYCVerification, error) {
	k, err := scanKYC(q.db.QueryRow(ctx, `SELECT `+kycColumns+` FROM kyc_verifications WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get kyc submission: %w", err)
	}
	return k, nil
}

// GetKYCForUpdate locks the submission row for the duration of the transaction.
func (q *Queries) GetKYCForUpdate(ctx context.Context, id uuid.UUID) (*models.KYCVerification, error) {
	k, err := scanKYC(q.db.QueryRow(ctx, `SELECT `+kycColumns+` FROM kyc_verifications WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to lock kyc submission: %w", err)
	}
	return k, nil
}

// GetLatestKYCByUser returns the newest submission for a user.
func (q *Queries) GetLatestKYCByUser(ctx context.Context, userID uuid.UUID) (*models.KYCVerification, error) {
	k, err := scanKYC(q.db.QueryRow(ctx,
		`SELECT `+kycColumns+` FROM kyc_verifications WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get latest kyc submission: %w", err)
	}
	return k, nil
}

func (q *Queries) ListKYCByStatus(ctx context.Context, status string, limit, offset int) ([]models.KYCVerification, error) {
	query := `SELECT ` + kycColumns + ` FROM kyc_verifications WHERE status = $1 ORDER BY created_at ASC LIMIT $2 OFFSET $3`
	rows, err := q.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list kyc submissions: %w", err)
	}
	defer rows.Close()

	var subs []models.KYCVerification
	for rows.Next() {
		k, err := scanKYC(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan kyc submission: %w", err)
		}
		subs = append(subs, *k)
	}
	return subs, rows.Err()
}

func (q *Queries) ReviewKYC(ctx context.Context, id uuid.UUID, status, rejectionReason string, reviewedBy uuid.UUID) (int64, error) {
	query := `UPDATE kyc_verifications SET status = $2, rejection_reason = $3, reviewed_by = $4, reviewed_at = NOW()
		WHERE id = $1`
	tag, err := q.db.Exec(ctx, query, id, status, rejectionReason, reviewedBy)
	if err != nil {
		return 0, fmt.Errorf("failed to review kyc submission: %w", err)
	}
	return tag.RowsAffected(), nil
}
