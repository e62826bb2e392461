package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/recoverypro/portal/internal/models"
)

func (q *Queries) CreateUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (id, username, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING created_at`
	err := q.db.QueryRow(ctx, query, user.ID, user.Username, user.Email, user.PasswordHash, user.Role).Scan(&user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (q *Queries) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, username, email, password_hash, role, created_at FROM users WHERE id = $1`
	err := q.db.QueryRow(ctx, query, id).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ListUserIDsByRole returns the IDs of every user holding the given role.
func (q *Queries) ListUserIDsByRole(ctx context.Context, role string) ([]uuid.UUID, error) {
	rows, err := q.db.Query(ctx, `SELECT id FROM users WHERE role = $1 ORDER BY created_at ASC`, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, username, email, password_hash, role, created_at FROM users WHERE email = $1`
	err := q.db.QueryRow(ctx, query, email).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (q *Queries) UpsertUserProfile(ctx context.Context, p *models.UserProfile) error {
	query := `INSERT INTO user_profiles (user_id, full_name, phone, country, kyc_verified, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			phone = EXCLUDED.phone,
			country = EXCLUDED.country,
			updated_at = NOW()
		RETURNING kyc_verified, updated_at`
	err := q.db.QueryRow(ctx, query, p.UserID, p.FullName, p.Phone, p.Country, p.KYCVerified).Scan(&p.KYCVerified, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert user profile: %w", err)
	}
	return nil
}

func (q *Queries) GetUserProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	p := &models.UserProfile{}
	query := `SELECT user_id, full_name, phone, country, kyc_verified, updated_at FROM user_profiles WHERE user_id = $1`
	err := q.db.QueryRow(ctx, query, userID).Scan(&p.UserID, &p.FullName, &p.Phone, &p.Country, &p.KYCVerified, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}
	return p, nil
}

func (q *Queries) SetUserKYCVerified(ctx context.Context, userID uuid.UUID, verified bool) (int64, error) {
	query := `UPDATE user_profiles SET kyc_verified = $2, updated_at = NOW() WHERE user_id = $1`
	tag, err := q.db.Exec(ctx, query, userID, verified)
	if err != nil {
		return 0, fmt.Errorf("failed to set kyc verified: %w", err)
	}
	return tag.RowsAffected(), nil
}
