package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/recoverypro/portal/internal/models"
)

const caseColumns = `id, reference, user_id, plan_id, scam_type, description, amount_lost, currency, status, scammer_info, incident_date, agent_id, risk_score, created_at, updated_at`

func scanCase(row interface{ Scan(dest ...any) error }) (*models.ScamCase, error) {
	c := &models.ScamCase{}
	err := row.Scan(&c.ID, &c.Reference, &c.UserID, &c.PlanID, &c.ScamType, &c.Description,
		&c.AmountLost, &c.Currency, &c.Status, &c.ScammerInfo, &c.IncidentDate, &c.AgentID,
		&c.RiskScore, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (q *Queries) CreateCase(ctx context.Context, c *models.ScamCase) error {
	query := `INSERT INTO cases (id, reference, user_id, plan_id, scam_type, description, amount_lost, currency, status, scammer_info, incident_date, agent_id, risk_score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING created_at, updated_at`
	err := q.db.QueryRow(ctx, query, c.ID, c.Reference, c.UserID, c.PlanID, c.ScamType,
		c.Description, c.AmountLost, c.Currency, c.Status, c.ScammerInfo, c.IncidentDate,
		c.AgentID, c.RiskScore).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create case: %w", err)
	}
	return nil
}

func (q *Queries) GetCase(ctx context.Context, id uuid.UUID) (*models.ScamCase, error) {
	c, err := scanCase(q.db.QueryRow(ctx, `SELECT `+caseColumns+` FROM cases WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get case: %w", err)
	}
	return c, nil
}

// GetCaseForUpdate locks the case row for the duration of the transaction.
func (q *Queries) GetCaseForUpdate(ctx context.Context, id uuid.UUID) (*models.ScamCase, error) {
	c, err := scanCase(q.db.QueryRow(ctx, `SELECT `+caseColumns+` FROM cases WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to lock case: %w", err)
	}
	return c, nil
}

func (q *Queries) GetCaseByReference(ctx context.Context, reference string) (*models.ScamCase, error) {
	c, err := scanCase(q.db.QueryRow(ctx, `SELECT `+caseColumns+` FROM cases WHERE reference = $1`, reference))
	if err != nil {
		return nil, fmt.Errorf("failed to get case by reference: %w", err)
	}
	return c, nil
}

func (q *Queries) ListCasesByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.ScamCase, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := q.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	defer rows.Close()

	var cases []models.ScamCase
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}
		cases = append(cases, *c)
	}
	return cases, rows.Err()
}

func (q *Queries) ListCasesByStatus(ctx context.Context, status string, limit, offset int) ([]models.ScamCase, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := q.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases by status: %w", err)
	}
	defer rows.Close()

	var cases []models.ScamCase
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}
		cases = append(cases, *c)
	}
	return cases, rows.Err()
}

func (q *Queries) UpdateCaseStatus(ctx context.Context, id uuid.UUID, status string) (int64, error) {
	tag, err := q.db.Exec(ctx, `UPDATE cases SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return 0, fmt.Errorf("failed to update case status: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SetCaseAssignment records the reviewing agent and risk score for a case.
func (q *Queries) SetCaseAssignment(ctx context.Context, caseID, agentID uuid.UUID, riskScore int) (int64, error) {
	tag, err := q.db.Exec(ctx, `UPDATE cases SET agent_id = $2, risk_score = $3, updated_at = NOW() WHERE id = $1`, caseID, agentID, riskScore)
	if err != nil {
		return 0, fmt.Errorf("failed to set case assignment: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (q *Queries) SetCasePlan(ctx context.Context, caseID, planID uuid.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, `UPDATE cases SET plan_id = $2, updated_at = NOW() WHERE id = $1`, caseID, planID)
	if err != nil {
		return 0, fmt.Errorf("failed to set case plan: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (q *Queries) CreateStatusUpdate(ctx context.Context, u *models.CaseStatusUpdate) error {
	query := `INSERT INTO case_status_updates (id, case_id, old_status, new_status, message, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW()) RETURNING created_at`
	err := q.db.QueryRow(ctx, query, u.ID, u.CaseID, u.OldStatus, u.NewStatus, u.Message, u.ActorID).Scan(&u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create status update: %w", err)
	}
	return nil
}

func (q *Queries) ListStatusUpdates(ctx context.Context, caseID uuid.UUID) ([]models.CaseStatusUpdate, error) {
	query := `SELECT id, case_id, old_status, new_status, message, actor_id, created_at
		FROM case_status_updates WHERE case_id = $1 ORDER BY created_at ASC`
	rows, err := q.db.Query(ctx, query, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list status updates: %w", err)
	}
	defer rows.Close()

	var updates []models.CaseStatusUpdate
	for rows.Next() {
		var u models.CaseStatusUpdate
		if err := rows.Scan(&u.ID, &u.CaseID, &u.OldStatus, &u.NewStatus, &u.Message, &u.ActorID, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status update: %w", err)
		}
		updates = append(updates, u)
	}
	return updates, rows.Err()
}

func (q *Queries) CreateEvidenceFile(ctx context.Context, f *models.EvidenceFile) error {
	query := `INSERT INTO evidence_files (id, case_id, file_name, file_size, storage_path, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING uploaded_at`
	err := q.db.QueryRow(ctx, query, f.ID, f.CaseID, f.FileName, f.FileSize, f.StoragePath).Scan(&f.UploadedAt)
	if err != nil {
		return fmt.Errorf("failed to create evidence file: %w", err)
	}
	return nil
}

func (q *Queries) ListEvidenceFiles(ctx context.Context, caseID uuid.UUID) ([]models.EvidenceFile, error) {
	query := `SELECT id, case_id, file_name, file_size, storage_path, uploaded_at
		FROM evidence_files WHERE case_id = $1 ORDER BY uploaded_at ASC`
	rows, err := q.db.Query(ctx, query, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list evidence files: %w", err)
	}
	defer rows.Close()

	var files []models.EvidenceFile
	for rows.Next() {
		var f models.EvidenceFile
		if err := rows.Scan(&f.ID, &f.CaseID, &f.FileName, &f.FileSize, &f.StoragePath, &f.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan evidence file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
