package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/recoverypro/portal/internal/domain"
	"github.com/recoverypro/portal/internal/models"
	"github.com/recoverypro/portal/internal/repository"
)

// CaseService owns the recovery case lifecycle: intake, plan selection, and
// pipeline transitions.
type CaseService struct {
	store         QueryStore
	notifications *NotificationService
	email         *EmailService
}

func NewCaseService(store QueryStore, notifications *NotificationService, email *EmailService) *CaseService {
	return &CaseService{store: store, notifications: notifications, email: email}
}

type SubmitCaseInput struct {
	UserID       uuid.UUID
	ScamType     string
	Description  string
	AmountLost   decimal.Decimal
	Currency     string
	ScammerInfo  string
	IncidentDate time.Time
}

func (in *SubmitCaseInput) validate() error {
	if !domain.IsScamType(in.ScamType) {
		return models.NewValidationError("scam_type", "unknown scam type")
	}
	if strings.TrimSpace(in.Description) == "" {
		return models.NewValidationError("description", "description is required")
	}
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if len(in.Currency) != 3 {
		return models.NewValidationError("currency", "currency must be a 3-letter ISO code")
	}
	if !domain.ValidAmount(in.AmountLost, in.Currency) {
		return models.NewValidationError("amount_lost", "amount must be positive and match the currency's precision")
	}
	if in.IncidentDate.IsZero() {
		return models.NewValidationError("incident_date", "incident date is required")
	}
	if in.IncidentDate.After(time.Now()) {
		return models.NewValidationError("incident_date", "incident date cannot be in the future")
	}
	return nil
}

// SubmitCase opens a case in the submitted stage and notifies the owner.
func (s *CaseService) SubmitCase(ctx context.Context, in SubmitCaseInput) (*models.ScamCase, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	c := &models.ScamCase{
		ID:           uuid.New(),
		Reference:    domain.NewCaseRef(),
		UserID:       in.UserID,
		ScamType:     in.ScamType,
		Description:  in.Description,
		AmountLost:   in.AmountLost,
		Currency:     in.Currency,
		Status:       domain.CaseSubmitted,
		ScammerInfo:  in.ScammerInfo,
		IncidentDate: in.IncidentDate,
	}

	err := s.store.RunInTx(ctx, func(q *repository.Queries) error {
		if err := q.CreateCase(ctx, c); err != nil {
			return err
		}
		update := &models.CaseStatusUpdate{
			ID:        uuid.New(),
			CaseID:    c.ID,
			OldStatus: domain.CaseSubmitted,
			NewStatus: domain.CaseSubmitted,
			Message:   "Case received and queued for verification.",
		}
		if err := q.CreateStatusUpdate(ctx, update); err != nil {
			return err
		}
		if err := s.notifications.WriteForCase(ctx, q, c.UserID, &c.ID, domain.NotificationCaseUpdate,
			fmt.Sprintf("Case %s submitted", c.Reference),
			"We received your case and will begin verification shortly."); err != nil {
			return err
		}

		// The intake queue is worked by admins; let each of them know.
		adminIDs, err := q.ListUserIDsByRole(ctx, domain.RoleAdmin)
		if err != nil {
			return err
		}
		for _, adminID := range adminIDs {
			if err := s.notifications.WriteForCase(ctx, q, adminID, &c.ID, domain.NotificationSystem,
				fmt.Sprintf("New case %s filed", c.Reference),
				fmt.Sprintf("A new %s case for %s %s is awaiting verification.", c.ScamType, c.AmountLost.String(), c.Currency)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// SelectPlan binds an active payment plan to a case. A case carries at most
// one plan for its lifetime.
func (s *CaseService) SelectPlan(ctx context.Context, userID, caseID, planID uuid.UUID) (*models.ScamCase, decimal.Decimal, error) {
	var c *models.ScamCase
	var required decimal.Decimal

	err := s.store.RunInTx(ctx, func(q *repository.Queries) error {
		var err error
		c, err = q.GetCaseForUpdate(ctx, caseID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.ErrCaseNotFound
			}
			return err
		}
		if c.UserID != userID {
			return models.ErrCaseNotFound
		}
		if c.PlanID != nil {
			return models.NewValidationError("plan_id", "case already has a plan selected")
		}
		if c.Status != domain.CaseSubmitted {
			return fmt.Errorf("%w: plan selection requires a submitted case, got %s", models.ErrInvalidTransition, c.Status)
		}

		plan, err := q.GetPlan(ctx, planID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.ErrPlanNotFound
			}
			return err
		}
		if !plan.Active {
			return models.ErrPlanInactive
		}
		if !plan.Covers(c.AmountLost) {
			return models.NewValidationError("plan_id",
				fmt.Sprintf("plan %q covers losses from %s to %s", plan.Name, plan.MinAmount.String(), plan.MaxAmount.String()))
		}

		rows, err := q.SetCasePlan(ctx, caseID, planID)
		if err != nil {
			return err
		}
		if err := requireExactlyOne(rows, "set case plan"); err != nil {
			return err
		}

		c.PlanID = &planID
		required = plan.RequiredDeposit(c.AmountLost, c.Currency)

		// Selecting a plan moves the case out of intake.
		if err := transitionCaseState(ctx, q, s.notifications, c, domain.CaseVerified,
			fmt.Sprintf("Plan %q selected.", plan.Name), nil); err != nil {
			return err
		}

		return s.notifications.WriteForCase(ctx, q, c.UserID, &c.ID, domain.NotificationPayment,
			fmt.Sprintf("Plan selected for case %s", c.Reference),
			fmt.Sprintf("Plan %q selected. Required deposit: %s %s.", plan.Name, required.String(), c.Currency))
	})
	if err != nil {
		return nil, decimal.Zero, err
	}
	return c, required, nil
}

// AdvanceStatus moves a case along the pipeline on behalf of staff.
func (s *CaseService) AdvanceStatus(ctx context.Context, caseID uuid.UUID, next domain.CaseStatus, message string, actorID uuid.UUID) (*models.ScamCase, error) {
	if !next.Valid() {
		return nil, models.NewValidationError("status", "unknown case status")
	}

	var c *models.ScamCase
	var owner *models.User

	err := s.store.RunInTx(ctx, func(q *repository.Queries) error {
		var err error
		c, err = q.GetCaseForUpdate(ctx, caseID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.ErrCaseNotFound
			}
			return err
		}
		if err := transitionCaseState(ctx, q, s.notifications, c, next, message, &actorID); err != nil {
			return err
		}
		owner, err = q.GetUser(ctx, c.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.email.Send(ctx, owner.ID, domain.EmailCaseUpdate, owner.Email,
		fmt.Sprintf("Case %s update: %s", c.Reference, next.Label()),
		fmt.Sprintf("Hello %s,\n\nYour case %s is now at stage: %s.\n", owner.Username, c.Reference, next.Label()))
	return c, nil
}

// Assign records the reviewing agent and risk score on a case.
func (s *CaseService) Assign(ctx context.Context, caseID, agentID uuid.UUID, riskScore int) (*models.ScamCase, error) {
	if riskScore < 0 || riskScore > 100 {
		return nil, models.NewValidationError("risk_score", "risk score must be between 0 and 100")
	}

	var c *models.ScamCase
	err := s.store.RunInTx(ctx, func(q *repository.Queries) error {
		agent, err := q.GetUser(ctx, agentID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.NewValidationError("agent_id", "unknown agent")
			}
			return err
		}
		if !domain.IsStaffRole(agent.Role) {
			return models.NewValidationError("agent_id", "assignee must be a staff account")
		}

		rows, err := q.SetCaseAssignment(ctx, caseID, agentID, riskScore)
		if err != nil {
			return err
		}
		if rows == 0 {
			return models.ErrCaseNotFound
		}

		c, err = q.GetCase(ctx, caseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetCase returns a case scoped to its owner. Staff callers pass allowAny.
func (s *CaseService) GetCase(ctx context.Context, caseID, userID uuid.UUID, allowAny bool) (*models.ScamCase, error) {
	c, err := s.store.Queries().GetCase(ctx, caseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrCaseNotFound
		}
		return nil, err
	}
	if !allowAny && c.UserID != userID {
		return nil, models.ErrCaseNotFound
	}
	return c, nil
}

func (s *CaseService) ListCases(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.ScamCase, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.store.Queries().ListCasesByUser(ctx, userID, limit, offset)
}

func (s *CaseService) ListCasesByStatus(ctx context.Context, status domain.CaseStatus, limit, offset int) ([]models.ScamCase, error) {
	if !status.Valid() {
		return nil, models.NewValidationError("status", "unknown case status")
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.store.Queries().ListCasesByStatus(ctx, string(status), limit, offset)
}

// Timeline returns the case's status history, owner-scoped.
func (s *CaseService) Timeline(ctx context.Context, caseID, userID uuid.UUID, allowAny bool) ([]models.CaseStatusUpdate, error) {
	if _, err := s.GetCase(ctx, caseID, userID, allowAny); err != nil {
		return nil, err
	}
	return s.store.Queries().ListStatusUpdates(ctx, caseID)
}

// AttachEvidence records an uploaded file's metadata against a case.
func (s *CaseService) AttachEvidence(ctx context.Context, caseID, userID uuid.UUID, fileName string, fileSize int64, storagePath string) (*models.EvidenceFile, error) {
	if reason, ok := domain.ValidateDocument(fileName, fileSize); !ok {
		return nil, models.NewValidationError("file", reason)
	}
	c, err := s.GetCase(ctx, caseID, userID, false)
	if err != nil {
		return nil, err
	}
	if c.Status.Terminal() {
		return nil, fmt.Errorf("%w: case is %s", models.ErrInvalidTransition, c.Status)
	}

	f := &models.EvidenceFile{
		ID:          uuid.New(),
		CaseID:      caseID,
		FileName:    fileName,
		FileSize:    fileSize,
		StoragePath: storagePath,
	}
	if err := s.store.Queries().CreateEvidenceFile(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *CaseService) ListEvidence(ctx context.Context, caseID, userID uuid.UUID, allowAny bool) ([]models.EvidenceFile, error) {
	if _, err := s.GetCase(ctx, caseID, userID, allowAny); err != nil {
		return nil, err
	}
	return s.store.Queries().ListEvidenceFiles(ctx, caseID)
}
