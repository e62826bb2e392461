package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/recoverypro/portal/internal/models"
	"github.com/recoverypro/portal/internal/repository"
)

// PlanService manages the deposit tiers offered to case owners.
type PlanService struct {
	store QueryStore
}

func NewPlanService(store QueryStore) *PlanService {
	return &PlanService{store: store}
}

type PlanInput struct {
	Name         string
	Description  string
	MinAmount    decimal.Decimal
	MaxAmount    decimal.Decimal
	Percentage   decimal.Decimal
	FixedDeposit *decimal.Decimal
}

func (s *PlanService) Create(ctx context.Context, in PlanInput) (*models.PaymentPlan, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, models.NewValidationError("name", "name is required")
	}
	if in.MinAmount.IsNegative() {
		return nil, models.NewValidationError("min_amount", "minimum amount cannot be negative")
	}
	if !in.MaxAmount.GreaterThan(in.MinAmount) {
		return nil, models.NewValidationError("max_amount", "maximum amount must be greater than minimum amount")
	}
	if in.Percentage.IsNegative() || in.Percentage.GreaterThan(decimal.NewFromInt(100)) {
		return nil, models.NewValidationError("percentage", "percentage must be between 0 and 100")
	}
	if in.FixedDeposit != nil && !in.FixedDeposit.IsPositive() {
		return nil, models.NewValidationError("fixed_deposit", "fixed deposit must be positive")
	}

	p := &models.PaymentPlan{
		ID:           uuid.New(),
		Name:         in.Name,
		Description:  in.Description,
		MinAmount:    in.MinAmount,
		MaxAmount:    in.MaxAmount,
		Percentage:   in.Percentage,
		FixedDeposit: in.FixedDeposit,
		Active:       true,
	}
	if err := s.store.Queries().CreatePlan(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SeedDefaults inserts the starter, standard and premium tiers when the
// plans table is empty. Existing plans are left untouched.
func (s *PlanService) SeedDefaults(ctx context.Context) error {
	return s.store.RunInTx(ctx, func(q *repository.Queries) error {
		n, err := q.CountPlans(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		defaults := []models.PaymentPlan{
			{
				Name:        "starter",
				Description: "Basic investigation for smaller cases under $1,000.",
				MinAmount:   decimal.Zero,
				MaxAmount:   decimal.NewFromInt(1000),
				Percentage:  decimal.NewFromInt(15),
			},
			{
				Name:        "standard",
				Description: "Comprehensive recovery for cases between $1,000 and $10,000 with a dedicated agent.",
				MinAmount:   decimal.NewFromInt(1000),
				MaxAmount:   decimal.NewFromInt(10000),
				Percentage:  decimal.NewFromInt(12),
			},
			{
				Name:        "premium",
				Description: "Full-scale professional recovery for major cases over $10,000.",
				MinAmount:   decimal.NewFromInt(10000),
				MaxAmount:   decimal.NewFromInt(1000000),
				Percentage:  decimal.NewFromInt(10),
			},
		}
		for i := range defaults {
			defaults[i].ID = uuid.New()
			defaults[i].Active = true
			if err := q.CreatePlan(ctx, &defaults[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *PlanService) Get(ctx context.Context, id uuid.UUID) (*models.PaymentPlan, error) {
	p, err := s.store.Queries().GetPlan(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrPlanNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *PlanService) ListActive(ctx context.Context) ([]models.PaymentPlan, error) {
	return s.store.Queries().ListActivePlans(ctx)
}

func (s *PlanService) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	rows, err := s.store.Queries().SetPlanActive(ctx, id, active)
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrPlanNotFound
	}
	return nil
}
