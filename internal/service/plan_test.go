package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recoverypro/portal/internal/models"
)

func TestCreatePlan_AmountRangeValidation(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, _, _ := newTestServices(db)
	planSvc := NewPlanService(store)

	tests := []struct {
		name  string
		in    PlanInput
		field string
	}{
		{
			name: "negative minimum",
			in: PlanInput{
				Name:       "starter",
				MinAmount:  decimal.NewFromInt(-1),
				MaxAmount:  decimal.NewFromInt(1000),
				Percentage: decimal.NewFromInt(15),
			},
			field: "min_amount",
		},
		{
			name: "maximum not above minimum",
			in: PlanInput{
				Name:       "starter",
				MinAmount:  decimal.NewFromInt(1000),
				MaxAmount:  decimal.NewFromInt(1000),
				Percentage: decimal.NewFromInt(15),
			},
			field: "max_amount",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := planSvc.Create(ctx, tt.in)
			assert.True(t, models.IsValidation(err), "expected validation error, got %v", err)
		})
	}

	p, err := planSvc.Create(ctx, PlanInput{
		Name:       "starter",
		MinAmount:  decimal.Zero,
		MaxAmount:  decimal.NewFromInt(1000),
		Percentage: decimal.NewFromInt(15),
	})
	require.NoError(t, err)
	assert.True(t, p.Covers(decimal.NewFromInt(500)))
	assert.False(t, p.Covers(decimal.NewFromInt(1000)))
}

func TestSeedDefaultPlans(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, _, _ := newTestServices(db)
	planSvc := NewPlanService(store)

	require.NoError(t, planSvc.SeedDefaults(ctx))

	plans, err := planSvc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 3)

	byName := make(map[string]models.PaymentPlan, len(plans))
	for _, p := range plans {
		byName[p.Name] = p
	}
	assert.Equal(t, "1000", byName["starter"].MaxAmount.String())
	assert.Equal(t, "1000", byName["standard"].MinAmount.String())
	assert.Equal(t, "10000", byName["premium"].MinAmount.String())

	// Seeding again must not duplicate the tiers.
	require.NoError(t, planSvc.SeedDefaults(ctx))
	plans, err = planSvc.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, plans, 3)
}
