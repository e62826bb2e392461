package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/recoverypro/portal/internal/domain"
)

// StatsService assembles the dashboard figures. All money stays decimal;
// nothing here touches floats.
type StatsService struct {
	store QueryStore
}

func NewStatsService(store QueryStore) *StatsService {
	return &StatsService{store: store}
}

type UserDashboard struct {
	TotalCases     int64            `json:"total_cases"`
	OpenCases      int64            `json:"open_cases"`
	CasesByStatus  map[string]int64 `json:"cases_by_status"`
	AmountLost     decimal.Decimal  `json:"amount_lost"`
	Balance        decimal.Decimal  `json:"balance"`
	PendingBalance decimal.Decimal  `json:"pending_balance"`
	TotalRecovered decimal.Decimal  `json:"total_recovered"`
	TotalWithdrawn decimal.Decimal  `json:"total_withdrawn"`
	Currency       string           `json:"currency"`
}

func (s *StatsService) UserDashboard(ctx context.Context, userID uuid.UUID) (*UserDashboard, error) {
	q := s.store.Queries()

	counts, err := q.CountCasesByStatus(ctx, &userID)
	if err != nil {
		return nil, err
	}
	dash := &UserDashboard{
		CasesByStatus:  make(map[string]int64, len(counts)),
		AmountLost:     decimal.Zero,
		Balance:        decimal.Zero,
		PendingBalance: decimal.Zero,
		TotalRecovered: decimal.Zero,
		TotalWithdrawn: decimal.Zero,
	}
	for _, row := range counts {
		dash.CasesByStatus[row.Status] = row.Count
		dash.TotalCases += row.Count
		if !domain.CaseStatus(row.Status).Terminal() {
			dash.OpenCases += row.Count
		}
	}

	lost, err := q.SumAmountLost(ctx, &userID)
	if err != nil {
		return nil, err
	}
	dash.AmountLost = lost

	wallet, err := q.GetWallet(ctx, userID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return dash, nil
	}
	dash.Balance = wallet.Balance
	dash.PendingBalance = wallet.PendingBalance
	dash.TotalRecovered = wallet.TotalRecovered
	dash.TotalWithdrawn = wallet.TotalWithdrawn
	dash.Currency = wallet.Currency
	return dash, nil
}

type AdminOverview struct {
	TotalUsers         int64            `json:"total_users"`
	CasesByStatus      map[string]int64 `json:"cases_by_status"`
	TotalAmountLost    decimal.Decimal  `json:"total_amount_lost"`
	TotalRecovered     decimal.Decimal  `json:"total_recovered"`
	PendingDeposits    int64            `json:"pending_deposits"`
	PendingWithdrawals int64            `json:"pending_withdrawals"`
	PendingKYC         int64            `json:"pending_kyc"`
}

func (s *StatsService) AdminOverview(ctx context.Context) (*AdminOverview, error) {
	q := s.store.Queries()

	counts, err := q.CountCasesByStatus(ctx, nil)
	if err != nil {
		return nil, err
	}
	overview := &AdminOverview{CasesByStatus: make(map[string]int64, len(counts))}
	for _, row := range counts {
		overview.CasesByStatus[row.Status] = row.Count
	}

	if overview.TotalUsers, err = q.CountUsers(ctx); err != nil {
		return nil, err
	}
	if overview.TotalAmountLost, err = q.SumAmountLost(ctx, nil); err != nil {
		return nil, err
	}
	if overview.TotalRecovered, err = q.SumRecoveredAll(ctx); err != nil {
		return nil, err
	}
	if overview.PendingDeposits, overview.PendingWithdrawals, overview.PendingKYC, err = q.CountPendingByKind(ctx); err != nil {
		return nil, err
	}
	return overview, nil
}
