package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/recoverypro/portal/internal/observability"
)

// ReconciliationService verifies wallet integrity invariants.
type ReconciliationService struct {
	store QueryStore
}

// NewReconciliationService creates a reconciliation service.
func NewReconciliationService(store QueryStore) *ReconciliationService {
	return &ReconciliationService{store: store}
}

// Run checks every wallet's total_recovered against the sum of its recovery
// ledger rows. A divergence means a credit happened outside RecordRecovery.
func (s *ReconciliationService) Run(ctx context.Context) error {
	queries := s.store.Queries()

	userIDs, err := queries.ListWalletUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("list wallets for reconciliation: %w", err)
	}

	mismatches := 0
	for _, userID := range userIDs {
		wallet, err := queries.GetWallet(ctx, userID)
		if err != nil {
			return fmt.Errorf("load wallet %s: %w", userID, err)
		}
		ledgerTotal, err := queries.SumRecoveries(ctx, userID)
		if err != nil {
			return fmt.Errorf("sum recoveries for %s: %w", userID, err)
		}

		if !wallet.TotalRecovered.Equal(ledgerTotal) {
			mismatches++
			observability.IncrementWalletImbalance(wallet.Currency)
			zap.L().Error("CRITICAL: wallet diverged from recovery ledger",
				zap.String("user_id", userID.String()),
				zap.String("wallet_total", wallet.TotalRecovered.String()),
				zap.String("ledger_total", ledgerTotal.String()),
				zap.String("currency", wallet.Currency))
		}
	}

	if mismatches == 0 {
		zap.L().Info("wallets reconciled", zap.Int("wallets", len(userIDs)))
	}
	return nil
}

// RefreshQueueGauges publishes the staff review queue depths.
func (s *ReconciliationService) RefreshQueueGauges(ctx context.Context) error {
	deposits, withdrawals, kyc, err := s.store.Queries().CountPendingByKind(ctx)
	if err != nil {
		return fmt.Errorf("count pending reviews: %w", err)
	}
	observability.SetReviewQueueSize("deposits", deposits)
	observability.SetReviewQueueSize("withdrawals", withdrawals)
	observability.SetReviewQueueSize("kyc", kyc)
	return nil
}
