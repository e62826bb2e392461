package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/recoverypro/portal/internal/domain"
	"github.com/recoverypro/portal/internal/models"
	"github.com/recoverypro/portal/internal/repository"
)

// LedgerService keeps the per-user wallet honest. Recovered funds credit the
// wallet; withdrawal requests hold the balance until staff resolve them, so a
// wallet can never back two payouts with the same money.
type LedgerService struct {
	store         QueryStore
	notifications *NotificationService
	email         *EmailService
	kycRequired   bool
	minWithdrawal decimal.Decimal
}

func NewLedgerService(store QueryStore, notifications *NotificationService, email *EmailService, kycRequired bool) *LedgerService {
	return &LedgerService{
		store:         store,
		notifications: notifications,
		email:         email,
		kycRequired:   kycRequired,
		minWithdrawal: domain.MinWithdrawalUSD,
	}
}

// RecordRecovery credits recovered funds to the case owner's wallet and
// appends the ledger row, in one transaction.
func (s *LedgerService) RecordRecovery(ctx context.Context, caseID uuid.UUID, amount decimal.Decimal, description string, actorID uuid.UUID) (*models.RecoveryTransaction, error) {
	var rec *models.RecoveryTransaction
	var owner *models.User
	var caseRef string

	err := s.store.RunInTx(ctx, func(q *repository.Queries) error {
		c, err := q.GetCaseForUpdate(ctx, caseID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.ErrCaseNotFound
			}
			return err
		}
		caseRef = c.Reference
		if c.Status == domain.CaseRejected {
			return fmt.Errorf("%w: case is rejected", models.ErrInvalidTransition)
		}
		if !domain.ValidAmount(amount, c.Currency) {
			return models.NewValidationError("amount", "amount must be positive and match the currency's precision")
		}

		w, err := q.GetWalletForUpdate(ctx, c.UserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.ErrWalletNotFound
			}
			return err
		}

		rec = &models.RecoveryTransaction{
			ID:          uuid.New(),
			Reference:   domain.NewTransactionRef(),
			CaseID:      caseID,
			UserID:      c.UserID,
			Amount:      amount,
			Currency:    c.Currency,
			Description: description,
		}
		if err := q.CreateRecovery(ctx, rec); err != nil {
			return err
		}

		updated := w.ApplyRecovery(amount)
		rows, err := q.UpdateWalletBalances(ctx, &updated)
		if err != nil {
			return err
		}
		if err := requireExactlyOne(rows, "credit wallet"); err != nil {
			return err
		}

		if err := s.notifications.WriteForCase(ctx, q, c.UserID, &c.ID, domain.NotificationPayment,
			fmt.Sprintf("Funds recovered for case %s", caseRef),
			fmt.Sprintf("%s %s has been recovered and credited to your wallet.", amount.String(), c.Currency)); err != nil {
			return err
		}

		owner, err = q.GetUser(ctx, c.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.email.Send(ctx, owner.ID, domain.EmailRecovery, owner.Email,
		fmt.Sprintf("Recovery update for case %s", caseRef),
		fmt.Sprintf("Hello %s,\n\nWe recovered %s %s for case %s. It is now available in your wallet.\n",
			owner.Username, rec.Amount.String(), rec.Currency, caseRef))
	return rec, nil
}

type WithdrawalInput struct {
	UserID      uuid.UUID
	Amount      decimal.Decimal
	Method      string
	Destination string
}

// RequestWithdrawal places a hold on the wallet and opens a pending request.
func (s *LedgerService) RequestWithdrawal(ctx context.Context, in WithdrawalInput) (*models.WithdrawalRequest, error) {
	if !domain.IsWithdrawalMethod(in.Method) {
		return nil, models.NewValidationError("method", "unknown withdrawal method")
	}
	if strings.TrimSpace(in.Destination) == "" {
		return nil, models.NewValidationError("destination", "destination is required")
	}

	var w *models.WithdrawalRequest
	var owner *models.User

	err := s.store.RunInTx(ctx, func(q *repository.Queries) error {
		if s.kycRequired {
			profile, err := q.GetUserProfile(ctx, in.UserID)
			if err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return err
			}
			if err != nil || !profile.KYCVerified {
				return models.ErrKYCRequired
			}
		}

		wallet, err := q.GetWalletForUpdate(ctx, in.UserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.ErrWalletNotFound
			}
			return err
		}
		if !domain.ValidAmount(in.Amount, wallet.Currency) {
			return models.NewValidationError("amount", "amount must be positive and match the currency's precision")
		}
		if in.Amount.LessThan(s.minWithdrawal) {
			return models.ErrBelowMinimumWithdrawal
		}
		if !wallet.CanWithdraw(in.Amount) {
			return models.ErrInsufficientBalance
		}

		w = &models.WithdrawalRequest{
			ID:          uuid.New(),
			Reference:   domain.NewWithdrawalRef(),
			UserID:      in.UserID,
			Amount:      in.Amount,
			Currency:    wallet.Currency,
			Method:      in.Method,
			Destination: in.Destination,
			Status:      domain.WithdrawalPending,
		}
		if err := q.CreateWithdrawal(ctx, w); err != nil {
			return err
		}

		held := wallet.ApplyWithdrawalHold(in.Amount)
		rows, err := q.UpdateWalletBalances(ctx, &held)
		if err != nil {
			return err
		}
		if err := requireExactlyOne(rows, "hold wallet balance"); err != nil {
			return err
		}

		if err := s.notifications.Write(ctx, q, in.UserID, domain.NotificationWithdrawal,
			fmt.Sprintf("Withdrawal %s requested", w.Reference),
			fmt.Sprintf("Your withdrawal of %s %s is pending review.", in.Amount.String(), wallet.Currency)); err != nil {
			return err
		}

		owner, err = q.GetUser(ctx, in.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.email.Send(ctx, owner.ID, domain.EmailWithdrawalRequest, owner.Email,
		fmt.Sprintf("Withdrawal %s received", w.Reference),
		fmt.Sprintf("Hello %s,\n\nWe received your withdrawal request of %s %s. You will be notified once it is reviewed.\n",
			owner.Username, w.Amount.String(), w.Currency))
	return w, nil
}

// ResolveWithdrawal applies a staff decision. Completed settles the hold into
// total withdrawn; rejected releases it back to the balance; approved and
// processing only move the review state.
func (s *LedgerService) ResolveWithdrawal(ctx context.Context, withdrawalID uuid.UUID, next domain.WithdrawalStatus, adminNotes string, actorID uuid.UUID) (*models.WithdrawalRequest, error) {
	if !next.Valid() || next == domain.WithdrawalPending {
		return nil, models.NewValidationError("status", "unknown withdrawal status")
	}

	var w *models.WithdrawalRequest
	var owner *models.User
	err := s.store.RunInTx(ctx, func(q *repository.Queries) error {
		var err error
		w, err = q.GetWithdrawalForUpdate(ctx, withdrawalID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.ErrWithdrawalNotFound
			}
			return err
		}
		if !w.Status.CanTransition(next) {
			return fmt.Errorf("%w: withdrawal is %s", models.ErrInvalidTransition, w.Status)
		}

		rows, err := q.UpdateWithdrawalStatus(ctx, withdrawalID, string(next), adminNotes, next.Terminal())
		if err != nil {
			return err
		}
		if err := requireExactlyOne(rows, "update withdrawal status"); err != nil {
			return err
		}

		switch next {
		case domain.WithdrawalCompleted, domain.WithdrawalRejected:
			wallet, err := q.GetWalletForUpdate(ctx, w.UserID)
			if err != nil {
				return err
			}
			var updated models.UserWallet
			if next == domain.WithdrawalCompleted {
				updated = wallet.ApplyWithdrawalComplete(w.Amount)
			} else {
				updated = wallet.ApplyRefund(w.Amount)
			}
			rows, err := q.UpdateWalletBalances(ctx, &updated)
			if err != nil {
				return err
			}
			if err := requireExactlyOne(rows, "settle wallet balance"); err != nil {
				return err
			}
		}

		w.Status = next
		w.AdminNotes = adminNotes

		msg := fmt.Sprintf("Your withdrawal %s is now %s.", w.Reference, next)
		if adminNotes != "" {
			msg += " " + adminNotes
		}
		if err := s.notifications.Write(ctx, q, w.UserID, domain.NotificationWithdrawal,
			fmt.Sprintf("Withdrawal %s %s", w.Reference, next), msg); err != nil {
			return err
		}

		owner, err = q.GetUser(ctx, w.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.email.Send(ctx, owner.ID, domain.EmailWithdrawalUpdate, owner.Email,
		withdrawalEmailSubject(w.Reference, next),
		fmt.Sprintf("Hello %s,\n\nYour withdrawal %s of %s %s is now %s.\n",
			owner.Username, w.Reference, w.Amount.String(), w.Currency, next))
	return w, nil
}

func withdrawalEmailSubject(reference string, status domain.WithdrawalStatus) string {
	switch status {
	case domain.WithdrawalApproved:
		return fmt.Sprintf("Withdrawal %s approved", reference)
	case domain.WithdrawalCompleted:
		return fmt.Sprintf("Withdrawal %s paid out", reference)
	case domain.WithdrawalRejected:
		return fmt.Sprintf("Withdrawal %s rejected", reference)
	default:
		return fmt.Sprintf("Withdrawal %s update", reference)
	}
}

func (s *LedgerService) GetWallet(ctx context.Context, userID uuid.UUID) (*models.UserWallet, error) {
	w, err := s.store.Queries().GetWallet(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrWalletNotFound
		}
		return nil, err
	}
	return w, nil
}

func (s *LedgerService) GetWithdrawal(ctx context.Context, withdrawalID, userID uuid.UUID, allowAny bool) (*models.WithdrawalRequest, error) {
	w, err := s.store.Queries().GetWithdrawal(ctx, withdrawalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrWithdrawalNotFound
		}
		return nil, err
	}
	if !allowAny && w.UserID != userID {
		return nil, models.ErrWithdrawalNotFound
	}
	return w, nil
}

func (s *LedgerService) ListWithdrawals(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.WithdrawalRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.store.Queries().ListWithdrawalsByUser(ctx, userID, limit, offset)
}

func (s *LedgerService) ListWithdrawalsByStatus(ctx context.Context, status domain.WithdrawalStatus, limit, offset int) ([]models.WithdrawalRequest, error) {
	if !status.Valid() {
		return nil, models.NewValidationError("status", "unknown withdrawal status")
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.store.Queries().ListWithdrawalsByStatus(ctx, string(status), limit, offset)
}

func (s *LedgerService) ListRecoveries(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.RecoveryTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.store.Queries().ListRecoveriesByUser(ctx, userID, limit, offset)
}
