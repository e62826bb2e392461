package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/recoverypro/portal/internal/domain"
	"github.com/recoverypro/portal/internal/models"
	"github.com/recoverypro/portal/internal/repository"
)

// DepositService manages the crypto deposits that fund a case's recovery
// work. A case holds at most one live deposit at a time.
type DepositService struct {
	store         QueryStore
	notifications *NotificationService
	email         *EmailService
}

func NewDepositService(store QueryStore, notifications *NotificationService, email *EmailService) *DepositService {
	return &DepositService{store: store, notifications: notifications, email: email}
}

// InitiateDeposit opens a pending deposit for the case's required amount and
// hands back the receiving address.
func (s *DepositService) InitiateDeposit(ctx context.Context, userID, caseID uuid.UUID, cryptoCurrency string) (*models.UserDeposit, error) {
	cryptoCurrency = strings.ToUpper(strings.TrimSpace(cryptoCurrency))
	if !domain.IsSupportedCrypto(cryptoCurrency) {
		return nil, models.NewValidationError("crypto_currency", "unsupported currency")
	}

	var d *models.UserDeposit
	err := s.store.RunInTx(ctx, func(q *repository.Queries) error {
		c, err := q.GetCaseForUpdate(ctx, caseID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.ErrCaseNotFound
			}
			return err
		}
		if c.UserID != userID {
			return models.ErrCaseNotFound
		}
		if c.PlanID == nil {
			return models.ErrPlanRequired
		}
		if c.Status.Terminal() {
			return fmt.Errorf("%w: case is %s", models.ErrInvalidTransition, c.Status)
		}

		active, err := q.CountActiveDeposits(ctx, caseID)
		if err != nil {
			return err
		}
		if active > 0 {
			return models.ErrDuplicateActiveDeposit
		}

		plan, err := q.GetPlan(ctx, *c.PlanID)
		if err != nil {
			return err
		}

		wallet, err := q.GetActiveCryptoWallet(ctx, cryptoCurrency)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.NewValidationError("crypto_currency", "no receiving wallet configured for "+cryptoCurrency)
			}
			return err
		}

		d = &models.UserDeposit{
			ID:         uuid.New(),
			Reference:  domain.NewDepositRef(),
			UserID:     userID,
			CaseID:     caseID,
			Amount:     plan.RequiredDeposit(c.AmountLost, c.Currency),
			Currency:   c.Currency,
			Crypto:     cryptoCurrency,
			WalletAddr: wallet.Address,
			Status:     domain.DepositPending,
		}
		if err := q.CreateDeposit(ctx, d); err != nil {
			return err
		}

		return s.notifications.WriteForCase(ctx, q, userID, &d.CaseID, domain.NotificationPayment,
			fmt.Sprintf("Deposit %s created", d.Reference),
			fmt.Sprintf("Send %s %s worth of %s to %s, then submit your transaction hash.",
				d.Amount.String(), d.Currency, cryptoCurrency, wallet.Address))
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// SubmitTxHash attaches the user's transaction hash and moves the deposit to
// under review.
func (s *DepositService) SubmitTxHash(ctx context.Context, userID, depositID uuid.UUID, txHash string) (*models.UserDeposit, error) {
	txHash = strings.TrimSpace(txHash)
	if txHash == "" {
		return nil, models.NewValidationError("tx_hash", "transaction hash is required")
	}

	var d *models.UserDeposit
	err := s.store.RunInTx(ctx, func(q *repository.Queries) error {
		var err error
		d, err = q.GetDepositForUpdate(ctx, depositID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.ErrDepositNotFound
			}
			return err
		}
		if d.UserID != userID {
			return models.ErrDepositNotFound
		}
		if !d.Status.CanTransition(domain.DepositUnderReview) {
			return fmt.Errorf("%w: deposit is %s", models.ErrInvalidTransition, d.Status)
		}

		tag, err := q.UpdateDepositStatus(ctx, depositID, string(domain.DepositUnderReview))
		if err != nil {
			return err
		}
		if err := requireExactlyOne(tag, "update deposit status"); err != nil {
			return err
		}
		if _, err := q.SetDepositTxHash(ctx, depositID, txHash); err != nil {
			return err
		}
		d.Status = domain.DepositUnderReview
		d.TxHash = txHash
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// ConfirmDeposit marks a deposit completed and, when the case sits in the
// verified stage, advances it into investigation. A deposit against a case
// that has not been verified yet is refused.
func (s *DepositService) ConfirmDeposit(ctx context.Context, depositID uuid.UUID, actorID uuid.UUID) (*models.UserDeposit, error) {
	var d *models.UserDeposit
	var owner *models.User
	var caseRef string

	err := s.store.RunInTx(ctx, func(q *repository.Queries) error {
		var err error
		d, err = q.GetDepositForUpdate(ctx, depositID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.ErrDepositNotFound
			}
			return err
		}
		if !d.Status.CanTransition(domain.DepositCompleted) {
			return fmt.Errorf("%w: deposit is %s", models.ErrInvalidTransition, d.Status)
		}

		c, err := q.GetCaseForUpdate(ctx, d.CaseID)
		if err != nil {
			return err
		}
		caseRef = c.Reference
		if c.Status == domain.CaseSubmitted || c.Status == domain.CaseRejected {
			return fmt.Errorf("%w: cannot confirm a deposit while case is %s", models.ErrInvalidTransition, c.Status)
		}

		rows, err := q.MarkDepositConfirmed(ctx, depositID, d.TxHash)
		if err != nil {
			return err
		}
		if err := requireExactlyOne(rows, "confirm deposit"); err != nil {
			return err
		}
		d.Status = domain.DepositCompleted

		if c.Status == domain.CaseVerified {
			if err := transitionCaseState(ctx, q, s.notifications, c, domain.CaseInvestigation,
				"Deposit confirmed. Investigation has begun.", &actorID); err != nil {
				return err
			}
		}

		if err := s.notifications.WriteForCase(ctx, q, d.UserID, &d.CaseID, domain.NotificationPayment,
			fmt.Sprintf("Deposit %s confirmed", d.Reference),
			fmt.Sprintf("Your deposit of %s %s for case %s has been confirmed.", d.Amount.String(), d.Currency, caseRef)); err != nil {
			return err
		}

		owner, err = q.GetUser(ctx, d.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.email.Send(ctx, owner.ID, domain.EmailDepositConfirmation, owner.Email,
		fmt.Sprintf("Deposit %s confirmed", d.Reference),
		fmt.Sprintf("Hello %s,\n\nYour deposit of %s %s for case %s is confirmed.\n", owner.Username, d.Amount.String(), d.Currency, caseRef))
	return d, nil
}

// RejectDeposit moves a deposit into a non-payment terminal state: failed or
// cancelled.
func (s *DepositService) RejectDeposit(ctx context.Context, depositID uuid.UUID, next domain.DepositStatus, reason string) (*models.UserDeposit, error) {
	if next != domain.DepositFailed && next != domain.DepositCancelled {
		return nil, models.NewValidationError("status", "status must be failed or cancelled")
	}

	var d *models.UserDeposit
	var owner *models.User
	err := s.store.RunInTx(ctx, func(q *repository.Queries) error {
		var err error
		d, err = q.GetDepositForUpdate(ctx, depositID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.ErrDepositNotFound
			}
			return err
		}
		if !d.Status.CanTransition(next) {
			return fmt.Errorf("%w: deposit is %s", models.ErrInvalidTransition, d.Status)
		}

		rows, err := q.UpdateDepositStatus(ctx, depositID, string(next))
		if err != nil {
			return err
		}
		if err := requireExactlyOne(rows, "update deposit status"); err != nil {
			return err
		}
		d.Status = next

		msg := reason
		if msg == "" {
			msg = fmt.Sprintf("Deposit %s was marked %s.", d.Reference, next)
		}
		if err := s.notifications.WriteForCase(ctx, q, d.UserID, &d.CaseID, domain.NotificationPayment,
			fmt.Sprintf("Deposit %s %s", d.Reference, next), msg); err != nil {
			return err
		}

		owner, err = q.GetUser(ctx, d.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if next == domain.DepositFailed {
		body := fmt.Sprintf("Hello %s,\n\nYour deposit %s of %s %s could not be confirmed.\n",
			owner.Username, d.Reference, d.Amount.String(), d.Currency)
		if reason != "" {
			body += "\nReason: " + reason + "\n"
		}
		s.email.Send(ctx, owner.ID, domain.EmailDepositFailed, owner.Email,
			fmt.Sprintf("Deposit %s failed", d.Reference), body)
	}
	return d, nil
}

func (s *DepositService) GetDeposit(ctx context.Context, depositID, userID uuid.UUID, allowAny bool) (*models.UserDeposit, error) {
	d, err := s.store.Queries().GetDeposit(ctx, depositID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDepositNotFound
		}
		return nil, err
	}
	if !allowAny && d.UserID != userID {
		return nil, models.ErrDepositNotFound
	}
	return d, nil
}

func (s *DepositService) ListDeposits(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.UserDeposit, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.store.Queries().ListDepositsByUser(ctx, userID, limit, offset)
}

func (s *DepositService) ListDepositsByStatus(ctx context.Context, status domain.DepositStatus, limit, offset int) ([]models.UserDeposit, error) {
	if !status.Valid() {
		return nil, models.NewValidationError("status", "unknown deposit status")
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.store.Queries().ListDepositsByStatus(ctx, string(status), limit, offset)
}
