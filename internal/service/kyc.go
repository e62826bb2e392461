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

// DefaultKYCRejectionReason is used when a reviewer rejects without a note.
const DefaultKYCRejectionReason = "Documents unclear or invalid. Please resubmit."

// KYCService handles identity document submissions and their review.
type KYCService struct {
	store         QueryStore
	notifications *NotificationService
	email         *EmailService
}

func NewKYCService(store QueryStore, notifications *NotificationService, email *EmailService) *KYCService {
	return &KYCService{store: store, notifications: notifications, email: email}
}

type KYCSubmission struct {
	UserID         uuid.UUID
	DocumentType   string
	DocumentNumber string
	FileName       string
	FileSize       int64
	DocumentPath   string
}

// Submit opens a pending verification. A user with an approved or pending
// submission cannot open another.
func (s *KYCService) Submit(ctx context.Context, in KYCSubmission) (*models.KYCVerification, error) {
	if !domain.IsDocumentType(in.DocumentType) {
		return nil, models.NewValidationError("document_type", "unknown document type")
	}
	if strings.TrimSpace(in.DocumentNumber) == "" {
		return nil, models.NewValidationError("document_number", "document number is required")
	}
	if reason, ok := domain.ValidateDocument(in.FileName, in.FileSize); !ok {
		return nil, models.NewValidationError("document", reason)
	}

	k := &models.KYCVerification{
		ID:             uuid.New(),
		UserID:         in.UserID,
		DocumentType:   in.DocumentType,
		DocumentNumber: in.DocumentNumber,
		DocumentPath:   in.DocumentPath,
		Status:         domain.KYCPending,
	}

	err := s.store.RunInTx(ctx, func(q *repository.Queries) error {
		latest, err := q.GetLatestKYCByUser(ctx, in.UserID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		if err == nil {
			switch latest.Status {
			case domain.KYCApproved:
				return models.NewValidationError("document", "identity is already verified")
			case domain.KYCPending:
				return models.NewValidationError("document", "a submission is already under review")
			}
		}
		if err := q.CreateKYC(ctx, k); err != nil {
			return err
		}
		return s.notifications.Write(ctx, q, in.UserID, domain.NotificationSystem,
			"Identity documents received",
			"Your identity documents were received and are queued for review.")
	})
	if err != nil {
		return nil, err
	}
	return k, nil
}

// Review applies a staff decision to a pending or resubmitted verification.
// Approval marks the user's profile verified; rejection without a reason gets
// the default one.
func (s *KYCService) Review(ctx context.Context, kycID uuid.UUID, next domain.KYCStatus, reason string, reviewerID uuid.UUID) (*models.KYCVerification, error) {
	if next != domain.KYCApproved && next != domain.KYCRejected && next != domain.KYCResubmit {
		return nil, models.NewValidationError("status", "status must be approved, rejected, or resubmit")
	}
	if next == domain.KYCRejected && strings.TrimSpace(reason) == "" {
		reason = DefaultKYCRejectionReason
	}
	if next == domain.KYCApproved {
		reason = ""
	}

	var k *models.KYCVerification
	var owner *models.User

	err := s.store.RunInTx(ctx, func(q *repository.Queries) error {
		var err error
		k, err = q.GetKYCForUpdate(ctx, kycID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.ErrKYCNotFound
			}
			return err
		}
		if k.Status == domain.KYCApproved || k.Status == domain.KYCRejected {
			return fmt.Errorf("%w: submission is already %s", models.ErrInvalidTransition, k.Status)
		}

		rows, err := q.ReviewKYC(ctx, kycID, string(next), reason, reviewerID)
		if err != nil {
			return err
		}
		if err := requireExactlyOne(rows, "review kyc submission"); err != nil {
			return err
		}
		k.Status = next
		k.RejectionReason = reason

		switch next {
		case domain.KYCApproved:
			if _, err := q.SetUserKYCVerified(ctx, k.UserID, true); err != nil {
				return err
			}
		case domain.KYCRejected:
			if _, err := q.SetUserKYCVerified(ctx, k.UserID, false); err != nil {
				return err
			}
		}

		var title, msg string
		switch next {
		case domain.KYCApproved:
			title = "Identity verified"
			msg = "Your identity verification has been approved."
		case domain.KYCResubmit:
			title = "Identity documents need another look"
			msg = "Please resubmit your identity documents. " + reason
		default:
			title = "Identity verification rejected"
			msg = reason
		}
		if err := s.notifications.Write(ctx, q, k.UserID, domain.NotificationSystem, title, msg); err != nil {
			return err
		}

		owner, err = q.GetUser(ctx, k.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.email.Send(ctx, owner.ID, domain.EmailKYCUpdate, owner.Email,
		"Identity verification update",
		fmt.Sprintf("Hello %s,\n\nYour identity verification is now %s.\n", owner.Username, k.Status))
	return k, nil
}

// Status returns the user's latest submission, or not found when they never
// submitted.
func (s *KYCService) Status(ctx context.Context, userID uuid.UUID) (*models.KYCVerification, error) {
	k, err := s.store.Queries().GetLatestKYCByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrKYCNotFound
		}
		return nil, err
	}
	return k, nil
}

func (s *KYCService) ListByStatus(ctx context.Context, status domain.KYCStatus, limit, offset int) ([]models.KYCVerification, error) {
	if !status.Valid() {
		return nil, models.NewValidationError("status", "unknown kyc status")
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.store.Queries().ListKYCByStatus(ctx, string(status), limit, offset)
}
