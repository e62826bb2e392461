package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/recoverypro/portal/internal/domain"
	"github.com/recoverypro/portal/internal/models"
	"github.com/recoverypro/portal/internal/observability"
	"github.com/recoverypro/portal/internal/repository"
)

// transitionCaseState moves a locked case to nextStatus, appends the timeline
// entry, and queues the owner's notification, all in the caller's transaction.
func transitionCaseState(ctx context.Context, qtx *repository.Queries, notifications *NotificationService, c *models.ScamCase, nextStatus domain.CaseStatus, message string, actorID *uuid.UUID) error {
	if c.Status == nextStatus {
		return nil
	}
	if !c.Status.CanTransition(nextStatus) {
		return fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, c.Status, nextStatus)
	}

	rows, err := qtx.UpdateCaseStatus(ctx, c.ID, string(nextStatus))
	if err != nil {
		return fmt.Errorf("update case status: %w", err)
	}
	if err := requireExactlyOne(rows, "update case status"); err != nil {
		return err
	}

	update := &models.CaseStatusUpdate{
		ID:        uuid.New(),
		CaseID:    c.ID,
		OldStatus: c.Status,
		NewStatus: nextStatus,
		Message:   message,
		ActorID:   actorID,
	}
	if err := qtx.CreateStatusUpdate(ctx, update); err != nil {
		return err
	}

	title := fmt.Sprintf("Case %s: %s", c.Reference, nextStatus.Label())
	body := message
	if body == "" {
		body = fmt.Sprintf("Your case %s moved from %s to %s.", c.Reference, c.Status.Label(), nextStatus.Label())
	}
	if err := notifications.WriteForCase(ctx, qtx, c.UserID, &c.ID, domain.NotificationCaseUpdate, title, body); err != nil {
		return err
	}

	observability.IncrementCaseTransition(string(nextStatus))
	c.Status = nextStatus
	return nil
}
