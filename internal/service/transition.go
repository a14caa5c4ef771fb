package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"roadshare-backend/internal/domain"
	"roadshare-backend/internal/lifecycle"
	"roadshare-backend/internal/logger"
	"roadshare-backend/internal/metrics"
	"roadshare-backend/internal/repository"
)

// transitionApplier is the single write path for rental facts, shared by the
// customer and admin services. The sequence is: gate, fact write
// (version-checked), then a best-effort audit append. The fact write is
// authoritative; an audit failure is logged and swallowed.
type transitionApplier struct {
	rentalRepo repository.RentalRepository
	photoRepo  repository.ConditionPhotoRepository
	auditRepo  repository.AuditEventRepository
}

// evaluate gates the transition against current facts and photo progress
// without writing anything.
func (a *transitionApplier) evaluate(ctx context.Context, rt *domain.Rental, req lifecycle.Request) error {
	photos, err := a.photoRepo.ListByRental(ctx, rt.ID)
	if err != nil {
		return err
	}
	if err := lifecycle.Evaluate(rt, lifecycle.DeriveProgress(photos), req); err != nil {
		metrics.TransitionsRejectedTotal.WithLabelValues(string(req.Transition)).Inc()
		return err
	}
	return nil
}

// commit applies an already-gated transition: fact write plus audit event.
func (a *transitionApplier) commit(ctx context.Context, rt *domain.Rental, actorID int32, actorRole domain.UserRole, req lifecycle.Request, payload map[string]string) error {
	lifecycle.Apply(rt, req, time.Now().UTC())
	if err := a.rentalRepo.Update(ctx, rt); err != nil {
		if errors.Is(err, repository.ErrStaleRental) {
			metrics.TransitionConflictsTotal.Inc()
		}
		return err
	}

	a.appendAudit(ctx, rt.ID, actorID, actorRole, lifecycle.EventType(req.Transition), payload)
	metrics.TransitionsAppliedTotal.WithLabelValues(string(req.Transition)).Inc()
	return nil
}

// apply runs evaluate then commit.
func (a *transitionApplier) apply(ctx context.Context, rt *domain.Rental, actorID int32, actorRole domain.UserRole, req lifecycle.Request, payload map[string]string) error {
	if err := a.evaluate(ctx, rt, req); err != nil {
		return err
	}
	return a.commit(ctx, rt, actorID, actorRole, req, payload)
}

func (a *transitionApplier) appendAudit(ctx context.Context, rentalID, actorID int32, actorRole domain.UserRole, eventType domain.AuditEventType, payload map[string]string) {
	event := &domain.AuditEvent{
		EventID:   uuid.New().String(),
		RentalID:  rentalID,
		ActorID:   actorID,
		ActorRole: actorRole,
		EventType: eventType,
		Payload:   payload,
	}
	if err := a.auditRepo.Append(ctx, event); err != nil {
		logger.Warn("Failed to append audit event", "rental_id", rentalID, "event_type", eventType, "error", err)
	}
}
