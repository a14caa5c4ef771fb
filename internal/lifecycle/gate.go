// Package lifecycle centralizes every rental state transition. Handlers and
// services never flip rental facts directly: they build a Request, ask
// Evaluate whether the transition is legal right now, and on success let
// Apply write the new facts. Evaluate reports every failing precondition,
// not just the first, so callers can show complete guidance.
package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"roadshare-backend/internal/domain"
)

type Transition string

const (
	TransitionSubmit              Transition = "SUBMIT"
	TransitionApproveVerification Transition = "APPROVE_VERIFICATION"
	TransitionDenyVerification    Transition = "DENY_VERIFICATION"
	TransitionCompleteDocs        Transition = "COMPLETE_DOCS"
	TransitionSignAgreement       Transition = "SIGN_AGREEMENT"
	TransitionRecordPayment       Transition = "RECORD_PAYMENT"
	TransitionReleaseLockbox      Transition = "RELEASE_LOCKBOX"
	TransitionUploadPhoto         Transition = "UPLOAD_CONDITION_PHOTO"
	TransitionConfirmPickup       Transition = "CONFIRM_PICKUP"
	TransitionConfirmReturn       Transition = "CONFIRM_RETURN"
	TransitionConfirmDamage       Transition = "CONFIRM_DAMAGE"
	TransitionRefundDeposit       Transition = "REFUND_DEPOSIT"
	TransitionWithholdDeposit     Transition = "WITHHOLD_DEPOSIT"
	TransitionMarkCompleted       Transition = "MARK_COMPLETED"
	TransitionCancel              Transition = "CANCEL"
)

// Request carries a requested transition plus the parameters some
// transitions need. Unused fields are ignored by Evaluate and Apply.
type Request struct {
	Transition Transition
	Reason     string            // denial reason, withhold reason, cancel reason
	Phase      domain.PhotoPhase // for UPLOAD_CONDITION_PHOTO
	AmountCents int32            // for WITHHOLD_DEPOSIT
	PaymentRef string            // for RECORD_PAYMENT
}

// PreconditionError reports every precondition a transition failed. It is
// safe to retry the transition once the listed conditions are met.
type PreconditionError struct {
	Transition Transition
	Reasons    []string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s rejected: %s", strings.ToLower(string(e.Transition)), strings.Join(e.Reasons, "; "))
}

// statusAfter is the reviewed mapping from transition to the lifecycle
// status it produces. Transitions absent from this table leave the status
// unchanged.
var statusAfter = map[Transition]domain.RentalStatus{
	TransitionSubmit:        domain.RentalStatusPending,
	TransitionConfirmPickup: domain.RentalStatusActive,
	TransitionConfirmReturn: domain.RentalStatusReturned,
	TransitionMarkCompleted: domain.RentalStatusCompleted,
	TransitionCancel:        domain.RentalStatusCancelled,
}

// StatusAfter returns the lifecycle status a rental has once t is applied.
func StatusAfter(t Transition, current domain.RentalStatus) domain.RentalStatus {
	if next, ok := statusAfter[t]; ok {
		return next
	}
	return current
}

// eventTypeFor maps each transition to the single audit event its applier
// appends.
var eventTypeFor = map[Transition]domain.AuditEventType{
	TransitionSubmit:              domain.AuditEventRentalSubmitted,
	TransitionApproveVerification: domain.AuditEventVerificationApproved,
	TransitionDenyVerification:    domain.AuditEventVerificationDenied,
	TransitionCompleteDocs:        domain.AuditEventDocsCompleted,
	TransitionSignAgreement:       domain.AuditEventAgreementSigned,
	TransitionRecordPayment:       domain.AuditEventPaymentRecorded,
	TransitionReleaseLockbox:      domain.AuditEventLockboxReleased,
	TransitionUploadPhoto:         domain.AuditEventPhotoUploaded,
	TransitionConfirmPickup:       domain.AuditEventPickupConfirmed,
	TransitionConfirmReturn:       domain.AuditEventReturnConfirmed,
	TransitionConfirmDamage:       domain.AuditEventDamageConfirmed,
	TransitionRefundDeposit:       domain.AuditEventDepositRefunded,
	TransitionWithholdDeposit:     domain.AuditEventDepositWithheld,
	TransitionMarkCompleted:       domain.AuditEventRentalCompleted,
	TransitionCancel:              domain.AuditEventRentalCancelled,
}

// EventType returns the audit event type recorded for t.
func EventType(t Transition) domain.AuditEventType {
	return eventTypeFor[t]
}

// Evaluate decides whether req is currently legal for the rental. It returns
// nil when the transition may be applied, or a *PreconditionError listing
// every failing check.
func Evaluate(r *domain.Rental, photos Progress, req Request) error {
	var reasons []string

	if r.Status == domain.RentalStatusCancelled {
		reasons = append(reasons, "rental is cancelled")
	}

	switch req.Transition {
	case TransitionSubmit:
		if r.Status != domain.RentalStatusDraft {
			reasons = append(reasons, "rental is not a draft")
		}

	case TransitionApproveVerification:
		if r.VerificationStatus != domain.VerificationStatusPending {
			reasons = append(reasons, "verification is not pending")
		}

	case TransitionDenyVerification:
		if r.VerificationStatus != domain.VerificationStatusPending {
			reasons = append(reasons, "verification is not pending")
		}
		if strings.TrimSpace(req.Reason) == "" {
			reasons = append(reasons, "denial reason is required")
		}

	case TransitionCompleteDocs:
		if r.DocsComplete {
			reasons = append(reasons, "documents already marked complete")
		}

	case TransitionSignAgreement:
		if r.AgreementSigned {
			reasons = append(reasons, "agreement already signed")
		}

	case TransitionRecordPayment:
		if r.Paid {
			reasons = append(reasons, "rental already paid")
		}
		if strings.TrimSpace(req.PaymentRef) == "" {
			reasons = append(reasons, "payment reference is required")
		}

	case TransitionReleaseLockbox:
		if r.VerificationStatus != domain.VerificationStatusApproved {
			reasons = append(reasons, "verification is not approved")
		}
		if !r.DocsComplete {
			reasons = append(reasons, "documents are not complete")
		}
		if !r.AgreementSigned {
			reasons = append(reasons, "rental agreement is not signed")
		}
		if !r.Paid {
			reasons = append(reasons, "rental is not paid")
		}
		if r.LockboxReleasedAt != nil {
			reasons = append(reasons, "lockbox already released")
		}

	case TransitionUploadPhoto:
		switch req.Phase {
		case domain.PhotoPhasePickupExterior, domain.PhotoPhasePickupInterior:
		case domain.PhotoPhaseReturnExterior, domain.PhotoPhaseReturnInterior:
			if r.PickupConfirmedAt == nil {
				reasons = append(reasons, "pickup must be confirmed before return photos")
			}
		default:
			reasons = append(reasons, "unknown photo phase")
		}

	case TransitionConfirmPickup:
		if r.LockboxReleasedAt == nil {
			reasons = append(reasons, "lockbox has not been released")
		}
		if !photos.PickupExterior {
			reasons = append(reasons, "pickup exterior photos are missing")
		}
		if !photos.PickupInterior {
			reasons = append(reasons, "pickup interior photos are missing")
		}
		if r.PickupConfirmedAt != nil {
			reasons = append(reasons, "pickup already confirmed")
		}

	case TransitionConfirmReturn:
		if r.PickupConfirmedAt == nil {
			reasons = append(reasons, "pickup has not been confirmed")
		}
		if !photos.ReturnExterior {
			reasons = append(reasons, "return exterior photos are missing")
		}
		if !photos.ReturnInterior {
			reasons = append(reasons, "return interior photos are missing")
		}
		if r.ReturnConfirmedAt != nil {
			reasons = append(reasons, "return already confirmed")
		}

	case TransitionConfirmDamage:
		if r.ReturnConfirmedAt == nil {
			reasons = append(reasons, "return must be confirmed before damage confirmation")
		}
		if r.DamageConfirmed {
			reasons = append(reasons, "damage already confirmed")
		}

	case TransitionRefundDeposit:
		reasons = append(reasons, depositReasons(r)...)

	case TransitionWithholdDeposit:
		reasons = append(reasons, depositReasons(r)...)
		if !r.DamageConfirmed {
			reasons = append(reasons, "damage not confirmed")
		}
		if req.AmountCents < 0 {
			reasons = append(reasons, "withheld amount must not be negative")
		}
		if req.AmountCents > r.DepositCents {
			reasons = append(reasons, "withheld amount exceeds deposit")
		}

	case TransitionMarkCompleted:
		if r.ReturnConfirmedAt == nil {
			reasons = append(reasons, "return has not been confirmed")
		}
		if r.DepositOutcome == domain.DepositOutcomePending {
			reasons = append(reasons, "deposit is still pending")
		}

	case TransitionCancel:
		if r.PickupConfirmedAt != nil {
			reasons = append(reasons, "rental already picked up")
		}
		if r.ReturnConfirmedAt != nil {
			reasons = append(reasons, "rental already returned")
		}

	default:
		reasons = append(reasons, "unknown transition")
	}

	if len(reasons) > 0 {
		return &PreconditionError{Transition: req.Transition, Reasons: reasons}
	}
	return nil
}

func depositReasons(r *domain.Rental) []string {
	var reasons []string
	if !r.Paid {
		reasons = append(reasons, "rental is not paid")
	}
	if r.ReturnConfirmedAt == nil {
		reasons = append(reasons, "return has not been confirmed")
	}
	if r.DepositOutcome == domain.DepositOutcomeRefunded || r.DepositOutcome == domain.DepositOutcomeWithheld {
		reasons = append(reasons, "deposit already settled")
	}
	return reasons
}

// Apply writes the facts req produces onto the rental. Callers must have
// passed Evaluate first; Apply performs no checks of its own. Timestamps are
// set from now and are never overwritten on re-application.
func Apply(r *domain.Rental, req Request, now time.Time) {
	switch req.Transition {
	case TransitionApproveVerification:
		r.VerificationStatus = domain.VerificationStatusApproved
	case TransitionDenyVerification:
		r.VerificationStatus = domain.VerificationStatusDenied
		r.VerificationDenialReason = req.Reason
	case TransitionCompleteDocs:
		r.DocsComplete = true
	case TransitionSignAgreement:
		r.AgreementSigned = true
	case TransitionRecordPayment:
		r.Paid = true
		r.PaymentRef = req.PaymentRef
		if r.PaidAt == nil {
			r.PaidAt = &now
		}
	case TransitionReleaseLockbox:
		if r.LockboxReleasedAt == nil {
			r.LockboxReleasedAt = &now
		}
	case TransitionConfirmPickup:
		if r.PickupConfirmedAt == nil {
			r.PickupConfirmedAt = &now
		}
	case TransitionConfirmReturn:
		if r.ReturnConfirmedAt == nil {
			r.ReturnConfirmedAt = &now
		}
	case TransitionConfirmDamage:
		r.DamageConfirmed = true
		if r.DamageConfirmedAt == nil {
			r.DamageConfirmedAt = &now
		}
	case TransitionRefundDeposit:
		r.DepositOutcome = domain.DepositOutcomeRefunded
	case TransitionWithholdDeposit:
		r.DepositOutcome = domain.DepositOutcomeWithheld
		r.WithheldCents = req.AmountCents
	case TransitionMarkCompleted:
		if r.CompletedAt == nil {
			r.CompletedAt = &now
		}
	}
	r.Status = StatusAfter(req.Transition, r.Status)
}
