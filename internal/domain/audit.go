package domain

import "time"

type AuditEventType string

const (
	AuditEventRentalCreated        AuditEventType = "RENTAL_CREATED"
	AuditEventRentalSubmitted      AuditEventType = "RENTAL_SUBMITTED"
	AuditEventVerificationApproved AuditEventType = "VERIFICATION_APPROVED"
	AuditEventVerificationDenied   AuditEventType = "VERIFICATION_DENIED"
	AuditEventDocsCompleted        AuditEventType = "DOCS_COMPLETED"
	AuditEventAgreementSigned      AuditEventType = "AGREEMENT_SIGNED"
	AuditEventPaymentRecorded      AuditEventType = "PAYMENT_RECORDED"
	AuditEventLockboxReleased      AuditEventType = "LOCKBOX_RELEASED"
	AuditEventPhotoUploaded        AuditEventType = "CONDITION_PHOTO_UPLOADED"
	AuditEventPickupConfirmed      AuditEventType = "PICKUP_CONFIRMED"
	AuditEventReturnConfirmed      AuditEventType = "RETURN_CONFIRMED"
	AuditEventDamageConfirmed      AuditEventType = "DAMAGE_CONFIRMED"
	AuditEventDepositRefunded      AuditEventType = "DEPOSIT_REFUNDED"
	AuditEventDepositWithheld      AuditEventType = "DEPOSIT_WITHHELD"
	AuditEventRentalCompleted      AuditEventType = "RENTAL_COMPLETED"
	AuditEventRentalCancelled      AuditEventType = "RENTAL_CANCELLED"
)

// AuditEvent is append-only: rows are never updated or deleted. It is kept
// for dispute review and display, and is not consulted when gating
// transitions.
type AuditEvent struct {
	ID        int32             `json:"id"`
	EventID   string            `json:"event_id"` // uuid, unique per event
	RentalID  int32             `json:"rental_id"`
	ActorID   int32             `json:"actor_id"`
	ActorRole UserRole          `json:"actor_role"`
	EventType AuditEventType    `json:"event_type"`
	Payload   map[string]string `json:"payload,omitempty"`
	CreatedOn time.Time         `json:"created_on"`
}
