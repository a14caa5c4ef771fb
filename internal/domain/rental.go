package domain

import "time"

type RentalStatus string

const (
	RentalStatusDraft     RentalStatus = "DRAFT"
	RentalStatusPending   RentalStatus = "PENDING"
	RentalStatusActive    RentalStatus = "ACTIVE"
	RentalStatusReturned  RentalStatus = "RETURNED"
	RentalStatusCompleted RentalStatus = "COMPLETED"
	RentalStatusCancelled RentalStatus = "CANCELLED"
)

type VerificationStatus string

const (
	VerificationStatusPending  VerificationStatus = "PENDING"
	VerificationStatusApproved VerificationStatus = "APPROVED"
	VerificationStatusDenied   VerificationStatus = "DENIED"
)

type DepositOutcome string

const (
	DepositOutcomeNotApplicable DepositOutcome = "NOT_APPLICABLE"
	DepositOutcomePending       DepositOutcome = "PENDING"
	DepositOutcomeRefunded      DepositOutcome = "REFUNDED"
	DepositOutcomeWithheld      DepositOutcome = "WITHHELD"
)

// PhotoProgress is derived from the condition photo uploads on record, never
// stored on the rental row itself.
type PhotoProgress string

const (
	PhotoProgressNotStarted         PhotoProgress = "NOT_STARTED"
	PhotoProgressPickupExteriorDone PhotoProgress = "PICKUP_EXTERIOR_DONE"
	PhotoProgressPickupInteriorDone PhotoProgress = "PICKUP_INTERIOR_DONE"
	PhotoProgressReturnExteriorDone PhotoProgress = "RETURN_EXTERIOR_DONE"
	PhotoProgressReturnInteriorDone PhotoProgress = "RETURN_INTERIOR_DONE"
	PhotoProgressComplete           PhotoProgress = "COMPLETE"
)

type Rental struct {
	ID        int32 `json:"id"`
	RenterID  int32 `json:"renter_id"`
	VehicleID int32 `json:"vehicle_id"`

	Status                   RentalStatus       `json:"status"`
	VerificationStatus       VerificationStatus `json:"verification_status"`
	VerificationDenialReason string             `json:"verification_denial_reason,omitempty"`

	DocsComplete    bool `json:"docs_complete"`
	AgreementSigned bool `json:"agreement_signed"`
	Paid            bool `json:"paid"`
	DamageConfirmed bool `json:"damage_confirmed"`

	// PaymentRef is the provider-side reference used for deposit refunds.
	PaymentRef string `json:"payment_ref,omitempty"`

	PaidAt            *time.Time `json:"paid_at,omitempty"`
	LockboxReleasedAt *time.Time `json:"lockbox_released_at,omitempty"`
	PickupConfirmedAt *time.Time `json:"pickup_confirmed_at,omitempty"`
	ReturnConfirmedAt *time.Time `json:"return_confirmed_at,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	DamageConfirmedAt *time.Time `json:"damage_confirmed_at,omitempty"`

	DepositOutcome DepositOutcome `json:"deposit_outcome"`
	WithheldCents  int32          `json:"withheld_cents"`

	// Money snapshot fields — captured from the vehicle at draft creation.
	RateCents    int32 `json:"rate_cents"`
	DepositCents int32 `json:"deposit_cents"`

	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	// Version guards concurrent transitions; every successful update bumps it.
	Version   int32     `json:"version"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}
