package domain

import "time"

type PhotoPhase string

const (
	PhotoPhasePickupExterior PhotoPhase = "PICKUP_EXTERIOR"
	PhotoPhasePickupInterior PhotoPhase = "PICKUP_INTERIOR"
	PhotoPhaseReturnExterior PhotoPhase = "RETURN_EXTERIOR"
	PhotoPhaseReturnInterior PhotoPhase = "RETURN_INTERIOR"
)

// ConditionPhoto records one phase upload. At most one row exists per
// (rental, phase); a re-upload overwrites the stored reference in place.
type ConditionPhoto struct {
	ID         int32      `json:"id"`
	RentalID   int32      `json:"rental_id"`
	Phase      PhotoPhase `json:"phase"`
	StorageKey string     `json:"storage_key"`
	FileName   string     `json:"file_name"`
	MimeType   string     `json:"mime_type"`
	FileSize   int64      `json:"file_size"`
	UploadedBy int32      `json:"uploaded_by"`
	CreatedOn  time.Time  `json:"created_on"`
	UpdatedOn  time.Time  `json:"updated_on"`
}
