package lifecycle

import "roadshare-backend/internal/domain"

// Progress holds which condition-photo phases have an upload on record. It
// is a pure derivation from the photo rows, recomputed per request, so the
// reported progress can never drift from what was actually uploaded.
type Progress struct {
	PickupExterior bool
	PickupInterior bool
	ReturnExterior bool
	ReturnInterior bool
}

// DeriveProgress computes phase completion from the photo rows of a rental.
// Duplicate rows per phase do not occur (uploads overwrite), but would be
// harmless here.
func DeriveProgress(photos []domain.ConditionPhoto) Progress {
	var p Progress
	for _, ph := range photos {
		switch ph.Phase {
		case domain.PhotoPhasePickupExterior:
			p.PickupExterior = true
		case domain.PhotoPhasePickupInterior:
			p.PickupInterior = true
		case domain.PhotoPhaseReturnExterior:
			p.ReturnExterior = true
		case domain.PhotoPhaseReturnInterior:
			p.ReturnInterior = true
		}
	}
	return p
}

// Marker collapses phase completion into the single progress enumeration
// shown to callers: the furthest phase with an upload, in pickup-exterior,
// pickup-interior, return-exterior, return-interior order.
func (p Progress) Marker() domain.PhotoProgress {
	switch {
	case p.PickupExterior && p.PickupInterior && p.ReturnExterior && p.ReturnInterior:
		return domain.PhotoProgressComplete
	case p.ReturnInterior:
		return domain.PhotoProgressReturnInteriorDone
	case p.ReturnExterior:
		return domain.PhotoProgressReturnExteriorDone
	case p.PickupInterior:
		return domain.PhotoProgressPickupInteriorDone
	case p.PickupExterior:
		return domain.PhotoProgressPickupExteriorDone
	default:
		return domain.PhotoProgressNotStarted
	}
}
