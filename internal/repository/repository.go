package repository

import (
	"context"
	"errors"

	"roadshare-backend/internal/domain"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrStaleRental is returned when an update loses the version check
	// against a concurrent writer. The caller should re-read and retry.
	ErrStaleRental = errors.New("rental was modified concurrently")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) error
	GetByID(ctx context.Context, id int32) (*domain.Vehicle, error)
	Update(ctx context.Context, vehicle *domain.Vehicle) error
	List(ctx context.Context, metro string, page, pageSize int32) ([]domain.Vehicle, int32, error)
}

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id int32) (*domain.Rental, error)
	// Update compares-and-bumps the rental version; it returns
	// ErrStaleRental when the row changed since the rental was read.
	Update(ctx context.Context, rental *domain.Rental) error
	// DeleteDraft removes a draft owned by renterID. Non-draft rentals are
	// never deleted.
	DeleteDraft(ctx context.Context, id, renterID int32) error
	ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error)
	ListByVerificationStatus(ctx context.Context, status domain.VerificationStatus, page, pageSize int32) ([]domain.Rental, int32, error)
	// ListActiveEndingBy returns active rentals whose end date falls on or
	// before the given date (YYYY-MM-DD), for return reminders.
	ListActiveEndingBy(ctx context.Context, date string) ([]domain.Rental, error)
	// ExpireStaleDrafts cancels drafts untouched for more than maxAgeDays
	// and reports how many rows changed.
	ExpireStaleDrafts(ctx context.Context, maxAgeDays int) (int64, error)
}

type AuditEventRepository interface {
	// Append inserts one event. Events are never updated or deleted.
	Append(ctx context.Context, event *domain.AuditEvent) error
	ListByRental(ctx context.Context, rentalID int32) ([]domain.AuditEvent, error)
}

type ConditionPhotoRepository interface {
	// Upsert stores the upload for (rental, phase), overwriting any
	// previous reference for the same phase.
	Upsert(ctx context.Context, photo *domain.ConditionPhoto) error
	GetByRentalAndPhase(ctx context.Context, rentalID int32, phase domain.PhotoPhase) (*domain.ConditionPhoto, error)
	ListByRental(ctx context.Context, rentalID int32) ([]domain.ConditionPhoto, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}
