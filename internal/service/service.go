package service

import (
	"context"
	"errors"

	"roadshare-backend/internal/domain"
)

// ErrForbidden is returned when the actor does not own the rental or lacks
// the role a transition requires. It is checked before any fact is examined.
var ErrForbidden = errors.New("not allowed")

type AuthService interface {
	Signup(ctx context.Context, name, email, phone, password string) (*domain.User, string, string, error)
	Login(ctx context.Context, email, password string) (string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
}

type RentalService interface {
	CreateDraft(ctx context.Context, renterID, vehicleID int32, startDate, endDate string) (*domain.Rental, error)
	Submit(ctx context.Context, renterID, rentalID int32) (*domain.Rental, error)
	DiscardDraft(ctx context.Context, renterID, rentalID int32) error
	MarkDocsComplete(ctx context.Context, renterID, rentalID int32) (*domain.Rental, error)
	SignAgreement(ctx context.Context, renterID, rentalID int32) (*domain.Rental, error)
	RecordPayment(ctx context.Context, renterID, rentalID int32, paymentRef string) (*domain.Rental, error)
	// UploadConditionPhoto registers a phase upload and returns the photo
	// row plus a presigned upload URL for the bytes.
	UploadConditionPhoto(ctx context.Context, renterID, rentalID int32, phase domain.PhotoPhase, fileName, mimeType string, fileSize int64) (*domain.ConditionPhoto, string, error)
	ConfirmPickup(ctx context.Context, renterID, rentalID int32) (*domain.Rental, error)
	ConfirmReturn(ctx context.Context, renterID, rentalID int32) (*domain.Rental, error)
	Cancel(ctx context.Context, renterID, rentalID int32, reason string) (*domain.Rental, error)
	GetRental(ctx context.Context, userID int32, isAdmin bool, rentalID int32) (*domain.Rental, domain.PhotoProgress, error)
	ListRentals(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error)
}

type AdminService interface {
	ApproveVerification(ctx context.Context, adminID, rentalID int32) (*domain.Rental, error)
	DenyVerification(ctx context.Context, adminID, rentalID int32, reason string) (*domain.Rental, error)
	ReleaseLockbox(ctx context.Context, adminID, rentalID int32) (*domain.Rental, error)
	ConfirmDamage(ctx context.Context, adminID, rentalID int32, note string) (*domain.Rental, error)
	RefundDeposit(ctx context.Context, adminID, rentalID int32) (*domain.Rental, error)
	WithholdDeposit(ctx context.Context, adminID, rentalID int32, amountCents int32, reason string) (*domain.Rental, error)
	MarkCompleted(ctx context.Context, adminID, rentalID int32) (*domain.Rental, error)
	ListPendingVerification(ctx context.Context, page, pageSize int32) ([]domain.Rental, int32, error)
	GetAuditTrail(ctx context.Context, rentalID int32) ([]domain.AuditEvent, error)
}

type VehicleService interface {
	GetVehicle(ctx context.Context, id int32) (*domain.Vehicle, error)
	ListVehicles(ctx context.Context, metro string, page, pageSize int32) ([]domain.Vehicle, int32, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

// EmailService sends are fire-and-forget: callers log failures and never
// propagate them as transition failures.
type EmailService interface {
	SendVerificationApproved(ctx context.Context, email, name string) error
	SendVerificationDenied(ctx context.Context, email, name, reason string) error
	SendLockboxReleased(ctx context.Context, email, name string) error
	SendDepositRefunded(ctx context.Context, email, name string, amountCents int32) error
	SendDepositWithheld(ctx context.Context, email, name, reason string, amountCents int32) error
	SendReturnReminder(ctx context.Context, email, name, endDate string) error
}

// PaymentService issues partial refunds against the provider reference
// captured when the rental was paid.
type PaymentService interface {
	Refund(ctx context.Context, paymentRef string, amountCents int32) error
}
