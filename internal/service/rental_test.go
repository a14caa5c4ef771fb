package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"roadshare-backend/internal/domain"
	"roadshare-backend/internal/lifecycle"
)

type rentalFixture struct {
	rentalRepo  *MockRentalRepo
	vehicleRepo *MockVehicleRepo
	photoRepo   *MockPhotoRepo
	auditRepo   *MockAuditRepo
	noteRepo    *MockNotificationRepo
	storage     *MockStorage
	svc         RentalService
}

func newRentalFixture() *rentalFixture {
	f := &rentalFixture{
		rentalRepo:  new(MockRentalRepo),
		vehicleRepo: new(MockVehicleRepo),
		photoRepo:   new(MockPhotoRepo),
		auditRepo:   new(MockAuditRepo),
		noteRepo:    new(MockNotificationRepo),
		storage:     new(MockStorage),
	}
	f.svc = NewRentalService(f.rentalRepo, f.vehicleRepo, f.photoRepo, f.auditRepo, f.noteRepo, f.storage)
	return f
}

func pendingRental(renterID int32) *domain.Rental {
	return &domain.Rental{
		ID:                 7,
		RenterID:           renterID,
		VehicleID:          3,
		Status:             domain.RentalStatusPending,
		VerificationStatus: domain.VerificationStatusApproved,
		DepositOutcome:     domain.DepositOutcomePending,
		DepositCents:       10000,
		RateCents:          4500,
		StartDate:          "2026-09-01",
		EndDate:            "2026-09-05",
		Version:            2,
	}
}

func TestCreateDraft(t *testing.T) {
	t.Run("Snapshots vehicle money fields and appends creation event", func(t *testing.T) {
		f := newRentalFixture()
		f.vehicleRepo.On("GetByID", mock.Anything, int32(3)).Return(&domain.Vehicle{
			ID:             3,
			Status:         domain.VehicleStatusAvailable,
			DailyRateCents: 4500,
			DepositCents:   10000,
		}, nil)
		f.rentalRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Rental")).Return(nil)
		f.auditRepo.On("Append", mock.Anything, mock.AnythingOfType("*domain.AuditEvent")).Return(nil)

		rt, err := f.svc.CreateDraft(context.Background(), 10, 3, "2026-09-01", "2026-09-05")
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusDraft, rt.Status)
		assert.Equal(t, domain.VerificationStatusPending, rt.VerificationStatus)
		assert.Equal(t, domain.DepositOutcomePending, rt.DepositOutcome)
		assert.Equal(t, int32(4500), rt.RateCents)
		assert.Equal(t, int32(10000), rt.DepositCents)
		f.auditRepo.AssertNumberOfCalls(t, "Append", 1)
	})

	t.Run("No deposit means outcome not applicable", func(t *testing.T) {
		f := newRentalFixture()
		f.vehicleRepo.On("GetByID", mock.Anything, int32(3)).Return(&domain.Vehicle{
			ID:     3,
			Status: domain.VehicleStatusAvailable,
		}, nil)
		f.rentalRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.auditRepo.On("Append", mock.Anything, mock.Anything).Return(nil)

		rt, err := f.svc.CreateDraft(context.Background(), 10, 3, "2026-09-01", "2026-09-05")
		require.NoError(t, err)
		assert.Equal(t, domain.DepositOutcomeNotApplicable, rt.DepositOutcome)
	})

	t.Run("Rejects unavailable vehicle", func(t *testing.T) {
		f := newRentalFixture()
		f.vehicleRepo.On("GetByID", mock.Anything, int32(3)).Return(&domain.Vehicle{
			ID:     3,
			Status: domain.VehicleStatusRented,
		}, nil)

		_, err := f.svc.CreateDraft(context.Background(), 10, 3, "2026-09-01", "2026-09-05")
		assert.Error(t, err)
		f.rentalRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Rejects end date before start date", func(t *testing.T) {
		f := newRentalFixture()
		f.vehicleRepo.On("GetByID", mock.Anything, int32(3)).Return(&domain.Vehicle{
			ID:     3,
			Status: domain.VehicleStatusAvailable,
		}, nil)

		_, err := f.svc.CreateDraft(context.Background(), 10, 3, "2026-09-05", "2026-09-01")
		assert.Error(t, err)
	})
}

func TestRecordPaymentService(t *testing.T) {
	t.Run("Writes facts and appends one audit event", func(t *testing.T) {
		f := newRentalFixture()
		rt := pendingRental(10)
		f.rentalRepo.On("GetByID", mock.Anything, int32(7)).Return(rt, nil)
		f.photoRepo.On("ListByRental", mock.Anything, int32(7)).Return([]domain.ConditionPhoto{}, nil)
		f.rentalRepo.On("Update", mock.Anything, rt).Return(nil)
		f.auditRepo.On("Append", mock.Anything, mock.MatchedBy(func(e *domain.AuditEvent) bool {
			return e.EventType == domain.AuditEventPaymentRecorded && e.ActorID == 10
		})).Return(nil)

		got, err := f.svc.RecordPayment(context.Background(), 10, 7, "pay_abc")
		require.NoError(t, err)
		assert.True(t, got.Paid)
		assert.NotNil(t, got.PaidAt)
		assert.Equal(t, "pay_abc", got.PaymentRef)
		f.auditRepo.AssertExpectations(t)
	})

	t.Run("Audit failure does not fail the transition", func(t *testing.T) {
		f := newRentalFixture()
		rt := pendingRental(10)
		f.rentalRepo.On("GetByID", mock.Anything, int32(7)).Return(rt, nil)
		f.photoRepo.On("ListByRental", mock.Anything, int32(7)).Return([]domain.ConditionPhoto{}, nil)
		f.rentalRepo.On("Update", mock.Anything, rt).Return(nil)
		f.auditRepo.On("Append", mock.Anything, mock.Anything).Return(assert.AnError)

		_, err := f.svc.RecordPayment(context.Background(), 10, 7, "pay_abc")
		assert.NoError(t, err)
	})

	t.Run("Forbidden for a different renter", func(t *testing.T) {
		f := newRentalFixture()
		f.rentalRepo.On("GetByID", mock.Anything, int32(7)).Return(pendingRental(10), nil)

		_, err := f.svc.RecordPayment(context.Background(), 99, 7, "pay_abc")
		assert.ErrorIs(t, err, ErrForbidden)
		f.rentalRepo.AssertNotCalled(t, "Update")
	})
}

func TestUploadConditionPhotoService(t *testing.T) {
	t.Run("Gated upload upserts the phase row and returns a presigned URL", func(t *testing.T) {
		f := newRentalFixture()
		rt := pendingRental(10)
		f.rentalRepo.On("GetByID", mock.Anything, int32(7)).Return(rt, nil)
		f.photoRepo.On("ListByRental", mock.Anything, int32(7)).Return([]domain.ConditionPhoto{}, nil)
		f.storage.On("GeneratePresignedUploadURL", mock.Anything, "photos/rental-7/PICKUP_EXTERIOR.jpg", "image/jpeg", 15*time.Minute).
			Return("http://localhost:8080/api/v1/upload/tok?key=x", nil)
		f.photoRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(p *domain.ConditionPhoto) bool {
			return p.Phase == domain.PhotoPhasePickupExterior && p.StorageKey == "photos/rental-7/PICKUP_EXTERIOR.jpg"
		})).Return(nil)
		f.auditRepo.On("Append", mock.Anything, mock.Anything).Return(nil)

		photo, uploadURL, err := f.svc.UploadConditionPhoto(context.Background(), 10, 7, domain.PhotoPhasePickupExterior, "front.jpg", "image/jpeg", 2048)
		require.NoError(t, err)
		assert.NotEmpty(t, uploadURL)
		assert.Equal(t, int32(10), photo.UploadedBy)
		f.photoRepo.AssertExpectations(t)
	})

	t.Run("Return phase rejected before pickup", func(t *testing.T) {
		f := newRentalFixture()
		rt := pendingRental(10)
		f.rentalRepo.On("GetByID", mock.Anything, int32(7)).Return(rt, nil)
		f.photoRepo.On("ListByRental", mock.Anything, int32(7)).Return([]domain.ConditionPhoto{}, nil)

		_, _, err := f.svc.UploadConditionPhoto(context.Background(), 10, 7, domain.PhotoPhaseReturnExterior, "rear.jpg", "image/jpeg", 2048)
		precond := &lifecycle.PreconditionError{}
		require.ErrorAs(t, err, &precond)
		f.photoRepo.AssertNotCalled(t, "Upsert")
	})
}

func TestConfirmPickupService(t *testing.T) {
	t.Run("Rejected with missing photos listed, nothing written", func(t *testing.T) {
		f := newRentalFixture()
		rt := pendingRental(10)
		now := time.Now().UTC()
		rt.LockboxReleasedAt = &now
		rt.DocsComplete = true
		rt.AgreementSigned = true
		rt.Paid = true

		f.rentalRepo.On("GetByID", mock.Anything, int32(7)).Return(rt, nil)
		f.photoRepo.On("ListByRental", mock.Anything, int32(7)).Return([]domain.ConditionPhoto{
			{Phase: domain.PhotoPhasePickupExterior},
		}, nil)

		_, err := f.svc.ConfirmPickup(context.Background(), 10, 7)
		precond := &lifecycle.PreconditionError{}
		require.ErrorAs(t, err, &precond)
		assert.Contains(t, precond.Reasons, "pickup interior photos are missing")
		f.rentalRepo.AssertNotCalled(t, "Update")
		f.auditRepo.AssertNotCalled(t, "Append")
	})

	t.Run("Succeeds and marks the vehicle rented", func(t *testing.T) {
		f := newRentalFixture()
		rt := pendingRental(10)
		now := time.Now().UTC()
		rt.LockboxReleasedAt = &now
		rt.DocsComplete = true
		rt.AgreementSigned = true
		rt.Paid = true

		f.rentalRepo.On("GetByID", mock.Anything, int32(7)).Return(rt, nil)
		f.photoRepo.On("ListByRental", mock.Anything, int32(7)).Return([]domain.ConditionPhoto{
			{Phase: domain.PhotoPhasePickupExterior},
			{Phase: domain.PhotoPhasePickupInterior},
		}, nil)
		f.rentalRepo.On("Update", mock.Anything, rt).Return(nil)
		f.auditRepo.On("Append", mock.Anything, mock.Anything).Return(nil)
		f.vehicleRepo.On("GetByID", mock.Anything, int32(3)).Return(&domain.Vehicle{ID: 3, Status: domain.VehicleStatusAvailable}, nil)
		f.vehicleRepo.On("Update", mock.Anything, mock.MatchedBy(func(v *domain.Vehicle) bool {
			return v.Status == domain.VehicleStatusRented
		})).Return(nil)

		got, err := f.svc.ConfirmPickup(context.Background(), 10, 7)
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusActive, got.Status)
		assert.NotNil(t, got.PickupConfirmedAt)
		f.vehicleRepo.AssertExpectations(t)
	})
}

func TestGetRental(t *testing.T) {
	t.Run("Owner sees rental with derived photo progress", func(t *testing.T) {
		f := newRentalFixture()
		rt := pendingRental(10)
		f.rentalRepo.On("GetByID", mock.Anything, int32(7)).Return(rt, nil)
		f.photoRepo.On("ListByRental", mock.Anything, int32(7)).Return([]domain.ConditionPhoto{
			{Phase: domain.PhotoPhasePickupExterior},
			{Phase: domain.PhotoPhasePickupInterior},
		}, nil)

		got, progress, err := f.svc.GetRental(context.Background(), 10, false, 7)
		require.NoError(t, err)
		assert.Equal(t, rt, got)
		assert.Equal(t, domain.PhotoProgressPickupInteriorDone, progress)
	})

	t.Run("Non-owner non-admin is forbidden", func(t *testing.T) {
		f := newRentalFixture()
		f.rentalRepo.On("GetByID", mock.Anything, int32(7)).Return(pendingRental(10), nil)

		_, _, err := f.svc.GetRental(context.Background(), 55, false, 7)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("Admin may read any rental", func(t *testing.T) {
		f := newRentalFixture()
		f.rentalRepo.On("GetByID", mock.Anything, int32(7)).Return(pendingRental(10), nil)
		f.photoRepo.On("ListByRental", mock.Anything, int32(7)).Return([]domain.ConditionPhoto{}, nil)

		_, _, err := f.svc.GetRental(context.Background(), 55, true, 7)
		assert.NoError(t, err)
	})
}

func TestCancelService(t *testing.T) {
	f := newRentalFixture()
	rt := pendingRental(10)
	f.rentalRepo.On("GetByID", mock.Anything, int32(7)).Return(rt, nil)
	f.photoRepo.On("ListByRental", mock.Anything, int32(7)).Return([]domain.ConditionPhoto{}, nil)
	f.rentalRepo.On("Update", mock.Anything, rt).Return(nil)
	f.auditRepo.On("Append", mock.Anything, mock.MatchedBy(func(e *domain.AuditEvent) bool {
		return e.EventType == domain.AuditEventRentalCancelled && e.Payload["reason"] == "plans changed"
	})).Return(nil)

	got, err := f.svc.Cancel(context.Background(), 10, 7, "plans changed")
	require.NoError(t, err)
	assert.Equal(t, domain.RentalStatusCancelled, got.Status)
	f.auditRepo.AssertExpectations(t)
}
