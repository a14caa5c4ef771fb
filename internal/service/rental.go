package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roadshare-backend/internal/domain"
	"roadshare-backend/internal/lifecycle"
	"roadshare-backend/internal/logger"
	"roadshare-backend/internal/repository"
	"roadshare-backend/internal/storage"
)

type rentalService struct {
	transitionApplier
	vehicleRepo repository.VehicleRepository
	noteRepo    repository.NotificationRepository
	storageSvc  storage.StorageInterface
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	vehicleRepo repository.VehicleRepository,
	photoRepo repository.ConditionPhotoRepository,
	auditRepo repository.AuditEventRepository,
	noteRepo repository.NotificationRepository,
	storageSvc storage.StorageInterface,
) RentalService {
	return &rentalService{
		transitionApplier: transitionApplier{
			rentalRepo: rentalRepo,
			photoRepo:  photoRepo,
			auditRepo:  auditRepo,
		},
		vehicleRepo: vehicleRepo,
		noteRepo:    noteRepo,
		storageSvc:  storageSvc,
	}
}

func (s *rentalService) CreateDraft(ctx context.Context, renterID, vehicleID int32, startDate, endDate string) (*domain.Rental, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.Status != domain.VehicleStatusAvailable {
		return nil, errors.New("vehicle is not available")
	}

	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date: %w", err)
	}
	if end.Before(start) {
		return nil, errors.New("end date must not be before start date")
	}

	depositOutcome := domain.DepositOutcomePending
	if vehicle.DepositCents == 0 {
		depositOutcome = domain.DepositOutcomeNotApplicable
	}

	rental := &domain.Rental{
		RenterID:           renterID,
		VehicleID:          vehicleID,
		Status:             domain.RentalStatusDraft,
		VerificationStatus: domain.VerificationStatusPending,
		DepositOutcome:     depositOutcome,
		RateCents:          vehicle.DailyRateCents,
		DepositCents:       vehicle.DepositCents,
		StartDate:          startDate,
		EndDate:            endDate,
	}
	if err := s.rentalRepo.Create(ctx, rental); err != nil {
		return nil, err
	}

	s.appendAudit(ctx, rental.ID, renterID, domain.UserRoleCustomer, domain.AuditEventRentalCreated, map[string]string{
		"vehicle_id": fmt.Sprintf("%d", vehicleID),
		"start_date": startDate,
		"end_date":   endDate,
	})
	return rental, nil
}

func (s *rentalService) Submit(ctx context.Context, renterID, rentalID int32) (*domain.Rental, error) {
	rt, err := s.getOwned(ctx, renterID, rentalID)
	if err != nil {
		return nil, err
	}
	req := lifecycle.Request{Transition: lifecycle.TransitionSubmit}
	if err := s.apply(ctx, rt, renterID, domain.UserRoleCustomer, req, nil); err != nil {
		return nil, err
	}
	return rt, nil
}

func (s *rentalService) DiscardDraft(ctx context.Context, renterID, rentalID int32) error {
	return s.rentalRepo.DeleteDraft(ctx, rentalID, renterID)
}

func (s *rentalService) MarkDocsComplete(ctx context.Context, renterID, rentalID int32) (*domain.Rental, error) {
	rt, err := s.getOwned(ctx, renterID, rentalID)
	if err != nil {
		return nil, err
	}
	req := lifecycle.Request{Transition: lifecycle.TransitionCompleteDocs}
	if err := s.apply(ctx, rt, renterID, domain.UserRoleCustomer, req, nil); err != nil {
		return nil, err
	}
	return rt, nil
}

func (s *rentalService) SignAgreement(ctx context.Context, renterID, rentalID int32) (*domain.Rental, error) {
	rt, err := s.getOwned(ctx, renterID, rentalID)
	if err != nil {
		return nil, err
	}
	req := lifecycle.Request{Transition: lifecycle.TransitionSignAgreement}
	if err := s.apply(ctx, rt, renterID, domain.UserRoleCustomer, req, nil); err != nil {
		return nil, err
	}
	return rt, nil
}

func (s *rentalService) RecordPayment(ctx context.Context, renterID, rentalID int32, paymentRef string) (*domain.Rental, error) {
	rt, err := s.getOwned(ctx, renterID, rentalID)
	if err != nil {
		return nil, err
	}
	req := lifecycle.Request{Transition: lifecycle.TransitionRecordPayment, PaymentRef: paymentRef}
	payload := map[string]string{"payment_ref": paymentRef}
	if err := s.apply(ctx, rt, renterID, domain.UserRoleCustomer, req, payload); err != nil {
		return nil, err
	}
	return rt, nil
}

func (s *rentalService) UploadConditionPhoto(ctx context.Context, renterID, rentalID int32, phase domain.PhotoPhase, fileName, mimeType string, fileSize int64) (*domain.ConditionPhoto, string, error) {
	rt, err := s.getOwned(ctx, renterID, rentalID)
	if err != nil {
		return nil, "", err
	}

	req := lifecycle.Request{Transition: lifecycle.TransitionUploadPhoto, Phase: phase}
	if err := s.evaluate(ctx, rt, req); err != nil {
		return nil, "", err
	}

	key := storage.PhotoKey(rentalID, string(phase), fileName)
	uploadURL, err := s.storageSvc.GeneratePresignedUploadURL(ctx, key, mimeType, 15*time.Minute)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create upload url: %w", err)
	}

	photo := &domain.ConditionPhoto{
		RentalID:   rentalID,
		Phase:      phase,
		StorageKey: key,
		FileName:   fileName,
		MimeType:   mimeType,
		FileSize:   fileSize,
		UploadedBy: renterID,
	}
	if err := s.photoRepo.Upsert(ctx, photo); err != nil {
		return nil, "", err
	}

	s.appendAudit(ctx, rentalID, renterID, domain.UserRoleCustomer, domain.AuditEventPhotoUploaded, map[string]string{
		"phase":       string(phase),
		"storage_key": key,
	})
	return photo, uploadURL, nil
}

func (s *rentalService) ConfirmPickup(ctx context.Context, renterID, rentalID int32) (*domain.Rental, error) {
	rt, err := s.getOwned(ctx, renterID, rentalID)
	if err != nil {
		return nil, err
	}
	req := lifecycle.Request{Transition: lifecycle.TransitionConfirmPickup}
	if err := s.apply(ctx, rt, renterID, domain.UserRoleCustomer, req, nil); err != nil {
		return nil, err
	}

	// Vehicle status tracks the rental going active.
	if vehicle, err := s.vehicleRepo.GetByID(ctx, rt.VehicleID); err == nil {
		vehicle.Status = domain.VehicleStatusRented
		if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
			logger.Warn("Failed to mark vehicle rented", "vehicle_id", rt.VehicleID, "error", err)
		}
	}
	return rt, nil
}

func (s *rentalService) ConfirmReturn(ctx context.Context, renterID, rentalID int32) (*domain.Rental, error) {
	rt, err := s.getOwned(ctx, renterID, rentalID)
	if err != nil {
		return nil, err
	}
	req := lifecycle.Request{Transition: lifecycle.TransitionConfirmReturn}
	if err := s.apply(ctx, rt, renterID, domain.UserRoleCustomer, req, nil); err != nil {
		return nil, err
	}

	if vehicle, err := s.vehicleRepo.GetByID(ctx, rt.VehicleID); err == nil {
		vehicle.Status = domain.VehicleStatusAvailable
		if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
			logger.Warn("Failed to mark vehicle available", "vehicle_id", rt.VehicleID, "error", err)
		}
	}
	return rt, nil
}

func (s *rentalService) Cancel(ctx context.Context, renterID, rentalID int32, reason string) (*domain.Rental, error) {
	rt, err := s.getOwned(ctx, renterID, rentalID)
	if err != nil {
		return nil, err
	}
	req := lifecycle.Request{Transition: lifecycle.TransitionCancel, Reason: reason}
	payload := map[string]string{"reason": reason}
	if err := s.apply(ctx, rt, renterID, domain.UserRoleCustomer, req, payload); err != nil {
		return nil, err
	}
	return rt, nil
}

func (s *rentalService) GetRental(ctx context.Context, userID int32, isAdmin bool, rentalID int32) (*domain.Rental, domain.PhotoProgress, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, "", err
	}
	if rt.RenterID != userID && !isAdmin {
		return nil, "", ErrForbidden
	}
	photos, err := s.photoRepo.ListByRental(ctx, rentalID)
	if err != nil {
		return nil, "", err
	}
	return rt, lifecycle.DeriveProgress(photos).Marker(), nil
}

func (s *rentalService) ListRentals(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	return s.rentalRepo.ListByRenter(ctx, renterID, status, page, pageSize)
}

func (s *rentalService) getOwned(ctx context.Context, renterID, rentalID int32) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.RenterID != renterID {
		return nil, ErrForbidden
	}
	return rt, nil
}
