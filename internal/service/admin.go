package service

import (
	"context"
	"fmt"

	"roadshare-backend/internal/domain"
	"roadshare-backend/internal/lifecycle"
	"roadshare-backend/internal/logger"
	"roadshare-backend/internal/repository"
)

type adminService struct {
	transitionApplier
	userRepo   repository.UserRepository
	noteRepo   repository.NotificationRepository
	emailSvc   EmailService
	paymentSvc PaymentService
}

func NewAdminService(
	rentalRepo repository.RentalRepository,
	photoRepo repository.ConditionPhotoRepository,
	auditRepo repository.AuditEventRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	paymentSvc PaymentService,
) AdminService {
	return &adminService{
		transitionApplier: transitionApplier{
			rentalRepo: rentalRepo,
			photoRepo:  photoRepo,
			auditRepo:  auditRepo,
		},
		userRepo:   userRepo,
		noteRepo:   noteRepo,
		emailSvc:   emailSvc,
		paymentSvc: paymentSvc,
	}
}

func (s *adminService) ApproveVerification(ctx context.Context, adminID, rentalID int32) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	req := lifecycle.Request{Transition: lifecycle.TransitionApproveVerification}
	if err := s.apply(ctx, rt, adminID, domain.UserRoleAdmin, req, nil); err != nil {
		return nil, err
	}

	if renter, err := s.userRepo.GetByID(ctx, rt.RenterID); err == nil {
		if err := s.emailSvc.SendVerificationApproved(ctx, renter.Email, renter.Name); err != nil {
			logger.Warn("Failed to send verification approval email", "rental_id", rentalID, "error", err)
		}
		s.notify(ctx, renter.ID, "Verification Approved",
			"Your identity documents were approved. You can continue with your rental.", rt.ID)
	}
	return rt, nil
}

func (s *adminService) DenyVerification(ctx context.Context, adminID, rentalID int32, reason string) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	req := lifecycle.Request{Transition: lifecycle.TransitionDenyVerification, Reason: reason}
	payload := map[string]string{"reason": reason}
	if err := s.apply(ctx, rt, adminID, domain.UserRoleAdmin, req, payload); err != nil {
		return nil, err
	}

	if renter, err := s.userRepo.GetByID(ctx, rt.RenterID); err == nil {
		if err := s.emailSvc.SendVerificationDenied(ctx, renter.Email, renter.Name, reason); err != nil {
			logger.Warn("Failed to send verification denial email", "rental_id", rentalID, "error", err)
		}
		s.notify(ctx, renter.ID, "Verification Denied", fmt.Sprintf("Your identity documents were denied: %s", reason), rt.ID)
	}
	return rt, nil
}

func (s *adminService) ReleaseLockbox(ctx context.Context, adminID, rentalID int32) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	req := lifecycle.Request{Transition: lifecycle.TransitionReleaseLockbox}
	if err := s.apply(ctx, rt, adminID, domain.UserRoleAdmin, req, nil); err != nil {
		return nil, err
	}

	if renter, err := s.userRepo.GetByID(ctx, rt.RenterID); err == nil {
		if err := s.emailSvc.SendLockboxReleased(ctx, renter.Email, renter.Name); err != nil {
			logger.Warn("Failed to send lockbox release email", "rental_id", rentalID, "error", err)
		}
		s.notify(ctx, renter.ID, "Lockbox Released",
			"The vehicle lockbox has been released. Upload pickup photos and confirm pickup.", rt.ID)
	}
	return rt, nil
}

func (s *adminService) ConfirmDamage(ctx context.Context, adminID, rentalID int32, note string) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	req := lifecycle.Request{Transition: lifecycle.TransitionConfirmDamage}
	payload := map[string]string{"note": note}
	if err := s.apply(ctx, rt, adminID, domain.UserRoleAdmin, req, payload); err != nil {
		return nil, err
	}
	return rt, nil
}

func (s *adminService) RefundDeposit(ctx context.Context, adminID, rentalID int32) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	req := lifecycle.Request{Transition: lifecycle.TransitionRefundDeposit}
	if err := s.evaluate(ctx, rt, req); err != nil {
		return nil, err
	}

	// The provider call happens before the fact write: a failed refund
	// aborts the transition with nothing committed.
	if rt.DepositCents > 0 {
		if err := s.paymentSvc.Refund(ctx, rt.PaymentRef, rt.DepositCents); err != nil {
			return nil, fmt.Errorf("deposit refund failed: %w", err)
		}
	}

	payload := map[string]string{"amount_cents": fmt.Sprintf("%d", rt.DepositCents)}
	if err := s.commit(ctx, rt, adminID, domain.UserRoleAdmin, req, payload); err != nil {
		return nil, err
	}

	if renter, err := s.userRepo.GetByID(ctx, rt.RenterID); err == nil {
		if err := s.emailSvc.SendDepositRefunded(ctx, renter.Email, renter.Name, rt.DepositCents); err != nil {
			logger.Warn("Failed to send deposit refund email", "rental_id", rentalID, "error", err)
		}
		s.notify(ctx, renter.ID, "Deposit Refunded",
			fmt.Sprintf("Your deposit of $%.2f has been refunded.", float64(rt.DepositCents)/100), rt.ID)
	}
	return rt, nil
}

func (s *adminService) WithholdDeposit(ctx context.Context, adminID, rentalID int32, amountCents int32, reason string) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	req := lifecycle.Request{Transition: lifecycle.TransitionWithholdDeposit, AmountCents: amountCents, Reason: reason}
	if err := s.evaluate(ctx, rt, req); err != nil {
		return nil, err
	}

	// The remainder of the deposit goes back to the renter. The refund
	// amount can never exceed the original deposit because the gate caps
	// the withheld amount.
	if remainder := rt.DepositCents - amountCents; remainder > 0 {
		if err := s.paymentSvc.Refund(ctx, rt.PaymentRef, remainder); err != nil {
			return nil, fmt.Errorf("partial deposit refund failed: %w", err)
		}
	}

	payload := map[string]string{
		"withheld_cents": fmt.Sprintf("%d", amountCents),
		"reason":         reason,
	}
	if err := s.commit(ctx, rt, adminID, domain.UserRoleAdmin, req, payload); err != nil {
		return nil, err
	}

	if renter, err := s.userRepo.GetByID(ctx, rt.RenterID); err == nil {
		if err := s.emailSvc.SendDepositWithheld(ctx, renter.Email, renter.Name, reason, amountCents); err != nil {
			logger.Warn("Failed to send deposit withhold email", "rental_id", rentalID, "error", err)
		}
	}
	return rt, nil
}

func (s *adminService) MarkCompleted(ctx context.Context, adminID, rentalID int32) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	req := lifecycle.Request{Transition: lifecycle.TransitionMarkCompleted}
	if err := s.apply(ctx, rt, adminID, domain.UserRoleAdmin, req, nil); err != nil {
		return nil, err
	}
	return rt, nil
}

func (s *adminService) ListPendingVerification(ctx context.Context, page, pageSize int32) ([]domain.Rental, int32, error) {
	return s.rentalRepo.ListByVerificationStatus(ctx, domain.VerificationStatusPending, page, pageSize)
}

func (s *adminService) GetAuditTrail(ctx context.Context, rentalID int32) ([]domain.AuditEvent, error) {
	return s.auditRepo.ListByRental(ctx, rentalID)
}

func (s *adminService) notify(ctx context.Context, userID int32, title, message string, rentalID int32) {
	note := &domain.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Attributes: map[string]string{
			"rental_id": fmt.Sprintf("%d", rentalID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("Failed to create notification", "user_id", userID, "title", title, "error", err)
	}
}
