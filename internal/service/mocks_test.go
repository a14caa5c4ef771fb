package service

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"roadshare-backend/internal/domain"
)

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) Create(ctx context.Context, rental *domain.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}
func (m *MockRentalRepo) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) Update(ctx context.Context, rental *domain.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}
func (m *MockRentalRepo) DeleteDraft(ctx context.Context, id, renterID int32) error {
	args := m.Called(ctx, id, renterID)
	return args.Error(0)
}
func (m *MockRentalRepo) ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, renterID, status, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalRepo) ListByVerificationStatus(ctx context.Context, status domain.VerificationStatus, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalRepo) ListActiveEndingBy(ctx context.Context, date string) ([]domain.Rental, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) ExpireStaleDrafts(ctx context.Context, maxAgeDays int) (int64, error) {
	args := m.Called(ctx, maxAgeDays)
	return args.Get(0).(int64), args.Error(1)
}

// MockPhotoRepo
type MockPhotoRepo struct {
	mock.Mock
}

func (m *MockPhotoRepo) Upsert(ctx context.Context, photo *domain.ConditionPhoto) error {
	args := m.Called(ctx, photo)
	return args.Error(0)
}
func (m *MockPhotoRepo) GetByRentalAndPhase(ctx context.Context, rentalID int32, phase domain.PhotoPhase) (*domain.ConditionPhoto, error) {
	args := m.Called(ctx, rentalID, phase)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConditionPhoto), args.Error(1)
}
func (m *MockPhotoRepo) ListByRental(ctx context.Context, rentalID int32) ([]domain.ConditionPhoto, error) {
	args := m.Called(ctx, rentalID)
	return args.Get(0).([]domain.ConditionPhoto), args.Error(1)
}

// MockAuditRepo
type MockAuditRepo struct {
	mock.Mock
}

func (m *MockAuditRepo) Append(ctx context.Context, event *domain.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
func (m *MockAuditRepo) ListByRental(ctx context.Context, rentalID int32) ([]domain.AuditEvent, error) {
	args := m.Called(ctx, rentalID)
	return args.Get(0).([]domain.AuditEvent), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockVehicleRepo
type MockVehicleRepo struct {
	mock.Mock
}

func (m *MockVehicleRepo) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}
func (m *MockVehicleRepo) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}
func (m *MockVehicleRepo) List(ctx context.Context, metro string, page, pageSize int32) ([]domain.Vehicle, int32, error) {
	args := m.Called(ctx, metro, page, pageSize)
	return args.Get(0).([]domain.Vehicle), args.Get(1).(int32), args.Error(2)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendVerificationApproved(ctx context.Context, email, name string) error {
	args := m.Called(ctx, email, name)
	return args.Error(0)
}
func (m *MockEmailService) SendVerificationDenied(ctx context.Context, email, name, reason string) error {
	args := m.Called(ctx, email, name, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendLockboxReleased(ctx context.Context, email, name string) error {
	args := m.Called(ctx, email, name)
	return args.Error(0)
}
func (m *MockEmailService) SendDepositRefunded(ctx context.Context, email, name string, amountCents int32) error {
	args := m.Called(ctx, email, name, amountCents)
	return args.Error(0)
}
func (m *MockEmailService) SendDepositWithheld(ctx context.Context, email, name, reason string, amountCents int32) error {
	args := m.Called(ctx, email, name, reason, amountCents)
	return args.Error(0)
}
func (m *MockEmailService) SendReturnReminder(ctx context.Context, email, name, endDate string) error {
	args := m.Called(ctx, email, name, endDate)
	return args.Error(0)
}

// MockPaymentService
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Refund(ctx context.Context, paymentRef string, amountCents int32) error {
	args := m.Called(ctx, paymentRef, amountCents)
	return args.Error(0)
}

// MockStorage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GeneratePresignedUploadURL(ctx context.Context, key string, contentType string, expiresIn time.Duration) (string, error) {
	args := m.Called(ctx, key, contentType, expiresIn)
	return args.String(0), args.Error(1)
}
func (m *MockStorage) GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	args := m.Called(ctx, key, expiresIn)
	return args.String(0), args.Error(1)
}
func (m *MockStorage) FileExists(ctx context.Context, key string) (bool, int64, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}
func (m *MockStorage) DeleteFile(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
func (m *MockStorage) SaveFile(key string, reader io.Reader) error {
	args := m.Called(key, reader)
	return args.Error(0)
}
func (m *MockStorage) ReadFile(key string) (io.ReadCloser, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}
