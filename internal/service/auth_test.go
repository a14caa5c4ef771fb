package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"roadshare-backend/internal/domain"
	"roadshare-backend/internal/repository"
	"roadshare-backend/internal/security"
)

func newAuthFixture() (*MockUserRepo, AuthService) {
	userRepo := new(MockUserRepo)
	manager := security.NewTokenManager("test-secret-that-is-long-enough-for-hs256")
	return userRepo, NewAuthService(userRepo, manager)
}

func TestSignup(t *testing.T) {
	t.Run("Creates a customer and issues both tokens", func(t *testing.T) {
		userRepo, svc := newAuthFixture()
		userRepo.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, repository.ErrNotFound)
		userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Role == domain.UserRoleCustomer && u.PasswordHash != "hunter22secret"
		})).Return(nil)

		user, access, refresh, err := svc.Signup(context.Background(), "New Renter", "new@example.com", "555-0100", "hunter22secret")
		require.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter22secret")))
	})

	t.Run("Rejects an existing email", func(t *testing.T) {
		userRepo, svc := newAuthFixture()
		userRepo.On("GetByEmail", mock.Anything, "taken@example.com").Return(&domain.User{ID: 1}, nil)

		_, _, _, err := svc.Signup(context.Background(), "Someone", "taken@example.com", "", "hunter22secret")
		assert.Error(t, err)
		userRepo.AssertNotCalled(t, "Create")
	})
}

func TestLogin(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter22secret"), bcrypt.DefaultCost)
	stored := &domain.User{ID: 7, Email: "renter@example.com", PasswordHash: string(hash), Role: domain.UserRoleCustomer}

	t.Run("Success", func(t *testing.T) {
		userRepo, svc := newAuthFixture()
		userRepo.On("GetByEmail", mock.Anything, "renter@example.com").Return(stored, nil)

		access, refresh, err := svc.Login(context.Background(), "renter@example.com", "hunter22secret")
		require.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
	})

	t.Run("Wrong password", func(t *testing.T) {
		userRepo, svc := newAuthFixture()
		userRepo.On("GetByEmail", mock.Anything, "renter@example.com").Return(stored, nil)

		_, _, err := svc.Login(context.Background(), "renter@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown email maps to invalid credentials", func(t *testing.T) {
		userRepo, svc := newAuthFixture()
		userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrNotFound)

		_, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRefresh(t *testing.T) {
	t.Run("Access token cannot be used as refresh token", func(t *testing.T) {
		userRepo, svc := newAuthFixture()
		manager := security.NewTokenManager("test-secret-that-is-long-enough-for-hs256")
		access, err := manager.GenerateAccessToken(7, "renter@example.com", "CUSTOMER")
		require.NoError(t, err)

		_, _, err = svc.Refresh(context.Background(), access)
		assert.ErrorIs(t, err, security.ErrWrongTokenType)
		userRepo.AssertNotCalled(t, "GetByID")
	})

	t.Run("Valid refresh token issues a new pair", func(t *testing.T) {
		userRepo, svc := newAuthFixture()
		manager := security.NewTokenManager("test-secret-that-is-long-enough-for-hs256")
		refresh, err := manager.GenerateRefreshToken(7, "renter@example.com")
		require.NoError(t, err)
		userRepo.On("GetByID", mock.Anything, int32(7)).Return(&domain.User{ID: 7, Email: "renter@example.com", Role: domain.UserRoleCustomer}, nil)

		access, newRefresh, err := svc.Refresh(context.Background(), refresh)
		require.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, newRefresh)
	})
}
