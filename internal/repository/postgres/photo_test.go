package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadshare-backend/internal/domain"
)

func TestConditionPhotoRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewConditionPhotoRepository(db)
	ctx := context.Background()

	photo := &domain.ConditionPhoto{
		RentalID:   7,
		Phase:      domain.PhotoPhasePickupExterior,
		StorageKey: "photos/rental-7/PICKUP_EXTERIOR.jpg",
		FileName:   "front.jpg",
		MimeType:   "image/jpeg",
		FileSize:   2048,
		UploadedBy: 10,
	}

	t.Run("First upload inserts", func(t *testing.T) {
		created := time.Now()
		mock.ExpectQuery("INSERT INTO condition_photos").
			WithArgs(photo.RentalID, photo.Phase, photo.StorageKey, photo.FileName, photo.MimeType, photo.FileSize, photo.UploadedBy, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_on"}).AddRow(1, created))

		require.NoError(t, repo.Upsert(ctx, photo))
		assert.Equal(t, int32(1), photo.ID)
	})

	t.Run("Re-upload keeps the same row id", func(t *testing.T) {
		created := time.Now().Add(-time.Hour)
		photo.FileName = "front-retake.jpg"
		mock.ExpectQuery("INSERT INTO condition_photos").
			WithArgs(photo.RentalID, photo.Phase, photo.StorageKey, photo.FileName, photo.MimeType, photo.FileSize, photo.UploadedBy, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_on"}).AddRow(1, created))

		require.NoError(t, repo.Upsert(ctx, photo))
		assert.Equal(t, int32(1), photo.ID)
		assert.Equal(t, created, photo.CreatedOn)
	})
}

func TestAuditEventRepository_Append(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAuditEventRepository(db)

	event := &domain.AuditEvent{
		EventID:   "2e9c6f0a-0000-0000-0000-000000000000",
		RentalID:  7,
		ActorID:   1,
		ActorRole: domain.UserRoleAdmin,
		EventType: domain.AuditEventLockboxReleased,
	}

	mock.ExpectQuery("INSERT INTO audit_events").
		WithArgs(event.EventID, event.RentalID, event.ActorID, event.ActorRole, event.EventType, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	require.NoError(t, repo.Append(context.Background(), event))
	assert.Equal(t, int32(42), event.ID)
}

func TestAuditEventRepository_ListByRental(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAuditEventRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "event_id", "rental_id", "actor_id", "actor_role", "event_type", "payload", "created_on"}).
		AddRow(1, "ev-1", 7, 10, "CUSTOMER", "RENTAL_SUBMITTED", []byte(`{}`), now.Add(-time.Hour)).
		AddRow(2, "ev-2", 7, 1, "ADMIN", "DEPOSIT_WITHHELD", []byte(`{"withheld_cents":"7500"}`), now)

	mock.ExpectQuery("SELECT (.+) FROM audit_events WHERE rental_id = \\$1").
		WithArgs(int32(7)).
		WillReturnRows(rows)

	events, err := repo.ListByRental(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, domain.AuditEventDepositWithheld, events[1].EventType)
	assert.Equal(t, "7500", events[1].Payload["withheld_cents"])
}
