package postgres

import (
	"database/sql"

	"roadshare-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.VehicleRepository
	repository.RentalRepository
	repository.AuditEventRepository
	repository.ConditionPhotoRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                       db,
		UserRepository:           NewUserRepository(db),
		VehicleRepository:        NewVehicleRepository(db),
		RentalRepository:         NewRentalRepository(db),
		AuditEventRepository:     NewAuditEventRepository(db),
		ConditionPhotoRepository: NewConditionPhotoRepository(db),
		NotificationRepository:   NewNotificationRepository(db),
	}
}
