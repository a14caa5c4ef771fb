package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"roadshare-backend/internal/domain"
	"roadshare-backend/internal/repository"
)

type conditionPhotoRepository struct {
	db *sql.DB
}

func NewConditionPhotoRepository(db *sql.DB) repository.ConditionPhotoRepository {
	return &conditionPhotoRepository{db: db}
}

// Upsert relies on the (rental_id, phase) unique constraint: a re-upload of
// the same phase overwrites the stored reference instead of adding a row.
func (r *conditionPhotoRepository) Upsert(ctx context.Context, p *domain.ConditionPhoto) error {
	query := `INSERT INTO condition_photos (rental_id, phase, storage_key, file_name, mime_type, file_size, uploaded_by, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	          ON CONFLICT (rental_id, phase) DO UPDATE SET
	              storage_key = EXCLUDED.storage_key,
	              file_name   = EXCLUDED.file_name,
	              mime_type   = EXCLUDED.mime_type,
	              file_size   = EXCLUDED.file_size,
	              uploaded_by = EXCLUDED.uploaded_by,
	              updated_on  = EXCLUDED.updated_on
	          RETURNING id, created_on`
	now := time.Now()
	if err := r.db.QueryRowContext(ctx, query, p.RentalID, p.Phase, p.StorageKey, p.FileName, p.MimeType, p.FileSize, p.UploadedBy, now).Scan(&p.ID, &p.CreatedOn); err != nil {
		return err
	}
	p.UpdatedOn = now
	return nil
}

func (r *conditionPhotoRepository) GetByRentalAndPhase(ctx context.Context, rentalID int32, phase domain.PhotoPhase) (*domain.ConditionPhoto, error) {
	p := &domain.ConditionPhoto{}
	query := `SELECT id, rental_id, phase, storage_key, file_name, mime_type, file_size, uploaded_by, created_on, updated_on
	          FROM condition_photos WHERE rental_id = $1 AND phase = $2`
	err := r.db.QueryRowContext(ctx, query, rentalID, phase).Scan(
		&p.ID, &p.RentalID, &p.Phase, &p.StorageKey, &p.FileName, &p.MimeType, &p.FileSize, &p.UploadedBy, &p.CreatedOn, &p.UpdatedOn,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *conditionPhotoRepository) ListByRental(ctx context.Context, rentalID int32) ([]domain.ConditionPhoto, error) {
	query := `SELECT id, rental_id, phase, storage_key, file_name, mime_type, file_size, uploaded_by, created_on, updated_on
	          FROM condition_photos WHERE rental_id = $1 ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, rentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []domain.ConditionPhoto
	for rows.Next() {
		var p domain.ConditionPhoto
		if err := rows.Scan(&p.ID, &p.RentalID, &p.Phase, &p.StorageKey, &p.FileName, &p.MimeType, &p.FileSize, &p.UploadedBy, &p.CreatedOn, &p.UpdatedOn); err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}
