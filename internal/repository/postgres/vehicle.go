package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"roadshare-backend/internal/domain"
	"roadshare-backend/internal/repository"
)

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	query := `INSERT INTO vehicles (make, model, year, plate_number, metro, daily_rate_cents, deposit_cents, status, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	now := time.Now()
	if err := r.db.QueryRowContext(ctx, query, v.Make, v.Model, v.Year, v.PlateNumber, v.Metro, v.DailyRateCents, v.DepositCents, v.Status, now).Scan(&v.ID); err != nil {
		return err
	}
	v.CreatedOn = now
	return nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	query := `SELECT id, make, model, year, plate_number, metro, daily_rate_cents, deposit_cents, status, created_on, deleted_on
	          FROM vehicles WHERE id = $1 AND deleted_on IS NULL`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&v.ID, &v.Make, &v.Model, &v.Year, &v.PlateNumber, &v.Metro, &v.DailyRateCents, &v.DepositCents, &v.Status, &v.CreatedOn, &v.DeletedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *vehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	query := `UPDATE vehicles SET make=$1, model=$2, year=$3, plate_number=$4, metro=$5,
	              daily_rate_cents=$6, deposit_cents=$7, status=$8 WHERE id=$9`
	_, err := r.db.ExecContext(ctx, query, v.Make, v.Model, v.Year, v.PlateNumber, v.Metro, v.DailyRateCents, v.DepositCents, v.Status, v.ID)
	return err
}

func (r *vehicleRepository) List(ctx context.Context, metro string, page, pageSize int32) ([]domain.Vehicle, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT id, make, model, year, plate_number, metro, daily_rate_cents, deposit_cents, status, created_on, deleted_on
	          FROM vehicles WHERE deleted_on IS NULL`
	countQuery := `SELECT count(*) FROM vehicles WHERE deleted_on IS NULL`

	args := []interface{}{}
	if metro != "" {
		query += " AND metro = $1"
		countQuery += " AND metro = $1"
		args = append(args, metro)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	if metro != "" {
		query += " ORDER BY id ASC LIMIT $2 OFFSET $3"
	} else {
		query += " ORDER BY id ASC LIMIT $1 OFFSET $2"
	}
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.ID, &v.Make, &v.Model, &v.Year, &v.PlateNumber, &v.Metro, &v.DailyRateCents, &v.DepositCents, &v.Status, &v.CreatedOn, &v.DeletedOn); err != nil {
			return nil, 0, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, count, rows.Err()
}
