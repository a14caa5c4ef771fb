package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"roadshare-backend/internal/domain"
	"roadshare-backend/internal/repository"
)

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `id, renter_id, vehicle_id, status, verification_status, verification_denial_reason,
	docs_complete, agreement_signed, paid, damage_confirmed, payment_ref,
	paid_at, lockbox_released_at, pickup_confirmed_at, return_confirmed_at, completed_at, damage_confirmed_at,
	deposit_outcome, withheld_cents, rate_cents, deposit_cents, start_date, end_date,
	version, created_on, updated_on`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRental(row rowScanner) (*domain.Rental, error) {
	rt := &domain.Rental{}
	err := row.Scan(
		&rt.ID, &rt.RenterID, &rt.VehicleID, &rt.Status, &rt.VerificationStatus, &rt.VerificationDenialReason,
		&rt.DocsComplete, &rt.AgreementSigned, &rt.Paid, &rt.DamageConfirmed, &rt.PaymentRef,
		&rt.PaidAt, &rt.LockboxReleasedAt, &rt.PickupConfirmedAt, &rt.ReturnConfirmedAt, &rt.CompletedAt, &rt.DamageConfirmedAt,
		&rt.DepositOutcome, &rt.WithheldCents, &rt.RateCents, &rt.DepositCents, &rt.StartDate, &rt.EndDate,
		&rt.Version, &rt.CreatedOn, &rt.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	query := `INSERT INTO rentals (renter_id, vehicle_id, status, verification_status, deposit_outcome,
	              rate_cents, deposit_cents, start_date, end_date, version, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, $10, $11) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		rt.RenterID, rt.VehicleID, rt.Status, rt.VerificationStatus, rt.DepositOutcome,
		rt.RateCents, rt.DepositCents, rt.StartDate, rt.EndDate, now, now,
	).Scan(&rt.ID)
	if err != nil {
		return err
	}
	rt.Version = 1
	rt.CreatedOn = now
	rt.UpdatedOn = now
	return nil
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

// Update writes every mutable fact and bumps the version. The WHERE clause
// compares the version the caller read; losing that compare means another
// transition landed first and the caller must re-read.
func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	query := `UPDATE rentals SET
	              status=$1, verification_status=$2, verification_denial_reason=$3,
	              docs_complete=$4, agreement_signed=$5, paid=$6, damage_confirmed=$7, payment_ref=$8,
	              paid_at=$9, lockbox_released_at=$10, pickup_confirmed_at=$11, return_confirmed_at=$12,
	              completed_at=$13, damage_confirmed_at=$14, deposit_outcome=$15, withheld_cents=$16,
	              version=version+1, updated_on=$17
	          WHERE id=$18 AND version=$19`
	result, err := r.db.ExecContext(ctx, query,
		rt.Status, rt.VerificationStatus, rt.VerificationDenialReason,
		rt.DocsComplete, rt.AgreementSigned, rt.Paid, rt.DamageConfirmed, rt.PaymentRef,
		rt.PaidAt, rt.LockboxReleasedAt, rt.PickupConfirmedAt, rt.ReturnConfirmedAt,
		rt.CompletedAt, rt.DamageConfirmedAt, rt.DepositOutcome, rt.WithheldCents,
		time.Now(), rt.ID, rt.Version,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrStaleRental
	}
	rt.Version++
	return nil
}

func (r *rentalRepository) DeleteDraft(ctx context.Context, id, renterID int32) error {
	query := `DELETE FROM rentals WHERE id = $1 AND renter_id = $2 AND status = $3`
	result, err := r.db.ExecContext(ctx, query, id, renterID, domain.RentalStatusDraft)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *rentalRepository) ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE renter_id = $1`
	countQuery := `SELECT count(*) FROM rentals WHERE renter_id = $1`

	args := []interface{}{renterID}
	if status != "" {
		query += " AND status = $2"
		countQuery += " AND status = $2"
		args = append(args, status)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	if status != "" {
		query += " ORDER BY created_on DESC LIMIT $3 OFFSET $4"
	} else {
		query += " ORDER BY created_on DESC LIMIT $2 OFFSET $3"
	}
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, 0, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, count, rows.Err()
}

func (r *rentalRepository) ListByVerificationStatus(ctx context.Context, status domain.VerificationStatus, page, pageSize int32) ([]domain.Rental, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	countQuery := `SELECT count(*) FROM rentals WHERE verification_status = $1 AND status <> $2`
	if err := r.db.QueryRowContext(ctx, countQuery, status, domain.RentalStatusDraft).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + rentalColumns + ` FROM rentals
	          WHERE verification_status = $1 AND status <> $2
	          ORDER BY created_on ASC LIMIT $3 OFFSET $4`
	rows, err := r.db.QueryContext(ctx, query, status, domain.RentalStatusDraft, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, 0, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, count, rows.Err()
}

func (r *rentalRepository) ListActiveEndingBy(ctx context.Context, date string) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE status = $1 AND end_date <= $2`
	rows, err := r.db.QueryContext(ctx, query, domain.RentalStatusActive, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}

func (r *rentalRepository) ExpireStaleDrafts(ctx context.Context, maxAgeDays int) (int64, error) {
	query := `UPDATE rentals SET status = $1, version = version + 1, updated_on = NOW()
	          WHERE status = $2 AND updated_on < NOW() - ($3 || ' days')::interval`
	result, err := r.db.ExecContext(ctx, query, domain.RentalStatusCancelled, domain.RentalStatusDraft, maxAgeDays)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
