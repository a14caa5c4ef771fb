package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"roadshare-backend/internal/domain"
	"roadshare-backend/internal/repository"
)

type auditEventRepository struct {
	db *sql.DB
}

func NewAuditEventRepository(db *sql.DB) repository.AuditEventRepository {
	return &auditEventRepository{db: db}
}

func (r *auditEventRepository) Append(ctx context.Context, e *domain.AuditEvent) error {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return err
	}

	query := `INSERT INTO audit_events (event_id, rental_id, actor_id, actor_role, event_type, payload, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	now := time.Now()
	if err := r.db.QueryRowContext(ctx, query, e.EventID, e.RentalID, e.ActorID, e.ActorRole, e.EventType, payload, now).Scan(&e.ID); err != nil {
		return err
	}
	e.CreatedOn = now
	return nil
}

func (r *auditEventRepository) ListByRental(ctx context.Context, rentalID int32) ([]domain.AuditEvent, error) {
	query := `SELECT id, event_id, rental_id, actor_id, actor_role, event_type, payload, created_on
	          FROM audit_events WHERE rental_id = $1 ORDER BY created_on ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, rentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.AuditEvent
	for rows.Next() {
		var e domain.AuditEvent
		var payload []byte
		if err := rows.Scan(&e.ID, &e.EventID, &e.RentalID, &e.ActorID, &e.ActorRole, &e.EventType, &payload, &e.CreatedOn); err != nil {
			return nil, err
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &e.Payload); err != nil {
				return nil, err
			}
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
