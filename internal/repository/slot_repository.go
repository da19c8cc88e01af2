package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joaaoazul/SIGANEXT-sub000/internal/model"
)

type PostgresSlotRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresSlotRepository(pool *pgxpool.Pool) *PostgresSlotRepository {
	return &PostgresSlotRepository{pool: pool}
}

// Create persists a new slot.
func (r *PostgresSlotRepository) Create(ctx context.Context, slot *model.Slot) error {
	query := `
		INSERT INTO slots (id, trainer_id, title, category, date, start_time, end_time, capacity, active, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		slot.ID,
		slot.TrainerID,
		slot.Title,
		slot.Category,
		slot.Date,
		slot.StartTime,
		slot.EndTime,
		slot.Capacity,
		slot.Active,
		slot.Notes,
	).Scan(&slot.CreatedAt)

	if err != nil {
		return fmt.Errorf("create slot: %w", err)
	}

	return nil
}

// GetByID fetches a slot by id.
func (r *PostgresSlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	query := `
		SELECT id, trainer_id, title, category, date, start_time, end_time, capacity, active, notes, created_at
		FROM slots
		WHERE id = $1
	`

	var slot model.Slot
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&slot.ID,
		&slot.TrainerID,
		&slot.Title,
		&slot.Category,
		&slot.Date,
		&slot.StartTime,
		&slot.EndTime,
		&slot.Capacity,
		&slot.Active,
		&slot.Notes,
		&slot.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSlotNotFound
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	return &slot, nil
}

// ListByDateRange returns slots inside the date range ordered by date
// then start time. Start times are zero-padded HH:MM, so text ordering
// is chronological.
func (r *PostgresSlotRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]*model.Slot, error) {
	query := `
		SELECT id, trainer_id, title, category, date, start_time, end_time, capacity, active, notes, created_at
		FROM slots
		WHERE date >= $1 AND date <= $2
		ORDER BY date, start_time
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var slots []*model.Slot
	for rows.Next() {
		var slot model.Slot
		err := rows.Scan(
			&slot.ID,
			&slot.TrainerID,
			&slot.Title,
			&slot.Category,
			&slot.Date,
			&slot.StartTime,
			&slot.EndTime,
			&slot.Capacity,
			&slot.Active,
			&slot.Notes,
			&slot.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, &slot)
	}

	return slots, nil
}

// SetActive toggles the bookable flag without touching bookings.
func (r *PostgresSlotRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `
		UPDATE slots
		SET active = $1
		WHERE id = $2
	`

	result, err := r.pool.Exec(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("set slot active: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrSlotNotFound
	}

	return nil
}

// Delete removes a slot unless non-cancelled bookings still reference
// it. The slot row is locked so a concurrent booking creation cannot
// slip in between the count and the delete.
func (r *PostgresSlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var slotID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM slots WHERE id = $1 FOR UPDATE`, id).Scan(&slotID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrSlotNotFound
		}
		return fmt.Errorf("lock slot: %w", err)
	}

	var activeCount int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM bookings
		WHERE slot_id = $1 AND status <> 'cancelled'
	`, id).Scan(&activeCount)
	if err != nil {
		return fmt.Errorf("count active bookings: %w", err)
	}

	if activeCount > 0 {
		return &model.ConflictError{SlotID: id, ActiveBookingCount: activeCount}
	}

	// Cancelled bookings are history; they go with the slot.
	if _, err := tx.Exec(ctx, `DELETE FROM bookings WHERE slot_id = $1`, id); err != nil {
		return fmt.Errorf("delete cancelled bookings: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM slots WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
