package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joaaoazul/SIGANEXT-sub000/internal/model"
)

type PostgresBookingRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresBookingRepository(pool *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{pool: pool}
}

const bookingColumns = `id, slot_id, client_id, status, notes, created_at, status_changed_at`

// CreateAdmitted performs admission control and the insert in one
// transaction. The slot row lock serializes concurrent creations per
// slot: two requests for the last seat never both admit.
func (r *PostgresBookingRepository) CreateAdmitted(ctx context.Context, booking *model.Booking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var capacity int
	var active bool
	err = tx.QueryRow(ctx, `
		SELECT capacity, active FROM slots
		WHERE id = $1
		FOR UPDATE
	`, booking.SlotID).Scan(&capacity, &active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrSlotNotFound
		}
		return fmt.Errorf("lock slot: %w", err)
	}

	if !active {
		return &model.ValidationError{Field: "slot_id", Reason: "slot is not active"}
	}

	var duplicate bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE slot_id = $1 AND client_id = $2 AND status <> 'cancelled'
		)
	`, booking.SlotID, booking.ClientID).Scan(&duplicate)
	if err != nil {
		return fmt.Errorf("check duplicate booking: %w", err)
	}

	if duplicate {
		return &model.DuplicateBookingError{SlotID: booking.SlotID, ClientID: booking.ClientID}
	}

	var activeCount int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM bookings
		WHERE slot_id = $1 AND status <> 'cancelled'
	`, booking.SlotID).Scan(&activeCount)
	if err != nil {
		return fmt.Errorf("count active bookings: %w", err)
	}

	if activeCount >= capacity {
		return &model.CapacityExceededError{SlotID: booking.SlotID, Capacity: capacity}
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO bookings (id, slot_id, client_id, status, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, status_changed_at
	`,
		booking.ID,
		booking.SlotID,
		booking.ClientID,
		booking.Status,
		booking.Notes,
	).Scan(&booking.CreatedAt, &booking.StatusChangedAt)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByID fetches a booking by id.
func (r *PostgresBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var booking model.Booking
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.SlotID,
		&booking.ClientID,
		&booking.Status,
		&booking.Notes,
		&booking.CreatedAt,
		&booking.StatusChangedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return &booking, nil
}

// ListBySlot returns all bookings of a slot, oldest first.
func (r *PostgresBookingRepository) ListBySlot(ctx context.Context, slotID uuid.UUID) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE slot_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, slotID)
	if err != nil {
		return nil, fmt.Errorf("list bookings by slot: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListBySlots returns all bookings referencing any of the given slots.
func (r *PostgresBookingRepository) ListBySlots(ctx context.Context, slotIDs []uuid.UUID) ([]*model.Booking, error) {
	if len(slotIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE slot_id = ANY($1)
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, slotIDs)
	if err != nil {
		return nil, fmt.Errorf("list bookings by slots: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListByClient returns all bookings of a client, newest first.
func (r *PostgresBookingRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE client_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("list bookings by client: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatusIf swaps the status only when the stored value still
// equals from, so two racing transitions cannot both succeed from
// stale reads.
func (r *PostgresBookingRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to model.BookingStatus) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $1, status_changed_at = now()
		WHERE id = $2 AND status = $3
	`

	result, err := r.pool.Exec(ctx, query, to, id, from)
	if err != nil {
		return false, fmt.Errorf("update booking status: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

// CountActiveBySlot counts bookings occupying a seat of the slot.
func (r *PostgresBookingRepository) CountActiveBySlot(ctx context.Context, slotID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM bookings
		WHERE slot_id = $1 AND status <> 'cancelled'
	`

	var count int
	if err := r.pool.QueryRow(ctx, query, slotID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active bookings: %w", err)
	}

	return count, nil
}

func scanBookings(rows pgx.Rows) ([]*model.Booking, error) {
	var bookings []*model.Booking
	for rows.Next() {
		var booking model.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.SlotID,
			&booking.ClientID,
			&booking.Status,
			&booking.Notes,
			&booking.CreatedAt,
			&booking.StatusChangedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	return bookings, nil
}
