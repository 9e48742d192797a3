package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lendit/internal/apperr"
	"lendit/internal/models"
)

const bookingColumns = `b.id, b.start_date, b.end_date, b.item_id, i.name, b.booker_id, b.status, i.owner_id, b.created_at`

// CreateBooking inserts a WAITING booking. The item's availability flag is
// re-checked inside the same transaction, so a concurrent deactivation of the
// item cannot slip a booking in behind it.
func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var available bool
	err = tx.QueryRowContext(ctx, `SELECT available FROM items WHERE id = ?`, booking.ItemID).Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFoundf("item with id %d does not exist", booking.ItemID)
	}
	if err != nil {
		return fmt.Errorf("failed to check item availability in tx: %w", err)
	}
	if !available {
		return apperr.BookingStatusf("item with id %d is not available for booking", booking.ItemID)
	}

	now := utc(time.Now())
	query := `INSERT INTO bookings (start_date, end_date, item_id, booker_id, status, created_at)
              VALUES (?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, query,
		utc(booking.Start),
		utc(booking.End),
		booking.ItemID,
		booking.BookerID,
		booking.Status,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking in tx: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id in tx: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now

	return tx.Commit()
}

func (db *DB) GetBookingByID(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
              FROM bookings b JOIN items i ON i.id = b.item_id
              WHERE b.id = ?`
	b := &models.Booking{}
	err := db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.Start, &b.End, &b.ItemID, &b.ItemName, &b.BookerID, &b.Status, &b.OwnerID, &b.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return b, nil
}

// DecideBooking is the single write of the booking state machine. The update
// is conditional on the row still being WAITING; when zero rows are affected
// the current status is re-read to distinguish a vanished booking from one a
// concurrent call already decided.
func (db *DB) DecideBooking(ctx context.Context, id int64, status string) error {
	query := `UPDATE bookings SET status = ? WHERE id = ? AND status = ?`
	result, err := db.ExecContext(ctx, query, status, id, models.StatusWaiting)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows > 0 {
		return nil
	}

	var current string
	err = db.QueryRowContext(ctx, `SELECT status FROM bookings WHERE id = ?`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFoundf("booking with id %d does not exist", id)
	}
	if err != nil {
		return fmt.Errorf("failed to read booking status: %w", err)
	}
	return apperr.BookingStatusf("booking is already %s", current)
}

func (db *DB) ListByBooker(ctx context.Context, bookerID int64, filter models.BookingFilter, now time.Time, page models.Page) ([]*models.Booking, error) {
	return db.listBookings(ctx, `b.booker_id = ?`, bookerID, filter, now, page)
}

func (db *DB) ListByOwner(ctx context.Context, ownerID int64, filter models.BookingFilter, now time.Time, page models.Page) ([]*models.Booking, error) {
	return db.listBookings(ctx, `i.owner_id = ?`, ownerID, filter, now, page)
}

// listBookings compiles a filter into its SQL predicate against the supplied
// instant. Both CURRENT bounds use the same instant, so a booking can never
// straddle two clock reads into an inconsistent window.
func (db *DB) listBookings(ctx context.Context, who string, whoID int64, filter models.BookingFilter, now time.Time, page models.Page) ([]*models.Booking, error) {
	args := []any{whoID}
	cond := ""
	switch filter {
	case models.FilterAll:
	case models.FilterCurrent:
		cond = ` AND b.start_date <= ? AND b.end_date > ?`
		args = append(args, utc(now), utc(now))
	case models.FilterPast:
		cond = ` AND b.end_date < ?`
		args = append(args, utc(now))
	case models.FilterFuture:
		cond = ` AND b.start_date > ?`
		args = append(args, utc(now))
	case models.FilterWaiting:
		cond = ` AND b.status = ?`
		args = append(args, models.StatusWaiting)
	case models.FilterRejected:
		cond = ` AND b.status = ?`
		args = append(args, models.StatusRejected)
	default:
		return nil, apperr.BookingStatusf("Unknown state: %s", filter)
	}

	query := `SELECT ` + bookingColumns + `
              FROM bookings b JOIN items i ON i.id = b.item_id
              WHERE ` + who + cond + `
              ORDER BY b.start_date DESC LIMIT ? OFFSET ?`
	args = append(args, page.Size, page.Offset())

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

func (db *DB) ApprovedStarted(ctx context.Context, itemIDs []int64, now time.Time) ([]*models.Booking, error) {
	return db.approvedByWindow(ctx, itemIDs, `b.start_date <= ?`, now)
}

func (db *DB) ApprovedFuture(ctx context.Context, itemIDs []int64, now time.Time) ([]*models.Booking, error) {
	return db.approvedByWindow(ctx, itemIDs, `b.start_date > ?`, now)
}

func (db *DB) approvedByWindow(ctx context.Context, itemIDs []int64, window string, now time.Time) ([]*models.Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + bookingColumns + `
              FROM bookings b JOIN items i ON i.id = b.item_id
              WHERE b.item_id IN (` + placeholders(len(itemIDs)) + `) AND b.status = ? AND ` + window + `
              ORDER BY b.start_date DESC`
	args := append(int64Args(itemIDs), models.StatusApproved, utc(now))

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get approved bookings: %w", err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

func (db *DB) HasFinishedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	query := `SELECT COUNT(*) FROM bookings
              WHERE item_id = ? AND booker_id = ? AND status = ? AND end_date < ?`
	var count int
	err := db.QueryRowContext(ctx, query, itemID, bookerID, models.StatusApproved, utc(now)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check finished bookings: %w", err)
	}
	return count > 0, nil
}

func scanBookings(rows *sql.Rows) ([]*models.Booking, error) {
	var bookings []*models.Booking
	for rows.Next() {
		b := &models.Booking{}
		err := rows.Scan(
			&b.ID, &b.Start, &b.End, &b.ItemID, &b.ItemName, &b.BookerID, &b.Status, &b.OwnerID, &b.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
