package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/models"
)

const bookingColumns = `id, item_id, item_name, booker_id, owner_id, start_date, end_date, status`

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (item_id, item_name, booker_id, owner_id, start_date, end_date, status)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		booking.ItemID,
		booking.ItemName,
		booking.BookerID,
		booking.OwnerID,
		booking.Start.UTC(),
		booking.End.UTC(),
		booking.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id

	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	return db.queryBooking(ctx, query, id)
}

// GetBookingForOwner looks up a booking scoped to its owner. A booking that
// exists but belongs to another owner is indistinguishable from a missing one.
func (db *DB) GetBookingForOwner(ctx context.Context, id, ownerID int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? AND owner_id = ?`
	return db.queryBooking(ctx, query, id, ownerID)
}

func (db *DB) GetBookingForOwnerOrBooker(ctx context.Context, id, userID int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE id = ? AND (owner_id = ? OR booker_id = ?)`
	return db.queryBooking(ctx, query, id, userID, userID)
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status models.Status) error {
	result, err := db.ExecContext(ctx, `UPDATE bookings SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) GetBookingsByBooker(ctx context.Context, bookerID int64) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE booker_id = ? ORDER BY start_date DESC, id DESC`
	return db.queryBookings(ctx, query, bookerID)
}

func (db *DB) GetBookingsByOwner(ctx context.Context, ownerID int64) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE owner_id = ? ORDER BY start_date DESC, id DESC`
	return db.queryBookings(ctx, query, ownerID)
}

// GetLastBookingForItem returns the nearest approved booking that already
// started, or nil when the item has none.
func (db *DB) GetLastBookingForItem(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE item_id = ? AND status = ? AND start_date <= ?
              ORDER BY start_date DESC, id DESC LIMIT 1`
	booking, err := db.queryBooking(ctx, query, itemID, models.StatusApproved, now.UTC())
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return booking, err
}

// GetNextBookingForItem returns the nearest approved future booking, or nil.
func (db *DB) GetNextBookingForItem(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE item_id = ? AND status = ? AND start_date > ?
              ORDER BY start_date ASC, id ASC LIMIT 1`
	booking, err := db.queryBooking(ctx, query, itemID, models.StatusApproved, now.UTC())
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return booking, err
}

// HasStartedBooking reports whether the booker has a non-rejected booking of
// the item that already started. Gates comment posting.
func (db *DB) HasStartedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	query := `SELECT COUNT(*) FROM bookings
              WHERE booker_id = ? AND item_id = ? AND status != ? AND start_date < ?`
	var count int
	err := db.QueryRowContext(ctx, query, bookerID, itemID, models.StatusRejected, now.UTC()).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to count started bookings: %w", err)
	}
	return count > 0, nil
}

func (db *DB) queryBooking(ctx context.Context, query string, args ...interface{}) (*models.Booking, error) {
	var b models.Booking
	err := db.QueryRowContext(ctx, query, args...).Scan(
		&b.ID, &b.ItemID, &b.ItemName, &b.BookerID, &b.OwnerID, &b.Start, &b.End, &b.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...interface{}) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b := &models.Booking{}
		err := rows.Scan(&b.ID, &b.ItemID, &b.ItemName, &b.BookerID, &b.OwnerID, &b.Start, &b.End, &b.Status)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
