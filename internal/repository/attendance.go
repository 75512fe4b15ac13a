package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"studiohub/internal/database"
	"studiohub/internal/models"
)

const attendanceColumns = `id, booking_id, client_id, class_id, session_date, status, notes, created_at, updated_at`

type AttendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Create inserts a new attendance row. A duplicate (booking, client)
// pair is silently ignored: the desired end state already holds.
func (r *AttendanceRepository) Create(ctx context.Context, att *models.Attendance) error {
	if att.Status == "" {
		att.Status = models.BookingScheduled
	}

	query := `
		INSERT INTO attendance (booking_id, client_id, class_id, session_date, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (booking_id, client_id) DO NOTHING
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		att.BookingID, att.ClientID, att.ClassID, att.SessionDate, att.Status, att.Notes,
	).Scan(&att.ID, &att.CreatedAt, &att.UpdatedAt)
	if err == sql.ErrNoRows {
		// Conflict path: fetch the existing row instead.
		existing, lookupErr := r.GetByBookingAndClient(ctx, att.BookingID, att.ClientID)
		if lookupErr != nil {
			return lookupErr
		}
		if existing != nil {
			*att = *existing
		}
		return nil
	}
	return err
}

// Upsert creates-or-refreshes the attendance row for a booking/client
// pair, keeping the session date in step with the booking's start.
func (r *AttendanceRepository) Upsert(ctx context.Context, bookingID, clientID string, classID *string, sessionDate time.Time) error {
	query := `
		INSERT INTO attendance (booking_id, client_id, class_id, session_date, status)
		VALUES ($1, $2, $3, $4, 'scheduled')
		ON CONFLICT (booking_id, client_id)
		DO UPDATE SET session_date = EXCLUDED.session_date, updated_at = NOW()`

	_, err := r.db.ExecContext(ctx, query, bookingID, clientID, classID, sessionDate)
	return err
}

func (r *AttendanceRepository) GetByID(ctx context.Context, id string) (*models.Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance WHERE id = $1`

	att, err := scanAttendance(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return att, err
}

func (r *AttendanceRepository) GetByBookingAndClient(ctx context.Context, bookingID, clientID string) (*models.Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance WHERE booking_id = $1 AND client_id = $2`

	att, err := scanAttendance(r.db.QueryRowContext(ctx, query, bookingID, clientID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return att, err
}

func (r *AttendanceRepository) List(ctx context.Context, bookingID, clientID, classID string, sessionDate *time.Time) ([]models.Attendance, error) {
	var conditions []string
	var args []interface{}

	add := func(cond string, val interface{}) {
		args = append(args, val)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if bookingID != "" {
		add("booking_id = $%d", bookingID)
	}
	if clientID != "" {
		add("client_id = $%d", clientID)
	}
	if classID != "" {
		add("class_id = $%d", classID)
	}
	if sessionDate != nil {
		add("session_date = $%d", *sessionDate)
	}

	query := `SELECT ` + attendanceColumns + ` FROM attendance`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY session_date DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *att)
	}
	return items, rows.Err()
}

func (r *AttendanceRepository) Update(ctx context.Context, att *models.Attendance) error {
	query := `
		UPDATE attendance
		SET class_id = $1, session_date = $2, status = $3, notes = $4, updated_at = NOW()
		WHERE id = $5`

	_, err := r.db.ExecContext(ctx, query, att.ClassID, att.SessionDate, att.Status, att.Notes, att.ID)
	return err
}

func (r *AttendanceRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

// BulkMarkPresent flips every attendance row of a class session to
// present and returns the number of rows touched.
func (r *AttendanceRepository) BulkMarkPresent(ctx context.Context, classID string, sessionDate time.Time) (int, error) {
	query := `UPDATE attendance SET status = 'present', updated_at = NOW() WHERE class_id = $1 AND session_date = $2`

	result, err := r.db.ExecContext(ctx, query, classID, sessionDate)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	return int(affected), err
}

func scanAttendance(row rowScanner) (*models.Attendance, error) {
	att := &models.Attendance{}
	err := row.Scan(
		&att.ID,
		&att.BookingID,
		&att.ClientID,
		&att.ClassID,
		&att.SessionDate,
		&att.Status,
		&att.Notes,
		&att.CreatedAt,
		&att.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return att, nil
}
