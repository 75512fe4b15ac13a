package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"studiohub/internal/database"
	"studiohub/internal/models"
)

const bookingColumns = `id, service_kind, service_code, client_id, staff_id, equipment_id,
       room_id, class_id, start_date, end_date, returned, status, payment_status,
       full_price, discounted_price, price_currency, price_notes, add_ons,
       calendar_event_id, calendar_id, created_at, updated_at`

type BookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	addOns, err := marshalAddOns(booking.AddOns)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO bookings (service_kind, service_code, client_id, staff_id, equipment_id,
		                      room_id, class_id, start_date, end_date, returned, status,
		                      payment_status, full_price, discounted_price, price_currency,
		                      price_notes, add_ons, calendar_event_id, calendar_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		booking.ServiceKind,
		booking.ServiceCode,
		booking.ClientID,
		booking.StaffID,
		booking.EquipmentID,
		booking.RoomID,
		booking.ClassID,
		booking.StartDate,
		booking.EndDate,
		booking.Returned,
		booking.Status,
		booking.PaymentStatus,
		booking.FullPrice,
		booking.DiscountedPrice,
		booking.PriceCurrency,
		booking.PriceNotes,
		addOns,
		booking.CalendarEventID,
		booking.CalendarID,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return booking, err
}

func (r *BookingRepository) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	var conditions []string
	var args []interface{}

	add := func(cond string, val interface{}) {
		args = append(args, val)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.ClientID != "" {
		add("client_id = $%d", filter.ClientID)
	}
	if filter.ServiceKind != "" {
		add("service_kind = $%d", filter.ServiceKind)
	}
	if filter.ServiceCode != "" {
		add("service_code = $%d", filter.ServiceCode)
	}
	if filter.ClassID != "" {
		add("class_id = $%d", filter.ClassID)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.StartDate != nil {
		add("start_date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("end_date <= $%d", *filter.EndDate)
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY start_date DESC NULLS LAST, created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *BookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	addOns, err := marshalAddOns(booking.AddOns)
	if err != nil {
		return err
	}

	query := `
		UPDATE bookings
		SET service_kind = $1, service_code = $2, client_id = $3, staff_id = $4,
		    equipment_id = $5, room_id = $6, class_id = $7, start_date = $8,
		    end_date = $9, returned = $10, status = $11, payment_status = $12,
		    full_price = $13, discounted_price = $14, price_currency = $15,
		    price_notes = $16, add_ons = $17, calendar_event_id = $18,
		    calendar_id = $19, updated_at = NOW()
		WHERE id = $20`

	_, err = r.db.ExecContext(ctx, query,
		booking.ServiceKind,
		booking.ServiceCode,
		booking.ClientID,
		booking.StaffID,
		booking.EquipmentID,
		booking.RoomID,
		booking.ClassID,
		booking.StartDate,
		booking.EndDate,
		booking.Returned,
		booking.Status,
		booking.PaymentStatus,
		booking.FullPrice,
		booking.DiscountedPrice,
		booking.PriceCurrency,
		booking.PriceNotes,
		addOns,
		booking.CalendarEventID,
		booking.CalendarID,
		booking.ID,
	)
	return err
}

func (r *BookingRepository) UpdatePaymentStatus(ctx context.Context, id, status string) error {
	query := `UPDATE bookings SET payment_status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, status, id)
	return err
}

func (r *BookingRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

func (r *BookingRepository) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ANY($1)`, pq.Array(ids))
	return err
}

// FindConflict returns the first active booking of the given kind and
// resource whose interval overlaps [bufStart, bufEnd). The caller is
// responsible for applying the buffer before calling. excludeID skips
// the booking being updated; excludeClassID skips bookings generated by
// one class so the synchronizer never conflicts with itself.
func (r *BookingRepository) FindConflict(ctx context.Context, kind models.ServiceKind, resourceID string, bufStart, bufEnd time.Time, excludeID, excludeClassID string) (*models.Booking, error) {
	resourceColumn, err := resourceColumnFor(kind)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE service_kind = $1
		  AND ` + resourceColumn + ` = $2
		  AND status <> 'canceled'
		  AND start_date < $3
		  AND end_date > $4`
	args := []interface{}{kind, resourceID, bufEnd, bufStart}

	if excludeID != "" {
		args = append(args, excludeID)
		query += fmt.Sprintf(" AND id <> $%d", len(args))
	}
	if excludeClassID != "" {
		args = append(args, excludeClassID)
		query += fmt.Sprintf(" AND (class_id IS NULL OR class_id <> $%d)", len(args))
	}
	query += " ORDER BY start_date LIMIT 1"

	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return booking, err
}

// ListConflicts returns every active booking overlapping the buffered
// window, for the read-only availability projection.
func (r *BookingRepository) ListConflicts(ctx context.Context, kind models.ServiceKind, resourceID string, bufStart, bufEnd time.Time, excludeID string) ([]models.Booking, error) {
	resourceColumn, err := resourceColumnFor(kind)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE service_kind = $1
		  AND ` + resourceColumn + ` = $2
		  AND status <> 'canceled'
		  AND start_date < $3
		  AND end_date > $4`
	args := []interface{}{kind, resourceID, bufEnd, bufStart}

	if excludeID != "" {
		args = append(args, excludeID)
		query += fmt.Sprintf(" AND id <> $%d", len(args))
	}
	query += " ORDER BY start_date"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

// ListByClass returns the room bookings generated for a class.
func (r *BookingRepository) ListByClass(ctx context.Context, classID string) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE service_kind = 'room' AND class_id = $1
		ORDER BY start_date`

	rows, err := r.db.QueryContext(ctx, query, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *BookingRepository) DeleteByClass(ctx context.Context, classID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE service_kind = 'room' AND class_id = $1`, classID)
	return err
}

func (r *BookingRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&count)
	return count, err
}

func resourceColumnFor(kind models.ServiceKind) (string, error) {
	switch kind {
	case models.KindRoom:
		return "room_id", nil
	case models.KindEquipment:
		return "equipment_id", nil
	default:
		return "", fmt.Errorf("service kind %q has no exclusive resource", kind)
	}
}

func marshalAddOns(addOns []models.AddOn) ([]byte, error) {
	if addOns == nil {
		return nil, nil
	}
	data, err := json.Marshal(addOns)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal add-ons: %w", err)
	}
	return data, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	booking := &models.Booking{}
	var addOns []byte

	err := row.Scan(
		&booking.ID,
		&booking.ServiceKind,
		&booking.ServiceCode,
		&booking.ClientID,
		&booking.StaffID,
		&booking.EquipmentID,
		&booking.RoomID,
		&booking.ClassID,
		&booking.StartDate,
		&booking.EndDate,
		&booking.Returned,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.FullPrice,
		&booking.DiscountedPrice,
		&booking.PriceCurrency,
		&booking.PriceNotes,
		&addOns,
		&booking.CalendarEventID,
		&booking.CalendarID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(addOns) > 0 {
		if err := json.Unmarshal(addOns, &booking.AddOns); err != nil {
			return nil, fmt.Errorf("failed to unmarshal add-ons: %w", err)
		}
	}

	return booking, nil
}

func collectBookings(rows *sql.Rows) ([]models.Booking, error) {
	var bookings []models.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *booking)
	}
	return bookings, rows.Err()
}
