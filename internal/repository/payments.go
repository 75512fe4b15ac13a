package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"studiohub/internal/database"
	"studiohub/internal/models"
)

const paymentColumns = `id, client_id, date, amount, type, method, booking_id, class_id,
       enrollment_id, description, created_at`

type PaymentRepository struct {
	db *database.DB
}

func NewPaymentRepository(db *database.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (client_id, date, amount, type, method, booking_id, class_id,
		                      enrollment_id, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		payment.ClientID,
		payment.Date,
		payment.Amount,
		payment.Type,
		payment.Method,
		payment.BookingID,
		payment.ClassID,
		payment.EnrollmentID,
		payment.Description,
	).Scan(&payment.ID, &payment.CreatedAt)
}

func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	payment, err := scanPayment(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return payment, err
}

func (r *PaymentRepository) List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error) {
	var conditions []string
	var args []interface{}

	add := func(cond string, val interface{}) {
		args = append(args, val)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.ClientID != "" {
		add("client_id = $%d", filter.ClientID)
	}
	if filter.BookingID != "" {
		add("booking_id = $%d", filter.BookingID)
	}
	if filter.ClassID != "" {
		add("class_id = $%d", filter.ClassID)
	}
	if filter.EnrollmentID != "" {
		add("enrollment_id = $%d", filter.EnrollmentID)
	}
	if filter.Type != "" {
		add("type = $%d", filter.Type)
	}
	if filter.StartDate != nil {
		add("date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("date <= $%d", *filter.EndDate)
	}

	query := `SELECT ` + paymentColumns + ` FROM payments`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *payment)
	}
	return payments, rows.Err()
}

func (r *PaymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	query := `
		UPDATE payments
		SET client_id = $1, date = $2, amount = $3, type = $4, method = $5,
		    booking_id = $6, class_id = $7, enrollment_id = $8, description = $9
		WHERE id = $10`

	_, err := r.db.ExecContext(ctx, query,
		payment.ClientID,
		payment.Date,
		payment.Amount,
		payment.Type,
		payment.Method,
		payment.BookingID,
		payment.ClassID,
		payment.EnrollmentID,
		payment.Description,
		payment.ID,
	)
	return err
}

func (r *PaymentRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

// SumForBooking returns net paid for a booking: income minus expense.
func (r *PaymentRepository) SumForBooking(ctx context.Context, bookingID string) (float64, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE -amount END), 0)
		FROM payments WHERE booking_id = $1`

	var total float64
	err := r.db.QueryRowContext(ctx, query, bookingID).Scan(&total)
	return total, err
}

// SumForEnrollment returns net paid for an enrollment.
func (r *PaymentRepository) SumForEnrollment(ctx context.Context, enrollmentID string) (float64, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE -amount END), 0)
		FROM payments WHERE enrollment_id = $1`

	var total float64
	err := r.db.QueryRowContext(ctx, query, enrollmentID).Scan(&total)
	return total, err
}

// TotalIncome sums all income entries, optionally only those whose
// description matches the given substring.
func (r *PaymentRepository) TotalIncome(ctx context.Context, descriptionLike string) (float64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE type = 'income'`
	var args []interface{}
	if descriptionLike != "" {
		args = append(args, "%"+descriptionLike+"%")
		query += ` AND description ILIKE $1`
	}

	var total float64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&total)
	return total, err
}

func scanPayment(row rowScanner) (*models.Payment, error) {
	payment := &models.Payment{}
	err := row.Scan(
		&payment.ID,
		&payment.ClientID,
		&payment.Date,
		&payment.Amount,
		&payment.Type,
		&payment.Method,
		&payment.BookingID,
		&payment.ClassID,
		&payment.EnrollmentID,
		&payment.Description,
		&payment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return payment, nil
}
