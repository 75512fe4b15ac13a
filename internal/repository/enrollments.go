package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"studiohub/internal/database"
	"studiohub/internal/models"
)

const enrollmentColumns = `id, class_id, student_id, enrolled_on, payment_status, feedback, created_at`

type EnrollmentRepository struct {
	db *database.DB
}

func NewEnrollmentRepository(db *database.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.PaymentStatus == "" {
		enrollment.PaymentStatus = models.PaymentUnpaid
	}

	query := `
		INSERT INTO enrollments (class_id, student_id, enrolled_on, payment_status, feedback)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		enrollment.ClassID,
		enrollment.StudentID,
		enrollment.EnrolledOn,
		enrollment.PaymentStatus,
		enrollment.Feedback,
	).Scan(&enrollment.ID, &enrollment.CreatedAt)
}

func (r *EnrollmentRepository) GetByID(ctx context.Context, id string) (*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE id = $1`

	enrollment, err := scanEnrollment(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return enrollment, err
}

func (r *EnrollmentRepository) List(ctx context.Context, classID, studentID string) ([]models.Enrollment, error) {
	var conditions []string
	var args []interface{}

	if classID != "" {
		args = append(args, classID)
		conditions = append(conditions, fmt.Sprintf("class_id = $%d", len(args)))
	}
	if studentID != "" {
		args = append(args, studentID)
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)))
	}

	query := `SELECT ` + enrollmentColumns + ` FROM enrollments`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []models.Enrollment
	for rows.Next() {
		enrollment, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, *enrollment)
	}
	return enrollments, rows.Err()
}

func (r *EnrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	query := `
		UPDATE enrollments
		SET class_id = $1, student_id = $2, enrolled_on = $3, payment_status = $4, feedback = $5
		WHERE id = $6`

	_, err := r.db.ExecContext(ctx, query,
		enrollment.ClassID,
		enrollment.StudentID,
		enrollment.EnrolledOn,
		enrollment.PaymentStatus,
		enrollment.Feedback,
		enrollment.ID,
	)
	return err
}

func (r *EnrollmentRepository) UpdatePaymentStatus(ctx context.Context, id, status string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE enrollments SET payment_status = $1 WHERE id = $2`, status, id)
	return err
}

func (r *EnrollmentRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

func scanEnrollment(row rowScanner) (*models.Enrollment, error) {
	enrollment := &models.Enrollment{}
	err := row.Scan(
		&enrollment.ID,
		&enrollment.ClassID,
		&enrollment.StudentID,
		&enrollment.EnrolledOn,
		&enrollment.PaymentStatus,
		&enrollment.Feedback,
		&enrollment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}
