package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"studiohub/internal/errors"
	"studiohub/internal/metrics"
	"studiohub/internal/models"
)

// paymentEpsilon absorbs floating point rounding when comparing the
// paid total against the fee.
const paymentEpsilon = 0.01

// PaymentService records ledger entries and keeps the derived payment
// status of bookings and enrollments in sync with them. Reconciliation
// runs synchronously after every payment mutation.
type PaymentService struct {
	payments    PaymentStore
	bookings    BookingStore
	classes     ClassStore
	enrollments EnrollmentStore

	publisher Publisher
}

func NewPaymentService(
	payments PaymentStore,
	bookings BookingStore,
	classes ClassStore,
	enrollments EnrollmentStore,
	publisher Publisher,
) *PaymentService {
	return &PaymentService{
		payments:    payments,
		bookings:    bookings,
		classes:     classes,
		enrollments: enrollments,
		publisher:   publisher,
	}
}

// Create records a payment and reconciles whichever entity it refers to.
func (s *PaymentService) Create(ctx context.Context, req *models.CreatePaymentRequest) (*models.Payment, error) {
	payment := &models.Payment{
		ClientID:     req.ClientID,
		Amount:       req.Amount,
		Type:         req.Type,
		Method:       req.Method,
		BookingID:    req.BookingID,
		ClassID:      req.ClassID,
		EnrollmentID: req.EnrollmentID,
		Description:  req.Description,
		Date:         time.Now().UTC(),
	}
	if req.Date != nil {
		payment.Date = *req.Date
	}

	if err := s.validate(ctx, payment); err != nil {
		return nil, err
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	s.reconcileTarget(ctx, payment)
	metrics.PaymentsRecorded.WithLabelValues(payment.Type).Inc()
	s.publish(payment)
	return payment, nil
}

// GetByID returns a payment or a not-found error.
func (s *PaymentService) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	if payment == nil {
		return nil, errors.NotFound("payment", id)
	}
	return payment, nil
}

func (s *PaymentService) List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error) {
	return s.payments.List(ctx, filter)
}

// Update rewrites a payment and reconciles both the old and the new
// target when the reference moved.
func (s *PaymentService) Update(ctx context.Context, id string, req *models.CreatePaymentRequest) (*models.Payment, error) {
	payment, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := *payment

	payment.ClientID = req.ClientID
	payment.Amount = req.Amount
	payment.Type = req.Type
	payment.Method = req.Method
	payment.BookingID = req.BookingID
	payment.ClassID = req.ClassID
	payment.EnrollmentID = req.EnrollmentID
	payment.Description = req.Description
	if req.Date != nil {
		payment.Date = *req.Date
	}

	if err := s.validate(ctx, payment); err != nil {
		return nil, err
	}

	if err := s.payments.Update(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}

	s.reconcileTarget(ctx, &previous)
	s.reconcileTarget(ctx, payment)
	return payment, nil
}

// Delete removes a payment and reconciles its former target.
func (s *PaymentService) Delete(ctx context.Context, id string) error {
	payment, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.payments.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	if !deleted {
		return errors.NotFound("payment", id)
	}

	s.reconcileTarget(ctx, payment)
	return nil
}

// ReconcileBooking recomputes a booking's payment status from the sum
// of its linked payments (income minus expense) against its fee, and
// writes it back only when it changed.
func (s *PaymentService) ReconcileBooking(ctx context.Context, bookingID string) error {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return errors.NotFound("booking", bookingID)
	}

	totalPaid, err := s.payments.SumForBooking(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("failed to sum payments: %w", err)
	}

	status := DerivePaymentStatus(totalPaid, booking.TotalFee())
	if status == booking.PaymentStatus {
		return nil
	}
	return s.bookings.UpdatePaymentStatus(ctx, bookingID, status)
}

// ReconcileEnrollment does the same for an enrollment against its
// class fee.
func (s *PaymentService) ReconcileEnrollment(ctx context.Context, enrollmentID string) error {
	enrollment, err := s.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return fmt.Errorf("failed to get enrollment: %w", err)
	}
	if enrollment == nil {
		return errors.NotFound("enrollment", enrollmentID)
	}

	fee := 0.0
	if class, err := s.classes.GetByID(ctx, enrollment.ClassID); err == nil && class != nil {
		fee = class.Fee
	}

	totalPaid, err := s.payments.SumForEnrollment(ctx, enrollmentID)
	if err != nil {
		return fmt.Errorf("failed to sum payments: %w", err)
	}

	status := DerivePaymentStatus(totalPaid, fee)
	if status == enrollment.PaymentStatus {
		return nil
	}
	return s.enrollments.UpdatePaymentStatus(ctx, enrollmentID, status)
}

// DerivePaymentStatus is the pure status function. With no known fee a
// positive total caps at partial, never paid.
func DerivePaymentStatus(totalPaid, fee float64) string {
	if totalPaid <= 0 {
		return models.PaymentUnpaid
	}
	if fee <= 0 {
		return models.PaymentPartial
	}
	if totalPaid >= fee-paymentEpsilon {
		return models.PaymentPaid
	}
	return models.PaymentPartial
}

func (s *PaymentService) validate(ctx context.Context, payment *models.Payment) error {
	if payment.Type != models.PaymentIncome && payment.Type != models.PaymentExpense {
		return errors.Validation("invalid payment type: %s", payment.Type)
	}
	if payment.Amount <= 0 {
		return errors.Validation("payment amount must be positive")
	}

	if payment.BookingID != nil && *payment.BookingID != "" {
		booking, err := s.bookings.GetByID(ctx, *payment.BookingID)
		if err != nil {
			return fmt.Errorf("failed to look up booking: %w", err)
		}
		if booking == nil {
			return errors.NotFound("booking", *payment.BookingID)
		}
	}
	if payment.EnrollmentID != nil && *payment.EnrollmentID != "" {
		enrollment, err := s.enrollments.GetByID(ctx, *payment.EnrollmentID)
		if err != nil {
			return fmt.Errorf("failed to look up enrollment: %w", err)
		}
		if enrollment == nil {
			return errors.NotFound("enrollment", *payment.EnrollmentID)
		}
	}
	return nil
}

// reconcileTarget reconciles whichever entity the payment references.
// Reconciliation failures are logged, not surfaced: the ledger entry is
// already authoritative.
func (s *PaymentService) reconcileTarget(ctx context.Context, payment *models.Payment) {
	if payment.BookingID != nil && *payment.BookingID != "" {
		if err := s.ReconcileBooking(ctx, *payment.BookingID); err != nil && !errors.IsNotFound(err) {
			slog.Error("failed to reconcile booking payment status", "booking_id", *payment.BookingID, "error", err)
		}
	}
	if payment.EnrollmentID != nil && *payment.EnrollmentID != "" {
		if err := s.ReconcileEnrollment(ctx, *payment.EnrollmentID); err != nil && !errors.IsNotFound(err) {
			slog.Error("failed to reconcile enrollment payment status", "enrollment_id", *payment.EnrollmentID, "error", err)
		}
	}
}

func (s *PaymentService) publish(payment *models.Payment) {
	if s.publisher == nil {
		return
	}
	event := models.PaymentRecordedEvent{
		PaymentID:    payment.ID,
		Amount:       payment.Amount,
		Type:         payment.Type,
		BookingID:    payment.BookingID,
		EnrollmentID: payment.EnrollmentID,
		Timestamp:    time.Now().UTC(),
	}
	if err := s.publisher.Publish(models.EventPaymentRecorded, event); err != nil {
		slog.Error("failed to publish payment event", "payment_id", payment.ID, "error", err)
	}
}
