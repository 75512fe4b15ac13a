package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studiohub/internal/errors"
	"studiohub/internal/models"
)

type paymentFixture struct {
	svc         *PaymentService
	bookings    *fakeBookingStore
	payments    *fakePaymentStore
	classes     *fakeClassStore
	enrollments *fakeEnrollmentStore
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		bookings:    newFakeBookingStore(),
		payments:    newFakePaymentStore(),
		classes:     newFakeClassStore(),
		enrollments: newFakeEnrollmentStore(),
	}
	f.svc = NewPaymentService(f.payments, f.bookings, f.classes, f.enrollments, &fakePublisher{})
	return f
}

func (f *paymentFixture) seedBooking(t *testing.T, id string, fee float64) {
	t.Helper()
	require.NoError(t, f.bookings.Create(context.Background(), &models.Booking{
		ID:            id,
		ServiceKind:   models.KindService,
		Status:        models.BookingScheduled,
		PaymentStatus: models.PaymentUnpaid,
		FullPrice:     fee,
	}))
}

func (f *paymentFixture) bookingStatus(t *testing.T, id string) string {
	t.Helper()
	b, err := f.bookings.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, b)
	return b.PaymentStatus
}

func incomeFor(bookingID string, amount float64) *models.CreatePaymentRequest {
	return &models.CreatePaymentRequest{
		Amount:    amount,
		Type:      models.PaymentIncome,
		BookingID: &bookingID,
	}
}

func TestPaymentStatusProgression(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()
	f.seedBooking(t, "b-1", 100)

	_, err := f.svc.Create(ctx, incomeFor("b-1", 40))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPartial, f.bookingStatus(t, "b-1"))

	_, err = f.svc.Create(ctx, incomeFor("b-1", 60))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, f.bookingStatus(t, "b-1"))

	// A refund drops the total back under the fee.
	refund := incomeFor("b-1", 20)
	refund.Type = models.PaymentExpense
	_, err = f.svc.Create(ctx, refund)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPartial, f.bookingStatus(t, "b-1"))
}

func TestDerivePaymentStatus(t *testing.T) {
	assert.Equal(t, models.PaymentUnpaid, DerivePaymentStatus(0, 100))
	assert.Equal(t, models.PaymentUnpaid, DerivePaymentStatus(-10, 100))
	assert.Equal(t, models.PaymentPartial, DerivePaymentStatus(50, 100))
	assert.Equal(t, models.PaymentPaid, DerivePaymentStatus(100, 100))
	// Rounding tolerance.
	assert.Equal(t, models.PaymentPaid, DerivePaymentStatus(99.995, 100))
	// Unknown fee caps at partial, never auto-paid.
	assert.Equal(t, models.PaymentPartial, DerivePaymentStatus(500, 0))
}

func TestPaymentDeleteReconciles(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()
	f.seedBooking(t, "b-1", 100)

	payment, err := f.svc.Create(ctx, incomeFor("b-1", 100))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, f.bookingStatus(t, "b-1"))

	require.NoError(t, f.svc.Delete(ctx, payment.ID))
	assert.Equal(t, models.PaymentUnpaid, f.bookingStatus(t, "b-1"))
}

func TestPaymentUpdateReconcilesBothTargets(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()
	f.seedBooking(t, "b-1", 100)
	f.seedBooking(t, "b-2", 50)

	payment, err := f.svc.Create(ctx, incomeFor("b-1", 100))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, f.bookingStatus(t, "b-1"))

	// Repoint the payment at the other booking.
	_, err = f.svc.Update(ctx, payment.ID, incomeFor("b-2", 50))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentUnpaid, f.bookingStatus(t, "b-1"))
	assert.Equal(t, models.PaymentPaid, f.bookingStatus(t, "b-2"))
}

func TestPaymentUsesDiscountedPriceAsFee(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()
	require.NoError(t, f.bookings.Create(ctx, &models.Booking{
		ID:              "b-1",
		ServiceKind:     models.KindService,
		Status:          models.BookingScheduled,
		PaymentStatus:   models.PaymentUnpaid,
		FullPrice:       100,
		DiscountedPrice: floatPtr(80),
	}))

	_, err := f.svc.Create(ctx, incomeFor("b-1", 80))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, f.bookingStatus(t, "b-1"))
}

func TestEnrollmentReconciliation(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	require.NoError(t, f.classes.Create(ctx, &models.Class{ID: "c-1", Name: "DJ Level 1", Fee: 400}))
	require.NoError(t, f.enrollments.Create(ctx, &models.Enrollment{
		ID:            "e-1",
		ClassID:       "c-1",
		StudentID:     "s-1",
		PaymentStatus: models.PaymentUnpaid,
	}))

	enrollmentID := "e-1"
	_, err := f.svc.Create(ctx, &models.CreatePaymentRequest{
		Amount:       150,
		Type:         models.PaymentIncome,
		EnrollmentID: &enrollmentID,
	})
	require.NoError(t, err)

	enrollment, err := f.enrollments.GetByID(ctx, "e-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPartial, enrollment.PaymentStatus)

	_, err = f.svc.Create(ctx, &models.CreatePaymentRequest{
		Amount:       250,
		Type:         models.PaymentIncome,
		EnrollmentID: &enrollmentID,
	})
	require.NoError(t, err)

	enrollment, err = f.enrollments.GetByID(ctx, "e-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, enrollment.PaymentStatus)
}

func TestPaymentValidation(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, &models.CreatePaymentRequest{Amount: 10, Type: "transfer"})
	assert.True(t, errors.IsValidation(err))

	_, err = f.svc.Create(ctx, &models.CreatePaymentRequest{Amount: 0, Type: models.PaymentIncome})
	assert.True(t, errors.IsValidation(err))

	_, err = f.svc.Create(ctx, incomeFor("no-such-booking", 10))
	assert.True(t, errors.IsNotFound(err))
}

func TestStatusWriteBackOnlyOnChange(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()
	f.seedBooking(t, "b-1", 100)

	// No payments recorded: reconciliation keeps unpaid without error.
	require.NoError(t, f.svc.ReconcileBooking(ctx, "b-1"))
	assert.Equal(t, models.PaymentUnpaid, f.bookingStatus(t, "b-1"))
}
