package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"studiohub/internal/external"
	"studiohub/internal/models"
)

// In-memory stores backing the service tests. Like the SQL layer, every
// Create assigns the id and writes it back to the caller's struct.

type fakeBookingStore struct {
	bookings map[string]*models.Booking
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: make(map[string]*models.Booking)}
}

func (f *fakeBookingStore) Create(_ context.Context, b *models.Booking) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	clone := *b
	f.bookings[b.ID] = &clone
	return nil
}

func (f *fakeBookingStore) GetByID(_ context.Context, id string) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	clone := *b
	return &clone, nil
}

func (f *fakeBookingStore) List(_ context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.sorted() {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.ClassID != "" && (b.ClassID == nil || *b.ClassID != filter.ClassID) {
			continue
		}
		if filter.ServiceKind != "" && string(b.ServiceKind) != filter.ServiceKind {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBookingStore) Update(_ context.Context, b *models.Booking) error {
	clone := *b
	f.bookings[b.ID] = &clone
	return nil
}

func (f *fakeBookingStore) UpdatePaymentStatus(_ context.Context, id, status string) error {
	if b, ok := f.bookings[id]; ok {
		b.PaymentStatus = status
	}
	return nil
}

func (f *fakeBookingStore) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := f.bookings[id]; !ok {
		return false, nil
	}
	delete(f.bookings, id)
	return true, nil
}

func (f *fakeBookingStore) DeleteMany(_ context.Context, ids []string) error {
	for _, id := range ids {
		delete(f.bookings, id)
	}
	return nil
}

func (f *fakeBookingStore) FindConflict(_ context.Context, kind models.ServiceKind, resourceID string, bufStart, bufEnd time.Time, excludeID, excludeClassID string) (*models.Booking, error) {
	for _, b := range f.sorted() {
		if f.conflicts(b, kind, resourceID, bufStart, bufEnd, excludeID, excludeClassID) {
			clone := *b
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingStore) ListConflicts(_ context.Context, kind models.ServiceKind, resourceID string, bufStart, bufEnd time.Time, excludeID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.sorted() {
		if f.conflicts(b, kind, resourceID, bufStart, bufEnd, excludeID, "") {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) ListByClass(_ context.Context, classID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.sorted() {
		if b.ServiceKind == models.KindRoom && b.ClassID != nil && *b.ClassID == classID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) Count(_ context.Context) (int, error) {
	return len(f.bookings), nil
}

func (f *fakeBookingStore) conflicts(b *models.Booking, kind models.ServiceKind, resourceID string, bufStart, bufEnd time.Time, excludeID, excludeClassID string) bool {
	if b.ServiceKind != kind || b.Status == models.BookingCanceled {
		return false
	}
	if b.ResourceID() != resourceID {
		return false
	}
	if excludeID != "" && b.ID == excludeID {
		return false
	}
	if excludeClassID != "" && b.ClassID != nil && *b.ClassID == excludeClassID {
		return false
	}
	if b.StartDate == nil || b.EndDate == nil {
		return false
	}
	return b.StartDate.Before(bufEnd) && b.EndDate.After(bufStart)
}

func (f *fakeBookingStore) sorted() []*models.Booking {
	out := make([]*models.Booking, 0, len(f.bookings))
	for _, b := range f.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeClassStore struct {
	classes map[string]*models.Class
}

func newFakeClassStore() *fakeClassStore {
	return &fakeClassStore{classes: make(map[string]*models.Class)}
}

func (f *fakeClassStore) Create(_ context.Context, c *models.Class) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	clone := *c
	f.classes[c.ID] = &clone
	return nil
}

func (f *fakeClassStore) GetByID(_ context.Context, id string) (*models.Class, error) {
	c, ok := f.classes[id]
	if !ok {
		return nil, nil
	}
	clone := *c
	return &clone, nil
}

func (f *fakeClassStore) List(_ context.Context, _, _ string) ([]models.Class, error) {
	var out []models.Class
	for _, c := range f.classes {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeClassStore) Update(_ context.Context, c *models.Class) error {
	clone := *c
	f.classes[c.ID] = &clone
	return nil
}

func (f *fakeClassStore) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := f.classes[id]; !ok {
		return false, nil
	}
	delete(f.classes, id)
	return true, nil
}

func (f *fakeClassStore) Count(_ context.Context) (int, error) {
	return len(f.classes), nil
}

type fakeRoomStore struct {
	rooms map[string]*models.Room
}

func newFakeRoomStore(ids ...string) *fakeRoomStore {
	f := &fakeRoomStore{rooms: make(map[string]*models.Room)}
	for _, id := range ids {
		f.rooms[id] = &models.Room{ID: id, Name: "Room " + id}
	}
	return f
}

func (f *fakeRoomStore) Create(_ context.Context, r *models.Room) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	clone := *r
	f.rooms[r.ID] = &clone
	return nil
}

func (f *fakeRoomStore) GetByID(_ context.Context, id string) (*models.Room, error) {
	r, ok := f.rooms[id]
	if !ok {
		return nil, nil
	}
	clone := *r
	return &clone, nil
}

func (f *fakeRoomStore) List(_ context.Context) ([]models.Room, error) {
	var out []models.Room
	for _, r := range f.rooms {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRoomStore) Update(_ context.Context, r *models.Room) error {
	clone := *r
	f.rooms[r.ID] = &clone
	return nil
}

func (f *fakeRoomStore) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := f.rooms[id]; !ok {
		return false, nil
	}
	delete(f.rooms, id)
	return true, nil
}

type fakeEquipmentStore struct {
	equipment map[string]*models.Equipment
}

func newFakeEquipmentStore(ids ...string) *fakeEquipmentStore {
	f := &fakeEquipmentStore{equipment: make(map[string]*models.Equipment)}
	for _, id := range ids {
		f.equipment[id] = &models.Equipment{ID: id, Name: "Gear " + id, Status: models.EquipmentAvailable}
	}
	return f
}

func (f *fakeEquipmentStore) Create(_ context.Context, e *models.Equipment) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	clone := *e
	f.equipment[e.ID] = &clone
	return nil
}

func (f *fakeEquipmentStore) GetByID(_ context.Context, id string) (*models.Equipment, error) {
	e, ok := f.equipment[id]
	if !ok {
		return nil, nil
	}
	clone := *e
	return &clone, nil
}

func (f *fakeEquipmentStore) List(_ context.Context, _, _ string) ([]models.Equipment, error) {
	var out []models.Equipment
	for _, e := range f.equipment {
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeEquipmentStore) Update(_ context.Context, e *models.Equipment) error {
	clone := *e
	f.equipment[e.ID] = &clone
	return nil
}

func (f *fakeEquipmentStore) UpdateStatus(_ context.Context, id, status string) error {
	if e, ok := f.equipment[id]; ok {
		e.Status = status
	}
	return nil
}

func (f *fakeEquipmentStore) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := f.equipment[id]; !ok {
		return false, nil
	}
	delete(f.equipment, id)
	return true, nil
}

type attendanceKey struct {
	bookingID string
	clientID  string
}

type fakeAttendanceStore struct {
	rows map[attendanceKey]*models.Attendance
}

func newFakeAttendanceStore() *fakeAttendanceStore {
	return &fakeAttendanceStore{rows: make(map[attendanceKey]*models.Attendance)}
}

func (f *fakeAttendanceStore) Create(_ context.Context, a *models.Attendance) error {
	key := attendanceKey{a.BookingID, a.ClientID}
	if existing, ok := f.rows[key]; ok {
		*a = *existing
		return nil
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	clone := *a
	f.rows[key] = &clone
	return nil
}

func (f *fakeAttendanceStore) Upsert(_ context.Context, bookingID, clientID string, classID *string, sessionDate time.Time) error {
	key := attendanceKey{bookingID, clientID}
	if existing, ok := f.rows[key]; ok {
		existing.SessionDate = sessionDate
		return nil
	}
	f.rows[key] = &models.Attendance{
		ID:          bookingID + ":" + clientID,
		BookingID:   bookingID,
		ClientID:    clientID,
		ClassID:     classID,
		SessionDate: sessionDate,
		Status:      models.AttendanceScheduled,
	}
	return nil
}

func (f *fakeAttendanceStore) GetByID(_ context.Context, id string) (*models.Attendance, error) {
	for _, a := range f.rows {
		if a.ID == id {
			clone := *a
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeAttendanceStore) List(_ context.Context, bookingID, clientID, classID string, _ *time.Time) ([]models.Attendance, error) {
	var out []models.Attendance
	for _, a := range f.rows {
		if bookingID != "" && a.BookingID != bookingID {
			continue
		}
		if clientID != "" && a.ClientID != clientID {
			continue
		}
		if classID != "" && (a.ClassID == nil || *a.ClassID != classID) {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeAttendanceStore) Update(_ context.Context, a *models.Attendance) error {
	key := attendanceKey{a.BookingID, a.ClientID}
	clone := *a
	f.rows[key] = &clone
	return nil
}

func (f *fakeAttendanceStore) Delete(_ context.Context, id string) (bool, error) {
	for key, a := range f.rows {
		if a.ID == id {
			delete(f.rows, key)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAttendanceStore) BulkMarkPresent(_ context.Context, classID string, sessionDate time.Time) (int, error) {
	affected := 0
	for _, a := range f.rows {
		if a.ClassID != nil && *a.ClassID == classID && a.SessionDate.Equal(sessionDate) && a.Status != models.AttendancePresent {
			a.Status = models.AttendancePresent
			affected++
		}
	}
	return affected, nil
}

type fakePaymentStore struct {
	payments map[string]*models.Payment
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{payments: make(map[string]*models.Payment)}
}

func (f *fakePaymentStore) Create(_ context.Context, p *models.Payment) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	clone := *p
	f.payments[p.ID] = &clone
	return nil
}

func (f *fakePaymentStore) GetByID(_ context.Context, id string) (*models.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (f *fakePaymentStore) List(_ context.Context, _ models.PaymentFilter) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range f.payments {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePaymentStore) Update(_ context.Context, p *models.Payment) error {
	clone := *p
	f.payments[p.ID] = &clone
	return nil
}

func (f *fakePaymentStore) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := f.payments[id]; !ok {
		return false, nil
	}
	delete(f.payments, id)
	return true, nil
}

func (f *fakePaymentStore) SumForBooking(_ context.Context, bookingID string) (float64, error) {
	total := 0.0
	for _, p := range f.payments {
		if p.BookingID == nil || *p.BookingID != bookingID {
			continue
		}
		if p.Type == models.PaymentIncome {
			total += p.Amount
		} else {
			total -= p.Amount
		}
	}
	return total, nil
}

func (f *fakePaymentStore) SumForEnrollment(_ context.Context, enrollmentID string) (float64, error) {
	total := 0.0
	for _, p := range f.payments {
		if p.EnrollmentID == nil || *p.EnrollmentID != enrollmentID {
			continue
		}
		if p.Type == models.PaymentIncome {
			total += p.Amount
		} else {
			total -= p.Amount
		}
	}
	return total, nil
}

func (f *fakePaymentStore) TotalIncome(_ context.Context, _ string) (float64, error) {
	total := 0.0
	for _, p := range f.payments {
		if p.Type == models.PaymentIncome {
			total += p.Amount
		}
	}
	return total, nil
}

type fakeEnrollmentStore struct {
	enrollments map[string]*models.Enrollment
}

func newFakeEnrollmentStore() *fakeEnrollmentStore {
	return &fakeEnrollmentStore{enrollments: make(map[string]*models.Enrollment)}
}

func (f *fakeEnrollmentStore) Create(_ context.Context, e *models.Enrollment) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	clone := *e
	f.enrollments[e.ID] = &clone
	return nil
}

func (f *fakeEnrollmentStore) GetByID(_ context.Context, id string) (*models.Enrollment, error) {
	e, ok := f.enrollments[id]
	if !ok {
		return nil, nil
	}
	clone := *e
	return &clone, nil
}

func (f *fakeEnrollmentStore) List(_ context.Context, _, _ string) ([]models.Enrollment, error) {
	var out []models.Enrollment
	for _, e := range f.enrollments {
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeEnrollmentStore) Update(_ context.Context, e *models.Enrollment) error {
	clone := *e
	f.enrollments[e.ID] = &clone
	return nil
}

func (f *fakeEnrollmentStore) UpdatePaymentStatus(_ context.Context, id, status string) error {
	if e, ok := f.enrollments[id]; ok {
		e.PaymentStatus = status
	}
	return nil
}

func (f *fakeEnrollmentStore) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := f.enrollments[id]; !ok {
		return false, nil
	}
	delete(f.enrollments, id)
	return true, nil
}

// fakeCalendar records mirrored events and can be primed with remote
// conflicts or a permanent failure.
type fakeCalendar struct {
	enabled bool
	events  []models.CalendarEvent
	failing bool

	created map[string]external.EventPayload
	deleted []string
	nextID  int
}

func newFakeCalendar(enabled bool) *fakeCalendar {
	return &fakeCalendar{enabled: enabled, created: make(map[string]external.EventPayload)}
}

func (f *fakeCalendar) Enabled() bool    { return f.enabled }
func (f *fakeCalendar) Timezone() string { return "UTC" }

func (f *fakeCalendar) ListEvents(_ context.Context, _, _ time.Time) ([]models.CalendarEvent, error) {
	if f.failing {
		return nil, context.DeadlineExceeded
	}
	return f.events, nil
}

func (f *fakeCalendar) CreateEvent(_ context.Context, payload external.EventPayload) (string, error) {
	if f.failing {
		return "", context.DeadlineExceeded
	}
	f.nextID++
	id := fmt.Sprintf("evt-%d", f.nextID)
	f.created[id] = payload
	return id, nil
}

func (f *fakeCalendar) UpdateEvent(_ context.Context, eventID string, payload external.EventPayload) error {
	if f.failing {
		return context.DeadlineExceeded
	}
	f.created[eventID] = payload
	return nil
}

func (f *fakeCalendar) DeleteEvent(_ context.Context, eventID string) error {
	if f.failing {
		return context.DeadlineExceeded
	}
	delete(f.created, eventID)
	f.deleted = append(f.deleted, eventID)
	return nil
}

type publishedEvent struct {
	subject string
	data    interface{}
}

type fakePublisher struct {
	events []publishedEvent
}

func (f *fakePublisher) Publish(subject string, data interface{}) error {
	f.events = append(f.events, publishedEvent{subject, data})
	return nil
}

// fakeLocker grants every lock unless told a resource is held.
type fakeLocker struct {
	held     map[string]bool
	acquired []string
	released []string
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]bool)}
}

func (f *fakeLocker) AcquireLock(_ context.Context, resourceID string) (string, bool, error) {
	if f.held[resourceID] {
		return "", false, nil
	}
	f.acquired = append(f.acquired, resourceID)
	return "token-" + resourceID, true, nil
}

func (f *fakeLocker) ReleaseLock(_ context.Context, resourceID, _ string) error {
	f.released = append(f.released, resourceID)
	return nil
}
