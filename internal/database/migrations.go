package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createExtensions,
		createClientsTable,
		createRoomsTable,
		createEquipmentTable,
		createClassesTable,
		createBookingsTable,
		createAttendanceTable,
		createEnrollmentsTable,
		createPaymentsTable,
		createBookingIndexes,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createExtensions = `
CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`

const createClientsTable = `
CREATE TABLE IF NOT EXISTS clients (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    name VARCHAR(255) NOT NULL,
    email VARCHAR(255),
    phone VARCHAR(50),
    notes TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const createRoomsTable = `
CREATE TABLE IF NOT EXISTS rooms (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    name VARCHAR(255) NOT NULL,
    type VARCHAR(100),
    hourly_rate DECIMAL(10,2) NOT NULL DEFAULT 0,
    capacity INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const createEquipmentTable = `
CREATE TABLE IF NOT EXISTS equipment (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    name VARCHAR(255) NOT NULL,
    type VARCHAR(100),
    status VARCHAR(20) NOT NULL DEFAULT 'available',
    specs JSONB,
    purchase_date TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (status IN ('available', 'out', 'maintenance'))
);`

const createClassesTable = `
CREATE TABLE IF NOT EXISTS classes (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    name VARCHAR(255) NOT NULL,
    description TEXT,
    instructor VARCHAR(255),
    schedule JSONB NOT NULL DEFAULT '[]',
    session_minutes INTEGER NOT NULL DEFAULT 0,
    capacity INTEGER NOT NULL DEFAULT 0,
    fee DECIMAL(10,2) NOT NULL DEFAULT 0,
    room_id UUID REFERENCES rooms(id) ON DELETE SET NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    service_kind VARCHAR(20) NOT NULL,
    service_code VARCHAR(100),
    client_id UUID REFERENCES clients(id) ON DELETE SET NULL,
    staff_id UUID,
    equipment_id UUID REFERENCES equipment(id) ON DELETE SET NULL,
    room_id UUID REFERENCES rooms(id) ON DELETE SET NULL,
    class_id UUID REFERENCES classes(id) ON DELETE SET NULL,
    start_date TIMESTAMPTZ,
    end_date TIMESTAMPTZ,
    returned BOOLEAN NOT NULL DEFAULT FALSE,
    status VARCHAR(20) NOT NULL DEFAULT 'scheduled',
    payment_status VARCHAR(20) NOT NULL DEFAULT 'unpaid',
    full_price DECIMAL(10,2) NOT NULL DEFAULT 0,
    discounted_price DECIMAL(10,2),
    price_currency VARCHAR(10),
    price_notes TEXT,
    add_ons JSONB,
    calendar_event_id VARCHAR(255),
    calendar_id VARCHAR(255),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (service_kind IN ('room', 'equipment', 'class', 'service')),
    CHECK (status IN ('scheduled', 'completed', 'canceled')),
    CHECK (payment_status IN ('unpaid', 'partial', 'paid'))
);`

const createAttendanceTable = `
CREATE TABLE IF NOT EXISTS attendance (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    booking_id UUID NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
    client_id UUID NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
    class_id UUID REFERENCES classes(id) ON DELETE SET NULL,
    session_date TIMESTAMPTZ NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'scheduled',
    notes TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    UNIQUE(booking_id, client_id),
    CHECK (status IN ('scheduled', 'present', 'absent', 'cancelled'))
);`

const createEnrollmentsTable = `
CREATE TABLE IF NOT EXISTS enrollments (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    class_id UUID NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
    student_id UUID NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
    enrolled_on TIMESTAMPTZ,
    payment_status VARCHAR(20) NOT NULL DEFAULT 'unpaid',
    feedback TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (payment_status IN ('unpaid', 'partial', 'paid'))
);`

const createPaymentsTable = `
CREATE TABLE IF NOT EXISTS payments (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    client_id UUID REFERENCES clients(id) ON DELETE SET NULL,
    date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    amount DECIMAL(10,2) NOT NULL,
    type VARCHAR(10) NOT NULL,
    method VARCHAR(50),
    booking_id UUID REFERENCES bookings(id) ON DELETE SET NULL,
    class_id UUID REFERENCES classes(id) ON DELETE SET NULL,
    enrollment_id UUID REFERENCES enrollments(id) ON DELETE SET NULL,
    description TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (type IN ('income', 'expense'))
);`

const createBookingIndexes = `
CREATE INDEX IF NOT EXISTS idx_bookings_room_interval
    ON bookings (room_id, start_date, end_date) WHERE status <> 'canceled';
CREATE INDEX IF NOT EXISTS idx_bookings_equipment_interval
    ON bookings (equipment_id, start_date, end_date) WHERE status <> 'canceled';
CREATE INDEX IF NOT EXISTS idx_bookings_class ON bookings (class_id);
CREATE INDEX IF NOT EXISTS idx_payments_booking ON payments (booking_id);
CREATE INDEX IF NOT EXISTS idx_payments_enrollment ON payments (enrollment_id);
CREATE INDEX IF NOT EXISTS idx_attendance_session_date ON attendance (session_date);`
