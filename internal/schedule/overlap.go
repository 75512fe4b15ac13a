// Package schedule holds the time-interval primitives every conflict
// check is built on. Intervals are half-open: [start, end). Back-to-back
// bookings with zero buffer therefore never conflict.
package schedule

import "time"

// Buffered expands [start, end) outward by buffer on both ends. The
// buffer is the mandatory turnover gap between consecutive uses of the
// same resource.
func Buffered(start, end time.Time, buffer time.Duration) (time.Time, time.Time) {
	return start.Add(-buffer), end.Add(buffer)
}

// Overlaps reports whether interval A, expanded by buffer on both ends,
// overlaps interval B. Comparison is strict, so touching endpoints do
// not count as overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time, buffer time.Duration) bool {
	s, e := Buffered(aStart, aEnd, buffer)
	return s.Before(bEnd) && e.After(bStart)
}
