package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, min int) time.Time {
	return time.Date(2025, time.March, 10, hour, min, 0, 0, time.UTC)
}

func TestOverlapsBackToBack(t *testing.T) {
	// [10:00,11:00) against [11:00,12:00) with no buffer: no conflict
	assert.False(t, Overlaps(at(10, 0), at(11, 0), at(11, 0), at(12, 0), 0))
	assert.False(t, Overlaps(at(11, 0), at(12, 0), at(10, 0), at(11, 0), 0))
}

func TestOverlapsPartial(t *testing.T) {
	assert.True(t, Overlaps(at(10, 0), at(11, 0), at(10, 30), at(11, 30), 0))
	assert.True(t, Overlaps(at(10, 30), at(11, 30), at(10, 0), at(11, 0), 0))
}

func TestOverlapsContained(t *testing.T) {
	assert.True(t, Overlaps(at(10, 0), at(12, 0), at(10, 30), at(11, 0), 0))
	assert.True(t, Overlaps(at(10, 30), at(11, 0), at(10, 0), at(12, 0), 0))
}

func TestOverlapsDisjoint(t *testing.T) {
	assert.False(t, Overlaps(at(10, 0), at(11, 0), at(13, 0), at(14, 0), 0))
}

func TestOverlapsBuffer(t *testing.T) {
	// 5 minute gap with a 15 minute buffer requirement: conflict
	assert.True(t, Overlaps(at(10, 0), at(11, 0), at(11, 5), at(12, 0), 15*time.Minute))
	// 20 minute gap clears a 15 minute buffer
	assert.False(t, Overlaps(at(10, 0), at(11, 0), at(11, 20), at(12, 0), 15*time.Minute))
	// buffer makes touching endpoints conflict
	assert.True(t, Overlaps(at(10, 0), at(11, 0), at(11, 0), at(12, 0), time.Minute))
}

func TestBuffered(t *testing.T) {
	s, e := Buffered(at(10, 0), at(11, 0), 15*time.Minute)
	assert.Equal(t, at(9, 45), s)
	assert.Equal(t, at(11, 15), e)
}
