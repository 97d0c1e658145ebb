package flow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeadline(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	d := Deadline(start, 1)
	require.NotNil(t, d)
	assert.Equal(t, start.Add(time.Minute), *d)

	assert.Nil(t, Deadline(start, 0))
	assert.Nil(t, Deadline(start, -5))
}

func TestExpired(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	d := Deadline(start, 1)

	assert.False(t, Expired(d, start))
	assert.False(t, Expired(d, start.Add(59*time.Second)))
	assert.True(t, Expired(d, start.Add(time.Minute)))
	assert.True(t, Expired(d, start.Add(time.Hour)))

	// Untimed attempts never expire.
	assert.False(t, Expired(nil, start.Add(1000*time.Hour)))
}

func TestRemaining(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	d := Deadline(start, 2)

	assert.Equal(t, 120, Remaining(d, start))
	assert.Equal(t, 30, Remaining(d, start.Add(90*time.Second)))
	assert.Equal(t, 0, Remaining(d, start.Add(5*time.Minute)))
	assert.Equal(t, -1, Remaining(nil, start))
}

func TestElapsed(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, Elapsed(start, start))
	assert.Equal(t, 95, Elapsed(start, start.Add(95*time.Second)))
	// Clock skew never yields a negative duration.
	assert.Equal(t, 0, Elapsed(start, start.Add(-time.Second)))
}
