package flow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUploadState_HappyPath(t *testing.T) {
	s := NewUploadState()
	assert.Equal(t, UploadIdle, s.Status)
	assert.True(t, s.Retryable())

	s = s.Uploading()
	assert.Equal(t, UploadInFlight, s.Status)
	assert.Equal(t, 0, s.Progress)
	assert.False(t, s.Retryable())

	s = s.WithProgress(55)
	assert.Equal(t, 55, s.Progress)

	s = s.Succeeded("https://bucket/assessments/1/q1/123_cv.pdf")
	assert.Equal(t, UploadSucceeded, s.Status)
	assert.Equal(t, 100, s.Progress)
	assert.Equal(t, "https://bucket/assessments/1/q1/123_cv.pdf", s.URL)
	assert.False(t, s.Retryable())
}

func TestUploadState_FailureIsRetryable(t *testing.T) {
	s := NewUploadState().Uploading().WithProgress(40)

	s = s.Failed("connection reset")
	assert.Equal(t, UploadFailed, s.Status)
	assert.Equal(t, "connection reset", s.Error)
	assert.Empty(t, s.URL)
	assert.True(t, s.Retryable())

	// A retry starts from scratch and can still succeed.
	s = s.Uploading().WithProgress(80).Succeeded("https://bucket/k")
	assert.Equal(t, UploadSucceeded, s.Status)
	assert.Equal(t, "https://bucket/k", s.URL)
}

func TestUploadState_TerminalSuccessIgnoresLateEvents(t *testing.T) {
	s := NewUploadState().Uploading().Succeeded("https://bucket/k")

	assert.Equal(t, s, s.WithProgress(10))
	assert.Equal(t, s, s.Failed("late error"))
}

func TestClampProgress(t *testing.T) {
	assert.Equal(t, 0, ClampProgress(-20))
	assert.Equal(t, 0, ClampProgress(0))
	assert.Equal(t, 73, ClampProgress(73))
	assert.Equal(t, 100, ClampProgress(100))
	assert.Equal(t, 100, ClampProgress(250))
}

func TestProgressPercent(t *testing.T) {
	assert.Equal(t, 0, ProgressPercent(0, 1000))
	assert.Equal(t, 50, ProgressPercent(500, 1000))
	assert.Equal(t, 100, ProgressPercent(1000, 1000))
	// Over-reporting transports stay clamped.
	assert.Equal(t, 100, ProgressPercent(1500, 1000))
	// Unknown totals report zero rather than dividing by zero.
	assert.Equal(t, 0, ProgressPercent(500, 0))
}

func TestObjectKey(t *testing.T) {
	now := time.Unix(0, 1700000000000000000)

	key := ObjectKey(42, "q7", "My CV (final).pdf", now)
	assert.Equal(t, "assessments/42/q7/1700000000000000000_My_CV__final_.pdf", key)

	// Path traversal in the client-supplied filename is stripped.
	key = ObjectKey(1, "q1", "../../etc/passwd", now)
	assert.Equal(t, "assessments/1/q1/1700000000000000000_passwd", key)
}
