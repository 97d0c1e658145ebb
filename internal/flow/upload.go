package flow

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

type UploadStatus string

const (
	UploadIdle      UploadStatus = "idle"
	UploadInFlight  UploadStatus = "uploading"
	UploadSucceeded UploadStatus = "success"
	UploadFailed    UploadStatus = "error"
)

// UploadState is the ephemeral per-question upload tracker. It lives in
// Redis keyed by attempt and question, never in the submissions table;
// only the resulting URL ends up in an answer slot.
type UploadState struct {
	Status   UploadStatus `json:"status"`
	Progress int          `json:"progress"` // percent, clamped to [0,100]
	URL      string       `json:"url,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// NewUploadState returns the initial tracker for a file question.
func NewUploadState() UploadState {
	return UploadState{Status: UploadIdle}
}

// Uploading marks the start of a transfer. Progress resets to zero.
func (s UploadState) Uploading() UploadState {
	return UploadState{Status: UploadInFlight}
}

// WithProgress records transfer progress, clamped to [0,100]. Terminal
// states ignore further progress callbacks.
func (s UploadState) WithProgress(percent int) UploadState {
	if s.Status != UploadInFlight {
		return s
	}
	s.Progress = ClampProgress(percent)
	return s
}

// Succeeded records the resulting object URL. A succeeded question's
// file input is disabled client-side; the state never leaves success.
func (s UploadState) Succeeded(url string) UploadState {
	return UploadState{Status: UploadSucceeded, Progress: 100, URL: url}
}

// Failed records the error and leaves the question retryable. The
// answer slot stays empty.
func (s UploadState) Failed(msg string) UploadState {
	if s.Status == UploadSucceeded {
		return s
	}
	return UploadState{Status: UploadFailed, Error: msg}
}

// Retryable reports whether a new upload may begin for this question.
func (s UploadState) Retryable() bool {
	return s.Status == UploadIdle || s.Status == UploadFailed
}

// ClampProgress bounds a percentage to [0,100].
func ClampProgress(percent int) int {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// ProgressPercent converts byte counts from the storage client into a
// clamped percentage. An unknown total reports zero until completion.
func ProgressPercent(transferred, total int64) int {
	if total <= 0 {
		return 0
	}
	return ClampProgress(int(transferred * 100 / total))
}

// ObjectKey builds the storage path for an uploaded answer file. The
// timestamp component keeps concurrent uploads from colliding.
func ObjectKey(assessmentID uint, questionID, filename string, now time.Time) string {
	return fmt.Sprintf("assessments/%d/%s/%d_%s",
		assessmentID, questionID, now.UnixNano(), sanitizeFilename(filename))
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." {
		return "file"
	}
	return name
}
