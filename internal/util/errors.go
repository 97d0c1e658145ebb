package util

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountDisabled     = errors.New("account is disabled")
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrJobNotFound         = errors.New("job not found")
	ErrApplicantNotFound   = errors.New("applicant not found")
	ErrCollegeNotFound     = errors.New("college not found")
	ErrAssessmentNotFound  = errors.New("assessment not found")
	ErrAssessmentNotLive   = errors.New("assessment not published or no longer accessible")
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrAttemptNotFound     = errors.New("attempt not found")
	ErrAttemptLocked       = errors.New("attempt is still locked")
	ErrAttemptNotStarted   = errors.New("attempt has not been started")
	ErrAlreadySubmitted    = errors.New("attempt already submitted")
	ErrAttemptExpired      = errors.New("attempt deadline has passed")
	ErrCandidateNotFound   = errors.New("candidate record not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrUploadNotRetryable  = errors.New("a file was already uploaded for this question")
	ErrNotFileQuestion     = errors.New("question does not accept file uploads")
)
