package util

const TimeFormat = "2006-01-02 15:04:05"

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// MIME types accepted for candidate uploads.
const (
	MimePDF         = "application/pdf"
	MimeImage       = "image/"
	MimeWord        = "application/msword"
	MimeWordX       = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeZip         = "application/zip"
	MimeOctetStream = "application/octet-stream"
	MimeText        = "text/plain"
)

var (
	// AllowedResumeTypes covers resumes and answer-file uploads.
	AllowedResumeTypes = []string{MimePDF, MimeWord, MimeWordX, MimeImage, MimeZip, MimeOctetStream, MimeText}
)
