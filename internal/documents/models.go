package documents

import "time"

// UploadURLRequest represents a request for a case document upload URL
type UploadURLRequest struct {
	CaseID      string `json:"case_id" binding:"required"`
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Category    string `json:"category" binding:"required"`
}

// UploadURLResponse represents a response with a presigned upload URL
type UploadURLResponse struct {
	UploadURL string `json:"upload_url"`
	FileKey   string `json:"file_key"`
	Category  string `json:"category"`
	ExpiresAt int64  `json:"expires_at"`
}

// FileKeyRequest addresses a stored document
type FileKeyRequest struct {
	FileKey string `json:"file_key" binding:"required"`
}

// DownloadURLResponse represents a response with a presigned download URL
type DownloadURLResponse struct {
	DownloadURL string `json:"download_url"`
	ExpiresAt   int64  `json:"expires_at"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

const (
	MaxFilenameLength = 255
	UploadURLTTL      = 15 * time.Minute
	DownloadURLTTL    = 1 * time.Hour
	keyPrefix         = "cases/"
)

// Categories lists the document categories in display order
var Categories = []string{
	"Pleadings",
	"Evidence",
	"Contracts",
	"Agreements",
	"Court Orders",
	"Statements",
	"Correspondence",
	"Legal Research",
	"Billing",
}

// AllowedContentTypes defines the accepted upload types
var AllowedContentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"image/jpeg": true,
	"image/png":  true,
	"text/plain": true,
}
