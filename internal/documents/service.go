// Package documents issues presigned URLs for case documents uploaded from the mobile client.
package documents

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"adhi/internal/cases"
	"adhi/internal/storage"

	"github.com/google/uuid"
)

var (
	// ErrInvalidUpload is returned when an upload request fails validation
	ErrInvalidUpload = errors.New("invalid upload request")
	// ErrInvalidFileKey is returned for keys outside the case document space
	ErrInvalidFileKey = errors.New("invalid file key")
	// ErrCaseNotAccessible is returned when the case is not in the caller's case set
	ErrCaseNotAccessible = errors.New("case is not accessible")
)

// Service handles business logic for case documents
type Service struct {
	storage storage.Service
	cases   cases.Repository
	now     func() time.Time
}

// NewService creates a new documents service. Documents are only reachable through
// cases that repo lists for the caller's role.
func NewService(storage storage.Service, repo cases.Repository) *Service {
	return &Service{
		storage: storage,
		cases:   repo,
		now:     time.Now,
	}
}

// ValidateFilename checks if filename is safe and valid
func ValidateFilename(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}
	if len(filename) > MaxFilenameLength {
		return fmt.Errorf("filename too long (max %d characters)", MaxFilenameLength)
	}
	if strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
		return fmt.Errorf("filename contains invalid characters")
	}
	if filepath.Ext(filename) == "" {
		return fmt.Errorf("filename must have an extension")
	}
	return nil
}

// ValidateContentType checks if content type is allowed
func ValidateContentType(contentType string) error {
	if !AllowedContentTypes[contentType] {
		return fmt.Errorf("content type %q is not allowed", contentType)
	}
	return nil
}

// ValidateCategory checks the category against Categories
func ValidateCategory(category string) error {
	if !slices.Contains(Categories, category) {
		return fmt.Errorf("unknown category %q", category)
	}
	return nil
}

func validateCaseID(caseID string) error {
	if caseID == "" || strings.ContainsAny(caseID, `/\`) || strings.Contains(caseID, "..") {
		return fmt.Errorf("invalid case id")
	}
	return nil
}

// caseIDFromKey extracts <case> from a key of the form cases/<case>/<file>
func caseIDFromKey(key string) (string, error) {
	rest, ok := strings.CutPrefix(key, keyPrefix)
	if !ok || strings.Contains(key, "..") {
		return "", ErrInvalidFileKey
	}
	caseID, file, ok := strings.Cut(rest, "/")
	if !ok || caseID == "" || file == "" {
		return "", ErrInvalidFileKey
	}
	return caseID, nil
}

// authorize checks that caseID is one of the cases listed for role
func (s *Service) authorize(ctx context.Context, role, caseID string) error {
	all, err := s.cases.List(ctx, role)
	if err != nil {
		return fmt.Errorf("failed to list cases: %w", err)
	}
	for _, c := range all {
		if c.ID == caseID {
			return nil
		}
	}
	return ErrCaseNotAccessible
}

// GenerateUploadURL creates a presigned URL for uploading a case document
func (s *Service) GenerateUploadURL(ctx context.Context, role string, req *UploadURLRequest) (*UploadURLResponse, error) {
	if err := validateCaseID(req.CaseID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUpload, err)
	}
	if err := ValidateFilename(req.Filename); err != nil {
		return nil, fmt.Errorf("%w: invalid filename: %v", ErrInvalidUpload, err)
	}
	if err := ValidateContentType(req.ContentType); err != nil {
		return nil, fmt.Errorf("%w: invalid content type: %v", ErrInvalidUpload, err)
	}
	if err := ValidateCategory(req.Category); err != nil {
		return nil, fmt.Errorf("%w: invalid category: %v", ErrInvalidUpload, err)
	}
	if err := s.authorize(ctx, role, req.CaseID); err != nil {
		return nil, err
	}

	fileKey := fmt.Sprintf("%s%s/%s-%s", keyPrefix, req.CaseID, uuid.New().String(), req.Filename)

	uploadURL, err := s.storage.GeneratePresignedUploadURL(ctx, fileKey, req.ContentType, UploadURLTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate upload URL: %w", err)
	}

	return &UploadURLResponse{
		UploadURL: uploadURL,
		FileKey:   fileKey,
		Category:  req.Category,
		ExpiresAt: s.now().Add(UploadURLTTL).Unix(),
	}, nil
}

// GenerateDownloadURL creates a presigned URL for downloading a case document
func (s *Service) GenerateDownloadURL(ctx context.Context, role, fileKey string) (*DownloadURLResponse, error) {
	caseID, err := caseIDFromKey(fileKey)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, role, caseID); err != nil {
		return nil, err
	}

	downloadURL, err := s.storage.GeneratePresignedDownloadURL(ctx, fileKey, DownloadURLTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate download URL: %w", err)
	}

	return &DownloadURLResponse{
		DownloadURL: downloadURL,
		ExpiresAt:   s.now().Add(DownloadURLTTL).Unix(),
	}, nil
}

// DeleteFile removes a case document from storage
func (s *Service) DeleteFile(ctx context.Context, role, fileKey string) error {
	caseID, err := caseIDFromKey(fileKey)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, role, caseID); err != nil {
		return err
	}

	if err := s.storage.DeleteFile(ctx, fileKey); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// HealthCheck checks storage service health
func (s *Service) HealthCheck(ctx context.Context) error {
	return s.storage.Health(ctx)
}
