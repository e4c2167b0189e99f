// internal/media/cloudinary.go
package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"castnfish/internal/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// Storage stores user-submitted photos.
type Storage interface {
	UploadImage(ctx context.Context, req *UploadRequest) (*UploadResult, error)
	DeleteImage(ctx context.Context, publicID string) error
}

// UploadRequest carries one image upload.
type UploadRequest struct {
	File        io.Reader
	Filename    string
	ContentType string
	Size        int64
	Folder      string
}

// UploadResult contains the stored image's location.
type UploadResult struct {
	URL      string
	PublicID string
	Format   string
}

// Custom errors for specific failure cases.
var (
	ErrFileTooLarge       = fmt.Errorf("file size exceeds limit")
	ErrInvalidContentType = fmt.Errorf("invalid content type")
	ErrInvalidExtension   = fmt.Errorf("invalid file extension")
	ErrMissingCredentials = fmt.Errorf("cloudinary credentials are missing")
	ErrUploadFailed       = fmt.Errorf("failed to upload file")
)

const (
	maxImageSize  = 10 * 1024 * 1024 // 10MB
	uploadTimeout = 30 * time.Second
	deleteTimeout = 10 * time.Second
)

var allowedImageTypes = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
	"image/gif":  {".gif"},
	"image/webp": {".webp"},
}

// CloudinaryStorage wraps the Cloudinary client.
type CloudinaryStorage struct {
	client *cloudinary.Cloudinary
	folder string
	logger *zap.Logger
}

// NewCloudinaryStorage creates storage backed by Cloudinary.
func NewCloudinaryStorage(cfg config.CloudinaryConfig, logger *zap.Logger) (*CloudinaryStorage, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, ErrMissingCredentials
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	logger.Info("Cloudinary storage initialized", zap.String("folder", cfg.Folder))
	return &CloudinaryStorage{client: cld, folder: cfg.Folder, logger: logger}, nil
}

func ptrBool(b bool) *bool { return &b }

func validateImage(req *UploadRequest) error {
	if req.Size > maxImageSize {
		return ErrFileTooLarge
	}
	extensions, ok := allowedImageTypes[strings.ToLower(req.ContentType)]
	if !ok {
		return ErrInvalidContentType
	}
	ext := strings.ToLower(filepath.Ext(req.Filename))
	for _, valid := range extensions {
		if ext == valid {
			return nil
		}
	}
	return ErrInvalidExtension
}

// UploadImage validates and uploads one image, retrying transient failures.
func (s *CloudinaryStorage) UploadImage(ctx context.Context, req *UploadRequest) (*UploadResult, error) {
	if err := validateImage(req); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	folder := s.folder
	if req.Folder != "" {
		folder = s.folder + "/" + req.Folder
	}

	params := uploader.UploadParams{
		Folder:         folder,
		UseFilename:    ptrBool(true),
		UniqueFilename: ptrBool(true),
		ResourceType:   "image",
	}

	// Buffer the image so each retry starts from the beginning.
	data, err := io.ReadAll(io.LimitReader(req.File, maxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxImageSize {
		return nil, ErrFileTooLarge
	}

	var result *uploader.UploadResult
	operation := func() error {
		resp, err := s.client.Upload.Upload(ctx, bytes.NewReader(data), params)
		if err != nil {
			return err
		}
		result = resp
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		s.logger.Error("Image upload failed",
			zap.String("filename", req.Filename),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	s.logger.Info("Image uploaded",
		zap.String("public_id", result.PublicID),
		zap.String("format", result.Format),
	)
	return &UploadResult{
		URL:      result.SecureURL,
		PublicID: result.PublicID,
		Format:   result.Format,
	}, nil
}

// DeleteImage removes a stored image. A missing image is not an error.
func (s *CloudinaryStorage) DeleteImage(ctx context.Context, publicID string) error {
	ctx, cancel := context.WithTimeout(ctx, deleteTimeout)
	defer cancel()

	_, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		s.logger.Warn("Image deletion failed",
			zap.String("public_id", publicID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to delete image %s: %w", publicID, err)
	}
	return nil
}
