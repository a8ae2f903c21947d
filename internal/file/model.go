package file

import (
	"mime/multipart"
	"net/http"
	"time"

	"github.com/nekogravitycat/estify-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "file not found")
	ErrThumbnailMissing  = apperror.New(http.StatusNotFound, "thumbnail not available for this file")
	ErrTooLarge          = apperror.New(http.StatusRequestEntityTooLarge, "file is too large")
	ErrUnsupportedType   = apperror.New(http.StatusBadRequest, "unsupported file type")
	DefaultImageMaxBytes = int64(5 << 20)
)

// ImageTypes are the MIME types accepted for listing images.
var ImageTypes = []string{"image/jpeg", "image/png"}

// File is an uploaded blob. Its ID is what listings store as their image reference.
type File struct {
	ID            string
	UploadedBy    string
	Filename      string
	StoragePath   string
	ThumbnailPath *string
	ContentType   string
	Size          int64
	CreatedAt     time.Time
}

// UploadInput describes one multipart upload and its limits.
type UploadInput struct {
	FileHeader   *multipart.FileHeader
	UserID       string
	MaxSizeBytes int64    // 0 = no limit
	AllowedTypes []string // empty = allow all
}

// FileURL returns the public URL for accessing a file by its ID.
func FileURL(id string) string {
	return "/v1/files/" + id
}

// ThumbnailURL returns the public URL for accessing a file's thumbnail by its ID.
func ThumbnailURL(id string) string {
	return "/v1/files/" + id + "/thumbnail"
}
