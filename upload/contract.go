// SPDX-License-Identifier: ice License 1.0

package upload

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ae2i/recruiting/connectors/storage"
	"github.com/ae2i/recruiting/filestorage"
	"github.com/ae2i/recruiting/time"
)

// Public API.

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

var (
	ErrMalformedRequest  = errors.New("malformed request")
	ErrValidationFailure = errors.New("validation failure")
	ErrPathTraversal     = errors.New("path traversal rejected")
	ErrNotFound          = errors.New("not found")
)

type (
	// Part is one decoded segment of a multipart/form-data body.
	// IsFile is true when the Content-Disposition header carried a filename attribute,
	// even if its value was empty. Empty file names are rejected downstream, not dropped here.
	Part struct {
		FieldName   string
		Filename    string
		ContentType string
		Data        []byte
		IsFile      bool
	}
	// Form is a fully decoded request body: file parts plus plain form fields.
	Form struct {
		Values map[string]string
		Files  []*Part
	}
	// FileTypeRule maps one logical category to its allowed extensions and storage folder.
	FileTypeRule struct {
		Category   string   `json:"category" yaml:"category"`
		Folder     string   `json:"folder" yaml:"folder"`
		Extensions []string `json:"extensions" yaml:"extensions"`
	}
	// StoredObject is the append-only upload log row, written once per upload attempt.
	// Success mirrors Status on the wire, every response body carries an explicit boolean.
	StoredObject struct {
		CreatedAt        *time.Time `json:"uploaded_at" db:"created_at"`
		ErrorMessage     *string    `json:"error_message,omitempty" db:"error_message"`
		ID               string     `json:"id" db:"id"`
		OriginalFilename string     `json:"original_filename" db:"original_filename"`
		UniqueFilename   string     `json:"unique_filename" db:"unique_filename"`
		MimeType         string     `json:"mime_type" db:"mime_type"`
		Category         string     `json:"category" db:"category"`
		StoragePath      string     `json:"storage_path" db:"storage_path"`
		PublicURL        string     `json:"public_url" db:"public_url"`
		Status           string     `json:"status" db:"status"`
		SizeBytes        uint64     `json:"size" db:"size_bytes"`
		Success          bool       `json:"success" db:"-"`
	}
	Stats struct {
		FileTypes      map[string]uint64 `json:"file_types"`
		Categories     map[string]uint64 `json:"categories"`
		TotalUploads   uint64            `json:"total_uploads"`
		SuccessUploads uint64            `json:"success_uploads"`
		ErrorUploads   uint64            `json:"error_uploads"`
		TotalSizeBytes uint64            `json:"total_size_bytes"`
	}
	HealthReport struct {
		Timestamp    *time.Time `json:"timestamp"`
		Status       string     `json:"status"`
		Connected    bool       `json:"connected"`
		BucketExists bool       `json:"bucket_exists"`
	}
	Processor interface {
		Process(ctx context.Context, rawBody []byte, contentTypeHeader, categoryHint string) (*StoredObject, error)
		ProcessBatch(ctx context.Context, rawBody []byte, contentTypeHeader, categoryHint string) ([]*StoredObject, error)
		Delete(ctx context.Context, storagePath string) error
		ListFolder(ctx context.Context, folder string) ([]*filestorage.ObjectInfo, error)
		Stats(ctx context.Context) (*Stats, error)
		Rules() []*FileTypeRule
		ForbiddenExtensions() []string
		MaxSizeBytes() uint64
		LocalPath(filename string) (string, error)
		Health(ctx context.Context) *HealthReport
		CheckHealth(ctx context.Context) error
	}
)

// Private API.

const (
	defaultMaxFileSizeMiB = 20

	singleFileField = "file"
	batchFilesField = "files"
)

//nolint:gochecknoglobals // Static, read-only policy defaults.
var (
	defaultForbiddenExtensions = []string{".exe", ".bat", ".sh", ".cmd", ".com", ".scr", ".js", ".jar", ".php"}
	defaultAllowedMimeTypes    = []string{
		"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp",
		"video/mp4", "video/quicktime", "video/x-msvideo", "video/x-matroska",
		"application/pdf", "application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
		"application/zip", "application/x-rar-compressed",
	}
	defaultFileTypeRules = []*FileTypeRule{
		{Category: "images", Folder: "images", Extensions: []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}},
		{Category: "videos", Folder: "videos", Extensions: []string{".mp4", ".mov", ".avi", ".mkv"}},
		{Category: "pdf", Folder: "pdf", Extensions: []string{".pdf"}},
		{Category: "documents", Folder: "documents", Extensions: []string{".docx", ".xlsx", ".pptx", ".zip", ".rar"}},
		{Category: "cv", Folder: "cv", Extensions: []string{".pdf", ".doc", ".docx"}},
	}
)

type (
	// logbook abstracts the append-only upload-log collection.
	logbook interface {
		Append(ctx context.Context, obj *StoredObject) error
	}
	dbLogbook struct {
		db *storage.DB
	}
	processor struct {
		db          *storage.DB
		logbook     logbook
		fileStorage filestorage.Client
		cfg         *config
	}
	config struct {
		RecruitingUpload struct {
			LocalDir            string          `yaml:"localDir" mapstructure:"localDir"`                       //nolint:tagliatelle // Nope.
			FileTypes           []*FileTypeRule `yaml:"fileTypes" mapstructure:"fileTypes"`                     //nolint:tagliatelle // Nope.
			ForbiddenExtensions []string        `yaml:"forbiddenExtensions" mapstructure:"forbiddenExtensions"` //nolint:tagliatelle // Nope.
			AllowedMimeTypes    []string        `yaml:"allowedMimeTypes" mapstructure:"allowedMimeTypes"`       //nolint:tagliatelle // Nope.
			MaxFileSizeMiB      uint64          `yaml:"maxFileSizeMiB" mapstructure:"maxFileSizeMiB"`           //nolint:tagliatelle // Nope.
		} `yaml:"recruiting/upload" mapstructure:"recruiting/upload"` //nolint:tagliatelle // Nope.
	}
)
