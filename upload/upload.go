// SPDX-License-Identifier: ice License 1.0

package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	appcfg "github.com/ae2i/recruiting/config"
	"github.com/ae2i/recruiting/connectors/storage"
	"github.com/ae2i/recruiting/filestorage"
	"github.com/ae2i/recruiting/log"
	"github.com/ae2i/recruiting/time"
)

// New wires the upload pipeline. fileStorageClient may be nil when the bucket is
// unreachable or unconfigured, the processor then falls back to the local directory
// sink or reports the backend as unavailable.
func New(db *storage.DB, fileStorageClient filestorage.Client, applicationYAMLKey string) Processor {
	var cfg config
	appcfg.MustLoadFromKey(applicationYAMLKey, &cfg)
	if cfg.RecruitingUpload.MaxFileSizeMiB == 0 {
		cfg.RecruitingUpload.MaxFileSizeMiB = defaultMaxFileSizeMiB
	}
	if len(cfg.RecruitingUpload.FileTypes) == 0 {
		cfg.RecruitingUpload.FileTypes = defaultFileTypeRules
	}

	return &processor{db: db, logbook: &dbLogbook{db: db}, fileStorage: fileStorageClient, cfg: &cfg}
}

func (p *processor) Process(ctx context.Context, rawBody []byte, contentTypeHeader, categoryHint string) (*StoredObject, error) {
	form, err := DecodeForm(rawBody, contentTypeHeader)
	if err != nil {
		p.appendLog(ctx, p.failedObject("unknown", "", "", 0, err))

		return nil, err
	}

	return p.processPart(ctx, pickFilePart(form, singleFileField), hint(form, categoryHint))
}

func (p *processor) ProcessBatch(ctx context.Context, rawBody []byte, contentTypeHeader, categoryHint string) ([]*StoredObject, error) {
	form, err := DecodeForm(rawBody, contentTypeHeader)
	if err != nil {
		p.appendLog(ctx, p.failedObject("unknown", "", "", 0, err))

		return nil, err
	}
	results := make([]*StoredObject, 0, len(form.Files))
	for _, file := range form.Files {
		obj, pErr := p.processPart(ctx, file, hint(form, categoryHint))
		if pErr != nil {
			obj = p.failedObject(file.Filename, "", file.ContentType, uint64(len(file.Data)), pErr)
		}
		results = append(results, obj)
	}

	return results, nil
}

// processPart classifies, validates, stores and logs a single decoded file part.
// Exactly one upload-log row is appended per attempt, strictly after the storage
// attempt when one is made.
func (p *processor) processPart(ctx context.Context, file *Part, categoryHint string) (*StoredObject, error) {
	category := Classify(p.Rules(), file.Filename, categoryHint)
	if err := p.validate(file.Data, file.Filename, file.ContentType, category); err != nil {
		p.appendLog(ctx, p.failedObject(file.Filename, category, file.ContentType, uint64(len(file.Data)), err))

		return nil, err
	}
	uniqueName := MakeUniqueName(file.Filename)
	mimeType := file.ContentType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	obj := &StoredObject{
		ID:               uuid.NewString(),
		CreatedAt:        time.Now(),
		OriginalFilename: SanitizeFilename(file.Filename),
		UniqueFilename:   uniqueName,
		MimeType:         mimeType,
		Category:         category,
		SizeBytes:        uint64(len(file.Data)),
		Status:           StatusSuccess,
		Success:          true,
	}
	storagePath, publicURL, err := p.store(ctx, p.rule(category).Folder, uniqueName, mimeType, file.Data)
	if err != nil {
		obj.Status = StatusError
		obj.Success = false
		message := err.Error()
		obj.ErrorMessage = &message
		p.appendLog(ctx, obj)

		return nil, err
	}
	obj.StoragePath = storagePath
	obj.PublicURL = publicURL
	p.appendLog(ctx, obj)

	return obj, nil
}

func (p *processor) Delete(ctx context.Context, storagePath string) error {
	if p.fileStorage != nil {
		return errors.Wrapf(p.fileStorage.Remove(ctx, storagePath), "failed to remove %v from the bucket", storagePath)
	}
	if p.cfg.RecruitingUpload.LocalDir == "" {
		return errors.Wrap(filestorage.ErrUnavailable, "no storage backend configured")
	}
	if err := ValidateLocalFilename(storagePath); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(p.cfg.RecruitingUpload.LocalDir, storagePath)); err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrNotFound, "no such file: %v", storagePath)
		}

		return errors.Wrapf(err, "failed to remove local file %v", storagePath)
	}

	return nil
}

func (p *processor) ListFolder(ctx context.Context, folder string) ([]*filestorage.ObjectInfo, error) {
	if p.fileStorage == nil {
		return nil, errors.Wrap(filestorage.ErrUnavailable, "file storage is not configured")
	}

	return p.fileStorage.List(ctx, folder) //nolint:wrapcheck // It's wrapped well enough.
}

func (p *processor) Stats(ctx context.Context) (*Stats, error) {
	totals, err := storage.Get[statsTotals](ctx, p.db, `
		SELECT COUNT(*)                                        AS total_uploads,
		       COUNT(*) FILTER (WHERE status = 'success')      AS success_uploads,
		       COUNT(*) FILTER (WHERE status = 'error')        AS error_uploads,
		       COALESCE(SUM(size_bytes), 0)::BIGINT            AS total_size_bytes
		FROM media_uploads`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to select upload totals")
	}
	byMime, err := storage.Select[groupCount](ctx, p.db, `
		SELECT COALESCE(NULLIF(mime_type, ''), 'unknown') AS grouping, COUNT(*) AS total FROM media_uploads GROUP BY 1`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to select per-mime upload counts")
	}
	byCategory, err := storage.Select[groupCount](ctx, p.db, `
		SELECT COALESCE(NULLIF(category, ''), 'unknown') AS grouping, COUNT(*) AS total FROM media_uploads GROUP BY 1`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to select per-category upload counts")
	}
	stats := &Stats{
		TotalUploads:   totals.TotalUploads,
		SuccessUploads: totals.SuccessUploads,
		ErrorUploads:   totals.ErrorUploads,
		TotalSizeBytes: totals.TotalSizeBytes,
		FileTypes:      make(map[string]uint64, len(byMime)),
		Categories:     make(map[string]uint64, len(byCategory)),
	}
	for _, row := range byMime {
		stats.FileTypes[row.Grouping] = row.Total
	}
	for _, row := range byCategory {
		stats.Categories[row.Grouping] = row.Total
	}

	return stats, nil
}

func (p *processor) Rules() []*FileTypeRule {
	return p.cfg.RecruitingUpload.FileTypes
}

func (p *processor) MaxSizeBytes() uint64 {
	return p.cfg.RecruitingUpload.MaxFileSizeMiB * bytesPerMiB
}

// LocalPath resolves a stored file inside the local uploads directory.
// The traversal guard runs before any filesystem access.
func (p *processor) LocalPath(filename string) (string, error) {
	if err := ValidateLocalFilename(filename); err != nil {
		return "", err
	}
	if p.cfg.RecruitingUpload.LocalDir == "" {
		return "", errors.Wrap(filestorage.ErrUnavailable, "local storage is not configured")
	}
	fullPath := filepath.Join(p.cfg.RecruitingUpload.LocalDir, filename)
	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrapf(ErrNotFound, "no such file: %v", filename)
		}

		return "", errors.Wrapf(err, "failed to stat %v", fullPath)
	}

	return fullPath, nil
}

func (p *processor) Health(ctx context.Context) *HealthReport {
	report := &HealthReport{Timestamp: time.Now(), Status: "ok"}
	if err := p.db.Ping(ctx); err != nil {
		log.Error(errors.Wrap(err, "upload log db ping failed"))
		report.Status = "degraded"
	} else {
		report.Connected = true
	}
	if p.fileStorage == nil {
		report.BucketExists = p.cfg.RecruitingUpload.LocalDir != ""
	} else if err := p.fileStorage.CheckHealth(ctx); err != nil {
		log.Error(errors.Wrap(err, "file storage health check failed"))
	} else {
		report.BucketExists = true
	}
	if !report.Connected || !report.BucketExists {
		report.Status = "degraded"
	}

	return report
}

func (p *processor) CheckHealth(ctx context.Context) error {
	if err := p.db.Ping(ctx); err != nil {
		return errors.Wrap(err, "upload log db ping failed")
	}
	if p.fileStorage != nil {
		return errors.Wrap(p.fileStorage.CheckHealth(ctx), "file storage health check failed")
	}

	return nil
}

func (p *processor) store(ctx context.Context, folder, uniqueName, mimeType string, data []byte) (storagePath, publicURL string, err error) {
	if p.fileStorage != nil {
		storagePath = fmt.Sprintf("%v/%v", folder, uniqueName)
		if err = p.fileStorage.Upload(ctx, storagePath, mimeType, data); err != nil {
			return "", "", errors.Wrapf(err, "failed to upload %v", storagePath)
		}

		return storagePath, p.fileStorage.PublicURL(storagePath), nil
	}
	if p.cfg.RecruitingUpload.LocalDir == "" {
		return "", "", errors.Wrap(filestorage.ErrUnavailable, "no storage backend configured")
	}
	if err = os.MkdirAll(p.cfg.RecruitingUpload.LocalDir, 0o755); err != nil { //nolint:mnd,gomnd // Permissions.
		return "", "", errors.Wrapf(filestorage.ErrWriteFailed, "failed to create local dir: %v", err)
	}
	if err = os.WriteFile(filepath.Join(p.cfg.RecruitingUpload.LocalDir, uniqueName), data, 0o644); err != nil { //nolint:mnd,gomnd // Permissions.
		return "", "", errors.Wrapf(filestorage.ErrWriteFailed, "failed to write local file: %v", err)
	}

	return uniqueName, "/download/" + uniqueName, nil
}

// appendLog writes the upload-log row. A failure here must never mask the outcome
// of the upload itself, so it is only surfaced in the process log.
func (p *processor) appendLog(ctx context.Context, obj *StoredObject) {
	log.Error(errors.Wrapf(p.logbook.Append(ctx, obj), "failed to append upload log row for %v", obj.UniqueFilename))
}

func (l *dbLogbook) Append(ctx context.Context, obj *StoredObject) error {
	_, err := storage.Exec(ctx, l.db, `
		INSERT INTO media_uploads (id, created_at, original_filename, unique_filename, mime_type, category, storage_path, public_url, size_bytes, status, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		obj.ID, obj.CreatedAt.Time, obj.OriginalFilename, obj.UniqueFilename, obj.MimeType, obj.Category,
		obj.StoragePath, obj.PublicURL, obj.SizeBytes, obj.Status, obj.ErrorMessage)

	return err //nolint:wrapcheck // Wrapped by the caller.
}

func (p *processor) failedObject(originalFilename, category, mimeType string, sizeBytes uint64, err error) *StoredObject {
	message := err.Error()

	return &StoredObject{
		ID:               uuid.NewString(),
		CreatedAt:        time.Now(),
		OriginalFilename: SanitizeFilename(originalFilename),
		MimeType:         mimeType,
		Category:         category,
		SizeBytes:        sizeBytes,
		Status:           StatusError,
		ErrorMessage:     &message,
	}
}

func pickFilePart(form *Form, preferredField string) *Part {
	for _, file := range form.Files {
		if file.FieldName == preferredField {
			return file
		}
	}

	return form.Files[0]
}

func hint(form *Form, categoryHint string) string {
	if categoryHint != "" {
		return categoryHint
	}
	if val := form.Values["category"]; val != "" {
		return val
	}

	return form.Values["type"]
}

type (
	statsTotals struct {
		TotalUploads   uint64 `db:"total_uploads"`
		SuccessUploads uint64 `db:"success_uploads"`
		ErrorUploads   uint64 `db:"error_uploads"`
		TotalSizeBytes uint64 `db:"total_size_bytes"`
	}
	groupCount struct {
		Grouping string `db:"grouping"`
		Total    uint64 `db:"total"`
	}
)
