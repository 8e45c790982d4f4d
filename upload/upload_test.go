// SPDX-License-Identifier: ice License 1.0

package upload

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ae2i/recruiting/filestorage"
	. "github.com/ae2i/recruiting/testing" //nolint:revive // Testing simplification.
)

type recordingLogbook struct {
	mu   sync.Mutex
	rows []*StoredObject
}

func (l *recordingLogbook) Append(_ context.Context, obj *StoredObject) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rows = append(l.rows, obj)

	return nil
}

func (l *recordingLogbook) all() []*StoredObject {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]*StoredObject(nil), l.rows...)
}

func newTestProcessor(tb testing.TB, localDir string) (*processor, *recordingLogbook) {
	tb.Helper()
	logbook := new(recordingLogbook)
	var cfg config
	cfg.RecruitingUpload.LocalDir = localDir
	cfg.RecruitingUpload.MaxFileSizeMiB = defaultMaxFileSizeMiB
	cfg.RecruitingUpload.FileTypes = defaultFileTypeRules

	return &processor{logbook: logbook, cfg: &cfg}, logbook
}

func TestProcessStoresValidFile(t *testing.T) {
	t.Parallel()
	proc, logbook := newTestProcessor(t, t.TempDir())
	body := filePart("file", "resume.pdf", "application/pdf", "%PDF-1.7 content") + closeDelimiter()

	obj, err := proc.Process(context.Background(), []byte(body), multipartContentType(), "")
	require.NoError(t, err)
	require.NotNil(t, obj)
	assert.Equal(t, StatusSuccess, obj.Status)
	assert.True(t, obj.Success)
	assert.Equal(t, "resume.pdf", obj.OriginalFilename)
	assert.Equal(t, "pdf", obj.Category)
	assert.Equal(t, "application/pdf", obj.MimeType)
	assert.Equal(t, uint64(len("%PDF-1.7 content")), obj.SizeBytes)
	assert.Equal(t, "/download/"+obj.UniqueFilename, obj.PublicURL)
	stored, err := os.ReadFile(filepath.Join(proc.cfg.RecruitingUpload.LocalDir, obj.UniqueFilename))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 content", string(stored))

	rows := logbook.all()
	require.Len(t, rows, 1)
	assert.Equal(t, StatusSuccess, rows[0].Status)
	assert.NotEmpty(t, rows[0].StoragePath, "the log row must be appended after the storage attempt")
}

func TestProcessRespectsCategoryHint(t *testing.T) {
	t.Parallel()
	proc, _ := newTestProcessor(t, t.TempDir())
	body := filePart("file", "resume.pdf", "application/pdf", "content") +
		valuePart("category", "cv") +
		closeDelimiter()

	obj, err := proc.Process(context.Background(), []byte(body), multipartContentType(), "")
	require.NoError(t, err)
	assert.Equal(t, "cv", obj.Category)
}

func TestProcessRejectsForbiddenExtension(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	proc, logbook := newTestProcessor(t, dir)
	body := filePart("file", "virus.exe", "application/octet-stream", "MZ") + closeDelimiter()

	obj, err := proc.Process(context.Background(), []byte(body), multipartContentType(), "")
	require.ErrorIs(t, err, ErrValidationFailure)
	assert.ErrorContains(t, err, "forbidden extension")
	assert.Nil(t, obj)

	entries, rErr := os.ReadDir(dir)
	require.NoError(t, rErr)
	assert.Empty(t, entries, "no file may be written for an invalid upload")

	rows := logbook.all()
	require.Len(t, rows, 1)
	assert.Equal(t, StatusError, rows[0].Status)
	require.NotNil(t, rows[0].ErrorMessage)
	assert.Contains(t, *rows[0].ErrorMessage, "forbidden extension")
}

func TestProcessRejectsOversizedFile(t *testing.T) {
	t.Parallel()
	proc, logbook := newTestProcessor(t, t.TempDir())
	proc.cfg.RecruitingUpload.MaxFileSizeMiB = 1
	oversized := make([]byte, bytesPerMiB+1)
	body := append([]byte(nil), []byte(filePart("file", "big.pdf", "application/pdf", ""))...)
	body = body[:len(body)-2] // Drop the trailing CRLF of the empty content, re-add it after the payload.
	body = append(body, oversized...)
	body = append(body, []byte("\r\n"+closeDelimiter())...)

	_, err := proc.Process(context.Background(), body, multipartContentType(), "")
	require.ErrorIs(t, err, ErrValidationFailure)
	assert.ErrorContains(t, err, "(max 1 MiB)")
	rows := logbook.all()
	require.Len(t, rows, 1)
	assert.Equal(t, StatusError, rows[0].Status)
}

func TestProcessRejectsEmptyFile(t *testing.T) {
	t.Parallel()
	proc, _ := newTestProcessor(t, t.TempDir())
	body := filePart("file", "empty.pdf", "application/pdf", "") + closeDelimiter()

	_, err := proc.Process(context.Background(), []byte(body), multipartContentType(), "")
	require.ErrorIs(t, err, ErrValidationFailure)
	assert.ErrorContains(t, err, "empty file")
}

func TestProcessLogsMalformedRequests(t *testing.T) {
	t.Parallel()
	proc, logbook := newTestProcessor(t, t.TempDir())

	_, err := proc.Process(context.Background(), []byte("not multipart at all"), "text/plain", "")
	require.ErrorIs(t, err, ErrMalformedRequest)

	rows := logbook.all()
	require.Len(t, rows, 1)
	assert.Equal(t, StatusError, rows[0].Status)
	assert.Equal(t, "unknown", rows[0].OriginalFilename)
}

func TestProcessFailsWithoutAnyBackend(t *testing.T) {
	t.Parallel()
	proc, logbook := newTestProcessor(t, "")
	body := filePart("file", "resume.pdf", "application/pdf", "content") + closeDelimiter()

	_, err := proc.Process(context.Background(), []byte(body), multipartContentType(), "")
	require.ErrorIs(t, err, filestorage.ErrUnavailable)

	rows := logbook.all()
	require.Len(t, rows, 1)
	assert.Equal(t, StatusError, rows[0].Status)
}

func TestProcessBatchIsolatesFailures(t *testing.T) {
	t.Parallel()
	proc, logbook := newTestProcessor(t, t.TempDir())
	body := filePart("files", "good.pdf", "application/pdf", "fine") +
		filePart("files", "bad.exe", "", "MZ") +
		closeDelimiter()

	results, err := proc.ProcessBatch(context.Background(), []byte(body), multipartContentType(), "")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, StatusSuccess, results[0].Status)
	assert.True(t, results[0].Success)
	assert.Equal(t, StatusError, results[1].Status)
	assert.False(t, results[1].Success)
	require.NotNil(t, results[1].ErrorMessage)
	assert.Len(t, logbook.all(), 2)
}

func TestStoredObjectWireShape(t *testing.T) {
	t.Parallel()
	proc, _ := newTestProcessor(t, t.TempDir())
	body := filePart("file", "resume.pdf", "application/pdf", "%PDF-1.7 content") + closeDelimiter()

	obj, err := proc.Process(context.Background(), []byte(body), multipartContentType(), "")
	require.NoError(t, err)
	wire := MustMarshal(t, obj)
	assert.Contains(t, wire, `"success":true`)
	assert.Contains(t, wire, `"status":"success"`)
	assert.Contains(t, wire, `"original_filename":"resume.pdf"`)
	assert.NotContains(t, wire, `"error_message"`)
}

func TestDeleteLocalFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	proc, _ := newTestProcessor(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stored.pdf"), []byte("x"), 0o600))

	require.NoError(t, proc.Delete(context.Background(), "stored.pdf"))
	_, err := os.Stat(filepath.Join(dir, "stored.pdf"))
	assert.True(t, os.IsNotExist(err))

	require.ErrorIs(t, proc.Delete(context.Background(), "stored.pdf"), ErrNotFound)
	require.ErrorIs(t, proc.Delete(context.Background(), "../escape.pdf"), ErrPathTraversal)
}

func TestLocalPathGuardsTraversal(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	proc, _ := newTestProcessor(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cv.pdf"), []byte("x"), 0o600))

	path, err := proc.LocalPath("cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cv.pdf"), path)

	_, err = proc.LocalPath("../../etc/passwd")
	require.ErrorIs(t, err, ErrPathTraversal)
	_, err = proc.LocalPath("ghost.pdf")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestValidateOrderAndMessages(t *testing.T) {
	t.Parallel()
	proc, _ := newTestProcessor(t, t.TempDir())

	err := proc.validate([]byte("x"), "", "", "")
	assert.ErrorContains(t, err, "empty filename")
	err = proc.validate([]byte("x"), "script.sh", "", "")
	assert.ErrorContains(t, err, "forbidden extension")
	err = proc.validate([]byte("x"), "data.xyz", "", "")
	assert.ErrorContains(t, err, ".xyz is not allowed")
	err = proc.validate([]byte("x"), "photo.png", "", "bogus")
	assert.ErrorContains(t, err, "unknown file category")
	err = proc.validate([]byte("x"), "photo.png", "", "videos")
	assert.ErrorContains(t, err, "not allowed for category")
	err = proc.validate([]byte("x"), "photo.png", "text/html", "images")
	assert.ErrorContains(t, err, "mime type")
	require.NoError(t, proc.validate([]byte("x"), "photo.png", "image/png", "images"))
}
