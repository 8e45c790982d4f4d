// SPDX-License-Identifier: ice License 1.0

package upload

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBoundary = "testboundary42"

func multipartContentType() string {
	return fmt.Sprintf(`multipart/form-data; boundary=%v`, testBoundary)
}

func filePart(fieldName, filename, contentType, content string) string {
	header := fmt.Sprintf("Content-Disposition: form-data; name=%q; filename=%q\r\n", fieldName, filename)
	if contentType != "" {
		header += fmt.Sprintf("Content-Type: %v\r\n", contentType)
	}

	return fmt.Sprintf("--%v\r\n%v\r\n%v\r\n", testBoundary, header, content)
}

func valuePart(fieldName, value string) string {
	return fmt.Sprintf("--%v\r\nContent-Disposition: form-data; name=%q\r\n\r\n%v\r\n", testBoundary, fieldName, value)
}

func closeDelimiter() string {
	return fmt.Sprintf("--%v--\r\n", testBoundary)
}

func TestDecodeFormHappyPath(t *testing.T) {
	t.Parallel()
	body := filePart("file", "report.pdf", "application/pdf", "%PDF-1.7 fake") +
		valuePart("category", "pdf") +
		closeDelimiter()

	form, err := DecodeForm([]byte(body), multipartContentType())
	require.NoError(t, err)
	require.Len(t, form.Files, 1)
	assert.Equal(t, "file", form.Files[0].FieldName)
	assert.Equal(t, "report.pdf", form.Files[0].Filename)
	assert.Equal(t, "application/pdf", form.Files[0].ContentType)
	assert.Equal(t, []byte("%PDF-1.7 fake"), form.Files[0].Data)
	assert.True(t, form.Files[0].IsFile)
	assert.Equal(t, "pdf", form.Values["category"])
}

func TestDecodeFormRejectsNonMultipart(t *testing.T) {
	t.Parallel()
	_, err := DecodeForm([]byte("{}"), "application/json")
	require.ErrorIs(t, err, ErrMalformedRequest)
}

func TestDecodeFormRejectsMissingBoundary(t *testing.T) {
	t.Parallel()
	_, err := DecodeForm([]byte("irrelevant"), "multipart/form-data")
	require.ErrorIs(t, err, ErrMalformedRequest)
}

func TestDecodeFormRejectsBodyWithoutFiles(t *testing.T) {
	t.Parallel()
	body := valuePart("category", "pdf") + closeDelimiter()
	_, err := DecodeForm([]byte(body), multipartContentType())
	require.ErrorIs(t, err, ErrMalformedRequest)
	assert.ErrorContains(t, err, "no file found")
}

func TestDecodeFormToleratesBareLineFeeds(t *testing.T) {
	t.Parallel()
	body := strings.ReplaceAll(filePart("file", "notes.txt", "", "line feed only")+closeDelimiter(), "\r\n", "\n")

	form, err := DecodeForm([]byte(body), multipartContentType())
	require.NoError(t, err)
	require.Len(t, form.Files, 1)
	assert.Equal(t, []byte("line feed only"), form.Files[0].Data)
}

func TestDecodeFormSkipsUnparseablePart(t *testing.T) {
	t.Parallel()
	headerless := fmt.Sprintf("--%v\r\nno separator here", testBoundary)
	body := headerless + "\r\n" + filePart("file", "ok.pdf", "application/pdf", "data") + closeDelimiter()

	form, err := DecodeForm([]byte(body), multipartContentType())
	require.NoError(t, err)
	require.Len(t, form.Files, 1)
	assert.Equal(t, "ok.pdf", form.Files[0].Filename)
}

func TestDecodeFormKeepsEmptyFilenamePart(t *testing.T) {
	t.Parallel()
	body := filePart("file", "", "application/pdf", "data") + closeDelimiter()

	form, err := DecodeForm([]byte(body), multipartContentType())
	require.NoError(t, err)
	require.Len(t, form.Files, 1)
	assert.True(t, form.Files[0].IsFile)
	assert.Empty(t, form.Files[0].Filename)
}

func TestDecodeFormPreservesBinaryContent(t *testing.T) {
	t.Parallel()
	binary := string([]byte{0x00, 0x01, 0xFF, 0xFE, '\r', '\n', 0x7F, 0x00})
	body := filePart("file", "blob.zip", "application/zip", binary) + closeDelimiter()

	form, err := DecodeForm([]byte(body), multipartContentType())
	require.NoError(t, err)
	require.Len(t, form.Files, 1)
	assert.Equal(t, []byte(binary), form.Files[0].Data)
}

func TestDecodeFormIgnoresBoundaryBytesInsideLines(t *testing.T) {
	t.Parallel()
	embedded := "prefix --" + testBoundary + " suffix"
	body := filePart("file", "tricky.txt", "", embedded) + closeDelimiter()

	form, err := DecodeForm([]byte(body), multipartContentType())
	require.NoError(t, err)
	require.Len(t, form.Files, 1)
	assert.Equal(t, []byte(embedded), form.Files[0].Data)
}

func TestDecodeFormMultipleFiles(t *testing.T) {
	t.Parallel()
	body := filePart("files", "a.pdf", "application/pdf", "aaa") +
		filePart("files", "b.docx", "", "bbb") +
		closeDelimiter()

	form, err := DecodeForm([]byte(body), multipartContentType())
	require.NoError(t, err)
	require.Len(t, form.Files, 2)
	assert.Equal(t, "a.pdf", form.Files[0].Filename)
	assert.Equal(t, "b.docx", form.Files[1].Filename)
}

func TestDecodeFormErrorsAreTyped(t *testing.T) {
	t.Parallel()
	_, err := DecodeForm(nil, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedRequest))
}
