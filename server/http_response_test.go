// SPDX-License-Identifier: ice License 1.0

package server

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apptesting "github.com/ae2i/recruiting/testing"
)

func TestErrorResponseShape(t *testing.T) {
	t.Parallel()
	resp := BadRequest(errors.New("storage_path is required"), "MALFORMED_REQUEST")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "storage_path is required", resp.Data.Error)
	assert.Equal(t, "MALFORMED_REQUEST", resp.Data.Code)
	assert.False(t, resp.Data.Success)
	require.Error(t, resp.Data.InternalErr())
}

func TestErrorResponseStatuses(t *testing.T) {
	t.Parallel()
	err := errors.New("bogus")
	assert.Equal(t, http.StatusNotFound, NotFound(err, "NOT_FOUND").Code)
	assert.Equal(t, http.StatusConflict, Conflict(err, "CONFLICT").Code)
	assert.Equal(t, http.StatusServiceUnavailable, ServiceUnavailable(err, "STORAGE_UNAVAILABLE").Code)
	assert.Equal(t, http.StatusInternalServerError, InternalServerError(err, "STORAGE_WRITE_ERROR").Code)
	assert.Equal(t, http.StatusTooManyRequests, TooManyRequests(err, "TOO_MANY").Code)
	assert.Equal(t, http.StatusForbidden, Forbidden(err).Code)
	assert.Equal(t, http.StatusUnauthorized, Unauthorized(err).Code)
	assert.Equal(t, -1, Unexpected(err).Code)
}

func TestErrorResponseDoesNotLeakInternalError(t *testing.T) {
	t.Parallel()
	internal := errors.Wrap(errors.New("pq: connection refused"), "failed to insert media_uploads row")
	resp := ServiceUnavailable(internal, "STORAGE_UNAVAILABLE")
	body := apptesting.MustMarshal(t, resp.Data)
	assert.JSONEq(t, `{"error":"failed to insert media_uploads row: pq: connection refused","code":"STORAGE_UNAVAILABLE","success":false}`, body)

	decoded := apptesting.MustUnmarshal[ErrorResponse](t, body)
	assert.Equal(t, "STORAGE_UNAVAILABLE", decoded.Code)
	require.NoError(t, decoded.InternalErr())
}

func TestPositiveResponses(t *testing.T) {
	t.Parallel()
	payload := "hello"
	assert.Equal(t, http.StatusCreated, Created(&payload).Code)
	assert.Equal(t, http.StatusOK, OK(&payload).Code)
	assert.Nil(t, OK[string]().Data)
	assert.Equal(t, http.StatusNoContent, NoContent().Code)
}
