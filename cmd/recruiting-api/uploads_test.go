// SPDX-License-Identifier: ice License 1.0

package main

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/ae2i/recruiting/auth"
	"github.com/ae2i/recruiting/filestorage"
	"github.com/ae2i/recruiting/upload"
)

func TestUploadErrorResponseTaxonomy(t *testing.T) {
	t.Parallel()
	cases := []struct {
		err          error
		expectedCode string
		expectedHTTP int
	}{
		{errors.Wrap(upload.ErrMalformedRequest, "no boundary"), malformedRequestCode, http.StatusBadRequest},
		{errors.Wrap(upload.ErrValidationFailure, "forbidden extension"), validationFailureCode, http.StatusBadRequest},
		{errors.Wrap(upload.ErrPathTraversal, "dotdot"), pathTraversalCode, http.StatusBadRequest},
		{errors.Wrap(upload.ErrNotFound, "gone"), notFoundCode, http.StatusNotFound},
		{errors.Wrap(filestorage.ErrObjectNotFound, "gone"), notFoundCode, http.StatusNotFound},
		{errors.Wrap(filestorage.ErrUnavailable, "backend down"), storageUnavailableCode, http.StatusServiceUnavailable},
		{errors.Wrap(filestorage.ErrWriteFailed, "disk full"), storageWriteErrorCode, http.StatusInternalServerError},
	}
	for _, testCase := range cases {
		resp := uploadErrorResponse(testCase.err)
		assert.Equal(t, testCase.expectedHTTP, resp.Code, testCase.err.Error())
		assert.Equal(t, testCase.expectedCode, resp.Data.Code, testCase.err.Error())
	}
	assert.Equal(t, -1, uploadErrorResponse(errors.New("anything else")).Code)
}

func TestBatchUploadAggregate(t *testing.T) {
	t.Parallel()
	mixed := batchUploadResult([]*upload.StoredObject{
		{Status: upload.StatusSuccess, Success: true},
		{Status: upload.StatusError},
		{Status: upload.StatusSuccess, Success: true},
	})
	assert.False(t, mixed.Success)
	assert.Equal(t, uint64(2), mixed.SuccessCount)
	assert.Equal(t, uint64(1), mixed.ErrorCount)

	allGood := batchUploadResult([]*upload.StoredObject{{Status: upload.StatusSuccess, Success: true}})
	assert.True(t, allGood.Success)
	assert.Equal(t, uint64(1), allGood.SuccessCount)
	assert.Zero(t, allGood.ErrorCount)

	allBad := batchUploadResult([]*upload.StoredObject{{Status: upload.StatusError}, {Status: upload.StatusError}})
	assert.False(t, allBad.Success)
	assert.Zero(t, allBad.SuccessCount)
	assert.Equal(t, uint64(2), allBad.ErrorCount)
}

func TestRequireRole(t *testing.T) {
	t.Parallel()
	assert.NoError(t, requireRole(auth.RoleAdmin, auth.RoleAdmin, auth.RoleRecruiter))
	assert.NoError(t, requireRole(auth.RoleRecruiter, auth.RoleAdmin, auth.RoleRecruiter))
	assert.Error(t, requireRole(auth.RoleReader, auth.RoleAdmin, auth.RoleRecruiter))
	assert.Error(t, requireRole("", auth.RoleAdmin))
}
