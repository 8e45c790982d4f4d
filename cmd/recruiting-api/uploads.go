// SPDX-License-Identifier: ice License 1.0

package main

import (
	"context"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/ae2i/recruiting/auth"
	"github.com/ae2i/recruiting/filestorage"
	"github.com/ae2i/recruiting/server"
	"github.com/ae2i/recruiting/upload"
)

const (
	malformedRequestCode   = "MALFORMED_REQUEST"
	validationFailureCode  = "VALIDATION_FAILURE"
	pathTraversalCode      = "PATH_TRAVERSAL_REJECTED"
	notFoundCode           = "NOT_FOUND"
	storageUnavailableCode = "STORAGE_UNAVAILABLE"
	storageWriteErrorCode  = "STORAGE_WRITE_ERROR"
)

type (
	UploadFileArg struct {
		//nolint:unused // Processed by the router.
		_           struct{} `allowUnauthorized:"true"`
		ContentType string   `header:"Content-Type" swaggerignore:"true"`
		Category    string   `form:"category"`
		Body        []byte   `rawBody:"true" json:"-" swaggerignore:"true"`
	}
	DeleteUploadArg struct {
		StoragePath string `json:"storage_path"`
	}
	ListUploadsArg struct {
		Folder string `form:"folder"`
	}
	GetUploadTypesArg struct {
		//nolint:unused // Processed by the router.
		_ struct{} `allowUnauthorized:"true"`
	}
	GetUploadHealthArg struct {
		//nolint:unused // Processed by the router.
		_ struct{} `allowUnauthorized:"true"`
	}
	GetUploadStatsArg struct{}
	UploadPolicy      struct {
		FileTypes           []*upload.FileTypeRule `json:"file_types"`
		ForbiddenExtensions []string               `json:"forbidden_extensions"`
		MaxSizeBytes        uint64                 `json:"max_size_bytes"`
		MaxSizeMiB          uint64                 `json:"max_size_mib"`
	}
	ListedUploads struct {
		Files []*filestorage.ObjectInfo `json:"files"`
		Total uint64                    `json:"total"`
	}
	// BatchUpload aggregates one multi-file upload. Success is true only when
	// every file in the batch was stored.
	BatchUpload struct {
		Files        []*upload.StoredObject `json:"files"`
		SuccessCount uint64                 `json:"success_count"`
		ErrorCount   uint64                 `json:"error_count"`
		Success      bool                   `json:"success"`
	}
)

func (s *service) registerUploadRoutes(router *server.Router) {
	router.POST("v1/upload", server.RootHandler(s.UploadFile))
	router.POST("v1/upload/batch", server.RootHandler(s.UploadFiles))
	router.GET("v1/upload/types", server.RootHandler(s.GetUploadTypes))
	router.GET("v1/upload/health", server.RootHandler(s.GetUploadHealth))
	router.DELETE("v1/upload", server.RootHandler(s.DeleteUpload))
	router.GET("v1/upload/files", server.RootHandler(s.ListUploads))
	router.GET("v1/upload/stats", server.RootHandler(s.GetUploadStats))
	router.GET("download/:filename", s.DownloadFile)
}

// UploadFile godoc
//
//	@Schemes
//	@Description	Accepts one multipart/form-data file and stores it according to the upload policy.
//	@Tags			Uploads
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			category	query		string	false	"category to store the file under, inferred from the extension when absent"
//	@Success		201			{object}	upload.StoredObject
//	@Failure		400			{object}	server.ErrorResponse	"malformed body or validation failure"
//	@Failure		500			{object}	server.ErrorResponse	"the backend write failed"
//	@Failure		503			{object}	server.ErrorResponse	"no storage backend is reachable"
//	@Router			/upload [POST]
func (s *service) UploadFile(ctx context.Context, req *server.Request[UploadFileArg, upload.StoredObject]) (*server.Response[upload.StoredObject], *server.Response[server.ErrorResponse]) {
	obj, err := s.uploadProcessor.Process(ctx, req.Data.Body, req.Data.ContentType, req.Data.Category)
	if err != nil {
		return nil, uploadErrorResponse(errors.Wrapf(err, "upload failed"))
	}

	return server.Created(obj), nil
}

// UploadFiles godoc
//
//	@Schemes
//	@Description	Accepts several multipart/form-data files and stores each one independently.
//	@Tags			Uploads
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			category	query		string	false	"category to store the files under"
//	@Success		201			{object}	BatchUpload
//	@Failure		400			{object}	server.ErrorResponse
//	@Router			/upload/batch [POST]
func (s *service) UploadFiles(ctx context.Context, req *server.Request[UploadFileArg, BatchUpload]) (*server.Response[BatchUpload], *server.Response[server.ErrorResponse]) {
	objects, err := s.uploadProcessor.ProcessBatch(ctx, req.Data.Body, req.Data.ContentType, req.Data.Category)
	if err != nil {
		return nil, uploadErrorResponse(errors.Wrapf(err, "batch upload failed"))
	}

	return server.Created(batchUploadResult(objects)), nil
}

func batchUploadResult(objects []*upload.StoredObject) *BatchUpload {
	result := &BatchUpload{Files: objects}
	for _, obj := range objects {
		if obj.Status == upload.StatusSuccess {
			result.SuccessCount++
		} else {
			result.ErrorCount++
		}
	}
	result.Success = result.ErrorCount == 0

	return result
}

// GetUploadTypes godoc
//
//	@Schemes
//	@Description	Returns the upload policy: allowed categories, their extensions and the size ceiling.
//	@Tags			Uploads
//	@Produce		json
//	@Success		200	{object}	UploadPolicy
//	@Router			/upload/types [GET]
func (s *service) GetUploadTypes(_ context.Context, _ *server.Request[GetUploadTypesArg, UploadPolicy]) (*server.Response[UploadPolicy], *server.Response[server.ErrorResponse]) {
	return server.OK(&UploadPolicy{
		FileTypes:           s.uploadProcessor.Rules(),
		ForbiddenExtensions: s.uploadProcessor.ForbiddenExtensions(),
		MaxSizeBytes:        s.uploadProcessor.MaxSizeBytes(),
		MaxSizeMiB:          s.uploadProcessor.MaxSizeBytes() / 1024 / 1024, //nolint:mnd,gomnd // MiB.
	}), nil
}

// GetUploadHealth godoc
//
//	@Schemes
//	@Description	Reports whether the upload log and the storage backend are reachable.
//	@Tags			Uploads
//	@Produce		json
//	@Success		200	{object}	upload.HealthReport
//	@Failure		503	{object}	server.ErrorResponse
//	@Router			/upload/health [GET]
func (s *service) GetUploadHealth(ctx context.Context, _ *server.Request[GetUploadHealthArg, upload.HealthReport]) (*server.Response[upload.HealthReport], *server.Response[server.ErrorResponse]) {
	report := s.uploadProcessor.Health(ctx)
	if report.Status != "ok" {
		return nil, server.ServiceUnavailable(errors.New("upload pipeline is degraded"), storageUnavailableCode, map[string]any{
			"connected":     report.Connected,
			"bucket_exists": report.BucketExists,
		})
	}

	return server.OK(report), nil
}

// DeleteUpload godoc
//
//	@Schemes
//	@Description	Removes one stored object, by its storage path.
//	@Tags			Uploads
//	@Accept			json
//	@Produce		json
//	@Param			Authorization	header	string			true	"Insert your access token"	default(Bearer <Add access token here>)
//	@Param			request			body	DeleteUploadArg	true	"Request params"
//	@Success		204
//	@Failure		400	{object}	server.ErrorResponse	"storage_path is missing or escapes the sink"
//	@Failure		403	{object}	server.ErrorResponse
//	@Failure		404	{object}	server.ErrorResponse
//	@Router			/upload [DELETE]
func (s *service) DeleteUpload(ctx context.Context, req *server.Request[DeleteUploadArg, any]) (*server.Response[any], *server.Response[server.ErrorResponse]) {
	if err := requireRole(req.AuthenticatedUser.Role, auth.RoleAdmin, auth.RoleRecruiter); err != nil {
		return nil, server.Forbidden(err)
	}
	if req.Data.StoragePath == "" {
		return nil, server.BadRequest(errors.New("storage_path is required"), malformedRequestCode)
	}
	if err := s.uploadProcessor.Delete(ctx, req.Data.StoragePath); err != nil {
		return nil, uploadErrorResponse(errors.Wrapf(err, "failed to delete %v", req.Data.StoragePath))
	}

	return server.NoContent(), nil
}

// ListUploads godoc
//
//	@Schemes
//	@Description	Lists the stored objects of one folder of the storage backend.
//	@Tags			Uploads
//	@Produce		json
//	@Param			Authorization	header		string	true	"Insert your access token"	default(Bearer <Add access token here>)
//	@Param			folder			query		string	false	"folder to list"
//	@Success		200				{object}	ListedUploads
//	@Failure		503				{object}	server.ErrorResponse
//	@Router			/upload/files [GET]
func (s *service) ListUploads(ctx context.Context, req *server.Request[ListUploadsArg, ListedUploads]) (*server.Response[ListedUploads], *server.Response[server.ErrorResponse]) {
	files, err := s.uploadProcessor.ListFolder(ctx, req.Data.Folder)
	if err != nil {
		return nil, uploadErrorResponse(errors.Wrapf(err, "failed to list folder %v", req.Data.Folder))
	}

	return server.OK(&ListedUploads{Files: files, Total: uint64(len(files))}), nil
}

// GetUploadStats godoc
//
//	@Schemes
//	@Description	Aggregates the upload log: totals, per-mime and per-category counters.
//	@Tags			Uploads
//	@Produce		json
//	@Param			Authorization	header		string	true	"Insert your access token"	default(Bearer <Add access token here>)
//	@Success		200				{object}	upload.Stats
//	@Router			/upload/stats [GET]
func (s *service) GetUploadStats(ctx context.Context, _ *server.Request[GetUploadStatsArg, upload.Stats]) (*server.Response[upload.Stats], *server.Response[server.ErrorResponse]) {
	stats, err := s.uploadProcessor.Stats(ctx)
	if err != nil {
		return nil, server.Unexpected(errors.Wrap(err, "failed to aggregate upload stats"))
	}

	return server.OK(stats), nil
}

// DownloadFile streams one locally stored object back, as an attachment.
// It bypasses the json RootHandler on purpose, the response body is the file itself.
func (s *service) DownloadFile(ginCtx *gin.Context) {
	path, err := s.uploadProcessor.LocalPath(ginCtx.Param("filename"))
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrPathTraversal):
			ginCtx.JSON(http.StatusBadRequest, &server.ErrorResponse{Error: err.Error(), Code: pathTraversalCode})
		case errors.Is(err, upload.ErrNotFound):
			ginCtx.JSON(http.StatusNotFound, &server.ErrorResponse{Error: err.Error(), Code: notFoundCode})
		default:
			ginCtx.JSON(http.StatusInternalServerError, &server.ErrorResponse{Error: "oops, something went wrong"})
		}

		return
	}
	ginCtx.FileAttachment(path, filepath.Base(path))
}

func uploadErrorResponse(err error) *server.Response[server.ErrorResponse] {
	switch {
	case errors.Is(err, upload.ErrMalformedRequest):
		return server.BadRequest(err, malformedRequestCode)
	case errors.Is(err, upload.ErrValidationFailure):
		return server.BadRequest(err, validationFailureCode)
	case errors.Is(err, upload.ErrPathTraversal):
		return server.BadRequest(err, pathTraversalCode)
	case errors.Is(err, upload.ErrNotFound) || errors.Is(err, filestorage.ErrObjectNotFound):
		return server.NotFound(err, notFoundCode)
	case errors.Is(err, filestorage.ErrUnavailable):
		return server.ServiceUnavailable(err, storageUnavailableCode)
	case errors.Is(err, filestorage.ErrWriteFailed):
		return server.InternalServerError(err, storageWriteErrorCode)
	default:
		return server.Unexpected(err)
	}
}

func requireRole(actual string, allowed ...string) error {
	for _, role := range allowed {
		if actual == role {
			return nil
		}
	}

	return errors.Errorf("role %v is not allowed to perform this operation", actual)
}
