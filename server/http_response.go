// SPDX-License-Identifier: ice License 1.0

package server

import (
	"net/http"

	"github.com/pkg/errors"
)

func BadRequest(err error, code string, dataArg ...map[string]any) *Response[ErrorResponse] {
	return errorResponse(http.StatusBadRequest, err, code, dataArg...)
}

func UnprocessableEntity(err error, code string, dataArg ...map[string]any) *Response[ErrorResponse] {
	return errorResponse(http.StatusUnprocessableEntity, err, code, dataArg...)
}

func Conflict(err error, code string, dataArg ...map[string]any) *Response[ErrorResponse] {
	return errorResponse(http.StatusConflict, err, code, dataArg...)
}

func NotFound(err error, code string, dataArg ...map[string]any) *Response[ErrorResponse] {
	return errorResponse(http.StatusNotFound, err, code, dataArg...)
}

func ServiceUnavailable(err error, code string, dataArg ...map[string]any) *Response[ErrorResponse] {
	return errorResponse(http.StatusServiceUnavailable, err, code, dataArg...)
}

func InternalServerError(err error, code string, dataArg ...map[string]any) *Response[ErrorResponse] {
	return errorResponse(http.StatusInternalServerError, err, code, dataArg...)
}

func TooManyRequests(err error, code string, dataArg ...map[string]any) *Response[ErrorResponse] {
	return errorResponse(http.StatusTooManyRequests, err, code, dataArg...)
}

func Forbidden(err error, dataArg ...map[string]any) *Response[ErrorResponse] {
	return errorResponse(http.StatusForbidden, err, "OPERATION_NOT_ALLOWED", dataArg...)
}

func Unauthorized(err error, dataArg ...map[string]any) *Response[ErrorResponse] {
	resp := errorResponse(http.StatusUnauthorized, errors.Wrapf(err, "authorization failed"), "INVALID_TOKEN", dataArg...)
	resp.Data.Error = err.Error()

	return resp
}

func Unexpected(err error) *Response[ErrorResponse] {
	return &Response[ErrorResponse]{
		Code: -1,
		Data: &ErrorResponse{
			error: err,
			Error: err.Error(),
		},
	}
}

func NoContent() *Response[any] {
	return &Response[any]{Code: http.StatusNoContent}
}

func Created[RESP any](resp *RESP) *Response[RESP] {
	return &Response[RESP]{Code: http.StatusCreated, Data: resp}
}

func OK[RESP any](responses ...*RESP) *Response[RESP] {
	var resp *RESP
	if len(responses) == 1 {
		resp = responses[0]
	}

	return &Response[RESP]{Code: http.StatusOK, Data: resp}
}

func (e *ErrorResponse) Fail(err error) *ErrorResponse {
	e.error = err

	return e
}

func (e *ErrorResponse) InternalErr() error {
	return e.error
}

func errorResponse(status int, err error, code string, dataArg ...map[string]any) *Response[ErrorResponse] {
	var data map[string]any
	if len(dataArg) == 1 {
		data = dataArg[0]
	}

	return &Response[ErrorResponse]{
		Data: &ErrorResponse{
			error: err,
			Error: err.Error(),
			Code:  code,
			Data:  data,
		},
		Code: status,
	}
}
