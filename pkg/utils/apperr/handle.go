// Package apperr reports errors that reach the edge of the application.
package apperr

import (
	"context"
	"net/http"

	"github.com/ecoloop/ecoloop/pkg/domain/model"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// StatusCode maps err to an HTTP status by its tags. Untagged errors are
// internal errors. A validation tag anywhere in the chain wins over the others.
func StatusCode(err error) int {
	switch {
	case goerr.HasTag(err, model.ErrTagValidation):
		return http.StatusBadRequest
	case goerr.HasTag(err, model.ErrTagUnauthorized):
		return http.StatusUnauthorized
	case goerr.HasTag(err, model.ErrTagForbidden):
		return http.StatusForbidden
	case goerr.HasTag(err, model.ErrTagNotFound):
		return http.StatusNotFound
	case goerr.HasTag(err, model.ErrTagConflict):
		return http.StatusConflict
	case goerr.HasTag(err, model.ErrTagUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Handle logs err. Errors caused by the caller are logged at warn level, the
// rest as errors.
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}
	logger := ctxlog.From(ctx)
	if StatusCode(err) < http.StatusInternalServerError {
		logger.Warn("request rejected", "error", err)
		return
	}
	logger.Error("application error", "error", err)
}
