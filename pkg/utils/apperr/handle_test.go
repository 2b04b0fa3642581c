package apperr_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/ecoloop/ecoloop/pkg/domain/model"
	"github.com/ecoloop/ecoloop/pkg/utils/apperr"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"sentinel", model.ErrUserAlreadyExists, http.StatusConflict},
		{"wrapped sentinel", goerr.Wrap(model.ErrUserNotFound, "lookup failed"), http.StatusNotFound},
		{"double wrapped", goerr.Wrap(goerr.Wrap(model.ErrInvalidCode, "a"), "b"), http.StatusUnauthorized},
		{"validation tag", goerr.New("bad weight", goerr.T(model.ErrTagValidation)), http.StatusBadRequest},
		{"unavailable", model.ErrOCRUnavailable, http.StatusServiceUnavailable},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"untagged goerr", goerr.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Equal(t, tt.want, apperr.StatusCode(tt.err))
		})
	}
}

func TestStatusCodeByTag(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", goerr.New("x", goerr.T(model.ErrTagValidation)), http.StatusBadRequest},
		{"unauthorized", goerr.New("x", goerr.T(model.ErrTagUnauthorized)), http.StatusUnauthorized},
		{"forbidden", goerr.New("x", goerr.T(model.ErrTagForbidden)), http.StatusForbidden},
		{"not found", goerr.New("x", goerr.T(model.ErrTagNotFound)), http.StatusNotFound},
		{"conflict", goerr.New("x", goerr.T(model.ErrTagConflict)), http.StatusConflict},
		{"unavailable", goerr.New("x", goerr.T(model.ErrTagUnavailable)), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Equal(t, tt.want, apperr.StatusCode(tt.err))
			gt.Equal(t, tt.want, apperr.StatusCode(goerr.Wrap(tt.err, "outer")))
		})
	}

	t.Run("validation wins over inner tag", func(t *testing.T) {
		err := goerr.Wrap(model.ErrUserNotFound, "bad row", goerr.T(model.ErrTagValidation))
		gt.Equal(t, http.StatusBadRequest, apperr.StatusCode(err))
	})
}

func TestHandle(t *testing.T) {
	// Must not panic without a logger in context
	apperr.Handle(context.Background(), nil)
	apperr.Handle(context.Background(), model.ErrInvalidCredentials)
	apperr.Handle(context.Background(), errors.New("boom"))
}
