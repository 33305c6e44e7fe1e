package apierr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/perfume-inventory/internal/apperr"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/http/apierr"
	"github.com/tuanvumaihuynh/perfume-inventory/pkg/validator"
	"github.com/tuanvumaihuynh/perfume-inventory/pkg/zerror"
)

func TestNew(t *testing.T) {
	t.Run("Should map app errors to their status", func(t *testing.T) {
		res := apierr.New(fmt.Errorf("reconcile: %w", apperr.StoreNotFoundErr))
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.Equal(t, apperr.StoreNotFoundCode, res.Code)
		assert.Empty(t, res.Details)
	})

	t.Run("Should list field errors of a wrapped validation error", func(t *testing.T) {
		type input struct {
			Name string `validate:"notblank"`
		}
		verr := validator.MustNewDefaultValidator().Validate(input{})
		require.Error(t, verr)

		res := apierr.New(apperr.ValidationErr.WrapParent(verr))
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Equal(t, apperr.ValidationErrorCode, res.Code)
		require.Len(t, res.Details, 1)
		assert.Equal(t, "name", res.Details[0].Field)
		assert.Equal(t, "field is required", res.Details[0].Message)
	})

	t.Run("Should hide unknown errors", func(t *testing.T) {
		res := apierr.New(errors.New("pq: connection refused"))
		assert.Equal(t, apierr.InternalServerErr, res)
	})
}

func TestZErrorStatusToHTTPStatus(t *testing.T) {
	tests := map[zerror.Status]int{
		zerror.StatusValidationFailed:    http.StatusBadRequest,
		zerror.StatusUnauthorized:        http.StatusUnauthorized,
		zerror.StatusConflict:            http.StatusConflict,
		zerror.StatusServiceUnavailable:  http.StatusServiceUnavailable,
		zerror.StatusUnknown:             http.StatusInternalServerError,
		zerror.StatusInternalServerError: http.StatusInternalServerError,
	}

	for status, want := range tests {
		assert.Equal(t, want, apierr.ZErrorStatusToHTTPStatus(status), status.String())
	}
}
