package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	govalidator "github.com/go-playground/validator/v10"

	"github.com/tuanvumaihuynh/perfume-inventory/internal/apperr"
	"github.com/tuanvumaihuynh/perfume-inventory/pkg/validator"
	"github.com/tuanvumaihuynh/perfume-inventory/pkg/zerror"
)

const internalServerErrorCode = "INTERNAL_SERVER_ERROR"

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`

	StatusCode int `json:"-"`
}

func New(err error) ErrorResponse {
	return errorToErrorResponse(err)
}

var InternalServerErr = ErrorResponse{
	Code:       internalServerErrorCode,
	Message:    "an unknown error occurred",
	StatusCode: http.StatusInternalServerError,
}

func errorToErrorResponse(err error) ErrorResponse {
	if zErr, ok := zerror.From(err); ok {
		return ErrorResponse{
			Code:       zErr.Code(),
			Message:    zErr.Msg(),
			Details:    fieldErrors(zErr.Parent()),
			StatusCode: ZErrorStatusToHTTPStatus(zErr.Status()),
		}
	}

	if details := fieldErrors(err); details != nil {
		return ErrorResponse{
			Code:       apperr.ValidationErrorCode,
			Message:    "validation error",
			Details:    details,
			StatusCode: http.StatusBadRequest,
		}
	}

	return InternalServerErr
}

// fieldErrors extracts per-field messages from struct validation and
// OpenAPI schema errors. It returns nil when err carries neither.
func fieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}

	var validationErrs govalidator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]FieldError, len(validationErrs))
		for i, fe := range validationErrs {
			details[i] = FieldError{
				Field:   fe.Field(),
				Message: validator.ValidationErrorMessage(fe),
			}
		}
		return details
	}

	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		field := "body"
		if reqErr.Parameter != nil {
			field = reqErr.Parameter.Name
		}

		var schemaErr *openapi3.SchemaError
		if errors.As(reqErr.Err, &schemaErr) {
			if ptr := schemaErr.JSONPointer(); len(ptr) > 0 && reqErr.Parameter == nil {
				field = ptr[len(ptr)-1]
			}
			return []FieldError{{Field: field, Message: schemaErr.Reason}}
		}

		return []FieldError{{Field: field, Message: reqErr.Error()}}
	}

	return nil
}

func ZErrorStatusToHTTPStatus(status zerror.Status) int {
	switch status {
	case zerror.StatusUnauthorized:
		return http.StatusUnauthorized
	case zerror.StatusForbidden:
		return http.StatusForbidden
	case zerror.StatusNotFound:
		return http.StatusNotFound
	case zerror.StatusUnprocessableEntity:
		return http.StatusUnprocessableEntity
	case zerror.StatusConflict:
		return http.StatusConflict
	case zerror.StatusTooManyRequests:
		return http.StatusTooManyRequests
	case zerror.StatusBadRequest, zerror.StatusValidationFailed:
		return http.StatusBadRequest
	case zerror.StatusTimeout:
		return http.StatusGatewayTimeout
	case zerror.StatusNotImplemented:
		return http.StatusNotImplemented
	case zerror.StatusBadGateway:
		return http.StatusBadGateway
	case zerror.StatusServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Write sends res as the JSON body with its status code.
func Write(w http.ResponseWriter, res ErrorResponse) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)
	return json.NewEncoder(w).Encode(res)
}
