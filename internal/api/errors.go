package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/reelnotes/reelnotes-server/internal/errors"
	"github.com/reelnotes/reelnotes-server/internal/http/response"
	"github.com/reelnotes/reelnotes-server/internal/store"
)

// APIError is a custom error type that implements huma.StatusError.
// It maps domain errors to HTTP responses with consistent structure.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler configures huma to use domain errors.
// Call this after creating the huma.API but before registering routes.
func RegisterErrorHandler() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		for _, err := range errs {
			var domainErr *domainerrors.Error
			if errors.As(err, &domainErr) {
				return &APIError{
					status:  domainErr.HTTPStatus(),
					Code:    string(domainErr.Code),
					Message: domainErr.Message,
					Details: domainErr.Details,
				}
			}

			if apiErr := fromStoreError(err); apiErr != nil {
				return apiErr
			}
		}

		// Request validation failures from huma itself carry per-field details.
		if status == http.StatusUnprocessableEntity || status == http.StatusBadRequest {
			if details := validationDetails(errs); len(details) > 0 {
				return &APIError{
					status:  status,
					Code:    string(domainerrors.CodeValidation),
					Message: message,
					Details: details,
				}
			}
		}

		return &APIError{
			status:  status,
			Code:    statusToCode(status),
			Message: message,
		}
	}
}

// register adds an operation to the server's API. Handler errors are mapped
// through huma.NewError here so domain errors keep their status.
func register[I, O any](s *Server, op huma.Operation, handler func(context.Context, *I) (*O, error)) {
	huma.Register(s.api, op, func(ctx context.Context, input *I) (*O, error) {
		out, err := handler(ctx, input)
		if err != nil {
			return nil, s.toStatusError(ctx, op.OperationID, err)
		}
		return out, nil
	})
}

func (s *Server) toStatusError(ctx context.Context, operation string, err error) huma.StatusError {
	var se huma.StatusError
	if errors.As(err, &se) {
		return se
	}

	mapped := huma.NewError(http.StatusInternalServerError, "internal server error", err)
	if mapped.GetStatus() >= http.StatusInternalServerError {
		s.logger.ErrorContext(ctx, "Request failed", "operation", operation, "error", err)
	}
	return mapped
}

// fromStoreError converts persistence errors that escaped the service layer.
// Unknown store failures are left to the generic 500 path.
func fromStoreError(err error) *APIError {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return &APIError{status: http.StatusNotFound, Code: string(domainerrors.CodeNotFound), Message: "not found"}
	case errors.Is(err, store.ErrAlreadyExists):
		return &APIError{status: http.StatusConflict, Code: string(domainerrors.CodeAlreadyExists), Message: "already exists"}
	case errors.Is(err, store.ErrForeignKey), errors.Is(err, store.ErrConstraintViolation):
		return &APIError{status: http.StatusBadRequest, Code: string(domainerrors.CodeValidation), Message: "invalid reference"}
	}
	return nil
}

func validationDetails(errs []error) map[string]string {
	details := make(map[string]string)
	for _, err := range errs {
		var detail *huma.ErrorDetail
		if errors.As(err, &detail) && detail.Location != "" {
			details[detail.Location] = detail.Message
		}
	}
	return details
}

// statusToCode maps HTTP status codes to our domain error codes.
func statusToCode(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return string(domainerrors.CodeValidation)
	case http.StatusUnauthorized:
		return string(domainerrors.CodeUnauthorized)
	case http.StatusForbidden:
		return string(domainerrors.CodeForbidden)
	case http.StatusNotFound:
		return string(domainerrors.CodeNotFound)
	case http.StatusConflict:
		return string(domainerrors.CodeConflict)
	case http.StatusTooManyRequests:
		return response.CodeRateLimited
	case http.StatusServiceUnavailable:
		return string(domainerrors.CodeUnavailable)
	default:
		return string(domainerrors.CodeInternal)
	}
}
