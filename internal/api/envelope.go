package api

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/reelnotes/reelnotes-server/internal/http/response"
)

// EnvelopeVersion is the version of the response envelope format.
const EnvelopeVersion = response.Version

// APIEnvelope wraps successful responses and errors that carry only a message.
type APIEnvelope struct { //nolint:revive // API prefix matches APIError
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// APIErrorEnvelope wraps errors that carry a machine-readable code.
type APIErrorEnvelope struct { //nolint:revive // API prefix matches APIError
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps every huma response body in the versioned envelope.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if isErrorStatus(status) {
		switch e := v.(type) {
		case *APIError:
			if e.Code == "" {
				return APIEnvelope{Version: EnvelopeVersion, Error: e.Message}, nil
			}
			return APIErrorEnvelope{
				Version: EnvelopeVersion,
				Error:   e.Message,
				Code:    e.Code,
				Message: e.Message,
				Details: e.Details,
			}, nil
		case error:
			return APIEnvelope{Version: EnvelopeVersion, Error: e.Error()}, nil
		}
	}

	return APIEnvelope{Version: EnvelopeVersion, Success: true, Data: v}, nil
}

func isErrorStatus(status string) bool {
	return len(status) == 3 && (status[0] == '4' || status[0] == '5')
}
