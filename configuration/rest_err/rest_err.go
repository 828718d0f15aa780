// Package rest_err maps domain errors (internal_error.InternalError) onto
// HTTP-shaped error responses.
package rest_err

import (
	"net/http"

	"github.com/auctioncore/auction-engine/internal/internal_error"
)

// RestErr is the JSON shape returned to API clients for any failed request.
type RestErr struct {
	Message string   `json:"message"`
	Err     string   `json:"err"`
	Kind    string   `json:"kind,omitempty"`
	Code    int      `json:"code"`
	Causes  []Causes `json:"causes,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Causes carries field-level validation detail.
type Causes struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (r *RestErr) Error() string {
	return r.Message
}

// ConvertErrors is the bridge between the domain error taxonomy and HTTP.
// UseCases and the engine facade never know about status codes; they return
// *internal_error.InternalError, and this is the one place that decides what
// that means for a REST client.
func ConvertErrors(internalError *internal_error.InternalError) *RestErr {
	switch internalError.Err {
	case "bad_request":
		return newFromInternal(internalError, http.StatusBadRequest)
	case "not_found":
		return newFromInternal(internalError, http.StatusNotFound)
	case "invalid_state":
		return newFromInternal(internalError, http.StatusConflict)
	case "conflict":
		return newFromInternal(internalError, http.StatusConflict)
	case "unavailable":
		return newFromInternal(internalError, http.StatusServiceUnavailable)
	default:
		return NewInternalServerError(internalError.Error())
	}
}

func newFromInternal(internalError *internal_error.InternalError, code int) *RestErr {
	return &RestErr{
		Message: internalError.Message,
		Err:     internalError.Err,
		Kind:    internalError.Kind,
		Code:    code,
		Details: internalError.Details,
	}
}

func NewBadRequestError(message string, causes ...Causes) *RestErr {
	return &RestErr{
		Message: message,
		Err:     "bad_request",
		Code:    http.StatusBadRequest,
		Causes:  causes,
	}
}

func NewInternalServerError(message string) *RestErr {
	return &RestErr{
		Message: message,
		Err:     "internal_server",
		Code:    http.StatusInternalServerError,
	}
}

func NewNotFoundError(message string) *RestErr {
	return &RestErr{
		Message: message,
		Err:     "not_found",
		Code:    http.StatusNotFound,
	}
}

func NewConflictError(message string) *RestErr {
	return &RestErr{
		Message: message,
		Err:     "conflict",
		Code:    http.StatusConflict,
	}
}
