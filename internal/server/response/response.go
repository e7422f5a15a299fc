// Package response writes the API's JSON envelope. Successful responses
// carry a data field, failures an error field.
package response

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/gridlot/mastermatch/pkg/errors"
)

// Response is the envelope of every API response.
type Response struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
}

// Error is an API error with a machine-readable code.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Success creates a successful response with data.
func Success(data any) Response {
	return Response{Data: data}
}

// Fail creates an error response.
func Fail(code, message, details string) Response {
	return Response{
		Error: &Error{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// JSON writes resp with the given status code.
func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// headers are already sent, an encoding failure cannot be reported
	_ = json.NewEncoder(w).Encode(resp)
}

// OK writes a successful response with 200 status.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Success(data))
}

// Accepted writes a successful response with 202 status.
func Accepted(w http.ResponseWriter, data any) {
	JSON(w, http.StatusAccepted, Success(data))
}

// BadRequest writes a 400 error response.
func BadRequest(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusBadRequest, Fail("BAD_REQUEST", message, details))
}

// NotFound writes a 404 error response.
func NotFound(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusNotFound, Fail("NOT_FOUND", message, details))
}

// MethodNotAllowed writes a 405 error response.
func MethodNotAllowed(w http.ResponseWriter, method string) {
	JSON(w, http.StatusMethodNotAllowed, Fail(
		"METHOD_NOT_ALLOWED",
		"Method not allowed",
		"Method "+method+" is not supported for this endpoint",
	))
}

// PayloadTooLarge writes a 413 error response.
func PayloadTooLarge(w http.ResponseWriter, message string) {
	JSON(w, http.StatusRequestEntityTooLarge, Fail("PAYLOAD_TOO_LARGE", "Payload too large", message))
}

// InternalError writes a 500 error response. The error itself is not
// exposed to the client.
func InternalError(w http.ResponseWriter, _ error) {
	JSON(w, http.StatusInternalServerError, Fail(
		"INTERNAL_ERROR",
		"Internal server error",
		"An unexpected error occurred",
	))
}

// ServiceUnavailable writes a 503 error response.
func ServiceUnavailable(w http.ResponseWriter, message string) {
	JSON(w, http.StatusServiceUnavailable, Fail(
		"SERVICE_UNAVAILABLE",
		"Service unavailable",
		message,
	))
}

// ErrorFromType maps typed errors to HTTP responses.
func ErrorFromType(w http.ResponseWriter, err error) {
	var (
		notFound   *errors.NotFoundError
		validation *errors.ValidationError
		parse      *errors.ParseError
		config     *errors.ConfigError
		resource   *errors.ResourceError
	)

	switch {
	case stderrors.Is(err, errors.ErrIndexNotLoaded):
		ServiceUnavailable(w, "Reference index not loaded yet")
	case stderrors.As(err, &notFound):
		NotFound(w, notFound.Error(), "")
	case stderrors.As(err, &validation):
		JSON(w, http.StatusBadRequest, Fail("VALIDATION_FAILED", validation.Error(), ""))
	case stderrors.As(err, &parse):
		JSON(w, http.StatusBadRequest, Fail("PARSE_ERROR", parse.Error(), ""))
	case stderrors.As(err, &config):
		JSON(w, http.StatusBadRequest, Fail("INVALID_CONFIG", config.Error(), ""))
	case errors.IsTimeout(err):
		JSON(w, http.StatusGatewayTimeout, Fail("TIMEOUT", "Operation timed out", err.Error()))
	case errors.IsCanceled(err):
		JSON(w, http.StatusServiceUnavailable, Fail("CANCELED", "Operation canceled", err.Error()))
	case stderrors.As(err, &resource):
		JSON(w, http.StatusBadGateway, Fail("RESOURCE_ERROR", resource.Error(), ""))
	default:
		InternalError(w, err)
	}
}
