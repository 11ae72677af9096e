package procurement

import (
	"errors"
	"net/http"
)

// RequestError is a caller-facing failure carrying the HTTP status the
// transport layer should map it to. Services return these for validation,
// authorization and missing-entity failures; infrastructure errors from
// the store pass through untouched.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func BadRequest(message string) *RequestError {
	return &RequestError{Status: http.StatusBadRequest, Message: message}
}

func NotFound(message string) *RequestError {
	return &RequestError{Status: http.StatusNotFound, Message: message}
}

func Forbidden(message string) *RequestError {
	return &RequestError{Status: http.StatusForbidden, Message: message}
}

// AsRequestError unwraps err into a RequestError if there is one.
func AsRequestError(err error) (*RequestError, bool) {
	var re *RequestError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
