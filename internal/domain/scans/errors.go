package scans

import (
	"errors"
	"fmt"
)

// MaxBatchURLs is the most URLs accepted in one batch submission
const MaxBatchURLs = 10

var (
	ErrEmptyURL      = errors.New("please enter a URL to scan")
	ErrInvalidURL    = errors.New("please enter a valid URL")
	ErrEmptyBatch    = errors.New("please enter URLs to scan")
	ErrNoValidURLs   = errors.New("no valid URLs found")
	ErrBatchTooLarge = fmt.Errorf("at most %d URLs per batch", MaxBatchURLs)
)

// ValidationError rejects user input before any request is sent.
// Warning marks input that is incomplete rather than wrong.
type ValidationError struct {
	Err     error
	Warning bool
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

func warn(err error) error    { return &ValidationError{Err: err, Warning: true} }
func invalid(err error) error { return &ValidationError{Err: err} }

// RequestError is any failure talking to the scan service: transport,
// non-2xx status, bad body, or an error carried in the payload.
type RequestError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("server error: %d", e.StatusCode)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return "request failed"
	}
}

func (e *RequestError) Unwrap() error { return e.Err }

// Kind names the error class for logs and the scan-error store
func Kind(err error) string {
	var ve *ValidationError
	var re *RequestError
	switch {
	case errors.As(err, &ve):
		return "validation"
	case errors.As(err, &re):
		return "request"
	default:
		return "internal"
	}
}
