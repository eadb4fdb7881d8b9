package perrors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"

	"go.uber.org/zap"
)

type ErrCode struct {
	Code   string `json:"code"`
	Status int    `json:"status"`
}

var (
	ErrCodeInvalidRequest      = ErrCode{"invalid_request", http.StatusBadRequest}
	ErrCodeUnauthenticated     = ErrCode{"unauthenticated", http.StatusUnauthorized}
	ErrCodeInvalidCredentials  = ErrCode{"unauthenticated", http.StatusBadRequest}
	ErrCodeForbidden           = ErrCode{"forbidden", http.StatusForbidden}
	ErrCodeNotFound            = ErrCode{"not_found", http.StatusNotFound}
	ErrCodeRuntimeNotFound     = ErrCode{"runtime_not_found", http.StatusInternalServerError}
	ErrCodeExecutionFailed     = ErrCode{"execution_failed", http.StatusInternalServerError}
	ErrCodeUpstreamUnavailable = ErrCode{"upstream_unavailable", http.StatusInternalServerError}
	ErrCodeInternalServer      = ErrCode{"internal_server_error", http.StatusInternalServerError}
)

// Err is the structured error every usecase returns. Message is safe to show
// to clients; Cause and Stacktrace are for logs only.
type Err struct {
	Message    string
	Cause      error
	Code       ErrCode
	Details    any
	Stacktrace []string
}

func (e *Err) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code.Code, e.Message)
}

func (e *Err) Unwrap() error {
	return e.Cause
}

func (e *Err) HttpStatus() int {
	return e.Code.Status
}

func (e *Err) Print(l *zap.Logger) {
	fields := []zap.Field{
		zap.String("code", e.Code.Code),
		zap.Int("status", e.Code.Status),
		zap.Error(e.Cause),
	}
	if e.Code.Status >= http.StatusInternalServerError {
		fields = append(fields, zap.Strings("stacktrace", e.Stacktrace))
		l.Error(e.Message, fields...)
		return
	}
	l.Debug(e.Message, fields...)
}

func New(code ErrCode, msg string, cause error) *Err {
	pc := make([]uintptr, 20)
	count := runtime.Callers(2, pc)
	frames := runtime.CallersFrames(pc[:count])

	var stacktrace []string
	for {
		frame, more := frames.Next()
		if frame.File != "" {
			stacktrace = append(stacktrace, fmt.Sprintf("%s:%d", frame.File, frame.Line))
		}
		if !more {
			break
		}
	}

	return &Err{
		Code:       code,
		Message:    msg,
		Cause:      cause,
		Stacktrace: stacktrace,
	}
}

// WithDetails attaches a payload that is rendered to the client verbatim.
func (e *Err) WithDetails(details any) *Err {
	e.Details = details
	return e
}

func NewErrInvalidRequest(msg string, err error) error {
	return New(ErrCodeInvalidRequest, msg, err)
}

func NewErrUnauthenticated(msg string, err error) error {
	return New(ErrCodeUnauthenticated, msg, err)
}

func NewErrInvalidCredentials(msg string) error {
	return New(ErrCodeInvalidCredentials, msg, nil)
}

func NewErrForbidden(msg string) error {
	return New(ErrCodeForbidden, msg, nil)
}

func NewErrNotFound(msg string) error {
	return New(ErrCodeNotFound, msg, nil)
}

func NewErrRuntimeNotFound(msg string, err error) error {
	return New(ErrCodeRuntimeNotFound, msg, err)
}

func NewErrExecutionFailed(msg string, err error, details any) error {
	return New(ErrCodeExecutionFailed, msg, err).WithDetails(details)
}

func NewErrUpstreamUnavailable(msg string, err error) error {
	return New(ErrCodeUpstreamUnavailable, msg, err)
}

func NewErrInternalServerError(msg string, err error) error {
	return New(ErrCodeInternalServer, msg, err)
}

// As extracts the structured error from err, wrapping anything unknown as an
// internal error so raw causes never reach a response body.
func As(err error) *Err {
	var e *Err
	if errors.As(err, &e) {
		return e
	}
	return New(ErrCodeInternalServer, "internal server error", err)
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrCode) bool {
	var e *Err
	return errors.As(err, &e) && e.Code == code
}
