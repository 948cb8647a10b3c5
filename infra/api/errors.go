package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/CrestNiraj12/reelhire/domain"
)

// ErrorCode classifies an API failure.
type ErrorCode string

const (
	CodeBadRequest   ErrorCode = "BAD_REQUEST"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeTooLarge     ErrorCode = "PAYLOAD_TOO_LARGE"
	CodeRateLimited  ErrorCode = "RATE_LIMITED"
	CodeServer       ErrorCode = "SERVER_ERROR"
)

// Error is a non-2xx API response.
type Error struct {
	Method  string
	Path    string
	Status  int
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("API %s %s returned %d (%s): %s", e.Method, e.Path, e.Status, e.Code, e.Message)
}

// Is lets callers match API errors against the domain sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case domain.ErrNotFound:
		return e.Status == http.StatusNotFound
	case domain.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	}
	return false
}

// Temporary reports whether retrying later may succeed.
func (e *Error) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func newError(method, path string, status int, body []byte) *Error {
	e := &Error{Method: method, Path: path, Status: status, Code: codeFor(status)}
	var parsed errorBody
	if json.Unmarshal(body, &parsed) == nil {
		if parsed.Code != "" {
			e.Code = ErrorCode(strings.ToUpper(parsed.Code))
		}
		e.Message = parsed.Message
		if e.Message == "" {
			e.Message = parsed.Error
		}
	}
	if e.Message == "" {
		e.Message = strings.TrimSpace(string(body))
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

func codeFor(status int) ErrorCode {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return CodeUnauthorized
	case status == http.StatusNotFound:
		return CodeNotFound
	case status == http.StatusConflict:
		return CodeConflict
	case status == http.StatusRequestEntityTooLarge:
		return CodeTooLarge
	case status == http.StatusTooManyRequests:
		return CodeRateLimited
	case status >= 500:
		return CodeServer
	}
	return CodeBadRequest
}
