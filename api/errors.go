package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnauthorized is the sentinel wrapped by every AuthError so callers can
// discriminate with errors.Is.
var ErrUnauthorized = errors.New("api: unauthorized")

// AuthError reports a 401 from the API: expired token or bad credentials.
// It is surfaced to the caller and never retried automatically.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "api: authentication failed"
	}
	return fmt.Sprintf("api: authentication failed: %s", e.Message)
}

func (e *AuthError) Unwrap() error { return ErrUnauthorized }

// ServerValidationError reports a 400/422 carrying field-level detail. The
// Detail string comes verbatim from the response body's "detail" member and
// is meant to be shown to the user unchanged.
type ServerValidationError struct {
	StatusCode int
	Detail     string
	Fields     map[string][]string
}

func (e *ServerValidationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: validation failed (%d): %s", e.StatusCode, e.Detail)
	}
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for field, msgs := range e.Fields {
			parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, "; ")))
		}
		return fmt.Sprintf("api: validation failed (%d): %s", e.StatusCode, strings.Join(parts, ", "))
	}
	return fmt.Sprintf("api: validation failed (%d)", e.StatusCode)
}

// APIError reports any other non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: request failed with status %d: %s", e.StatusCode, e.Message)
}

// NetworkError reports a transport failure: the request never produced an
// HTTP response. Foreground operations surface it; background refreshes
// swallow and log it.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("api: network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// errorBody captures the shapes the API uses for failures: a bare
// {"detail": ...}, the {success, message} envelope, or a field->messages map.
type errorBody struct {
	Detail  string          `json:"detail"`
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
}

func decodeError(statusCode int, body []byte) error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)
	message := eb.Detail
	if message == "" {
		message = eb.Message
	}

	switch {
	case statusCode == http.StatusUnauthorized:
		return &AuthError{Message: message}
	case statusCode == http.StatusBadRequest || statusCode == http.StatusUnprocessableEntity:
		return &ServerValidationError{
			StatusCode: statusCode,
			Detail:     eb.Detail,
			Fields:     decodeFieldErrors(eb.Errors, body),
		}
	default:
		return &APIError{StatusCode: statusCode, Message: message}
	}
}

// decodeFieldErrors handles both {"errors": {field: [...]}} and DRF's bare
// {field: [...]} body. Values may be a single string or a list of strings.
func decodeFieldErrors(explicit json.RawMessage, body []byte) map[string][]string {
	raw := map[string]json.RawMessage{}
	if len(explicit) > 0 {
		_ = json.Unmarshal(explicit, &raw)
	} else {
		_ = json.Unmarshal(body, &raw)
	}

	fields := map[string][]string{}
	for key, val := range raw {
		if key == "detail" || key == "message" || key == "success" {
			continue
		}
		var list []string
		if err := json.Unmarshal(val, &list); err == nil {
			fields[key] = list
			continue
		}
		var single string
		if err := json.Unmarshal(val, &single); err == nil {
			fields[key] = []string{single}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
