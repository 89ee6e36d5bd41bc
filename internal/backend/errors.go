package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrTransport marks failures where no response was received.
var ErrTransport = errors.New("network error")

// APIError is a 4xx/5xx answer from the backend. Detail is already
// normalized into a single human-readable string.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Detail)
}

// StatusCode returns the HTTP status of an *APIError in err's chain, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Message turns any client error into the text shown to the user.
// Backend rejection details are passed through verbatim.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	if errors.Is(err, ErrTransport) {
		return "Network error: the server could not be reached."
	}
	return err.Error()
}

type fieldError struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// NormalizeDetail extracts the "detail" payload of an error body. A
// string passes through, an array of field errors becomes their
// messages joined by "; ", and any other value is serialized as JSON.
func NormalizeDetail(body []byte, statusCode int) string {
	var envelope struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	trimmed := bytes.TrimSpace(body)
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		if len(trimmed) > 0 {
			return string(trimmed)
		}
		return http.StatusText(statusCode)
	}

	if len(envelope.Detail) > 0 && !bytes.Equal(envelope.Detail, []byte("null")) {
		return detailString(envelope.Detail)
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	if envelope.Error != "" {
		return envelope.Error
	}
	return http.StatusText(statusCode)
}

func detailString(raw json.RawMessage) string {
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err == nil {
			messages := make([]string, 0, len(items))
			for _, item := range items {
				messages = append(messages, itemMessage(item))
			}
			return strings.Join(messages, "; ")
		}
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return string(raw)
	}
	return compact.String()
}

func itemMessage(item json.RawMessage) string {
	var fe fieldError
	if err := json.Unmarshal(item, &fe); err == nil && fe.Msg != "" {
		return fe.Msg
	}
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		return s
	}
	return string(item)
}
