package bookingapi

import (
	"bazaar/shared/failure"
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"
)

const maxMessageLength = 512

// classify turns a non-2xx response into the failure taxonomy used by the services.
// Conflicts keep the upstream message verbatim.
func classify(status int, body []byte) error {
	message := extractMessage(body)
	if message == "" {
		message = strings.ToLower(http.StatusText(status))
	}

	switch {
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return failure.BadRequestFromString(message)
	case status == http.StatusUnauthorized:
		return failure.Unauthorized(message)
	case status == http.StatusForbidden:
		return failure.Forbidden(message)
	case status == http.StatusNotFound:
		return failure.NotFound(message)
	case status == http.StatusConflict:
		return failure.Conflict(message)
	case status == http.StatusTooManyRequests, status >= http.StatusInternalServerError:
		return failure.ServiceUnavailable("booking api unavailable: " + message)
	default:
		return &failure.Failure{Code: status, Message: message}
	}
}

// extractMessage reads the human readable error out of the common error body shapes:
// {"detail": ...}, {"message": ...}, {"error": ...} or {"field": ["msg", ...]}.
func extractMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return truncate(trimmed)
	}

	for _, key := range []string{"detail", "message", "error", "non_field_errors"} {
		if msg := stringOrFirst(fields[key]); msg != "" {
			return truncate(msg)
		}
	}

	for key, raw := range fields {
		if msg := stringOrFirst(raw); msg != "" {
			return truncate(key + ": " + msg)
		}
	}

	return truncate(trimmed)
}

func stringOrFirst(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return strings.TrimSpace(list[0])
	}

	return ""
}

// truncate caps s at maxMessageLength bytes without splitting a multi-byte rune.
func truncate(s string) string {
	if len(s) <= maxMessageLength {
		return s
	}

	cut := maxMessageLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}

	return s[:cut]
}
