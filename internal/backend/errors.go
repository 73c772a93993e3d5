package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"cogniflow/internal/workflow"
)

// APIError is a structured failure returned by the backend. Message holds
// the normalized detail and is what every error display shows.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Is lets errors.Is(err, workflow.ErrNotFound) match 404 responses, so
// callers can distinguish a vanished workflow from a generic failure.
func (e *APIError) Is(target error) bool {
	return target == workflow.ErrNotFound && e.Status == http.StatusNotFound
}

// decodeError turns an error response into an APIError carrying the
// normalized message.
func decodeError(status int, body []byte) error {
	return &APIError{Status: status, Message: normalizeDetail(status, body)}
}

// normalizeDetail extracts a display message from a backend error
// payload. This is the single error-normalization rule for the whole
// client: a string detail is used as-is, a list of sub-errors joins each
// one's msg (or a stringified form) with "; ", anything else falls back
// to a generic status message.
func normalizeDetail(status int, body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var message string
		if json.Unmarshal(payload.Detail, &message) == nil && message != "" {
			return message
		}

		var subErrors []map[string]any
		if json.Unmarshal(payload.Detail, &subErrors) == nil && len(subErrors) > 0 {
			parts := make([]string, 0, len(subErrors))
			for _, sub := range subErrors {
				if msg, ok := sub["msg"].(string); ok {
					parts = append(parts, msg)
					continue
				}
				parts = append(parts, fmt.Sprintf("%v", sub))
			}
			return strings.Join(parts, "; ")
		}
	}

	return fmt.Sprintf("backend request failed (status %d)", status)
}
