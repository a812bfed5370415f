package base44

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is returned for any non-2xx response
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// HTTPStatus exposes the response status to error formatters
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}

func newAPIError(status int, body []byte) *APIError {
	return &APIError{
		StatusCode: status,
		Message:    extractMessage(status, body),
		Body:       body,
	}
}

// extractMessage prefers the error, message and detail fields of a JSON body
func extractMessage(status int, body []byte) string {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"error", "message", "detail"} {
			switch v := payload[key].(type) {
			case string:
				if v != "" {
					return v
				}
			case map[string]interface{}:
				if msg, ok := v["message"].(string); ok && msg != "" {
					return msg
				}
			}
		}
	}

	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 && !strings.HasPrefix(text, "{") {
		return text
	}
	return http.StatusText(status)
}
