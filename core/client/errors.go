package client

import (
	"encoding/json"
	"net/http"

	"github.com/gradegator/dashboard/core"
)

// decodeError builds the tagged error for a non-2xx response. The backend
// answers either {"detail": "..."}, {"error": "..."} or a DRF-style map of
// field name to message list; anything else falls back to a generic message.
func decodeError(status int, body []byte) *core.APIError {
	apiErr := &core.APIError{Status: status}

	switch {
	case status == http.StatusUnauthorized:
		apiErr.Kind = core.KindAuth
	case status == http.StatusForbidden:
		apiErr.Kind = core.KindForbidden
	case status == http.StatusNotFound:
		apiErr.Kind = core.KindNotFound
	case status >= 500:
		apiErr.Kind = core.KindServer
	default:
		apiErr.Kind = core.KindValidation
	}

	apiErr.Detail, apiErr.Fields = parseErrorBody(body)
	if apiErr.Detail == "" && len(apiErr.Fields) == 0 {
		apiErr.Detail = http.StatusText(status)
	}
	return apiErr
}

func parseErrorBody(body []byte) (detail string, fields map[string]string) {
	if len(body) == 0 {
		return "", nil
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", nil
	}

	for _, key := range []string{"detail", "error", "message"} {
		if raw, ok := payload[key]; ok {
			var s string
			if json.Unmarshal(raw, &s) == nil && s != "" {
				detail = s
				delete(payload, key)
				break
			}
		}
	}

	for field, raw := range payload {
		var msgs []string
		if json.Unmarshal(raw, &msgs) == nil && len(msgs) > 0 {
			if fields == nil {
				fields = make(map[string]string, len(payload))
			}
			fields[field] = msgs[0]
			continue
		}
		var msg string
		if json.Unmarshal(raw, &msg) == nil && msg != "" {
			if fields == nil {
				fields = make(map[string]string, len(payload))
			}
			fields[field] = msg
		}
	}
	return detail, fields
}
