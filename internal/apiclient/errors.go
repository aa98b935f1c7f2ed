package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"pkt.systems/pslog"
)

// StatusError is a non-200 answer from the API.
type StatusError struct {
	Status  int
	Message string
	Body    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api returned %d", e.Status)
}

// Forbidden reports whether the request was refused.
func (e *StatusError) Forbidden() bool {
	return e.Status == http.StatusForbidden
}

type envelope struct {
	Error   string `json:"error"`
	Success string `json:"success"`
}

var pseudoEnvelope = regexp.MustCompile(`^\{\s*'(error|success)'\s*:\s*'(.*)'\s*\}$`)

// parseEnvelope reads {error}/{success} bodies. The server writes them with
// single quotes and unescaped apostrophes, so strict JSON is tried first, then
// a quote swap, then the literal single-key shape.
func parseEnvelope(body []byte) (envelope, bool) {
	var env envelope
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return env, false
	}
	if err := json.Unmarshal([]byte(trimmed), &env); err == nil {
		return env, true
	}
	if err := json.Unmarshal([]byte(strings.ReplaceAll(trimmed, "'", `"`)), &env); err == nil {
		return env, true
	}
	if m := pseudoEnvelope.FindStringSubmatch(trimmed); m != nil {
		if m[1] == "error" {
			env.Error = m[2]
		} else {
			env.Success = m[2]
		}
		return env, true
	}
	return envelope{}, false
}

func statusError(ctx context.Context, endpoint string, status int, body []byte) error {
	env, ok := parseEnvelope(body)
	err := &StatusError{Status: status, Message: env.Error, Body: string(body)}
	log := pslog.Ctx(ctx).With("endpoint", endpoint, "status", status)
	switch {
	case status == http.StatusBadRequest:
		log.Error("api rejected request", "error", env.Error)
	case status == http.StatusForbidden || status == http.StatusMethodNotAllowed:
		log.Warn("api refused request", "error", env.Error)
	case !ok:
		log.Error("api returned unexpected response", "body", string(body))
	default:
		log.Error("api returned unexpected status", "error", env.Error, "body", string(body))
	}
	return err
}
