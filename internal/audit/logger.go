// Package audit implements the opt-in debug audit trail. Events are scrubbed
// of PII, sampled, enriched with request metadata, and persisted out of band
// so that logging can never slow down or break a request path.
package audit

import (
	"context"
	"math/rand"
	"regexp"
	"time"

	"risclens_backend/platform/config"
	"risclens_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	maxStringLength = 200
	persistTimeout  = 5 * time.Second
)

// emailRe keeps the first character of the local part and the full domain.
var emailRe = regexp.MustCompile(`([^@\s])[^@\s]*(@.+)`)

// Options carries per-event correlation fields.
type Options struct {
	LeadID string
	// DebugSessionID marks an explicit debugging session; events carrying it
	// bypass sampling.
	DebugSessionID string
	Route          string
}

// Store persists scrubbed audit events.
type Store interface {
	InsertEvent(ctx context.Context, eventType string, payload map[string]any) error
}

// Logger is the audit event sink. A nil Logger is a valid no-op.
type Logger struct {
	store      Store
	enabled    bool
	sampleRate float64
	env        string
	randFloat  func() float64
	log        *logger.Logger
}

// NewLogger builds the audit logger from configuration.
func NewLogger(cfg config.AuditConfig, store Store, log *logger.Logger) *Logger {
	return &Logger{
		store:      store,
		enabled:    cfg.GetAuditDebugEnabled(),
		sampleRate: cfg.GetAuditSampleRate(),
		env:        cfg.GetEnv(),
		randFloat:  rand.Float64,
		log:        log,
	}
}

// Log records one audit event. It returns immediately; persistence happens in
// a detached goroutine and any failure is logged locally, never surfaced.
func (l *Logger) Log(ctx context.Context, eventType string, details map[string]any, opts Options) {
	if l == nil || !l.enabled || l.store == nil {
		return
	}

	sampled := l.randFloat() < l.sampleRate
	if !sampled && opts.DebugSessionID == "" {
		return
	}

	if details == nil {
		details = map[string]any{}
	}

	payload := Truncate(Redact(details)).(map[string]any)
	payload["_metadata"] = map[string]any{
		"is_debug":         true,
		"environment":      l.env,
		"request_id":       uuid.NewString(),
		"debug_session_id": opts.DebugSessionID,
		"lead_id":          opts.LeadID,
		"route":            opts.Route,
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				l.log.Error("audit persist panicked", "event_type", eventType, "panic", r)
			}
		}()

		persistCtx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		if err := l.store.InsertEvent(persistCtx, eventType, payload); err != nil {
			l.log.Error("audit persist failed", "event_type", eventType, "error", err.Error())
		}
	}()
}

// Redact masks email addresses anywhere in the value, keeping the first
// character of the local part. Recurses into maps and slices.
func Redact(value any) any {
	switch v := value.(type) {
	case string:
		return emailRe.ReplaceAllString(v, "${1}***${2}")
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Redact(item)
		}
		return out
	case []string:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Redact(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = Redact(item)
		}
		return out
	default:
		return value
	}
}

// Truncate caps long strings with an explicit marker. Recurses like Redact.
func Truncate(value any) any {
	switch v := value.(type) {
	case string:
		if len(v) > maxStringLength {
			return v[:maxStringLength] + "... [TRUNCATED]"
		}
		return v
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Truncate(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = Truncate(item)
		}
		return out
	default:
		return value
	}
}
