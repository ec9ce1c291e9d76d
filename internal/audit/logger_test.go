package audit

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"risclens_backend/platform/logger"
)

type stubConfig struct {
	enabled    bool
	sampleRate float64
}

func (s stubConfig) GetEnv() string              { return "test" }
func (s stubConfig) GetAuditDebugEnabled() bool  { return s.enabled }
func (s stubConfig) GetAuditSampleRate() float64 { return s.sampleRate }

type captureStore struct {
	mu     sync.Mutex
	events []capturedEvent
	done   chan struct{}
}

type capturedEvent struct {
	eventType string
	payload   map[string]any
}

func newCaptureStore() *captureStore {
	return &captureStore{done: make(chan struct{}, 16)}
}

func (s *captureStore) InsertEvent(_ context.Context, eventType string, payload map[string]any) error {
	s.mu.Lock()
	s.events = append(s.events, capturedEvent{eventType, payload})
	s.mu.Unlock()
	s.done <- struct{}{}
	return nil
}

func (s *captureStore) wait(t *testing.T) capturedEvent {
	t.Helper()
	select {
	case <-s.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for audit persist")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[len(s.events)-1]
}

func (s *captureStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func testAuditLogger(store Store, enabled bool, sampleRate float64, randFloat func() float64) *Logger {
	l := NewLogger(stubConfig{enabled: enabled, sampleRate: sampleRate}, store, logger.New("development"))
	if randFloat != nil {
		l.randFloat = randFloat
	}
	return l
}

func TestRedactEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"alex@company.com", "a***@company.com"},
		{"contact us at bob@example.org today", "contact us at b***@example.org today"},
		{"no emails here", "no emails here"},
		{"x@y.io", "x***@y.io"},
	}
	for _, tc := range cases {
		if got := Redact(tc.in); got != tc.want {
			t.Fatalf("Redact(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRedactRecursesIntoStructures(t *testing.T) {
	in := map[string]any{
		"email": "alex@company.com",
		"nested": map[string]any{
			"contacts": []any{"sue@corp.io", 42},
		},
	}
	out := Redact(in).(map[string]any)
	if out["email"] != "a***@company.com" {
		t.Fatalf("email = %v", out["email"])
	}
	contacts := out["nested"].(map[string]any)["contacts"].([]any)
	if contacts[0] != "s***@corp.io" {
		t.Fatalf("contacts[0] = %v", contacts[0])
	}
	if contacts[1] != 42 {
		t.Fatalf("non-string value changed: %v", contacts[1])
	}
}

func TestTruncateLongStrings(t *testing.T) {
	long := strings.Repeat("a", 250)
	got := Truncate(long).(string)
	if len(got) != maxStringLength+len("... [TRUNCATED]") {
		t.Fatalf("len = %d", len(got))
	}
	if !strings.HasSuffix(got, "... [TRUNCATED]") {
		t.Fatalf("missing marker: %q", got[len(got)-30:])
	}

	exact := strings.Repeat("b", maxStringLength)
	if Truncate(exact) != exact {
		t.Fatal("string at the limit must pass through unchanged")
	}
}

func TestLogDisabledNeverPersists(t *testing.T) {
	store := newCaptureStore()
	l := testAuditLogger(store, false, 1.0, func() float64 { return 0 })

	l.Log(context.Background(), "lead.viewed", map[string]any{"k": "v"}, Options{})

	time.Sleep(50 * time.Millisecond)
	if store.count() != 0 {
		t.Fatalf("disabled logger persisted %d events", store.count())
	}
}

func TestLogSampledOut(t *testing.T) {
	store := newCaptureStore()
	l := testAuditLogger(store, true, 0.05, func() float64 { return 0.99 })

	l.Log(context.Background(), "lead.viewed", map[string]any{"k": "v"}, Options{})

	time.Sleep(50 * time.Millisecond)
	if store.count() != 0 {
		t.Fatalf("sampled-out event persisted")
	}
}

func TestLogDebugSessionOverridesSampling(t *testing.T) {
	store := newCaptureStore()
	l := testAuditLogger(store, true, 0.05, func() float64 { return 0.99 })

	l.Log(context.Background(), "lead.viewed", map[string]any{"k": "v"}, Options{DebugSessionID: "sess-1"})

	ev := store.wait(t)
	if ev.eventType != "lead.viewed" {
		t.Fatalf("event type = %q", ev.eventType)
	}
	meta := ev.payload["_metadata"].(map[string]any)
	if meta["debug_session_id"] != "sess-1" {
		t.Fatalf("metadata = %v", meta)
	}
}

func TestLogScrubsAndEnriches(t *testing.T) {
	store := newCaptureStore()
	l := testAuditLogger(store, true, 1.0, func() float64 { return 0 })

	l.Log(context.Background(), "lead.created", map[string]any{
		"email": "alex@company.com",
		"note":  strings.Repeat("x", 300),
	}, Options{LeadID: "lead-7", Route: "/api/v1/leads"})

	ev := store.wait(t)
	if ev.payload["email"] != "a***@company.com" {
		t.Fatalf("email = %v", ev.payload["email"])
	}
	note := ev.payload["note"].(string)
	if !strings.HasSuffix(note, "... [TRUNCATED]") {
		t.Fatalf("note not truncated: %q", note[len(note)-20:])
	}

	meta := ev.payload["_metadata"].(map[string]any)
	if meta["is_debug"] != true || meta["environment"] != "test" {
		t.Fatalf("metadata = %v", meta)
	}
	if meta["lead_id"] != "lead-7" || meta["route"] != "/api/v1/leads" {
		t.Fatalf("metadata = %v", meta)
	}
	if meta["request_id"] == "" {
		t.Fatal("request_id missing")
	}
}

func TestNilLoggerIsNoOp(t *testing.T) {
	var l *Logger
	// Must not panic.
	l.Log(context.Background(), "anything", nil, Options{})
}
