package summary

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"risclens_backend/platform/logger"
)

type stubConfig struct {
	key, baseURL, model string
}

func (s stubConfig) GetOpenAIAPIKey() string  { return s.key }
func (s stubConfig) GetOpenAIBaseURL() string { return s.baseURL }
func (s stubConfig) GetOpenAIModel() string   { return s.model }
func (s stubConfig) IsSummaryEnabled() bool   { return s.key != "" }

func testLogger() *logger.Logger {
	return logger.New("development")
}

func TestSummarizeViaAPI(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("authorization = %q", auth)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req["model"] != "gpt-4o-mini" {
			t.Errorf("model = %v", req["model"])
		}
		msgs := req["messages"].([]any)
		gotPrompt = msgs[0].(map[string]any)["content"].(string)

		content, _ := json.Marshal(map[string]string{"ai_summary": "Acme builds secure widgets."})
		resp := map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": string(content)}}},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewClient(stubConfig{key: "sk-test", baseURL: srv.URL, model: "gpt-4o-mini"}, testLogger())
	got := c.Summarize(context.Background(), Input{
		Domain:         "acme.io",
		DiscoveredURLs: []string{"https://acme.io/security"},
		DetectedTools:  []string{"Vanta"},
		CombinedText:   "We are SOC 2 certified.",
		PageCount:      1,
	})

	if got != "Acme builds secure widgets." {
		t.Fatalf("summary = %q", got)
	}
	for _, want := range []string{"Domain: acme.io", "Pages found: https://acme.io/security", "Compliance tools detected: Vanta", "We are SOC 2 certified."} {
		if !strings.Contains(gotPrompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, gotPrompt)
		}
	}
}

func TestSummarizeFallsBackOnServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(stubConfig{key: "sk-test", baseURL: srv.URL, model: "gpt-4o-mini"}, testLogger())
	got := c.Summarize(context.Background(), Input{Domain: "acme.io"})

	if got != "acme.io is a technology company with an established online presence." {
		t.Fatalf("summary = %q", got)
	}
}

func TestSummarizeWithoutKeyUsesHeuristic(t *testing.T) {
	c := NewClient(stubConfig{baseURL: "https://unused.invalid"}, testLogger())
	got := c.Summarize(context.Background(), Input{
		Domain:                 "acme.io",
		DetectedCertifications: []string{"SOC 2 Type II", "ISO 27001"},
		DetectedTools:          []string{"Drata"},
	})

	want := "acme.io demonstrates a strong security posture with certifications like SOC 2 Type II, ISO 27001 and utilizes Drata for compliance."
	if got != want {
		t.Fatalf("summary = %q, want %q", got, want)
	}
}

func TestFallbackVariants(t *testing.T) {
	cases := []struct {
		in   Input
		want string
	}{
		{
			Input{Domain: "acme.io"},
			"acme.io is a technology company with an established online presence.",
		},
		{
			Input{Domain: "acme.io", DetectedCertifications: []string{"GDPR"}},
			"acme.io demonstrates a strong security posture with certifications like GDPR.",
		},
		{
			Input{Domain: "acme.io", DetectedTools: []string{"Vanta"}},
			"acme.io demonstrates a strong security posture and utilizes Vanta for compliance.",
		},
	}
	for _, tc := range cases {
		if got := Fallback(tc.in); got != tc.want {
			t.Fatalf("Fallback(%+v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
