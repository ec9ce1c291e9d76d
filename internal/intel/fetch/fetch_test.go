package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"risclens_backend/platform/logger"
)

func testLogger() *logger.Logger {
	return logger.New("development")
}

func TestDirectFetcherSuccess(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`<html><head><title>Security</title></head><body><p>SOC 2 Type II</p></body></html>`))
	}))
	defer srv.Close()

	f := NewDirectFetcher(0, testLogger())
	res := f.Fetch(context.Background(), srv.URL+"/security")

	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.Title != "Security" {
		t.Fatalf("title = %q", res.Title)
	}
	if !strings.Contains(res.Text, "SOC 2 Type II") {
		t.Fatalf("text = %q", res.Text)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if !strings.Contains(gotUA, "RiscLens-Bot") {
		t.Fatalf("user agent not spoofed: %q", gotUA)
	}
}

func TestDirectFetcherNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewDirectFetcher(0, testLogger())
	res := f.Fetch(context.Background(), srv.URL)

	if res.Success {
		t.Fatal("expected failure result")
	}
	if res.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if res.Error == "" {
		t.Fatal("expected error message")
	}
}

func TestDirectFetcherTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	f := NewDirectFetcher(50*time.Millisecond, testLogger())
	res := f.Fetch(context.Background(), srv.URL)

	if res.Success {
		t.Fatal("expected timeout failure")
	}
	if res.Error == "" {
		t.Fatal("expected error message on timeout")
	}
}

func TestBrowserlessFetcherSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/content" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("token") != "tok123" {
			t.Errorf("token = %q", r.URL.Query().Get("token"))
		}
		w.Write([]byte(`<html><head><title>Trust</title></head><body>Vanta powers our compliance</body></html>`))
	}))
	defer srv.Close()

	f := NewBrowserlessFetcher(srv.URL, "tok123", testLogger())
	res := f.Fetch(context.Background(), "https://example.com/trust")

	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
	if res.Title != "Trust" {
		t.Fatalf("title = %q", res.Title)
	}
	if !strings.Contains(res.Text, "Vanta") {
		t.Fatalf("text = %q", res.Text)
	}
}

func TestBrowserlessFetcherServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "render queue full", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewBrowserlessFetcher(srv.URL, "tok123", testLogger())
	res := f.Fetch(context.Background(), "https://example.com/security")

	if res.Success {
		t.Fatal("expected failure result")
	}
	if res.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if !strings.Contains(res.Error, "render queue full") {
		t.Fatalf("error should carry service body, got %q", res.Error)
	}
}
