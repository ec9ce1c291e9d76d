package intel

import (
	"context"
	"testing"
	"time"

	"risclens_backend/internal/events"
	"risclens_backend/internal/intel/domain"
	"risclens_backend/internal/intel/summary"
	"risclens_backend/platform/logger"
)

type fakeProber struct {
	result domain.ProbeResult
	got    domain.ScrapeTarget
}

func (f *fakeProber) Probe(_ context.Context, target domain.ScrapeTarget) domain.ProbeResult {
	f.got = target
	return f.result
}

type fakeSummarizer struct{}

func (fakeSummarizer) Summarize(_ context.Context, in summary.Input) string {
	return summary.Fallback(in)
}

type fakeRepo struct {
	upserted []domain.ExtractionResult
}

func (f *fakeRepo) UpsertSignals(_ context.Context, result domain.ExtractionResult) error {
	f.upserted = append(f.upserted, result)
	return nil
}

func (f *fakeRepo) GetBySlug(_ context.Context, slug string) (*domain.ExtractionResult, error) {
	for i := range f.upserted {
		if f.upserted[i].Domain == slug {
			return &f.upserted[i], nil
		}
	}
	return nil, nil
}

func TestExtractSecurityPageScenario(t *testing.T) {
	securityHTML := `<html><body>
<p>We maintain a SOC 2 Type II report, renewed annually.</p>
<p>Compliance is continuously monitored with Vanta.</p>
<p>Questions? Email security@acme.io.</p>
</body></html>`

	prober := &fakeProber{result: domain.ProbeResult{
		Pages: []domain.Page{{
			URL:  "https://acme.io/security",
			HTML: securityHTML,
			Text: "We maintain a SOC 2 Type II report, renewed annually. Compliance is continuously monitored with Vanta. Questions? Email security@acme.io.",
		}},
		DiscoveredURLs: []string{"https://acme.io/security"},
		CombinedText:   "\n\n=== https://acme.io/security ===\nWe maintain a SOC 2 Type II report, renewed annually. Compliance is continuously monitored with Vanta. Questions? Email security@acme.io.",
		SecurityLinks:  []string{"https://acme.io/security"},
	}}
	repo := &fakeRepo{}
	bus := events.NewInMemoryBus(logger.New("development"))

	extracted := make(chan events.DomainExtracted, 1)
	bus.Subscribe(events.EventDomainExtracted, events.HandlerFunc(func(_ context.Context, e events.Event) error {
		extracted <- e.(events.DomainExtracted)
		return nil
	}))

	svc := NewService(prober, fakeSummarizer{}, repo, nil, nil, bus, false, logger.New("development"))
	result := svc.Extract(context.Background(), "https://WWW.Acme.io/some/path")

	if prober.got.Host != "acme.io" {
		t.Fatalf("probed host = %q", prober.got.Host)
	}

	// security page 20 + soc2 20 + tool 15 + contact 10; trust and
	// disclosure absent.
	if result.FinalScore != 65 {
		t.Fatalf("final score = %d, want 65 (breakdown %v)", result.FinalScore, result.ScoreBreakdown)
	}
	if !result.Indexable {
		t.Fatal("score 65 must be indexable")
	}
	if result.Markers[domain.MarkerTrustPage] || result.Markers[domain.MarkerResponsibleDisclosure] {
		t.Fatalf("markers = %v", result.Markers)
	}
	if len(result.DetectedTools) != 1 || result.DetectedTools[0] != "Vanta" {
		t.Fatalf("tools = %v", result.DetectedTools)
	}
	if len(result.DetectedCertifications) == 0 || result.DetectedCertifications[0] != "SOC 2 Type II" {
		t.Fatalf("certs = %v", result.DetectedCertifications)
	}
	if result.ScrapeMethod != "fetch" {
		t.Fatalf("scrape method = %q", result.ScrapeMethod)
	}
	if result.AISummary == "" {
		t.Fatal("summary missing")
	}

	if len(repo.upserted) != 1 || repo.upserted[0].Domain != "acme.io" {
		t.Fatalf("upserted = %+v", repo.upserted)
	}

	select {
	case e := <-extracted:
		if e.Domain != "acme.io" || e.Score != 65 || !e.Indexable {
			t.Fatalf("event = %+v", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("DomainExtracted event not published")
	}
}

func TestExtractNoPagesStillSummarizes(t *testing.T) {
	prober := &fakeProber{result: domain.ProbeResult{}}
	bus := events.NewInMemoryBus(logger.New("development"))

	svc := NewService(prober, fakeSummarizer{}, nil, nil, nil, bus, true, logger.New("development"))
	result := svc.Extract(context.Background(), "ghost.example")

	if result.FinalScore != 0 {
		t.Fatalf("score = %d", result.FinalScore)
	}
	if result.Indexable {
		t.Fatal("score 0 must not be indexable")
	}
	if result.AISummary != "ghost.example is a technology company with an established online presence." {
		t.Fatalf("summary = %q", result.AISummary)
	}
	if result.ScrapeMethod != "browserless" {
		t.Fatalf("scrape method = %q", result.ScrapeMethod)
	}
}

func TestExtractTrustPageMarker(t *testing.T) {
	prober := &fakeProber{result: domain.ProbeResult{
		Pages:          []domain.Page{{URL: "https://acme.io/trust-center", HTML: "<p>Welcome</p>", Text: "Welcome to our trust center portal today"}},
		DiscoveredURLs: []string{"https://acme.io/trust-center"},
		CombinedText:   "Welcome to our trust center portal today",
	}}
	bus := events.NewInMemoryBus(logger.New("development"))

	svc := NewService(prober, fakeSummarizer{}, nil, nil, nil, bus, false, logger.New("development"))
	result := svc.Extract(context.Background(), "acme.io")

	if !result.Markers[domain.MarkerTrustPage] {
		t.Fatal("trust marker should be set from URL path")
	}
	if result.Markers[domain.MarkerSecurityPage] {
		t.Fatal("security marker should not be set")
	}
	if result.FinalScore != 20 {
		t.Fatalf("score = %d, want 20", result.FinalScore)
	}
}
