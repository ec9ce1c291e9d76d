// Package intel wires the extraction pipeline stages into the admin-facing
// intelligence service: probe, classify, score, summarize, persist.
package intel

import (
	"context"
	"strings"
	"time"

	"risclens_backend/internal/audit"
	"risclens_backend/internal/events"
	"risclens_backend/internal/intel/classify"
	"risclens_backend/internal/intel/domain"
	"risclens_backend/internal/intel/scoring"
	"risclens_backend/internal/intel/summary"
	"risclens_backend/platform/logger"
)

// Prober runs the full path probe for one target.
type Prober interface {
	Probe(ctx context.Context, target domain.ScrapeTarget) domain.ProbeResult
}

// Repository persists and reads extraction results keyed by domain slug.
type Repository interface {
	UpsertSignals(ctx context.Context, result domain.ExtractionResult) error
	GetBySlug(ctx context.Context, slug string) (*domain.ExtractionResult, error)
}

// Archiver stores raw page snapshots. Implementations log their own failures;
// archiving is never allowed to affect extraction.
type Archiver interface {
	Archive(ctx context.Context, host string, pages []domain.Page)
}

// Service is the extraction orchestrator.
type Service struct {
	prober       Prober
	summarizer   summary.Summarizer
	repo         Repository
	archiver     Archiver
	auditor      *audit.Logger
	bus          events.Bus
	scrapeMethod string
	log          *logger.Logger
}

// NewService builds the orchestrator. repo and archiver may be nil; auditor
// may be nil (a nil audit logger is a no-op).
func NewService(
	prober Prober,
	summarizer summary.Summarizer,
	repo Repository,
	archiver Archiver,
	auditor *audit.Logger,
	bus events.Bus,
	browserlessEnabled bool,
	log *logger.Logger,
) *Service {
	method := "fetch"
	if browserlessEnabled {
		method = "browserless"
	}
	return &Service{
		prober:       prober,
		summarizer:   summarizer,
		repo:         repo,
		archiver:     archiver,
		auditor:      auditor,
		bus:          bus,
		scrapeMethod: method,
		log:          log,
	}
}

// Extract runs the full pipeline for one raw domain. It always returns a
// usable result: fetch failures, persistence failures, and summary failures
// degrade the result but never abort it.
func (s *Service) Extract(ctx context.Context, rawDomain string) domain.ExtractionResult {
	target := domain.NewScrapeTarget(rawDomain)
	probeRes := s.prober.Probe(ctx, target)

	markers := domain.Markers{
		domain.MarkerSecurityPage:          false,
		domain.MarkerTrustPage:             false,
		domain.MarkerSOC2:                  false,
		domain.MarkerComplianceTool:        false,
		domain.MarkerResponsibleDisclosure: false,
		domain.MarkerSecurityContact:       false,
	}

	// Path-derived markers come from the URLs that answered, independent of
	// page content.
	for _, u := range probeRes.DiscoveredURLs {
		if strings.Contains(u, "security") || strings.Contains(u, "compliance") {
			markers[domain.MarkerSecurityPage] = true
		}
		if strings.Contains(u, "trust") {
			markers[domain.MarkerTrustPage] = true
		}
	}

	var combinedHTML strings.Builder
	for _, page := range probeRes.Pages {
		combinedHTML.WriteString(page.HTML)
	}

	sig := classify.Detect(probeRes.CombinedText, combinedHTML.String())
	sig.ApplyTo(markers)

	breakdown, finalScore := scoring.Score(markers)

	result := domain.ExtractionResult{
		Domain:                 target.Host,
		Markers:                markers,
		ScoreBreakdown:         breakdown,
		FinalScore:             finalScore,
		Indexable:              scoring.Indexable(finalScore),
		DiscoveredURLs:         probeRes.DiscoveredURLs,
		SecurityLinks:          probeRes.SecurityLinks,
		DetectedTools:          sig.DetectedTools,
		DetectedCertifications: sig.DetectedCertifications,
		ScrapeMethod:           s.scrapeMethod,
		ExtractedAt:            time.Now().UTC(),
	}

	if len(probeRes.CombinedText) > 10 || len(probeRes.Pages) == 0 {
		result.AISummary = s.summarizer.Summarize(ctx, summary.Input{
			Domain:                 target.Host,
			DiscoveredURLs:         probeRes.DiscoveredURLs,
			DetectedTools:          sig.DetectedTools,
			DetectedCertifications: sig.DetectedCertifications,
			CombinedText:           probeRes.CombinedText,
			PageCount:              len(probeRes.Pages),
		})
	}

	if s.archiver != nil && len(probeRes.Pages) > 0 {
		s.archiver.Archive(ctx, target.Host, probeRes.Pages)
	}

	if s.repo != nil {
		if err := s.repo.UpsertSignals(ctx, result); err != nil {
			s.log.DatabaseError("upsert company signals", err)
		}
	}

	s.auditor.Log(ctx, "intelligence.extracted", map[string]any{
		"domain":      result.Domain,
		"final_score": result.FinalScore,
		"indexable":   result.Indexable,
		"pages_found": len(probeRes.Pages),
	}, audit.Options{Route: "intelligence/extract"})

	s.bus.Publish(ctx, events.DomainExtracted{
		BaseEvent: events.NewBaseEvent(),
		Domain:    result.Domain,
		Score:     result.FinalScore,
		Indexable: result.Indexable,
	})

	s.log.Info("signal extraction completed",
		"domain", result.Domain,
		"score", result.FinalScore,
		"indexable", result.Indexable,
		"pages", len(probeRes.Pages),
		"method", result.ScrapeMethod,
	)

	return result
}

// GetCompany reads a persisted extraction result by its domain slug.
func (s *Service) GetCompany(ctx context.Context, slug string) (*domain.ExtractionResult, error) {
	return s.repo.GetBySlug(ctx, domain.NormalizeDomain(slug))
}
