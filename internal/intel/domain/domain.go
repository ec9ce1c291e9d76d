// Package domain defines the core types of the signal extraction pipeline.
// Everything here is plain data; the pipeline stages in the sibling packages
// produce and consume these values within a single extraction call.
package domain

import (
	"net/url"
	"strings"
	"time"
)

// Marker names. The same keys are used in Markers, ScoreBreakdown, and the
// persisted result, so they are defined once here.
const (
	MarkerSecurityPage          = "has_security_page"
	MarkerTrustPage             = "has_trust_page"
	MarkerSOC2                  = "mentions_soc2"
	MarkerComplianceTool        = "mentions_compliance_tool"
	MarkerResponsibleDisclosure = "has_responsible_disclosure"
	MarkerSecurityContact       = "has_security_contact"
)

// MarkerNames lists all markers in their canonical order.
var MarkerNames = []string{
	MarkerSecurityPage,
	MarkerTrustPage,
	MarkerSOC2,
	MarkerComplianceTool,
	MarkerResponsibleDisclosure,
	MarkerSecurityContact,
}

// ScrapeTarget is a normalized company domain. Created once per extraction
// call and never mutated.
type ScrapeTarget struct {
	Host string
}

// NewScrapeTarget normalizes the raw input into a target.
func NewScrapeTarget(raw string) ScrapeTarget {
	return ScrapeTarget{Host: NormalizeDomain(raw)}
}

// PageResult is the outcome of fetching a single probe URL.
// One is produced per probed path; failures carry Error and StatusCode.
type PageResult struct {
	URL        string
	Success    bool
	HTML       string
	Text       string
	Title      string
	StatusCode int
	Error      string
}

// Page is a successfully scraped probe page with its extracted links.
type Page struct {
	URL   string
	HTML  string
	Text  string
	Title string
	Links []string
}

// ProbeResult aggregates a full probe run over a domain.
type ProbeResult struct {
	Pages          []Page
	DiscoveredURLs []string
	CombinedText   string
	SecurityLinks  []string
}

// Markers is the set of boolean posture facts derived for a domain.
// Recomputed in full on every run; there is no incremental update.
type Markers map[string]bool

// ScoreBreakdown maps each marker to the weight it contributed (0 if unset).
type ScoreBreakdown map[string]int

// ExtractionResult is the only artifact of an extraction call that outlives
// it. Persisted keyed by the domain slug.
type ExtractionResult struct {
	Domain                 string         `json:"domain"`
	Markers                Markers        `json:"markers"`
	ScoreBreakdown         ScoreBreakdown `json:"score_breakdown"`
	FinalScore             int            `json:"final_score"`
	Indexable              bool           `json:"indexable"`
	AISummary              string         `json:"ai_summary"`
	DiscoveredURLs         []string       `json:"discovered_urls"`
	SecurityLinks          []string       `json:"security_links"`
	DetectedTools          []string       `json:"detected_tools"`
	DetectedCertifications []string       `json:"detected_certifications"`
	ScrapeMethod           string         `json:"scrape_method"`
	ExtractedAt            time.Time      `json:"extracted_at"`
}

// NormalizeDomain canonicalizes a raw domain or URL into a bare lowercase
// host: scheme, path, and a leading "www." are stripped. It never fails; on
// unparseable input it falls back to a lowercase/trim of the raw string.
// Idempotent: NormalizeDomain(NormalizeDomain(x)) == NormalizeDomain(x).
func NormalizeDomain(raw string) string {
	d := strings.ToLower(strings.TrimSpace(raw))
	if strings.Contains(d, "://") {
		if u, err := url.Parse(d); err == nil && u.Hostname() != "" {
			d = u.Hostname()
		}
	}
	if idx := strings.IndexByte(d, '/'); idx >= 0 {
		d = d[:idx]
	}
	return strings.TrimPrefix(d, "www.")
}
