// Package probe drives the page fetchers across the fixed candidate paths of
// a domain and accumulates the successful pages into a single probe result.
package probe

import (
	"context"
	"strings"
	"time"

	"risclens_backend/internal/intel/domain"
	"risclens_backend/internal/intel/fetch"
	"risclens_backend/platform/logger"

	"golang.org/x/time/rate"
)

// maxCombinedText bounds the corpus handed to classification and summary.
const maxCombinedText = 15000

// Options configures a Prober. Paths and SecurityKeywords are hand-tuned
// configuration data; empty slices fall back to the built-in defaults from
// platform/config at the composition root.
type Options struct {
	Paths            []string
	SecurityKeywords []string
	// Interval paces sequential requests against the target site. Zero
	// disables pacing.
	Interval time.Duration
}

// Prober visits every candidate path of a host, in order, one at a time.
type Prober struct {
	browser  fetch.Fetcher // nil when no rendering credential is configured
	direct   fetch.Fetcher
	paths    []string
	keywords []string
	limiter  *rate.Limiter
	log      *logger.Logger
}

// New creates a Prober. browser may be nil; direct is required.
func New(browser, direct fetch.Fetcher, opts Options, log *logger.Logger) *Prober {
	var limiter *rate.Limiter
	if opts.Interval > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.Interval), 1)
	}
	return &Prober{
		browser:  browser,
		direct:   direct,
		paths:    opts.Paths,
		keywords: opts.SecurityKeywords,
		limiter:  limiter,
		log:      log,
	}
}

// Probe visits all candidate paths sequentially; each fetch completes before
// the next begins, as a deliberate throttling policy toward the target site.
// Every path is attempted regardless of earlier failures. There is no early
// exit and no per-path retry.
func (p *Prober) Probe(ctx context.Context, target domain.ScrapeTarget) domain.ProbeResult {
	var (
		result   domain.ProbeResult
		combined strings.Builder
		allLinks []string
	)

	for _, path := range p.paths {
		if p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				break
			}
		}

		pageURL := "https://" + target.Host + path
		res := p.fetchPath(ctx, path, pageURL)
		if !res.Success || res.HTML == "" {
			continue
		}

		links := fetch.ExtractLinks(res.HTML, pageURL)
		allLinks = append(allLinks, links...)

		result.DiscoveredURLs = append(result.DiscoveredURLs, pageURL)
		result.Pages = append(result.Pages, domain.Page{
			URL:   pageURL,
			HTML:  res.HTML,
			Text:  res.Text,
			Title: res.Title,
			Links: links,
		})

		combined.WriteString("\n\n=== " + pageURL + " ===\n")
		combined.WriteString(res.Text)
	}

	result.CombinedText = truncate(combined.String(), maxCombinedText)
	result.SecurityLinks = p.filterSecurityLinks(allLinks)
	return result
}

// fetchPath picks the backend for one path. security.txt is a plain-text
// resource, so rendering is never worth the cost there; for everything else
// the rendering backend is preferred when configured, with a direct fallback
// on any failure.
func (p *Prober) fetchPath(ctx context.Context, path, pageURL string) domain.PageResult {
	if isSecurityTxt(path) || p.browser == nil {
		return p.direct.Fetch(ctx, pageURL)
	}

	res := p.browser.Fetch(ctx, pageURL)
	if res.Success {
		return res
	}
	p.log.Debug("rendering backend failed, falling back to direct fetch", "url", pageURL, "error", res.Error)
	return p.direct.Fetch(ctx, pageURL)
}

func (p *Prober) filterSecurityLinks(links []string) []string {
	seen := make(map[string]struct{})
	var filtered []string
	for _, link := range links {
		lower := strings.ToLower(link)
		for _, kw := range p.keywords {
			if strings.Contains(lower, kw) {
				if _, dup := seen[link]; !dup {
					seen[link] = struct{}{}
					filtered = append(filtered, link)
				}
				break
			}
		}
	}
	return filtered
}

func isSecurityTxt(path string) bool {
	return strings.Contains(path, "security.txt")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
