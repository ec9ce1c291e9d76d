package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"risclens_backend/internal/intel/domain"
	"risclens_backend/platform/logger"
)

const (
	directTimeout = 8 * time.Second
	maxBodyBytes  = 2 << 20

	// Desktop browser UA with an explicit bot token appended so operators can
	// identify the crawler in their logs.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 RiscLens-Bot/1.0"
)

// DirectFetcher issues a plain GET with spoofed desktop headers and a hard
// timeout shorter than the rendering backend's navigation budget.
type DirectFetcher struct {
	client  *http.Client
	timeout time.Duration
	log     *logger.Logger
}

// NewDirectFetcher creates a direct-fetch backend. A non-positive timeout
// falls back to the default.
func NewDirectFetcher(timeout time.Duration, log *logger.Logger) *DirectFetcher {
	if timeout <= 0 {
		timeout = directTimeout
	}
	return &DirectFetcher{
		client:  &http.Client{},
		timeout: timeout,
		log:     log,
	}
}

// Fetch retrieves the URL. Transport errors, timeouts, and non-2xx statuses
// all yield a failure PageResult; Fetch never panics or errors.
func (f *DirectFetcher) Fetch(ctx context.Context, pageURL string) domain.PageResult {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return domain.PageResult{URL: pageURL, Error: err.Error()}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		f.log.FetchFailure(BackendDirect, pageURL, 0, err.Error())
		return domain.PageResult{URL: pageURL, Error: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.log.FetchFailure(BackendDirect, pageURL, resp.StatusCode, "")
		return domain.PageResult{
			URL:        pageURL,
			StatusCode: resp.StatusCode,
			Error:      fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		f.log.FetchFailure(BackendDirect, pageURL, resp.StatusCode, err.Error())
		return domain.PageResult{URL: pageURL, StatusCode: resp.StatusCode, Error: err.Error()}
	}

	html := string(body)
	return domain.PageResult{
		URL:        pageURL,
		Success:    true,
		HTML:       html,
		Text:       CleanText(html),
		Title:      ExtractTitle(html),
		StatusCode: resp.StatusCode,
	}
}

var _ Fetcher = (*DirectFetcher)(nil)
