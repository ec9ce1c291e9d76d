package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"risclens_backend/internal/intel/domain"
	"risclens_backend/platform/logger"
)

const (
	navigationTimeout = 15 * time.Second
	settleDelayMs     = 3000
)

// Resource types the rendering service is told not to load. Keeps render
// cost and latency down; none of them carry signal text.
var rejectedResourceTypes = []string{"image", "media", "font", "stylesheet"}

// BrowserlessFetcher retrieves fully rendered HTML through an external
// headless-browser service.
type BrowserlessFetcher struct {
	client  *http.Client
	baseURL string
	token   string
	log     *logger.Logger
}

// NewBrowserlessFetcher creates a rendering backend against the given service
// base URL (e.g. https://chrome.browserless.io).
func NewBrowserlessFetcher(baseURL, token string, log *logger.Logger) *BrowserlessFetcher {
	return &BrowserlessFetcher{
		// Client budget covers navigation plus the settle delay.
		client:  &http.Client{Timeout: navigationTimeout + settleDelayMs*time.Millisecond + 5*time.Second},
		baseURL: baseURL,
		token:   token,
		log:     log,
	}
}

type contentRequest struct {
	URL                 string      `json:"url"`
	WaitFor             int         `json:"waitFor"`
	GotoOptions         gotoOptions `json:"gotoOptions"`
	RejectResourceTypes []string    `json:"rejectResourceTypes"`
}

type gotoOptions struct {
	Timeout   int    `json:"timeout"`
	WaitUntil string `json:"waitUntil"`
}

// Fetch asks the rendering service for the page content. A non-success
// response from the service itself becomes a failure PageResult carrying the
// status and body text; Fetch never returns an error.
func (f *BrowserlessFetcher) Fetch(ctx context.Context, pageURL string) domain.PageResult {
	payload, err := json.Marshal(contentRequest{
		URL:                 pageURL,
		WaitFor:             settleDelayMs,
		GotoOptions:         gotoOptions{Timeout: int(navigationTimeout.Milliseconds()), WaitUntil: "networkidle2"},
		RejectResourceTypes: rejectedResourceTypes,
	})
	if err != nil {
		return domain.PageResult{URL: pageURL, Error: err.Error()}
	}

	endpoint := fmt.Sprintf("%s/content?token=%s", f.baseURL, f.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return domain.PageResult{URL: pageURL, Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		f.log.FetchFailure(BackendBrowserless, pageURL, 0, err.Error())
		return domain.PageResult{URL: pageURL, Error: err.Error()}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if readErr != nil {
		f.log.FetchFailure(BackendBrowserless, pageURL, resp.StatusCode, readErr.Error())
		return domain.PageResult{URL: pageURL, StatusCode: resp.StatusCode, Error: readErr.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		errMsg := fmt.Sprintf("browserless error (%d): %s", resp.StatusCode, string(body))
		f.log.FetchFailure(BackendBrowserless, pageURL, resp.StatusCode, errMsg)
		return domain.PageResult{URL: pageURL, StatusCode: resp.StatusCode, Error: errMsg}
	}

	html := string(body)
	return domain.PageResult{
		URL:        pageURL,
		Success:    true,
		HTML:       html,
		Text:       CleanText(html),
		Title:      ExtractTitle(html),
		StatusCode: http.StatusOK,
	}
}

var _ Fetcher = (*BrowserlessFetcher)(nil)
