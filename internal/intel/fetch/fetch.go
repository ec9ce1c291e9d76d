// Package fetch provides the two interchangeable page retrieval backends used
// by the probe: a browser-rendering service and a direct HTTP GET. Both share
// the same contract and never return an error; failures are carried inside
// the PageResult.
package fetch

import (
	"context"

	"risclens_backend/internal/intel/domain"
)

// Backend identifiers, reported in results for observability.
const (
	BackendBrowserless = "browserless"
	BackendDirect      = "fetch"
)

// Fetcher retrieves a URL and returns a PageResult. Implementations must not
// return transport errors to the caller; a failed fetch is a PageResult with
// Success false.
type Fetcher interface {
	Fetch(ctx context.Context, url string) domain.PageResult
}
