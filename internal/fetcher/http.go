package fetcher

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// HTTPFetcher downloads hosted exports with a polite rate limit so a
// scheduled run never hammers the CRM's export endpoint.
type HTTPFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewHTTPFetcher builds an HTTPFetcher. requestsPerSec <= 0 disables
// rate limiting.
func NewHTTPFetcher(timeout time.Duration, requestsPerSec float64) *HTTPFetcher {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	f := &HTTPFetcher{client: &http.Client{Timeout: timeout}}
	if requestsPerSec > 0 {
		f.limiter = rate.NewLimiter(rate.Limit(requestsPerSec), 1)
	}
	return f
}

// Fetch downloads the export at url. The caller must close the reader.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "http: rate limit wait")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrapf(err, "http: build request for %s", url)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "http: GET %s", url)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, eris.Errorf("http: GET %s returned %d", url, resp.StatusCode)
	}
	return resp.Body, nil
}
