package backup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	errFailedBuildRequestFmt  = "failed to build request: %w"
	errFailedFetchSourceFmt   = "failed to fetch source: %w"
	errUnexpectedStatusFmt    = "unexpected status %d for %s"
	errFailedReadResponseFmt  = "failed to read response body: %w"
	errFailedProbeLocationFmt = "failed to probe location: %w"
)

// HTTPFetcher downloads source audio over HTTP with a uniform bounded
// timeout. A timeout is reported the same as any other transport failure.
type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf(errFailedBuildRequestFmt, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf(errFailedFetchSourceFmt, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(errUnexpectedStatusFmt, resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf(errFailedReadResponseFmt, err)
	}

	return body, nil
}

// HTTPProber checks backup reachability with a HEAD request. Only a 2xx
// answer counts as reachable.
type HTTPProber struct {
	client *http.Client
}

func NewHTTPProber(timeout time.Duration) *HTTPProber {
	return &HTTPProber{client: &http.Client{Timeout: timeout}}
}

func (p *HTTPProber) Probe(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return fmt.Errorf(errFailedBuildRequestFmt, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf(errFailedProbeLocationFmt, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf(errUnexpectedStatusFmt, resp.StatusCode, url)
	}

	return nil
}
