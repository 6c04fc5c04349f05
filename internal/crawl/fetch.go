package crawl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/anatolykoptev/go_bio/internal/metrics"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// newFetchClient creates an HTTP client with proper settings for
// crawling a single site.
func newFetchClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     30 * time.Second,
			TLSHandshakeTimeout: 15 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return errors.New("stopped after 10 redirects")
			}
			return nil
		},
	}
}

// fetchPage performs an HTTP GET with retry on transient statuses and
// returns the page body.
func (c *Crawler) fetchPage(ctx context.Context, pageURL string) ([]byte, error) {
	metrics.FetchRequests.Add(1)

	operation := func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		defer resp.Body.Close()

		if isRetryableStatus(resp.StatusCode) {
			return nil, fmt.Errorf("status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, backoff.Permanent(fmt.Errorf("status %d", resp.StatusCode))
		}
		return io.ReadAll(resp.Body)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 1 * time.Second
	bo.MaxInterval = 10 * time.Second

	body, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(3),
		backoff.WithMaxElapsedTime(30*time.Second))
	if err != nil {
		metrics.FetchErrors.Add(1)
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	return body, nil
}

func isRetryableStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	}
	return false
}
