package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"gamedex/backend/internal/logger"

	"github.com/avast/retry-go/v4"
)

// Fetcher retrieves one platform feed: an array of batches of entries.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([][]RawEntry, error)
}

type httpFetcher struct {
	client *http.Client
	log    *logger.Logger
}

// NewHTTPFetcher returns a Fetcher over plain HTTP GET with a bounded
// per-request timeout and retries on transient failure.
func NewHTTPFetcher(timeout time.Duration, baseLog *logger.Logger) Fetcher {
	return &httpFetcher{
		client: &http.Client{Timeout: timeout},
		log:    baseLog.With("component", "feed_fetcher"),
	}
}

func (f *httpFetcher) Fetch(ctx context.Context, url string) ([][]RawEntry, error) {
	var body []byte

	err := retry.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return retry.Unrecoverable(err)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return fmt.Errorf("unexpected status %s", resp.Status)
		}

		body, err = io.ReadAll(resp.Body)
		return err
	},
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			f.log.Warn("feed request failed, retrying", "url", url, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	var batches [][]RawEntry
	if err := json.Unmarshal(body, &batches); err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("decode payload: %w", err)}
	}
	return batches, nil
}
