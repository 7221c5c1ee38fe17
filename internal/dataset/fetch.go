package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"pilgrim-insights-go/internal/logger"
	"pilgrim-insights-go/internal/types"
)

var httpClient = &http.Client{Timeout: 12 * time.Second}

// Fetch downloads url, retrying network errors and 5xx responses with
// exponential backoff until maxElapsed. 4xx responses fail immediately.
func Fetch(ctx context.Context, url string, maxElapsed time.Duration) ([]byte, error) {
	log := logger.New().WithField("component", "dataset.fetch").WithField("url", url)
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = maxElapsed

	var body []byte
	attempt := 0
	op := func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := httpClient.Do(req)
		if err != nil {
			log.WithError(err).WithField("attempt", attempt).Warn("fetch failed")
			return err
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 500 {
			return fmt.Errorf("server error: status=%d body=%s", resp.StatusCode, string(b))
		}
		if resp.StatusCode >= 300 {
			return backoff.Permanent(fmt.Errorf("fetch failed: status=%d body=%s", resp.StatusCode, string(b)))
		}
		if len(b) == 0 {
			return fmt.Errorf("empty body")
		}
		body = b
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	log.WithField("bytes", len(body)).WithField("attempts", attempt).Info("dataset downloaded")
	return body, nil
}

// FetchRecords downloads and validates a JSON array of records.
func FetchRecords(ctx context.Context, url string, maxElapsed time.Duration) ([]types.Pilgrim, error) {
	b, err := Fetch(ctx, url, maxElapsed)
	if err != nil {
		return nil, err
	}
	var out []types.Pilgrim
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if err := Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchReport downloads an operator report.
func FetchReport(ctx context.Context, url string, maxElapsed time.Duration) (Report, error) {
	b, err := Fetch(ctx, url, maxElapsed)
	if err != nil {
		return Report{}, err
	}
	var r Report
	if err := json.Unmarshal(b, &r); err != nil {
		return Report{}, fmt.Errorf("decode report: %w", err)
	}
	return r, nil
}
