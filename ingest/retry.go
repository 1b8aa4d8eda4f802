package ingest

import (
	"context"
	"time"
)

// FetchFunc fetches a URL.
type FetchFunc func(ctx context.Context, url string) (string, error)

// LogFunc logs a formatted message.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays between fetch attempts:
// 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetry calls fetch until it succeeds, sleeping delays[i] after
// the i-th failure. It makes len(delays)+1 attempts and returns the last
// error. logf, if set, is called before each retry.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, logf LogFunc, delays []time.Duration) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= len(delays); attempt++ {
		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err
		if attempt == len(delays) {
			break
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		if logf != nil {
			logf("retry %s (attempt %d): %v", url, attempt+2, err)
		}

		timer := time.NewTimer(delays[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return "", lastErr
}
