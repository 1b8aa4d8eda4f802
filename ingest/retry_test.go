package ingest_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/findmystore/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWithRetry(t *testing.T) {
	t.Parallel()

	delays := []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}

	t.Run("returns first success without retrying", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, _ string) (string, error) {
			calls++
			return "<html></html>", nil
		}

		html, err := ingest.FetchWithRetry(context.Background(), "https://shop.example", fetch, nil, delays)

		require.NoError(t, err)
		assert.Equal(t, "<html></html>", html)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries until a fetch succeeds", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, _ string) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("connection reset")
			}
			return "ok", nil
		}
		var logged []string
		logf := func(format string, _ ...any) { logged = append(logged, format) }

		html, err := ingest.FetchWithRetry(context.Background(), "https://shop.example", fetch, logf, delays)

		require.NoError(t, err)
		assert.Equal(t, "ok", html)
		assert.Equal(t, 3, calls)
		assert.Len(t, logged, 2)
	})

	t.Run("returns the last error after all attempts", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, _ string) (string, error) {
			calls++
			return "", errors.New("503")
		}

		_, err := ingest.FetchWithRetry(context.Background(), "https://shop.example", fetch, nil, delays)

		require.Error(t, err)
		assert.Equal(t, "503", err.Error())
		assert.Equal(t, len(delays)+1, calls)
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		fetch := func(_ context.Context, _ string) (string, error) {
			cancel()
			return "", errors.New("timeout")
		}

		_, err := ingest.FetchWithRetry(ctx, "https://shop.example", fetch, nil, []time.Duration{time.Hour})

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("default delays back off exponentially", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, ingest.DefaultRetryDelays())
	})
}
