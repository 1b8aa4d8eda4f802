package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/findmystore"
	main "github.com/fwojciec/findmystore/cmd/findmystore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMain returns a Main with no API keys and a database in a temp dir.
func newMain(t *testing.T) *main.Main {
	t.Helper()
	dir := t.TempDir()
	return &main.Main{Config: main.Config{
		DBPath:   filepath.Join(dir, "findmystore.db"),
		DataDir:  filepath.Join(dir, "uploads"),
		MailFrom: main.DefaultMailFrom,
	}}
}

func run(t *testing.T, m *main.Main, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := m.Run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("no command prints help and fails", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, newMain(t), "")

		require.Error(t, err)
		assert.Contains(t, stdout, "findmystore")
	})

	t.Run("help succeeds", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, newMain(t), "", "--help")

		require.NoError(t, err)
		assert.Contains(t, stdout, "stores")
		assert.Contains(t, stdout, "rm-doc")
	})

	t.Run("lists seeded stores", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, newMain(t), "", "stores", "Hyderabad", "--category", "pharmacy")

		require.NoError(t, err)
		assert.Contains(t, stdout, "MediCare Pharmacy Banjara")
		assert.NotContains(t, stdout, "SmartMart")
	})

	t.Run("checks stock", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, newMain(t), "", "stock", "2", "Milk Lotion")

		require.NoError(t, err)
		assert.Contains(t, stdout, "7 in stock at 189.00")
	})

	t.Run("reports out of stock", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, newMain(t), "", "stock", "1", "Milk Lotion")

		require.NoError(t, err)
		assert.Contains(t, stdout, "not available")
	})

	t.Run("finds the cheapest offer", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, newMain(t), "", "cheapest", "XYZ Shampoo", "--city", "Hyderabad")

		require.NoError(t, err)
		assert.Contains(t, stdout, "150.00 at SmartMart Jubilee Hills")
	})

	t.Run("plans within budget", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, newMain(t), "", "plan", "XYZ Shampoo", "Milk Lotion", "--city", "Hyderabad", "--mode", "Budget", "--budget", "500")

		require.NoError(t, err)
		assert.Contains(t, stdout, "Total: 339.00")
		assert.Contains(t, stdout, "Within budget of 500.00")
	})

	t.Run("prints directions", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, newMain(t), "", "directions", "1")

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(stdout, "https://www.google.com/maps/dir/?api=1"))
	})

	t.Run("unknown store is not found", func(t *testing.T) {
		t.Parallel()

		_, _, err := run(t, newMain(t), "", "directions", "999")

		assert.Equal(t, findmystore.ENOTFOUND, findmystore.ErrorCode(err))
	})

	t.Run("subscriptions persist across runs", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		stdout, _, err := run(t, m, "", "subscribe", "asha@example.com", "Milk Lotion", "Hyderabad")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Subscribed asha@example.com")

		stdout, _, err = run(t, m, "", "restock", "1", "Milk Lotion", "--qty", "4")
		require.NoError(t, err)
		assert.Contains(t, stdout, "4 in stock")
		assert.Contains(t, stdout, "1 matched")

		stdout, _, err = run(t, m, "", "alerts", "--status", "skipped")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Milk Lotion")

		stdout, _, err = run(t, m, "", "subscriptions")
		require.NoError(t, err)
		assert.Contains(t, stdout, "asha@example.com")
	})

	t.Run("ask without a Gemini key is unavailable", func(t *testing.T) {
		t.Parallel()

		_, _, err := run(t, newMain(t), "", "ask", "what is on sale?")

		assert.Equal(t, findmystore.EUNAVAILABLE, findmystore.ErrorCode(err))
	})

	t.Run("docs on an empty database", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, newMain(t), "", "docs")

		require.NoError(t, err)
		assert.Contains(t, stdout, "No documents")
	})
}
