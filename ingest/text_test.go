package ingest_test

import (
	"context"
	"testing"

	"github.com/fwojciec/findmystore"
	"github.com/fwojciec/findmystore/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextParser_Parse(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := ingest.NewTextParser()

	t.Run("takes the first h1 as title", func(t *testing.T) {
		t.Parallel()

		res, err := p.Parse(ctx, []byte("intro\r\n# Weekly Deals\r\n\r\nMilk is 10% off.\r\n"))

		require.NoError(t, err)
		assert.Equal(t, "Weekly Deals", res.Title)
		assert.Equal(t, "intro\n# Weekly Deals\n\nMilk is 10% off.", res.Text)
	})

	t.Run("strips a utf-8 byte order mark", func(t *testing.T) {
		t.Parallel()

		res, err := p.Parse(ctx, append([]byte{0xEF, 0xBB, 0xBF}, "café hours"...))

		require.NoError(t, err)
		assert.Equal(t, "café hours", res.Text)
		assert.Empty(t, res.Title)
	})

	t.Run("decodes windows-1252 when input is not utf-8", func(t *testing.T) {
		t.Parallel()

		res, err := p.Parse(ctx, []byte("caf\xe9 \x80 5"))

		require.NoError(t, err)
		assert.Equal(t, "café € 5", res.Text)
	})

	t.Run("rejects blank input", func(t *testing.T) {
		t.Parallel()

		_, err := p.Parse(ctx, []byte(" \n\t\n"))

		assert.Equal(t, findmystore.EINVALID, findmystore.ErrorCode(err))
	})
}
