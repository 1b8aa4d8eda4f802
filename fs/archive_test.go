package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/findmystore"
	"github.com/fwojciec/findmystore/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchive(t *testing.T) {
	t.Parallel()

	t.Run("puts and removes document bytes", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "uploads")
		a := fs.NewArchive(dir)
		doc := &findmystore.Document{ID: "doc-1", Name: "Flyer.PDF", Format: findmystore.FormatPDF}

		path, err := a.Put(context.Background(), doc, []byte("%PDF-1.4"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "doc-1.pdf"), path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4", string(data))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "no temporary files left behind")

		require.NoError(t, a.Remove(context.Background(), doc))
		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("imported pages are stored as html", func(t *testing.T) {
		t.Parallel()

		a := fs.NewArchive(t.TempDir())
		doc := &findmystore.Document{ID: "doc-2", Name: "https://smartmart.example/offers", Format: findmystore.FormatURL}
		assert.Equal(t, "doc-2.html", filepath.Base(a.Path(doc)))
	})

	t.Run("removing a missing file is not an error", func(t *testing.T) {
		t.Parallel()

		a := fs.NewArchive(t.TempDir())
		assert.NoError(t, a.Remove(context.Background(), &findmystore.Document{ID: "gone", Name: "x.txt"}))
	})

	t.Run("requires a document ID", func(t *testing.T) {
		t.Parallel()

		_, err := fs.NewArchive(t.TempDir()).Put(context.Background(), &findmystore.Document{Name: "x.txt"}, []byte("x"))
		assert.Equal(t, findmystore.EINVALID, findmystore.ErrorCode(err))
	})
}
