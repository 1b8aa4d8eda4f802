// Package fs stores uploaded document bytes and exports documents as
// Markdown files.
package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/findmystore"
)

var _ findmystore.Archive = (*Archive)(nil)

// Archive keeps the original bytes of uploaded documents under a directory,
// one file per document named by document ID.
type Archive struct {
	dir string
}

// NewArchive creates an Archive rooted at dir.
func NewArchive(dir string) *Archive {
	return &Archive{dir: dir}
}

// Path returns where the document's bytes are stored.
func (a *Archive) Path(doc *findmystore.Document) string {
	ext := strings.ToLower(filepath.Ext(doc.Name))
	if doc.Format == findmystore.FormatURL || ext == "" {
		ext = ".html"
	}
	return filepath.Join(a.dir, doc.ID+ext)
}

// Put writes the bytes to a temporary file and renames it into place so
// readers never see a partial file.
func (a *Archive) Put(_ context.Context, doc *findmystore.Document, data []byte) (string, error) {
	if doc.ID == "" {
		return "", findmystore.Errorf(findmystore.EINVALID, "document ID required")
	}
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", err
	}

	path := a.Path(doc)
	tmp, err := os.CreateTemp(a.dir, ".upload-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}
	return path, nil
}

// Remove deletes the stored bytes. A missing file is not an error.
func (a *Archive) Remove(_ context.Context, doc *findmystore.Document) error {
	err := os.Remove(a.Path(doc))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
