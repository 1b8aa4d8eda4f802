package fs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fwojciec/findmystore"
	"gopkg.in/yaml.v3"
)

// DocumentPath returns the relative Markdown path for a document. Imported
// pages map to host/path.md; uploads use their file name. The result never
// leaves the export directory.
//
//	https://smartmart.example/offers/monsoon → smartmart.example/offers/monsoon.md
//	Weekly Flyer.pdf                         → weekly-flyer.md
func DocumentPath(doc *findmystore.Document) (string, error) {
	var rel string
	if doc.Format == findmystore.FormatURL {
		u, err := url.Parse(doc.Source)
		if err != nil {
			return "", findmystore.Errorf(findmystore.EINVALID, "invalid document URL: %v", err)
		}
		dir := u.Path == "" || strings.HasSuffix(u.Path, "/")
		p := strings.TrimPrefix(path.Clean("/"+u.Path), "/")
		if dir || p == "" {
			p = path.Join(p, "index")
		}
		p = strings.TrimSuffix(p, path.Ext(p))
		rel = filepath.Join(slug(u.Host), filepath.FromSlash(p)) + ".md"
	} else {
		s := slug(strings.TrimSuffix(filepath.Base(doc.Name), filepath.Ext(doc.Name)))
		if s == "" {
			s = doc.ID
		}
		rel = s + ".md"
	}

	if !filepath.IsLocal(rel) {
		return "", findmystore.Errorf(findmystore.EINVALID, "document %s has no safe export path", doc.ID)
	}
	return rel, nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9.]+`)

func slug(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-.")
}

type frontmatter struct {
	ID     string `yaml:"id"`
	Title  string `yaml:"title,omitempty"`
	Source string `yaml:"source"`
	Format string `yaml:"format"`
	Added  string `yaml:"added"`
}

// FormatDocument renders a document as Markdown with YAML frontmatter.
func FormatDocument(doc *findmystore.Document) (string, error) {
	fm, err := yaml.Marshal(frontmatter{
		ID:     doc.ID,
		Title:  doc.Title,
		Source: doc.Source,
		Format: string(doc.Format),
		Added:  doc.CreatedAt.Format("2006-01-02"),
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")
	b.WriteString(doc.Content)
	if !strings.HasSuffix(doc.Content, "\n") {
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// Writer exports documents as Markdown files. Files are written to
// dir.tmp and moved to dir on Commit, replacing any previous export.
// Documents that map to the same path get their ID appended.
type Writer struct {
	dir   string
	taken map[string]bool // Lowercased paths in the pending export
}

// NewWriter creates a Writer that exports into dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: filepath.Clean(dir)}
}

func (w *Writer) tempDir() string {
	return w.dir + ".tmp"
}

// WriteDocument writes one document into the pending export and returns
// its relative path.
func (w *Writer) WriteDocument(_ context.Context, doc *findmystore.Document) (string, error) {
	if err := doc.Validate(); err != nil {
		return "", err
	}

	rel, err := DocumentPath(doc)
	if err != nil {
		return "", err
	}
	rel = w.claim(rel, doc.ID)
	full := filepath.Join(w.tempDir(), rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}

	content, err := FormatDocument(doc)
	if err != nil {
		return "", err
	}
	return rel, os.WriteFile(full, []byte(content), 0o644)
}

// claim reserves a path that no other document in the pending export uses.
// Keys are lowercased for case-insensitive filesystems.
func (w *Writer) claim(rel, id string) string {
	if w.taken == nil {
		w.taken = make(map[string]bool)
	}
	base := strings.TrimSuffix(rel, ".md")
	candidate := rel
	for n := 1; w.taken[strings.ToLower(candidate)]; n++ {
		suffix := "-" + id
		if n > 1 {
			suffix = fmt.Sprintf("-%s-%d", id, n)
		}
		candidate = base + suffix + ".md"
	}
	w.taken[strings.ToLower(candidate)] = true
	return candidate
}

// Commit replaces the export directory with the pending export.
func (w *Writer) Commit() error {
	w.taken = nil
	if err := os.MkdirAll(w.tempDir(), 0o755); err != nil {
		return err
	}
	if err := os.RemoveAll(w.dir); err != nil {
		return err
	}
	return os.Rename(w.tempDir(), w.dir)
}

// Abort discards the pending export.
func (w *Writer) Abort() error {
	w.taken = nil
	return os.RemoveAll(w.tempDir())
}

// Export writes all documents and commits. On error nothing is replaced.
func (w *Writer) Export(ctx context.Context, docs []*findmystore.Document) ([]string, error) {
	if err := w.Abort(); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(docs))
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			_ = w.Abort()
			return nil, err
		}
		rel, err := w.WriteDocument(ctx, doc)
		if err != nil {
			_ = w.Abort()
			return nil, err
		}
		paths = append(paths, rel)
	}
	return paths, w.Commit()
}
