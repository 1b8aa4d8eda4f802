package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/findmystore"
	"github.com/fwojciec/findmystore/fs"
)

// Run executes the ingest command. Every file is attempted; the first
// error is returned after all files are processed.
func (c *IngestCmd) Run(deps *Dependencies) error {
	var firstErr error
	for _, path := range c.Paths {
		doc, err := c.ingest(deps, path)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "%s: %s\n", path, findmystore.ErrorMessage(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		fmt.Fprintf(deps.Stdout, "Added %s %q (id %s)\n", doc.Format, doc.Title, doc.ID)
	}
	return firstErr
}

func (c *IngestCmd) ingest(deps *Dependencies, path string) (*findmystore.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, findmystore.Errorf(findmystore.EINVALID, "cannot open %s", path)
	}
	defer f.Close()
	return deps.Ingester.Ingest(deps.Ctx, filepath.Base(path), f)
}

// Run executes the import command.
func (c *ImportCmd) Run(deps *Dependencies) error {
	if deps.Importer == nil {
		return findmystore.Errorf(findmystore.EUNAVAILABLE, "web page import is not configured")
	}
	var firstErr error
	for _, res := range deps.Importer.ImportURLs(deps.Ctx, c.URLs) {
		if res.Err != nil {
			fmt.Fprintf(deps.Stderr, "%s: %s\n", res.URL, findmystore.ErrorMessage(res.Err))
			if firstErr == nil {
				firstErr = res.Err
			}
			continue
		}
		fmt.Fprintf(deps.Stdout, "Imported %q (id %s)\n", res.Document.Title, res.Document.ID)
	}
	return firstErr
}

// Run executes the docs command.
func (c *DocsCmd) Run(deps *Dependencies) error {
	docs, err := deps.Documents.FindDocuments(deps.Ctx, findmystore.DocumentFilter{})
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Fprintln(deps.Stdout, "No documents. Use 'findmystore ingest' or 'findmystore import' to add one.")
		return nil
	}

	tw := newTable(deps.Stdout)
	fmt.Fprintln(tw, "ID\tFORMAT\tTITLE\tSOURCE\tADDED")
	for _, d := range docs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", d.ID, d.Format, d.Title, d.Source, d.CreatedAt.Format("2006-01-02"))
	}
	return tw.Flush()
}

// Run executes the rm-doc command.
func (c *RmDocCmd) Run(deps *Dependencies) error {
	if err := deps.Ingester.Delete(deps.Ctx, c.ID); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Deleted document %s\n", c.ID)
	return nil
}

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	docs, err := deps.Documents.FindDocuments(deps.Ctx, findmystore.DocumentFilter{})
	if err != nil {
		return err
	}
	paths, err := fs.NewWriter(c.Dir).Export(deps.Ctx, docs)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(deps.Stdout, filepath.Join(c.Dir, p))
	}
	fmt.Fprintf(deps.Stderr, "Exported %d documents to %s\n", len(paths), c.Dir)
	return nil
}

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	results, err := deps.Search.Search(deps.Ctx, c.Query, findmystore.SearchOptions{DocumentIDs: c.Doc, Limit: c.Limit})
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No matching passages.")
		return nil
	}
	for i, r := range results {
		fmt.Fprintf(deps.Stdout, "[%d] %s (%.2f)\n    %s\n", i+1, r.Chunk.Metadata.Source, r.Score, snippet(r.Chunk.Content, 120))
	}
	return nil
}

// snippet returns the first line of s, cut to n runes.
func snippet(s string, n int) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if r := []rune(s); len(r) > n {
		return string(r[:n]) + "..."
	}
	return s
}

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	if deps.Asker == nil {
		return errNoGemini
	}
	answer, err := deps.Asker.Ask(deps.Ctx, c.Question, findmystore.AskOptions{DocumentIDs: c.Doc, Limit: c.Limit})
	if err != nil {
		return err
	}

	fmt.Fprintln(deps.Stdout, answer.Text)
	if len(answer.Citations) > 0 {
		fmt.Fprintln(deps.Stdout, "\nSources:")
		for _, cit := range answer.Citations {
			fmt.Fprintf(deps.Stdout, "  [%d] %s (%.2f)\n", cit.Index, cit.Source, cit.Score)
		}
	}
	return nil
}
