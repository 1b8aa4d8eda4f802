package http

import (
	"net/http"
	"strings"

	"github.com/fwojciec/findmystore"
	"github.com/fwojciec/findmystore/ingest"
	"github.com/go-chi/chi/v5"
)

// maxUploadBytes leaves room for multipart framing around the file.
const maxUploadBytes = ingest.MaxDocumentSize + 1<<20

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.Documents.FindDocuments(r.Context(), findmystore.DocumentFilter{})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	// Listings omit full text.
	for _, d := range docs {
		d.Content = ""
	}
	if docs == nil {
		docs = []*findmystore.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.Documents.FindDocumentByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		s.writeError(w, r, findmystore.Errorf(findmystore.EINVALID, "invalid upload: %v", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, findmystore.Errorf(findmystore.EINVALID, "file field required"))
		return
	}
	defer file.Close()

	doc, err := s.Ingester.Ingest(r.Context(), header.Filename, file)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc.Content = ""
	writeJSON(w, http.StatusCreated, doc)
}

// importRequest is the body of POST /api/documents/import.
type importRequest struct {
	URL  string   `json:"url"`
	URLs []string `json:"urls"`
}

// importResult is one entry of the import response.
type importResult struct {
	URL      string                `json:"url"`
	Document *findmystore.Document `json:"document,omitempty"`
	Error    string                `json:"error,omitempty"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if s.Importer == nil {
		s.writeError(w, r, findmystore.Errorf(findmystore.EUNAVAILABLE, "web page import is not configured"))
		return
	}
	var req importRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	urls := req.URLs
	if u := strings.TrimSpace(req.URL); u != "" {
		urls = append([]string{u}, urls...)
	}
	if len(urls) == 0 {
		s.writeError(w, r, findmystore.Errorf(findmystore.EINVALID, "url required"))
		return
	}

	results := s.Importer.ImportURLs(r.Context(), urls)
	out := make([]importResult, len(results))
	for i, res := range results {
		out[i] = importResult{URL: res.URL, Document: res.Document}
		if res.Document != nil {
			res.Document.Content = ""
		}
		if res.Err != nil {
			out[i].Error = findmystore.ErrorMessage(res.Err)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.Ingester.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// askRequest is the body of POST /api/ask.
type askRequest struct {
	Question    string   `json:"question"`
	DocumentIDs []string `json:"documentIds"`
	Limit       int      `json:"limit"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.Search == nil {
		s.writeError(w, r, findmystore.Errorf(findmystore.EUNAVAILABLE, "document search is not configured"))
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	results, err := s.Search.Search(r.Context(), r.URL.Query().Get("q"), findmystore.SearchOptions{
		DocumentIDs: r.URL.Query()["doc"],
		Limit:       limit,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if results == nil {
		results = []findmystore.SearchResult{}
	}
	for i := range results {
		c := *results[i].Chunk
		c.Embedding = nil
		results[i].Chunk = &c
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if s.Asker == nil {
		s.writeError(w, r, findmystore.Errorf(findmystore.EUNAVAILABLE, "question answering requires GEMINI_API_KEY"))
		return
	}
	var req askRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	answer, err := s.Asker.Ask(r.Context(), req.Question, findmystore.AskOptions{DocumentIDs: req.DocumentIDs, Limit: req.Limit})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

// chatRequest is the body of POST /api/chat.
type chatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.Chatter == nil {
		s.writeError(w, r, findmystore.Errorf(findmystore.EUNAVAILABLE, "chat requires GEMINI_API_KEY"))
		return
	}
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	reply, err := s.Chatter.Chat(r.Context(), req.SessionID, req.Message)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}
