package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/findmystore"
	"github.com/fwojciec/findmystore/ingest"
	"github.com/fwojciec/findmystore/shop"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 10 * time.Second

//go:embed index.html
var indexHTML []byte

// Server serves the JSON API and the web page. Search, Asker, Chatter and
// Importer are optional; their routes answer 503 when unset.
type Server struct {
	Shop      *shop.Service
	Documents findmystore.DocumentService
	Ingester  *ingest.Ingester
	Importer  *ingest.Importer
	Search    findmystore.SearchService
	Asker     findmystore.Asker
	Chatter   findmystore.Chatter
	Logger    *slog.Logger

	router chi.Router
}

// NewServer creates a Server and mounts its routes. Dependencies are set
// on the returned value before serving.
func NewServer() *Server {
	s := &Server{Logger: slog.Default()}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.requestLog)
	r.Use(chimw.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", s.handleCategories)
		r.Get("/stores", s.handleStores)
		r.Get("/stores/{id}/stock", s.handleStock)
		r.Get("/stores/{id}/directions", s.handleDirections)
		r.Get("/compare", s.handleCompare)
		r.Get("/cheapest", s.handleCheapest)
		r.Post("/shopping-list", s.handleShoppingList)

		r.Get("/subscriptions", s.handleSubscriptions)
		r.Post("/subscriptions", s.handleSubscribe)
		r.Delete("/subscriptions/{id}", s.handleUnsubscribe)
		r.Get("/alerts", s.handleAlerts)
		r.Post("/restock", s.handleRestock)

		r.Get("/documents", s.handleDocuments)
		r.Post("/documents", s.handleUpload)
		r.Post("/documents/import", s.handleImport)
		r.Get("/documents/{id}", s.handleDocument)
		r.Delete("/documents/{id}", s.handleDeleteDocument)
		r.Get("/search", s.handleSearch)
		r.Post("/ask", s.handleAsk)
		r.Post("/chat", s.handleChat)
	})

	s.router = r
	return s
}

// ServeHTTP dispatches to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			s.Logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", chimw.GetReqID(r.Context()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps a domain error to a status and writes {"error": msg}.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := findmystore.ErrorCode(err)
	status := errorStatus(code)
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimw.GetReqID(r.Context()),
			"err", err,
		)
	}
	writeJSON(w, status, map[string]string{"error": findmystore.ErrorMessage(err)})
}

var codeStatuses = map[string]int{
	findmystore.ECONFLICT:       http.StatusConflict,
	findmystore.EINVALID:        http.StatusBadRequest,
	findmystore.ENOTFOUND:       http.StatusNotFound,
	findmystore.ENOTIMPLEMENTED: http.StatusNotImplemented,
	findmystore.EUNAVAILABLE:    http.StatusServiceUnavailable,
	findmystore.EINTERNAL:       http.StatusInternalServerError,
}

func errorStatus(code string) int {
	if status, ok := codeStatuses[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return findmystore.Errorf(findmystore.EINVALID, "invalid JSON body: %v", err)
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, findmystore.Errorf(findmystore.EINVALID, "invalid id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

func queryFloat(r *http.Request, name string) (*float64, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, findmystore.Errorf(findmystore.EINVALID, "invalid %s %q", name, v)
	}
	return &f, nil
}

func queryBool(r *http.Request, name string) (bool, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, findmystore.Errorf(findmystore.EINVALID, "invalid %s %q", name, v)
	}
	return b, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, findmystore.Errorf(findmystore.EINVALID, "invalid %s %q", name, v)
	}
	return n, nil
}

// storeQuery reads city, category, radius_km and open_now.
func storeQuery(r *http.Request) (findmystore.StoreQuery, error) {
	q := findmystore.StoreQuery{
		City:     r.URL.Query().Get("city"),
		Category: findmystore.Category(r.URL.Query().Get("category")),
	}
	radius, err := queryFloat(r, "radius_km")
	if err != nil {
		return q, err
	}
	if radius != nil {
		q.RadiusKM = *radius
	}
	if q.OpenNow, err = queryBool(r, "open_now"); err != nil {
		return q, err
	}
	return q, nil
}
