package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/waldronlab/curation-dashboard/internal/dashboard"
	"github.com/waldronlab/curation-dashboard/internal/logger"
	"github.com/waldronlab/curation-dashboard/internal/validation"
)

// badRequest marks errors caused by query parameters.
type badRequest struct{ err error }

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

type Router struct {
	doc  validation.Document
	opts dashboard.Options
	log  *logger.Logger
}

// NewRouter serves one fetched report. Each page request builds its own
// View, so concurrent requests never share interaction state.
func NewRouter(doc validation.Document, opts dashboard.Options, log *logger.Logger) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	r := &Router{doc: doc, opts: opts, log: log}
	mux := chi.NewRouter()

	mux.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.Get("/", r.wrap(r.handlePage))
	mux.Get("/index.html", r.wrap(r.handlePage))
	mux.Get("/validation_results.json", r.wrap(r.handleReport))
	mux.Get("/summary.json", r.wrap(r.handleSummary))

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var bad badRequest
			if errors.As(err, &bad) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			r.log.Error("request failed", "path", req.URL.Path, "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// GET /?tab=stats&sort=country:name&sort=sex:name
func (r *Router) handlePage(w http.ResponseWriter, req *http.Request) error {
	view := dashboard.NewView(r.doc.Report)
	q := req.URL.Query()
	if tab := q.Get("tab"); tab != "" {
		if err := view.SelectTab(tab); err != nil {
			return badRequest{err}
		}
	}
	if err := view.ApplySorts(q["sort"]...); err != nil {
		return badRequest{err}
	}
	page, err := dashboard.RenderBytes(r.doc.Report, r.opts, view)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = w.Write(page)
	return err
}

// handleReport serves the source document as fetched. Documents built
// without raw bytes fall back to the decoded report.
func (r *Router) handleReport(w http.ResponseWriter, _ *http.Request) error {
	if len(r.doc.Raw) == 0 {
		return writeJSON(w, r.doc.Report)
	}
	w.Header().Set("Content-Type", "application/json")
	_, err := w.Write(r.doc.Raw)
	return err
}

func (r *Router) handleSummary(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, dashboard.BuildSummary(r.doc))
}

func writeJSON(w http.ResponseWriter, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

// ListenAndServe runs handler on addr until ctx is done.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, log *logger.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("preview server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info("preview server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
