// Package server exposes a verbs.Source over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/verte-zerg/conjuga/internal/verbs"
)

const (
	detailVerbNotFound = "Verb not found in the known list."
	shutdownTimeout    = 10 * time.Second
)

type handler struct {
	source verbs.Source
	log    *zap.Logger
}

// New builds the API router.
func New(source verbs.Source, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	h := &handler{source: source, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/tenses", h.tenses)
		r.Route("/verbs", func(r chi.Router) {
			r.Get("/random", h.random)
			r.Get("/{verb}", h.verb)
			r.Get("/{verb}/{tense}", h.tense)
		})
	})
	return r
}

// Run serves handler on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, log *zap.Logger) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (h *handler) tenses(w http.ResponseWriter, r *http.Request) {
	tenses, err := h.source.Tenses(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tenses)
}

func (h *handler) random(w http.ResponseWriter, r *http.Request) {
	q := verbs.RandomQuery{IncludeVosotros: true}
	if raw := r.URL.Query().Get("include_vosotros"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeDetail(w, http.StatusBadRequest, fmt.Sprintf("Invalid include_vosotros value '%s'", raw))
			return
		}
		q.IncludeVosotros = v
	}
	q.Tenses = r.URL.Query()["tenses"]

	if len(q.Tenses) > 0 {
		known, err := h.source.Tenses(r.Context())
		if err != nil {
			h.fail(w, r, err)
			return
		}
		for _, t := range q.Tenses {
			if !contains(known, t) {
				writeDetail(w, http.StatusBadRequest, fmt.Sprintf("Unknown tense '%s'", t))
				return
			}
		}
	}

	v, err := h.source.Random(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *handler) verb(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "verb")
	v, err := h.source.Verb(r.Context(), name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *handler) tense(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "verb")
	tense := chi.URLParam(r, "tense")
	tc, err := h.source.Tense(r.Context(), name, tense)
	switch {
	case errors.Is(err, verbs.ErrTenseNotFound):
		writeDetail(w, http.StatusNotFound, fmt.Sprintf("Tense '%s' not found for verb '%s'", tense, name))
		return
	case err != nil:
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tc)
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, verbs.ErrVerbNotFound):
		writeDetail(w, http.StatusNotFound, detailVerbNotFound)
	case errors.Is(err, verbs.ErrTenseNotFound):
		writeDetail(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Info("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("elapsed", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
