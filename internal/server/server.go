// Package server implements the publish HTTP API.
//
// The API is deliberately small: a health probe and a single publish
// endpoint that accepts a raw POM payload and returns the typed outcome of
// the publish pipeline as JSON. Authentication is token-based; tokens map to
// publishing identities via configuration.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/packdex/packdex/pkg/catalog"
)

// maxPayloadSize caps the accepted POM payload at 5 MiB.
const maxPayloadSize = 5 << 20

// IdentityResolver maps an API token to a publishing identity.
// A nil result means the token is unknown.
type IdentityResolver interface {
	IdentityForToken(token string) *catalog.Identity
}

// Server serves the publish API over HTTP.
type Server struct {
	publisher  *catalog.Publisher
	identities IdentityResolver
	logger     *log.Logger
	http       *http.Server
}

// New creates a Server listening on addr.
func New(addr string, publisher *catalog.Publisher, identities IdentityResolver, logger *log.Logger) *Server {
	s := &Server{
		publisher:  publisher,
		identities: identities,
		logger:     logger,
	}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler, exposed for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Put("/publish", s.handlePublish)
	return r
}

// ListenAndServe runs the server until Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.logger.Info("listening", "addr", s.http.Addr)
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handlePublish accepts a raw POM payload and runs the publish pipeline.
//
// Status codes map to the pipeline outcomes: 201 on success, 400 for
// payloads that fail parsing or have no resolvable repository, 403 when the
// identity lacks authority over the target repository. 401 is returned
// before the pipeline runs when the token is missing or unknown.
func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	id := s.identities.IdentityForToken(bearerToken(r))
	if id == nil {
		writeJSON(w, http.StatusUnauthorized, errorBody("unknown or missing token"))
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadSize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("reading payload"))
		return
	}

	created := time.Now().UTC()
	if v := r.URL.Query().Get("created"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("created must be RFC 3339"))
			return
		}
		created = t
	}

	result, err := s.publisher.Publish(r.Context(), raw, id, created)
	if err != nil {
		s.logger.Error("publish failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	switch res := result.(type) {
	case catalog.Published:
		writeJSON(w, http.StatusCreated, map[string]any{
			"project":     res.Project,
			"release":     res.Release,
			"new_project": res.NewProject,
		})
	case catalog.InvalidPom:
		writeJSON(w, http.StatusBadRequest, errorBody("invalid pom: "+res.Err.Error()))
	case catalog.NoGithubRepo:
		writeJSON(w, http.StatusBadRequest, errorBody("no github repository for "+res.Coordinate))
	case catalog.Forbidden:
		writeJSON(w, http.StatusForbidden, errorBody(res.Login+" may not publish to "+res.Repository.String()))
	default:
		s.logger.Error("unhandled publish result", "type", result)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return token
	}
	return r.Header.Get("X-API-Token")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}
