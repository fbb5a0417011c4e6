package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/goliatone/go-compgen/pkg/descriptor"
	"github.com/goliatone/go-compgen/pkg/jsonschema"
	"github.com/goliatone/go-compgen/pkg/openapi"
	"github.com/goliatone/go-compgen/pkg/pipeline"
	"github.com/goliatone/go-compgen/pkg/render"
	"github.com/goliatone/go-compgen/pkg/renderers/schema"
	"github.com/goliatone/go-compgen/pkg/utils/logging"
	"github.com/goliatone/go-compgen/pkg/validation"
)

// DefaultCacheSize bounds how many compiled layouts and component schemas are
// kept.
const DefaultCacheSize = 64

// maxBodyBytes caps the layout accepted by POST /validate.
const maxBodyBytes = 8 << 20

// Loader returns the current descriptor set. It is called on every cache miss.
type Loader func(ctx context.Context) (*descriptor.Set, error)

// Options configures a Server.
type Options func(*Server)

// WithLoader sets where descriptors come from. Defaults to the embedded set.
func WithLoader(loader Loader) Options {
	return func(s *Server) {
		if loader != nil {
			s.loader = loader
		}
	}
}

// WithPipeline overrides the pipeline used to assemble layout schemas.
func WithPipeline(p *pipeline.Pipeline) Options {
	return func(s *Server) {
		if p != nil {
			s.pipeline = p
		}
	}
}

// WithCacheSize bounds the compiled schema cache.
func WithCacheSize(size int) Options {
	return func(s *Server) {
		if size > 0 {
			s.cacheSize = size
		}
	}
}

// WithAccessLog toggles request logging.
func WithAccessLog(enabled bool) Options {
	return func(s *Server) {
		s.accessLog = enabled
	}
}

// Server serves generated schemas and validates layouts over HTTP.
type Server struct {
	router    *chi.Mux
	loader    Loader
	pipeline  *pipeline.Pipeline
	cacheSize int
	accessLog bool
	cache     *lru.Cache[string, *entry]
	component render.Renderer
}

// entry is one cached artifact. Layout entries carry the compiled validator.
type entry struct {
	body      []byte
	document  *jsonschema.Document
	validator *validation.Validator
}

// New builds the router.
func New(opts ...Options) (*Server, error) {
	s := &Server{
		router:    chi.NewRouter(),
		loader:    func(context.Context) (*descriptor.Set, error) { return descriptor.Default() },
		cacheSize: DefaultCacheSize,
		accessLog: true,
		component: schema.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.pipeline == nil {
		s.pipeline = pipeline.New()
	}
	cache, err := lru.New[string, *entry](s.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("server: cache: %w", err)
	}
	s.cache = cache

	r := s.router
	r.Use(middleware.RequestID)
	if s.accessLog {
		r.Use(accessLogger)
	}
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/components", s.handleComponents)
	r.Get("/openapi.json", s.handleOpenAPI)
	r.Route("/schemas", func(r chi.Router) {
		r.Get("/layout.schema.json", s.handleLayoutSchema)
		r.Get("/components/{type}.schema.json", s.handleComponentSchema)
	})
	r.Post("/validate", s.handleValidate)
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Reload drops every cached artifact so the next request sees the current
// descriptors.
func (s *Server) Reload() {
	s.cache.Purge()
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logging.From(ctx).Info("schema server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type componentInfo struct {
	Type     string `json:"type"`
	Symbol   string `json:"symbol"`
	Category string `json:"category"`
	Source   string `json:"source,omitempty"`
	Schema   string `json:"schema"`
}

func (s *Server) handleComponents(w http.ResponseWriter, r *http.Request) {
	set, err := s.loader(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	out := make([]componentInfo, 0, set.Len())
	for _, desc := range set.Descriptors() {
		out = append(out, componentInfo{
			Type:     desc.Type,
			Symbol:   desc.DisplayName(),
			Category: desc.Category,
			Source:   desc.Source,
			Schema:   "/schemas/components/" + desc.Type + ".schema.json",
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"components": out})
}

func (s *Server) handleLayoutSchema(w http.ResponseWriter, r *http.Request) {
	cached, err := s.layout(r.Context(), typesParam(r))
	if err != nil {
		s.buildError(w, r, err)
		return
	}
	writeRaw(w, http.StatusOK, cached.body)
}

func (s *Server) handleComponentSchema(w http.ResponseWriter, r *http.Request) {
	typ := chi.URLParam(r, "type")
	key := "component:" + typ
	if cached, ok := s.cache.Get(key); ok {
		writeRaw(w, http.StatusOK, cached.body)
		return
	}

	set, err := s.loader(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if _, ok := set.Lookup(typ); !ok {
		writeError(w, http.StatusNotFound, "UNKNOWN_COMPONENT", "unknown component type: "+typ)
		return
	}
	cfg, err := set.Build(typ)
	if err != nil {
		s.buildError(w, r, err)
		return
	}
	body, err := s.component.Render(r.Context(), cfg, render.RenderOptions{})
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.cache.Add(key, &entry{body: body})
	writeRaw(w, http.StatusOK, body)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "UNREADABLE_BODY", err.Error())
		return
	}
	if len(body) > maxBodyBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "layout exceeds the size limit")
		return
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		writeError(w, http.StatusBadRequest, "EMPTY_BODY", "layout body is required")
		return
	}

	cached, err := s.layout(r.Context(), typesParam(r))
	if err != nil {
		s.buildError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cached.validator.Validate(body))
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	cached, err := s.layout(r.Context(), typesParam(r))
	if err != nil {
		s.buildError(w, r, err)
		return
	}
	spec, err := openapi.Export(r.Context(), cached.document, openapi.WithValidatePath("/validate"))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	data, err := openapi.Marshal(spec, openapi.FormatJSON)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeRaw(w, http.StatusOK, data)
}

// layout returns the cached layout schema and validator for the given type
// subset, assembling and compiling it on a miss.
func (s *Server) layout(ctx context.Context, types []string) (*entry, error) {
	key := "layout:" + strings.Join(types, ",")
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	set, err := s.loader(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := s.pipeline.Document(ctx, pipeline.Request{Descriptors: set, Types: types})
	if err != nil {
		return nil, err
	}
	body, err := json.MarshalIndent(doc.Schema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("server: encode layout schema: %w", err)
	}
	validator, err := validation.Compile(body)
	if err != nil {
		return nil, err
	}
	cached := &entry{body: append(body, '\n'), document: doc, validator: validator}
	s.cache.Add(key, cached)
	logging.From(ctx).Debug("compiled layout schema", "types", types)
	return cached, nil
}

// typesParam reads ?types=A,B into a sorted, de-duplicated list.
func typesParam(r *http.Request) []string {
	raw := r.URL.Query().Get("types")
	if raw == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, ok := seen[part]; ok {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	sort.Strings(out)
	return out
}

func (s *Server) buildError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, descriptor.ErrInvalidDescriptor) {
		writeError(w, http.StatusUnprocessableEntity, "INVALID_DESCRIPTOR", err.Error())
		return
	}
	s.internalError(w, r, err)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	logging.From(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeRaw(w, status, append(data, '\n'))
}

func writeRaw(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data) //nolint:errcheck // header already committed
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}
