package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"lorevec/internal/domain"
	"lorevec/internal/port"
	"lorevec/internal/usecase"
)

// Server exposes the operator surface over HTTP: search, activation,
// reindex and entry listing. It holds no state of its own; everything is
// delegated to the injected services.
type Server struct {
	search       *usecase.Activator
	searchSvc    *usecase.SearchService
	lore         port.LoreStore
	tokens       *usecase.TokenBudget
	logger       *slog.Logger
	defLimit     int
	defThreshold float64
}

// Options configures a Server.
type Options struct {
	Activator        *usecase.Activator
	Search           *usecase.SearchService
	Lore             port.LoreStore
	Tokens           *usecase.TokenBudget
	Logger           *slog.Logger
	DefaultLimit     int
	DefaultThreshold float64
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limit := opts.DefaultLimit
	if limit < 1 {
		limit = 5
	}
	return &Server{
		search:       opts.Activator,
		searchSvc:    opts.Search,
		lore:         opts.Lore,
		tokens:       opts.Tokens,
		logger:       logger,
		defLimit:     limit,
		defThreshold: opts.DefaultThreshold,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/search", s.handleSearch)
	r.Get("/activate", s.handleActivate)
	r.Get("/entries", s.handleEntries)
	r.Get("/tokens", s.handleTokens)
	r.Post("/reindex", s.handleReindex)

	return r
}

func (s *Server) handleSearch(w http.ResponseWriter, req *http.Request) {
	query := req.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "missing q parameter", http.StatusBadRequest)
		return
	}
	scope := req.URL.Query().Get("scope")

	limit := s.defLimit
	if v := req.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	threshold := s.defThreshold
	if v := req.URL.Query().Get("threshold"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 1 {
			http.Error(w, "threshold must be in [0,1]", http.StatusBadRequest)
			return
		}
		threshold = f
	}

	results, err := s.searchSvc.Search(query, scope, limit, threshold)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if results == nil {
		results = []domain.SearchResult{}
	}
	writeJSON(w, results)
}

func (s *Server) handleActivate(w http.ResponseWriter, req *http.Request) {
	message := req.URL.Query().Get("message")
	if message == "" {
		http.Error(w, "missing message parameter", http.StatusBadRequest)
		return
	}
	scope := req.URL.Query().Get("scope")

	activations, err := s.search.Activate(message, scope)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if activations == nil {
		activations = []domain.Activation{}
	}
	writeJSON(w, activations)
}

func (s *Server) handleEntries(w http.ResponseWriter, req *http.Request) {
	entries, err := s.lore.ListEntries(req.URL.Query().Get("scope"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.LoreEntry{}
	}
	writeJSON(w, entries)
}

type tokenResponse struct {
	Model  string `json:"model"`
	Tokens int    `json:"tokens"`
}

func (s *Server) handleTokens(w http.ResponseWriter, req *http.Request) {
	text := req.URL.Query().Get("text")
	if text == "" {
		http.Error(w, "missing text parameter", http.StatusBadRequest)
		return
	}
	model := req.URL.Query().Get("model")
	if model == "" {
		model = "default"
	}

	writeJSON(w, tokenResponse{Model: model, Tokens: s.tokens.CountTokens(model, text)})
}

type reindexResponse struct {
	Updated  int      `json:"updated"`
	Failures []string `json:"failures,omitempty"`
}

func (s *Server) handleReindex(w http.ResponseWriter, req *http.Request) {
	scope := req.URL.Query().Get("scope")

	count, failures, err := s.searchSvc.ReindexAll(scope, nil)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := reindexResponse{Updated: count}
	for _, f := range failures {
		resp.Failures = append(resp.Failures, f.EntryID+": "+f.Err.Error())
	}
	writeJSON(w, resp)
}

// writeError maps the error taxonomy onto HTTP status codes. Real failures
// are never masked as empty results.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotInitialized), errors.Is(err, domain.ErrProviderUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrProviderRequestFailed):
		status = http.StatusBadGateway
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	}
	s.logger.Error("request failed", "error", err, "status", status)
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
