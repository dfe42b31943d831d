// Package server implements the HTTP preview API of runmap.
//
// Routes:
//
//	GET  /healthz                  build info
//	GET  /v1/maps/{seed}           generate with the server config
//	POST /v1/maps                  generate with a config from the body
//
// Map routes accept ?format=json|dot|svg (default json) and ?detail=true.
// JSON responses carry the map together with its allocation report.
// Errors are JSON objects with a code and a message; the status follows
// the error code.
package server

import (
	"bytes"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/runmap/pkg/buildinfo"
	rerrors "github.com/matzehuels/runmap/pkg/errors"
	"github.com/matzehuels/runmap/pkg/mapgen"
	"github.com/matzehuels/runmap/pkg/mapio"
	"github.com/matzehuels/runmap/pkg/observability"
	"github.com/matzehuels/runmap/pkg/runmap"
	"github.com/matzehuels/runmap/pkg/runmap/slot"
)

// Request limits.
const (
	MaxBodyBytes = 1 << 20
	MaxFloors    = 100
	MaxNodes     = 12
)

// Server serves generated maps over HTTP.
type Server struct {
	runner  *mapgen.Runner
	config  mapgen.Config
	logger  *log.Logger
	timeout time.Duration
}

// New returns a server generating with runner. cfg is used by
// GET /v1/maps/{seed}.
func New(runner *mapgen.Runner, cfg mapgen.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, config: cfg, logger: logger, timeout: 30 * time.Second}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.health)
	r.Route("/v1/maps", func(r chi.Router) {
		r.Post("/", s.createMap)
		r.Get("/{seed}", s.getMap)
	})
	return r
}

// observe reports every request to the HTTP hooks and the logger.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, status, duration)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", duration,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) getMap(w http.ResponseWriter, r *http.Request) {
	seed, err := rerrors.ParseSeed(chi.URLParam(r, "seed"))
	if err != nil {
		writeError(w, err)
		return
	}
	s.serveMap(w, r, s.config, seed)
}

// createRequest is the body of POST /v1/maps. Config keys left out keep
// their defaults; a missing seed is drawn at random.
type createRequest struct {
	Seed   *uint64         `json:"seed"`
	Config json.RawMessage `json:"config"`
}

func (s *Server) createMap(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, rerrors.Wrap(rerrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	cfg := mapgen.DefaultConfig()
	if len(req.Config) > 0 {
		var err error
		if cfg, err = mapgen.DecodeConfig(bytes.NewReader(req.Config), mapgen.FormatJSON); err != nil {
			writeError(w, err)
			return
		}
	}
	seed := rand.Uint64()
	if req.Seed != nil {
		seed = *req.Seed
	}
	s.serveMap(w, r, cfg, seed)
}

// mapResponse is the JSON form of a generated map.
type mapResponse struct {
	Map    json.RawMessage `json:"map"`
	Result slot.Result     `json:"result"`
	Misses []runmap.Miss   `json:"misses,omitempty"`
	Cached bool            `json:"cached"`
}

func (s *Server) serveMap(w http.ResponseWriter, r *http.Request, cfg mapgen.Config, seed uint64) {
	cfg = cfg.Normalize()
	if cfg.Layout.Floors > MaxFloors || cfg.Layout.MaxNodes > MaxNodes {
		writeError(w, rerrors.New(rerrors.ErrCodeInvalidConfig,
			"map too large: at most %d floors of %d nodes", MaxFloors, MaxNodes))
		return
	}
	format, err := rerrors.ValidateFormat(queryDefault(r, "format", mapgen.FormatJSON), mapgen.ArtifactFormats...)
	if err != nil {
		writeError(w, err)
		return
	}
	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detail"))

	out, cached, err := s.runner.GenerateWithCacheInfo(r.Context(), mapgen.Options{Config: cfg, Seed: seed})
	if err != nil {
		writeError(w, err)
		return
	}

	if format != mapgen.FormatJSON {
		data, err := s.runner.Render(r.Context(), out.Map, format, detailed)
		if err != nil {
			writeError(w, err)
			return
		}
		contentType := "text/vnd.graphviz; charset=utf-8"
		if format == mapgen.FormatSVG {
			contentType = "image/svg+xml"
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(data)
		return
	}

	data, err := mapio.MarshalMap(out.Map)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapResponse{
		Map:    data,
		Result: out.Result,
		Misses: out.Misses,
		Cached: cached,
	})
}

func queryDefault(r *http.Request, key, def string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return def
}

type errorResponse struct {
	Code    rerrors.Code `json:"code"`
	Message string       `json:"message"`
	Detail  string       `json:"detail,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	status := rerrors.HTTPStatus(err)
	resp := errorResponse{Code: rerrors.GetCode(err), Message: rerrors.UserMessage(err)}
	if resp.Code == "" {
		resp.Code = rerrors.ErrCodeInternal
	}
	if status < http.StatusInternalServerError {
		resp.Detail = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
