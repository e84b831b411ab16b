package filevars

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"filevars/pkg/metrics"
	"filevars/pkg/variable"
)

const defaultMaxUploadBytes = 32 << 20

// ServerConfig controls the HTTP surface.
type ServerConfig struct {
	MaxUploadBytes int64
	Timeout        time.Duration
}

// Server exposes file value ingestion and the metrics catalogue over HTTP.
type Server struct {
	service   *Service
	catalogue *metrics.Catalogue
	logger    *log.Logger
	config    ServerConfig
}

// NewServer wires a Server. A nil logger discards log output.
func NewServer(service *Service, catalogue *metrics.Catalogue, logger *log.Logger, cfg ServerConfig) (*Server, error) {
	if service == nil {
		return nil, errors.New("service is required")
	}
	if catalogue == nil {
		return nil, errors.New("catalogue is required")
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Server{service: service, catalogue: catalogue, logger: logger, config: cfg}, nil
}

// Routes constructs the chi router for the /v1 API.
func (s *Server) Routes() (http.Handler, error) {
	if s == nil {
		return nil, errors.New("nil server")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.config.Timeout))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/files/{name}", s.handleUpload)
		r.Get("/metrics/catalogue", s.handleCatalogue)
		r.Get("/metrics/catalogue/{metric}", s.handleCatalogueEntry)
	})

	return r, nil
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	query := r.URL.Query()

	detect := false
	if raw := strings.TrimSpace(query.Get("detect")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, errors.New("invalid detect parameter"))
			return
		}
		detect = parsed
	}

	// Content-Type is a fallback only when detection is off.
	mimeType := strings.TrimSpace(query.Get("mime"))
	if mimeType == "" && !detect {
		mimeType = strings.TrimSpace(r.Header.Get("Content-Type"))
	}

	body := http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	defer body.Close()

	value, err := s.service.Ingest(r.Context(), Request{
		Name:           name,
		Stream:         body,
		MimeType:       mimeType,
		Encoding:       query.Get("encoding"),
		DetectMimeType: detect,
		Compression:    r.Header.Get("Content-Encoding"),
	})
	if err != nil {
		s.logger.Printf("ERROR ingest %q (request %s): %v", name, middleware.GetReqID(r.Context()), err)
		respondError(w, statusFor(err), err)
		return
	}

	desc := Describe(value)
	s.logger.Printf("INFO ingested %q size=%d sha256=%s (request %s)", desc.Name, desc.Size, desc.SHA256, middleware.GetReqID(r.Context()))
	respondJSON(w, http.StatusCreated, desc)
}

func (s *Server) handleCatalogue(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"entries": s.catalogue.Entries()})
}

func (s *Server) handleCatalogueEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := s.catalogue.Lookup(chi.URLParam(r, "metric"))
	if err != nil {
		respondError(w, http.StatusNotFound, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, variable.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, variable.ErrSourceUnavailable):
		return http.StatusFailedDependency
	case errors.Is(err, variable.ErrIngestionFailure):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}
	respondJSON(w, status, map[string]any{"error": err.Error()})
}
