package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"estoquegiro/pkg/aggregator"
	"estoquegiro/pkg/csv"
	"estoquegiro/pkg/extractor"
	"estoquegiro/pkg/layout"
)

const maxUploadBytes = 32 << 20

// Server exposes the extract + consolidate pipeline over HTTP. Uploaded
// workbooks are processed fully in memory; the server never writes files
// and never archives.
type Server struct {
	logger *log.Logger
	mux    *http.ServeMux
	layout *layout.Layout
}

// New creates a new HTTP server around the given worksheet layout.
func New(l *layout.Layout, logger *log.Logger) *Server {
	return &Server{
		logger: logger,
		mux:    http.NewServeMux(),
		layout: l,
	}
}

// Start starts the HTTP server.
func (s *Server) Start(addr string) error {
	s.setupRoutes()
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/healthz", s.withLogging(s.handleHealth))
	s.mux.HandleFunc("/api/process", s.withLogging(s.handleProcess))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// handleProcess accepts a multipart workbook upload and responds with the
// consolidated CSV.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid multipart upload", err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "file field required", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to read upload", err)
		return
	}

	ext := extractor.New(s.layout, false, s.logger)
	records, err := ext.ExtractBytes(data, header.Filename)
	if err != nil {
		var missing *extractor.MissingTabsError
		if errors.As(err, &missing) {
			s.respondError(w, r, http.StatusBadRequest, missing.Error(), nil)
			return
		}
		s.respondError(w, r, http.StatusBadRequest, "failed to extract workbook", err)
		return
	}

	groups := aggregator.GroupByPDV(records)
	output, err := csv.Create(groups.All(), nil)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to render csv", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="consolidated.csv"`)
	if _, err := w.Write(output); err != nil {
		s.logger.Warn("failed to write csv response", "err", err)
	}
}

func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next(w, r)
		s.logger.Info("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		s.logger.Error(message, "method", r.Method, "path", r.URL.Path, "err", err)
		message = fmt.Sprintf("%s: %v", message, err)
	}
	if writeErr := s.writeJSON(w, status, map[string]string{
		"status": "error",
		"error":  message,
	}); writeErr != nil {
		s.logger.Warn("failed to write json response", "err", writeErr)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(payload)
}
