package web

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"bookman/internal/config"
	"bookman/internal/domain"
	"bookman/internal/service"

	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/bm-frontend.js
var frontendScript []byte

// Server exposes the public booking form and the admin screens.
type Server struct {
	cfg      *config.Config
	svc      *service.BookingService
	nonces   domain.NonceStore
	services []string // suggested service names for the form datalist
	tmpl     *template.Template
	server   *http.Server
	log      zerolog.Logger
}

func NewServer(cfg *config.Config, svc *service.BookingService, nonces domain.NonceStore, services []string, logger *zerolog.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	var log zerolog.Logger
	if logger != nil {
		log = logger.With().Str("component", "web").Logger()
	}

	srv := &Server{
		cfg:      cfg,
		svc:      svc,
		nonces:   nonces,
		services: services,
		tmpl:     tmpl,
		log:      log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", srv.handleForm)
	mux.HandleFunc("/assets/bm-frontend.js", srv.handleScript)
	mux.HandleFunc("/submit", srv.handleSubmit)
	mux.HandleFunc("/admin/bookings", srv.handleAdminBookings)
	mux.HandleFunc("/admin/bookings/delete", srv.handleAdminDelete)
	mux.HandleFunc("/admin/bookings/edit", srv.handleAdminEdit)
	mux.HandleFunc("/admin/bookings/export", srv.handleAdminExport)
	mux.HandleFunc("/healthz", srv.handleHealthz)

	handler := srv.loggingMiddleware(mux)

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return srv, nil
}

// Handler returns the root handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// envelope matches the submission endpoint's wire contract:
// { success: bool, data: { message: string } }.
type envelope struct {
	Success bool         `json:"success"`
	Data    envelopeData `json:"data"`
}

type envelopeData struct {
	Message string `json:"message"`
	// Nonce carries a replacement token when a validation failure
	// consumed the submitted one.
	Nonce string `json:"nonce,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: envelopeData{Message: message}})
}

func writeFailure(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, envelope{Success: false, Data: envelopeData{Message: message}})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
