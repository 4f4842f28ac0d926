package web

import (
	"net/http"
	"strings"

	"bookman/internal/models"
)

type formPageData struct {
	Title    string
	Action   string
	Nonce    string
	Services []string
}

// handleForm renders the public booking form. Pure rendering: all
// validation is deferred to the submission endpoint.
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if title == "" {
		title = s.cfg.Form.Title
	}

	token, err := s.nonces.Issue(r.Context(), models.NonceScopeSubmit)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to issue submit nonce")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data := formPageData{
		Title:    title,
		Action:   models.ActionSubmitBooking,
		Nonce:    token,
		Services: s.services,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "form.html", data); err != nil {
		s.log.Error().Err(err).Msg("failed to render booking form")
	}
}

func (s *Server) handleScript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	_, _ = w.Write(frontendScript)
}
