package web

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

const (
	adminCookieName  = "bm_admin_token"
	adminTokenHeader = "X-Admin-Token"
)

// isAdmin reports whether the requester holds administrative
// capability: the configured admin token presented as a cookie or
// header, compared in constant time.
func (s *Server) isAdmin(r *http.Request) bool {
	expected := s.cfg.Admin.Token
	if expected == "" {
		return false
	}

	presented := strings.TrimSpace(r.Header.Get(adminTokenHeader))
	if presented == "" {
		if cookie, err := r.Cookie(adminCookieName); err == nil {
			presented = strings.TrimSpace(cookie.Value)
		}
	}
	if presented == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(expected), []byte(presented)) == 1
}
