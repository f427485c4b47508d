package main

import (
	"net/http"
	"strings"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.app.DB.PingContext(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, envelope{Error: "database unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, envelope{Data: map[string]string{"status": "ok"}})
}

// handleLogin accepts either a JSON body or a regular form post.
func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := decodeJSON(w, r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, envelope{Error: "invalid json body"})
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, envelope{Error: "invalid form"})
			return
		}
		req.Email = r.FormValue("email")
		req.Password = r.FormValue("password")
	}

	email := strings.TrimSpace(req.Email)
	valid, err := s.auth.validateCredentials(r.Context(), email, req.Password)
	if err != nil {
		s.log.Error().Err(err).Msg("authentication error")
		writeJSON(w, http.StatusInternalServerError, envelope{Error: "authentication error"})
		return
	}
	if !valid {
		writeJSON(w, http.StatusUnauthorized, envelope{Error: "Credenciales inválidas. Intenta de nuevo."})
		return
	}

	s.auth.setSessionCookie(w, email)
	s.log.Info().Str("email", email).Msg("user logged in")
	writeJSON(w, http.StatusOK, envelope{Data: map[string]string{"email": email}})
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
