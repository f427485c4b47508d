package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/limonero/internal/domain"
)

type savePresetRequest struct {
	Name      string `json:"name"`
	EditingID string `json:"editingId"`
}

type reorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (s *server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	rs := newRequestSession(r)
	cfg, err := s.app.CostConfig(rs.app()).Config(r.Context())
	if err != nil {
		s.fail(w, r, rs, err)
		return
	}
	s.respond(w, rs, http.StatusOK, cfg)
}

func (s *server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	rs := newRequestSession(r)
	var cfg domain.CostConfig
	if err := decodeJSON(w, r, &cfg); err != nil {
		s.fail(w, r, rs, err)
		return
	}
	if err := s.app.CostConfig(rs.app()).SaveConfig(r.Context(), cfg); err != nil {
		s.fail(w, r, rs, err)
		return
	}
	s.respond(w, rs, http.StatusOK, cfg)
}

func (s *server) handleUseMaterialPrice(w http.ResponseWriter, r *http.Request) {
	rs := newRequestSession(r)
	cfg, err := s.app.CostConfig(rs.app()).UseMaterialPrice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, rs, err)
		return
	}
	s.respond(w, rs, http.StatusOK, cfg)
}

func (s *server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	rs := newRequestSession(r)
	presets, err := s.app.CostConfig(rs.app()).Presets(r.Context())
	if err != nil {
		s.fail(w, r, rs, err)
		return
	}
	s.respond(w, rs, http.StatusOK, presets)
}

func (s *server) handleSavePreset(w http.ResponseWriter, r *http.Request) {
	rs := newRequestSession(r)
	var req savePresetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, rs, err)
		return
	}

	preset, err := s.app.CostConfig(rs.app()).SavePreset(r.Context(), req.Name, req.EditingID)
	if err != nil {
		s.fail(w, r, rs, err)
		return
	}
	status := http.StatusCreated
	if req.EditingID != "" {
		status = http.StatusOK
	}
	s.respond(w, rs, status, preset)
}

func (s *server) handleReorderPresets(w http.ResponseWriter, r *http.Request) {
	rs := newRequestSession(r)
	var req reorderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, rs, err)
		return
	}
	presets, err := s.app.CostConfig(rs.app()).MovePreset(r.Context(), req.From, req.To)
	if err != nil {
		s.fail(w, r, rs, err)
		return
	}
	s.respond(w, rs, http.StatusOK, presets)
}

func (s *server) handleApplyPreset(w http.ResponseWriter, r *http.Request) {
	rs := newRequestSession(r)
	cfg, err := s.app.CostConfig(rs.app()).ApplyPreset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, rs, err)
		return
	}
	s.respond(w, rs, http.StatusOK, cfg)
}

func (s *server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	rs := newRequestSession(r)
	id := chi.URLParam(r, "id")
	if err := s.app.CostConfig(rs.app()).DeletePreset(r.Context(), id); err != nil {
		s.fail(w, r, rs, err)
		return
	}
	s.respond(w, rs, http.StatusOK, map[string]string{"deleted": id})
}
