package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/limonero/internal/domain"
)

func (s *server) handleListInventory(w http.ResponseWriter, r *http.Request) {
	rs := newRequestSession(r)
	items, err := s.app.Inventory(rs.app()).Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.fail(w, r, rs, err)
		return
	}
	s.respond(w, rs, http.StatusOK, items)
}

func (s *server) handleInventoryValue(w http.ResponseWriter, r *http.Request) {
	rs := newRequestSession(r)
	v, err := s.app.Inventory(rs.app()).Value(r.Context())
	if err != nil {
		s.fail(w, r, rs, err)
		return
	}
	s.respond(w, rs, http.StatusOK, map[string]float64{"value": v})
}

func (s *server) handleGetInventory(w http.ResponseWriter, r *http.Request) {
	rs := newRequestSession(r)
	item, err := s.app.Inventory(rs.app()).Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, rs, err)
		return
	}
	s.respond(w, rs, http.StatusOK, item)
}

func (s *server) handleCreateInventory(w http.ResponseWriter, r *http.Request) {
	rs := newRequestSession(r)
	var item domain.InventoryItem
	if err := decodeJSON(w, r, &item); err != nil {
		s.fail(w, r, rs, err)
		return
	}
	created, err := s.app.Inventory(rs.app()).Add(r.Context(), item)
	if err != nil {
		s.fail(w, r, rs, err)
		return
	}
	s.respond(w, rs, http.StatusCreated, created)
}

func (s *server) handleUpdateInventory(w http.ResponseWriter, r *http.Request) {
	rs := newRequestSession(r)
	var item domain.InventoryItem
	if err := decodeJSON(w, r, &item); err != nil {
		s.fail(w, r, rs, err)
		return
	}
	item.ID = chi.URLParam(r, "id")

	updated, err := s.app.Inventory(rs.app()).Update(r.Context(), item)
	if err != nil {
		s.fail(w, r, rs, err)
		return
	}
	s.respond(w, rs, http.StatusOK, updated)
}

func (s *server) handleDuplicateInventory(w http.ResponseWriter, r *http.Request) {
	rs := newRequestSession(r)
	dup, err := s.app.Inventory(rs.app()).Duplicate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, rs, err)
		return
	}
	s.respond(w, rs, http.StatusCreated, dup)
}

func (s *server) handleDeleteInventory(w http.ResponseWriter, r *http.Request) {
	rs := newRequestSession(r)
	id := chi.URLParam(r, "id")
	if err := s.app.Inventory(rs.app()).Delete(r.Context(), id); err != nil {
		s.fail(w, r, rs, err)
		return
	}
	s.respond(w, rs, http.StatusOK, map[string]string{"deleted": id})
}
