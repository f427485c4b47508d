package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/limonero/internal/cashbook"
	"github.com/Simplici0/limonero/internal/domain"
)

type movementRequest struct {
	Direction   string  `json:"direction"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	ClientName  string  `json:"clientName"`
}

func (m movementRequest) entry() (cashbook.Entry, error) {
	e := cashbook.Entry{Amount: m.Amount, Description: m.Description, ClientName: m.ClientName}
	if m.Direction != "" {
		dir, err := domain.ParseDirection(m.Direction)
		if err != nil {
			return cashbook.Entry{}, err
		}
		e.Direction = dir
	}
	return e, nil
}

type cashbookResponse struct {
	Movements []domain.CashMovement `json:"movements"`
	Totals    cashbook.Totals       `json:"totals"`
}

func (s *server) handleListCashbook(w http.ResponseWriter, r *http.Request) {
	rs := newRequestSession(r)
	movements, err := s.app.Cashbook(rs.app()).List(r.Context())
	if err != nil {
		s.fail(w, r, rs, err)
		return
	}
	s.respond(w, rs, http.StatusOK, cashbookResponse{Movements: movements, Totals: cashbook.Summarize(movements)})
}

func (s *server) handleCreateMovement(w http.ResponseWriter, r *http.Request) {
	rs := newRequestSession(r)
	var req movementRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, rs, err)
		return
	}
	e, err := req.entry()
	if err != nil {
		s.fail(w, r, rs, err)
		return
	}

	mov, err := s.app.Cashbook(rs.app()).Add(r.Context(), e)
	if err != nil {
		s.fail(w, r, rs, err)
		return
	}
	s.respond(w, rs, http.StatusCreated, mov)
}

func (s *server) handleUpdateMovement(w http.ResponseWriter, r *http.Request) {
	rs := newRequestSession(r)
	var req movementRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, rs, err)
		return
	}
	e, err := req.entry()
	if err != nil {
		s.fail(w, r, rs, err)
		return
	}

	mov, err := s.app.Cashbook(rs.app()).Edit(r.Context(), chi.URLParam(r, "id"), e)
	if err != nil {
		s.fail(w, r, rs, err)
		return
	}
	s.respond(w, rs, http.StatusOK, mov)
}

func (s *server) handleDeleteMovement(w http.ResponseWriter, r *http.Request) {
	rs := newRequestSession(r)
	res, err := s.app.Cashbook(rs.app()).Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, rs, err)
		return
	}
	s.respond(w, rs, http.StatusOK, res)
}
