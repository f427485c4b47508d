package main

import (
	"fmt"
	"net/http"

	"github.com/Simplici0/limonero/internal/domain"
	"github.com/Simplici0/limonero/internal/pricing"
	"github.com/Simplici0/limonero/internal/printjob"
)

var errPriceOverflow = fmt.Errorf("job too large to price: %w", domain.ErrInvalidInput)

type quoteRequest struct {
	Form pricing.JobForm `json:"form"`
	// Config overrides the stored configuration when set.
	Config *domain.CostConfig `json:"config,omitempty"`
}

type quoteResponse struct {
	Ready  bool             `json:"ready"`
	Input  pricing.JobInput `json:"input"`
	Result *pricing.Result  `json:"result,omitempty"`
}

type roundRequest struct {
	Price     float64 `json:"price"`
	Direction string  `json:"direction"`
	Step      float64 `json:"step"`
}

type printRequest struct {
	Form          pricing.JobForm `json:"form"`
	MaterialID    string          `json:"materialId"`
	AdjustedPrice *float64        `json:"adjustedPrice,omitempty"`
	Round         []string        `json:"round,omitempty"`
	ClientName    string          `json:"clientName"`
	Description   string          `json:"description"`
}

func (s *server) handleQuote(w http.ResponseWriter, r *http.Request) {
	rs := newRequestSession(r)
	var req quoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, rs, err)
		return
	}

	cfg, err := s.activeConfig(r, rs, req.Config)
	if err != nil {
		s.fail(w, r, rs, err)
		return
	}

	resp := quoteResponse{Ready: req.Form.Ready(), Input: pricing.ParseJobForm(req.Form)}
	if resp.Ready {
		result := pricing.ComputeCost(resp.Input, cfg)
		if !result.Finite() {
			s.fail(w, r, rs, errPriceOverflow)
			return
		}
		resp.Result = &result
	}
	s.respond(w, rs, http.StatusOK, resp)
}

func (s *server) handleRound(w http.ResponseWriter, r *http.Request) {
	rs := newRequestSession(r)
	var req roundRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, rs, err)
		return
	}
	dir, err := pricing.ParseDirection(req.Direction)
	if err != nil {
		s.fail(w, r, rs, err)
		return
	}
	s.respond(w, rs, http.StatusOK, map[string]float64{"price": pricing.SmartRound(req.Price, dir, req.Step)})
}

// handlePrint runs a whole confirmation dialog in one request: preview,
// open, adjust and confirm.
func (s *server) handlePrint(w http.ResponseWriter, r *http.Request) {
	rs := newRequestSession(r)
	var req printRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, rs, err)
		return
	}

	receipt, err := s.runPrint(r, rs, req)
	if err != nil {
		s.fail(w, r, rs, err)
		return
	}
	s.respond(w, rs, http.StatusCreated, receipt)
}

func (s *server) runPrint(r *http.Request, rs *requestSession, req printRequest) (*printjob.Receipt, error) {
	ctx := r.Context()
	cfg, err := s.activeConfig(r, rs, nil)
	if err != nil {
		return nil, err
	}

	wf := s.app.PrintJob(rs.app())
	if req.Form.Ready() {
		in := pricing.ParseJobForm(req.Form)
		if err := wf.Preview(in, pricing.ComputeCost(in, cfg)); err != nil {
			return nil, err
		}
	}
	if err := wf.Open(req.MaterialID); err != nil {
		return nil, err
	}
	if req.AdjustedPrice != nil {
		if err := wf.SetPrice(*req.AdjustedPrice); err != nil {
			return nil, err
		}
	}
	for _, raw := range req.Round {
		dir, err := pricing.ParseDirection(raw)
		if err != nil {
			return nil, err
		}
		if _, err := wf.Round(dir); err != nil {
			return nil, err
		}
	}
	if err := wf.SetClient(req.ClientName); err != nil {
		return nil, err
	}
	if err := wf.SetDescription(req.Description); err != nil {
		return nil, err
	}
	return wf.Confirm(ctx)
}

func (s *server) activeConfig(r *http.Request, rs *requestSession, override *domain.CostConfig) (domain.CostConfig, error) {
	if override != nil {
		return *override, nil
	}
	return s.app.CostConfig(rs.app()).Config(r.Context())
}
