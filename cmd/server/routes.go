package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(s.authMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)

	r.Route("/api", func(r chi.Router) {
		r.Get("/config", s.handleGetConfig)
		r.Put("/config", s.handlePutConfig)
		r.Post("/config/material/{id}", s.handleUseMaterialPrice)

		r.Get("/presets", s.handleListPresets)
		r.Post("/presets", s.handleSavePreset)
		r.Post("/presets/reorder", s.handleReorderPresets)
		r.Post("/presets/{id}/apply", s.handleApplyPreset)
		r.Delete("/presets/{id}", s.handleDeletePreset)

		r.Post("/quote", s.handleQuote)
		r.Post("/quote/round", s.handleRound)
		r.Post("/print", s.handlePrint)

		r.Get("/inventory", s.handleListInventory)
		r.Post("/inventory", s.handleCreateInventory)
		r.Get("/inventory/value", s.handleInventoryValue)
		r.Get("/inventory/{id}", s.handleGetInventory)
		r.Put("/inventory/{id}", s.handleUpdateInventory)
		r.Delete("/inventory/{id}", s.handleDeleteInventory)
		r.Post("/inventory/{id}/duplicate", s.handleDuplicateInventory)

		r.Get("/cashbook", s.handleListCashbook)
		r.Post("/cashbook", s.handleCreateMovement)
		r.Put("/cashbook/{id}", s.handleUpdateMovement)
		r.Delete("/cashbook/{id}", s.handleDeleteMovement)

		r.Get("/dashboard", s.handleDashboard)

		r.Get("/backup", s.handleExportBackup)
		r.Post("/backup", s.handleImportBackup)
		r.Get("/export/inventory.csv", s.handleExportInventoryCSV)
		r.Get("/export/cashbook.csv", s.handleExportCashbookCSV)
		r.Get("/export/workbook.xlsx", s.handleExportWorkbook)
	})

	return r
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func (s *server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" || r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}

		if _, ok := s.auth.sessionUser(r); !ok {
			if strings.HasPrefix(r.URL.Path, "/api/") {
				writeJSON(w, http.StatusUnauthorized, envelope{Error: "authentication required"})
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}
