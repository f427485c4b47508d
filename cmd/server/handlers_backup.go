package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

func (s *server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	rs := newRequestSession(r)
	summary, err := s.app.Dashboard().Summary(r.Context(), s.app.Now())
	if err != nil {
		s.fail(w, r, rs, err)
		return
	}
	s.respond(w, rs, http.StatusOK, summary)
}

func (s *server) handleImportBackup(w http.ResponseWriter, r *http.Request) {
	rs := newRequestSession(r)
	res, err := s.app.Backup(rs.app()).ImportJSON(r.Context(), http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.fail(w, r, rs, err)
		return
	}
	s.respond(w, rs, http.StatusOK, res)
}

func (s *server) handleExportBackup(w http.ResponseWriter, r *http.Request) {
	rs := newRequestSession(r)
	s.download(w, r, rs, "backup_limonero_%s.json", "application/json", s.app.Backup(rs.app()).ExportJSON)
}

func (s *server) handleExportInventoryCSV(w http.ResponseWriter, r *http.Request) {
	rs := newRequestSession(r)
	s.download(w, r, rs, "inventario_limonero_%s.csv", "text/csv; charset=utf-8", s.app.Backup(rs.app()).InventoryCSV)
}

func (s *server) handleExportCashbookCSV(w http.ResponseWriter, r *http.Request) {
	rs := newRequestSession(r)
	s.download(w, r, rs, "caja_limonero_%s.csv", "text/csv; charset=utf-8", s.app.Backup(rs.app()).CashbookCSV)
}

func (s *server) handleExportWorkbook(w http.ResponseWriter, r *http.Request) {
	rs := newRequestSession(r)
	s.download(w, r, rs, "limonero_%s.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", s.app.Backup(rs.app()).Workbook)
}

// download buffers the export so a failure can still be reported as JSON.
func (s *server) download(w http.ResponseWriter, r *http.Request, rs *requestSession, nameFormat, contentType string, export func(context.Context, io.Writer) error) {
	var buf bytes.Buffer
	if err := export(r.Context(), &buf); err != nil {
		s.fail(w, r, rs, err)
		return
	}

	name := fmt.Sprintf(nameFormat, s.app.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
