package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Simplici0/limonero/internal/app"
	"github.com/Simplici0/limonero/internal/backup"
	"github.com/Simplici0/limonero/internal/confirm"
	"github.com/Simplici0/limonero/internal/domain"
	"github.com/Simplici0/limonero/internal/notify"
)

const maxBodyBytes = 8 << 20

type notification struct {
	Level   notify.Level `json:"level"`
	Message string       `json:"message"`
}

type envelope struct {
	Data          any            `json:"data,omitempty"`
	Error         string         `json:"error,omitempty"`
	Question      string         `json:"question,omitempty"`
	Notifications []notification `json:"notifications,omitempty"`
}

// requestSession answers confirmation questions with the request's
// confirm flag and collects notifications for the response body.
type requestSession struct {
	gate     *confirm.Gate
	recorder *notify.Recorder
}

func newRequestSession(r *http.Request) *requestSession {
	v := r.URL.Query().Get("confirm")
	return &requestSession{
		gate:     &confirm.Gate{Accepted: v == "1" || v == "true"},
		recorder: &notify.Recorder{},
	}
}

func (rs *requestSession) app() app.Session {
	return app.Session{Confirm: rs.gate, Notify: rs.recorder}
}

func (rs *requestSession) notifications() []notification {
	msgs := rs.recorder.Messages()
	if len(msgs) == 0 {
		return nil
	}
	out := make([]notification, len(msgs))
	for i, m := range msgs {
		out[i] = notification{Level: m.Level, Message: m.Text}
	}
	return out
}

// writeJSON encodes body before the status line goes out, so an encoding
// failure still produces a well-formed 500.
func writeJSON(w http.ResponseWriter, status int, body any) {
	raw, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		raw, _ = json.Marshal(envelope{Error: "internal error"})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(raw, '\n'))
}

func (s *server) respond(w http.ResponseWriter, rs *requestSession, status int, data any) {
	writeJSON(w, status, envelope{Data: data, Notifications: rs.notifications()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrNoMaterialSelected),
		errors.Is(err, domain.ErrNoResult),
		errors.Is(err, backup.ErrInvalidBackup):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, backup.ErrEmpty):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDeclined), errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with the status its kind maps to. Declined
// confirmations carry the pending question so the client can ask it and
// retry with confirm=1.
func (s *server) fail(w http.ResponseWriter, r *http.Request, rs *requestSession, err error) {
	status := statusFor(err)
	body := envelope{Error: err.Error()}
	if rs != nil {
		body.Notifications = rs.notifications()
		if errors.Is(err, domain.ErrDeclined) {
			body.Question = rs.gate.Pending()
		}
	}
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		body.Error = "internal error"
	}
	writeJSON(w, status, body)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid json body: %w: %w", domain.ErrInvalidInput, err)
	}
	return nil
}
