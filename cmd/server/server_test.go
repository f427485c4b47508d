package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/limonero/internal/app"
	"github.com/Simplici0/limonero/internal/config"
)

const (
	testEmail    = "admin@limonero.test"
	testPassword = "12345"
)

type testClient struct {
	t       *testing.T
	handler http.Handler
	srv     *server
	cookie  *http.Cookie
}

func newTestClient(t *testing.T) *testClient {
	t.Helper()

	cfg := config.Config{
		AdminEmail:    testEmail,
		AdminPassword: testPassword,
		SessionSecret: "test-secret",
		DBPath:        filepath.Join(t.TempDir(), "server-test.db"),
		Env:           "development",
	}
	a, err := app.Open(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	a.Now = func() time.Time { return time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC) }

	srv := newServer(a, zerolog.Nop())
	return &testClient{t: t, handler: srv.routes(), srv: srv}
}

func (c *testClient) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, err := json.Marshal(v)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

func (c *testClient) login() {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/login", loginRequest{Email: testEmail, Password: testPassword})
	require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == sessionCookieName {
			c.cookie = ck
		}
	}
	require.NotNil(c.t, c.cookie)
}

type decoded struct {
	Data          json.RawMessage `json:"data"`
	Error         string          `json:"error"`
	Question      string          `json:"question"`
	Notifications []notification  `json:"notifications"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data any) decoded {
	t.Helper()
	var env decoded
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func TestAPIRequiresSession(t *testing.T) {
	c := newTestClient(t)

	rec := c.do(http.MethodGet, "/api/inventory", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = c.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodPost, "/login", loginRequest{Email: testEmail, Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c.cookie = &http.Cookie{Name: sessionCookieName, Value: "forged.deadbeef"}
	rec = c.do(http.MethodGet, "/api/inventory", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginAcceptsForm(t *testing.T) {
	c := newTestClient(t)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("email=admin%40limonero.test&password=12345"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionValueRoundTrip(t *testing.T) {
	auth := newAuthService(nil, "secret", false)
	v := auth.createSessionValue("a@b.c")

	email, ok := auth.verifySessionValue(v)
	assert.True(t, ok)
	assert.Equal(t, "a@b.c", email)

	_, ok = newAuthService(nil, "other", false).verifySessionValue(v)
	assert.False(t, ok)
	_, ok = auth.verifySessionValue(v + ".x")
	assert.False(t, ok)
}
