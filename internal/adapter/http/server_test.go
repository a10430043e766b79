package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReporter struct {
	status map[string]any
}

func (s *stubReporter) Status(context.Context) map[string]any {
	return s.status
}

func newTestServer(status StatusReporter) *Server {
	return NewServer(":0", status, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "healthy", decodeBody(t, rr)["status"])
}

func TestStatusz(t *testing.T) {
	t.Run("merges the reporter's progress", func(t *testing.T) {
		srv := newTestServer(&stubReporter{status: map[string]any{
			"storms_total":  int64(10),
			"storms_done":   int64(4),
			"current_storm": "AL092021",
		}})
		rr := httptest.NewRecorder()
		srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/statusz", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		body := decodeBody(t, rr)
		assert.Equal(t, "running", body["status"])
		assert.Equal(t, float64(4), body["storms_done"])
		assert.Equal(t, "AL092021", body["current_storm"])
	})

	t.Run("nil reporter still reports liveness", func(t *testing.T) {
		srv := newTestServer(nil)
		rr := httptest.NewRecorder()
		srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/statusz", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "running", decodeBody(t, rr)["status"])
	})
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Body.String())
}

func TestMethodRouting(t *testing.T) {
	srv := newTestServer(nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/healthz", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
