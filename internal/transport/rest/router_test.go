package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"lunalog/internal/config"
	"lunalog/internal/model"
	"lunalog/internal/service"
	"lunalog/internal/transport/ws"
)

type stubSubmitter struct{}

func (stubSubmitter) Submit(context.Context, *model.SubmitRequest) (*model.Ack, error) {
	return &model.Ack{Message: service.AckMessage}, nil
}

type stubLister struct{}

func (stubLister) List(context.Context) model.EntryListing {
	return model.EntryListing{Entries: []model.JournalEntry{}, Degraded: true}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := zaptest.NewLogger(t)
	hub := ws.NewHub(logger)
	t.Cleanup(hub.Close)

	reg := prometheus.NewRegistry()
	service.NewMetrics(reg)

	return NewRouter(&Container{
		Config: &config.Config{
			CORSAllowedOrigins: "*",
			CORSAllowedMethods: "GET, POST, OPTIONS",
			CORSAllowedHeaders: "Content-Type",
		},
		Catalog:           &model.Catalog{Questions: []model.Question{{Key: "q1", Prompt: "Sleep?", Weight: 25}}},
		SubmissionService: stubSubmitter{},
		EntryService:      stubLister{},
		WSHub:             hub,
		Gatherer:          reg,
		Logger:            logger,
	})
}

func TestRouterRoutes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method, path, body string
		wantStatus         int
		wantBody           string
	}{
		{http.MethodPost, "/submit", `{"questionValues":[1]}`, http.StatusOK, `"submitted successfully"`},
		{http.MethodGet, "/journalEntries", "", http.StatusOK, `[]`},
		{http.MethodGet, "/catalog", "", http.StatusOK, `"Sleep?"`},
		{http.MethodGet, "/health", "", http.StatusOK, `"ok"`},
		{http.MethodGet, "/metrics", "", http.StatusOK, "lunalog_"},
		{http.MethodPost, "/journalEntries", "", http.StatusMethodNotAllowed, ""},
		{http.MethodGet, "/nope", "", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestRouterDegradedHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/journalEntries", nil))
	assert.Equal(t, "true", rec.Header().Get("X-Lunalog-Degraded"))
}

func TestRouterCORSPreflight(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/submit", nil)
	newTestRouter(t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "X-Lunalog-Degraded", rec.Header().Get("Access-Control-Expose-Headers"))
}
