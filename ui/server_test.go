package ui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"evodash/domain/species"
	"evodash/internal/dashboard"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *dashboard.Controller) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := species.NewStore("test", []species.Record{
		{Species: "Homo sapiens", Country: "Kenya", Zone: "East", Location: "Africa", Habitat: "savanna",
			Diet: "omnivore", JawShape: "parabolic", TechnologyType: "Mode 3", IncisorSize: "small", CanineSize: "small",
			Time: 0.3, CranialCapacity: 1400, Height: 170},
		{Species: "Homo erectus", Country: "Indonesia", Zone: "Asia", Location: "Asia", Habitat: "forest",
			Diet: "omnivore", JawShape: "parabolic", TechnologyType: "Mode 2", IncisorSize: "medium large", CanineSize: "big",
			Time: 1.8, CranialCapacity: 900, Height: 160},
	})
	ctrl := dashboard.New(store, nil, dashboard.Options{})
	_, err := ctrl.OnFilterChange(context.Background(), store.DefaultFilter())
	require.NoError(t, err)

	s, err := NewServer(ctrl, nil)
	require.NoError(t, err)
	return s, ctrl
}

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeSnapshot(t *testing.T, w *httptest.ResponseRecorder) dashboard.Snapshot {
	t.Helper()
	var snap dashboard.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	return snap
}

func TestIndexRendersEveryPanel(t *testing.T) {
	s, _ := newTestServer(t)
	w := do(s, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	for _, name := range []string{"bar", "pie", "bubble", "butterfly", "treemap", "map", "line", "stacked", "timeline", "tree"} {
		assert.Contains(t, body, `id="panel-`+name+`"`)
	}
	assert.Contains(t, body, `<option value="Homo erectus"`)
	assert.Contains(t, body, `data-action="select-species"`)
	assert.Contains(t, body, "</html>")
}

func TestFilterJSON(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/filter", strings.NewReader(`{"species":"All","region":"Kenya","time":1.8}`))
	req.Header.Set("Content-Type", "application/json")
	w := do(s, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	snap := decodeSnapshot(t, w)
	assert.Equal(t, "Kenya", snap.State.Region)
	assert.Equal(t, 1, snap.Summary.Records)
	assert.Equal(t, "0.3M", snap.Summary.TimePeriod)
}

func TestFilterFormKeepsThreshold(t *testing.T) {
	s, ctrl := newTestServer(t)
	_, err := ctrl.OnFilterChange(context.Background(), species.FilterState{TimeThreshold: 1.0})
	require.NoError(t, err)

	form := url.Values{"species": {"Homo sapiens"}}
	req := httptest.NewRequest(http.MethodPost, "/api/filter", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := do(s, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	snap := decodeSnapshot(t, w)
	assert.Equal(t, "Homo sapiens", snap.State.Species)
	assert.Equal(t, 1.0, snap.State.TimeThreshold)
}

func TestFilterRejectsBadInput(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
	}{
		{"unknown species", `{"species":"Homo nonexistens"}`, "application/json"},
		{"unknown region", `{"region":"Atlantis"}`, "application/json"},
		{"malformed json", `{"species":`, "application/json"},
		{"non-numeric time", "time=abc", "application/x-www-form-urlencoded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t)
			req := httptest.NewRequest(http.MethodPost, "/api/filter", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			w := do(s, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestSelectHighlights(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/select", strings.NewReader(`{"species":"Homo erectus"}`))
	req.Header.Set("Content-Type", "application/json")
	w := do(s, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Homo erectus", decodeSnapshot(t, w).State.Species)

	w = do(s, httptest.NewRequest(http.MethodGet, "/charts/butterfly", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `data-species="Homo erectus"`)
}

func TestChartNotFound(t *testing.T) {
	s, _ := newTestServer(t)
	w := do(s, httptest.NewRequest(http.MethodGet, "/charts/radar", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStateHealthAndMetrics(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(s, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	require.Equal(t, http.StatusOK, w.Code)
	snap := decodeSnapshot(t, w)
	assert.Equal(t, []string{"All", "Homo sapiens", "Homo erectus"}, snap.SpeciesOption)
	assert.Len(t, snap.Panels, 10)
	require.NotNil(t, snap.LastPass)

	w = do(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = do(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "evodash_passes_total")

	w = do(s, httptest.NewRequest(http.MethodGet, "/static/js/dashboard.js", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
