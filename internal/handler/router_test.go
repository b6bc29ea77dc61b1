package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entityoverlay/internal/app"
	"entityoverlay/internal/config"
	"entityoverlay/internal/logging"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	logs   *bytes.Buffer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server:  config.ServerConfig{CORSOrigins: "*"},
		Schema:  config.SchemaConfig{FilePath: "../../ontology/schema.yaml"},
		Data:    config.DataConfig{RootPath: t.TempDir()},
		Overlay: config.OverlayConfig{DialogWidth: 640},
	}
	logs := &bytes.Buffer{}
	a, err := app.New(cfg, logging.NewFactory(logs, logging.LevelDebug))
	require.NoError(t, err)

	return &testServer{t: t, router: a.Router, logs: logs}
}

func (s *testServer) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) seed() {
	s.t.Helper()
	entities := []struct {
		entityType string
		data       map[string]interface{}
	}{
		{"article", map[string]interface{}{"id": "a1", "title": "First", "body": "<p>Hello</p>", "langcode": "en"}},
		{"article", map[string]interface{}{"id": "a2", "title": "Second", "summary": "two"}},
		{"person", map[string]interface{}{"id": "p1", "name": "Ada"}},
	}
	for _, e := range entities {
		w := s.do(http.MethodPost, "/api/v1/entities/"+e.entityType, e.data)
		require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	}

	for _, ref := range []struct{ field, source, target string }{
		{"related", "a1", "a2"},
		{"authors", "a1", "p1"},
	} {
		w := s.do(http.MethodPost, "/api/v1/references/"+ref.field, map[string]string{
			"source_id": ref.source,
			"target_id": ref.target,
		})
		require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	}
}

func TestOverlayScripted(t *testing.T) {
	s := newTestServer(t)
	s.seed()

	w := s.do(http.MethodGet, "/entity-overlay/ajax/article/a1/full", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var commands []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &commands))
	require.Len(t, commands, 2)

	assert.Equal(t, "settings", commands[0]["command"])
	settings := commands[0]["settings"].(map[string]interface{})
	assert.Equal(t, "/entity-overlay/nojs/article/0/full", settings["overlay_path"])
	assert.Contains(t, settings["entity_overlay"], "person_p1")

	cmd := commands[1]
	assert.Equal(t, "entityOverlay", cmd["command"])
	assert.Equal(t, "First", cmd["entity_title"])
	assert.Equal(t, "article", cmd["entity_type_id"])
	assert.Equal(t, "a1", cmd["entity_id"])
	assert.Equal(t, map[string]interface{}{"width": float64(640), "title": "First"}, cmd["dialog_options"])

	rendered := cmd["rendered_entity"].(string)
	assert.True(t, strings.HasPrefix(rendered, `<div id="entity-overlay__container" class="entity-overlay__container article-a1">`))
	assert.Contains(t, rendered, `data-entity-overlay-id="a2"`)
	assert.Contains(t, rendered, `class="use-ajax entity-overlay__person-p1"`)
}

func TestOverlayNoScriptRedirects(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/entity-overlay/nojs/article/missing/full", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/article/missing", w.Header().Get("Location"))
}

func TestOverlayErrors(t *testing.T) {
	s := newTestServer(t)
	s.seed()

	tests := []struct {
		path string
		code int
	}{
		{"/entity-overlay/ajax/article/missing/full", http.StatusNotFound},
		{"/entity-overlay/ajax/page/a1/full", http.StatusNotFound},
		{"/entity-overlay/ajax/article/a1/rss", http.StatusNotFound},
		{"/entity-overlay/iframe/article/a1/full", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := s.do(http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}
}

func TestCanonicalPage(t *testing.T) {
	s := newTestServer(t)
	s.seed()

	w := s.do(http.MethodGet, "/article/a1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, body, `<html lang="en">`)
	assert.Contains(t, body, `<title>First</title>`)
	assert.Contains(t, body, `<script src="/assets/commands.js" defer></script>`)
	assert.Contains(t, body, `<script src="/assets/behaviors.js" defer></script>`)
	assert.Contains(t, body, `"list_selector":"entity_overlay_wrapper"`)

	w = s.do(http.MethodGet, "/article/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBlockEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.seed()

	w := s.do(http.MethodGet, "/blocks/latest_articles", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<ul class="entity_overlay">`)

	w = s.do(http.MethodGet, "/api/v1/blocks/latest_articles", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Markup   string `json:"markup"`
			Attached struct {
				Settings map[string]interface{} `json:"settings"`
			} `json:"attached"`
			Scripts []string `json:"scripts"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "entity_overlay", resp.Data.Attached.Settings["list_selector"])
	assert.Equal(t, []string{"/assets/commands.js", "/assets/behaviors.js"}, resp.Data.Scripts)
	assert.Equal(t, 2, strings.Count(resp.Data.Markup, "entity_overlay_list_item"))

	w = s.do(http.MethodGet, "/api/v1/blocks/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEntityAndReferenceAPI(t *testing.T) {
	s := newTestServer(t)
	s.seed()

	w := s.do(http.MethodGet, "/api/v1/entities/article/a2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Second"`)

	w = s.do(http.MethodPost, "/api/v1/entities/article", map[string]interface{}{"id": "0", "title": "Zero"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/entities/article", map[string]interface{}{"summary": "no title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/v1/references/related?source_id=a1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"target_id":"a2"`)

	w = s.do(http.MethodGet, "/api/v1/references/related", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodDelete, "/api/v1/entities/article/a2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/v1/references/related?source_id=a1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"target_id":"a2"`)

	w = s.do(http.MethodGet, "/api/v1/entities/article", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}

func TestSchemaAPIAndAssets(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/v1/schema/object-types/article/displays/full", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Overlay rendered as Full content")

	w = s.do(http.MethodGet, "/api/v1/schema/object-types/article/view-modes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"teaser":"teaser"`)

	w = s.do(http.MethodGet, "/assets/behaviors.js", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
