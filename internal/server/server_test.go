package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-compgen/internal/server"
	"github.com/goliatone/go-compgen/pkg/descriptor"
	"github.com/goliatone/go-compgen/pkg/validation"
)

func newServer(t *testing.T, opts ...server.Options) *server.Server {
	t.Helper()
	srv, err := server.New(append([]server.Options{server.WithAccessLog(false)}, opts...)...)
	require.NoError(t, err)
	return srv
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := do(t, newServer(t), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestComponents(t *testing.T) {
	rec := do(t, newServer(t), http.MethodGet, "/components", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Components []struct {
			Type     string `json:"type"`
			Category string `json:"category"`
			Schema   string `json:"schema"`
		} `json:"components"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Components, 8)
	assert.Equal(t, "Button", payload.Components[0].Type)
	assert.Equal(t, "Action", payload.Components[0].Category)
	assert.Equal(t, "/schemas/components/Button.schema.json", payload.Components[0].Schema)
}

func TestLayoutSchema(t *testing.T) {
	rec := do(t, newServer(t), http.MethodGet, "/schemas/layout.schema.json?types=Paragraph,Input", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var schema map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schema))
	defs, ok := schema["definitions"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, defs, "CompInput")
	assert.Contains(t, defs, "CompParagraph")
	assert.NotContains(t, defs, "CompButton")
}

func TestComponentSchema(t *testing.T) {
	srv := newServer(t)
	rec := do(t, srv, http.MethodGet, "/schemas/components/Input.schema.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "#/definitions/ComponentBase")

	rec = do(t, srv, http.MethodGet, "/schemas/components/Nope.schema.json", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNKNOWN_COMPONENT")
}

func TestValidate(t *testing.T) {
	srv := newServer(t)

	rec := do(t, srv, http.MethodPost, "/validate", `{"data":{"layout":[{"id":"intro-text","type":"Paragraph"}]}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var result validation.SchemaValidationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Valid, "issues: %v", result.Issues)

	rec = do(t, srv, http.MethodPost, "/validate?types=Paragraph", `{"data":{"layout":[{"id":"name","type":"Input"}]}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	result = validation.SchemaValidationResult{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Issues)

	rec = do(t, srv, http.MethodPost, "/validate", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPost, "/validate?types=Nope", `{"data":{"layout":[]}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestOpenAPI(t *testing.T) {
	rec := do(t, newServer(t), http.MethodGet, "/openapi.json?types=Header", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"#/components/schemas/CompHeader"`)
	assert.Contains(t, rec.Body.String(), `"/validate"`)
}

func TestCacheAndReload(t *testing.T) {
	var loads atomic.Int32
	loader := func(context.Context) (*descriptor.Set, error) {
		loads.Add(1)
		return descriptor.Default()
	}
	srv := newServer(t, server.WithLoader(loader), server.WithCacheSize(4))

	for range 3 {
		rec := do(t, srv, http.MethodGet, "/schemas/layout.schema.json", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, int32(1), loads.Load())

	srv.Reload()
	rec := do(t, srv, http.MethodGet, "/schemas/layout.schema.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int32(2), loads.Load())
}
