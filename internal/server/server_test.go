package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/photostrip/pkg/cache"
	"github.com/matzehuels/photostrip/pkg/imagesrc"
	"github.com/matzehuels/photostrip/pkg/pipeline"
	"github.com/matzehuels/photostrip/pkg/strip"
	"github.com/matzehuels/photostrip/pkg/template/memory"
)

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, nil)
	return New(WithTemplates(store), WithRunner(runner)), store
}

func record(name string) *strip.Record {
	return &strip.Record{
		Name:       name,
		Background: strip.Background{Mode: strip.BackgroundColor, Value: "#112233"},
		Params:     strip.DefaultParams(),
		Slots:      strip.DefaultSlots(),
	}
}

func photo(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 30, 20))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return imagesrc.EncodeDataURI("image/png", buf.Bytes())
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&rd).Encode(body))
	}
	req := httptest.NewRequest(method, path, &rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var e ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e.Code
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv.Handler(), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRenderPNG(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()
	body := RenderRequest{Template: record("party"), Photos: []string{photo(t)}, Oversample: 1}

	rec := do(t, h, http.MethodPost, "/api/render?format=png", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "photobooth-strip.png")
	assert.Equal(t, "miss", rec.Header().Get(HeaderCache))
	assert.NotEmpty(t, rec.Header().Get(HeaderSceneHash))

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(strip.CanvasWidth, strip.DefaultCanvasHeight), img.Bounds().Size())
	assert.Equal(t, color.NRGBAModel.Convert(color.RGBA{0x11, 0x22, 0x33, 0xff}),
		color.NRGBAModel.Convert(img.At(2, 2)))

	again := do(t, h, http.MethodPost, "/api/render?format=png", body)
	require.Equal(t, http.StatusOK, again.Code)
	assert.Equal(t, "hit", again.Header().Get(HeaderCache))
}

func TestRenderPDFFromStoredTemplate(t *testing.T) {
	srv, store := newTestServer(t)
	id, err := store.Save(context.Background(), record("stored"))
	require.NoError(t, err)

	rec := do(t, srv.Handler(), http.MethodPost, "/api/render?format=pdf",
		RenderRequest{TemplateID: id, Oversample: 1, Copies: 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestRenderErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	tests := []struct {
		name   string
		path   string
		body   any
		status int
		code   string
	}{
		{"bad format", "/api/render?format=gif", RenderRequest{Template: record("x")}, 400, "INVALID_FORMAT"},
		{"no template", "/api/render", RenderRequest{}, 400, "INVALID_INPUT"},
		{"both", "/api/render", RenderRequest{Template: record("x"), TemplateID: "abc"}, 400, "INVALID_INPUT"},
		{"missing id", "/api/render", RenderRequest{TemplateID: "nope"}, 404, "TEMPLATE_NOT_FOUND"},
		{"unknown field", "/api/render", map[string]any{"bogus": 1}, 400, "INVALID_INPUT"},
		{"file photo refused", "/api/render", RenderRequest{Template: record("x"), Photos: []string{"/etc/passwd"}, Oversample: 1}, 500, "RENDER_FAILED"},
		{"oversample too large", "/api/render", RenderRequest{Template: record("x"), Oversample: 1e6}, 400, "INVALID_INPUT"},
		{"canvas too tall", "/api/render", RenderRequest{Template: func() *strip.Record {
			rec := record("x")
			rec.CanvasHeight = 1e9
			return rec
		}(), Oversample: 1}, 400, "INVALID_TEMPLATE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}
}

func TestTemplateCRUD(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodPost, "/api/templates", record("first"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var saved SaveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	require.NotEmpty(t, saved.ID)

	rec = do(t, h, http.MethodGet, "/api/templates/"+saved.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got strip.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "first", got.Name)
	assert.Len(t, got.Slots, 3)

	time.Sleep(time.Millisecond)
	do(t, h, http.MethodPost, "/api/templates", record("second"))
	rec = do(t, h, http.MethodGet, "/api/templates", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []strip.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Name)

	rec = do(t, h, http.MethodDelete, "/api/templates/"+saved.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/templates/"+saved.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "TEMPLATE_NOT_FOUND", errorCode(t, rec))
}

func TestSaveInvalidTemplate(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv.Handler(), http.MethodPost, "/api/templates", record(""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTemplatesDisabled(t *testing.T) {
	srv := New()
	rec := do(t, srv.Handler(), http.MethodGet, "/api/templates", nil)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
	assert.Equal(t, "UNSUPPORTED", errorCode(t, rec))
}

func TestCORSPreflight(t *testing.T) {
	srv := New(WithCORSOrigins("http://booth.test"))
	req := httptest.NewRequest(http.MethodOptions, "/api/render", nil)
	req.Header.Set("Origin", "http://booth.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "http://booth.test", rec.Header().Get("Access-Control-Allow-Origin"))
}
