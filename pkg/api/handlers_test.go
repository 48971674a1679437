package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkall/classkit/pkg/index"
)

// fakeIndex is an in-memory ClassIndex for handler tests.
type fakeIndex struct {
	classes map[string]index.ClassSummary
	failAll bool
}

func (f *fakeIndex) Get(className string) (*index.ClassSummary, error) {
	if f.failAll {
		return nil, fmt.Errorf("boom")
	}
	summary, ok := f.classes[className]
	if !ok {
		return nil, fmt.Errorf("%w: %s", index.ErrNotIndexed, className)
	}
	return &summary, nil
}

func (f *fakeIndex) List(prefix string) ([]index.ClassSummary, error) {
	if f.failAll {
		return nil, fmt.Errorf("boom")
	}
	var out []index.ClassSummary
	for name, summary := range f.classes {
		if strings.HasPrefix(name, prefix) {
			out = append(out, summary)
		}
	}
	return out, nil
}

func newTestIndex() *fakeIndex {
	return &fakeIndex{classes: map[string]index.ClassSummary{
		"com/foo/Shape": {
			ClassName:           "com/foo/Shape",
			PermittedSubclasses: []string{"com/foo/Circle"},
		},
		"com/foo/Point": {
			ClassName:        "com/foo/Point",
			RecordComponents: []index.RecordComponent{{Name: "x", Descriptor: "I"}},
		},
		"org/bar/Plain": {
			ClassName: "org/bar/Plain",
		},
	}}
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	return resp
}

func TestHandleHealth(t *testing.T) {
	server := NewServer(newTestIndex(), ServerConfig{}, nil)

	rec := httptest.NewRecorder()
	server.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	resp := decodeResponse(t, rec)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, map[string]interface{}{"status": "healthy"}, resp.Data)
}

func TestHandleListClasses(t *testing.T) {
	server := NewServer(newTestIndex(), ServerConfig{}, nil)

	t.Run("all classes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.handleListClasses(rec, httptest.NewRequest(http.MethodGet, "/api/v1/classes", nil))

		resp := decodeResponse(t, rec)
		assert.True(t, resp.Success)
		assert.Len(t, resp.Data, 3)
	})

	t.Run("dot-form prefix is normalized", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.handleListClasses(rec, httptest.NewRequest(http.MethodGet, "/api/v1/classes?prefix=com.foo", nil))

		resp := decodeResponse(t, rec)
		assert.True(t, resp.Success)
		assert.Len(t, resp.Data, 2)
	})

	t.Run("index failure is a 500", func(t *testing.T) {
		failing := NewServer(&fakeIndex{failAll: true}, ServerConfig{}, nil)
		rec := httptest.NewRecorder()
		failing.handleListClasses(rec, httptest.NewRequest(http.MethodGet, "/api/v1/classes", nil))

		resp := decodeResponse(t, rec)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.False(t, resp.Success)
	})
}

func TestHandleGetClass(t *testing.T) {
	server := NewServer(newTestIndex(), ServerConfig{}, nil)

	get := func(name string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/classes/"+name, nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("name", name)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		rec := httptest.NewRecorder()
		server.handleGetClass(rec, req)
		return rec
	}

	t.Run("dot-form name resolves", func(t *testing.T) {
		rec := get("com.foo.Shape")
		resp := decodeResponse(t, rec)
		require.True(t, resp.Success)
		data, ok := resp.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "com/foo/Shape", data["class_name"])
	})

	t.Run("unknown class is a 404", func(t *testing.T) {
		rec := get("net.missing.Class")
		resp := decodeResponse(t, rec)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.False(t, resp.Success)
		assert.Equal(t, "Class not found", resp.Error)
	})
}

func TestHandleFilteredLists(t *testing.T) {
	server := NewServer(newTestIndex(), ServerConfig{}, nil)

	t.Run("records", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.handleListRecords(rec, httptest.NewRequest(http.MethodGet, "/api/v1/records", nil))

		resp := decodeResponse(t, rec)
		require.True(t, resp.Success)
		items, ok := resp.Data.([]interface{})
		require.True(t, ok)
		require.Len(t, items, 1)
		entry := items[0].(map[string]interface{})
		assert.Equal(t, "com/foo/Point", entry["class_name"])
	})

	t.Run("sealed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.handleListSealed(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sealed", nil))

		resp := decodeResponse(t, rec)
		require.True(t, resp.Success)
		items, ok := resp.Data.([]interface{})
		require.True(t, ok)
		require.Len(t, items, 1)
		entry := items[0].(map[string]interface{})
		assert.Equal(t, "com/foo/Shape", entry["class_name"])
	})
}

func TestRouter_EndToEnd(t *testing.T) {
	server := NewServer(newTestIndex(), ServerConfig{APIKey: "secret"}, nil)
	ts := httptest.NewServer(Router(server))
	defer ts.Close()

	t.Run("authorized request round-trips through the router", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/classes/com.foo.Point", nil)
		require.NoError(t, err)
		req.Header.Set("X-API-Key", "secret")

		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer res.Body.Close()
		require.Equal(t, http.StatusOK, res.StatusCode)

		var resp APIResponse
		require.NoError(t, json.NewDecoder(res.Body).Decode(&resp))
		require.True(t, resp.Success)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "com/foo/Point", data["class_name"])
	})

	t.Run("metrics endpoint is unprotected", func(t *testing.T) {
		res, err := http.Get(ts.URL + "/metrics")
		require.NoError(t, err)
		defer res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)
	})
}
