package envcheck

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frontend = "https://shop.example.com"

func backend(t *testing.T, allowOrigin string, productsStatus int) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Origin") != "" && allowOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("/api/v1/products", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Origin") != "" && allowOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		}
		w.WriteHeader(productsStatus)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRunAllPass(t *testing.T) {
	srv := backend(t, frontend, http.StatusOK)

	report, err := New(srv.URL+"/", frontend).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Pass, report.Health.Status)
	assert.Equal(t, Pass, report.CORS.Status)
	assert.Equal(t, Pass, report.API.Status)
	assert.True(t, report.OK())
}

func TestCORSWildcardPasses(t *testing.T) {
	srv := backend(t, "*", http.StatusUnauthorized)

	c := New(srv.URL, frontend)
	assert.Equal(t, Pass, c.CheckCORS(context.Background()).Status)

	api := c.CheckAPI(context.Background())
	assert.Equal(t, Warn, api.Status)
	assert.Contains(t, api.Detail, "without matching CORS header")
}

func TestCORSFailures(t *testing.T) {
	t.Run("missing header", func(t *testing.T) {
		srv := backend(t, "", http.StatusOK)
		res := New(srv.URL, frontend).CheckCORS(context.Background())
		assert.Equal(t, Fail, res.Status)
		assert.Contains(t, res.Detail, "missing")
	})

	t.Run("other origin", func(t *testing.T) {
		srv := backend(t, "https://elsewhere.example.com", http.StatusOK)
		report, err := New(srv.URL, frontend).Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, Fail, report.CORS.Status)
		assert.False(t, report.OK())
	})

	t.Run("no frontend", func(t *testing.T) {
		srv := backend(t, "*", http.StatusOK)
		res := New(srv.URL, "").CheckCORS(context.Background())
		assert.Equal(t, Fail, res.Status)
	})
}

func TestHealthFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, frontend)
	health := c.CheckHealth(context.Background())
	assert.Equal(t, Fail, health.Status)
	assert.Equal(t, "status 503", health.Detail)

	api := c.CheckAPI(context.Background())
	assert.Equal(t, Warn, api.Status)
	assert.Equal(t, "status 404", api.Detail)
}

func TestHealthWithoutStatusField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	res := New(srv.URL, frontend).CheckHealth(context.Background())
	assert.Equal(t, Fail, res.Status)
}

func TestRequestHeaders(t *testing.T) {
	var gotAgent, gotOrigin string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		gotOrigin = r.Header.Get("Origin")
		w.Header().Set("Access-Control-Allow-Origin", frontend)
	}))
	defer srv.Close()

	New(srv.URL, frontend).CheckCORS(context.Background())
	assert.Equal(t, userAgent, gotAgent)
	assert.Equal(t, frontend, gotOrigin)
}

func TestRunWithoutBackend(t *testing.T) {
	_, err := New("  ", frontend).Run(context.Background())
	assert.ErrorIs(t, err, ErrNoBackend)
}

func TestUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	report, err := New(url, frontend).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Fail, report.Health.Status)
	assert.Equal(t, Fail, report.CORS.Status)
	assert.Equal(t, Warn, report.API.Status)
}

func TestReportWrite(t *testing.T) {
	var buf bytes.Buffer
	Report{
		Health: Result{Name: "Health", Status: Pass, Detail: "status ok"},
		CORS:   Result{Name: "CORS", Status: Fail, Detail: "header missing"},
		API:    Result{Name: "API", Status: Warn, Detail: "status 500"},
	}.Write(&buf)

	out := buf.String()
	assert.Contains(t, out, "Health  PASS  status ok")
	assert.Contains(t, out, "CORS    FAIL  header missing")
	assert.Contains(t, out, "API     WARN  status 500")
}
