package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focuscrawl/internal/metrics"
)

func TestClient_Get(t *testing.T) {
	agents := make(chan string, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case agents <- r.Header.Get("User-Agent"):
		default:
		}
		switch r.URL.Path {
		case "/big":
			_, _ = w.Write([]byte(strings.Repeat("x", 100)))
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<a href="/home">home</a>`))
		default:
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html></html>"))
		}
	}))
	defer srv.Close()

	c := New(srv.Client(), "focuscrawl-test", time.Second, 10)
	pages := testutil.ToFloat64(metrics.PagesFetched)
	bytes := testutil.ToFloat64(metrics.BytesFetched)

	resp, err := c.Get(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	assert.Equal(t, pages+1, testutil.ToFloat64(metrics.PagesFetched))
	assert.Equal(t, bytes+10, testutil.ToFloat64(metrics.BytesFetched))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html", resp.ContentType)
	assert.Equal(t, "<html></ht", string(resp.Body))
	assert.Equal(t, 10, resp.Size)
	assert.Equal(t, "focuscrawl-test", <-agents)

	resp, err = c.Get(context.Background(), srv.URL+"/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := New(srv.Client(), "t", 50*time.Millisecond, 1<<20)
	_, err := c.Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestClient_BadURL(t *testing.T) {
	c := New(nil, "t", time.Second, 1<<20)
	_, err := c.Get(context.Background(), "http://%zz")
	assert.Error(t, err)
}
