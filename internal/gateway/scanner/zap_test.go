package scanner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, handler http.HandlerFunc) *ZAPEngine {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewZAPEngine(srv.URL, "test-key", 5*time.Second)
}

func TestZAPEngine_StartScan(t *testing.T) {
	t.Parallel()

	t.Run("returns backend scan id", func(t *testing.T) {
		t.Parallel()

		engine := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/JSON/ascan/action/scan/", r.URL.Path)
			require.Equal(t, "test-key", r.Header.Get("X-ZAP-API-Key"))
			require.Equal(t, "https://example.com", r.URL.Query().Get("url"))
			require.Equal(t, "true", r.URL.Query().Get("recurse"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"scan":"3"}`))
		})

		jobID, err := engine.StartScan(context.Background(), "https://example.com", Options{Recurse: true})
		require.NoError(t, err)
		require.Equal(t, "3", jobID)
	})

	t.Run("backend failure maps to ErrUpstream", func(t *testing.T) {
		t.Parallel()

		engine := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := engine.StartScan(context.Background(), "https://example.com", Options{})
		require.ErrorIs(t, err, ErrUpstream)
	})

	t.Run("unreachable backend maps to ErrUpstream", func(t *testing.T) {
		t.Parallel()

		engine := NewZAPEngine("http://127.0.0.1:1", "", time.Second)
		_, err := engine.StartScan(context.Background(), "https://example.com", Options{})
		require.ErrorIs(t, err, ErrUpstream)
	})
}

func TestZAPEngine_Progress(t *testing.T) {
	t.Parallel()

	t.Run("parses percentage", func(t *testing.T) {
		t.Parallel()

		engine := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/JSON/ascan/view/status/", r.URL.Path)
			require.Equal(t, "7", r.URL.Query().Get("scanId"))
			_, _ = w.Write([]byte(`{"status":"42"}`))
		})

		progress, err := engine.Progress(context.Background(), "7")
		require.NoError(t, err)
		require.Equal(t, 42, progress)
	})

	t.Run("unknown job maps to ErrUnknownJob", func(t *testing.T) {
		t.Parallel()

		engine := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := engine.Progress(context.Background(), "99")
		require.ErrorIs(t, err, ErrUnknownJob)
	})

	t.Run("garbage progress maps to ErrUpstream", func(t *testing.T) {
		t.Parallel()

		engine := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"not-a-number"}`))
		})

		_, err := engine.Progress(context.Background(), "1")
		require.ErrorIs(t, err, ErrUpstream)
	})
}

func TestZAPEngine_Stop(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/JSON/ascan/action/stop/", r.URL.Path)
		_, _ = w.Write([]byte(`{"Result":"OK"}`))
	})

	require.NoError(t, engine.Stop(context.Background(), "3"))
}

func TestZAPEngine_Ping(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/JSON/core/view/version/", r.URL.Path)
		_, _ = w.Write([]byte(`{"version":"2.15.0"}`))
	})

	require.NoError(t, engine.Ping(context.Background()))
}
