package gateway_test

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/sentinelsec/scangate/internal/gateway/app"
	"github.com/stretchr/testify/require"
)

/*
 * Common helpers for gateway end-to-end tests. The gateway runs in-process
 * over a temp-file SQLite database, with a fake scanner daemon standing in
 * for the real backend.
 */

const (
	testClientID     = "e2e-scanner"
	testClientSecret = "e2e-secret-value"
	testSigningKey   = "e2e-signing-key-0123456789abcdef"
)

// newFakeScanner serves just enough of a scanner management API for the
// gateway to drive: start returns job "1", status reports 50, stop succeeds.
func newFakeScanner(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/JSON/ascan/action/scan/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"scan":"1"}`))
	})
	mux.HandleFunc("/JSON/ascan/view/status/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"50"}`))
	})
	mux.HandleFunc("/JSON/ascan/action/stop/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Result":"OK"}`))
	})
	mux.HandleFunc("/JSON/core/view/version/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"version":"2.15.0"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// setupGateway boots the full application in the given mode and exposes it
// through an httptest server. Returns the gateway base URL.
func setupGateway(t *testing.T, mode string) string {
	t.Helper()

	scannerSrv := newFakeScanner(t)

	cfg := app.LoadConfig()
	cfg.Mode = mode
	cfg.SigningKey = testSigningKey
	cfg.DatabaseFile = filepath.Join(t.TempDir(), "scangate.db")
	cfg.Clients = testClientID + ":" + testClientSecret + ":scan:write scan:read"
	cfg.URLAllowList = "example.com,*.example.com"
	cfg.EngineURL = scannerSrv.URL

	application, err := app.New(cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(srv.Close)

	return srv.URL
}
