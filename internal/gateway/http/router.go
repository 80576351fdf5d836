package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sentinelsec/scangate/internal/gateway/service"
	"github.com/sentinelsec/scangate/internal/gateway/store"
	"github.com/sentinelsec/scangate/pkg/httpx"
	"github.com/sentinelsec/scangate/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	TokenService   *service.TokenService
	GatewayService *service.GatewayService
	ScanService    *service.ScanService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerScans()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
//
//	@title			ScanGate API
//	@version		0.1.0
//	@description	Access-control gateway for a web security scanner. Issues
//	@description	JWT token pairs to registered clients and enforces URL
//	@description	safety policy before scans reach the backend engine.
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// Without a signing key there is no token service and nothing to mount;
	// the gateway then runs purely on its shared secret or open mode.
	if r.TokenService == nil {
		return
	}

	tokenHandler := &TokenHandler{TokenService: r.TokenService}
	refreshHandler := &RefreshHandler{TokenService: r.TokenService}
	revokeHandler := &RevokeHandler{TokenService: r.TokenService}
	validateHandler := &ValidateHandler{TokenService: r.TokenService}

	// Credential exchange gets the strict limit; it is the brute-force surface.
	r.Mux.Handle("POST /auth/token",
		httpx.Chain(tokenHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		))

	r.Mux.Handle("POST /auth/refresh",
		httpx.Chain(refreshHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		))

	r.Mux.Handle("POST /auth/revoke",
		httpx.Chain(revokeHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		))

	r.Mux.Handle("GET /auth/validate",
		httpx.Chain(validateHandler,
			httpx.RateLimitByIP(httpx.LenientLimit),
		))
}

func (r *Router) registerScans() {
	scansHandler := &ScansHandler{ScanService: r.ScanService}
	gate := AuthGateway(r.GatewayService)

	// The gateway runs before the rate limiter so limits key on the
	// authenticated client rather than the source address.
	r.Mux.Handle("POST /v1/scans",
		httpx.Chain(http.HandlerFunc(scansHandler.HandleCreate),
			gate,
			httpx.RateLimitByClient(httpx.ModerateLimit),
			httpx.RequireScope("scan:write"),
		))

	r.Mux.Handle("GET /v1/scans/{id}",
		httpx.Chain(http.HandlerFunc(scansHandler.HandleStatus),
			gate,
			httpx.RateLimitByClient(httpx.LenientLimit),
			httpx.RequireScope("scan:read"),
		))

	r.Mux.Handle("DELETE /v1/scans/{id}",
		httpx.Chain(http.HandlerFunc(scansHandler.HandleStop),
			gate,
			httpx.RateLimitByClient(httpx.ModerateLimit),
			httpx.RequireScope("scan:write"),
		))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.TokenService, r.ScanService))
}
