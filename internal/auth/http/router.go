package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/kidstime/kidstime/internal/auth/denylist"
	"github.com/kidstime/kidstime/internal/auth/service"
	"github.com/kidstime/kidstime/internal/auth/store"
	"github.com/kidstime/kidstime/pkg/httpx"
	"github.com/kidstime/kidstime/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store    store.Store
	denylist *denylist.Denylist
	guard    *Guard

	AdminSessions  *service.AdminSessionService
	ClientSessions *service.ClientSessionService
}

func NewRouter(
	buildVersion string,
	st store.Store,
	dl *denylist.Denylist,
	admins *service.AdminSessionService,
	clients *service.ClientSessionService,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:            http.NewServeMux(),
		buildVersion:   buildVersion,
		startTime:      time.Now(),
		logger:         logger,
		store:          st,
		denylist:       dl,
		AdminSessions:  admins,
		ClientSessions: clients,
	}

	r.guard = &Guard{Admins: admins, Clients: clients, Denylist: dl}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) ApplyRoutes() {
	r.registerAdminAuth()
	r.registerClientAuth()
	r.registerSystem()
}

func (r *Router) registerAdminAuth() {
	h := &AdminAuthHandler{Sessions: r.AdminSessions, Denylist: r.denylist}

	// POST /admin/auth/login - strict: credential guessing target
	r.Mux.Handle("POST /admin/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		))

	// GET /admin/auth/refresh - moderate: once per access-token lifetime
	r.Mux.Handle("GET /admin/auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		))

	// POST /admin/auth/logout - requires a live admin access token
	r.Mux.Handle("POST /admin/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			r.guard.Require(AccessAdmin),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		))
}

func (r *Router) registerClientAuth() {
	h := &ClientAuthHandler{Sessions: r.ClientSessions, Denylist: r.denylist}

	r.Mux.Handle("POST /auth/registration",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		))

	r.Mux.Handle("PATCH /auth/{userId}/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		))

	// POST /auth/{userId}/resend-code - strict: each call sends mail
	r.Mux.Handle("POST /auth/{userId}/resend-code",
		httpx.Chain(http.HandlerFunc(h.HandleResendCode),
			httpx.RateLimitByIP(httpx.StrictLimit),
		))

	r.Mux.Handle("POST /auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		))

	r.Mux.Handle("GET /auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		))

	// POST /auth/logout - requires a live, verified client access token
	r.Mux.Handle("POST /auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			r.guard.Require(AccessClient),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.store, r.denylist))
}
