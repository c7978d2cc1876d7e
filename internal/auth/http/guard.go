package http

import (
	"context"
	"net/http"

	"github.com/kidstime/kidstime/internal/auth/denylist"
	"github.com/kidstime/kidstime/internal/auth/service"
	"github.com/kidstime/kidstime/pkg/httpx"
	"github.com/kidstime/kidstime/pkg/jwtx"
	"github.com/kidstime/kidstime/pkg/slogx"
)

// AccessLevel tags a route with who may call it.
type AccessLevel int

const (
	// AccessPublic routes take no token at all.
	AccessPublic AccessLevel = iota

	// AccessClient routes require a verified client access token.
	AccessClient

	// AccessAdmin routes require an admin access token.
	AccessAdmin
)

type ctxKey string

const (
	ctxKeyAdminClaims  ctxKey = "admin_claims"
	ctxKeyClientClaims ctxKey = "client_claims"
	ctxKeyAccessToken  ctxKey = "access_token"
)

// AdminFromContext returns the admin claims the guard attached.
func AdminFromContext(ctx context.Context) (jwtx.AdminClaims, bool) {
	c, ok := ctx.Value(ctxKeyAdminClaims).(jwtx.AdminClaims)
	return c, ok
}

// ClientFromContext returns the client claims the guard attached.
func ClientFromContext(ctx context.Context) (jwtx.ClientClaims, bool) {
	c, ok := ctx.Value(ctxKeyClientClaims).(jwtx.ClientClaims)
	return c, ok
}

// AccessTokenFromContext returns the raw bearer token the guard validated.
// The logout handlers use it to denylist the token being retired.
func AccessTokenFromContext(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(ctxKeyAccessToken).(string)
	return t, ok && t != ""
}

// Guard authenticates requests on gated routes. The only failure a caller
// can tell apart is the unverified-account 403; everything else collapses
// into a generic 401 so responses leak nothing about why a token was bad.
type Guard struct {
	Admins   *service.AdminSessionService
	Clients  *service.ClientSessionService
	Denylist *denylist.Denylist
}

// Require gates a route at the given access level.
func (g *Guard) Require(level AccessLevel) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if level == AccessPublic {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := httpx.BearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}

			ctx := r.Context()
			switch level {
			case AccessClient:
				claims, err := g.Clients.ValidateAccessToken(token)
				if err != nil {
					unauthorized(w)
					return
				}
				if !claims.IsVerified {
					httpx.WriteError(w, http.StatusForbidden, "please verify your account")
					return
				}
				if g.revoked(ctx, token) {
					unauthorized(w)
					return
				}
				ctx = context.WithValue(ctx, ctxKeyClientClaims, claims)
				ctx = context.WithValue(ctx, httpx.CtxKeyUserID, claims.ID)

			case AccessAdmin:
				claims, err := g.Admins.ValidateAccessToken(token)
				if err != nil {
					unauthorized(w)
					return
				}
				if g.revoked(ctx, token) {
					unauthorized(w)
					return
				}
				ctx = context.WithValue(ctx, ctxKeyAdminClaims, claims)
				ctx = context.WithValue(ctx, httpx.CtxKeyUserID, claims.ID)

			default:
				// A level nothing validates must never pass the guard.
				unauthorized(w)
				return
			}

			ctx = context.WithValue(ctx, ctxKeyAccessToken, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// revoked treats a denylist lookup failure as a hit: a token we cannot
// clear against the denylist is not accepted.
func (g *Guard) revoked(ctx context.Context, token string) bool {
	hit, err := g.Denylist.Contains(ctx, token)
	if err != nil {
		slogx.FromContext(ctx).Warn("denylist lookup failed", "error", err)
		return true
	}
	return hit
}

func unauthorized(w http.ResponseWriter) {
	httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
}
