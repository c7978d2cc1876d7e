package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kidstime/kidstime/internal/auth/denylist"
	"github.com/kidstime/kidstime/internal/auth/service"
	"github.com/kidstime/kidstime/pkg/httpx"
	"github.com/kidstime/kidstime/pkg/jwtx"
	"github.com/kidstime/kidstime/pkg/slogx"
)

const adminCookiePath = "/admin/auth"

// AdminAuthHandler serves the back-office session endpoints.
type AdminAuthHandler struct {
	Sessions *service.AdminSessionService
	Denylist *denylist.Denylist
}

type adminLoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// adminView is the principal summary returned to the caller; registered JWT
// claims stay out of response bodies.
type adminView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type adminSessionResponse struct {
	Message      string    `json:"message"`
	User         adminView `json:"user"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
}

func newAdminView(c jwtx.AdminClaims) adminView {
	return adminView{ID: c.ID, Name: c.Name}
}

// HandleLogin serves POST /admin/auth/login. The refresh token travels only
// in the httpOnly cookie; the body carries the access token.
func (h *AdminAuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims, pair, err := h.Sessions.Login(r.Context(), req.Name, req.Password)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		httpx.WriteError(w, http.StatusNotFound, "admin not found")
		return
	case errors.Is(err, service.ErrBadCredential):
		httpx.WriteError(w, http.StatusBadRequest, "wrong password")
		return
	case err != nil:
		slogx.FromContext(r.Context()).Error("admin login failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	setRefreshCookie(w, adminCookiePath, pair.RefreshToken, h.Sessions.RefreshTokenTTL())
	httpx.WriteJSON(w, http.StatusOK, adminSessionResponse{
		Message:      "login success",
		User:         newAdminView(claims),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// HandleRefresh serves GET /admin/auth/refresh, rotating the cookie.
func (h *AdminAuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	claims, pair, err := h.Sessions.Refresh(r.Context(), refreshTokenFromRequest(r))
	if err != nil {
		if errors.Is(err, service.ErrRefreshMissing) || errors.Is(err, service.ErrInvalidRefresh) {
			unauthorized(w)
			return
		}
		slogx.FromContext(r.Context()).Error("admin refresh failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	setRefreshCookie(w, adminCookiePath, pair.RefreshToken, h.Sessions.RefreshTokenTTL())
	httpx.WriteJSON(w, http.StatusOK, adminSessionResponse{
		Message:      "refresh success",
		User:         newAdminView(claims),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// HandleLogout serves POST /admin/auth/logout (admin-gated). It removes the
// ledger row for the cookie token, denylists the access token that
// authorized this call, and clears the cookie.
func (h *AdminAuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.Sessions.Logout(ctx, refreshTokenFromRequest(r)); err != nil {
		if errors.Is(err, service.ErrRefreshMissing) || errors.Is(err, service.ErrInvalidRefresh) {
			unauthorized(w)
			return
		}
		slogx.FromContext(ctx).Error("admin logout failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if token, ok := AccessTokenFromContext(ctx); ok {
		if err := h.Denylist.Add(ctx, token, h.Sessions.AccessTokenTTL()); err != nil {
			// Ledger deletion already ended the session; the denylist only
			// accelerates access-token death.
			slogx.FromContext(ctx).Warn("denylist add failed", "error", err)
		}
	}

	clearRefreshCookie(w, adminCookiePath)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "logout success"})
}
