package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kidstime/kidstime/internal/auth/denylist"
	"github.com/kidstime/kidstime/internal/auth/domain"
	"github.com/kidstime/kidstime/internal/auth/service"
	"github.com/kidstime/kidstime/pkg/httpx"
	"github.com/kidstime/kidstime/pkg/jwtx"
	"github.com/kidstime/kidstime/pkg/slogx"
)

const clientCookiePath = "/auth"

// ClientAuthHandler serves the client account and session endpoints.
type ClientAuthHandler struct {
	Sessions *service.ClientSessionService
	Denylist *denylist.Denylist
}

type registerRequest struct {
	NickName string `json:"nickName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type clientLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Code string `json:"code"`
}

// clientView is the principal summary returned to the caller.
type clientView struct {
	ID                      string `json:"id"`
	NickName                string `json:"nickName"`
	Email                   string `json:"email"`
	Level                   int    `json:"level"`
	IsVerified              bool   `json:"isVerified"`
	ExpRequiredForNextLevel int    `json:"expRequiredForNextLevel"`
	CurrentExp              int    `json:"currentExp"`
}

type clientSessionResponse struct {
	Message      string     `json:"message"`
	User         clientView `json:"user"`
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
}

func newClientView(c jwtx.ClientClaims) clientView {
	return clientView{
		ID:                      c.ID,
		NickName:                c.NickName,
		Email:                   c.Email,
		Level:                   c.Level,
		IsVerified:              c.IsVerified,
		ExpRequiredForNextLevel: c.ExpRequiredForNextLevel,
		CurrentExp:              c.CurrentExp,
	}
}

func viewFromUser(u domain.User) clientView {
	return clientView{
		ID:                      u.ID,
		NickName:                u.NickName,
		Email:                   u.Email,
		Level:                   u.Level,
		IsVerified:              u.IsVerified,
		ExpRequiredForNextLevel: u.ExpRequiredForNextLevel,
		CurrentExp:              u.CurrentExp,
	}
}

// HandleRegister serves POST /auth/registration.
func (h *ClientAuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.NickName == "" || req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "nickName, email and password are required")
		return
	}

	u, err := h.Sessions.Register(r.Context(), req.NickName, req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		httpx.WriteError(w, http.StatusConflict, "email already registered")
		return
	case err != nil:
		slogx.FromContext(r.Context()).Error("registration failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "registration success, verification code sent",
		"user":    viewFromUser(u),
	})
}

// HandleVerify serves PATCH /auth/{userId}/verify. A successful verification
// signs the client in.
func (h *ClientAuthHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims, pair, err := h.Sessions.Verify(r.Context(), r.PathValue("userId"), req.Code)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		httpx.WriteError(w, http.StatusNotFound, "user not found")
		return
	case errors.Is(err, service.ErrWrongCode):
		httpx.WriteError(w, http.StatusBadRequest, "wrong verification code")
		return
	case errors.Is(err, service.ErrCodeExpired):
		httpx.WriteError(w, http.StatusBadRequest, "verification code expired")
		return
	case errors.Is(err, service.ErrAlreadyVerified):
		httpx.WriteError(w, http.StatusConflict, "account already verified")
		return
	case err != nil:
		slogx.FromContext(r.Context()).Error("verification failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	setRefreshCookie(w, clientCookiePath, pair.RefreshToken, h.Sessions.RefreshTokenTTL())
	httpx.WriteJSON(w, http.StatusOK, clientSessionResponse{
		Message:      "verification success",
		User:         newClientView(claims),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// HandleResendCode serves POST /auth/{userId}/resend-code.
func (h *ClientAuthHandler) HandleResendCode(w http.ResponseWriter, r *http.Request) {
	err := h.Sessions.ResendCode(r.Context(), r.PathValue("userId"))
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		httpx.WriteError(w, http.StatusNotFound, "user not found")
		return
	case errors.Is(err, service.ErrAlreadyVerified):
		httpx.WriteError(w, http.StatusConflict, "account already verified")
		return
	case err != nil:
		slogx.FromContext(r.Context()).Error("resend code failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "verification code sent"})
}

// HandleLogin serves POST /auth/login.
func (h *ClientAuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req clientLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims, pair, err := h.Sessions.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		httpx.WriteError(w, http.StatusNotFound, "user not found")
		return
	case errors.Is(err, service.ErrBadCredential):
		httpx.WriteError(w, http.StatusBadRequest, "wrong password")
		return
	case err != nil:
		slogx.FromContext(r.Context()).Error("login failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	setRefreshCookie(w, clientCookiePath, pair.RefreshToken, h.Sessions.RefreshTokenTTL())
	httpx.WriteJSON(w, http.StatusOK, clientSessionResponse{
		Message:      "login success",
		User:         newClientView(claims),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// HandleRefresh serves GET /auth/refresh, rotating the cookie.
func (h *ClientAuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	claims, pair, err := h.Sessions.Refresh(r.Context(), refreshTokenFromRequest(r))
	if err != nil {
		if errors.Is(err, service.ErrRefreshMissing) || errors.Is(err, service.ErrInvalidRefresh) {
			unauthorized(w)
			return
		}
		slogx.FromContext(r.Context()).Error("refresh failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	setRefreshCookie(w, clientCookiePath, pair.RefreshToken, h.Sessions.RefreshTokenTTL())
	httpx.WriteJSON(w, http.StatusOK, clientSessionResponse{
		Message:      "refresh success",
		User:         newClientView(claims),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// HandleLogout serves POST /auth/logout (client-gated).
func (h *ClientAuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.Sessions.Logout(ctx, refreshTokenFromRequest(r)); err != nil {
		if errors.Is(err, service.ErrRefreshMissing) || errors.Is(err, service.ErrInvalidRefresh) {
			unauthorized(w)
			return
		}
		slogx.FromContext(ctx).Error("logout failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if token, ok := AccessTokenFromContext(ctx); ok {
		if err := h.Denylist.Add(ctx, token, h.Sessions.AccessTokenTTL()); err != nil {
			slogx.FromContext(ctx).Warn("denylist add failed", "error", err)
		}
	}

	clearRefreshCookie(w, clientCookiePath)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "logout success"})
}
