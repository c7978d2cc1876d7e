package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/kidstime/kidstime/internal/auth/store"
	"github.com/kidstime/kidstime/pkg/cryptox"
	"github.com/kidstime/kidstime/pkg/jwtx"
)

// AdminSessionService runs the admin session lifecycle: login, refresh,
// logout and access-token validation. It owns the admin refresh-token
// ledger; the denylist is consulted at the HTTP boundary, not here.
type AdminSessionService struct {
	store store.Store
	codec *jwtx.AdminCodec
	log   *slog.Logger
	now   func() time.Time
}

func NewAdminSessionService(st store.Store, codec *jwtx.AdminCodec, log *slog.Logger) *AdminSessionService {
	return &AdminSessionService{
		store: st,
		codec: codec,
		log:   log,
		now:   time.Now,
	}
}

// Login authenticates an admin by name and password and starts a session:
// a fresh token pair is issued and the refresh token replaces whatever the
// ledger held for this admin before.
func (s *AdminSessionService) Login(ctx context.Context, name, password string) (jwtx.AdminClaims, jwtx.Pair, error) {
	admin, err := s.store.AdminUsers().GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return jwtx.AdminClaims{}, jwtx.Pair{}, ErrUserNotFound
		}
		return jwtx.AdminClaims{}, jwtx.Pair{}, err
	}

	if err := cryptox.VerifyPassword(password, admin.PasswordHash); err != nil {
		return jwtx.AdminClaims{}, jwtx.Pair{}, ErrBadCredential
	}

	claims := jwtx.NewAdminClaims(admin.ID, admin.Name)
	pair, err := s.codec.IssuePair(claims, s.now())
	if err != nil {
		return jwtx.AdminClaims{}, jwtx.Pair{}, err
	}

	if _, err := s.store.AdminTokens().Upsert(ctx, admin.ID, pair.RefreshToken); err != nil {
		return jwtx.AdminClaims{}, jwtx.Pair{}, err
	}

	s.log.InfoContext(ctx, "admin logged in", "admin_id", admin.ID)
	return claims, pair, nil
}

// Refresh continues a session from a refresh token. The token must both be
// the admin's current ledger entry and verify cryptographically; either
// check failing alone rejects the refresh. A new pair is issued from the
// admin's current record and rotated into the ledger.
func (s *AdminSessionService) Refresh(ctx context.Context, refreshToken string) (jwtx.AdminClaims, jwtx.Pair, error) {
	if refreshToken == "" {
		return jwtx.AdminClaims{}, jwtx.Pair{}, ErrRefreshMissing
	}

	rec, err := s.store.AdminTokens().GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return jwtx.AdminClaims{}, jwtx.Pair{}, ErrInvalidRefresh
		}
		return jwtx.AdminClaims{}, jwtx.Pair{}, err
	}

	if _, err := s.codec.VerifyRefresh(refreshToken); err != nil {
		return jwtx.AdminClaims{}, jwtx.Pair{}, ErrInvalidRefresh
	}

	admin, err := s.store.AdminUsers().GetByID(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return jwtx.AdminClaims{}, jwtx.Pair{}, ErrInvalidRefresh
		}
		return jwtx.AdminClaims{}, jwtx.Pair{}, err
	}

	claims := jwtx.NewAdminClaims(admin.ID, admin.Name)
	pair, err := s.codec.IssuePair(claims, s.now())
	if err != nil {
		return jwtx.AdminClaims{}, jwtx.Pair{}, err
	}

	if _, err := s.store.AdminTokens().Upsert(ctx, admin.ID, pair.RefreshToken); err != nil {
		return jwtx.AdminClaims{}, jwtx.Pair{}, err
	}

	return claims, pair, nil
}

// Logout ends the session whose refresh token is presented by removing its
// ledger row. A token that is not in the ledger (already logged out, or
// never issued) is rejected.
func (s *AdminSessionService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return ErrRefreshMissing
	}

	if err := s.store.AdminTokens().DeleteByToken(ctx, refreshToken); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidRefresh
		}
		return err
	}
	return nil
}

// ValidateAccessToken verifies an admin access token and returns its claims.
func (s *AdminSessionService) ValidateAccessToken(token string) (jwtx.AdminClaims, error) {
	claims, err := s.codec.VerifyAccess(token)
	if err != nil {
		return jwtx.AdminClaims{}, ErrInvalidAccess
	}
	return claims, nil
}

// AccessTokenTTL reports how long issued access tokens live; the logout
// handler uses it as the denylist TTL.
func (s *AdminSessionService) AccessTokenTTL() time.Duration {
	return s.codec.AccessTTL()
}

// RefreshTokenTTL reports how long issued refresh tokens live.
func (s *AdminSessionService) RefreshTokenTTL() time.Duration {
	return s.codec.RefreshTTL()
}
