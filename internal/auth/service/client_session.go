package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/kidstime/kidstime/internal/auth/domain"
	"github.com/kidstime/kidstime/internal/auth/mail"
	"github.com/kidstime/kidstime/internal/auth/store"
	"github.com/kidstime/kidstime/pkg/cryptox"
	"github.com/kidstime/kidstime/pkg/idx"
	"github.com/kidstime/kidstime/pkg/jwtx"
)

// Client account defaults. New accounts start at level 1 with an empty exp
// bar; the exp economy itself lives outside auth.
const (
	initialLevel           = 1
	initialExpForNextLevel = 200
	verificationCodeDigits = 6
	DefaultCodeTTL         = 10 * time.Minute
)

// ClientSessionService runs the client account and session lifecycle:
// registration with email verification, login, refresh, logout and
// access-token validation.
type ClientSessionService struct {
	store   store.Store
	codec   *jwtx.ClientCodec
	mailer  mail.Sender
	log     *slog.Logger
	codeTTL time.Duration
	now     func() time.Time
}

func NewClientSessionService(
	st store.Store,
	codec *jwtx.ClientCodec,
	mailer mail.Sender,
	log *slog.Logger,
	codeTTL time.Duration,
) *ClientSessionService {
	if codeTTL <= 0 {
		codeTTL = DefaultCodeTTL
	}
	return &ClientSessionService{
		store:   st,
		codec:   codec,
		mailer:  mailer,
		log:     log,
		codeTTL: codeTTL,
		now:     time.Now,
	}
}

// Register creates an unverified account and mails it a verification code.
// Mail delivery is best effort: the account exists either way, and the code
// can be re-requested through ResendCode.
func (s *ClientSessionService) Register(ctx context.Context, nickName, email, password string) (domain.User, error) {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	code, err := cryptox.GenerateNumericCode(verificationCodeDigits)
	if err != nil {
		return domain.User{}, err
	}

	now := s.now().UTC()
	u := domain.User{
		ID:                      idx.New().String(),
		NickName:                nickName,
		Email:                   email,
		PasswordHash:            hash,
		Level:                   initialLevel,
		ExpRequiredForNextLevel: initialExpForNextLevel,
		VerificationCode:        code,
		VerificationCodeAt:      &now,
	}

	if err := s.store.Users().Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	if err := s.mailer.SendVerificationCode(ctx, u.Email, u.NickName, code); err != nil {
		s.log.WarnContext(ctx, "verification mail failed", "user_id", u.ID, "error", err)
	}

	s.log.InfoContext(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// Verify checks the submitted code against the account's pending one, marks
// the account verified and starts a session, so the client lands signed in
// right after verifying.
func (s *ClientSessionService) Verify(ctx context.Context, userID, code string) (jwtx.ClientClaims, jwtx.Pair, error) {
	u, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return jwtx.ClientClaims{}, jwtx.Pair{}, ErrUserNotFound
		}
		return jwtx.ClientClaims{}, jwtx.Pair{}, err
	}

	if u.IsVerified {
		return jwtx.ClientClaims{}, jwtx.Pair{}, ErrAlreadyVerified
	}
	if u.VerificationCode == "" || u.VerificationCode != code {
		return jwtx.ClientClaims{}, jwtx.Pair{}, ErrWrongCode
	}
	if u.VerificationCodeAt == nil || s.now().After(u.VerificationCodeAt.Add(s.codeTTL)) {
		return jwtx.ClientClaims{}, jwtx.Pair{}, ErrCodeExpired
	}

	if err := s.store.Users().SetVerified(ctx, u.ID); err != nil {
		return jwtx.ClientClaims{}, jwtx.Pair{}, err
	}
	u.IsVerified = true

	claims := claimsFromUser(u)
	pair, err := s.codec.IssuePair(claims, s.now())
	if err != nil {
		return jwtx.ClientClaims{}, jwtx.Pair{}, err
	}

	if _, err := s.store.UserTokens().Upsert(ctx, u.ID, pair.RefreshToken); err != nil {
		return jwtx.ClientClaims{}, jwtx.Pair{}, err
	}

	s.log.InfoContext(ctx, "user verified", "user_id", u.ID)
	return claims, pair, nil
}

// ResendCode replaces the account's pending verification code with a fresh
// one and mails it out.
func (s *ClientSessionService) ResendCode(ctx context.Context, userID string) error {
	u, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if u.IsVerified {
		return ErrAlreadyVerified
	}

	code, err := cryptox.GenerateNumericCode(verificationCodeDigits)
	if err != nil {
		return err
	}

	if err := s.store.Users().SetVerificationCode(ctx, u.ID, code, s.now().UTC()); err != nil {
		return err
	}

	return s.mailer.SendVerificationCode(ctx, u.Email, u.NickName, code)
}

// Login authenticates a user by email and password and starts a session.
// Unverified accounts may log in; protected routes reject them separately
// until they verify.
func (s *ClientSessionService) Login(ctx context.Context, email, password string) (jwtx.ClientClaims, jwtx.Pair, error) {
	u, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return jwtx.ClientClaims{}, jwtx.Pair{}, ErrUserNotFound
		}
		return jwtx.ClientClaims{}, jwtx.Pair{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		return jwtx.ClientClaims{}, jwtx.Pair{}, ErrBadCredential
	}

	claims := claimsFromUser(u)
	pair, err := s.codec.IssuePair(claims, s.now())
	if err != nil {
		return jwtx.ClientClaims{}, jwtx.Pair{}, err
	}

	if _, err := s.store.UserTokens().Upsert(ctx, u.ID, pair.RefreshToken); err != nil {
		return jwtx.ClientClaims{}, jwtx.Pair{}, err
	}

	s.log.InfoContext(ctx, "user logged in", "user_id", u.ID)
	return claims, pair, nil
}

// Refresh continues a session from a refresh token. The token must both be
// the user's current ledger entry and verify cryptographically. The new
// pair snapshots the user's current record, so level and verification
// changes since the last issuance become visible here.
func (s *ClientSessionService) Refresh(ctx context.Context, refreshToken string) (jwtx.ClientClaims, jwtx.Pair, error) {
	if refreshToken == "" {
		return jwtx.ClientClaims{}, jwtx.Pair{}, ErrRefreshMissing
	}

	rec, err := s.store.UserTokens().GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return jwtx.ClientClaims{}, jwtx.Pair{}, ErrInvalidRefresh
		}
		return jwtx.ClientClaims{}, jwtx.Pair{}, err
	}

	if _, err := s.codec.VerifyRefresh(refreshToken); err != nil {
		return jwtx.ClientClaims{}, jwtx.Pair{}, ErrInvalidRefresh
	}

	u, err := s.store.Users().GetByID(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return jwtx.ClientClaims{}, jwtx.Pair{}, ErrInvalidRefresh
		}
		return jwtx.ClientClaims{}, jwtx.Pair{}, err
	}

	claims := claimsFromUser(u)
	pair, err := s.codec.IssuePair(claims, s.now())
	if err != nil {
		return jwtx.ClientClaims{}, jwtx.Pair{}, err
	}

	if _, err := s.store.UserTokens().Upsert(ctx, u.ID, pair.RefreshToken); err != nil {
		return jwtx.ClientClaims{}, jwtx.Pair{}, err
	}

	return claims, pair, nil
}

// Logout ends the session whose refresh token is presented.
func (s *ClientSessionService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return ErrRefreshMissing
	}

	if err := s.store.UserTokens().DeleteByToken(ctx, refreshToken); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidRefresh
		}
		return err
	}
	return nil
}

// ValidateAccessToken verifies a client access token and returns its claims.
func (s *ClientSessionService) ValidateAccessToken(token string) (jwtx.ClientClaims, error) {
	claims, err := s.codec.VerifyAccess(token)
	if err != nil {
		return jwtx.ClientClaims{}, ErrInvalidAccess
	}
	return claims, nil
}

// AccessTokenTTL reports how long issued access tokens live; the logout
// handler uses it as the denylist TTL.
func (s *ClientSessionService) AccessTokenTTL() time.Duration {
	return s.codec.AccessTTL()
}

// RefreshTokenTTL reports how long issued refresh tokens live.
func (s *ClientSessionService) RefreshTokenTTL() time.Duration {
	return s.codec.RefreshTTL()
}

func claimsFromUser(u domain.User) jwtx.ClientClaims {
	return jwtx.NewClientClaims(
		u.ID, u.NickName, u.Email,
		u.Level, u.IsVerified,
		u.ExpRequiredForNextLevel, u.CurrentExp,
	)
}
