// Package jwtx signs and verifies the HS256 token pairs used by the admin
// and client session services. Each actor namespace gets its own Codec with
// its own secret pair, so a token minted for one actor type can never verify
// under the other even if a caller routes it to the wrong codec.
package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSecret     = errors.New("jwtx: empty signing secret")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrInvalidToken = errors.New("jwtx: invalid token")
)

// Pair is one issuance result: a short-lived access token and a long-lived
// refresh token, both carrying the same claims projection.
type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Config carries the secret pair and TTLs for one actor namespace.
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration // defaults to DefaultAccessTokenTTL
	RefreshTTL    time.Duration // defaults to DefaultRefreshTokenTTL
	Issuer        string
}

type claimsPtr[T any] interface {
	*T
	jwt.Claims
	stamp(jwt.RegisteredClaims)
	subject() string
}

// Codec signs a claims payload into a token pair and verifies single tokens.
// It is a pure function of (claims, secrets, clock); it never touches the
// ledger or the denylist.
type Codec[T any, P claimsPtr[T]] struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
}

// AdminCodec signs and verifies admin tokens.
type AdminCodec = Codec[AdminClaims, *AdminClaims]

// ClientCodec signs and verifies client tokens.
type ClientCodec = Codec[ClientClaims, *ClientClaims]

func NewAdminCodec(cfg Config) (*AdminCodec, error) {
	return newCodec[AdminClaims, *AdminClaims](cfg)
}

func NewClientCodec(cfg Config) (*ClientCodec, error) {
	return newCodec[ClientClaims, *ClientClaims](cfg)
}

func newCodec[T any, P claimsPtr[T]](cfg Config) (*Codec[T, P], error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, ErrNoSecret
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTokenTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTokenTTL
	}
	return &Codec[T, P]{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		issuer:        cfg.Issuer,
	}, nil
}

// IssuePair signs payload twice: once under the access secret/TTL and once
// under the refresh secret/TTL. The payload is copied before stamping, so the
// caller's value is never mutated.
func (c *Codec[T, P]) IssuePair(payload T, now time.Time) (Pair, error) {
	access := payload
	P(&access).stamp(newRegistered(P(&access).subject(), c.issuer, c.accessTTL, now))
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, P(&access)).
		SignedString(c.accessSecret)
	if err != nil {
		return Pair{}, err
	}

	refresh := payload
	P(&refresh).stamp(newRegistered(P(&refresh).subject(), c.issuer, c.refreshTTL, now))
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, P(&refresh)).
		SignedString(c.refreshSecret)
	if err != nil {
		return Pair{}, err
	}

	return Pair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// VerifyAccess decodes an access token, checking signature and expiry.
func (c *Codec[T, P]) VerifyAccess(token string) (T, error) {
	return c.verify(token, c.accessSecret)
}

// VerifyRefresh decodes a refresh token, checking signature and expiry.
func (c *Codec[T, P]) VerifyRefresh(token string) (T, error) {
	return c.verify(token, c.refreshSecret)
}

// AccessTTL reports the configured access-token lifetime. The logout path
// uses it as the denylist TTL: after that long the token is dead on its own.
func (c *Codec[T, P]) AccessTTL() time.Duration { return c.accessTTL }

// RefreshTTL reports the configured refresh-token lifetime, which is also
// the refresh cookie's max age.
func (c *Codec[T, P]) RefreshTTL() time.Duration { return c.refreshTTL }

func (c *Codec[T, P]) verify(token string, secret []byte) (T, error) {
	var out T
	_, err := jwt.ParseWithClaims(token, P(&out),
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		var zero T
		if errors.Is(err, jwt.ErrTokenExpired) {
			return zero, ErrExpired
		}
		return zero, ErrInvalidToken
	}
	return out, nil
}
