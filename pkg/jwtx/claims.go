package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kidstime/kidstime/pkg/idx"
)

// Default token TTL constants for the two token kinds. The access token is
// short-lived because it can only be revoked through the denylist; the
// refresh token matches the 30-day cookie the clients hold.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
)

// AdminClaims is the projection of an admin user embedded in admin tokens.
// It is built once at issuance and never aliased to the live record.
type AdminClaims struct {
	jwt.RegisteredClaims

	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewAdminClaims builds the admin projection. Registered claims (exp, iat,
// iss) are stamped by the codec at signing time.
func NewAdminClaims(id, name string) AdminClaims {
	return AdminClaims{ID: id, Name: name}
}

func (c *AdminClaims) stamp(reg jwt.RegisteredClaims) { c.RegisteredClaims = reg }

// ClientClaims is the projection of a client user embedded in client tokens.
// Level and exp counters are carried for the gamification layer; they reflect
// the user at issuance time and only move on the next refresh or login.
type ClientClaims struct {
	jwt.RegisteredClaims

	ID                      string `json:"id"`
	NickName                string `json:"nickName"`
	Email                   string `json:"email"`
	Level                   int    `json:"level"`
	IsVerified              bool   `json:"isVerified"`
	ExpRequiredForNextLevel int    `json:"expRequiredForNextLevel"`
	CurrentExp              int    `json:"currentExp"`
}

func NewClientClaims(
	id, nickName, email string,
	level int,
	isVerified bool,
	expRequiredForNextLevel, currentExp int,
) ClientClaims {
	return ClientClaims{
		ID:                      id,
		NickName:                nickName,
		Email:                   email,
		Level:                   level,
		IsVerified:              isVerified,
		ExpRequiredForNextLevel: expRequiredForNextLevel,
		CurrentExp:              currentExp,
	}
}

func (c *ClientClaims) stamp(reg jwt.RegisteredClaims) { c.RegisteredClaims = reg }

func newRegistered(subject, issuer string, ttl time.Duration, now time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		// Unique jti per token: two issuances in the same second must still
		// produce distinct tokens, or ledger rotation becomes a no-op.
		ID:        idx.New().String(),
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (c *AdminClaims) subject() string  { return c.ID }
func (c *ClientClaims) subject() string { return c.ID }
