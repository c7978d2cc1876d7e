package jwtx_test

import (
	"testing"
	"time"

	"github.com/kidstime/kidstime/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func adminCodec(t *testing.T, cfg jwtx.Config) *jwtx.AdminCodec {
	t.Helper()
	c, err := jwtx.NewAdminCodec(cfg)
	require.NoError(t, err)
	return c
}

func clientCodec(t *testing.T, cfg jwtx.Config) *jwtx.ClientCodec {
	t.Helper()
	c, err := jwtx.NewClientCodec(cfg)
	require.NoError(t, err)
	return c
}

func TestNewCodecRequiresSecrets(t *testing.T) {
	t.Parallel()

	_, err := jwtx.NewAdminCodec(jwtx.Config{AccessSecret: "a"})
	require.ErrorIs(t, err, jwtx.ErrNoSecret)

	_, err = jwtx.NewClientCodec(jwtx.Config{RefreshSecret: "r"})
	require.ErrorIs(t, err, jwtx.ErrNoSecret)
}

func TestAdminRoundTrip(t *testing.T) {
	t.Parallel()

	codec := adminCodec(t, jwtx.Config{
		AccessSecret:  "admin-access",
		RefreshSecret: "admin-refresh",
		Issuer:        "kidstime",
	})

	pair, err := codec.IssuePair(jwtx.NewAdminClaims("01ADMIN", "David"), time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := codec.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "01ADMIN", access.ID)
	require.Equal(t, "David", access.Name)
	require.Equal(t, "kidstime", access.Issuer)

	refresh, err := codec.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, "01ADMIN", refresh.ID)
}

func TestClientRoundTrip(t *testing.T) {
	t.Parallel()

	codec := clientCodec(t, jwtx.Config{
		AccessSecret:  "client-access",
		RefreshSecret: "client-refresh",
	})

	payload := jwtx.NewClientClaims("01USER", "David7", "dawut@gmail.com", 3, true, 450, 120)
	pair, err := codec.IssuePair(payload, time.Now())
	require.NoError(t, err)

	claims, err := codec.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "01USER", claims.ID)
	require.Equal(t, "David7", claims.NickName)
	require.Equal(t, "dawut@gmail.com", claims.Email)
	require.Equal(t, 3, claims.Level)
	require.True(t, claims.IsVerified)
	require.Equal(t, 450, claims.ExpRequiredForNextLevel)
	require.Equal(t, 120, claims.CurrentExp)
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	t.Parallel()

	codec := adminCodec(t, jwtx.Config{
		AccessSecret:  "admin-access",
		RefreshSecret: "admin-refresh",
	})

	pair, err := codec.IssuePair(jwtx.NewAdminClaims("01ADMIN", "David"), time.Now())
	require.NoError(t, err)

	_, err = codec.VerifyAccess(pair.RefreshToken)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)

	_, err = codec.VerifyRefresh(pair.AccessToken)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
}

func TestActorNamespacesAreIsolated(t *testing.T) {
	t.Parallel()

	admins := adminCodec(t, jwtx.Config{
		AccessSecret:  "admin-access",
		RefreshSecret: "admin-refresh",
	})
	clients := clientCodec(t, jwtx.Config{
		AccessSecret:  "client-access",
		RefreshSecret: "client-refresh",
	})

	adminPair, err := admins.IssuePair(jwtx.NewAdminClaims("01ADMIN", "David"), time.Now())
	require.NoError(t, err)

	clientPair, err := clients.IssuePair(
		jwtx.NewClientClaims("01USER", "David7", "dawut@gmail.com", 1, true, 200, 0),
		time.Now(),
	)
	require.NoError(t, err)

	_, err = clients.VerifyAccess(adminPair.AccessToken)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)

	_, err = admins.VerifyAccess(clientPair.AccessToken)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
}

func TestExpiredTokenRejected(t *testing.T) {
	t.Parallel()

	codec := adminCodec(t, jwtx.Config{
		AccessSecret:  "admin-access",
		RefreshSecret: "admin-refresh",
	})

	// Issued far enough in the past that both tokens are already expired.
	issuedAt := time.Now().Add(-31 * 24 * time.Hour)
	pair, err := codec.IssuePair(jwtx.NewAdminClaims("01ADMIN", "David"), issuedAt)
	require.NoError(t, err)

	_, err = codec.VerifyAccess(pair.AccessToken)
	require.ErrorIs(t, err, jwtx.ErrExpired)

	_, err = codec.VerifyRefresh(pair.RefreshToken)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestTamperedTokenRejected(t *testing.T) {
	t.Parallel()

	codec := adminCodec(t, jwtx.Config{
		AccessSecret:  "admin-access",
		RefreshSecret: "admin-refresh",
	})

	pair, err := codec.IssuePair(jwtx.NewAdminClaims("01ADMIN", "David"), time.Now())
	require.NoError(t, err)

	tampered := pair.AccessToken[:len(pair.AccessToken)-2] + "xx"
	_, err = codec.VerifyAccess(tampered)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)

	_, err = codec.VerifyAccess("not-a-jwt")
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
}

func TestClaimsAreIssuanceSnapshots(t *testing.T) {
	t.Parallel()

	codec := clientCodec(t, jwtx.Config{
		AccessSecret:  "client-access",
		RefreshSecret: "client-refresh",
	})

	payload := jwtx.NewClientClaims("01USER", "David7", "dawut@gmail.com", 1, false, 200, 0)
	pair, err := codec.IssuePair(payload, time.Now())
	require.NoError(t, err)

	// Mutating the caller's value after issuance must not affect the token.
	payload.Level = 99
	payload.IsVerified = true

	claims, err := codec.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, 1, claims.Level)
	require.False(t, claims.IsVerified)
}
