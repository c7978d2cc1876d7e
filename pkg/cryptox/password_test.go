package cryptox_test

import (
	"testing"

	"github.com/kidstime/kidstime/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := cryptox.HashPassword("David123!")
	require.NoError(t, err)
	require.NotEqual(t, "David123!", hash)

	require.NoError(t, cryptox.VerifyPassword("David123!", hash))
	require.Error(t, cryptox.VerifyPassword("WrongPass", hash))
}

func TestHashesAreSalted(t *testing.T) {
	t.Parallel()

	a, err := cryptox.HashPassword("Test123!")
	require.NoError(t, err)
	b, err := cryptox.HashPassword("Test123!")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.NoError(t, cryptox.VerifyPassword("Test123!", a))
	require.NoError(t, cryptox.VerifyPassword("Test123!", b))
}

func TestGenerateNumericCode(t *testing.T) {
	t.Parallel()

	code, err := cryptox.GenerateNumericCode(6)
	require.NoError(t, err)
	require.Len(t, code, 6)
	for _, r := range code {
		require.GreaterOrEqual(t, r, '0')
		require.LessOrEqual(t, r, '9')
	}

	_, err = cryptox.GenerateNumericCode(0)
	require.Error(t, err)
}
