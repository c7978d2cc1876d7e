package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kidstime/kidstime/internal/auth/domain"
	"github.com/kidstime/kidstime/internal/auth/store"
	"github.com/kidstime/kidstime/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedAdmin(t *testing.T, s *Store, name string) domain.AdminUser {
	t.Helper()

	a := domain.AdminUser{
		ID:           idx.New().String(),
		Name:         name,
		PasswordHash: "x",
	}
	require.NoError(t, s.AdminUsers().Create(context.Background(), a))
	return a
}

func seedUser(t *testing.T, s *Store, email string) domain.User {
	t.Helper()

	u := domain.User{
		ID:                      idx.New().String(),
		NickName:                "kiddo",
		Email:                   email,
		PasswordHash:            "x",
		Level:                   1,
		ExpRequiredForNextLevel: 200,
	}
	require.NoError(t, s.Users().Create(context.Background(), u))
	return u
}

func TestAdminUsers_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	empty, err := s.AdminUsers().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	a := seedAdmin(t, s, "root")

	got, err := s.AdminUsers().GetByName(ctx, "root")
	require.NoError(t, err)
	require.Equal(t, a.ID, got.ID)
	require.False(t, got.CreatedAt.IsZero())

	got, err = s.AdminUsers().GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, "root", got.Name)

	empty, err = s.AdminUsers().IsEmpty(ctx)
	require.NoError(t, err)
	require.False(t, empty)
}

func TestAdminUsers_DuplicateName(t *testing.T) {
	s := newTestStore(t)

	seedAdmin(t, s, "root")

	err := s.AdminUsers().Create(context.Background(), domain.AdminUser{
		ID:           idx.New().String(),
		Name:         "root",
		PasswordHash: "y",
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestAdminUsers_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AdminUsers().GetByName(context.Background(), "ghost")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsers_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "kid@example.com")

	got, err := s.Users().GetByEmail(ctx, "kid@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, 1, got.Level)
	require.Equal(t, 200, got.ExpRequiredForNextLevel)
	require.Equal(t, 0, got.CurrentExp)
	require.False(t, got.IsVerified)
	require.Nil(t, got.VerificationCodeAt)
}

func TestUsers_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)

	seedUser(t, s, "kid@example.com")

	err := s.Users().Create(context.Background(), domain.User{
		ID:           idx.New().String(),
		NickName:     "other",
		Email:        "kid@example.com",
		PasswordHash: "x",
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUsers_VerificationLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "kid@example.com")

	issued := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.Users().SetVerificationCode(ctx, u.ID, "123456", issued))

	got, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "123456", got.VerificationCode)
	require.NotNil(t, got.VerificationCodeAt)
	require.WithinDuration(t, issued, *got.VerificationCodeAt, time.Second)

	require.NoError(t, s.Users().SetVerified(ctx, u.ID))

	got, err = s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.IsVerified)
	require.Empty(t, got.VerificationCode)
	require.Nil(t, got.VerificationCodeAt)
}

func TestUsers_SetVerified_Missing(t *testing.T) {
	s := newTestStore(t)

	err := s.Users().SetVerified(context.Background(), idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTokens_UpsertRotatesInPlace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "kid@example.com")
	ledger := s.UserTokens()

	first, err := ledger.Upsert(ctx, u.ID, "refresh-1")
	require.NoError(t, err)
	require.Equal(t, u.ID, first.UserID)
	require.Equal(t, "refresh-1", first.Token)

	second, err := ledger.Upsert(ctx, u.ID, "refresh-2")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID, "rotation must reuse the row")
	require.Equal(t, "refresh-2", second.Token)

	// The rotated-out token no longer resolves.
	_, err = ledger.GetByToken(ctx, "refresh-1")
	require.ErrorIs(t, err, store.ErrNotFound)

	got, err := ledger.GetByToken(ctx, "refresh-2")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.UserID)
}

func TestTokens_LedgersAreIsolated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := seedAdmin(t, s, "root")

	_, err := s.AdminTokens().Upsert(ctx, a.ID, "admin-refresh")
	require.NoError(t, err)

	_, err = s.UserTokens().GetByToken(ctx, "admin-refresh")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.AdminTokens().GetByToken(ctx, "admin-refresh")
	require.NoError(t, err)
}

func TestTokens_DeleteByToken(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "kid@example.com")
	ledger := s.UserTokens()

	_, err := ledger.Upsert(ctx, u.ID, "refresh-1")
	require.NoError(t, err)

	require.NoError(t, ledger.DeleteByToken(ctx, "refresh-1"))

	// Double logout: the row is already gone.
	require.ErrorIs(t, ledger.DeleteByToken(ctx, "refresh-1"), store.ErrNotFound)
}

func TestTokens_CascadeOnUserDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "kid@example.com")

	_, err := s.UserTokens().Upsert(ctx, u.ID, "refresh-1")
	require.NoError(t, err)

	_, err = s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, u.ID)
	require.NoError(t, err)

	_, err = s.UserTokens().GetByToken(ctx, "refresh-1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTokens_DeleteStale(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "kid@example.com")
	ledger := s.UserTokens()

	_, err := ledger.Upsert(ctx, u.ID, "refresh-1")
	require.NoError(t, err)

	// A cutoff in the past keeps the fresh row.
	require.NoError(t, ledger.DeleteStale(ctx, time.Now().Add(-time.Hour)))
	_, err = ledger.GetByToken(ctx, "refresh-1")
	require.NoError(t, err)

	// A cutoff in the future sweeps it.
	require.NoError(t, ledger.DeleteStale(ctx, time.Now().Add(time.Hour)))
	_, err = ledger.GetByToken(ctx, "refresh-1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	errBoom := context.Canceled
	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.AdminUsers().Create(ctx, domain.AdminUser{
			ID:           idx.New().String(),
			Name:         "root",
			PasswordHash: "x",
		}); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	empty, err := s.AdminUsers().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)
}

func TestWithTx_Commits(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx store.Tx) error {
		return tx.AdminUsers().Create(ctx, domain.AdminUser{
			ID:           idx.New().String(),
			Name:         "root",
			PasswordHash: "x",
		})
	})
	require.NoError(t, err)

	_, err = s.AdminUsers().GetByName(ctx, "root")
	require.NoError(t, err)
}
