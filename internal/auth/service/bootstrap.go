package service

import (
	"context"
	"log/slog"

	"github.com/kidstime/kidstime/internal/auth/domain"
	"github.com/kidstime/kidstime/internal/auth/store"
	"github.com/kidstime/kidstime/pkg/cryptox"
	"github.com/kidstime/kidstime/pkg/idx"
)

// SeedAdmin creates the initial back-office admin when the admin table is
// empty. Runs at startup; a non-empty table makes it a no-op so restarts
// never duplicate or reset the account.
func SeedAdmin(ctx context.Context, st store.Store, log *slog.Logger, name, password string) error {
	if name == "" || password == "" {
		log.InfoContext(ctx, "admin seed skipped, no credentials configured")
		return nil
	}

	empty, err := st.AdminUsers().IsEmpty(ctx)
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return err
	}

	admin := domain.AdminUser{
		ID:           idx.New().String(),
		Name:         name,
		PasswordHash: hash,
	}
	if err := st.AdminUsers().Create(ctx, admin); err != nil {
		return err
	}

	log.InfoContext(ctx, "seeded initial admin", "admin_id", admin.ID, "name", name)
	return nil
}
