package sqlite

import (
	"context"

	"github.com/kidstime/kidstime/internal/auth/domain"
)

type adminUsersRepo struct {
	q dbtx
}

const adminUserColumns = `id, name, password_hash, created_at, updated_at`

func scanAdminUser(row interface{ Scan(...any) error }) (domain.AdminUser, error) {
	var a domain.AdminUser
	err := row.Scan(&a.ID, &a.Name, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *adminUsersRepo) GetByID(ctx context.Context, id string) (domain.AdminUser, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+adminUserColumns+` FROM admin_users WHERE id = ?`, id)

	a, err := scanAdminUser(row)
	if err != nil {
		return domain.AdminUser{}, mapNotFound(err)
	}
	return a, nil
}

func (r *adminUsersRepo) GetByName(ctx context.Context, name string) (domain.AdminUser, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+adminUserColumns+` FROM admin_users WHERE name = ?`, name)

	a, err := scanAdminUser(row)
	if err != nil {
		return domain.AdminUser{}, mapNotFound(err)
	}
	return a, nil
}

func (r *adminUsersRepo) Create(ctx context.Context, a domain.AdminUser) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO admin_users (id, name, password_hash) VALUES (?, ?, ?)`,
		a.ID, a.Name, a.PasswordHash)
	return mapConstraint(err)
}

func (r *adminUsersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var n int
	if err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM admin_users`).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}
