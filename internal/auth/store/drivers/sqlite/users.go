package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/kidstime/kidstime/internal/auth/domain"
	"github.com/kidstime/kidstime/internal/auth/store"
)

type usersRepo struct {
	q dbtx
}

const userColumns = `id, nick_name, email, password_hash, level,
	exp_required_for_next_level, current_exp, is_verified,
	verification_code, verification_code_at, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var (
		u    domain.User
		code sql.NullString
		at   sql.NullTime
	)

	err := row.Scan(
		&u.ID, &u.NickName, &u.Email, &u.PasswordHash, &u.Level,
		&u.ExpRequiredForNextLevel, &u.CurrentExp, &u.IsVerified,
		&code, &at, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}

	u.VerificationCode = code.String
	if at.Valid {
		t := at.Time
		u.VerificationCodeAt = &t
	}
	return u, nil
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)

	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) Create(ctx context.Context, u domain.User) error {
	var at any
	if u.VerificationCodeAt != nil {
		at = u.VerificationCodeAt.UTC()
	}

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (
			id, nick_name, email, password_hash, level,
			exp_required_for_next_level, current_exp, is_verified,
			verification_code, verification_code_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.NickName, u.Email, u.PasswordHash, u.Level,
		u.ExpRequiredForNextLevel, u.CurrentExp, u.IsVerified,
		nullString(u.VerificationCode), at)
	return mapConstraint(err)
}

func (r *usersRepo) SetVerified(ctx context.Context, userID string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET is_verified = 1,
		    verification_code = NULL,
		    verification_code_at = NULL,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *usersRepo) SetVerificationCode(ctx context.Context, userID, code string, at time.Time) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET verification_code = ?,
		    verification_code_at = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, code, at.UTC(), userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
