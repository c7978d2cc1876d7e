package sqlite

import (
	"context"
	"time"

	"github.com/kidstime/kidstime/internal/auth/domain"
	"github.com/kidstime/kidstime/pkg/idx"
)

// tokensRepo serves both refresh-token ledgers; table selects which one.
type tokensRepo struct {
	q     dbtx
	table string
}

const tokenColumns = `id, user_id, token, created_at, updated_at`

func scanToken(row interface{ Scan(...any) error }) (domain.RefreshToken, error) {
	var t domain.RefreshToken
	err := row.Scan(&t.ID, &t.UserID, &t.Token, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// Upsert writes the principal's current refresh token. The user_id UNIQUE
// constraint makes the insert an in-place rotation for returning principals.
func (r *tokensRepo) Upsert(ctx context.Context, userID, token string) (domain.RefreshToken, error) {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO `+r.table+` (id, user_id, token)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			token = excluded.token,
			updated_at = CURRENT_TIMESTAMP`,
		idx.New().String(), userID, token)
	if err != nil {
		return domain.RefreshToken{}, err
	}

	row := r.q.QueryRowContext(ctx,
		`SELECT `+tokenColumns+` FROM `+r.table+` WHERE user_id = ?`, userID)

	t, err := scanToken(row)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	return t, nil
}

func (r *tokensRepo) GetByToken(ctx context.Context, token string) (domain.RefreshToken, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+tokenColumns+` FROM `+r.table+` WHERE token = ?`, token)

	t, err := scanToken(row)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	return t, nil
}

func (r *tokensRepo) DeleteByToken(ctx context.Context, token string) error {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM `+r.table+` WHERE token = ?`, token)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *tokensRepo) DeleteStale(ctx context.Context, cutoff time.Time) error {
	// updated_at is written by CURRENT_TIMESTAMP, so compare in the same
	// "YYYY-MM-DD HH:MM:SS" text form.
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM `+r.table+` WHERE updated_at < ?`,
		cutoff.UTC().Format("2006-01-02 15:04:05"))
	return err
}
