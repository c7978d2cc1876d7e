package store

import (
	"context"
	"errors"
	"time"

	"github.com/kidstime/kidstime/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. Admins and clients live in separate tables with separate
// ledgers, so each actor namespace gets its own pair of repositories.
type Store interface {
	AdminUsers() AdminUsers
	Users() Users

	// AdminTokens and UserTokens are the two refresh-token ledgers. They
	// share a shape but address different tables; a client refresh token
	// can never be found through the admin ledger.
	AdminTokens() RefreshTokens
	UserTokens() RefreshTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction scoped to the same interfaces.
	// The caller MUST Commit() or Rollback().
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn inside a transaction, committing when fn returns nil
	// and rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type AdminUsers interface {
	// GetByID returns an admin by id.
	GetByID(ctx context.Context, id string) (domain.AdminUser, error)

	// GetByName looks an admin up by its unique name (the login key).
	GetByName(ctx context.Context, name string) (domain.AdminUser, error)

	// Create inserts a new admin (id provided by the app via ULID).
	Create(ctx context.Context, a domain.AdminUser) error

	// IsEmpty reports whether any admin exists; used by the seed step.
	IsEmpty(ctx context.Context) (bool, error)
}

type Users interface {
	// GetByID returns a client user by id.
	GetByID(ctx context.Context, id string) (domain.User, error)

	// GetByEmail looks a user up by its unique email (the login key).
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// Create inserts a new user. Duplicate emails fail with ErrAlreadyExists.
	Create(ctx context.Context, u domain.User) error

	// SetVerified flips is_verified and clears the pending code.
	SetVerified(ctx context.Context, userID string) error

	// SetVerificationCode stores a fresh code and its issuance time.
	SetVerificationCode(ctx context.Context, userID, code string, at time.Time) error
}

// RefreshTokens is one refresh-token ledger: at most one row per principal.
type RefreshTokens interface {
	// Upsert writes the principal's current refresh token, overwriting any
	// previous row for the same principal. Returns the resulting record.
	Upsert(ctx context.Context, userID, token string) (domain.RefreshToken, error)

	// GetByToken finds the ledger row holding exactly this token value.
	GetByToken(ctx context.Context, token string) (domain.RefreshToken, error)

	// DeleteByToken removes the row holding this token value, failing with
	// ErrNotFound when no such row exists (the session was already
	// terminated or never existed).
	DeleteByToken(ctx context.Context, token string) error

	// DeleteStale removes rows not touched since the cutoff; the tokens in
	// them expired on their own long ago. Housekeeping only.
	DeleteStale(ctx context.Context, cutoff time.Time) error
}
