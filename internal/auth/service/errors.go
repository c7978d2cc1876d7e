package service

import "errors"

var (
	// ErrUserNotFound means no principal exists for the given login key.
	ErrUserNotFound = errors.New("service: user not found")

	// ErrBadCredential means the principal exists but the password is wrong.
	ErrBadCredential = errors.New("service: bad credential")

	// ErrRefreshMissing means no refresh token was presented at all.
	ErrRefreshMissing = errors.New("service: refresh token missing")

	// ErrInvalidRefresh means the presented refresh token cannot continue a
	// session: it is not in the ledger, fails verification, or both.
	ErrInvalidRefresh = errors.New("service: invalid refresh token")

	// ErrInvalidAccess means the presented access token failed verification.
	ErrInvalidAccess = errors.New("service: invalid access token")

	// ErrEmailTaken means registration hit an existing account.
	ErrEmailTaken = errors.New("service: email already registered")

	// ErrAlreadyVerified means the account needs no further verification.
	ErrAlreadyVerified = errors.New("service: account already verified")

	// ErrWrongCode means the submitted verification code does not match.
	ErrWrongCode = errors.New("service: wrong verification code")

	// ErrCodeExpired means the verification code outlived its validity
	// window and a fresh one must be requested.
	ErrCodeExpired = errors.New("service: verification code expired")
)
