package domain

import "time"

// RefreshToken is the persisted ledger row mapping a principal to its one
// live refresh token. Issuing a new token overwrites the value in place, so
// the previous refresh token stops working for session continuation even
// though the JWT itself stays cryptographically valid until expiry.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string // the signed refresh token, stored verbatim
	CreatedAt time.Time
	UpdatedAt time.Time
}
