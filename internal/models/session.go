package models

import "time"

// Session is the store-backed record of an issued token. The JWT itself
// carries identity and expiry; this row exists so logout can revoke a token
// before its expiry.
type Session struct {
	TokenID   string     `json:"tokenId"` // jti claim
	UserID    int        `json:"userId"`
	Role      Role       `json:"role"` // role snapshot at issue time
	IssuedAt  time.Time  `json:"issuedAt"`
	ExpiresAt time.Time  `json:"expiresAt"`
	RevokedAt *time.Time `json:"revokedAt,omitempty"`
}

// Revoked reports whether the session has been explicitly revoked
func (s *Session) Revoked() bool {
	return s.RevokedAt != nil
}

// Actor is the authenticated identity the access-control middleware attaches
// to the request context.
type Actor struct {
	UserID  int
	Email   string
	Role    Role
	TokenID string
}
