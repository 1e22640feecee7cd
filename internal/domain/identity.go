package domain

import (
	"crypto/rand"
	"encoding/hex"
)

// IdentityKind distinguishes cart owners.
type IdentityKind string

const (
	// IdentityUser marks a cart owned by an authenticated user.
	IdentityUser IdentityKind = "user"
	// IdentityGuest marks a cart owned by an anonymous session token.
	IdentityGuest IdentityKind = "guest"
)

// Identity is the unit a cart belongs to: either an authenticated user or a
// guest session token, never both. Every cart operation receives an explicit
// Identity value.
type Identity struct {
	Kind IdentityKind
	ID   string
}

// UserIdentity builds the identity of an authenticated user.
func UserIdentity(userID string) Identity {
	return Identity{Kind: IdentityUser, ID: userID}
}

// GuestIdentity builds the identity of a guest session token.
func GuestIdentity(token string) Identity {
	return Identity{Kind: IdentityGuest, ID: token}
}

// IsUser reports whether the identity belongs to an authenticated user.
func (i Identity) IsUser() bool {
	return i.Kind == IdentityUser && i.ID != ""
}

// IsZero reports whether no identity has been resolved yet.
func (i Identity) IsZero() bool {
	return i.ID == ""
}

const guestTokenLen = 40

// NewGuestToken mints an opaque session token for a guest cart. Tokens are
// fixed-length hex so they survive query strings and local storage unescaped.
func NewGuestToken() (string, error) {
	b := make([]byte, guestTokenLen/2)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
